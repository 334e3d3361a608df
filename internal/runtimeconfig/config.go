package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	ErrStorageDriverUnknown    = errors.New("cms modules config: storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("cms modules config: storage dsn is required for sql drivers")
	ErrCacheTTLInvalid         = errors.New("cms modules config: cache ttl must be positive when cache is enabled")
	ErrGenerationMaxCount      = errors.New("cms modules config: generation max count must be between 1 and 10")
	ErrGenerationProvider      = errors.New("cms modules config: generation provider is invalid")
	ErrGenerationImageProvider = errors.New("cms modules config: generation image provider is invalid")
	ErrGenerationAPIKey        = errors.New("cms modules config: generation provider requires an api key")
	ErrGenerationRateInvalid   = errors.New("cms modules config: generation rate limit must be zero or positive")
	ErrImagesFeatureRequires   = errors.New("cms modules config: images feature requires generation to be enabled")
	ErrMediaDirRequired        = errors.New("cms modules config: media directory is required for stored images")
	ErrOrderingRetriesInvalid  = errors.New("cms modules config: ordering retries must be positive")
	ErrModuleTypeInvalid       = errors.New("cms modules config: module type definition is invalid")

	ErrLoggingProviderRequired = errors.New("cms modules config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("cms modules config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("cms modules config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("cms modules config: logging format is invalid")
)

// Maximum number of items one generation request may ask for.
const GenerationHardMaxCount = 10

// Environment variables consulted when Generation.APIKey is empty.
const (
	AnthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	GeminiAPIKeyEnv    = "GEMINI_API_KEY"
)

// Config aggregates storage, generation, and presentation settings for the
// modules runtime.
type Config struct {
	Storage     StorageConfig
	Cache       CacheConfig
	Generation  GenerationConfig
	Media       MediaConfig
	Ordering    OrderingConfig
	ModuleTypes []ModuleTypeConfig
	Features    Features
	Logging     LoggingConfig
}

// StorageConfig selects the item repository backend.
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres.
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles for the bun repository.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// GenerationConfig wires the structured content and image providers.
type GenerationConfig struct {
	Enabled  bool
	MaxCount int
	// Provider is one of fixture, anthropic, genai.
	Provider string
	Model    string
	// ImageProvider is one of none, fixture, genai.
	ImageProvider string
	ImageModel    string
	APIKey        string
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit float64
	Burst     int
	Retry     RetryConfig
}

type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// MediaConfig controls where generated image bytes land and how they are served.
type MediaConfig struct {
	Dir     string
	BaseURL string
}

type OrderingConfig struct {
	MaxAppendRetries int
}

// ModuleTypeConfig declares an extra module type on top of the built-ins.
type ModuleTypeConfig struct {
	Type       string
	Label      string
	PromptHint string
	Fields     []ModuleFieldConfig
}

type ModuleFieldConfig struct {
	Name  string
	Label string
	// Kind is one of text, textarea, richtext, url, image.
	Kind        string
	Required    bool
	Default     any
	Description string
	MaxLength   int
}

// Features toggles module functionality.
type Features struct {
	Generation   bool
	Images       bool
	Translations bool
	Logger       bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a runnable in-memory configuration with the offline
// fixture provider.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Generation: GenerationConfig{
			Enabled:       true,
			MaxCount:      GenerationHardMaxCount,
			Provider:      "fixture",
			ImageProvider: "none",
			RateLimit:     2,
			Burst:         1,
			Retry: RetryConfig{
				MaxAttempts: 3,
				Backoff:     500 * time.Millisecond,
			},
		},
		Media: MediaConfig{
			Dir:     "media",
			BaseURL: "/media",
		},
		Ordering: OrderingConfig{
			MaxAppendRetries: 3,
		},
		Features: Features{
			Generation:   true,
			Translations: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Driver) {
	case "memory", "":
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Ordering.MaxAppendRetries < 0 {
		return ErrOrderingRetriesInvalid
	}
	if cfg.Features.Images && !cfg.Features.Generation {
		return ErrImagesFeatureRequires
	}
	if cfg.Features.Generation {
		if err := cfg.Generation.validate(cfg.Features.Images); err != nil {
			return err
		}
		if cfg.Features.Images && normalize(cfg.Generation.ImageProvider) == "genai" &&
			strings.TrimSpace(cfg.Media.Dir) == "" {
			return ErrMediaDirRequired
		}
	}
	for _, mt := range cfg.ModuleTypes {
		if err := mt.validate(); err != nil {
			return err
		}
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider != "console" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (g GenerationConfig) validate(images bool) error {
	if g.MaxCount < 1 || g.MaxCount > GenerationHardMaxCount {
		return fmt.Errorf("%w: %d", ErrGenerationMaxCount, g.MaxCount)
	}
	if g.RateLimit < 0 || g.Burst < 0 {
		return ErrGenerationRateInvalid
	}
	provider := normalize(g.Provider)
	switch provider {
	case "fixture":
	case "anthropic", "genai":
		if g.ResolveAPIKey() == "" {
			return fmt.Errorf("%w: %s", ErrGenerationAPIKey, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrGenerationProvider, g.Provider)
	}
	if !images {
		return nil
	}
	switch normalize(g.ImageProvider) {
	case "none", "", "fixture":
	case "genai":
		if g.resolveKey("genai") == "" {
			return fmt.Errorf("%w: genai images", ErrGenerationAPIKey)
		}
	default:
		return fmt.Errorf("%w: %s", ErrGenerationImageProvider, g.ImageProvider)
	}
	return nil
}

// ResolveAPIKey returns the configured key or the provider's environment fallback.
func (g GenerationConfig) ResolveAPIKey() string {
	return g.resolveKey(g.Provider)
}

// ResolveImageAPIKey is ResolveAPIKey for the image provider.
func (g GenerationConfig) ResolveImageAPIKey() string {
	return g.resolveKey(g.ImageProvider)
}

func (g GenerationConfig) resolveKey(provider string) string {
	if key := strings.TrimSpace(g.APIKey); key != "" {
		return key
	}
	switch normalize(provider) {
	case "anthropic":
		return strings.TrimSpace(os.Getenv(AnthropicAPIKeyEnv))
	case "genai":
		return strings.TrimSpace(os.Getenv(GeminiAPIKeyEnv))
	}
	return ""
}

func (m ModuleTypeConfig) validate() error {
	if strings.TrimSpace(m.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrModuleTypeInvalid)
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("%w: %s declares no fields", ErrModuleTypeInvalid, m.Type)
	}
	for _, f := range m.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: %s has an unnamed field", ErrModuleTypeInvalid, m.Type)
		}
		switch normalize(f.Kind) {
		case "", "text", "textarea", "richtext", "url", "image":
		default:
			return fmt.Errorf("%w: %s.%s kind %q", ErrModuleTypeInvalid, m.Type, f.Name, f.Kind)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
