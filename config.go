package modules

import "github.com/goliatone/go-cms-modules/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrGenerationMaxCount      = runtimeconfig.ErrGenerationMaxCount
	ErrGenerationProvider      = runtimeconfig.ErrGenerationProvider
	ErrGenerationImageProvider = runtimeconfig.ErrGenerationImageProvider
	ErrGenerationAPIKey        = runtimeconfig.ErrGenerationAPIKey
	ErrImagesFeatureRequires   = runtimeconfig.ErrImagesFeatureRequires
	ErrModuleTypeInvalid       = runtimeconfig.ErrModuleTypeInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	GenerationConfig  = runtimeconfig.GenerationConfig
	RetryConfig       = runtimeconfig.RetryConfig
	MediaConfig       = runtimeconfig.MediaConfig
	OrderingConfig    = runtimeconfig.OrderingConfig
	ModuleTypeConfig  = runtimeconfig.ModuleTypeConfig
	ModuleFieldConfig = runtimeconfig.ModuleFieldConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

// DefaultConfig returns an in-memory configuration using the offline fixture
// provider.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
