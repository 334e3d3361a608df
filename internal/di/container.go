package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-modules/internal/adapters/storage"
	"github.com/goliatone/go-cms-modules/internal/catalog"
	"github.com/goliatone/go-cms-modules/internal/commands"
	itemscmd "github.com/goliatone/go-cms-modules/internal/commands/items"
	"github.com/goliatone/go-cms-modules/internal/generation"
	adminhttp "github.com/goliatone/go-cms-modules/internal/http"
	"github.com/goliatone/go-cms-modules/internal/importer"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/logging/console"
	"github.com/goliatone/go-cms-modules/internal/logging/gologger"
	"github.com/goliatone/go-cms-modules/internal/logging/zaplogger"
	"github.com/goliatone/go-cms-modules/internal/markdown"
	"github.com/goliatone/go-cms-modules/internal/media"
	"github.com/goliatone/go-cms-modules/internal/notifications"
	"github.com/goliatone/go-cms-modules/internal/providers/anthropic"
	"github.com/goliatone/go-cms-modules/internal/providers/fixture"
	genaiprovider "github.com/goliatone/go-cms-modules/internal/providers/genai"
	"github.com/goliatone/go-cms-modules/internal/providers/ratelimit"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
	"github.com/goliatone/go-cms-modules/internal/table"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// ErrDatabaseRequired is returned when a SQL driver is configured but no
// database could be opened or supplied.
var ErrDatabaseRequired = errors.New("di: database required for sql storage")

// Container wires module dependencies. Every binding can be overridden
// through an Option before the defaults are built.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	migrations    fs.FS
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	clock func() time.Time
	ids   items.IDGenerator

	registry   *catalog.Registry
	itemRepo   items.ItemRepository
	itemSvc    items.Service
	renderer   *markdown.Renderer
	mediaStore media.Store

	structured interfaces.StructuredContentProvider
	images     interfaces.ImageGenerator
	genSvc     generation.Service
	notifier   interfaces.Notifier

	handlers *itemscmd.Handlers
	tables   *table.Factory
	admin    *adminhttp.AdminAPI
	importer *importer.Importer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The container never closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMigrations applies the SQL migrations in fsys when the container opens
// or receives a database.
func WithMigrations(fsys fs.FS) Option {
	return func(c *Container) {
		c.migrations = fsys
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		c.ids = generator
	}
}

// WithRegistry replaces the default module type registry.
func WithRegistry(registry *catalog.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

func WithItemRepository(repo items.ItemRepository) Option {
	return func(c *Container) {
		c.itemRepo = repo
	}
}

func WithItemService(svc items.Service) Option {
	return func(c *Container) {
		c.itemSvc = svc
	}
}

func WithStructuredProvider(provider interfaces.StructuredContentProvider) Option {
	return func(c *Container) {
		c.structured = provider
	}
}

func WithImageGenerator(generator interfaces.ImageGenerator) Option {
	return func(c *Container) {
		c.images = generator
	}
}

func WithMediaStore(store media.Store) Option {
	return func(c *Container) {
		c.mediaStore = store
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

func WithGenerationService(svc generation.Service) Option {
	return func(c *Container) {
		c.genSvc = svc
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.DefaultTTL,
		clock:    time.Now,
		ids:      uuid.New,
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureRegistry(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureItems()
	if err := c.configureGeneration(); err != nil {
		c.Close()
		return nil, err
	}
	c.configurePresentation()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := buildLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "cms.modules")
	return nil
}

func buildLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "console":
		level := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	case "zap":
		return zaplogger.NewProvider(zaplogger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func (c *Container) configureRegistry() error {
	if c.registry == nil {
		c.registry = catalog.NewDefaultRegistry()
	}
	return catalog.Load(c.registry, c.Config.ModuleTypes)
}

func (c *Container) configureStorage() error {
	driver := storage.Normalize(c.Config.Storage.Driver)
	if c.bunDB == nil && driver != storage.DriverMemory && c.itemRepo == nil {
		db, err := storage.Open(c.Config.Storage)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDatabaseRequired, err)
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil || c.migrations == nil {
		return nil
	}
	applied, err := storage.Migrate(context.Background(), c.bunDB, c.migrations)
	if err != nil {
		c.Close()
		return err
	}
	if len(applied) > 0 {
		c.logger.Info("storage.migrations.applied", "migrations", applied)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.itemRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.itemRepo = items.NewBunItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.itemRepo = items.NewMemoryItemRepository()
}

func (c *Container) configureItems() {
	// Seed imports carry authored markdown and may embed HTML. Generated
	// content gets its own safe renderer.
	if c.renderer == nil {
		c.renderer = markdown.NewRenderer(markdown.Options{})
	}
	if c.itemSvc == nil {
		ordering := items.NewOrdering(c.itemRepo, items.WithMaxAppendRetries(c.Config.Ordering.MaxAppendRetries))
		c.itemSvc = items.NewService(c.itemRepo, c.registry,
			items.WithOrdering(ordering),
			items.WithClock(c.clock),
			items.WithIDGenerator(c.ids),
			items.WithTranslations(c.Config.Features.Translations),
			items.WithLogger(logging.ItemsLogger(c.loggerProvider)),
		)
	}
	if c.notifier == nil {
		c.notifier = notifications.Contextual(notifications.NewLogNotifier(c.logger))
	}
	c.importer = importer.New(c.itemSvc, c.registry,
		importer.WithRenderer(c.renderer),
		importer.WithLogger(logging.ModuleLogger(c.loggerProvider, "cms.modules.importer")),
	)
}

// GenerationEnabled reports whether AI population is switched on.
func (c *Container) GenerationEnabled() bool {
	return c.Config.Features.Generation && c.Config.Generation.Enabled
}

// ImagesEnabled reports whether generated items receive images.
func (c *Container) ImagesEnabled() bool {
	return c.GenerationEnabled() && c.Config.Features.Images
}

func (c *Container) configureGeneration() error {
	if c.genSvc != nil || !c.GenerationEnabled() {
		return nil
	}
	gen := c.Config.Generation
	policy := ratelimit.NewPolicy(ratelimit.Config{
		RequestsPerSecond: gen.RateLimit,
		Burst:             gen.Burst,
		MaxAttempts:       gen.Retry.MaxAttempts,
		Backoff:           gen.Retry.Backoff,
		MaxBackoff:        10 * gen.Retry.Backoff,
	})

	if c.mediaStore == nil {
		c.mediaStore = media.NewFileStore(c.Config.Media.Dir, c.Config.Media.BaseURL)
	}

	if c.structured == nil {
		provider, err := c.buildStructured(gen)
		if err != nil {
			return err
		}
		c.structured = provider
		if _, offline := provider.(*fixture.Structured); !offline {
			c.structured = ratelimit.WrapStructured(provider, policy)
		}
	}
	if c.images == nil && c.ImagesEnabled() {
		generator, err := c.buildImages(gen)
		if err != nil {
			return err
		}
		if generator != nil {
			c.images = generator
			if _, offline := generator.(*fixture.Images); !offline {
				c.images = ratelimit.WrapImages(generator, policy)
			}
		}
	}

	opts := []generation.Option{
		generation.WithNotifier(c.notifier),
		generation.WithLogger(logging.GenerationLogger(c.loggerProvider)),
		generation.WithMaxCount(gen.MaxCount),
		generation.WithRenderer(markdown.NewRenderer(markdown.Options{Safe: true})),
	}
	if c.images != nil && c.ImagesEnabled() {
		opts = append(opts, generation.WithImageGenerator(c.images))
	}
	c.genSvc = generation.NewService(c.itemSvc, c.registry, c.structured, opts...)
	c.logger.Info("generation.configured",
		"provider", gen.Provider,
		"images", c.images != nil,
		"max_count", c.genSvc.MaxCount(),
	)
	return nil
}

func (c *Container) buildStructured(gen runtimeconfig.GenerationConfig) (interfaces.StructuredContentProvider, error) {
	switch strings.ToLower(strings.TrimSpace(gen.Provider)) {
	case "anthropic":
		return anthropic.New(gen.ResolveAPIKey(), anthropic.WithModel(gen.Model))
	case "genai":
		client, err := genaiprovider.NewClient(context.Background(), gen.ResolveAPIKey())
		if err != nil {
			return nil, err
		}
		return genaiprovider.NewContentProvider(client, gen.Model), nil
	default:
		return fixture.NewStructured(), nil
	}
}

func (c *Container) buildImages(gen runtimeconfig.GenerationConfig) (interfaces.ImageGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(gen.ImageProvider)) {
	case "fixture":
		return fixture.NewImages(), nil
	case "genai":
		client, err := genaiprovider.NewClient(context.Background(), gen.ResolveImageAPIKey())
		if err != nil {
			return nil, err
		}
		return genaiprovider.NewImageGenerator(client, gen.ImageModel, c.mediaStore), nil
	default:
		return nil, nil
	}
}

func (c *Container) configurePresentation() {
	gates := itemscmd.FeatureGates{
		GenerationEnabled:   c.GenerationEnabled,
		TranslationsEnabled: func() bool { return c.Config.Features.Translations },
	}
	c.handlers = itemscmd.NewHandlers(c.itemSvc, c.genSvc, commands.CommandLogger(c.loggerProvider, "items"), gates)
	c.tables = table.NewFactory(c.itemSvc, c.handlers, c.registry,
		table.WithNotifier(c.notifier),
		table.WithLogger(logging.TableLogger(c.loggerProvider)),
	)
	c.admin = adminhttp.NewAdminAPI(c.tables, c.registry,
		adminhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Logger() interfaces.Logger { return c.logger }

func (c *Container) DB() *bun.DB { return c.bunDB }

func (c *Container) Registry() *catalog.Registry { return c.registry }

func (c *Container) ItemRepository() items.ItemRepository { return c.itemRepo }

func (c *Container) ItemService() items.Service { return c.itemSvc }

// GenerationService is nil when generation is disabled.
func (c *Container) GenerationService() generation.Service { return c.genSvc }

func (c *Container) StructuredProvider() interfaces.StructuredContentProvider { return c.structured }

func (c *Container) ImageGenerator() interfaces.ImageGenerator { return c.images }

func (c *Container) Notifier() interfaces.Notifier { return c.notifier }

func (c *Container) Handlers() *itemscmd.Handlers { return c.handlers }

func (c *Container) Tables() *table.Factory { return c.tables }

func (c *Container) AdminAPI() *adminhttp.AdminAPI { return c.admin }

func (c *Container) Importer() *importer.Importer { return c.importer }
