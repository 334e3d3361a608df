// Package importer loads markdown seed files into module item lists.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/identity"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/markdown"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

var ErrServiceRequired = errors.New("importer: item service is required")

// Options adjusts a single import run.
type Options struct {
	// Pattern filters seed files; defaults to "*.md".
	Pattern string
	// DryRun parses and resolves every seed without writing.
	DryRun bool
}

// Result summarises an import run.
type Result struct {
	Created []uuid.UUID
	Updated []uuid.UUID
	Skipped []uuid.UUID
	Errors  []error
}

// Importer turns seed files into items. Seed file names decide item order on
// first import and item identity on every import.
type Importer struct {
	items       items.Service
	descriptors items.DescriptorSource
	renderer    *markdown.Renderer
	logger      interfaces.Logger
}

type Option func(*Importer)

func WithRenderer(renderer *markdown.Renderer) Option {
	return func(i *Importer) {
		if renderer != nil {
			i.renderer = renderer
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		i.logger = logging.Ensure(logger)
	}
}

func New(service items.Service, descriptors items.DescriptorSource, opts ...Option) *Importer {
	i := &Importer{
		items:       service,
		descriptors: descriptors,
		renderer:    markdown.NewRenderer(markdown.Options{}),
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportDir imports every seed in dir into scope.
func (i *Importer) ImportDir(ctx context.Context, scope items.Scope, dir string, opts Options) (*Result, error) {
	return i.ImportFS(ctx, scope, os.DirFS(dir), opts)
}

// ImportFS imports the seeds found at the root of fsys, sorted by file name.
// Re-importing a file updates the item created for it earlier.
func (i *Importer) ImportFS(ctx context.Context, scope items.Scope, fsys fs.FS, opts Options) (*Result, error) {
	if i == nil || i.items == nil {
		return nil, ErrServiceRequired
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	desc, err := i.descriptors.Get(scope.ModuleType)
	if err != nil {
		return nil, err
	}

	pattern := strings.TrimSpace(opts.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("importer: glob %q: %w", pattern, err)
	}
	slices.Sort(names)

	logger := logging.WithScope(i.logger, scope.ModuleType, string(scope.Key.Kind), scope.Key.ID)
	result := &Result{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := i.importFile(ctx, scope, desc, fsys, name, opts, result); err != nil {
			logger.Warn("importer.seed.failed", "file", name, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", name, err))
		}
	}
	logger.Info("importer.completed",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"failed", len(result.Errors),
	)
	return result, errors.Join(result.Errors...)
}

func (i *Importer) importFile(ctx context.Context, scope items.Scope, desc *schema.Descriptor, fsys fs.FS, name string, opts Options, result *Result) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	seed, err := markdown.ParseSeed(raw)
	if err != nil {
		return err
	}
	fields, err := i.seedFields(desc, seed)
	if err != nil {
		return err
	}

	id := identity.ItemUUID(scope.String(), path.Base(name))
	_, err = i.items.Get(ctx, scope, id)
	exists := err == nil
	if err != nil && !errors.Is(err, items.ErrNotFound) {
		return err
	}

	if opts.DryRun {
		result.Skipped = append(result.Skipped, id)
		return nil
	}

	if exists {
		if _, err := i.items.Update(ctx, items.UpdateItemInput{Scope: scope, ID: id, Fields: fields}); err != nil {
			return err
		}
		result.Updated = append(result.Updated, id)
	} else {
		fields = desc.ApplyDefaults(fields)
		if _, err := i.items.Create(ctx, items.CreateItemInput{Scope: scope, ID: id, Fields: fields}); err != nil {
			return err
		}
		result.Created = append(result.Created, id)
	}

	for _, locale := range slices.Sorted(maps.Keys(seed.Locales)) {
		overrides := desc.Restrict(seed.Locales[locale])
		if len(overrides) == 0 {
			continue
		}
		if err := i.renderer.RenderFields(overrides, desc.FieldsOfKind(schema.KindRichText)); err != nil {
			return err
		}
		if _, err := i.items.SetTranslation(ctx, items.SetTranslationInput{
			Scope:  scope,
			ID:     id,
			Locale: locale,
			Fields: overrides,
		}); err != nil {
			return fmt.Errorf("translation %s: %w", locale, err)
		}
	}
	return nil
}

// seedFields keeps declared keys and moves the body into the first rich text
// field unless the frontmatter already set it.
func (i *Importer) seedFields(desc *schema.Descriptor, seed *markdown.Seed) (map[string]any, error) {
	fields := desc.Restrict(seed.Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	richtext := desc.FieldsOfKind(schema.KindRichText)
	if len(richtext) > 0 && seed.Body != "" {
		if _, set := fields[richtext[0]]; !set {
			fields[richtext[0]] = seed.Body
		}
	}
	if err := i.renderer.RenderFields(fields, richtext); err != nil {
		return nil, err
	}
	return fields, nil
}
