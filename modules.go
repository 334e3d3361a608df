// Package modules manages repeatable content blocks (sliders, tabs,
// testimonials, team cards) attached to pages, posts, and other modules.
package modules

import (
	"context"
	"net/http"

	"github.com/goliatone/go-cms-modules/internal/adapters/storage"
	"github.com/goliatone/go-cms-modules/internal/catalog"
	"github.com/goliatone/go-cms-modules/internal/di"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/importer"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/internal/table"
)

// ItemService exports the item store contract.
type ItemService = items.Service

// GenerationService exports the generative population contract.
type GenerationService = generation.Service

type (
	Item             = items.Item
	Scope            = items.Scope
	RelationKey      = relation.Key
	Descriptor       = schema.Descriptor
	Table            = table.Table
	ActionResult     = table.ActionResult
	GenerateInput    = table.GenerateInput
	GenerationReport = generation.Report
	ImportOptions    = importer.Options
	ImportResult     = importer.Result
)

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module runtime using the provided configuration and
// optional DI overrides. SQL storage gets the embedded migrations applied.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if storage.Normalize(cfg.Storage.Driver) != storage.DriverMemory {
		opts = append([]di.Option{di.WithMigrations(GetMigrationsFS())}, opts...)
	}
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Items returns the configured item service.
func (m *Module) Items() ItemService {
	return m.container.ItemService()
}

// Generation returns the generation service, or nil when disabled.
func (m *Module) Generation() GenerationService {
	return m.container.GenerationService()
}

// Types lists the registered module type descriptors.
func (m *Module) Types() []*Descriptor {
	return m.container.Registry().List()
}

// Table returns the admin table for one module type attached to key.
func (m *Module) Table(moduleType string, key RelationKey) (*Table, error) {
	return m.container.Tables().For(moduleType, key)
}

// AdminHandler serves the admin JSON API.
func (m *Module) AdminHandler() http.Handler {
	return m.container.AdminAPI().Handler()
}

// Import loads markdown seeds from dir into the list of moduleType on key.
func (m *Module) Import(ctx context.Context, moduleType string, key RelationKey, dir string, opts ImportOptions) (*ImportResult, error) {
	return m.container.Importer().ImportDir(ctx, items.NewScope(moduleType, key), dir, opts)
}

// RemoveRelation deletes every list attached to key. Hosts call it when the
// parent page or post is deleted.
func (m *Module) RemoveRelation(ctx context.Context, key RelationKey) (int, error) {
	total := 0
	for _, desc := range m.container.Registry().List() {
		n, err := m.container.ItemService().DeleteByKey(ctx, items.NewScope(desc.Type, key))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// ParseRelation parses "post:42" style keys.
func ParseRelation(value string) (RelationKey, error) {
	return relation.ParseString(value)
}

// NewScope identifies the list of moduleType items attached to key.
func NewScope(moduleType string, key RelationKey) Scope {
	return items.NewScope(moduleType, key)
}

// BuiltinTypes lists the module type names available without configuration.
func BuiltinTypes() []string {
	out := []string{}
	for _, desc := range catalog.Builtin() {
		out = append(out, desc.Type)
	}
	return out
}
