// Package table is the surface the admin UI binds to: one Table per module
// type and parent, exposing list, form and bulk actions.
package table

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	itemscmd "github.com/goliatone/go-cms-modules/internal/commands/items"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/notifications"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Column describes one field for list and form rendering.
type Column struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Kind     schema.Kind `json:"kind"`
	Required bool        `json:"required"`
	Default  any         `json:"default,omitempty"`
}

// GenerateInput is the "create with AI" form.
type GenerateInput struct {
	Subject    string `json:"subject"`
	Count      int    `json:"count"`
	WithImages bool   `json:"with_images"`
	Locale     string `json:"locale,omitempty"`
}

// Factory builds tables for registered module types.
type Factory struct {
	items       items.Service
	handlers    *itemscmd.Handlers
	descriptors items.DescriptorSource
	notifier    interfaces.Notifier
	logger      interfaces.Logger
}

type FactoryOption func(*Factory)

// WithNotifier receives the notices of non-generation actions. Generation
// notices are sent by the generation service itself.
func WithNotifier(notifier interfaces.Notifier) FactoryOption {
	return func(f *Factory) {
		if notifier != nil {
			f.notifier = notifier
		}
	}
}

func WithLogger(logger interfaces.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFactory(service items.Service, handlers *itemscmd.Handlers, descriptors items.DescriptorSource, opts ...FactoryOption) *Factory {
	f := &Factory{
		items:       service,
		handlers:    handlers,
		descriptors: descriptors,
		notifier:    notifications.Discard(),
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// For returns the table for moduleType attached to key.
func (f *Factory) For(moduleType string, key relation.Key) (*Table, error) {
	scope := items.NewScope(moduleType, key)
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	desc, err := f.descriptors.Get(scope.ModuleType)
	if err != nil {
		return nil, err
	}
	scope.ModuleType = desc.Type
	return &Table{
		factory:    f,
		scope:      scope,
		descriptor: desc,
		target: itemscmd.Target{
			ModuleType: desc.Type,
			RelType:    string(key.Kind),
			RelID:      key.ID,
		},
		logger: logging.WithScope(f.logger, desc.Type, string(key.Kind), key.ID),
	}, nil
}

// Table is bound to one item list.
type Table struct {
	factory    *Factory
	scope      items.Scope
	descriptor *schema.Descriptor
	target     itemscmd.Target
	logger     interfaces.Logger
}

func (t *Table) Scope() items.Scope { return t.scope }

func (t *Table) Descriptor() *schema.Descriptor { return t.descriptor.Clone() }

// Columns lists the form fields in declaration order.
func (t *Table) Columns() []Column {
	cols := make([]Column, 0, len(t.descriptor.Fields))
	for _, f := range t.descriptor.Fields {
		cols = append(cols, Column{Name: f.Name, Label: f.Label, Kind: f.Kind, Required: f.Required, Default: f.Default})
	}
	return cols
}

// CanGenerateImages reports whether the "with images" toggle applies.
func (t *Table) CanGenerateImages() bool { return t.descriptor.HasImageField() }

func (t *Table) List(ctx context.Context) (*ActionResult, error) {
	records, err := t.factory.items.List(ctx, t.scope)
	if err != nil {
		return t.fail(ctx, "list", err)
	}
	res := ok()
	res.Items = records
	res.Count = len(records)
	return res, nil
}

// Create handles the manual form.
func (t *Table) Create(ctx context.Context, fields map[string]any) (*ActionResult, error) {
	item, err := t.factory.handlers.Create.Handle(ctx, itemscmd.CreateItemCommand{Target: t.target, Fields: fields})
	if err != nil {
		return t.fail(ctx, "create", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK, Item: item,
		Notification: notice(interfaces.SeveritySuccess, "Item created", "")})
}

// Edit handles the slide-over form.
func (t *Table) Edit(ctx context.Context, id uuid.UUID, fields map[string]any) (*ActionResult, error) {
	item, err := t.factory.handlers.Update.Handle(ctx, itemscmd.UpdateItemCommand{Target: t.target, ID: id, Fields: fields})
	if err != nil {
		return t.fail(ctx, "edit", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK, Item: item,
		Notification: notice(interfaces.SeveritySuccess, "Item saved", "")})
}

// Delete is idempotent.
func (t *Table) Delete(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	if err := t.factory.handlers.Delete.Execute(ctx, itemscmd.DeleteItemCommand{Target: t.target, ID: id}); err != nil {
		return t.fail(ctx, "delete", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK,
		Notification: notice(interfaces.SeveritySuccess, "Item deleted", "")})
}

func (t *Table) BulkDelete(ctx context.Context, ids []uuid.UUID) (*ActionResult, error) {
	count, err := t.factory.handlers.BulkDelete.Handle(ctx, itemscmd.BulkDeleteItemsCommand{Target: t.target, IDs: ids})
	if err != nil {
		return t.fail(ctx, "bulk_delete", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK, Count: count,
		Notification: notice(interfaces.SeveritySuccess, fmt.Sprintf("%d %s deleted", count, plural(count)), "")})
}

// Duplicate is the "copy" row action.
func (t *Table) Duplicate(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	item, err := t.factory.handlers.Duplicate.Handle(ctx, itemscmd.DuplicateItemCommand{Target: t.target, ID: id})
	if err != nil {
		return t.fail(ctx, "duplicate", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK, Item: item,
		Notification: notice(interfaces.SeveritySuccess, "Item copied", "")})
}

// Reorder applies a drag handle drop. No notice is sent on success.
func (t *Table) Reorder(ctx context.Context, orderedIDs []uuid.UUID) (*ActionResult, error) {
	records, err := t.factory.handlers.Reorder.Handle(ctx, itemscmd.ReorderItemsCommand{Target: t.target, OrderedIDs: orderedIDs})
	if err != nil {
		return t.fail(ctx, "reorder", err)
	}
	res := ok()
	res.Items = records
	res.Count = len(records)
	return res, nil
}

// Translate stores overrides for one locale.
func (t *Table) Translate(ctx context.Context, id uuid.UUID, locale string, fields map[string]any) (*ActionResult, error) {
	item, err := t.factory.handlers.Translate.Handle(ctx, itemscmd.TranslateItemCommand{Target: t.target, ID: id, Locale: locale, Fields: fields})
	if err != nil {
		return t.fail(ctx, "translate", err)
	}
	return t.done(ctx, &ActionResult{Outcome: OutcomeOK, Item: item,
		Notification: notice(interfaces.SeveritySuccess, "Translation saved", "")})
}

// CreateWithAI runs a generation batch. A batch that creates nothing is
// reported with OutcomeEmpty rather than an error. A cancelled batch returns
// the partial result together with the context error.
func (t *Table) CreateWithAI(ctx context.Context, input GenerateInput) (*ActionResult, error) {
	report, err := t.factory.handlers.Generate.Handle(ctx, itemscmd.GenerateItemsCommand{
		Target:     t.target,
		Subject:    input.Subject,
		Count:      input.Count,
		WithImages: input.WithImages && t.CanGenerateImages(),
		Locale:     input.Locale,
	})
	if err != nil {
		if report != nil && report.Cancelled {
			n := generation.Notice(report)
			t.logger.Warn("table.action.cancelled", "action", "generate", "created", report.Succeeded(), "error", err)
			res := &ActionResult{Outcome: OutcomeOK, Items: report.Created, Count: report.Succeeded(), Report: report, Notification: &n}
			if report.Succeeded() == 0 {
				res.Outcome = OutcomeEmpty
			}
			return res, err
		}
		return t.fail(ctx, "generate", err)
	}
	n := generation.Notice(report)
	res := &ActionResult{Outcome: OutcomeOK, Items: report.Created, Count: report.Succeeded(), Report: report, Notification: &n}
	if report.Succeeded() == 0 {
		res.Outcome = OutcomeEmpty
	}
	return res, nil
}

func (t *Table) done(ctx context.Context, res *ActionResult) (*ActionResult, error) {
	if res.Notification != nil {
		t.factory.notifier.Notify(ctx, *res.Notification)
	}
	return res, nil
}

func (t *Table) fail(ctx context.Context, action string, err error) (*ActionResult, error) {
	res, unexpected := classify(err)
	if unexpected != nil {
		t.logger.Error("table.action.failed", "action", action, "error", unexpected)
		return nil, unexpected
	}
	t.logger.Debug("table.action.rejected", "action", action, "outcome", string(res.Outcome), "error", err)
	if res.Notification != nil {
		t.factory.notifier.Notify(ctx, *res.Notification)
	}
	return res, nil
}

func plural(n int) string {
	if n == 1 {
		return "item"
	}
	return "items"
}
