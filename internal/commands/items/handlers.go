// Package itemscmd exposes item and generation operations as go-command
// handlers.
package itemscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/commands"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

var (
	ErrGenerationDisabled    = errors.New("items command: generation disabled")
	ErrGenerationUnavailable = errors.New("items command: generation service not configured")
)

var (
	_ command.Commander[CreateItemCommand]      = (*CreateItemHandler)(nil)
	_ command.Commander[UpdateItemCommand]      = (*UpdateItemHandler)(nil)
	_ command.Commander[DeleteItemCommand]      = (*DeleteItemHandler)(nil)
	_ command.Commander[BulkDeleteItemsCommand] = (*BulkDeleteItemsHandler)(nil)
	_ command.Commander[DuplicateItemCommand]   = (*DuplicateItemHandler)(nil)
	_ command.Commander[ReorderItemsCommand]    = (*ReorderItemsHandler)(nil)
	_ command.Commander[TranslateItemCommand]   = (*TranslateItemHandler)(nil)
	_ command.Commander[GenerateItemsCommand]   = (*GenerateItemsHandler)(nil)
)

// runner runs fn through the shared command pipeline and keeps its result.
type runner[T command.Message, R any] struct {
	fn   func(context.Context, T) (R, error)
	opts []commands.HandlerOption[T]
}

func newRunner[T command.Message, R any](logger interfaces.Logger, operation string, fn func(context.Context, T) (R, error), fields func(T) map[string]any, opts []commands.HandlerOption[T]) runner[T, R] {
	base := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(fields),
	}
	return runner[T, R]{fn: fn, opts: append(base, opts...)}
}

func (r runner[T, R]) run(ctx context.Context, msg T) (R, error) {
	return commands.Run(ctx, msg, r.fn, r.opts...)
}

func targetFields(t Target) map[string]any {
	return map[string]any{
		"module_type": t.ModuleType,
		"rel_type":    t.RelType,
		"rel_id":      t.RelID,
	}
}

func withID(t Target, id uuid.UUID) map[string]any {
	fields := targetFields(t)
	fields["item_id"] = id
	return fields
}

// CreateItemHandler appends items from manual forms.
type CreateItemHandler struct {
	runner runner[CreateItemCommand, *items.Item]
}

func NewCreateItemHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateItemCommand]) *CreateItemHandler {
	exec := func(ctx context.Context, msg CreateItemCommand) (*items.Item, error) {
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.Create(ctx, items.CreateItemInput{Scope: scope, Fields: msg.Fields})
	}
	fields := func(msg CreateItemCommand) map[string]any { return targetFields(msg.Target) }
	return &CreateItemHandler{runner: newRunner(logger, "items.create", exec, fields, opts)}
}

func (h *CreateItemHandler) Handle(ctx context.Context, msg CreateItemCommand) (*items.Item, error) {
	return h.runner.run(ctx, msg)
}

func (h *CreateItemHandler) Execute(ctx context.Context, msg CreateItemCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// UpdateItemHandler merges edits into existing items.
type UpdateItemHandler struct {
	runner runner[UpdateItemCommand, *items.Item]
}

func NewUpdateItemHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateItemCommand]) *UpdateItemHandler {
	exec := func(ctx context.Context, msg UpdateItemCommand) (*items.Item, error) {
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.Update(ctx, items.UpdateItemInput{Scope: scope, ID: msg.ID, Fields: msg.Fields})
	}
	fields := func(msg UpdateItemCommand) map[string]any { return withID(msg.Target, msg.ID) }
	return &UpdateItemHandler{runner: newRunner(logger, "items.update", exec, fields, opts)}
}

func (h *UpdateItemHandler) Handle(ctx context.Context, msg UpdateItemCommand) (*items.Item, error) {
	return h.runner.run(ctx, msg)
}

func (h *UpdateItemHandler) Execute(ctx context.Context, msg UpdateItemCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// DeleteItemHandler removes single items.
type DeleteItemHandler struct {
	runner runner[DeleteItemCommand, struct{}]
}

func NewDeleteItemHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteItemCommand]) *DeleteItemHandler {
	exec := func(ctx context.Context, msg DeleteItemCommand) (struct{}, error) {
		scope, err := msg.Scope()
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, service.Delete(ctx, scope, msg.ID)
	}
	fields := func(msg DeleteItemCommand) map[string]any { return withID(msg.Target, msg.ID) }
	return &DeleteItemHandler{runner: newRunner(logger, "items.delete", exec, fields, opts)}
}

func (h *DeleteItemHandler) Execute(ctx context.Context, msg DeleteItemCommand) error {
	_, err := h.runner.run(ctx, msg)
	return err
}

// BulkDeleteItemsHandler removes several items and reports how many existed.
type BulkDeleteItemsHandler struct {
	runner runner[BulkDeleteItemsCommand, int]
}

func NewBulkDeleteItemsHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BulkDeleteItemsCommand]) *BulkDeleteItemsHandler {
	exec := func(ctx context.Context, msg BulkDeleteItemsCommand) (int, error) {
		scope, err := msg.Scope()
		if err != nil {
			return 0, err
		}
		return service.BulkDelete(ctx, scope, msg.IDs)
	}
	fields := func(msg BulkDeleteItemsCommand) map[string]any {
		f := targetFields(msg.Target)
		f["count"] = len(msg.IDs)
		return f
	}
	return &BulkDeleteItemsHandler{runner: newRunner(logger, "items.bulk_delete", exec, fields, opts)}
}

func (h *BulkDeleteItemsHandler) Handle(ctx context.Context, msg BulkDeleteItemsCommand) (int, error) {
	return h.runner.run(ctx, msg)
}

func (h *BulkDeleteItemsHandler) Execute(ctx context.Context, msg BulkDeleteItemsCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// DuplicateItemHandler copies items.
type DuplicateItemHandler struct {
	runner runner[DuplicateItemCommand, *items.Item]
}

func NewDuplicateItemHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DuplicateItemCommand]) *DuplicateItemHandler {
	exec := func(ctx context.Context, msg DuplicateItemCommand) (*items.Item, error) {
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.Duplicate(ctx, scope, msg.ID)
	}
	fields := func(msg DuplicateItemCommand) map[string]any { return withID(msg.Target, msg.ID) }
	return &DuplicateItemHandler{runner: newRunner(logger, "items.duplicate", exec, fields, opts)}
}

func (h *DuplicateItemHandler) Handle(ctx context.Context, msg DuplicateItemCommand) (*items.Item, error) {
	return h.runner.run(ctx, msg)
}

func (h *DuplicateItemHandler) Execute(ctx context.Context, msg DuplicateItemCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// ReorderItemsHandler applies drag and drop orderings.
type ReorderItemsHandler struct {
	runner runner[ReorderItemsCommand, []*items.Item]
}

func NewReorderItemsHandler(service items.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReorderItemsCommand]) *ReorderItemsHandler {
	exec := func(ctx context.Context, msg ReorderItemsCommand) ([]*items.Item, error) {
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.Reorder(ctx, scope, msg.OrderedIDs)
	}
	fields := func(msg ReorderItemsCommand) map[string]any {
		f := targetFields(msg.Target)
		f["count"] = len(msg.OrderedIDs)
		return f
	}
	return &ReorderItemsHandler{runner: newRunner(logger, "items.reorder", exec, fields, opts)}
}

func (h *ReorderItemsHandler) Handle(ctx context.Context, msg ReorderItemsCommand) ([]*items.Item, error) {
	return h.runner.run(ctx, msg)
}

func (h *ReorderItemsHandler) Execute(ctx context.Context, msg ReorderItemsCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// TranslateItemHandler stores per-locale overrides.
type TranslateItemHandler struct {
	runner runner[TranslateItemCommand, *items.Item]
}

func NewTranslateItemHandler(service items.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[TranslateItemCommand]) *TranslateItemHandler {
	exec := func(ctx context.Context, msg TranslateItemCommand) (*items.Item, error) {
		if !gates.translationsEnabled() {
			return nil, items.ErrTranslationsDisabled
		}
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.SetTranslation(ctx, items.SetTranslationInput{
			Scope:  scope,
			ID:     msg.ID,
			Locale: msg.Locale,
			Fields: msg.Fields,
		})
	}
	fields := func(msg TranslateItemCommand) map[string]any {
		f := withID(msg.Target, msg.ID)
		f["locale"] = msg.Locale
		return f
	}
	return &TranslateItemHandler{runner: newRunner(logger, "items.translate", exec, fields, opts)}
}

func (h *TranslateItemHandler) Handle(ctx context.Context, msg TranslateItemCommand) (*items.Item, error) {
	return h.runner.run(ctx, msg)
}

func (h *TranslateItemHandler) Execute(ctx context.Context, msg TranslateItemCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}

// GenerateItemsHandler runs generation batches. The default timeout is
// commands.GenerationCommandTimeout.
type GenerateItemsHandler struct {
	runner runner[GenerateItemsCommand, *generation.Report]
}

func NewGenerateItemsHandler(service generation.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[GenerateItemsCommand]) *GenerateItemsHandler {
	exec := func(ctx context.Context, msg GenerateItemsCommand) (*generation.Report, error) {
		if !gates.generationEnabled() {
			return nil, ErrGenerationDisabled
		}
		if service == nil {
			return nil, ErrGenerationUnavailable
		}
		scope, err := msg.Scope()
		if err != nil {
			return nil, err
		}
		return service.Generate(ctx, generation.Request{
			Scope:      scope,
			Subject:    msg.Subject,
			Count:      msg.Count,
			WithImages: msg.WithImages,
			Locale:     msg.Locale,
		})
	}
	fields := func(msg GenerateItemsCommand) map[string]any {
		f := targetFields(msg.Target)
		f["count"] = msg.Count
		f["with_images"] = msg.WithImages
		return f
	}
	opts = append([]commands.HandlerOption[GenerateItemsCommand]{
		commands.WithTimeout[GenerateItemsCommand](commands.GenerationCommandTimeout),
	}, opts...)
	return &GenerateItemsHandler{runner: newRunner(logger, "items.generate", exec, fields, opts)}
}

func (h *GenerateItemsHandler) Handle(ctx context.Context, msg GenerateItemsCommand) (*generation.Report, error) {
	return h.runner.run(ctx, msg)
}

func (h *GenerateItemsHandler) Execute(ctx context.Context, msg GenerateItemsCommand) error {
	_, err := h.Handle(ctx, msg)
	return err
}
