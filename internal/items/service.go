// Package items stores the ordered item lists behind content modules.
package items

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/logging"
	"github.com/goliatone/go-cms-modules/internal/schema"
	"github.com/goliatone/go-cms-modules/internal/validation"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Service exposes item management for every registered module type.
type Service interface {
	List(ctx context.Context, scope Scope) ([]*Item, error)
	Get(ctx context.Context, scope Scope, id uuid.UUID) (*Item, error)
	Create(ctx context.Context, input CreateItemInput) (*Item, error)
	Update(ctx context.Context, input UpdateItemInput) (*Item, error)
	Delete(ctx context.Context, scope Scope, id uuid.UUID) error
	BulkDelete(ctx context.Context, scope Scope, ids []uuid.UUID) (int, error)
	Reorder(ctx context.Context, scope Scope, orderedIDs []uuid.UUID) ([]*Item, error)
	Duplicate(ctx context.Context, scope Scope, id uuid.UUID) (*Item, error)
	SetTranslation(ctx context.Context, input SetTranslationInput) (*Item, error)
	DeleteByKey(ctx context.Context, scope Scope) (int, error)
	Count(ctx context.Context, scope Scope) (int, error)
}

// DescriptorSource resolves module types to their field schema.
type DescriptorSource interface {
	Get(moduleType string) (*schema.Descriptor, error)
}

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures the item service.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrdering shares an Ordering across services backed by the same repository.
func WithOrdering(ordering *Ordering) ServiceOption {
	return func(s *service) {
		if ordering != nil {
			s.ordering = ordering
		}
	}
}

// WithTranslations toggles per-locale overrides. Enabled by default.
func WithTranslations(enabled bool) ServiceOption {
	return func(s *service) {
		s.translations = enabled
	}
}

type service struct {
	repo         ItemRepository
	descriptors  DescriptorSource
	ordering     *Ordering
	now          func() time.Time
	id           IDGenerator
	logger       interfaces.Logger
	translations bool
}

// NewService constructs the item service.
func NewService(repo ItemRepository, descriptors DescriptorSource, opts ...ServiceOption) Service {
	s := &service{
		repo:         repo,
		descriptors:  descriptors,
		now:          time.Now,
		id:           uuid.New,
		logger:       logging.NoOp(),
		translations: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ordering == nil {
		s.ordering = NewOrdering(repo)
	}
	return s
}

func (s *service) List(ctx context.Context, scope Scope) ([]*Item, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*Item{}
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, scope Scope, id uuid.UUID) (*Item, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, scope, id)
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*Item, error) {
	scope, desc, err := s.resolve(input.Scope)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateFields(desc, input.Fields); err != nil {
		return nil, err
	}

	id := input.ID
	if id == uuid.Nil {
		id = s.id()
	}
	now := s.now()
	item := &Item{
		ID:         id,
		ModuleType: scope.ModuleType,
		RelType:    string(scope.Key.Kind),
		RelID:      scope.Key.ID,
		Fields:     desc.ApplyDefaults(input.Fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.ordering.Append(ctx, scope, item)
	if err != nil {
		s.log(scope).Error("items.create.failed", "error", err)
		return nil, err
	}
	s.log(scope).Debug("items.create.success", "item_id", created.ID, "position", created.Position)
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateItemInput) (*Item, error) {
	scope, desc, err := s.resolve(input.Scope)
	if err != nil {
		return nil, err
	}
	if input.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	if err := validation.ValidatePartial(desc, input.Fields); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, scope, input.ID)
	if err != nil {
		return nil, err
	}

	merged := cloneFields(existing.Fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, cloneFields(input.Fields))
	existing.Fields = desc.Restrict(merged)
	existing.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.log(scope).Debug("items.update.success", "item_id", updated.ID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return err
	}
	_, err = s.deleteOne(ctx, scope, id)
	return err
}

func (s *service) BulkDelete(ctx context.Context, scope Scope, ids []uuid.UUID) (int, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		ok, err := s.deleteOne(ctx, scope, id)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	s.log(scope).Debug("items.bulk_delete.success", "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// deleteOne treats ids that are missing or outside scope as already deleted.
func (s *service) deleteOne(ctx context.Context, scope Scope, id uuid.UUID) (bool, error) {
	if _, err := s.load(ctx, scope, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) Reorder(ctx context.Context, scope Scope, orderedIDs []uuid.UUID) ([]*Item, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return nil, err
	}
	records, err := s.ordering.Reorder(ctx, scope, orderedIDs, s.now())
	if err != nil {
		s.log(scope).Warn("items.reorder.rejected", "error", err)
		return nil, err
	}
	return records, nil
}

func (s *service) Duplicate(ctx context.Context, scope Scope, id uuid.UUID) (*Item, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return nil, err
	}
	source, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	copied := cloneItem(source)
	copied.ID = s.id()
	copied.CreatedAt = now
	copied.UpdatedAt = now

	created, err := s.ordering.Append(ctx, scope, copied)
	if err != nil {
		return nil, err
	}
	s.log(scope).Debug("items.duplicate.success", "source_id", source.ID, "item_id", created.ID, "position", created.Position)
	return created, nil
}

func (s *service) SetTranslation(ctx context.Context, input SetTranslationInput) (*Item, error) {
	if !s.translations {
		return nil, ErrTranslationsDisabled
	}
	scope, desc, err := s.resolve(input.Scope)
	if err != nil {
		return nil, err
	}
	locale := normalizeLocale(input.Locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}
	if err := validation.ValidatePartial(desc, input.Fields); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, scope, input.ID)
	if err != nil {
		return nil, err
	}

	if existing.Translations == nil {
		existing.Translations = map[string]map[string]any{}
	}
	overrides := existing.Translations[locale]
	if overrides == nil {
		overrides = map[string]any{}
	}
	maps.Copy(overrides, cloneFields(input.Fields))
	// Blank overrides fall back to the base value.
	maps.DeleteFunc(overrides, func(_ string, v any) bool {
		str, ok := v.(string)
		return v == nil || (ok && strings.TrimSpace(str) == "")
	})
	if len(overrides) == 0 {
		delete(existing.Translations, locale)
	} else {
		existing.Translations[locale] = overrides
	}
	existing.UpdatedAt = s.now()

	return s.repo.Update(ctx, existing)
}

func (s *service) DeleteByKey(ctx context.Context, scope Scope) (int, error) {
	scope, _, err := s.resolve(scope)
	if err != nil {
		return 0, err
	}
	unlock := s.ordering.Lock(scope)
	defer unlock()
	deleted, err := s.repo.DeleteByScope(ctx, scope)
	if err != nil {
		return 0, err
	}
	s.log(scope).Info("items.scope.deleted", "deleted", deleted)
	return deleted, nil
}

func (s *service) Count(ctx context.Context, scope Scope) (int, error) {
	records, err := s.List(ctx, scope)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *service) resolve(scope Scope) (Scope, *schema.Descriptor, error) {
	if err := scope.Validate(); err != nil {
		return scope, nil, err
	}
	desc, err := s.descriptors.Get(scope.ModuleType)
	if err != nil {
		return scope, nil, err
	}
	scope.ModuleType = desc.Type
	return scope, desc, nil
}

// load fetches id and hides records that belong to a different scope.
func (s *service) load(ctx context.Context, scope Scope, id uuid.UUID) (*Item, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.matches(record) {
		return nil, &NotFoundError{Resource: "module_item", Key: id.String()}
	}
	return record, nil
}

func (s *service) log(scope Scope) interfaces.Logger {
	return logging.WithScope(s.logger, scope.ModuleType, string(scope.Key.Kind), scope.Key.ID)
}
