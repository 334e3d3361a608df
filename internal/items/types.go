package items

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-modules/internal/relation"
)

// Item is one ordered entry of a module list (a slide, a tab, a testimonial).
type Item struct {
	bun.BaseModel `bun:"table:module_items,alias:mi"`

	ID           uuid.UUID                 `bun:",pk,type:uuid" json:"id"`
	ModuleType   string                    `bun:"module_type,notnull" json:"module_type"`
	RelType      string                    `bun:"rel_type,notnull" json:"rel_type"`
	RelID        string                    `bun:"rel_id,notnull" json:"rel_id"`
	Position     int                       `bun:"position,notnull" json:"position"`
	Fields       map[string]any            `bun:"fields,type:jsonb,notnull" json:"fields"`
	Translations map[string]map[string]any `bun:"translations,type:jsonb" json:"translations,omitempty"`
	CreatedAt    time.Time                 `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time                 `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Key returns the relation key the item belongs to.
func (i *Item) Key() relation.Key {
	return relation.Key{Kind: relation.Kind(i.RelType), ID: i.RelID}
}

// Scope returns the list the item is ordered within.
func (i *Item) Scope() Scope {
	return Scope{ModuleType: i.ModuleType, Key: i.Key()}
}

// Localized merges the overrides for locale over the base fields.
// Unknown locales return a copy of the base fields.
func (i *Item) Localized(locale string) map[string]any {
	out := maps.Clone(i.Fields)
	if out == nil {
		out = map[string]any{}
	}
	maps.Copy(out, i.Translations[normalizeLocale(locale)])
	return out
}

// Scope identifies one ordered list: a module type attached to a parent.
// Several module types may hang off the same relation key.
type Scope struct {
	ModuleType string
	Key        relation.Key
}

func NewScope(moduleType string, key relation.Key) Scope {
	return Scope{ModuleType: strings.ToLower(strings.TrimSpace(moduleType)), Key: key}
}

func (s Scope) Validate() error {
	if strings.TrimSpace(s.ModuleType) == "" {
		return fmt.Errorf("%w: module type is required", ErrScopeInvalid)
	}
	if err := s.Key.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrScopeInvalid, err)
	}
	return nil
}

func (s Scope) String() string {
	return s.ModuleType + "/" + s.Key.String()
}

func (s Scope) matches(item *Item) bool {
	return item != nil &&
		item.ModuleType == s.ModuleType &&
		item.RelType == string(s.Key.Kind) &&
		item.RelID == s.Key.ID
}

// CreateItemInput carries a manual or generated payload.
type CreateItemInput struct {
	Scope  Scope
	Fields map[string]any
	// ID fixes the identifier instead of generating one. Seed imports use it.
	ID uuid.UUID
}

// UpdateItemInput merges Fields over the stored payload.
type UpdateItemInput struct {
	Scope  Scope
	ID     uuid.UUID
	Fields map[string]any
}

// SetTranslationInput stores per-locale overrides for an item.
type SetTranslationInput struct {
	Scope  Scope
	ID     uuid.UUID
	Locale string
	Fields map[string]any
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

func cloneItem(item *Item) *Item {
	if item == nil {
		return nil
	}
	out := *item
	out.Fields = cloneFields(item.Fields)
	if item.Translations != nil {
		out.Translations = make(map[string]map[string]any, len(item.Translations))
		for locale, fields := range item.Translations {
			out.Translations[locale] = cloneFields(fields)
		}
	}
	return &out
}

func cloneItems(records []*Item) []*Item {
	out := make([]*Item, 0, len(records))
	for _, r := range records {
		out = append(out, cloneItem(r))
	}
	return out
}

// cloneFields deep copies nested maps and slices so duplicates never share state.
func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneFields(typed)
	case []any:
		out := make([]any, len(typed))
		for i, e := range typed {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
