package itemscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
)

const (
	createMessageType     = "cms.modules.item.create"
	updateMessageType     = "cms.modules.item.update"
	deleteMessageType     = "cms.modules.item.delete"
	bulkDeleteMessageType = "cms.modules.item.bulk_delete"
	duplicateMessageType  = "cms.modules.item.duplicate"
	reorderMessageType    = "cms.modules.item.reorder"
	translateMessageType  = "cms.modules.item.translate"
	generateMessageType   = "cms.modules.item.generate"
)

// Target addresses one item list.
type Target struct {
	ModuleType string `json:"module_type"`
	RelType    string `json:"rel_type"`
	RelID      string `json:"rel_id"`
}

// Scope resolves the target into an items.Scope.
func (t Target) Scope() (items.Scope, error) {
	key, err := relation.Parse(t.RelType, t.RelID)
	if err != nil {
		return items.Scope{}, err
	}
	return items.NewScope(t.ModuleType, key), nil
}

func (t Target) validate(prefix string, errs validation.Errors) {
	if strings.TrimSpace(t.ModuleType) == "" {
		errs["module_type"] = validation.NewError(prefix+".module_type_required", "module_type is required")
	}
	if !relation.Kind(strings.ToLower(strings.TrimSpace(t.RelType))).Valid() {
		errs["rel_type"] = validation.NewError(prefix+".rel_type_invalid", "rel_type must be one of page, post, module")
	}
	if strings.TrimSpace(t.RelID) == "" {
		errs["rel_id"] = validation.NewError(prefix+".rel_id_required", "rel_id is required")
	}
}

func result(errs validation.Errors) error {
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func requireID(prefix string, id uuid.UUID, errs validation.Errors) {
	if id == uuid.Nil {
		errs["id"] = validation.NewError(prefix+".id_required", "id is required")
	}
}

// CreateItemCommand appends an item built from a manual form.
type CreateItemCommand struct {
	Target
	Fields map[string]any `json:"fields"`
}

func (CreateItemCommand) Type() string { return createMessageType }

func (m CreateItemCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(createMessageType, errs)
	return result(errs)
}

// UpdateItemCommand merges fields into an existing item.
type UpdateItemCommand struct {
	Target
	ID     uuid.UUID      `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (UpdateItemCommand) Type() string { return updateMessageType }

func (m UpdateItemCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(updateMessageType, errs)
	requireID(updateMessageType, m.ID, errs)
	return result(errs)
}

// DeleteItemCommand removes one item. Unknown ids are ignored.
type DeleteItemCommand struct {
	Target
	ID uuid.UUID `json:"id"`
}

func (DeleteItemCommand) Type() string { return deleteMessageType }

func (m DeleteItemCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(deleteMessageType, errs)
	requireID(deleteMessageType, m.ID, errs)
	return result(errs)
}

// BulkDeleteItemsCommand removes the listed items.
type BulkDeleteItemsCommand struct {
	Target
	IDs []uuid.UUID `json:"ids"`
}

func (BulkDeleteItemsCommand) Type() string { return bulkDeleteMessageType }

func (m BulkDeleteItemsCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(bulkDeleteMessageType, errs)
	if len(m.IDs) == 0 {
		errs["ids"] = validation.NewError(bulkDeleteMessageType+".ids_required", "at least one id is required")
	}
	return result(errs)
}

// DuplicateItemCommand copies an item to the end of its list.
type DuplicateItemCommand struct {
	Target
	ID uuid.UUID `json:"id"`
}

func (DuplicateItemCommand) Type() string { return duplicateMessageType }

func (m DuplicateItemCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(duplicateMessageType, errs)
	requireID(duplicateMessageType, m.ID, errs)
	return result(errs)
}

// ReorderItemsCommand rewrites positions to follow OrderedIDs.
type ReorderItemsCommand struct {
	Target
	OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

func (ReorderItemsCommand) Type() string { return reorderMessageType }

// Validate only checks the target; an empty order is a valid permutation of
// an empty list and is checked against storage by the service.
func (m ReorderItemsCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(reorderMessageType, errs)
	return result(errs)
}

// TranslateItemCommand stores per-locale overrides for an item.
type TranslateItemCommand struct {
	Target
	ID     uuid.UUID      `json:"id"`
	Locale string         `json:"locale"`
	Fields map[string]any `json:"fields"`
}

func (TranslateItemCommand) Type() string { return translateMessageType }

func (m TranslateItemCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(translateMessageType, errs)
	requireID(translateMessageType, m.ID, errs)
	if strings.TrimSpace(m.Locale) == "" {
		errs["locale"] = validation.NewError(translateMessageType+".locale_required", "locale is required")
	}
	return result(errs)
}

// GenerateItemsCommand populates a list through the generation service.
type GenerateItemsCommand struct {
	Target
	Subject    string `json:"subject"`
	Count      int    `json:"count"`
	WithImages bool   `json:"with_images"`
	Locale     string `json:"locale,omitempty"`
}

func (GenerateItemsCommand) Type() string { return generateMessageType }

func (m GenerateItemsCommand) Validate() error {
	errs := validation.Errors{}
	m.Target.validate(generateMessageType, errs)
	if strings.TrimSpace(m.Subject) == "" {
		errs["subject"] = validation.NewError(generateMessageType+".subject_required", "subject is required")
	}
	if m.Count < 1 || m.Count > generation.HardMaxCount {
		errs["count"] = validation.NewError(generateMessageType+".count_out_of_range", "count must be between 1 and 10")
	}
	return result(errs)
}
