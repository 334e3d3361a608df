package itemscmd

import (
	"github.com/goliatone/go-cms-modules/internal/commands"
	"github.com/goliatone/go-cms-modules/internal/generation"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Handlers groups every item command handler bound to one set of services.
type Handlers struct {
	Create     *CreateItemHandler
	Update     *UpdateItemHandler
	Delete     *DeleteItemHandler
	BulkDelete *BulkDeleteItemsHandler
	Duplicate  *DuplicateItemHandler
	Reorder    *ReorderItemsHandler
	Translate  *TranslateItemHandler
	Generate   *GenerateItemsHandler
}

// NewHandlers wires all handlers. gen may be nil when generation is not
// configured; the generate handler then fails with ErrGenerationUnavailable.
func NewHandlers(service items.Service, gen generation.Service, logger interfaces.Logger, gates FeatureGates) *Handlers {
	logger = commands.EnsureLogger(logger)
	return &Handlers{
		Create:     NewCreateItemHandler(service, logger),
		Update:     NewUpdateItemHandler(service, logger),
		Delete:     NewDeleteItemHandler(service, logger),
		BulkDelete: NewBulkDeleteItemsHandler(service, logger),
		Duplicate:  NewDuplicateItemHandler(service, logger),
		Reorder:    NewReorderItemsHandler(service, logger),
		Translate:  NewTranslateItemHandler(service, logger, gates),
		Generate:   NewGenerateItemsHandler(gen, logger, gates),
	}
}
