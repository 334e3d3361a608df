package items

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemRepository persists items. Implementations must reject a Create whose
// position is already taken within the scope with ErrPositionConflict.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByScope(ctx context.Context, scope Scope) ([]*Item, error)
	// MaxPosition returns -1 for an empty scope.
	MaxPosition(ctx context.Context, scope Scope) (int, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByScope(ctx context.Context, scope Scope) (int, error)
	// Reposition assigns position i to ids[i] in a single atomic write.
	Reposition(ctx context.Context, scope Scope, ids []uuid.UUID, at time.Time) error
}

// NewItemRepository creates the generic go-repository-bun repository for items.
func NewItemRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord:          func() *Item { return &Item{} },
		GetID:              func(item *Item) uuid.UUID { return item.ID },
		SetID:              func(item *Item, id uuid.UUID) { item.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(item *Item) string { return item.ID.String() },
	})
}
