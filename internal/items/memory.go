package items

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewMemoryItemRepository constructs an in-memory item repository.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{
		byID:    make(map[uuid.UUID]*Item),
		byScope: make(map[Scope][]uuid.UUID),
	}
}

type memoryItemRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Item
	byScope map[Scope][]uuid.UUID
}

func (m *memoryItemRepository) Create(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byID[item.ID]; taken {
		return nil, ErrIDConflict
	}
	scope := item.Scope()
	for _, id := range m.byScope[scope] {
		if m.byID[id].Position == item.Position {
			return nil, ErrPositionConflict
		}
	}
	stored := cloneItem(item)
	m.byID[stored.ID] = stored
	m.byScope[scope] = append(m.byScope[scope], stored.ID)
	return cloneItem(stored), nil
}

func (m *memoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "module_item", Key: id.String()}
	}
	return cloneItem(record), nil
}

func (m *memoryItemRepository) ListByScope(_ context.Context, scope Scope) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Item, 0, len(m.byScope[scope]))
	for _, id := range m.byScope[scope] {
		records = append(records, cloneItem(m.byID[id]))
	}
	slices.SortFunc(records, func(a, b *Item) int { return a.Position - b.Position })
	return records, nil
}

func (m *memoryItemRepository) MaxPosition(_ context.Context, scope Scope) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	max := -1
	for _, id := range m.byScope[scope] {
		if p := m.byID[id].Position; p > max {
			max = p
		}
	}
	return max, nil
}

func (m *memoryItemRepository) Update(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[item.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "module_item", Key: item.ID.String()}
	}
	updated := cloneItem(item)
	// Scope and position are owned by Create and Reposition.
	updated.ModuleType = existing.ModuleType
	updated.RelType = existing.RelType
	updated.RelID = existing.RelID
	updated.Position = existing.Position
	updated.CreatedAt = existing.CreatedAt
	m.byID[item.ID] = updated
	return cloneItem(updated), nil
}

func (m *memoryItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "module_item", Key: id.String()}
	}
	scope := record.Scope()
	m.byScope[scope] = slices.DeleteFunc(m.byScope[scope], func(candidate uuid.UUID) bool { return candidate == id })
	if len(m.byScope[scope]) == 0 {
		delete(m.byScope, scope)
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryItemRepository) DeleteByScope(_ context.Context, scope Scope) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byScope[scope]
	for _, id := range ids {
		delete(m.byID, id)
	}
	delete(m.byScope, scope)
	return len(ids), nil
}

func (m *memoryItemRepository) Reposition(_ context.Context, scope Scope, ids []uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate every id before touching any record.
	for _, id := range ids {
		record, ok := m.byID[id]
		if !ok || !scope.matches(record) {
			return &NotFoundError{Resource: "module_item", Key: id.String()}
		}
	}
	for idx, id := range ids {
		record := m.byID[id]
		record.Position = idx
		record.UpdatedAt = at
	}
	return nil
}
