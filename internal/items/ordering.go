package items

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAppendRetries bounds how often Append re-reads the tail after a
// position conflict raised by another process.
const DefaultMaxAppendRetries = 3

// Ordering owns the append and reorder policies. Writes to one scope are
// serialised in-process; the storage unique index covers other processes.
type Ordering struct {
	repo       ItemRepository
	maxRetries int

	mu    sync.Mutex
	locks map[Scope]*scopeLock
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

// OrderingOption configures Ordering.
type OrderingOption func(*Ordering)

// WithMaxAppendRetries overrides DefaultMaxAppendRetries. Values below 1 are ignored.
func WithMaxAppendRetries(n int) OrderingOption {
	return func(o *Ordering) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

func NewOrdering(repo ItemRepository, opts ...OrderingOption) *Ordering {
	o := &Ordering{
		repo:       repo,
		maxRetries: DefaultMaxAppendRetries,
		locks:      make(map[Scope]*scopeLock),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Lock serialises work on scope until the returned func is called.
func (o *Ordering) Lock(scope Scope) func() {
	o.mu.Lock()
	l, ok := o.locks[scope]
	if !ok {
		l = &scopeLock{}
		o.locks[scope] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, scope)
		}
		o.mu.Unlock()
	}
}

// Append stores item at the end of scope (max position + 1, or 0 when empty).
// A conflicting concurrent writer keeps its row; this write retries on the
// next free position, so the later write ends up higher.
func (o *Ordering) Append(ctx context.Context, scope Scope, item *Item) (*Item, error) {
	unlock := o.Lock(scope)
	defer unlock()
	return o.appendLocked(ctx, item)
}

func (o *Ordering) appendLocked(ctx context.Context, item *Item) (*Item, error) {
	var lastErr error
	for attempt := 0; attempt < o.maxRetries; attempt++ {
		max, err := o.repo.MaxPosition(ctx, item.Scope())
		if err != nil {
			return nil, err
		}
		item.Position = max + 1
		created, err := o.repo.Create(ctx, item)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrPositionConflict) {
			return nil, err
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	return nil, fmt.Errorf("append after %d attempts: %w", o.maxRetries, lastErr)
}

// Reorder rewrites positions to the index of each id in orderedIDs. The
// payload must be a permutation of the current items; otherwise nothing is
// written and an *InvalidOrderError is returned.
func (o *Ordering) Reorder(ctx context.Context, scope Scope, orderedIDs []uuid.UUID, at time.Time) ([]*Item, error) {
	unlock := o.Lock(scope)
	defer unlock()

	current, err := o.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := checkPermutation(current, orderedIDs); err != nil {
		return nil, err
	}
	if err := o.repo.Reposition(ctx, scope, orderedIDs, at); err != nil {
		return nil, err
	}
	return o.repo.ListByScope(ctx, scope)
}

func checkPermutation(current []*Item, orderedIDs []uuid.UUID) error {
	known := make(map[uuid.UUID]bool, len(current))
	for _, item := range current {
		known[item.ID] = false
	}
	var invalid InvalidOrderError
	for _, id := range orderedIDs {
		seen, ok := known[id]
		switch {
		case !ok:
			invalid.Unknown = append(invalid.Unknown, id.String())
		case seen:
			invalid.Duplicates = append(invalid.Duplicates, id.String())
		default:
			known[id] = true
		}
	}
	for _, item := range current {
		if !known[item.ID] {
			invalid.Missing = append(invalid.Missing, item.ID.String())
		}
	}
	if len(invalid.Missing)+len(invalid.Unknown)+len(invalid.Duplicates) > 0 {
		return &invalid
	}
	return nil
}
