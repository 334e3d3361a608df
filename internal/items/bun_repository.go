package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
)

const itemNamespace = "module_item"

// BunItemRepository implements ItemRepository with optional caching.
type BunItemRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Item]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunItemRepository creates an item repository without caching.
func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache creates an item repository with caching.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunItemRepository {
	base := NewItemRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = itemNamespace + cache.KeySeparator
	}
	return &BunItemRepository{db: db, repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunItemRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	record, err := r.repo.Create(ctx, item)
	if err != nil {
		if isUniqueViolation(err) {
			if r.idTaken(ctx, item.ID) {
				return nil, fmt.Errorf("%w: %s", ErrIDConflict, item.ID)
			}
			return nil, fmt.Errorf("%w: %s position %d", ErrPositionConflict, item.Scope(), item.Position)
		}
		return nil, fmt.Errorf("%s repository error: %w", itemNamespace, err)
	}
	return record, r.invalidate(ctx)
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, itemNamespace, id.String())
	}
	return record, nil
}

// ListByScope reads straight from the database. The query cache keys on
// serialised criteria and cannot tell scope closures apart.
func (r *BunItemRepository) ListByScope(ctx context.Context, scope Scope) ([]*Item, error) {
	if r.db == nil {
		return nil, fmt.Errorf("%s repository: database not configured", itemNamespace)
	}
	records := make([]*Item, 0)
	err := scopeFilter(r.db.NewSelect().Model(&records), scope).
		OrderExpr("?TableAlias.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, itemNamespace, scope.String())
	}
	return records, nil
}

func (r *BunItemRepository) MaxPosition(ctx context.Context, scope Scope) (int, error) {
	var max sql.NullInt64
	err := r.db.NewSelect().
		Model((*Item)(nil)).
		ColumnExpr("MAX(?TableAlias.position)").
		Where("?TableAlias.module_type = ?", scope.ModuleType).
		Where("?TableAlias.rel_type = ?", string(scope.Key.Kind)).
		Where("?TableAlias.rel_id = ?", scope.Key.ID).
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("%s max position: %w", itemNamespace, err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func (r *BunItemRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	updated, err := r.repo.Update(ctx, item,
		repository.UpdateByID(item.ID.String()),
		repository.UpdateColumns("fields", "translations", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, itemNamespace, item.ID.String())
	}
	return updated, r.invalidate(ctx)
}

func (r *BunItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Item{ID: id}); err != nil {
		return mapRepositoryError(err, itemNamespace, id.String())
	}
	return r.invalidate(ctx)
}

func (r *BunItemRepository) DeleteByScope(ctx context.Context, scope Scope) (int, error) {
	res, err := r.db.NewDelete().
		Model((*Item)(nil)).
		Where("?TableAlias.module_type = ?", scope.ModuleType).
		Where("?TableAlias.rel_type = ?", string(scope.Key.Kind)).
		Where("?TableAlias.rel_id = ?", scope.Key.ID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete %s items: %w", scope, err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), r.invalidate(ctx)
}

// Reposition rewrites positions in two phases inside one transaction. The
// first phase parks every row on a negative position so the unique index on
// (module_type, rel_type, rel_id, position) never sees a transient duplicate.
func (r *BunItemRepository) Reposition(ctx context.Context, scope Scope, ids []uuid.UUID, at time.Time) error {
	if r.db == nil {
		return fmt.Errorf("%s repository: database not configured", itemNamespace)
	}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for phase := range 2 {
			for idx, id := range ids {
				position := idx
				if phase == 0 {
					position = -(idx + 1)
				}
				res, err := tx.NewUpdate().
					Model((*Item)(nil)).
					Set("position = ?", position).
					Set("updated_at = ?", at).
					Where("id = ?", id).
					Where("module_type = ?", scope.ModuleType).
					Where("rel_type = ?", string(scope.Key.Kind)).
					Where("rel_id = ?", scope.Key.ID).
					Exec(ctx)
				if err != nil {
					return fmt.Errorf("reposition %s: %w", id, err)
				}
				if affected, _ := res.RowsAffected(); affected == 0 {
					return &NotFoundError{Resource: itemNamespace, Key: id.String()}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.invalidate(ctx)
}

// InvalidateCache drops every cached item query.
func (r *BunItemRepository) InvalidateCache(ctx context.Context) error {
	return r.invalidate(ctx)
}

func (r *BunItemRepository) invalidate(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func scopeFilter(q *bun.SelectQuery, scope Scope) *bun.SelectQuery {
	return q.
		Where("?TableAlias.module_type = ?", scope.ModuleType).
		Where("?TableAlias.rel_type = ?", string(scope.Key.Kind)).
		Where("?TableAlias.rel_id = ?", scope.Key.ID)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

// idTaken reports whether a unique failure came from the primary key rather
// than the scope position index.
func (r *BunItemRepository) idTaken(ctx context.Context, id uuid.UUID) bool {
	if r.db == nil || id == uuid.Nil {
		return false
	}
	exists, err := r.db.NewSelect().
		Model((*Item)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
	return err == nil && exists
}

// isUniqueViolation recognises unique index failures from postgres (lib/pq
// code 23505), the mapped go-repository-bun duplicate category and sqlite
// ("UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseDuplicate) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
