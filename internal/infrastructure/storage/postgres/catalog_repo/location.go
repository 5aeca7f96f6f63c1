package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventa/internal/core/id"
	"inventa/internal/domain/catalogs/warehouse"
	"inventa/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ warehouse.LocationRepository = (*LocationRepo)(nil)

// LocationRepo is the PostgreSQL implementation of warehouse.LocationRepository.
type LocationRepo struct {
	*BaseRepo[*warehouse.Location]
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	cols := postgres.ExtractDBColumns[warehouse.Location]()
	return &LocationRepo{
		BaseRepo: NewBaseRepo(
			txManager,
			"warehouse_locations",
			cols,
			[]string{"name", "code", "path"},
			func() *warehouse.Location { return &warehouse.Location{} },
		),
	}
}

// CodeExists checks code uniqueness within one warehouse.
func (r *LocationRepo) CodeExists(ctx context.Context, warehouseID id.ID, code string, excludeID id.ID) (bool, error) {
	conds := []squirrel.Sqlizer{
		squirrel.Eq{"warehouse_id": warehouseID},
		squirrel.Eq{"code": code},
		squirrel.Eq{"deletion_mark": false},
	}
	if !id.IsNil(excludeID) {
		conds = append(conds, squirrel.NotEq{"id": excludeID})
	}
	return r.ExistsWhere(ctx, conds...)
}

// ListByWarehouse returns all non-deleted locations of a warehouse ordered
// by path, so parents always precede their children.
func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*warehouse.Location, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("path")
	return r.FindAll(ctx, q)
}

// ListByPathPrefix returns the subtree below a path, excluding the prefix
// row itself.
func (r *LocationRepo) ListByPathPrefix(ctx context.Context, warehouseID id.ID, pathPrefix string) ([]*warehouse.Location, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Like{"path": pathPrefix + warehouse.PathSeparator + "%"}).
		OrderBy("path")
	return r.FindAll(ctx, q)
}

// UpdatePaths rewrites materialized paths in bulk after a move. Runs one
// UPDATE per row; callers wrap the whole move in a transaction.
func (r *LocationRepo) UpdatePaths(ctx context.Context, updates map[id.ID]string) error {
	querier := r.Querier(ctx)

	for locID, path := range updates {
		q := r.Builder().
			Update(r.TableName()).
			Set("path", path).
			Set("version", squirrel.Expr("version + 1")).
			Where(r.scope(ctx)).
			Where(squirrel.Eq{"id": locID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build path update: %w", err)
		}

		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("update path for %s: %w", locID, err)
		}
	}

	return nil
}
