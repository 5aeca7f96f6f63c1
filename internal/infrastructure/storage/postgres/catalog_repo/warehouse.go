package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventa/internal/domain/catalogs/warehouse"
	"inventa/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ warehouse.Repository = (*WarehouseRepo)(nil)

// WarehouseRepo is the PostgreSQL implementation of warehouse.Repository.
type WarehouseRepo struct {
	*BaseRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	cols := postgres.ExtractDBColumns[warehouse.Warehouse]()
	return &WarehouseRepo{
		BaseRepo: NewBaseRepo(
			txManager,
			"warehouses",
			cols,
			[]string{"name", "code"},
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// Stats aggregates counts by type and active flag over the tenant's
// non-deleted warehouses in a single grouped query.
func (r *WarehouseRepo) Stats(ctx context.Context) (warehouse.Stats, error) {
	stats := warehouse.Stats{ByType: make(map[string]int64)}

	q := r.Builder().
		Select("type", "is_active", "COUNT(*)").
		From(r.TableName()).
		Where(r.scope(ctx)).
		Where(squirrel.Eq{"deletion_mark": false}).
		GroupBy("type", "is_active")

	sql, args, err := q.ToSql()
	if err != nil {
		return stats, fmt.Errorf("build stats query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return stats, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			whType   string
			isActive bool
			count    int64
		)
		if err := rows.Scan(&whType, &isActive, &count); err != nil {
			return stats, fmt.Errorf("scan stats row: %w", err)
		}
		stats.Total += count
		if isActive {
			stats.Active += count
		} else {
			stats.Inactive += count
		}
		stats.ByType[whType] += count
	}

	return stats, rows.Err()
}
