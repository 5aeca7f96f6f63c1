package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"inventa/internal/core/id"
	"inventa/internal/domain/catalogs/item"
	"inventa/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo is the PostgreSQL implementation of item.Repository.
type ItemRepo struct {
	*BaseRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	cols := postgres.ExtractDBColumns[item.Item]()
	return &ItemRepo{
		BaseRepo: NewBaseRepo(
			txManager,
			"items",
			cols,
			[]string{"name", "code", "sku"},
			func() *item.Item { return &item.Item{} },
		),
	}
}

// SKUExists checks tenant-scoped SKU uniqueness.
func (r *ItemRepo) SKUExists(ctx context.Context, sku string, excludeID id.ID) (bool, error) {
	conds := []squirrel.Sqlizer{
		squirrel.Eq{"sku": sku},
		squirrel.Eq{"deletion_mark": false},
	}
	if !id.IsNil(excludeID) {
		conds = append(conds, squirrel.NotEq{"id": excludeID})
	}
	return r.ExistsWhere(ctx, conds...)
}

// GetBySKU retrieves a non-deleted item by SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*item.Item, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}
