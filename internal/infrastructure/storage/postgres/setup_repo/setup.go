// Package setup_repo provides the PostgreSQL implementation of the
// inventory setup repository. Setups are keyed by the (item, warehouse)
// pair and addressed by a generated number instead of a catalog code.
package setup_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventa/internal/core/id"
	"inventa/internal/domain/setup"
	"inventa/internal/infrastructure/storage/postgres"
	"inventa/internal/infrastructure/storage/postgres/catalog_repo"
)

// Compile-time check.
var _ setup.Repository = (*SetupRepo)(nil)

// SetupRepo is the PostgreSQL implementation of setup.Repository.
type SetupRepo struct {
	*catalog_repo.BaseRepo[*setup.InventorySetup]
}

// NewSetupRepo creates a new inventory setup repository.
func NewSetupRepo(txManager *postgres.TxManager) *SetupRepo {
	cols := postgres.ExtractDBColumns[setup.InventorySetup]()
	return &SetupRepo{
		BaseRepo: catalog_repo.NewBaseRepo(
			txManager,
			"inventory_setups",
			cols,
			[]string{"number", "notes"},
			func() *setup.InventorySetup { return &setup.InventorySetup{} },
		),
	}
}

// GetByCode retrieves a setup by its generated number. Setups carry a
// number column where catalogs carry code.
func (r *SetupRepo) GetByCode(ctx context.Context, number string) (*setup.InventorySetup, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"number": number}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ExistsByCode checks uniqueness of the generated number.
func (r *SetupRepo) ExistsByCode(ctx context.Context, number string, excludeID id.ID) (bool, error) {
	conds := []squirrel.Sqlizer{
		squirrel.Eq{"number": number},
		squirrel.Eq{"deletion_mark": false},
	}
	if !id.IsNil(excludeID) {
		conds = append(conds, squirrel.NotEq{"id": excludeID})
	}
	return r.ExistsWhere(ctx, conds...)
}

// SetupExists probes the composite (item, warehouse) uniqueness.
func (r *SetupRepo) SetupExists(ctx context.Context, itemID, warehouseID id.ID, excludeID id.ID) (bool, error) {
	conds := []squirrel.Sqlizer{
		squirrel.Eq{"item_id": itemID},
		squirrel.Eq{"warehouse_id": warehouseID},
		squirrel.Eq{"deletion_mark": false},
	}
	if !id.IsNil(excludeID) {
		conds = append(conds, squirrel.NotEq{"id": excludeID})
	}
	return r.ExistsWhere(ctx, conds...)
}

// GetByPair retrieves the setup for an (item, warehouse) pair.
func (r *SetupRepo) GetByPair(ctx context.Context, itemID, warehouseID id.ID) (*setup.InventorySetup, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ListByItem returns all non-deleted setups of one item.
func (r *SetupRepo) ListByItem(ctx context.Context, itemID id.ID) ([]*setup.InventorySetup, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("number")
	return r.FindAll(ctx, q)
}

// ListByWarehouse returns all non-deleted setups of one warehouse.
func (r *SetupRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*setup.InventorySetup, error) {
	q := r.BaseSelect(ctx).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("number")
	return r.FindAll(ctx, q)
}

// BulkUpdate applies the same patch to every id in one UPDATE statement.
// Every target receives identical new values for the fields present in
// the patch.
func (r *SetupRepo) BulkUpdate(ctx context.Context, ids []id.ID, patch setup.BulkPatch) (int64, error) {
	set := bulkPatchToMap(patch)
	if len(set) == 0 {
		return 0, fmt.Errorf("empty patch")
	}

	q := r.Builder().
		Update(r.TableName()).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(r.Scope(ctx)).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bulk update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update: %w", err)
	}

	return result.RowsAffected(), nil
}

// SetActive flips the is_active flag on every id in one statement.
func (r *SetupRepo) SetActive(ctx context.Context, ids []id.ID, active bool) (int64, error) {
	q := r.Builder().
		Update(r.TableName()).
		Set("is_active", active).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(r.Scope(ctx)).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build set active: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("set active: %w", err)
	}

	return result.RowsAffected(), nil
}

func bulkPatchToMap(patch setup.BulkPatch) map[string]any {
	set := make(map[string]any, 8)
	if patch.MinStock != nil {
		set["min_stock"] = *patch.MinStock
	}
	if patch.MaxStock != nil {
		set["max_stock"] = *patch.MaxStock
	}
	if patch.ReorderPoint != nil {
		set["reorder_point"] = *patch.ReorderPoint
	}
	if patch.ReorderQty != nil {
		set["reorder_qty"] = *patch.ReorderQty
	}
	if patch.SafetyStock != nil {
		set["safety_stock"] = *patch.SafetyStock
	}
	if patch.ValuationMethod != nil {
		set["valuation_method"] = string(*patch.ValuationMethod)
	}
	if patch.AllowNegativeStock != nil {
		set["allow_negative_stock"] = *patch.AllowNegativeStock
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}
	return set
}
