package setup

import (
	"context"

	"github.com/shopspring/decimal"

	"inventa/internal/core/id"
	"inventa/internal/domain"
)

// BulkPatch holds the fields a bulk update may change. Nil fields are left
// untouched on every target record.
type BulkPatch struct {
	MinStock           *decimal.Decimal
	MaxStock           *decimal.Decimal
	ReorderPoint       *decimal.Decimal
	ReorderQty         *decimal.Decimal
	SafetyStock        *decimal.Decimal
	ValuationMethod    *ValuationMethod
	AllowNegativeStock *bool
	IsActive           *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p BulkPatch) IsEmpty() bool {
	return p.MinStock == nil && p.MaxStock == nil && p.ReorderPoint == nil &&
		p.ReorderQty == nil && p.SafetyStock == nil && p.ValuationMethod == nil &&
		p.AllowNegativeStock == nil && p.IsActive == nil
}

// Repository defines the interface for InventorySetup persistence.
type Repository interface {
	domain.Repository[*InventorySetup]

	// SetupExists checks if a setup for the (item, warehouse) pair exists
	// in the tenant scope. excludeID skips a record (pass id.Nil() when
	// creating).
	SetupExists(ctx context.Context, itemID, warehouseID id.ID, excludeID id.ID) (bool, error)

	// GetByPair retrieves the setup for an (item, warehouse) pair.
	GetByPair(ctx context.Context, itemID, warehouseID id.ID) (*InventorySetup, error)

	// ListByItem returns all non-deleted setups of one item.
	ListByItem(ctx context.Context, itemID id.ID) ([]*InventorySetup, error)

	// ListByWarehouse returns all non-deleted setups of one warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*InventorySetup, error)

	// BulkUpdate applies the same patch to every id in one statement and
	// returns the number of rows changed.
	BulkUpdate(ctx context.Context, ids []id.ID, patch BulkPatch) (int64, error)

	// SetActive flips the is_active flag on every id in one statement and
	// returns the number of rows changed.
	SetActive(ctx context.Context, ids []id.ID, active bool) (int64, error)
}
