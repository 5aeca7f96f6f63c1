// Package setup provides the InventorySetup record: the per item-per
// warehouse stocking policy (min/max/reorder thresholds, valuation method).
// At most one setup exists for each (item, warehouse) pair inside a tenant
// scope.
package setup

import (
	"context"

	"github.com/shopspring/decimal"

	"inventa/internal/core/apperror"
	"inventa/internal/core/entity"
	"inventa/internal/core/id"
	"inventa/internal/core/validation"
)

// ValuationMethod defines how stock on this item-warehouse pair is valued.
type ValuationMethod string

const (
	ValuationFIFO        ValuationMethod = "FIFO"
	ValuationLIFO        ValuationMethod = "LIFO"
	ValuationWeightedAvg ValuationMethod = "WEIGHTED_AVG"
	ValuationStandard    ValuationMethod = "STANDARD"
)

// InventorySetup is the stocking policy for one (item, warehouse) pair.
// Threshold fields are pointers: nil means "not configured", which is
// distinct from zero.
type InventorySetup struct {
	entity.BaseEntity

	// Number is the human-readable record number, e.g. SO-00005
	Number string `db:"number" json:"number"`

	// ItemID references the configured item
	ItemID id.ID `db:"item_id" json:"itemId"`

	// WarehouseID references the warehouse the policy applies to
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// MinStock is the minimum stock threshold
	MinStock *decimal.Decimal `db:"min_stock" json:"minStock,omitempty"`

	// MaxStock is the maximum stock threshold
	MaxStock *decimal.Decimal `db:"max_stock" json:"maxStock,omitempty"`

	// ReorderPoint triggers replenishment when stock falls below it
	ReorderPoint *decimal.Decimal `db:"reorder_point" json:"reorderPoint,omitempty"`

	// ReorderQty is the replenishment lot size
	ReorderQty *decimal.Decimal `db:"reorder_qty" json:"reorderQty,omitempty"`

	// SafetyStock is the buffer kept on top of expected demand
	SafetyStock *decimal.Decimal `db:"safety_stock" json:"safetyStock,omitempty"`

	// ValuationMethod for stock on this pair
	ValuationMethod ValuationMethod `db:"valuation_method" json:"valuationMethod"`

	// AllowNegativeStock permits issue below zero for this pair
	AllowNegativeStock bool `db:"allow_negative_stock" json:"allowNegativeStock"`

	// IsActive indicates the policy is in effect
	IsActive bool `db:"is_active" json:"isActive"`

	// Notes is free-form operator commentary
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// NewInventorySetup creates a setup with defaults.
func NewInventorySetup(itemID, warehouseID id.ID) *InventorySetup {
	return &InventorySetup{
		BaseEntity:      entity.NewBaseEntity(),
		ItemID:          itemID,
		WarehouseID:     warehouseID,
		ValuationMethod: ValuationFIFO,
		IsActive:        true,
	}
}

// Validate implements entity.Validatable interface.
// Stock level violations are collected and reported together.
func (s *InventorySetup) Validate(ctx context.Context) error {
	if id.IsNil(s.ItemID) {
		return apperror.NewValidation("itemId is required").
			WithDetail("field", "itemId")
	}
	if id.IsNil(s.WarehouseID) {
		return apperror.NewValidation("warehouseId is required").
			WithDetail("field", "warehouseId")
	}

	if s.ValuationMethod != "" {
		if err := validateValuationMethod(s.ValuationMethod); err != nil {
			return err
		}
	}

	return s.ValidateStockLevels(ctx)
}

// ValidateStockLevels checks the numeric threshold invariants. All
// violations are reported in one error so the caller can fix the whole
// form at once.
func (s *InventorySetup) ValidateStockLevels(ctx context.Context) error {
	var problems []string

	for _, f := range []struct {
		name  string
		value *decimal.Decimal
	}{
		{"minStock", s.MinStock},
		{"maxStock", s.MaxStock},
		{"reorderPoint", s.ReorderPoint},
		{"safetyStock", s.SafetyStock},
	} {
		if f.value != nil && f.value.IsNegative() {
			problems = append(problems, f.name+" cannot be negative")
		}
	}

	if s.ReorderQty != nil && !s.ReorderQty.IsPositive() {
		problems = append(problems, "reorderQty must be greater than zero")
	}

	if s.MinStock != nil && s.MaxStock != nil && s.MinStock.GreaterThan(*s.MaxStock) {
		problems = append(problems, "minStock cannot exceed maxStock")
	}

	if s.ReorderPoint != nil {
		if s.MinStock != nil && s.ReorderPoint.LessThan(*s.MinStock) {
			problems = append(problems, "reorderPoint cannot be below minStock")
		}
		if s.MaxStock != nil && s.ReorderPoint.GreaterThan(*s.MaxStock) {
			problems = append(problems, "reorderPoint cannot exceed maxStock")
		}
	}

	if len(problems) > 0 {
		return apperror.NewValidation("stock level validation failed").
			WithDetail("errors", problems)
	}
	return nil
}

func validateValuationMethod(m ValuationMethod) error {
	return validation.Enum("valuationMethod", string(m),
		string(ValuationFIFO), string(ValuationLIFO),
		string(ValuationWeightedAvg), string(ValuationStandard))
}
