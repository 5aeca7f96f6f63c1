// Package warehouse provides the Warehouse catalog and its storage locations.
// Warehouses represent physical sites holding stock; locations form a tree
// of bins/zones inside a warehouse addressed by a materialized path.
package warehouse

import (
	"context"

	"inventa/internal/core/entity"
	"inventa/internal/core/validation"
)

// WarehouseType classifies a site by what it stores.
type WarehouseType string

const (
	TypeRawMaterials WarehouseType = "RM"
	TypeFinishedGood WarehouseType = "FG"
	TypeWorkInProc   WarehouseType = "WIP"
	// TypeQuarantine holds blocked stock pending inspection.
	TypeQuarantine WarehouseType = "QUARANTINE"
)

// Warehouse is one physical storage site. AllowNegativeStock is a
// site-wide policy flag; per-item overrides live on the inventory setup.
type Warehouse struct {
	entity.Catalog

	Type WarehouseType `db:"type" json:"warehouseType"`

	Address *string `db:"address" json:"address,omitempty"`

	AllowNegativeStock bool `db:"allow_negative_stock" json:"allowNegativeStock"`

	Description *string `db:"description" json:"description,omitempty"`
}

// NewWarehouse returns an active warehouse of the given type.
func NewWarehouse(code, name string, whType WarehouseType) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
		Type:    whType,
	}
}

// Validate implements entity.Validatable. Type is optional; when set it
// must be one of the known categories.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if w.Type == "" {
		return nil
	}
	return validation.Enum("warehouseType", string(w.Type),
		string(TypeRawMaterials), string(TypeFinishedGood),
		string(TypeWorkInProc), string(TypeQuarantine))
}

// CanAcceptStock reports whether the site is usable for receipts: active
// and not soft-deleted.
func (w *Warehouse) CanAcceptStock() bool {
	return w.IsActive && !w.DeletionMark
}
