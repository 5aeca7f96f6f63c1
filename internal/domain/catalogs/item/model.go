// Package item provides the Item catalog.
// Items represent stocked materials, finished goods and other articles
// that inventory setups are configured for.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"inventa/internal/core/apperror"
	"inventa/internal/core/entity"
	"inventa/internal/core/validation"
)

// ItemType defines the item category.
type ItemType string

const (
	TypeRawMaterial  ItemType = "raw_material"
	TypeComponent    ItemType = "component"
	TypeSemiFinished ItemType = "semi_finished"
	TypeFinishedGood ItemType = "finished_good"
	TypeConsumable   ItemType = "consumable"
	TypeService      ItemType = "service"
)

// Item represents a stocked article or service.
type Item struct {
	entity.Catalog

	// Type defines item category
	Type ItemType `db:"type" json:"type"`

	// SKU is the stock keeping unit, unique within tenant scope
	SKU string `db:"sku" json:"sku"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// BaseUnit is the unit of measure code (PC, KG, L, ...)
	BaseUnit string `db:"base_unit" json:"baseUnit"`

	// IsStocked indicates if the item participates in stock keeping
	IsStocked bool `db:"is_stocked" json:"isStocked"`

	// TrackSerial indicates if item is tracked by serial numbers
	TrackSerial bool `db:"track_serial" json:"trackSerial"`

	// TrackBatch indicates if item is tracked by batch/lot numbers
	TrackBatch bool `db:"track_batch" json:"trackBatch"`

	// Weight in kg (for logistics)
	Weight decimal.Decimal `db:"weight" json:"weight"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string, itemType ItemType) *Item {
	return &Item{
		Catalog:   entity.NewCatalog(code, name),
		Type:      itemType,
		BaseUnit:  "PC",
		IsStocked: itemType != TypeService,
		Weight:    decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if err := validation.Enum("type", string(i.Type),
		string(TypeRawMaterial), string(TypeComponent), string(TypeSemiFinished),
		string(TypeFinishedGood), string(TypeConsumable), string(TypeService)); err != nil {
		return err
	}

	if i.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if i.Weight.IsNegative() {
		return apperror.NewValidation("weight cannot be negative").
			WithDetail("field", "weight")
	}

	// Services have no stock presence
	if i.Type == TypeService {
		if i.IsStocked || i.TrackSerial || i.TrackBatch {
			return apperror.NewValidation("services cannot be stocked or tracked").
				WithDetail("field", "type")
		}
	}

	return nil
}

// IsPhysical returns true if item has physical presence.
func (i *Item) IsPhysical() bool {
	return i.Type != TypeService
}

// IsTracked returns true if item requires serial or batch tracking.
func (i *Item) IsTracked() bool {
	return i.TrackSerial || i.TrackBatch
}
