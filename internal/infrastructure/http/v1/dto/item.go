package dto

import (
	"github.com/shopspring/decimal"

	"inventa/internal/core/entity"
	"inventa/internal/domain/catalogs/item"
)

// ItemResponse contains item fields.
type ItemResponse struct {
	BaseResponse
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	IsActive    bool            `json:"isActive"`
	Type        string          `json:"type"`
	SKU         string          `json:"sku"`
	Barcode     *string         `json:"barcode,omitempty"`
	BaseUnit    string          `json:"baseUnit"`
	IsStocked   bool            `json:"isStocked"`
	TrackSerial bool            `json:"trackSerial"`
	TrackBatch  bool            `json:"trackBatch"`
	Weight      decimal.Decimal `json:"weight"`
	Description *string         `json:"description,omitempty"`
}

// FromItem creates ItemResponse from the domain model.
func FromItem(i *item.Item) ItemResponse {
	return ItemResponse{
		BaseResponse: FromBaseEntity(i.BaseEntity),
		Code:         i.Code,
		Name:         i.Name,
		IsActive:     i.IsActive,
		Type:         string(i.Type),
		SKU:          i.SKU,
		Barcode:      i.Barcode,
		BaseUnit:     i.BaseUnit,
		IsStocked:    i.IsStocked,
		TrackSerial:  i.TrackSerial,
		TrackBatch:   i.TrackBatch,
		Weight:       i.Weight,
		Description:  i.Description,
	}
}

// CreateItemRequest for creating items.
type CreateItemRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Type        string            `json:"type" binding:"required"`
	SKU         string            `json:"sku" binding:"required"`
	Barcode     *string           `json:"barcode"`
	BaseUnit    string            `json:"baseUnit"`
	IsStocked   *bool             `json:"isStocked"`
	TrackSerial bool              `json:"trackSerial"`
	TrackBatch  bool              `json:"trackBatch"`
	Weight      *decimal.Decimal  `json:"weight"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts the request into a domain model.
func (r CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, item.ItemType(r.Type))
	it.SKU = r.SKU
	it.Barcode = r.Barcode
	if r.BaseUnit != "" {
		it.BaseUnit = r.BaseUnit
	}
	if r.IsStocked != nil {
		it.IsStocked = *r.IsStocked
	}
	it.TrackSerial = r.TrackSerial
	it.TrackBatch = r.TrackBatch
	if r.Weight != nil {
		it.Weight = *r.Weight
	}
	it.Description = r.Description
	if r.Attributes != nil {
		it.Attributes = r.Attributes
	}
	return it
}

// UpdateItemRequest for updating items. Nil fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string           `json:"name"`
	Type        *string           `json:"type"`
	SKU         *string           `json:"sku"`
	Barcode     *string           `json:"barcode"`
	BaseUnit    *string           `json:"baseUnit"`
	IsActive    *bool             `json:"isActive"`
	IsStocked   *bool             `json:"isStocked"`
	TrackSerial *bool             `json:"trackSerial"`
	TrackBatch  *bool             `json:"trackBatch"`
	Weight      *decimal.Decimal  `json:"weight"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required,min=1"`
}

// Apply merges the request into an existing item.
func (r UpdateItemRequest) Apply(it *item.Item) {
	if r.Name != nil {
		it.Name = *r.Name
	}
	if r.Type != nil {
		it.Type = item.ItemType(*r.Type)
	}
	if r.SKU != nil {
		it.SKU = *r.SKU
	}
	if r.Barcode != nil {
		it.Barcode = r.Barcode
	}
	if r.BaseUnit != nil {
		it.BaseUnit = *r.BaseUnit
	}
	if r.IsActive != nil {
		it.IsActive = *r.IsActive
	}
	if r.IsStocked != nil {
		it.IsStocked = *r.IsStocked
	}
	if r.TrackSerial != nil {
		it.TrackSerial = *r.TrackSerial
	}
	if r.TrackBatch != nil {
		it.TrackBatch = *r.TrackBatch
	}
	if r.Weight != nil {
		it.Weight = *r.Weight
	}
	if r.Description != nil {
		it.Description = r.Description
	}
	if r.Attributes != nil {
		it.Attributes = r.Attributes
	}
	it.Version = r.Version
}
