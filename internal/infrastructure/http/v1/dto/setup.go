package dto

import (
	"github.com/shopspring/decimal"

	"inventa/internal/core/apperror"
	"inventa/internal/core/entity"
	"inventa/internal/core/id"
	"inventa/internal/domain/setup"
)

// SetupResponse contains inventory setup fields.
type SetupResponse struct {
	BaseResponse
	Number             string           `json:"number"`
	ItemID             string           `json:"itemId"`
	WarehouseID        string           `json:"warehouseId"`
	MinStock           *decimal.Decimal `json:"minStock,omitempty"`
	MaxStock           *decimal.Decimal `json:"maxStock,omitempty"`
	ReorderPoint       *decimal.Decimal `json:"reorderPoint,omitempty"`
	ReorderQty         *decimal.Decimal `json:"reorderQty,omitempty"`
	SafetyStock        *decimal.Decimal `json:"safetyStock,omitempty"`
	ValuationMethod    string           `json:"valuationMethod"`
	AllowNegativeStock bool             `json:"allowNegativeStock"`
	IsActive           bool             `json:"isActive"`
	Notes              *string          `json:"notes,omitempty"`
}

// FromSetup creates SetupResponse from the domain model.
func FromSetup(s *setup.InventorySetup) SetupResponse {
	return SetupResponse{
		BaseResponse:       FromBaseEntity(s.BaseEntity),
		Number:             s.Number,
		ItemID:             s.ItemID.String(),
		WarehouseID:        s.WarehouseID.String(),
		MinStock:           s.MinStock,
		MaxStock:           s.MaxStock,
		ReorderPoint:       s.ReorderPoint,
		ReorderQty:         s.ReorderQty,
		SafetyStock:        s.SafetyStock,
		ValuationMethod:    string(s.ValuationMethod),
		AllowNegativeStock: s.AllowNegativeStock,
		IsActive:           s.IsActive,
		Notes:              s.Notes,
	}
}

// FromSetups maps a slice of setups.
func FromSetups(setups []*setup.InventorySetup) []SetupResponse {
	out := make([]SetupResponse, 0, len(setups))
	for _, s := range setups {
		out = append(out, FromSetup(s))
	}
	return out
}

// CreateSetupRequest for creating inventory setups.
type CreateSetupRequest struct {
	ItemID             string            `json:"itemId" binding:"required"`
	WarehouseID        string            `json:"warehouseId" binding:"required"`
	MinStock           *decimal.Decimal  `json:"minStock"`
	MaxStock           *decimal.Decimal  `json:"maxStock"`
	ReorderPoint       *decimal.Decimal  `json:"reorderPoint"`
	ReorderQty         *decimal.Decimal  `json:"reorderQty"`
	SafetyStock        *decimal.Decimal  `json:"safetyStock"`
	ValuationMethod    string            `json:"valuationMethod"`
	AllowNegativeStock bool              `json:"allowNegativeStock"`
	Notes              *string           `json:"notes"`
	Attributes         entity.Attributes `json:"attributes"`
}

// ToEntity converts the request into a domain model.
func (r CreateSetupRequest) ToEntity() (*setup.InventorySetup, error) {
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return nil, apperror.NewValidation("invalid itemId").
			WithDetail("field", "itemId").WithDetail("value", r.ItemID)
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouseId").
			WithDetail("field", "warehouseId").WithDetail("value", r.WarehouseID)
	}

	rec := setup.NewInventorySetup(itemID, warehouseID)
	rec.MinStock = r.MinStock
	rec.MaxStock = r.MaxStock
	rec.ReorderPoint = r.ReorderPoint
	rec.ReorderQty = r.ReorderQty
	rec.SafetyStock = r.SafetyStock
	if r.ValuationMethod != "" {
		rec.ValuationMethod = setup.ValuationMethod(r.ValuationMethod)
	}
	rec.AllowNegativeStock = r.AllowNegativeStock
	rec.Notes = r.Notes
	if r.Attributes != nil {
		rec.Attributes = r.Attributes
	}
	return rec, nil
}

// UpdateSetupRequest for updating inventory setups. Nil fields are left
// unchanged; threshold fields use a second pointer level so "set to null"
// stays expressible through explicit null in JSON.
type UpdateSetupRequest struct {
	ItemID             *string           `json:"itemId"`
	WarehouseID        *string           `json:"warehouseId"`
	MinStock           *decimal.Decimal  `json:"minStock"`
	MaxStock           *decimal.Decimal  `json:"maxStock"`
	ReorderPoint       *decimal.Decimal  `json:"reorderPoint"`
	ReorderQty         *decimal.Decimal  `json:"reorderQty"`
	SafetyStock        *decimal.Decimal  `json:"safetyStock"`
	ValuationMethod    *string           `json:"valuationMethod"`
	AllowNegativeStock *bool             `json:"allowNegativeStock"`
	IsActive           *bool             `json:"isActive"`
	Notes              *string           `json:"notes"`
	Attributes         entity.Attributes `json:"attributes"`
	Version            int               `json:"version" binding:"required,min=1"`
}

// Apply merges the request into an existing setup.
func (r UpdateSetupRequest) Apply(rec *setup.InventorySetup) error {
	if r.ItemID != nil {
		itemID, err := id.Parse(*r.ItemID)
		if err != nil {
			return apperror.NewValidation("invalid itemId").
				WithDetail("field", "itemId").WithDetail("value", *r.ItemID)
		}
		rec.ItemID = itemID
	}
	if r.WarehouseID != nil {
		warehouseID, err := id.Parse(*r.WarehouseID)
		if err != nil {
			return apperror.NewValidation("invalid warehouseId").
				WithDetail("field", "warehouseId").WithDetail("value", *r.WarehouseID)
		}
		rec.WarehouseID = warehouseID
	}
	if r.MinStock != nil {
		rec.MinStock = r.MinStock
	}
	if r.MaxStock != nil {
		rec.MaxStock = r.MaxStock
	}
	if r.ReorderPoint != nil {
		rec.ReorderPoint = r.ReorderPoint
	}
	if r.ReorderQty != nil {
		rec.ReorderQty = r.ReorderQty
	}
	if r.SafetyStock != nil {
		rec.SafetyStock = r.SafetyStock
	}
	if r.ValuationMethod != nil {
		rec.ValuationMethod = setup.ValuationMethod(*r.ValuationMethod)
	}
	if r.AllowNegativeStock != nil {
		rec.AllowNegativeStock = *r.AllowNegativeStock
	}
	if r.IsActive != nil {
		rec.IsActive = *r.IsActive
	}
	if r.Notes != nil {
		rec.Notes = r.Notes
	}
	if r.Attributes != nil {
		rec.Attributes = r.Attributes
	}
	rec.Version = r.Version
	return nil
}

// BulkUpdateSetupsRequest applies one shared patch to many setups.
type BulkUpdateSetupsRequest struct {
	IDs                []string         `json:"ids" binding:"required,min=1"`
	MinStock           *decimal.Decimal `json:"minStock"`
	MaxStock           *decimal.Decimal `json:"maxStock"`
	ReorderPoint       *decimal.Decimal `json:"reorderPoint"`
	ReorderQty         *decimal.Decimal `json:"reorderQty"`
	SafetyStock        *decimal.Decimal `json:"safetyStock"`
	ValuationMethod    *string          `json:"valuationMethod"`
	AllowNegativeStock *bool            `json:"allowNegativeStock"`
	IsActive           *bool            `json:"isActive"`
}

// ToPatch converts the request into a repository patch.
func (r BulkUpdateSetupsRequest) ToPatch() setup.BulkPatch {
	patch := setup.BulkPatch{
		MinStock:           r.MinStock,
		MaxStock:           r.MaxStock,
		ReorderPoint:       r.ReorderPoint,
		ReorderQty:         r.ReorderQty,
		SafetyStock:        r.SafetyStock,
		AllowNegativeStock: r.AllowNegativeStock,
		IsActive:           r.IsActive,
	}
	if r.ValuationMethod != nil {
		vm := setup.ValuationMethod(*r.ValuationMethod)
		patch.ValuationMethod = &vm
	}
	return patch
}

// DuplicateSetupRequest copies a setup to other warehouses.
type DuplicateSetupRequest struct {
	TargetWarehouseIDs []string         `json:"targetWarehouseIds" binding:"required,min=1"`
	MinStock           *decimal.Decimal `json:"minStock"`
	MaxStock           *decimal.Decimal `json:"maxStock"`
	ReorderPoint       *decimal.Decimal `json:"reorderPoint"`
	ReorderQty         *decimal.Decimal `json:"reorderQty"`
	SafetyStock        *decimal.Decimal `json:"safetyStock"`
}

// Adjustments extracts the per-call overrides.
func (r DuplicateSetupRequest) Adjustments() setup.Adjustments {
	return setup.Adjustments{
		MinStock:     r.MinStock,
		MaxStock:     r.MaxStock,
		ReorderPoint: r.ReorderPoint,
		ReorderQty:   r.ReorderQty,
		SafetyStock:  r.SafetyStock,
	}
}

// DuplicateSetupResponse reports per-target outcomes.
type DuplicateSetupResponse struct {
	Success []SetupResponse       `json:"success"`
	Errors  []DuplicateErrorEntry `json:"errors"`
}

// DuplicateErrorEntry is one failed duplicate target.
type DuplicateErrorEntry struct {
	WarehouseID string `json:"warehouseId"`
	Error       string `json:"error"`
}

// FromDuplicateResult maps the service result.
func FromDuplicateResult(result setup.DuplicateResult) DuplicateSetupResponse {
	resp := DuplicateSetupResponse{
		Success: FromSetups(result.Created),
		Errors:  make([]DuplicateErrorEntry, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, DuplicateErrorEntry{
			WarehouseID: e.WarehouseID.String(),
			Error:       e.Error,
		})
	}
	return resp
}

// ToggleSetupStatusRequest flips the is_active flag on many setups.
type ToggleSetupStatusRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	IsActive bool     `json:"isActive"`
}

// ParseIDs converts string ids into typed ids.
func ParseIDs(raw []string) ([]id.ID, error) {
	ids := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := id.Parse(s)
		if err != nil {
			return nil, apperror.NewValidation("invalid id in list").
				WithDetail("value", s)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
