package dto

import (
	"inventa/internal/core/entity"
	"inventa/internal/core/id"
	"inventa/internal/domain/catalogs/warehouse"
)

// WarehouseResponse contains warehouse fields.
type WarehouseResponse struct {
	BaseResponse
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	IsActive           bool    `json:"isActive"`
	WarehouseType      string  `json:"warehouseType"`
	Address            *string `json:"address,omitempty"`
	AllowNegativeStock bool    `json:"allowNegativeStock"`
	Description        *string `json:"description,omitempty"`
}

// FromWarehouse creates WarehouseResponse from the domain model.
func FromWarehouse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		BaseResponse:       FromBaseEntity(w.BaseEntity),
		Code:               w.Code,
		Name:               w.Name,
		IsActive:           w.IsActive,
		WarehouseType:      string(w.Type),
		Address:            w.Address,
		AllowNegativeStock: w.AllowNegativeStock,
		Description:        w.Description,
	}
}

// CreateWarehouseRequest for creating warehouses.
type CreateWarehouseRequest struct {
	Code               string            `json:"code" binding:"required"`
	Name               string            `json:"name" binding:"required"`
	WarehouseType      string            `json:"warehouseType"`
	Address            *string           `json:"address"`
	AllowNegativeStock bool              `json:"allowNegativeStock"`
	Description        *string           `json:"description"`
	Attributes         entity.Attributes `json:"attributes"`
}

// ToEntity converts the request into a domain model.
func (r CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name, warehouse.WarehouseType(r.WarehouseType))
	wh.Address = r.Address
	wh.AllowNegativeStock = r.AllowNegativeStock
	wh.Description = r.Description
	if r.Attributes != nil {
		wh.Attributes = r.Attributes
	}
	return wh
}

// UpdateWarehouseRequest for updating warehouses. Nil fields are left
// unchanged.
type UpdateWarehouseRequest struct {
	Code               *string           `json:"code"`
	Name               *string           `json:"name"`
	WarehouseType      *string           `json:"warehouseType"`
	Address            *string           `json:"address"`
	AllowNegativeStock *bool             `json:"allowNegativeStock"`
	IsActive           *bool             `json:"isActive"`
	Description        *string           `json:"description"`
	Attributes         entity.Attributes `json:"attributes"`
	Version            int               `json:"version" binding:"required,min=1"`
}

// Apply merges the request into an existing warehouse.
func (r UpdateWarehouseRequest) Apply(wh *warehouse.Warehouse) {
	if r.Code != nil {
		wh.Code = *r.Code
	}
	if r.Name != nil {
		wh.Name = *r.Name
	}
	if r.WarehouseType != nil {
		wh.Type = warehouse.WarehouseType(*r.WarehouseType)
	}
	if r.Address != nil {
		wh.Address = r.Address
	}
	if r.AllowNegativeStock != nil {
		wh.AllowNegativeStock = *r.AllowNegativeStock
	}
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	if r.Description != nil {
		wh.Description = r.Description
	}
	if r.Attributes != nil {
		wh.Attributes = r.Attributes
	}
	wh.Version = r.Version
}

// --- Locations ---

// LocationResponse contains location fields.
type LocationResponse struct {
	BaseResponse
	WarehouseID string  `json:"warehouseId"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	IsActive    bool    `json:"isActive"`
	ParentID    *string `json:"parentLocationId,omitempty"`
	Path        string  `json:"path"`
}

// FromLocation creates LocationResponse from the domain model.
func FromLocation(l *warehouse.Location) LocationResponse {
	resp := LocationResponse{
		BaseResponse: FromBaseEntity(l.BaseEntity),
		WarehouseID:  l.WarehouseID.String(),
		Code:         l.Code,
		Name:         l.Name,
		IsActive:     l.IsActive,
		Path:         l.Path,
	}
	if l.ParentID != nil {
		parent := l.ParentID.String()
		resp.ParentID = &parent
	}
	return resp
}

// FromLocations maps a slice of locations.
func FromLocations(locs []*warehouse.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, FromLocation(l))
	}
	return out
}

// CreateLocationRequest for creating locations.
type CreateLocationRequest struct {
	Code     string  `json:"code" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentLocationId"`
}

// ToEntity converts the request into a domain model.
func (r CreateLocationRequest) ToEntity(warehouseID id.ID) (*warehouse.Location, error) {
	loc := warehouse.NewLocation(warehouseID, r.Code, r.Name)
	if r.ParentID != nil {
		parentID, err := id.Parse(*r.ParentID)
		if err != nil {
			return nil, err
		}
		loc.ParentID = &parentID
	}
	return loc, nil
}

// UpdateLocationRequest for updating locations.
type UpdateLocationRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
	ParentID *string `json:"parentLocationId"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// Apply merges the request into an existing location.
func (r UpdateLocationRequest) Apply(loc *warehouse.Location) error {
	if r.Code != nil {
		loc.Code = *r.Code
	}
	if r.Name != nil {
		loc.Name = *r.Name
	}
	if r.IsActive != nil {
		loc.IsActive = *r.IsActive
	}
	if r.ParentID != nil {
		if *r.ParentID == "" {
			loc.ParentID = nil
		} else {
			parentID, err := id.Parse(*r.ParentID)
			if err != nil {
				return err
			}
			loc.ParentID = &parentID
		}
	}
	loc.Version = r.Version
	return nil
}

// WarehouseStatsResponse mirrors warehouse.Stats.
type WarehouseStatsResponse struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByType   map[string]int64 `json:"byType"`
}

// FromWarehouseStats maps warehouse statistics.
func FromWarehouseStats(s warehouse.Stats) WarehouseStatsResponse {
	return WarehouseStatsResponse{
		Total:    s.Total,
		Active:   s.Active,
		Inactive: s.Inactive,
		ByType:   s.ByType,
	}
}
