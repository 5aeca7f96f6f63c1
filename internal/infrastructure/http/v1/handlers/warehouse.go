package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/domain/catalogs/warehouse"
	"inventa/internal/infrastructure/http/v1/dto"
)

// locationNotFound hides locations that belong to another warehouse.
func locationNotFound(locationID id.ID) error {
	return apperror.NewNotFound("warehouse location", locationID)
}

// WarehouseCatalogHandler is an alias to keep signatures readable.
type WarehouseCatalogHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

// WarehouseHandler combines the generic catalog endpoints with statistics
// and the nested storage location resource.
type WarehouseHandler struct {
	*WarehouseCatalogHandler
	service *warehouse.Service
}

// NewWarehouseHandler wires the generic handler to the warehouse service.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.EntityService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) error {
			req.Apply(existing)
			return nil
		},

		MapToDTO: func(wh *warehouse.Warehouse) any {
			return dto.FromWarehouse(wh)
		},
	}

	return &WarehouseHandler{
		WarehouseCatalogHandler: NewCatalogHandler(base, config),
		service:                 service,
	}
}

// Stats handles GET /warehouses/stats
func (h *WarehouseHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromWarehouseStats(stats))
}

// ToggleActive handles POST /warehouses/:id/toggle-active
func (h *WarehouseHandler) ToggleActive(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	wh, err := h.service.ToggleActive(ctx, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromWarehouse(wh))
}

// ListLocations handles GET /warehouses/:id/locations
func (h *WarehouseHandler) ListLocations(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	locations, err := h.service.ListLocations(ctx, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromLocations(locations)})
}

// GetLocation handles GET /warehouses/:id/locations/:locationId
func (h *WarehouseHandler) GetLocation(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, "locationId")
	if !ok {
		return
	}

	loc, err := h.service.GetLocation(ctx, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if loc.WarehouseID != warehouseID {
		h.Error(c, locationNotFound(locationID))
		return
	}

	c.JSON(http.StatusOK, dto.FromLocation(loc))
}

// CreateLocation handles POST /warehouses/:id/locations
func (h *WarehouseHandler) CreateLocation(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := req.ToEntity(warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateLocation(ctx, loc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromLocation(loc))
}

// UpdateLocation handles PUT /warehouses/:id/locations/:locationId
func (h *WarehouseHandler) UpdateLocation(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, "locationId")
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := h.service.GetLocation(ctx, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if loc.WarehouseID != warehouseID {
		h.Error(c, locationNotFound(locationID))
		return
	}

	if err := req.Apply(loc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.UpdateLocation(ctx, loc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLocation(loc))
}

// DeleteLocation handles DELETE /warehouses/:id/locations/:locationId
func (h *WarehouseHandler) DeleteLocation(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, "locationId")
	if !ok {
		return
	}

	loc, err := h.service.GetLocation(ctx, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if loc.WarehouseID != warehouseID {
		h.Error(c, locationNotFound(locationID))
		return
	}

	if err := h.service.DeleteLocation(ctx, locationID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
