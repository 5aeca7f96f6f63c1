package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventa/internal/domain/setup"
	"inventa/internal/infrastructure/http/v1/dto"
)

// SetupHandler serves inventory setup endpoints.
type SetupHandler struct {
	*BaseHandler
	service *setup.Service
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(base *BaseHandler, service *setup.Service) *SetupHandler {
	return &SetupHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /inventory-setups
func (h *SetupHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.ParseListFilter(c)
	if !ok {
		return
	}
	// Setups carry a number, not a name.
	if c.Query("orderBy") == "" {
		filter.OrderBy = "number"
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromSetup))
}

// Get handles GET /inventory-setups/:id
func (h *SetupHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	setupID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetByID(ctx, setupID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSetup(rec))
}

// Create handles POST /inventory-setups
func (h *SetupHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSetupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateSetup(ctx, rec); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSetup(rec))
}

// Update handles PUT /inventory-setups/:id
func (h *SetupHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	setupID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSetupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.GetByID(ctx, setupID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(rec); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.UpdateSetup(ctx, rec); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSetup(rec))
}

// Delete handles DELETE /inventory-setups/:id
func (h *SetupHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	setupID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSetup(ctx, setupID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkUpdate handles POST /inventory-setups/bulk-update
func (h *SetupHandler) BulkUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BulkUpdateSetupsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := dto.ParseIDs(req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.BulkUpdateSetups(ctx, ids, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdatedResponse{Updated: updated})
}

// Duplicate handles POST /inventory-setups/:id/duplicate
func (h *SetupHandler) Duplicate(c *gin.Context) {
	ctx := c.Request.Context()

	sourceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.DuplicateSetupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	targets, err := dto.ParseIDs(req.TargetWarehouseIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.DuplicateSetup(ctx, sourceID, targets, req.Adjustments())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDuplicateResult(result))
}

// ToggleStatus handles POST /inventory-setups/toggle-status
func (h *SetupHandler) ToggleStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ToggleSetupStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := dto.ParseIDs(req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.ToggleSetupStatus(ctx, ids, req.IsActive)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdatedResponse{Updated: updated})
}

// ListByItem handles GET /inventory-setups/by-item/:itemId
func (h *SetupHandler) ListByItem(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	setups, err := h.service.ListByItem(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromSetups(setups)})
}

// ListByWarehouse handles GET /inventory-setups/by-warehouse/:warehouseId
func (h *SetupHandler) ListByWarehouse(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseID(c, "warehouseId")
	if !ok {
		return
	}

	setups, err := h.service.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromSetups(setups)})
}
