package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	"inventa/internal/domain/catalogs/item"
	"inventa/internal/infrastructure/http/v1/dto"
)

// ItemCatalogHandler is an alias to keep signatures readable.
type ItemCatalogHandler = CatalogHandler[
	*item.Item,
	dto.CreateItemRequest,
	dto.UpdateItemRequest,
]

// ItemHandler combines the generic catalog endpoints with item-specific ones.
type ItemHandler struct {
	*ItemCatalogHandler
	service *item.Service
}

// NewItemHandler wires the generic handler to the item service.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	config := CatalogHandlerConfig[
		*item.Item,
		dto.CreateItemRequest,
		dto.UpdateItemRequest,
	]{
		Service:    service.EntityService,
		EntityName: "item",

		MapCreateDTO: func(req dto.CreateItemRequest) *item.Item {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) error {
			req.Apply(existing)
			return nil
		},

		MapToDTO: func(it *item.Item) any {
			return dto.FromItem(it)
		},
	}

	return &ItemHandler{
		ItemCatalogHandler: NewCatalogHandler(base, config),
		service:            service,
	}
}

// GetBySKU handles GET /items/by-sku/:sku
func (h *ItemHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	sku := c.Param("sku")
	if sku == "" {
		h.Error(c, apperror.NewValidation("sku is required"))
		return
	}

	it, err := h.service.GetBySKU(ctx, sku)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(it))
}

// ToggleActive handles POST /items/:id/toggle-active
func (h *ItemHandler) ToggleActive(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.ToggleActive(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(it))
}
