package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventa/internal/infrastructure/storage/postgres"
)

// AuditHandler serves entity change history.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

// History returns a handler for GET /{entity}/:id/history.
func (h *AuditHandler) History(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		entityID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}

		limit := h.ParseIntQuery(c, "limit", 50)
		if limit < 1 || limit > 500 {
			limit = 50
		}

		entries, err := h.audit.GetEntityHistory(ctx, entityType, entityID, limit)
		if err != nil {
			h.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": entries})
	}
}
