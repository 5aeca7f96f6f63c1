package middleware

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/core/tenant"
)

const (
	// TenantHeader carries the tenant identifier.
	TenantHeader = "X-Tenant-ID"
	// StageHeader carries the stage (environment) identifier.
	StageHeader = "X-Stage-ID"

	// Query parameter fallbacks for clients that cannot set headers.
	tenantQueryParam = "tenantId"
	stageQueryParam  = "stageId"
)

// TenantScope middleware resolves the tenant scope for the request and
// stores it in the context. It MUST run before any database operation:
// repositories panic on a missing scope.
//
// Resolution order per field: header, then query parameter, then the
// configured default ("1000"/"DEV"). The value is trusted input from the
// routing layer and is not re-validated downstream; isolation correctness
// rests on every repository applying the scope filter.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(TenantHeader)
		if tenantID == "" {
			tenantID = c.Query(tenantQueryParam)
		}

		stageID := c.GetHeader(StageHeader)
		if stageID == "" {
			stageID = c.Query(stageQueryParam)
		}

		tc := tenant.New(tenantID, stageID)

		ctx := tenant.WithContext(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)

		c.Set("tenant_id", tc.TenantID)
		c.Set("stage_id", tc.StageID)

		c.Next()
	}
}
