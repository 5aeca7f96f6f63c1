package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	appctx "inventa/internal/core/context"
	"inventa/internal/core/tenant"
)

// TokenValidator resolves a bearer token into a caller context.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.CallerContext, error)
}

// bearerToken extracts the token from the Authorization header. The second
// return reports whether a well-formed bearer header was present at all.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// tenantMatches checks the token's tenant against the scope the tenant
// middleware resolved for this request. Tokens are issued per tenant.
func tenantMatches(c *gin.Context, caller *appctx.CallerContext) (string, bool) {
	resolved := tenant.TenantID(c.Request.Context())
	if resolved != "" && caller.TenantID != "" && resolved != caller.TenantID {
		return resolved, false
	}
	return resolved, true
}

func attachCaller(c *gin.Context, caller *appctx.CallerContext) {
	ctx := appctx.WithCaller(c.Request.Context(), caller)
	c.Request = c.Request.WithContext(ctx)
	c.Set("caller", caller.Subject)
}

// Auth requires a valid bearer token belonging to the request's tenant.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		caller, err := validator.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		if resolved, ok := tenantMatches(c, caller); !ok {
			_ = c.Error(
				apperror.NewForbidden("tenant mismatch").
					WithDetail("request_tenant_id", resolved).
					WithDetail("token_tenant_id", caller.TenantID),
			)
			c.Abort()
			return
		}

		attachCaller(c, caller)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// the request through anonymously otherwise. A token for another tenant is
// ignored rather than rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if caller, err := validator.ValidateToken(token); err == nil && caller != nil {
				if _, ok := tenantMatches(c, caller); ok {
					attachCaller(c, caller)
				}
			}
		}
		c.Next()
	}
}

// RequireRole passes callers holding at least one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := appctx.GetCaller(c.Request.Context())
		if caller == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, required := range roles {
			for _, role := range caller.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
