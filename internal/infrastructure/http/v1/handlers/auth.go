package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	appctx "inventa/internal/core/context"
	"inventa/internal/core/security"
	"inventa/internal/core/tenant"
)

// AuthHandler issues and introspects service tokens. There is no user
// store here; token subjects identify calling services or integration
// accounts, and issuance is only exposed when explicitly enabled.
type AuthHandler struct {
	*BaseHandler
	tokens     *security.TokenService
	allowIssue bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, tokens *security.TokenService, allowIssue bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		tokens:      tokens,
		allowIssue:  allowIssue,
	}
}

type issueTokenRequest struct {
	Subject string   `json:"subject" binding:"required"`
	Roles   []string `json:"roles"`
}

type issueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken handles POST /auth/token. Disabled unless the server runs
// with token issuance enabled; production deployments mint tokens out of
// band.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	if !h.allowIssue {
		h.Error(c, apperror.NewForbidden("token issuance is disabled"))
		return
	}

	var req issueTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tenantID := tenant.TenantID(c.Request.Context())
	token, expiresAt, err := h.tokens.GenerateToken(req.Subject, tenantID, req.Roles)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, issueTokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Me handles GET /auth/me and returns the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := appctx.GetCaller(c.Request.Context())
	if caller == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject":  caller.Subject,
		"tenantId": caller.TenantID,
		"roles":    caller.Roles,
	})
}
