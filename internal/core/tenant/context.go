// Package tenant provides the tenant scope shared by every data access path.
// Rows are isolated by the (tenant_id, stage_id) column pair, not by physical
// databases, so the scope must travel with the request context.
package tenant

import (
	"context"
	"errors"
)

// Default scope used when a request carries no tenant headers.
const (
	DefaultTenantID = "1000"
	DefaultStageID  = "DEV"
)

// ErrNoScopeInContext is returned when a repository is called without a
// resolved tenant scope. This indicates a missing middleware, not bad input.
var ErrNoScopeInContext = errors.New("tenant scope not found in context")

// Context is the (tenantId, stageId) pair scoping all data access to one
// customer/environment. Immutable per request.
type Context struct {
	TenantID string
	StageID  string
}

// Default returns the fallback scope.
func Default() Context {
	return Context{TenantID: DefaultTenantID, StageID: DefaultStageID}
}

// New builds a scope, substituting defaults for empty fields.
func New(tenantID, stageID string) Context {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	if stageID == "" {
		stageID = DefaultStageID
	}
	return Context{TenantID: tenantID, StageID: stageID}
}

type ctxKey struct{}

// WithContext stores the tenant scope in ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext retrieves the tenant scope from ctx.
func FromContext(ctx context.Context) (Context, error) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	if !ok || tc.TenantID == "" {
		return Context{}, ErrNoScopeInContext
	}
	return tc, nil
}

// MustFromContext retrieves the tenant scope or panics.
// Use in repositories where a missing scope is a programming error
// (the resolver middleware must run before any database operation).
func MustFromContext(ctx context.Context) Context {
	tc, err := FromContext(ctx)
	if err != nil {
		panic("tenant scope not in context: " + err.Error())
	}
	return tc
}

// TenantID returns the tenant id from ctx or empty string.
func TenantID(ctx context.Context) string {
	if tc, err := FromContext(ctx); err == nil {
		return tc.TenantID
	}
	return ""
}

// StageID returns the stage id from ctx or empty string.
func StageID(ctx context.Context) string {
	if tc, err := FromContext(ctx); err == nil {
		return tc.StageID
	}
	return ""
}
