// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// CallerContext identifies the authenticated API caller (a service or an
// operator token). There is no user account storage in this system; callers
// are whoever presented a valid token.
type CallerContext struct {
	Subject  string
	TenantID string
	Roles    []string
}

type callerContextKey struct{}

// WithCaller adds CallerContext to context.
func WithCaller(ctx context.Context, caller *CallerContext) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// GetCaller returns CallerContext from context.
func GetCaller(ctx context.Context) *CallerContext {
	if v, ok := ctx.Value(callerContextKey{}).(*CallerContext); ok {
		return v
	}
	return nil
}

// GetCallerSubject returns the caller subject from context or empty string.
func GetCallerSubject(ctx context.Context) string {
	if c := GetCaller(ctx); c != nil {
		return c.Subject
	}
	return ""
}

// HasRole checks if the caller has a specific role.
func HasRole(ctx context.Context, role string) bool {
	c := GetCaller(ctx)
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
