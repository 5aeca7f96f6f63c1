// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	"inventa/pkg/logger"
)

// Recovery turns a handler panic into a 500. The stack goes to the log;
// the client sees only the generic internal-error body rendered by
// ErrorHandler. Outermost middleware, so it also covers the rest of the
// chain (a repository panicking on a missing tenant scope ends up here).
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"error", p,
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", p)).
				WithDetail("request_id", c.GetString("request_id"))
			_ = c.Error(appErr)
			c.Abort()
		}()
		c.Next()
	}
}
