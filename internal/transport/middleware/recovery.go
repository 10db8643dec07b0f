package middleware

import (
	"net/http"
	"runtime/debug"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/transport"
	"github.com/billableops/resource-management/pkg/logger"
)

// Recovery converts handler panics into a 500 response instead of tearing
// down the connection.
func Recovery(next http.Handler) http.Handler {
	base := &transport.BaseHandler{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L().Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", internal.RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()))

				base.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
