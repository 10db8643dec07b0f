package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/pkg/logger"
)

// Logging emits one structured line per request with the trace id, status
// and latency.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.L().Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", internal.RequestIDFromContext(r.Context()),
			"remote_addr", r.RemoteAddr)
	})
}
