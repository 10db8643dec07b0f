package middleware

import (
	"net/http"

	"github.com/google/uuid"

	internal "github.com/billableops/resource-management/internal"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID captures the inbound trace id or mints one, stores it in the
// context and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(TraceIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := internal.ContextWithRequestID(r.Context(), requestID)
		w.Header().Set(TraceIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
