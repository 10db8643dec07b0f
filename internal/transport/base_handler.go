package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/pkg/logger"
)

// BaseHandler carries the response helpers shared by every HTTP handler.
type BaseHandler struct {
	Logger *slog.Logger
}

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (h *BaseHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logger.L()
}

func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log().Error("failed to encode response", "error", err)
	}
}

func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.WriteJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// HandleServiceError translates a service-layer error into an HTTP
// response. Application errors carry their own status and code; anything
// else collapses to an opaque 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		h.WriteError(w, appErr.StatusCode, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	h.log().Error("unhandled service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}

// ExtractTokenFromHeader pulls the bearer token out of the Authorization
// header, returning the empty string when it is absent or malformed.
func ExtractTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
