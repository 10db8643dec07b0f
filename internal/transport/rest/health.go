package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	internal "github.com/billableops/resource-management/internal"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Liveness answers as long as the process is serving requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Checks:    map[string]string{"server": "ok"},
	})
}

// Readiness pings the database inside a short deadline.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"server": "ok"}
	status := http.StatusOK
	overall := "ok"

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
		overall = "degraded"
	} else {
		checks["database"] = "ok"
	}

	writeHealth(w, status, healthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

func writeHealth(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
