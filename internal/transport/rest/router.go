package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/resource"
	"github.com/billableops/resource-management/internal/transport/middleware"
	"github.com/billableops/resource-management/internal/transport/swagger"
)

type RouterDeps struct {
	Config          *internal.Config
	DB              *sqlx.DB
	TokenValidator  *auth.TokenValidator
	ResourceHandler *resource.Handler
}

// NewRouter assembles the HTTP surface: public health and docs endpoints,
// optional metrics, and the authenticated /api/v1 routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)

	if deps.Config.Observability.Metrics.Enabled {
		r.Use(middleware.Metrics)
		r.Method(http.MethodGet, deps.Config.Observability.Metrics.Path, promhttp.Handler())
	}

	swagger.RegisterRoutes(r)

	health := NewHealthHandler(deps.DB)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Readiness)
		r.Get("/ping", health.Liveness)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(deps.TokenValidator))
			deps.ResourceHandler.RegisterRoutes(pr)
		})
	})

	return r
}
