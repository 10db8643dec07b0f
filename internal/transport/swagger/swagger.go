package swagger

import (
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/billableops/resource-management/pkg/logger"
)

const specPath = "api/openapi.yml"

// RegisterRoutes serves the raw OpenAPI document and the Swagger UI. The
// document is validated at startup so a broken spec fails loudly instead of
// rendering an empty UI.
func RegisterRoutes(r chi.Router) {
	if _, err := os.Stat(specPath); err != nil {
		logger.L().Warn("openapi document not found, docs disabled", "path", specPath)
		return
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		logger.L().Error("failed to load openapi document", "error", err, "path", specPath)
		return
	}
	if err := doc.Validate(loader.Context); err != nil {
		logger.L().Error("openapi document is invalid", "error", err, "path", specPath)
		return
	}

	r.Get("/openapi.yml", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, specPath)
	})
	r.Handle("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	))
}
