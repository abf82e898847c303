package api

import (
	"net/http"

	"github.com/cividoc/cividoc/internal/config"
	"github.com/cividoc/cividoc/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) {
	routes.Register(
		mux,
		domain.Documents.Handler(
			cfg.API.MaxUploadSizeBytes(),
			cfg.API.MaxBatchSize,
		).Routes(),
		domain.Verification.Routes(),
	)
}
