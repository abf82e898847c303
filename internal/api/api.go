// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/cividoc/cividoc/internal/config"
	"github.com/cividoc/cividoc/internal/infrastructure"
	"github.com/cividoc/cividoc/pkg/middleware"
	"github.com/cividoc/cividoc/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Bearer verification is applied only when auth is enabled in config.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	auth, err := middleware.NewAuthenticator(
		infra.Lifecycle.Context(),
		&cfg.Auth,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("authenticator init failed: %w", err)
	}
	if auth != nil {
		m.Use(auth.Middleware())
	}

	return m, nil
}
