package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediadash/internal/config"
	"mediadash/internal/db"
	"mediadash/internal/handlers"
	"mediadash/internal/handlers/api"
	"mediadash/internal/middleware"
	"mediadash/internal/panel"
)

// Deps are the collaborators the routes need. DB may be nil.
type Deps struct {
	Layout   *config.DashboardConfig
	Pipeline *panel.Pipeline
	DB       *db.DB
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	// Initialize handlers
	var pinger handlers.Pinger
	if deps.DB != nil {
		pinger = deps.DB
	}
	probeHandler := handlers.NewProbeHandler(pinger)
	dashboardHandler := handlers.NewDashboardHandler(s.Cfg, deps.Layout, deps.Pipeline)
	panelHandler := handlers.NewPanelHandler(s.Cfg, deps.Layout, deps.Pipeline, s.Logger)
	panelsAPI := api.NewPanelsHandler(deps.Layout, deps.Pipeline, s.Logger)

	// Probes and metrics are always public
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes, only when OIDC is configured
	if s.Cfg.AuthEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, s.Logger)
		if err != nil {
			return fmt.Errorf("init OIDC: %w", err)
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		s.Logger.Info("OIDC authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	// Dashboard
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Post("/panels/:id/controls", authMiddleware.RequireAuth, panelHandler.UpdateControls)
	s.App.Post("/panels/:id/reset", authMiddleware.RequireAuth, panelHandler.Reset)
	s.App.Get("/panels/:id/image.png", authMiddleware.RequireAuth, panelHandler.Image)
	s.App.Get("/panels/:id/export.xlsx", authMiddleware.RequireAuth, panelHandler.Export)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)
	apiGroup.Get("/panels", panelsAPI.List)
	apiGroup.Get("/panels/:id/data", panelsAPI.Data)

	return nil
}
