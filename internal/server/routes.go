package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkhub/internal/db"
	"linkhub/internal/email"
	"linkhub/internal/handlers"
	"linkhub/internal/handlers/api"
	"linkhub/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, notifier *email.Notifier) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	authHandler := api.NewAuthHandler(database)
	linkHandler := api.NewLinkHandler(database)
	feedHandler := api.NewFeedHandler(database)
	categoryHandler := api.NewCategoryHandler(database)
	profileHandler := api.NewProfileHandler(database)
	requestHandler := api.NewRequestHandler(database, notifier)
	healthHandler := api.NewHealthHandler(database)

	// Federated login - only if OIDC is configured
	if s.Cfg.IsOIDCEnabled() {
		oidcHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", oidcHandler.Login)
		s.App.Get("/auth/callback", oidcHandler.Callback)
		s.App.Get("/auth/logout", oidcHandler.Logout)
	} else {
		slog.Info("OIDC login disabled (set OIDC_ISSUER and OIDC_CLIENT_ID to enable)")
	}

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := s.App.Group("/api")

	// Credentials
	apiGroup.Post("/register", authHandler.Register)
	apiGroup.Post("/login", authHandler.Login)
	apiGroup.Post("/logout", authHandler.Logout)
	apiGroup.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	// Feed and links
	apiGroup.Get("/feed", authMiddleware.OptionalAuth, feedHandler.Show)
	apiGroup.Get("/links", authMiddleware.OptionalAuth, linkHandler.List)
	apiGroup.Post("/links", authMiddleware.RequireAuth, linkHandler.Create)
	apiGroup.Get("/links/:id", authMiddleware.OptionalAuth, linkHandler.Get)
	apiGroup.Delete("/links/:id", authMiddleware.RequireAuth, linkHandler.Delete)

	// Engagement
	apiGroup.Post("/links/:id/like", authMiddleware.RequireAuth, linkHandler.Like)
	apiGroup.Post("/links/:id/unlike", authMiddleware.RequireAuth, linkHandler.Unlike)
	apiGroup.Post("/links/:id/bookmark", authMiddleware.RequireAuth, linkHandler.Bookmark)
	apiGroup.Post("/links/:id/unbookmark", authMiddleware.RequireAuth, linkHandler.Unbookmark)

	// Categories and preferences
	apiGroup.Get("/categories", categoryHandler.List)
	apiGroup.Post("/filter/preference", profileHandler.SetFilterPreference)
	apiGroup.Get("/profile", authMiddleware.RequireAuth, profileHandler.Show)

	// Support requests
	apiGroup.Post("/contact", authMiddleware.RequireAuth, requestHandler.Contact)
	apiGroup.Post("/data-removal", authMiddleware.RequireAuth, requestHandler.DataRemoval)
	apiGroup.Get("/my-requests", authMiddleware.RequireAuth, requestHandler.MyRequests)

	return nil
}
