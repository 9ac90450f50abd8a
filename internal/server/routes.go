package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statline/internal/db"
	"statline/internal/handlers/api"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, ai api.Generator) {
	searchHandler := api.NewSearchHandler(database, ai)
	userHandler := api.NewUserHandler(database)
	queryHandler := api.NewQueryHandler(database)
	healthHandler := api.NewHealthHandler(database)

	// Search orchestration
	s.App.Post("/api/search", searchHandler.Search)

	// Identity
	s.App.Post("/api/users/login", userHandler.Login)
	s.App.Get("/api/users", userHandler.List)
	s.App.Get("/api/users/stats", userHandler.Stats)

	// Telemetry and analytics
	s.App.Post("/api/queries/log", queryHandler.Log)
	s.App.Get("/api/queries/popular", queryHandler.Popular)
	s.App.Get("/api/queries/history/:uid", queryHandler.History)
	s.App.Get("/api/queries/analytics", queryHandler.Analytics)

	// Operational
	s.App.Get("/health", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
