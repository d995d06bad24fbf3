package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Davve420/CRM-tester/internal/api/http/handlers"
	"github.com/Davve420/CRM-tester/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	CompanyIssues  *handlers.CompanyIssuesHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/auth/login", cfg.Auth.Login)

	// public submission plus the unscoped administrative lookups
	api.Post("/issues", cfg.Issues.CreateIssue)
	api.Get("/issues", cfg.Issues.ListIssues)
	api.Get("/issues/:id", cfg.Issues.GetIssue)

	scoped := api.Group("/company", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	scoped.Get("/issues", auth.RequireStaff(), cfg.CompanyIssues.ListCompanyIssues)
	scoped.Get("/issues/:id", cfg.CompanyIssues.GetCompanyIssue)
	scoped.Put("/issues/:id/state", auth.RequireStaff(), cfg.CompanyIssues.UpdateIssueState)
	scoped.Get("/issues/:id/messages", cfg.Messages.ListMessages)
	scoped.Post("/issues/:id/messages", cfg.Messages.PostMessage)
}
