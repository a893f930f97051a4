package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/recover", cfg.Auth.RecoverPassword)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Logout)

	me := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	me.Get("", cfg.Profile.Me)
	me.Put("", cfg.Profile.Update)

	technician := auth.RequireRole(domain.RoleTechnician)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Post("", auth.RequireRole(domain.RoleRequester), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", technician, cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/resolution", technician, cfg.Tickets.Resolve)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	reports.Get("/tickets.csv", cfg.Reports.CSV)
	reports.Get("/tickets.pdf", cfg.Reports.PDF)
}
