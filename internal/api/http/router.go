package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/http/handlers"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Cases          *handlers.CasesHandler
	Audit          *handlers.AuditHandler
	Reminders      *handlers.RemindersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/gateway/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	staff := protected.Group("/staff")
	staff.Post("", cfg.Staff.Hire)
	staff.Get("", cfg.Staff.List)
	staff.Post("/promote", cfg.Staff.Promote)
	staff.Post("/demote", cfg.Staff.Demote)
	staff.Post("/fire", cfg.Staff.Fire)
	staff.Post("/bypass/confirm", cfg.Staff.ConfirmBypass)
	staff.Get("/:userID", cfg.Staff.Get)

	cases := protected.Group("/cases")
	cases.Post("", cfg.Cases.Open)
	cases.Get("", cfg.Cases.List)
	cases.Post("/reassign", cfg.Cases.Reassign)
	cases.Get("/number/:number", cfg.Cases.GetByNumber)
	cases.Get("/:id", cfg.Cases.Get)
	cases.Post("/:id/accept", cfg.Cases.Accept)
	cases.Post("/:id/decline", cfg.Cases.Decline)
	cases.Post("/:id/close", cfg.Cases.Close)
	cases.Post("/:id/assign", cfg.Cases.Assign)
	cases.Post("/:id/unassign", cfg.Cases.Unassign)
	cases.Post("/:id/reminders", cfg.Reminders.Create)
	cases.Get("/:id/reminders", cfg.Reminders.ListByCase)

	protected.Post("/reminders/:id/resolve", cfg.Reminders.Resolve)
	protected.Get("/audit", cfg.Audit.List)
}
