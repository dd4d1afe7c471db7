package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/api/http/handlers"
	"github.com/deskhub/helpdesk/internal/auth"
	"github.com/deskhub/helpdesk/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Platform       *handlers.PlatformHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Attachments    *handlers.AttachmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)
	protected.Post("/auth/email/change", cfg.Auth.ChangeEmail)
	protected.Post("/presence/ping", auth.RequireStaff(), cfg.Auth.Ping)

	platform := protected.Group("/platform", auth.RequireKind(policy.KindPlatformOperator))
	platform.Get("/clients", cfg.Platform.ListClients)
	platform.Post("/clients", cfg.Platform.CreateClient)
	platform.Post("/admins", cfg.Platform.CreateAdmin)
	platform.Get("/stats", cfg.Platform.Stats)
	platform.Get("/metrics", cfg.Platform.Metrics)

	staff := protected.Group("/staff", auth.RequireStaff())
	staff.Post("/managers", auth.RequireKind(policy.KindAdmin), cfg.Staff.CreateManager)
	staff.Get("/managers", cfg.Staff.ListManagers)
	staff.Post("/employees", auth.RequireKind(policy.KindAdmin, policy.KindManager), cfg.Staff.CreateEmployee)
	staff.Get("/assignees", auth.RequireKind(policy.KindAdmin, policy.KindManager), cfg.Staff.ListAssignees)
	staff.Get("/team", auth.RequireKind(policy.KindManager), cfg.Staff.ListTeam)
	staff.Get("/employees/:id", cfg.Staff.GetEmployee)
	staff.Put("/employees/:id/profile", cfg.Staff.UpdateProfile)
	staff.Post("/employees/:id/reset-password", auth.RequireKind(policy.KindAdmin, policy.KindManager), cfg.Staff.ResetPassword)

	tickets := protected.Group("/tickets", auth.RequireStaff())
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Put("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Put("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/self-assign", auth.RequireKind(policy.KindEmployee), cfg.Tickets.SelfAssign)
	tickets.Post("/:id/discard", cfg.Tickets.Discard)
	tickets.Post("/:id/archive", auth.RequireKind(policy.KindAdmin, policy.KindManager), cfg.Tickets.Archive)

	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Put("/:id/comments/:commentID", cfg.Tickets.EditComment)

	tickets.Get("/:id/attachments", cfg.Attachments.List)
	tickets.Post("/:id/attachments", cfg.Attachments.Upload)
	tickets.Get("/:id/attachments/:attachmentID/download", cfg.Attachments.Download)
	tickets.Delete("/:id/attachments/:attachmentID", cfg.Attachments.Delete)

	protected.Get("/summary", auth.RequireKind(policy.KindAdmin, policy.KindManager), cfg.Tickets.Summary)
}
