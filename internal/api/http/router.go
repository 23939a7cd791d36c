package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EswarAdeshCh/Service-Desk/internal/api/http/handlers"
	"github.com/EswarAdeshCh/Service-Desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	Agent          *handlers.AgentHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/profile", cfg.Auth.Profile)
	authProtected.Put("/profile", cfg.Auth.UpdateProfile)
	authProtected.Post("/change-password", cfg.Auth.ChangePassword)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id/cancel", cfg.Complaints.Cancel)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/toggle-active", cfg.Admin.ToggleUserActive)
	admin.Get("/agents", cfg.Admin.ListAgents)
	admin.Post("/agents", cfg.Admin.CreateAgent)
	admin.Put("/agents/:id", cfg.Admin.UpdateAgent)
	admin.Delete("/agents/:id", cfg.Admin.DeleteAgent)
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Put("/complaints/:id/assign", cfg.Admin.AssignComplaint)
	admin.Get("/dashboard", cfg.Admin.Dashboard)

	agent := api.Group("/agent", cfg.AuthMiddleware.Handle, auth.RequireAgent())
	agent.Get("/complaints", cfg.Agent.ListComplaints)
	agent.Get("/complaints/:id", cfg.Agent.GetComplaint)
	agent.Put("/complaints/:id/status", cfg.Agent.UpdateStatus)
	agent.Put("/complaints/:id/resolve", cfg.Agent.Resolve)
	agent.Get("/dashboard", cfg.Agent.Dashboard)
	agent.Get("/performance", cfg.Agent.Performance)

	messages := api.Group("/messages", cfg.AuthMiddleware.Handle)
	messages.Get("/unread-count", cfg.Messages.UnreadCount)
	messages.Post("/complaint/:complaintId", cfg.Messages.Send)
	messages.Get("/complaint/:complaintId", cfg.Messages.ListThread)
	messages.Put("/:id/read", cfg.Messages.MarkRead)
}
