package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/EswarAdeshCh/Service-Desk/internal/api/dto"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/service"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
	"github.com/EswarAdeshCh/Service-Desk/pkg/validate"
)

// AdminHandler manages administrator endpoints: accounts, agents,
// assignment and the dashboard.
type AdminHandler struct {
	users      *service.UserService
	complaints *service.ComplaintService
	reports    *service.ReportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService, complaintService *service.ComplaintService, reportService *service.ReportService) *AdminHandler {
	return &AdminHandler{
		users:      userService,
		complaints: complaintService,
		reports:    reportService,
	}
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit, offset := pageQuery(c)

	filters := service.UserListFilters{Limit: limit, Offset: offset}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		if !domain.ValidRole(role) {
			return apperrors.NewValidationError("Invalid role filter", map[string]any{"role": raw})
		}
		filters.Role = &role
	}

	users, total, err := h.users.ListUsers(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       dto.NewUserResponses(users),
		"pagination": dto.NewPagination(page, limit, total),
	})
}

// ToggleUserActive PUT /api/admin/users/:id/toggle-active.
func (h *AdminHandler) ToggleUserActive(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.users.ToggleActive(c.UserContext(), principal.ID, c.Params("id"))
	if err != nil {
		return err
	}
	message := "Account deactivated"
	if user.IsActive {
		message = "Account activated"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    dto.NewUserResponse(user),
	})
}

// ListAgents GET /api/admin/agents.
func (h *AdminHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.users.ListAgentsWithWorkload(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewUserResponses(agents),
	})
}

// CreateAgent POST /api/admin/agents.
func (h *AdminHandler) CreateAgent(c *fiber.Ctx) error {
	var req dto.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("fullName, email and password are required", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	agent, err := h.users.CreateAgent(c.UserContext(), service.AgentInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Agent created",
		"data":    dto.NewUserResponse(agent),
	})
}

// UpdateAgent PUT /api/admin/agents/:id.
func (h *AdminHandler) UpdateAgent(c *fiber.Ctx) error {
	var req dto.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	agent, err := h.users.UpdateAgent(c.UserContext(), c.Params("id"), service.AgentInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent updated",
		"data":    dto.NewUserResponse(agent),
	})
}

// DeleteAgent DELETE /api/admin/agents/:id.
func (h *AdminHandler) DeleteAgent(c *fiber.Ctx) error {
	if err := h.users.DeleteAgent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent deleted",
	})
}

// ListComplaints GET /api/admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	status, err := statusQuery(c)
	if err != nil {
		return err
	}
	page, limit, offset := pageQuery(c)

	complaints, total, err := h.complaints.ListAll(c.UserContext(), service.ComplaintListFilters{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       dto.NewComplaintResponses(complaints),
		"pagination": dto.NewPagination(page, limit, total),
	})
}

// AssignComplaint PUT /api/admin/complaints/:id/assign.
func (h *AdminHandler) AssignComplaint(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	complaint, err := h.complaints.Assign(c.UserContext(), principal, c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaint assigned",
		"data":    dto.NewComplaintResponse(complaint),
	})
}

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reports.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
