package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EswarAdeshCh/Service-Desk/internal/api/dto"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/service"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
	"github.com/EswarAdeshCh/Service-Desk/pkg/validate"
)

// AgentHandler manages the agent work queue endpoints.
type AgentHandler struct {
	complaints *service.ComplaintService
	reports    *service.ReportService
}

// NewAgentHandler constructs handler.
func NewAgentHandler(complaintService *service.ComplaintService, reportService *service.ReportService) *AgentHandler {
	return &AgentHandler{complaints: complaintService, reports: reportService}
}

// ListComplaints GET /api/agent/complaints.
func (h *AgentHandler) ListComplaints(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	status, err := statusQuery(c)
	if err != nil {
		return err
	}
	page, limit, offset := pageQuery(c)

	complaints, total, err := h.complaints.ListForAgent(c.UserContext(), principal.ID, service.ComplaintListFilters{
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

// GetComplaint GET /api/agent/complaints/:id.
func (h *AgentHandler) GetComplaint(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewComplaintResponse(complaint),
	})
}

// UpdateStatus PUT /api/agent/complaints/:id/status.
func (h *AgentHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	complaint, err := h.complaints.UpdateStatusAsAgent(c.UserContext(), principal, c.Params("id"),
		domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated",
		"data":    dto.NewComplaintResponse(complaint),
	})
}

// Resolve PUT /api/agent/complaints/:id/resolve.
func (h *AgentHandler) Resolve(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	complaint, err := h.complaints.Resolve(c.UserContext(), principal, c.Params("id"), req.ResolutionDescription)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaint resolved",
		"data":    dto.NewComplaintResponse(complaint),
	})
}

// Dashboard GET /api/agent/dashboard.
func (h *AgentHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.reports.AgentStats(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// Performance GET /api/agent/performance.
func (h *AgentHandler) Performance(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	perf, err := h.reports.AgentPerformance(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    perf,
	})
}
