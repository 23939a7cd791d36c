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

// ComplaintsHandler manages end-user complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	complaint, err := h.complaints.Create(c.UserContext(), principal, service.ComplaintCreateInput{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		Comment:  req.Comment,
		Priority: domain.ComplaintPriority(req.Priority),
		Category: domain.ComplaintCategory(req.Category),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Complaint submitted",
		"data":    dto.NewComplaintResponse(complaint),
	})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	status, err := statusQuery(c)
	if err != nil {
		return err
	}
	page, limit, offset := pageQuery(c)

	complaints, total, err := h.complaints.ListForUser(c.UserContext(), principal.ID, service.ComplaintListFilters{
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

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
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

// Cancel PUT /api/complaints/:id/cancel.
func (h *ComplaintsHandler) Cancel(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Cancel(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaint cancelled",
		"data":    dto.NewComplaintResponse(complaint),
	})
}
