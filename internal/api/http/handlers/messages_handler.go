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

// MessagesHandler manages complaint thread endpoints.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// Send POST /api/messages/complaint/:complaintId.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	message, err := h.messages.Send(c.UserContext(), principal, c.Params("complaintId"),
		req.Body, domain.MessageType(req.MessageType))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent",
		"data":    dto.NewMessageResponse(message),
	})
}

// ListThread GET /api/messages/complaint/:complaintId.
func (h *MessagesHandler) ListThread(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	messages, err := h.messages.ListThread(c.UserContext(), principal, c.Params("complaintId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewMessageResponses(messages),
	})
}

// UnreadCount GET /api/messages/unread-count.
func (h *MessagesHandler) UnreadCount(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	count, err := h.messages.UnreadCount(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"unreadCount": count},
	})
}

// MarkRead PUT /api/messages/:id/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.messages.MarkRead(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message marked as read",
	})
}
