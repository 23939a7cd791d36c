package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/events"
	"github.com/EswarAdeshCh/Service-Desk/internal/policy"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

// MessageService manages complaint message threads and read receipts.
type MessageService struct {
	messages   repository.MessageRepository
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// MessageDependencies bundles repositories for messaging.
type MessageDependencies struct {
	MessageRepo   repository.MessageRepository
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		messages:   deps.MessageRepo,
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Send posts a message on a complaint thread. Sender name and role are
// frozen on the message at send time.
func (s *MessageService) Send(ctx context.Context, sender *domain.User, complaintID, body string, messageType domain.MessageType) (*domain.Message, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessMessages(sender.Role, sender.ID, complaint) {
		return nil, apperrors.NewAccessDenied("Access denied")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("Message body is required", nil)
	}
	if utf8.RuneCountInString(body) > domain.MaxMessageLength {
		return nil, apperrors.NewValidationError("Message body exceeds maximum length",
			map[string]any{"max": domain.MaxMessageLength})
	}
	if messageType == "" {
		messageType = domain.MessageTypeText
	}
	switch messageType {
	case domain.MessageTypeText, domain.MessageTypeImage, domain.MessageTypeFile:
	default:
		return nil, apperrors.NewValidationError("Invalid message type",
			map[string]any{"type": string(messageType)})
	}

	message := &domain.Message{
		ComplaintID: complaint.ID,
		SenderID:    sender.ID,
		SenderName:  sender.FullName,
		SenderRole:  sender.Role,
		Body:        body,
		MessageType: messageType,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventMessageSent,
			ComplaintID: complaint.ID,
			Actor:       actorFor(sender),
			Timestamp:   time.Now(),
			Payload: events.MessageSentPayload{
				MessageID:   message.ID,
				MessageType: message.MessageType,
				SenderName:  message.SenderName,
				BodyPreview: bodyPreview(message.Body, 120),
			},
		})
	}
	return message, nil
}

// ListThread returns the complaint's messages in chronological order.
// Fetching the thread marks every message from other participants as read,
// so the returned receipts already include the caller.
func (s *MessageService) ListThread(ctx context.Context, actor *domain.User, complaintID string) ([]domain.Message, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessMessages(actor.Role, actor.ID, complaint) {
		return nil, apperrors.NewAccessDenied("Access denied")
	}

	if err := s.messages.MarkThreadRead(ctx, complaint.ID, actor.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	messages, err := s.messages.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return messages, nil
}

// MarkRead records a single read receipt. Reading your own message is a
// no-op rather than an error.
func (s *MessageService) MarkRead(ctx context.Context, actor *domain.User, messageID string) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Message", map[string]any{"id": messageID})
		}
		return apperrors.MapError(err)
	}

	complaint, err := s.loadComplaint(ctx, message.ComplaintID)
	if err != nil {
		return err
	}
	if !policy.CanAccessMessages(actor.Role, actor.ID, complaint) {
		return apperrors.NewAccessDenied("Access denied")
	}
	if message.SenderID == actor.ID {
		return nil
	}

	if err := s.messages.MarkRead(ctx, messageID, actor.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UnreadCount reports unread messages across every complaint the user can
// see.
func (s *MessageService) UnreadCount(ctx context.Context, actor *domain.User) (int64, error) {
	count, err := s.messages.UnreadCount(ctx, actor.ID, actor.Role)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

func (s *MessageService) loadComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
