package dto

import (
	"time"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	Body        string `json:"body" validate:"required,max=1000"`
	MessageType string `json:"messageType" validate:"omitempty,oneof=text image file"`
}

// MessageResponse is the thread message shape returned by the API.
type MessageResponse struct {
	ID          string               `json:"id"`
	ComplaintID string               `json:"complaintId"`
	SenderID    string               `json:"senderId"`
	SenderName  string               `json:"senderName"`
	SenderRole  domain.Role          `json:"senderRole"`
	Body        string               `json:"body"`
	MessageType domain.MessageType   `json:"messageType"`
	ReadBy      []domain.ReadReceipt `json:"readBy"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []domain.ReadReceipt{}
	}
	return MessageResponse{
		ID:          m.ID,
		ComplaintID: m.ComplaintID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		SenderRole:  m.SenderRole,
		Body:        m.Body,
		MessageType: m.MessageType,
		ReadBy:      readBy,
		CreatedAt:   m.CreatedAt,
	}
}

// NewMessageResponses maps a slice of domain messages.
func NewMessageResponses(messages []domain.Message) []MessageResponse {
	items := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, NewMessageResponse(&messages[i]))
	}
	return items
}
