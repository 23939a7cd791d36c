package domain

import "time"

// MessageType differentiates message content kinds.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// MaxMessageLength bounds message body size.
const MaxMessageLength = 1000

// ReadReceipt records a user having read a message.
type ReadReceipt struct {
	UserID string    `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

// Message captures a communication on a complaint thread. Sender name and
// role are snapshotted at send time, not re-derived from the user record.
type Message struct {
	ID          string
	ComplaintID string
	SenderID    string
	SenderName  string
	SenderRole  Role
	Body        string
	MessageType MessageType
	ReadBy      []ReadReceipt
	IsDeleted   bool
	CreatedAt   time.Time
}
