package dto

import (
	"time"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Address  string `json:"address" validate:"required,max=250"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	Pincode  string `json:"pincode" validate:"required,min=4,max=10"`
	Comment  string `json:"comment" validate:"required,max=2000"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	Category string `json:"category" validate:"omitempty,oneof=Technical Billing Service Hardware Software Other"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	AgentID string `json:"agentId" validate:"required,uuid4"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Assigned In-Progress Resolved"`
}

// ResolveComplaintRequest payload.
type ResolveComplaintRequest struct {
	ResolutionDescription string `json:"resolutionDescription" validate:"required,min=5,max=2000"`
}

// ComplaintResponse is the complaint shape returned by the API.
type ComplaintResponse struct {
	ID                    string                   `json:"id"`
	ComplaintID           string                   `json:"complaintId"`
	SubmittedBy           string                   `json:"submittedBy"`
	AssignedAgent         *string                  `json:"assignedAgent,omitempty"`
	Status                domain.ComplaintStatus   `json:"status"`
	Priority              domain.ComplaintPriority `json:"priority"`
	Category              domain.ComplaintCategory `json:"category"`
	Name                  string                   `json:"name"`
	Address               string                   `json:"address"`
	City                  string                   `json:"city"`
	State                 string                   `json:"state"`
	Pincode               string                   `json:"pincode"`
	Comment               string                   `json:"comment"`
	ResolutionDescription *string                  `json:"resolutionDescription,omitempty"`
	AssignedAt            *time.Time               `json:"assignedAt,omitempty"`
	ResolvedAt            *time.Time               `json:"resolvedAt,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
	UpdatedAt             time.Time                `json:"updatedAt"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                    c.ID,
		ComplaintID:           c.ComplaintID,
		SubmittedBy:           c.SubmittedBy,
		AssignedAgent:         c.AssignedAgent,
		Status:                c.Status,
		Priority:              c.Priority,
		Category:              c.Category,
		Name:                  c.Name,
		Address:               c.Address,
		City:                  c.City,
		State:                 c.State,
		Pincode:               c.Pincode,
		Comment:               c.Comment,
		ResolutionDescription: c.ResolutionDescription,
		AssignedAt:            c.AssignedAt,
		ResolvedAt:            c.ResolvedAt,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// NewComplaintResponses maps a slice of domain complaints.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, NewComplaintResponse(&complaints[i]))
	}
	return items
}
