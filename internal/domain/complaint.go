package domain

import (
	"fmt"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusAssigned   ComplaintStatus = "Assigned"
	StatusInProgress ComplaintStatus = "In-Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// ValidStatus reports whether the value is a known status.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "Low"
	PriorityMedium   ComplaintPriority = "Medium"
	PriorityHigh     ComplaintPriority = "High"
	PriorityCritical ComplaintPriority = "Critical"
)

// ComplaintCategory enumerates issue categories.
type ComplaintCategory string

const (
	CategoryTechnical ComplaintCategory = "Technical"
	CategoryBilling   ComplaintCategory = "Billing"
	CategoryService   ComplaintCategory = "Service"
	CategoryHardware  ComplaintCategory = "Hardware"
	CategorySoftware  ComplaintCategory = "Software"
	CategoryOther     ComplaintCategory = "Other"
)

// Complaint is the aggregate for submitted issues.
type Complaint struct {
	ID                    string
	ComplaintID           string
	SubmittedBy           string
	AssignedAgent         *string
	Status                ComplaintStatus
	Priority              ComplaintPriority
	Category              ComplaintCategory
	Name                  string
	Address               string
	City                  string
	State                 string
	Pincode               string
	Comment               string
	ResolutionDescription *string
	AssignedAt            *time.Time
	ResolvedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FormatComplaintID renders the human-readable identifier for an ordinal.
func FormatComplaintID(ordinal int64) string {
	return fmt.Sprintf("CMP%06d", ordinal)
}
