package domain

import "time"

// Role enumerates account types.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleAgent    Role = "Agent"
	RoleOrdinary Role = "Ordinary"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleOrdinary:
		return true
	}
	return false
}

// Workload tracks complaint counters for an agent.
type Workload struct {
	Active   int `json:"active"`
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
}

// User is the domain model for every account type (admin, agent, ordinary).
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Role         Role
	Department   *string
	IsActive     bool
	LastLogin    *time.Time
	Workload     Workload
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
