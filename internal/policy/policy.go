// Package policy holds the access-control decisions for complaints and their
// message threads. Every entry point routes through these functions so the
// role/ownership/assignment rules live in one place.
package policy

import "github.com/EswarAdeshCh/Service-Desk/internal/domain"

// CanAccessComplaint decides read/mutation visibility of a complaint:
// the submitter, the currently assigned agent, or any admin.
func CanAccessComplaint(role domain.Role, userID string, c *domain.Complaint) bool {
	if c == nil {
		return false
	}
	if role == domain.RoleAdmin {
		return true
	}
	if c.SubmittedBy == userID {
		return true
	}
	if role == domain.RoleAgent && c.AssignedAgent != nil && *c.AssignedAgent == userID {
		return true
	}
	return false
}

// CanAccessMessages mirrors complaint visibility for the message thread.
func CanAccessMessages(role domain.Role, userID string, c *domain.Complaint) bool {
	return CanAccessComplaint(role, userID, c)
}

// CanAssign reports whether the role may assign complaints to agents.
// Agents may not assign, not even to themselves.
func CanAssign(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanCancel decides whether a user may cancel a complaint: owner only,
// and only while the complaint is exactly Pending.
func CanCancel(userID string, c *domain.Complaint) bool {
	return c != nil && c.SubmittedBy == userID && c.Status == domain.StatusPending
}

// agentTargets is the set of statuses an agent may request through the
// direct status-update path.
var agentTargets = map[domain.ComplaintStatus]struct{}{
	domain.StatusAssigned:   {},
	domain.StatusInProgress: {},
	domain.StatusResolved:   {},
}

// AgentStatusTarget reports whether the target status is acceptable on the
// agent status-update path.
func AgentStatusTarget(to domain.ComplaintStatus) bool {
	_, ok := agentTargets[to]
	return ok
}

var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusPending:    {domain.StatusAssigned, domain.StatusClosed},
	domain.StatusAssigned:   {domain.StatusInProgress, domain.StatusResolved},
	domain.StatusInProgress: {domain.StatusResolved},
	domain.StatusResolved:   {},
	domain.StatusClosed:     {},
}

// ValidTransition reports whether the state machine permits moving from
// current to next.
func ValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ResolvableFrom lists statuses a complaint may be resolved out of.
func ResolvableFrom() []domain.ComplaintStatus {
	return []domain.ComplaintStatus{domain.StatusAssigned, domain.StatusInProgress}
}
