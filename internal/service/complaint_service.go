package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/events"
	"github.com/EswarAdeshCh/Service-Desk/internal/policy"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

// ComplaintService coordinates the complaint lifecycle: submission,
// assignment, agent progress, resolution and cancellation.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	MessageRepo   repository.MessageRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes the submission payload.
type ComplaintCreateInput struct {
	Name     string
	Address  string
	City     string
	State    string
	Pincode  string
	Comment  string
	Priority domain.ComplaintPriority
	Category domain.ComplaintCategory
}

// ComplaintListFilters describes listing parameters.
type ComplaintListFilters struct {
	Status *domain.ComplaintStatus
	Limit  int
	Offset int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create registers a new complaint for the submitter. The public identifier
// comes from a database sequence, so concurrent submissions never collide.
func (s *ComplaintService) Create(ctx context.Context, submitter *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	ordinal, err := s.complaints.NextSequence(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	complaint := &domain.Complaint{
		ComplaintID: domain.FormatComplaintID(ordinal),
		SubmittedBy: submitter.ID,
		Status:      domain.StatusPending,
		Priority:    input.Priority,
		Category:    input.Category,
		Name:        strings.TrimSpace(input.Name),
		Address:     strings.TrimSpace(input.Address),
		City:        strings.TrimSpace(input.City),
		State:       strings.TrimSpace(input.State),
		Pincode:     strings.TrimSpace(input.Pincode),
		Comment:     strings.TrimSpace(input.Comment),
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.PriorityMedium
	}
	if complaint.Category == "" {
		complaint.Category = domain.CategoryOther
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorFor(submitter),
		Payload: events.ComplaintCreatedPayload{
			PublicID: complaint.ComplaintID,
			Category: complaint.Category,
			Priority: complaint.Priority,
		},
	})
	return complaint, nil
}

// ListForUser returns the submitter's own complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, userID string, filters ComplaintListFilters) ([]domain.Complaint, int64, error) {
	repoFilter := repository.ComplaintFilter{
		SubmittedBy: &userID,
		Status:      filters.Status,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}
	return s.list(ctx, repoFilter)
}

// ListAll returns complaints across all users for administrators.
func (s *ComplaintService) ListAll(ctx context.Context, filters ComplaintListFilters) ([]domain.Complaint, int64, error) {
	repoFilter := repository.ComplaintFilter{
		Status: filters.Status,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	return s.list(ctx, repoFilter)
}

// ListForAgent returns complaints assigned to the given agent.
func (s *ComplaintService) ListForAgent(ctx context.Context, agentID string, filters ComplaintListFilters) ([]domain.Complaint, int64, error) {
	repoFilter := repository.ComplaintFilter{
		AssignedAgent: &agentID,
		Status:        filters.Status,
		Limit:         filters.Limit,
		Offset:        filters.Offset,
	}
	return s.list(ctx, repoFilter)
}

func (s *ComplaintService) list(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, int64, error) {
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.complaints.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return complaints, total, nil
}

// Get fetches one complaint after the access check. A missing complaint is
// reported before any access decision.
func (s *ComplaintService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !policy.CanAccessComplaint(actor.Role, actor.ID, complaint) {
		return nil, apperrors.NewAccessDenied("Access denied")
	}
	return complaint, nil
}

// Cancel closes a pending complaint at the submitter's request. Assignment
// racing ahead of the cancel loses: the guarded update refuses once the
// complaint left Pending.
func (s *ComplaintService) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.SubmittedBy != actor.ID {
		return nil, apperrors.NewAccessDenied("Access denied")
	}
	if !policy.CanCancel(actor.ID, complaint) {
		return nil, apperrors.NewInvalidTransition("Only pending complaints can be cancelled",
			map[string]any{"status": string(complaint.Status)})
	}

	applied, err := s.complaints.Close(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewInvalidTransition("Only pending complaints can be cancelled",
			map[string]any{"status": string(complaint.Status)})
	}

	updated, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Actor:       actorFor(actor),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: complaint.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Assign hands a pending complaint to an agent and bumps the agent's
// workload counters. Two admins racing on the same complaint: exactly one
// guarded update lands, the loser gets the transition error.
func (s *ComplaintService) Assign(ctx context.Context, actor *domain.User, complaintID, agentID string) (*domain.Complaint, error) {
	if !policy.CanAssign(actor.Role) {
		return nil, apperrors.NewAccessDenied("Access denied")
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Agent", map[string]any{"id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	if agent.Role != domain.RoleAgent {
		return nil, apperrors.NewValidationError("Assignee must be an agent", map[string]any{"id": agentID})
	}
	if !agent.IsActive {
		return nil, apperrors.NewValidationError("Agent account is deactivated", map[string]any{"id": agentID})
	}
	if complaint.Status != domain.StatusPending {
		return nil, apperrors.NewInvalidTransition("Only pending complaints can be assigned",
			map[string]any{"status": string(complaint.Status)})
	}

	applied, err := s.complaints.Assign(ctx, complaintID, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewInvalidTransition("Only pending complaints can be assigned",
			map[string]any{"status": string(complaint.Status)})
	}

	if err := s.users.AdjustWorkload(ctx, agentID, 1, 1, 0); err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: updated.ID,
		Actor:       actorFor(actor),
		Payload: events.ComplaintAssignedPayload{
			AgentID:   agent.ID,
			AgentName: agent.FullName,
		},
	})
	return updated, nil
}

// UpdateStatusAsAgent moves an assigned complaint along the lifecycle on
// behalf of its agent.
func (s *ComplaintService) UpdateStatusAsAgent(ctx context.Context, agent *domain.User, complaintID string, to domain.ComplaintStatus) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.AssignedAgent == nil || *complaint.AssignedAgent != agent.ID {
		return nil, apperrors.NewAccessDenied("Access denied")
	}
	if !domain.ValidStatus(to) || !policy.AgentStatusTarget(to) {
		return nil, apperrors.NewValidationError("Invalid status", map[string]any{"status": string(to)})
	}
	if !policy.ValidTransition(complaint.Status, to) {
		return nil, apperrors.NewInvalidTransition("Invalid status transition",
			map[string]any{"from": string(complaint.Status), "to": string(to)})
	}

	applied, err := s.complaints.UpdateStatusAsAgent(ctx, complaintID, agent.ID,
		[]domain.ComplaintStatus{complaint.Status}, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewInvalidTransition("Invalid status transition",
			map[string]any{"from": string(complaint.Status), "to": string(to)})
	}

	if to == domain.StatusResolved {
		if err := s.users.AdjustWorkload(ctx, agent.ID, -1, 0, 1); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Actor:       actorFor(agent),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: complaint.Status,
			NewStatus: to,
		},
	})
	return updated, nil
}

// Resolve closes out an assigned complaint with a resolution description,
// adjusts the agent's workload and drops a system message on the thread.
// The guarded update makes a concurrent double resolve a single win: the
// second caller sees the transition error and no double workload credit.
func (s *ComplaintService) Resolve(ctx context.Context, agent *domain.User, complaintID, description string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.AssignedAgent == nil || *complaint.AssignedAgent != agent.ID {
		return nil, apperrors.NewAccessDenied("Access denied")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("Resolution description is required", nil)
	}

	applied, err := s.complaints.Resolve(ctx, complaintID, agent.ID, description, policy.ResolvableFrom())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		return nil, apperrors.NewInvalidTransition("Complaint cannot be resolved from its current status",
			map[string]any{"status": string(complaint.Status)})
	}

	if err := s.users.AdjustWorkload(ctx, agent.ID, -1, 0, 1); err != nil {
		return nil, apperrors.MapError(err)
	}

	// Body stays within the message length cap even for long resolutions.
	// The cap counts runes, matching the schema's char_length bound, so
	// truncation never splits a multi-byte character.
	body := "Complaint has been resolved. Resolution: " + description
	if runes := []rune(body); len(runes) > domain.MaxMessageLength {
		body = string(runes[:domain.MaxMessageLength])
	}
	systemMsg := &domain.Message{
		ComplaintID: complaintID,
		SenderID:    agent.ID,
		SenderName:  agent.FullName,
		SenderRole:  agent.Role,
		Body:        body,
		MessageType: domain.MessageTypeSystem,
	}
	if err := s.messages.Create(ctx, systemMsg); err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintResolved,
		ComplaintID: updated.ID,
		Actor:       actorFor(agent),
		Payload: events.ComplaintResolvedPayload{
			AgentID:     agent.ID,
			Description: description,
		},
	})
	return updated, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	return events.Actor{
		UserID: user.ID,
		Role:   user.Role,
	}
}
