package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/EswarAdeshCh/Service-Desk/internal/auth"
	"github.com/EswarAdeshCh/Service-Desk/internal/config"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

// UserService covers administrative account management.
type UserService struct {
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	bcryptCost int
}

// UserDependencies encapsulates repo requirements for user management.
type UserDependencies struct {
	UserRepo      repository.UserRepository
	ComplaintRepo repository.ComplaintRepository
}

// UserListFilters define listing parameters.
type UserListFilters struct {
	Role   *domain.Role
	Active *bool
	Limit  int
	Offset int
}

// AgentInput describes agent create/update payloads.
type AgentInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
	Department  *string
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		complaints: deps.ComplaintRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// ListUsers returns a page of accounts with the unfiltered total.
func (s *UserService) ListUsers(ctx context.Context, filters UserListFilters) ([]domain.User, int64, error) {
	repoFilter := repository.UserFilter{
		Role:   filters.Role,
		Active: filters.Active,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	users, err := s.users.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.users.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return users, total, nil
}

// GetUser fetches a single account.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ToggleActive flips an account's active flag. Admins cannot toggle their
// own account, which keeps at least the acting admin able to log in.
func (s *UserService) ToggleActive(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	if actorID == targetID {
		return nil, apperrors.NewValidationError("Cannot deactivate your own account", nil)
	}
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.IsActive = !user.IsActive
	if err := s.users.SetActive(ctx, user.ID, user.IsActive); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CreateAgent provisions an agent account.
func (s *UserService) CreateAgent(ctx context.Context, input AgentInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	agent := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Role:         domain.RoleAgent,
		Department:   input.Department,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// UpdateAgent edits an agent account's details.
func (s *UserService) UpdateAgent(ctx context.Context, agentID string, input AgentInput) (*domain.User, error) {
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if agent.Role != domain.RoleAgent {
		return nil, apperrors.NewNotFound("Agent", map[string]any{"id": agentID})
	}

	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != agent.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.ID != agent.ID {
				return nil, apperrors.NewConflict("Email already registered", map[string]any{"email": email})
			} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
			agent.Email = email
		}
	}
	if input.FullName != "" {
		agent.FullName = strings.TrimSpace(input.FullName)
	}
	if input.PhoneNumber != "" {
		agent.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	}
	if input.Department != nil {
		agent.Department = input.Department
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		agent.PasswordHash = hash
	}

	if err := s.users.Update(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// DeleteAgent removes an agent account unless complaints are still assigned
// to them and unresolved.
func (s *UserService) DeleteAgent(ctx context.Context, agentID string) error {
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if agent.Role != domain.RoleAgent {
		return apperrors.NewNotFound("Agent", map[string]any{"id": agentID})
	}

	active, err := s.complaints.CountActiveForAgent(ctx, agentID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if active > 0 {
		return apperrors.NewConflict("Agent has active complaints and cannot be deleted",
			map[string]any{"active_complaints": active})
	}

	if err := s.users.Delete(ctx, agentID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListAgentsWithWorkload returns all agents with workload counters computed
// from the complaints table.
func (s *UserService) ListAgentsWithWorkload(ctx context.Context) ([]domain.User, error) {
	agents, err := s.users.ListAgentsWithWorkload(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}
