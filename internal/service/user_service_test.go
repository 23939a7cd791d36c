package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EswarAdeshCh/Service-Desk/internal/config"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

func newUserServiceFixture(t *testing.T) (*UserService, *complaintFixture) {
	t.Helper()
	f := newComplaintFixture(t)
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	svc := NewUserService(cfg, UserDependencies{
		UserRepo:      f.users,
		ComplaintRepo: f.complaints,
	})
	return svc, f
}

func TestToggleActive(t *testing.T) {
	svc, f := newUserServiceFixture(t)
	ctx := context.Background()

	t.Run("cannot deactivate own account", func(t *testing.T) {
		_, err := svc.ToggleActive(ctx, f.admin.ID, f.admin.ID)
		de := domainErr(t, err)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
		assert.Equal(t, "Cannot deactivate your own account", de.Message)
	})

	t.Run("flips and flips back", func(t *testing.T) {
		user, err := svc.ToggleActive(ctx, f.admin.ID, f.user.ID)
		require.NoError(t, err)
		assert.False(t, user.IsActive)

		user, err = svc.ToggleActive(ctx, f.admin.ID, f.user.ID)
		require.NoError(t, err)
		assert.True(t, user.IsActive)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := svc.ToggleActive(ctx, f.admin.ID, "missing")
		assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
	})
}

func TestAgentManagement(t *testing.T) {
	svc, f := newUserServiceFixture(t)
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, AgentInput{
		FullName: "Agent Two",
		Email:    "Agent2@Example.com",
		Password: "superSecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, agent.Role)
	assert.Equal(t, "agent2@example.com", agent.Email)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.CreateAgent(ctx, AgentInput{
			FullName: "Agent Three", Email: "agent2@example.com", Password: "superSecret1",
		})
		assert.Equal(t, "CONFLICT", domainErr(t, err).Code)
	})

	t.Run("update non-agent reports not found", func(t *testing.T) {
		_, err := svc.UpdateAgent(ctx, f.user.ID, AgentInput{FullName: "New Name"})
		assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
	})

	t.Run("update applies partial fields", func(t *testing.T) {
		updated, err := svc.UpdateAgent(ctx, agent.ID, AgentInput{FullName: "Agent Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Agent Renamed", updated.FullName)
		assert.Equal(t, "agent2@example.com", updated.Email)
	})
}

func TestDeleteAgentGuard(t *testing.T) {
	svc, f := newUserServiceFixture(t)
	ctx := context.Background()

	complaint := f.submit(t)
	_, err := f.service.Assign(ctx, f.admin, complaint.ID, f.agent.ID)
	require.NoError(t, err)

	t.Run("blocked while complaints active", func(t *testing.T) {
		err := svc.DeleteAgent(ctx, f.agent.ID)
		assert.Equal(t, "CONFLICT", domainErr(t, err).Code)
	})

	t.Run("allowed after resolution", func(t *testing.T) {
		_, err := f.service.Resolve(ctx, f.agent, complaint.ID, "Done")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteAgent(ctx, f.agent.ID))

		_, err = f.users.GetByID(ctx, f.agent.ID)
		require.Error(t, err)
	})

	t.Run("ordinary user is not an agent", func(t *testing.T) {
		err := svc.DeleteAgent(ctx, f.user.ID)
		assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
	})
}

func TestListAgentsWithWorkload(t *testing.T) {
	svc, f := newUserServiceFixture(t)
	ctx := context.Background()

	agents, err := svc.ListAgentsWithWorkload(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, f.agent.ID, agents[0].ID)
}
