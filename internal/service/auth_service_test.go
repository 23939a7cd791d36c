package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EswarAdeshCh/Service-Desk/internal/config"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users}), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, RegisterInput{
		FullName: "User One",
		Email:    "User@Example.com",
		Password: "superSecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, domain.RoleOrdinary, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	loggedIn, token, _, err := svc.Login(ctx, "user@example.com", "superSecret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotNil(t, loggedIn.LastLogin)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, RegisterInput{
		FullName: "User One", Email: "user@example.com", Password: "superSecret1",
	})
	require.NoError(t, err)

	// same address, different casing
	_, _, _, err = svc.Register(ctx, RegisterInput{
		FullName: "User Two", Email: "USER@example.com", Password: "superSecret2",
	})
	assert.Equal(t, "CONFLICT", domainErr(t, err).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture()
	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "User One", Email: "user@example.com", Password: "superSecret1",
		Role: domain.Role("Superuser"),
	})
	assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
}

func TestLoginFailures(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, RegisterInput{
		FullName: "User One", Email: "user@example.com", Password: "superSecret1",
	})
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "superSecret1")
		de := domainErr(t, err)
		assert.Equal(t, "UNAUTHORIZED", de.Code)
		assert.Equal(t, "Invalid email or password", de.Message)
	})

	t.Run("wrong password uses the same message", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "user@example.com", "wrong")
		de := domainErr(t, err)
		assert.Equal(t, "UNAUTHORIZED", de.Code)
		assert.Equal(t, "Invalid email or password", de.Message)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, users.SetActive(ctx, user.ID, false))
		_, _, _, err := svc.Login(ctx, "user@example.com", "superSecret1")
		de := domainErr(t, err)
		assert.Equal(t, "UNAUTHORIZED", de.Code)
		assert.Equal(t, "Account is deactivated", de.Message)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, RegisterInput{
		FullName: "User One", Email: "user@example.com", Password: "superSecret1",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "newSecret99")
	de := domainErr(t, err)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, "Current password is incorrect", de.Message)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "superSecret1", "newSecret99"))

	_, _, _, err = svc.Login(ctx, "user@example.com", "newSecret99")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "user@example.com", "superSecret1")
	require.Error(t, err)
}
