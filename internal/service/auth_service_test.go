package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
	}
}

func TestRegisterBootstrapsFirstAdmin(t *testing.T) {
	employees := newFakeEmployeeRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		EmployeeRepo: employees,
		ResetTokens:  newFakeResetStore(),
		Dispatcher:   dispatcher,
	})

	first, token, _, err := svc.Register(context.Background(), "Ada Lovelace", "ada@example.com", "pass1234", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)
	assert.NotEmpty(t, token)

	second, _, _, err := svc.Register(context.Background(), "Grace Hopper", "grace@example.com", "pass1234", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, second.Role)

	require.Len(t, dispatcher.published, 2)
	assert.Equal(t, events.EventEmployeeRegistered, dispatcher.published[0].Type)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		EmployeeRepo: newFakeEmployeeRepo(),
		ResetTokens:  newFakeResetStore(),
	})

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pass1234", nil)
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Imposter", "ada@example.com", "other123", nil)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 409, domainErr.HTTPStatus)
}

func TestLogin(t *testing.T) {
	employees := newFakeEmployeeRepo()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		EmployeeRepo: employees,
		ResetTokens:  newFakeResetStore(),
	})

	registered, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pass1234", nil)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		employee, token, _, err := svc.Login(context.Background(), "ada@example.com", "pass1234")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, employee.ID)

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.EmployeeID)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "ada@example.com", "nope")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 401, domainErr.HTTPStatus)
		assert.Equal(t, "Invalid email or password", domainErr.Message)
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "pass1234")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Invalid email or password", domainErr.Message)
	})

	t.Run("deactivated account", func(t *testing.T) {
		stored, err := employees.GetByID(context.Background(), registered.ID)
		require.NoError(t, err)
		stored.IsActive = false
		require.NoError(t, employees.Update(context.Background(), stored))

		_, _, _, err = svc.Login(context.Background(), "ada@example.com", "pass1234")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 401, domainErr.HTTPStatus)
		assert.Equal(t, "Account is inactive", domainErr.Message)
	})
}

func TestChangePassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		EmployeeRepo: newFakeEmployeeRepo(),
		ResetTokens:  newFakeResetStore(),
	})

	registered, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pass1234", nil)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), registered.ID, "wrong", "newpass12")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Current password is incorrect", domainErr.Message)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(context.Background(), registered.ID, "pass1234", "newpass12"))

		_, _, _, err := svc.Login(context.Background(), "ada@example.com", "newpass12")
		assert.NoError(t, err)
		_, _, _, err = svc.Login(context.Background(), "ada@example.com", "pass1234")
		assert.Error(t, err)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	resets := newFakeResetStore()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		EmployeeRepo: newFakeEmployeeRepo(),
		ResetTokens:  resets,
	})

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pass1234", nil)
	require.NoError(t, err)

	token, _, err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token, "reset9876"))
	_, _, _, err = svc.Login(context.Background(), "ada@example.com", "reset9876")
	assert.NoError(t, err)

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(context.Background(), token, "again1234")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, _, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 404, domainErr.HTTPStatus)
	})
}
