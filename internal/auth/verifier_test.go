package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
)

type stubIdentityStore struct {
	employees map[string]*domain.Employee
	err       error
}

func (s *stubIdentityStore) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	employee, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return employee, nil
}

func TestVerify(t *testing.T) {
	tm := NewTokenManager("verify-secret", time.Hour)
	active := &domain.Employee{ID: "emp-1", Role: domain.RoleEmployee, IsActive: true}
	inactive := &domain.Employee{ID: "emp-2", Role: domain.RoleEmployee, IsActive: false}

	store := &stubIdentityStore{employees: map[string]*domain.Employee{
		"emp-1": active,
		"emp-2": inactive,
	}}
	verifier := NewVerifier(tm, store, zap.NewNop())

	issue := func(id string) string {
		token, _, err := tm.GenerateToken(id, domain.RoleEmployee)
		require.NoError(t, err)
		return token
	}

	t.Run("active employee resolves", func(t *testing.T) {
		employee, err := verifier.Verify(context.Background(), issue("emp-1"))
		require.NoError(t, err)
		assert.Equal(t, active, employee)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("foreign secret is invalid", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, _, err := other.GenerateToken("emp-1", domain.RoleEmployee)
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), issue("emp-404"))
		assert.ErrorIs(t, err, ErrUnknownOrInactive)
	})

	t.Run("inactive subject", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), issue("emp-2"))
		assert.ErrorIs(t, err, ErrUnknownOrInactive)
	})

	t.Run("storage fault propagates untagged", func(t *testing.T) {
		boom := errors.New("connection refused")
		broken := NewVerifier(tm, &stubIdentityStore{err: boom}, zap.NewNop())

		_, err := broken.Verify(context.Background(), issue("emp-1"))
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrInvalidCredential)
		assert.NotErrorIs(t, err, ErrUnknownOrInactive)
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret!"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
