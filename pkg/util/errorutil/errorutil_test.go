package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "domain error passes through",
			err:        NewUnauthorized("Authentication required"),
			wantCode:   "UNAUTHORIZED",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrapped domain error unwraps",
			err:        fmt.Errorf("handler: %w", NewForbidden("Insufficient permissions")),
			wantCode:   "FORBIDDEN",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no rows maps to not found",
			err:        pgx.ErrNoRows,
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown error maps to internal",
			err:        errors.New("connection reset"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, domainErr.Error(), "boom")
}

func TestConstructorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", NewValidationError("bad payload", nil), http.StatusBadRequest},
		{"not found", NewNotFound("record", nil), http.StatusNotFound},
		{"unauthorized", NewUnauthorized("no"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), http.StatusForbidden},
		{"conflict", NewConflict("open record exists", nil), http.StatusConflict},
		{"internal", NewInternalError(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, ToDomainError(tt.err).HTTPStatus)
		})
	}
}
