package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	employees  repository.EmployeeRepository
	resets     repository.ResetTokenStore
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	ResetTokens  repository.ResetTokenStore
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		employees:  deps.EmployeeRepo,
		resets:     deps.ResetTokens,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
	}
}

// Register creates an employee account. The very first account becomes
// the admin; everyone after that registers as a regular employee.
func (s *AuthService) Register(ctx context.Context, name, email, password string, departmentID *string) (*domain.Employee, string, time.Time, error) {
	if _, err := s.employees.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("Email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	count, err := s.employees.Count(ctx)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	role := domain.RoleEmployee
	if count == 0 {
		role = domain.RoleAdmin
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	employee := &domain.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventEmployeeRegistered, employee.ID, events.EmployeeRegisteredPayload{
		Name:  employee.Name,
		Email: employee.Email,
		Role:  employee.Role,
	})

	token, exp, err := s.tokenMgr.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return employee, token, exp, nil
}

// Login authenticates an employee by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Employee, string, time.Time, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid email or password")
	}
	if !employee.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Account is inactive")
	}

	token, exp, err := s.tokenMgr.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return employee, token, exp, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, employeeID, currentPassword, newPassword string) error {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(employee.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	employee.PasswordHash = hash
	return s.employees.Update(ctx, employee)
}

// RequestPasswordReset issues a single-use reset token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, time.Time, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewNotFound("account", nil)
		}
		return "", time.Time{}, err
	}

	token := uuid.NewString()
	if err := s.resets.Save(ctx, token, employee.ID, s.resetTTL); err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(s.resetTTL), nil
}

// ConfirmPasswordReset redeems a reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	employeeID, err := s.resets.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return apperrors.NewValidationError("Reset token is invalid or expired", nil)
		}
		return err
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	employee.PasswordHash = hash
	return s.employees.Update(ctx, employee)
}

// TokenManager exposes the underlying token manager for the route guard.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
