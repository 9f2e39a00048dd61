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

// EmployeeService manages the employee directory and departments.
// Authorization happens at the route guard; these methods assume the
// caller was already admitted.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// DirectoryDependencies bundles collaborators for directory management.
type DirectoryDependencies struct {
	EmployeeRepo   repository.EmployeeRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
}

// NewEmployeeService constructs the service.
func NewEmployeeService(cfg config.Config, deps DirectoryDependencies) *EmployeeService {
	return &EmployeeService{
		employees:   deps.EmployeeRepo,
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// EmployeeCreateInput describes an admin-created account.
type EmployeeCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	DepartmentID *string
}

// EmployeeUpdateInput carries partial employee updates; nil fields are
// left unchanged.
type EmployeeUpdateInput struct {
	Name         *string
	Email        *string
	Role         *domain.Role
	DepartmentID *string
	Active       *bool
}

// CreateEmployee provisions an account with an explicit role.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeCreateInput) (*domain.Employee, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("Unknown role", map[string]any{"role": input.Role})
	}
	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("Unknown department", nil)
			}
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEmployeeRegistered, employee.ID, events.EmployeeRegisteredPayload{
		Name:  employee.Name,
		Email: employee.Email,
		Role:  employee.Role,
	})
	return employee, nil
}

// UpdateEmployee applies a partial update to an account. Deactivation
// instead of deletion keeps attendance history intact.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, input EmployeeUpdateInput) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, err
	}

	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Email != nil && *input.Email != employee.Email {
		if _, err := s.employees.GetByEmail(ctx, *input.Email); err == nil {
			return nil, apperrors.NewConflict("Email already registered", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		employee.Email = *input.Email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("Unknown role", map[string]any{"role": *input.Role})
		}
		employee.Role = *input.Role
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("Unknown department", nil)
			}
			return nil, err
		}
		employee.DepartmentID = input.DepartmentID
	}
	deactivated := false
	if input.Active != nil {
		deactivated = employee.IsActive && !*input.Active
		employee.IsActive = *input.Active
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	if deactivated {
		s.publish(ctx, events.EventEmployeeDeactivated, employee.ID, events.EmployeeDeactivatedPayload{
			Name:  employee.Name,
			Email: employee.Email,
		})
	}
	return employee, nil
}

// GetEmployee loads a single account.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, err
	}
	return employee, nil
}

// ListEmployees returns directory entries matching the filter.
func (s *EmployeeService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	return s.employees.List(ctx, filter)
}

// CreateDepartment creates a new department.
func (s *EmployeeService) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment renames a department.
func (s *EmployeeService) UpdateDepartment(ctx context.Context, id, name string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, err
	}
	dept.Name = name
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment removes a department; members keep their accounts
// with the department association cleared.
func (s *EmployeeService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return err
	}
	return nil
}

// GetDepartment loads a single department.
func (s *EmployeeService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, err
	}
	return dept, nil
}

// ListDepartments returns all departments.
func (s *EmployeeService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload any) {
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
