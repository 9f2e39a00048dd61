package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EmployeeResponse represents an account in API responses.
type EmployeeResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	DepartmentID *string     `json:"department_id"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CreateEmployeeRequest payload for admin account creation.
type CreateEmployeeRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	DepartmentID *string     `json:"department_id,omitempty"`
}

// UpdateEmployeeRequest payload for partial account updates.
type UpdateEmployeeRequest struct {
	Name         *string      `json:"name,omitempty"`
	Email        *string      `json:"email,omitempty"`
	Role         *domain.Role `json:"role,omitempty"`
	DepartmentID *string      `json:"department_id,omitempty"`
	Active       *bool        `json:"active,omitempty"`
}

// DepartmentRequest payload.
type DepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse represents a department.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
