package domain

import "time"

// Role enumerates the closed set of authorization roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Employee is the identity record behind every authenticated request.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
