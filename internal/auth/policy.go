package auth

import "github.com/spec-kit/attendance-service/internal/domain"

// Policy declares which authenticated employees may pass a route gate.
// The zero value admits any authenticated employee.
type Policy struct {
	roles      map[domain.Role]struct{}
	ownerParam string
}

// RequireRoles admits employees whose role is a member of the given set.
// With no arguments any authenticated employee is admitted.
func RequireRoles(roles ...domain.Role) Policy {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return Policy{roles: set}
}

// RequireAdminOrSelf admits admins unconditionally, and non-admins only
// when their id equals the route parameter named by ownerParam.
func RequireAdminOrSelf(ownerParam string) Policy {
	return Policy{ownerParam: ownerParam}
}

// OwnerParam returns the route parameter holding the resource owner id,
// empty for plain role policies.
func (p Policy) OwnerParam() string {
	return p.ownerParam
}

// Admit decides whether the employee satisfies the policy. ownerID is the
// resolved owner route parameter, empty when the policy has none.
func (p Policy) Admit(employee *domain.Employee, ownerID string) bool {
	if employee == nil {
		return false
	}
	if p.ownerParam != "" {
		return employee.Role == domain.RoleAdmin || employee.ID == ownerID
	}
	if len(p.roles) == 0 {
		return true
	}
	_, member := p.roles[employee.Role]
	return member
}
