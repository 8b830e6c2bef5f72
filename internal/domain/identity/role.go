package identity

import (
	"fmt"
	"strings"

	"github.com/hirepurchase/backend/internal/domain/shared"
)

// Role is the closed set of account roles. Every role-sensitive decision is a
// switch over these values with a default branch that denies access.
type Role string

const (
	RoleAdmin    Role = "admin"    // Platform administrator, read access across owners
	RoleOwner    Role = "owner"    // Asset owner (lessor) running contracts
	RoleCustomer Role = "customer" // Lessee linked to a customer profile
)

// AllRoles returns every defined role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleOwner, RoleCustomer}
}

// IsValid checks if the role is one of the defined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCustomer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown role %q", s))
	}
	return r, nil
}
