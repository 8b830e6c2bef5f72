package identity

import (
	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
)

// Actor is the authenticated caller of an operation. It is passed explicitly
// into every application service method.
type Actor struct {
	UserID uuid.UUID
	Role   Role
	// CustomerID links a customer account to its customer profile.
	// Nil for admins, owners and customers without a profile.
	CustomerID *uuid.UUID
}

// NewActor creates an actor after checking the role
func NewActor(userID uuid.UUID, role Role, customerID *uuid.UUID) (Actor, error) {
	if userID == uuid.Nil {
		return Actor{}, shared.NewDomainError("INVALID_ACTOR", "Actor user ID cannot be empty")
	}
	if !role.IsValid() {
		return Actor{}, shared.NewDomainError("INVALID_ACTOR", "Actor role is invalid")
	}
	return Actor{UserID: userID, Role: role, CustomerID: customerID}, nil
}

// IsAdmin returns true if the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsOwner returns true if the actor is an asset owner
func (a Actor) IsOwner() bool {
	return a.Role == RoleOwner
}

// IsCustomer returns true if the actor is a customer
func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}

// IsCustomerProfile reports whether the actor is the customer account linked
// to the given customer profile
func (a Actor) IsCustomerProfile(customerID uuid.UUID) bool {
	return a.Role == RoleCustomer && a.CustomerID != nil && *a.CustomerID == customerID
}

// RequireOwner returns a forbidden error unless the actor is an owner
func (a Actor) RequireOwner() error {
	if a.Role != RoleOwner {
		return shared.NewDomainError("FORBIDDEN", "Only owners can perform this action")
	}
	return nil
}

// RequireCustomer returns a forbidden error unless the actor is a customer
// with a linked customer profile
func (a Actor) RequireCustomer() error {
	if a.Role != RoleCustomer {
		return shared.NewDomainError("FORBIDDEN", "Only customers can perform this action")
	}
	if a.CustomerID == nil {
		return shared.NewDomainError("FORBIDDEN", "Customer account is not linked to a customer profile")
	}
	return nil
}

// CanView decides read access to a resource owned by ownerID and leased to
// customerID.
func (a Actor) CanView(ownerID, customerID uuid.UUID) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleOwner:
		return a.UserID == ownerID
	case RoleCustomer:
		return a.IsCustomerProfile(customerID)
	default:
		return false
	}
}
