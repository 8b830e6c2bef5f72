package leasing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
)

// Customer is an owner's record of a lessee. UserID links the record to the
// customer's login account, when one exists.
type Customer struct {
	shared.OwnedAggregateRoot
	Name         string
	IDCardNumber string
	Phone        string
	Email        string
	Address      string
	UserID       *uuid.UUID
}

// NewCustomer creates a customer record for an owner
func NewCustomer(ownerID uuid.UUID, name, idCardNumber string) (*Customer, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	idCardNumber = strings.TrimSpace(idCardNumber)
	if len(idCardNumber) > 20 {
		return nil, shared.NewDomainError("INVALID_ID_CARD", "ID card number cannot exceed 20 characters")
	}

	return &Customer{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		IDCardNumber:       idCardNumber,
	}, nil
}

// SetContact sets phone, email and address
func (c *Customer) SetContact(phone, email, address string) {
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Address = strings.TrimSpace(address)
}

// LinkUser links the record to a customer login account
func (c *Customer) LinkUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	c.UserID = &userID
	c.IncrementVersion()
	return nil
}
