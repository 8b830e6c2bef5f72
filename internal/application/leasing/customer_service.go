package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService manages an owner's customer records
type CustomerService struct {
	repos  Repositories
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repos Repositories, logger *zap.Logger) *CustomerService {
	return &CustomerService{repos: repos, logger: nopIfNil(logger)}
}

// Create adds a customer record. A login account can be linked to at most
// one customer record.
func (s *CustomerService) Create(ctx context.Context, actor identity.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	customer, err := leasing.NewCustomer(actor.UserID, req.Name, req.IDCardNumber)
	if err != nil {
		return nil, err
	}
	customer.SetContact(req.Phone, req.Email, req.Address)

	if req.UserID != nil {
		existing, err := s.repos.Customers.FindByUserID(ctx, *req.UserID)
		switch {
		case err == nil && existing != nil:
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User account is already linked to a customer")
		case err != nil && !isNotFound(err):
			return nil, err
		}
		if err := customer.LinkUser(*req.UserID); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("owner_id", actor.UserID.String()),
	)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns one customer record
func (s *CustomerService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.repos.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleOwner:
		if !customer.IsOwnedBy(actor.UserID) {
			return nil, forbidden("Customer belongs to another owner")
		}
	case identity.RoleCustomer:
		if !actor.IsCustomerProfile(customer.ID) {
			return nil, forbidden("You can only view your own profile")
		}
	default:
		return nil, forbidden("Unknown role")
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns the owner's customers
func (s *CustomerService) List(ctx context.Context, actor identity.Actor, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, 0, err
	}
	ownerID := actor.UserID
	domainFilter := leasing.CustomerFilter{
		Filter:  toFilter(filter.Page, filter.PageSize, "name", "asc", filter.Search),
		OwnerID: &ownerID,
	}

	customers, err := s.repos.Customers.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Customers.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	return items, total, nil
}

// ResolveProfile returns the customer profile linked to a login account, or
// nil when the account has none
func (s *CustomerService) ResolveProfile(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	customer, err := s.repos.Customers.FindByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	id := customer.ID
	return &id, nil
}
