package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PortalService is the customer-facing view of contracts: what is owed,
// what has been paid and where to transfer
type PortalService struct {
	repos    Repositories
	channels *PaymentChannelService
	clock    Clock
	logger   *zap.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(repos Repositories, channels *PaymentChannelService, clock Clock, logger *zap.Logger) *PortalService {
	return &PortalService{repos: repos, channels: channels, clock: clock, logger: nopIfNil(logger)}
}

// ListContracts returns the customer's contracts with installment progress
func (s *PortalService) ListContracts(ctx context.Context, actor identity.Actor, filter ContractListFilter) ([]ContractResponse, int64, error) {
	if err := actor.RequireCustomer(); err != nil {
		return nil, 0, err
	}
	domainFilter := leasing.ContractFilter{
		Filter:     toFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		CustomerID: actor.CustomerID,
	}
	if filter.Status != "" {
		status := leasing.ContractStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown contract status")
		}
		domainFilter.Status = &status
	}

	contracts, err := s.repos.Contracts.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Contracts.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	today := s.clock.Today()
	items := make([]ContractResponse, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		c.Installments, err = s.repos.Installments.FindByContract(ctx, c.ID)
		if err != nil {
			return nil, 0, err
		}
		asset, err := s.repos.Assets.FindByID(ctx, c.AssetID)
		if err != nil && !isNotFound(err) {
			return nil, 0, err
		}
		resp := ToContractResponse(c, today).WithParties(nil, asset)
		// The list shows progress only; the schedule is served by GetContract.
		resp.Installments = nil
		items[i] = resp
	}
	return items, total, nil
}

// GetContract returns one of the customer's contracts with its schedule
func (s *PortalService) GetContract(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ContractResponse, error) {
	if err := actor.RequireCustomer(); err != nil {
		return nil, err
	}
	contract, err := s.repos.Contracts.FindByIDWithInstallments(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomerProfile(contract.CustomerID) {
		return nil, forbidden("Contract does not belong to this customer")
	}
	asset, err := s.repos.Assets.FindByID(ctx, contract.AssetID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	resp := ToContractResponse(contract, s.clock.Today()).WithParties(nil, asset)
	return &resp, nil
}

// GetPaymentChannel returns where the customer should transfer payments for
// a contract. An owner without a configured channel yields an empty response.
func (s *PortalService) GetPaymentChannel(ctx context.Context, actor identity.Actor, contractID uuid.UUID) (*PaymentChannelResponse, error) {
	if err := actor.RequireCustomer(); err != nil {
		return nil, err
	}
	contract, err := s.repos.Contracts.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomerProfile(contract.CustomerID) {
		return nil, forbidden("Contract does not belong to this customer")
	}
	return s.channels.forOwner(ctx, contract.OwnerID)
}
