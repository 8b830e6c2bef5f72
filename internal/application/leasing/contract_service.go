package leasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContractService handles contract origination and the contract lifecycle
type ContractService struct {
	repos    Repositories
	txScope  TransactionScope
	exporter ScheduleExporter
	events   shared.EventPublisher
	clock    Clock
	logger   *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(repos Repositories, txScope TransactionScope, clock Clock, logger *zap.Logger) *ContractService {
	return &ContractService{
		repos:   repos,
		txScope: txScope,
		clock:   clock,
		logger:  nopIfNil(logger),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ContractService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// SetScheduleExporter sets the spreadsheet exporter used by ExportSchedule
func (s *ContractService) SetScheduleExporter(exporter ScheduleExporter) {
	s.exporter = exporter
}

// Preview computes a schedule without persisting anything
func (s *ContractService) Preview(_ context.Context, actor identity.Actor, req PreviewRequest) (*ScheduleResponse, error) {
	switch actor.Role {
	case identity.RoleOwner, identity.RoleAdmin:
	case identity.RoleCustomer:
		return nil, forbidden("Customers cannot preview contracts")
	default:
		return nil, forbidden("Unknown role")
	}

	terms, err := parseTerms(req.ScheduleTermsRequest)
	if err != nil {
		return nil, err
	}
	schedule, err := leasing.ComputeSchedule(terms)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(schedule)
	return &resp, nil
}

// Create originates a contract. The contract row, its installments and the
// asset status change commit together or not at all.
func (s *ContractService) Create(ctx context.Context, actor identity.Actor, req CreateContractRequest) (*ContractResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}

	terms, err := parseTerms(req.ScheduleTermsRequest)
	if err != nil {
		return nil, err
	}
	schedule, err := leasing.ComputeSchedule(terms)
	if err != nil {
		return nil, err
	}

	var (
		contract *leasing.Contract
		customer *leasing.Customer
		asset    *leasing.Asset
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err = repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			if isNotFound(err) {
				return notFound("Customer")
			}
			return err
		}
		if !customer.IsOwnedBy(actor.UserID) {
			return forbidden("Customer belongs to another owner")
		}

		asset, err = repos.Assets().FindByID(ctx, req.AssetID)
		if err != nil {
			if isNotFound(err) {
				return notFound("Asset")
			}
			return err
		}
		if !asset.IsOwnedBy(actor.UserID) {
			return forbidden("Asset belongs to another owner")
		}

		exists, err := repos.Contracts().ExistsByNumber(ctx, req.ContractNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Contract number %s already exists", req.ContractNumber))
		}

		contract, err = leasing.NewContract(actor.UserID, leasing.NewContractParams{
			CustomerID:       customer.ID,
			AssetID:          asset.ID,
			ContractNumber:   req.ContractNumber,
			Kind:             leasing.ContractKind(req.Kind),
			ParentContractID: req.ParentContractID,
		}, schedule)
		if err != nil {
			return err
		}
		if err := repos.Contracts().Create(ctx, contract); err != nil {
			return err
		}

		if err := asset.MarkFinanced(contract.ContractType); err != nil {
			return err
		}
		return repos.Assets().Save(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber),
		zap.String("owner_id", actor.UserID.String()),
		zap.Int("installments", len(contract.Installments)),
	)
	publishEvents(ctx, s.events, s.logger, contract)

	resp := ToContractResponse(contract, s.clock.Today()).WithParties(customer, asset)
	return &resp, nil
}

// Get returns a contract with its installments, customer and asset. Owners
// see their own contracts, customers the contracts of their profile, admins
// every contract.
func (s *ContractService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ContractResponse, error) {
	contract, err := s.repos.Contracts.FindByIDWithInstallments(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(contract.OwnerID, contract.CustomerID) {
		return nil, forbidden("You do not have access to this contract")
	}

	customer, asset, err := s.loadParties(ctx, contract)
	if err != nil {
		return nil, err
	}
	resp := ToContractResponse(contract, s.clock.Today()).WithParties(customer, asset)
	return &resp, nil
}

// List returns the contracts visible to the actor, newest first
func (s *ContractService) List(ctx context.Context, actor identity.Actor, filter ContractListFilter) ([]ContractResponse, int64, error) {
	domainFilter := leasing.ContractFilter{
		Filter: toFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
	}
	if filter.Status != "" {
		status := leasing.ContractStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown contract status")
		}
		domainFilter.Status = &status
	}

	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleOwner:
		ownerID := actor.UserID
		domainFilter.OwnerID = &ownerID
	case identity.RoleCustomer:
		if err := actor.RequireCustomer(); err != nil {
			return nil, 0, err
		}
		domainFilter.CustomerID = actor.CustomerID
	default:
		return nil, 0, forbidden("Unknown role")
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
	customers := make(map[uuid.UUID]*leasing.Customer)
	items := make([]ContractResponse, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		customer, ok := customers[c.CustomerID]
		if !ok {
			customer, err = s.repos.Customers.FindByID(ctx, c.CustomerID)
			if err != nil && !isNotFound(err) {
				return nil, 0, err
			}
			customers[c.CustomerID] = customer
		}
		items[i] = ToContractResponse(c, today).WithParties(customer, nil)
	}
	return items, total, nil
}

// Cancel terminates an active contract and makes its asset available again
func (s *ContractService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ContractResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}

	var contract *leasing.Contract
	var asset *leasing.Asset
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.Contracts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !contract.IsOwnedBy(actor.UserID) {
			return forbidden("You do not own this contract")
		}
		if err := contract.Cancel(actor.UserID); err != nil {
			return err
		}
		if err := repos.Contracts().Save(ctx, contract); err != nil {
			return err
		}

		asset, err = repos.Assets().FindByID(ctx, contract.AssetID)
		if err != nil {
			if isNotFound(err) {
				asset = nil
				return nil
			}
			return err
		}
		asset.Release()
		return repos.Assets().Save(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract cancelled",
		zap.String("contract_id", contract.ID.String()),
		zap.String("cancelled_by", actor.UserID.String()),
	)
	publishEvents(ctx, s.events, s.logger, contract)

	resp := ToContractResponse(contract, s.clock.Today()).WithParties(nil, asset)
	return &resp, nil
}

// ExportSchedule renders the contract's installment schedule as an XLSX
// workbook. It returns the file content and a suggested file name.
func (s *ContractService) ExportSchedule(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]byte, string, error) {
	if s.exporter == nil {
		return nil, "", errors.New("schedule export is not configured")
	}
	contract, err := s.repos.Contracts.FindByIDWithInstallments(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !actor.CanView(contract.OwnerID, contract.CustomerID) {
		return nil, "", forbidden("You do not have access to this contract")
	}
	customer, asset, err := s.loadParties(ctx, contract)
	if err != nil {
		return nil, "", err
	}

	today := s.clock.Today()
	doc := ScheduleDocument{
		ContractNumber:    contract.ContractNumber,
		ContractType:      contract.ContractType.String(),
		TotalPrice:        contract.TotalPrice,
		DownPayment:       contract.DownPayment,
		PrincipalAmount:   contract.PrincipalAmount,
		InterestRate:      contract.InterestRate,
		InstallmentAmount: contract.InstallmentAmount,
		BalloonPayment:    contract.BalloonPayment,
		StartDate:         contract.StartDate,
		EndDate:           contract.EndDate,
		Rows:              make([]ScheduleRow, len(contract.Installments)),
	}
	if customer != nil {
		doc.CustomerName = customer.Name
	}
	if asset != nil {
		doc.AssetName = asset.Name
	}
	for i := range contract.Installments {
		inst := &contract.Installments[i]
		doc.Rows[i] = ScheduleRow{
			Number:     inst.Sequence,
			DueDate:    inst.DueDate,
			AmountDue:  inst.AmountDue,
			AmountPaid: inst.AmountPaid,
			Status:     inst.DisplayStatus(today),
			PaidAt:     inst.PaidAt,
		}
	}

	data, err := s.exporter.ExportSchedule(doc)
	if err != nil {
		return nil, "", fmt.Errorf("export schedule: %w", err)
	}
	return data, fmt.Sprintf("schedule-%s.xlsx", contract.ContractNumber), nil
}

// loadParties loads the customer and asset of a contract; missing rows yield nil
func (s *ContractService) loadParties(ctx context.Context, c *leasing.Contract) (*leasing.Customer, *leasing.Asset, error) {
	customer, err := s.repos.Customers.FindByID(ctx, c.CustomerID)
	if err != nil && !isNotFound(err) {
		return nil, nil, err
	}
	asset, err := s.repos.Assets.FindByID(ctx, c.AssetID)
	if err != nil && !isNotFound(err) {
		return nil, nil, err
	}
	return customer, asset, nil
}
