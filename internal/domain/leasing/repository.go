package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContractFilter defines filtering options for contract queries.
// Nil pointer fields are not applied.
type ContractFilter struct {
	shared.Filter
	OwnerID    *uuid.UUID      // Contracts of one owner
	CustomerID *uuid.UUID      // Contracts of one customer profile
	Status     *ContractStatus // Filter by status
}

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	// FindByID finds a contract without its installments
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)

	// FindByIDForUpdate finds a contract and locks its row until the
	// transaction ends. Payments, approvals and cancellation of one contract
	// serialize on this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Contract, error)

	// FindByIDWithInstallments finds a contract with installments in schedule order
	FindByIDWithInstallments(ctx context.Context, id uuid.UUID) (*Contract, error)

	// ExistsByNumber checks whether a contract number is taken
	ExistsByNumber(ctx context.Context, contractNumber string) (bool, error)

	// FindAll lists contracts, newest first. Search matches the contract
	// number, customer name and customer ID card number.
	FindAll(ctx context.Context, filter ContractFilter) ([]Contract, error)

	// Count counts contracts matching the filter
	Count(ctx context.Context, filter ContractFilter) (int64, error)

	// Create inserts a new contract together with its installments
	Create(ctx context.Context, contract *Contract) error

	// Save updates the contract row (status and audit columns)
	Save(ctx context.Context, contract *Contract) error
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	// FindByID finds an installment by ID
	FindByID(ctx context.Context, id int64) (*Installment, error)

	// FindByIDForUpdate finds an installment and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Installment, error)

	// FindByContract returns a contract's installments in schedule order
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]Installment, error)

	// Save updates an installment
	Save(ctx context.Context, installment *Installment) error
}

// PaymentProofFilter defines filtering options for payment proof queries
type PaymentProofFilter struct {
	shared.Filter
	OwnerID    *uuid.UUID
	CustomerID *uuid.UUID
	Status     *ProofStatus
}

// PaymentProofRepository defines the interface for payment proof persistence
type PaymentProofRepository interface {
	// FindByID finds a payment proof by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentProof, error)

	// FindByIDForUpdate finds a payment proof and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PaymentProof, error)

	// FindAll lists proofs matching the filter, most recently submitted first
	FindAll(ctx context.Context, filter PaymentProofFilter) ([]PaymentProof, error)

	// Save creates or updates a payment proof
	Save(ctx context.Context, proof *PaymentProof) error
}

// ReceiptRepository defines the interface for receipt persistence.
// Receipts are never updated or deleted.
type ReceiptRepository interface {
	// FindByID finds a receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByInstallment returns an installment's receipts, oldest first
	FindByInstallment(ctx context.Context, installmentID int64) ([]Receipt, error)

	// CountByInstallment counts receipts already issued for an installment
	CountByInstallment(ctx context.Context, installmentID int64) (int64, error)

	// Create inserts a receipt
	Create(ctx context.Context, receipt *Receipt) error
}

// AssetFilter defines filtering options for asset queries
type AssetFilter struct {
	shared.Filter
	OwnerID *uuid.UUID
	Status  *AssetStatus
}

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	FindAll(ctx context.Context, filter AssetFilter) ([]Asset, error)
	Count(ctx context.Context, filter AssetFilter) (int64, error)
	Save(ctx context.Context, asset *Asset) error
}

// CustomerFilter defines filtering options for customer queries
type CustomerFilter struct {
	shared.Filter
	OwnerID *uuid.UUID
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID finds the customer profile linked to a login account
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, error)
	Count(ctx context.Context, filter CustomerFilter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
}

// PaymentChannelRepository stores owners' payment channels
type PaymentChannelRepository interface {
	// FindByOwner returns the owner's channel or shared.ErrNotFound
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*PaymentChannel, error)
	Save(ctx context.Context, channel *PaymentChannel) error
}

// MonthlyRevenue is the receipt total of one calendar month
type MonthlyRevenue struct {
	Month   time.Time
	Revenue decimal.Decimal
}

// InstallmentStatusCounts counts an owner's installments by payment state
type InstallmentStatusCounts struct {
	Paid    int64
	Pending int64 // pending and not yet due
	Overdue int64 // pending and past due
}

// DashboardRepository answers the aggregate queries of the owner dashboard
type DashboardRepository interface {
	// CountAssets counts an owner's assets, optionally by status
	CountAssets(ctx context.Context, ownerID uuid.UUID, status *AssetStatus) (int64, error)

	// CountContracts counts an owner's contracts by status
	CountContracts(ctx context.Context, ownerID uuid.UUID, status ContractStatus) (int64, error)

	// CountActiveEndingBetween counts active contracts whose end date falls in [from, to]
	CountActiveEndingBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error)

	// SumActiveInstallmentAmounts sums the monthly installment amount of active contracts
	SumActiveInstallmentAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)

	// SumReceipts sums receipt amounts paid in [from, to)
	SumReceipts(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// CountInstallments counts installments by payment state relative to today
	CountInstallments(ctx context.Context, ownerID uuid.UUID, today time.Time) (InstallmentStatusCounts, error)

	// RecentContracts returns the newest contracts of an owner
	RecentContracts(ctx context.Context, ownerID uuid.UUID, limit int) ([]Contract, error)
}
