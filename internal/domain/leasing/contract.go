package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeContract is the aggregate type name for contracts
const AggregateTypeContract = "Contract"

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusCancelled
}

// ContractKind is the commercial category recorded on the contract
type ContractKind string

const (
	ContractKindHirePurchase ContractKind = "hire_purchase"
	ContractKindLoan         ContractKind = "loan"
)

// IsValid checks if the kind is valid
func (k ContractKind) IsValid() bool {
	switch k {
	case ContractKindHirePurchase, ContractKindLoan:
		return true
	}
	return false
}

// NewContractParams carries the non-financial attributes of a new contract
type NewContractParams struct {
	CustomerID       uuid.UUID
	AssetID          uuid.UUID
	ContractNumber   string
	Kind             ContractKind
	ParentContractID *uuid.UUID
}

// Contract is a financing agreement between an owner and a customer for one
// asset. It owns its installments.
type Contract struct {
	shared.OwnedAggregateRoot
	CustomerID        uuid.UUID
	AssetID           uuid.UUID
	ContractNumber    string
	Kind              ContractKind
	ContractType      ContractType
	TotalPrice        decimal.Decimal
	DownPayment       decimal.Decimal
	PrincipalAmount   decimal.Decimal
	InterestRate      decimal.Decimal
	InstallmentsCount int
	InstallmentAmount decimal.Decimal
	BalloonPayment    decimal.Decimal
	StartDate         time.Time
	EndDate           time.Time
	OriginalEndDate   time.Time
	Status            ContractStatus
	ParentContractID  *uuid.UUID
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelledBy       *uuid.UUID
	Installments      []Installment
}

// NewContract originates a contract from a computed schedule. One pending
// installment is created per schedule entry.
func NewContract(ownerID uuid.UUID, params NewContractParams, schedule *Schedule) (*Contract, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if params.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if params.AssetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSET", "Asset ID cannot be empty")
	}
	number := strings.TrimSpace(params.ContractNumber)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot exceed 50 characters")
	}
	if schedule == nil || len(schedule.Entries) == 0 {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Contract requires a computed schedule")
	}
	kind := params.Kind
	if kind == "" {
		kind = ContractKindHirePurchase
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONTRACT_KIND", fmt.Sprintf("Unknown contract kind %q", kind))
	}

	terms := schedule.Terms
	c := &Contract{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		CustomerID:         params.CustomerID,
		AssetID:            params.AssetID,
		ContractNumber:     number,
		Kind:               kind,
		ContractType:       terms.ContractType,
		TotalPrice:         terms.TotalPrice,
		DownPayment:        terms.DownPayment,
		PrincipalAmount:    schedule.Principal,
		InterestRate:       terms.InterestRate,
		InstallmentsCount:  len(schedule.Entries),
		InstallmentAmount:  schedule.InstallmentAmount,
		BalloonPayment:     schedule.BalloonPayment,
		StartDate:          terms.StartDate,
		EndDate:            schedule.EndDate,
		OriginalEndDate:    schedule.EndDate,
		Status:             ContractStatusActive,
		ParentContractID:   params.ParentContractID,
	}

	c.Installments = make([]Installment, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		c.Installments = append(c.Installments, NewInstallment(c.ID, entry))
	}

	c.AddDomainEvent(NewContractCreatedEvent(c))
	return c, nil
}

// IsActive returns true if the contract is active
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// FinancedPrincipal returns the part of the principal repaid through installments
func (c *Contract) FinancedPrincipal() decimal.Decimal {
	return c.PrincipalAmount.Sub(c.BalloonPayment)
}

// CheckCompletion moves an active contract to completed when every
// installment is paid. It returns true only when the transition happened, so
// running it again on a completed contract is a no-op.
func (c *Contract) CheckCompletion(installments []Installment) bool {
	if c.Status != ContractStatusActive || len(installments) == 0 {
		return false
	}
	for i := range installments {
		if !installments[i].IsPaid() {
			return false
		}
	}

	now := time.Now()
	c.Status = ContractStatusCompleted
	c.CompletedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewContractCompletedEvent(c))
	return true
}

// Cancel terminates an active contract
func (c *Contract) Cancel(cancelledBy uuid.UUID) error {
	if c.Status != ContractStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel contract in %s status", c.Status))
	}

	now := time.Now()
	c.Status = ContractStatusCancelled
	c.CancelledAt = &now
	c.CancelledBy = &cancelledBy
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewContractCancelledEvent(c))
	return nil
}

// NextUnpaid returns the earliest unpaid installment, or nil when all are paid.
// Installments must be in schedule order.
func (c *Contract) NextUnpaid() *Installment {
	for i := range c.Installments {
		if !c.Installments[i].IsPaid() {
			return &c.Installments[i]
		}
	}
	return nil
}

// PaidCount returns how many installments are fully paid
func (c *Contract) PaidCount() int {
	n := 0
	for i := range c.Installments {
		if c.Installments[i].IsPaid() {
			n++
		}
	}
	return n
}
