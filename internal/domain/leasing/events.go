package leasing

import (
	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeContractCreated   = "ContractCreated"
	EventTypeContractCompleted = "ContractCompleted"
	EventTypeContractCancelled = "ContractCancelled"
	EventTypeReceiptIssued     = "ReceiptIssued"
	EventTypeProofSubmitted    = "PaymentProofSubmitted"
	EventTypeProofApproved     = "PaymentProofApproved"
	EventTypeProofRejected     = "PaymentProofRejected"
)

// ContractCreatedEvent is raised when a contract is originated
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractNumber    string          `json:"contract_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	AssetID           uuid.UUID       `json:"asset_id"`
	ContractType      ContractType    `json:"contract_type"`
	InstallmentsCount int             `json:"installments_count"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeContractCreated, AggregateTypeContract, c.ID, c.OwnerID),
		ContractNumber:    c.ContractNumber,
		CustomerID:        c.CustomerID,
		AssetID:           c.AssetID,
		ContractType:      c.ContractType,
		InstallmentsCount: c.InstallmentsCount,
		InstallmentAmount: c.InstallmentAmount,
	}
}

// ContractCompletedEvent is raised when the last installment is paid
type ContractCompletedEvent struct {
	shared.BaseDomainEvent
	ContractNumber string `json:"contract_number"`
}

// NewContractCompletedEvent creates a new ContractCompletedEvent
func NewContractCompletedEvent(c *Contract) *ContractCompletedEvent {
	return &ContractCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCompleted, AggregateTypeContract, c.ID, c.OwnerID),
		ContractNumber:  c.ContractNumber,
	}
}

// ContractCancelledEvent is raised when an owner cancels a contract
type ContractCancelledEvent struct {
	shared.BaseDomainEvent
	ContractNumber string    `json:"contract_number"`
	AssetID        uuid.UUID `json:"asset_id"`
}

// NewContractCancelledEvent creates a new ContractCancelledEvent
func NewContractCancelledEvent(c *Contract) *ContractCancelledEvent {
	return &ContractCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCancelled, AggregateTypeContract, c.ID, c.OwnerID),
		ContractNumber:  c.ContractNumber,
		AssetID:         c.AssetID,
	}
}

// ReceiptIssuedEvent is raised for every settled payment
type ReceiptIssuedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber  string          `json:"receipt_number"`
	ContractID     uuid.UUID       `json:"contract_id"`
	InstallmentID  int64           `json:"installment_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentProofID *uuid.UUID      `json:"payment_proof_id,omitempty"`
}

// NewReceiptIssuedEvent creates a new ReceiptIssuedEvent
func NewReceiptIssuedEvent(r *Receipt) *ReceiptIssuedEvent {
	return &ReceiptIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptIssued, AggregateTypeReceipt, r.ID, r.OwnerID),
		ReceiptNumber:   r.ReceiptNumber,
		ContractID:      r.ContractID,
		InstallmentID:   r.InstallmentID,
		Amount:          r.Amount,
		PaymentMethod:   r.PaymentMethod,
		PaymentProofID:  r.PaymentProofID,
	}
}

// PaymentProofEvent is raised on every proof transition. The event type
// tells submitted, approved and rejected apart.
type PaymentProofEvent struct {
	shared.BaseDomainEvent
	InstallmentID int64       `json:"installment_id"`
	ContractID    uuid.UUID   `json:"contract_id"`
	CustomerID    uuid.UUID   `json:"customer_id"`
	Status        ProofStatus `json:"status"`
	Note          string      `json:"note,omitempty"`
}

// NewPaymentProofEvent creates a new PaymentProofEvent of the given type
func NewPaymentProofEvent(eventType string, p *PaymentProof) *PaymentProofEvent {
	return &PaymentProofEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePaymentProof, p.ID, p.OwnerID),
		InstallmentID:   p.InstallmentID,
		ContractID:      p.ContractID,
		CustomerID:      p.CustomerID,
		Status:          p.Status,
		Note:            p.Note,
	}
}
