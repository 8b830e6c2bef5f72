package leasing

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
)

// AggregateTypePaymentProof is the aggregate type name for payment proofs
const AggregateTypePaymentProof = "PaymentProof"

// MaxProofNoteLength bounds the free-text note on a proof, in characters
const MaxProofNoteLength = 500

// ProofStatus represents the review state of a payment proof
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

// IsValid checks if the status is a valid ProofStatus
func (s ProofStatus) IsValid() bool {
	switch s {
	case ProofStatusPending, ProofStatusApproved, ProofStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ProofStatus
func (s ProofStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the proof has been reviewed
func (s ProofStatus) IsTerminal() bool {
	return s == ProofStatusApproved || s == ProofStatusRejected
}

// PaymentProof is a customer's claim of having paid one installment out of band
type PaymentProof struct {
	shared.OwnedAggregateRoot
	InstallmentID int64
	ContractID    uuid.UUID
	CustomerID    uuid.UUID
	ImageKey      string
	Note          string
	Status        ProofStatus
	SubmittedAt   time.Time
	ReviewedAt    *time.Time
	ReviewedBy    *uuid.UUID
}

// NewPaymentProof creates a pending proof for an installment of the contract
func NewPaymentProof(contract *Contract, installment *Installment, customerID uuid.UUID, imageKey, note string) (*PaymentProof, error) {
	if contract == nil || installment == nil {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment is required")
	}
	if installment.ContractID != contract.ID {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment does not belong to contract")
	}
	if contract.CustomerID != customerID {
		return nil, shared.NewDomainError("FORBIDDEN", "Contract does not belong to this customer")
	}
	if strings.TrimSpace(imageKey) == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Proof image is required")
	}
	if utf8.RuneCountInString(note) > MaxProofNoteLength {
		return nil, shared.NewDomainError("INVALID_NOTE", fmt.Sprintf("Note cannot exceed %d characters", MaxProofNoteLength))
	}

	p := &PaymentProof{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(contract.OwnerID),
		InstallmentID:      installment.ID,
		ContractID:         contract.ID,
		CustomerID:         customerID,
		ImageKey:           imageKey,
		Note:               note,
		Status:             ProofStatusPending,
		SubmittedAt:        time.Now(),
	}
	p.AddDomainEvent(NewPaymentProofEvent(EventTypeProofSubmitted, p))
	return p, nil
}

// Approve accepts the proof. Only pending proofs can be approved.
func (p *PaymentProof) Approve(reviewerID uuid.UUID) error {
	if p.Status != ProofStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve payment proof in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProofStatusApproved
	p.ReviewedAt = &now
	p.ReviewedBy = &reviewerID
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentProofEvent(EventTypeProofApproved, p))
	return nil
}

// Reject declines the proof with an optional note. Only pending proofs can
// be rejected.
func (p *PaymentProof) Reject(reviewerID uuid.UUID, note string) error {
	if p.Status != ProofStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject payment proof in %s status", p.Status))
	}
	if utf8.RuneCountInString(note) > MaxProofNoteLength {
		return shared.NewDomainError("INVALID_NOTE", fmt.Sprintf("Note cannot exceed %d characters", MaxProofNoteLength))
	}

	now := time.Now()
	p.Status = ProofStatusRejected
	p.Note = note
	p.ReviewedAt = &now
	p.ReviewedBy = &reviewerID
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentProofEvent(EventTypeProofRejected, p))
	return nil
}
