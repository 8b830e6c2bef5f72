package leasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeReceipt is the aggregate type name for receipts
const AggregateTypeReceipt = "Receipt"

// PaymentMethod represents how a settled payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodTransfer     PaymentMethod = "transfer" // Settled through an approved payment proof
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ReceiptNumber builds the human-readable receipt number
// RCP-<YYYYMMDD>-<installment id padded to 4 digits>. A positive seq adds a
// "-<seq>" suffix so several receipts for the same installment on the same
// day stay unique.
func ReceiptNumber(issuedAt time.Time, installmentID int64, seq int) string {
	base := fmt.Sprintf("RCP-%s-%04d", issuedAt.Format("20060102"), installmentID)
	if seq > 0 {
		return fmt.Sprintf("%s-%d", base, seq)
	}
	return base
}

// IssueReceiptParams carries everything a receipt records
type IssueReceiptParams struct {
	ReceiptNumber  string
	OwnerID        uuid.UUID
	ContractID     uuid.UUID
	InstallmentID  int64
	PaymentProofID *uuid.UUID
	Amount         decimal.Decimal
	PaymentMethod  PaymentMethod
	IssuedBy       uuid.UUID
	PaidAt         time.Time
}

// Receipt is the immutable record of a settled payment. It has no mutating
// methods.
type Receipt struct {
	shared.OwnedAggregateRoot
	ReceiptNumber  string
	ContractID     uuid.UUID
	InstallmentID  int64
	PaymentProofID *uuid.UUID
	Amount         decimal.Decimal
	PaymentMethod  PaymentMethod
	IssuedBy       uuid.UUID
	PaidAt         time.Time
}

// IssueReceipt creates a receipt for a settled payment
func IssueReceipt(p IssueReceiptParams) (*Receipt, error) {
	if p.ReceiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if p.ContractID == uuid.Nil || p.InstallmentID == 0 {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt must reference a contract and an installment")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if !p.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", p.PaymentMethod))
	}
	if p.IssuedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ISSUER", "Receipt issuer cannot be empty")
	}
	paidAt := p.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	r := &Receipt{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(p.OwnerID),
		ReceiptNumber:      p.ReceiptNumber,
		ContractID:         p.ContractID,
		InstallmentID:      p.InstallmentID,
		PaymentProofID:     p.PaymentProofID,
		Amount:             p.Amount,
		PaymentMethod:      p.PaymentMethod,
		IssuedBy:           p.IssuedBy,
		PaidAt:             paidAt,
	}
	r.AddDomainEvent(NewReceiptIssuedEvent(r))
	return r, nil
}
