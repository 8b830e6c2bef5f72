package leasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is the stored payment state of an installment.
// Overdue is not a stored status, see Installment.DisplayStatus.
type InstallmentStatus string

const (
	InstallmentStatusPending             InstallmentStatus = "pending"              // Nothing paid yet
	InstallmentStatusPartial             InstallmentStatus = "partial"              // Some amount paid
	InstallmentStatusPaid                InstallmentStatus = "paid"                 // Fully settled
	InstallmentStatusPendingVerification InstallmentStatus = "pending_verification" // Customer proof awaiting review
)

// DisplayStatusOverdue is reported for unpaid installments past their due date
const DisplayStatusOverdue = "overdue"

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusPaid, InstallmentStatusPendingVerification:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one scheduled obligation of a contract. Installments use a
// numeric identifier assigned by the database; it appears in receipt numbers.
type Installment struct {
	ID         int64
	ContractID uuid.UUID
	Sequence   int
	DueDate    time.Time
	AmountDue  decimal.Decimal
	AmountPaid decimal.Decimal
	Status     InstallmentStatus
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewInstallment creates a pending installment from a schedule entry
func NewInstallment(contractID uuid.UUID, entry ScheduleEntry) Installment {
	now := time.Now()
	return Installment{
		ContractID: contractID,
		Sequence:   entry.Number,
		DueDate:    entry.DueDate,
		AmountDue:  entry.AmountDue,
		AmountPaid: decimal.Zero,
		Status:     InstallmentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPaid returns true if the installment is fully settled
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// Outstanding returns the amount still owed, never negative
func (i *Installment) Outstanding() decimal.Decimal {
	rest := i.AmountDue.Sub(i.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsOverdue reports whether the installment is unpaid and its due date is
// before today
func (i *Installment) IsOverdue(today time.Time) bool {
	return !i.IsPaid() && i.DueDate.Before(DateOnly(today))
}

// DisplayStatus returns the stored status, or "overdue" when IsOverdue holds
func (i *Installment) DisplayStatus(today time.Time) string {
	if i.IsOverdue(today) {
		return DisplayStatusOverdue
	}
	return i.Status.String()
}

// ApplyPayment adds amount to the paid accumulator. The installment becomes
// paid once the accumulator reaches the amount due and partial otherwise.
func (i *Installment) ApplyPayment(amount decimal.Decimal, at time.Time) error {
	if i.IsPaid() {
		return shared.NewDomainError("INVALID_STATE", "Installment already paid")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !IsWholeCents(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot have more than 2 decimal places")
	}

	i.AmountPaid = i.AmountPaid.Add(amount)
	if i.AmountPaid.GreaterThanOrEqual(i.AmountDue) {
		i.Status = InstallmentStatusPaid
		paidAt := at
		i.PaidAt = &paidAt
	} else {
		i.Status = InstallmentStatusPartial
	}
	i.UpdatedAt = time.Now()
	return nil
}

// MarkPendingVerification flags that a customer proof is waiting for review
func (i *Installment) MarkPendingVerification() error {
	if i.IsPaid() {
		return shared.NewDomainError("INVALID_STATE", "Installment already paid")
	}
	i.Status = InstallmentStatusPendingVerification
	i.UpdatedAt = time.Now()
	return nil
}

// SettleInFull marks the installment paid with the full amount due.
// Used when a payment proof is approved.
func (i *Installment) SettleInFull(at time.Time) error {
	if i.IsPaid() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Installment %d already paid", i.Sequence))
	}
	i.AmountPaid = i.AmountDue
	i.Status = InstallmentStatusPaid
	paidAt := at
	i.PaidAt = &paidAt
	i.UpdatedAt = time.Now()
	return nil
}
