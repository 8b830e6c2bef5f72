package leasing

import (
	"fmt"
	"time"

	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxInstallments bounds the number of monthly installments on one contract
const MaxInstallments = 360

// MaxInterestRate is the highest annual flat rate, in percent, a contract may carry
const MaxInterestRate = 100

// IsWholeCents reports whether d has at most two decimal places, the scale
// every stored money column uses
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// ContractType selects how the financed amount is structured
type ContractType string

const (
	ContractTypeInstallment  ContractType = "installment"   // Whole principal paid through installments
	ContractTypeHirePurchase ContractType = "hire_purchase" // Part of the principal may be deferred as a balloon
)

// IsValid checks if the contract type is valid
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeInstallment, ContractTypeHirePurchase:
		return true
	}
	return false
}

// String returns the string representation of ContractType
func (t ContractType) String() string {
	return string(t)
}

// ScheduleTerms are the commercial terms a schedule is computed from
type ScheduleTerms struct {
	TotalPrice     decimal.Decimal
	DownPayment    decimal.Decimal
	InterestRate   decimal.Decimal // annual, percent
	Months         int
	StartDate      time.Time
	ContractType   ContractType
	BalloonPercent decimal.Decimal // percent of principal, hire purchase only
}

// Validate checks the terms before they are used to originate a contract.
// ComputeSchedule itself only refuses a non-positive month count.
func (t ScheduleTerms) Validate() error {
	if t.TotalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL_PRICE", "Total price cannot be negative")
	}
	if t.DownPayment.IsNegative() {
		return shared.NewDomainError("INVALID_DOWN_PAYMENT", "Down payment cannot be negative")
	}
	if !IsWholeCents(t.TotalPrice) || !IsWholeCents(t.DownPayment) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot have more than 2 decimal places")
	}
	if t.DownPayment.GreaterThan(t.TotalPrice) {
		return shared.NewDomainError("INVALID_DOWN_PAYMENT", "Down payment cannot exceed total price")
	}
	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(decimal.NewFromInt(MaxInterestRate)) {
		return shared.NewDomainError("INVALID_INTEREST_RATE",
			fmt.Sprintf("Interest rate must be between 0 and %d", MaxInterestRate))
	}
	if !IsWholeCents(t.InterestRate) {
		return shared.NewDomainError("INVALID_INTEREST_RATE", "Interest rate cannot have more than 2 decimal places")
	}
	if t.Months < 1 || t.Months > MaxInstallments {
		return shared.NewDomainError("INVALID_INSTALLMENTS",
			fmt.Sprintf("Installments count must be between 1 and %d", MaxInstallments))
	}
	if t.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}
	if t.ContractType != "" && !t.ContractType.IsValid() {
		return shared.NewDomainError("INVALID_CONTRACT_TYPE", "Contract type must be installment or hire_purchase")
	}
	if t.BalloonPercent.IsNegative() || t.BalloonPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_BALLOON_PERCENT", "Balloon percent must be between 0 and 100")
	}
	return nil
}

// ScheduleEntry is one row of the installment plan
type ScheduleEntry struct {
	Number    int
	DueDate   time.Time
	AmountDue decimal.Decimal
}

// Schedule is the result of ComputeSchedule
type Schedule struct {
	Terms             ScheduleTerms
	Principal         decimal.Decimal
	FinancedPrincipal decimal.Decimal
	InterestTotal     decimal.Decimal // rounded to 2 places
	TotalPayable      decimal.Decimal // rounded to 2 places
	InstallmentAmount decimal.Decimal // whole currency units
	BalloonPayment    decimal.Decimal // rounded to 2 places
	EndDate           time.Time
	Entries           []ScheduleEntry
}

// ScheduledTotal returns the sum of all installment amounts
func (s *Schedule) ScheduledTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		total = total.Add(e.AmountDue)
	}
	return total
}

// ComputeSchedule computes a flat-interest installment plan.
//
// Interest is charged once on the financed principal for the whole term and
// the per-month amount is rounded up to a whole currency unit, so the sum of
// the installments can exceed the total payable by less than one unit per
// installment. Installment i falls due i calendar months after the start
// date.
func ComputeSchedule(terms ScheduleTerms) (*Schedule, error) {
	if terms.Months < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installments count must be at least 1")
	}
	if terms.ContractType == "" {
		terms.ContractType = ContractTypeInstallment
	}
	start := DateOnly(terms.StartDate)
	terms.StartDate = start

	principal := terms.TotalPrice.Sub(terms.DownPayment)
	financed := principal
	balloon := decimal.Zero
	if terms.ContractType == ContractTypeHirePurchase && terms.BalloonPercent.IsPositive() {
		balloon = principal.Mul(terms.BalloonPercent).Div(hundred)
		financed = principal.Sub(balloon)
	}

	months := decimal.NewFromInt(int64(terms.Months))
	interest := financed.Mul(terms.InterestRate).Mul(months).Div(hundred.Mul(monthsPerYear))
	totalWithInterest := financed.Add(interest)
	installmentAmount := totalWithInterest.Div(months).Ceil()

	entries := make([]ScheduleEntry, 0, terms.Months)
	for i := 1; i <= terms.Months; i++ {
		entries = append(entries, ScheduleEntry{
			Number:    i,
			DueDate:   AddMonths(start, i),
			AmountDue: installmentAmount,
		})
	}

	return &Schedule{
		Terms:             terms,
		Principal:         principal,
		FinancedPrincipal: financed,
		InterestTotal:     interest.Round(2),
		TotalPayable:      totalWithInterest.Round(2),
		InstallmentAmount: installmentAmount,
		BalloonPayment:    balloon.Round(2),
		EndDate:           AddMonths(start, terms.Months),
		Entries:           entries,
	}, nil
}
