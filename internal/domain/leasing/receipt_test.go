package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptNumber(t *testing.T) {
	at := time.Date(2025, time.March, 7, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name          string
		installmentID int64
		seq           int
		want          string
	}{
		{"pads to four digits", 7, 0, "RCP-20250307-0007"},
		{"keeps longer ids", 123456, 0, "RCP-20250307-123456"},
		{"adds disambiguator", 7, 2, "RCP-20250307-0007-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReceiptNumber(at, tt.installmentID, tt.seq))
		})
	}
}

func validReceiptParams() IssueReceiptParams {
	return IssueReceiptParams{
		ReceiptNumber: "RCP-20250307-0007",
		OwnerID:       uuid.New(),
		ContractID:    uuid.New(),
		InstallmentID: 7,
		Amount:        dec("3734"),
		PaymentMethod: PaymentMethodCash,
		IssuedBy:      uuid.New(),
	}
}

func TestIssueReceipt(t *testing.T) {
	p := validReceiptParams()
	proofID := uuid.New()
	p.PaymentProofID = &proofID

	r, err := IssueReceipt(p)
	require.NoError(t, err)
	assert.Equal(t, p.ReceiptNumber, r.ReceiptNumber)
	assert.Equal(t, p.OwnerID, r.OwnerID)
	assert.Equal(t, &proofID, r.PaymentProofID)
	assert.False(t, r.PaidAt.IsZero())

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReceiptIssued, events[0].EventType())
}

func TestIssueReceipt_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IssueReceiptParams)
		code   string
	}{
		{"no number", func(p *IssueReceiptParams) { p.ReceiptNumber = "" }, "INVALID_RECEIPT_NUMBER"},
		{"no contract", func(p *IssueReceiptParams) { p.ContractID = uuid.Nil }, "INVALID_RECEIPT"},
		{"no installment", func(p *IssueReceiptParams) { p.InstallmentID = 0 }, "INVALID_RECEIPT"},
		{"zero amount", func(p *IssueReceiptParams) { p.Amount = dec("0") }, "INVALID_AMOUNT"},
		{"bad method", func(p *IssueReceiptParams) { p.PaymentMethod = "cheque" }, "INVALID_PAYMENT_METHOD"},
		{"no issuer", func(p *IssueReceiptParams) { p.IssuedBy = uuid.Nil }, "INVALID_ISSUER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validReceiptParams()
			tt.mutate(&p)
			_, err := IssueReceipt(p)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}
