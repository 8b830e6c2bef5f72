package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
)

// PaymentChannel is where an owner asks customers to transfer installments
type PaymentChannel struct {
	OwnerID           uuid.UUID
	BankName          string
	BankAccountNumber string
	BankAccountName   string
	QRCodeKey         string // object key of the payment QR image
	UpdatedAt         time.Time
}

// NewPaymentChannel creates a payment channel for an owner
func NewPaymentChannel(ownerID uuid.UUID, bankName, accountNumber, accountName string) (*PaymentChannel, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	accountNumber = strings.TrimSpace(accountNumber)
	if len(accountNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot exceed 50 characters")
	}
	return &PaymentChannel{
		OwnerID:           ownerID,
		BankName:          strings.TrimSpace(bankName),
		BankAccountNumber: accountNumber,
		BankAccountName:   strings.TrimSpace(accountName),
		UpdatedAt:         time.Now(),
	}, nil
}
