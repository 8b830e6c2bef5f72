package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var paymentNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func TestPaymentService_RecordPayment_FullPaymentCompletesContract(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	ownerID := uuid.New()
	contract := newTestContract(ownerID, uuid.New(), 1, 101)
	installment := contract.Installments[0]

	paid := installment
	paid.Status = leasing.InstallmentStatusPaid
	paid.AmountPaid = installment.AmountDue

	repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
	repos.installments.On("FindByIDForUpdate", mock.Anything, int64(101)).Return(&installment, nil)
	repos.installments.On("Save", mock.Anything, &installment).Return(nil)
	repos.receipts.On("CountByInstallment", mock.Anything, int64(101)).Return(int64(0), nil)
	repos.receipts.On("Create", mock.Anything, mock.AnythingOfType("*leasing.Receipt")).Return(nil)
	repos.installments.On("FindByContract", mock.Anything, contract.ID).Return([]leasing.Installment{paid}, nil)
	repos.contracts.On("Save", mock.Anything, contract).Return(nil)

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
	svc.SetEventPublisher(publisher)

	resp, err := svc.RecordPayment(ctx, identity.Actor{UserID: ownerID, Role: identity.RoleOwner}, RecordPaymentRequest{
		ContractID:    contract.ID,
		InstallmentID: 101,
		Amount:        installment.AmountDue,
	})
	require.NoError(t, err)

	assert.Equal(t, "RCP-20240305-0101", resp.Receipt.ReceiptNumber)
	assert.Equal(t, "cash", resp.Receipt.PaymentMethod)
	assert.True(t, resp.Receipt.Amount.Equal(installment.AmountDue))
	assert.Equal(t, "paid", resp.Installment.Status)
	assert.True(t, resp.ContractCompleted)
	assert.Equal(t, "completed", resp.ContractStatus)
	assert.Equal(t, leasing.ContractStatusCompleted, contract.Status)

	repos.contracts.AssertExpectations(t)
	repos.receipts.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPaymentService_RecordPayment_PartialPayment(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	ownerID := uuid.New()
	contract := newTestContract(ownerID, uuid.New(), 2, 7)
	installment := contract.Installments[0]

	repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
	repos.installments.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(&installment, nil)
	repos.installments.On("Save", mock.Anything, &installment).Return(nil)
	repos.receipts.On("CountByInstallment", mock.Anything, int64(7)).Return(int64(1), nil)
	repos.receipts.On("Create", mock.Anything, mock.AnythingOfType("*leasing.Receipt")).Return(nil)
	repos.installments.On("FindByContract", mock.Anything, contract.ID).Return(contract.Installments, nil)

	svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
	resp, err := svc.RecordPayment(ctx, identity.Actor{UserID: ownerID, Role: identity.RoleOwner}, RecordPaymentRequest{
		ContractID:    contract.ID,
		InstallmentID: 7,
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, "RCP-20240305-0007-1", resp.Receipt.ReceiptNumber)
	assert.Equal(t, "partial", resp.Installment.Status)
	assert.True(t, resp.Installment.AmountPaid.Equal(decimal.NewFromInt(1000)))
	assert.False(t, resp.ContractCompleted)
	assert.Equal(t, "active", resp.ContractStatus)
	repos.contracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_RecordPayment_Rejections(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	owner := identity.Actor{UserID: ownerID, Role: identity.RoleOwner}

	t.Run("customer cannot record payments", func(t *testing.T) {
		repos := newTestRepos()
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		customerID := uuid.New()
		_, err := svc.RecordPayment(ctx, identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer, CustomerID: &customerID},
			RecordPaymentRequest{ContractID: uuid.New(), InstallmentID: 1, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		repos := newTestRepos()
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: uuid.New(), InstallmentID: 1, Amount: decimal.Zero})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_AMOUNT", de.Code)
	})

	t.Run("fractions of a cent", func(t *testing.T) {
		repos := newTestRepos()
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		for _, amt := range []string{"999.999", "0.001"} {
			_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: uuid.New(), InstallmentID: 1, Amount: decimal.RequireFromString(amt)})
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "INVALID_AMOUNT", de.Code)
		}
		repos.contracts.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("other owner's contract", func(t *testing.T) {
		repos := newTestRepos()
		contract := newTestContract(uuid.New(), uuid.New(), 1, 1)
		repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: contract.ID, InstallmentID: 1, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("cancelled contract", func(t *testing.T) {
		repos := newTestRepos()
		contract := newTestContract(ownerID, uuid.New(), 1, 1)
		require.NoError(t, contract.Cancel(ownerID))
		repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: contract.ID, InstallmentID: 1, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("installment of another contract", func(t *testing.T) {
		repos := newTestRepos()
		contract := newTestContract(ownerID, uuid.New(), 1, 1)
		other := newTestContract(ownerID, uuid.New(), 1, 50)
		repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
		repos.installments.On("FindByIDForUpdate", mock.Anything, int64(50)).Return(&other.Installments[0], nil)
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: contract.ID, InstallmentID: 50, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("already paid installment changes nothing", func(t *testing.T) {
		repos := newTestRepos()
		contract := newTestContract(ownerID, uuid.New(), 2, 1)
		installment := contract.Installments[0]
		require.NoError(t, installment.SettleInFull(paymentNow))
		repos.contracts.On("FindByIDForUpdate", mock.Anything, contract.ID).Return(contract, nil)
		repos.installments.On("FindByIDForUpdate", mock.Anything, int64(1)).Return(&installment, nil)
		svc := NewPaymentService(repos.txScope(), fixedClock(paymentNow), nil)
		_, err := svc.RecordPayment(ctx, owner, RecordPaymentRequest{ContractID: contract.ID, InstallmentID: 1, Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repos.installments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		repos.receipts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestIssueReceipt_NumbersInBusinessZone(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	repos.receipts.On("CountByInstallment", mock.Anything, int64(12)).Return(int64(0), nil)
	repos.receipts.On("Create", mock.Anything, mock.AnythingOfType("*leasing.Receipt")).Return(nil)

	bangkok := time.FixedZone("ICT", 7*3600)
	clock := Clock{Now: func() time.Time { return paymentNow }, Location: bangkok}
	// 20:00 UTC is already the next day in UTC+7
	paidAt := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)

	receipt, err := issueReceipt(ctx, NewNoOpTransactionScope(repos.repositories()), clock, leasing.IssueReceiptParams{
		OwnerID:       uuid.New(),
		ContractID:    uuid.New(),
		InstallmentID: 12,
		Amount:        decimal.NewFromInt(500),
		PaymentMethod: leasing.PaymentMethodCash,
		IssuedBy:      uuid.New(),
		PaidAt:        paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-20240306-0012", receipt.ReceiptNumber)
	assert.Equal(t, paidAt, receipt.PaidAt)
}
