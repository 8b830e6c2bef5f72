package leasing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPortalService_ListContracts(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	customerID := uuid.New()
	contract := newTestContract(uuid.New(), customerID, 3, 1)
	installments := contract.Installments
	require.NoError(t, installments[0].SettleInFull(paymentNow))
	contract.Installments = nil

	repos.contracts.On("FindAll", ctx, mock.Anything).Return([]leasing.Contract{*contract}, nil)
	repos.contracts.On("Count", ctx, mock.Anything).Return(int64(1), nil)
	repos.installments.On("FindByContract", ctx, contract.ID).Return(installments, nil)
	repos.assets.On("FindByID", ctx, contract.AssetID).Return(nil, shared.ErrNotFound)

	svc := NewPortalService(repos.repositories(), nil, fixedClock(paymentNow), nil)
	items, total, err := svc.ListContracts(ctx, customerActor(customerID), ContractListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	require.NotNil(t, items[0].PaidInstallments)
	assert.Equal(t, 1, *items[0].PaidInstallments)
	require.NotNil(t, items[0].NextDue)
	assert.Equal(t, 2, items[0].NextDue.Number)
	assert.Empty(t, items[0].Installments)
}

func TestPortalService_GetPaymentChannel(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	ownerID := uuid.New()
	contract := newTestContract(ownerID, customerID, 1, 1)

	t.Run("configured channel with qr code", func(t *testing.T) {
		repos := newTestRepos()
		storage := new(MockObjectStorage)
		repos.contracts.On("FindByID", ctx, contract.ID).Return(contract, nil)
		repos.channels.On("FindByOwner", ctx, ownerID).Return(&leasing.PaymentChannel{
			OwnerID:           ownerID,
			BankName:          "KBank",
			BankAccountNumber: "123-4-56789-0",
			BankAccountName:   "Owner Co",
			QRCodeKey:         "payment-qr/owner.png",
		}, nil)
		storage.On("PresignGet", ctx, "payment-qr/owner.png").Return("https://files.example.test/qr.png", nil)

		channels := NewPaymentChannelService(repos.repositories(), storage, nil)
		svc := NewPortalService(repos.repositories(), channels, fixedClock(paymentNow), nil)
		resp, err := svc.GetPaymentChannel(ctx, customerActor(customerID), contract.ID)
		require.NoError(t, err)
		assert.Equal(t, "KBank", resp.BankName)
		assert.Equal(t, "https://files.example.test/qr.png", resp.QRCodeURL)
	})

	t.Run("owner without channel", func(t *testing.T) {
		repos := newTestRepos()
		repos.contracts.On("FindByID", ctx, contract.ID).Return(contract, nil)
		repos.channels.On("FindByOwner", ctx, ownerID).Return(nil, shared.ErrNotFound)

		channels := NewPaymentChannelService(repos.repositories(), new(MockObjectStorage), nil)
		svc := NewPortalService(repos.repositories(), channels, fixedClock(paymentNow), nil)
		resp, err := svc.GetPaymentChannel(ctx, customerActor(customerID), contract.ID)
		require.NoError(t, err)
		assert.Equal(t, PaymentChannelResponse{}, *resp)
	})

	t.Run("other customer's contract", func(t *testing.T) {
		repos := newTestRepos()
		repos.contracts.On("FindByID", ctx, contract.ID).Return(contract, nil)
		svc := NewPortalService(repos.repositories(), nil, fixedClock(paymentNow), nil)
		_, err := svc.GetPaymentChannel(ctx, customerActor(uuid.New()), contract.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestPaymentChannelService_UpdateKeepsQRCode(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	storage := new(MockObjectStorage)
	ownerID := uuid.New()

	repos.channels.On("FindByOwner", ctx, ownerID).Return(&leasing.PaymentChannel{OwnerID: ownerID, QRCodeKey: "payment-qr/old.png"}, nil)
	repos.channels.On("Save", ctx, mock.MatchedBy(func(c *leasing.PaymentChannel) bool {
		return c.QRCodeKey == "payment-qr/old.png" && c.BankName == "SCB"
	})).Return(nil)
	storage.On("PresignGet", ctx, "payment-qr/old.png").Return("https://files.example.test/old.png", nil)

	svc := NewPaymentChannelService(repos.repositories(), storage, nil)
	resp, err := svc.Update(ctx, identity.Actor{UserID: ownerID, Role: identity.RoleOwner}, UpdatePaymentChannelRequest{
		BankName:          "SCB",
		BankAccountNumber: "111-2-33333-4",
		BankAccountName:   "Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "SCB", resp.BankName)
	assert.Equal(t, "https://files.example.test/old.png", resp.QRCodeURL)
	repos.channels.AssertExpectations(t)
}

func TestPaymentChannelService_UploadQRCode(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	owner := identity.Actor{UserID: ownerID, Role: identity.RoleOwner}
	isNewKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "payment-qr/"+ownerID.String()+"/") && strings.HasSuffix(key, ".png")
	})

	t.Run("replaces previous image", func(t *testing.T) {
		repos := newTestRepos()
		storage := new(MockObjectStorage)
		repos.channels.On("FindByOwner", ctx, ownerID).Return(&leasing.PaymentChannel{OwnerID: ownerID, QRCodeKey: "payment-qr/old.png"}, nil)
		storage.On("Put", ctx, isNewKey, "image/png", mock.Anything, int64(32)).Return(nil)
		repos.channels.On("Save", ctx, mock.Anything).Return(nil)
		storage.On("Delete", ctx, "payment-qr/old.png").Return(nil)
		storage.On("PresignGet", ctx, isNewKey).Return("https://files.example.test/new.png", nil)

		svc := NewPaymentChannelService(repos.repositories(), storage, nil)
		resp, err := svc.UploadQRCode(ctx, owner, pngUpload(32))
		require.NoError(t, err)
		assert.Equal(t, "https://files.example.test/new.png", resp.QRCodeURL)
		storage.AssertExpectations(t)
	})

	t.Run("first upload creates the channel", func(t *testing.T) {
		repos := newTestRepos()
		storage := new(MockObjectStorage)
		repos.channels.On("FindByOwner", ctx, ownerID).Return(nil, shared.ErrNotFound)
		storage.On("Put", ctx, isNewKey, "image/png", mock.Anything, int64(32)).Return(nil)
		repos.channels.On("Save", ctx, mock.Anything).Return(nil)
		storage.On("PresignGet", ctx, isNewKey).Return("u", nil)

		svc := NewPaymentChannelService(repos.repositories(), storage, nil)
		_, err := svc.UploadQRCode(ctx, owner, pngUpload(32))
		require.NoError(t, err)
		storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("save failure removes the new image", func(t *testing.T) {
		repos := newTestRepos()
		storage := new(MockObjectStorage)
		repos.channels.On("FindByOwner", ctx, ownerID).Return(nil, shared.ErrNotFound)
		storage.On("Put", ctx, isNewKey, "image/png", mock.Anything, int64(32)).Return(nil)
		repos.channels.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		storage.On("Delete", mock.Anything, isNewKey).Return(nil)

		svc := NewPaymentChannelService(repos.repositories(), storage, nil)
		_, err := svc.UploadQRCode(ctx, owner, pngUpload(32))
		require.Error(t, err)
		storage.AssertCalled(t, "Delete", mock.Anything, isNewKey)
	})
}
