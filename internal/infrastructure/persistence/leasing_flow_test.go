package persistence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appleasing "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStorage keeps uploaded objects in a map
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) PresignGet(_ context.Context, key string) (string, error) {
	return "https://objects.test/" + key, nil
}

func (s *memoryStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

// TestLeasingFlow runs a contract from origination to completion through the
// services and the GORM transaction scope
func TestLeasingFlow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repos := NewLeasingRepositories(db)
	txScope := NewGormTransactionScope(db)
	storage := newMemoryStorage()
	clock := appleasing.Clock{
		Now:      func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}

	customers := appleasing.NewCustomerService(repos, nil)
	assets := appleasing.NewAssetService(repos, nil)
	contracts := appleasing.NewContractService(repos, txScope, clock, nil)
	payments := appleasing.NewPaymentService(txScope, clock, nil)
	proofs := appleasing.NewProofService(repos, txScope, storage, clock, nil)
	receipts := appleasing.NewReceiptService(repos, nil)

	owner := identity.Actor{UserID: uuid.New(), Role: identity.RoleOwner}
	customerUserID := uuid.New()

	customer, err := customers.Create(ctx, owner, appleasing.CreateCustomerRequest{
		Name:   "Somchai Jaidee",
		Phone:  "0812345678",
		UserID: &customerUserID,
	})
	require.NoError(t, err)

	asset, err := assets.Create(ctx, owner, appleasing.CreateAssetRequest{Name: "Honda Wave", Price: decimal.NewFromInt(2000)})
	require.NoError(t, err)

	contract, err := contracts.Create(ctx, owner, appleasing.CreateContractRequest{
		ScheduleTermsRequest: appleasing.ScheduleTermsRequest{
			TotalPrice:        decimal.NewFromInt(2000),
			InstallmentsCount: 2,
			StartDate:         "2024-01-15",
		},
		CustomerID:     customer.ID,
		AssetID:        asset.ID,
		ContractNumber: "HP-100",
	})
	require.NoError(t, err)
	require.Len(t, contract.Installments, 2)
	first, second := contract.Installments[0], contract.Installments[1]
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	storedAsset, err := repos.Assets.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.AssetStatusRented, storedAsset.Status)

	// First installment paid in cash at the counter
	payment, err := payments.RecordPayment(ctx, owner, appleasing.RecordPaymentRequest{
		ContractID:    contract.ID,
		InstallmentID: first.ID,
		Amount:        decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.False(t, payment.ContractCompleted)
	assert.Equal(t, string(leasing.InstallmentStatusPaid), payment.Installment.Status)
	assert.Equal(t, leasing.ReceiptNumber(clock.Now(), first.ID, 0), payment.Receipt.ReceiptNumber)

	// Second installment settled through a transfer slip
	profileID, err := customers.ResolveProfile(ctx, customerUserID)
	require.NoError(t, err)
	require.NotNil(t, profileID)
	customerActor := identity.Actor{UserID: customerUserID, Role: identity.RoleCustomer, CustomerID: profileID}

	proof, err := proofs.Submit(ctx, customerActor, appleasing.SubmitProofRequest{
		InstallmentID: second.ID,
		Note:          "paid via mobile banking",
		Image: appleasing.UploadImage{
			Filename:    "slip.jpg",
			ContentType: "image/jpeg",
			Size:        3,
			Body:        bytes.NewReader([]byte{0xff, 0xd8, 0xff}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(leasing.ProofStatusPending), proof.Status)
	assert.Len(t, storage.keys(), 1)

	review, err := proofs.Approve(ctx, owner, proof.ID)
	require.NoError(t, err)
	require.NotNil(t, review.Receipt)
	assert.True(t, review.Receipt.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, string(leasing.ContractStatusCompleted), review.ContractStatus)

	loaded, err := contracts.Get(ctx, owner, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, string(leasing.ContractStatusCompleted), loaded.Status)
	require.NotNil(t, loaded.CompletedAt)

	// The customer can read the receipt issued for their transfer
	detail, err := receipts.Get(ctx, customerActor, review.Receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, review.Receipt.ReceiptNumber, detail.ReceiptNumber)

	stored, err := repos.Receipts.FindByInstallment(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].PaymentProofID)
	assert.Equal(t, proof.ID, *stored[0].PaymentProofID)
}

// failingAssetSaves wraps the transactional repositories so that saving an
// asset fails after the contract rows were written
type failingAssetSaves struct {
	appleasing.TransactionalRepositories
}

func (r failingAssetSaves) Assets() leasing.AssetRepository {
	return failingAssetRepository{r.TransactionalRepositories.Assets()}
}

type failingAssetRepository struct {
	leasing.AssetRepository
}

func (failingAssetRepository) Save(context.Context, *leasing.Asset) error {
	return errors.New("asset write failed")
}

type failingAssetScope struct {
	inner *GormTransactionScope
}

func (s failingAssetScope) Execute(ctx context.Context, fn func(repos appleasing.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos appleasing.TransactionalRepositories) error {
		return fn(failingAssetSaves{repos})
	})
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

// TestContractCreate_RollsBackOnFailure checks that a failure after the
// contract and installment inserts leaves nothing behind
func TestContractCreate_RollsBackOnFailure(t *testing.T) {
	clock := appleasing.Clock{
		Now:      func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}

	tests := []struct {
		name      string
		prepare   func(t *testing.T, db *gorm.DB, f fixture)
		scope     func(db *gorm.DB) appleasing.TransactionScope
		wantAsset leasing.AssetStatus
	}{
		{
			name: "sold asset",
			prepare: func(t *testing.T, db *gorm.DB, f fixture) {
				f.asset.Status = leasing.AssetStatusSold
				require.NoError(t, NewGormAssetRepository(db).Save(context.Background(), f.asset))
			},
			scope:     func(db *gorm.DB) appleasing.TransactionScope { return NewGormTransactionScope(db) },
			wantAsset: leasing.AssetStatusSold,
		},
		{
			name:    "asset update fails",
			prepare: func(*testing.T, *gorm.DB, fixture) {},
			scope: func(db *gorm.DB) appleasing.TransactionScope {
				return failingAssetScope{inner: NewGormTransactionScope(db)}
			},
			wantAsset: leasing.AssetStatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := newTestDB(t)
			f := seedFixture(t, db, "Somchai")
			tt.prepare(t, db, f)

			repos := NewLeasingRepositories(db)
			svc := appleasing.NewContractService(repos, tt.scope(db), clock, nil)
			owner := identity.Actor{UserID: f.ownerID, Role: identity.RoleOwner}

			_, err := svc.Create(ctx, owner, appleasing.CreateContractRequest{
				ScheduleTermsRequest: appleasing.ScheduleTermsRequest{
					TotalPrice:        decimal.NewFromInt(2000),
					InstallmentsCount: 2,
					StartDate:         "2024-01-15",
				},
				CustomerID:     f.customer.ID,
				AssetID:        f.asset.ID,
				ContractNumber: "HP-200",
			})
			require.Error(t, err)

			assert.Zero(t, countRows(t, db, "contracts"))
			assert.Zero(t, countRows(t, db, "installments"))
			exists, err := repos.Contracts.ExistsByNumber(ctx, "HP-200")
			require.NoError(t, err)
			assert.False(t, exists)

			asset, err := repos.Assets.FindByID(ctx, f.asset.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAsset, asset.Status)
		})
	}
}

// TestRecordPayment_RollsBackWhenReceiptFails checks that the installment
// update is undone when the receipt cannot be stored
func TestRecordPayment_RollsBackWhenReceiptFails(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedFixture(t, db, "Somchai")
	contract := seedContract(t, db, f, "HP-300", 2)
	first, second := contract.Installments[0], contract.Installments[1]

	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	clock := appleasing.Clock{Now: func() time.Time { return now }, Location: time.UTC}

	// Take the number the payment on the first installment would be issued
	taken, err := leasing.IssueReceipt(leasing.IssueReceiptParams{
		ReceiptNumber: leasing.ReceiptNumber(now, first.ID, 0),
		OwnerID:       f.ownerID,
		ContractID:    contract.ID,
		InstallmentID: second.ID,
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: leasing.PaymentMethodCash,
		IssuedBy:      f.ownerID,
		PaidAt:        now,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormReceiptRepository(db).Create(ctx, taken))

	svc := appleasing.NewPaymentService(NewGormTransactionScope(db), clock, nil)
	_, err = svc.RecordPayment(ctx, identity.Actor{UserID: f.ownerID, Role: identity.RoleOwner}, appleasing.RecordPaymentRequest{
		ContractID:    contract.ID,
		InstallmentID: first.ID,
		Amount:        decimal.NewFromInt(1000),
	})
	require.Error(t, err)

	installment, err := NewGormInstallmentRepository(db).FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, installment.AmountPaid.IsZero(), "amount_paid = %s", installment.AmountPaid)
	assert.Equal(t, leasing.InstallmentStatusPending, installment.Status)
	assert.Nil(t, installment.PaidAt)

	count, err := NewGormReceiptRepository(db).CountByInstallment(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, int64(1), countRows(t, db, "receipts"))

	stored, err := NewGormContractRepository(db).FindByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.ContractStatusActive, stored.Status)
}
