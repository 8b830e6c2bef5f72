package leasing

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockContractRepository is a mock implementation of leasing.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByIDWithInstallments(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter leasing.ContractFilter) ([]leasing.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) Count(ctx context.Context, filter leasing.ContractFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) Create(ctx context.Context, contract *leasing.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

// MockInstallmentRepository is a mock implementation of leasing.InstallmentRepository
type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindByID(ctx context.Context, id int64) (*leasing.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*leasing.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]leasing.Installment, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]leasing.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) Save(ctx context.Context, installment *leasing.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

// MockPaymentProofRepository is a mock implementation of leasing.PaymentProofRepository
type MockPaymentProofRepository struct {
	mock.Mock
}

func (m *MockPaymentProofRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.PaymentProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.PaymentProof), args.Error(1)
}

func (m *MockPaymentProofRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.PaymentProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.PaymentProof), args.Error(1)
}

func (m *MockPaymentProofRepository) FindAll(ctx context.Context, filter leasing.PaymentProofFilter) ([]leasing.PaymentProof, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.PaymentProof), args.Error(1)
}

func (m *MockPaymentProofRepository) Save(ctx context.Context, proof *leasing.PaymentProof) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

// MockReceiptRepository is a mock implementation of leasing.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByInstallment(ctx context.Context, installmentID int64) ([]leasing.Receipt, error) {
	args := m.Called(ctx, installmentID)
	return args.Get(0).([]leasing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) CountByInstallment(ctx context.Context, installmentID int64) (int64, error) {
	args := m.Called(ctx, installmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *leasing.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// MockAssetRepository is a mock implementation of leasing.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context, filter leasing.AssetFilter) ([]leasing.Asset, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.Asset), args.Error(1)
}

func (m *MockAssetRepository) Count(ctx context.Context, filter leasing.AssetFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, asset *leasing.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of leasing.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*leasing.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter leasing.CustomerFilter) ([]leasing.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter leasing.CustomerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *leasing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockPaymentChannelRepository is a mock implementation of leasing.PaymentChannelRepository
type MockPaymentChannelRepository struct {
	mock.Mock
}

func (m *MockPaymentChannelRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*leasing.PaymentChannel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.PaymentChannel), args.Error(1)
}

func (m *MockPaymentChannelRepository) Save(ctx context.Context, channel *leasing.PaymentChannel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

// MockDashboardRepository is a mock implementation of leasing.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountAssets(ctx context.Context, ownerID uuid.UUID, status *leasing.AssetStatus) (int64, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountContracts(ctx context.Context, ownerID uuid.UUID, status leasing.ContractStatus) (int64, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountActiveEndingBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) SumActiveInstallmentAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepository) SumReceipts(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepository) CountInstallments(ctx context.Context, ownerID uuid.UUID, today time.Time) (leasing.InstallmentStatusCounts, error) {
	args := m.Called(ctx, ownerID, today)
	return args.Get(0).(leasing.InstallmentStatusCounts), args.Error(1)
}

func (m *MockDashboardRepository) RecentContracts(ctx context.Context, ownerID uuid.UUID, limit int) ([]leasing.Contract, error) {
	args := m.Called(ctx, ownerID, limit)
	return args.Get(0).([]leasing.Contract), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	args := m.Called(ctx, key, contentType, body, size)
	return args.Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// testRepos bundles the mocks behind a Repositories value
type testRepos struct {
	contracts    *MockContractRepository
	installments *MockInstallmentRepository
	proofs       *MockPaymentProofRepository
	receipts     *MockReceiptRepository
	assets       *MockAssetRepository
	customers    *MockCustomerRepository
	channels     *MockPaymentChannelRepository
	dashboard    *MockDashboardRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		contracts:    new(MockContractRepository),
		installments: new(MockInstallmentRepository),
		proofs:       new(MockPaymentProofRepository),
		receipts:     new(MockReceiptRepository),
		assets:       new(MockAssetRepository),
		customers:    new(MockCustomerRepository),
		channels:     new(MockPaymentChannelRepository),
		dashboard:    new(MockDashboardRepository),
	}
}

func (r *testRepos) repositories() Repositories {
	return Repositories{
		Contracts:       r.contracts,
		Installments:    r.installments,
		Proofs:          r.proofs,
		Receipts:        r.receipts,
		Assets:          r.assets,
		Customers:       r.customers,
		PaymentChannels: r.channels,
		Dashboard:       r.dashboard,
	}
}

func (r *testRepos) txScope() TransactionScope {
	return NewNoOpTransactionScope(r.repositories())
}

// fixedClock returns a clock stuck at now in UTC
func fixedClock(now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: time.UTC}
}

// newTestContract builds an active contract with persisted-looking
// installment IDs starting at firstInstallmentID
func newTestContract(ownerID, customerID uuid.UUID, months int, firstInstallmentID int64) *leasing.Contract {
	schedule, err := leasing.ComputeSchedule(leasing.ScheduleTerms{
		TotalPrice:   decimal.NewFromInt(12000),
		DownPayment:  decimal.NewFromInt(0),
		InterestRate: decimal.NewFromInt(0),
		Months:       months,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ContractType: leasing.ContractTypeInstallment,
	})
	if err != nil {
		panic(err)
	}
	c, err := leasing.NewContract(ownerID, leasing.NewContractParams{
		CustomerID:     customerID,
		AssetID:        uuid.New(),
		ContractNumber: "HP-" + uuid.NewString()[:8],
	}, schedule)
	if err != nil {
		panic(err)
	}
	for i := range c.Installments {
		c.Installments[i].ID = firstInstallmentID + int64(i)
	}
	c.ClearDomainEvents()
	return c
}
