package leasing

import (
	"context"

	"github.com/hirepurchase/backend/internal/domain/leasing"
)

// TransactionScope runs a unit of work in one database transaction. The
// transaction is rolled back when fn returns an error and committed otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction. Row locks taken through them (FindByIDForUpdate) are held
// until the transaction ends.
type TransactionalRepositories interface {
	Contracts() leasing.ContractRepository
	Installments() leasing.InstallmentRepository
	Proofs() leasing.PaymentProofRepository
	Receipts() leasing.ReceiptRepository
	Assets() leasing.AssetRepository
	Customers() leasing.CustomerRepository
}

// Repositories groups the non-transactional repositories a service reads through
type Repositories struct {
	Contracts       leasing.ContractRepository
	Installments    leasing.InstallmentRepository
	Proofs          leasing.PaymentProofRepository
	Receipts        leasing.ReceiptRepository
	Assets          leasing.AssetRepository
	Customers       leasing.CustomerRepository
	PaymentChannels leasing.PaymentChannelRepository
	Dashboard       leasing.DashboardRepository
}

// NoOpTransactionScope executes fn directly against the given repositories.
// Useful in tests that exercise services with in-memory fakes.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Contracts() leasing.ContractRepository       { return s.repos.Contracts }
func (s *NoOpTransactionScope) Installments() leasing.InstallmentRepository { return s.repos.Installments }
func (s *NoOpTransactionScope) Proofs() leasing.PaymentProofRepository      { return s.repos.Proofs }
func (s *NoOpTransactionScope) Receipts() leasing.ReceiptRepository         { return s.repos.Receipts }
func (s *NoOpTransactionScope) Assets() leasing.AssetRepository             { return s.repos.Assets }
func (s *NoOpTransactionScope) Customers() leasing.CustomerRepository       { return s.repos.Customers }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
