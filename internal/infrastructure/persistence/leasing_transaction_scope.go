package persistence

import (
	"context"

	appleasing "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"gorm.io/gorm"
)

// GormTransactionScope runs leasing units of work in one GORM transaction
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a transaction; an error from fn rolls it back
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appleasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to tx
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Contracts() leasing.ContractRepository {
	return NewGormContractRepository(r.tx)
}

func (r *gormTransactionalRepositories) Installments() leasing.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Proofs() leasing.PaymentProofRepository {
	return NewGormPaymentProofRepository(r.tx)
}

func (r *gormTransactionalRepositories) Receipts() leasing.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) Assets() leasing.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() leasing.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// NewLeasingRepositories builds the non-transactional repository set
func NewLeasingRepositories(db *gorm.DB) appleasing.Repositories {
	return appleasing.Repositories{
		Contracts:       NewGormContractRepository(db),
		Installments:    NewGormInstallmentRepository(db),
		Proofs:          NewGormPaymentProofRepository(db),
		Receipts:        NewGormReceiptRepository(db),
		Assets:          NewGormAssetRepository(db),
		Customers:       NewGormCustomerRepository(db),
		PaymentChannels: NewGormPaymentChannelRepository(db),
		Dashboard:       NewGormDashboardRepository(db),
	}
}

var (
	_ appleasing.TransactionScope          = (*GormTransactionScope)(nil)
	_ appleasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
