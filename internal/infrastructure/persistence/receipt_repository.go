package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReceiptRepository implements leasing.ReceiptRepository using GORM.
// It only ever inserts.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find receipt", err)
	}
	return model.ToDomain(), nil
}

// FindByInstallment returns an installment's receipts, oldest first
func (r *GormReceiptRepository) FindByInstallment(ctx context.Context, installmentID int64) ([]leasing.Receipt, error) {
	var rows []models.ReceiptModel
	err := r.db.WithContext(ctx).
		Where("installment_id = ?", installmentID).
		Order("paid_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("list receipts", err)
	}

	receipts := make([]leasing.Receipt, len(rows))
	for i := range rows {
		receipts[i] = *rows[i].ToDomain()
	}
	return receipts, nil
}

// CountByInstallment counts receipts issued for an installment
func (r *GormReceiptRepository) CountByInstallment(ctx context.Context, installmentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Where("installment_id = ?", installmentID).
		Count(&count).Error
	if err != nil {
		return 0, translateError("count receipts", err)
	}
	return count, nil
}

// Create inserts a receipt. A duplicate receipt number yields shared.ErrAlreadyExists.
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *leasing.Receipt) error {
	if err := r.db.WithContext(ctx).Create(models.ReceiptModelFromDomain(receipt)).Error; err != nil {
		return translateError("create receipt", err)
	}
	return nil
}

var _ leasing.ReceiptRepository = (*GormReceiptRepository)(nil)
