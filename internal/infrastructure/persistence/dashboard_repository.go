package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements leasing.DashboardRepository using GORM.
// Queries stay within portable SQL so they run on both postgres and sqlite.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountAssets counts an owner's assets, optionally by status
func (r *GormDashboardRepository) CountAssets(ctx context.Context, ownerID uuid.UUID, status *leasing.AssetStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("owner_id = ?", ownerID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, translateError("count assets", err)
	}
	return count, nil
}

// CountContracts counts an owner's contracts in a status
func (r *GormDashboardRepository) CountContracts(ctx context.Context, ownerID uuid.UUID, status leasing.ContractStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("owner_id = ? AND status = ?", ownerID, string(status)).
		Count(&count).Error
	if err != nil {
		return 0, translateError("count contracts", err)
	}
	return count, nil
}

// CountActiveEndingBetween counts active contracts ending in [from, to]
func (r *GormDashboardRepository) CountActiveEndingBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("owner_id = ? AND status = ?", ownerID, string(leasing.ContractStatusActive)).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, translateError("count expiring contracts", err)
	}
	return count, nil
}

// SumActiveInstallmentAmounts sums the monthly amount of active contracts
func (r *GormDashboardRepository) SumActiveInstallmentAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Select("COALESCE(SUM(installment_amount), 0)").
		Where("owner_id = ? AND status = ?", ownerID, string(leasing.ContractStatusActive)).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translateError("sum installment amounts", err)
	}
	return total, nil
}

// SumReceipts sums receipt amounts paid in [from, to)
func (r *GormDashboardRepository) SumReceipts(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND paid_at >= ? AND paid_at < ?", ownerID, from, to).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translateError("sum receipts", err)
	}
	return total, nil
}

// CountInstallments counts the installments of an owner's non-cancelled
// contracts by payment state relative to today
func (r *GormDashboardRepository) CountInstallments(ctx context.Context, ownerID uuid.UUID, today time.Time) (leasing.InstallmentStatusCounts, error) {
	var counts leasing.InstallmentStatusCounts
	today = leasing.DateOnly(today)
	paid := string(leasing.InstallmentStatusPaid)

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.InstallmentModel{}).
			Joins("JOIN contracts ON contracts.id = installments.contract_id").
			Where("contracts.owner_id = ? AND contracts.status <> ?", ownerID, string(leasing.ContractStatusCancelled))
	}

	if err := base().Where("installments.status = ?", paid).Count(&counts.Paid).Error; err != nil {
		return counts, translateError("count paid installments", err)
	}
	if err := base().Where("installments.status <> ? AND installments.due_date >= ?", paid, today).
		Count(&counts.Pending).Error; err != nil {
		return counts, translateError("count pending installments", err)
	}
	if err := base().Where("installments.status <> ? AND installments.due_date < ?", paid, today).
		Count(&counts.Overdue).Error; err != nil {
		return counts, translateError("count overdue installments", err)
	}
	return counts, nil
}

// RecentContracts returns the newest contracts of an owner
func (r *GormDashboardRepository) RecentContracts(ctx context.Context, ownerID uuid.UUID, limit int) ([]leasing.Contract, error) {
	var rows []models.ContractModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError("recent contracts", err)
	}
	contracts := make([]leasing.Contract, len(rows))
	for i := range rows {
		contracts[i] = *rows[i].ToDomain()
	}
	return contracts, nil
}

var _ leasing.DashboardRepository = (*GormDashboardRepository)(nil)
