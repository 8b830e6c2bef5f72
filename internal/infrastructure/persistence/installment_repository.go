package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInstallmentRepository implements leasing.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id int64) (*leasing.Installment, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the installment row with SELECT ... FOR UPDATE.
// It must run inside a transaction; sqlite ignores the locking clause and
// relies on its single writer instead.
func (r *GormInstallmentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*leasing.Installment, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormInstallmentRepository) find(q *gorm.DB, id int64) (*leasing.Installment, error) {
	var model models.InstallmentModel
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find installment", err)
	}
	installment := model.ToDomain()
	return &installment, nil
}

// FindByContract returns a contract's installments in schedule order
func (r *GormInstallmentRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]leasing.Installment, error) {
	var rows []models.InstallmentModel
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("installment_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("list installments", err)
	}

	installments := make([]leasing.Installment, len(rows))
	for i := range rows {
		installments[i] = rows[i].ToDomain()
	}
	return installments, nil
}

// Save updates the installment's payment columns
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *leasing.Installment) error {
	result := r.db.WithContext(ctx).Model(&models.InstallmentModel{}).
		Where("id = ?", installment.ID).
		Updates(map[string]any{
			"amount_paid": installment.AmountPaid,
			"status":      string(installment.Status),
			"paid_at":     installment.PaidAt,
			"updated_at":  installment.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("save installment", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("save installment", gorm.ErrRecordNotFound)
	}
	return nil
}

var _ leasing.InstallmentRepository = (*GormInstallmentRepository)(nil)
