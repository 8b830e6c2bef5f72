package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentProofRepository implements leasing.PaymentProofRepository using GORM
type GormPaymentProofRepository struct {
	db *gorm.DB
}

// NewGormPaymentProofRepository creates a new GormPaymentProofRepository
func NewGormPaymentProofRepository(db *gorm.DB) *GormPaymentProofRepository {
	return &GormPaymentProofRepository{db: db}
}

// FindByID finds a payment proof by ID
func (r *GormPaymentProofRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.PaymentProof, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a payment proof and locks its row
func (r *GormPaymentProofRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.PaymentProof, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPaymentProofRepository) find(q *gorm.DB, id uuid.UUID) (*leasing.PaymentProof, error) {
	var model models.PaymentProofModel
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find payment proof", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists proofs matching the filter
func (r *GormPaymentProofRepository) FindAll(ctx context.Context, filter leasing.PaymentProofFilter) ([]leasing.PaymentProof, error) {
	q := r.db.WithContext(ctx).Model(&models.PaymentProofModel{})
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}

	var rows []models.PaymentProofModel
	if err := paginate(q, filter.Filter, "payment_proofs", PaymentProofSortFields, "submitted_at").Find(&rows).Error; err != nil {
		return nil, translateError("list payment proofs", err)
	}

	proofs := make([]leasing.PaymentProof, len(rows))
	for i := range rows {
		proofs[i] = *rows[i].ToDomain()
	}
	return proofs, nil
}

// Save creates or updates a payment proof
func (r *GormPaymentProofRepository) Save(ctx context.Context, proof *leasing.PaymentProof) error {
	if err := r.db.WithContext(ctx).Save(models.PaymentProofModelFromDomain(proof)).Error; err != nil {
		return translateError("save payment proof", err)
	}
	return nil
}

var _ leasing.PaymentProofRepository = (*GormPaymentProofRepository)(nil)
