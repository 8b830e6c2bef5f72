package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentChannelRepository implements leasing.PaymentChannelRepository using GORM
type GormPaymentChannelRepository struct {
	db *gorm.DB
}

// NewGormPaymentChannelRepository creates a new GormPaymentChannelRepository
func NewGormPaymentChannelRepository(db *gorm.DB) *GormPaymentChannelRepository {
	return &GormPaymentChannelRepository{db: db}
}

// FindByOwner returns the owner's payment channel
func (r *GormPaymentChannelRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*leasing.PaymentChannel, error) {
	var model models.PaymentChannelModel
	if err := r.db.WithContext(ctx).First(&model, "owner_id = ?", ownerID).Error; err != nil {
		return nil, translateError("find payment channel", err)
	}
	return model.ToDomain(), nil
}

// Save upserts the owner's payment channel
func (r *GormPaymentChannelRepository) Save(ctx context.Context, channel *leasing.PaymentChannel) error {
	if err := r.db.WithContext(ctx).Save(models.PaymentChannelModelFromDomain(channel)).Error; err != nil {
		return translateError("save payment channel", err)
	}
	return nil
}

var _ leasing.PaymentChannelRepository = (*GormPaymentChannelRepository)(nil)
