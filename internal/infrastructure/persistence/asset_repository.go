package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements leasing.AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find asset", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter leasing.AssetFilter) ([]leasing.Asset, error) {
	var rows []models.AssetModel
	if err := paginate(r.applyFilter(ctx, filter), filter.Filter, "assets", AssetSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, translateError("list assets", err)
	}
	assets := make([]leasing.Asset, len(rows))
	for i := range rows {
		assets[i] = *rows[i].ToDomain()
	}
	return assets, nil
}

// Count counts assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter leasing.AssetFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, translateError("count assets", err)
	}
	return count, nil
}

func (r *GormAssetRepository) applyFilter(ctx context.Context, filter leasing.AssetFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.AssetModel{})
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("LOWER(name) LIKE ?"+likeEscape, containsPattern(search))
	}
	return q
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *leasing.Asset) error {
	if err := r.db.WithContext(ctx).Save(models.AssetModelFromDomain(asset)).Error; err != nil {
		return translateError("save asset", err)
	}
	return nil
}

var _ leasing.AssetRepository = (*GormAssetRepository)(nil)
