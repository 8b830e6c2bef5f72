package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements leasing.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find customer", err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the customer profile linked to a login account
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*leasing.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError("find customer by user", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists customers matching the filter. Search matches name, phone
// and ID card number.
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter leasing.CustomerFilter) ([]leasing.Customer, error) {
	var rows []models.CustomerModel
	if err := paginate(r.applyFilter(ctx, filter), filter.Filter, "customers", CustomerSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, translateError("list customers", err)
	}
	customers := make([]leasing.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter leasing.CustomerFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, translateError("count customers", err)
	}
	return count, nil
}

func (r *GormCustomerRepository) applyFilter(ctx context.Context, filter leasing.CustomerFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		q = q.Where("LOWER(name) LIKE ?"+likeEscape+" OR phone LIKE ?"+likeEscape+" OR id_card_number LIKE ?"+likeEscape,
			like, like, like)
	}
	return q
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *leasing.Customer) error {
	if err := r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error; err != nil {
		return translateError("save customer", err)
	}
	return nil
}

var _ leasing.CustomerRepository = (*GormCustomerRepository)(nil)
