package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContractRepository implements leasing.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract without its installments
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the contract row with SELECT ... FOR UPDATE
func (r *GormContractRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormContractRepository) find(q *gorm.DB, id uuid.UUID) (*leasing.Contract, error) {
	var model models.ContractModel
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find contract", err)
	}
	return model.ToDomain(), nil
}

// FindByIDWithInstallments finds a contract with installments in schedule order
func (r *GormContractRepository) FindByIDWithInstallments(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	contract, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	installments, err := NewGormInstallmentRepository(r.db).FindByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.Installments = installments
	return contract, nil
}

// ExistsByNumber checks whether a contract number is taken
func (r *GormContractRepository) ExistsByNumber(ctx context.Context, contractNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("contract_number = ?", strings.TrimSpace(contractNumber)).
		Count(&count).Error
	if err != nil {
		return false, translateError("check contract number", err)
	}
	return count > 0, nil
}

// FindAll lists contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter leasing.ContractFilter) ([]leasing.Contract, error) {
	var rows []models.ContractModel
	q := paginate(r.applyFilter(ctx, filter), filter.Filter, "contracts", ContractSortFields, "created_at")
	if err := q.Select("contracts.*").Find(&rows).Error; err != nil {
		return nil, translateError("list contracts", err)
	}

	contracts := make([]leasing.Contract, len(rows))
	for i := range rows {
		contracts[i] = *rows[i].ToDomain()
	}
	return contracts, nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter leasing.ContractFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, translateError("count contracts", err)
	}
	return count, nil
}

func (r *GormContractRepository) applyFilter(ctx context.Context, filter leasing.ContractFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.ContractModel{})
	if filter.OwnerID != nil {
		q = q.Where("contracts.owner_id = ?", *filter.OwnerID)
	}
	if filter.CustomerID != nil {
		q = q.Where("contracts.customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("contracts.status = ?", string(*filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		q = q.Joins("JOIN customers ON customers.id = contracts.customer_id").
			Where("LOWER(contracts.contract_number) LIKE ?"+likeEscape+
				" OR LOWER(customers.name) LIKE ?"+likeEscape+
				" OR customers.id_card_number LIKE ?"+likeEscape,
				like, like, like)
	}
	return q
}

// Create inserts a contract and its installments. The database-assigned
// installment IDs are written back into contract.Installments.
func (r *GormContractRepository) Create(ctx context.Context, contract *leasing.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ContractModelFromDomain(contract)).Error; err != nil {
			return translateError("create contract", err)
		}
		if len(contract.Installments) == 0 {
			return nil
		}

		rows := make([]*models.InstallmentModel, len(contract.Installments))
		for i := range contract.Installments {
			contract.Installments[i].ContractID = contract.ID
			rows[i] = models.InstallmentModelFromDomain(&contract.Installments[i])
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return translateError("create installments", err)
		}
		for i, row := range rows {
			contract.Installments[i].ID = row.ID
		}
		return nil
	})
}

// Save updates the contract's mutable columns
func (r *GormContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	result := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("id = ?", contract.ID).
		Updates(map[string]any{
			"status":       string(contract.Status),
			"end_date":     contract.EndDate,
			"completed_at": contract.CompletedAt,
			"cancelled_at": contract.CancelledAt,
			"cancelled_by": contract.CancelledBy,
			"version":      contract.Version,
			"updated_at":   contract.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("save contract", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("save contract", gorm.ErrRecordNotFound)
	}
	return nil
}

var _ leasing.ContractRepository = (*GormContractRepository)(nil)
