package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	contractPrice = decimal.NewFromInt(1000)
	contractStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
)

// newTestDB opens a migrated in-memory sqlite database
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(database.DB))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

// newMockDB opens GORM with the postgres dialector on top of sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

// fixture is an owner with one customer and one asset already stored
type fixture struct {
	ownerID  uuid.UUID
	customer *leasing.Customer
	asset    *leasing.Asset
}

func seedFixture(t *testing.T, db *gorm.DB, customerName string) fixture {
	t.Helper()
	ctx := context.Background()
	ownerID := uuid.New()

	customer, err := leasing.NewCustomer(ownerID, customerName, "1101700000001")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, customer))

	asset, err := leasing.NewAsset(ownerID, "Kubota L5018", "tractor", decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.NoError(t, NewGormAssetRepository(db).Save(ctx, asset))

	return fixture{ownerID: ownerID, customer: customer, asset: asset}
}

// seedContract stores a zero-interest contract of months installments of
// 1000 each, starting 2024-01-15
func seedContract(t *testing.T, db *gorm.DB, f fixture, number string, months int) *leasing.Contract {
	t.Helper()
	schedule, err := leasing.ComputeSchedule(leasing.ScheduleTerms{
		TotalPrice:   decimal.NewFromInt(int64(1000 * months)),
		DownPayment:  decimal.Zero,
		InterestRate: decimal.Zero,
		Months:       months,
		StartDate:    contractStart,
		ContractType: leasing.ContractTypeInstallment,
	})
	require.NoError(t, err)
	contract, err := leasing.NewContract(f.ownerID, leasing.NewContractParams{
		CustomerID:     f.customer.ID,
		AssetID:        f.asset.ID,
		ContractNumber: number,
	}, schedule)
	require.NoError(t, err)
	require.NoError(t, NewGormContractRepository(db).Create(context.Background(), contract))
	return contract
}
