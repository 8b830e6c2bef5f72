package persistence

import (
	"testing"

	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	database, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite})
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, AutoMigrate(database.DB))
	for _, m := range models.All() {
		assert.True(t, database.DB.Migrator().HasTable(m), "missing table for %T", m)
	}

	assert.NoError(t, database.Ping())

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		db := &Database{DB: gormDB}

		assert.NoError(t, db.Ping())
	})

	t.Run("closed connection", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		db := &Database{DB: gormDB}

		_ = mockDB.Close()
		assert.Error(t, db.Ping())
	})
}

func TestDatabase_Close(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	db := &Database{DB: gormDB}

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
