package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hirepurchase/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add receipts table", "add_receipts_table"},
		{"Add-Receipts-Table", "add_receipts_table"},
		{"ADD__RECEIPTS", "add_receipts"},
		{"index 2 due dates", "index_2_due_dates"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add receipt index", "Index receipts by paid_at", at)
	require.NoError(t, err)
	assert.Equal(t, "20250301093000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20250301093000_add_receipt_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20250301093000_add_receipt_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add receipt index\n")
	assert.Contains(t, string(up), "-- Description: Index receipts by paid_at")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := createMigrationAt(dir, "add receipt index", "", at)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := createMigrationAt(dir, "!!!", "", at)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20250302000000_b.up.sql":   {Data: []byte("--")},
		"20250302000000_b.down.sql": {Data: []byte("--")},
		"20250301000000_a.up.sql":   {Data: []byte("--")},
		"20250301000000_a.down.sql": {Data: []byte("--")},
		"README.md":                 {Data: []byte("docs")},
		"nested.up.sql/x":           {Data: []byte("--")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250301000000_a", "20250302000000_b"}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListMigrations_Embedded(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "20250301090000_create_leasing_schema", names[0])
}
