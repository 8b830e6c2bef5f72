package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("")
	assert.Equal(t, "http://localhost:8080/stub-storage", s.BaseURL)

	require.NoError(t, s.Put(ctx, "proofs/a.png", "image/png", strings.NewReader("png"), 3))
	data, contentType, ok := s.Get("proofs/a.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, 1, s.Len())

	url, err := s.PresignGet(ctx, "proofs/a b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/stub-storage/proofs/a%20b.png", url)

	require.NoError(t, s.Delete(ctx, "proofs/a.png"))
	_, _, ok = s.Get("proofs/a.png")
	assert.False(t, ok)
	require.NoError(t, s.Delete(ctx, "missing"))

	assert.Error(t, s.Put(ctx, "", "image/png", strings.NewReader(""), 0))
}

func TestNewObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("stub", func(t *testing.T) {
		s, err := NewObjectStorage(ctx, config.StorageConfig{Provider: config.StorageProviderStub}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &MemoryObjectStorage{}, s)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewObjectStorage(ctx, config.StorageConfig{Provider: "gcs"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gcs")
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := NewObjectStorage(ctx, config.StorageConfig{Provider: config.StorageProviderS3}, nil)
		assert.Error(t, err)
	})
}
