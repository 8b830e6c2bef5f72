package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"

	appleasing "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MemoryObjectStorage keeps objects in process memory. It backs the "stub"
// storage provider for local development; objects are lost on restart.
type MemoryObjectStorage struct {
	// BaseURL prefixes the URLs returned by PresignGet
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/stub-storage"
	}
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]memoryObject)}
}

// Put stores body under key
func (s *MemoryObjectStorage) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{contentType: contentType, data: data}
	return nil
}

// Delete removes key
func (s *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// PresignGet returns BaseURL/key; the URL is not signed
func (s *MemoryObjectStorage) PresignGet(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	return s.BaseURL + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

// Get returns a stored object and its content type
func (s *MemoryObjectStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ appleasing.ObjectStorage = (*MemoryObjectStorage)(nil)

// NewObjectStorage returns the storage selected by cfg.Provider
func NewObjectStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (appleasing.ObjectStorage, error) {
	switch cfg.Provider {
	case config.StorageProviderS3:
		s, err := NewS3ObjectStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageProviderStub, "":
		if logger != nil {
			logger.Warn("using in-memory object storage; uploads are not persisted")
		}
		return NewMemoryObjectStorage(cfg.Endpoint), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}
