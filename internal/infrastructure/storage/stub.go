package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/facturio/backend/internal/application/billing"
)

// Ensure StubArtifactStorage implements ArtifactStorage
var _ appbilling.ArtifactStorage = (*StubArtifactStorage)(nil)

// StubArtifactStorage is an in-memory ArtifactStorage used when no S3
// backend is configured, and in tests
type StubArtifactStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubArtifactStorage creates a new in-memory artifact storage
func NewStubArtifactStorage() *StubArtifactStorage {
	return &StubArtifactStorage{
		objects: make(map[string][]byte),
	}
}

// Upload stores data in memory
func (s *StubArtifactStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return fmt.Errorf("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// GenerateDownloadURL returns a fake local URL for the stored object
func (s *StubArtifactStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, fmt.Errorf("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, fmt.Errorf("object %s not found", storageKey)
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return "stub://" + storageKey, time.Now().Add(expiresIn), nil
}

// DeleteObject removes an object from memory
func (s *StubArtifactStorage) DeleteObject(ctx context.Context, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists checks if an object exists in memory
func (s *StubArtifactStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// GetObject returns a stored object, for test assertions
func (s *StubArtifactStorage) GetObject(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
