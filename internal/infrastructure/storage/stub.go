// Package storage provides object storage implementations for catalog images.
package storage

import (
	"context"
	"errors"
	"sync"

	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
)

// Ensure StubObjectStorage implements ObjectStorageService
var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage keeps objects in memory. It backs local development and
// tests where no S3-compatible endpoint is available.
type StubObjectStorage struct {
	// BaseURL is the base URL returned for stored objects
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload keeps the object in memory and returns its URL
func (s *StubObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return s.URL(key), nil
}

// Delete removes the object; deleting a missing key is not an error
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// URL builds the public URL for a stored object
func (s *StubObjectStorage) URL(key string) string {
	return s.BaseURL + "/" + key
}

// Contains reports whether the key was uploaded and not deleted
func (s *StubObjectStorage) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
