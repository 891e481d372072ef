package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogapp "github.com/oilmart/backend/internal/application/catalog"
)

// StubObjectStorage is an in-process stand-in for a real object store.
// URLs it hands out are not usable; keys it has seen via MarkUploaded
// report as existing. Use it for local development and tests.
type StubObjectStorage struct {
	// BaseURL prefixes the generated URLs
	BaseURL string

	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.invalid",
		keys:    make(map[string]struct{}),
	}
}

var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// GenerateUploadURL generates a stub upload URL
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL generates a stub download URL
func (s *StubObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject forgets a key
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.keys, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether MarkUploaded has seen the key
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.keys[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

// MarkUploaded records a key as present, simulating a completed upload
func (s *StubObjectStorage) MarkUploaded(storageKey string) {
	s.mu.Lock()
	s.keys[storageKey] = struct{}{}
	s.mu.Unlock()
}
