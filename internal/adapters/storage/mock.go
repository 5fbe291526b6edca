package storage

import (
	"context"
	"sync"
)

// MockFileStorage is an in-memory implementation of FileStorage for
// tests and local runs without a filesystem
type MockFileStorage struct {
	mu    sync.RWMutex
	files map[string]mockFile

	// FailStore, when set, is returned by the next Store calls
	FailStore error
}

type mockFile struct {
	data        []byte
	contentType string
}

// NewMockFileStorage creates a new MockFileStorage instance
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		files: make(map[string]mockFile),
	}
}

// Store implements FileStorage.Store
func (m *MockFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailStore != nil {
		return m.FailStore
	}

	contentType := ContentTypeFor(key)
	if opts != nil && opts.ContentType != "" {
		contentType = opts.ContentType
	}

	m.files[key] = mockFile{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (m *MockFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
	}
	return append([]byte(nil), file.data...), nil
}

// Delete implements FileStorage.Delete
func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; !ok {
		return NewStorageError("Delete", key, ErrFileNotFound, false)
	}
	delete(m.files, key)
	return nil
}

// Exists implements FileStorage.Exists
func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[key]
	return ok, nil
}

// Close implements FileStorage.Close
func (m *MockFileStorage) Close() error {
	return nil
}

// ContentType returns the content type recorded for key
func (m *MockFileStorage) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[key].contentType
}

// FileCount returns the number of stored files
func (m *MockFileStorage) FileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
