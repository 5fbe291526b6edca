package storage

import (
	"context"
)

// StoreOptions provides options for storing files
type StoreOptions struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FileStorage stores product images by key. Local, S3 and in-memory
// implementations share it.
type FileStorage interface {
	// Store saves data under key, replacing any previous object
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve gets a file by its storage key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes a file by its storage key
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources used by the storage implementation
	Close() error
}

// StorageConfig represents configuration for storage providers
type StorageConfig struct {
	Type      string // "local", "s3" or "mock"
	BasePath  string // For local storage
	Bucket    string // For S3
	Region    string // For S3
	Endpoint  string // For S3-compatible services
	AccessKey string
	SecretKey string
}
