package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// StorageType represents the type of storage implementation
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMock  StorageType = "mock"
)

// Factory creates FileStorage instances based on configuration
type Factory struct {
	retryConfig *RetryConfig
	logger      *logrus.Logger
}

// NewFactory creates a new storage factory. A nil retryConfig disables retries.
func NewFactory(retryConfig *RetryConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// Create creates a FileStorage instance based on the provided configuration
func (f *Factory) Create(ctx context.Context, config *StorageConfig) (FileStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	var (
		storage FileStorage
		err     error
	)

	switch StorageType(strings.ToLower(config.Type)) {
	case StorageTypeLocal:
		storage, err = f.createLocalStorage(config)
	case StorageTypeS3:
		storage, err = f.createS3Storage(ctx, config)
	case StorageTypeMock:
		storage = NewMockFileStorage()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", config.Type, err)
	}

	f.logger.WithField("type", config.Type).Info("Storage initialized")

	if f.retryConfig != nil {
		storage = NewRetryableFileStorage(storage, f.retryConfig, f.logger)
	}

	return storage, nil
}

func (f *Factory) createLocalStorage(config *StorageConfig) (FileStorage, error) {
	basePath := config.BasePath
	if basePath == "" {
		basePath = "./storage"
	}
	return NewLocalFileStorage(basePath)
}

func (f *Factory) createS3Storage(ctx context.Context, config *StorageConfig) (FileStorage, error) {
	client, err := NewS3Client(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewS3FileStorage(client, config.Bucket)
}
