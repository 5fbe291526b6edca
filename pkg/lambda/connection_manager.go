package lambda

import (
	"context"
	"sync"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/pkg/server"
)

// ContainerFactory builds a container from configuration
type ContainerFactory func(ctx context.Context, cfg *config.Config) (*server.Container, error)

// ConnectionManager keeps one container per Lambda execution environment so
// warm invocations reuse the engine and storage clients
type ConnectionManager struct {
	container *server.Container
	lastUsed  time.Time
	mu        sync.RWMutex
	factory   ContainerFactory
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(defaultFactory)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager that builds containers with factory
func NewConnectionManager(factory ContainerFactory) *ConnectionManager {
	return &ConnectionManager{factory: factory}
}

func defaultFactory(ctx context.Context, cfg *config.Config) (*server.Container, error) {
	return server.NewContainer(ctx, cfg, nil)
}

// GetContainer returns the container, building it on first use. A failed
// build is retried on the next call.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.container != nil {
		container := cm.container
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return container, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		cm.lastUsed = time.Now()
		return cm.container, nil
	}

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, err
	}

	container, err := cm.factory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cm.container = container
	cm.lastUsed = time.Now()
	return container, nil
}

// IsHealthy reports whether a container is loaded and was used in the last five minutes
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup closes the container
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}
