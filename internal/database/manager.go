package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager owns a database/sql connection and its schema
type Manager struct {
	mu          sync.RWMutex
	config      *ConnectionConfig
	autoMigrate bool
	logger      *logrus.Logger
	db          *sql.DB
}

// NewManager creates a new database manager. When autoMigrate is set,
// Connect applies pending migrations.
func NewManager(config *ConnectionConfig, autoMigrate bool, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	config.Logger = logger

	return &Manager{
		config:      config,
		autoMigrate: autoMigrate,
		logger:      logger,
	}
}

// Connect opens the database and brings the schema up to date
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return fmt.Errorf("database already connected")
	}

	m.logger.WithField("driver", m.config.Driver).Info("Connecting to database...")

	db, err := Open(ctx, m.config)
	if err != nil {
		return err
	}

	if m.autoMigrate {
		if err := NewMigrationManager(db, m.config.Driver, m.logger).RunMigrations(); err != nil {
			db.Close()
			return err
		}
	}

	m.db = db
	return nil
}

// GetDB returns the database connection, or nil before Connect
func (m *Manager) GetDB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// IsConnected returns true if the database is connected
func (m *Manager) IsConnected() bool {
	return m.GetDB() != nil
}

// Migrations returns a migration manager for the connected database
func (m *Manager) Migrations() (*MigrationManager, error) {
	db := m.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	return NewMigrationManager(db, m.config.Driver, m.logger), nil
}

// CheckHealth pings the database
func (m *Manager) CheckHealth(ctx context.Context) error {
	db := m.GetDB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// GetStats returns connection pool statistics
func (m *Manager) GetStats() sql.DBStats {
	db := m.GetDB()
	if db == nil {
		return sql.DBStats{}
	}
	return db.Stats()
}

// LogStats logs current connection pool statistics
func (m *Manager) LogStats() {
	stats := m.GetStats()
	m.logger.WithFields(logrus.Fields{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration":    stats.WaitDuration,
	}).Debug("Database connection pool statistics")
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}

	m.logger.Info("Disconnecting from database...")
	err := m.db.Close()
	m.db = nil
	if err != nil {
		return fmt.Errorf("failed to disconnect from database: %w", err)
	}
	return nil
}
