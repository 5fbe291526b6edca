package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/database"
)

func main() {
	var (
		driver  = flag.String("driver", database.DriverSQLite, "Database driver: sqlite3 or postgres")
		dsn     = flag.String("dsn", "./data/marketplace.db", "Database file path or connection string")
		action  = flag.String("action", "up", "Migration action: up, down, version")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithFields(logrus.Fields{
		"driver": *driver,
		"action": *action,
	}).Info("Starting migration tool")

	manager := database.NewManager(database.DefaultConnectionConfig(*driver, *dsn), false, logger)
	if err := manager.Connect(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer manager.Close()

	migrations, err := manager.Migrations()
	if err != nil {
		logger.WithError(err).Fatal("Failed to open migrations")
	}

	switch *action {
	case "up":
		err = migrations.RunMigrations()
	case "down":
		err = migrations.RollbackMigration()
	case "version":
		err = showVersion(migrations)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, version")
	}
	if err != nil {
		logger.WithError(err).Fatalf("Migration %s failed", *action)
	}

	logger.Info("Migration tool completed successfully")
}

func showVersion(m *database.MigrationManager) error {
	status, err := m.GetMigrationStatus()
	if err != nil {
		return err
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	return nil
}
