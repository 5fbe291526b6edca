package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/adapters/storage"
	"marketplace-api/internal/config"
	"marketplace-api/internal/database"
	"marketplace-api/internal/engine"
	"marketplace-api/internal/models"
	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories/memory"
	"marketplace-api/internal/repositories/sqlstore"
	"marketplace-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *logrus.Logger
	Registry       *records.Registry
	BrandService   services.BrandService
	ProductService services.ProductService

	// Internal dependencies
	engine  engine.Engine
	manager *database.Manager
	files   storage.FileStorage
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = cfg.NewLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry, err := models.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}
	c := &Container{Config: cfg, Logger: logger, Registry: registry}

	repos, err := c.buildRepositories(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	files, err := storage.NewFactory(storage.DefaultRetryConfig(), logger).Create(ctx, &storage.StorageConfig{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.LocalPath,
		Bucket:   cfg.Storage.S3Bucket,
		Region:   cfg.Storage.S3Region,
		Endpoint: cfg.Storage.S3Endpoint,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create file storage: %w", err)
	}
	c.files = files

	svc, err := services.NewServiceContainer(repos, files, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}
	c.BrandService = svc.BrandService
	c.ProductService = svc.ProductService

	logger.WithFields(logrus.Fields{
		"backend":   cfg.Repository.Backend,
		"driver":    cfg.Database.Driver,
		"storage":   cfg.Storage.Type,
		"resources": c.Registry.Names(),
	}).Info("Container initialized")

	return c, nil
}

func (c *Container) buildRepositories(ctx context.Context) (*services.Repositories, error) {
	if c.Config.Repository.Backend == config.BackendMemory {
		db := memory.NewDB()
		brands, err := memory.New[models.Brand](db, c.Registry, models.BrandResource(), models.BrandFromDocument, c.Logger)
		if err != nil {
			return nil, err
		}
		products, err := memory.New[models.Product](db, c.Registry, models.ProductResource(), models.ProductFromDocument, c.Logger)
		if err != nil {
			return nil, err
		}
		return &services.Repositories{Brands: brands, Products: products}, nil
	}

	eng, err := c.buildEngine(ctx)
	if err != nil {
		return nil, err
	}
	c.engine = eng

	brands, err := sqlstore.New[models.Brand](eng, c.Registry, models.BrandResource(), models.BrandFromDocument, c.Logger)
	if err != nil {
		return nil, err
	}
	products, err := sqlstore.New[models.Product](eng, c.Registry, models.ProductResource(), models.ProductFromDocument, c.Logger)
	if err != nil {
		return nil, err
	}
	return &services.Repositories{Brands: brands, Products: products}, nil
}

func (c *Container) buildEngine(ctx context.Context) (engine.Engine, error) {
	db := c.Config.Database

	switch db.Driver {
	case config.DriverDataAPI:
		apiCfg := engine.DataAPIConfig{
			ResourceARN: db.ResourceARN,
			SecretARN:   db.SecretARN,
			Database:    db.Name,
			Region:      c.Config.AWSRegion,
		}
		client, err := engine.NewDataAPIClient(ctx, apiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create data api client: %w", err)
		}
		return engine.NewDataAPIEngine(client, apiCfg, c.Logger), nil

	case config.DriverSQLite, config.DriverPostgres:
		driver := database.DriverPostgres
		if db.Driver == config.DriverSQLite {
			driver = database.DriverSQLite
		}

		connCfg := database.DefaultConnectionConfig(driver, db.DSN)
		if driver == database.DriverPostgres {
			connCfg.MaxOpenConns = db.MaxOpenConns
			connCfg.MaxIdleConns = db.MaxIdleConns
		}
		if db.ConnMaxLifetime > 0 {
			connCfg.ConnMaxLifetime = db.ConnMaxLifetime
		}

		c.manager = database.NewManager(connCfg, db.AutoMigrate, c.Logger)
		if err := c.manager.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		return engine.NewSQLEngine(c.manager.GetDB(), engine.StyleForDriver(driver), c.Logger), nil

	default:
		return nil, fmt.Errorf("unsupported engine driver: %s", db.Driver)
	}
}

// Ping checks the engine. The memory backend is always healthy.
func (c *Container) Ping(ctx context.Context) error {
	if c.engine == nil {
		return nil
	}
	return c.engine.Ping(ctx)
}

// Close cleans up all resources
func (c *Container) Close() error {
	var errs []error

	if c.files != nil {
		if err := c.files.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close file storage: %w", err))
		}
	}
	// The manager owns the *sql.DB behind a SQL engine
	if c.engine != nil && c.manager == nil {
		if err := c.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close engine: %w", err))
		}
	}
	if c.manager != nil {
		if err := c.manager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
