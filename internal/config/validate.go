package config

import (
	"errors"
	"fmt"
)

// Validate checks that the configured combination can be built
func (c *Config) Validate() error {
	var errs []error

	switch c.Repository.Backend {
	case BackendMemory:
	case BackendSQL:
		errs = append(errs, c.Database.validate()...)
	default:
		errs = append(errs, fmt.Errorf("unsupported repository backend: %q", c.Repository.Backend))
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.LocalPath == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_PATH is required for local storage"))
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 storage"))
		}
	case "mock":
	default:
		errs = append(errs, fmt.Errorf("unsupported storage type: %q", c.Storage.Type))
	}

	if !IsServerlessMode() && c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required for the dev server"))
	}

	return errors.Join(errs...)
}

func (d DatabaseConfig) validate() []error {
	var errs []error
	switch d.Driver {
	case DriverDataAPI:
		if d.ResourceARN == "" {
			errs = append(errs, errors.New("DB_RESOURCE_ARN is required for the dataapi driver"))
		}
		if d.SecretARN == "" {
			errs = append(errs, errors.New("DB_SECRET_ARN is required for the dataapi driver"))
		}
		if d.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the dataapi driver"))
		}
	case DriverSQLite, DriverPostgres:
		if d.DSN == "" {
			errs = append(errs, fmt.Errorf("DB_DSN is required for the %s driver", d.Driver))
		}
		if d.MaxOpenConns < 1 {
			errs = append(errs, errors.New("max open connections must be at least 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported engine driver: %q", d.Driver))
	}
	return errs
}
