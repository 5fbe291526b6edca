package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Engine drivers
const (
	DriverDataAPI  = "dataapi"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository backends
const (
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Repository  RepositoryConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	AWSRegion   string
	JWT         JWTConfig
	RateLimit   RateLimitConfig
}

// RepositoryConfig selects the repository implementation
type RepositoryConfig struct {
	Backend string // "sql" or "memory"
}

// DatabaseConfig holds engine configuration
type DatabaseConfig struct {
	Driver          string // "dataapi", "sqlite" or "postgres"
	ResourceARN     string
	SecretARN       string
	Name            string
	DSN             string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	Type      string // "local", "s3" or "mock"
	LocalPath string
	S3Bucket  string
	S3Region  string
	// S3Endpoint points the client at an S3-compatible service such as MinIO
	S3Endpoint string
}

// JWTConfig holds JWT configuration for the dev server
type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours int
}

// RateLimitConfig holds dev server rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REPOSITORY_BACKEND", BackendSQL)
	v.SetDefault("ENGINE_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "./data/marketplace.db")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_LOCAL_PATH", "./data/files")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("JWT_ISSUER", "marketplace-api")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Repository: RepositoryConfig{
			Backend: strings.ToLower(v.GetString("REPOSITORY_BACKEND")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("ENGINE_DRIVER")),
			ResourceARN:     v.GetString("DB_RESOURCE_ARN"),
			SecretARN:       v.GetString("DB_SECRET_ARN"),
			Name:            v.GetString("DB_NAME"),
			DSN:             v.GetString("DB_DSN"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Storage: StorageConfig{
			Type:       strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalPath:  v.GetString("STORAGE_LOCAL_PATH"),
			S3Bucket:   v.GetString("S3_BUCKET"),
			S3Region:   v.GetString("S3_REGION"),
			S3Endpoint: v.GetString("S3_ENDPOINT"),
		},
		AWSRegion: v.GetString("AWS_REGION"),
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			Issuer:      v.GetString("JWT_ISSUER"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = cfg.AWSRegion
	}

	return cfg, nil
}

// IsProduction reports whether the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger. JSON output is used in Lambda and production.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if IsServerlessMode() || c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// NewFallbackLogger builds a logger straight from the environment. It is used
// where the full configuration could not be loaded or the container failed to build.
func NewFallbackLogger() *logrus.Logger {
	cfg := &Config{
		Environment: os.Getenv("ENVIRONMENT"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}
	return cfg.NewLogger()
}
