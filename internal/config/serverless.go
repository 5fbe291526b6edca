package config

import (
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// GetServerlessConfig returns the serverless configuration of the current process
func GetServerlessConfig() *ServerlessConfig {
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = "dev"
	}
	return &ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        stage,
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return isRunningInLambda()
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless forces the Data API engine and S3 storage inside
// Lambda. The function filesystem is ephemeral, so sqlite and local files
// would not survive between invocations.
func AdaptConfigForServerless(cfg *Config) *Config {
	if !IsServerlessMode() {
		return cfg
	}

	cfg.Repository.Backend = BackendSQL
	cfg.Database.Driver = DriverDataAPI
	cfg.Database.AutoMigrate = false
	cfg.Storage.Type = "s3"
	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = cfg.AWSRegion
	}

	return cfg
}

// GetOptimizedConfig returns configuration adapted to the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return AdaptConfigForServerless(cfg), nil
}
