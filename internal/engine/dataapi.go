package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/sirupsen/logrus"
)

// DataAPIClient is the subset of the RDS Data API client used by the engine
type DataAPIClient interface {
	ExecuteStatement(ctx context.Context, params *rdsdata.ExecuteStatementInput, optFns ...func(*rdsdata.Options)) (*rdsdata.ExecuteStatementOutput, error)
}

// DataAPIConfig identifies the cluster and secret the Data API runs statements against
type DataAPIConfig struct {
	ResourceARN string
	SecretARN   string
	Database    string
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
}

// DataAPIEngine runs statements through the RDS Data API proxy
type DataAPIEngine struct {
	client DataAPIClient
	config DataAPIConfig
	logger *logrus.Logger
}

// NewDataAPIEngine wraps an existing Data API client
func NewDataAPIEngine(client DataAPIClient, cfg DataAPIConfig, logger *logrus.Logger) *DataAPIEngine {
	if logger == nil {
		logger = logrus.New()
	}
	return &DataAPIEngine{client: client, config: cfg, logger: logger}
}

// NewDataAPIClient builds a Data API client from the default AWS configuration chain
func NewDataAPIClient(ctx context.Context, cfg DataAPIConfig) (*rdsdata.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*rdsdata.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *rdsdata.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return rdsdata.NewFromConfig(awsCfg, clientOpts...), nil
}

// Execute implements Engine
func (e *DataAPIEngine) Execute(ctx context.Context, stmt Statement) (*Result, error) {
	input := &rdsdata.ExecuteStatementInput{
		ResourceArn: aws.String(e.config.ResourceARN),
		SecretArn:   aws.String(e.config.SecretARN),
		Sql:         aws.String(stmt.SQL),
		Parameters:  stmt.Params,
	}
	if e.config.Database != "" {
		input.Database = aws.String(e.config.Database)
	}

	start := time.Now()
	out, err := e.client.ExecuteStatement(ctx, input)
	e.logger.WithFields(logrus.Fields{
		"engine":   "dataapi",
		"duration": time.Since(start),
	}).Debug("Statement sent")

	if err != nil {
		if isDataAPIUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		}
		return nil, fmt.Errorf("data api execute: %w", err)
	}

	return &Result{
		Records:        out.Records,
		RecordsUpdated: out.NumberOfRecordsUpdated,
	}, nil
}

// Ping implements Engine
func (e *DataAPIEngine) Ping(ctx context.Context) error {
	_, err := e.Execute(ctx, Statement{SQL: "SELECT 1"})
	return err
}

// Close implements Engine. The Data API client holds no connection.
func (e *DataAPIEngine) Close() error {
	return nil
}

func isDataAPIUniqueViolation(err error) bool {
	var badRequest *types.BadRequestException
	if !errors.As(err, &badRequest) {
		return false
	}
	msg := strings.ToLower(badRequest.ErrorMessage())
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}
