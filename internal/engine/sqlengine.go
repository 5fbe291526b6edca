package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLEngine runs statements on a database/sql handle and returns
// rows in the same wire shape as the Data API
type SQLEngine struct {
	db     *sql.DB
	style  PlaceholderStyle
	logger *logrus.Logger
}

// NewSQLEngine wraps db. style must match the driver behind db.
func NewSQLEngine(db *sql.DB, style PlaceholderStyle, logger *logrus.Logger) *SQLEngine {
	if logger == nil {
		logger = logrus.New()
	}
	return &SQLEngine{db: db, style: style, logger: logger}
}

// StyleForDriver returns the placeholder style for a database/sql driver name
func StyleForDriver(driver string) PlaceholderStyle {
	switch driver {
	case "postgres", "pgx":
		return DollarPlaceholders
	default:
		return QuestionPlaceholders
	}
}

// Execute implements Engine
func (e *SQLEngine) Execute(ctx context.Context, stmt Statement) (*Result, error) {
	query, args, err := bindNamed(stmt.SQL, stmt.Params, e.style)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		e.logger.WithFields(logrus.Fields{
			"engine":   "sql",
			"duration": time.Since(start),
		}).Debug("Statement executed")
	}()

	if !returnsRows(query) {
		res, err := e.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, classify(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		return &Result{Records: [][]types.Field{}, RecordsUpdated: affected}, nil
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	records := [][]types.Field{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		record := make([]types.Field, len(values))
		for i, v := range values {
			record[i] = scannedField(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return &Result{Records: records}, nil
}

// Ping implements Engine
func (e *SQLEngine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close implements Engine
func (e *SQLEngine) Close() error {
	return e.db.Close()
}

// DB exposes the underlying handle for migrations
func (e *SQLEngine) DB() *sql.DB {
	return e.db
}

func returnsRows(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(head, "SELECT") ||
		strings.HasPrefix(head, "WITH") ||
		strings.Contains(head, " RETURNING ")
}

// scannedField maps a driver value onto the Data API field union. Text
// comes back from some drivers as []byte; it is treated as a string.
func scannedField(v any) types.Field {
	switch val := v.(type) {
	case nil:
		return &types.FieldMemberIsNull{Value: true}
	case []byte:
		return &types.FieldMemberStringValue{Value: string(val)}
	default:
		return FieldOf(val)
	}
}

func classify(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}

	return err
}
