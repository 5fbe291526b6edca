// Package sqlstore implements the resource repository on top of an SQL engine.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"marketplace-api/internal/engine"
	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories"
)

// Store is an engine-backed repositories.Repository for one resource
type Store[T any] struct {
	engine   engine.Engine
	resource *repositories.Resource
	spec     records.ColumnSpec
	mapper   repositories.Mapper[T]
	logger   *logrus.Logger
	now      func() time.Time
}

var _ repositories.Repository[struct{}] = (*Store[struct{}])(nil)

// New creates a store for res, projecting rows with the spec registered in reg.
// The resource definition is validated once here.
func New[T any](eng engine.Engine, reg *records.Registry, res *repositories.Resource, mapper repositories.Mapper[T], logger *logrus.Logger) (*Store[T], error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	spec, err := res.RegisteredSpec(reg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Store[T]{
		engine:   eng,
		resource: res,
		spec:     spec,
		mapper:   mapper,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Get retrieves a record by its ID
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := repositories.ValidateID("get", s.resource.Name, id); err != nil {
		return nil, err
	}

	stmt := engine.Statement{
		SQL:    s.resource.SelectSQL() + " WHERE " + s.resource.ColumnExpr(repositories.IDColumn) + " = :id",
		Params: []types.SqlParameter{s.param(repositories.IDColumn, "id", id)},
	}

	items, err := s.query(ctx, "get", id, stmt)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repositories.NotFoundError(s.resource.Name, id)
	}
	return items[0], nil
}

// GetAll retrieves every record ordered by creation time. Records created in
// the same millisecond are ordered by id.
func (s *Store[T]) GetAll(ctx context.Context) ([]*T, error) {
	stmt := engine.Statement{SQL: s.resource.SelectSQL() + s.orderBy()}
	return s.query(ctx, "list", "", stmt)
}

// FindBy retrieves the records whose column equals value
func (s *Store[T]) FindBy(ctx context.Context, column string, value any) ([]*T, error) {
	col, ok := s.resource.Column(column)
	if !ok {
		return nil, repositories.PayloadError("find", s.resource.Name, fmt.Sprintf("unknown column %q", column))
	}
	if col.Hint == types.TypeHintUuid {
		str, isString := value.(string)
		if _, err := uuid.Parse(str); !isString || err != nil {
			return nil, repositories.InvalidIDError("find", s.resource.Name, fmt.Sprint(value))
		}
	}

	stmt := engine.Statement{
		SQL:    s.resource.SelectSQL() + " WHERE " + s.resource.ColumnExpr(column) + " = :value" + s.orderBy(),
		Params: []types.SqlParameter{s.param(column, "value", value)},
	}
	return s.query(ctx, "find", "", stmt)
}

// Create inserts a new record and returns it re-read by id
func (s *Store[T]) Create(ctx context.Context, data repositories.Payload, opts ...repositories.CreateOption) (*T, error) {
	o := repositories.ApplyCreateOptions(opts...)

	payload, err := repositories.ValidateCreatePayload(s.resource, data, o.Identity)
	if err != nil {
		return nil, err
	}

	id := o.ID
	if id == "" {
		id = repositories.NewID()
	}
	if err := repositories.ValidateID("create", s.resource.Name, id); err != nil {
		return nil, err
	}

	values := map[string]any{
		repositories.IDColumn:      id,
		repositories.CreatedColumn: s.now().UTC(),
	}

	if s.resource.OwnerColumn != "" {
		if o.Identity == nil || o.Identity.IsZero() {
			return nil, repositories.PayloadError("create", s.resource.Name, "an identity is required")
		}
		values[s.resource.OwnerColumn] = o.Identity.Subject
	}

	for key, value := range payload {
		if col, ok := s.resource.Column(key); ok && col.Writable {
			values[key] = value
		}
	}

	for key, value := range o.Columns {
		col, ok := s.resource.Column(key)
		if !ok || col.Join != nil {
			return nil, repositories.PayloadError("create", s.resource.Name, fmt.Sprintf("unknown column %q", key))
		}
		values[key] = value
	}

	columns := sortedKeys(values)
	placeholders := make([]string, len(columns))
	params := make([]types.SqlParameter, len(columns))
	for i, c := range columns {
		placeholders[i] = ":" + c
		params[i] = s.param(c, c, values[c])
	}

	stmt := engine.Statement{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			s.resource.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
		Params: params,
	}

	if _, err := s.execute(ctx, "create", id, stmt); err != nil {
		if errors.Is(err, engine.ErrUniqueViolation) {
			owner := ""
			if o.Identity != nil {
				owner = o.Identity.Subject
			}
			return nil, repositories.DuplicateAssociationError(s.resource.Name, owner)
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Update applies a partial update and returns the full record
func (s *Store[T]) Update(ctx context.Context, id string, data repositories.Payload) (*T, error) {
	if err := repositories.ValidateID("update", s.resource.Name, id); err != nil {
		return nil, err
	}
	if err := repositories.ValidateUpdatePayload(s.resource, data); err != nil {
		return nil, err
	}

	columns := sortedKeys(data)
	assignments := make([]string, len(columns))
	params := make([]types.SqlParameter, 0, len(columns)+1)
	for i, c := range columns {
		assignments[i] = c + " = :" + c
		params = append(params, s.param(c, c, data[c]))
	}
	params = append(params, s.param(repositories.IDColumn, "id", id))

	stmt := engine.Statement{
		SQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = :id",
			s.resource.Table, strings.Join(assignments, ", "), repositories.IDColumn),
		Params: params,
	}

	res, err := s.execute(ctx, "update", id, stmt)
	if err != nil {
		return nil, err
	}
	if res.RecordsUpdated == 0 {
		return nil, repositories.NotFoundError(s.resource.Name, id)
	}

	return s.Get(ctx, id)
}

// Delete deletes a record by its ID
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	if err := repositories.ValidateID("delete", s.resource.Name, id); err != nil {
		return false, err
	}

	stmt := engine.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s = :id", s.resource.Table, repositories.IDColumn),
		Params: []types.SqlParameter{s.param(repositories.IDColumn, "id", id)},
	}

	res, err := s.execute(ctx, "delete", id, stmt)
	if err != nil {
		return false, err
	}
	return res.RecordsUpdated > 0, nil
}

func (s *Store[T]) orderBy() string {
	return " ORDER BY " + s.resource.ColumnExpr(repositories.CreatedColumn) + ", " + s.resource.ColumnExpr(repositories.IDColumn)
}

// param builds a named parameter carrying the column's type hint
func (s *Store[T]) param(column, name string, value any) types.SqlParameter {
	col, _ := s.resource.Column(column)
	return engine.HintedParam(name, value, col.Hint)
}

func (s *Store[T]) query(ctx context.Context, op, id string, stmt engine.Statement) ([]*T, error) {
	res, err := s.execute(ctx, op, id, stmt)
	if err != nil {
		return nil, err
	}

	items, err := s.hydrate(res.Records)
	if err != nil {
		return nil, repositories.NewRepositoryError(op, s.resource.Name, id, err)
	}
	return items, nil
}

// hydrate runs rows through the formatter, the projector and the mapper
func (s *Store[T]) hydrate(rows [][]types.Field) ([]*T, error) {
	formatted, err := records.FormatRecords(rows)
	if err != nil {
		return nil, err
	}

	docs, err := records.ProjectAll(s.spec, formatted)
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(docs))
	for _, doc := range docs {
		item, err := s.mapper(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// logQuery logs a statement with its execution time
func (s *Store[T]) logQuery(op string, stmt engine.Statement, duration time.Duration, err error) {
	names := make([]string, len(stmt.Params))
	for i, p := range stmt.Params {
		names[i] = aws.ToString(p.Name)
	}

	fields := logrus.Fields{
		"operation": op,
		"table":     s.resource.Table,
		"query":     stmt.SQL,
		"params":    names,
		"duration":  duration,
	}

	switch {
	case err == nil:
		s.logger.WithFields(fields).Debug("Query executed")
	case errors.Is(err, engine.ErrUniqueViolation):
		// surfaced to the caller as a duplicate association
		fields["error"] = err.Error()
		s.logger.WithFields(fields).Debug("Query rejected by unique constraint")
	default:
		fields["error"] = err.Error()
		s.logger.WithFields(fields).Error("Query failed")
	}
}

// execute runs a statement and logs the result
func (s *Store[T]) execute(ctx context.Context, op, id string, stmt engine.Statement) (*engine.Result, error) {
	start := time.Now()
	res, err := s.engine.Execute(ctx, stmt)
	s.logQuery(op, stmt, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(op, s.resource.Name, id, err)
	}
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
