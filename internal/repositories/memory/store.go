// Package memory implements the resource repository over in-process tables.
// It backs local development and tests that do not need an SQL engine.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/sirupsen/logrus"

	"marketplace-api/internal/engine"
	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories"
)

type row map[string]any

// DB holds every table. Stores sharing a DB can resolve joins against each other.
type DB struct {
	mu     sync.RWMutex
	tables map[string][]row
}

// NewDB creates an empty database
func NewDB() *DB {
	return &DB{tables: make(map[string][]row)}
}

// Store is an in-memory repositories.Repository for one resource
type Store[T any] struct {
	db       *DB
	resource *repositories.Resource
	spec     records.ColumnSpec
	mapper   repositories.Mapper[T]
	logger   *logrus.Logger
	now      func() time.Time
}

var _ repositories.Repository[struct{}] = (*Store[struct{}])(nil)

// New creates a store for res inside db. The projection spec comes from reg.
func New[T any](db *DB, reg *records.Registry, res *repositories.Resource, mapper repositories.Mapper[T], logger *logrus.Logger) (*Store[T], error) {
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
		db:       db,
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

	rendered := s.selectRows(func(r row) bool { return r[repositories.IDColumn] == id })
	if len(rendered) == 0 {
		return nil, repositories.NotFoundError(s.resource.Name, id)
	}

	items, err := s.hydrate("get", rendered[:1])
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// GetAll retrieves every record in creation order
func (s *Store[T]) GetAll(ctx context.Context) ([]*T, error) {
	return s.hydrate("list", s.selectRows(func(row) bool { return true }))
}

// FindBy retrieves the records whose column equals value
func (s *Store[T]) FindBy(ctx context.Context, column string, value any) ([]*T, error) {
	idx := -1
	for i, name := range s.spec.Columns {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repositories.PayloadError("find", s.resource.Name, fmt.Sprintf("unknown column %q", column))
	}
	if col, _ := s.resource.Column(column); col.Hint == types.TypeHintUuid {
		if str, ok := value.(string); !ok || repositories.ValidateID("find", s.resource.Name, str) != nil {
			return nil, repositories.InvalidIDError("find", s.resource.Name, fmt.Sprint(value))
		}
	}

	all := s.selectRows(func(row) bool { return true })
	matched := make([][]any, 0, len(all))
	for _, r := range all {
		if r[idx] == value {
			matched = append(matched, r)
		}
	}
	return s.hydrate("find", matched)
}

// Create inserts a new record and returns it
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

	r := row{
		repositories.IDColumn:      id,
		repositories.CreatedColumn: s.now().UTC().Format(engine.TimestampLayout),
	}
	for key, value := range payload {
		if col, ok := s.resource.Column(key); ok && col.Writable {
			r[key] = value
		}
	}
	for key, value := range o.Columns {
		col, ok := s.resource.Column(key)
		if !ok || col.Join != nil {
			return nil, repositories.PayloadError("create", s.resource.Name, fmt.Sprintf("unknown column %q", key))
		}
		r[key] = value
	}

	owner := ""
	if s.resource.OwnerColumn != "" {
		if o.Identity == nil || o.Identity.IsZero() {
			return nil, repositories.PayloadError("create", s.resource.Name, "an identity is required")
		}
		owner = o.Identity.Subject
		r[s.resource.OwnerColumn] = owner
	}

	s.db.mu.Lock()
	for _, existing := range s.db.tables[s.resource.Table] {
		if existing[repositories.IDColumn] == id ||
			(owner != "" && existing[s.resource.OwnerColumn] == owner) {
			s.db.mu.Unlock()
			s.logger.WithFields(logrus.Fields{
				"operation": "create",
				"table":     s.resource.Table,
			}).Debug("Unique constraint rejected insert")
			return nil, repositories.DuplicateAssociationError(s.resource.Name, owner)
		}
	}
	s.db.tables[s.resource.Table] = append(s.db.tables[s.resource.Table], r)
	s.db.mu.Unlock()

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

	s.db.mu.Lock()
	found := false
	for _, r := range s.db.tables[s.resource.Table] {
		if r[repositories.IDColumn] == id {
			for k, v := range data {
				r[k] = v
			}
			found = true
			break
		}
	}
	s.db.mu.Unlock()

	if !found {
		return nil, repositories.NotFoundError(s.resource.Name, id)
	}
	return s.Get(ctx, id)
}

// Delete deletes a record by its ID
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	if err := repositories.ValidateID("delete", s.resource.Name, id); err != nil {
		return false, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := s.db.tables[s.resource.Table]
	for i, r := range rows {
		if r[repositories.IDColumn] == id {
			s.db.tables[s.resource.Table] = append(rows[:i:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// selectRows renders matching rows positionally, resolving joins, the
// same shape an engine returns after formatting
func (s *Store[T]) selectRows(match func(row) bool) [][]any {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out [][]any
	for _, r := range s.db.tables[s.resource.Table] {
		if !match(r) {
			continue
		}
		rendered := make([]any, len(s.resource.Columns))
		for i, c := range s.resource.Columns {
			var v any
			if c.Join != nil {
				v = s.joined(c.Join, r[c.Join.LocalKey])
			} else {
				v = r[c.Name]
			}
			if v == nil {
				v = ""
			}
			rendered[i] = v
		}
		out = append(out, rendered)
	}
	return out
}

// joined must be called with the read lock held
func (s *Store[T]) joined(j *repositories.Join, key any) any {
	for _, r := range s.db.tables[j.Table] {
		if r[repositories.IDColumn] == key {
			return r[j.Column]
		}
	}
	return nil
}

func (s *Store[T]) hydrate(op string, rows [][]any) ([]*T, error) {
	docs, err := records.ProjectAll(s.spec, rows)
	if err != nil {
		return nil, repositories.NewRepositoryError(op, s.resource.Name, "", err)
	}

	items := make([]*T, 0, len(docs))
	for _, doc := range docs {
		item, err := s.mapper(doc)
		if err != nil {
			return nil, repositories.NewRepositoryError(op, s.resource.Name, "", err)
		}
		items = append(items, item)
	}
	return items, nil
}
