package repositories

import (
	"context"

	"marketplace-api/internal/auth"
)

// Payload is a decoded JSON request body
type Payload map[string]any

// Repository is the CRUD contract every resource store implements
type Repository[T any] interface {
	// Get returns exactly one record by primary key
	Get(ctx context.Context, id string) (*T, error)

	// GetAll returns every record ordered by creation time
	GetAll(ctx context.Context) ([]*T, error)

	// FindBy returns the records whose column equals value. An empty
	// result is not an error.
	FindBy(ctx context.Context, column string, value any) ([]*T, error)

	// Create validates data, inserts a new record and returns it hydrated
	Create(ctx context.Context, data Payload, opts ...CreateOption) (*T, error)

	// Update applies a partial update and returns the full record
	Update(ctx context.Context, id string, data Payload) (*T, error)

	// Delete reports whether a record was removed
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateOption customizes a single Create call
type CreateOption func(*CreateOptions)

// CreateOptions is the resolved set of create options
type CreateOptions struct {
	Identity *auth.Identity
	ID       string
	Columns  map[string]any
}

// WithIdentity supplies the caller identity used for the owner column and override key
func WithIdentity(id auth.Identity) CreateOption {
	return func(o *CreateOptions) {
		o.Identity = &id
	}
}

// WithID supplies the primary key instead of generating one
func WithID(id string) CreateOption {
	return func(o *CreateOptions) {
		o.ID = id
	}
}

// WithColumn sets a server-side column that is not part of the payload
func WithColumn(name string, value any) CreateOption {
	return func(o *CreateOptions) {
		if o.Columns == nil {
			o.Columns = make(map[string]any)
		}
		o.Columns[name] = value
	}
}

// ApplyCreateOptions resolves opts
func ApplyCreateOptions(opts ...CreateOption) CreateOptions {
	var o CreateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
