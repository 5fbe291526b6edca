package records

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnregistered is returned when no spec is registered for a resource
var ErrUnregistered = errors.New("no column spec registered")

// Registry maps resource names to their column specs
type Registry struct {
	mu    sync.RWMutex
	specs map[string]ColumnSpec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]ColumnSpec)}
}

// Register adds a spec. Registering the same resource twice is an error.
func (r *Registry) Register(spec ColumnSpec) error {
	if spec.Resource == "" {
		return fmt.Errorf("column spec has no resource name")
	}
	if len(spec.Columns) == 0 {
		return fmt.Errorf("column spec %s has no columns", spec.Resource)
	}

	seen := make(map[string]struct{}, len(spec.Columns))
	for _, column := range spec.Columns {
		if _, dup := seen[column]; dup {
			return fmt.Errorf("column spec %s repeats column %q", spec.Resource, column)
		}
		seen[column] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.Resource]; exists {
		return fmt.Errorf("column spec %s already registered", spec.Resource)
	}
	r.specs[spec.Resource] = spec
	return nil
}

// Lookup returns the spec registered for resource
func (r *Registry) Lookup(resource string) (ColumnSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[resource]
	return spec, ok
}

// MustLookup is Lookup that panics on an unknown resource
func (r *Registry) MustLookup(resource string) ColumnSpec {
	spec, ok := r.Lookup(resource)
	if !ok {
		panic(fmt.Sprintf("no column spec registered for %s", resource))
	}
	return spec
}

// Names lists the registered resources in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
