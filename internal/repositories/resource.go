package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/records"
)

// Columns every resource table carries
const (
	IDColumn      = "id"
	CreatedColumn = "created"
)

const baseAlias = "t"

// Join pulls a column from another table through a foreign key on the base table
type Join struct {
	Table    string // joined table
	LocalKey string // base-table column holding the joined table's id
	Column   string // column read from the joined table
}

// Column describes one selected column of a resource
type Column struct {
	Name      string
	Join      *Join
	Hint      types.TypeHint
	Writable  bool
	Updatable bool
}

// Resource is the declarative definition of a table-backed resource. The
// column spec used for projection and the SELECT list are both derived
// from Columns, in order.
type Resource struct {
	Name    string
	Table   string
	Columns []Column
	Nests   []records.Nest

	// CreateKeys is the exact key set a create payload must carry. Keys
	// that are not writable columns are consumed by the caller.
	CreateKeys []string

	// OverrideKey may be omitted from a create payload when OverrideValue
	// yields a non-empty value for the caller.
	OverrideKey   string
	OverrideValue func(auth.Identity) string

	// OwnerColumn is filled with the caller's subject and is unique per table
	OwnerColumn string
}

// Validate checks the definition for internal consistency
func (r *Resource) Validate() error {
	if r.Name == "" || r.Table == "" {
		return errors.New("resource requires a name and a table")
	}
	for _, required := range []string{IDColumn, CreatedColumn} {
		if _, ok := r.Column(required); !ok {
			return fmt.Errorf("resource %s: missing %s column", r.Name, required)
		}
	}
	for _, c := range r.Columns {
		if c.Join != nil && (c.Writable || c.Updatable) {
			return fmt.Errorf("resource %s: joined column %s cannot be written", r.Name, c.Name)
		}
	}
	if r.OwnerColumn != "" {
		if _, ok := r.Column(r.OwnerColumn); !ok {
			return fmt.Errorf("resource %s: unknown owner column %s", r.Name, r.OwnerColumn)
		}
	}
	if r.OverrideKey != "" && r.OverrideValue == nil {
		return fmt.Errorf("resource %s: override key %s has no value source", r.Name, r.OverrideKey)
	}
	return nil
}

// Column looks up a column definition by name
func (r *Resource) Column(name string) (Column, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in select order
func (r *Resource) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnSpec returns the projection spec matching SelectList
func (r *Resource) ColumnSpec() records.ColumnSpec {
	return records.ColumnSpec{
		Resource: r.Name,
		Columns:  r.ColumnNames(),
		Nests:    r.Nests,
	}
}

// RegisteredSpec resolves the projection spec for r from reg. The registered
// columns must line up with SelectList or rows would be projected under the wrong keys.
func (r *Resource) RegisteredSpec(reg *records.Registry) (records.ColumnSpec, error) {
	if reg == nil {
		return records.ColumnSpec{}, fmt.Errorf("resource %s: no column spec registry", r.Name)
	}
	spec, ok := reg.Lookup(r.Name)
	if !ok {
		return records.ColumnSpec{}, fmt.Errorf("resource %s: %w", r.Name, records.ErrUnregistered)
	}
	names := r.ColumnNames()
	if len(spec.Columns) != len(names) {
		return records.ColumnSpec{}, fmt.Errorf("resource %s: registered spec has %d columns, select list has %d",
			r.Name, len(spec.Columns), len(names))
	}
	for i, name := range names {
		if spec.Columns[i] != name {
			return records.ColumnSpec{}, fmt.Errorf("resource %s: registered column %d is %q, select list has %q",
				r.Name, i, spec.Columns[i], name)
		}
	}
	return spec, nil
}

// SelectList renders the SELECT expressions in column order
func (r *Resource) SelectList() string {
	exprs := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		expr := r.ColumnExpr(c.Name)
		if c.Join != nil {
			expr += " AS " + c.Name
		}
		exprs[i] = expr
	}
	return strings.Join(exprs, ", ")
}

// From renders the FROM clause including any joins
func (r *Resource) From() string {
	var b strings.Builder
	b.WriteString(r.Table + " " + baseAlias)
	for i, j := range r.joins() {
		alias := joinAlias(i)
		fmt.Fprintf(&b, " LEFT JOIN %s %s ON %s.%s = %s.%s", j.Table, alias, alias, IDColumn, baseAlias, j.LocalKey)
	}
	return b.String()
}

// SelectSQL is the base SELECT statement for the resource
func (r *Resource) SelectSQL() string {
	return "SELECT " + r.SelectList() + " FROM " + r.From()
}

// ColumnExpr returns the qualified expression for a column
func (r *Resource) ColumnExpr(name string) string {
	c, ok := r.Column(name)
	if !ok || c.Join == nil {
		return baseAlias + "." + name
	}
	for i, j := range r.joins() {
		if j.Table == c.Join.Table && j.LocalKey == c.Join.LocalKey {
			return joinAlias(i) + "." + c.Join.Column
		}
	}
	return baseAlias + "." + name
}

// joins returns the distinct joins in first-use order
func (r *Resource) joins() []Join {
	var out []Join
	for _, c := range r.Columns {
		if c.Join == nil {
			continue
		}
		seen := false
		for _, j := range out {
			if j.Table == c.Join.Table && j.LocalKey == c.Join.LocalKey {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, *c.Join)
		}
	}
	return out
}

func joinAlias(i int) string {
	return fmt.Sprintf("j%d", i+1)
}

// Mapper turns a projected document into a typed record
type Mapper[T any] func(records.Document) (*T, error)
