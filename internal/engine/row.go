package engine

import (
	"fmt"
	"sort"
	"strings"

	"reldb/internal/schema"
)

// Row is an immutable ordered mapping of column name to value. Every
// mutating operation returns a new Row; the receiver is never touched,
// so rows handed out by a Table stay stable across later mutations.
type Row struct {
	names []string
	vals  map[string]schema.Value
}

// NewRow builds a row whose column order follows names. Names without
// an entry in vals are stored as NULL.
func NewRow(names []string, vals map[string]schema.Value) *Row {
	r := &Row{
		names: make([]string, len(names)),
		vals:  make(map[string]schema.Value, len(names)),
	}
	copy(r.names, names)
	for _, name := range names {
		r.vals[name] = vals[name]
	}
	return r
}

// Get returns the value for a column and whether the column is present.
func (r *Row) Get(name string) (schema.Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Value returns the value for a column, NULL if absent.
func (r *Row) Value(name string) schema.Value {
	return r.vals[name]
}

// Has reports whether the row carries the column.
func (r *Row) Has(name string) bool {
	_, ok := r.vals[name]
	return ok
}

// Columns returns the column names in row order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Row) Len() int { return len(r.names) }

// ToMap copies the row into a plain map.
func (r *Row) ToMap() map[string]schema.Value {
	out := make(map[string]schema.Value, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return out
}

// WithValue returns a new row with one column upserted. A new column is
// appended at the end of the column order.
func (r *Row) WithValue(name string, v schema.Value) *Row {
	names := r.names
	if !r.Has(name) {
		names = append(r.Columns(), name)
	}
	vals := r.ToMap()
	vals[name] = v
	return NewRow(names, vals)
}

// WithoutColumn returns a new row with one column dropped. Dropping an
// absent column is a no-op copy.
func (r *Row) WithoutColumn(name string) *Row {
	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		if n != name {
			names = append(names, n)
		}
	}
	vals := r.ToMap()
	delete(vals, name)
	return NewRow(names, vals)
}

// WithColumns returns a new row with every entry of updates upserted.
// Existing columns keep their position; new columns are appended in
// name order so the result is deterministic.
func (r *Row) WithColumns(updates map[string]schema.Value) *Row {
	var added []string
	for name := range updates {
		if !r.Has(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)

	names := append(r.Columns(), added...)
	vals := r.ToMap()
	for name, v := range updates {
		vals[name] = v
	}
	return NewRow(names, vals)
}

// Project returns a new row holding only the requested columns, in the
// requested order. Unknown columns are silently dropped.
func (r *Row) Project(cols []string) *Row {
	names := make([]string, 0, len(cols))
	vals := make(map[string]schema.Value, len(cols))
	for _, name := range cols {
		if v, ok := r.vals[name]; ok {
			names = append(names, name)
			vals[name] = v
		}
	}
	return NewRow(names, vals)
}

func (r *Row) String() string {
	parts := make([]string, 0, len(r.names))
	for _, name := range r.names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, r.vals[name]))
	}
	return "Row(" + strings.Join(parts, ", ") + ")"
}
