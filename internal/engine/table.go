package engine

import (
	"reldb/internal/dberr"
	"reldb/internal/schema"
)

// Predicate is a boolean test over a single row. It may fail, e.g.
// when an ordering comparison meets incomparable operands.
type Predicate func(*Row) (bool, error)

// MatchAll matches every row.
func MatchAll(*Row) (bool, error) { return true, nil }

// Table owns an ordered row store plus one constraint index per
// primary-key/unique column. An index maps a cell value to the set of
// storage positions holding it; for non-null values it always mirrors
// the row store between public calls.
type Table struct {
	schema  *schema.Schema
	rows    []*Row
	indexes map[string]map[schema.Value]map[int]struct{}
}

// NewTable creates an empty table for the schema and builds the
// constraint indexes for its primary-key/unique columns.
func NewTable(s *schema.Schema) *Table {
	t := &Table{schema: s}
	t.buildConstraintIndexes()
	return t
}

func (t *Table) buildConstraintIndexes() {
	t.indexes = make(map[string]map[schema.Value]map[int]struct{})
	for _, col := range t.schema.Columns() {
		if col.PrimaryKey || col.Unique {
			t.indexes[col.Name] = make(map[schema.Value]map[int]struct{})
		}
	}
}

// Insert validates and coerces row data, rejects constraint
// collisions, then appends the row and updates the indexes. Validation
// and every constraint check complete before anything is mutated, so a
// failed insert leaves both the row store and the indexes untouched.
func (t *Table) Insert(data map[string]schema.Value) (*Row, error) {
	if err := t.schema.ValidateRow(data); err != nil {
		return nil, err
	}

	coerced, err := t.schema.CoerceRow(data)
	if err != nil {
		return nil, err
	}

	if err := t.checkConstraints(coerced); err != nil {
		return nil, err
	}

	row := t.newSchemaOrderedRow(coerced)
	pos := len(t.rows)
	t.rows = append(t.rows, row)
	t.addToIndexes(row, pos)

	return row, nil
}

// newSchemaOrderedRow normalizes row data to schema column order,
// keeping only the columns actually present.
func (t *Table) newSchemaOrderedRow(data map[string]schema.Value) *Row {
	names := make([]string, 0, len(data))
	for _, name := range t.schema.ColumnNames() {
		if _, ok := data[name]; ok {
			names = append(names, name)
		}
	}
	return NewRow(names, data)
}

// checkConstraints rejects the first indexed column whose (non-null)
// value already appears in the table.
func (t *Table) checkConstraints(data map[string]schema.Value) error {
	for _, col := range t.schema.Columns() {
		idx, indexed := t.indexes[col.Name]
		if !indexed {
			continue
		}
		v, ok := data[col.Name]
		if !ok || v.IsNull() {
			continue
		}
		if _, exists := idx[v]; exists {
			return t.constraintError(col, v)
		}
	}
	return nil
}

func (t *Table) constraintError(col schema.ColumnDefinition, v schema.Value) error {
	if col.PrimaryKey {
		return dberr.Constraintf("primary key violation: %s=%s already exists", col.Name, v)
	}
	return dberr.Constraintf("unique constraint violation: %s=%s already exists", col.Name, v)
}

func (t *Table) addToIndexes(row *Row, pos int) {
	for name, idx := range t.indexes {
		v, ok := row.Get(name)
		if !ok || v.IsNull() {
			continue
		}
		set, ok := idx[v]
		if !ok {
			set = make(map[int]struct{})
			idx[v] = set
		}
		set[pos] = struct{}{}
	}
}

func (t *Table) removeFromIndexes(row *Row, pos int) {
	for name, idx := range t.indexes {
		v, ok := row.Get(name)
		if !ok || v.IsNull() {
			continue
		}
		set, ok := idx[v]
		if !ok {
			continue
		}
		delete(set, pos)
		if len(set) == 0 {
			delete(idx, v)
		}
	}
}

// SelectAll returns a snapshot copy of all rows.
func (t *Table) SelectAll() []*Row {
	out := make([]*Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// SelectWhere returns the rows matching pred, in storage order.
func (t *Table) SelectWhere(pred Predicate) ([]*Row, error) {
	var out []*Row
	for _, row := range t.rows {
		ok, err := pred(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// SelectByColumn returns the rows whose column equals value, using the
// constraint index when it holds the value and falling back to a
// linear scan otherwise.
func (t *Table) SelectByColumn(name string, v schema.Value) ([]*Row, error) {
	if _, ok := t.schema.Column(name); !ok {
		return nil, dberr.Lookupf("unknown column %q", name)
	}

	// Constraint indexes carry no NULL entries, so an index miss still
	// needs the scan below to find NULL matches.
	if idx, indexed := t.indexes[name]; indexed {
		if set, hit := idx[v]; hit {
			var out []*Row
			for pos := range set {
				out = append(out, t.rows[pos])
			}
			return out, nil
		}
	}

	var out []*Row
	for _, row := range t.rows {
		if row.Value(name) == v {
			out = append(out, row)
		}
	}
	return out, nil
}

// UpdateWhere merges updates into every row matching pred. Matches are
// collected first, then applied one by one: re-validate, re-coerce the
// updated columns, re-check constraints against the row's own position,
// swap the row and refresh the indexes. The first failing row stops the
// batch; rows already updated stay updated, and the returned count
// reflects them.
func (t *Table) UpdateWhere(pred Predicate, updates map[string]schema.Value) (int, error) {
	type match struct {
		pos int
		row *Row
	}
	var matches []match
	for i, row := range t.rows {
		ok, err := pred(row)
		if err != nil {
			return 0, err
		}
		if ok {
			matches = append(matches, match{pos: i, row: row})
		}
	}

	updated := 0
	for _, m := range matches {
		newData := m.row.ToMap()
		for name, v := range updates {
			newData[name] = v
		}

		if err := t.schema.ValidateRow(newData); err != nil {
			return updated, err
		}

		for name := range updates {
			col, ok := t.schema.Column(name)
			if !ok {
				return updated, dberr.Schemaf("unknown column %q", name)
			}
			cv, err := t.schema.Coerce(newData[name], col)
			if err != nil {
				return updated, err
			}
			newData[name] = cv
		}

		if err := t.checkConstraintsAt(m.row, newData, m.pos); err != nil {
			return updated, err
		}

		t.removeFromIndexes(m.row, m.pos)
		newRow := t.newSchemaOrderedRow(newData)
		t.rows[m.pos] = newRow
		t.addToIndexes(newRow, m.pos)
		updated++
	}
	return updated, nil
}

// checkConstraintsAt is the update-path constraint check: an unchanged
// value is always fine, and a changed value may exist in the index only
// at the row's own position. pos is the scan position of the row being
// replaced, threaded through explicitly so rows with equal values can
// never be confused.
func (t *Table) checkConstraintsAt(old *Row, newData map[string]schema.Value, pos int) error {
	for _, col := range t.schema.Columns() {
		idx, indexed := t.indexes[col.Name]
		if !indexed {
			continue
		}
		newVal := newData[col.Name]
		if newVal == old.Value(col.Name) || newVal.IsNull() {
			continue
		}
		set, exists := idx[newVal]
		if !exists {
			continue
		}
		if _, self := set[pos]; self && len(set) == 1 {
			continue
		}
		return t.constraintError(col, newVal)
	}
	return nil
}

// DeleteWhere removes every row matching pred. Positions are deleted
// in descending order so earlier matches stay valid, and every row at
// or after a removed position is re-indexed to its shifted position.
// That re-indexing is linear per delete, the accepted cost of the
// array-backed store.
func (t *Table) DeleteWhere(pred Predicate) (int, error) {
	var positions []int
	for i, row := range t.rows {
		ok, err := pred(row)
		if err != nil {
			return 0, err
		}
		if ok {
			positions = append(positions, i)
		}
	}

	deleted := 0
	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		t.removeFromIndexes(t.rows[pos], pos)
		t.rows = append(t.rows[:pos], t.rows[pos+1:]...)

		for j := pos; j < len(t.rows); j++ {
			row := t.rows[j]
			t.removeFromIndexes(row, j+1)
			t.addToIndexes(row, j)
		}
		deleted++
	}
	return deleted, nil
}

// Count returns the number of stored rows.
func (t *Table) Count() int { return len(t.rows) }

func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Schema returns the table schema.
func (t *Table) Schema() *schema.Schema { return t.schema }

// clear drops all rows and rebuilds empty constraint indexes, keeping
// the schema.
func (t *Table) clear() {
	t.rows = nil
	t.buildConstraintIndexes()
}
