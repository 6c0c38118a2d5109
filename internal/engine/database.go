// Package engine implements the in-memory relational core: immutable
// rows, constraint-indexed tables and the database registry that ties
// tables together for cross-table operations.
package engine

import (
	"reldb/internal/dberr"
	"reldb/internal/schema"
)

// Database is a named registry of tables. Table creation and lookup
// are the only ways tables enter or leave the registry; there is no
// process-wide instance, callers own their Database explicitly.
type Database struct {
	name   string
	tables map[string]*Table
	order  []string
}

func NewDatabase(name string) *Database {
	return &Database{
		name:   name,
		tables: make(map[string]*Table),
	}
}

func (db *Database) Name() string { return db.name }

// CreateTable builds a schema from the column definitions and registers
// an empty table under name. Table names are unique per database.
func (db *Database) CreateTable(name string, cols []schema.ColumnDefinition) (*Table, error) {
	if _, exists := db.tables[name]; exists {
		return nil, dberr.Schemaf("table %q already exists", name)
	}

	s, err := schema.New(name, cols)
	if err != nil {
		return nil, err
	}

	t := NewTable(s)
	db.tables[name] = t
	db.order = append(db.order, name)
	return t, nil
}

// Table returns the table registered under name.
func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, dberr.Lookupf("table %q does not exist", name)
	}
	return t, nil
}

func (db *Database) Exists(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// ListTables returns table names in creation order.
func (db *Database) ListTables() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}

// DropTable removes a table and its data from the registry.
func (db *Database) DropTable(name string) error {
	if _, ok := db.tables[name]; !ok {
		return dberr.Lookupf("table %q does not exist", name)
	}
	delete(db.tables, name)
	for i, n := range db.order {
		if n == name {
			db.order = append(db.order[:i], db.order[i+1:]...)
			break
		}
	}
	return nil
}

// Insert inserts a row into the named table.
func (db *Database) Insert(table string, data map[string]schema.Value) (*Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Insert(data)
}

// SelectAll returns all rows of the named table.
func (db *Database) SelectAll(table string) ([]*Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.SelectAll(), nil
}

// SelectWhere returns the rows of the named table matching pred.
func (db *Database) SelectWhere(table string, pred Predicate) ([]*Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.SelectWhere(pred)
}

// SelectByColumn returns the rows of the named table whose column
// equals value.
func (db *Database) SelectByColumn(table, column string, v schema.Value) ([]*Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.SelectByColumn(column, v)
}

// UpdateWhere updates the matching rows of the named table.
func (db *Database) UpdateWhere(table string, pred Predicate, updates map[string]schema.Value) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}
	return t.UpdateWhere(pred, updates)
}

// DeleteWhere deletes the matching rows of the named table.
func (db *Database) DeleteWhere(table string, pred Predicate) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}
	return t.DeleteWhere(pred)
}

// JoinInner equi-joins two tables on leftColumn = rightColumn. The
// right table's join column is hashed in a single pass, then each left
// row emits one combined row per matching right row. Combined rows
// qualify every column as "table.column", left columns first. Left
// rows without a match emit nothing; inner semantics only.
func (db *Database) JoinInner(leftTable, rightTable, leftColumn, rightColumn string) ([]*Row, error) {
	left, err := db.Table(leftTable)
	if err != nil {
		return nil, err
	}
	right, err := db.Table(rightTable)
	if err != nil {
		return nil, err
	}

	if _, ok := left.Schema().Column(leftColumn); !ok {
		return nil, dberr.Lookupf("column %q does not exist in table %q", leftColumn, leftTable)
	}
	if _, ok := right.Schema().Column(rightColumn); !ok {
		return nil, dberr.Lookupf("column %q does not exist in table %q", rightColumn, rightTable)
	}

	rightIndex := make(map[schema.Value][]*Row)
	for _, row := range right.SelectAll() {
		key := row.Value(rightColumn)
		rightIndex[key] = append(rightIndex[key], row)
	}

	var joined []*Row
	for _, leftRow := range left.SelectAll() {
		for _, rightRow := range rightIndex[leftRow.Value(leftColumn)] {
			joined = append(joined, combineQualified(leftTable, leftRow, rightTable, rightRow))
		}
	}
	return joined, nil
}

func combineQualified(leftTable string, leftRow *Row, rightTable string, rightRow *Row) *Row {
	names := make([]string, 0, leftRow.Len()+rightRow.Len())
	vals := make(map[string]schema.Value, leftRow.Len()+rightRow.Len())

	for _, name := range leftRow.Columns() {
		q := leftTable + "." + name
		names = append(names, q)
		vals[q] = leftRow.Value(name)
	}
	for _, name := range rightRow.Columns() {
		q := rightTable + "." + name
		names = append(names, q)
		vals[q] = rightRow.Value(name)
	}
	return NewRow(names, vals)
}

// ClearAll drops the data of every table but keeps the schemas.
func (db *Database) ClearAll() {
	for _, t := range db.tables {
		t.clear()
	}
}
