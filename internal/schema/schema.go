// Package schema defines column types, per-column constraints and the
// table schema that validates and coerces row values.
package schema

import (
	"strconv"
	"strings"

	"reldb/internal/dberr"
)

// ColumnType is the closed set of supported column types.
type ColumnType uint8

const (
	TypeInt ColumnType = iota
	TypeVarchar
	TypeBoolean
)

// DefaultVarcharLength applies to VARCHAR columns declared without an
// explicit length.
const DefaultVarcharLength = 255

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeVarchar:
		return "VARCHAR"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return "INVALID"
	}
}

func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT":
		return TypeInt, nil
	case "VARCHAR":
		return TypeVarchar, nil
	case "BOOLEAN":
		return TypeBoolean, nil
	default:
		return 0, dberr.Schemaf("unsupported column type %q", s)
	}
}

// ColumnDefinition describes a single column. MaxLength applies to
// VARCHAR only; zero means "use the default".
type ColumnDefinition struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Unique     bool
	Nullable   bool
	MaxLength  int
}

// normalize enforces the construction invariants: VARCHAR gets a
// default length, and a primary key is always unique and non-nullable.
func (c *ColumnDefinition) normalize() {
	if c.Type == TypeVarchar && c.MaxLength == 0 {
		c.MaxLength = DefaultVarcharLength
	}
	if c.PrimaryKey {
		c.Nullable = false
		c.Unique = true
	}
}

// Schema is an ordered set of column definitions for one table.
type Schema struct {
	table  string
	cols   []ColumnDefinition
	byName map[string]int
}

// New builds a schema for table from the given columns, normalizing
// each definition. It rejects empty column lists, duplicate column
// names and more than one primary key.
func New(table string, cols []ColumnDefinition) (*Schema, error) {
	if len(cols) == 0 {
		return nil, dberr.Schemaf("table %q must have at least one column", table)
	}

	s := &Schema{
		table:  table,
		cols:   make([]ColumnDefinition, len(cols)),
		byName: make(map[string]int, len(cols)),
	}

	primaryKeys := 0
	for i, col := range cols {
		col.normalize()
		if _, ok := s.byName[col.Name]; ok {
			return nil, dberr.Schemaf("duplicate column %q in table %q", col.Name, table)
		}
		if col.PrimaryKey {
			primaryKeys++
		}
		s.cols[i] = col
		s.byName[col.Name] = i
	}
	if primaryKeys > 1 {
		return nil, dberr.Schemaf("table %q can have at most one primary key", table)
	}

	return s, nil
}

func (s *Schema) Table() string { return s.table }

func (s *Schema) NumColumns() int { return len(s.cols) }

// Columns returns the column definitions in declaration order.
func (s *Schema) Columns() []ColumnDefinition {
	out := make([]ColumnDefinition, len(s.cols))
	copy(out, s.cols)
	return out
}

// ColumnNames returns the column names in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column definition by name.
func (s *Schema) Column(name string) (ColumnDefinition, bool) {
	i, ok := s.byName[name]
	if !ok {
		return ColumnDefinition{}, false
	}
	return s.cols[i], true
}

// PrimaryKey returns the primary key column name, if any.
func (s *Schema) PrimaryKey() (string, bool) {
	for _, c := range s.cols {
		if c.PrimaryKey {
			return c.Name, true
		}
	}
	return "", false
}

// ValidateRow checks row values against the schema: every non-nullable
// column must be present, no unknown columns are allowed, and each
// present value must already carry the declared type (VARCHAR values
// are additionally length-checked). Coercion of textual inputs is
// Coerce's job; validation is strict.
func (s *Schema) ValidateRow(row map[string]Value) error {
	for _, col := range s.cols {
		if _, ok := row[col.Name]; !ok && !col.Nullable {
			return dberr.Schemaf("required column %q is missing", col.Name)
		}
	}

	for name := range row {
		if _, ok := s.byName[name]; !ok {
			return dberr.Schemaf("unknown column %q", name)
		}
	}

	for _, col := range s.cols {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		if v.IsNull() {
			if col.Nullable {
				continue
			}
			return dberr.Schemaf("column %q is not nullable", col.Name)
		}
		if err := checkType(v, col); err != nil {
			return err
		}
	}
	return nil
}

func checkType(v Value, col ColumnDefinition) error {
	switch col.Type {
	case TypeInt:
		if v.Kind() != KindInt {
			return typeMismatch(col, v)
		}
	case TypeBoolean:
		if v.Kind() != KindBool {
			return typeMismatch(col, v)
		}
	case TypeVarchar:
		if v.Kind() != KindString {
			return typeMismatch(col, v)
		}
		if col.MaxLength > 0 && len(v.Str()) > col.MaxLength {
			return dberr.Schemaf("value for column %q exceeds max length %d", col.Name, col.MaxLength)
		}
	}
	return nil
}

func typeMismatch(col ColumnDefinition, v Value) error {
	return dberr.Schemaf("invalid value for column %q: expected %s, got %s",
		col.Name, col.Type, v.Kind())
}

// Coerce converts a value to the column's declared type. String inputs
// are parsed for INT and BOOLEAN columns ("true"/"1"/"yes"/"on" and
// their negatives, case-insensitive) and length-checked for VARCHAR.
// Non-string inputs must already match the declared type. NULL passes
// through for nullable columns only.
func (s *Schema) Coerce(v Value, col ColumnDefinition) (Value, error) {
	if v.IsNull() {
		if col.Nullable {
			return Null, nil
		}
		return Null, dberr.Schemaf("cannot store NULL in non-nullable column %q", col.Name)
	}

	if v.Kind() == KindString {
		switch col.Type {
		case TypeInt:
			i, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
			if err != nil {
				return Null, dberr.Schemaf("cannot convert %q to INT", v.Str())
			}
			return Int(i), nil
		case TypeBoolean:
			switch strings.ToLower(v.Str()) {
			case "true", "1", "yes", "on":
				return Bool(true), nil
			case "false", "0", "no", "off":
				return Bool(false), nil
			default:
				return Null, dberr.Schemaf("cannot convert %q to BOOLEAN", v.Str())
			}
		case TypeVarchar:
			if col.MaxLength > 0 && len(v.Str()) > col.MaxLength {
				return Null, dberr.Schemaf("string too long for column %q: max %d", col.Name, col.MaxLength)
			}
			return v, nil
		}
	}

	switch {
	case col.Type == TypeInt && v.Kind() == KindInt:
		return v, nil
	case col.Type == TypeBoolean && v.Kind() == KindBool:
		return v, nil
	}
	return Null, dberr.Schemaf("cannot coerce %s to %s for column %q", v.Kind(), col.Type, col.Name)
}

// CoerceRow coerces every present value in row to its declared column
// type, returning a new map. Unknown columns fail.
func (s *Schema) CoerceRow(row map[string]Value) (map[string]Value, error) {
	out := make(map[string]Value, len(row))
	for name, v := range row {
		col, ok := s.Column(name)
		if !ok {
			return nil, dberr.Schemaf("unknown column %q", name)
		}
		cv, err := s.Coerce(v, col)
		if err != nil {
			return nil, err
		}
		out[name] = cv
	}
	return out, nil
}
