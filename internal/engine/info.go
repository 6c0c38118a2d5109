package engine

import "reldb/internal/schema"

// ColumnInfo is the introspection view of one column definition.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
	Unique     bool   `json:"unique"`
	Nullable   bool   `json:"nullable"`
	MaxLength  int    `json:"max_length,omitempty"`
}

// TableInfo is the introspection view of one table.
type TableInfo struct {
	Name     string       `json:"name"`
	RowCount int          `json:"row_count"`
	Columns  []ColumnInfo `json:"columns"`
}

// DatabaseInfo is the introspection view of the whole database.
type DatabaseInfo struct {
	Name       string      `json:"name"`
	TableCount int         `json:"table_count"`
	Tables     []TableInfo `json:"tables"`
}

// TableInfo returns name, row count and column metadata for the named
// table.
func (db *Database) TableInfo(name string) (*TableInfo, error) {
	t, err := db.Table(name)
	if err != nil {
		return nil, err
	}

	cols := t.Schema().Columns()
	info := &TableInfo{
		Name:     name,
		RowCount: t.Count(),
		Columns:  make([]ColumnInfo, len(cols)),
	}
	for i, col := range cols {
		info.Columns[i] = columnInfo(col)
	}
	return info, nil
}

func columnInfo(col schema.ColumnDefinition) ColumnInfo {
	return ColumnInfo{
		Name:       col.Name,
		Type:       col.Type.String(),
		PrimaryKey: col.PrimaryKey,
		Unique:     col.Unique,
		Nullable:   col.Nullable,
		MaxLength:  col.MaxLength,
	}
}

// ColumnDefinitionFromInfo is the inverse of the introspection view,
// used when replaying a persisted schema.
func ColumnDefinitionFromInfo(info ColumnInfo) (schema.ColumnDefinition, error) {
	typ, err := schema.ParseColumnType(info.Type)
	if err != nil {
		return schema.ColumnDefinition{}, err
	}
	return schema.ColumnDefinition{
		Name:       info.Name,
		Type:       typ,
		PrimaryKey: info.PrimaryKey,
		Unique:     info.Unique,
		Nullable:   info.Nullable,
		MaxLength:  info.MaxLength,
	}, nil
}

// Info returns database-level introspection over every table.
func (db *Database) Info() *DatabaseInfo {
	info := &DatabaseInfo{
		Name:       db.name,
		TableCount: len(db.tables),
	}
	for _, name := range db.ListTables() {
		ti, err := db.TableInfo(name)
		if err != nil {
			continue
		}
		info.Tables = append(info.Tables, *ti)
	}
	return info
}
