package storage

import (
	"go.uber.org/zap"

	"reldb/internal/engine"
	"reldb/internal/schema"
)

// Store keys for database snapshots.
const (
	keyTableSchemas = "table_schemas"
	keyTableData    = "table_data"
)

// SnapshotExists reports whether the store holds a database snapshot.
func SnapshotExists(store *MemoryStore) bool {
	return store.Exists(keyTableSchemas)
}

// tableSchema is the persisted schema of one table.
type tableSchema struct {
	Columns []engine.ColumnInfo `json:"columns"`
}

// SaveDatabase serializes every table's schema and rows into the
// store under the "table_schemas" and "table_data" keys.
func SaveDatabase(store *MemoryStore, db *engine.Database) error {
	schemas := make(map[string]tableSchema)
	data := make(map[string][]map[string]schema.Value)

	for _, name := range db.ListTables() {
		info, err := db.TableInfo(name)
		if err != nil {
			return err
		}
		schemas[name] = tableSchema{Columns: info.Columns}

		rows, err := db.SelectAll(name)
		if err != nil {
			return err
		}
		rowData := make([]map[string]schema.Value, 0, len(rows))
		for _, row := range rows {
			rowData = append(rowData, row.ToMap())
		}
		data[name] = rowData
	}

	if err := store.Set(keyTableSchemas, schemas); err != nil {
		return err
	}
	return store.Set(keyTableData, data)
}

// LoadDatabase replays a snapshot into db: create every persisted
// table, then insert its rows. A table that fails to restore is
// logged and skipped; one bad table never aborts the whole load.
func LoadDatabase(store *MemoryStore, db *engine.Database, log *zap.SugaredLogger) error {
	var schemas map[string]tableSchema
	if _, err := store.Get(keyTableSchemas, &schemas); err != nil {
		return err
	}
	for name, ts := range schemas {
		if err := restoreTable(db, name, ts); err != nil {
			log.Warnw("failed to restore table", "table", name, "error", err)
		}
	}

	var data map[string][]map[string]schema.Value
	if _, err := store.Get(keyTableData, &data); err != nil {
		return err
	}
	for name, rows := range data {
		if !db.Exists(name) {
			continue
		}
		if err := restoreRows(db, name, rows); err != nil {
			log.Warnw("failed to restore table data", "table", name, "error", err)
		}
	}
	return nil
}

func restoreTable(db *engine.Database, name string, ts tableSchema) error {
	cols := make([]schema.ColumnDefinition, 0, len(ts.Columns))
	for _, ci := range ts.Columns {
		col, err := engine.ColumnDefinitionFromInfo(ci)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	_, err := db.CreateTable(name, cols)
	return err
}

func restoreRows(db *engine.Database, name string, rows []map[string]schema.Value) error {
	for _, data := range rows {
		if _, err := db.Insert(name, data); err != nil {
			return err
		}
	}
	return nil
}
