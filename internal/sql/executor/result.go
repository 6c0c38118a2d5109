package executor

import (
	"reldb/internal/engine"
	"reldb/internal/schema"
)

// RowData is one result row as a column-to-value mapping.
type RowData = map[string]schema.Value

// Result is the structured outcome of one statement. Success=false
// always carries Error; the populated fields beyond that depend on the
// statement kind. Columns preserves output order for display, since
// RowData itself is unordered.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Statement string `json:"statement,omitempty"`

	Columns      []string  `json:"columns,omitempty"`
	Rows         []RowData `json:"rows,omitempty"`
	InsertedRows []RowData `json:"inserted_rows,omitempty"`

	UpdatedCount int `json:"updated_count,omitempty"`
	DeletedCount int `json:"deleted_count,omitempty"`

	TableInfo *engine.TableInfo `json:"table_info,omitempty"`
}

func failure(statement string, err error) *Result {
	return &Result{
		Success:   false,
		Error:     err.Error(),
		Statement: statement,
	}
}
