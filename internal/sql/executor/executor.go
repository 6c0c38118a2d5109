// Package executor bridges the SQL parser and the storage engine: it
// dispatches parsed statements to Database/Table operations, compiles
// WHERE predicates, performs the cross-table equi-join projection and
// formats results. Every failure — parse, lookup, schema, constraint —
// is caught at statement granularity and returned as a structured
// failure result, never as a raw error.
package executor

import (
	"fmt"
	"strings"

	"reldb/internal/dberr"
	"reldb/internal/engine"
	"reldb/internal/schema"
	"reldb/internal/sql/parser"
	"reldb/internal/sql/planner"
)

// Engine executes SQL statements against one database.
type Engine struct {
	db *engine.Database
}

func New(db *engine.Database) *Engine {
	return &Engine{db: db}
}

func (e *Engine) Database() *engine.Database { return e.db }

// Execute parses and runs one SQL statement.
func (e *Engine) Execute(sql string) *Result {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return failure(strings.TrimSpace(sql), err)
	}

	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	case *parser.UpdateStmt:
		return e.execUpdate(s)
	case *parser.DeleteStmt:
		return e.execDelete(s)
	default:
		return failure(strings.TrimSpace(sql), dberr.Parsef("unsupported statement type %T", stmt))
	}
}

func (e *Engine) execCreateTable(stmt *parser.CreateTableStmt) *Result {
	desc := "CREATE TABLE " + stmt.TableName

	if _, err := e.db.CreateTable(stmt.TableName, stmt.Columns); err != nil {
		return failure(desc, err)
	}
	info, err := e.db.TableInfo(stmt.TableName)
	if err != nil {
		return failure(desc, err)
	}

	return &Result{
		Success:   true,
		Message:   fmt.Sprintf("table %q created", stmt.TableName),
		TableInfo: info,
	}
}

func (e *Engine) execInsert(stmt *parser.InsertStmt) *Result {
	desc := "INSERT INTO " + stmt.TableName

	table, err := e.db.Table(stmt.TableName)
	if err != nil {
		return failure(desc, err)
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = table.Schema().ColumnNames()
	}

	var inserted []RowData
	for _, tuple := range stmt.Values {
		if len(tuple) != len(columns) {
			return failure(desc, dberr.Schemaf(
				"column count mismatch: %d columns, %d values", len(columns), len(tuple)))
		}
		data := make(map[string]schema.Value, len(columns))
		for i, name := range columns {
			data[name] = tuple[i]
		}
		row, err := table.Insert(data)
		if err != nil {
			// Tuples already inserted stay inserted; no batch rollback.
			return failure(desc, err)
		}
		inserted = append(inserted, row.ToMap())
	}

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("inserted %d row(s) into %q", len(inserted), stmt.TableName),
		Columns:      columns,
		InsertedRows: inserted,
	}
}

func (e *Engine) execSelect(stmt *parser.SelectStmt) *Result {
	if stmt.Join != nil {
		return e.execSelectJoin(stmt)
	}
	desc := "SELECT FROM " + stmt.TableName

	table, err := e.db.Table(stmt.TableName)
	if err != nil {
		return failure(desc, err)
	}

	var rows []*engine.Row
	if stmt.Where != "" {
		cond, err := CompileCondition(stmt.Where)
		if err != nil {
			return failure(desc, err)
		}
		rows, err = fetchCandidates(table, stmt.TableName, cond)
		if err != nil {
			return failure(desc, err)
		}
	} else {
		rows = table.SelectAll()
	}

	columns := stmt.Columns
	star := len(columns) == 1 && columns[0] == "*"
	if star {
		columns = table.Schema().ColumnNames()
	}

	out := make([]RowData, 0, len(rows))
	for _, row := range rows {
		if star {
			out = append(out, row.ToMap())
			continue
		}
		out = append(out, row.Project(columns).ToMap())
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("selected %d row(s) from %q", len(out), stmt.TableName),
		Columns: columns,
		Rows:    out,
	}
}

// fetchCandidates runs the condition through the access planner: an
// equality probe on a constraint-indexed column uses the index,
// everything else is a filtered scan.
func fetchCandidates(table *engine.Table, name string, cond *Condition) ([]*engine.Row, error) {
	if cond.Op == OpEq {
		eq := &planner.EqFilter{Column: cond.Column, Value: cond.Value}
		if p, ok := planner.Build(table.Schema(), name, eq).(*planner.IndexLookup); ok {
			return table.SelectByColumn(p.Column, p.Value)
		}
	}
	return table.SelectWhere(cond.Predicate())
}

func (e *Engine) execSelectJoin(stmt *parser.SelectStmt) *Result {
	join := stmt.Join
	desc := fmt.Sprintf("SELECT FROM %s JOIN %s", stmt.TableName, join.RightTable)

	joined, err := e.db.JoinInner(stmt.TableName, join.RightTable, join.LeftColumn, join.RightColumn)
	if err != nil {
		return failure(desc, err)
	}

	if stmt.Where != "" {
		pred, err := compileWhere(stmt.Where)
		if err != nil {
			return failure(desc, err)
		}
		var kept []*engine.Row
		for _, row := range joined {
			ok, err := pred(row)
			if err != nil {
				return failure(desc, err)
			}
			if ok {
				kept = append(kept, row)
			}
		}
		joined = kept
	}

	star := len(stmt.Columns) == 1 && stmt.Columns[0] == "*"

	var columns []string
	out := make([]RowData, 0, len(joined))
	for _, row := range joined {
		if star {
			if columns == nil {
				columns = row.Columns()
			}
			out = append(out, row.ToMap())
			continue
		}
		data := make(RowData, len(stmt.Columns))
		for _, col := range stmt.Columns {
			if v, ok := resolveJoinedColumn(row, stmt.TableName, join.RightTable, col); ok {
				data[col] = v
			}
		}
		out = append(out, data)
	}
	if !star {
		columns = stmt.Columns
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("selected %d row(s) from joined tables", len(out)),
		Columns: columns,
		Rows:    out,
	}
}

// resolveJoinedColumn resolves a projection name against a joined row:
// qualified names are looked up directly, unqualified names try the
// left table's qualified form first, then the right's.
func resolveJoinedColumn(row *engine.Row, leftTable, rightTable, col string) (schema.Value, bool) {
	if strings.Contains(col, ".") {
		return row.Get(col)
	}
	if v, ok := row.Get(leftTable + "." + col); ok {
		return v, true
	}
	return row.Get(rightTable + "." + col)
}

func (e *Engine) execUpdate(stmt *parser.UpdateStmt) *Result {
	desc := "UPDATE " + stmt.TableName

	pred, err := compileWhere(stmt.Where)
	if err != nil {
		return failure(desc, err)
	}

	updates := make(map[string]schema.Value, len(stmt.Assignments))
	for _, a := range stmt.Assignments {
		updates[a.Column] = a.Value
	}

	count, err := e.db.UpdateWhere(stmt.TableName, pred, updates)
	if err != nil {
		// Rows updated before the failure stay updated.
		return failure(desc, err)
	}

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("updated %d row(s) in %q", count, stmt.TableName),
		UpdatedCount: count,
	}
}

func (e *Engine) execDelete(stmt *parser.DeleteStmt) *Result {
	desc := "DELETE FROM " + stmt.TableName

	pred, err := compileWhere(stmt.Where)
	if err != nil {
		return failure(desc, err)
	}

	count, err := e.db.DeleteWhere(stmt.TableName, pred)
	if err != nil {
		return failure(desc, err)
	}

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("deleted %d row(s) from %q", count, stmt.TableName),
		DeletedCount: count,
	}
}
