package parser

import "reldb/internal/schema"

// Statement is the root interface for all parsed SQL statements.
type Statement interface {
	stmtNode()
}

// CreateTableStmt carries the raw column definitions; normalization
// (VARCHAR defaults, primary-key implications) happens when the schema
// is built.
type CreateTableStmt struct {
	TableName string
	Columns   []schema.ColumnDefinition
}

func (*CreateTableStmt) stmtNode() {}

// InsertStmt holds one literal tuple per VALUES group. Columns is
// empty when the statement omits the explicit column list.
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    [][]schema.Value
}

func (*InsertStmt) stmtNode() {}

// JoinClause is a single INNER equi-join on LeftColumn = RightColumn.
type JoinClause struct {
	RightTable  string
	LeftColumn  string
	RightColumn string
}

// SelectStmt projects Columns (["*"] for all) from TableName. Where
// holds the raw condition text; the execution engine compiles it.
type SelectStmt struct {
	TableName string
	Columns   []string
	Where     string
	Join      *JoinClause
}

func (*SelectStmt) stmtNode() {}

// Assignment is one "col = literal" entry of an UPDATE SET clause.
type Assignment struct {
	Column string
	Value  schema.Value
}

type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       string
}

func (*UpdateStmt) stmtNode() {}

type DeleteStmt struct {
	TableName string
	Where     string
}

func (*DeleteStmt) stmtNode() {}
