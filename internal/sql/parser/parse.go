// Package parser converts SQL text into typed statements. The grammar
// is a small subset: CREATE TABLE, INSERT (multi-tuple VALUES), SELECT
// with an optional single INNER JOIN and WHERE, UPDATE and DELETE.
// WHERE conditions are restricted to one binary comparison; boolean
// composition (AND/OR) is deliberately unsupported.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"reldb/internal/dberr"
	"reldb/internal/schema"
)

// Parse parses a single SQL statement into its typed form.
func Parse(sql string) (Statement, error) {
	s := strings.TrimSpace(sql)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, dberr.Parsef("empty statement")
	}

	up := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(up, "CREATE TABLE"):
		return parseCreateTable(s)
	case strings.HasPrefix(up, "INSERT INTO"):
		return parseInsert(s)
	case strings.HasPrefix(up, "SELECT"):
		return parseSelect(s)
	case strings.HasPrefix(up, "UPDATE"):
		return parseUpdate(s)
	case strings.HasPrefix(up, "DELETE FROM"):
		return parseDelete(s)
	default:
		return nil, dberr.Parsef("unsupported statement: %q", sql)
	}
}

// parseIdent validates a table or column name: one token, first char a
// letter or '_', the rest letters/digits/'_'.
func parseIdent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dberr.Parsef("missing identifier")
	}

	parts := strings.Fields(s)
	if len(parts) != 1 {
		return "", dberr.Parsef("invalid identifier %q", s)
	}
	id := parts[0]

	for i, r := range id {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return "", dberr.Parsef("invalid identifier %q", id)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return "", dberr.Parsef("invalid identifier %q", id)
		}
	}
	return id, nil
}

func parseCreateTable(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("CREATE TABLE"):])

	open := strings.Index(rest, "(")
	if open < 0 {
		return nil, dberr.Parsef("invalid CREATE TABLE syntax: missing column list")
	}
	tableName, err := parseIdent(rest[:open])
	if err != nil {
		return nil, dberr.Parsef("invalid CREATE TABLE syntax: %s", err)
	}

	body := strings.TrimSpace(rest[open+1:])
	if !strings.HasSuffix(body, ")") {
		return nil, dberr.Parsef("invalid CREATE TABLE syntax: unterminated column list")
	}
	body = strings.TrimSpace(body[:len(body)-1])
	if body == "" {
		return nil, dberr.Parsef("invalid CREATE TABLE syntax: empty column list")
	}

	var cols []schema.ColumnDefinition
	for _, def := range splitList(body) {
		col, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return &CreateTableStmt{TableName: tableName, Columns: cols}, nil
}

// parseColumnDef parses "<name> <type> [PRIMARY KEY] [UNIQUE]
// [NOT NULL | NULL]". Columns default to nullable.
func parseColumnDef(def string) (schema.ColumnDefinition, error) {
	toks := strings.Fields(def)
	if len(toks) < 2 {
		return schema.ColumnDefinition{}, dberr.Parsef("invalid column definition: %q", def)
	}

	name, err := parseIdent(toks[0])
	if err != nil {
		return schema.ColumnDefinition{}, dberr.Parsef("invalid column name: %s", err)
	}

	col := schema.ColumnDefinition{Name: name, Nullable: true}
	typeTok := strings.ToUpper(toks[1])
	switch {
	case typeTok == "INT":
		col.Type = schema.TypeInt
	case typeTok == "BOOLEAN":
		col.Type = schema.TypeBoolean
	case typeTok == "VARCHAR":
		col.Type = schema.TypeVarchar
	case strings.HasPrefix(typeTok, "VARCHAR(") && strings.HasSuffix(typeTok, ")"):
		n, err := strconv.Atoi(typeTok[len("VARCHAR(") : len(typeTok)-1])
		if err != nil || n <= 0 {
			return schema.ColumnDefinition{}, dberr.Parsef("invalid VARCHAR length in %q", def)
		}
		col.Type = schema.TypeVarchar
		col.MaxLength = n
	default:
		return schema.ColumnDefinition{}, dberr.Parsef("unsupported column type %q", toks[1])
	}

	for i := 2; i < len(toks); i++ {
		switch strings.ToUpper(toks[i]) {
		case "PRIMARY":
			if i+1 >= len(toks) || strings.ToUpper(toks[i+1]) != "KEY" {
				return schema.ColumnDefinition{}, dberr.Parsef("invalid constraint in %q: expected PRIMARY KEY", def)
			}
			col.PrimaryKey = true
			i++
		case "UNIQUE":
			col.Unique = true
		case "NOT":
			if i+1 >= len(toks) || strings.ToUpper(toks[i+1]) != "NULL" {
				return schema.ColumnDefinition{}, dberr.Parsef("invalid constraint in %q: expected NOT NULL", def)
			}
			col.Nullable = false
			i++
		case "NULL":
			col.Nullable = true
		default:
			return schema.ColumnDefinition{}, dberr.Parsef("unknown constraint %q in %q", toks[i], def)
		}
	}
	return col, nil
}

func parseInsert(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("INSERT INTO"):])

	tablePart, valuesPart := splitKeyword(rest, "VALUES")
	if valuesPart == "" {
		return nil, dberr.Parsef("invalid INSERT syntax: missing VALUES")
	}

	var columns []string
	if open := strings.Index(tablePart, "("); open >= 0 {
		colPart := strings.TrimSpace(tablePart[open+1:])
		if !strings.HasSuffix(colPart, ")") {
			return nil, dberr.Parsef("invalid INSERT syntax: unterminated column list")
		}
		for _, c := range splitList(colPart[:len(colPart)-1]) {
			name, err := parseIdent(c)
			if err != nil {
				return nil, dberr.Parsef("invalid INSERT column: %s", err)
			}
			columns = append(columns, name)
		}
		tablePart = tablePart[:open]
	}

	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, dberr.Parsef("invalid INSERT syntax: %s", err)
	}

	var values [][]schema.Value
	for _, group := range splitList(valuesPart) {
		if !strings.HasPrefix(group, "(") || !strings.HasSuffix(group, ")") {
			return nil, dberr.Parsef("invalid VALUES tuple: %q", group)
		}
		inner := strings.TrimSpace(group[1 : len(group)-1])
		if inner == "" {
			return nil, dberr.Parsef("empty VALUES tuple")
		}
		var tuple []schema.Value
		for _, raw := range splitList(inner) {
			tuple = append(tuple, ParseLiteral(raw))
		}
		values = append(values, tuple)
	}
	if len(values) == 0 {
		return nil, dberr.Parsef("invalid INSERT syntax: no VALUES tuples")
	}

	return &InsertStmt{TableName: tableName, Columns: columns, Values: values}, nil
}

func parseSelect(sql string) (Statement, error) {
	colsPart, fromPart := splitKeyword(sql[len("SELECT"):], "FROM")
	if fromPart == "" {
		return nil, dberr.Parsef("invalid SELECT syntax: missing FROM")
	}

	var columns []string
	if strings.TrimSpace(colsPart) == "*" {
		columns = []string{"*"}
	} else {
		for _, c := range splitList(colsPart) {
			if c == "" {
				return nil, dberr.Parsef("invalid SELECT column list: %q", colsPart)
			}
			columns = append(columns, c)
		}
		if len(columns) == 0 {
			return nil, dberr.Parsef("invalid SELECT syntax: empty column list")
		}
	}

	fromPart, where := splitKeyword(fromPart, "WHERE")

	toks := strings.Fields(fromPart)
	if len(toks) == 0 {
		return nil, dberr.Parsef("invalid SELECT syntax: missing table name")
	}
	tableName, err := parseIdent(toks[0])
	if err != nil {
		return nil, dberr.Parsef("invalid SELECT syntax: %s", err)
	}

	var join *JoinClause
	if len(toks) > 1 {
		join, err = parseJoin(tableName, toks[1:])
		if err != nil {
			return nil, err
		}
	}

	return &SelectStmt{
		TableName: tableName,
		Columns:   columns,
		Where:     where,
		Join:      join,
	}, nil
}

// parseJoin parses "[INNER] JOIN <right> ON <left>.<col> = <right>.<col>"
// from the tokens following the FROM table.
func parseJoin(leftTable string, toks []string) (*JoinClause, error) {
	i := 0
	if strings.EqualFold(toks[i], "INNER") {
		i++
	}
	if i >= len(toks) || !strings.EqualFold(toks[i], "JOIN") {
		return nil, dberr.Parsef("invalid JOIN syntax: %q", strings.Join(toks, " "))
	}
	i++
	if i >= len(toks) {
		return nil, dberr.Parsef("invalid JOIN syntax: missing table name")
	}
	rightTable, err := parseIdent(toks[i])
	if err != nil {
		return nil, dberr.Parsef("invalid JOIN table: %s", err)
	}
	i++
	if i >= len(toks) || !strings.EqualFold(toks[i], "ON") {
		return nil, dberr.Parsef("invalid JOIN syntax: missing ON clause")
	}
	i++

	cond := strings.Join(toks[i:], " ")
	sides := strings.SplitN(cond, "=", 2)
	if len(sides) != 2 {
		return nil, dberr.Parsef("invalid JOIN condition: %q", cond)
	}

	lt, lc, err := parseQualified(sides[0])
	if err != nil {
		return nil, err
	}
	rt, rc, err := parseQualified(sides[1])
	if err != nil {
		return nil, err
	}
	if lt != leftTable {
		return nil, dberr.Parsef("JOIN condition must start with %q, got %q", leftTable, lt)
	}
	if rt != rightTable {
		return nil, dberr.Parsef("JOIN condition must reference %q, got %q", rightTable, rt)
	}

	return &JoinClause{RightTable: rightTable, LeftColumn: lc, RightColumn: rc}, nil
}

func parseQualified(s string) (table, column string, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 2)
	if len(parts) != 2 {
		return "", "", dberr.Parsef("expected qualified column, got %q", s)
	}
	if table, err = parseIdent(parts[0]); err != nil {
		return "", "", dberr.Parsef("invalid qualified column %q: %s", s, err)
	}
	if column, err = parseIdent(parts[1]); err != nil {
		return "", "", dberr.Parsef("invalid qualified column %q: %s", s, err)
	}
	return table, column, nil
}

func parseUpdate(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("UPDATE"):])

	tablePart, afterTable := splitKeyword(rest, "SET")
	if afterTable == "" {
		return nil, dberr.Parsef("invalid UPDATE syntax: missing SET")
	}
	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, dberr.Parsef("invalid UPDATE syntax: %s", err)
	}

	setPart, where := splitKeyword(afterTable, "WHERE")
	if strings.TrimSpace(setPart) == "" {
		return nil, dberr.Parsef("invalid UPDATE syntax: empty SET clause")
	}

	var assigns []Assignment
	for _, a := range splitList(setPart) {
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			return nil, dberr.Parsef("invalid assignment: %q", a)
		}
		col, err := parseIdent(kv[0])
		if err != nil {
			return nil, dberr.Parsef("invalid assignment column: %s", err)
		}
		assigns = append(assigns, Assignment{
			Column: col,
			Value:  ParseLiteral(kv[1]),
		})
	}

	return &UpdateStmt{TableName: tableName, Assignments: assigns, Where: where}, nil
}

func parseDelete(sql string) (Statement, error) {
	rest := strings.TrimSpace(sql[len("DELETE FROM"):])

	tablePart, where := splitKeyword(rest, "WHERE")
	tableName, err := parseIdent(tablePart)
	if err != nil {
		return nil, dberr.Parsef("invalid DELETE syntax: %s", err)
	}

	return &DeleteStmt{TableName: tableName, Where: where}, nil
}

// ParseLiteral converts one literal token: single- or double-quoted
// string, bare integer, TRUE/FALSE, NULL — anything else is kept as a
// raw string. Shared with the executor's WHERE compiler so both sides
// of the engine agree on literal semantics.
func ParseLiteral(raw string) schema.Value {
	s := strings.TrimSpace(raw)

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return schema.String(s[1 : len(s)-1])
		}
	}

	switch strings.ToUpper(s) {
	case "TRUE":
		return schema.Bool(true)
	case "FALSE":
		return schema.Bool(false)
	case "NULL":
		return schema.Null
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return schema.Int(i)
	}

	return schema.String(s)
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// splitKeyword splits s at the first occurrence of keyword outside
// quoted strings, case-insensitively, requiring the keyword to stand
// alone (non-identifier characters on both sides). Returns the trimmed
// halves; the right half is empty when the keyword is absent.
func splitKeyword(s, keyword string) (string, string) {
	up := strings.ToUpper(s)
	kw := strings.ToUpper(keyword)

	var quote byte
	for i := 0; i+len(kw) <= len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if up[i:i+len(kw)] != kw {
			continue
		}
		if i > 0 && isIdentByte(s[i-1]) {
			continue
		}
		if end := i + len(kw); end < len(s) && isIdentByte(s[end]) {
			continue
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(kw):])
	}
	return strings.TrimSpace(s), ""
}

// splitList splits a comma-separated list, ignoring commas inside
// quoted strings and inside parenthesized groups. Parts are trimmed;
// empty parts are dropped.
func splitList(s string) []string {
	var parts []string
	var cur strings.Builder
	var quote byte
	depth := 0

	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			cur.WriteByte(c)
		case c == ',' && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}
