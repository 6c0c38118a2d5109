package executor

import (
	"strings"

	"reldb/internal/dberr"
	"reldb/internal/engine"
	"reldb/internal/schema"
	"reldb/internal/sql/parser"
)

// CompareOp is one of the four supported WHERE comparison operators.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "!="
	OpGt CompareOp = ">"
	OpLt CompareOp = "<"
)

// Condition is one compiled WHERE comparison: a bare or qualified
// column name against a literal. Boolean composition is out of scope.
type Condition struct {
	Column string
	Op     CompareOp
	Value  schema.Value
}

// CompileCondition splits cond at the first operator occurrence
// outside quoted strings. A '=' directly preceded by '!' is read as
// '!=' so inequality never degrades into a broken equality split.
func CompileCondition(cond string) (*Condition, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil, dberr.Parsef("empty WHERE clause")
	}

	idx, opLen, op := findOperator(cond)
	if idx < 0 {
		return nil, dberr.Parsef("unsupported WHERE clause: %q", cond)
	}

	column := strings.TrimSpace(cond[:idx])
	if column == "" {
		return nil, dberr.Parsef("missing column in WHERE clause: %q", cond)
	}
	rhs := strings.TrimSpace(cond[idx+opLen:])
	if rhs == "" {
		return nil, dberr.Parsef("missing value in WHERE clause: %q", cond)
	}

	return &Condition{Column: column, Op: op, Value: parser.ParseLiteral(rhs)}, nil
}

func findOperator(s string) (idx, length int, op CompareOp) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '=':
			if i > 0 && s[i-1] == '!' {
				return i - 1, 2, OpNe
			}
			return i, 1, OpEq
		case '!':
			if i+1 < len(s) && s[i+1] == '=' {
				return i, 2, OpNe
			}
		case '>':
			return i, 1, OpGt
		case '<':
			return i, 1, OpLt
		}
	}
	return -1, 0, ""
}

// Predicate compiles the condition into a row predicate. Equality and
// inequality are exact value comparisons (NULL equals NULL); ordering
// operators use the natural ordering of the operand type and fail at
// evaluation time when the operands are not comparable.
func (c *Condition) Predicate() engine.Predicate {
	return func(row *engine.Row) (bool, error) {
		v := row.Value(c.Column)
		switch c.Op {
		case OpEq:
			return v == c.Value, nil
		case OpNe:
			return v != c.Value, nil
		case OpGt:
			cmp, err := v.Compare(c.Value)
			if err != nil {
				return false, err
			}
			return cmp > 0, nil
		case OpLt:
			cmp, err := v.Compare(c.Value)
			if err != nil {
				return false, err
			}
			return cmp < 0, nil
		default:
			return false, dberr.Parsef("unsupported operator %q", c.Op)
		}
	}
}

// compileWhere turns raw WHERE text into a predicate; empty text
// matches every row.
func compileWhere(where string) (engine.Predicate, error) {
	if strings.TrimSpace(where) == "" {
		return engine.MatchAll, nil
	}
	cond, err := CompileCondition(where)
	if err != nil {
		return nil, err
	}
	return cond.Predicate(), nil
}
