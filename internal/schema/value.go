package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"reldb/internal/dberr"
)

// ValueKind tags the dynamic value slot. SQL literals and stored cell
// values are always one of these four kinds.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInt
	KindString
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInt:
		return "INT"
	case KindString:
		return "VARCHAR"
	case KindBool:
		return "BOOLEAN"
	default:
		return "INVALID"
	}
}

// Value is a tagged variant over int/string/bool/null. The zero Value
// is NULL. Value is comparable, so it can key the constraint indexes
// directly; == equality matches coercion semantics exactly (a coerced
// cell and a coerced literal of the same kind and payload are equal).
type Value struct {
	kind ValueKind
	i    int64
	s    string
	b    bool
}

var Null = Value{}

func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// Int returns the int payload; zero unless Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Str returns the string payload; empty unless Kind() == KindString.
func (v Value) Str() string { return v.s }

// Bool returns the bool payload; false unless Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "INVALID"
	}
}

// Compare orders v against other using the natural ordering of the
// underlying type: numeric for INT, lexicographic for VARCHAR, and
// false < true for BOOLEAN. NULL does not order against anything, and
// neither do mixed kinds.
func (v Value) Compare(other Value) (int, error) {
	if v.kind != other.kind || v.kind == KindNull {
		return 0, dberr.Schemaf("cannot compare %s with %s", v.kind, other.kind)
	}
	switch v.kind {
	case KindInt:
		switch {
		case v.i < other.i:
			return -1, nil
		case v.i > other.i:
			return 1, nil
		}
		return 0, nil
	case KindString:
		switch {
		case v.s < other.s:
			return -1, nil
		case v.s > other.s:
			return 1, nil
		}
		return 0, nil
	case KindBool:
		switch {
		case !v.b && other.b:
			return -1, nil
		case v.b && !other.b:
			return 1, nil
		}
		return 0, nil
	default:
		return 0, dberr.Schemaf("cannot compare %s values", v.kind)
	}
}

// MarshalJSON renders the value as its plain JSON counterpart:
// number, string, boolean or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindString:
		return json.Marshal(v.s)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return nil, fmt.Errorf("invalid value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	default:
		var i int64
		if err := json.Unmarshal(data, &i); err != nil {
			return fmt.Errorf("unsupported JSON value %s: %w", data, err)
		}
		*v = Int(i)
		return nil
	}
}
