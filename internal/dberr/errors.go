// Package dberr defines the value-level error kinds shared across the
// engine: schema violations, constraint collisions, SQL parse failures
// and unknown table/column lookups. These are ordinary errors, not
// faults; the executor converts them into structured failure results at
// statement granularity.
package dberr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindSchema Kind = iota
	KindConstraint
	KindParse
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema error"
	case KindConstraint:
		return "constraint violation"
	case KindParse:
		return "parse error"
	case KindLookup:
		return "lookup error"
	default:
		return "unknown error"
	}
}

// Error is a classified engine error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Schemaf(format string, args ...any) *Error {
	return newf(KindSchema, format, args...)
}

func Constraintf(format string, args ...any) *Error {
	return newf(KindConstraint, format, args...)
}

func Parsef(format string, args ...any) *Error {
	return newf(KindParse, format, args...)
}

func Lookupf(format string, args ...any) *Error {
	return newf(KindLookup, format, args...)
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsSchema(err error) bool     { return is(err, KindSchema) }
func IsConstraint(err error) bool { return is(err, KindConstraint) }
func IsParse(err error) bool      { return is(err, KindParse) }
func IsLookup(err error) bool     { return is(err, KindLookup) }
