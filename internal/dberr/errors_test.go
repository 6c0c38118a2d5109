package dberr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetKind(t *testing.T) {
	assert.True(t, IsSchema(Schemaf("x")))
	assert.True(t, IsConstraint(Constraintf("x")))
	assert.True(t, IsParse(Parsef("x")))
	assert.True(t, IsLookup(Lookupf("x")))
}

func TestPredicatesAreExclusive(t *testing.T) {
	err := Schemaf("x")
	assert.False(t, IsConstraint(err))
	assert.False(t, IsParse(err))
	assert.False(t, IsLookup(err))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("insert: %w", Constraintf("duplicate key"))
	assert.True(t, IsConstraint(err))
}

func TestErrorMessage(t *testing.T) {
	err := Schemaf("unknown column %q", "age")
	assert.Equal(t, `unknown column "age"`, err.Error())
}

func TestPredicatesRejectPlainErrors(t *testing.T) {
	assert.False(t, IsSchema(fmt.Errorf("plain")))
	assert.False(t, IsSchema(nil))
}
