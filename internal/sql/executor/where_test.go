package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/engine"
	"reldb/internal/schema"
)

func condRow(vals map[string]schema.Value) *engine.Row {
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	return engine.NewRow(names, vals)
}

func TestCompileCondition_Equality(t *testing.T) {
	c, err := CompileCondition("age = 30")
	require.NoError(t, err)
	assert.Equal(t, &Condition{Column: "age", Op: OpEq, Value: schema.Int(30)}, c)
}

func TestCompileCondition_Inequality(t *testing.T) {
	c, err := CompileCondition("name != 'alice'")
	require.NoError(t, err)
	assert.Equal(t, OpNe, c.Op)
	assert.Equal(t, "name", c.Column)
	assert.Equal(t, schema.String("alice"), c.Value)
}

func TestCompileCondition_Ordering(t *testing.T) {
	c, err := CompileCondition("age > 21")
	require.NoError(t, err)
	assert.Equal(t, OpGt, c.Op)

	c, err = CompileCondition("age < 21")
	require.NoError(t, err)
	assert.Equal(t, OpLt, c.Op)
}

func TestCompileCondition_OperatorInsideQuotes(t *testing.T) {
	c, err := CompileCondition("name = 'a=b'")
	require.NoError(t, err)
	assert.Equal(t, "name", c.Column)
	assert.Equal(t, schema.String("a=b"), c.Value)
}

func TestCompileCondition_Invalid(t *testing.T) {
	_, err := CompileCondition("")
	require.Error(t, err)

	_, err = CompileCondition("age LIKE 3")
	require.Error(t, err)

	_, err = CompileCondition("= 3")
	require.Error(t, err)

	_, err = CompileCondition("age =")
	require.Error(t, err)
}

func TestPredicate_Equality(t *testing.T) {
	c, err := CompileCondition("age = 30")
	require.NoError(t, err)
	pred := c.Predicate()

	ok, err := pred(condRow(map[string]schema.Value{"age": schema.Int(30)}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pred(condRow(map[string]schema.Value{"age": schema.Int(31)}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredicate_NullEqualsNull(t *testing.T) {
	c, err := CompileCondition("email = NULL")
	require.NoError(t, err)
	pred := c.Predicate()

	ok, err := pred(condRow(map[string]schema.Value{"email": schema.Null}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pred(condRow(map[string]schema.Value{"email": schema.String("x")}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredicate_MissingColumnIsNull(t *testing.T) {
	c, err := CompileCondition("ghost = 1")
	require.NoError(t, err)
	pred := c.Predicate()

	ok, err := pred(condRow(map[string]schema.Value{"age": schema.Int(1)}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredicate_OrderingErrorsOnMixedKinds(t *testing.T) {
	c, err := CompileCondition("age > 'abc'")
	require.NoError(t, err)
	pred := c.Predicate()

	_, err = pred(condRow(map[string]schema.Value{"age": schema.Int(30)}))
	require.Error(t, err)
}

func TestPredicate_StringOrdering(t *testing.T) {
	c, err := CompileCondition("name < 'm'")
	require.NoError(t, err)
	pred := c.Predicate()

	ok, err := pred(condRow(map[string]schema.Value{"name": schema.String("alice")}))
	require.NoError(t, err)
	assert.True(t, ok)
}
