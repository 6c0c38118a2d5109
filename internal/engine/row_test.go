package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/schema"
)

func sampleRow() *Row {
	return NewRow([]string{"id", "name"}, map[string]schema.Value{
		"id":   schema.Int(1),
		"name": schema.String("alice"),
	})
}

func TestNewRow_MissingValuesAreNull(t *testing.T) {
	r := NewRow([]string{"a", "b"}, map[string]schema.Value{"a": schema.Int(1)})

	v, ok := r.Get("b")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestRow_GetAndValue(t *testing.T) {
	r := sampleRow()

	v, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, schema.String("alice"), v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.True(t, r.Value("missing").IsNull())
}

func TestRow_ColumnsOrder(t *testing.T) {
	r := sampleRow()
	assert.Equal(t, []string{"id", "name"}, r.Columns())
	assert.Equal(t, 2, r.Len())
}

func TestRow_WithValue_DoesNotMutateReceiver(t *testing.T) {
	r := sampleRow()
	r2 := r.WithValue("name", schema.String("bob"))

	assert.Equal(t, schema.String("alice"), r.Value("name"))
	assert.Equal(t, schema.String("bob"), r2.Value("name"))
}

func TestRow_WithValue_AppendsNewColumn(t *testing.T) {
	r := sampleRow().WithValue("age", schema.Int(30))
	assert.Equal(t, []string{"id", "name", "age"}, r.Columns())
}

func TestRow_WithoutColumn(t *testing.T) {
	r := sampleRow().WithoutColumn("name")
	assert.Equal(t, []string{"id"}, r.Columns())
	assert.False(t, r.Has("name"))
}

func TestRow_WithColumns_NewColumnsSorted(t *testing.T) {
	r := sampleRow().WithColumns(map[string]schema.Value{
		"zz":   schema.Int(1),
		"aa":   schema.Int(2),
		"name": schema.String("bob"),
	})

	assert.Equal(t, []string{"id", "name", "aa", "zz"}, r.Columns())
	assert.Equal(t, schema.String("bob"), r.Value("name"))
}

func TestRow_Project(t *testing.T) {
	r := sampleRow().Project([]string{"name", "missing"})
	assert.Equal(t, []string{"name"}, r.Columns())
}

func TestRow_String(t *testing.T) {
	assert.Equal(t, "Row(id=1, name=alice)", sampleRow().String())
}
