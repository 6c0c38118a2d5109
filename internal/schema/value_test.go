package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/dberr"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.Equal(t, Null, v)
}

func TestValue_Constructors(t *testing.T) {
	assert.Equal(t, KindInt, Int(42).Kind())
	assert.Equal(t, int64(42), Int(42).Int())

	assert.Equal(t, KindString, String("hi").Kind())
	assert.Equal(t, "hi", String("hi").Str())

	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.True(t, Bool(true).Bool())
}

func TestValue_Equality(t *testing.T) {
	assert.Equal(t, Int(1), Int(1))
	assert.NotEqual(t, Int(1), Int(2))
	assert.NotEqual(t, Int(1), String("1"))
	assert.Equal(t, Null, Null)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "NULL", Null.String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "hi", String("hi").String())
	assert.Equal(t, "true", Bool(true).String())
}

func TestValue_CompareInt(t *testing.T) {
	cmp, err := Int(1).Compare(Int(2))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Int(2).Compare(Int(2))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	cmp, err = Int(3).Compare(Int(2))
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestValue_CompareString(t *testing.T) {
	cmp, err := String("alice").Compare(String("bob"))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestValue_CompareBool(t *testing.T) {
	cmp, err := Bool(false).Compare(Bool(true))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestValue_CompareMixedKinds(t *testing.T) {
	_, err := Int(1).Compare(String("1"))
	require.Error(t, err)
	assert.True(t, dberr.IsSchema(err))
}

func TestValue_CompareNull(t *testing.T) {
	_, err := Null.Compare(Null)
	require.Error(t, err)
}

func TestValue_JSONRoundTrip(t *testing.T) {
	in := map[string]Value{
		"i": Int(7),
		"s": String("x"),
		"b": Bool(true),
		"n": Null,
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[string]Value
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestValue_UnmarshalFloatFails(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte("1.5"), &v)
	require.Error(t, err)
}
