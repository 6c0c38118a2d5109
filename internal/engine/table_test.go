package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reldb/internal/dberr"
	"reldb/internal/schema"
)

func newUsersTable(t *testing.T) *Table {
	t.Helper()
	s, err := schema.New("users", []schema.ColumnDefinition{
		{Name: "id", Type: schema.TypeInt, PrimaryKey: true},
		{Name: "name", Type: schema.TypeVarchar},
		{Name: "email", Type: schema.TypeVarchar, Unique: true, Nullable: true},
		{Name: "age", Type: schema.TypeInt, Nullable: true},
	})
	require.NoError(t, err)
	return NewTable(s)
}

func mustInsert(t *testing.T, tbl *Table, data map[string]schema.Value) *Row {
	t.Helper()
	row, err := tbl.Insert(data)
	require.NoError(t, err)
	return row
}

func user(id int64, name, email string, age int64) map[string]schema.Value {
	return map[string]schema.Value{
		"id":    schema.Int(id),
		"name":  schema.String(name),
		"email": schema.String(email),
		"age":   schema.Int(age),
	}
}

func TestInsert_OK(t *testing.T) {
	tbl := newUsersTable(t)

	row := mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	assert.Equal(t, []string{"id", "name", "email", "age"}, row.Columns())
	assert.Equal(t, 1, tbl.Count())
}

func TestInsert_ValidatesBeforeCoercing(t *testing.T) {
	tbl := newUsersTable(t)

	// validation is strict: a textual "30" never reaches coercion
	_, err := tbl.Insert(map[string]schema.Value{
		"id":   schema.Int(1),
		"name": schema.String("alice"),
		"age":  schema.String("30"),
	})
	require.Error(t, err)
	assert.True(t, dberr.IsSchema(err))
}

func TestInsert_ValidationRejectsStringForInt(t *testing.T) {
	tbl := newUsersTable(t)

	_, err := tbl.Insert(map[string]schema.Value{
		"id":   schema.String("1"),
		"name": schema.String("alice"),
	})
	require.Error(t, err)
	assert.True(t, dberr.IsSchema(err))
	assert.Equal(t, 0, tbl.Count())
}

func TestInsert_PrimaryKeyViolation(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	_, err := tbl.Insert(user(1, "bob", "bob@x.io", 25))
	require.Error(t, err)
	assert.True(t, dberr.IsConstraint(err))
	assert.Contains(t, err.Error(), "primary key violation")
	assert.Equal(t, 1, tbl.Count())
}

func TestInsert_UniqueViolation(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	_, err := tbl.Insert(user(2, "bob", "alice@x.io", 25))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique constraint violation")
}

func TestInsert_NullsDoNotCollideOnUnique(t *testing.T) {
	tbl := newUsersTable(t)

	mustInsert(t, tbl, map[string]schema.Value{
		"id": schema.Int(1), "name": schema.String("a"), "email": schema.Null,
	})
	mustInsert(t, tbl, map[string]schema.Value{
		"id": schema.Int(2), "name": schema.String("b"), "email": schema.Null,
	})
	assert.Equal(t, 2, tbl.Count())
}

func TestSelectAll_SnapshotIsStable(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	snap := tbl.SelectAll()
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))
	assert.Len(t, snap, 1)
}

func TestSelectWhere(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))

	rows, err := tbl.SelectWhere(func(r *Row) (bool, error) {
		return r.Value("age") == schema.Int(25), nil
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.String("bob"), rows[0].Value("name"))
}

func TestSelectWhere_PredicateError(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	_, err := tbl.SelectWhere(func(*Row) (bool, error) {
		return false, dberr.Schemaf("boom")
	})
	require.Error(t, err)
}

func TestSelectByColumn_UsesIndex(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))

	rows, err := tbl.SelectByColumn("id", schema.Int(2))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.String("bob"), rows[0].Value("name"))
}

func TestSelectByColumn_ScanFallback(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 30))

	rows, err := tbl.SelectByColumn("age", schema.Int(30))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSelectByColumn_NullProbeFindsNullRows(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, map[string]schema.Value{
		"id": schema.Int(2), "name": schema.String("bob"), "email": schema.Null,
	})

	// the email index has no NULL entry, so this must go through the scan
	rows, err := tbl.SelectByColumn("email", schema.Null)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.Int(2), rows[0].Value("id"))

	scanned, err := tbl.SelectWhere(func(r *Row) (bool, error) {
		return r.Value("email").IsNull(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, scanned, rows)
}

func TestSelectByColumn_UnknownColumn(t *testing.T) {
	tbl := newUsersTable(t)

	_, err := tbl.SelectByColumn("nope", schema.Int(1))
	require.Error(t, err)
	assert.True(t, dberr.IsLookup(err))
}

func TestUpdateWhere_OK(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))

	n, err := tbl.UpdateWhere(func(r *Row) (bool, error) {
		return r.Value("id") == schema.Int(2), nil
	}, map[string]schema.Value{"age": schema.Int(26)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := tbl.SelectByColumn("id", schema.Int(2))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.Int(26), rows[0].Value("age"))
}

func TestUpdateWhere_SameValueOnOwnRow(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	// rewriting the key to itself is not a violation
	n, err := tbl.UpdateWhere(MatchAll, map[string]schema.Value{"id": schema.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateWhere_ConstraintViolation(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))

	_, err := tbl.UpdateWhere(func(r *Row) (bool, error) {
		return r.Value("id") == schema.Int(2), nil
	}, map[string]schema.Value{"email": schema.String("alice@x.io")})
	require.Error(t, err)
	assert.True(t, dberr.IsConstraint(err))
}

func TestUpdateWhere_FirstFailureStopsBatch(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 30))
	mustInsert(t, tbl, user(3, "carol", "carol@x.io", 30))

	// every 30-year-old gets bob's email; the first row already fails
	n, err := tbl.UpdateWhere(func(r *Row) (bool, error) {
		return r.Value("age") == schema.Int(30), nil
	}, map[string]schema.Value{"email": schema.String("bob@x.io")})
	require.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestUpdateWhere_IndexMovesWithValue(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	_, err := tbl.UpdateWhere(MatchAll, map[string]schema.Value{"id": schema.Int(9)})
	require.NoError(t, err)

	rows, err := tbl.SelectByColumn("id", schema.Int(1))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = tbl.SelectByColumn("id", schema.Int(9))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUpdateWhere_RejectsMistypedUpdate(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	n, err := tbl.UpdateWhere(MatchAll, map[string]schema.Value{"age": schema.String("31")})
	require.Error(t, err)
	assert.Equal(t, 0, n)

	rows := tbl.SelectAll()
	assert.Equal(t, schema.Int(30), rows[0].Value("age"))
}

func TestDeleteWhere_OK(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))
	mustInsert(t, tbl, user(3, "carol", "carol@x.io", 35))

	n, err := tbl.DeleteWhere(func(r *Row) (bool, error) {
		return r.Value("id") == schema.Int(2), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, tbl.Count())
}

func TestDeleteWhere_ReindexesShiftedRows(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 25))
	mustInsert(t, tbl, user(3, "carol", "carol@x.io", 35))

	_, err := tbl.DeleteWhere(func(r *Row) (bool, error) {
		return r.Value("id") == schema.Int(1), nil
	})
	require.NoError(t, err)

	// carol shifted from position 2 to 1; her index entry must follow
	rows, err := tbl.SelectByColumn("id", schema.Int(3))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.String("carol"), rows[0].Value("name"))
}

func TestDeleteWhere_MultipleMatches(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	mustInsert(t, tbl, user(2, "bob", "bob@x.io", 30))
	mustInsert(t, tbl, user(3, "carol", "carol@x.io", 35))

	n, err := tbl.DeleteWhere(func(r *Row) (bool, error) {
		return r.Value("age") == schema.Int(30), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := tbl.SelectAll()
	require.Len(t, rows, 1)
	assert.Equal(t, schema.String("carol"), rows[0].Value("name"))
}

func TestDeleteWhere_FreedKeyIsReusable(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	_, err := tbl.DeleteWhere(MatchAll)
	require.NoError(t, err)

	mustInsert(t, tbl, user(1, "bob", "bob@x.io", 25))
	assert.Equal(t, 1, tbl.Count())
}

func TestClear_KeepsSchema(t *testing.T) {
	tbl := newUsersTable(t)
	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))

	tbl.clear()
	assert.True(t, tbl.IsEmpty())

	mustInsert(t, tbl, user(1, "alice", "alice@x.io", 30))
	assert.Equal(t, 1, tbl.Count())
}
