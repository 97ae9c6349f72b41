package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRowShapes(t *testing.T) {
	t.Run("AppendNullRow", func(t *testing.T) {
		m, err := NewFromColumns([]string{"id", "name"})
		require.NoError(t, err)

		require.NoError(t, m.AddRow())
		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, Row{"id": nil, "name": nil}, r)
	})

	t.Run("InsertNullRowAtIndex", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}, {"id": 2}})
		require.NoError(t, err)

		require.NoError(t, m.AddRowAt(1))
		require.Equal(t, 3, m.RowCount())
		r, err := m.RowAt(1)
		require.NoError(t, err)
		assert.Equal(t, Row{"id": nil}, r)
	})

	t.Run("AppendPopulatedRow", func(t *testing.T) {
		m, err := NewFromColumns([]string{"id"})
		require.NoError(t, err)
		require.NoError(t, m.AppendRow(Row{"id": 1}))
		assert.Equal(t, 1, m.RowCount())
	})

	t.Run("InsertPopulatedRowAtIndex", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}, {"id": 3}})
		require.NoError(t, err)
		require.NoError(t, m.InsertRow(1, Row{"id": 2}))

		vals, err := m.ColumnValues("id")
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, vals)
	})

	t.Run("InsertAtCountAppends", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}})
		require.NoError(t, err)
		require.NoError(t, m.InsertRow(1, Row{"id": 2}))
		assert.Equal(t, 2, m.RowCount())
	})

	t.Run("UndeclaredTableRejectsRows", func(t *testing.T) {
		m := New()
		assert.ErrorIs(t, m.AddRow(), ErrUndeclaredTable)
		assert.ErrorIs(t, m.AddRowAt(0), ErrUndeclaredTable)
		assert.ErrorIs(t, m.AppendRow(Row{"id": 1}), ErrUndeclaredTable)
		assert.ErrorIs(t, m.InsertRow(0, Row{"id": 1}), ErrUndeclaredTable)
	})

	t.Run("InsertIndexOutOfRange", func(t *testing.T) {
		m, err := NewFromColumns([]string{"id"})
		require.NoError(t, err)

		var oor *ErrIndexOutOfRange
		assert.ErrorAs(t, m.AddRowAt(1), &oor)
		assert.ErrorAs(t, m.InsertRow(-1, Row{"id": 1}), &oor)
	})

	t.Run("UnknownKeyRejected", func(t *testing.T) {
		m, err := NewFromColumns([]string{"id"})
		require.NoError(t, err)

		var cnf *ErrColumnNotFound
		assert.ErrorAs(t, m.AppendRow(Row{"id": 1, "ghost": 2}), &cnf)
		assert.Equal(t, 0, m.RowCount())
	})
}

func TestRowReads(t *testing.T) {
	m, err := NewFromRows([]Row{{"id": 1}, {"id": 2}, {"id": 3}})
	require.NoError(t, err)

	t.Run("RowAt", func(t *testing.T) {
		r, err := m.RowAt(2)
		require.NoError(t, err)
		assert.Equal(t, Row{"id": 3}, r)

		var oor *ErrIndexOutOfRange
		_, err = m.RowAt(3)
		assert.ErrorAs(t, err, &oor)
		_, err = m.RowAt(-1)
		assert.ErrorAs(t, err, &oor)
	})

	t.Run("RowsRange", func(t *testing.T) {
		rows, err := m.RowsRange(1, 3)
		require.NoError(t, err)
		assert.Equal(t, []Row{{"id": 2}, {"id": 3}}, rows)

		_, err = m.RowsRange(2, 1)
		var oor *ErrIndexOutOfRange
		assert.ErrorAs(t, err, &oor)
	})

	t.Run("Rows", func(t *testing.T) {
		assert.Len(t, m.Rows(), 3)
	})

	t.Run("ModelAt", func(t *testing.T) {
		sub, err := m.ModelAt(1)
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, sub.Columns())
		assert.Equal(t, 1, sub.RowCount())

		r, err := sub.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, Row{"id": 2}, r)
	})

	t.Run("ModelRange", func(t *testing.T) {
		sub, err := m.ModelRange(0, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, sub.RowCount())

		// The sub-table is independent.
		require.NoError(t, sub.SetValue(0, "id", 42))
		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, 1, r["id"])
	})
}

func TestSetValue(t *testing.T) {
	m, err := NewFromRows([]Row{{"id": 1}})
	require.NoError(t, err)

	t.Run("ReplacesValue", func(t *testing.T) {
		require.NoError(t, m.SetValue(0, "id", 10))
		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, 10, r["id"])
	})

	t.Run("NilIsLegal", func(t *testing.T) {
		require.NoError(t, m.SetValue(0, "id", nil))
		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Nil(t, r["id"])
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		var cnf *ErrColumnNotFound
		assert.ErrorAs(t, m.SetValue(0, "ghost", 1), &cnf)
	})

	t.Run("BadIndex", func(t *testing.T) {
		var oor *ErrIndexOutOfRange
		assert.ErrorAs(t, m.SetValue(5, "id", 1), &oor)
	})
}

func TestRemoveRow(t *testing.T) {
	m, err := NewFromRows([]Row{{"id": 1}, {"id": 2}, {"id": 3}})
	require.NoError(t, err)

	r, err := m.RemoveRow(1)
	require.NoError(t, err)
	assert.Equal(t, Row{"id": 2}, r)

	vals, err := m.ColumnValues("id")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 3}, vals)

	var oor *ErrIndexOutOfRange
	_, err = m.RemoveRow(2)
	assert.ErrorAs(t, err, &oor)
}

func TestColumnValues(t *testing.T) {
	m, err := NewFromRows([]Row{
		{"id": 1, "meta": map[string]any{"k": "v"}},
		{"id": 2, "meta": nil},
	})
	require.NoError(t, err)

	vals, err := m.ColumnValues("meta")
	require.NoError(t, err)
	require.Len(t, vals, 2)

	// Each value is independently copied.
	vals[0].(map[string]any)["k"] = "mutated"
	r, err := m.RowAt(0)
	require.NoError(t, err)
	assert.Equal(t, "v", r["meta"].(map[string]any)["k"])

	_, err = m.ColumnValues("ghost")
	var cnf *ErrColumnNotFound
	assert.ErrorAs(t, err, &cnf)
}

func TestFillColumn(t *testing.T) {
	t.Run("ExistingColumn", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}, {"id": 2}})
		require.NoError(t, err)
		require.NoError(t, m.FillColumn("id", 0))

		vals, err := m.ColumnValues("id")
		require.NoError(t, err)
		assert.Equal(t, []any{0, 0}, vals)
	})

	t.Run("AutoDeclares", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}})
		require.NoError(t, err)
		require.NoError(t, m.FillColumn("flag", true))

		assert.True(t, m.HasColumn("flag"))
		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, true, r["flag"])
	})

	t.Run("RowsDoNotShareTheFill", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"id": 1}, {"id": 2}})
		require.NoError(t, err)
		require.NoError(t, m.FillColumn("meta", map[string]any{"n": 0}))

		r0, err := m.RowAt(0)
		require.NoError(t, err)
		r0["meta"].(map[string]any)["n"] = 99
		require.NoError(t, m.SetValue(0, "meta", r0["meta"]))

		r1, err := m.RowAt(1)
		require.NoError(t, err)
		assert.Equal(t, 0, r1["meta"].(map[string]any)["n"])
	})
}
