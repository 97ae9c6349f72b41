package datatable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatColumn(t *testing.T) {
	t.Run("AppendsSuffix", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"age": 25}, {"age": 30}})
		require.NoError(t, err)

		require.NoError(t, m.FormatColumn("age", func(v any) any {
			return fmt.Sprintf("%vy", v)
		}))

		vals, err := m.ColumnValues("age")
		require.NoError(t, err)
		assert.Equal(t, []any{"25y", "30y"}, vals)
	})

	t.Run("NilFormatterRejected", func(t *testing.T) {
		m, err := NewFromColumns([]string{"age"})
		require.NoError(t, err)

		var ia *ErrInvalidArgument
		assert.ErrorAs(t, m.FormatColumn("age", nil), &ia)
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		m := New()
		var cnf *ErrColumnNotFound
		assert.ErrorAs(t, m.FormatColumn("ghost", func(v any) any { return v }), &cnf)
	})

	t.Run("FormatterCannotAliasTableState", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"meta": map[string]any{"k": "v"}}})
		require.NoError(t, err)

		var captured map[string]any
		require.NoError(t, m.FormatColumn("meta", func(v any) any {
			captured = v.(map[string]any)
			return v
		}))
		captured["k"] = "poisoned"

		r, err := m.RowAt(0)
		require.NoError(t, err)
		assert.Equal(t, "v", r["meta"].(map[string]any)["k"])
	})
}

func TestValidateColumn(t *testing.T) {
	m, err := NewFromRows([]Row{{"age": 25}, {"age": -1}, {"age": 30}})
	require.NoError(t, err)

	nonNegative := func(v any) bool {
		n, ok := v.(int)
		return ok && n >= 0
	}

	t.Run("AllValid", func(t *testing.T) {
		ok, err := m.ValidateColumn("age", func(v any) bool { return v != nil })
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("FirstOffender", func(t *testing.T) {
		ok, err := m.ValidateColumn("age", nonNegative)
		require.NoError(t, err)
		assert.False(t, ok)

		i, r, err := m.FirstInvalidRow("age", nonNegative)
		require.NoError(t, err)
		assert.Equal(t, 1, i)
		assert.Equal(t, Row{"age": -1}, r)
	})

	t.Run("NoOffender", func(t *testing.T) {
		i, r, err := m.FirstInvalidRow("age", func(v any) bool { return true })
		require.NoError(t, err)
		assert.Equal(t, -1, i)
		assert.Nil(t, r)
	})

	t.Run("NilValidatorRejected", func(t *testing.T) {
		var ia *ErrInvalidArgument
		_, err := m.ValidateColumn("age", nil)
		assert.ErrorAs(t, err, &ia)
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		var cnf *ErrColumnNotFound
		_, _, err := m.FirstInvalidRow("ghost", nonNegative)
		assert.ErrorAs(t, err, &cnf)
	})
}

func TestNullScan(t *testing.T) {
	m, err := NewFromRows([]Row{
		{"name": "A"},
		{"name": nil},
		{"name": "C"},
	})
	require.NoError(t, err)

	ok, err := m.HasNoNulls("name")
	require.NoError(t, err)
	assert.False(t, ok)

	i, r, err := m.FirstNullRow("name")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, Row{"name": nil}, r)

	require.NoError(t, m.SetValue(1, "name", "B"))
	ok, err = m.HasNoNulls("name")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDuplicateScan(t *testing.T) {
	t.Run("FirstLaterOccurrenceReported", func(t *testing.T) {
		m, err := NewFromRows([]Row{
			{"name": "A"},
			{"name": "B"},
			{"name": "A"},
		})
		require.NoError(t, err)

		ok, err := m.HasNoDuplicates("name")
		require.NoError(t, err)
		assert.False(t, ok)

		i, r, err := m.FirstDuplicateRow("name")
		require.NoError(t, err)
		assert.Equal(t, 2, i)
		assert.Equal(t, Row{"name": "A"}, r)
	})

	t.Run("StructuralEqualityIsKeyOrderIndependent", func(t *testing.T) {
		m, err := NewFromColumns([]string{"obj"})
		require.NoError(t, err)
		require.NoError(t, m.AppendRow(Row{"obj": map[string]any{"a": 1, "b": 2}}))
		require.NoError(t, m.AppendRow(Row{"obj": map[string]any{"b": 2, "a": 1}}))

		i, _, err := m.FirstDuplicateRow("obj")
		require.NoError(t, err)
		assert.Equal(t, 1, i)
	})

	t.Run("NoDuplicates", func(t *testing.T) {
		m, err := NewFromRows([]Row{{"n": 1}, {"n": 2}})
		require.NoError(t, err)

		ok, err := m.HasNoDuplicates("n")
		require.NoError(t, err)
		assert.True(t, ok)

		i, r, err := m.FirstDuplicateRow("n")
		require.NoError(t, err)
		assert.Equal(t, -1, i)
		assert.Nil(t, r)
	})

	t.Run("NestedModelsComparedByContent", func(t *testing.T) {
		a, err := NewFromRows([]Row{{"x": 1}})
		require.NoError(t, err)
		b, err := NewFromRows([]Row{{"y": "totally different"}})
		require.NoError(t, err)

		m, err := NewFromColumns([]string{"table"})
		require.NoError(t, err)
		require.NoError(t, m.AppendRow(Row{"table": a}))
		require.NoError(t, m.AppendRow(Row{"table": b}))

		// Disjoint contents are not duplicates.
		i, _, err := m.FirstDuplicateRow("table")
		require.NoError(t, err)
		assert.Equal(t, -1, i)

		// Equal contents are.
		require.NoError(t, m.AppendRow(Row{"table": a.Clone()}))
		i, _, err = m.FirstDuplicateRow("table")
		require.NoError(t, err)
		assert.Equal(t, 2, i)
	})
}
