package wrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/datatable"
)

func TestValueTags(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		v := TextValue("hello")
		assert.Equal(t, KindText, v.Kind())

		s, ok := v.AsText()
		require.True(t, ok)
		assert.Equal(t, "hello", s)

		_, ok = v.AsModel()
		assert.False(t, ok)
	})

	t.Run("Model", func(t *testing.T) {
		m, err := datatable.NewFromRows([]datatable.Row{{"id": 1}})
		require.NoError(t, err)

		v := ModelValue(m)
		assert.Equal(t, KindModel, v.Kind())

		_, ok := v.AsText()
		assert.False(t, ok)

		got, ok := v.AsModel()
		require.True(t, ok)
		assert.Equal(t, 1, got.RowCount())
	})

	t.Run("ZeroValueInvalid", func(t *testing.T) {
		var v Value
		assert.Equal(t, "invalid", v.Kind().String())
	})
}

func TestPutGet(t *testing.T) {
	w := New()

	require.NoError(t, w.PutText("greeting", "hi"))

	m, err := datatable.NewFromRows([]datatable.Row{{"id": 1}})
	require.NoError(t, err)
	require.NoError(t, w.PutModel("table", m))

	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []string{"greeting", "table"}, w.Keys())

	s, ok := w.Text("greeting")
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	got, ok := w.Model("table")
	require.True(t, ok)
	assert.Equal(t, 1, got.RowCount())

	_, ok = w.Get("missing")
	assert.False(t, ok)

	t.Run("EmptyKeyRejected", func(t *testing.T) {
		assert.Error(t, w.PutText("", "x"))
	})

	t.Run("NilModelRejected", func(t *testing.T) {
		assert.Error(t, w.PutModel("k", nil))
	})

	t.Run("InvalidValueRejected", func(t *testing.T) {
		assert.Error(t, w.Put("k", Value{}))
	})
}

func TestModelIsolation(t *testing.T) {
	m, err := datatable.NewFromRows([]datatable.Row{{"id": 1}})
	require.NoError(t, err)

	w := New()
	require.NoError(t, w.PutModel("t", m))

	// Mutating the original after Put does not reach the stored copy.
	require.NoError(t, m.SetValue(0, "id", 99))
	got, ok := w.Model("t")
	require.True(t, ok)
	r, err := got.RowAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1, r["id"])

	// Mutating what Get returned does not reach the stored copy either.
	require.NoError(t, got.SetValue(0, "id", 7))
	again, ok := w.Model("t")
	require.True(t, ok)
	r, err = again.RowAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1, r["id"])
}

func TestRemoveClear(t *testing.T) {
	w := New()
	require.NoError(t, w.PutText("a", "1"))
	require.NoError(t, w.PutText("b", "2"))

	assert.True(t, w.Remove("a"))
	assert.False(t, w.Remove("a"))
	assert.Equal(t, 1, w.Len())

	w.Clear()
	assert.Equal(t, 0, w.Len())
}

func TestClone(t *testing.T) {
	m, err := datatable.NewFromRows([]datatable.Row{{"id": 1}})
	require.NoError(t, err)

	w := New()
	require.NoError(t, w.PutText("name", "x"))
	require.NoError(t, w.PutModel("t", m))

	c := w.Clone()
	require.NoError(t, c.PutText("name", "changed"))

	s, ok := w.Text("name")
	require.True(t, ok)
	assert.Equal(t, "x", s)

	got, ok := c.Model("t")
	require.True(t, ok)
	require.NoError(t, got.SetValue(0, "id", 5))

	orig, ok := w.Model("t")
	require.True(t, ok)
	r, err := orig.RowAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1, r["id"])
}

func TestSerialize(t *testing.T) {
	m, err := datatable.NewFromRows([]datatable.Row{{"id": 1}})
	require.NoError(t, err)

	w := New()
	require.NoError(t, w.PutText("note", "hi"))
	require.NoError(t, w.PutModel("t", m))

	b, err := w.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"note":"hi","t":[{"id":1}]}`, string(b))
}
