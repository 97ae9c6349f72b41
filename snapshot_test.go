package datatable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(comp), func(t *testing.T) {
			m, err := NewFromRows([]Row{
				{"id": 1, "name": "Alice"},
				{"id": 2, "name": nil},
			})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, m.WriteSnapshot(&buf, WithCompression(comp)))

			got, err := ReadSnapshot(&buf)
			require.NoError(t, err)

			assert.Equal(t, m.Columns(), got.Columns())
			assert.Equal(t, m.RowCount(), got.RowCount())

			r, err := got.RowAt(0)
			require.NoError(t, err)
			// JSON decoding widens numbers to float64.
			assert.Equal(t, float64(1), r["id"])
			assert.Equal(t, "Alice", r["name"])
		})
	}
}

func TestSnapshotKeepsColumnOrder(t *testing.T) {
	m, err := NewFromColumns([]string{"z", "a", "m"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteSnapshot(&buf))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, got.Columns())
}

func TestSnapshotEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().WriteSnapshot(&buf))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.False(t, got.IsDeclared())
	assert.Equal(t, 0, got.RowCount())
}

func TestSnapshotHeader(t *testing.T) {
	t.Run("RecordsCodecAndCompression", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, New().WriteSnapshot(&buf, WithCompression(CompressionLZ4)))

		header, err := bytes.NewBuffer(buf.Bytes()).ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "DTSNAP1 go-json lz4", strings.TrimSpace(header))
	})

	t.Run("BadMagic", func(t *testing.T) {
		_, err := ReadSnapshot(strings.NewReader("NOTSNAP json none\n[]"))
		assert.ErrorContains(t, err, "bad magic")
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		_, err := ReadSnapshot(strings.NewReader("DTSNAP1 msgpack none\n[]"))
		assert.ErrorContains(t, err, "unknown snapshot codec")
	})

	t.Run("UnknownCompression", func(t *testing.T) {
		_, err := ReadSnapshot(strings.NewReader("DTSNAP1 json brotli\n[]"))
		assert.ErrorContains(t, err, "unknown snapshot compression")
	})
}

func TestSnapshotUnknownCompressionRejectedOnWrite(t *testing.T) {
	var buf bytes.Buffer
	err := New().WriteSnapshot(&buf, WithCompression("brotli"))
	var ia *ErrInvalidArgument
	assert.ErrorAs(t, err, &ia)
}
