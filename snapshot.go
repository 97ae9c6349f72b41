package datatable

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/datatable/codec"
)

// Compression selects the snapshot payload compression.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// snapshotMagic identifies snapshot files. The version suffix guards the
// header layout, not the payload encoding: payload codec and compression
// are recorded in the header itself.
const snapshotMagic = "DTSNAP1"

type snapshotOptions struct {
	compression Compression
}

// SnapshotOption configures WriteSnapshot.
type SnapshotOption func(*snapshotOptions)

// WithCompression selects the payload compression. Default is zstd.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// snapshotPayload is the persisted shape. Unlike Serialize, snapshots keep
// the declared column order.
type snapshotPayload struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// WriteSnapshot writes a self-describing snapshot of the table: a header
// line carrying the magic, codec name and compression name, followed by the
// compressed payload.
func (m *DataModel) WriteSnapshot(w io.Writer, opts ...SnapshotOption) (err error) {
	o := snapshotOptions{compression: CompressionZstd}
	for _, fn := range opts {
		fn(&o)
	}
	defer func() {
		m.logger.WithRowCount(len(m.rows)).LogSnapshot("write", m.codec.Name(), string(o.compression), err)
	}()

	rows := m.rows
	if rows == nil {
		rows = []Row{}
	}
	switch o.compression {
	case CompressionNone, CompressionZstd, CompressionLZ4:
	default:
		return invalidArg("compression", fmt.Sprintf("unknown compression %q", o.compression))
	}

	body, err := m.codec.Marshal(snapshotPayload{Columns: m.Columns(), Rows: rows})
	if err != nil {
		return fmt.Errorf("encode snapshot payload: %w", err)
	}

	if _, err = fmt.Fprintf(w, "%s %s %s\n", snapshotMagic, m.codec.Name(), o.compression); err != nil {
		return err
	}

	switch o.compression {
	case CompressionNone:
		_, err = w.Write(body)
		return err
	case CompressionZstd:
		zw, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return zerr
		}
		if _, err = zw.Write(body); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	default:
		lw := lz4.NewWriter(w)
		if _, err = lw.Write(body); err != nil {
			_ = lw.Close()
			return err
		}
		return lw.Close()
	}
}

// ReadSnapshot reads a snapshot written by WriteSnapshot and reconstructs
// the table. The codec named in the header must be a built-in; the opts
// configure the resulting table (converter hook, logger), while its codec
// follows the header.
func ReadSnapshot(r io.Reader, opts ...Option) (*DataModel, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	var magic, codecName, compression string
	if _, err := fmt.Sscanf(header, "%s %s %s", &magic, &codecName, &compression); err != nil {
		return nil, fmt.Errorf("parse snapshot header: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("not a snapshot: bad magic %q", magic)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("unknown snapshot codec %q", codecName)
	}

	var body []byte
	switch Compression(compression) {
	case CompressionNone:
		body, err = io.ReadAll(br)
	case CompressionZstd:
		var zr *zstd.Decoder
		if zr, err = zstd.NewReader(br); err == nil {
			body, err = io.ReadAll(zr)
			zr.Close()
		}
	case CompressionLZ4:
		body, err = io.ReadAll(lz4.NewReader(br))
	default:
		return nil, fmt.Errorf("unknown snapshot compression %q", compression)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot payload: %w", err)
	}

	var payload snapshotPayload
	if err := c.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode snapshot payload: %w", err)
	}

	m := New(append(opts, WithCodec(c))...)
	if err := m.AddColumns(payload.Columns...); err != nil {
		return nil, err
	}
	for _, row := range payload.Rows {
		if err := m.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return m, nil
}
