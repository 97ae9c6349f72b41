// Package datatable provides an embeddable in-memory tabular data engine.
//
// A DataModel is a mutable, column-declared table (rows × named columns)
// used as a serializable unit of data exchange. It guarantees:
//
//   - strict column/row shape consistency across arbitrary insert, remove
//     and format operations: every row of a declared table carries a value
//     (possibly nil, never absent) for every declared column and nothing else
//   - full read/write isolation through recursive, cycle-safe deep copies of
//     everything crossing the table boundary (see the deepcopy package)
//   - pluggable per-column validation and formatting
//   - stable search/filter/sort with explicit null and duplicate policy
//
// # Quick Start
//
//	m, err := datatable.NewFromRows([]datatable.Row{
//	    {"id": 1, "name": "Alice"},
//	    {"id": 2, "name": "Bob"},
//	})
//	if err != nil { ... }
//
//	idx, _ := m.SearchRowIndexes(datatable.Condition{"name": "Bob"}, false)
//	_ = m.SortRowsAscending("id", true)
//	b, _ := m.Serialize()
//
// # Concurrency
//
// All operations are synchronous and perform no I/O. A DataModel is not
// safe for unsynchronized concurrent mutation; the required discipline is
// single-owner access or caller-supplied mutual exclusion around any call
// sequence that must appear atomic. Values returned by read operations are
// isolated copies and may be shared freely once produced.
package datatable

import (
	"fmt"
	"sort"

	"github.com/hupe1980/datatable/codec"
	"github.com/hupe1980/datatable/deepcopy"
)

// Row is one table record: column name to cell value.
// nil is a legal cell value.
type Row map[string]any

// Object is the canonical interop shape of a DataModel, consumed by the
// key-value wrapper and the transport layer.
type Object struct {
	Columns     []string `json:"columns"`
	Rows        []Row    `json:"rows"`
	ColumnCount int      `json:"columnCount"`
	RowCount    int      `json:"rowCount"`
	IsDeclared  bool     `json:"isDeclared"`
}

// DataModel is a mutable, column-declared table.
type DataModel struct {
	cols   []string
	colIdx map[string]int // column name -> position in cols

	rows []Row

	copier *deepcopy.Copier
	codec  codec.Codec
	logger *Logger
}

// New creates an empty, undeclared table. It rejects row insertion until a
// column is declared.
func New(opts ...Option) *DataModel {
	o := applyOptions(opts)
	return &DataModel{
		colIdx: make(map[string]int),
		copier: deepcopy.New(o.convert),
		codec:  o.codec,
		logger: o.logger,
	}
}

// NewFromColumns creates a table with the given columns and zero rows.
func NewFromColumns(cols []string, opts ...Option) (*DataModel, error) {
	m := New(opts...)
	if err := m.AddColumns(cols...); err != nil {
		return nil, err
	}
	return m, nil
}

// NewFromRow creates a single-row table. Columns are inferred from the
// record's key set, in lexicographic order (Go maps carry no order).
func NewFromRow(row Row, opts ...Option) (*DataModel, error) {
	if row == nil {
		return nil, invalidArg("row", "must not be nil")
	}
	return NewFromRows([]Row{row}, opts...)
}

// NewFromRows creates a table from an array of uniform records. Columns are
// inferred from the first record's key set, in lexicographic order; every
// subsequent record must conform to that shape (missing columns are filled
// with nil, unknown columns are rejected).
func NewFromRows(rows []Row, opts ...Option) (*DataModel, error) {
	m := New(opts...)
	if len(rows) == 0 {
		return m, nil
	}

	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if err := m.AddColumns(cols...); err != nil {
		return nil, err
	}

	for _, r := range rows {
		if err := m.AppendRow(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IsDeclared reports whether at least one column exists.
func (m *DataModel) IsDeclared() bool { return len(m.cols) > 0 }

// Clear resets the table to the empty, undeclared state.
func (m *DataModel) Clear() {
	m.cols = nil
	m.colIdx = make(map[string]int)
	m.rows = nil
	m.logger.LogMutation("clear", 0, 0)
}

// Clone returns a fully independent copy of the table. Mutating the clone
// never affects the source and vice versa.
func (m *DataModel) Clone() *DataModel {
	out := &DataModel{
		cols:   append([]string(nil), m.cols...),
		colIdx: make(map[string]int, len(m.colIdx)),
		rows:   make([]Row, len(m.rows)),
		copier: m.copier,
		codec:  m.codec,
		logger: m.logger,
	}
	for i, c := range m.cols {
		out.colIdx[c] = i
	}
	for i, r := range m.rows {
		out.rows[i] = m.copyRowOut(r)
	}
	return out
}

// CloneValue implements deepcopy.Cloner, so a DataModel stored as a cell
// value inside another table is cloned rather than aliased.
func (m *DataModel) CloneValue() any { return m.Clone() }

// Object returns the canonical interop shape. Columns and rows are isolated
// copies.
func (m *DataModel) Object() Object {
	rows := make([]Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = m.copyRowOut(r)
	}
	return Object{
		Columns:     append([]string(nil), m.cols...),
		Rows:        rows,
		ColumnCount: len(m.cols),
		RowCount:    len(m.rows),
		IsDeclared:  m.IsDeclared(),
	}
}

// Serialize encodes the row array only. Column metadata is intentionally
// excluded: the paired backend derives the shape from the payload or its
// own contract. Use WriteSnapshot to persist column order as well.
func (m *DataModel) Serialize() ([]byte, error) {
	rows := m.rows
	if rows == nil {
		rows = []Row{}
	}
	return m.codec.Marshal(rows)
}

// MarshalJSON encodes the table as its row array, the same shape Serialize
// emits. A table stored as a cell value inside another table therefore
// carries its content through any codec, which also gives it a
// content-bearing canonical structural form for duplicate detection,
// equality search and sorting.
func (m *DataModel) MarshalJSON() ([]byte, error) {
	return m.Serialize()
}

// String implements fmt.Stringer with a compact shape summary.
func (m *DataModel) String() string {
	return fmt.Sprintf("DataModel(columns=%d, rows=%d)", len(m.cols), len(m.rows))
}

// copyRowOut produces an isolated copy of a stored row for a caller.
func (m *DataModel) copyRowOut(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = m.copier.Copy(v)
	}
	return out
}

// copyRowIn normalizes a caller-supplied row against the declared columns:
// unknown keys are rejected, missing columns are filled with nil, and every
// value is copied into table ownership.
func (m *DataModel) copyRowIn(r Row) (Row, error) {
	for k := range r {
		if _, ok := m.colIdx[k]; !ok {
			return nil, columnNotFound(k)
		}
	}
	out := make(Row, len(m.cols))
	for _, c := range m.cols {
		v, ok := r[c]
		if !ok {
			out[c] = nil
			continue
		}
		out[c] = m.copier.Copy(v)
	}
	return out, nil
}

// nullRow produces a row with every declared column set to nil.
func (m *DataModel) nullRow() Row {
	r := make(Row, len(m.cols))
	for _, c := range m.cols {
		r[c] = nil
	}
	return r
}

// structKey returns the canonical structural-string form of a value, used
// by duplicate detection, equality search and object/array ordering. The
// codec emits sorted object keys, so the form is order-independent.
func (m *DataModel) structKey(v any) (string, error) {
	b, err := m.codec.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkRowIndex validates a row index for read/mutate operations.
func (m *DataModel) checkRowIndex(i int) error {
	if i < 0 || i >= len(m.rows) {
		return &ErrIndexOutOfRange{Index: i, Count: len(m.rows)}
	}
	return nil
}
