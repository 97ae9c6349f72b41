package datatable

// AddRow appends an all-nil row.
// Fails with ErrUndeclaredTable if no column has ever been declared.
func (m *DataModel) AddRow() error {
	if !m.IsDeclared() {
		return ErrUndeclaredTable
	}
	m.rows = append(m.rows, m.nullRow())
	m.logger.LogMutation("add_row", len(m.rows), len(m.cols))
	return nil
}

// AddRowAt inserts an all-nil row at index i, shifting subsequent rows up.
// i may equal RowCount, which appends.
func (m *DataModel) AddRowAt(i int) error {
	if !m.IsDeclared() {
		return ErrUndeclaredTable
	}
	if err := m.checkInsertIndex(i); err != nil {
		return err
	}
	m.insertAt(i, m.nullRow())
	return nil
}

// AppendRow appends a populated row. Keys not in the declared column set
// are rejected; missing columns are filled with nil; values are copied into
// table ownership.
func (m *DataModel) AppendRow(row Row) error {
	if !m.IsDeclared() {
		return ErrUndeclaredTable
	}
	r, err := m.copyRowIn(row)
	if err != nil {
		return err
	}
	m.rows = append(m.rows, r)
	m.logger.LogMutation("append_row", len(m.rows), len(m.cols))
	return nil
}

// InsertRow inserts a populated row at index i, shifting subsequent rows
// up. i may equal RowCount, which appends.
func (m *DataModel) InsertRow(i int, row Row) error {
	if !m.IsDeclared() {
		return ErrUndeclaredTable
	}
	if err := m.checkInsertIndex(i); err != nil {
		return err
	}
	r, err := m.copyRowIn(row)
	if err != nil {
		return err
	}
	m.insertAt(i, r)
	return nil
}

// RowAt returns an isolated copy of the row at index i.
func (m *DataModel) RowAt(i int) (Row, error) {
	if err := m.checkRowIndex(i); err != nil {
		return nil, err
	}
	return m.copyRowOut(m.rows[i]), nil
}

// Rows returns isolated copies of all rows in order.
func (m *DataModel) Rows() []Row {
	out := make([]Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = m.copyRowOut(r)
	}
	return out
}

// RowsRange returns isolated copies of the rows in [start, end).
func (m *DataModel) RowsRange(start, end int) ([]Row, error) {
	if start < 0 || start > len(m.rows) {
		return nil, &ErrIndexOutOfRange{Index: start, Count: len(m.rows)}
	}
	if end < start || end > len(m.rows) {
		return nil, &ErrIndexOutOfRange{Index: end, Count: len(m.rows)}
	}
	out := make([]Row, 0, end-start)
	for _, r := range m.rows[start:end] {
		out = append(out, m.copyRowOut(r))
	}
	return out, nil
}

// ModelAt returns a new single-row table of the same shape holding a copy
// of the row at index i.
func (m *DataModel) ModelAt(i int) (*DataModel, error) {
	if err := m.checkRowIndex(i); err != nil {
		return nil, err
	}
	return m.ModelRange(i, i+1)
}

// ModelRange returns a new table of the same shape holding copies of the
// rows in [start, end).
func (m *DataModel) ModelRange(start, end int) (*DataModel, error) {
	if start < 0 || start > len(m.rows) {
		return nil, &ErrIndexOutOfRange{Index: start, Count: len(m.rows)}
	}
	if end < start || end > len(m.rows) {
		return nil, &ErrIndexOutOfRange{Index: end, Count: len(m.rows)}
	}
	out := m.emptyLike()
	for _, r := range m.rows[start:end] {
		out.rows = append(out.rows, m.copyRowOut(r))
	}
	return out, nil
}

// SetValue replaces the value of column col in row i. The value is copied
// into table ownership; nil is legal.
func (m *DataModel) SetValue(i int, col string, v any) error {
	if _, ok := m.colIdx[col]; !ok {
		return columnNotFound(col)
	}
	if err := m.checkRowIndex(i); err != nil {
		return err
	}
	m.rows[i][col] = m.copier.Copy(v)
	return nil
}

// RemoveRow removes the row at index i, shifting subsequent rows down, and
// returns it. The returned row no longer aliases table state.
func (m *DataModel) RemoveRow(i int) (Row, error) {
	if err := m.checkRowIndex(i); err != nil {
		return nil, err
	}
	r := m.rows[i]
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	m.logger.LogMutation("remove_row", len(m.rows), len(m.cols))
	return r, nil
}

// ColumnValues returns every row's value for col, each independently
// copied.
func (m *DataModel) ColumnValues(col string) ([]any, error) {
	if _, ok := m.colIdx[col]; !ok {
		return nil, columnNotFound(col)
	}
	out := make([]any, len(m.rows))
	for i, r := range m.rows {
		out[i] = m.copier.Copy(r[col])
	}
	return out, nil
}

// FillColumn sets col to v in every row, declaring the column first if it
// is absent. Each row receives its own copy of v.
func (m *DataModel) FillColumn(col string, v any) error {
	if err := m.AddColumn(col); err != nil {
		return err
	}
	for _, r := range m.rows {
		r[col] = m.copier.Copy(v)
	}
	m.logger.WithColumn(col).LogMutation("fill_column", len(m.rows), len(m.cols))
	return nil
}

// RowCount returns the number of rows.
func (m *DataModel) RowCount() int { return len(m.rows) }

// emptyLike creates a zero-row table sharing this table's column shape and
// configuration.
func (m *DataModel) emptyLike() *DataModel {
	out := &DataModel{
		cols:   append([]string(nil), m.cols...),
		colIdx: make(map[string]int, len(m.colIdx)),
		copier: m.copier,
		codec:  m.codec,
		logger: m.logger,
	}
	for i, c := range m.cols {
		out.colIdx[c] = i
	}
	return out
}

func (m *DataModel) checkInsertIndex(i int) error {
	if i < 0 || i > len(m.rows) {
		return &ErrIndexOutOfRange{Index: i, Count: len(m.rows)}
	}
	return nil
}

func (m *DataModel) insertAt(i int, r Row) {
	m.rows = append(m.rows, nil)
	copy(m.rows[i+1:], m.rows[i:])
	m.rows[i] = r
	m.logger.LogMutation("insert_row", len(m.rows), len(m.cols))
}
