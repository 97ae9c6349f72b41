package datatable

// AddColumn declares a column. Adding an already-declared column is a
// no-op. Every existing row is back-filled with nil for the new column.
func (m *DataModel) AddColumn(name string) error {
	if name == "" {
		return invalidArg("name", "column name must be a non-empty string")
	}
	if _, ok := m.colIdx[name]; ok {
		return nil
	}
	m.colIdx[name] = len(m.cols)
	m.cols = append(m.cols, name)
	for _, r := range m.rows {
		r[name] = nil
	}
	m.logger.LogMutation("add_column", len(m.rows), len(m.cols))
	return nil
}

// AddColumns declares each of the given columns in order.
func (m *DataModel) AddColumns(names ...string) error {
	for _, n := range names {
		if err := m.AddColumn(n); err != nil {
			return err
		}
	}
	return nil
}

// RemoveColumn removes a declared column and strips it from every row.
func (m *DataModel) RemoveColumn(name string) error {
	return m.RemoveColumns(name)
}

// RemoveColumns removes the given columns. If any name is not declared the
// call fails before anything is removed.
func (m *DataModel) RemoveColumns(names ...string) error {
	for _, n := range names {
		if _, ok := m.colIdx[n]; !ok {
			return columnNotFound(n)
		}
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	kept := m.cols[:0]
	for _, c := range m.cols {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	m.cols = kept
	m.colIdx = make(map[string]int, len(m.cols))
	for i, c := range m.cols {
		m.colIdx[c] = i
	}

	for _, r := range m.rows {
		for n := range drop {
			delete(r, n)
		}
	}

	// A table with zero columns cannot hold rows.
	if len(m.cols) == 0 {
		m.rows = nil
	}
	m.logger.LogMutation("remove_columns", len(m.rows), len(m.cols))
	return nil
}

// RetainColumns keeps only the listed columns, removing all others.
// Listed names that are not declared are ignored.
func (m *DataModel) RetainColumns(names ...string) error {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	var drop []string
	for _, c := range m.cols {
		if _, ok := keep[c]; !ok {
			drop = append(drop, c)
		}
	}
	if len(drop) == 0 {
		return nil
	}
	return m.RemoveColumns(drop...)
}

// HasColumn reports whether the column is declared.
func (m *DataModel) HasColumn(name string) bool {
	_, ok := m.colIdx[name]
	return ok
}

// Columns returns the declared column names in order, as a copy.
func (m *DataModel) Columns() []string {
	return append([]string(nil), m.cols...)
}

// ColumnCount returns the number of declared columns.
func (m *DataModel) ColumnCount() int { return len(m.cols) }
