package datatable

// Formatter transforms a cell value. The result is passed back through the
// same value-acceptance path as SetValue and copied into table ownership.
type Formatter func(v any) any

// Validator reports whether a cell value is acceptable.
type Validator func(v any) bool

// FormatColumn replaces every row's value in col with format(value).
func (m *DataModel) FormatColumn(col string, format Formatter) error {
	if format == nil {
		return invalidArg("format", "formatter must not be nil")
	}
	if _, ok := m.colIdx[col]; !ok {
		return columnNotFound(col)
	}
	for _, r := range m.rows {
		r[col] = m.copier.Copy(format(m.copier.Copy(r[col])))
	}
	m.logger.WithColumn(col).LogMutation("format_column", len(m.rows), len(m.cols))
	return nil
}

// ValidateColumn reports whether valid(value) is true for every row's value
// in col.
func (m *DataModel) ValidateColumn(col string, valid Validator) (bool, error) {
	i, _, err := m.FirstInvalidRow(col, valid)
	if err != nil {
		return false, err
	}
	return i < 0, nil
}

// FirstInvalidRow returns the index and an isolated copy of the first row
// whose value in col fails valid. Index -1 and a nil row mean all rows
// pass.
func (m *DataModel) FirstInvalidRow(col string, valid Validator) (int, Row, error) {
	if valid == nil {
		return -1, nil, invalidArg("valid", "validator must not be nil")
	}
	return m.firstOffender(col, func(v any) bool { return !valid(v) })
}

// HasNoNulls reports whether no row holds nil in col.
func (m *DataModel) HasNoNulls(col string) (bool, error) {
	i, _, err := m.FirstNullRow(col)
	if err != nil {
		return false, err
	}
	return i < 0, nil
}

// FirstNullRow returns the index and an isolated copy of the first row
// holding nil in col. Index -1 and a nil row mean the column has no nulls.
func (m *DataModel) FirstNullRow(col string) (int, Row, error) {
	return m.firstOffender(col, func(v any) bool { return v == nil })
}

// HasNoDuplicates reports whether all values in col are structurally
// distinct.
func (m *DataModel) HasNoDuplicates(col string) (bool, error) {
	i, _, err := m.FirstDuplicateRow(col)
	if err != nil {
		return false, err
	}
	return i < 0, nil
}

// FirstDuplicateRow returns the index and an isolated copy of the first row
// whose value in col structurally equals an earlier occurrence. Index -1
// and a nil row mean the column has no duplicates.
//
// Equality is computed on the canonical structural-string form, so it is
// independent of object key order.
func (m *DataModel) FirstDuplicateRow(col string) (int, Row, error) {
	if _, ok := m.colIdx[col]; !ok {
		return -1, nil, columnNotFound(col)
	}
	seen := make(map[string]struct{}, len(m.rows))
	for i, r := range m.rows {
		key, err := m.structKey(r[col])
		if err != nil {
			return -1, nil, err
		}
		if _, dup := seen[key]; dup {
			return i, m.copyRowOut(r), nil
		}
		seen[key] = struct{}{}
	}
	return -1, nil, nil
}

// firstOffender scans col in row order for the first value matching bad.
// Values are handed to bad as copies so caller code never sees table state.
func (m *DataModel) firstOffender(col string, bad func(any) bool) (int, Row, error) {
	if _, ok := m.colIdx[col]; !ok {
		return -1, nil, columnNotFound(col)
	}
	for i, r := range m.rows {
		if bad(m.copier.Copy(r[col])) {
			return i, m.copyRowOut(r), nil
		}
	}
	return -1, nil, nil
}
