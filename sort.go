package datatable

import (
	"math"
	"sort"
	"strconv"
)

// SetColumnOrder reorders the declared columns to the given sequence. Any
// declared column omitted from order is appended afterward in its current
// relative order; no column is ever dropped. Names in order that are not
// declared cause ErrColumnNotFound.
func (m *DataModel) SetColumnOrder(order []string) error {
	for _, n := range order {
		if _, ok := m.colIdx[n]; !ok {
			return columnNotFound(n)
		}
	}
	placed := make(map[string]struct{}, len(order))
	next := make([]string, 0, len(m.cols))
	for _, n := range order {
		if _, dup := placed[n]; dup {
			continue
		}
		placed[n] = struct{}{}
		next = append(next, n)
	}
	for _, c := range m.cols {
		if _, ok := placed[c]; !ok {
			next = append(next, c)
		}
	}
	m.setColumns(next)
	return nil
}

// SortColumnsAscending reorders the column list lexicographically
// ascending. Row data is untouched.
func (m *DataModel) SortColumnsAscending() {
	next := append([]string(nil), m.cols...)
	sort.Strings(next)
	m.setColumns(next)
}

// SortColumnsDescending reorders the column list lexicographically
// descending. Row data is untouched.
func (m *DataModel) SortColumnsDescending() {
	next := append([]string(nil), m.cols...)
	sort.Sort(sort.Reverse(sort.StringSlice(next)))
	m.setColumns(next)
}

// ReverseColumns reverses the current column order. Row data is untouched.
func (m *DataModel) ReverseColumns() {
	next := append([]string(nil), m.cols...)
	for i, j := 0, len(next)-1; i < j; i, j = i+1, j-1 {
		next[i], next[j] = next[j], next[i]
	}
	m.setColumns(next)
}

// SortRowsAscending reorders rows by the value in col, ascending, with nil
// values placed last. With integerMode every non-nil value must parse as an
// integer, otherwise the call fails with ErrNonNumericValue before any
// reordering. The sort is stable.
func (m *DataModel) SortRowsAscending(col string, integerMode bool) error {
	return m.sortRows(col, integerMode, false)
}

// SortRowsDescending reorders rows by the value in col, descending, with
// nil values placed first. Integer-mode semantics match SortRowsAscending.
func (m *DataModel) SortRowsDescending(col string, integerMode bool) error {
	return m.sortRows(col, integerMode, true)
}

// ReverseRows reverses the row order unconditionally, independent of column
// values.
func (m *DataModel) ReverseRows() {
	for i, j := 0, len(m.rows)-1; i < j; i, j = i+1, j-1 {
		m.rows[i], m.rows[j] = m.rows[j], m.rows[i]
	}
	m.logger.LogMutation("reverse_rows", len(m.rows), len(m.cols))
}

func (m *DataModel) setColumns(next []string) {
	m.cols = next
	m.colIdx = make(map[string]int, len(next))
	for i, c := range next {
		m.colIdx[c] = i
	}
	m.logger.LogMutation("reorder_columns", len(m.rows), len(m.cols))
}

// sortKey is a precomputed comparison key for one row. Keys are built
// before sorting so that key errors fail fast with no partial reordering.
type sortKey struct {
	null  bool
	num   float64
	isNum bool
	str   string
}

func (m *DataModel) sortRows(col string, integerMode, desc bool) error {
	if _, ok := m.colIdx[col]; !ok {
		return columnNotFound(col)
	}

	keys := make([]sortKey, len(m.rows))
	for i, r := range m.rows {
		k, err := m.sortKeyFor(col, r[col], integerMode)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	order := make([]int, len(m.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		c := compareKeys(keys[order[a]], keys[order[b]], desc)
		return c < 0
	})

	next := make([]Row, len(m.rows))
	for i, idx := range order {
		next[i] = m.rows[idx]
	}
	m.rows = next
	m.logger.WithColumn(col).LogMutation("sort_rows", len(m.rows), len(m.cols))
	return nil
}

func (m *DataModel) sortKeyFor(col string, v any, integerMode bool) (sortKey, error) {
	if v == nil {
		return sortKey{null: true}, nil
	}
	if integerMode {
		n, ok := asInteger(v)
		if !ok {
			return sortKey{}, &ErrNonNumericValue{Column: col, Value: v}
		}
		return sortKey{num: float64(n), isNum: true}, nil
	}
	if f, ok := asFloat(v); ok {
		return sortKey{num: f, isNum: true}, nil
	}
	if s, ok := v.(string); ok {
		return sortKey{str: s}, nil
	}
	// Objects and arrays compare via their structural-string form.
	key, err := m.structKey(v)
	if err != nil {
		return sortKey{}, err
	}
	return sortKey{str: key}, nil
}

// compareKeys orders a before b. nil sorts last ascending and first
// descending; numbers sort before strings when the column mixes both.
func compareKeys(a, b sortKey, desc bool) int {
	if a.null || b.null {
		switch {
		case a.null && b.null:
			return 0
		case a.null:
			if desc {
				return -1
			}
			return 1
		default:
			if desc {
				return 1
			}
			return -1
		}
	}

	var c int
	switch {
	case a.isNum && b.isNum:
		switch {
		case a.num < b.num:
			c = -1
		case a.num > b.num:
			c = 1
		}
	case a.isNum != b.isNum:
		if a.isNum {
			c = -1
		} else {
			c = 1
		}
	default:
		switch {
		case a.str < b.str:
			c = -1
		case a.str > b.str:
			c = 1
		}
	}
	if desc {
		c = -c
	}
	return c
}

// asFloat widens any built-in numeric value to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asInteger parses v as an integer: integer types directly, floats only
// when integral, strings via strconv.
func asInteger(v any) (int64, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
