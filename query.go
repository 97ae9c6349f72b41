package datatable

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Condition is a partial column to expected-value mapping. A row matches
// iff every listed column's value structurally equals the expected value.
type Condition map[string]any

// Predicate reports whether a row matches. It receives an isolated copy of
// the row.
type Predicate func(r Row) bool

// SearchRowIndexes returns the indexes of rows matching cond, ascending.
// With negate, it returns the indexes of rows that do not fully match; for
// any condition the two calls partition [0, RowCount) exactly.
func (m *DataModel) SearchRowIndexes(cond Condition, negate bool) ([]int, error) {
	bm, err := m.searchBitmap(cond, negate)
	if err != nil {
		return nil, err
	}
	return bitmapIndexes(bm), nil
}

// SearchRows returns isolated copies of the rows matching cond.
func (m *DataModel) SearchRows(cond Condition, negate bool) ([]Row, error) {
	bm, err := m.searchBitmap(cond, negate)
	if err != nil {
		return nil, err
	}
	return m.collectRows(bm), nil
}

// SearchModel returns a new table of the same shape holding copies of the
// rows matching cond.
func (m *DataModel) SearchModel(cond Condition, negate bool) (*DataModel, error) {
	bm, err := m.searchBitmap(cond, negate)
	if err != nil {
		return nil, err
	}
	out := m.emptyLike()
	out.rows = m.collectRows(bm)
	return out, nil
}

// SearchAndModify mutates the receiver in place to retain only the rows
// matching cond.
func (m *DataModel) SearchAndModify(cond Condition, negate bool) error {
	bm, err := m.searchBitmap(cond, negate)
	if err != nil {
		return err
	}
	m.retain(bm)
	return nil
}

// FilterRowIndexes returns the indexes of rows for which pred is true,
// ascending.
func (m *DataModel) FilterRowIndexes(pred Predicate) ([]int, error) {
	bm, err := m.filterBitmap(pred)
	if err != nil {
		return nil, err
	}
	return bitmapIndexes(bm), nil
}

// FilterRows returns isolated copies of the rows for which pred is true.
func (m *DataModel) FilterRows(pred Predicate) ([]Row, error) {
	bm, err := m.filterBitmap(pred)
	if err != nil {
		return nil, err
	}
	return m.collectRows(bm), nil
}

// FilterModel returns a new table of the same shape holding copies of the
// rows for which pred is true.
func (m *DataModel) FilterModel(pred Predicate) (*DataModel, error) {
	bm, err := m.filterBitmap(pred)
	if err != nil {
		return nil, err
	}
	out := m.emptyLike()
	out.rows = m.collectRows(bm)
	return out, nil
}

// FilterAndModify mutates the receiver in place to keep only the rows for
// which pred is true.
func (m *DataModel) FilterAndModify(pred Predicate) error {
	bm, err := m.filterBitmap(pred)
	if err != nil {
		return err
	}
	m.retain(bm)
	return nil
}

// searchBitmap evaluates cond into a bitmap of matching row indexes.
// Negation is a flip over [0, RowCount), which makes the partition law
// structural rather than re-evaluated.
func (m *DataModel) searchBitmap(cond Condition, negate bool) (*roaring.Bitmap, error) {
	if cond == nil {
		return nil, invalidArg("cond", "condition must not be nil")
	}
	want := make(map[string]string, len(cond))
	for c, v := range cond {
		if _, ok := m.colIdx[c]; !ok {
			return nil, columnNotFound(c)
		}
		key, err := m.structKey(v)
		if err != nil {
			return nil, err
		}
		want[c] = key
	}

	bm := roaring.New()
	for i, r := range m.rows {
		match := true
		for c, wk := range want {
			key, err := m.structKey(r[c])
			if err != nil {
				return nil, err
			}
			if key != wk {
				match = false
				break
			}
		}
		if match {
			bm.Add(uint32(i))
		}
	}
	if negate {
		bm.Flip(0, uint64(len(m.rows)))
	}
	return bm, nil
}

// filterBitmap evaluates pred into a bitmap of matching row indexes.
func (m *DataModel) filterBitmap(pred Predicate) (*roaring.Bitmap, error) {
	if pred == nil {
		return nil, invalidArg("pred", "predicate must not be nil")
	}
	bm := roaring.New()
	for i, r := range m.rows {
		if pred(m.copyRowOut(r)) {
			bm.Add(uint32(i))
		}
	}
	return bm, nil
}

// retain keeps only the rows whose index is set in bm, preserving order.
func (m *DataModel) retain(bm *roaring.Bitmap) {
	kept := m.rows[:0]
	for i, r := range m.rows {
		if bm.Contains(uint32(i)) {
			kept = append(kept, r)
		}
	}
	// Release references held past the new length.
	for i := len(kept); i < len(m.rows); i++ {
		m.rows[i] = nil
	}
	m.rows = kept
	m.logger.LogMutation("retain_rows", len(m.rows), len(m.cols))
}

// collectRows materializes isolated copies of the rows set in bm, in
// ascending index order.
func (m *DataModel) collectRows(bm *roaring.Bitmap) []Row {
	out := make([]Row, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, m.copyRowOut(m.rows[it.Next()]))
	}
	return out
}

// bitmapIndexes materializes a bitmap as a sorted []int.
func bitmapIndexes(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
