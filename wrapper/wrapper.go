// Package wrapper provides DataWrapper, a key-value companion to the table
// engine. A DataWrapper holds named entries that are either plain text or
// whole table instances, and round-trips them through cloning and
// serialization with the same isolation guarantees as the engine itself.
package wrapper

import (
	"fmt"
	"sort"

	"github.com/hupe1980/datatable"
	"github.com/hupe1980/datatable/codec"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindText marks a plain string entry.
	KindText Kind = iota + 1
	// KindModel marks a table entry.
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindModel:
		return "model"
	default:
		return "invalid"
	}
}

// Value is a tagged sum of the two storable variants. Dispatch on Kind (or
// use AsText/AsModel); there is no capability probing.
type Value struct {
	kind  Kind
	text  string
	model *datatable.DataModel
}

// TextValue wraps a string.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// ModelValue wraps a table. The table is cloned in, so later mutation of m
// does not reach the Value.
func ModelValue(m *datatable.DataModel) Value {
	if m == nil {
		return Value{}
	}
	return Value{kind: KindModel, model: m.Clone()}
}

// Kind returns the variant tag. The zero Value has an invalid kind.
func (v Value) Kind() Kind { return v.kind }

// AsText returns the text variant.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsModel returns a clone of the table variant.
func (v Value) AsModel() (*datatable.DataModel, bool) {
	if v.kind != KindModel {
		return nil, false
	}
	return v.model.Clone(), true
}

// DataWrapper stores named text and table entries.
//
// Like the engine, a DataWrapper is not safe for unsynchronized concurrent
// mutation.
type DataWrapper struct {
	values map[string]Value
	codec  codec.Codec
}

// Option configures a DataWrapper.
type Option func(*DataWrapper)

// WithCodec sets the codec used by Serialize. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(w *DataWrapper) {
		if c == nil {
			c = codec.Default
		}
		w.codec = c
	}
}

// New creates an empty DataWrapper.
func New(opts ...Option) *DataWrapper {
	w := &DataWrapper{
		values: make(map[string]Value),
		codec:  codec.Default,
	}
	for _, fn := range opts {
		fn(w)
	}
	return w
}

// Put stores a value under key, replacing any previous entry.
func (w *DataWrapper) Put(key string, v Value) error {
	if key == "" {
		return fmt.Errorf("wrapper: key must be a non-empty string")
	}
	if v.kind != KindText && v.kind != KindModel {
		return fmt.Errorf("wrapper: invalid value for key %q", key)
	}
	w.values[key] = v
	return nil
}

// PutText stores a string under key.
func (w *DataWrapper) PutText(key, s string) error {
	return w.Put(key, TextValue(s))
}

// PutModel stores a clone of m under key.
func (w *DataWrapper) PutModel(key string, m *datatable.DataModel) error {
	if m == nil {
		return fmt.Errorf("wrapper: model for key %q must not be nil", key)
	}
	return w.Put(key, ModelValue(m))
}

// Get returns the value under key. Table variants are cloned out by
// AsModel, so callers never alias stored state.
func (w *DataWrapper) Get(key string) (Value, bool) {
	v, ok := w.values[key]
	return v, ok
}

// Text returns the string under key, if the entry exists and is text.
func (w *DataWrapper) Text(key string) (string, bool) {
	v, ok := w.values[key]
	if !ok {
		return "", false
	}
	return v.AsText()
}

// Model returns a clone of the table under key, if the entry exists and is
// a table.
func (w *DataWrapper) Model(key string) (*datatable.DataModel, bool) {
	v, ok := w.values[key]
	if !ok {
		return nil, false
	}
	return v.AsModel()
}

// Remove deletes the entry under key, reporting whether it existed.
func (w *DataWrapper) Remove(key string) bool {
	_, ok := w.values[key]
	delete(w.values, key)
	return ok
}

// Keys returns all keys in sorted order.
func (w *DataWrapper) Keys() []string {
	keys := make([]string, 0, len(w.values))
	for k := range w.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (w *DataWrapper) Len() int { return len(w.values) }

// Clear removes all entries.
func (w *DataWrapper) Clear() {
	w.values = make(map[string]Value)
}

// Clone returns a fully independent copy.
func (w *DataWrapper) Clone() *DataWrapper {
	out := &DataWrapper{
		values: make(map[string]Value, len(w.values)),
		codec:  w.codec,
	}
	for k, v := range w.values {
		if v.kind == KindModel {
			v.model = v.model.Clone()
		}
		out.values[k] = v
	}
	return out
}

// Serialize encodes the wrapper as a JSON object mapping each key to its
// text or to its table's row array (matching the table wire contract).
func (w *DataWrapper) Serialize() ([]byte, error) {
	obj := make(map[string]any, len(w.values))
	for k, v := range w.values {
		switch v.kind {
		case KindText:
			obj[k] = v.text
		case KindModel:
			rows := v.model.Rows()
			obj[k] = rows
		}
	}
	return w.codec.Marshal(obj)
}
