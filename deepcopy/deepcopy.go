// Package deepcopy implements the value isolation layer of the data engine.
//
// Every value that crosses a table boundary (in on insert, out on read) is
// passed through a Copier so the caller and the table never alias mutable
// state. Maps and slices, including defined types with a map or slice
// underlying, are cloned recursively with cycle detection; everything else
// is routed through a single Converter hook configured at construction
// time.
package deepcopy

import "reflect"

// Converter transforms a non-map, non-slice value before it is stored or
// returned. It must be pure. The default is Identity.
//
// If the result is itself a map or slice it is deep-copied; any other
// result is kept by reference. By contract such results are expected to be
// immutable (typically strings or numbers), which is why keeping them by
// reference is safe. A custom type the hook does not reduce to a primitive
// is therefore NOT covered by the isolation guarantee.
type Converter func(v any) any

// Identity is the default Converter. It returns its input unchanged.
func Identity(v any) any { return v }

// Cloner is implemented by values that know how to produce an isolated
// copy of themselves. The Copier dispatches on this interface instead of
// probing for marker methods, so nested table instances stay isolated.
type Cloner interface {
	CloneValue() any
}

// Copier performs recursive, cycle-safe deep copies.
//
// A Copier is immutable after construction and safe for concurrent use.
type Copier struct {
	convert Converter
}

// New creates a Copier with the given Converter hook.
// A nil hook falls back to Identity.
func New(convert Converter) *Copier {
	if convert == nil {
		convert = Identity
	}
	return &Copier{convert: convert}
}

// Converter returns the hook the Copier was built with.
func (c *Copier) Converter() Converter { return c.convert }

// ref identifies a source container within one copy operation.
// Maps use length -1 since two distinct maps never share a pointer,
// while two distinct slices may share a backing array.
type ref struct {
	ptr uintptr
	len int
}

// Copy returns an isolated copy of v.
//
// Repeated or cyclic references inside a single call resolve to the same
// already-created copy, so shared substructure stays shared in the copy and
// cycles terminate.
func (c *Copier) Copy(v any) any {
	return c.copy(v, make(map[ref]any))
}

func (c *Copier) copy(v any, seen map[ref]any) any {
	if v == nil {
		return nil
	}

	if cl, ok := v.(Cloner); ok {
		return cl.CloneValue()
	}

	switch src := v.(type) {
	case map[string]any:
		key := ref{ptr: reflect.ValueOf(src).Pointer(), len: -1}
		if dst, ok := seen[key]; ok {
			return dst
		}
		dst := make(map[string]any, len(src))
		seen[key] = dst
		for k, e := range src {
			dst[k] = c.copy(e, seen)
		}
		return dst

	case []any:
		if len(src) == 0 {
			return []any{}
		}
		key := ref{ptr: reflect.ValueOf(src).Pointer(), len: len(src)}
		if dst, ok := seen[key]; ok {
			return dst
		}
		dst := make([]any, len(src))
		seen[key] = dst
		for i, e := range src {
			dst[i] = c.copy(e, seen)
		}
		return dst
	}

	// Defined map and slice types (a Row-style map alias, []byte, ...)
	// carry the same mutable structure under another dynamic type, so exact
	// type dispatch misses them. Dispatch on kind; the copy keeps the
	// dynamic type.
	if out, ok := c.copyByKind(reflect.ValueOf(v), seen); ok {
		return out
	}

	out := c.convert(v)
	if out == nil {
		return nil
	}
	// A hook may expand a special type into a container; copy that result
	// too. Containers never reach the hook, so this cannot recurse on the
	// same value.
	switch reflect.ValueOf(out).Kind() {
	case reflect.Map, reflect.Slice:
		return c.copy(out, seen)
	}
	return out
}

// copyByKind clones values whose reflect kind is Map or Slice regardless of
// their dynamic type. Map keys are copied by assignment; elements recurse
// through the normal copy path.
func (c *Copier) copyByKind(rv reflect.Value, seen map[ref]any) (any, bool) {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv.Interface(), true
		}
		key := ref{ptr: rv.Pointer(), len: -1}
		if dst, ok := seen[key]; ok {
			return dst, true
		}
		dst := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		seen[key] = dst.Interface()
		elem := rv.Type().Elem()
		iter := rv.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), elemValue(c.copy(iter.Value().Interface(), seen), elem))
		}
		return dst.Interface(), true

	case reflect.Slice:
		if rv.IsNil() {
			return rv.Interface(), true
		}
		if rv.Len() == 0 {
			return reflect.MakeSlice(rv.Type(), 0, 0).Interface(), true
		}
		key := ref{ptr: rv.Pointer(), len: rv.Len()}
		if dst, ok := seen[key]; ok {
			return dst, true
		}
		dst := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		seen[key] = dst.Interface()
		elem := rv.Type().Elem()
		for i := 0; i < rv.Len(); i++ {
			dst.Index(i).Set(elemValue(c.copy(rv.Index(i).Interface(), seen), elem))
		}
		return dst.Interface(), true
	}
	return nil, false
}

// elemValue wraps a copied element for reflect assignment, mapping nil to
// the element type's zero value.
func elemValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}
