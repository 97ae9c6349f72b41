package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrUndeclaredTable is returned when a row operation is attempted on a
	// table that has never had a column declared.
	ErrUndeclaredTable = errors.New("table has no declared columns")
)

// ErrInvalidArgument indicates a parameter of the wrong type or shape
// (an empty column name, a nil predicate, a row with unknown keys, ...).
type ErrInvalidArgument struct {
	Name   string // parameter name
	Reason string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

// ErrColumnNotFound indicates a reference to a column that is not declared.
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column not found: %q", e.Column)
}

// ErrIndexOutOfRange indicates a row index outside the valid range.
type ErrIndexOutOfRange struct {
	Index int
	Count int // current row count
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("row index %d out of range [0,%d)", e.Index, e.Count)
}

// ErrNonNumericValue is returned by integer-mode row sorting when a value
// does not parse as an integer.
type ErrNonNumericValue struct {
	Column string
	Value  any
}

func (e *ErrNonNumericValue) Error() string {
	return fmt.Sprintf("non-numeric value in column %q: %v", e.Column, e.Value)
}

func invalidArg(name, reason string) error {
	return &ErrInvalidArgument{Name: name, Reason: reason}
}

func columnNotFound(col string) error {
	return &ErrColumnNotFound{Column: col}
}
