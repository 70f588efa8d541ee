package store

import (
	"time"
	"unsafe"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// DType identifies the element type of a column.
type DType uint8

const (
	// Object columns hold arbitrary labels.
	Object DType = iota
	Int64
	Float64
	String
	Bool
	Time
)

func (d DType) String() string {
	switch d {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return "object"
	}
}

// ParseDType is the inverse of DType.String.
func ParseDType(s string) (DType, error) {
	for _, d := range []DType{Object, Int64, Float64, String, Bool, Time} {
		if d.String() == s {
			return d, nil
		}
	}
	return Object, core.NewTypeError("parse dtype", "unknown dtype %q", s)
}

// Column is an immutable sequence of values of one DType.
type Column interface {
	DType() DType
	Len() int
	// Value returns the element at row i as a normalized label.
	Value(i int) index.Label
	// Take returns the elements at positions, in that order.
	Take(positions []int) Column
	// NBytes estimates the resident size of the column data.
	NBytes() int
	appendColumn(other Column) (Column, error)
	equal(other Column) bool
}

type typed[T comparable] struct {
	dtype  DType
	values []T
}

// Int64s returns an int64 column.
func Int64s(values ...int64) Column { return &typed[int64]{dtype: Int64, values: values} }

// Float64s returns a float64 column.
func Float64s(values ...float64) Column { return &typed[float64]{dtype: Float64, values: values} }

// Strings returns a string column.
func Strings(values ...string) Column { return &typed[string]{dtype: String, values: values} }

// Bools returns a bool column.
func Bools(values ...bool) Column { return &typed[bool]{dtype: Bool, values: values} }

// Times returns a time column. Values are converted to UTC.
func Times(values ...time.Time) Column {
	out := make([]time.Time, len(values))
	for i, v := range values {
		out[i] = v.UTC()
	}
	return &typed[time.Time]{dtype: Time, values: out}
}

// Objects returns a column of arbitrary labels.
func Objects(values ...index.Label) Column {
	return &typed[index.Label]{dtype: Object, values: index.NormalizeAll(values)}
}

// Values returns the backing slice of c when its element type is T. The
// slice must not be modified.
func Values[T comparable](c Column) ([]T, bool) {
	t, ok := c.(*typed[T])
	if !ok {
		return nil, false
	}
	return t.values, true
}

func (c *typed[T]) DType() DType { return c.dtype }

func (c *typed[T]) Len() int { return len(c.values) }

func (c *typed[T]) Value(i int) index.Label { return index.Normalize(c.values[i]) }

func (c *typed[T]) Take(positions []int) Column {
	out := make([]T, len(positions))
	for i, p := range positions {
		out[i] = c.values[p]
	}
	return &typed[T]{dtype: c.dtype, values: out}
}

func (c *typed[T]) NBytes() int {
	var zero T
	n := len(c.values) * int(unsafe.Sizeof(zero))
	switch vs := any(c.values).(type) {
	case []string:
		for _, s := range vs {
			n += len(s)
		}
	case []index.Label:
		for _, v := range vs {
			if s, ok := v.(string); ok {
				n += len(s)
			}
		}
	}
	return n
}

func (c *typed[T]) appendColumn(other Column) (Column, error) {
	o, ok := other.(*typed[T])
	if !ok || o.dtype != c.dtype {
		return nil, core.NewTypeError("concat", "cannot append %s column to %s column", other.DType(), c.dtype)
	}
	out := make([]T, 0, len(c.values)+len(o.values))
	out = append(out, c.values...)
	out = append(out, o.values...)
	return &typed[T]{dtype: c.dtype, values: out}, nil
}

func (c *typed[T]) equal(other Column) bool {
	o, ok := other.(*typed[T])
	if !ok || o.dtype != c.dtype || len(o.values) != len(c.values) {
		return false
	}
	for i, v := range c.values {
		if !index.Equal(index.Normalize(v), index.Normalize(o.values[i])) {
			return false
		}
	}
	return true
}
