package hierarchy

import (
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// Key is a lookup key accepted by LocToILoc. It is one of Tuple, HLoc,
// Tuples, Mask, ILoc, TupleSlice or *Hierarchy.
type Key interface {
	hierarchyKey()
}

var (
	_ Key = Tuple(nil)
	_ Key = HLoc(nil)
	_ Key = Tuples(nil)
	_ Key = Mask(nil)
	_ Key = ILoc{}
	_ Key = TupleSlice{}
	_ Key = (*Hierarchy)(nil)
)

// Tuples selects rows by a list of full composite labels, in the given
// order.
type Tuples []Tuple

func (Tuples) hierarchyKey() {}

// Mask selects the rows where the mask is true. It must have one entry per
// row.
type Mask []bool

func (Mask) hierarchyKey() {}

// TupleSlice selects the rows from Start to Stop, both inclusive. A nil
// bound is open.
type TupleSlice struct {
	Start Tuple
	Stop  Tuple
}

func (TupleSlice) hierarchyKey() {}

// HLoc is a partial key with one selector per depth, outermost first.
// Depths beyond the end of the key are unconstrained.
type HLoc []Selector

func (HLoc) hierarchyKey() {}

type selectorKind uint8

const (
	selAll selectorKind = iota
	selScalar
	selValues
	selSlice
	selMask
	selPositional
)

// Selector constrains a single depth of an HLoc.
type Selector struct {
	kind   selectorKind
	value  index.Label
	values []index.Label
	slice  index.Slice
	mask   []bool
	iloc   ILoc
}

// All leaves a depth unconstrained.
func All() Selector { return Selector{kind: selAll} }

// Scalar selects a single label.
func Scalar(label index.Label) Selector { return Selector{kind: selScalar, value: label} }

// Values selects a list of labels.
func Values(labels ...index.Label) Selector { return Selector{kind: selValues, values: labels} }

// Slice selects a range of labels within the level order.
func Slice(s index.Slice) Selector { return Selector{kind: selSlice, slice: s} }

// Between selects the labels from start to stop, both inclusive.
func Between(start, stop index.Label) Selector {
	return Slice(index.Slice{Start: start, Stop: stop, HasStart: true, HasStop: true})
}

// SelectMask selects rows with a row-aligned boolean mask.
func SelectMask(mask []bool) Selector { return Selector{kind: selMask, mask: mask} }

// Positional selects rows by absolute row position, ignoring labels.
func Positional(il ILoc) Selector { return Selector{kind: selPositional, iloc: il} }

// H is shorthand for building an HLoc. Plain labels become Scalar
// selectors, label lists become Values selectors and Selector values are
// used as is.
func H(parts ...any) HLoc {
	out := make(HLoc, len(parts))
	for i, p := range parts {
		switch x := p.(type) {
		case Selector:
			out[i] = x
		case ILoc:
			out[i] = Positional(x)
		case []index.Label:
			out[i] = Values(x...)
		default:
			out[i] = Scalar(x)
		}
	}
	return out
}

type ilocKind uint8

const (
	ilocAt ilocKind = iota
	ilocList
	ilocSpan
)

// ILoc selects rows by absolute position. Negative positions count from
// the end.
type ILoc struct {
	kind     ilocKind
	at       int
	list     []int
	start    int
	stop     int
	hasStart bool
	hasStop  bool
	step     int
}

func (ILoc) hierarchyKey() {}

// At selects a single row.
func At(pos int) ILoc { return ILoc{kind: ilocAt, at: pos} }

// Rows selects a list of rows in the given order.
func Rows(positions ...int) ILoc { return ILoc{kind: ilocList, list: positions} }

// Span selects rows in the half-open range [start, stop).
func Span(start, stop int) ILoc {
	return ILoc{kind: ilocSpan, start: start, stop: stop, hasStart: true, hasStop: true, step: 1}
}

// SpanFrom selects rows from start to the end.
func SpanFrom(start int) ILoc {
	return ILoc{kind: ilocSpan, start: start, hasStart: true, step: 1}
}

// SpanTo selects rows from the beginning up to stop, exclusive.
func SpanTo(stop int) ILoc {
	return ILoc{kind: ilocSpan, stop: stop, hasStop: true, step: 1}
}

// WithStep returns a copy of a span selection with a step. A step of zero
// is rejected at resolution time.
func (il ILoc) WithStep(step int) ILoc {
	il.step = step
	return il
}

// resolve returns the selected positions and whether the selection names
// exactly one row.
func (il ILoc) resolve(n int) ([]int, bool, error) {
	norm := func(p int) (int, error) {
		if p < 0 {
			p += n
		}
		if p < 0 || p >= n {
			return 0, core.NewKeyError(p)
		}
		return p, nil
	}
	switch il.kind {
	case ilocAt:
		p, err := norm(il.at)
		if err != nil {
			return nil, false, err
		}
		return []int{p}, true, nil
	case ilocList:
		out := make([]int, len(il.list))
		for i, p := range il.list {
			q, err := norm(p)
			if err != nil {
				return nil, false, err
			}
			out[i] = q
		}
		return out, false, nil
	default:
		return il.resolveSpan(n)
	}
}

func (il ILoc) resolveSpan(n int) ([]int, bool, error) {
	step := il.step
	if step == 0 {
		return nil, false, core.NewStructuralError("iloc", "slice step cannot be zero")
	}
	clamp := func(p, lo, hi int) int {
		if p < 0 {
			p += n
		}
		return min(max(p, lo), hi)
	}
	var start, stop int
	if step > 0 {
		start, stop = 0, n
		if il.hasStart {
			start = clamp(il.start, 0, n)
		}
		if il.hasStop {
			stop = clamp(il.stop, 0, n)
		}
	} else {
		start, stop = n-1, -1
		if il.hasStart {
			start = clamp(il.start, -1, n-1)
		}
		if il.hasStop {
			stop = clamp(il.stop, -1, n-1)
		}
	}
	var out []int
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, i)
	}
	return out, false, nil
}

// Result is the outcome of a lookup: either a single row or a list of rows.
type Result struct {
	positions []int
	scalar    bool
}

// IsScalar reports whether the key named exactly one row.
func (r Result) IsScalar() bool { return r.scalar }

// Position returns the single row of a scalar result.
func (r Result) Position() int {
	if len(r.positions) == 0 {
		return -1
	}
	return r.positions[0]
}

// Positions returns the selected rows.
func (r Result) Positions() []int { return r.positions }

// Len returns the number of selected rows.
func (r Result) Len() int { return len(r.positions) }
