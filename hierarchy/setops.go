package hierarchy

import (
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// Operand is an argument of the set operations: a *Hierarchy, a *GrowOnly
// or a list of composite labels (Tuples).
type Operand interface {
	operand() (*Hierarchy, Tuples, error)
}

func (h *Hierarchy) operand() (*Hierarchy, Tuples, error) { return h, nil, nil }

func (t Tuples) operand() (*Hierarchy, Tuples, error) { return nil, t, nil }

type setOp uint8

const (
	opUnion setOp = iota
	opIntersection
	opDifference
)

func (op setOp) String() string {
	switch op {
	case opIntersection:
		return "intersection"
	case opDifference:
		return "difference"
	default:
		return "union"
	}
}

// Union returns the rows of h and all others. Results are sorted when all
// labels are mutually ordered and keep first-seen order otherwise.
func (h *Hierarchy) Union(others ...Operand) (*Hierarchy, error) {
	return h.fold(opUnion, others)
}

// Intersection returns the rows of h present in every other operand.
func (h *Hierarchy) Intersection(others ...Operand) (*Hierarchy, error) {
	return h.fold(opIntersection, others)
}

// Difference returns the rows of h not present in any other operand.
func (h *Hierarchy) Difference(others ...Operand) (*Hierarchy, error) {
	return h.fold(opDifference, others)
}

func (h *Hierarchy) fold(op setOp, others []Operand) (*Hierarchy, error) {
	result := h
	for _, o := range others {
		next, err := result.combine(op, o)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

// sameRows reports whether both indexes hold the same rows in the same
// order. Reference and shared-storage identity are checked before labels
// are compared.
func (h *Hierarchy) sameRows(other *Hierarchy) bool {
	if h == other {
		return true
	}
	if h.n != other.n || h.Depth() != other.Depth() {
		return false
	}
	shared := true
	for d := range h.levels {
		if h.levels[d] != other.levels[d] || !sameArray(h.indexers[d], other.indexers[d]) {
			shared = false
			break
		}
	}
	if shared {
		return true
	}
	for row := 0; row < h.n; row++ {
		if !h.tupleAt(row).Equal(other.tupleAt(row)) {
			return false
		}
	}
	return true
}

func sameArray(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func (h *Hierarchy) combine(op setOp, o Operand) (*Hierarchy, error) {
	if o == nil {
		return nil, core.NewStructuralError(op.String(), "nil operand")
	}
	other, tuples, err := o.operand()
	if err != nil {
		return nil, err
	}
	depth := h.Depth()
	rightLen := len(tuples)
	if other != nil {
		if other.Depth() != depth {
			return nil, core.NewStructuralError(op.String(), "operand depth %d does not match depth %d", other.Depth(), depth)
		}
		if h.sameRows(other) {
			if op == opDifference {
				return h.empty(), nil
			}
			return h, nil
		}
		rightLen = other.n
	} else {
		for _, t := range tuples {
			if len(t) != depth {
				return nil, core.NewStructuralError(op.String(), "operand label %v does not have depth %d", t, depth)
			}
			if err := index.CheckHashable(op.String(), t...); err != nil {
				return nil, err
			}
		}
	}

	if rightLen == 0 {
		if op == opIntersection {
			return h.empty(), nil
		}
		return h, nil
	}
	if h.n == 0 {
		if op != opUnion {
			return h, nil
		}
		if other != nil {
			return other, nil
		}
	}

	right := tuples
	if other != nil {
		right = other.Tuples()
	}
	var out []Tuple
	switch op {
	case opUnion:
		set := newTupleSet(depth, h.n+rightLen)
		for _, t := range h.Tuples() {
			set.add(t)
			out = append(out, t)
		}
		for _, t := range right {
			if set.add(t) {
				out = append(out, t.normalize())
			}
		}
	default:
		set := newTupleSet(depth, rightLen)
		for _, t := range right {
			set.add(t)
		}
		for _, t := range h.Tuples() {
			if set.has(t) == (op == opIntersection) {
				out = append(out, t)
			}
		}
	}
	sortTuples(out)

	ctors := make([]index.Constructor, depth)
	for d := range ctors {
		ctors[d] = index.Generic
		if other != nil && other.growOnly == h.growOnly && other.levels[d].Kind() == h.levels[d].Kind() {
			ctors[d] = index.ConstructorFor(h.levels[d].Kind())
		}
	}
	var name index.Label
	if other == nil || namesEqual(h.name, other.name) {
		name = h.name
	}
	result, err := fromTuples(op.String(), depth, out, ctors, name)
	if err != nil {
		return nil, err
	}
	result.growOnly = h.growOnly && other != nil && other.growOnly
	return result, nil
}

// fromTuples builds a hierarchy of a known depth, which may be empty.
func fromTuples(op string, depth int, tuples []Tuple, ctors []index.Constructor, name index.Label) (*Hierarchy, error) {
	columns := make([][]index.Label, depth)
	for d := range columns {
		columns[d] = make([]index.Label, len(tuples))
		for row, t := range tuples {
			columns[d][row] = t[d]
		}
	}
	return fromColumns(op, columns, ctors, name)
}

func namesEqual(a, b index.Label) bool {
	ta, aTuple := a.(Tuple)
	tb, bTuple := b.(Tuple)
	if aTuple || bTuple {
		return aTuple && bTuple && ta.Equal(tb)
	}
	return index.Equal(a, b)
}
