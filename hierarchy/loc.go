package hierarchy

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sframe/core"
)

// LocToILoc resolves key to row positions.
//
// A Tuple must name every depth and resolves to a single row. An HLoc is
// reduced depth by depth from the outermost level, intersecting a running
// row set; positional selectors inside it address the global row order.
// The result is scalar when every depth of a full-length HLoc holds a
// single label, or when a positional selector names one row.
func (h *Hierarchy) LocToILoc(key Key) (Result, error) {
	switch k := key.(type) {
	case Tuple:
		return h.locTuple(k)
	case HLoc:
		return h.locHLoc(k)
	case Tuples:
		return h.locTuples(k)
	case *Hierarchy:
		if k.Depth() != h.Depth() {
			return Result{}, core.NewStructuralError("loc", "key depth %d does not match index depth %d", k.Depth(), h.Depth())
		}
		return h.locTuples(k.Tuples())
	case Mask:
		if len(k) != h.n {
			return Result{}, core.NewStructuralError("loc", "mask length %d does not match %d rows", len(k), h.n)
		}
		var out []int
		for row, keep := range k {
			if keep {
				out = append(out, row)
			}
		}
		return Result{positions: out}, nil
	case ILoc:
		ps, scalar, err := k.resolve(h.n)
		if err != nil {
			return Result{}, err
		}
		return Result{positions: ps, scalar: scalar}, nil
	case TupleSlice:
		return h.locTupleSlice(k)
	case nil:
		return Result{}, core.NewStructuralError("loc", "nil key")
	default:
		return Result{}, core.NewStructuralError("loc", "unsupported key %T", key)
	}
}

func (h *Hierarchy) locTuple(t Tuple) (Result, error) {
	if len(t) != h.Depth() {
		return Result{}, core.NewStructuralError("loc", "key of length %d for index of depth %d", len(t), h.Depth())
	}
	row, err := h.rowOf(t)
	if err != nil || row < 0 {
		return Result{}, core.NewKeyError(t)
	}
	return Result{positions: []int{row}, scalar: true}, nil
}

func (h *Hierarchy) locTuples(ts Tuples) (Result, error) {
	out := make([]int, 0, len(ts))
	for _, t := range ts {
		r, err := h.locTuple(t)
		if err != nil {
			return Result{}, err
		}
		out = append(out, r.positions[0])
	}
	return Result{positions: out}, nil
}

func (h *Hierarchy) locTupleSlice(s TupleSlice) (Result, error) {
	start, stop := 0, h.n-1
	if s.Start != nil {
		r, err := h.locTuple(s.Start)
		if err != nil {
			return Result{}, err
		}
		start = r.positions[0]
	}
	if s.Stop != nil {
		r, err := h.locTuple(s.Stop)
		if err != nil {
			return Result{}, err
		}
		stop = r.positions[0]
	}
	return Result{positions: span(start, stop+1)}, nil
}

func (h *Hierarchy) locHLoc(key HLoc) (Result, error) {
	if len(key) > h.Depth() {
		return Result{}, core.NewStructuralError("loc", "key of length %d for index of depth %d", len(key), h.Depth())
	}
	rows := roaring.New()
	rows.AddRange(0, uint64(h.n))

	allScalar := len(key) == h.Depth()
	positional := false
	for d, sel := range key {
		switch sel.kind {
		case selAll:
			allScalar = false
		case selPositional:
			ps, scalar, err := sel.iloc.resolve(h.n)
			if err != nil {
				return Result{}, err
			}
			rows.And(bitmapOf(ps))
			if scalar {
				positional = true
			} else {
				allScalar = false
			}
		case selMask:
			if len(sel.mask) != h.n {
				return Result{}, core.NewStructuralError("loc", "mask at depth %d has length %d, expected %d", d, len(sel.mask), h.n)
			}
			m := roaring.New()
			for row, keep := range sel.mask {
				if keep {
					m.Add(uint32(row))
				}
			}
			rows.And(m)
			allScalar = false
		default:
			ps, err := h.levelPositions(d, sel)
			if err != nil {
				return Result{}, err
			}
			if sel.kind != selScalar || len(ps) != 1 {
				allScalar = false
			}
			rows = h.filterDepth(rows, d, ps)
		}
	}

	out := make([]int, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	if allScalar || positional {
		switch len(out) {
		case 0:
			return Result{}, core.NewKeyError(key)
		case 1:
			return Result{positions: out, scalar: true}, nil
		}
	}
	return Result{positions: out}, nil
}

// levelPositions translates a label selector into positions of the level
// at depth d.
func (h *Hierarchy) levelPositions(d int, sel Selector) ([]int, error) {
	lvl := h.levels[d]
	switch sel.kind {
	case selScalar:
		return lvl.Locate(sel.value)
	case selValues:
		return lvl.Positions(sel.values)
	case selSlice:
		return lvl.SlicePositions(sel.slice)
	}
	return nil, core.NewStructuralError("loc", "selector is not label based")
}

// filterDepth keeps the rows whose indexer at depth d is one of positions.
func (h *Hierarchy) filterDepth(rows *roaring.Bitmap, d int, positions []int) *roaring.Bitmap {
	keep := make([]bool, h.levels[d].Len())
	for _, p := range positions {
		keep[p] = true
	}
	idx := h.indexers[d]
	out := roaring.New()
	it := rows.Iterator()
	for it.HasNext() {
		row := it.Next()
		if keep[idx[row]] {
			out.Add(row)
		}
	}
	return out
}

func bitmapOf(positions []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, p := range positions {
		bm.Add(uint32(p))
	}
	return bm
}

// Contains reports whether t names a row. A tuple whose length differs from
// the depth is a structural error.
func (h *Hierarchy) Contains(t Tuple) (bool, error) {
	if len(t) != h.Depth() {
		return false, core.NewStructuralError("contains", "key of length %d for index of depth %d", len(t), h.Depth())
	}
	row, err := h.rowOf(t)
	if err != nil {
		return false, nil
	}
	return row >= 0, nil
}

// Loc returns the rows selected by key as a new hierarchy.
func (h *Hierarchy) Loc(key Key) (*Hierarchy, error) {
	r, err := h.LocToILoc(key)
	if err != nil {
		return nil, err
	}
	return h.ILoc(r.positions)
}
