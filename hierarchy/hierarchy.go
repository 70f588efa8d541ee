package hierarchy

import (
	"fmt"
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// Axis is implemented by both flat levels and hierarchical indexes.
type Axis interface {
	Len() int
	Depth() int
}

var (
	_ Axis = (*Hierarchy)(nil)
	_ Axis = (*index.Level)(nil)
)

// Hierarchy is an immutable hierarchical index.
//
// It composes one index.Level per depth with an indexer matrix: for depth d,
// indexers[d][row] is the position of the row's label inside levels[d].
// Levels are held by shared reference and may be reused by derived indexes.
// The indexer arrays are never modified after construction.
type Hierarchy struct {
	levels   []*index.Level
	indexers [][]int
	name     index.Label
	n        int
	growOnly bool
	lookup   *lookupCache
}

type lookupCache struct {
	once  sync.Once
	table *tupleTable
}

// newHierarchy assembles a hierarchy. With validate set, the composite rows
// are checked for uniqueness before the index is returned.
func newHierarchy(levels []*index.Level, indexers [][]int, name index.Label, validate bool) (*Hierarchy, error) {
	n := 0
	if len(indexers) > 0 {
		n = len(indexers[0])
	}
	h := &Hierarchy{
		levels:   levels,
		indexers: indexers,
		name:     name,
		n:        n,
		lookup:   &lookupCache{},
	}
	if validate {
		table := newTupleTable(n)
		for row := 0; row < n; row++ {
			if table.insert(indexers, row) >= 0 {
				return nil, core.NewNonUniqueError(h.tupleAt(row))
			}
		}
		h.lookup.once.Do(func() { h.lookup.table = table })
	}
	return h, nil
}

func (h *Hierarchy) hierarchyKey() {}

// Depth returns the number of levels.
func (h *Hierarchy) Depth() int { return len(h.levels) }

// Len returns the number of rows.
func (h *Hierarchy) Len() int { return h.n }

// Shape returns the row count and the depth.
func (h *Hierarchy) Shape() (rows, depth int) { return h.n, len(h.levels) }

// Name returns the aggregate name, which may be a Tuple of per-level names.
func (h *Hierarchy) Name() index.Label { return h.name }

// Names returns one name per depth. When the name is not a Tuple of
// matching length, generic names of the form __index0__ are returned.
func (h *Hierarchy) Names() []index.Label {
	out := make([]index.Label, len(h.levels))
	if t, ok := h.name.(Tuple); ok && len(t) == len(h.levels) {
		copy(out, t)
		return out
	}
	for d := range out {
		out[d] = fmt.Sprintf("__index%d__", d)
	}
	return out
}

// Rename returns a copy with a new name.
func (h *Hierarchy) Rename(name index.Label) *Hierarchy {
	c := h.Copy()
	c.name = name
	return c
}

// Copy returns a hierarchy sharing the levels and indexers of h.
func (h *Hierarchy) Copy() *Hierarchy {
	return &Hierarchy{
		levels:   h.levels,
		indexers: h.indexers,
		name:     h.name,
		n:        h.n,
		growOnly: h.growOnly,
		lookup:   h.lookup,
	}
}

// Level returns the level at depth.
func (h *Hierarchy) Level(depth int) *index.Level { return h.levels[depth] }

// Levels returns the per-depth levels. The slice must not be modified.
func (h *Hierarchy) Levels() []*index.Level { return h.levels }

// Indexers returns the indexer array of depth. The slice must not be
// modified.
func (h *Hierarchy) Indexers(depth int) []int { return h.indexers[depth] }

func (h *Hierarchy) table() *tupleTable {
	h.lookup.once.Do(func() {
		t := newTupleTable(h.n)
		for row := 0; row < h.n; row++ {
			t.insert(h.indexers, row)
		}
		h.lookup.table = t
	})
	return h.lookup.table
}

// rowOf finds the row holding t, or -1. The error is non-nil only when a
// label of t is missing from its level.
func (h *Hierarchy) rowOf(t Tuple) (int, error) {
	codes := make([]int, len(h.levels))
	for d, v := range t {
		pos, err := h.levels[d].Position(v)
		if err != nil {
			return -1, err
		}
		codes[d] = pos
	}
	return h.table().find(h.indexers, codes, h.n), nil
}

func (h *Hierarchy) tupleAt(row int) Tuple {
	t := make(Tuple, len(h.levels))
	for d, lvl := range h.levels {
		t[d] = lvl.Label(h.indexers[d][row])
	}
	return t
}

// Tuple returns the composite label at row.
func (h *Hierarchy) Tuple(row int) Tuple { return h.tupleAt(row) }

// Tuples returns every composite label in row order.
func (h *Hierarchy) Tuples() Tuples {
	out := make(Tuples, h.n)
	for row := range out {
		out[row] = h.tupleAt(row)
	}
	return out
}

// IterLabels yields the composite label of every row.
func (h *Hierarchy) IterLabels() iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		for row := 0; row < h.n; row++ {
			if !yield(h.tupleAt(row)) {
				return
			}
		}
	}
}

// IterLabelsAtDepth yields, per row, the labels at the given depths. With a
// single depth the tuples have length one.
func (h *Hierarchy) IterLabelsAtDepth(depths ...int) (iter.Seq[Tuple], error) {
	if err := h.checkDepths("iter labels", depths); err != nil {
		return nil, err
	}
	return func(yield func(Tuple) bool) {
		for row := 0; row < h.n; row++ {
			t := make(Tuple, len(depths))
			for i, d := range depths {
				t[i] = h.levels[d].Label(h.indexers[d][row])
			}
			if !yield(t) {
				return
			}
		}
	}, nil
}

// ValuesAtDepth returns the label of every row at depth.
func (h *Hierarchy) ValuesAtDepth(depth int) ([]index.Label, error) {
	if err := h.checkDepths("values at depth", []int{depth}); err != nil {
		return nil, err
	}
	lvl, idx := h.levels[depth], h.indexers[depth]
	out := make([]index.Label, h.n)
	for row := range out {
		out[row] = lvl.Label(idx[row])
	}
	return out, nil
}

// Unique returns the distinct labels at depth in first-seen row order.
func (h *Hierarchy) Unique(depth int) ([]index.Label, error) {
	values, err := h.ValuesAtDepth(depth)
	if err != nil {
		return nil, err
	}
	uniques, _ := index.Dedup(values)
	return uniques, nil
}

// checkDepths validates a non-empty, duplicate-free, in-range depth list.
func (h *Hierarchy) checkDepths(op string, depths []int) error {
	if len(depths) == 0 {
		return core.NewStructuralError(op, "no depth selected")
	}
	seen := make(map[int]bool, len(depths))
	for _, d := range depths {
		if d < 0 || d >= len(h.levels) {
			return core.NewStructuralError(op, "depth %d out of range for depth %d", d, len(h.levels))
		}
		if seen[d] {
			return core.NewStructuralError(op, "depth %d selected twice", d)
		}
		seen[d] = true
	}
	return nil
}

// ILoc returns the rows at positions in the given order. Levels are shared
// with h. Repeating a position is a uniqueness error.
func (h *Hierarchy) ILoc(positions []int) (*Hierarchy, error) {
	seen := roaring.New()
	for _, p := range positions {
		if p < 0 || p >= h.n {
			return nil, core.NewKeyError(p)
		}
		if !seen.CheckedAdd(uint32(p)) {
			return nil, core.NewNonUniqueError(h.tupleAt(p))
		}
	}
	return h.take(positions), nil
}

// take extracts rows without validation. Positions must be in range and
// distinct.
func (h *Hierarchy) take(positions []int) *Hierarchy {
	indexers := make([][]int, len(h.indexers))
	for d, idx := range h.indexers {
		out := make([]int, len(positions))
		for i, p := range positions {
			out[i] = idx[p]
		}
		indexers[d] = out
	}
	sub, _ := newHierarchy(h.levels, indexers, h.name, false)
	sub.growOnly = h.growOnly
	return sub
}

// Head returns the first count rows.
func (h *Hierarchy) Head(count int) *Hierarchy {
	count = min(max(count, 0), h.n)
	return h.take(span(0, count))
}

// Tail returns the last count rows.
func (h *Hierarchy) Tail(count int) *Hierarchy {
	count = min(max(count, 0), h.n)
	return h.take(span(h.n-count, h.n))
}

func (h *Hierarchy) empty() *Hierarchy {
	return h.take(nil)
}

func span(start, stop int) []int {
	out := make([]int, 0, max(stop-start, 0))
	for i := start; i < stop; i++ {
		out = append(out, i)
	}
	return out
}

// String renders a short description.
func (h *Hierarchy) String() string {
	return fmt.Sprintf("Hierarchy(depth=%d, rows=%d)", len(h.levels), h.n)
}
