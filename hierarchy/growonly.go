package hierarchy

import (
	"iter"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// GrowOnly is a hierarchical index that accepts appended rows.
//
// Appends are buffered and only checked for arity. The buffer is merged
// into the level and indexer arrays by Finalize, which every read needing
// the array form calls first; duplicate rows are reported there. A failed
// Finalize keeps the buffer, so the error is reported again on the next
// read. GrowOnly is not safe for concurrent use.
type GrowOnly struct {
	h        *Hierarchy
	indexers [][]int
	table    *tupleTable
	pending  []Tuple
}

// NewGrowOnly returns a grow-only index holding the rows of h.
func NewGrowOnly(h *Hierarchy) *GrowOnly {
	indexers := make([][]int, len(h.indexers))
	for d, idx := range h.indexers {
		indexers[d] = append(make([]int, 0, len(idx)), idx...)
	}
	table := newTupleTable(h.n)
	for row := 0; row < h.n; row++ {
		table.insert(indexers, row)
	}
	g := &GrowOnly{indexers: indexers, table: table}
	g.h = g.snapshot(h.levels, h.name)
	return g
}

// GrowOnlyFromLabels is FromLabels returning a grow-only index.
func GrowOnlyFromLabels(tuples []Tuple, optFns ...Option) (*GrowOnly, error) {
	h, err := FromLabels(tuples, optFns...)
	if err != nil {
		return nil, err
	}
	return NewGrowOnly(h), nil
}

// GrowOnlyFromProduct is FromProduct returning a grow-only index.
func GrowOnlyFromProduct(levels [][]index.Label, optFns ...Option) (*GrowOnly, error) {
	h, err := FromProduct(levels, optFns...)
	if err != nil {
		return nil, err
	}
	return NewGrowOnly(h), nil
}

func (g *GrowOnly) snapshot(levels []*index.Level, name index.Label) *Hierarchy {
	indexers := make([][]int, len(g.indexers))
	copy(indexers, g.indexers)
	n := 0
	if len(indexers) > 0 {
		n = len(indexers[0])
	}
	h := &Hierarchy{
		levels:   levels,
		indexers: indexers,
		name:     name,
		n:        n,
		growOnly: true,
		lookup:   &lookupCache{},
	}
	table := g.table
	h.lookup.once.Do(func() { h.lookup.table = table })
	return h
}

func (g *GrowOnly) operand() (*Hierarchy, Tuples, error) {
	h, err := g.Hierarchy()
	return h, nil, err
}

// Depth returns the number of levels.
func (g *GrowOnly) Depth() int { return g.h.Depth() }

// Len returns the number of rows including buffered appends.
func (g *GrowOnly) Len() int { return g.h.n + len(g.pending) }

// Append buffers one composite label.
func (g *GrowOnly) Append(t Tuple) error {
	if len(t) != g.Depth() {
		return core.NewStructuralError("append", "label %v does not have depth %d", t, g.Depth())
	}
	t = t.normalize()
	if err := index.CheckHashable("append", t...); err != nil {
		return err
	}
	g.pending = append(g.pending, t)
	return nil
}

// Extend buffers the rows of every operand.
func (g *GrowOnly) Extend(others ...Operand) error {
	var rows []Tuple
	for _, o := range others {
		if o == nil {
			return core.NewStructuralError("extend", "nil operand")
		}
		h, tuples, err := o.operand()
		if err != nil {
			return err
		}
		if h != nil {
			if h.Depth() != g.Depth() {
				return core.NewStructuralError("extend", "operand depth %d does not match depth %d", h.Depth(), g.Depth())
			}
			tuples = h.Tuples()
		}
		for _, t := range tuples {
			if len(t) != g.Depth() {
				return core.NewStructuralError("extend", "label %v does not have depth %d", t, g.Depth())
			}
			t = t.normalize()
			if err := index.CheckHashable("extend", t...); err != nil {
				return err
			}
			rows = append(rows, t)
		}
	}
	g.pending = append(g.pending, rows...)
	return nil
}

// Finalize merges buffered rows into the index. It is idempotent.
func (g *GrowOnly) Finalize() error {
	if len(g.pending) == 0 {
		return nil
	}
	depth := g.Depth()
	levels := append([]*index.Level(nil), g.h.levels...)
	for d := range levels {
		var fresh []index.Label
		seen := make(map[index.Label]bool)
		for _, t := range g.pending {
			if !levels[d].Contains(t[d]) && !seen[t[d]] {
				seen[t[d]] = true
				fresh = append(fresh, t[d])
			}
		}
		if len(fresh) == 0 {
			continue
		}
		lvl, err := levels[d].Extend(fresh...)
		if err != nil {
			return err
		}
		levels[d] = lvl
	}

	base := g.h.n
	indexers := make([][]int, depth)
	for d := range indexers {
		indexers[d] = g.indexers[d][:base:base]
		for _, t := range g.pending {
			pos, err := levels[d].Position(t[d])
			if err != nil {
				return err
			}
			indexers[d] = append(indexers[d], pos)
		}
	}
	for i := range g.pending {
		if g.table.insert(indexers, base+i) >= 0 {
			g.rebuildTable()
			return core.NewNonUniqueError(g.pending[i])
		}
	}
	g.indexers = indexers
	g.pending = nil
	g.h = g.snapshot(levels, g.h.name)
	return nil
}

// rebuildTable drops rows a failed Finalize inserted into the lookup table.
func (g *GrowOnly) rebuildTable() {
	t := newTupleTable(g.h.n)
	for row := 0; row < g.h.n; row++ {
		t.insert(g.indexers, row)
	}
	g.table = t
}

// Hierarchy finalizes and returns an immutable snapshot of the current rows.
func (g *GrowOnly) Hierarchy() (*Hierarchy, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g.h, nil
}

// LocToILoc finalizes and resolves key.
func (g *GrowOnly) LocToILoc(key Key) (Result, error) {
	h, err := g.Hierarchy()
	if err != nil {
		return Result{}, err
	}
	return h.LocToILoc(key)
}

// Contains finalizes and reports whether t names a row.
func (g *GrowOnly) Contains(t Tuple) (bool, error) {
	h, err := g.Hierarchy()
	if err != nil {
		return false, err
	}
	return h.Contains(t)
}

// ValuesAtDepth finalizes and returns the labels of every row at depth.
func (g *GrowOnly) ValuesAtDepth(depth int) ([]index.Label, error) {
	h, err := g.Hierarchy()
	if err != nil {
		return nil, err
	}
	return h.ValuesAtDepth(depth)
}

// IterLabels finalizes and yields every composite label.
func (g *GrowOnly) IterLabels() (iter.Seq[Tuple], error) {
	h, err := g.Hierarchy()
	if err != nil {
		return nil, err
	}
	return h.IterLabels(), nil
}

// LabelWidthsAtDepth finalizes and returns label widths at depth.
func (g *GrowOnly) LabelWidthsAtDepth(depths ...int) ([]LabelWidth, error) {
	h, err := g.Hierarchy()
	if err != nil {
		return nil, err
	}
	return h.LabelWidthsAtDepth(depths...)
}

// ILoc returns a new grow-only index holding the rows at positions.
func (g *GrowOnly) ILoc(positions []int) (*GrowOnly, error) {
	h, err := g.Hierarchy()
	if err != nil {
		return nil, err
	}
	sub, err := h.ILoc(positions)
	if err != nil {
		return nil, err
	}
	return NewGrowOnly(sub), nil
}

// Copy returns an independent grow-only index with the same rows and
// pending appends.
func (g *GrowOnly) Copy() *GrowOnly {
	c := NewGrowOnly(g.h)
	c.pending = append([]Tuple(nil), g.pending...)
	return c
}

// Equals finalizes and compares like Hierarchy.Equals.
func (g *GrowOnly) Equals(other any, optFns ...EqualsOption) bool {
	h, err := g.Hierarchy()
	if err != nil {
		return false
	}
	return equals(h, true, other, optFns)
}
