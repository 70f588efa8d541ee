package hierarchy

import (
	"sort"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// Rehierarch reorders the depths. order is a permutation of 0..Depth()-1;
// rows are stably re-sorted by their level positions in the new order.
func (h *Hierarchy) Rehierarch(order ...int) (*Hierarchy, error) {
	if len(order) != h.Depth() {
		return nil, core.NewStructuralError("rehierarch", "order has %d depths, expected %d", len(order), h.Depth())
	}
	if err := h.checkDepths("rehierarch", order); err != nil {
		return nil, err
	}
	levels := make([]*index.Level, len(order))
	source := make([][]int, len(order))
	for i, d := range order {
		levels[i] = h.levels[d]
		source[i] = h.indexers[d]
	}
	rows := span(0, h.n)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for _, idx := range source {
			if idx[a] != idx[b] {
				return idx[a] < idx[b]
			}
		}
		return false
	})
	indexers := make([][]int, len(order))
	for i, idx := range source {
		out := make([]int, h.n)
		for k, row := range rows {
			out[k] = idx[row]
		}
		indexers[i] = out
	}
	var name index.Label = h.name
	if t, ok := h.name.(Tuple); ok && len(t) == h.Depth() {
		reordered := make(Tuple, len(order))
		for i, d := range order {
			reordered[i] = t[d]
		}
		name = reordered
	}
	out, err := newHierarchy(levels, indexers, name, false)
	if err != nil {
		return nil, err
	}
	out.growOnly = h.growOnly
	return out, nil
}

// Relabeler transforms labels for RelabelAtDepth. It is one of MapFunc,
// MapLabels or MapSequence.
type Relabeler interface {
	relabel(lvl *index.Level, indexer []int) ([]index.Label, error)
}

// MapFunc applies a function to every distinct label of a depth.
type MapFunc func(index.Label) index.Label

func (f MapFunc) relabel(lvl *index.Level, indexer []int) ([]index.Label, error) {
	mapped := make([]index.Label, lvl.Len())
	for i, l := range lvl.Labels() {
		mapped[i] = f(l)
	}
	return expand(mapped, indexer), nil
}

// MapLabels replaces labels found in the map; other labels are kept.
type MapLabels map[index.Label]index.Label

func (m MapLabels) relabel(lvl *index.Level, indexer []int) ([]index.Label, error) {
	norm := make(map[index.Label]index.Label, len(m))
	for k, v := range m {
		norm[index.Normalize(k)] = v
	}
	mapped := make([]index.Label, lvl.Len())
	for i, l := range lvl.Labels() {
		if v, ok := norm[l]; ok {
			mapped[i] = v
		} else {
			mapped[i] = l
		}
	}
	return expand(mapped, indexer), nil
}

// MapSequence provides the new label of every row. Its length must equal
// the row count.
type MapSequence []index.Label

func (s MapSequence) relabel(_ *index.Level, indexer []int) ([]index.Label, error) {
	if len(s) != len(indexer) {
		return nil, core.NewStructuralError("relabel at depth", "sequence of length %d for %d rows", len(s), len(indexer))
	}
	return index.NormalizeAll(s), nil
}

func expand(mapped []index.Label, indexer []int) []index.Label {
	out := make([]index.Label, len(indexer))
	for row, code := range indexer {
		out[row] = mapped[code]
	}
	return out
}

// RelabelAtDepth applies r to each of the given depths independently, in
// ascending depth order. Depths must be unique and in range. Untouched
// depths share their levels with h.
func (h *Hierarchy) RelabelAtDepth(r Relabeler, depths ...int) (*Hierarchy, error) {
	const op = "relabel at depth"
	if r == nil {
		return nil, core.NewStructuralError(op, "nil relabeler")
	}
	if err := h.checkDepths(op, depths); err != nil {
		return nil, err
	}
	sorted := append([]int(nil), depths...)
	sort.Ints(sorted)

	levels := append([]*index.Level(nil), h.levels...)
	indexers := append([][]int(nil), h.indexers...)
	for _, d := range sorted {
		values, err := r.relabel(h.levels[d], h.indexers[d])
		if err != nil {
			return nil, err
		}
		if err := index.CheckHashable("relabel", values...); err != nil {
			return nil, err
		}
		uniques, codes := index.Dedup(values)
		lvl, err := index.New(uniques, index.WithName(h.levels[d].Name()))
		if err != nil {
			return nil, err
		}
		levels[d] = lvl
		indexers[d] = codes
	}
	out, err := newHierarchy(levels, indexers, h.name, true)
	if err != nil {
		return nil, err
	}
	out.growOnly = h.growOnly
	return out, nil
}

// Relabel maps every composite label through fn. The result must be unique
// and keep the depth.
func (h *Hierarchy) Relabel(fn func(Tuple) Tuple) (*Hierarchy, error) {
	tuples := make([]Tuple, h.n)
	for row := range tuples {
		t := fn(h.tupleAt(row))
		if len(t) != h.Depth() {
			return nil, core.NewStructuralError("relabel", "mapped label %v does not have depth %d", t, h.Depth())
		}
		tuples[row] = t
	}
	return fromTuples("relabel", h.Depth(), tuples, nil, h.name)
}

// LevelAdd prepends an outermost depth holding label on every row. The
// existing indexer arrays are reused.
func (h *Hierarchy) LevelAdd(label index.Label, ctor index.Constructor) (*Hierarchy, error) {
	if ctor == nil {
		ctor = index.Generic
	}
	lvl, err := ctor([]index.Label{label}, nil)
	if err != nil {
		return nil, err
	}
	levels := append([]*index.Level{lvl}, h.levels...)
	indexers := append([][]int{make([]int, h.n)}, h.indexers...)
	name := h.name
	if t, ok := name.(Tuple); ok && len(t) == h.Depth() {
		name = append(Tuple{nil}, t...)
	}
	out, err := newHierarchy(levels, indexers, name, false)
	if err != nil {
		return nil, err
	}
	out.growOnly = h.growOnly
	return out, nil
}

// LevelDrop removes count outer depths, or -count inner depths when count
// is negative. Dropping down to one depth returns a flat *index.Level.
func (h *Hierarchy) LevelDrop(count int) (Axis, error) {
	const op = "level drop"
	depth := h.Depth()
	if count == 0 {
		return nil, core.NotImplemented(op, "count must not be zero")
	}
	if count >= depth || -count >= depth {
		return nil, core.NewStructuralError(op, "cannot drop %d of %d depths", count, depth)
	}
	var keep []int
	if count > 0 {
		keep = span(count, depth)
	} else {
		keep = span(0, depth+count)
	}

	var names Tuple
	if t, ok := h.name.(Tuple); ok && len(t) == depth {
		for _, d := range keep {
			names = append(names, t[d])
		}
	}

	if len(keep) == 1 {
		d := keep[0]
		values, _ := h.ValuesAtDepth(d)
		var name index.Label = h.levels[d].Name()
		if names != nil {
			name = names[0]
		}
		lvl, err := index.New(values, index.WithKind(h.levels[d].Kind()), index.WithName(name))
		if err != nil {
			return nil, err
		}
		return lvl, nil
	}

	levels := make([]*index.Level, len(keep))
	indexers := make([][]int, len(keep))
	for i, d := range keep {
		levels[i] = h.levels[d]
		indexers[i] = h.indexers[d]
	}
	var name index.Label
	if names != nil {
		name = names
	}
	out, err := newHierarchy(levels, indexers, name, true)
	if err != nil {
		return nil, err
	}
	out.growOnly = h.growOnly
	return out, nil
}

type sortOptions struct {
	ascending []bool
	key       func(Tuple) index.Label
}

// SortOption configures Sort.
type SortOption func(*sortOptions)

// Ascending sets the direction. One flag applies to every depth; otherwise
// one flag per depth is required.
func Ascending(flags ...bool) SortOption {
	return func(o *sortOptions) {
		o.ascending = flags
	}
}

// SortKey sorts rows by a value derived from each composite label.
func SortKey(fn func(Tuple) index.Label) SortOption {
	return func(o *sortOptions) {
		o.key = fn
	}
}

// Sort returns the rows in sorted order. The sort is stable.
func (h *Hierarchy) Sort(optFns ...SortOption) (*Hierarchy, error) {
	const op = "sort"
	var opts sortOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	depth := h.Depth()
	asc := make([]bool, depth)
	switch len(opts.ascending) {
	case 0:
		for d := range asc {
			asc[d] = true
		}
	case 1:
		for d := range asc {
			asc[d] = opts.ascending[0]
		}
	case depth:
		if opts.key != nil {
			return nil, core.NewStructuralError(op, "a key sort takes a single direction")
		}
		copy(asc, opts.ascending)
	default:
		return nil, core.NewStructuralError(op, "got %d directions for depth %d", len(opts.ascending), depth)
	}

	rows := span(0, h.n)
	var cmpErr error
	less := func(a, b index.Label, ascending bool) (bool, bool) {
		c, ok := index.Compare(a, b)
		if !ok {
			if cmpErr == nil {
				cmpErr = core.NewTypeError(op, "cannot order %v and %v", a, b)
			}
			return false, true
		}
		if c == 0 {
			return false, false
		}
		return (c < 0) == ascending, true
	}
	if opts.key != nil {
		keys := make([]index.Label, h.n)
		for row := range keys {
			keys[row] = index.Normalize(opts.key(h.tupleAt(row)))
		}
		sort.SliceStable(rows, func(i, j int) bool {
			r, _ := less(keys[rows[i]], keys[rows[j]], asc[0])
			return r
		})
	} else {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			for d, lvl := range h.levels {
				if r, decided := less(lvl.Label(h.indexers[d][a]), lvl.Label(h.indexers[d][b]), asc[d]); decided {
					return r
				}
			}
			return false
		})
	}
	if cmpErr != nil {
		return nil, cmpErr
	}
	return h.take(rows), nil
}

// Roll rotates rows by shift positions; the last row moves to the front
// for a shift of one.
func (h *Hierarchy) Roll(shift int) *Hierarchy {
	if h.n == 0 {
		return h.Copy()
	}
	s := ((shift % h.n) + h.n) % h.n
	rows := make([]int, h.n)
	for i := range rows {
		rows[i] = (i - s + h.n) % h.n
	}
	return h.take(rows)
}

// IsIn reports for every row whether its composite label is one of
// candidates. Each candidate must be a Tuple or a slice of labels;
// candidates of another depth never match.
func (h *Hierarchy) IsIn(candidates []any) ([]bool, error) {
	out := make([]bool, h.n)
	for _, c := range candidates {
		var t Tuple
		switch x := c.(type) {
		case Tuple:
			t = x
		case []index.Label:
			t = Tuple(x)
		default:
			return nil, core.NewStructuralError("isin", "candidate %v is not a composite label", c)
		}
		if len(t) != h.Depth() {
			continue
		}
		if row, err := h.rowOf(t); err == nil && row >= 0 {
			out[row] = true
		}
	}
	return out, nil
}

// DropLoc removes the rows selected by key.
func (h *Hierarchy) DropLoc(key Key) (*Hierarchy, error) {
	r, err := h.LocToILoc(key)
	if err != nil {
		return nil, err
	}
	drop := make([]bool, h.n)
	for _, p := range r.positions {
		drop[p] = true
	}
	keep := make([]int, 0, h.n)
	for row, d := range drop {
		if !d {
			keep = append(keep, row)
		}
	}
	return h.take(keep), nil
}
