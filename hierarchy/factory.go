package hierarchy

import (
	"sort"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// constructorsFor expands user constructors to one per depth.
func constructorsFor(op string, ctors []index.Constructor, depth int) ([]index.Constructor, error) {
	switch len(ctors) {
	case 0:
		out := make([]index.Constructor, depth)
		for d := range out {
			out[d] = index.Generic
		}
		return out, nil
	case 1:
		out := make([]index.Constructor, depth)
		for d := range out {
			out[d] = ctors[0]
		}
		return out, nil
	case depth:
		out := make([]index.Constructor, depth)
		for d, c := range ctors {
			if c == nil {
				c = index.Generic
			}
			out[d] = c
		}
		return out, nil
	default:
		return nil, core.NewStructuralError(op, "got %d index constructors for depth %d", len(ctors), depth)
	}
}

func levelName(name index.Label, depth, d int) index.Label {
	if t, ok := name.(Tuple); ok && len(t) == depth {
		return t[d]
	}
	return nil
}

// fromColumns builds a hierarchy from one label column per depth.
func fromColumns(op string, columns [][]index.Label, ctors []index.Constructor, name index.Label) (*Hierarchy, error) {
	depth := len(columns)
	ctors, err := constructorsFor(op, ctors, depth)
	if err != nil {
		return nil, err
	}
	levels := make([]*index.Level, depth)
	indexers := make([][]int, depth)
	for d, col := range columns {
		if err := index.CheckHashable(op, col...); err != nil {
			return nil, err
		}
		uniques, codes := index.Dedup(col)
		lvl, err := ctors[d](uniques, levelName(name, depth, d))
		if err != nil {
			return nil, err
		}
		remap := make([]int, len(uniques))
		for i, u := range uniques {
			if remap[i], err = lvl.Position(u); err != nil {
				return nil, err
			}
		}
		for i, c := range codes {
			codes[i] = remap[c]
		}
		levels[d] = lvl
		indexers[d] = codes
	}
	return newHierarchy(levels, indexers, name, true)
}

// emptyWithDepth builds a zero-row hierarchy.
func emptyWithDepth(op string, depth int, ctors []index.Constructor, name index.Label) (*Hierarchy, error) {
	if depth < 2 {
		return nil, core.NewStructuralError(op, "depth must be at least 2, got %d", depth)
	}
	return fromColumns(op, make([][]index.Label, depth), ctors, name)
}

// FromLabels builds a hierarchy from composite labels. The length of the
// first tuple fixes the depth and every tuple must match it.
func FromLabels(tuples []Tuple, optFns ...Option) (*Hierarchy, error) {
	const op = "from labels"
	opts := newOptions(optFns)
	if len(tuples) == 0 {
		if opts.depthReference == 0 {
			return nil, core.NewStructuralError(op, "depth cannot be determined from empty labels")
		}
		return emptyWithDepth(op, opts.depthReference, opts.constructors, opts.name)
	}
	depth := len(tuples[0])
	if opts.depthReference != 0 && opts.depthReference != depth {
		return nil, core.NewStructuralError(op, "depth reference %d does not match labels of depth %d", opts.depthReference, depth)
	}
	if depth < 2 {
		return nil, core.NewStructuralError(op, "depth must be at least 2, got %d", depth)
	}
	columns := make([][]index.Label, depth)
	for d := range columns {
		columns[d] = make([]index.Label, len(tuples))
	}
	for row, t := range tuples {
		if len(t) != depth {
			return nil, core.NewStructuralError(op, "row %d has %d labels, expected %d", row, len(t), depth)
		}
		for d, v := range t {
			v = index.Normalize(v)
			if !index.Hashable(v) {
				return nil, index.CheckHashable(op, v)
			}
			if opts.hasContinuation && row > 0 && index.Equal(v, opts.continuationToken) {
				v = columns[d][row-1]
			}
			columns[d][row] = v
		}
	}
	if opts.reorder {
		columns = reorderForHierarchy(columns)
	}
	return fromColumns(op, columns, opts.constructors, opts.name)
}

// reorderForHierarchy stably sorts rows by the first-seen rank of their
// labels at every depth but the innermost.
func reorderForHierarchy(columns [][]index.Label) [][]index.Label {
	depth := len(columns)
	n := len(columns[0])
	ranks := make([][]int, depth-1)
	for d := range ranks {
		_, ranks[d] = index.Dedup(columns[d])
	}
	order := span(0, n)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		for _, r := range ranks {
			if r[a] != r[b] {
				return r[a] < r[b]
			}
		}
		return false
	})
	out := make([][]index.Label, depth)
	for d, col := range columns {
		out[d] = make([]index.Label, n)
		for i, row := range order {
			out[d][i] = col[row]
		}
	}
	return out
}

// FromArrays builds a hierarchy from one equal-length label array per depth.
func FromArrays(arrays [][]index.Label, optFns ...Option) (*Hierarchy, error) {
	const op = "from arrays"
	opts := newOptions(optFns)
	if len(arrays) < 2 {
		return nil, core.NewStructuralError(op, "depth must be at least 2, got %d", len(arrays))
	}
	if opts.depthReference != 0 && opts.depthReference != len(arrays) {
		return nil, core.NewStructuralError(op, "depth reference %d does not match %d arrays", opts.depthReference, len(arrays))
	}
	n := len(arrays[0])
	columns := make([][]index.Label, len(arrays))
	for d, a := range arrays {
		if len(a) != n {
			return nil, core.NewStructuralError(op, "array %d has length %d, expected %d", d, len(a), n)
		}
		columns[d] = index.NormalizeAll(a)
	}
	return fromColumns(op, columns, opts.constructors, opts.name)
}

// BuildIndexersFromProduct returns the indexer arrays of the cartesian
// product of levels with the given sizes, outermost varying slowest.
func BuildIndexersFromProduct(sizes []int) [][]int {
	total := 1
	for _, s := range sizes {
		total *= s
	}
	indexers := make([][]int, len(sizes))
	repeat := total
	for d, size := range sizes {
		out := make([]int, total)
		if size > 0 {
			repeat /= size
			for i := range out {
				out[i] = (i / repeat) % size
			}
		}
		indexers[d] = out
	}
	return indexers
}

// FromProduct builds the cartesian product of levels in row-major order.
// Each level must be non-empty and hold unique labels.
func FromProduct(levels [][]index.Label, optFns ...Option) (*Hierarchy, error) {
	const op = "from product"
	opts := newOptions(optFns)
	depth := len(levels)
	if depth < 2 {
		return nil, core.NewStructuralError(op, "at least 2 levels are required, got %d", depth)
	}
	ctors, err := constructorsFor(op, opts.constructors, depth)
	if err != nil {
		return nil, err
	}
	built := make([]*index.Level, depth)
	sizes := make([]int, depth)
	for d, labels := range levels {
		if len(labels) == 0 {
			return nil, core.NewStructuralError(op, "level %d is empty", d)
		}
		lvl, err := ctors[d](labels, levelName(opts.name, depth, d))
		if err != nil {
			return nil, err
		}
		built[d] = lvl
		sizes[d] = lvl.Len()
	}
	return newHierarchy(built, BuildIndexersFromProduct(sizes), opts.name, false)
}

// FromLevels is like FromProduct for already built levels.
func FromLevels(levels []*index.Level, optFns ...Option) (*Hierarchy, error) {
	opts := newOptions(optFns)
	if len(levels) < 2 {
		return nil, core.NewStructuralError("from levels", "at least 2 levels are required, got %d", len(levels))
	}
	sizes := make([]int, len(levels))
	for d, l := range levels {
		if l.Len() == 0 {
			return nil, core.NewStructuralError("from levels", "level %d is empty", d)
		}
		sizes[d] = l.Len()
	}
	return newHierarchy(append([]*index.Level(nil), levels...), BuildIndexersFromProduct(sizes), opts.name, false)
}

// FromIndexers builds a hierarchy from levels and one indexer array per
// level, as returned by Levels and Indexers. Every code must address a label
// of its level and rows must be unique.
func FromIndexers(levels []*index.Level, indexers [][]int, optFns ...Option) (*Hierarchy, error) {
	const op = "from indexers"
	opts := newOptions(optFns)
	if len(levels) < 2 {
		return nil, core.NewStructuralError(op, "at least 2 levels are required, got %d", len(levels))
	}
	if len(indexers) != len(levels) {
		return nil, core.NewStructuralError(op, "got %d indexers for %d levels", len(indexers), len(levels))
	}
	n := len(indexers[0])
	copied := make([][]int, len(indexers))
	for d, idx := range indexers {
		if len(idx) != n {
			return nil, core.NewStructuralError(op, "indexer %d has %d rows, expected %d", d, len(idx), n)
		}
		for _, code := range idx {
			if code < 0 || code >= levels[d].Len() {
				return nil, core.NewStructuralError(op, "code %d out of range for level %d", code, d)
			}
		}
		copied[d] = append([]int(nil), idx...)
	}
	return newHierarchy(append([]*index.Level(nil), levels...), copied, opts.name, true)
}

// IndexItem pairs an outer label with a flat index.
type IndexItem struct {
	Key   index.Label
	Index *index.Level
}

// FromIndexItems builds a depth-2 hierarchy whose outer level holds the item
// keys and whose inner level holds the labels of every item's index.
func FromIndexItems(items []IndexItem, optFns ...Option) (*Hierarchy, error) {
	const op = "from index items"
	opts := newOptions(optFns)
	var outer, inner []index.Label
	for _, it := range items {
		for _, l := range it.Index.Labels() {
			outer = append(outer, it.Key)
			inner = append(inner, l)
		}
	}
	if len(outer) == 0 {
		return emptyWithDepth(op, 2, opts.constructors, opts.name)
	}
	return fromColumns(op, [][]index.Label{outer, inner}, opts.constructors, opts.name)
}

// FromNames builds a zero-row hierarchy with one level per name.
func FromNames(names []index.Label, optFns ...Option) (*Hierarchy, error) {
	opts := newOptions(optFns)
	if len(names) == 0 {
		return nil, core.NewStructuralError("from names", "names must not be empty")
	}
	return emptyWithDepth("from names", len(names), opts.constructors, Tuple(append([]index.Label(nil), names...)))
}

// FromEmpty builds a zero-row hierarchy of the given depth.
func FromEmpty(depth int, optFns ...Option) (*Hierarchy, error) {
	opts := newOptions(optFns)
	if opts.depthReference != 0 && opts.depthReference != depth {
		return nil, core.NewStructuralError("from empty", "depth reference %d does not match depth %d", opts.depthReference, depth)
	}
	return emptyWithDepth("from empty", depth, opts.constructors, opts.name)
}
