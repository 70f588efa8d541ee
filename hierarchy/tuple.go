package hierarchy

import (
	"sort"

	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/internal/hash"
)

// Tuple is a composite label: one label per depth, outermost first.
type Tuple []index.Label

func (Tuple) hierarchyKey() {}

// Equal reports whether both tuples hold equal labels.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !index.Equal(t[i], other[i]) {
			return false
		}
	}
	return true
}

func (t Tuple) normalize() Tuple {
	return Tuple(index.NormalizeAll(t))
}

// compareTuples orders two tuples lexicographically. Comparison stops at the
// first differing depth, so incomparable labels deeper in the tuple are never
// inspected.
func compareTuples(a, b Tuple) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, ok := index.Compare(a[i], b[i])
		if !ok {
			if index.Equal(a[i], b[i]) {
				continue
			}
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	return len(a) - len(b), true
}

// sortTuples sorts tuples in place when every required comparison is
// defined and reports whether it did.
func sortTuples(tuples []Tuple) bool {
	sorted := append([]Tuple(nil), tuples...)
	ok := true
	sort.SliceStable(sorted, func(i, j int) bool {
		c, comparable := compareTuples(sorted[i], sorted[j])
		if !comparable {
			ok = false
			return false
		}
		return c < 0
	})
	if ok {
		copy(tuples, sorted)
	}
	return ok
}

// tupleTable finds rows by their per-depth indexer codes.
type tupleTable struct {
	buckets map[uint64][]int
}

func newTupleTable(size int) *tupleTable {
	return &tupleTable{buckets: make(map[uint64][]int, size)}
}

// find returns the row below limit whose codes equal codes, or -1.
func (t *tupleTable) find(indexers [][]int, codes []int, limit int) int {
	for _, row := range t.buckets[hash.Codes(codes)] {
		if row < limit && rowHasCodes(indexers, row, codes) {
			return row
		}
	}
	return -1
}

// insert adds row and returns the row it duplicates, or -1.
func (t *tupleTable) insert(indexers [][]int, row int) int {
	h := hash.Row(indexers, row)
	for _, other := range t.buckets[h] {
		if rowsEqual(indexers, row, other) {
			return other
		}
	}
	t.buckets[h] = append(t.buckets[h], row)
	return -1
}

func rowHasCodes(indexers [][]int, row int, codes []int) bool {
	for d, idx := range indexers {
		if idx[row] != codes[d] {
			return false
		}
	}
	return true
}

func rowsEqual(indexers [][]int, a, b int) bool {
	for _, idx := range indexers {
		if idx[a] != idx[b] {
			return false
		}
	}
	return true
}

// tupleSet is a dictionary-encoded set of tuples of a fixed depth.
type tupleSet struct {
	dicts    []map[index.Label]int
	indexers [][]int
	table    *tupleTable
	n        int
}

func newTupleSet(depth, size int) *tupleSet {
	s := &tupleSet{
		dicts:    make([]map[index.Label]int, depth),
		indexers: make([][]int, depth),
		table:    newTupleTable(size),
	}
	for d := range s.dicts {
		s.dicts[d] = make(map[index.Label]int)
		s.indexers[d] = make([]int, 0, size)
	}
	return s
}

// add inserts t and reports whether it was not already present.
func (s *tupleSet) add(t Tuple) bool {
	if len(t) != len(s.dicts) {
		return false
	}
	for d, v := range t {
		v = index.Normalize(v)
		code, ok := s.dicts[d][v]
		if !ok {
			code = len(s.dicts[d])
			s.dicts[d][v] = code
		}
		s.indexers[d] = append(s.indexers[d], code)
	}
	if s.table.insert(s.indexers, s.n) >= 0 {
		for d := range s.indexers {
			s.indexers[d] = s.indexers[d][:s.n]
		}
		return false
	}
	s.n++
	return true
}

func (s *tupleSet) has(t Tuple) bool {
	if len(t) != len(s.dicts) {
		return false
	}
	codes := make([]int, len(t))
	for d, v := range t {
		code, ok := s.dicts[d][index.Normalize(v)]
		if !ok {
			return false
		}
		codes[d] = code
	}
	return s.table.find(s.indexers, codes, s.n) >= 0
}
