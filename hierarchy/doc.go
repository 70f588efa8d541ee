// Package hierarchy implements hierarchical (multi-level) indexes.
//
// A Hierarchy maps composite labels, one label per depth, to contiguous row
// positions. Each depth is an index.Level; rows are stored as per-depth
// indexer arrays holding the position of the row's label in that level.
//
// Construction:
//
//	h, err := hierarchy.FromProduct([][]index.Label{{"A", "B"}, {1, 2}})
//	h, err := hierarchy.FromLabels([]hierarchy.Tuple{{"I", "A"}, {"I", "B"}})
//	h, err := hierarchy.FromTree(roots)
//	h, err := hierarchy.FromArrays(arrays)
//
// Lookup takes a Key:
//
//	r, err := h.LocToILoc(hierarchy.Tuple{"I", "B"})              // one row
//	r, err := h.LocToILoc(hierarchy.H("I", hierarchy.All(), 2))   // partial key
//	r, err := h.LocToILoc(hierarchy.H(hierarchy.All(), hierarchy.At(-1)))
//
// Hierarchies are immutable. GrowOnly buffers appended rows and merges them
// on the next read that needs the array form.
package hierarchy
