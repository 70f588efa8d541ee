// Package sframe provides immutable frames indexed by hierarchical labels
// and buses that load named frames on demand.
//
// The building blocks live in subpackages:
//
//	index      single-level label index (*index.Level)
//	hierarchy  multi-level index with partial, slice and positional lookup
//	store      typed columnar storage
//	frame      a store with row and column indexes
//	bus        named frames with bounded residency, and yarns over buses
//	blobstore  backing stores (memory, local, S3, MinIO, Badger)
//
// This package wires logging and metrics into buses and re-exports the
// error sentinels.
//
// # Quick Start
//
//	h, _ := hierarchy.FromProduct([][]index.Label{{"a", "b"}, {1, 2}})
//	r, _ := h.LocToILoc(hierarchy.H("b"))
//	fmt.Println(r.Positions()) // [2 3]
//
// Persisting and reopening a bus:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//	b, _ := sframe.NewBus([]*frame.Frame{jan, feb, mar})
//	_ = b.Persist(ctx, store, "quotes")
//
//	lazy, _ := sframe.OpenBus(ctx, store, "quotes", sframe.WithMaxResident(1))
//	f, _ := lazy.Get(ctx, "feb") // loads feb
//	f, _ = lazy.Get(ctx, "mar")  // loads mar, evicts feb
//
// # Errors
//
// All operations return errors that match one of the sentinels with
// errors.Is: ErrStructural, ErrNonUnique, ErrKeyNotFound, ErrType,
// ErrNotImplemented, and for buses ErrMemoryLimit, ErrNotFound, ErrCorrupt
// and ErrNoManifest.
package sframe
