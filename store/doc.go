// Package store holds the column data of a frame.
//
// A Store is an immutable list of equally long typed columns. Row
// selection (ExtractRows, Mask) and vertical concatenation (Concat) return
// new stores; columns not touched by an operation are shared.
package store
