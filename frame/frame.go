// Package frame pairs a column store with its row and column indexes.
package frame

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/store"
)

// Frame is an immutable table: a store, a row index that is either a flat
// *index.Level or a *hierarchy.Hierarchy, and a flat column index.
type Frame struct {
	name    index.Label
	index   hierarchy.Axis
	columns *index.Level
	store   *store.Store
}

type options struct {
	name    index.Label
	index   hierarchy.Axis
	columns *index.Level
	err     error
}

// Option configures New.
type Option func(*options)

// WithName sets the frame name.
func WithName(name index.Label) Option {
	return func(o *options) { o.name = name }
}

// WithIndex sets the row index. Its length must match the row count.
func WithIndex(idx hierarchy.Axis) Option {
	return func(o *options) { o.index = idx }
}

// WithColumns sets the column labels.
func WithColumns(labels ...index.Label) Option {
	return func(o *options) {
		o.columns, o.err = index.New(labels)
	}
}

// WithColumnIndex sets the column index.
func WithColumnIndex(lvl *index.Level) Option {
	return func(o *options) { o.columns = lvl }
}

// New wraps st. Missing indexes default to integer ranges.
func New(st *store.Store, optFns ...Option) (*Frame, error) {
	if st == nil {
		return nil, core.NewStructuralError("new frame", "nil store")
	}
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.err != nil {
		return nil, opts.err
	}
	if opts.index == nil {
		opts.index = rangeLevel(st.RowCount())
	}
	if opts.columns == nil {
		opts.columns = rangeLevel(st.ColumnCount())
	}
	if opts.index.Len() != st.RowCount() {
		return nil, core.NewStructuralError("new frame", "index of length %d for %d rows", opts.index.Len(), st.RowCount())
	}
	if opts.columns.Len() != st.ColumnCount() {
		return nil, core.NewStructuralError("new frame", "%d column labels for %d columns", opts.columns.Len(), st.ColumnCount())
	}
	return &Frame{name: opts.name, index: opts.index, columns: opts.columns, store: st}, nil
}

func rangeLevel(n int) *index.Level {
	labels := make([]index.Label, n)
	for i := range labels {
		labels[i] = int64(i)
	}
	return index.MustNew(labels, index.WithKind(index.KindInt))
}

// Name returns the frame name.
func (f *Frame) Name() index.Label { return f.name }

// Rename returns a frame sharing all data under a new name.
func (f *Frame) Rename(name index.Label) *Frame {
	c := *f
	c.name = name
	return &c
}

// Shape returns rows and columns.
func (f *Frame) Shape() core.Shape { return f.store.Shape() }

// Index returns the row index.
func (f *Frame) Index() hierarchy.Axis { return f.index }

// Columns returns the column index.
func (f *Frame) Columns() *index.Level { return f.columns }

// Store returns the column data.
func (f *Frame) Store() *store.Store { return f.store }

// NBytes estimates the resident size of the frame data.
func (f *Frame) NBytes() int { return f.store.NBytes() }

// Loc selects rows by label. A hierarchical index accepts any
// hierarchy.Key; a flat index accepts a label or a []index.Label.
func (f *Frame) Loc(key any) (*Frame, error) {
	switch idx := f.index.(type) {
	case *hierarchy.Hierarchy:
		k, ok := key.(hierarchy.Key)
		if !ok {
			k = hierarchy.H(key)
		}
		r, err := idx.LocToILoc(k)
		if err != nil {
			return nil, err
		}
		return f.ILoc(r.Positions())
	case *index.Level:
		var (
			positions []int
			err       error
		)
		if labels, ok := key.([]index.Label); ok {
			positions, err = idx.Positions(labels)
		} else {
			positions, err = idx.Locate(key)
		}
		if err != nil {
			return nil, err
		}
		return f.ILoc(positions)
	}
	return nil, core.NewTypeError("loc", "unsupported index %T", f.index)
}

// ILoc selects rows by position. Positions must be unique.
func (f *Frame) ILoc(positions []int) (*Frame, error) {
	st, err := f.store.ExtractRows(positions)
	if err != nil {
		return nil, err
	}
	var idx hierarchy.Axis
	switch x := f.index.(type) {
	case *hierarchy.Hierarchy:
		h, err := x.ILoc(positions)
		if err != nil {
			return nil, err
		}
		idx = h
	case *index.Level:
		labels := make([]index.Label, len(positions))
		for i, p := range positions {
			labels[i] = x.Label(p)
		}
		lvl, err := index.New(labels, index.WithKind(x.Kind()), index.WithName(x.Name()))
		if err != nil {
			return nil, err
		}
		idx = lvl
	}
	return &Frame{name: f.name, index: idx, columns: f.columns, store: st}, nil
}

// Mask selects the rows whose bit is set.
func (f *Frame) Mask(mask *bitset.BitSet) (*Frame, error) {
	positions, err := store.MaskPositions(mask, f.store.RowCount())
	if err != nil {
		return nil, err
	}
	return f.ILoc(positions)
}

// Equals reports whether both frames have the same name, indexes and data.
func (f *Frame) Equals(other *Frame) bool {
	if other == nil {
		return false
	}
	if f == other {
		return true
	}
	if !index.Equal(f.name, other.name) {
		return false
	}
	if !f.columns.Equals(other.columns, false, false) || !f.store.Equals(other.store) {
		return false
	}
	switch x := f.index.(type) {
	case *hierarchy.Hierarchy:
		return x.Equals(other.index)
	case *index.Level:
		o, ok := other.index.(*index.Level)
		return ok && x.Equals(o, false, false)
	}
	return false
}
