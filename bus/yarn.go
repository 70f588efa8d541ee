package bus

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
)

// member addresses one entry of a bus.
type member struct {
	bus *Bus
	pos int
}

// Part is a bus or a yarn that can be concatenated into a Yarn.
type Part interface {
	Name() index.Label
	Keys() []index.Label
	members() []member
}

func (b *Bus) members() []member {
	out := make([]member, len(b.slots))
	for i := range out {
		out[i] = member{bus: b, pos: i}
	}
	return out
}

// Yarn is an ordered view over entries of one or more buses. Frames are
// loaded and evicted by the bus that owns them, under that bus's residency
// bound.
type Yarn struct {
	name    index.Label
	axis    hierarchy.Axis // *index.Level or *hierarchy.Hierarchy
	entries []member
}

// YarnOption configures a Yarn.
type YarnOption func(*yarnOptions)

type yarnOptions struct {
	name index.Label
}

// WithYarnName sets the yarn name.
func WithYarnName(name index.Label) YarnOption {
	return func(o *yarnOptions) {
		o.name = index.Normalize(name)
	}
}

// FromBuses concatenates buses into a yarn. See FromConcat.
func FromBuses(buses []*Bus, retainLabels bool, optFns ...YarnOption) (*Yarn, error) {
	parts := make([]Part, len(buses))
	for i, b := range buses {
		if b == nil {
			return nil, core.NewStructuralError("yarn", "bus %d is nil", i)
		}
		parts[i] = b
	}
	return FromConcat(parts, retainLabels, optFns...)
}

// FromConcat concatenates buses and yarns into a yarn.
//
// With retainLabels the result is keyed by (part name, entry key), expanding
// hierarchical entry keys, so equal entry names in different parts stay
// distinct. Without it entry keys are used as they are and a key that occurs
// in more than one part is a structural error.
func FromConcat(parts []Part, retainLabels bool, optFns ...YarnOption) (*Yarn, error) {
	var opts yarnOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	var (
		keys    []index.Label
		members []member
	)
	for i, p := range parts {
		if p == nil {
			return nil, core.NewStructuralError("yarn", "part %d is nil", i)
		}
		for _, k := range p.Keys() {
			if retainLabels {
				k = append(hierarchy.Tuple{p.Name()}, expand(k)...)
			}
			keys = append(keys, k)
		}
		members = append(members, p.members()...)
	}

	axis, err := buildAxis(keys)
	if err != nil {
		if !retainLabels && errors.Is(err, core.ErrNonUnique) {
			return nil, fmt.Errorf("%w: %w", core.NewStructuralError("yarn", "entry names collide across parts"), err)
		}
		return nil, err
	}
	return &Yarn{name: opts.name, axis: axis, entries: members}, nil
}

func expand(k index.Label) hierarchy.Tuple {
	if t, ok := k.(hierarchy.Tuple); ok {
		return t
	}
	return hierarchy.Tuple{k}
}

// buildAxis builds a flat level for scalar keys and a hierarchy for tuple
// keys of equal length.
func buildAxis(keys []index.Label) (hierarchy.Axis, error) {
	var tuples []hierarchy.Tuple
	for i, k := range keys {
		t, isTuple := k.(hierarchy.Tuple)
		if i > 0 && isTuple != (tuples != nil) {
			return nil, core.NewStructuralError("yarn", "cannot mix flat and hierarchical keys")
		}
		if isTuple {
			tuples = append(tuples, t)
		}
	}
	if tuples == nil {
		return index.New(keys)
	}
	return hierarchy.FromLabels(tuples)
}

// Name returns the yarn name.
func (y *Yarn) Name() index.Label { return y.name }

// Rename returns a yarn with the given name over the same entries.
func (y *Yarn) Rename(name index.Label) *Yarn {
	return &Yarn{name: index.Normalize(name), axis: y.axis, entries: y.entries}
}

// Index returns the key index: an *index.Level, or a *hierarchy.Hierarchy
// when labels were retained.
func (y *Yarn) Index() hierarchy.Axis { return y.axis }

// Len returns the number of entries.
func (y *Yarn) Len() int { return len(y.entries) }

func (y *Yarn) members() []member { return y.entries }

// Keys returns the entry keys in order. Keys of a hierarchical yarn are
// hierarchy.Tuple values.
func (y *Yarn) Keys() []index.Label {
	switch ax := y.axis.(type) {
	case *index.Level:
		return append([]index.Label(nil), ax.Labels()...)
	case *hierarchy.Hierarchy:
		out := make([]index.Label, 0, ax.Len())
		for t := range ax.IterLabels() {
			out = append(out, t)
		}
		return out
	}
	return nil
}

// Reversed yields the keys from last to first.
func (y *Yarn) Reversed() iter.Seq[index.Label] {
	keys := y.Keys()
	return func(yield func(index.Label) bool) {
		for i := len(keys) - 1; i >= 0; i-- {
			if !yield(keys[i]) {
				return
			}
		}
	}
}

// Buses returns the distinct buses referenced by the yarn, in order of
// first use.
func (y *Yarn) Buses() []*Bus {
	seen := make(map[*Bus]struct{})
	var out []*Bus
	for _, m := range y.entries {
		if _, ok := seen[m.bus]; !ok {
			seen[m.bus] = struct{}{}
			out = append(out, m.bus)
		}
	}
	return out
}

// rowOf resolves a key to a single row.
func (y *Yarn) rowOf(key index.Label) (int, error) {
	switch ax := y.axis.(type) {
	case *index.Level:
		return ax.Position(key)
	case *hierarchy.Hierarchy:
		t, ok := key.(hierarchy.Tuple)
		if !ok {
			return 0, core.NewKeyError(key)
		}
		r, err := ax.LocToILoc(t)
		if err != nil {
			return 0, err
		}
		return r.Position(), nil
	}
	return 0, core.NewKeyError(key)
}

// Contains reports whether key is an entry of the yarn.
func (y *Yarn) Contains(key index.Label) bool {
	_, err := y.rowOf(key)
	return err == nil
}

// Get returns the frame for key, loading it through its bus.
func (y *Yarn) Get(ctx context.Context, key index.Label) (*frame.Frame, error) {
	row, err := y.rowOf(key)
	if err != nil {
		return nil, err
	}
	m := y.entries[row]
	return m.bus.getAt(ctx, m.pos)
}

// Lookup is like Get but returns nil without an error when key is absent.
func (y *Yarn) Lookup(ctx context.Context, key index.Label) (*frame.Frame, error) {
	f, err := y.Get(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) && !y.Contains(key) {
		return nil, nil
	}
	return f, err
}

// Status reports residency and shape per entry, keyed by yarn key.
func (y *Yarn) Status() []Status {
	keys := y.Keys()
	out := make([]Status, len(y.entries))
	for i, m := range y.entries {
		m.bus.mu.Lock()
		out[i] = m.bus.statusAt(m.pos)
		m.bus.mu.Unlock()
		out[i].Name = keys[i]
	}
	return out
}

// NBytes returns the estimated size of the resident frames in the yarn.
func (y *Yarn) NBytes() int {
	total := 0
	for _, st := range y.Status() {
		total += st.NBytes
	}
	return total
}

// Items calls fn for every entry in order, loading each frame.
func (y *Yarn) Items(ctx context.Context, fn func(key index.Label, f *frame.Frame) error) error {
	keys := y.Keys()
	for i, m := range y.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := m.bus.getAt(ctx, m.pos)
		if err != nil {
			return err
		}
		if err := fn(keys[i], f); err != nil {
			return err
		}
	}
	return nil
}

// ILoc returns a yarn over the entries at positions, in that order.
func (y *Yarn) ILoc(positions []int) (*Yarn, error) {
	members := make([]member, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(y.entries) {
			return nil, core.NewKeyError(p)
		}
		members[i] = y.entries[p]
	}

	var axis hierarchy.Axis
	switch ax := y.axis.(type) {
	case *index.Level:
		labels := make([]index.Label, len(positions))
		for i, p := range positions {
			labels[i] = ax.Label(p)
		}
		lvl, err := index.New(labels, index.WithKind(ax.Kind()), index.WithName(ax.Name()))
		if err != nil {
			return nil, err
		}
		axis = lvl
	case *hierarchy.Hierarchy:
		h, err := ax.ILoc(positions)
		if err != nil {
			return nil, err
		}
		axis = h
	}
	return &Yarn{name: y.name, axis: axis, entries: members}, nil
}

// Loc returns a yarn over the entries selected by key. A flat yarn accepts
// a label, a []index.Label, an index.Slice or a []bool mask; a
// hierarchical yarn accepts any hierarchy.Key.
func (y *Yarn) Loc(key any) (*Yarn, error) {
	var (
		positions []int
		err       error
	)
	switch ax := y.axis.(type) {
	case *index.Level:
		switch k := key.(type) {
		case []index.Label:
			positions, err = ax.Positions(k)
		case index.Slice:
			positions, err = ax.SlicePositions(k)
		case []bool:
			positions, err = maskPositions(k, ax.Len())
		default:
			positions, err = ax.Locate(k)
		}
	case *hierarchy.Hierarchy:
		k, ok := key.(hierarchy.Key)
		if !ok {
			k = hierarchy.H(key)
		}
		var r hierarchy.Result
		if r, err = ax.LocToILoc(k); err == nil {
			positions = r.Positions()
		}
	}
	if err != nil {
		return nil, err
	}
	return y.ILoc(positions)
}

func maskPositions(mask []bool, n int) ([]int, error) {
	if len(mask) != n {
		return nil, core.NewStructuralError("loc", "mask length %d does not match %d entries", len(mask), n)
	}
	var out []int
	for i, keep := range mask {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// Head returns a yarn over the first count entries.
func (y *Yarn) Head(count int) *Yarn {
	count = min(max(count, 0), len(y.entries))
	sub, _ := y.ILoc(span(0, count))
	return sub
}

// Tail returns a yarn over the last count entries.
func (y *Yarn) Tail(count int) *Yarn {
	count = min(max(count, 0), len(y.entries))
	sub, _ := y.ILoc(span(len(y.entries)-count, len(y.entries)))
	return sub
}

func span(start, stop int) []int {
	out := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		out = append(out, i)
	}
	return out
}

// String renders a short description.
func (y *Yarn) String() string {
	return fmt.Sprintf("Yarn(%s, %d frames, %d buses)", index.Format(y.name), len(y.entries), len(y.Buses()))
}
