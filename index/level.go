package index

import (
	"sort"
	"time"

	"github.com/hupe1980/sframe/core"
)

// Level is an immutable, ordered set of unique labels of a single kind. It
// is a bijection between its labels and the positions 0..Len()-1.
//
// Levels are shared by reference between derived hierarchical indexes and
// must never be mutated after construction.
type Level struct {
	kind      Kind
	name      Label
	labels    []Label
	positions map[Label]int
	monotonic bool
}

type options struct {
	name Label
	kind Kind
}

// Option configures a Level.
type Option func(*options)

// WithName sets the name of the level.
func WithName(name Label) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithKind sets the construction type of the level.
func WithKind(kind Kind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// New builds a level from an ordered sequence of unique labels.
func New(labels []Label, optFns ...Option) (*Level, error) {
	opts := options{kind: KindGeneric}
	for _, fn := range optFns {
		fn(&opts)
	}
	return build(labels, opts.kind, opts.name)
}

// MustNew is like New but panics on error.
func MustNew(labels []Label, optFns ...Option) *Level {
	l, err := New(labels, optFns...)
	if err != nil {
		panic(err)
	}
	return l
}

func build(labels []Label, kind Kind, name Label) (*Level, error) {
	l := &Level{
		kind:      kind,
		name:      name,
		labels:    make([]Label, len(labels)),
		positions: make(map[Label]int, len(labels)),
	}
	for i, raw := range labels {
		v, err := kind.coerce(Normalize(raw))
		if err != nil {
			return nil, err
		}
		if !Hashable(v) {
			return nil, CheckHashable("index", v)
		}
		if _, dup := l.positions[v]; dup {
			return nil, core.NewNonUniqueError(v)
		}
		l.labels[i] = v
		l.positions[v] = i
	}
	l.monotonic = isSorted(l.labels)
	return l, nil
}

func isSorted(labels []Label) bool {
	for i := 1; i < len(labels); i++ {
		c, ok := Compare(labels[i-1], labels[i])
		if !ok || c > 0 {
			return false
		}
	}
	return true
}

// Len returns the number of labels.
func (l *Level) Len() int { return len(l.labels) }

// Depth returns 1; a level is a flat index.
func (l *Level) Depth() int { return 1 }

// Kind returns the construction type.
func (l *Level) Kind() Kind { return l.kind }

// Name returns the level name.
func (l *Level) Name() Label { return l.name }

// Rename returns a level sharing l's labels under a new name.
func (l *Level) Rename(name Label) *Level {
	c := *l
	c.name = name
	return &c
}

// Labels returns the labels in position order. The slice aliases internal
// memory and must not be modified.
func (l *Level) Labels() []Label { return l.labels }

// Label returns the label at pos.
func (l *Level) Label(pos int) Label { return l.labels[pos] }

// Position returns the position of label.
func (l *Level) Position(label Label) (int, error) {
	key, err := l.kind.coerce(Normalize(label))
	if err != nil || !Hashable(key) {
		return 0, core.NewKeyError(label)
	}
	pos, ok := l.positions[key]
	if !ok {
		return 0, core.NewKeyError(label)
	}
	return pos, nil
}

// Contains reports whether label is part of the level.
func (l *Level) Contains(label Label) bool {
	_, err := l.Position(label)
	return err == nil
}

// IsMonotonic reports whether labels are in non-decreasing order.
func (l *Level) IsMonotonic() bool { return l.monotonic }

// Extend returns a new level with labels appended. l is left unchanged.
func (l *Level) Extend(labels ...Label) (*Level, error) {
	all := make([]Label, 0, len(l.labels)+len(labels))
	all = append(all, l.labels...)
	all = append(all, labels...)
	return build(all, l.kind, l.name)
}

// Union returns the labels of l followed by the labels of other not in l.
func (l *Level) Union(other *Level) *Level {
	out := append([]Label(nil), l.labels...)
	for _, v := range other.labels {
		if !l.Contains(v) {
			out = append(out, v)
		}
	}
	return mustBuild(out, mergeKind(l, other), l.name)
}

// Intersection returns the labels of l that are also in other.
func (l *Level) Intersection(other *Level) *Level {
	var out []Label
	for _, v := range l.labels {
		if other.Contains(v) {
			out = append(out, v)
		}
	}
	return mustBuild(out, mergeKind(l, other), l.name)
}

// Difference returns the labels of l that are not in other.
func (l *Level) Difference(other *Level) *Level {
	var out []Label
	for _, v := range l.labels {
		if !other.Contains(v) {
			out = append(out, v)
		}
	}
	return mustBuild(out, l.kind, l.name)
}

func mergeKind(a, b *Level) Kind {
	if a.kind == b.kind {
		return a.kind
	}
	return KindGeneric
}

// mustBuild is used for subsets of already validated labels.
func mustBuild(labels []Label, kind Kind, name Label) *Level {
	lvl, err := build(labels, kind, name)
	if err != nil {
		panic(err)
	}
	return lvl
}

// Equals reports whether both levels hold the same labels in the same order.
func (l *Level) Equals(other *Level, compareKind, compareName bool) bool {
	if l == other {
		return true
	}
	if other == nil || len(l.labels) != len(other.labels) {
		return false
	}
	if compareKind && l.kind != other.kind {
		return false
	}
	if compareName && !Equal(l.name, other.name) {
		return false
	}
	for i, v := range l.labels {
		if !Equal(v, other.labels[i]) {
			return false
		}
	}
	return true
}

// Locate returns the positions selected by a single label. On date levels
// a string naming a year or month selects every label inside that period.
func (l *Level) Locate(label Label) ([]int, error) {
	if from, to, ok := l.kind.period(label); ok {
		var out []int
		for i, v := range l.labels {
			if tv, isTime := asTime(v); isTime && !tv.Before(from) && tv.Before(to) {
				out = append(out, i)
			}
		}
		if len(out) == 0 {
			return nil, core.NewKeyError(label)
		}
		return out, nil
	}
	pos, err := l.Position(label)
	if err != nil {
		return nil, err
	}
	return []int{pos}, nil
}

// Positions resolves a list of labels, expanding partial dates.
func (l *Level) Positions(labels []Label) ([]int, error) {
	out := make([]int, 0, len(labels))
	for _, v := range labels {
		ps, err := l.Locate(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// Slice selects positions by label range. Both bounds are inclusive.
type Slice struct {
	Start    Label
	Stop     Label
	HasStart bool
	HasStop  bool
	// Step defaults to 1 when zero.
	Step int
}

// SlicePositions resolves s into level positions.
//
// Bounds that are not labels of the level are located by binary search on
// monotonic levels and fail with a key error otherwise. A step other than 1
// requires a monotonic level.
func (l *Level) SlicePositions(s Slice) ([]int, error) {
	step := s.Step
	if step == 0 {
		step = 1
	}
	if step != 1 && !l.monotonic {
		return nil, core.NewTypeError("slice", "step %d requires a monotonic level", step)
	}
	n := len(l.labels)
	start, stop := 0, n-1
	if step < 0 {
		start, stop = n-1, 0
	}
	var err error
	if s.HasStart {
		if start, err = l.bound(s.Start, step > 0); err != nil {
			return nil, err
		}
	}
	if s.HasStop {
		if stop, err = l.bound(s.Stop, step < 0); err != nil {
			return nil, err
		}
	}
	var out []int
	if step > 0 {
		for i := start; i <= stop && i < n; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i >= stop && i >= 0; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

// bound locates a slice bound. lower selects the first position of a
// multi-position match, otherwise the last.
func (l *Level) bound(label Label, lower bool) (int, error) {
	ps, err := l.Locate(label)
	if err == nil {
		if lower {
			return ps[0], nil
		}
		return ps[len(ps)-1], nil
	}
	if !l.monotonic {
		return 0, err
	}
	key, cerr := l.kind.coerce(Normalize(label))
	if cerr != nil {
		return 0, err
	}
	if lower {
		return l.searchSorted(key, false), nil
	}
	return l.searchSorted(key, true) - 1, nil
}

// searchSorted returns the insertion point of key. With right set, equal
// labels are skipped.
func (l *Level) searchSorted(key Label, right bool) int {
	return sort.Search(len(l.labels), func(i int) bool {
		c, _ := Compare(l.labels[i], key)
		if right {
			return c > 0
		}
		return c >= 0
	})
}

func asTime(l Label) (time.Time, bool) {
	t, ok := l.(time.Time)
	return t, ok
}
