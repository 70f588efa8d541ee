package hierarchy

import (
	"reflect"

	"github.com/hupe1980/sframe/index"
)

type equalsOptions struct {
	compareDType bool
	compareName  bool
	compareClass bool
}

// EqualsOption configures Equals.
type EqualsOption func(*equalsOptions)

// CompareDType also requires equal level kinds and label types per depth.
func CompareDType() EqualsOption {
	return func(o *equalsOptions) { o.compareDType = true }
}

// CompareName also requires equal names.
func CompareName() EqualsOption {
	return func(o *equalsOptions) { o.compareName = true }
}

// CompareClass also requires the same index class (immutable or grow-only)
// and the same level kinds.
func CompareClass() EqualsOption {
	return func(o *equalsOptions) { o.compareClass = true }
}

// Equals reports whether other is an index with the same composite labels
// in the same order. other may be a *Hierarchy or a *GrowOnly.
func (h *Hierarchy) Equals(other any, optFns ...EqualsOption) bool {
	return equals(h, h.growOnly, other, optFns)
}

func equals(h *Hierarchy, growOnly bool, other any, optFns []EqualsOption) bool {
	var opts equalsOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	var (
		o           *Hierarchy
		otherGrowOn bool
	)
	switch x := other.(type) {
	case *Hierarchy:
		o, otherGrowOn = x, x.growOnly
	case *GrowOnly:
		snap, err := x.Hierarchy()
		if err != nil {
			return false
		}
		o, otherGrowOn = snap, true
	default:
		return false
	}
	if h.n != o.n || h.Depth() != o.Depth() {
		return false
	}
	if opts.compareClass && growOnly != otherGrowOn {
		return false
	}
	if opts.compareName && !namesEqual(h.name, o.name) {
		return false
	}
	if opts.compareClass || opts.compareDType {
		for d := range h.levels {
			if h.levels[d].Kind() != o.levels[d].Kind() {
				return false
			}
		}
	}
	if opts.compareDType && !sameLabelTypes(h, o) {
		return false
	}
	if h == o {
		return true
	}
	for row := 0; row < h.n; row++ {
		if !h.tupleAt(row).Equal(o.tupleAt(row)) {
			return false
		}
	}
	return true
}

func sameLabelTypes(a, b *Hierarchy) bool {
	for d := range a.levels {
		ta, tb := labelTypes(a.levels[d]), labelTypes(b.levels[d])
		if len(ta) != len(tb) {
			return false
		}
		for t := range ta {
			if !tb[t] {
				return false
			}
		}
	}
	return true
}

func labelTypes(l *index.Level) map[reflect.Type]bool {
	out := make(map[reflect.Type]bool)
	for _, v := range l.Labels() {
		out[reflect.TypeOf(v)] = true
	}
	return out
}
