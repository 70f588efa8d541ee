package index

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/hupe1980/sframe/core"
)

// Label is a single index label.
//
// Labels must hold comparable values. Integers are stored as int64, floats
// as float64 and times in UTC so that equal values map to equal keys.
type Label = any

// Normalize returns the canonical representation of v.
func Normalize(v Label) Label {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return uintToLabel(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return uintToLabel(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}

// Hashable reports whether v can serve as a label. Slices, maps and
// tuples cannot.
func Hashable(v Label) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// CheckHashable returns a structural error naming the first label that
// cannot serve as a label.
func CheckHashable(op string, labels ...Label) error {
	for _, v := range labels {
		if !Hashable(v) {
			return core.NewStructuralError(op, "label %v of type %T is not hashable", v, v)
		}
	}
	return nil
}

func uintToLabel(v uint64) Label {
	if v > math.MaxInt64 {
		return float64(v)
	}
	return int64(v)
}

// NormalizeAll normalizes every element of labels into a new slice.
func NormalizeAll(labels []Label) []Label {
	out := make([]Label, len(labels))
	for i, l := range labels {
		out[i] = Normalize(l)
	}
	return out
}

// Compare orders two normalized labels.
//
// Numbers compare with numbers, strings with strings, bools with bools and
// times with times. nil sorts before everything. The second result is false
// when a and b have no defined order.
func Compare(a, b Label) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), true
		case float64:
			return cmp.Compare(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y), true
		case int64:
			return cmp.Compare(x, float64(y)), true
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			default:
				return 1, true
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}

// Less reports whether a sorts before b. Incomparable pairs order by the
// name of their dynamic type so that mixed levels still sort deterministically.
func Less(a, b Label) bool {
	if c, ok := Compare(a, b); ok {
		return c < 0
	}
	return fmt.Sprintf("%T", a) < fmt.Sprintf("%T", b)
}

// Equal reports whether two labels are the same value after normalization.
func Equal(a, b Label) bool {
	a, b = Normalize(a), Normalize(b)
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	if !Hashable(a) || !Hashable(b) {
		return false
	}
	return a == b
}

// Format renders a label for error messages and tree keys.
func Format(l Label) string {
	switch x := l.(type) {
	case nil:
		return "<nil>"
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
