package index

// Constructor builds a level from deduplicated labels in first-seen order.
// Hierarchy factories accept constructors to force the kind of a depth.
type Constructor func(labels []Label, name Label) (*Level, error)

// Generic builds a KindGeneric level.
func Generic(labels []Label, name Label) (*Level, error) {
	return build(labels, KindGeneric, name)
}

// Int builds a KindInt level.
func Int(labels []Label, name Label) (*Level, error) {
	return build(labels, KindInt, name)
}

// String builds a KindString level.
func String(labels []Label, name Label) (*Level, error) {
	return build(labels, KindString, name)
}

// Date builds a KindDate level. Strings are parsed as YYYY-MM-DD.
func Date(labels []Label, name Label) (*Level, error) {
	return build(labels, KindDate, name)
}

// YearMonth builds a KindYearMonth level. Strings are parsed as YYYY-MM.
func YearMonth(labels []Label, name Label) (*Level, error) {
	return build(labels, KindYearMonth, name)
}

// ConstructorFor returns the constructor that builds levels of kind k.
func ConstructorFor(k Kind) Constructor {
	switch k {
	case KindInt:
		return Int
	case KindString:
		return String
	case KindDate:
		return Date
	case KindYearMonth:
		return YearMonth
	default:
		return Generic
	}
}

// Dedup returns the distinct values of labels in first-seen order together
// with the position of every input value inside that result. Every label
// must be Hashable.
func Dedup(labels []Label) (uniques []Label, codes []int) {
	seen := make(map[Label]int, len(labels))
	codes = make([]int, len(labels))
	for i, raw := range labels {
		v := Normalize(raw)
		pos, ok := seen[v]
		if !ok {
			pos = len(uniques)
			seen[v] = pos
			uniques = append(uniques, v)
		}
		codes[i] = pos
	}
	return uniques, codes
}
