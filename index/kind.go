package index

import (
	"time"

	"github.com/hupe1980/sframe/core"
)

// Kind is the construction type of a level. It is fixed when the level is
// built and drives key coercion at lookup time.
type Kind uint8

const (
	// KindGeneric holds any comparable label.
	KindGeneric Kind = iota
	// KindInt holds int64 labels only.
	KindInt
	// KindString holds string labels only.
	KindString
	// KindDate holds day-precision dates.
	KindDate
	// KindYearMonth holds month-precision dates.
	KindYearMonth
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindYearMonth:
		return "yearmonth"
	default:
		return "generic"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindGeneric, KindInt, KindString, KindDate, KindYearMonth} {
		if k.String() == s {
			return k, nil
		}
	}
	return KindGeneric, core.NewTypeError("index", "unknown kind %q", s)
}

const (
	dateLayout      = "2006-01-02"
	yearMonthLayout = "2006-01"
	yearLayout      = "2006"
)

// coerce converts a normalized label into the representation held by a
// level of kind k.
func (k Kind) coerce(l Label) (Label, error) {
	switch k {
	case KindInt:
		if _, ok := l.(int64); !ok {
			return nil, core.NewTypeError("index", "label %v (%T) is not an integer", l, l)
		}
	case KindString:
		if _, ok := l.(string); !ok {
			return nil, core.NewTypeError("index", "label %v (%T) is not a string", l, l)
		}
	case KindDate:
		t, err := toTime(l, dateLayout)
		if err != nil {
			return nil, err
		}
		return truncateDay(t), nil
	case KindYearMonth:
		t, err := toTime(l, yearMonthLayout)
		if err != nil {
			return nil, err
		}
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return l, nil
}

func toTime(l Label, layout string) (time.Time, error) {
	switch x := l.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		t, err := time.Parse(layout, x)
		if err != nil {
			return time.Time{}, core.NewTypeError("index", "cannot parse %q as %s", x, layout)
		}
		return t, nil
	default:
		return time.Time{}, core.NewTypeError("index", "label %v (%T) is not a date", l, l)
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// period reports the half-open time range named by a partial date string
// ("2019" or "2019-02") for date-like kinds.
func (k Kind) period(l Label) (from, to time.Time, ok bool) {
	if k != KindDate && k != KindYearMonth {
		return from, to, false
	}
	s, isString := l.(string)
	if !isString {
		return from, to, false
	}
	switch len(s) {
	case len(yearLayout):
		t, err := time.Parse(yearLayout, s)
		if err != nil {
			return from, to, false
		}
		return t, t.AddDate(1, 0, 0), true
	case len(yearMonthLayout):
		if k == KindYearMonth {
			return from, to, false
		}
		t, err := time.Parse(yearMonthLayout, s)
		if err != nil {
			return from, to, false
		}
		return t, t.AddDate(0, 1, 0), true
	}
	return from, to, false
}
