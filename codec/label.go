package codec

import (
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
)

// Label tags. Floats and times are carried as strings so NaN, infinities
// and nanosecond precision survive the round trip.
const (
	tagNil    = "n"
	tagInt    = "i"
	tagFloat  = "f"
	tagString = "s"
	tagBool   = "b"
	tagTime   = "d"
	tagTuple  = "T"
)

// Label is the wire form of an index.Label.
type Label struct {
	T string             `json:"t"`
	V gojson.RawMessage `json:"v,omitempty"`
}

// EncodeLabel converts a label into its tagged wire form.
func EncodeLabel(l index.Label) (Label, error) {
	var (
		tag string
		v   any
	)
	switch x := index.Normalize(l).(type) {
	case nil:
		return Label{T: tagNil}, nil
	case int64:
		tag, v = tagInt, x
	case float64:
		tag, v = tagFloat, strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		tag, v = tagString, x
	case bool:
		tag, v = tagBool, x
	case time.Time:
		tag, v = tagTime, x.Format(time.RFC3339Nano)
	case hierarchy.Tuple:
		parts, err := EncodeLabels(x)
		if err != nil {
			return Label{}, err
		}
		tag, v = tagTuple, parts
	default:
		return Label{}, core.NewTypeError("encode label", "unsupported label type %T", l)
	}
	raw, err := gojson.Marshal(v)
	if err != nil {
		return Label{}, err
	}
	return Label{T: tag, V: raw}, nil
}

// EncodeLabels converts labels into their wire form.
func EncodeLabels(labels []index.Label) ([]Label, error) {
	out := make([]Label, len(labels))
	for i, l := range labels {
		w, err := EncodeLabel(l)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// Decode returns the label held by w.
func (w Label) Decode() (index.Label, error) {
	switch w.T {
	case tagNil:
		return nil, nil
	case tagInt:
		var v int64
		err := gojson.Unmarshal(w.V, &v)
		return v, err
	case tagFloat:
		var s string
		if err := gojson.Unmarshal(w.V, &s); err != nil {
			return nil, err
		}
		return strconv.ParseFloat(s, 64)
	case tagString:
		var v string
		err := gojson.Unmarshal(w.V, &v)
		return v, err
	case tagBool:
		var v bool
		err := gojson.Unmarshal(w.V, &v)
		return v, err
	case tagTime:
		var s string
		if err := gojson.Unmarshal(w.V, &s); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		return t.UTC(), err
	case tagTuple:
		var parts []Label
		if err := gojson.Unmarshal(w.V, &parts); err != nil {
			return nil, err
		}
		labels, err := DecodeLabels(parts)
		if err != nil {
			return nil, err
		}
		return hierarchy.Tuple(labels), nil
	}
	return nil, core.NewTypeError("decode label", "unknown label tag %q", w.T)
}

// DecodeLabels converts wire labels back into labels.
func DecodeLabels(ws []Label) ([]index.Label, error) {
	out := make([]index.Label, len(ws))
	for i, w := range ws {
		l, err := w.Decode()
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}
