package codec

import (
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/store"
)

type wireLevel struct {
	Kind   string  `json:"kind"`
	Name   Label   `json:"name"`
	Labels []Label `json:"labels"`
}

type wireHierarchy struct {
	Name     Label       `json:"name"`
	Levels   []wireLevel `json:"levels"`
	Indexers [][]int     `json:"indexers"`
}

type wireColumn struct {
	DType  string            `json:"dtype"`
	Values gojson.RawMessage `json:"values"`
}

type wireFrame struct {
	Name      Label          `json:"name"`
	Rows      int            `json:"rows"`
	Flat      *wireLevel     `json:"flat,omitempty"`
	Hierarchy *wireHierarchy `json:"hierarchy,omitempty"`
	Columns   wireLevel      `json:"columns"`
	Data      []wireColumn   `json:"data"`
}

func encodeLevel(l *index.Level) (wireLevel, error) {
	name, err := EncodeLabel(l.Name())
	if err != nil {
		return wireLevel{}, err
	}
	labels, err := EncodeLabels(l.Labels())
	if err != nil {
		return wireLevel{}, err
	}
	return wireLevel{Kind: l.Kind().String(), Name: name, Labels: labels}, nil
}

func (w wireLevel) decode() (*index.Level, error) {
	kind, err := index.ParseKind(w.Kind)
	if err != nil {
		return nil, err
	}
	name, err := w.Name.Decode()
	if err != nil {
		return nil, err
	}
	labels, err := DecodeLabels(w.Labels)
	if err != nil {
		return nil, err
	}
	return index.New(labels, index.WithKind(kind), index.WithName(name))
}

func encodeColumn(c store.Column) (wireColumn, error) {
	var v any
	switch c.DType() {
	case store.Int64:
		v, _ = store.Values[int64](c)
	case store.String:
		v, _ = store.Values[string](c)
	case store.Bool:
		v, _ = store.Values[bool](c)
	case store.Float64:
		fs, _ := store.Values[float64](c)
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		v = out
	case store.Time:
		ts, _ := store.Values[time.Time](c)
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.Format(time.RFC3339Nano)
		}
		v = out
	default:
		labels := make([]index.Label, c.Len())
		for i := range labels {
			labels[i] = c.Value(i)
		}
		ws, err := EncodeLabels(labels)
		if err != nil {
			return wireColumn{}, err
		}
		v = ws
	}
	raw, err := gojson.Marshal(v)
	if err != nil {
		return wireColumn{}, err
	}
	return wireColumn{DType: c.DType().String(), Values: raw}, nil
}

func (w wireColumn) decode() (store.Column, error) {
	dtype, err := store.ParseDType(w.DType)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case store.Int64:
		var v []int64
		if err := gojson.Unmarshal(w.Values, &v); err != nil {
			return nil, err
		}
		return store.Int64s(v...), nil
	case store.String:
		var v []string
		if err := gojson.Unmarshal(w.Values, &v); err != nil {
			return nil, err
		}
		return store.Strings(v...), nil
	case store.Bool:
		var v []bool
		if err := gojson.Unmarshal(w.Values, &v); err != nil {
			return nil, err
		}
		return store.Bools(v...), nil
	case store.Float64:
		var raw []string
		if err := gojson.Unmarshal(w.Values, &raw); err != nil {
			return nil, err
		}
		v := make([]float64, len(raw))
		for i, s := range raw {
			if v[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, err
			}
		}
		return store.Float64s(v...), nil
	case store.Time:
		var raw []string
		if err := gojson.Unmarshal(w.Values, &raw); err != nil {
			return nil, err
		}
		v := make([]time.Time, len(raw))
		for i, s := range raw {
			if v[i], err = time.Parse(time.RFC3339Nano, s); err != nil {
				return nil, err
			}
		}
		return store.Times(v...), nil
	default:
		var ws []Label
		if err := gojson.Unmarshal(w.Values, &ws); err != nil {
			return nil, err
		}
		labels, err := DecodeLabels(ws)
		if err != nil {
			return nil, err
		}
		return store.Objects(labels...), nil
	}
}

func encodeFrame(f *frame.Frame) (*wireFrame, error) {
	name, err := EncodeLabel(f.Name())
	if err != nil {
		return nil, err
	}
	columns, err := encodeLevel(f.Columns())
	if err != nil {
		return nil, err
	}
	w := &wireFrame{Name: name, Rows: f.Shape().Rows, Columns: columns}
	switch idx := f.Index().(type) {
	case *index.Level:
		flat, err := encodeLevel(idx)
		if err != nil {
			return nil, err
		}
		w.Flat = &flat
	case *hierarchy.Hierarchy:
		hname, err := EncodeLabel(idx.Name())
		if err != nil {
			return nil, err
		}
		wh := &wireHierarchy{Name: hname}
		for d, lvl := range idx.Levels() {
			wl, err := encodeLevel(lvl)
			if err != nil {
				return nil, err
			}
			wh.Levels = append(wh.Levels, wl)
			wh.Indexers = append(wh.Indexers, idx.Indexers(d))
		}
		w.Hierarchy = wh
	default:
		return nil, core.NewTypeError("encode frame", "unsupported index %T", f.Index())
	}
	for _, c := range f.Store().Columns() {
		wc, err := encodeColumn(c)
		if err != nil {
			return nil, err
		}
		w.Data = append(w.Data, wc)
	}
	return w, nil
}

func (w *wireFrame) decode() (*frame.Frame, error) {
	name, err := w.Name.Decode()
	if err != nil {
		return nil, err
	}
	columns, err := w.Columns.decode()
	if err != nil {
		return nil, err
	}
	var idx hierarchy.Axis
	switch {
	case w.Flat != nil:
		lvl, err := w.Flat.decode()
		if err != nil {
			return nil, err
		}
		idx = lvl
	case w.Hierarchy != nil:
		hname, err := w.Hierarchy.Name.Decode()
		if err != nil {
			return nil, err
		}
		levels := make([]*index.Level, len(w.Hierarchy.Levels))
		for d, wl := range w.Hierarchy.Levels {
			if levels[d], err = wl.decode(); err != nil {
				return nil, err
			}
		}
		h, err := hierarchy.FromIndexers(levels, w.Hierarchy.Indexers, hierarchy.WithName(hname))
		if err != nil {
			return nil, err
		}
		idx = h
	default:
		return nil, core.NewStructuralError("decode frame", "frame has no index")
	}
	var st *store.Store
	if len(w.Data) == 0 {
		st = store.Empty(w.Rows)
	} else {
		cols := make([]store.Column, len(w.Data))
		for i, wc := range w.Data {
			if cols[i], err = wc.decode(); err != nil {
				return nil, err
			}
		}
		if st, err = store.New(cols...); err != nil {
			return nil, err
		}
	}
	return frame.New(st, frame.WithName(name), frame.WithIndex(idx), frame.WithColumnIndex(columns))
}
