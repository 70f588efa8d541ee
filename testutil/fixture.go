package testutil

import (
	"fmt"

	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/store"
)

// Frame returns a rows x cols frame of float64 values. Cell (r, c) holds
// r*cols+c, so equal arguments give equal frames.
func Frame(name index.Label, rows, cols int) *frame.Frame {
	columns := make([]store.Column, cols)
	for c := range columns {
		values := make([]float64, rows)
		for r := range values {
			values[r] = float64(r*cols + c)
		}
		columns[c] = store.Float64s(values...)
	}
	return mustFrame(name, rows, columns)
}

// MixedFrame returns a rows x cols frame cycling through int64, string and
// bool columns.
func MixedFrame(name index.Label, rows, cols int) *frame.Frame {
	columns := make([]store.Column, cols)
	for c := range columns {
		switch c % 3 {
		case 0:
			values := make([]int64, rows)
			for r := range values {
				values[r] = int64(r * (c + 1))
			}
			columns[c] = store.Int64s(values...)
		case 1:
			values := make([]string, rows)
			for r := range values {
				values[r] = fmt.Sprintf("r%dc%d", r, c)
			}
			columns[c] = store.Strings(values...)
		default:
			values := make([]bool, rows)
			for r := range values {
				values[r] = (r+c)%2 == 0
			}
			columns[c] = store.Bools(values...)
		}
	}
	return mustFrame(name, rows, columns)
}

// Frame returns a rows x cols frame of random floats.
func (r *RNG) Frame(name index.Label, rows, cols int) *frame.Frame {
	columns := make([]store.Column, cols)
	for c := range columns {
		columns[c] = store.Float64s(r.Floats(rows)...)
	}
	return mustFrame(name, rows, columns)
}

func mustFrame(name index.Label, rows int, columns []store.Column) *frame.Frame {
	var (
		st  *store.Store
		err error
	)
	if len(columns) == 0 {
		st = store.Empty(rows)
	} else if st, err = store.New(columns...); err != nil {
		panic(err)
	}
	f, err := frame.New(st, frame.WithName(name))
	if err != nil {
		panic(err)
	}
	return f
}
