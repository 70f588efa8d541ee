package frame

import (
	"errors"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/store"
)

func hierarchical(t *testing.T) *Frame {
	t.Helper()
	h, err := hierarchy.FromProduct([][]index.Label{{"a", "b"}, {1, 2}})
	require.NoError(t, err)
	st, err := store.New(store.Int64s(10, 20, 30, 40), store.Strings("w", "x", "y", "z"))
	require.NoError(t, err)
	f, err := New(st, WithName("f"), WithIndex(h), WithColumns("num", "str"))
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	f := hierarchical(t)
	assert.Equal(t, "f", f.Name())
	assert.Equal(t, core.Shape{Rows: 4, Cols: 2}, f.Shape())
	assert.Equal(t, 2, f.Index().Depth())

	st, err := store.New(store.Int64s(1, 2))
	require.NoError(t, err)
	plain, err := New(st)
	require.NoError(t, err)
	assert.Equal(t, []index.Label{int64(0), int64(1)}, plain.Index().(*index.Level).Labels())
	assert.Equal(t, []index.Label{int64(0)}, plain.Columns().Labels())

	_, err = New(st, WithIndex(index.MustNew([]index.Label{"x"})))
	assert.True(t, errors.Is(err, core.ErrStructural))
	_, err = New(st, WithColumns("a", "b"))
	assert.True(t, errors.Is(err, core.ErrStructural))
	_, err = New(st, WithColumns("a", "a"))
	assert.True(t, errors.Is(err, core.ErrNonUnique))
}

func TestLoc(t *testing.T) {
	f := hierarchical(t)

	out, err := f.Loc(hierarchy.H("b"))
	require.NoError(t, err)
	values, ok := store.Values[int64](out.Store().Column(0))
	require.True(t, ok)
	assert.Equal(t, []int64{30, 40}, values)
	assert.Equal(t, hierarchy.Tuple{"b", int64(1)}, out.Index().(*hierarchy.Hierarchy).Tuple(0))

	out, err = f.Loc(hierarchy.Tuple{"a", 2})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Shape().Rows)

	out, err = f.Loc("a")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Shape().Rows)

	_, err = f.Loc(hierarchy.Tuple{"c", 1})
	assert.True(t, errors.Is(err, core.ErrKeyNotFound))
}

func TestLocFlat(t *testing.T) {
	st, err := store.New(store.Float64s(1.5, 2.5, 3.5))
	require.NoError(t, err)
	f, err := New(st, WithIndex(index.MustNew([]index.Label{"x", "y", "z"})))
	require.NoError(t, err)

	out, err := f.Loc([]index.Label{"z", "x"})
	require.NoError(t, err)
	values, _ := store.Values[float64](out.Store().Column(0))
	assert.Equal(t, []float64{3.5, 1.5}, values)

	out, err = f.Loc("y")
	require.NoError(t, err)
	assert.Equal(t, []index.Label{"y"}, out.Index().(*index.Level).Labels())
}

func TestILocAndMask(t *testing.T) {
	f := hierarchical(t)

	out, err := f.ILoc([]int{3, 0})
	require.NoError(t, err)
	values, _ := store.Values[string](out.Store().Column(1))
	assert.Equal(t, []string{"z", "w"}, values)

	_, err = f.ILoc([]int{0, 0})
	assert.True(t, errors.Is(err, core.ErrNonUnique))

	m := bitset.New(4)
	m.Set(0).Set(3)
	masked, err := f.Mask(m)
	require.NoError(t, err)
	assert.Equal(t, 2, masked.Shape().Rows)
}

func TestEqualsAndRename(t *testing.T) {
	a := hierarchical(t)
	b := hierarchical(t)
	assert.True(t, a.Equals(b))

	renamed := a.Rename("g")
	assert.Equal(t, "g", renamed.Name())
	assert.Equal(t, "f", a.Name())
	assert.False(t, a.Equals(renamed))
	assert.Same(t, a.Store(), renamed.Store())
	assert.Positive(t, a.NBytes())
}
