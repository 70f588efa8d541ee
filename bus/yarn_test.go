package bus

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/testutil"
)

func mustBus(t *testing.T, name string, frames ...*frame.Frame) *Bus {
	t.Helper()
	b, err := New(frames, WithName(name))
	require.NoError(t, err)
	return b
}

// threeBuses mirrors a typical layout: a(f1,f2,f3), b(f4,f5), c(f6,f7).
func threeBuses(t *testing.T) []*Bus {
	t.Helper()
	return []*Bus{
		mustBus(t, "a", testutil.Frame("f1", 4, 4), testutil.MixedFrame("f2", 4, 4), testutil.MixedFrame("f3", 4, 4)),
		mustBus(t, "b", testutil.Frame("f4", 4, 4), testutil.MixedFrame("f5", 4, 4)),
		mustBus(t, "c", testutil.Frame("f6", 2, 4), testutil.MixedFrame("f7", 4, 2)),
	}
}

func TestFromBuses_RetainLabels(t *testing.T) {
	buses := threeBuses(t)
	y, err := FromBuses(buses[:2], true)
	require.NoError(t, err)

	assert.Equal(t, 5, y.Len())
	h, ok := y.Index().(*hierarchy.Hierarchy)
	require.True(t, ok)
	rows, depth := h.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, depth)
	assert.Equal(t, hierarchy.Tuple{"a", "f1"}, y.Keys()[0])

	tail, err := y.Loc(hierarchy.TupleSlice{Start: hierarchy.Tuple{"a", "f2"}})
	require.NoError(t, err)
	assert.Equal(t, 4, tail.Len())

	f, err := y.Get(context.Background(), hierarchy.Tuple{"b", "f5"})
	require.NoError(t, err)
	assert.Equal(t, "f5", f.Name())

	sub, err := y.Loc("b")
	require.NoError(t, err)
	assert.Equal(t, []index.Label{hierarchy.Tuple{"b", "f4"}, hierarchy.Tuple{"b", "f5"}}, sub.Keys())

	all, err := FromBuses(buses, true)
	require.NoError(t, err)
	assert.Equal(t, 7, all.Len())
}

func TestFromBuses_Flatten(t *testing.T) {
	buses := threeBuses(t)
	y, err := FromBuses(buses[:2], false)
	require.NoError(t, err)

	assert.Equal(t, 5, y.Len())
	lvl, ok := y.Index().(*index.Level)
	require.True(t, ok)
	assert.Equal(t, 5, lvl.Len())
	assert.Equal(t, []index.Label{"f1", "f2", "f3", "f4", "f5"}, y.Keys())
}

func TestFromBuses_Collision(t *testing.T) {
	a := mustBus(t, "a", testutil.Frame("f1", 1, 1), testutil.Frame("f2", 1, 1))
	b := mustBus(t, "b", testutil.Frame("f2", 2, 2))

	_, err := FromBuses([]*Bus{a, b}, false)
	assert.ErrorIs(t, err, core.ErrStructural)

	y, err := FromBuses([]*Bus{a, b}, true)
	require.NoError(t, err)
	f, err := y.Get(context.Background(), hierarchy.Tuple{"b", "f2"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Shape().Rows)

	_, err = FromBuses([]*Bus{a, a}, true)
	assert.ErrorIs(t, err, core.ErrNonUnique)

	_, err = FromBuses([]*Bus{a, nil}, true)
	assert.ErrorIs(t, err, core.ErrStructural)
}

func TestLookup_UnhashableKeys(t *testing.T) {
	ctx := context.Background()
	buses := threeBuses(t)

	assert.NotPanics(t, func() {
		_, err := buses[0].Get(ctx, hierarchy.Tuple{"x", "y"})
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})
	assert.False(t, buses[0].Contains([]index.Label{"f1"}))

	flat, err := FromBuses(buses[:2], false)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		f, err := flat.Lookup(ctx, hierarchy.Tuple{"a", "f1"})
		require.NoError(t, err)
		assert.Nil(t, f)
		_, err = flat.Get(ctx, hierarchy.Tuple{"a", "f1"})
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	retained, err := FromBuses(buses[:2], true)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		f, err := retained.Lookup(ctx, hierarchy.Tuple{[]index.Label{"a"}, "f1"})
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	sub, err := retained.Loc([]index.Label{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 5, sub.Len())
}

func TestYarn_ResidencyStaysPerBus(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()

	b1 := mustBus(t, "", testutil.Frame("f1", 4, 2), testutil.Frame("f2", 4, 5), testutil.Frame("f3", 2, 2))
	b2 := mustBus(t, "", testutil.Frame("f4", 2, 8), testutil.Frame("f5", 4, 4), testutil.Frame("f6", 6, 4))
	require.NoError(t, b1.Persist(ctx, blobs, "one"))
	require.NoError(t, b2.Persist(ctx, blobs, "two"))

	busA, err := Open(ctx, blobs, "one", WithMaxResident(1))
	require.NoError(t, err)
	busB, err := Open(ctx, blobs, "two", WithMaxResident(1))
	require.NoError(t, err)

	y, err := FromBuses([]*Bus{busA.Rename("a"), busB.Rename("b")}, false)
	require.NoError(t, err)
	assert.Zero(t, y.NBytes())
	assert.Zero(t, countLoaded(y.Status()))

	f, err := y.Get(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, core.Shape{Rows: 4, Cols: 5}, f.Shape())
	f, err = y.Get(ctx, "f6")
	require.NoError(t, err)
	assert.Equal(t, core.Shape{Rows: 6, Cols: 4}, f.Shape())

	assert.Equal(t, 2, countLoaded(y.Status()))
	assert.Positive(t, y.NBytes())

	// One resident frame per bus: loading f1 evicts f2 but leaves f6.
	_, err = y.Get(ctx, "f1")
	require.NoError(t, err)
	var resident []index.Label
	for _, st := range y.Status() {
		if st.Loaded {
			resident = append(resident, st.Name)
		}
	}
	assert.Equal(t, []index.Label{"f1", "f6"}, resident)

	var labels []index.Label
	require.NoError(t, y.Items(ctx, func(key index.Label, f *frame.Frame) error {
		labels = append(labels, key)
		return nil
	}))
	assert.Equal(t, []index.Label{"f1", "f2", "f3", "f4", "f5", "f6"}, labels)
}

func countLoaded(status []Status) int {
	n := 0
	for _, st := range status {
		if st.Loaded {
			n++
		}
	}
	return n
}

func TestFromConcat(t *testing.T) {
	buses := threeBuses(t)
	y, err := FromConcat([]Part{buses[0], buses[1], buses[2]}, false)
	require.NoError(t, err)
	assert.Equal(t, 7, y.Len())

	inner, err := FromBuses(buses[:2], true, WithYarnName("ab"))
	require.NoError(t, err)
	innerC, err := FromBuses(buses[2:], true, WithYarnName("cc"))
	require.NoError(t, err)
	nested, err := FromConcat([]Part{inner, innerC}, true)
	require.NoError(t, err)
	keys := nested.Keys()
	assert.Len(t, keys, 7)
	assert.Equal(t, hierarchy.Tuple{"ab", "a", "f1"}, keys[0])
	assert.Equal(t, hierarchy.Tuple{"cc", "c", "f7"}, keys[6])

	f, err := nested.Get(context.Background(), hierarchy.Tuple{"cc", "c", "f6"})
	require.NoError(t, err)
	assert.Equal(t, core.Shape{Rows: 2, Cols: 4}, f.Shape())

	_, err = FromConcat([]Part{inner, buses[2]}, true)
	assert.ErrorIs(t, err, core.ErrStructural, "keys of different depth")

	_, err = FromConcat([]Part{inner, buses[2]}, false)
	assert.ErrorIs(t, err, core.ErrStructural, "hierarchical and flat keys cannot be mixed")
}

func TestYarn_Surface(t *testing.T) {
	ctx := context.Background()
	buses := threeBuses(t)
	y, err := FromBuses(buses, false, WithYarnName("foo"))
	require.NoError(t, err)

	t.Run("Rename", func(t *testing.T) {
		assert.Equal(t, "foo", y.Name())
		assert.Equal(t, "bar", y.Rename("bar").Name())
		assert.Equal(t, "foo", y.Name())
	})

	t.Run("Reversed", func(t *testing.T) {
		assert.Equal(t, []index.Label{"f7", "f6", "f5", "f4", "f3", "f2", "f1"}, slices.Collect(y.Reversed()))
	})

	t.Run("Loc", func(t *testing.T) {
		f, err := y.Get(ctx, "f4")
		require.NoError(t, err)
		assert.Equal(t, core.Shape{Rows: 4, Cols: 4}, f.Shape())

		sub, err := y.Loc(index.Slice{Start: "f4", HasStart: true})
		require.NoError(t, err)
		assert.Equal(t, 4, sub.Len())

		sub, err = y.Loc([]index.Label{"f2", "f7"})
		require.NoError(t, err)
		assert.Equal(t, []index.Label{"f2", "f7"}, sub.Keys())

		mask := make([]bool, y.Len())
		mask[2] = true
		sub, err = y.Loc(mask)
		require.NoError(t, err)
		assert.Equal(t, []index.Label{"f3"}, sub.Keys())

		_, err = y.Loc([]bool{true})
		assert.ErrorIs(t, err, core.ErrStructural)

		_, err = y.Loc("f99")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	t.Run("ILoc", func(t *testing.T) {
		sub, err := y.ILoc([]int{1, 6})
		require.NoError(t, err)
		assert.Equal(t, []index.Label{"f2", "f7"}, sub.Keys())

		f, err := sub.Get(ctx, "f7")
		require.NoError(t, err)
		assert.Equal(t, core.Shape{Rows: 4, Cols: 2}, f.Shape())

		_, err = y.ILoc([]int{7})
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
		_, err = y.ILoc([]int{1, 1})
		assert.ErrorIs(t, err, core.ErrNonUnique)
	})

	t.Run("KeysContains", func(t *testing.T) {
		assert.Equal(t, []index.Label{"f1", "f2", "f3", "f4", "f5", "f6", "f7"}, y.Keys())
		assert.True(t, y.Contains("f6"))
		assert.False(t, y.Contains("f99"))
	})

	t.Run("GetLookup", func(t *testing.T) {
		f, err := y.Get(ctx, "f2")
		require.NoError(t, err)
		assert.True(t, f.Equals(testutil.MixedFrame("f2", 4, 4)))

		f, err = y.Lookup(ctx, "f99")
		require.NoError(t, err)
		assert.Nil(t, f)

		_, err = y.Get(ctx, "f99")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	t.Run("HeadTail", func(t *testing.T) {
		assert.Equal(t, []index.Label{"f1", "f2"}, y.Head(2).Keys())
		assert.Equal(t, []index.Label{"f6", "f7"}, y.Tail(2).Keys())
		assert.Equal(t, 7, y.Head(100).Len())
		assert.Equal(t, 0, y.Tail(-1).Len())
	})

	t.Run("Buses", func(t *testing.T) {
		assert.Len(t, y.Buses(), 3)
		assert.Len(t, y.Tail(2).Buses(), 1)
	})
}
