package hierarchy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

func TestRehierarch(t *testing.T) {
	h, err := FromProduct([][]index.Label{{"a", "b"}, {1, 2}, {"x", "y"}}, WithName(Tuple{"l0", "l1", "l2"}))
	require.NoError(t, err)

	r, err := h.Rehierarch(1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, Tuple{"l1", "l0", "l2"}, r.Name())
	assert.Equal(t, Tuple{int64(1), "a", "x"}, r.Tuple(0))
	assert.Equal(t, Tuple{int64(1), "b", "y"}, r.Tuple(3))
	assert.Equal(t, Tuple{int64(2), "a", "x"}, r.Tuple(4))

	back, err := r.Rehierarch(1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, labelsOf(h), labelsOf(back))

	_, err = h.Rehierarch(0, 1)
	assert.True(t, errors.Is(err, core.ErrStructural))
	_, err = h.Rehierarch(0, 0, 1)
	assert.True(t, errors.Is(err, core.ErrStructural))
	_, err = h.Rehierarch(0, 1, 5)
	assert.True(t, errors.Is(err, core.ErrStructural))
}

func TestRelabelAtDepth(t *testing.T) {
	h := mustLabels(t, Tuple{"I", "A"}, Tuple{"I", "B"}, Tuple{"II", "A"})

	t.Run("map", func(t *testing.T) {
		r, err := h.RelabelAtDepth(MapLabels{"I": "one"}, 0)
		require.NoError(t, err)
		assert.Equal(t, []Tuple{{"one", "A"}, {"one", "B"}, {"II", "A"}}, labelsOf(r))
		assert.Same(t, h.Level(1), r.Level(1))
	})

	t.Run("func", func(t *testing.T) {
		r, err := h.RelabelAtDepth(MapFunc(func(l index.Label) index.Label {
			return fmt.Sprintf("%v!", l)
		}), 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []Tuple{{"I!", "A!"}, {"I!", "B!"}, {"II!", "A!"}}, labelsOf(r))
	})

	t.Run("sequence", func(t *testing.T) {
		r, err := h.RelabelAtDepth(MapSequence{"p", "q", "r"}, 1)
		require.NoError(t, err)
		assert.Equal(t, []Tuple{{"I", "p"}, {"I", "q"}, {"II", "r"}}, labelsOf(r))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := h.RelabelAtDepth(MapSequence{"p"}, 1)
		assert.True(t, errors.Is(err, core.ErrStructural))

		_, err = h.RelabelAtDepth(MapLabels{"B": "A"}, 1)
		assert.True(t, errors.Is(err, core.ErrNonUnique))

		_, err = h.RelabelAtDepth(MapLabels{}, 0, 0)
		assert.True(t, errors.Is(err, core.ErrStructural))

		_, err = h.RelabelAtDepth(MapLabels{}, 2)
		assert.True(t, errors.Is(err, core.ErrStructural))
	})
}

func TestRelabel(t *testing.T) {
	h := mustLabels(t, Tuple{"I", "A"}, Tuple{"I", "B"})

	r, err := h.Relabel(func(t Tuple) Tuple { return Tuple{t[1], t[0]} })
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{"A", "I"}, {"B", "I"}}, labelsOf(r))

	_, err = h.Relabel(func(t Tuple) Tuple { return Tuple{"same", "row"} })
	assert.True(t, errors.Is(err, core.ErrNonUnique))

	_, err = h.Relabel(func(t Tuple) Tuple { return t[:1] })
	assert.True(t, errors.Is(err, core.ErrStructural))
}

func TestLevelAddAndDrop(t *testing.T) {
	h, err := FromLabels([]Tuple{{"I", "A"}, {"I", "B"}, {"II", "A"}}, WithName(Tuple{"outer", "inner"}))
	require.NoError(t, err)

	added, err := h.LevelAdd("top", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, added.Depth())
	assert.Equal(t, []index.Label{nil, "outer", "inner"}, added.Names())
	assert.Equal(t, Tuple{"top", "I", "B"}, added.Tuple(1))

	dropped, err := added.LevelDrop(1)
	require.NoError(t, err)
	assert.Equal(t, labelsOf(h), labelsOf(dropped.(*Hierarchy)))
	assert.Equal(t, h.Name(), dropped.(*Hierarchy).Name())
	assert.True(t, dropped.(*Hierarchy).Equals(h, CompareName()))

	scalar, err := h.Rename("rows").LevelAdd("top", nil)
	require.NoError(t, err)
	assert.Equal(t, "rows", scalar.Name())

	_, err = h.LevelDrop(1)
	assert.True(t, errors.Is(err, core.ErrNonUnique))

	distinct, err := FromLabels([]Tuple{{"I", "A"}, {"II", "B"}}, WithName(Tuple{"outer", "inner"}))
	require.NoError(t, err)

	inner, err := distinct.LevelDrop(1)
	require.NoError(t, err)
	flat, ok := inner.(*index.Level)
	require.True(t, ok)
	assert.Equal(t, "inner", flat.Name())
	assert.Equal(t, []index.Label{"A", "B"}, flat.Labels())

	outer, err := distinct.LevelDrop(-1)
	require.NoError(t, err)
	assert.Equal(t, "outer", outer.(*index.Level).Name())
	assert.Equal(t, []index.Label{"I", "II"}, outer.(*index.Level).Labels())

	_, err = h.LevelDrop(0)
	assert.True(t, errors.Is(err, core.ErrNotImplemented))
	_, err = h.LevelDrop(2)
	assert.True(t, errors.Is(err, core.ErrStructural))
}

func TestSort(t *testing.T) {
	h := mustLabels(t, Tuple{1, 70}, Tuple{2, 30}, Tuple{1, 30}, Tuple{2, 70})

	asc, err := h.Sort()
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{int64(1), int64(30)}, {int64(1), int64(70)}, {int64(2), int64(30)}, {int64(2), int64(70)}}, labelsOf(asc))

	desc, err := h.Sort(Ascending(false))
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{int64(2), int64(70)}, {int64(2), int64(30)}, {int64(1), int64(70)}, {int64(1), int64(30)}}, labelsOf(desc))

	mixed, err := h.Sort(Ascending(true, false))
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{int64(1), int64(70)}, {int64(1), int64(30)}, {int64(2), int64(70)}, {int64(2), int64(30)}}, labelsOf(mixed))

	byInner, err := h.Sort(SortKey(func(t Tuple) index.Label { return t[1] }))
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{int64(2), int64(30)}, {int64(1), int64(30)}, {int64(1), int64(70)}, {int64(2), int64(70)}}, labelsOf(byInner))

	_, err = h.Sort(Ascending(true, true, true))
	assert.True(t, errors.Is(err, core.ErrStructural))

	mixedTypes := mustLabels(t, Tuple{"a", 1}, Tuple{2, 1})
	_, err = mixedTypes.Sort()
	assert.True(t, errors.Is(err, core.ErrType))
}

func TestRoll(t *testing.T) {
	h := mustLabels(t, Tuple{"a", 1}, Tuple{"b", 1}, Tuple{"c", 1})

	assert.Equal(t, []Tuple{{"c", int64(1)}, {"a", int64(1)}, {"b", int64(1)}}, labelsOf(h.Roll(1)))
	assert.Equal(t, []Tuple{{"b", int64(1)}, {"c", int64(1)}, {"a", int64(1)}}, labelsOf(h.Roll(-1)))
	assert.Equal(t, labelsOf(h), labelsOf(h.Roll(3)))

	empty, err := FromEmpty(2)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Roll(1).Len())
}

func TestIsIn(t *testing.T) {
	h := mustLabels(t, Tuple{"a", 1}, Tuple{"b", 1}, Tuple{"c", 1})

	got, err := h.IsIn([]any{Tuple{"b", 1}, []index.Label{"c", 1}, Tuple{"z", 1}, Tuple{"a"}})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, got)

	_, err = h.IsIn([]any{"b"})
	assert.True(t, errors.Is(err, core.ErrStructural))
}

func TestDropLoc(t *testing.T) {
	h := sample(t)

	out, err := h.DropLoc(H("I"))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, Tuple{"II", "A", int64(1)}, out.Tuple(0))

	_, err = h.DropLoc(Tuple{"III", "A", 1})
	assert.True(t, errors.Is(err, core.ErrKeyNotFound))
}
