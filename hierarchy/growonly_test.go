package hierarchy

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

func widths(ws []LabelWidth) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = w.Width
	}
	return out
}

func TestGrowOnly_Append(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}, {"I", "B"}})
	require.NoError(t, err)

	require.NoError(t, g.Append(Tuple{"II", "A"}))
	require.NoError(t, g.Append(Tuple{"I", "C"}))
	assert.Equal(t, 4, g.Len())

	ok, err := g.Contains(Tuple{"II", "A"})
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := g.LocToILoc(H("I"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, r.Positions())

	values, err := g.ValuesAtDepth(0)
	require.NoError(t, err)
	assert.Equal(t, []index.Label{"I", "I", "II", "I"}, values)

	err = g.Append(Tuple{"III"})
	assert.True(t, errors.Is(err, core.ErrStructural))
	assert.Equal(t, 4, g.Len())
}

func TestGrowOnly_SnapshotsAreImmutable(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}, {"I", "B"}})
	require.NoError(t, err)

	before, err := g.Hierarchy()
	require.NoError(t, err)
	levelBefore := before.Level(0)

	require.NoError(t, g.Append(Tuple{"II", "A"}))
	after, err := g.Hierarchy()
	require.NoError(t, err)

	assert.Equal(t, 2, before.Len())
	assert.Equal(t, 1, levelBefore.Len())
	assert.Equal(t, 3, after.Len())
	assert.Equal(t, []index.Label{"I", "II"}, after.Level(0).Labels())
}

func TestGrowOnly_DuplicateSurfacesOnFinalize(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}, {"I", "B"}})
	require.NoError(t, err)

	require.NoError(t, g.Append(Tuple{"II", "A"}))
	require.NoError(t, g.Append(Tuple{"I", "A"}))

	err = g.Finalize()
	require.Error(t, err)
	var nu *core.NonUniqueError
	require.True(t, errors.As(err, &nu))
	assert.Equal(t, Tuple{"I", "A"}, nu.Label)

	_, err = g.Contains(Tuple{"I", "A"})
	assert.True(t, errors.Is(err, core.ErrNonUnique))

	good, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}})
	require.NoError(t, err)
	require.NoError(t, good.Append(Tuple{"I", "B"}))
	require.NoError(t, good.Append(Tuple{"I", "B"}))
	assert.True(t, errors.Is(good.Finalize(), core.ErrNonUnique))
}

func TestGrowOnly_Extend(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}})
	require.NoError(t, err)
	other := mustLabels(t, Tuple{"II", "A"}, Tuple{"II", "B"})

	require.NoError(t, g.Extend(other, Tuples{{"III", "A"}}))
	h, err := g.Hierarchy()
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{"I", "A"}, {"II", "A"}, {"II", "B"}, {"III", "A"}}, labelsOf(h))

	deep := mustLabels(t, Tuple{"x", "y", "z"})
	assert.True(t, errors.Is(g.Extend(deep), core.ErrStructural))
	assert.True(t, errors.Is(g.Extend(Tuples{{"x"}}), core.ErrStructural))
	assert.Equal(t, 4, g.Len())
}

func TestGrowOnly_LabelWidths(t *testing.T) {
	g, err := GrowOnlyFromProduct(
		[][]index.Label{{"A", "B"}, {"2019-01-01", "2019-01-02"}, {1, 2}},
		WithIndexConstructors(index.Generic, index.Date, index.Int),
	)
	require.NoError(t, err)
	require.NoError(t, g.Append(Tuple{"B", "2019-01-05", 3}))

	outer, err := g.LabelWidthsAtDepth(0)
	require.NoError(t, err)
	assert.Equal(t, []index.Label{"A", "B"}, []index.Label{outer[0].Label, outer[1].Label})
	assert.Equal(t, []int{4, 5}, widths(outer))

	middle, err := g.LabelWidthsAtDepth(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 2, 1}, widths(middle))

	inner, err := g.LabelWidthsAtDepth(2)
	require.NoError(t, err)
	assert.Len(t, inner, 9)

	_, err = g.LabelWidthsAtDepth(0, 1)
	assert.True(t, errors.Is(err, core.ErrNotImplemented))

	h, err := g.Hierarchy()
	require.NoError(t, err)
	assert.Equal(t, index.KindDate, h.Level(1).Kind())
	r, err := h.LocToILoc(H(All(), "2019-01"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, r.Positions())
}

func TestGrowOnly_ILocAndCopy(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}, {"I", "B"}, {"II", "A"}})
	require.NoError(t, err)

	sub, err := g.ILoc([]int{2, 0})
	require.NoError(t, err)
	seq, err := sub.IterLabels()
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{"II", "A"}, {"I", "A"}}, slices.Collect(seq))

	require.NoError(t, sub.Append(Tuple{"III", "C"}))
	assert.Equal(t, 3, g.Len())

	c := g.Copy()
	require.NoError(t, c.Append(Tuple{"IV", "D"}))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 3, g.Len())
}

func TestGrowOnly_Equals(t *testing.T) {
	g, err := GrowOnlyFromLabels([]Tuple{{"I", "A"}, {"I", "B"}})
	require.NoError(t, err)
	h := mustLabels(t, Tuple{"I", "A"}, Tuple{"I", "B"})

	assert.True(t, g.Equals(h))
	assert.True(t, h.Equals(g))
	assert.False(t, g.Equals(h, CompareClass()))
	assert.True(t, g.Equals(g.Copy(), CompareClass()))

	require.NoError(t, g.Append(Tuple{"II", "A"}))
	assert.False(t, g.Equals(h))
}

func TestEquals_Options(t *testing.T) {
	a, err := FromLabels([]Tuple{{"I", 1}, {"II", 2}}, WithName("a"))
	require.NoError(t, err)
	b, err := FromLabels([]Tuple{{"I", 1}, {"II", 2}}, WithName("b"))
	require.NoError(t, err)
	c, err := FromLabels([]Tuple{{"I", 1}, {"II", 2}}, WithIndexConstructors(index.Generic, index.Int))
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(b, CompareName()))
	assert.True(t, a.Equals(c))
	assert.False(t, a.Equals(c, CompareDType()))
	assert.False(t, a.Equals("not an index"))
}
