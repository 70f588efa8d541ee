package integration_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe"
	"github.com/hupe1980/sframe/blobstore"
	badgerstore "github.com/hupe1980/sframe/blobstore/badger"
	"github.com/hupe1980/sframe/bus"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/hierarchy"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/resource"
	"github.com/hupe1980/sframe/testutil"
)

// quarter builds a bus of monthly frames, each indexed by (region, day).
func quarter(t *testing.T, name string, months ...string) *bus.Bus {
	t.Helper()
	rng := testutil.NewRNG(int64(len(months)))
	frames := make([]*frame.Frame, len(months))
	for i, m := range months {
		idx, err := hierarchy.FromProduct([][]index.Label{{"east", "west"}, {1, 2, 3}})
		require.NoError(t, err)
		f := rng.Frame(m, idx.Len(), 3)
		frames[i], err = frame.New(f.Store(), frame.WithName(m), frame.WithIndex(idx))
		require.NoError(t, err)
	}
	b, err := sframe.NewBus(frames, sframe.WithName(name))
	require.NoError(t, err)
	return b
}

func TestE2E_Restart(t *testing.T) {
	stores := map[string]func(t *testing.T) blobstore.BlobStore{
		"local": func(t *testing.T) blobstore.BlobStore {
			return blobstore.NewLocalStore(t.TempDir())
		},
		"badger": func(t *testing.T) blobstore.BlobStore {
			kv, err := badgerstore.Open(badgerstore.DefaultConfig(t.TempDir()))
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			return kv
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			q1 := quarter(t, "q1", "jan", "feb", "mar")
			q2 := quarter(t, "q2", "apr", "may", "jun")
			require.NoError(t, q1.Persist(ctx, store, "q1"))
			require.NoError(t, q2.Persist(ctx, store, "q2"))

			// One budget shared by both reopened buses.
			rc := resource.NewController(resource.Config{MaxBackgroundWorkers: 4})
			metrics := &sframe.BasicMetricsCollector{}
			var parts []*bus.Bus
			for _, prefix := range []string{"q1", "q2"} {
				b, err := sframe.OpenBus(ctx, store, prefix,
					sframe.WithMaxResident(1),
					sframe.WithResourceController(rc),
					sframe.WithMetricsCollector(metrics),
				)
				require.NoError(t, err)
				parts = append(parts, b)
			}

			y, err := bus.FromBuses(parts, true)
			require.NoError(t, err)
			assert.Equal(t, 6, y.Len())

			sub, err := y.Loc("q2")
			require.NoError(t, err)
			assert.Equal(t, 3, sub.Len())

			f, err := y.Get(ctx, hierarchy.Tuple{"q2", "may"})
			require.NoError(t, err)
			want, err := q2.Get(ctx, "may")
			require.NoError(t, err)
			assert.True(t, f.Equals(want))

			west, err := f.Loc("west")
			require.NoError(t, err)
			assert.Equal(t, 3, west.Shape().Rows)

			require.NoError(t, y.Items(ctx, func(key index.Label, f *frame.Frame) error {
				if f.Shape().Rows != 6 {
					return fmt.Errorf("%v: unexpected shape %v", key, f.Shape())
				}
				return nil
			}))
			assert.Equal(t, 2, countLoaded(y.Status()))
			assert.Equal(t, int64(y.NBytes()), rc.MemoryUsage())

			// may was evicted by apr and loaded again during Items.
			assert.Equal(t, int64(7), metrics.GetStats().LoadCount)
		})
	}
}

func countLoaded(status []bus.Status) int {
	n := 0
	for _, st := range status {
		if st.Loaded {
			n++
		}
	}
	return n
}
