package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe"
	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/testutil"
)

var _ sframe.MetricsCollector = (*PrometheusCollector)(nil)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg, "test")

	c.RecordLoad(time.Millisecond, 100, nil)
	c.RecordLoad(time.Millisecond, 50, errors.New("boom"))
	c.RecordHit()
	c.RecordHit()
	c.RecordEvict()
	c.RecordPersist(time.Second, 3, nil)

	assert.InDelta(t, 100, promtest.ToFloat64(c.loadedBytes), 0)
	assert.InDelta(t, 2, promtest.ToFloat64(c.hits), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(c.evictions), 0)
	assert.InDelta(t, 3, promtest.ToFloat64(c.persisted), 0)
	assert.Equal(t, 3, promtest.CollectAndCount(c.opLatency))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestPrometheusCollector_Bus(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	b, err := sframe.NewBus([]*frame.Frame{testutil.Frame("a", 2, 2), testutil.Frame("b", 3, 2)})
	require.NoError(t, err)
	require.NoError(t, b.Persist(ctx, store, "p"))

	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg, "p")
	lazy, err := sframe.OpenBus(ctx, store, "p", sframe.WithMaxResident(1), sframe.WithMetricsCollector(c))
	require.NoError(t, err)

	for _, name := range []string{"a", "a", "b"} {
		_, err := lazy.Get(ctx, name)
		require.NoError(t, err)
	}
	assert.InDelta(t, 1, promtest.ToFloat64(c.hits), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(c.evictions), 0)
	assert.Positive(t, promtest.ToFloat64(c.loadedBytes))

	_, err = reg.Gather()
	assert.NoError(t, err)
}
