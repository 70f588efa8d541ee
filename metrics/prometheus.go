package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sframe"

// PrometheusCollector implements sframe.MetricsCollector on Prometheus
// counters and histograms.
type PrometheusCollector struct {
	opLatency   *prometheus.HistogramVec
	loadedBytes prometheus.Counter
	hits        prometheus.Counter
	evictions   prometheus.Counter
	persisted   prometheus.Counter
}

// NewPrometheusCollector creates a collector and registers it with reg.
// All series carry a constant "bus" label. A nil reg uses the default
// registerer.
func NewPrometheusCollector(reg prometheus.Registerer, busName string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"bus": busName}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of frame loads and bus persists",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"op", "status"}),
		loadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "loaded_bytes_total",
			Help:        "Estimated in-memory bytes of loaded frames",
			ConstLabels: labels,
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "hits_total",
			Help:        "Requests served by a resident frame",
			ConstLabels: labels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "evictions_total",
			Help:        "Resident frames released",
			ConstLabels: labels,
		}),
		persisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "persisted_frames_total",
			Help:        "Frames written by successful persists",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(c.opLatency, c.loadedBytes, c.hits, c.evictions, c.persisted)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLoad implements sframe.MetricsCollector.
func (c *PrometheusCollector) RecordLoad(d time.Duration, bytes int, err error) {
	c.opLatency.WithLabelValues("load", status(err)).Observe(d.Seconds())
	if err == nil {
		c.loadedBytes.Add(float64(bytes))
	}
}

// RecordHit implements sframe.MetricsCollector.
func (c *PrometheusCollector) RecordHit() {
	c.hits.Inc()
}

// RecordEvict implements sframe.MetricsCollector.
func (c *PrometheusCollector) RecordEvict() {
	c.evictions.Inc()
}

// RecordPersist implements sframe.MetricsCollector.
func (c *PrometheusCollector) RecordPersist(d time.Duration, frames int, err error) {
	c.opLatency.WithLabelValues("persist", status(err)).Observe(d.Seconds())
	if err == nil {
		c.persisted.Add(float64(frames))
	}
}
