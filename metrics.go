package sframe

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting bus metrics.
// Package metrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after each frame load from the backing store.
	// bytes is the estimated in-memory size of the loaded frame.
	RecordLoad(duration time.Duration, bytes int, err error)

	// RecordHit is called when a requested frame was already resident.
	RecordHit()

	// RecordEvict is called when a resident frame is released.
	RecordEvict()

	// RecordPersist is called after each persist of a whole bus.
	RecordPersist(duration time.Duration, frames int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(time.Duration, int, error)    {}
func (NoopMetricsCollector) RecordHit()                              {}
func (NoopMetricsCollector) RecordEvict()                            {}
func (NoopMetricsCollector) RecordPersist(time.Duration, int, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
	LoadBytes         atomic.Int64
	LoadTotalNanos    atomic.Int64
	HitCount          atomic.Int64
	EvictCount        atomic.Int64
	PersistCount      atomic.Int64
	PersistErrors     atomic.Int64
	PersistFrames     atomic.Int64
	PersistTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, bytes int, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
}

// RecordHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHit() {
	b.HitCount.Add(1)
}

// RecordEvict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvict() {
	b.EvictCount.Add(1)
}

// RecordPersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersist(duration time.Duration, frames int, err error) {
	b.PersistCount.Add(1)
	b.PersistTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PersistErrors.Add(1)
		return
	}
	b.PersistFrames.Add(int64(frames))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadBytes:       b.LoadBytes.Load(),
		LoadAvgNanos:    avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		HitCount:        b.HitCount.Load(),
		EvictCount:      b.EvictCount.Load(),
		PersistCount:    b.PersistCount.Load(),
		PersistErrors:   b.PersistErrors.Load(),
		PersistFrames:   b.PersistFrames.Load(),
		PersistAvgNanos: avg(b.PersistTotalNanos.Load(), b.PersistCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// HitRatio returns hits / (hits + loads), or 0 before the first access.
func (s BasicMetricsStats) HitRatio() float64 {
	n := s.HitCount + s.LoadCount
	if n == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(n)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount       int64
	LoadErrors      int64
	LoadBytes       int64
	LoadAvgNanos    int64
	HitCount        int64
	EvictCount      int64
	PersistCount    int64
	PersistErrors   int64
	PersistFrames   int64
	PersistAvgNanos int64
}
