package sframe

import (
	"context"
	"time"

	"github.com/hupe1980/sframe/bus"
	"github.com/hupe1980/sframe/index"
)

// busObserver forwards bus events to a logger and a metrics collector.
// Renamed buses share the collector.
type busObserver struct {
	base    *Logger
	logger  *Logger
	metrics MetricsCollector
}

var _ bus.BusObserver = (*busObserver)(nil)

func newBusObserver(o options) *busObserver {
	return &busObserver{base: o.logger, logger: o.logger, metrics: o.metricsCollector}
}

// bind tags log records with the bus name once it is known.
func (o *busObserver) bind(name index.Label) {
	o.logger = o.base.WithBus(name)
}

func (o *busObserver) ForBus(name index.Label) bus.Observer {
	c := &busObserver{base: o.base, metrics: o.metrics}
	c.bind(name)
	return c
}

func (o *busObserver) OnLoad(name index.Label, duration time.Duration, bytes int, err error) {
	o.metrics.RecordLoad(duration, bytes, err)
	o.logger.LogLoad(context.Background(), name, duration, bytes, err)
}

func (o *busObserver) OnHit(index.Label) {
	o.metrics.RecordHit()
}

func (o *busObserver) OnEvict(name index.Label) {
	o.metrics.RecordEvict()
	o.logger.LogEvict(context.Background(), name)
}

func (o *busObserver) OnPersist(duration time.Duration, frames int, err error) {
	o.metrics.RecordPersist(duration, frames, err)
	o.logger.LogPersist(context.Background(), frames, duration, err)
}
