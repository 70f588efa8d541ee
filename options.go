package sframe

import (
	"log/slog"

	"github.com/hupe1980/sframe/bus"
	"github.com/hupe1980/sframe/codec"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	busOptions       []bus.Option
}

// Option configures NewBus, NewLazyBus and OpenBus.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for load, hit, evict
// and persist events. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sframe.BasicMetricsCollector{}
//	b, _ := sframe.OpenBus(ctx, store, "buses/daily", sframe.WithMetricsCollector(metrics))
//	// ... use b ...
//	fmt.Printf("hit ratio: %.2f\n", metrics.GetStats().HitRatio())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	logger := sframe.NewJSONLogger(slog.LevelDebug)
//	b, _ := sframe.NewBus(frames, sframe.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithName sets the bus name. For OpenBus it overrides the persisted name.
func WithName(name index.Label) Option {
	return withBusOption(bus.WithName(name))
}

// WithMaxResident bounds the number of frames held in memory at once.
// Only buses with a backing source accept it.
func WithMaxResident(n int) Option {
	return withBusOption(bus.WithMaxResident(n))
}

// WithResourceController shares a memory budget, I/O rate limit and worker
// pool between buses.
func WithResourceController(rc *resource.Controller) Option {
	return withBusOption(bus.WithResourceController(rc))
}

// WithCompression selects the frame compression used when persisting.
func WithCompression(c codec.Compression) Option {
	return withBusOption(bus.WithCompression(c))
}

// WithBlockCache caches blob reads of OpenBus in an LRU of the given size.
func WithBlockCache(bytes int64) Option {
	return withBusOption(bus.WithBlockCache(bytes))
}

func withBusOption(opt bus.Option) Option {
	return func(o *options) {
		o.busOptions = append(o.busOptions, opt)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
