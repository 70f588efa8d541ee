package bus

import (
	"github.com/hupe1980/sframe/codec"
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/resource"
)

// Option configures a Bus.
type Option func(*options)

type options struct {
	name           index.Label
	hasName        bool
	maxResident    int
	observer       Observer
	rc             *resource.Controller
	compression    codec.Compression
	blockCacheSize int64
	err            error
}

// WithName sets the bus name.
func WithName(name index.Label) Option {
	return func(o *options) {
		o.name = index.Normalize(name)
		o.hasName = true
	}
}

// WithMaxResident bounds the number of frames held in memory at once.
// It requires a source to reload evicted frames from.
func WithMaxResident(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = core.NewStructuralError("bus", "max resident must be positive, got %d", n)
			return
		}
		o.maxResident = n
	}
}

// WithObserver installs an observer for load, hit, evict and persist
// events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithResourceController accounts resident frames against the controller's
// memory budget, throttles reads with its I/O limit and bounds Persist by
// its worker count.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithCompression selects the compression Persist applies to frames.
// Default: zstd.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockCache puts an LRU block cache of the given size in front of the
// blob store passed to Open. Useful for remote stores where evicted frames
// are read again.
func WithBlockCache(bytes int64) Option {
	return func(o *options) {
		o.blockCacheSize = bytes
	}
}

func newOptions(optFns []Option) options {
	opts := options{
		observer:    NoopObserver{},
		compression: codec.CompressionZSTD,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
