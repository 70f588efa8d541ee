package hierarchy

import "github.com/hupe1980/sframe/index"

type options struct {
	name              index.Label
	reorder           bool
	hasContinuation   bool
	continuationToken index.Label
	constructors      []index.Constructor
	depthReference    int
}

// Option configures the hierarchy factories.
type Option func(*options)

// WithName sets the index name. A Tuple with one entry per depth names the
// individual levels.
func WithName(name index.Label) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithReorderForHierarchy groups rows sharing a label at each depth, from
// the outermost depth inward, keeping the first-seen order of labels.
func WithReorderForHierarchy() Option {
	return func(o *options) {
		o.reorder = true
	}
}

// WithContinuationToken marks a label value that repeats the label of the
// previous row at the same depth.
func WithContinuationToken(token index.Label) Option {
	return func(o *options) {
		o.hasContinuation = true
		o.continuationToken = index.Normalize(token)
	}
}

// WithIndexConstructors sets the constructor used per depth. A single
// constructor applies to every depth.
func WithIndexConstructors(ctors ...index.Constructor) Option {
	return func(o *options) {
		o.constructors = ctors
	}
}

// WithDepthReference fixes the expected depth. It is required to build an
// index from empty input.
func WithDepthReference(depth int) Option {
	return func(o *options) {
		o.depthReference = depth
	}
}

func newOptions(optFns []Option) options {
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
