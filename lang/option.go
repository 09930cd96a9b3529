package lang

import "github.com/ardnew/symscope/log"

// DefaultMaxDepth is the default bound on parser nesting.
var DefaultMaxDepth = 256

// DefaultMaxChain is the default bound on the number of nested
// substitutions a [Resolver] follows.
var DefaultMaxChain = 256

type options struct {
	logger     log.Logger
	maxDepth   int
	maxChain   int
	cycleCheck bool
}

// Option configures parsing and resolution.
type Option func(*options)

// WithMaxDepth bounds nesting while parsing. It does not limit resolution;
// see [WithMaxChain]. A depth of zero or less disables the bound.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxChain bounds the number of nested substitutions a [Resolver]
// follows, that is, how many bound trees may be expanded inside one another.
// The parser ignores this option. A chain of zero or less disables the
// bound.
func WithMaxChain(chain int) Option {
	return func(o *options) {
		o.maxChain = chain
	}
}

// WithLogger sets the logger used to trace parsing and resolution.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCycleCheck makes a [Resolver] fail with [ErrCyclicScope] when a
// symbol is reached again while its own binding is being expanded.
// The parser ignores this option.
func WithCycleCheck(check bool) Option {
	return func(o *options) {
		o.cycleCheck = check
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth, maxChain: DefaultMaxChain}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
