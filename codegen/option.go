package codegen

import (
	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
)

// DefaultFuncName is the name of the emitted function.
const DefaultFuncName = "expr"

type options struct {
	name     string
	logger   log.Logger
	scope    lang.Scope
	maxChain int
}

// Option configures [Emit].
type Option func(*options)

// WithFuncName sets the name of the emitted function.
func WithFuncName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithScope makes the bindings of scope available to symbols that
// resolution leaves in place, such as those inside a conditional. Numbers
// and booleans become constants and bound trees are emitted inline.
func WithScope(scope lang.Scope) Option {
	return func(o *options) { o.scope = scope }
}

// WithMaxChain bounds the number of bound trees emitted inside one another.
// A chain of zero or less disables the bound.
func WithMaxChain(chain int) Option {
	return func(o *options) { o.maxChain = chain }
}

// WithLogger sets the logger used to trace emission.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
