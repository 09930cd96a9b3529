package eval

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
)

// Evaluator evaluates expressions against a persistent scope.
// It is safe for concurrent use.
type Evaluator struct {
	mu       sync.Mutex
	scope    lang.Scope
	funcs    map[string]Func
	logger   log.Logger
	maxChain int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithScope seeds the evaluator with a copy of scope.
func WithScope(scope lang.Scope) Option {
	return func(e *Evaluator) {
		maps.Copy(e.scope, scope)
	}
}

// WithFunction makes fn callable from expressions as name, overriding any
// builtin of the same name.
func WithFunction(name string, fn Func) Option {
	return func(e *Evaluator) {
		e.funcs[name] = fn
	}
}

// WithLogger sets the logger used to trace evaluation.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithMaxChain bounds the substitution chain followed while resolving and
// while evaluating bindings referenced from conditionals and arrays.
func WithMaxChain(chain int) Option {
	return func(e *Evaluator) {
		e.maxChain = chain
	}
}

// New returns an Evaluator with the builtin functions and constants.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		scope:    lang.Scope{},
		funcs:    maps.Clone(builtins),
		maxChain: lang.DefaultMaxChain,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Scope returns a copy of the current bindings.
func (e *Evaluator) Scope() lang.Scope {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.scope.Clone()
}

// Set binds name to value in the persistent scope.
func (e *Evaluator) Set(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scope[name] = value
}

// Clear removes all bindings.
func (e *Evaluator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.scope)
}

// Functions returns the names of all callable functions in sorted order.
func (e *Evaluator) Functions() []string { return sortedKeys(e.funcs) }

// Evaluate parses text and evaluates it. See [Evaluator.EvaluateNode].
func (e *Evaluator) Evaluate(ctx context.Context, text string) (any, error) {
	n, err := lang.ParseCached(ctx, text, lang.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}

	return e.EvaluateNode(ctx, n)
}

// EvaluateNode evaluates a tree.
//
// A block evaluates its statements in order and returns the value of the
// last one. An assignment evaluates its value, binds the result in the
// scope and returns it. Any other tree is resolved against the scope,
// compiled and run.
func (e *Evaluator) EvaluateNode(ctx context.Context, n lang.Node) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.statement(ctx, n)
}

func (e *Evaluator) statement(ctx context.Context, n lang.Node) (any, error) {
	switch n := n.(type) {
	case *lang.BlockNode:
		var result any

		for _, stmt := range n.Statements() {
			var err error

			result, err = e.statement(ctx, stmt)
			if err != nil {
				return nil, err
			}
		}

		return result, nil

	case *lang.AssignmentNode:
		value, err := e.expression(ctx, n.Value())
		if err != nil {
			return nil, err
		}

		e.scope[n.Name()] = value

		e.logger.TraceContext(ctx, "assign",
			slog.String("name", n.Name()),
			slog.String("type", typeName(value)),
		)

		return value, nil

	default:
		return e.expression(ctx, n)
	}
}

func (e *Evaluator) expression(ctx context.Context, n lang.Node) (any, error) {
	return e.evaluate(ctx, n, nil)
}

// evaluate resolves, compiles and runs n. chain holds the names whose bound
// trees are being evaluated to supply the environment of an enclosing
// expression.
func (e *Evaluator) evaluate(
	ctx context.Context,
	n lang.Node,
	chain []string,
) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver := lang.NewResolver(
		lang.WithCycleCheck(true),
		lang.WithMaxChain(e.maxChain),
		lang.WithLogger(e.logger),
	)

	resolved, err := resolver.Resolve(ctx, n, e.scope)
	if err != nil {
		return nil, err
	}

	env, err := e.environment(ctx, resolved, chain)
	if err != nil {
		return nil, err
	}

	if err := e.checkDefined(resolved, env); err != nil {
		return nil, err
	}

	source, err := compile(resolved)
	if err != nil {
		return nil, err
	}

	opts := append([]expr.Option{
		expr.Env(env),
		expr.Patch(&constantPatcher{env: env, logger: e.logger}),
	}, functionOptions(e.funcs)...)

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("source", source))
	}

	result = normalize(result)

	e.logger.TraceContext(ctx, "evaluate",
		slog.String("expr", lang.Format(n)),
		slog.String("source", source),
		slog.String("result_type", typeName(result)),
	)

	return result, nil
}

// environment returns the expr-lang variables of a resolved tree.
//
// Scope values that resolution cannot substitute, such as strings and
// booleans, are always exposed. Symbols still present in the resolved tree
// sit inside conditionals or arrays, which resolution leaves as they are;
// those bound to numbers are exposed as float64 and those bound to trees as
// the value of the tree.
func (e *Evaluator) environment(
	ctx context.Context,
	n lang.Node,
	chain []string,
) (map[string]any, error) {
	env := make(map[string]any)

	for name, value := range e.scope {
		if lang.Classify(value) == lang.ValueUnsupported {
			env[symbolName(name)] = value
		}
	}

	for _, name := range lang.Symbols(n) {
		value, ok := e.scope[name]
		if !ok {
			continue
		}

		switch lang.Classify(value) {
		case lang.ValueNumber:
			env[symbolName(name)], _ = lang.ToFloat(value)

		case lang.ValueNode:
			v, err := e.binding(ctx, name, value.(lang.Node), chain)
			if err != nil {
				return nil, err
			}

			env[symbolName(name)] = v
		}
	}

	return env, nil
}

// binding evaluates the tree bound to name.
func (e *Evaluator) binding(
	ctx context.Context,
	name string,
	n lang.Node,
	chain []string,
) (any, error) {
	if slices.Contains(chain, name) {
		return nil, lang.ErrCyclicScope.With(
			slog.String("symbol", name),
			slog.String("chain", strings.Join(append(slices.Clone(chain), name), " -> ")),
		)
	}

	if e.maxChain > 0 && len(chain) >= e.maxChain {
		return nil, lang.ErrMaxChainExceeded.With(
			slog.String("symbol", name),
			slog.Int("max_chain", e.maxChain),
		)
	}

	e.logger.TraceContext(ctx, "evaluate binding",
		slog.String("symbol", name),
		slog.Int("depth", len(chain)),
	)

	return e.evaluate(ctx, n, append(slices.Clone(chain), name))
}

func (e *Evaluator) checkDefined(n lang.Node, env map[string]any) error {
	for _, name := range lang.Symbols(n) {
		if _, ok := env[symbolName(name)]; ok {
			continue
		}

		if _, ok := constants[name]; ok {
			continue
		}

		return ErrUndefinedSymbol.Wrap(errors.New(name)).
			With(slog.String("symbol", name))
	}

	for _, name := range functionNames(n) {
		if _, ok := e.funcs[name]; !ok {
			return ErrUndefinedFunction.Wrap(errors.New(name)).
				With(slog.String("function", name))
		}
	}

	return nil
}

// normalize converts integer results to float64 so that every number
// leaving the evaluator has the same type.
func normalize(v any) any {
	switch v := v.(type) {
	case float64, bool, string, nil:
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}

		return out
	}

	if f, ok := lang.ToFloat(v); ok {
		return f
	}

	return v
}
