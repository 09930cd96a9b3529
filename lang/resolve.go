package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// parseNumeral turns a formatted scope number into a tree.
var parseNumeral = func(text string) (Node, error) {
	return ParseString(context.Background(), text)
}

// Resolve returns a tree in which every symbol bound in scope is replaced by
// its value.
//
// A nil scope returns node itself. A non-nil scope, even an empty one,
// rebuilds every operator, function and parenthesis node on the path from
// the root to the leaves; all other variants are returned as they are.
// For a symbol bound in scope:
//
//   - a [Node] binding is resolved against the same scope and substituted;
//   - a number binding is formatted with [FormatNumeral], parsed, and the
//     resulting tree substituted;
//   - any other binding leaves the symbol unchanged.
//
// Neither node nor scope is modified. Resolve does not detect cyclic
// bindings, which recurse until the stack is exhausted; use a [Resolver]
// with [WithCycleCheck] for untrusted scopes.
func Resolve(node Node, scope Scope) (Node, error) {
	if scope == nil {
		return node, nil
	}

	return Visit[Node](node, &resolver{scope: scope})
}

// Resolver resolves trees with optional safety checks. See [NewResolver].
type Resolver struct {
	opts options
}

// NewResolver returns a Resolver configured by opts. [WithCycleCheck]
// enables cycle detection, [WithMaxChain] bounds the substitution chain, and
// [WithLogger] traces each substitution.
func NewResolver(opts ...Option) *Resolver {
	return &Resolver{opts: makeOptions(opts...)}
}

// Resolve behaves like the package-level [Resolve], but checks ctx before
// each substitution and enforces the configured cycle and depth checks.
// It reports [ErrCyclicScope], [ErrMaxChainExceeded] or
// [ErrResolveCanceled] instead of recursing without bound.
func (r *Resolver) Resolve(
	ctx context.Context,
	node Node,
	scope Scope,
) (Node, error) {
	if scope == nil {
		r.opts.logger.TraceContext(ctx, "resolve skipped",
			slog.String("reason", "no scope"))

		return node, nil
	}

	v := &resolver{ctx: ctx, scope: scope, opts: &r.opts}

	out, err := Visit[Node](node, v)
	if err != nil {
		r.opts.logger.DebugContext(ctx, "resolve failed",
			slog.Any("error", err))

		return nil, err
	}

	r.opts.logger.TraceContext(ctx, "resolve complete",
		slog.Int("scope_size", len(scope)),
		slog.String("result", Format(out)),
	)

	return out, nil
}

// resolver is the substitution visitor. With opts nil it performs no checks
// and never logs.
type resolver struct {
	ctx   context.Context
	scope Scope
	opts  *options
	chain []string
}

func (r *resolver) VisitSymbol(n *SymbolNode) (Node, error) {
	value, ok := r.scope[n.name]
	if !ok {
		return n, nil
	}

	switch Classify(value) {
	case ValueNode:
		if err := r.enter(n.name); err != nil {
			return nil, err
		}
		defer r.leave()

		return Visit(value.(Node), Visitor[Node](r))

	case ValueNumber:
		text, err := FormatNumeral(value)
		if err != nil {
			return nil, err
		}

		r.trace("substitute number", n.name, numeralAttr(value))

		return parseNumeral(text)

	default:
		r.trace("skip binding", n.name, typeAttr(value))

		return n, nil
	}
}

func (r *resolver) VisitOperator(n *OperatorNode) (Node, error) {
	args, err := r.resolveAll(n.args)
	if err != nil {
		return nil, err
	}

	return &OperatorNode{
		op:       n.op,
		fn:       n.fn,
		args:     args,
		implicit: n.implicit,
	}, nil
}

func (r *resolver) VisitFunction(n *FunctionNode) (Node, error) {
	args, err := r.resolveAll(n.args)
	if err != nil {
		return nil, err
	}

	return &FunctionNode{name: n.name, args: args}, nil
}

func (r *resolver) VisitParenthesis(n *ParenthesisNode) (Node, error) {
	content, err := Visit[Node](n.content, r)
	if err != nil {
		return nil, err
	}

	return &ParenthesisNode{content: content}, nil
}

func (r *resolver) VisitConstant(n *ConstantNode) (Node, error) { return n, nil }

func (r *resolver) VisitArray(n *ArrayNode) (Node, error) { return n, nil }

func (r *resolver) VisitConditional(n *ConditionalNode) (Node, error) {
	return n, nil
}

func (r *resolver) VisitAssignment(n *AssignmentNode) (Node, error) {
	return n, nil
}

func (r *resolver) VisitBlock(n *BlockNode) (Node, error) { return n, nil }

func (r *resolver) resolveAll(nodes []Node) ([]Node, error) {
	out := make([]Node, len(nodes))

	for i, n := range nodes {
		var err error

		out[i], err = Visit[Node](n, r)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// enter pushes name onto the substitution chain, enforcing the configured
// checks.
func (r *resolver) enter(name string) error {
	if r.opts == nil {
		return nil
	}

	if err := r.ctx.Err(); err != nil {
		return ErrResolveCanceled.Wrap(err).With(slog.String("symbol", name))
	}

	if r.opts.cycleCheck && slices.Contains(r.chain, name) {
		return ErrCyclicScope.With(
			slog.String("symbol", name),
			slog.String("chain", strings.Join(append(r.chain, name), " -> ")),
		)
	}

	if r.opts.maxChain > 0 && len(r.chain) >= r.opts.maxChain {
		return ErrMaxChainExceeded.With(
			slog.String("symbol", name),
			slog.Int("max_chain", r.opts.maxChain),
		)
	}

	r.chain = append(r.chain, name)
	r.trace("substitute node", name)

	return nil
}

func (r *resolver) leave() {
	if r.opts != nil {
		r.chain = r.chain[:len(r.chain)-1]
	}
}

func (r *resolver) trace(msg, name string, attrs ...slog.Attr) {
	if r.opts == nil {
		return
	}

	r.opts.logger.TraceContext(r.ctx, msg, append([]slog.Attr{
		slog.String("symbol", name),
		slog.Int("depth", len(r.chain)),
	}, attrs...)...)
}
