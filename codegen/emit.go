package codegen

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ardnew/symscope/eval"
	"github.com/ardnew/symscope/lang"
)

// Emit returns a module defining a function that computes n.
//
// The function takes no arguments and returns a double. Math builtins are
// called through LLVM intrinsics where one exists and through libm
// otherwise. A block computes its statements in order and returns the value
// of the last; an assignment names its value for the statements after it.
//
// A symbol is looked up among the assigned names, then in the scope given
// by [WithScope], then among the builtin constants.
func Emit(n lang.Node, opts ...Option) (*ir.Module, error) {
	o := options{name: DefaultFuncName, maxChain: lang.DefaultMaxChain}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	m := ir.NewModule()
	m.SourceFilename = o.name

	f := m.NewFunc(o.name, types.Double)

	e := &emitter{
		module:   m,
		block:    f.NewBlock("entry"),
		decls:    map[string]*ir.Func{},
		locals:   map[string]value.Value{},
		scope:    o.scope,
		maxChain: o.maxChain,
	}

	v, err := lang.Visit[value.Value](n, e)
	if err != nil {
		o.logger.Debug("emit failed",
			slog.String("expr", lang.Format(n)),
			slog.Any("error", err))

		return nil, err
	}

	e.block.NewRet(v)

	o.logger.Trace("emit complete",
		slog.String("func", o.name),
		slog.Int("instructions", len(e.block.Insts)),
		slog.Int("declarations", len(e.decls)))

	return m, nil
}

// emitter appends the instructions computing each visited node to block.
type emitter struct {
	module   *ir.Module
	block    *ir.Block
	decls    map[string]*ir.Func
	locals   map[string]value.Value
	scope    lang.Scope
	maxChain int
	chain    []string
}

func double(x float64) *constant.Float { return constant.NewFloat(types.Double, x) }

// declare returns the declaration of an external double function of arity
// doubles, adding it to the module on first use.
func (e *emitter) declare(name string, arity int) *ir.Func {
	if f, ok := e.decls[name]; ok {
		return f
	}

	params := make([]*ir.Param, arity)
	for i := range params {
		params[i] = ir.NewParam(string(rune('a'+i)), types.Double)
	}

	f := e.module.NewFunc(name, types.Double, params...)
	e.decls[name] = f

	return f
}

func (e *emitter) call(name string, args ...value.Value) value.Value {
	return e.block.NewCall(e.declare(name, len(args)), args...)
}

// truth converts a double to i1, true when nonzero.
func (e *emitter) truth(v value.Value) value.Value {
	return e.block.NewFCmp(enum.FPredONE, v, double(0))
}

// number converts i1 to a double that is 1 or 0.
func (e *emitter) number(v value.Value) value.Value {
	return e.block.NewUIToFP(v, types.Double)
}

func (e *emitter) all(nodes []lang.Node) ([]value.Value, error) {
	out := make([]value.Value, len(nodes))

	for i, n := range nodes {
		v, err := lang.Visit[value.Value](n, e)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (e *emitter) VisitSymbol(n *lang.SymbolNode) (value.Value, error) {
	name := n.Name()

	if v, ok := e.locals[name]; ok {
		return v, nil
	}

	if bound, ok := e.scope[name]; ok {
		switch lang.Classify(bound) {
		case lang.ValueNumber:
			x, _ := lang.ToFloat(bound)

			return double(x), nil

		case lang.ValueNode:
			return e.binding(name, bound.(lang.Node))
		}

		if b, ok := bound.(bool); ok {
			return e.VisitConstant(lang.NewBool(b))
		}
	}

	if x, ok := eval.Constant(name); ok {
		return double(x), nil
	}

	return nil, ErrUnresolvedSymbol.Wrap(errors.New(name)).
		With(slog.String("symbol", name))
}

// binding emits the tree bound to name in the scope.
func (e *emitter) binding(name string, n lang.Node) (value.Value, error) {
	if slices.Contains(e.chain, name) {
		return nil, lang.ErrCyclicScope.With(
			slog.String("symbol", name),
			slog.String("chain", strings.Join(append(slices.Clone(e.chain), name), " -> ")),
		)
	}

	if e.maxChain > 0 && len(e.chain) >= e.maxChain {
		return nil, lang.ErrMaxChainExceeded.With(
			slog.String("symbol", name),
			slog.Int("max_chain", e.maxChain),
		)
	}

	e.chain = append(e.chain, name)
	defer func() { e.chain = e.chain[:len(e.chain)-1] }()

	return lang.Visit[value.Value](n, e)
}

func (e *emitter) VisitConstant(n *lang.ConstantNode) (value.Value, error) {
	switch v := n.Value().(type) {
	case float64:
		return double(v), nil
	case bool:
		if v {
			return double(1), nil
		}

		return double(0), nil
	}

	return nil, ErrUnsupportedNode.With(slog.String("constant", n.String()))
}

func (e *emitter) VisitParenthesis(n *lang.ParenthesisNode) (value.Value, error) {
	return lang.Visit[value.Value](n.Content(), e)
}

func (e *emitter) VisitConditional(n *lang.ConditionalNode) (value.Value, error) {
	v, err := e.all([]lang.Node{n.Condition(), n.TrueExpr(), n.FalseExpr()})
	if err != nil {
		return nil, err
	}

	return e.block.NewSelect(e.truth(v[0]), v[1], v[2]), nil
}

func (e *emitter) VisitArray(n *lang.ArrayNode) (value.Value, error) {
	return nil, unsupported(n)
}

func (e *emitter) VisitAssignment(n *lang.AssignmentNode) (value.Value, error) {
	v, err := lang.Visit[value.Value](n.Value(), e)
	if err != nil {
		return nil, err
	}

	e.locals[n.Name()] = v

	return v, nil
}

func (e *emitter) VisitBlock(n *lang.BlockNode) (value.Value, error) {
	var v value.Value

	for _, stmt := range n.Statements() {
		var err error

		if v, err = lang.Visit[value.Value](stmt, e); err != nil {
			return nil, err
		}
	}

	if v == nil {
		return nil, unsupported(n)
	}

	return v, nil
}

func unsupported(n lang.Node) error {
	return ErrUnsupportedNode.With(slog.String("kind", n.Kind().String()))
}

// comparisons maps comparison operators to ordered predicates. The
// inequality predicate is unordered so that NaN != NaN holds.
var comparisons = map[string]enum.FPred{
	"equal":     enum.FPredOEQ,
	"unequal":   enum.FPredUNE,
	"smaller":   enum.FPredOLT,
	"larger":    enum.FPredOGT,
	"smallerEq": enum.FPredOLE,
	"largerEq":  enum.FPredOGE,
}

func (e *emitter) VisitOperator(n *lang.OperatorNode) (value.Value, error) {
	args, err := e.all(n.Args())
	if err != nil {
		return nil, err
	}

	if n.IsUnary() {
		x := args[0]

		switch n.Fn() {
		case "unaryMinus":
			return e.block.NewFNeg(x), nil
		case "unaryPlus":
			return x, nil
		case "not":
			return e.number(e.block.NewFCmp(enum.FPredOEQ, x, double(0))), nil
		case "factorial":
			return e.factorial(x), nil
		}

		return nil, ErrUnsupportedNode.With(slog.String("operator", n.Fn()))
	}

	// Operators with more than two operands fold from the left.
	acc := args[0]
	for _, y := range args[1:] {
		if acc, err = e.binary(n.Fn(), acc, y); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (e *emitter) binary(fn string, x, y value.Value) (value.Value, error) {
	switch fn {
	case "add":
		return e.block.NewFAdd(x, y), nil
	case "subtract":
		return e.block.NewFSub(x, y), nil
	case "multiply":
		return e.block.NewFMul(x, y), nil
	case "divide":
		return e.block.NewFDiv(x, y), nil
	case "mod":
		return e.mod(x, y), nil
	case "pow":
		return e.call("llvm.pow.f64", x, y), nil
	case "and":
		return e.number(e.block.NewAnd(e.truth(x), e.truth(y))), nil
	case "or":
		return e.number(e.block.NewOr(e.truth(x), e.truth(y))), nil
	}

	if pred, ok := comparisons[fn]; ok {
		return e.number(e.block.NewFCmp(pred, x, y)), nil
	}

	return nil, ErrUnsupportedNode.With(slog.String("operator", fn))
}

// mod computes x - y*floor(x/y), which takes the sign of y, or x when y is
// zero. frem would take the sign of x instead.
func (e *emitter) mod(x, y value.Value) value.Value {
	q := e.call("llvm.floor.f64", e.block.NewFDiv(x, y))
	r := e.block.NewFSub(x, e.block.NewFMul(y, q))
	zero := e.block.NewFCmp(enum.FPredOEQ, y, double(0))

	return e.block.NewSelect(zero, x, r)
}

func (e *emitter) factorial(x value.Value) value.Value {
	return e.call("tgamma", e.block.NewFAdd(x, double(1)))
}

func (e *emitter) sign(x value.Value) value.Value {
	pos := e.number(e.block.NewFCmp(enum.FPredOGT, x, double(0)))
	neg := e.number(e.block.NewFCmp(enum.FPredOLT, x, double(0)))

	return e.block.NewFSub(pos, neg)
}

// externals maps unary and binary builtins to the functions implementing
// them.
var externals = map[string]struct {
	symbol string
	arity  int
}{
	"sqrt":  {"llvm.sqrt.f64", 1},
	"abs":   {"llvm.fabs.f64", 1},
	"exp":   {"llvm.exp.f64", 1},
	"ln":    {"llvm.log.f64", 1},
	"log2":  {"llvm.log2.f64", 1},
	"log10": {"llvm.log10.f64", 1},
	"sin":   {"llvm.sin.f64", 1},
	"cos":   {"llvm.cos.f64", 1},
	"floor": {"llvm.floor.f64", 1},
	"ceil":  {"llvm.ceil.f64", 1},
	"tan":   {"tan", 1},
	"asin":  {"asin", 1},
	"acos":  {"acos", 1},
	"atan":  {"atan", 1},
	"sinh":  {"sinh", 1},
	"cosh":  {"cosh", 1},
	"tanh":  {"tanh", 1},
	"cbrt":  {"cbrt", 1},
	"atan2": {"atan2", 2},
	"hypot": {"hypot", 2},
	"pow":   {"llvm.pow.f64", 2},
}

func (e *emitter) VisitFunction(n *lang.FunctionNode) (value.Value, error) {
	args, err := e.all(n.Args())
	if err != nil {
		return nil, err
	}

	arity := func(lo, hi int) error {
		if len(args) < lo || (hi >= 0 && len(args) > hi) {
			return ErrArgumentCount.With(
				slog.String("function", n.Name()),
				slog.Int("args", len(args)),
			)
		}

		return nil
	}

	if ext, ok := externals[n.Name()]; ok {
		if err := arity(ext.arity, ext.arity); err != nil {
			return nil, err
		}

		return e.call(ext.symbol, args...), nil
	}

	switch n.Name() {
	case "log":
		if err := arity(1, 2); err != nil {
			return nil, err
		}

		v := e.call("llvm.log.f64", args[0])
		if len(args) == 2 {
			v = e.block.NewFDiv(v, e.call("llvm.log.f64", args[1]))
		}

		return v, nil

	case "round":
		if err := arity(1, 1); err != nil {
			return nil, err
		}

		return e.call("llvm.round.f64", args[0]), nil

	case "min", "max":
		if err := arity(1, -1); err != nil {
			return nil, err
		}

		symbol := "llvm.minnum.f64"
		if n.Name() == "max" {
			symbol = "llvm.maxnum.f64"
		}

		acc := args[0]
		for _, y := range args[1:] {
			acc = e.call(symbol, acc, y)
		}

		return acc, nil

	case "sign":
		if err := arity(1, 1); err != nil {
			return nil, err
		}

		return e.sign(args[0]), nil

	case "mod":
		if err := arity(2, 2); err != nil {
			return nil, err
		}

		return e.mod(args[0], args[1]), nil

	case "factorial":
		if err := arity(1, 1); err != nil {
			return nil, err
		}

		return e.factorial(args[0]), nil
	}

	return nil, ErrUnknownFunction.Wrap(errors.New(n.Name())).
		With(slog.String("function", n.Name()))
}
