package eval

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/symscope/lang"
)

// Prefixes applied to user symbols and function names in generated
// expr-lang source.
const (
	symbolPrefix   = "v_"
	functionPrefix = "f_"
)

// binaryOps maps operator function names to expr-lang infix operators.
var binaryOps = map[string]string{
	"add":       "+",
	"subtract":  "-",
	"multiply":  "*",
	"divide":    "/",
	"pow":       "**",
	"equal":     "==",
	"unequal":   "!=",
	"smaller":   "<",
	"larger":    ">",
	"smallerEq": "<=",
	"largerEq":  ">=",
	"and":       "and",
	"or":        "or",
}

// unaryOps maps operator function names to expr-lang prefix operators.
var unaryOps = map[string]string{
	"unaryMinus": "-",
	"unaryPlus":  "+",
	"not":        "not ",
}

// callOps maps operator function names to builtin functions.
var callOps = map[string]string{
	"mod":       "mod",
	"factorial": "factorial",
}

func symbolName(name string) string   { return symbolPrefix + name }
func functionName(name string) string { return functionPrefix + name }

// compile renders a resolved tree as fully parenthesized expr-lang source.
func compile(n lang.Node) (string, error) {
	return lang.Visit[string](n, compiler{})
}

type compiler struct{}

func (c compiler) VisitSymbol(n *lang.SymbolNode) (string, error) {
	return symbolName(n.Name()), nil
}

func (c compiler) VisitOperator(n *lang.OperatorNode) (string, error) {
	args, err := c.all(n.Args())
	if err != nil {
		return "", err
	}

	if fn, ok := callOps[n.Fn()]; ok {
		return functionName(fn) + "(" + strings.Join(args, ", ") + ")", nil
	}

	if len(args) == 1 {
		if op, ok := unaryOps[n.Fn()]; ok {
			return "(" + op + args[0] + ")", nil
		}
	}

	op, ok := binaryOps[n.Fn()]
	if !ok || len(args) < 2 {
		return "", ErrUnsupported.With(
			slog.String("operator", n.Fn()),
			slog.Int("arity", len(args)),
		)
	}

	return "(" + strings.Join(args, " "+op+" ") + ")", nil
}

func (c compiler) VisitFunction(n *lang.FunctionNode) (string, error) {
	args, err := c.all(n.Args())
	if err != nil {
		return "", err
	}

	return functionName(n.Name()) + "(" + strings.Join(args, ", ") + ")", nil
}

func (c compiler) VisitParenthesis(n *lang.ParenthesisNode) (string, error) {
	s, err := lang.Visit[string](n.Content(), c)
	if err != nil {
		return "", err
	}

	return "(" + s + ")", nil
}

func (c compiler) VisitConstant(n *lang.ConstantNode) (string, error) {
	switch v := n.Value().(type) {
	case nil:
		return "nil", nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return strconv.Quote(v), nil
	case float64:
		return floatLiteral(v), nil
	}

	return "", ErrUnsupported.With(slog.String("constant", n.String()))
}

func (c compiler) VisitArray(n *lang.ArrayNode) (string, error) {
	items, err := c.all(n.Items())
	if err != nil {
		return "", err
	}

	return "[" + strings.Join(items, ", ") + "]", nil
}

func (c compiler) VisitConditional(n *lang.ConditionalNode) (string, error) {
	parts, err := c.all([]lang.Node{n.Condition(), n.TrueExpr(), n.FalseExpr()})
	if err != nil {
		return "", err
	}

	return "(" + parts[0] + " ? " + parts[1] + " : " + parts[2] + ")", nil
}

func (c compiler) VisitAssignment(n *lang.AssignmentNode) (string, error) {
	return "", ErrUnsupported.With(
		slog.String("reason", "nested assignment"),
		slog.String("name", n.Name()),
	)
}

func (c compiler) VisitBlock(*lang.BlockNode) (string, error) {
	return "", ErrUnsupported.With(slog.String("reason", "nested block"))
}

func (c compiler) all(nodes []lang.Node) ([]string, error) {
	out := make([]string, len(nodes))

	for i, n := range nodes {
		s, err := lang.Visit[string](n, c)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

// floatLiteral renders f so that expr-lang reads it as a float. Non-finite
// values are emitted as the patched constant identifiers.
func floatLiteral(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return symbolName("Infinity")
	case math.IsInf(f, -1):
		return "(-" + symbolName("Infinity") + ")"
	case math.IsNaN(f):
		return symbolName("NaN")
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// functionNames returns the sorted names of all functions called in n,
// including those implied by operators.
func functionNames(n lang.Node) []string {
	seen := map[string]bool{}

	lang.Walk(n, func(n lang.Node) bool {
		switch n := n.(type) {
		case *lang.FunctionNode:
			seen[n.Name()] = true
		case *lang.OperatorNode:
			if fn, ok := callOps[n.Fn()]; ok {
				seen[fn] = true
			}
		}

		return true
	})

	return slices.Sorted(maps.Keys(seen))
}
