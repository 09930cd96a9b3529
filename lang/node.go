package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"math"
	"reflect"
	"slices"
)

// Kind identifies the variant of a [Node].
type Kind int

// Node variants. The string forms match the "mathjs" discriminator used by
// the JSON encoding.
const (
	KindSymbol      Kind = iota // SymbolNode
	KindOperator                // OperatorNode
	KindFunction                // FunctionNode
	KindParenthesis             // ParenthesisNode
	KindConstant                // ConstantNode
	KindArray                   // ArrayNode
	KindConditional             // ConditionalNode
	KindAssignment              // AssignmentNode
	KindBlock                   // BlockNode
)

// Node is an immutable expression tree node.
//
// The set of implementations is closed; use [Visit] to dispatch on the
// variant. Nodes are never modified after construction, so subtrees may be
// shared freely between trees and goroutines.
type Node interface {
	Kind() Kind
	String() string
	node()
}

// SymbolNode is a reference to a named variable.
type SymbolNode struct {
	name string
}

// NewSymbol returns a symbol reference.
func NewSymbol(name string) *SymbolNode {
	if name == "" {
		panic(ErrInvalidNode.With(slog.String("reason", "empty symbol name")))
	}

	return &SymbolNode{name: name}
}

func (*SymbolNode) node() {}
func (*SymbolNode) Kind() Kind { return KindSymbol }
func (n *SymbolNode) Name() string { return n.name }
func (n *SymbolNode) String() string { return Format(n) }

// OperatorNode applies a named operator function to one or more operands.
//
// Op is the glyph written in source ("+", "-", "not"), Fn is the function
// it denotes ("add", "unaryMinus", "not"). Implicit marks a multiplication
// written by juxtaposition, as in "2 x".
type OperatorNode struct {
	op       string
	fn       string
	args     []Node
	implicit bool
}

// NewOperator returns an operator application. It panics if args is empty
// or contains a nil node.
func NewOperator(op, fn string, args []Node, implicit bool) *OperatorNode {
	if len(args) == 0 {
		panic(ErrInvalidNode.With(
			slog.String("reason", "operator without operands"),
			slog.String("fn", fn),
		))
	}

	mustNotNil("operand", args...)

	return &OperatorNode{
		op:       op,
		fn:       fn,
		args:     slices.Clone(args),
		implicit: implicit,
	}
}

func (*OperatorNode) node() {}
func (*OperatorNode) Kind() Kind { return KindOperator }
func (n *OperatorNode) Op() string { return n.op }
func (n *OperatorNode) Fn() string { return n.fn }
func (n *OperatorNode) Implicit() bool { return n.implicit }
func (n *OperatorNode) NumArgs() int { return len(n.args) }
func (n *OperatorNode) Arg(i int) Node { return n.args[i] }
func (n *OperatorNode) String() string { return Format(n) }

// Args returns a copy of the operands in order.
func (n *OperatorNode) Args() []Node { return slices.Clone(n.args) }

// IsUnary reports whether the operator has a single operand.
func (n *OperatorNode) IsUnary() bool { return len(n.args) == 1 }

// FunctionNode is a call of a named function.
type FunctionNode struct {
	name string
	args []Node
}

// NewFunction returns a function call. It panics if args contains a nil
// node.
func NewFunction(name string, args []Node) *FunctionNode {
	if name == "" {
		panic(ErrInvalidNode.With(slog.String("reason", "empty function name")))
	}

	mustNotNil("argument", args...)

	return &FunctionNode{name: name, args: slices.Clone(args)}
}

func (*FunctionNode) node() {}
func (*FunctionNode) Kind() Kind { return KindFunction }
func (n *FunctionNode) Name() string { return n.name }
func (n *FunctionNode) NumArgs() int { return len(n.args) }
func (n *FunctionNode) Arg(i int) Node { return n.args[i] }
func (n *FunctionNode) String() string { return Format(n) }

// Args returns a copy of the arguments in order.
func (n *FunctionNode) Args() []Node { return slices.Clone(n.args) }

// ParenthesisNode wraps exactly one expression in explicit parentheses.
type ParenthesisNode struct {
	content Node
}

// NewParenthesis wraps content. It panics if content is nil.
func NewParenthesis(content Node) *ParenthesisNode {
	mustNotNil("parenthesis content", content)

	return &ParenthesisNode{content: content}
}

func (*ParenthesisNode) node() {}
func (*ParenthesisNode) Kind() Kind { return KindParenthesis }
func (n *ParenthesisNode) Content() Node { return n.content }
func (n *ParenthesisNode) String() string { return Format(n) }

// ConstantNode is a literal value: a float64 number, a string, a bool, or
// nil for null.
type ConstantNode struct {
	value any
}

// NewConstant returns a literal. Numbers of any Go integer or float kind are
// stored as float64. It panics for any other type.
func NewConstant(value any) *ConstantNode {
	switch v := value.(type) {
	case nil, string, bool, float64:
		return &ConstantNode{value: v}
	}

	f, ok := ToFloat(value)
	if !ok {
		panic(ErrInvalidNode.With(
			slog.String("reason", "unsupported constant type"),
			typeAttr(value),
		))
	}

	return &ConstantNode{value: f}
}

// NewNumber returns a numeric literal.
func NewNumber(v float64) *ConstantNode { return &ConstantNode{value: v} }

// NewString returns a string literal.
func NewString(s string) *ConstantNode { return &ConstantNode{value: s} }

// NewBool returns a boolean literal.
func NewBool(b bool) *ConstantNode { return &ConstantNode{value: b} }

// NewNull returns the null literal.
func NewNull() *ConstantNode { return &ConstantNode{} }

func (*ConstantNode) node() {}
func (*ConstantNode) Kind() Kind { return KindConstant }
func (n *ConstantNode) Value() any { return n.value }
func (n *ConstantNode) String() string { return Format(n) }

// Number returns the numeric value and whether the constant is a number.
func (n *ConstantNode) Number() (float64, bool) {
	f, ok := n.value.(float64)

	return f, ok
}

func (n *ConstantNode) isNegative() bool {
	f, ok := n.Number()

	return ok && (f < 0 || math.IsInf(f, -1))
}

// ArrayNode is a bracketed list of expressions.
type ArrayNode struct {
	items []Node
}

// NewArray returns an array literal.
func NewArray(items []Node) *ArrayNode {
	mustNotNil("array item", items...)

	return &ArrayNode{items: slices.Clone(items)}
}

func (*ArrayNode) node() {}
func (*ArrayNode) Kind() Kind { return KindArray }
func (n *ArrayNode) Items() []Node { return slices.Clone(n.items) }
func (n *ArrayNode) Len() int { return len(n.items) }
func (n *ArrayNode) String() string { return Format(n) }

// ConditionalNode is the ternary "cond ? t : f".
type ConditionalNode struct {
	cond, t, f Node
}

// NewConditional returns a ternary expression.
func NewConditional(cond, trueExpr, falseExpr Node) *ConditionalNode {
	mustNotNil("conditional operand", cond, trueExpr, falseExpr)

	return &ConditionalNode{cond: cond, t: trueExpr, f: falseExpr}
}

func (*ConditionalNode) node() {}
func (*ConditionalNode) Kind() Kind { return KindConditional }
func (n *ConditionalNode) Condition() Node { return n.cond }
func (n *ConditionalNode) TrueExpr() Node { return n.t }
func (n *ConditionalNode) FalseExpr() Node { return n.f }
func (n *ConditionalNode) String() string { return Format(n) }

// AssignmentNode binds the value of an expression to a name.
type AssignmentNode struct {
	name  string
	value Node
}

// NewAssignment returns "name = value".
func NewAssignment(name string, value Node) *AssignmentNode {
	if name == "" {
		panic(ErrInvalidNode.With(slog.String("reason", "empty assignment target")))
	}

	mustNotNil("assigned value", value)

	return &AssignmentNode{name: name, value: value}
}

func (*AssignmentNode) node() {}
func (*AssignmentNode) Kind() Kind { return KindAssignment }
func (n *AssignmentNode) Name() string { return n.name }
func (n *AssignmentNode) Value() Node { return n.value }
func (n *AssignmentNode) String() string { return Format(n) }

// BlockNode is a sequence of statements evaluated in order.
type BlockNode struct {
	stmts []Node
}

// NewBlock returns a statement sequence.
func NewBlock(stmts []Node) *BlockNode {
	mustNotNil("statement", stmts...)

	return &BlockNode{stmts: slices.Clone(stmts)}
}

func (*BlockNode) node() {}
func (*BlockNode) Kind() Kind { return KindBlock }
func (n *BlockNode) Statements() []Node { return slices.Clone(n.stmts) }
func (n *BlockNode) Len() int { return len(n.stmts) }
func (n *BlockNode) String() string { return Format(n) }

func mustNotNil(what string, nodes ...Node) {
	for i, n := range nodes {
		if isNilNode(n) {
			panic(ErrInvalidNode.With(
				slog.String("reason", "nil "+what),
				slog.Int("index", i),
			))
		}
	}
}

// isNilNode reports whether n is nil or a typed nil pointer.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}

	rv := reflect.ValueOf(n)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
