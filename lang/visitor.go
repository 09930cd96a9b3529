package lang

import (
	"math"
	"slices"
	"strings"
)

// Visitor handles each [Node] variant. Implementations are driven by
// [Visit].
type Visitor[T any] interface {
	VisitSymbol(n *SymbolNode) (T, error)
	VisitOperator(n *OperatorNode) (T, error)
	VisitFunction(n *FunctionNode) (T, error)
	VisitParenthesis(n *ParenthesisNode) (T, error)
	VisitConstant(n *ConstantNode) (T, error)
	VisitArray(n *ArrayNode) (T, error)
	VisitConditional(n *ConditionalNode) (T, error)
	VisitAssignment(n *AssignmentNode) (T, error)
	VisitBlock(n *BlockNode) (T, error)
}

// Visit dispatches n to the method of v that handles its variant.
func Visit[T any](n Node, v Visitor[T]) (T, error) {
	switch n := n.(type) {
	case *SymbolNode:
		return v.VisitSymbol(n)
	case *OperatorNode:
		return v.VisitOperator(n)
	case *FunctionNode:
		return v.VisitFunction(n)
	case *ParenthesisNode:
		return v.VisitParenthesis(n)
	case *ConstantNode:
		return v.VisitConstant(n)
	case *ArrayNode:
		return v.VisitArray(n)
	case *ConditionalNode:
		return v.VisitConditional(n)
	case *AssignmentNode:
		return v.VisitAssignment(n)
	case *BlockNode:
		return v.VisitBlock(n)
	}

	var zero T

	return zero, ErrUnknownNode.With(typeAttr(n))
}

// Children returns the direct subtrees of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *OperatorNode:
		return n.Args()
	case *FunctionNode:
		return n.Args()
	case *ParenthesisNode:
		return []Node{n.content}
	case *ArrayNode:
		return n.Items()
	case *ConditionalNode:
		return []Node{n.cond, n.t, n.f}
	case *AssignmentNode:
		return []Node{n.value}
	case *BlockNode:
		return n.Statements()
	}

	return nil
}

// Walk traverses the tree rooted at n in depth-first pre-order.
// If fn returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if isNilNode(n) || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Symbols returns the sorted, de-duplicated names of all symbols referenced
// in the tree rooted at n.
func Symbols(n Node) []string {
	var names []string

	Walk(n, func(n Node) bool {
		if s, ok := n.(*SymbolNode); ok {
			names = append(names, s.name)
		}

		return true
	})

	slices.Sort(names)

	return slices.Compact(names)
}

// Equal reports whether a and b are structurally identical trees.
// NaN constants compare equal to each other.
func Equal(a, b Node) bool {
	if isNilNode(a) || isNilNode(b) {
		return isNilNode(a) && isNilNode(b)
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case *SymbolNode:
		return a.name == b.(*SymbolNode).name
	case *OperatorNode:
		o := b.(*OperatorNode)

		return a.op == o.op && a.fn == o.fn && a.implicit == o.implicit &&
			equalAll(a.args, o.args)
	case *FunctionNode:
		f := b.(*FunctionNode)

		return a.name == f.name && equalAll(a.args, f.args)
	case *ParenthesisNode:
		return Equal(a.content, b.(*ParenthesisNode).content)
	case *ConstantNode:
		return equalValue(a.value, b.(*ConstantNode).value)
	case *ArrayNode:
		return equalAll(a.items, b.(*ArrayNode).items)
	case *ConditionalNode:
		c := b.(*ConditionalNode)

		return Equal(a.cond, c.cond) && Equal(a.t, c.t) && Equal(a.f, c.f)
	case *AssignmentNode:
		s := b.(*AssignmentNode)

		return a.name == s.name && Equal(a.value, s.value)
	case *BlockNode:
		return equalAll(a.stmts, b.(*BlockNode).stmts)
	}

	return false
}

func equalAll(a, b []Node) bool {
	return slices.EqualFunc(a, b, Equal)
}

func equalValue(a, b any) bool {
	fa, okA := a.(float64)
	fb, okB := b.(float64)

	if okA && okB && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}

	return a == b
}

// Tree renders n as an indented outline, one node per line.
func Tree(n Node) string {
	var sb strings.Builder

	writeTree(&sb, n, 0)

	return sb.String()
}

func writeTree(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind().String())

	switch n := n.(type) {
	case *SymbolNode:
		sb.WriteString(" " + n.name)
	case *OperatorNode:
		sb.WriteString(" " + n.op + " (" + n.fn)

		if n.implicit {
			sb.WriteString(", implicit")
		}

		sb.WriteString(")")
	case *FunctionNode:
		sb.WriteString(" " + n.name)
	case *ConstantNode:
		sb.WriteString(" " + Format(n))
	case *AssignmentNode:
		sb.WriteString(" " + n.name)
	}

	sb.WriteRune('\n')

	for _, c := range Children(n) {
		writeTree(sb, c, depth+1)
	}
}
