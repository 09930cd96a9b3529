package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Binding strength of each syntactic level, loosest first.
const (
	precBlock = iota - 1
	precAssign
	precConditional
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precImplicit
	precUnary
	precPower
	precPostfix
	precAtom
)

// Format renders n as source text that [ParseString] reads back as an
// equivalent tree.
//
// Parentheses are inserted wherever operator precedence requires them, so
// trees assembled by substitution print unambiguously. Implicit
// multiplication is written by juxtaposition ("2 x").
func Format(n Node) string {
	if isNilNode(n) {
		return ""
	}

	s, _ := Visit[string](n, formatter{})

	return s
}

// FormatJSON writes the tree as JSON to the writer.
func FormatJSON(_ context.Context, w io.Writer, n Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(n, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(n)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	m, err := ToMap(n)
	if err != nil {
		return err
	}

	yamlData, err := yaml.MarshalContext(ctx, m, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// precedence returns the binding strength of the construct at the root of n.
func precedence(n Node) int {
	switch n := n.(type) {
	case *BlockNode:
		return precBlock
	case *AssignmentNode:
		return precAssign
	case *ConditionalNode:
		return precConditional
	case *ConstantNode:
		if n.isNegative() {
			return precUnary
		}
	case *OperatorNode:
		return operatorPrecedence(n)
	}

	return precAtom
}

func operatorPrecedence(n *OperatorNode) int {
	if n.IsUnary() {
		if n.fn == "factorial" {
			return precPostfix
		}

		return precUnary
	}

	switch n.fn {
	case "or":
		return precOr
	case "and":
		return precAnd
	case "equal", "unequal", "smaller", "larger", "smallerEq", "largerEq":
		return precCompare
	case "add", "subtract":
		return precAdditive
	case "pow":
		return precPower
	case "multiply":
		if n.implicit {
			return precImplicit
		}
	}

	return precMultiplicative
}

// formatter renders nodes as source text.
type formatter struct{}

func (f formatter) VisitSymbol(n *SymbolNode) (string, error) {
	return n.name, nil
}

func (f formatter) VisitOperator(n *OperatorNode) (string, error) {
	if n.IsUnary() {
		arg := n.args[0]

		if n.fn == "factorial" {
			return f.wrap(arg, precedence(arg) < precPostfix) + n.op, nil
		}

		s := f.wrap(arg, precedence(arg) < precUnary)
		if isWordOp(n.op) {
			return n.op + " " + s, nil
		}

		return n.op + s, nil
	}

	sep := " " + n.op + " "
	if n.implicit {
		sep = " "
	}

	parts := make([]string, len(n.args))
	for i, arg := range n.args {
		if i == 0 {
			parts[i] = f.wrap(arg, leftNeedsParens(n, arg))
		} else {
			parts[i] = f.wrap(arg, rightNeedsParens(n, arg))
		}
	}

	return strings.Join(parts, sep), nil
}

func (f formatter) VisitFunction(n *FunctionNode) (string, error) {
	return n.name + "(" + f.join(n.args) + ")", nil
}

func (f formatter) VisitParenthesis(n *ParenthesisNode) (string, error) {
	return "(" + Format(n.content) + ")", nil
}

func (f formatter) VisitConstant(n *ConstantNode) (string, error) {
	switch v := n.value.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return quoteString(v), nil
	default:
		return FormatNumeral(v)
	}
}

func (f formatter) VisitArray(n *ArrayNode) (string, error) {
	return "[" + f.join(n.items) + "]", nil
}

func (f formatter) VisitConditional(n *ConditionalNode) (string, error) {
	return f.wrap(n.cond, precedence(n.cond) < precOr) + " ? " +
		f.wrap(n.t, precedence(n.t) < precAssign) + " : " +
		f.wrap(n.f, precedence(n.f) < precAssign), nil
}

func (f formatter) VisitAssignment(n *AssignmentNode) (string, error) {
	return n.name + " = " + f.wrap(n.value, precedence(n.value) < precAssign), nil
}

func (f formatter) VisitBlock(n *BlockNode) (string, error) {
	parts := make([]string, len(n.stmts))
	for i, s := range n.stmts {
		parts[i] = f.wrap(s, precedence(s) < precAssign)
	}

	return strings.Join(parts, "; "), nil
}

func (f formatter) wrap(n Node, parens bool) string {
	if parens {
		return "(" + Format(n) + ")"
	}

	return Format(n)
}

func (f formatter) join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Format(n)
	}

	return strings.Join(parts, ", ")
}

func leftNeedsParens(op *OperatorNode, arg Node) bool {
	p := precedence(arg)

	switch {
	case op.fn == "pow":
		return p < precPostfix
	case op.implicit:
		return p < precImplicit
	default:
		return p < operatorPrecedence(op)
	}
}

func rightNeedsParens(op *OperatorNode, arg Node) bool {
	p := precedence(arg)

	switch {
	case op.fn == "pow":
		return p < precUnary
	case op.implicit:
		return p < precPower || !startsWithWord(arg)
	default:
		return p <= operatorPrecedence(op)
	}
}

// startsWithWord reports whether the text of n begins with an identifier or
// '(', which is what the parser requires of an implicit multiplication's
// right operand.
func startsWithWord(n Node) bool {
	switch n := n.(type) {
	case *SymbolNode, *FunctionNode, *ParenthesisNode:
		return true
	case *ConstantNode:
		_, isBool := n.value.(bool)

		return isBool || n.value == nil
	case *OperatorNode:
		if n.fn == "pow" || n.fn == "factorial" {
			return startsWithWord(n.args[0])
		}
	}

	return false
}

func isWordOp(op string) bool {
	return op != "" && isIdentifierStart([]rune(op)[0])
}

// quoteString renders s as a double-quoted literal using only the escapes
// the parser understands.
func quoteString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
