package lang

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// discriminator is the map key naming the variant of an encoded node.
const discriminator = "mathjs"

// ToMap converts the tree to nested native Go maps and slices.
//
// Every node becomes a map with a "mathjs" key naming its variant, in the
// layout used by the mathjs JSON encoding:
//
//	{"mathjs": "OperatorNode", "op": "+", "fn": "add", "args": [...], "implicit": false}
//
// Non-finite numbers are encoded as the strings "Infinity", "-Infinity" and
// "NaN" with "valueType": "number".
func ToMap(n Node) (map[string]any, error) {
	if isNilNode(n) {
		return nil, ErrInvalidNode.With(slog.String("reason", "nil node"))
	}

	return Visit[map[string]any](n, mapper{})
}

// FromMap reconstructs a tree from the structure produced by [ToMap].
// It accepts maps decoded by encoding/json or goccy/go-yaml.
func FromMap(m map[string]any) (Node, error) {
	kind, _ := m[discriminator].(string)

	switch kind {
	case "SymbolNode":
		name, err := field[string](m, "name")
		if err != nil {
			return nil, err
		}

		if name == "" {
			return nil, missingField("name")
		}

		return NewSymbol(name), nil

	case "OperatorNode":
		op, err := field[string](m, "op")
		if err != nil {
			return nil, err
		}

		fn, err := field[string](m, "fn")
		if err != nil {
			return nil, err
		}

		args, err := nodeList(m, "args")
		if err != nil {
			return nil, err
		}

		if len(args) == 0 {
			return nil, ErrDecodeNode.With(
				slog.String("reason", "operator without operands"))
		}

		implicit, _ := m["implicit"].(bool)

		return NewOperator(op, fn, args, implicit), nil

	case "FunctionNode":
		fn, err := nodeField(m, "fn")
		if err != nil {
			return nil, err
		}

		sym, ok := fn.(*SymbolNode)
		if !ok {
			return nil, ErrDecodeNode.With(
				slog.String("reason", "function name is not a symbol"))
		}

		args, err := nodeList(m, "args")
		if err != nil {
			return nil, err
		}

		return NewFunction(sym.name, args), nil

	case "ParenthesisNode":
		content, err := nodeField(m, "content")
		if err != nil {
			return nil, err
		}

		return NewParenthesis(content), nil

	case "ConstantNode":
		return constantFromMap(m)

	case "ArrayNode":
		items, err := nodeList(m, "items")
		if err != nil {
			return nil, err
		}

		return NewArray(items), nil

	case "ConditionalNode":
		var parts [3]Node

		for i, key := range []string{"condition", "trueExpr", "falseExpr"} {
			n, err := nodeField(m, key)
			if err != nil {
				return nil, err
			}

			parts[i] = n
		}

		return NewConditional(parts[0], parts[1], parts[2]), nil

	case "AssignmentNode":
		obj, err := nodeField(m, "object")
		if err != nil {
			return nil, err
		}

		sym, ok := obj.(*SymbolNode)
		if !ok {
			return nil, ErrDecodeNode.With(
				slog.String("reason", "assignment target is not a symbol"))
		}

		value, err := nodeField(m, "value")
		if err != nil {
			return nil, err
		}

		return NewAssignment(sym.name, value), nil

	case "BlockNode":
		raw, ok := m["blocks"].([]any)
		if !ok {
			return nil, missingField("blocks")
		}

		stmts := make([]Node, len(raw))

		for i, b := range raw {
			bm, ok := asMap(b)
			if !ok {
				return nil, missingField("blocks").With(slog.Int("index", i))
			}

			n, err := nodeField(bm, "node")
			if err != nil {
				return nil, err
			}

			stmts[i] = n
		}

		return NewBlock(stmts), nil
	}

	return nil, ErrDecodeNode.With(slog.String(discriminator, kind))
}

// FromJSON decodes a tree encoded by [json.Marshal] of a [Node].
func FromJSON(data []byte) (Node, error) {
	var m map[string]any

	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrDecodeNode.Wrap(err)
	}

	return FromMap(m)
}

// IsEncodedNode reports whether v looks like a map produced by [ToMap].
func IsEncodedNode(v any) bool {
	m, ok := asMap(v)
	if !ok {
		return false
	}

	_, ok = m[discriminator].(string)

	return ok
}

// AsMap converts a decoded JSON or YAML mapping to map[string]any.
func AsMap(v any) (map[string]any, bool) { return asMap(v) }

func (n *SymbolNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *OperatorNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *FunctionNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *ParenthesisNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *ConstantNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *ArrayNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *ConditionalNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *AssignmentNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }
func (n *BlockNode) MarshalJSON() ([]byte, error) { return marshalNode(n) }

func marshalNode(n Node) ([]byte, error) {
	m, err := ToMap(n)
	if err != nil {
		return nil, err
	}

	return json.Marshal(m)
}

// mapper converts nodes to maps.
type mapper struct{}

func (v mapper) VisitSymbol(n *SymbolNode) (map[string]any, error) {
	return v.node(n, "name", n.name), nil
}

func (v mapper) VisitOperator(n *OperatorNode) (map[string]any, error) {
	args, err := v.list(n.args)
	if err != nil {
		return nil, err
	}

	return v.node(n,
		"op", n.op,
		"fn", n.fn,
		"args", args,
		"implicit", n.implicit,
	), nil
}

func (v mapper) VisitFunction(n *FunctionNode) (map[string]any, error) {
	args, err := v.list(n.args)
	if err != nil {
		return nil, err
	}

	fn, _ := v.VisitSymbol(NewSymbol(n.name))

	return v.node(n, "fn", fn, "args", args), nil
}

func (v mapper) VisitParenthesis(n *ParenthesisNode) (map[string]any, error) {
	content, err := Visit[map[string]any](n.content, v)
	if err != nil {
		return nil, err
	}

	return v.node(n, "content", content), nil
}

func (v mapper) VisitConstant(n *ConstantNode) (map[string]any, error) {
	if f, ok := n.Number(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		s, _ := FormatNumeral(f)

		return v.node(n, "value", s, "valueType", "number"), nil
	}

	return v.node(n, "value", n.value), nil
}

func (v mapper) VisitArray(n *ArrayNode) (map[string]any, error) {
	items, err := v.list(n.items)
	if err != nil {
		return nil, err
	}

	return v.node(n, "items", items), nil
}

func (v mapper) VisitConditional(n *ConditionalNode) (map[string]any, error) {
	parts, err := v.list([]Node{n.cond, n.t, n.f})
	if err != nil {
		return nil, err
	}

	return v.node(n,
		"condition", parts[0],
		"trueExpr", parts[1],
		"falseExpr", parts[2],
	), nil
}

func (v mapper) VisitAssignment(n *AssignmentNode) (map[string]any, error) {
	value, err := Visit[map[string]any](n.value, v)
	if err != nil {
		return nil, err
	}

	obj, _ := v.VisitSymbol(NewSymbol(n.name))

	return v.node(n, "object", obj, "value", value), nil
}

func (v mapper) VisitBlock(n *BlockNode) (map[string]any, error) {
	blocks := make([]any, len(n.stmts))

	for i, s := range n.stmts {
		m, err := Visit[map[string]any](s, v)
		if err != nil {
			return nil, err
		}

		blocks[i] = map[string]any{"node": m, "visible": true}
	}

	return v.node(n, "blocks", blocks), nil
}

func (mapper) node(n Node, kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2+1)
	m[discriminator] = n.Kind().String()

	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}

	return m
}

func (v mapper) list(nodes []Node) ([]any, error) {
	out := make([]any, len(nodes))

	for i, n := range nodes {
		m, err := Visit[map[string]any](n, v)
		if err != nil {
			return nil, err
		}

		out[i] = m
	}

	return out, nil
}

func constantFromMap(m map[string]any) (Node, error) {
	value, ok := m["value"]
	if !ok {
		return NewNull(), nil
	}

	if t, _ := m["valueType"].(string); t == "number" {
		if s, ok := value.(string); ok {
			switch s {
			case "Infinity":
				return NewNumber(math.Inf(1)), nil
			case "-Infinity":
				return NewNumber(math.Inf(-1)), nil
			case "NaN":
				return NewNumber(math.NaN()), nil
			}

			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, ErrDecodeNode.Wrap(err)
			}

			return NewNumber(f), nil
		}
	}

	switch v := value.(type) {
	case nil, string, bool:
		return NewConstant(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, ErrDecodeNode.Wrap(err)
		}

		return NewNumber(f), nil
	}

	if f, ok := ToFloat(value); ok {
		return NewNumber(f), nil
	}

	return nil, ErrDecodeNode.With(
		slog.String("reason", "unsupported constant"),
		typeAttr(value),
	)
}

func field[T any](m map[string]any, key string) (T, error) {
	v, ok := m[key].(T)
	if !ok {
		var zero T

		return zero, missingField(key)
	}

	return v, nil
}

func nodeField(m map[string]any, key string) (Node, error) {
	sub, ok := asMap(m[key])
	if !ok {
		return nil, missingField(key)
	}

	return FromMap(sub)
}

func nodeList(m map[string]any, key string) ([]Node, error) {
	raw, ok := m[key].([]any)
	if !ok && m[key] != nil {
		return nil, missingField(key)
	}

	out := make([]Node, len(raw))

	for i, r := range raw {
		sub, ok := asMap(r)
		if !ok {
			return nil, missingField(key).With(slog.Int("index", i))
		}

		n, err := FromMap(sub)
		if err != nil {
			return nil, err
		}

		out[i] = n
	}

	return out, nil
}

func missingField(key string) *Error {
	return ErrDecodeNode.With(slog.String("field", key))
}

// asMap accepts both string-keyed maps and the interface-keyed maps some
// YAML decoders produce.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}

		return out, true
	}

	return nil, false
}
