package lang

import (
	"log/slog"
	"maps"
	"math"
	"reflect"
	"strconv"
)

// Scope maps free-variable names to their bound values.
//
// A value is either a [Node], which is substituted and itself resolved, or a
// Go number, which is substituted as a numeric literal. Values of any other
// type are ignored by resolution. A nil Scope means "no scope" and is
// distinct from an empty one; see [Resolve].
type Scope map[string]any

// Names returns the bound names in sorted order.
func (s Scope) Names() []string { return sortedKeys(s) }

// Clone returns a shallow copy of s. Bound trees are shared, which is safe
// because nodes are immutable.
func (s Scope) Clone() Scope { return maps.Clone(s) }

// Merge returns a new scope holding the bindings of s overridden by those
// of each of others in turn.
func (s Scope) Merge(others ...Scope) Scope {
	out := make(Scope, len(s))
	maps.Copy(out, s)

	for _, o := range others {
		maps.Copy(out, o)
	}

	return out
}

// ValueKind classifies a scope value.
type ValueKind int

const (
	ValueUnsupported ValueKind = iota // unsupported
	ValueNode                         // node
	ValueNumber                       // number
)

// String returns the lower-case name of the classification.
func (k ValueKind) String() string {
	switch k {
	case ValueNode:
		return "node"
	case ValueNumber:
		return "number"
	default:
		return "unsupported"
	}
}

// Classify reports how resolution treats a scope value.
//
// Any non-nil [Node] is [ValueNode]. Any value whose underlying kind is a Go
// integer or floating-point kind is [ValueNumber]. Everything else,
// including strings, booleans, nil, complex numbers and big numbers, is
// [ValueUnsupported].
func Classify(v any) ValueKind {
	if n, ok := v.(Node); ok {
		if isNilNode(n) {
			return ValueUnsupported
		}

		return ValueNode
	}

	if v == nil {
		return ValueUnsupported
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Float32, reflect.Float64:
		return ValueNumber
	default:
		return ValueUnsupported
	}
}

// FormatNumeral renders a Go number as a decimal numeral that [ParseString]
// reads back as the same value.
//
// Integers are written in base 10. Floats use the shortest representation
// that round-trips at their own bit size. The non-finite values are spelled
// "Infinity", "-Infinity" and "NaN".
func FormatNumeral(v any) (string, error) {
	if Classify(v) != ValueNumber {
		return "", ErrInvalidNumber.With(typeAttr(v))
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil

	default:
		f := rv.Float()

		switch {
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		case math.IsNaN(f):
			return "NaN", nil
		}

		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}

		return strconv.FormatFloat(f, 'g', -1, bits), nil
	}
}

// ToFloat converts any Go number to float64, reporting whether v was a
// number.
func ToFloat(v any) (float64, bool) {
	if Classify(v) != ValueNumber {
		return 0, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return float64(rv.Uint()), true

	default:
		return rv.Float(), true
	}
}

func numeralAttr(v any) slog.Attr {
	s, err := FormatNumeral(v)
	if err != nil {
		return typeAttr(v)
	}

	return slog.String("numeral", s)
}
