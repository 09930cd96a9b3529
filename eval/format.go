package eval

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/ardnew/symscope/lang"
)

// DefaultPrecision is the number of significant digits used by
// [FormatValue] when the caller has no preference.
const DefaultPrecision = 14

// FormatValue renders an evaluation result for display.
//
// Floats are printed with at most precision significant digits and without
// trailing zeros. A precision below 1 prints the shortest exact
// representation.
func FormatValue(v any, precision int) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case error:
		return "Error: " + v.Error()
	case lang.Node:
		return lang.Format(v)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v, precision)
	case float32:
		return formatFloat(float64(v), precision)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = FormatValue(item, precision)
		}

		return "[" + strings.Join(items, ", ") + "]"
	case fmt.Stringer:
		return v.String()
	}

	if f, ok := lang.ToFloat(v); ok && reflect.ValueOf(v).CanInt() {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}

func formatFloat(f float64, precision int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if precision < 1 {
		precision = -1
	}

	s := strconv.FormatFloat(f, 'g', precision, 64)

	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}

	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
