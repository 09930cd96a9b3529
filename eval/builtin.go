package eval

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/expr-lang/expr"

	"github.com/ardnew/symscope/lang"
)

// Func is the signature of a function callable from expressions.
type Func func(args ...any) (any, error)

// constants are the symbols patched into programs when the scope does not
// bind them.
var constants = map[string]float64{
	"pi":       math.Pi,
	"e":        math.E,
	"tau":      2 * math.Pi,
	"phi":      math.Phi,
	"Infinity": math.Inf(1),
	"NaN":      math.NaN(),
}

// builtins are the math functions available to every expression.
var builtins = map[string]Func{
	"sqrt":      unary(math.Sqrt),
	"cbrt":      unary(math.Cbrt),
	"abs":       unary(math.Abs),
	"exp":       unary(math.Exp),
	"ln":        unary(math.Log),
	"log":       logarithm,
	"log2":      unary(math.Log2),
	"log10":     unary(math.Log10),
	"sin":       unary(math.Sin),
	"cos":       unary(math.Cos),
	"tan":       unary(math.Tan),
	"asin":      unary(math.Asin),
	"acos":      unary(math.Acos),
	"atan":      unary(math.Atan),
	"atan2":     binary(math.Atan2),
	"sinh":      unary(math.Sinh),
	"cosh":      unary(math.Cosh),
	"tanh":      unary(math.Tanh),
	"floor":     unary(math.Floor),
	"ceil":      unary(math.Ceil),
	"round":     round,
	"sign":      unary(sign),
	"min":       variadic(math.Min),
	"max":       variadic(math.Max),
	"hypot":     binary(math.Hypot),
	"pow":       binary(math.Pow),
	"mod":       binary(mod),
	"factorial": factorial,
}

// Builtins returns the names of the builtin functions in sorted order.
func Builtins() []string { return sortedKeys(builtins) }

// Constants returns the names of the builtin constants in sorted order.
func Constants() []string { return sortedKeys(constants) }

// Constant returns the value of the builtin constant name.
func Constant(name string) (float64, bool) {
	v, ok := constants[name]

	return v, ok
}

// IsBuiltin reports whether name is a builtin function or constant.
func IsBuiltin(name string) bool {
	_, fn := builtins[name]
	_, c := constants[name]

	return fn || c
}

func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

// functionOptions registers each function with expr-lang under its mangled
// name.
func functionOptions(funcs map[string]Func) []expr.Option {
	names := sortedKeys(funcs)
	opts := make([]expr.Option, 0, len(names))

	for _, name := range names {
		opts = append(opts, expr.Function(functionName(name), funcs[name]))
	}

	return opts
}

func unary(fn func(float64) float64) Func {
	return func(args ...any) (any, error) {
		x, err := floats(1, 1, args)
		if err != nil {
			return nil, err
		}

		return fn(x[0]), nil
	}
}

func binary(fn func(float64, float64) float64) Func {
	return func(args ...any) (any, error) {
		x, err := floats(2, 2, args)
		if err != nil {
			return nil, err
		}

		return fn(x[0], x[1]), nil
	}
}

func variadic(fn func(float64, float64) float64) Func {
	return func(args ...any) (any, error) {
		x, err := floats(1, -1, args)
		if err != nil {
			return nil, err
		}

		acc := x[0]
		for _, v := range x[1:] {
			acc = fn(acc, v)
		}

		return acc, nil
	}
}

// logarithm is the natural logarithm, or the logarithm in the given base
// when called with two arguments.
func logarithm(args ...any) (any, error) {
	x, err := floats(1, 2, args)
	if err != nil {
		return nil, err
	}

	if len(x) == 2 {
		return math.Log(x[0]) / math.Log(x[1]), nil
	}

	return math.Log(x[0]), nil
}

// round rounds half away from zero, to the given number of decimals when
// called with two arguments.
func round(args ...any) (any, error) {
	x, err := floats(1, 2, args)
	if err != nil {
		return nil, err
	}

	if len(x) == 1 {
		return math.Round(x[0]), nil
	}

	if x[1] != math.Trunc(x[1]) || x[1] < 0 || x[1] > 15 {
		return nil, ErrArgument.With(
			slog.String("function", "round"),
			slog.String("decimals", strconv.FormatFloat(x[1], 'g', -1, 64)),
		)
	}

	scale := math.Pow(10, x[1])

	return math.Round(x[0]*scale) / scale, nil
}

// mod returns x modulo y with the sign of y, and x when y is zero.
func mod(x, y float64) float64 {
	if y == 0 {
		return x
	}

	return x - y*math.Floor(x/y)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

// factorial extends n! to non-integers with the gamma function.
func factorial(args ...any) (any, error) {
	x, err := floats(1, 1, args)
	if err != nil {
		return nil, err
	}

	n := x[0]
	if n < 0 && n == math.Trunc(n) {
		return nil, ErrArgument.With(
			slog.String("function", "factorial"),
			slog.String("reason", "negative integer"),
		)
	}

	return math.Gamma(n + 1), nil
}

// floats converts args to float64, checking that there are between lo and
// hi of them. A negative hi means no upper bound.
func floats(lo, hi int, args []any) ([]float64, error) {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return nil, ErrArgument.With(
			slog.Int("min", lo),
			slog.Int("max", hi),
			slog.Int("got", len(args)),
		)
	}

	out := make([]float64, len(args))

	for i, a := range args {
		f, ok := lang.ToFloat(a)
		if !ok {
			return nil, ErrArgument.With(
				slog.Int("index", i),
				slog.String("reason", "not a number"),
			)
		}

		out[i] = f
	}

	return out, nil
}
