package lang

import (
	"context"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NilScopeIsIdentity(t *testing.T) {
	n := MustParse("x + y")

	out, err := Resolve(n, nil)
	require.NoError(t, err)
	assert.Same(t, n, out)
}

func TestResolve_EmptyScopeRebuilds(t *testing.T) {
	n := MustParse("f(x) + (y)")

	out, err := Resolve(n, Scope{})
	require.NoError(t, err)
	assert.NotSame(t, n, out)
	assert.True(t, Equal(n, out), "got %s", out)
}

func TestResolve_Grounding(t *testing.T) {
	out, err := Resolve(MustParse("x + y"), Scope{"x": 1, "y": 2})
	require.NoError(t, err)
	assert.True(t, Equal(MustParse("1 + 2"), out), "got %s", out)
}

func TestResolve_Chained(t *testing.T) {
	scope := Scope{"x": 2, "y": MustParse("x + x")}

	out, err := Resolve(MustParse("y"), scope)
	require.NoError(t, err)
	assert.Equal(t, "2 + 2", Format(out))

	out, err = Resolve(MustParse("x + y"), scope)
	require.NoError(t, err)
	assert.Equal(t, "2 + (2 + 2)", Format(out))
}

func TestResolve_Bindings(t *testing.T) {
	type meters float64

	tests := []struct {
		name  string
		input string
		scope Scope
		want  string
	}{
		{"unbound passthrough", "x + z", Scope{"x": 1}, "1 + z"},
		{"string ignored", "x", Scope{"x": "3"}, "x"},
		{"bool ignored", "x", Scope{"x": true}, "x"},
		{"nil ignored", "x", Scope{"x": nil}, "x"},
		{"big number ignored", "x", Scope{"x": big.NewInt(3)}, "x"},
		{"complex ignored", "x", Scope{"x": complex(1, 2)}, "x"},
		{"typed nil node ignored", "x", Scope{"x": (*SymbolNode)(nil)}, "x"},
		{"int8", "x", Scope{"x": int8(-5)}, "-5"},
		{"uint64", "x", Scope{"x": uint64(42)}, "42"},
		{"float", "x", Scope{"x": 0.1}, "0.1"},
		{"float32", "x", Scope{"x": float32(0.1)}, "0.1"},
		{"named float", "x", Scope{"x": meters(2.5)}, "2.5"},
		{"large float", "x", Scope{"x": 1e21}, "1e+21"},
		{"infinity", "x + 1", Scope{"x": math.Inf(1)}, "Infinity + 1"},
		{"negative infinity", "x + 1", Scope{"x": math.Inf(-1)}, "-Infinity + 1"},
		{"nan", "x", Scope{"x": math.NaN()}, "NaN"},
		{"negative base", "x ^ 2", Scope{"x": -3}, "(-3) ^ 2"},
		{"node in product", "2 * x", Scope{"x": MustParse("a + b")}, "2 * (a + b)"},
		{"function arguments in order", "f(x, y, x)", Scope{"x": 1, "y": 2}, "f(1, 2, 1)"},
		{"parenthesis", "(x)", Scope{"x": MustParse("a - b")}, "(a - b)"},
		{"nested chain", "a", Scope{"a": MustParse("b * 2"), "b": MustParse("c + 1"), "c": 5}, "(5 + 1) * 2"},
		{"diamond", "a", Scope{"a": MustParse("b + b"), "b": MustParse("c"), "c": 1}, "1 + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Resolve(MustParse(tt.input), tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(out))
		})
	}
}

func TestResolve_PreservesOperatorFields(t *testing.T) {
	out, err := Resolve(MustParse("2 x"), Scope{"x": MustParse("y")})
	require.NoError(t, err)

	op, ok := out.(*OperatorNode)
	require.True(t, ok, "got %s", out.Kind())
	assert.Equal(t, "*", op.Op())
	assert.Equal(t, "multiply", op.Fn())
	assert.True(t, op.Implicit())
	assert.Equal(t, "2 y", Format(op))
}

func TestResolve_ParenthesisHasOneChild(t *testing.T) {
	out, err := Resolve(MustParse("(x)"), Scope{"x": 7})
	require.NoError(t, err)

	p, ok := out.(*ParenthesisNode)
	require.True(t, ok)
	assert.Len(t, Children(p), 1)
	assert.Equal(t, "7", Format(p.Content()))
}

func TestResolve_OpaqueVariants(t *testing.T) {
	scope := Scope{"x": 1}

	for _, input := range []string{
		"[x, 2]",
		"x ? 1 : 2",
		"a = x",
		"a = x; b = x",
		"42",
		`"x"`,
	} {
		t.Run(input, func(t *testing.T) {
			n := MustParse(input)

			out, err := Resolve(n, scope)
			require.NoError(t, err)
			assert.Same(t, n, out)
		})
	}
}

func TestResolve_DoesNotMutate(t *testing.T) {
	n := MustParse("x * (y + f(x))")
	y := MustParse("x - 1")
	scope := Scope{"x": 3, "y": y}

	beforeTree, beforeY := Format(n), Format(y)

	_, err := Resolve(n, scope)
	require.NoError(t, err)

	assert.Equal(t, beforeTree, Format(n))
	assert.Equal(t, beforeY, Format(y))
	assert.Len(t, scope, 2)
	assert.Same(t, y, scope["y"])
}

func TestResolve_ParseErrorPropagates(t *testing.T) {
	orig := parseNumeral
	t.Cleanup(func() { parseNumeral = orig })

	parseNumeral = func(text string) (Node, error) {
		return nil, &ParseError{Source: text, Msg: "malformed", Pos: Position{Line: 1, Column: 1}}
	}

	_, err := Resolve(MustParse("1 + x"), Scope{"x": 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestResolve_Concurrent(t *testing.T) {
	n := MustParse("a * x + f(y, (x))")
	scope := Scope{"x": MustParse("y ^ 2"), "y": 1.5, "a": 2}
	want := "2 * 1.5 ^ 2 + f(1.5, (1.5 ^ 2))"

	var wg sync.WaitGroup

	results := make([]string, 16)
	for i := range results {
		wg.Go(func() {
			out, err := Resolve(n, scope)
			if err == nil {
				results[i] = Format(out)
			}
		})
	}

	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "goroutine %d", i)
	}
}

func TestResolver_CycleCheck(t *testing.T) {
	r := NewResolver(WithCycleCheck(true))

	tests := []struct {
		name  string
		scope Scope
	}{
		{"self reference", Scope{"x": MustParse("x + 1")}},
		{"mutual reference", Scope{"x": MustParse("y + 1"), "y": MustParse("2 x")}},
		{"long cycle", Scope{"x": MustParse("y"), "y": MustParse("z"), "z": MustParse("f(x)")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(t.Context(), MustParse("x"), tt.scope)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCyclicScope)
		})
	}
}

func TestResolver_AcyclicMatchesResolve(t *testing.T) {
	r := NewResolver(WithCycleCheck(true))
	scope := Scope{"a": MustParse("b + b"), "b": MustParse("c"), "c": 1}

	want, err := Resolve(MustParse("a * b"), scope)
	require.NoError(t, err)

	got, err := r.Resolve(t.Context(), MustParse("a * b"), scope)
	require.NoError(t, err)
	assert.True(t, Equal(want, got), "got %s, want %s", got, want)

	n := MustParse("a")
	got, err = r.Resolve(t.Context(), n, nil)
	require.NoError(t, err)
	assert.Same(t, n, got)
}

func TestResolver_MaxChain(t *testing.T) {
	scope := Scope{}
	for i := range 10 {
		scope["x"+strconv.Itoa(i)] = NewSymbol("x" + strconv.Itoa(i+1))
	}

	_, err := NewResolver(WithMaxChain(5)).Resolve(t.Context(), MustParse("x0"), scope)
	assert.ErrorIs(t, err, ErrMaxChainExceeded)

	out, err := NewResolver(WithMaxChain(20)).Resolve(t.Context(), MustParse("x0"), scope)
	require.NoError(t, err)
	assert.Equal(t, "x10", Format(out))

	// Without cycle detection a cyclic scope still terminates at the bound.
	_, err = NewResolver(WithMaxChain(8)).Resolve(t.Context(),
		MustParse("x"), Scope{"x": MustParse("x")})
	assert.ErrorIs(t, err, ErrMaxChainExceeded)
}

func TestResolver_DepthAndChainAreIndependent(t *testing.T) {
	deep := strings.Repeat("(", 12) + "x" + strings.Repeat(")", 12)

	// A nesting bound does not limit substitution.
	n, err := ParseString(t.Context(), deep)
	require.NoError(t, err)

	out, err := NewResolver(WithMaxDepth(5)).Resolve(t.Context(), n, Scope{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("(", 12)+"1"+strings.Repeat(")", 12), Format(out))

	// A chain bound does not limit parsing.
	_, err = ParseString(t.Context(), deep, WithMaxChain(1))
	require.NoError(t, err)
}

func TestResolver_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewResolver().Resolve(ctx, MustParse("x"), Scope{"x": MustParse("1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolveCanceled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func BenchmarkResolve(b *testing.B) {
	n := MustParse("a x^2 + b x + c")
	scope := Scope{
		"a": 3,
		"b": MustParse("a - 1"),
		"c": MustParse("b / 2"),
		"x": MustParse("t + 1"),
		"t": 0.5,
	}

	for b.Loop() {
		if _, err := Resolve(n, scope); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolver_CycleCheck(b *testing.B) {
	n := MustParse("a x^2 + b x + c")
	scope := Scope{
		"a": 3,
		"b": MustParse("a - 1"),
		"c": MustParse("b / 2"),
		"x": MustParse("t + 1"),
		"t": 0.5,
	}
	r := NewResolver(WithCycleCheck(true))

	for b.Loop() {
		if _, err := r.Resolve(b.Context(), n, scope); err != nil {
			b.Fatal(err)
		}
	}
}
