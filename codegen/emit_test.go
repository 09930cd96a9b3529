package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/symscope/lang"
)

func emit(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	m, err := Emit(lang.MustParse(src), opts...)
	require.NoError(t, err)

	return m.String()
}

func TestEmit_Definition(t *testing.T) {
	out := emit(t, "1 + 2")

	assert.Contains(t, out, "define double @expr()")
	assert.Contains(t, out, "entry:")
	assert.Contains(t, out, "fadd double")
	assert.Contains(t, out, "ret double")
}

func TestEmit_FuncName(t *testing.T) {
	out := emit(t, "1", WithFuncName("answer"))
	assert.Contains(t, out, "define double @answer()")
}

func TestEmit_Instructions(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"2 - 1", []string{"fsub double"}},
		{"2 * 3", []string{"fmul double"}},
		{"2 / 3", []string{"fdiv double"}},
		{"-(2 + 3)", []string{"fneg double"}},
		{"2 ^ 3", []string{"call double @llvm.pow.f64(", "declare double @llvm.pow.f64(double"}},
		{"7 % 3", []string{"@llvm.floor.f64", "select i1"}},
		{"5!", []string{"call double @tgamma("}},
		{"1 < 2", []string{"fcmp olt double", "uitofp i1"}},
		{"1 != 2", []string{"fcmp une double"}},
		{"1 and 0", []string{"fcmp one double", "and i1"}},
		{"not 1", []string{"fcmp oeq double"}},
		{"1 ? 2 : 3", []string{"select i1"}},
		{"sqrt(2)", []string{"call double @llvm.sqrt.f64("}},
		{"atan2(1, 2)", []string{"declare double @atan2(double"}},
		{"log(8, 2)", []string{"@llvm.log.f64", "fdiv double"}},
		{"max(1, 2, 3)", []string{"@llvm.maxnum.f64"}},
		{"sign(-2)", []string{"fcmp ogt double", "fcmp olt double"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			out := emit(t, tt.src)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEmit_DeclaresOnce(t *testing.T) {
	out := emit(t, "sqrt(2) + sqrt(3) + sqrt(4)")

	assert.Equal(t, 1, strings.Count(out, "declare double @llvm.sqrt.f64"))
	assert.Equal(t, 3, strings.Count(out, "call double @llvm.sqrt.f64"))
}

func TestEmit_ResolvedTree(t *testing.T) {
	n, err := lang.Resolve(lang.MustParse("x + y"), lang.Scope{
		"x": 2,
		"y": lang.MustParse("x + x"),
	})
	require.NoError(t, err)

	out := emit(t, lang.Format(n))
	assert.Equal(t, 2, strings.Count(out, "fadd double"))
}

func TestEmit_Constants(t *testing.T) {
	out := emit(t, "2 pi")

	assert.Contains(t, out, "fmul double")
	assert.NotContains(t, out, "@pi")
}

func TestEmit_Bindings(t *testing.T) {
	scope := lang.Scope{
		"x":  2,
		"r":  lang.MustParse("x + 1"),
		"on": true,
	}

	tests := []struct {
		src  string
		want []string
	}{
		{"x = 2; x > 1 ? 10 : 20", []string{"fcmp ogt double", "select i1"}},
		{"a = 3; b = a * a; b + a", []string{"fmul double", "fadd double"}},
		{"x > 1 ? r : 0", []string{"fadd double", "select i1"}},
		{"on ? 1 : 0", []string{"fcmp one double"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			out := emit(t, tt.src, WithScope(scope))
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEmit_BindingErrors(t *testing.T) {
	cyclic := lang.Scope{
		"a": lang.MustParse("b + 1"),
		"b": lang.MustParse("a ? 1 : 0"),
	}

	_, err := Emit(lang.MustParse("1 ? a : 0"), WithScope(cyclic))
	assert.ErrorIs(t, err, lang.ErrCyclicScope)

	chain := lang.Scope{"a": lang.MustParse("b"), "b": lang.MustParse("c"), "c": 1}

	_, err = Emit(lang.MustParse("1 ? a : 0"), WithScope(chain), WithMaxChain(1))
	assert.ErrorIs(t, err, lang.ErrMaxChainExceeded)

	_, err = Emit(lang.MustParse("1 ? a : 0"), WithScope(chain))
	assert.NoError(t, err)
}

func TestEmit_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"x + 1", ErrUnresolvedSymbol},
		{"nope(1)", ErrUnknownFunction},
		{"sqrt(1, 2)", ErrArgumentCount},
		{"round(1.5, 1)", ErrArgumentCount},
		{"min()", ErrArgumentCount},
		{"[1, 2]", ErrUnsupportedNode},
		{"x = 2; [x, 1]", ErrUnsupportedNode},
		{`"s"`, ErrUnsupportedNode},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Emit(lang.MustParse(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
