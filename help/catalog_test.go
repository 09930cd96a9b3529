package help

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/symscope/eval"
)

func TestCatalog_Lookup(t *testing.T) {
	d, ok := Lookup("sqrt")
	require.True(t, ok)
	assert.Equal(t, "Arithmetic", d.Category)
	assert.Equal(t, []string{"sqrt(x)"}, d.Syntax)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestCatalog_Names(t *testing.T) {
	names := Names()
	assert.True(t, slices.IsSorted(names))
	assert.Contains(t, names, "NaN")
	assert.Contains(t, names, "factorial")
}

func TestCatalog_CoversBuiltins(t *testing.T) {
	for _, name := range slices.Concat(eval.Builtins(), eval.Constants()) {
		_, ok := Lookup(name)
		assert.True(t, ok, "no documentation for %q", name)
	}
}

func TestCatalog_ExamplesEvaluate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			d, _ := Lookup(name)

			h, err := New(&d, evaluators())
			require.NoError(t, err)

			out := h.String()
			assert.True(t, strings.HasPrefix(out, "\nName: "+name+"\n"))
			assert.NotContains(t, out, "Error:")
		})
	}
}

func TestCatalog_SeeAlsoResolves(t *testing.T) {
	for _, name := range Names() {
		d, _ := Lookup(name)
		for _, ref := range d.SeeAlso {
			_, ok := Lookup(ref)
			assert.True(t, ok, "%s refers to undocumented %q", name, ref)
		}
	}
}
