package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/pkg"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func formatted(t *testing.T, v any) string {
	t.Helper()

	n, ok := v.(lang.Node)
	require.Truef(t, ok, "value %v (%T) is not a tree", v, v)

	return lang.Format(n)
}

func TestLoadScopeFile(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "disk.yaml", `
r: 2
area: pi r ^ 2
label: '"disk"'
ok: true
none: null
`)

		scope, err := LoadScopeFile(ctx, path)
		require.NoError(t, err)

		assert.Equal(t, []string{"area", "label", "none", "ok", "r"}, scope.Names())
		assert.Equal(t, lang.ValueNumber, lang.Classify(scope["r"]))
		assert.EqualValues(t, 2, scope["r"])
		assert.Equal(t, "pi r ^ 2", formatted(t, scope["area"]))
		assert.Equal(t, `"disk"`, formatted(t, scope["label"]))
		assert.Equal(t, true, scope["ok"])
		assert.Nil(t, scope["none"])
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, dir, "tree.json",
			`{"x": 1.5, "y": "x + q", "q": {"mathjs": "SymbolNode", "name": "q"}}`)

		scope, err := LoadScopeFile(ctx, path)
		require.NoError(t, err)

		assert.EqualValues(t, 1.5, scope["x"])
		assert.Equal(t, "x + q", formatted(t, scope["y"]))
		assert.Equal(t, "q", formatted(t, scope["q"]))
	})

	t.Run("statements", func(t *testing.T) {
		path := writeFile(t, dir, "rect.scope", "w = 3\nh = w + 1\n")

		scope, err := LoadScopeFile(ctx, path)
		require.NoError(t, err)

		assert.Equal(t, []string{"h", "w"}, scope.Names())
		assert.Equal(t, "3", formatted(t, scope["w"]))
		assert.Equal(t, "w + 1", formatted(t, scope["h"]))
	})

	t.Run("single statement", func(t *testing.T) {
		path := writeFile(t, dir, "one.scope", "k = 1\n")

		scope, err := LoadScopeFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"k"}, scope.Names())
	})

	t.Run("expression statement", func(t *testing.T) {
		path := writeFile(t, dir, "bad.scope", "a = 1\na + 1\n")

		_, err := LoadScopeFile(ctx, path)
		assert.ErrorIs(t, err, ErrScopeValue)
	})

	t.Run("unsupported value", func(t *testing.T) {
		path := writeFile(t, dir, "list.yaml", "xs: [1, 2]\n")

		_, err := LoadScopeFile(ctx, path)
		assert.ErrorIs(t, err, ErrScopeValue)
	})

	t.Run("unparsable value", func(t *testing.T) {
		path := writeFile(t, dir, "syntax.yaml", "e: '2 +'\n")

		_, err := LoadScopeFile(ctx, path)
		assert.ErrorIs(t, err, ErrScopeValue)
		assert.ErrorIs(t, err, lang.ErrParse)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := writeFile(t, dir, "scope.toml", "x = 1\n")

		_, err := LoadScopeFile(ctx, path)
		assert.ErrorIs(t, err, ErrScopeFormat)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadScopeFile(ctx, filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, ErrScopeFile)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		value string
		fail  bool
	}{
		{in: "x=2", name: "x", value: "2"},
		{in: " r = a + b", name: "r", value: "a + b"},
		{in: "eq=a==b", name: "eq", value: "a == b"},
		{in: "x", fail: true},
		{in: "=1", fail: true},
		{in: "2x=1", fail: true},
		{in: "x=", fail: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, value, err := parseBinding(t.Context(), tt.in)
			if tt.fail {
				assert.ErrorIs(t, err, ErrSetBinding)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, lang.Format(value))
		})
	}
}

func TestScopeFlagsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "r: 2\nh: 10\n")
	writeFile(t, dir, "over.scope", "h = r * 3\n")

	t.Setenv(pkg.EnvPath, "")
	t.Chdir(t.TempDir())

	flags := ScopeFlags{
		Scope: []string{"base.yaml", "over.scope", filepath.Join(dir, "base.yaml")},
		Set:   []string{"r=5"},
		Path:  []string{dir},
	}

	scope, err := flags.Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"h", "r"}, scope.Names())
	assert.Equal(t, "r * 3", formatted(t, scope["h"]), "later files override earlier ones")
	assert.Equal(t, "5", formatted(t, scope["r"]), "bindings override files")

	flags = ScopeFlags{Scope: []string{"absent.yaml"}, Path: []string{dir}}

	_, err = flags.Load(t.Context())
	assert.ErrorIs(t, err, ErrScopeFile)

	flags = ScopeFlags{Set: []string{"bad"}}

	_, err = flags.Load(t.Context())
	assert.ErrorIs(t, err, ErrSetBinding)
}
