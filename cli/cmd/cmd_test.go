package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/symscope/lang"
)

// capture redirects command output to a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := stdout
	stdout = &buf

	t.Cleanup(func() { stdout = prev })

	return &buf
}

// feed replaces standard input for the duration of the test.
func feed(t *testing.T, input string) {
	t.Helper()

	prev := stdin
	stdin = strings.NewReader(input)

	t.Cleanup(func() { stdin = prev })
}

func TestScopeFrom(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, scopeFrom(ctx), "missing scope is empty, not nil")
	assert.Empty(t, scopeFrom(ctx))

	scope := lang.Scope{"x": 1}
	assert.Equal(t, scope, scopeFrom(WithScope(ctx, scope)))
}

func TestMaxDepthFrom(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, lang.DefaultMaxDepth, maxDepthFrom(ctx))
	assert.Equal(t, lang.DefaultMaxDepth, maxDepthFrom(WithMaxDepth(ctx, 0)))
	assert.Equal(t, 7, maxDepthFrom(WithMaxDepth(ctx, 7)))
}

func TestMaxChainFrom(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, lang.DefaultMaxChain, maxChainFrom(ctx))
	assert.Equal(t, lang.DefaultMaxChain, maxChainFrom(WithMaxChain(ctx, -1)))
	assert.Equal(t, 3, maxChainFrom(WithMaxChain(ctx, 3)))
	assert.Equal(t, lang.DefaultMaxDepth, maxDepthFrom(WithMaxChain(ctx, 3)),
		"chain and depth limits are stored separately")
}

func TestParseInput(t *testing.T) {
	ctx := t.Context()

	n, err := parseInput(ctx, []string{"2", "*", "x"})
	require.NoError(t, err)
	assert.Equal(t, "2 * x", lang.Format(n))

	feed(t, "a + b\n")

	n, err = parseInput(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "a + b", lang.Format(n))

	feed(t, "c")

	n, err = parseInput(ctx, []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "c", lang.Format(n))

	_, err = parseInput(ctx, []string{"2 +"})
	assert.ErrorIs(t, err, lang.ErrParse)
}

func TestUniqueFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.scope")
	b := filepath.Join(dir, "b.scope")
	link := filepath.Join(dir, "link.scope")

	for _, path := range []string{a, b} {
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))
	}

	require.NoError(t, os.Symlink(a, link))

	t.Chdir(dir)

	got, err := uniqueFiles([]string{a, "b.scope", link, "./a.scope", b})
	require.NoError(t, err)

	want := []string{a, b}
	for i := range want {
		want[i], err = filepath.EvalSymlinks(want[i])
		require.NoError(t, err)
	}

	assert.Equal(t, want, got)

	_, err = uniqueFiles([]string{filepath.Join(dir, "missing.scope")})
	assert.Error(t, err)
}

func TestError(t *testing.T) {
	base := NewError("base")
	cause := io.EOF

	err := base.Wrap(cause)

	assert.Equal(t, "base: EOF", err.Error())
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, NewError("other"))
	assert.ErrorIs(t, base.With(), base)
	assert.Equal(t, "base", base.Error())
	assert.Equal(t, "EOF", NewError("").Wrap(cause).Error())

	wrapped := ErrWriteConfig.Wrap(ErrFileExists)
	assert.ErrorIs(t, wrapped, ErrFileExists)
	assert.ErrorIs(t, wrapped, ErrWriteConfig)
}
