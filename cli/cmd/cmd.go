package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	scopeKey    struct{}
	maxDepthKey struct{}
	maxChainKey struct{}
)

// WithScope returns a new context.Context carrying the scope that commands
// resolve and evaluate against.
func WithScope(ctx context.Context, scope lang.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// scopeFrom returns the scope stored by [WithScope], or an empty scope.
func scopeFrom(ctx context.Context) lang.Scope {
	if s, ok := ctx.Value(scopeKey{}).(lang.Scope); ok && s != nil {
		return s
	}

	return lang.Scope{}
}

// WithMaxDepth returns a new context.Context carrying the nesting limit used
// for parsing.
func WithMaxDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, maxDepthKey{}, depth)
}

func maxDepthFrom(ctx context.Context) int {
	if d, ok := ctx.Value(maxDepthKey{}).(int); ok && d > 0 {
		return d
	}

	return lang.DefaultMaxDepth
}

// WithMaxChain returns a new context.Context carrying the substitution chain
// limit used for resolution and evaluation.
func WithMaxChain(ctx context.Context, chain int) context.Context {
	return context.WithValue(ctx, maxChainKey{}, chain)
}

func maxChainFrom(ctx context.Context) int {
	if c, ok := ctx.Value(maxChainKey{}).(int); ok && c > 0 {
		return c
	}

	return lang.DefaultMaxChain
}

// langOptions returns the parse and resolve options shared by all commands.
func langOptions(ctx context.Context) []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(maxDepthFrom(ctx)),
		lang.WithMaxChain(maxChainFrom(ctx)),
		lang.WithLogger(log.Default()),
	}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdin is replaced by tests.
var stdin io.Reader = os.Stdin

// parseInput parses the expression given as positional words, or the whole
// of standard input when there are none or the only word is "-".
func parseInput(ctx context.Context, words []string) (lang.Node, error) {
	opts := langOptions(ctx)

	if len(words) == 0 || (len(words) == 1 && words[0] == stdinSource) {
		log.TraceContext(ctx, "read expression", slog.String("source", "stdin"))

		return lang.ParseReader(ctx, stdin, opts...)
	}

	return lang.ParseCached(ctx, strings.Join(words, " "), opts...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueFiles resolves paths to absolute, symlink-free names and drops every
// path naming a file already listed. Order is preserved.
func uniqueFiles(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{}, len(paths))

	for _, path := range paths {
		resolved, key, err := identify(path)
		if err != nil {
			return nil, err
		}

		if key != (fileKey{}) {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, resolved)
	}

	return out, nil
}

func identify(path string) (string, fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, err
	}

	key, _ := makeFileKey(info)

	return resolved, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
