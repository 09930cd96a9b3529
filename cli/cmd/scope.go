package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
	"github.com/ardnew/symscope/pkg"
)

// ScopeFlags are the global flags composing the scope every command resolves
// against. Files load in order so later files override earlier ones, and
// --set bindings override them all.
type ScopeFlags struct {
	Scope    []string `help:"Scope file(s): .yaml, .yml, .json or .scope."     name:"scope"     placeholder:"FILE"      sep:"none" short:"S"`
	Set      []string `help:"Bind NAME to EXPR after loading scope files."    name:"set"       placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Path     []string `help:"Directories searched for relative scope files." name:"path"      placeholder:"DIR"       type:"path"`
	MaxDepth int      `default:"${maxDepth}"                                 help:"Maximum nesting depth for parsing."               name:"max-depth"`
	MaxChain int      `default:"${maxChain}"                                 help:"Maximum number of nested substitutions."          name:"max-chain"`
}

// Load composes the scope from the flags.
func (f *ScopeFlags) Load(ctx context.Context) (lang.Scope, error) {
	ctx = WithMaxDepth(ctx, f.MaxDepth)
	ctx = WithMaxChain(ctx, f.MaxChain)
	scope := lang.Scope{}

	paths := make([]string, 0, len(f.Scope))
	search := pkg.SearchPath(f.Path...)

	for _, name := range f.Scope {
		path, err := locate(name, search)
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	paths, err := uniqueFiles(paths)
	if err != nil {
		return nil, ErrScopeFile.Wrap(err)
	}

	for _, path := range paths {
		loaded, err := LoadScopeFile(ctx, path)
		if err != nil {
			return nil, err
		}

		scope = scope.Merge(loaded)
	}

	for _, binding := range f.Set {
		name, value, err := parseBinding(ctx, binding)
		if err != nil {
			return nil, err
		}

		scope[name] = value
	}

	log.DebugContext(ctx, "scope loaded",
		slog.Int("files", len(paths)),
		slog.Int("bindings", len(scope)),
		slog.Any("names", scope.Names()),
	)

	return scope, nil
}

// locate finds name as given or, when it is relative and missing, in the
// first directory of search that holds it.
func locate(name string, search []string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, nil
	}

	for _, dir := range search {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrScopeFile.Wrap(fs.ErrNotExist).
		With(slog.String("file", name), slog.Any("path", search))
}

// LoadScopeFile reads the bindings of a single scope file. The format is
// chosen by extension: YAML and JSON files hold a mapping of names to
// values, and ".scope" files hold assignment statements.
func LoadScopeFile(ctx context.Context, path string) (lang.Scope, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return loadMapping(ctx, path)
	case ".scope":
		return loadStatements(ctx, path)
	default:
		return nil, ErrScopeFormat.With(slog.String("file", path))
	}
}

func loadMapping(ctx context.Context, path string) (lang.Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrScopeFile.Wrap(err).With(slog.String("file", path))
	}

	var raw map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
		return nil, ErrScopeFile.Wrap(err).With(slog.String("file", path))
	}

	scope := make(lang.Scope, len(raw))

	for name, v := range raw {
		value, err := scopeValue(ctx, v)
		if err != nil {
			return nil, ErrScopeValue.Wrap(err).With(
				slog.String("file", path),
				slog.String("name", name),
			)
		}

		scope[name] = value
	}

	return scope, nil
}

// scopeValue converts a decoded mapping value to a scope value. Strings are
// parsed as expressions. Numbers, booleans and null are kept as they are,
// and a mapping in the tree encoding is decoded to its tree.
func scopeValue(ctx context.Context, v any) (any, error) {
	switch v := v.(type) {
	case nil, bool:
		return v, nil

	case string:
		return lang.ParseCached(ctx, v, langOptions(ctx)...)
	}

	if lang.Classify(v) == lang.ValueNumber {
		return v, nil
	}

	if m, ok := lang.AsMap(v); ok && lang.IsEncodedNode(m) {
		return lang.FromMap(m)
	}

	return nil, fmt.Errorf("%T", v)
}

func loadStatements(ctx context.Context, path string) (lang.Scope, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrScopeFile.Wrap(err).With(slog.String("file", path))
	}
	defer file.Close()

	root, err := lang.ParseReader(ctx, file, langOptions(ctx)...)
	if err != nil {
		return nil, ErrScopeFile.Wrap(err).With(slog.String("file", path))
	}

	stmts := []lang.Node{root}
	if block, ok := root.(*lang.BlockNode); ok {
		stmts = block.Statements()
	}

	scope := make(lang.Scope, len(stmts))

	for _, stmt := range stmts {
		assign, ok := stmt.(*lang.AssignmentNode)
		if !ok {
			return nil, ErrScopeValue.
				Wrap(errors.New("statement is not an assignment")).
				With(slog.String("file", path), slog.String("statement", lang.Format(stmt)))
		}

		scope[assign.Name()] = assign.Value()
	}

	return scope, nil
}

// parseBinding splits NAME=EXPR and parses both sides.
func parseBinding(ctx context.Context, s string) (string, lang.Node, error) {
	name, text, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || !isIdentifier(ctx, name) {
		return "", nil, ErrSetBinding.With(slog.String("binding", s))
	}

	value, err := lang.ParseCached(ctx, text, langOptions(ctx)...)
	if err != nil {
		return "", nil, ErrSetBinding.Wrap(err).With(slog.String("binding", s))
	}

	return name, value, nil
}

func isIdentifier(ctx context.Context, name string) bool {
	n, err := lang.ParseCached(ctx, name, langOptions(ctx)...)
	if err != nil {
		return false
	}

	sym, ok := n.(*lang.SymbolNode)

	return ok && sym.Name() == name
}
