package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
)

// Resolve substitutes the scope into an expression and prints the result.
type Resolve struct {
	Output `embed:""`

	Expr []string `arg:"" help:"Expression, or '-' to read standard input." name:"expr" optional:""`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	n, err := parseInput(ctx, r.Expr)
	if err != nil {
		return err
	}

	resolved, err := resolveTree(ctx, n)
	if err != nil {
		return err
	}

	return r.write(ctx, stdout, resolved)
}

// resolveTree resolves n against the context scope with cycle detection.
func resolveTree(ctx context.Context, n lang.Node) (lang.Node, error) {
	scope := scopeFrom(ctx)

	resolved, err := lang.NewResolver(
		append(langOptions(ctx), lang.WithCycleCheck(true))...,
	).Resolve(ctx, n, scope)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("command", "resolve"))
	}

	log.DebugContext(ctx, "resolved",
		slog.String("input", lang.Format(n)),
		slog.Any("free", lang.Symbols(resolved)),
	)

	return resolved, nil
}
