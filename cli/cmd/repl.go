package cmd

import (
	"context"

	"github.com/ardnew/symscope/cli/cmd/repl"
	"github.com/ardnew/symscope/log"
)

// Repl starts an interactive session over the scope.
type Repl struct {
	NoHistory bool `help:"Do not read or write the session history file." name:"no-history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string
	if !r.NoHistory {
		cacheDir = kongVar(ctx, CacheIdentifier)
	}

	return repl.Run(ctx, newEvaluator(ctx), cacheDir, log.Default())
}

// kongVar returns the value of a kong variable, or "" outside of a parsed
// command line.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}
