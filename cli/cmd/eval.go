package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/symscope/eval"
	"github.com/ardnew/symscope/log"
)

// Eval resolves an expression against the scope and evaluates it.
type Eval struct {
	Precision int `default:"14"            help:"Significant digits of numeric results; 0 for the shortest exact form." short:"p"`

	Expr []string `arg:"" help:"Expression, or '-' to read standard input." name:"expr" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	n, err := parseInput(ctx, e.Expr)
	if err != nil {
		return err
	}

	ev := newEvaluator(ctx)

	result, err := ev.EvaluateNode(ctx, n)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluated",
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	_, err = fmt.Fprintln(stdout, eval.FormatValue(result, e.Precision))

	return err
}

// newEvaluator returns an evaluator seeded with the context scope.
func newEvaluator(ctx context.Context) *eval.Evaluator {
	return eval.New(
		eval.WithScope(scopeFrom(ctx)),
		eval.WithMaxChain(maxChainFrom(ctx)),
		eval.WithLogger(log.Default()),
	)
}
