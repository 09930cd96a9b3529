package cmd

import "context"

// Fmt parses an expression and writes it back without resolving it.
type Fmt struct {
	Output `embed:""`

	Expr []string `arg:"" help:"Expression, or '-' to read standard input." name:"expr" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	n, err := parseInput(ctx, f.Expr)
	if err != nil {
		return err
	}

	return f.write(ctx, stdout, n)
}
