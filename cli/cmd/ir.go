package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/symscope/codegen"
	"github.com/ardnew/symscope/log"
)

// IR prints the LLVM IR of a function computing the resolved expression.
type IR struct {
	Func string `default:"expr"        help:"Name of the emitted function." name:"func"`

	Expr []string `arg:"" help:"Expression, or '-' to read standard input." name:"expr" optional:""`
}

// Run executes the ir command.
func (c *IR) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	n, err := parseInput(ctx, c.Expr)
	if err != nil {
		return err
	}

	resolved, err := resolveTree(ctx, n)
	if err != nil {
		return err
	}

	name := c.Func
	if name == "" {
		name = codegen.DefaultFuncName
	}

	module, err := codegen.Emit(resolved,
		codegen.WithFuncName(name),
		codegen.WithScope(scopeFrom(ctx)),
		codegen.WithMaxChain(maxChainFrom(ctx)),
		codegen.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(stdout, module.String())

	return err
}
