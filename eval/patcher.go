package eval

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/symscope/log"
)

// constantPatcher replaces identifiers naming builtin constants with float
// literals.
//
// Identifiers bound in the environment are left alone, so a scope that
// binds "e" to a string or boolean shadows Euler's number.
type constantPatcher struct {
	env    map[string]any
	logger log.Logger
}

// Visit implements ast.Visitor for constantPatcher.
func (p *constantPatcher) Visit(node *ast.Node) {
	ident, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}

	if _, bound := p.env[ident.Value]; bound {
		return
	}

	name, ok := strings.CutPrefix(ident.Value, symbolPrefix)
	if !ok {
		return
	}

	value, ok := constants[name]
	if !ok {
		return
	}

	ast.Patch(node, &ast.FloatNode{Value: value})

	p.logger.Trace("patch constant",
		slog.String("name", name),
		slog.Float64("value", value))
}
