package eval

import "github.com/ardnew/symscope/lang"

// Predefined errors (sentinel values).
var (
	ErrUndefinedSymbol   = lang.NewError("undefined symbol")
	ErrUndefinedFunction = lang.NewError("undefined function")
	ErrUnsupported       = lang.NewError("unsupported expression")
	ErrArgument          = lang.NewError("invalid argument")
	ErrCompile           = lang.NewError("expression compilation failed")
	ErrEvaluate          = lang.NewError("expression evaluation failed")
)
