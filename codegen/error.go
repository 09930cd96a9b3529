package codegen

import "github.com/ardnew/symscope/lang"

// Predefined errors (sentinel values).
var (
	ErrUnresolvedSymbol = lang.NewError("unresolved symbol")
	ErrUnsupportedNode  = lang.NewError("unsupported node")
	ErrUnknownFunction  = lang.NewError("unknown function")
	ErrArgumentCount    = lang.NewError("wrong number of arguments")
)
