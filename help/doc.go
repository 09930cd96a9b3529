// Package help renders documentation records for the functions, constants
// and operators of the expression language.
//
// A [Help] pairs a [Doc] with a [Factory] of evaluators. Rendering evaluates
// each example with a fresh evaluator and prints its result below it:
//
//	h, _ := help.New(doc, func() help.Evaluator { return eval.New() })
//	fmt.Print(h)
//
// The embedded catalog holds the documentation of every builtin; see
// [Lookup] and [Names].
package help
