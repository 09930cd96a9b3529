package repl

import "errors"

var (
	// ErrOutOfBounds is returned for a history index past either end.
	ErrOutOfBounds = errors.New("history index out of range")
	// ErrEditDeclined is returned when the user abandons a scope edit.
	ErrEditDeclined = errors.New("scope edit declined")
	// ErrNoEvaluator is returned by [Run] without an evaluator.
	ErrNoEvaluator = errors.New("no evaluator")
)
