// Package eval evaluates expression trees numerically.
//
// An [Evaluator] keeps a persistent [lang.Scope]. Each expression is first
// resolved against that scope with a cycle-checked [lang.Resolver], then
// compiled to an expr-lang program and run. Top-level assignments store
// their result back into the scope, so a sequence of statements behaves
// like a calculator session:
//
//	e := eval.New()
//	e.Evaluate(ctx, "a = 2 + 3") // 5
//	e.Evaluate(ctx, "a * 2")     // 10
//
// Free symbols are mangled before compilation so user names never collide
// with expr-lang builtins or keywords. The constants pi, e, tau, phi,
// Infinity and NaN are patched into the compiled program unless the scope
// binds the same name.
package eval
