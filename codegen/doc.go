// Package codegen lowers resolved expression trees to LLVM IR.
//
// [Emit] produces a module with a single function of no arguments that
// computes the tree in double precision:
//
//	m, err := codegen.Emit(lang.MustParse("sqrt(2) * pi"))
//	fmt.Print(m)
//
// Symbols must be assigned earlier in the tree, bound in the scope given by
// [WithScope], or name a builtin constant. Resolve the tree against the same
// scope first so that only symbols inside conditionals are looked up while
// emitting. Booleans are doubles that are 1 or 0, and any nonzero double is
// true.
package codegen
