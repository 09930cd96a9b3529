package lang_test

import (
	"context"
	"fmt"

	"github.com/ardnew/symscope/lang"
)

func ExampleResolve() {
	ctx := context.Background()

	expr, _ := lang.ParseString(ctx, "x + y")
	y, _ := lang.ParseString(ctx, "x + x")

	out, err := lang.Resolve(expr, lang.Scope{"x": 2, "y": y})
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output: 2 + (2 + 2)
}

func ExampleResolver() {
	ctx := context.Background()
	r := lang.NewResolver(lang.WithCycleCheck(true))

	_, err := r.Resolve(ctx, lang.MustParse("x"), lang.Scope{
		"x": lang.MustParse("y + 1"),
		"y": lang.MustParse("x"),
	})
	fmt.Println(err)
	// Output: cyclic scope binding
}

func ExampleFormat() {
	sum := lang.MustParse("a + b")

	out, _ := lang.Resolve(lang.MustParse("2 x"), lang.Scope{"x": sum})
	fmt.Println(lang.Format(out))
	// Output: 2 (a + b)
}

func ExampleTree() {
	fmt.Print(lang.Tree(lang.MustParse("-x^2")))
	// Output:
	// OperatorNode - (unaryMinus)
	//   OperatorNode ^ (pow)
	//     SymbolNode x
	//     ConstantNode 2
}
