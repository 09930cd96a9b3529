package eval_test

import (
	"context"
	"fmt"

	"github.com/ardnew/symscope/eval"
	"github.com/ardnew/symscope/lang"
)

func ExampleEvaluator_Evaluate() {
	e := eval.New(eval.WithScope(lang.Scope{
		"x": 2,
		"y": lang.MustParse("x + x"),
	}))

	v, err := e.Evaluate(context.Background(), "x + y")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(eval.FormatValue(v, eval.DefaultPrecision))
	// Output: 6
}
