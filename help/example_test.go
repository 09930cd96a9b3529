package help_test

import (
	"fmt"

	"github.com/ardnew/symscope/eval"
	"github.com/ardnew/symscope/help"
)

func ExampleHelp_String() {
	h, err := help.New(&help.Doc{
		Name:     "hypot",
		Syntax:   []string{"hypot(a, b)"},
		Examples: []string{"hypot(3, 4)"},
	}, func() help.Evaluator { return eval.New() })
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Print(h)
	// Output:
	// Name: hypot
	//
	// Syntax:
	//     hypot(a, b)
	//
	// Examples:
	//     hypot(3, 4)
	//         5
}
