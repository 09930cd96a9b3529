// Package lang models math expressions as immutable trees and substitutes
// scope bindings into them.
//
// # Trees
//
// A [Node] is one of a closed set of variants: [SymbolNode],
// [OperatorNode], [FunctionNode], [ParenthesisNode], [ConstantNode],
// [ArrayNode], [ConditionalNode], [AssignmentNode] and [BlockNode]. The set
// is sealed. Code that needs to handle every variant implements [Visitor]
// and dispatches through [Visit], so a new variant is a compile error in
// every visitor rather than a silent fallthrough.
//
// # Grammar
//
// [ParseString] reads the following grammar with a hand-written recursive
// descent parser:
//
//	Block          → Statement ((';' | '\n') Statement)*
//	Statement      → Identifier '=' Statement | Conditional
//	Conditional    → Or ('?' Statement ':' Statement)?
//	Or             → And ('or' And)*
//	And            → Compare ('and' Compare)*
//	Compare        → Additive (('=='|'!='|'<'|'>'|'<='|'>=') Additive)*
//	Additive       → Multiplicative (('+'|'-') Multiplicative)*
//	Multiplicative → Implicit (('*'|'/'|'%') Implicit)*
//	Implicit       → Unary Power*
//	Unary          → ('-'|'+'|'not') Unary | Power
//	Power          → Postfix ('^' Unary)?
//	Postfix        → Primary '!'*
//	Primary        → Number | String | 'true' | 'false' | 'null'
//	               | Identifier ('(' Args ')')?
//	               | '(' Statement ')' | '[' Args ']'
//
// Newlines separate statements only outside of parentheses and brackets.
// A '#' starts a comment that runs to the end of the line.
//
// # Resolution
//
// [Resolve] replaces every symbol bound in a [Scope] by its value. A bound
// tree is itself resolved against the same scope, so chains of bindings are
// followed until nothing more applies:
//
//	node, _ := lang.ParseString(ctx, "x + y")
//	y, _ := lang.ParseString(ctx, "x + x")
//	out, _ := lang.Resolve(node, lang.Scope{"x": 2, "y": y})
//	fmt.Println(out) // 2 + (2 + 2)
//
// [Resolve] assumes the scope is acyclic. A [Resolver] created with
// [WithCycleCheck] reports [ErrCyclicScope] instead of recursing forever.
package lang
