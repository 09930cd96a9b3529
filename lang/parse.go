package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywords are identifiers with grammatical meaning. They cannot be used
// as symbol, function or assignment names.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"true": true, "false": true, "null": true,
}

// binaryOp describes an infix operator glyph and the function it denotes.
type binaryOp struct {
	glyph string
	fn    string
}

var (
	compareOps = []binaryOp{
		{"==", "equal"},
		{"!=", "unequal"},
		{"<=", "smallerEq"},
		{">=", "largerEq"},
		{"<", "smaller"},
		{">", "larger"},
	}
	additiveOps = []binaryOp{
		{"+", "add"},
		{"-", "subtract"},
	}
	multiplicativeOps = []binaryOp{
		{"*", "multiply"},
		{"/", "divide"},
		{"%", "mod"},
	}
)

// ParseString parses a math expression into a tree.
//
// Multiple statements separated by ';' or newlines produce a [BlockNode].
// Malformed input returns a [*ParseError] that matches [ErrParse].
func ParseString(ctx context.Context, s string, opts ...Option) (Node, error) {
	o := makeOptions(opts...)

	p := &parser{
		input:    []byte(s),
		pos:      0,
		line:     1,
		col:      1,
		maxDepth: o.maxDepth,
	}

	node, err := p.parseBlock()
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed",
			slog.Int("source_bytes", len(s)),
			slog.Any("error", err),
		)

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(s)),
		slog.String("kind", node.Kind().String()),
	)

	return node, nil
}

// MustParse is like [ParseString] but panics on error. It is intended for
// tests and package-level fixtures.
func MustParse(s string) Node {
	n, err := ParseString(context.Background(), s)
	if err != nil {
		panic(err)
	}

	return n
}

// parser holds the parser state.
type parser struct {
	input    []byte
	pos      int
	line     int
	col      int
	depth    int // recursion depth
	group    int // open '(' and '[' count
	maxDepth int
}

// mark is a saved parser position for backtracking.
type mark struct {
	pos, line, col int
}

// parseBlock parses: Statement ((';' | '\n') Statement)*.
func (p *parser) parseBlock() (Node, error) {
	var stmts []Node

	for {
		p.skipSeparators()

		if p.eof() {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)

		p.skipSpace()

		if p.eof() {
			break
		}

		if ch := p.peek(); ch != ';' && ch != '\n' {
			return nil, p.unexpected("operator", ";", "newline")
		}
	}

	switch len(stmts) {
	case 0:
		return nil, p.fail(p.position(), "empty expression", "expression")
	case 1:
		return stmts[0], nil
	default:
		return NewBlock(stmts), nil
	}
}

// parseStatement parses: Identifier '=' Statement | Conditional.
func (p *parser) parseStatement() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.skipSpace()

	if isIdentifierStart(p.peek()) {
		saved := p.save()
		name := p.scanIdentifier()

		p.skipSpace()

		if !keywords[name] && p.peek() == '=' && p.peekN(2) != "==" {
			p.advance()

			value, err := p.parseStatement()
			if err != nil {
				return nil, err
			}

			return NewAssignment(name, value), nil
		}

		p.restore(saved)
	}

	return p.parseConditional()
}

// parseConditional parses: Or ('?' Statement ':' Statement)?.
func (p *parser) parseConditional() (Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect('?') {
		return cond, nil
	}

	trueExpr, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect(':') {
		return nil, p.unexpected(":")
	}

	falseExpr, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return NewConditional(cond, trueExpr, falseExpr), nil
}

// parseOr parses: And ('or' And)*.
func (p *parser) parseOr() (Node, error) {
	return p.parseKeywordChain("or", p.parseAnd)
}

// parseAnd parses: Compare ('and' Compare)*.
func (p *parser) parseAnd() (Node, error) {
	return p.parseKeywordChain("and", p.parseCompare)
}

func (p *parser) parseKeywordChain(
	kw string,
	operand func() (Node, error),
) (Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		if !p.keyword(kw) {
			return left, nil
		}

		p.consume(len(kw))

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = NewOperator(kw, kw, []Node{left, right}, false)
	}
}

// parseCompare parses: Additive (CompareOp Additive)*.
func (p *parser) parseCompare() (Node, error) {
	return p.parseBinary(compareOps, p.parseAdditive)
}

// parseAdditive parses: Multiplicative (('+'|'-') Multiplicative)*.
func (p *parser) parseAdditive() (Node, error) {
	return p.parseBinary(additiveOps, p.parseMultiplicative)
}

// parseMultiplicative parses: Implicit (('*'|'/'|'%') Implicit)*.
func (p *parser) parseMultiplicative() (Node, error) {
	return p.parseBinary(multiplicativeOps, p.parseImplicit)
}

// parseBinary parses a left-associative chain of the given operators.
func (p *parser) parseBinary(
	ops []binaryOp,
	operand func() (Node, error),
) (Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		op, ok := p.matchOp(ops)
		if !ok {
			return left, nil
		}

		p.consume(len(op.glyph))

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = NewOperator(op.glyph, op.fn, []Node{left, right}, false)
	}
}

// parseImplicit parses: Unary Power*, where each Power must start with an
// identifier or '('.
func (p *parser) parseImplicit() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		ch := p.peek()
		if ch != '(' && (!isIdentifierStart(ch) || p.atOperatorKeyword()) {
			return left, nil
		}

		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}

		left = NewOperator("*", "multiply", []Node{left, right}, true)
	}
}

// parseUnary parses: ('-'|'+'|'not') Unary | Power.
func (p *parser) parseUnary() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.skipSpace()

	var op, fn string

	switch {
	case p.peek() == '-':
		op, fn = "-", "unaryMinus"
	case p.peek() == '+':
		op, fn = "+", "unaryPlus"
	case p.keyword("not"):
		op, fn = "not", "not"
	default:
		return p.parsePower()
	}

	p.consume(len(op))

	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return NewOperator(op, fn, []Node{arg}, false), nil
}

// parsePower parses: Postfix ('^' Unary)?.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect('^') {
		return base, nil
	}

	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return NewOperator("^", "pow", []Node{base, exp}, false), nil
}

// parsePostfix parses: Primary '!'*.
func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		if p.peek() != '!' || p.peekN(2) == "!=" {
			return n, nil
		}

		p.advance()

		n = NewOperator("!", "factorial", []Node{n}, false)
	}
}

// parsePrimary parses literals, symbols, calls, parentheses and arrays.
func (p *parser) parsePrimary() (Node, error) {
	p.skipSpace()

	ch := p.peek()

	switch {
	case p.eof():
		return nil, p.unexpected("expression")

	case isDigit(ch) || (ch == '.' && isDigit(p.peekAt(1))):
		return p.parseNumber()

	case ch == '"' || ch == '\'':
		return p.parseString(ch)

	case ch == '(':
		p.advance()
		p.group++

		content, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if !p.expect(')') {
			return nil, p.unexpected(")")
		}

		p.group--

		return NewParenthesis(content), nil

	case ch == '[':
		p.advance()

		items, err := p.parseArgs(']')
		if err != nil {
			return nil, err
		}

		return NewArray(items), nil

	case isIdentifierStart(ch):
		pos := p.position()
		name := p.scanIdentifier()

		switch name {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		case "null":
			return NewNull(), nil
		case "and", "or", "not":
			return nil, p.fail(pos, "unexpected keyword "+strconv.Quote(name),
				"expression")
		}

		// A call requires '(' immediately after the name; "f (x)" is an
		// implicit multiplication.
		if p.peek() == '(' {
			p.advance()

			args, err := p.parseArgs(')')
			if err != nil {
				return nil, err
			}

			return NewFunction(name, args), nil
		}

		return NewSymbol(name), nil
	}

	return nil, p.unexpected("expression")
}

// parseArgs parses a comma-separated statement list after its opening
// delimiter, through the closing delimiter.
func (p *parser) parseArgs(closing rune) ([]Node, error) {
	p.group++
	defer func() { p.group-- }()

	p.skipSpace()

	if p.expect(closing) {
		return nil, nil
	}

	var args []Node

	for {
		arg, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipSpace()

		switch {
		case p.expect(','):
			continue
		case p.expect(closing):
			return args, nil
		default:
			return nil, p.unexpected(",", string(closing))
		}
	}
}

// parseNumber parses: Digits ('.' Digits)? Exponent? | '.' Digits Exponent?.
func (p *parser) parseNumber() (Node, error) {
	start := p.position()

	p.skipDigits()

	if p.peek() == '.' {
		p.advance()
		p.skipDigits()

		if p.peek() == '.' {
			return nil, p.fail(p.position(), "invalid number", "digit")
		}
	}

	// An 'e' that is not followed by a digit or sign begins a symbol, so
	// "2e" reads as 2 times e.
	if ch := p.peek(); ch == 'e' || ch == 'E' {
		next := p.peekAt(1)
		if isDigit(next) || next == '+' || next == '-' {
			p.advance()

			if next == '+' || next == '-' {
				p.advance()
			}

			if !isDigit(p.peek()) {
				return nil, p.fail(p.position(), "invalid number exponent",
					"digit")
			}

			p.skipDigits()
		}
	}

	text := string(p.input[start.Offset:p.pos])

	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, p.fail(start, "invalid number "+strconv.Quote(text))
	}

	return NewNumber(value), nil
}

// parseString parses a single- or double-quoted string literal.
func (p *parser) parseString(quote rune) (Node, error) {
	start := p.position()

	p.advance() // opening quote

	var sb strings.Builder

	for !p.eof() {
		ch := p.peek()

		switch ch {
		case quote:
			p.advance()

			return NewString(sb.String()), nil

		case '\\':
			p.advance()

			r, err := p.scanEscape()
			if err != nil {
				return nil, err
			}

			sb.WriteRune(r)

		default:
			sb.WriteRune(ch)
			p.advance()
		}
	}

	return nil, p.fail(start, "unterminated string", string(quote))
}

func (p *parser) scanEscape() (rune, error) {
	pos := p.position()
	ch := p.peek()

	p.advance()

	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '\\', '"', '\'', '/':
		return ch, nil
	case 'u':
		hex := p.peekN(4)
		if len(hex) == 4 {
			if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
				p.consume(4)

				return rune(v), nil
			}
		}
	}

	return 0, p.fail(pos, "invalid escape sequence")
}

func (p *parser) scanIdentifier() string {
	start := p.pos

	p.advance()

	for !p.eof() && isIdentifierContinue(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

// keyword reports whether the input at the cursor is kw as a whole word.
func (p *parser) keyword(kw string) bool {
	if p.peekN(len(kw)) != kw {
		return false
	}

	r, _ := utf8.DecodeRune(p.input[p.pos+len(kw):])

	return !isIdentifierContinue(r)
}

// atOperatorKeyword reports whether the cursor is at a keyword that cannot
// start an implicit multiplication operand.
func (p *parser) atOperatorKeyword() bool {
	return p.keyword("and") || p.keyword("or") || p.keyword("not")
}

func (p *parser) matchOp(ops []binaryOp) (binaryOp, bool) {
	for _, op := range ops {
		if p.peekN(len(op.glyph)) == op.glyph {
			return op, true
		}
	}

	return binaryOp{}, false
}

func (p *parser) enter() error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrMaxDepthExceeded.Wrap(p.fail(p.position(), "nesting too deep")).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

// peekAt returns the byte-sized rune n bytes past the cursor.
func (p *parser) peekAt(n int) rune {
	if p.pos+n >= len(p.input) {
		return 0
	}

	return rune(p.input[p.pos+n])
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) consume(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) save() mark { return mark{p.pos, p.line, p.col} }

func (p *parser) restore(m mark) { p.pos, p.line, p.col = m.pos, m.line, m.col }

// skipSpace skips blanks and comments. Newlines are skipped only inside
// parentheses or brackets, where they cannot separate statements.
func (p *parser) skipSpace() {
	for !p.eof() {
		switch ch := p.peek(); {
		case ch == '#':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case ch == '\n' && p.group == 0:
			return
		case unicode.IsSpace(ch):
			p.advance()
		default:
			return
		}
	}
}

// skipSeparators skips blanks, comments, newlines and ';'.
func (p *parser) skipSeparators() {
	for {
		p.skipSpace()

		if ch := p.peek(); p.eof() || (ch != ';' && ch != '\n') {
			return
		}

		p.advance()
	}
}

func (p *parser) skipDigits() {
	for isDigit(p.peek()) {
		p.advance()
	}
}

func (p *parser) fail(pos Position, msg string, expected ...string) *ParseError {
	return &ParseError{
		Source:   string(p.input),
		Msg:      msg,
		Expected: expected,
		Pos:      pos,
	}
}

func (p *parser) unexpected(expected ...string) *ParseError {
	if p.eof() {
		return p.fail(p.position(), "unexpected end of input", expected...)
	}

	return p.fail(p.position(),
		"unexpected "+strconv.QuoteRune(p.peek()), expected...)
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_' || r == '$'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.In(r,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
