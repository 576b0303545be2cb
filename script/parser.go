package script

import (
	"math"
	"strconv"
	"strings"
)

// bailout carries a syntax error out of the recursive descent.
type bailout struct {
	err *SyntaxError
}

type parser struct {
	toks []Token
	i    int

	// funcs tracks whether each enclosing function body contains a yield.
	funcs []*FunctionDef
	loops int
}

// ParseModule parses a complete host-language source.
func ParseModule(src string) (mod *Module, err error) {
	toks, err := ScanAll(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err
		}
	}()

	mod = &Module{}
	for p.peek().Kind != TokenEOF {
		if p.peek().Kind == TokenNewline {
			p.advance()
			continue
		}
		mod.Body = append(mod.Body, p.statement()...)
	}
	return mod, nil
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (Expr, error) {
	mod, err := ParseModule(src)
	if err != nil {
		return nil, err
	}
	if len(mod.Body) != 1 {
		return nil, newSyntaxError(1, 0, "expected a single expression")
	}
	stmt, ok := mod.Body[0].(*ExprStmt)
	if !ok {
		return nil, newSyntaxError(1, 0, "expected an expression")
	}
	return stmt.X, nil
}

func (p *parser) peek() Token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) Token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() Token {
	tok := p.toks[p.i]
	if tok.Kind != TokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) isOp(op string) bool {
	return p.peek().IsOp(op)
}

func (p *parser) isKeyword(kw string) bool {
	return p.peek().IsKeyword(kw)
}

func (p *parser) acceptOp(op string) bool {
	if p.isOp(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) Token {
	if !p.isOp(op) {
		p.fail(p.peek(), "expected '%s'", op)
	}
	return p.advance()
}

func (p *parser) expectKeyword(kw string) Token {
	if !p.isKeyword(kw) {
		p.fail(p.peek(), "expected '%s'", kw)
	}
	return p.advance()
}

func (p *parser) expectName() Token {
	tok := p.peek()
	if tok.Kind != TokenName || IsKeyword(tok.Text) {
		p.fail(tok, "invalid syntax")
	}
	return p.advance()
}

func (p *parser) fail(tok Token, format string, args ...any) {
	panic(bailout{newSyntaxError(tok.Line, tok.Col, format, args...)})
}

func posOf(tok Token) Pos {
	return Pos{Line: tok.Line, Col: tok.Col}
}

// statement parses one compound statement or one line of simple statements.
func (p *parser) statement() []Stmt {
	tok := p.peek()
	if tok.Kind == TokenIndent {
		p.fail(tok, "unexpected indent")
	}
	if tok.Kind == TokenName {
		switch tok.Text {
		case "if":
			return []Stmt{p.ifStatement()}
		case "while":
			return []Stmt{p.whileStatement()}
		case "for":
			return []Stmt{p.forStatement()}
		case "def":
			return []Stmt{p.funcDef()}
		case "class", "try", "with", "async", "except", "finally":
			p.fail(tok, "'%s' statements are not supported", tok.Text)
		case "elif", "else":
			p.fail(tok, "invalid syntax")
		}
	}
	return p.simpleStatements()
}

func (p *parser) simpleStatements() []Stmt {
	var stmts []Stmt
	for {
		stmts = append(stmts, p.smallStatement())
		if !p.acceptOp(";") {
			break
		}
		if k := p.peek().Kind; k == TokenNewline || k == TokenEOF {
			break
		}
	}

	tok := p.peek()
	switch tok.Kind {
	case TokenNewline:
		p.advance()
	case TokenEOF:
	default:
		p.fail(tok, "invalid syntax")
	}
	return stmts
}

// block parses the suite after a colon: either an indented block or simple statements on the same line.
func (p *parser) block() []Stmt {
	p.expectOp(":")
	if p.peek().Kind != TokenNewline {
		return p.simpleStatements()
	}
	p.advance()

	tok := p.peek()
	if tok.Kind != TokenIndent {
		p.fail(tok, "expected an indented block")
	}
	p.advance()

	var body []Stmt
	for {
		switch p.peek().Kind {
		case TokenDedent:
			p.advance()
			return body
		case TokenEOF:
			return body
		case TokenNewline:
			p.advance()
			continue
		}
		body = append(body, p.statement()...)
	}
}

func (p *parser) ifStatement() Stmt {
	tok := p.advance()
	stmt := &If{Pos: posOf(tok), Test: p.namedExpr()}
	stmt.Body = p.block()

	switch {
	case p.isKeyword("elif"):
		stmt.OrElse = []Stmt{p.ifStatement()}
	case p.acceptKeyword("else"):
		stmt.OrElse = p.block()
	}
	return stmt
}

func (p *parser) whileStatement() Stmt {
	tok := p.advance()
	stmt := &While{Pos: posOf(tok), Test: p.namedExpr()}
	p.loops++
	stmt.Body = p.block()
	p.loops--
	if p.acceptKeyword("else") {
		stmt.OrElse = p.block()
	}
	return stmt
}

func (p *parser) forStatement() Stmt {
	tok := p.advance()
	stmt := &For{Pos: posOf(tok)}
	stmt.Target = p.targetList()
	p.expectKeyword("in")
	stmt.Iter = p.testList()
	p.loops++
	stmt.Body = p.block()
	p.loops--
	if p.acceptKeyword("else") {
		stmt.OrElse = p.block()
	}
	return stmt
}

func (p *parser) funcDef() Stmt {
	tok := p.advance()
	name := p.expectName()
	p.expectOp("(")
	args := p.parameters(")")
	p.expectOp(")")
	if p.acceptOp("->") {
		p.test()
	}

	fn := &FunctionDef{Pos: posOf(tok), Name: name.Text, Args: args}
	p.funcs = append(p.funcs, fn)
	loops := p.loops
	p.loops = 0
	fn.Body = p.block()
	p.loops = loops
	p.funcs = p.funcs[:len(p.funcs)-1]
	return fn
}

// parameters parses a parameter list up to (not including) the closing token.
func (p *parser) parameters(closing string) *Arguments {
	args := &Arguments{}
	seen := map[string]bool{}
	kwOnly := false
	seenDefault := false

	add := func(tok Token) string {
		if seen[tok.Text] {
			p.fail(tok, "duplicate argument '%s' in function definition", tok.Text)
		}
		seen[tok.Text] = true
		return tok.Text
	}

	for !p.isOp(closing) {
		switch {
		case p.acceptOp("**"):
			args.Kwarg = add(p.expectName())
			p.acceptOp(",")
			if !p.isOp(closing) {
				p.fail(p.peek(), "arguments cannot follow var-keyword argument")
			}
			return args
		case p.isOp("*"):
			star := p.advance()
			if kwOnly {
				p.fail(star, "* argument may appear only once")
			}
			kwOnly = true
			if p.peek().Kind == TokenName {
				args.Vararg = add(p.expectName())
			}
		default:
			name := add(p.expectName())
			if closing != ":" && p.acceptOp(":") {
				p.test()
			}
			param := Param{Name: name}
			if p.acceptOp("=") {
				param.Default = p.test()
				if !kwOnly {
					seenDefault = true
				}
			} else if seenDefault && !kwOnly {
				p.fail(p.peek(), "non-default argument follows default argument")
			}
			if kwOnly {
				args.KwOnly = append(args.KwOnly, param)
			} else {
				args.Params = append(args.Params, param)
			}
		}
		if !p.acceptOp(",") {
			break
		}
	}
	return args
}

func (p *parser) smallStatement() Stmt {
	tok := p.peek()
	pos := posOf(tok)

	if tok.Kind == TokenName {
		switch tok.Text {
		case "pass":
			p.advance()
			return &Pass{Pos: pos}
		case "break":
			p.advance()
			if p.loops == 0 {
				p.fail(tok, "'break' outside loop")
			}
			return &Break{Pos: pos}
		case "continue":
			p.advance()
			if p.loops == 0 {
				p.fail(tok, "'continue' not properly in loop")
			}
			return &Continue{Pos: pos}
		case "return":
			p.advance()
			stmt := &Return{Pos: pos}
			if !p.atStatementEnd() {
				stmt.Value = p.testListStar()
			}
			return stmt
		case "raise":
			p.advance()
			stmt := &Raise{Pos: pos}
			if !p.atStatementEnd() {
				stmt.Exc = p.test()
				if p.acceptKeyword("from") {
					p.test()
				}
			}
			return stmt
		case "global", "nonlocal":
			p.advance()
			var names []string
			for {
				names = append(names, p.expectName().Text)
				if !p.acceptOp(",") {
					break
				}
			}
			if tok.Text == "global" {
				return &Global{Pos: pos, Names: names}
			}
			return &Nonlocal{Pos: pos, Names: names}
		case "del":
			p.advance()
			stmt := &Delete{Pos: pos}
			for {
				target := p.expr()
				p.checkTarget(target, "delete")
				stmt.Targets = append(stmt.Targets, target)
				if !p.acceptOp(",") || p.atStatementEnd() {
					break
				}
			}
			return stmt
		case "assert":
			p.advance()
			stmt := &Assert{Pos: pos, Test: p.test()}
			if p.acceptOp(",") {
				stmt.Msg = p.test()
			}
			return stmt
		case "import", "from":
			p.advance()
			var parts []string
			for !p.atStatementEnd() {
				parts = append(parts, p.advance().Text)
			}
			if len(parts) == 0 {
				p.fail(p.peek(), "invalid syntax")
			}
			return &Import{Pos: pos, Module: strings.Join(parts, " ")}
		}
	}

	return p.expressionStatement()
}

func (p *parser) atStatementEnd() bool {
	tok := p.peek()
	return tok.Kind == TokenNewline || tok.Kind == TokenEOF || tok.IsOp(";")
}

var augOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "//=": "//", "%=": "%",
	"**=": "**", "&=": "&", "|=": "|", "^=": "^", "<<=": "<<", ">>=": ">>", "@=": "@",
}

func (p *parser) expressionStatement() Stmt {
	start := p.peek()
	pos := posOf(start)

	var first Expr
	if p.isKeyword("yield") {
		first = p.yieldExpr()
	} else {
		first = p.testListStar()
	}

	tok := p.peek()
	if tok.Kind == TokenOp {
		if op, ok := augOps[tok.Text]; ok {
			p.advance()
			switch first.(type) {
			case *Name, *Attribute, *Subscript:
			default:
				p.fail(start, "illegal expression for augmented assignment")
			}
			var value Expr
			if p.isKeyword("yield") {
				value = p.yieldExpr()
			} else {
				value = p.testList()
			}
			return &AugAssign{Pos: pos, Target: first, Op: op, Value: value}
		}

		if tok.Text == ":" {
			// annotated assignment: the annotation is checked and dropped
			p.advance()
			p.test()
			if !p.acceptOp("=") {
				p.checkTarget(first, "assign")
				return &Pass{Pos: pos}
			}
			p.checkTarget(first, "assign")
			return &Assign{Pos: pos, Targets: []Expr{first}, Value: p.assignValue()}
		}
	}

	if !p.isOp("=") {
		if _, ok := first.(*Starred); ok {
			p.fail(start, "can't use starred expression here")
		}
		return &ExprStmt{Pos: pos, X: first}
	}

	targets := []Expr{first}
	var value Expr
	for p.acceptOp("=") {
		value = p.assignValue()
		if p.isOp("=") {
			targets = append(targets, value)
		}
	}
	for _, target := range targets {
		p.checkTarget(target, "assign")
	}
	return &Assign{Pos: pos, Targets: targets, Value: value}
}

func (p *parser) assignValue() Expr {
	if p.isKeyword("yield") {
		return p.yieldExpr()
	}
	return p.testListStar()
}

// checkTarget verifies that e can be assigned to (or deleted).
func (p *parser) checkTarget(e Expr, verb string) {
	switch t := e.(type) {
	case *Name:
		if t.ID == "None" || t.ID == "True" || t.ID == "False" {
			p.failAt(t.Pos, "cannot %s to %s", verb, t.ID)
		}
	case *Attribute, *Subscript:
	case *Starred:
		if verb == "delete" {
			p.failAt(t.Pos, "cannot delete starred")
		}
		p.checkTarget(t.Value, verb)
	case *TupleExpr:
		p.checkTargets(t.Elts, verb)
	case *ListExpr:
		p.checkTargets(t.Elts, verb)
	default:
		p.failAt(e.pos(), "cannot %s to expression", verb)
	}
}

func (p *parser) checkTargets(elts []Expr, verb string) {
	starred := 0
	for _, elt := range elts {
		if _, ok := elt.(*Starred); ok {
			starred++
		}
		p.checkTarget(elt, verb)
	}
	if starred > 1 {
		p.failAt(elts[0].pos(), "multiple starred expressions in assignment")
	}
}

func (p *parser) failAt(pos Pos, format string, args ...any) {
	panic(bailout{newSyntaxError(pos.Line, pos.Col, format, args...)})
}

func (p *parser) yieldExpr() Expr {
	tok := p.expectKeyword("yield")
	pos := posOf(tok)
	if len(p.funcs) == 0 {
		p.fail(tok, "'yield' outside function")
	}
	p.funcs[len(p.funcs)-1].IsGenerator = true

	if p.acceptKeyword("from") {
		return &YieldFrom{Pos: pos, Value: p.test()}
	}
	if p.atStatementEnd() || p.isOp(")") || p.isOp("=") {
		return &Yield{Pos: pos}
	}
	return &Yield{Pos: pos, Value: p.testListStar()}
}

// targetList parses the target of a for statement or comprehension.
func (p *parser) targetList() Expr {
	start := p.peek()
	first := p.starOr(p.expr)
	if !p.isOp(",") {
		p.checkTarget(first, "assign")
		return first
	}
	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.isKeyword("in") || p.isOp("=") {
			break
		}
		elts = append(elts, p.starOr(p.expr))
	}
	target := &TupleExpr{Pos: posOf(start), Elts: elts}
	p.checkTarget(target, "assign")
	return target
}

func (p *parser) starOr(parse func() Expr) Expr {
	if p.isOp("*") {
		tok := p.advance()
		return &Starred{Pos: posOf(tok), Value: p.expr()}
	}
	return parse()
}

// testListStar parses "a, *b, c" and builds a tuple when a comma is present.
func (p *parser) testListStar() Expr {
	return p.sequence(func() Expr { return p.starOr(p.test) })
}

// testList parses "a, b" without starred items.
func (p *parser) testList() Expr {
	return p.sequence(p.test)
}

func (p *parser) sequence(item func() Expr) Expr {
	start := p.peek()
	first := item()
	if !p.isOp(",") {
		return first
	}
	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.atSequenceEnd() {
			break
		}
		elts = append(elts, item())
	}
	return &TupleExpr{Pos: posOf(start), Elts: elts}
}

func (p *parser) atSequenceEnd() bool {
	tok := p.peek()
	if tok.Kind == TokenNewline || tok.Kind == TokenEOF {
		return true
	}
	if tok.Kind == TokenOp {
		switch tok.Text {
		case ")", "]", "}", "=", ";", ":":
			return true
		}
		_, aug := augOps[tok.Text]
		return aug
	}
	return false
}

func (p *parser) namedExpr() Expr {
	if p.peek().Kind == TokenName && p.peekAt(1).IsOp(":=") {
		p.fail(p.peekAt(1), "assignment expressions are not supported")
	}
	return p.test()
}

func (p *parser) test() Expr {
	if p.isKeyword("lambda") {
		return p.lambda()
	}
	start := p.peek()
	body := p.orTest()
	if p.acceptKeyword("if") {
		test := p.orTest()
		p.expectKeyword("else")
		return &IfExp{Pos: posOf(start), Test: test, Body: body, OrElse: p.test()}
	}
	return body
}

func (p *parser) lambda() Expr {
	tok := p.advance()
	args := p.parameters(":")
	p.expectOp(":")
	return &Lambda{Pos: posOf(tok), Args: args, Body: p.test()}
}

func (p *parser) orTest() Expr {
	return p.boolOp("or", p.andTest)
}

func (p *parser) andTest() Expr {
	return p.boolOp("and", p.notTest)
}

func (p *parser) boolOp(op string, operand func() Expr) Expr {
	start := p.peek()
	first := operand()
	if !p.isKeyword(op) {
		return first
	}
	values := []Expr{first}
	for p.acceptKeyword(op) {
		values = append(values, operand())
	}
	return &BoolOp{Pos: posOf(start), Op: op, Values: values}
}

func (p *parser) notTest() Expr {
	if p.isKeyword("not") {
		tok := p.advance()
		return &UnaryOp{Pos: posOf(tok), Op: "not", Operand: p.notTest()}
	}
	return p.comparison()
}

func (p *parser) comparisonOp() (string, bool) {
	tok := p.peek()
	if tok.Kind == TokenOp {
		switch tok.Text {
		case "<", ">", "==", ">=", "<=", "!=":
			p.advance()
			return tok.Text, true
		}
		return "", false
	}
	switch {
	case tok.IsKeyword("in"):
		p.advance()
		return "in", true
	case tok.IsKeyword("not") && p.peekAt(1).IsKeyword("in"):
		p.advance()
		p.advance()
		return "not in", true
	case tok.IsKeyword("is"):
		p.advance()
		if p.acceptKeyword("not") {
			return "is not", true
		}
		return "is", true
	}
	return "", false
}

func (p *parser) comparison() Expr {
	start := p.peek()
	left := p.expr()
	var ops []string
	var comparators []Expr
	for {
		op, ok := p.comparisonOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.expr())
	}
	if len(ops) == 0 {
		return left
	}
	return &Compare{Pos: posOf(start), Left: left, Ops: ops, Comparators: comparators}
}

// binaryLevels lists binary operators from the loosest binding to the tightest.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

func (p *parser) expr() Expr {
	return p.binary(0)
}

func (p *parser) binary(level int) Expr {
	if level == len(binaryLevels) {
		return p.factor()
	}
	left := p.binary(level + 1)
	for {
		tok := p.peek()
		if tok.Kind != TokenOp || !contains(binaryLevels[level], tok.Text) {
			return left
		}
		p.advance()
		right := p.binary(level + 1)
		left = &BinOp{Pos: left.pos(), Op: tok.Text, Left: left, Right: right}
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func (p *parser) factor() Expr {
	tok := p.peek()
	if tok.IsOp("-") || tok.IsOp("+") || tok.IsOp("~") {
		p.advance()
		operand := p.factor()
		if c, ok := operand.(*Constant); ok && tok.Text == "-" {
			switch v := c.Value.(type) {
			case int64:
				return &Constant{Pos: posOf(tok), Value: -v}
			case float64:
				return &Constant{Pos: posOf(tok), Value: -v}
			}
		}
		return &UnaryOp{Pos: posOf(tok), Op: tok.Text, Operand: operand}
	}
	return p.power()
}

func (p *parser) power() Expr {
	base := p.atomExpr()
	if p.isOp("**") {
		p.advance()
		return &BinOp{Pos: base.pos(), Op: "**", Left: base, Right: p.factor()}
	}
	return base
}

func (p *parser) atomExpr() Expr {
	if p.isKeyword("await") {
		p.fail(p.peek(), "'await' is not supported")
	}
	e := p.atom()
	for {
		tok := p.peek()
		switch {
		case tok.IsOp("("):
			p.advance()
			e = p.call(e)
		case tok.IsOp("["):
			p.advance()
			e = &Subscript{Pos: e.pos(), Value: e, Index: p.subscriptList()}
			p.expectOp("]")
		case tok.IsOp("."):
			p.advance()
			name := p.expectName()
			e = &Attribute{Pos: e.pos(), Value: e, Attr: name.Text}
		default:
			return e
		}
	}
}

func (p *parser) call(fn Expr) Expr {
	call := &CallExpr{Pos: fn.pos(), Func: fn}
	seenKeyword := false
	for !p.isOp(")") {
		tok := p.peek()
		switch {
		case p.acceptOp("**"):
			call.Keywords = append(call.Keywords, &KeywordArg{Value: p.test()})
			seenKeyword = true
		case p.acceptOp("*"):
			call.Args = append(call.Args, &Starred{Pos: posOf(tok), Value: p.test()})
		case tok.Kind == TokenName && p.peekAt(1).IsOp("="):
			name := p.expectName()
			p.advance()
			call.Keywords = append(call.Keywords, &KeywordArg{Name: name.Text, Value: p.test()})
			seenKeyword = true
		default:
			arg := p.test()
			if p.isKeyword("for") {
				arg = &GeneratorExp{Pos: arg.pos(), Elt: arg, Gens: p.comprehensions()}
			}
			if seenKeyword {
				p.failAt(arg.pos(), "positional argument follows keyword argument")
			}
			call.Args = append(call.Args, arg)
		}
		if !p.acceptOp(",") {
			break
		}
	}
	p.expectOp(")")
	return call
}

func (p *parser) subscriptList() Expr {
	start := p.peek()
	first := p.subscript()
	if !p.isOp(",") {
		return first
	}
	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.isOp("]") {
			break
		}
		elts = append(elts, p.subscript())
	}
	return &TupleExpr{Pos: posOf(start), Elts: elts}
}

func (p *parser) subscript() Expr {
	start := p.peek()
	var lower Expr
	if !p.isOp(":") {
		lower = p.test()
		if !p.isOp(":") {
			return lower
		}
	}
	p.expectOp(":")
	slice := &Slice{Pos: posOf(start), Lower: lower}
	if !p.isOp(":") && !p.isOp("]") && !p.isOp(",") {
		slice.Upper = p.test()
	}
	if p.acceptOp(":") {
		if !p.isOp("]") && !p.isOp(",") {
			slice.Step = p.test()
		}
	}
	return slice
}

func (p *parser) comprehensions() []*Comprehension {
	var gens []*Comprehension
	for p.acceptKeyword("for") {
		gen := &Comprehension{Target: p.targetList()}
		p.expectKeyword("in")
		gen.Iter = p.orTest()
		for p.isKeyword("if") {
			p.advance()
			gen.Ifs = append(gen.Ifs, p.orTestNoCond())
		}
		gens = append(gens, gen)
	}
	return gens
}

func (p *parser) orTestNoCond() Expr {
	if p.isKeyword("lambda") {
		return p.lambda()
	}
	return p.orTest()
}

func (p *parser) atom() Expr {
	tok := p.peek()
	pos := posOf(tok)

	switch tok.Kind {
	case TokenName:
		switch tok.Text {
		case "None":
			p.advance()
			return &Constant{Pos: pos, Value: nil}
		case "True":
			p.advance()
			return &Constant{Pos: pos, Value: true}
		case "False":
			p.advance()
			return &Constant{Pos: pos, Value: false}
		}
		if IsKeyword(tok.Text) {
			p.fail(tok, "invalid syntax")
		}
		p.advance()
		return &Name{Pos: pos, ID: tok.Text}

	case TokenNumber:
		p.advance()
		value, err := parseNumber(tok.Text)
		if err != "" {
			p.fail(tok, "%s", err)
		}
		return &Constant{Pos: pos, Value: value}

	case TokenString:
		return p.strings()

	case TokenOp:
		switch tok.Text {
		case "(":
			p.advance()
			return p.parenthesized(pos)
		case "[":
			p.advance()
			return p.listDisplay(pos)
		case "{":
			p.advance()
			return p.dictOrSet(pos)
		case "...":
			p.advance()
			return &Constant{Pos: pos, Value: Ellipsis}
		}
	}

	if tok.Kind == TokenNewline || tok.Kind == TokenEOF {
		p.fail(tok, "unexpected EOF while parsing")
	}
	p.fail(tok, "invalid syntax")
	return nil
}

func (p *parser) strings() Expr {
	first := p.peek()
	var (
		text    strings.Builder
		isBytes bool
		count   int
	)
	for p.peek().Kind == TokenString {
		tok := p.advance()
		value, err := unquoteLiteral(tok.Text)
		if err != nil {
			p.fail(tok, "%s", err.Error())
		}
		_, b := value.(Bytes)
		if count > 0 && b != isBytes {
			p.fail(tok, "cannot mix bytes and nonbytes literals")
		}
		isBytes = b
		count++
		switch v := value.(type) {
		case Bytes:
			text.WriteString(string(v))
		case string:
			text.WriteString(v)
		}
	}
	if isBytes {
		return &Constant{Pos: posOf(first), Value: Bytes(text.String())}
	}
	return &Constant{Pos: posOf(first), Value: text.String()}
}

func (p *parser) parenthesized(pos Pos) Expr {
	if p.acceptOp(")") {
		return &TupleExpr{Pos: pos}
	}
	if p.isKeyword("yield") {
		e := p.yieldExpr()
		p.expectOp(")")
		return e
	}

	first := p.starOr(p.namedExpr)
	if p.isKeyword("for") {
		gen := &GeneratorExp{Pos: pos, Elt: first, Gens: p.comprehensions()}
		p.expectOp(")")
		return gen
	}
	if p.acceptOp(")") {
		if _, ok := first.(*Starred); ok {
			p.failAt(first.pos(), "can't use starred expression here")
		}
		return first
	}

	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.isOp(")") {
			break
		}
		elts = append(elts, p.starOr(p.test))
	}
	p.expectOp(")")
	return &TupleExpr{Pos: pos, Elts: elts}
}

func (p *parser) listDisplay(pos Pos) Expr {
	if p.acceptOp("]") {
		return &ListExpr{Pos: pos}
	}
	first := p.starOr(p.namedExpr)
	if p.isKeyword("for") {
		comp := &ListComp{Pos: pos, Elt: first, Gens: p.comprehensions()}
		p.expectOp("]")
		return comp
	}
	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.isOp("]") {
			break
		}
		elts = append(elts, p.starOr(p.test))
	}
	p.expectOp("]")
	return &ListExpr{Pos: pos, Elts: elts}
}

func (p *parser) dictOrSet(pos Pos) Expr {
	if p.acceptOp("}") {
		return &DictExpr{Pos: pos}
	}

	if p.acceptOp("**") {
		d := &DictExpr{Pos: pos}
		d.Keys = append(d.Keys, nil)
		d.Values = append(d.Values, p.expr())
		return p.dictRest(d)
	}

	first := p.starOr(p.test)
	if p.acceptOp(":") {
		if _, ok := first.(*Starred); ok {
			p.failAt(first.pos(), "invalid syntax")
		}
		value := p.test()
		if p.isKeyword("for") {
			comp := &DictComp{Pos: pos, Key: first, Value: value, Gens: p.comprehensions()}
			p.expectOp("}")
			return comp
		}
		return p.dictRest(&DictExpr{Pos: pos, Keys: []Expr{first}, Values: []Expr{value}})
	}

	if p.isKeyword("for") {
		comp := &SetComp{Pos: pos, Elt: first, Gens: p.comprehensions()}
		p.expectOp("}")
		return comp
	}

	elts := []Expr{first}
	for p.acceptOp(",") {
		if p.isOp("}") {
			break
		}
		elts = append(elts, p.starOr(p.test))
	}
	p.expectOp("}")
	return &SetExpr{Pos: pos, Elts: elts}
}

func (p *parser) dictRest(d *DictExpr) Expr {
	for p.acceptOp(",") {
		if p.isOp("}") {
			break
		}
		if p.acceptOp("**") {
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, p.expr())
			continue
		}
		key := p.test()
		p.expectOp(":")
		d.Keys = append(d.Keys, key)
		d.Values = append(d.Values, p.test())
	}
	p.expectOp("}")
	return d
}

// parseNumber converts a numeric literal. It returns an error message on failure.
func parseNumber(text string) (Value, string) {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)

	if strings.HasSuffix(lower, "j") {
		return nil, "complex numbers are not supported"
	}

	if len(lower) > 1 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[lower[1]]
		n, err := strconv.ParseInt(lower[2:], base, 64)
		if err != nil {
			return nil, "invalid number literal"
		}
		return n, ""
	}

	if strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil && !math.IsInf(f, 0) {
			return nil, "invalid number literal"
		}
		return f, ""
	}

	if len(lower) > 1 && lower[0] == '0' && strings.Trim(lower, "0") != "" {
		return nil, "leading zeros in decimal integer literals are not permitted"
	}
	n, err := strconv.ParseInt(lower, 10, 64)
	if err != nil {
		return nil, "integer literal too large"
	}
	return n, ""
}
