// Package parser turns a pkg/token stream into a pkg/ast.Program by
// recursive descent.
//
// Grounded directly on original_source/parser.py's grammar (Parser/
// ArrowParser: program/function/block/statement, and the expression/
// C/A/M/P precedence-climbing chain), restructured into teacher's
// pkg/parser idiom: a Parser struct holding cur/peek tokens advanced by
// nextToken, and an accumulated []error instead of the Python version's
// raise-on-first-error.
package parser

import (
	"math/big"
	"strconv"
	"strings"

	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/lexer"
	"arrow/pkg/num"
	"arrow/pkg/token"
)

type Parser struct {
	l      *lexer.Lexer
	errors []error

	cur  token.Token
	peek token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, arrowerr.New(arrowerr.Parsing, arrowerr.Grammar,
		arrowerr.Position{Line: p.cur.Line, Column: p.cur.Column}, format, args...))
}

// at reports whether the current token has type t.
func (p *Parser) at(t token.Type) bool { return p.cur.Type == t }

// atLiteral reports whether the current token's literal text is s,
// regardless of type — used for the handful of words
// original_source/scanner.py tokenizes as plain identifiers ("main",
// "else", "un") rather than keywords, and which the original parser
// recognizes by spelling instead of by token kind.
func (p *Parser) atLiteral(s string) bool { return p.cur.Literal == s }

// accept consumes and returns true iff the current token has type t.
func (p *Parser) accept(t token.Type) bool {
	if p.at(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it has type t, else records an
// error and returns the zero token.
func (p *Parser) expect(t token.Type) token.Token {
	if p.at(t) {
		tok := p.cur
		p.nextToken()
		return tok
	}
	p.errorf("expected %s, but found %q", t, p.cur.Literal)
	return token.Token{}
}

// Parse runs the full grammar over the token stream and returns the
// parsed Program along with every error accumulated along the way.
func Parse(l *lexer.Lexer) (*ast.Program, []error) {
	p := New(l)
	program := p.program()
	return program, p.errors
}

func (p *Parser) program() *ast.Program {
	functions := map[string]*ast.Function{}
	var mainVars []ast.MainVarDecl
	var main *ast.Function
	pos := p.pos()

	for !p.at(token.EOF) {
		if p.atLiteral("main") {
			p.nextToken()
			p.expect(token.LPAREN)

			for !p.accept(token.RPAREN) {
				dec := p.varDec()
				mainVars = append(mainVars, ast.MainVarDecl{Name: dec.Name, Expr: dec.Expr})
				p.accept(token.COMMA)
			}

			main = &ast.Function{Position: pos, Name: "main", Block: p.block()}
			functions["main"] = main
			continue
		}

		fn := p.function()
		functions[fn.Name] = fn
	}

	return &ast.Program{Position: pos, Functions: functions, Main: main, MainVars: mainVars}
}

func (p *Parser) function() *ast.Function {
	pos := p.pos()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)

	var refParams, constParams []string
	for {
		switch {
		case p.at(token.REF):
			p.nextToken()
			refParams = append(refParams, p.v().VarName())
		case p.at(token.CONST):
			p.nextToken()
			constParams = append(constParams, p.v().VarName())
		}
		if p.at(token.RPAREN) {
			break
		}
		p.expect(token.COMMA)
	}
	p.expect(token.RPAREN)

	return &ast.Function{
		Position:    pos,
		Name:        name,
		RefParams:   refParams,
		ConstParams: constParams,
		Block:       p.block(),
	}
}

func (p *Parser) block() *ast.Block {
	pos := p.pos()
	p.expect(token.LBRACE)
	b := &ast.Block{Position: pos}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		b.Statements = append(b.Statements, p.statement())
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.at(token.IDENT):
		switch {
		case p.atLiteral("un"):
			return p.un()
		case p.peek.Type == token.LPAREN:
			return p.functionCall()
		case p.peek.Type == token.ASSIGN:
			return p.varDec()
		case p.peek.Type == token.EQ:
			return p.varCondition()
		default:
			return p.modOperation()
		}

	case p.at(token.FROM):
		return p.fromLoop()
	case p.at(token.FOR):
		return p.forLoop()
	case p.at(token.IF):
		return p.ifStatement()
	case p.at(token.DO_UNDO):
		return p.doUndoStatement()
	case p.at(token.RESULT):
		return p.resultStatement()
	case p.at(token.ENTER), p.at(token.EXIT):
		return p.enterOrExit()
	case p.at(token.LBRACE):
		return p.block()
	}

	p.errorf("expected a statement, but found %q", p.cur.Literal)
	p.nextToken()
	return &ast.Block{Position: p.pos()}
}

func (p *Parser) enterOrExit() ast.Statement {
	pos := p.pos()
	isExit := p.at(token.EXIT)
	p.nextToken()

	value := p.expression()
	p.expect(token.IF)
	condition := p.expression()

	if isExit {
		return &ast.Exit{Position: pos, Value: value, Condition: condition}
	}
	return &ast.Enter{Position: pos, Value: value, Condition: condition}
}

func (p *Parser) un() ast.Statement {
	pos := p.pos()
	p.nextToken() // "un"
	p.expect(token.LPAREN)
	p.expect(token.COLON)
	inner := p.statement()
	p.expect(token.COLON)
	p.expect(token.RPAREN)
	return &ast.Un{Position: pos, Statement: inner}
}

func (p *Parser) resultStatement() ast.Statement {
	pos := p.pos()
	p.nextToken() // "result"
	return &ast.Result{Position: pos, Expr: p.expression()}
}

func (p *Parser) varDec() *ast.VarDec {
	pos := p.pos()
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	return &ast.VarDec{Position: pos, Name: name, Expr: p.initExpr()}
}

// initExpr is an expression, or an array literal "[a, b, c]" — the one
// place the grammar allows a bare list without a surrounding call.
func (p *Parser) initExpr() ast.Expression {
	if p.at(token.LBRACKET) {
		pos := p.pos()
		p.nextToken()
		node := &ast.ArrayExpr{Position: pos}
		for !p.accept(token.RBRACKET) {
			node.Entries = append(node.Entries, p.expression())
			p.accept(token.COMMA)
		}
		return node
	}
	return p.expression()
}

func (p *Parser) varCondition() *ast.VarCondition {
	pos := p.pos()
	name := p.expect(token.IDENT).Literal
	p.expect(token.EQ)
	return &ast.VarCondition{Position: pos, Name: name, Expr: p.initExpr()}
}

var modOps = map[token.Type]string{
	token.PLUS_ASN:  "+",
	token.MINUS_ASN: "-",
	token.STAR_ASN:  "*",
	token.SLASH_ASN: "/",
	token.CARET_ASN: "^",
}

func (p *Parser) modOperation() ast.Statement {
	pos := p.pos()
	v := p.v()

	if p.at(token.SWAP) {
		p.nextToken()
		if !p.at(token.IDENT) {
			p.errorf("can't swap %q with %q because %q is not a variable name",
				v.VarName(), p.cur.Literal, p.cur.Literal)
		}
		other := p.v()
		return &ast.SwapOp{Position: pos, Left: v, Right: other}
	}

	op, ok := modOps[p.cur.Type]
	if !ok {
		p.errorf("expected a mod-assignment or swap operator, but found %q", p.cur.Literal)
	}
	p.nextToken()

	return &ast.ModOp{Position: pos, Op: op, Var: v, Expr: p.expression()}
}

func (p *Parser) forLoop() ast.Statement {
	pos := p.pos()
	p.expect(token.FOR)
	p.accept(token.LPAREN)
	varDeclaration := p.varDec()
	p.accept(token.RPAREN)

	incAtEnd := true
	var increment *ast.ModOp

	if p.accept(token.COMMA) {
		p.accept(token.LPAREN)
		increment = p.modOperation().(*ast.ModOp)
		p.accept(token.RPAREN)
		incAtEnd = false
	}

	block := p.block()

	if !p.at(token.UNTIL) {
		p.accept(token.LPAREN)
		increment = p.modOperation().(*ast.ModOp)
		p.accept(token.RPAREN)
		incAtEnd = true
		p.expect(token.COMMA)
	}

	p.expect(token.UNTIL)
	p.accept(token.LPAREN)
	endCondition := p.varCondition()
	p.accept(token.RPAREN)

	return &ast.ForLoop{
		Position:       pos,
		IncAtEnd:       incAtEnd,
		VarDeclaration: varDeclaration,
		Increment:      increment,
		Block:          block,
		EndCondition:   endCondition,
	}
}

func (p *Parser) fromLoop() ast.Statement {
	pos := p.pos()
	p.expect(token.FROM)
	startCondition := p.expression()
	block := p.block()
	p.expect(token.UNTIL)
	endCondition := p.expression()

	return &ast.FromLoop{Position: pos, StartCondition: startCondition, Block: block, EndCondition: endCondition}
}

func (p *Parser) ifStatement() ast.Statement {
	pos := p.pos()
	p.expect(token.IF)
	condition := p.expression()
	trueBlock := p.block()

	var result ast.Expression
	switch {
	case p.at(token.RESULTS):
		p.nextToken()
		result = p.expression()
	case p.at(token.SWAP):
		p.nextToken()
		result = condition
	default:
		p.errorf("if-statement starting at line %d missing post-condition or '<=>'", pos.Line)
	}

	node := &ast.If{Position: pos, Condition: condition, True: trueBlock, Result: result}
	if p.atLiteral("else") {
		p.nextToken()
		node.False = p.block()
	}
	return node
}

func (p *Parser) doUndoStatement() ast.Statement {
	pos := p.pos()
	p.expect(token.DO_UNDO)
	action := p.block()

	node := &ast.DoUndo{Position: pos, Action: action}
	if p.at(token.YIELDING) {
		p.nextToken()
		node.Yielding = p.block()
	}
	return node
}

// --- expressions, by increasing precedence ---

func (p *Parser) expression() ast.Expression {
	node := p.relational()
	for isComparisonOp(p.cur.Type) {
		pos := p.pos()
		op := p.cur.Literal
		p.nextToken()
		node = &ast.BinOp{Position: pos, Op: op, Left: node, Right: p.relational()}
	}
	return node
}

func isComparisonOp(t token.Type) bool {
	switch t {
	case token.LT, token.GT, token.LTE, token.GTE, token.EQ, token.NOT_EQ:
		return true
	}
	return false
}

// relational handles '%', matching original_source/parser.py's C().
func (p *Parser) relational() ast.Expression {
	node := p.additive()
	for p.at(token.PERCENT) {
		pos := p.pos()
		p.nextToken()
		node = &ast.BinOp{Position: pos, Op: "%", Left: node, Right: p.additive()}
	}
	return node
}

func (p *Parser) additive() ast.Expression {
	node := p.multiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		pos := p.pos()
		op := p.cur.Literal
		p.nextToken()
		node = &ast.BinOp{Position: pos, Op: op, Left: node, Right: p.multiplicative()}
	}
	return node
}

func (p *Parser) multiplicative() ast.Expression {
	node := p.primary()
	for p.at(token.STAR) || p.at(token.SLASH) {
		pos := p.pos()
		op := p.cur.Literal
		p.nextToken()
		node = &ast.BinOp{Position: pos, Op: op, Left: node, Right: p.primary()}
	}
	return node
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.at(token.IDENT):
		if p.peek.Type == token.LPAREN {
			return p.functionCall()
		}
		return p.v()

	case p.at(token.MINUS):
		return p.unary()

	case p.at(token.NUMBER):
		return p.number()

	case p.at(token.STRING):
		tok := p.cur
		p.nextToken()
		return &ast.StringLit{Position: ast.Position{Line: tok.Line, Column: tok.Column}, Value: tok.Literal}

	case p.at(token.LPAREN):
		p.nextToken()
		node := p.expression()
		p.expect(token.RPAREN)
		return node
	}

	p.errorf("expected an expression, but found %q", p.cur.Literal)
	pos := p.pos()
	p.nextToken()
	return &ast.NumLit{Position: pos, Value: num.FromInt64(0)}
}

func (p *Parser) unary() ast.Expression {
	pos := p.pos()
	p.expect(token.MINUS)
	return &ast.Negate{Position: pos, Expr: p.primary()}
}

func (p *Parser) functionCall() *ast.FunctionCall {
	pos := p.pos()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)

	call := &ast.FunctionCall{Position: pos, Name: name}
	for !p.at(token.RPAREN) {
		if p.at(token.AMP) {
			p.nextToken()
			call.RefArgs = append(call.RefArgs, p.v())
		} else {
			call.ConstArgs = append(call.ConstArgs, p.expression())
		}
		if p.at(token.RPAREN) {
			break
		}
		p.expect(token.COMMA)
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) v() ast.Ref {
	pos := p.pos()
	name := p.expect(token.IDENT).Literal
	if p.at(token.LBRACKET) {
		p.nextToken()
		index := p.expression()
		p.expect(token.RBRACKET)
		return &ast.ArrayRef{Position: pos, Name: name, Index: index}
	}
	return &ast.VarRef{Position: pos, Name: name}
}

// number builds an exact rational from a literal like "3" or "3.50"
// (spec.md §6: "integer literal or integer '.' integer, constructed
// exactly as a rational").
func (p *Parser) number() ast.Expression {
	pos := p.pos()
	lit := p.cur.Literal
	p.nextToken()

	whole, fraction, hasFraction := lit, "", false
	if i := strings.IndexByte(lit, '.'); i >= 0 {
		whole, fraction, hasFraction = lit[:i], lit[i+1:], true
	}

	base, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		p.errorf("invalid number literal %q", lit)
		return &ast.NumLit{Position: pos, Value: num.FromInt64(0)}
	}

	fraction = strings.TrimRight(fraction, "0")
	if !hasFraction || fraction == "" {
		return &ast.NumLit{Position: pos, Value: num.FromInt64(base)}
	}

	power := int64(1)
	for range fraction {
		power *= 10
	}
	after, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		p.errorf("invalid number literal %q", lit)
		return &ast.NumLit{Position: pos, Value: num.FromInt64(0)}
	}

	numerator := base*power + after
	return &ast.NumLit{Position: pos, Value: num.New(big.NewInt(numerator), big.NewInt(power), 0)}
}
