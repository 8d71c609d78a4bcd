// parser.go — recursive-descent parser for Lumen.
//
// The parser consumes the lexer's token stream and produces a statement
// tree. Expression parsing climbs the precedence ladder (low → high):
//
//	comma , assignment (= += -= *= /=) , or , and , equality , comparison ,
//	additive , multiplicative , modulo , exponent , unary , call/property ,
//	primary
//
// Malformed input never panics the parser: an error is reported to the
// Reporter and parsing synchronizes at the next statement boundary (past a
// semicolon, or before a statement-starting keyword) so one run surfaces as
// many diagnostics as possible. For loops are desugared to while loops at
// parse time; there is no dedicated for node.
package lumen

import "errors"

// maxArity caps parameter and call-argument list lengths. Exceeding it is
// reported but does not abort the parse.
const maxArity = 8

// errParse is the internal unwind signal for a reported syntax error; the
// message already went to the Reporter by the time it is raised.
var errParse = errors.New("parse error")

// Parser turns tokens into statements.
type Parser struct {
	tokens []Token
	cur    int
	rep    *Reporter
}

func NewParser(tokens []Token, rep *Reporter) *Parser {
	return &Parser{tokens: tokens, rep: rep}
}

// Parse consumes the whole token stream and returns every statement it
// managed to recognize. Syntax errors are reflected in the Reporter, not in
// the return value.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ----- token plumbing -----

func (p *Parser) peek() Token     { return p.tokens[p.cur] }
func (p *Parser) previous() Token { return p.tokens[p.cur-1] }
func (p *Parser) isAtEnd() bool   { return p.peek().Type == EOF }

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) checkNext(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.tokens[p.cur+1].Type == tt
}

func (p *Parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

// errAt reports and returns the unwind signal.
func (p *Parser) errAt(tok Token, msg string) error {
	p.rep.ReportToken(tok, msg)
	return errParse
}

// synchronize skips tokens until a likely statement boundary: just past a
// semicolon, or right before a statement-starting keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN, BREAK, CONTINUE:
			return
		}
		p.advance()
	}
}

// ----- declarations & statements -----

func (p *Parser) declaration() Stmt {
	var s Stmt
	var err error
	switch {
	case p.check(CLASS):
		p.advance()
		s, err = p.classDeclaration()
	case p.check(FUN) && p.checkNext(IDENT):
		// "fun" not followed by a name starts an anonymous function
		// expression and falls through to statement parsing
		p.advance()
		s, err = p.funDeclaration()
	case p.check(VAR):
		p.advance()
		s, err = p.varDeclaration()
	default:
		s, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return s
}

func (p *Parser) classDeclaration() (Stmt, error) {
	name, err := p.consume(IDENT, "expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LBRACE, "expected '{' before class body"); err != nil {
		return nil, err
	}
	var methods []*FunctionExpr
	for !p.check(RBRACE) && !p.isAtEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.consume(RBRACE, "expected '}' after class body"); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Methods: methods}, nil
}

func (p *Parser) funDeclaration() (Stmt, error) {
	fn, err := p.function("function")
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Fn: fn}, nil
}

// function parses "name(params) { body }" with the leading keyword already
// consumed (declarations) or absent (methods).
func (p *Parser) function(kind string) (*FunctionExpr, error) {
	name, err := p.consume(IDENT, "expected "+kind+" name")
	if err != nil {
		return nil, err
	}
	params, body, err := p.functionRest(kind)
	if err != nil {
		return nil, err
	}
	return &FunctionExpr{Name: &name, Params: params, Body: body}, nil
}

// functionRest parses "(params) { body }" shared by declarations, methods
// and function literals.
func (p *Parser) functionRest(kind string) ([]Token, []Stmt, error) {
	if _, err := p.consume(LPAREN, "expected '(' after "+kind+" name"); err != nil {
		return nil, nil, err
	}
	var params []Token
	if !p.check(RPAREN) {
		for {
			if len(params) >= maxArity {
				// reported but not fatal; keep parsing the list
				p.rep.ReportToken(p.peek(), "can't have more than 8 parameters")
			}
			param, err := p.consume(IDENT, "expected parameter name")
			if err != nil {
				return nil, nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RPAREN, "expected ')' after parameters"); err != nil {
		return nil, nil, err
	}
	if _, err := p.consume(LBRACE, "expected '{' before "+kind+" body"); err != nil {
		return nil, nil, err
	}
	body, err := p.blockStmts()
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(IDENT, "expected variable name")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(EQ) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Init: init}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(BREAK):
		kw := p.previous()
		if _, err := p.consume(SEMICOLON, "expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return &BreakStmt{Keyword: kw}, nil
	case p.match(CONTINUE):
		kw := p.previous()
		if _, err := p.consume(SEMICOLON, "expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ContinueStmt{Keyword: kw}, nil
	case p.match(IF):
		return p.ifStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(FOR):
		return p.forStatement()
	case p.match(LBRACE):
		stmts, err := p.blockStmts()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "expected ';' after value"); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: e}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	kw := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		var err error
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: kw, Value: value}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	if _, err := p.consume(LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	if _, err := p.consume(LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RPAREN, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

// forStatement desugars "for (init; cond; incr) body" into
// { init; while (cond) { body; <incr> } } where the increment rides on the
// while node so continue still runs it. An omitted condition is a true
// literal.
func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.consume(LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.match(VAR):
		if init, err = p.varDeclaration(); err != nil {
			return nil, err
		}
	default:
		if init, err = p.expressionStatement(); err != nil {
			return nil, err
		}
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(RPAREN) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RPAREN, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if cond == nil {
		cond = &LiteralExpr{Value: Bool(true)}
	}
	var loop Stmt = &WhileStmt{Cond: cond, Body: body, Increment: incr}
	if init != nil {
		loop = &BlockStmt{Stmts: []Stmt{init, loop}}
	}
	return loop, nil
}

func (p *Parser) blockStmts() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RBRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.consume(RBRACE, "expected '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expr: e}, nil
}

// ----- expressions, lowest precedence first -----

func (p *Parser) expression() (Expr, error) {
	return p.comma()
}

func (p *Parser) comma() (Expr, error) {
	e, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(COMMA) {
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		e = &CommaExpr{Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) assignment() (Expr, error) {
	e, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if p.match(EQ, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ) {
		op := p.previous()
		value, err := p.assignment() // right-associative
		if err != nil {
			return nil, err
		}
		switch target := e.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Op: op, Value: value}, nil
		case *GetExpr:
			if op.Type != EQ {
				return nil, p.errAt(op, "compound assignment target must be a variable")
			}
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		// reported against the operator, but the parse goes on with the
		// right-hand value so later errors still surface
		p.rep.ReportToken(op, "invalid assignment target")
	}
	return e, nil
}

func (p *Parser) logicOr() (Expr, error) {
	e, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		e = &LogicalExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) logicAnd() (Expr, error) {
	e, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		e = &LogicalExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) equality() (Expr, error) {
	e, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(EQ_EQ, BANG_EQ) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) comparison() (Expr, error) {
	e, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(LESS, LESS_EQ, GREATER, GREATER_EQ) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) additive() (Expr, error) {
	e, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) multiplicative() (Expr, error) {
	e, err := p.modulo()
	if err != nil {
		return nil, err
	}
	for p.match(STAR, SLASH) {
		op := p.previous()
		right, err := p.modulo()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) modulo() (Expr, error) {
	e, err := p.exponent()
	if err != nil {
		return nil, err
	}
	for p.match(PERCENT) {
		op := p.previous()
		right, err := p.exponent()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

// exponent is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) exponent() (Expr, error) {
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.match(STARSTAR) {
		op := p.previous()
		right, err := p.exponent()
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Op: op, Left: e, Right: right}
	}
	return e, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LPAREN):
			if e, err = p.finishCall(e); err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.consume(IDENT, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			e = &GetExpr{Object: e, Name: name}
		default:
			return e, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RPAREN) {
		for {
			if len(args) >= maxArity {
				p.rep.ReportToken(p.peek(), "can't have more than 8 arguments")
			}
			// assignment level: a bare comma separates arguments
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(RPAREN, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(NUMBER, STRING):
		tok := p.previous()
		if tok.Type == NUMBER {
			return &LiteralExpr{Value: Num(tok.Literal.(float64))}, nil
		}
		return &LiteralExpr{Value: Str(tok.Literal.(string))}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: Bool(true)}, nil
	case p.match(FALSE):
		return &LiteralExpr{Value: Bool(false)}, nil
	case p.match(NIL):
		return &LiteralExpr{Value: Nil}, nil
	case p.match(IDENT):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(THIS):
		return &ThisExpr{Keyword: p.previous()}, nil
	case p.match(FUN):
		return p.functionLiteral()
	case p.match(LPAREN):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner}, nil
	}
	return nil, p.errAt(p.peek(), "expected expression")
}

// functionLiteral parses "fun (params) { body }" or the named form
// "fun name(params) { body }" appearing in expression position.
func (p *Parser) functionLiteral() (Expr, error) {
	var name *Token
	if p.check(IDENT) {
		tok := p.advance()
		name = &tok
	}
	params, body, err := p.functionRest("function")
	if err != nil {
		return nil, err
	}
	return &FunctionExpr{Name: name, Params: params, Body: body}, nil
}
