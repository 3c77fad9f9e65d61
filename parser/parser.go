// Package parser implements Dust's precedence-climbing recursive
// descent parser: it converts a token stream into an AST body.
package parser

import (
	"github.com/kadir014/Dust/ast"
	"github.com/kadir014/Dust/diag"
	"github.com/kadir014/Dust/token"
	"github.com/kadir014/Dust/ustring"
)

// additiveOps, comparativeOps, and powOps are the operator symbols
// recognized at each precedence level, lowest to highest.
var additiveOps = map[string]ast.OpType{
	"+": ast.Add, "-": ast.Sub, "..": ast.Range,
	"and": ast.And, "or": ast.Or, "xor": ast.Xor, "in": ast.In,
}

var comparativeOps = map[string]ast.OpType{
	"*": ast.Mul, "/": ast.Div,
	"==": ast.Eq, "!=": ast.Neq,
	"<": ast.Lt, "<=": ast.Le, ">": ast.Gt, ">=": ast.Ge,
}

var powOps = map[string]ast.OpType{
	"^": ast.Pow, "%": ast.Mod,
}

var unaryOps = map[string]ast.OpType{
	"+": ast.Add, "-": ast.Sub, "not": ast.Not,
}

// exprTerminators is the set of tokens allowed to follow a finished
// top-level EXPR production.
var exprTerminators = map[token.Kind]bool{
	token.StmtSep:    true,
	token.EndOfInput: true,
	token.RParen:     true,
	token.LCurly:     true,
	token.RCurly:     true,
	token.Comma:      true,
	token.RSquare:    true,
}

// Parser holds scanning state explicitly — tokens, cursor, the token
// count consumed by the last top-level expression, and the current
// nesting depth of braced bodies — rather than as C file-scope
// globals, so one process can run many parses safely.
type Parser struct {
	tokens         []token.Token
	pos            int
	lastExprTokens int
	bodyDepth      int

	source   string
	reporter *diag.Reporter
}

// New creates a Parser over tokens. source names the origin for
// diagnostics, matching the lexer's convention.
func New(tokens []token.Token, source string, reporter *diag.Reporter) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{token.New(token.EndOfInput, nil, token.Position{})}
	}
	return &Parser{tokens: tokens, source: source, reporter: reporter}
}

// ParseProgram parses tokens to completion and returns the top-level
// body. It is the package-level entry point, equivalent to
// New(tokens, source, reporter).ParseProgram().
func ParseProgram(tokens []token.Token, source string, reporter *diag.Reporter) *ast.Body {
	return New(tokens, source, reporter).ParseProgram()
}

// ParseProgram runs the parser to completion, returning the top-level
// Body (one statement per top-level construct, in source order).
func (p *Parser) ParseProgram() *ast.Body {
	startTok := p.cur()
	body := &ast.Body{Tok: startTok}

	for !p.at(token.EndOfInput) {
		if stmt := p.parseStatement(); stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
	}
	body.TokensConsumed = p.pos
	return body
}

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atOp(text string) bool {
	c := p.cur()
	return c.Kind == token.Operator && c.Text() == text
}

func (p *Parser) atWord(text string) bool {
	c := p.cur()
	return c.Kind == token.Identifier && c.Text() == text
}

func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(k token.Kind, message string) token.Token {
	if !p.at(k) {
		p.raise(message)
	}
	return p.advance()
}

// expectStatementEnd consumes the terminator of a statement. The
// lexer rewrites a trailing ';' to EndOfInput in place (spec §3.3), so
// the last statement of a program is followed by EndOfInput rather
// than StmtSep; both are accepted here, matching parse_body's
// TokenType_NEXTSTM/TokenType_EOF check in the original source.
func (p *Parser) expectStatementEnd() token.Token {
	if !p.at(token.StmtSep) && !p.at(token.EndOfInput) {
		p.raise("Expected ;")
	}
	return p.advance()
}

func (p *Parser) raise(message string) {
	pos := p.cur().Pos
	p.reporter.Raise(diag.Syntax, message, p.source, pos.Column, pos.Line)
}

// parseStatement dispatches on the current token per the statement
// table: braced bodies, stray separators, keyword-led constructs,
// declarations/assignments, and the expression-statement fallback. A
// nil return means "no statement produced" (a skipped separator).
func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.at(token.LCurly):
		return p.parseBlockBody()

	case p.at(token.StmtSep):
		if p.pos > 0 && p.tokens[p.pos-1].Kind == token.StmtSep {
			p.raise("Statement expected before ;")
		}
		p.advance()
		return nil

	case p.at(token.Comma):
		p.raise("Statement expected before ,")

	case p.atWord("import"):
		return p.parseImport()

	case p.atWord("enum"):
		return p.parseEnum()

	case p.atWord("if"):
		return p.parseIfElif(false)

	case p.atWord("elif"):
		return p.parseIfElif(true)

	case p.atWord("else"):
		return p.parseElse()

	case p.atWord("repeat"):
		return p.parseRepeat()

	case p.atWord("while"):
		return p.parseWhile()

	case p.atWord("for"):
		return p.parseFor()

	case p.at(token.Identifier):
		switch next := p.peek(1); {
		case next.Kind == token.Operator && next.Text() == "<":
			return p.parseDecl()
		case next.Kind == token.Identifier:
			return p.parseDecl()
		case next.Kind == token.Operator && token.IsAssignOperator(next.Text()):
			return p.parseAssign()
		default:
			return p.parseExprStatement()
		}

	default:
		return p.parseExprStatement()
	}

	return nil
}

// parseBlockBody parses a "{ statement* }" body. The caller's current
// token must be '{'.
func (p *Parser) parseBlockBody() *ast.Body {
	startTok := p.expect(token.LCurly, "Expected {")
	p.bodyDepth++
	startPos := p.pos

	body := &ast.Body{Tok: startTok}
	for !p.at(token.RCurly) {
		if p.at(token.EndOfInput) {
			p.raise("Expected }")
		}
		if stmt := p.parseStatement(); stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
	}
	p.advance() // '}'
	p.bodyDepth--

	body.TokensConsumed = p.pos - startPos
	return body
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.advance() // "import"

	if !p.at(token.Identifier) {
		p.raise("Invalid import scheme")
	}
	first := p.advance()

	if p.atWord("from") {
		p.advance()
		if !p.at(token.Identifier) {
			p.raise("Invalid import scheme")
		}
		module := p.advance()
		p.expectStatementEnd()
		return &ast.ImportFrom{Tok: tok, Module: module.Text(), Member: first.Text()}
	}

	p.expectStatementEnd()
	return &ast.Import{Tok: tok, Module: first.Text()}
}

// parseEnum parses "enum IDENT { enumItem { , enumItem } }". enumItem
// is a bare identifier (Var) or IDENT = expr (Assign).
func (p *Parser) parseEnum() ast.Statement {
	tok := p.advance() // "enum"

	if !p.at(token.Identifier) {
		p.raise("Identifier expected after enum")
	}
	name := p.advance()

	lc := p.expect(token.LCurly, "Expected {")
	p.bodyDepth++
	body := &ast.Body{Tok: lc}

	expectItem := true
	for !p.at(token.RCurly) {
		if p.at(token.EndOfInput) {
			p.raise("Expected }")
		}
		if p.at(token.StmtSep) {
			p.raise("Statement expected before ;")
		}
		if p.at(token.Comma) {
			p.raise("Statement expected before ,")
		}
		if !expectItem {
			p.raise("Expected ,")
		}

		if !p.at(token.Identifier) {
			p.raise("Identifier expected after enum")
		}
		member := p.advance()

		var item ast.Statement
		if p.atOp("=") {
			p.advance()
			value := p.parseExpr()
			item = &ast.Assign{Tok: member, Name: member.Text(), Op: "=", Right: value}
		} else {
			item = &ast.Var{Tok: member, Name: member.Text()}
		}
		body.Statements = append(body.Statements, item)

		if p.at(token.Comma) {
			p.advance()
			expectItem = true
		} else {
			expectItem = false
		}
	}
	p.advance() // '}'
	p.bodyDepth--

	p.expectStatementEnd()

	return &ast.Enum{Tok: tok, Name: name.Text(), Body: body}
}

func (p *Parser) parseIfElif(isElif bool) ast.Statement {
	tok := p.advance() // "if" / "elif"
	cond := p.parseExpr()
	body := p.parseBlockBody()
	if isElif {
		return &ast.Elif{Tok: tok, Condition: cond, Body: body}
	}
	return &ast.If{Tok: tok, Condition: cond, Body: body}
}

func (p *Parser) parseElse() ast.Statement {
	tok := p.advance() // "else"
	body := p.parseBlockBody()
	return &ast.Else{Tok: tok, Body: body}
}

func (p *Parser) parseRepeat() ast.Statement {
	tok := p.advance() // "repeat"
	count := p.parseExpr()
	body := p.parseBlockBody()
	return &ast.Repeat{Tok: tok, Count: count, Body: body}
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance() // "while"
	cond := p.parseExpr()
	body := p.parseBlockBody()
	return &ast.While{Tok: tok, Condition: cond, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.advance() // "for"

	if !p.at(token.Identifier) {
		p.raise("Non-identifier after for")
	}
	iterVar := p.advance()

	// The lexer emits "in" as a word Operator, not an Identifier.
	if !p.atOp("in") {
		p.raise("Missing in keyword")
	}
	p.advance() // "in"

	iterable := p.parseExpr()
	body := p.parseBlockBody()

	return &ast.For{Tok: tok, Var: iterVar.Text(), Iterable: iterable, Body: body}
}

// parseDecl parses "IDENT [ < typeArgs > ] IDENT [ = expr ] ;". It
// covers both Decl and DeclNoInit depending on whether an initializer
// follows.
func (p *Parser) parseDecl() ast.Statement {
	typeTok := p.advance()
	var typ ast.Expression = &ast.Primitive{Tok: typeTok, Name: typeTok.Text()}

	if p.atOp("<") {
		typ = p.parseGenType(typeTok)
	}

	if !p.at(token.Identifier) {
		p.raise("Expected ;")
	}
	nameTok := p.advance()

	if p.atOp("=") {
		p.advance()
		init := p.parseExpr()
		p.expectStatementEnd()
		return &ast.Decl{Tok: typeTok, Type: typ, Name: nameTok.Text(), Init: init}
	}

	p.expectStatementEnd()
	return &ast.DeclNoInit{Tok: typeTok, Type: typ, Name: nameTok.Text()}
}

// parseGenType parses "< typeArgs >" following a base type identifier,
// e.g. the "<int32, string>" of "list<int32, string> xs;".
func (p *Parser) parseGenType(base token.Token) *ast.GenType {
	startPos := p.pos
	p.advance() // '<'

	gt := &ast.GenType{Tok: base, Base: base.Text()}

	for {
		if p.at(token.Identifier) {
			argTok := p.advance()
			var arg ast.Expression = &ast.Primitive{Tok: argTok, Name: argTok.Text()}
			if p.atOp("<") {
				arg = p.parseGenType(argTok)
			}
			gt.Args = append(gt.Args, arg)
		} else {
			p.raise("Expected type or >")
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if !p.atOp(">") {
		p.raise("Expected type or >")
	}
	p.advance() // '>'

	gt.TokensConsumed = p.pos - startPos
	return gt
}

func (p *Parser) parseAssign() ast.Statement {
	nameTok := p.advance()
	opTok := p.advance()
	right := p.parseExpr()
	p.expectStatementEnd()
	return &ast.Assign{Tok: nameTok, Name: nameTok.Text(), Op: opTok.Text(), Right: right}
}

// parseExprStatement parses a bare expression used as a statement,
// consuming its trailing ';'.
func (p *Parser) parseExprStatement() ast.Statement {
	startPos := p.pos
	expr := p.parseExpr()
	p.lastExprTokens = p.pos - startPos
	p.expectStatementEnd()
	if expr == nil {
		return nil
	}
	// Every Expression node also implements statementNode (see
	// ast.Expression's doc comment), so this assertion never fails
	// for a non-nil expr.
	return expr.(ast.Statement)
}

// parseExpr implements the EXPR level: TERM { additiveOp TERM }. Per
// spec, after finishing, the current token must be one of the
// recognized terminators — every caller context's expected follow-up
// token is a member of that set, so the check lives here once.
func (p *Parser) parseExpr() ast.Expression {
	left := p.parseTerm()

	for {
		c := p.cur()
		if c.Kind != token.Operator {
			break
		}
		op, ok := additiveOps[c.Text()]
		if !ok {
			break
		}
		tok := p.advance()
		right := p.parseTerm()
		left = &ast.BinOp{Tok: tok, Op: op, Left: left, Right: right}
	}

	if !exprTerminators[p.cur().Kind] {
		p.raise("Expected ;")
	}
	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parsePow()

	for {
		c := p.cur()
		if c.Kind != token.Operator {
			break
		}
		op, ok := comparativeOps[c.Text()]
		if !ok {
			break
		}
		tok := p.advance()
		right := p.parsePow()
		left = &ast.BinOp{Tok: tok, Op: op, Left: left, Right: right}
	}

	return left
}

func (p *Parser) parsePow() ast.Expression {
	left := p.parseFactor()

	for {
		c := p.cur()
		if c.Kind != token.Operator {
			break
		}
		op, ok := powOps[c.Text()]
		if !ok {
			break
		}
		tok := p.advance()
		right := p.parseFactor()
		left = &ast.BinOp{Tok: tok, Op: op, Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseFactor() ast.Expression {
	c := p.cur()

	if c.Kind == token.Operator {
		if op, ok := unaryOps[c.Text()]; ok {
			tok := p.advance()
			operand := p.parseFactor()
			return &ast.UnaryOp{Tok: tok, Op: op, Operand: operand}
		}
	}

	switch c.Kind {
	case token.String:
		tok := p.advance()
		return p.parsePostfix(&ast.String{Tok: tok, Value: tok.Data})

	case token.Numeric:
		return p.parsePostfix(p.parseNumeric())

	case token.Identifier:
		tok := p.advance()
		var leaf ast.Expression
		if p.at(token.LParen) {
			leaf = &ast.FuncBase{Tok: tok, Name: tok.Text()}
		} else {
			leaf = &ast.Var{Tok: tok, Name: tok.Text()}
		}
		return p.parsePostfix(leaf)

	case token.LParen:
		p.advance()
		if p.at(token.RParen) {
			p.raise("Expression expected between parantheses")
		}
		inner := p.parseExpr()
		p.expect(token.RParen, "Expected )")
		return p.parsePostfix(inner)

	case token.LSquare:
		tok := p.advance()
		arr := &ast.Array{Tok: tok}
		if p.at(token.RSquare) {
			arr.Empty = true
		} else {
			arr.Elements = append(arr.Elements, p.parseExpr())
			for p.at(token.Comma) {
				p.advance()
				arr.Elements = append(arr.Elements, p.parseExpr())
			}
		}
		p.expect(token.RSquare, "Expected ]")
		return p.parsePostfix(arr)

	default:
		p.raise("Expected ;")
		return nil // unreachable: raise never returns
	}
}

// parseNumeric consumes a Numeric token, fusing a following ". Numeric"
// pair into a Float.
func (p *Parser) parseNumeric() ast.Expression {
	tok := p.advance()

	if p.at(token.Period) {
		if p.peek(1).Kind != token.Numeric {
			p.raise("Can't subscript integer literal")
		}
		p.advance() // '.'
		fracTok := p.advance()

		text := ustring.Join(tok.Data, []rune{'.'}, fracTok.Data)
		value, err := ustring.ToFloat(text)
		if err != nil {
			p.reporter.RaiseInternal("malformed float literal: " + string(text))
		}
		return &ast.Float{Tok: tok, Value: value}
	}

	value, err := parseIntegerLiteral(tok.Data)
	if err != nil {
		p.reporter.RaiseInternal("malformed integer literal: " + tok.Text())
	}
	return &ast.Integer{Tok: tok, Value: value}
}

func parseIntegerLiteral(data []rune) (int64, error) {
	switch {
	case ustring.IsHexDigits(data):
		return ustring.ToInt(data[2:], 16)
	case ustring.IsBinDigits(data):
		return ustring.ToInt(data[2:], 2)
	default:
		return ustring.ToInt(data, 10)
	}
}

// parsePostfix applies the left-associative "." member, "[ ]"
// subscript, and "( )" call chain onto base, per the postfix grammar.
func (p *Parser) parsePostfix(base ast.Expression) ast.Expression {
	for {
		switch {
		case p.at(token.Period):
			tok := p.advance()
			// Consume only the member's own leaf, not its postfix chain:
			// a trailing "[ ]"/"( )" binds to the accumulated Child, not
			// to the leaf, so the chain stays left-associative (e.g.
			// "foo().bar[0]" is Subscript(Child(foo(), bar), 0), not
			// Child(foo(), Subscript(bar, 0))).
			if !p.at(token.Identifier) {
				p.raise("Expected ;")
			}
			memberTok := p.advance()
			base = &ast.Child{Tok: tok, Parent: base, Child: &ast.Var{Tok: memberTok, Name: memberTok.Text()}}

		case p.at(token.LSquare):
			tok := p.advance()
			if p.at(token.RSquare) {
				p.raise("Subscripting with nothing")
			}
			index := p.parseExpr()
			p.expect(token.RSquare, "Expected ]")
			base = &ast.Subscript{Tok: tok, Base: base, Index: index}

		case p.at(token.LParen):
			tok := p.advance()
			var args []ast.Expression
			if !p.at(token.RParen) {
				args = append(args, p.parseExpr())
				for p.at(token.Comma) {
					p.advance()
					args = append(args, p.parseExpr())
				}
			}
			p.expect(token.RParen, "Expected )")
			base = &ast.Call{Tok: tok, Callee: base, Args: args}

		default:
			return base
		}
	}
}
