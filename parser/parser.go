// Package parser implements a hand-written recursive-descent parser for
// Fo source, producing an *ast.Program. See DESIGN.md for why this isn't
// generated from the teacher's LALR grammar: no .egg/.y grammar file or
// generated parser.go is present anywhere in the retrieval pack, so there
// is no table to bind modernc.org/scanner's runtime to. The grammar
// itself, precedence table, and statement/expression shapes are ported
// directly from original_source/compiler/fo_parser.py's PLY rules.
package parser

import (
	"fmt"

	"github.com/fo-lang/foc/ast"
	"github.com/fo-lang/foc/lexer"
	"github.com/fo-lang/foc/types"
)

// Error is a parse failure at a specific token.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser consumes a pre-tokenized stream and builds an *ast.Program.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses a complete Fo source file.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, &Error{
			Pos: p.cur().Pos,
			Msg: fmt.Sprintf("expected %s, got %s %q", k, p.cur().Kind, p.cur().Text),
		}
	}
	return p.advance(), nil
}

// --- program ---

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Kind != lexer.EOF {
		switch p.cur().Kind {
		case lexer.Var:
			specs, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}
			prog.VarDecls = append(prog.VarDecls, specs...)
		case lexer.Type:
			specs, err := p.parseTypeDecl()
			if err != nil {
				return nil, err
			}
			prog.TypeDecls = append(prog.TypeDecls, specs...)
		case lexer.Func:
			fd, err := p.parseFunctionDecl()
			if err != nil {
				return nil, err
			}
			prog.FunctionDecls = append(prog.FunctionDecls, fd)
		default:
			return nil, &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf("unexpected top-level token %s", p.cur().Kind)}
		}
	}
	return prog, nil
}

func (p *Parser) parseFunctionDecl() (*ast.FunctionDecl, error) {
	line := p.cur().Pos.Line
	if _, err := p.expect(lexer.Func); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	params, ret, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{
		BaseStmt: ast.BaseStmt{SourceLine: line},
		FuncName: nameTok.Text,
		Params:   params,
		RetType:  ret,
		Stmts:    body,
	}, nil
}

func (p *Parser) parseSignature() ([]*ast.Param, types.Type, error) {
	params, err := p.parseParameters()
	if err != nil {
		return nil, types.Type{}, err
	}
	ret := types.NewVoid()
	if p.cur().Kind != lexer.LBrace {
		ret, err = p.parseType()
		if err != nil {
			return nil, types.Type{}, err
		}
	}
	return params, ret, nil
}

func (p *Parser) parseParameters() ([]*ast.Param, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for p.cur().Kind != lexer.RParen {
		if len(params) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
		nameTok, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{
			Var:  &ast.Identifier{Name: nameTok.Text, Typ: t},
			Type: t,
		})
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseType() (types.Type, error) {
	if p.cur().Kind == lexer.Func {
		p.advance()
		params, ret, err := p.parseSignature()
		if err != nil {
			return types.Type{}, err
		}
		paramTypes := make([]types.Type, len(params))
		for i, pr := range params {
			paramTypes[i] = pr.Type
		}
		return types.NewFunc(paramTypes, ret), nil
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return types.Type{}, err
	}
	return types.FromTypeName(nameTok.Text), nil
}

func (p *Parser) parseFunctionBody() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

// --- statements ---

func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for p.cur().Kind != lexer.RBrace && p.cur().Kind != lexer.EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		// Expand a grouped `var (...)` decl into its member specs here, so
		// every later compiler pass only ever sees the exported ast.*
		// statement kinds it type-switches on — multiVarDecl never leaves
		// this package.
		if m, ok := s.(*multiVarDecl); ok {
			stmts = append(stmts, m.Expand()...)
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.Var:
		specs, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		// Only single-spec local var decls produce one statement slot in
		// the original grammar's statement_list flattening; a grouped
		// `var (...)` decl contributes each spec as its own statement.
		if len(specs) == 1 {
			return specs[0], nil
		}
		return &multiVarDecl{specs: specs}, nil
	case lexer.Return:
		return p.parseReturnStmt()
	case lexer.Semicolon:
		p.advance()
		return nil, nil
	default:
		return p.parseSimpleStmt()
	}
}

// multiVarDecl is a small local shim for `var (a T; b T;)` groups used
// inside a function body: the grammar yields a list of var_specs, and
// every pass iterates a function's body as a flat statement slice, so a
// grouped declaration is expanded back into its members by
// parseStatementList rather than carried as its own node kind. It satisfies
// ast.Statement only so parseStatement can return a single value; the
// embedded ast.Statement is left nil and none of its methods is ever
// called, because parseStatementList unwraps the shim immediately.
type multiVarDecl struct {
	ast.Statement
	specs []*ast.VarSpec
}

// Expand returns the wrapped specs as plain statements.
func (m *multiVarDecl) Expand() []ast.Statement {
	out := make([]ast.Statement, len(m.specs))
	for i, s := range m.specs {
		out[i] = s
	}
	return out
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	line := p.cur().Pos.Line
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ast.Block{BaseStmt: ast.BaseStmt{SourceLine: line}, Stmts: stmts}, nil
}

func (p *Parser) parseVarDecl() ([]*ast.VarSpec, error) {
	if _, err := p.expect(lexer.Var); err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.LParen {
		p.advance()
		var specs []*ast.VarSpec
		for p.cur().Kind != lexer.RParen {
			s, err := p.parseVarSpec()
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return specs, nil
	}
	s, err := p.parseVarSpec()
	if err != nil {
		return nil, err
	}
	return []*ast.VarSpec{s}, nil
}

func (p *Parser) parseVarSpec() (*ast.VarSpec, error) {
	line := p.cur().Pos.Line
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var initExpr ast.Expr
	if p.cur().Kind == lexer.Equal {
		p.advance()
		initExpr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.VarSpec{
		BaseStmt: ast.BaseStmt{SourceLine: line},
		Var:      &ast.Identifier{Name: nameTok.Text, Typ: t},
		InitExpr: initExpr,
	}, nil
}

func (p *Parser) parseTypeDecl() ([]*ast.TypeSpec, error) {
	if _, err := p.expect(lexer.Type); err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.LParen {
		p.advance()
		var specs []*ast.TypeSpec
		for p.cur().Kind != lexer.RParen {
			s, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return specs, nil
	}
	s, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	return []*ast.TypeSpec{s}, nil
}

func (p *Parser) parseTypeSpec() (*ast.TypeSpec, error) {
	line := p.cur().Pos.Line
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Equal); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.TypeSpec{BaseStmt: ast.BaseStmt{SourceLine: line}, Name: nameTok.Text, Underlying: t}, nil
}

func (p *Parser) parseReturnStmt() (*ast.Return, error) {
	line := p.cur().Pos.Line
	p.advance()
	if p.cur().Kind == lexer.Semicolon {
		p.advance()
		return &ast.Return{BaseStmt: ast.BaseStmt{SourceLine: line}}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Return{BaseStmt: ast.BaseStmt{SourceLine: line}, Expr: e}, nil
}

// parseSimpleStmt disambiguates `identifier = expr;` (assignment) from a
// bare expression statement with one token of lookahead, matching what
// the original grammar's LALR table resolves automatically.
func (p *Parser) parseSimpleStmt() (ast.Statement, error) {
	line := p.cur().Pos.Line
	if p.cur().Kind == lexer.Ident && p.peekAt(1).Kind == lexer.Equal {
		nameTok := p.advance()
		p.advance() // '='
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Assignment{
			BaseStmt: ast.BaseStmt{SourceLine: line},
			Var:      &ast.Identifier{Name: nameTok.Text},
			Expr:     e,
		}, nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{BaseStmt: ast.BaseStmt{SourceLine: line}, Expr: e}, nil
}

// --- expressions ---
//
// Precedence, low to high (original_source/compiler/fo_parser.py):
//   or -> and -> rel (all nonassoc) -> add/sub (left) -> mul/div/mod (left) -> unary

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.OrOp {
		op := p.advance().Text
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{LHS: left, Op: op, RHS: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.AndOp {
		op := p.advance().Text
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{LHS: left, Op: op, RHS: right}, nil
	}
	return left, nil
}

func (p *Parser) parseRel() (ast.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.RelOp {
		op := p.advance().Text
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{LHS: left, Op: op, RHS: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdd() (ast.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.AddOp || p.cur().Kind == lexer.MinusOp {
		op := p.advance().Text
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{LHS: left, Op: op, RHS: right}
	}
	return left, nil
}

func (p *Parser) parseMul() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.TimesOp || p.cur().Kind == lexer.DivideOp || p.cur().Kind == lexer.ModuloOp {
		op := p.advance().Text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{LHS: left, Op: op, RHS: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Kind {
	case lexer.AddOp, lexer.MinusOp, lexer.NotOp, lexer.LArrow:
		op := p.advance().Text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Expr: operand}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	e, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.LParen {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		e = &ast.FunctionCall{FuncExpr: e, Args: args}
	}
	return e, nil
}

func (p *Parser) parseArguments() ([]ast.Expr, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.cur().Kind != lexer.RParen {
		if len(args) > 0 {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseOperand() (ast.Expr, error) {
	switch p.cur().Kind {
	case lexer.IntLit:
		tok := p.advance()
		var v int64
		fmt.Sscanf(tok.Text, "%d", &v)
		return &ast.IntLit{Val: v}, nil
	case lexer.FloatLit:
		tok := p.advance()
		var v float64
		fmt.Sscanf(tok.Text, "%g", &v)
		return &ast.FloatLit{Val: v}, nil
	case lexer.Ident:
		tok := p.advance()
		return &ast.Identifier{Name: tok.Text}, nil
	case lexer.LParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.Func:
		return p.parseFunctionLit()
	default:
		return nil, &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf("unexpected token %s in expression", p.cur().Kind)}
	}
}

func (p *Parser) parseFunctionLit() (*ast.FunctionLit, error) {
	p.advance() // 'func'
	params, ret, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLit{Params: params, RetType: ret, Stmts: body}, nil
}
