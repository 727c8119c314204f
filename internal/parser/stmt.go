package parser

import (
	"lemonc/internal/ast"
	"lemonc/internal/token"
)

// parseBlockElement parses one element of a block's body: either a
// statement, or — if an expression is parsed with no following `;` and
// the block is about to close — the block's trailing value expression.
// The bool result reports which case occurred.
func (p *Parser) parseBlockElement() (ast.StmtID, ast.ExprID, bool) {
	switch p.peek().Kind {
	case token.KwLet:
		return p.parseLetStmt(false), ast.NoExprID, false
	case token.KwConst:
		return p.parseLetStmt(true), ast.NoExprID, false
	case token.KwRet:
		return p.parseRetStmt(), ast.NoExprID, false
	case token.KwWhile:
		return p.parseWhileStmt(), ast.NoExprID, false
	case token.KwFor:
		return p.parseForStmt(), ast.NoExprID, false
	default:
		return p.parseExprElement()
	}
}

// parseExprElement parses an expression and decides, based on whether a
// `;` follows, whether it is an ordinary expression-statement or the
// block's trailing value.
func (p *Parser) parseExprElement() (ast.StmtID, ast.ExprID, bool) {
	expr := p.parseExpr()
	if p.at(token.Semi) {
		p.advance()
		span := p.b.Expr(expr).Span
		return p.b.AddStmt(ast.Stmt{Kind: ast.StmtExpr, Expr: expr, Span: span}), ast.NoExprID, false
	}
	if p.at(token.RBrace) {
		return ast.NoStmtID, expr, true
	}
	// No semicolon but the block continues: still a statement (e.g. the
	// value of an if-used-as-statement without a trailing `;`).
	span := p.b.Expr(expr).Span
	return p.b.AddStmt(ast.Stmt{Kind: ast.StmtExpr, Expr: expr, Span: span}), ast.NoExprID, false
}

func (p *Parser) parseLetStmt(isConst bool) ast.StmtID {
	start := p.advance() // `let` or `const`
	mut := false
	if !isConst && p.at(token.KwMut) {
		p.advance()
		mut = true
	}
	name := p.expect(token.Ident)
	var typeAnn ast.TypeExprID
	if p.at(token.Colon) {
		p.advance()
		typeAnn = p.parseTypeExpr()
	}
	p.expect(token.Assign)
	value := p.parseExpr()
	end := p.b.Expr(value).Span
	if p.at(token.Semi) {
		end = p.advance().Span
	}
	kind := ast.StmtLet
	if isConst {
		kind = ast.StmtConst
	}
	return p.b.AddStmt(ast.Stmt{
		Kind: kind, Mut: mut, Name: p.intern(name.Text), TypeAnn: typeAnn, Value: value,
		Span: start.Span.Cover(end),
	})
}

func (p *Parser) parseRetStmt() ast.StmtID {
	start := p.advance() // `ret`
	if p.at(token.Semi) || p.at(token.RBrace) {
		end := start.Span
		if p.at(token.Semi) {
			end = p.advance().Span
		}
		return p.b.AddStmt(ast.Stmt{Kind: ast.StmtRet, HasValue: false, Span: start.Span.Cover(end)})
	}
	value := p.parseExpr()
	end := p.b.Expr(value).Span
	if p.at(token.Semi) {
		end = p.advance().Span
	}
	return p.b.AddStmt(ast.Stmt{Kind: ast.StmtRet, HasValue: true, Value: value, Span: start.Span.Cover(end)})
}

func (p *Parser) parseWhileStmt() ast.StmtID {
	start := p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseBlockExpr()
	return p.b.AddStmt(ast.Stmt{Kind: ast.StmtWhile, Cond: cond, Body: body, Span: start.Span.Cover(p.b.Expr(body).Span)})
}

// parseForStmt parses the `for` syntax (`for (x : iter) { ... }`) for
// completeness of the grammar. Checking always rejects it with an
// "unimplemented" Build-stage diagnostic (spec.md §9 open question:
// for-loop lowering is left out of the core; only its syntax is parsed so
// the rest of a file around it can still be checked).
func (p *Parser) parseForStmt() ast.StmtID {
	start := p.expect(token.KwFor)
	p.expect(token.LParen)
	iterVar := p.expect(token.Ident)
	p.expect(token.Colon)
	iter := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseBlockExpr()
	return p.b.AddStmt(ast.Stmt{
		Kind: ast.StmtFor, IterVar: p.intern(iterVar.Text), Iter: iter, Body: body,
		Span: start.Span.Cover(p.b.Expr(body).Span),
	})
}
