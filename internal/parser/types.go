package parser

import (
	"lemonc/internal/ast"
	"lemonc/internal/token"
)

// parseTypeExpr parses a type annotation: a bare name (`i32`, `Point`) or
// a borrow (`&T`, `&mut T`). Generic type arguments are not part of this
// language's surface syntax (spec.md Non-goals: no generic
// monomorphisation beyond simple substitution), so TypeExpr.Generics is
// always left empty by the parser.
func (p *Parser) parseTypeExpr() ast.TypeExprID {
	if p.at(token.Amp) {
		start := p.advance()
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		inner := p.parseTypeExpr()
		return p.b.AddType(ast.TypeExpr{
			Kind: ast.TypeExprBorrow, Mutable: mutable, Inner: inner,
			Span: start.Span.Cover(p.b.Type(inner).Span),
		})
	}
	name := p.expect(token.Ident)
	return p.b.AddType(ast.TypeExpr{Kind: ast.TypeExprName, Name: p.intern(name.Text), Span: name.Span})
}
