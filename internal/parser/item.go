package parser

import (
	"lemonc/internal/ast"
	"lemonc/internal/token"
)

// parseItems parses every top-level item up to EOF (spec.md §4.1).
func (p *Parser) parseItems() []ast.ItemID {
	var items []ast.ItemID
	for !p.at(token.EOF) {
		items = append(items, p.parseItem())
	}
	return items
}

func (p *Parser) parseItem() ast.ItemID {
	start := p.peek().Span
	pub := false
	if p.at(token.KwPub) {
		p.advance()
		pub = true
	}
	switch p.peek().Kind {
	case token.KwImport:
		return p.parseImportItem(start, pub)
	case token.KwLet:
		return p.parseTopLevelBinding(start, pub, false)
	case token.KwConst:
		return p.parseTopLevelBinding(start, pub, true)
	case token.KwFn:
		return p.parseFnItem(start, pub, false)
	case token.KwExtern:
		p.advance()
		p.expect(token.KwFn)
		return p.parseExternFnItem(start, pub)
	case token.KwType:
		return p.parseTypeItem(start, pub)
	case token.KwImpl:
		return p.parseImplItem(start, pub)
	default:
		p.fail(p.peek().Span, "expected an item (let, const, fn, extern fn, type, impl, import), found %s", p.peek().Kind)
		return ast.NoItemID
	}
}

func (p *Parser) parseImportItem(start ast.Range, pub bool) ast.ItemID {
	p.expect(token.KwImport)
	p.expect(token.LParen)
	path := p.expect(token.StringLit)
	end := p.expect(token.RParen)
	if p.at(token.Semi) {
		end = p.advance()
	}
	return p.b.AddItem(ast.Item{Kind: ast.ItemImport, Pub: pub, ImportPath: p.intern(path.Text), Span: start.Cover(end.Span)})
}

func (p *Parser) parseTopLevelBinding(start ast.Range, pub, isConst bool) ast.ItemID {
	p.advance() // `let` or `const`
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
	kind := ast.ItemLet
	if isConst {
		kind = ast.ItemConst
	}
	return p.b.AddItem(ast.Item{
		Kind: kind, Pub: pub, Mut: mut, Name: p.intern(name.Text), TypeAnn: typeAnn, Value: value,
		Span: start.Cover(end),
	})
}

// parseParams parses a parenthesized, comma-separated parameter list:
// `(name: Type, ...)`, with an optional trailing `...` marking a variadic
// extern fn (spec.md §3 ExternFn.variadic).
func (p *Parser) parseParams() ([]ast.Param, bool) {
	p.expect(token.LParen)
	var params []ast.Param
	variadic := false
	for !p.at(token.RParen) {
		if p.at(token.Ellipsis) {
			p.advance()
			variadic = true
			break
		}
		name := p.expect(token.Ident)
		p.expect(token.Colon)
		typeAnn := p.parseTypeExpr()
		params = append(params, ast.Param{Name: p.intern(name.Text), TypeAnn: typeAnn})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return params, variadic
}

func (p *Parser) parseFnItem(start ast.Range, pub bool, isMethod bool) ast.ItemID {
	p.expect(token.KwFn)
	name := p.expect(token.Ident)
	params, _ := p.parseParams()
	var ret ast.TypeExprID
	if p.at(token.Colon) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	p.expect(token.Assign)
	body := p.parseBlockExpr()
	return p.b.AddItem(ast.Item{
		Kind: ast.ItemFn, Pub: pub, Name: p.intern(name.Text), Params: params, Ret: ret, Body: body,
		Span: start.Cover(p.b.Expr(body).Span),
	})
}

func (p *Parser) parseExternFnItem(start ast.Range, pub bool) ast.ItemID {
	name := p.expect(token.Ident)
	params, variadic := p.parseParams()
	var ret ast.TypeExprID
	if p.at(token.Colon) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	end := p.peek().Span
	if p.at(token.Semi) {
		end = p.advance().Span
	}
	return p.b.AddItem(ast.Item{
		Kind: ast.ItemExternFn, Pub: pub, Name: p.intern(name.Text), Params: params, Variadic: variadic, Ret: ret,
		Span: start.Cover(end),
	})
}

func (p *Parser) parseTypeItem(start ast.Range, pub bool) ast.ItemID {
	p.expect(token.KwType)
	name := p.expect(token.Ident)
	if p.at(token.Assign) {
		p.advance()
		if p.at(token.LBrace) {
			return p.parseStructBody(start, pub, name.Text)
		}
		alias := p.parseTypeExpr()
		end := p.peek().Span
		if p.at(token.Semi) {
			end = p.advance().Span
		}
		return p.b.AddItem(ast.Item{
			Kind: ast.ItemType, Pub: pub, Name: p.intern(name.Text), TypeDeclKind: ast.TypeDeclAlias, Alias: alias,
			Span: start.Cover(end),
		})
	}
	p.fail(p.peek().Span, "expected '=' after type name %q", name.Text)
	return ast.NoItemID
}

func (p *Parser) parseStructBody(start ast.Range, pub bool, name string) ast.ItemID {
	p.expect(token.LBrace)
	var fields []ast.TypeFieldDecl
	for !p.at(token.RBrace) {
		fieldName := p.expect(token.Ident)
		p.expect(token.Colon)
		typeAnn := p.parseTypeExpr()
		fields = append(fields, ast.TypeFieldDecl{Name: p.intern(fieldName.Text), TypeAnn: typeAnn})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)
	return p.b.AddItem(ast.Item{
		Kind: ast.ItemType, Pub: pub, Name: p.intern(name), TypeDeclKind: ast.TypeDeclStruct, Fields: fields,
		Span: start.Cover(end.Span),
	})
}

func (p *Parser) parseImplItem(start ast.Range, pub bool) ast.ItemID {
	p.expect(token.KwImpl)
	target := p.expect(token.Ident)
	p.expect(token.Assign)
	p.expect(token.LBrace)
	var methods []ast.ItemID
	for !p.at(token.RBrace) {
		methodStart := p.peek().Span
		methodPub := false
		if p.at(token.KwPub) {
			p.advance()
			methodPub = true
		}
		methods = append(methods, p.parseFnItem(methodStart, methodPub, true))
	}
	end := p.expect(token.RBrace)
	return p.b.AddItem(ast.Item{
		Kind: ast.ItemImpl, Pub: pub, ImplTarget: p.intern(target.Text), Methods: methods,
		Span: start.Cover(end.Span),
	})
}
