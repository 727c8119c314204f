package parser

import (
	"strconv"
	"strings"

	"lemonc/internal/ast"
	"lemonc/internal/token"
)

// parseExpr parses one full expression, including assignment and pipe,
// the loosest-binding forms (spec.md §4.1).
func (p *Parser) parseExpr() ast.ExprID {
	return p.parseAssign()
}

// parseAssign handles `target = value`, right-associative, then falls
// through to pipe/range and the ordinary binary-precedence ladder.
func (p *Parser) parseAssign() ast.ExprID {
	left := p.parsePipeOrRange()
	if p.at(token.Assign) {
		p.advance()
		right := p.parseAssign()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprAssign, Target: left, Value: right, Span: p.coverExpr(left, right)})
	}
	return left
}

// parsePipeOrRange handles `a |> b` and `a .. b`, which the spec places
// at MIN precedence but models as their own Expr kinds rather than a
// BinaryOp (spec.md §3 ExprPipe/ExprRange).
func (p *Parser) parsePipeOrRange() ast.ExprID {
	left := p.parseBinary(precMin)
	for {
		switch p.peek().Kind {
		case token.PipeGt:
			p.advance()
			right := p.parseBinary(precMin)
			left = p.b.AddExpr(ast.Expr{Kind: ast.ExprPipe, Left: left, Right: right, Span: p.coverExpr(left, right)})
		case token.DotDot:
			p.advance()
			right := p.parseBinary(precMin)
			left = p.b.AddExpr(ast.Expr{Kind: ast.ExprRange, Left: left, Right: right, Span: p.coverExpr(left, right)})
		default:
			return left
		}
	}
}

// parseBinary is the precedence-climbing core for the fixed binary
// operators (CMP/ADD/MUL/MAX plus the MIN-level bitwise/shift ops).
func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	for {
		prec, ok := binaryPrec(p.peek().Kind)
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(prec + 1) // left-associative
		left = p.b.AddExpr(ast.Expr{
			Kind: ast.ExprBinary, Op: binaryOpFor(opTok.Kind),
			Left: left, Right: right, Span: p.coverExpr(left, right),
		})
	}
}

// parseUnary handles the UNA level (`!`, unary `-`) plus the borrow (`&`,
// `&mut`) and deref (`*`) prefixes, which bind tighter than every binary
// operator.
func (p *Parser) parseUnary() ast.ExprID {
	switch p.peek().Kind {
	case token.Bang:
		tok := p.advance()
		operand := p.parseUnary()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprUnary, UOp: ast.UnaryNot, Operand: operand, Span: tok.Span.Cover(p.b.Expr(operand).Span)})
	case token.Minus:
		tok := p.advance()
		operand := p.parseUnary()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprUnary, UOp: ast.UnaryNeg, Operand: operand, Span: tok.Span.Cover(p.b.Expr(operand).Span)})
	case token.Amp:
		tok := p.advance()
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		operand := p.parseUnary()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprBorrow, Mutable: mutable, Operand: operand, Span: tok.Span.Cover(p.b.Expr(operand).Span)})
	case token.Star:
		tok := p.advance()
		operand := p.parseUnary()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprDeref, Operand: operand, Span: tok.Span.Cover(p.b.Expr(operand).Span)})
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix parses the greedy right-hand continuations that attach to
// a primary: `.member`, `::associate`, `(args)`, and `{ fields }` struct
// init (only valid when the base is a bare identifier, spec.md §4.1).
func (p *Parser) parsePostfix(base ast.ExprID) ast.ExprID {
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident)
			base = p.b.AddExpr(ast.Expr{Kind: ast.ExprMember, Base: base, Member: p.intern(name.Text), Span: p.b.Expr(base).Span.Cover(name.Span)})
		case token.ColonColon:
			p.advance()
			name := p.expect(token.Ident)
			base = p.b.AddExpr(ast.Expr{Kind: ast.ExprAssociate, Base: base, Member: p.intern(name.Text), Span: p.b.Expr(base).Span.Cover(name.Span)})
		case token.LParen:
			base = p.parseCall(base)
		case token.LBrace:
			if p.b.Expr(base).Kind != ast.ExprIdent || p.peekAt(-1).Kind != token.Ident {
				return base
			}
			base = p.parseStructInit(base)
		default:
			return base
		}
	}
}

func (p *Parser) parseCall(callee ast.ExprID) ast.ExprID {
	p.expect(token.LParen)
	var args []ast.ExprID
	for !p.at(token.RParen) {
		args = append(args, p.parseExpr())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RParen)
	return p.b.AddExpr(ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: args, Span: p.b.Expr(callee).Span.Cover(end.Span)})
}

func (p *Parser) parseStructInit(identExpr ast.ExprID) ast.ExprID {
	typeName := p.b.Expr(identExpr).Name
	start := p.b.Expr(identExpr).Span
	p.expect(token.LBrace)
	var fields []ast.FieldInit
	for !p.at(token.RBrace) {
		name := p.expect(token.Ident)
		p.expect(token.Colon)
		value := p.parseExpr()
		fields = append(fields, ast.FieldInit{Name: p.intern(name.Text), Value: value})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)
	return p.b.AddExpr(ast.Expr{Kind: ast.ExprStructInit, TypeName: typeName, Fields: fields, Span: start.Cover(end.Span)})
}

// parsePrimary parses a literal, identifier, parenthesized expression,
// block expression, or if-expression.
func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		digits, base := tok.Text, 10
		if lower := strings.ToLower(digits); len(digits) > 2 && strings.HasPrefix(lower, "0x") {
			digits, base = digits[2:], 16
		} else if len(digits) > 2 && strings.HasPrefix(lower, "0b") {
			digits, base = digits[2:], 2
		}
		v, err := strconv.ParseUint(digits, base, 64)
		if err != nil {
			p.fail(tok.Span, "invalid integer literal %q", tok.Text)
		}
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitInt, IntValue: v, Span: tok.Span})
	case token.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.fail(tok.Span, "invalid float literal %q", tok.Text)
		}
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitFloat, FloatValue: f, Span: tok.Span})
	case token.StringLit:
		p.advance()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitString, StringValue: tok.Text, Span: tok.Span})
	case token.CharLit:
		p.advance()
		var ch byte
		if r := []rune(tok.Text); len(r) > 0 {
			ch = byte(r[0])
		}
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitChar, CharValue: ch, Span: tok.Span})
	case token.KwTrue:
		p.advance()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitBool, BoolValue: true, Span: tok.Span})
	case token.KwFalse:
		p.advance()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprLitBool, BoolValue: false, Span: tok.Span})
	case token.Ident:
		p.advance()
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprIdent, Name: p.intern(tok.Text), Span: tok.Span})
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return inner
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwIf:
		return p.parseIfExpr()
	default:
		p.fail(tok.Span, "unexpected token %s in expression", tok.Kind)
		return ast.NoExprID
	}
}

// parseIfExpr parses `if (cond) { then } else { else }`, with an optional
// else clause (a bare if-expression without else types as Unit/void in
// the branch that is skipped, spec.md §8 scenario 5).
func (p *Parser) parseIfExpr() ast.ExprID {
	start := p.expect(token.KwIf)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseBlockExpr()
	span := start.Span.Cover(p.b.Expr(then).Span)
	if !p.at(token.KwElse) {
		return p.b.AddExpr(ast.Expr{Kind: ast.ExprIf, Cond: cond, Then: then, Span: span})
	}
	p.advance()
	var elseExpr ast.ExprID
	if p.at(token.KwIf) {
		elseExpr = p.parseIfExpr()
	} else {
		elseExpr = p.parseBlockExpr()
	}
	span = start.Span.Cover(p.b.Expr(elseExpr).Span)
	return p.b.AddExpr(ast.Expr{Kind: ast.ExprIf, Cond: cond, Then: then, Else: elseExpr, HasElse: true, Span: span})
}

// parseBlockExpr parses `{ stmt* expr? }`: a sequence of statements with
// an optional trailing, semicolon-less expression that is the block's
// value.
func (p *Parser) parseBlockExpr() ast.ExprID {
	start := p.expect(token.LBrace)
	var stmts []ast.StmtID
	var trailing ast.ExprID
	hasTrailing := false
	for !p.at(token.RBrace) {
		stmtID, trailingExpr, isTrailing := p.parseBlockElement()
		if isTrailing {
			trailing = trailingExpr
			hasTrailing = true
			break
		}
		stmts = append(stmts, stmtID)
	}
	end := p.expect(token.RBrace)
	return p.b.AddExpr(ast.Expr{Kind: ast.ExprBlock, Stmts: stmts, Trailing: trailing, HasTrailing: hasTrailing, Span: start.Span.Cover(end.Span)})
}
