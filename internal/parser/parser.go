// Package parser implements the recursive-descent, Pratt-style parser
// described in spec.md §4.1: statement-level dispatch on the leading
// token, operator-precedence climbing for expressions, and no error
// recovery — the first syntax error aborts parsing.
package parser

import (
	"errors"
	"fmt"

	"lemonc/internal/ast"
	"lemonc/internal/diag"
	"lemonc/internal/lexer"
	"lemonc/internal/source"
	"lemonc/internal/token"
)

// Parser holds the state for parsing a single file's token stream.
type Parser struct {
	toks  []token.Token
	pos   int
	b     *ast.Builder
	file  source.FileID
	bag   *diag.Bag
	modID uint32
}

// abortParse unwinds the recursive descent back to ParseFile's recover
// once the first syntax error is reported (spec.md §4.1 "the parser does
// not attempt recovery").
type abortParse struct{}

func newParser(file source.FileID, toks []token.Token, b *ast.Builder, bag *diag.Bag, modID uint32) *Parser {
	if len(toks) == 0 {
		toks = []token.Token{{Kind: token.EOF}}
	}
	return &Parser{toks: toks, b: b, file: file, bag: bag, modID: modID}
}

// ParseFile tokenizes and parses file, matching the signature
// internal/module.Loader expects. Rich diagnostics (beyond the first) are
// not available through this entrypoint; callers that want the full bag
// should use ParseFileDiag.
func ParseFile(file *source.File) (*ast.Builder, ast.File, error) {
	b, astFile, bag := ParseFileDiag(file)
	if bag.HasErrors() {
		return b, astFile, errors.New(bag.Items()[0].Text)
	}
	return b, astFile, nil
}

// ParseFileDiag tokenizes and parses file, returning every diagnostic
// raised (at most one, since the parser aborts on its first error).
func ParseFileDiag(file *source.File) (*ast.Builder, ast.File, *diag.Bag) {
	b := ast.NewBuilder()
	bag := diag.NewBag(1)
	toks := lexer.New(file).Tokenize()
	p := newParser(file.ID, toks, b, bag, diag.NoModID)

	var items []ast.ItemID
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(abortParse); !ok {
					panic(r)
				}
			}
		}()
		items = p.parseItems()
	}()

	span := source.Span{File: file.ID, Start: 0, End: p.lastEnd()}
	return b, ast.File{Source: file.ID, Items: items, Span: span}, bag
}

func (p *Parser) lastEnd() uint32 {
	if len(p.toks) == 0 {
		return 0
	}
	return p.toks[len(p.toks)-1].Span.End
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return p.toks[idx]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail(p.peek().Span, "expected %s, found %s", k, p.peek().Kind)
	}
	return p.advance()
}

func (p *Parser) fail(span source.Span, format string, args ...any) {
	p.bag.Add(diag.New(diag.Error, diag.Syntax, p.modID, span, fmt.Sprintf(format, args...)))
	panic(abortParse{})
}

func (p *Parser) unimplemented(span source.Span, what string) {
	p.bag.Add(diag.New(diag.Error, diag.Build, p.modID, span, fmt.Sprintf("unimplemented: %s", what)))
	panic(abortParse{})
}

func (p *Parser) intern(text string) source.StringID { return p.b.Intern(text) }

// coverExpr returns the span covering two already-recorded expressions.
func (p *Parser) coverExpr(a, b ast.ExprID) ast.Range {
	return p.b.Expr(a).Span.Cover(p.b.Expr(b).Span)
}
