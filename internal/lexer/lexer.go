// Package lexer turns source text into a stream of tokens. It is an
// external collaborator to the core (spec.md §1) — included here only so
// the core has something real to drive in tests and the cmd/lemonc CLI.
package lexer

import (
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"lemonc/internal/source"
	"lemonc/internal/token"
)

// Lexer scans one source.File into tokens on demand.
type Lexer struct {
	file *source.File
	pos  uint32
}

// New creates a Lexer over file.
func New(file *source.File) *Lexer {
	return &Lexer{file: file}
}

func (lx *Lexer) eof() bool { return int(lx.pos) >= len(lx.file.Text) }

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Text[lx.pos]
}

func (lx *Lexer) peekAt(off uint32) byte {
	i := int(lx.pos + off)
	if i >= len(lx.file.Text) {
		return 0
	}
	return lx.file.Text[i]
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

// Tokenize scans the whole file and returns its tokens, ending with an EOF
// token. It never returns an error: unrecognized bytes become Invalid
// tokens, and the parser is the one that turns that into a syntax error
// (spec.md §4.1 "the parser does not attempt recovery").
func (lx *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next returns the next significant token, skipping whitespace and comments.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	start := lx.pos
	if lx.eof() {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}
	ch := lx.peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdent(start)
	case isDigit(ch):
		return lx.scanNumber(start)
	case ch == '"':
		return lx.scanString(start)
	case ch == '\'':
		return lx.scanChar(start)
	default:
		return lx.scanOperator(start)
	}
}

func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		switch {
		case lx.peek() == ' ' || lx.peek() == '\t' || lx.peek() == '\n' || lx.peek() == '\r':
			lx.pos++
		case lx.peek() == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.pos++
			}
		case lx.peek() == '/' && lx.peekAt(1) == '*':
			lx.pos += 2
			for !lx.eof() && !(lx.peek() == '*' && lx.peekAt(1) == '/') {
				lx.pos++
			}
			if !lx.eof() {
				lx.pos += 2
			}
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (lx *Lexer) scanIdent(start uint32) token.Token {
	for !lx.eof() && isIdentCont(lx.peek()) {
		lx.pos++
	}
	text := string(lx.file.Text[start:lx.pos])
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kw, Span: lx.span(start), Text: text}
	}
	return token.Token{Kind: token.Ident, Span: lx.span(start), Text: text}
}

// scanNumber handles decimal, 0x hex, 0b binary integers and dotted floats
// (spec.md §4.1 "Literals").
func (lx *Lexer) scanNumber(start uint32) token.Token {
	isFloat := false
	if lx.peek() == '0' && (lx.peekAt(1) == 'x' || lx.peekAt(1) == 'X') {
		lx.pos += 2
		for !lx.eof() && isHex(lx.peek()) {
			lx.pos++
		}
	} else if lx.peek() == '0' && (lx.peekAt(1) == 'b' || lx.peekAt(1) == 'B') {
		lx.pos += 2
		for !lx.eof() && (lx.peek() == '0' || lx.peek() == '1') {
			lx.pos++
		}
	} else {
		for !lx.eof() && isDigit(lx.peek()) {
			lx.pos++
		}
		if !lx.eof() && lx.peek() == '.' && isDigit(lx.peekAt(1)) {
			isFloat = true
			lx.pos++
			for !lx.eof() && isDigit(lx.peek()) {
				lx.pos++
			}
		}
	}
	text := string(lx.file.Text[start:lx.pos])
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	return token.Token{Kind: kind, Span: lx.span(start), Text: text}
}

var escapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', '0': 0, '\\': '\\', '\'': '\'', '"': '"',
}

func (lx *Lexer) scanString(start uint32) token.Token {
	lx.pos++ // opening quote
	var b strings.Builder
	for !lx.eof() && lx.peek() != '"' {
		if lx.peek() == '\\' && !lx.eof() {
			lx.pos++
			if r, ok := escapes[lx.peek()]; ok {
				b.WriteByte(r)
			}
			lx.pos++
			continue
		}
		b.WriteByte(lx.peek())
		lx.pos++
	}
	if !lx.eof() {
		lx.pos++ // closing quote
	}
	// Normalize to NFC so two source files spelling the same string with
	// different combining-character sequences intern to one StringID
	// (vovakirdan-surge/internal/vm's string intrinsics normalize for the
	// same reason, via the same package).
	return token.Token{Kind: token.StringLit, Span: lx.span(start), Text: norm.NFC.String(b.String())}
}

func (lx *Lexer) scanChar(start uint32) token.Token {
	lx.pos++ // opening quote
	var value byte
	if lx.peek() == '\\' {
		lx.pos++
		if r, ok := escapes[lx.peek()]; ok {
			value = r
		}
		lx.pos++
	} else {
		value = lx.peek()
		lx.pos++
	}
	if !lx.eof() && lx.peek() == '\'' {
		lx.pos++
	}
	return token.Token{Kind: token.CharLit, Span: lx.span(start), Text: string(value)}
}

func (lx *Lexer) scanOperator(start uint32) token.Token {
	two := func(second byte, k2 token.Kind, k1 token.Kind) token.Token {
		if lx.peekAt(1) == second {
			lx.pos += 2
			return token.Token{Kind: k2, Span: lx.span(start)}
		}
		lx.pos++
		return token.Token{Kind: k1, Span: lx.span(start)}
	}
	switch lx.peek() {
	case '+':
		lx.pos++
		return token.Token{Kind: token.Plus, Span: lx.span(start)}
	case '-':
		return two('>', token.Arrow, token.Minus)
	case '*':
		return two('*', token.StarStar, token.Star)
	case '/':
		lx.pos++
		return token.Token{Kind: token.Slash, Span: lx.span(start)}
	case '%':
		lx.pos++
		return token.Token{Kind: token.Percent, Span: lx.span(start)}
	case '^':
		lx.pos++
		return token.Token{Kind: token.Caret, Span: lx.span(start)}
	case '!':
		return two('=', token.BangEq, token.Bang)
	case '=':
		return two('=', token.EqEq, token.Assign)
	case '<':
		if lx.peekAt(1) == '<' {
			lx.pos += 2
			return token.Token{Kind: token.Shl, Span: lx.span(start)}
		}
		return two('=', token.LtEq, token.Lt)
	case '>':
		if lx.peekAt(1) == '>' {
			lx.pos += 2
			return token.Token{Kind: token.Shr, Span: lx.span(start)}
		}
		return two('=', token.GtEq, token.Gt)
	case '&':
		return two('&', token.AmpAmp, token.Amp)
	case '|':
		if lx.peekAt(1) == '|' {
			lx.pos += 2
			return token.Token{Kind: token.PipePipe, Span: lx.span(start)}
		}
		return two('>', token.PipeGt, token.Pipe)
	case '.':
		if lx.peekAt(1) == '.' && lx.peekAt(2) == '.' {
			lx.pos += 3
			return token.Token{Kind: token.Ellipsis, Span: lx.span(start)}
		}
		return two('.', token.DotDot, token.Dot)
	case ',':
		lx.pos++
		return token.Token{Kind: token.Comma, Span: lx.span(start)}
	case ':':
		return two(':', token.ColonColon, token.Colon)
	case ';':
		lx.pos++
		return token.Token{Kind: token.Semi, Span: lx.span(start)}
	case '(':
		lx.pos++
		return token.Token{Kind: token.LParen, Span: lx.span(start)}
	case ')':
		lx.pos++
		return token.Token{Kind: token.RParen, Span: lx.span(start)}
	case '{':
		lx.pos++
		return token.Token{Kind: token.LBrace, Span: lx.span(start)}
	case '}':
		lx.pos++
		return token.Token{Kind: token.RBrace, Span: lx.span(start)}
	default:
		lx.pos++
		return token.Token{Kind: token.Invalid, Span: lx.span(start), Text: invalidText(lx, start)}
	}
}

func invalidText(lx *Lexer, start uint32) string {
	n, err := safecast.Conv[int](lx.pos - start)
	if err != nil || n <= 0 {
		return ""
	}
	return string(lx.file.Text[start:lx.pos])
}
