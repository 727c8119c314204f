package parser

import (
	"lemonc/internal/ast"
	"lemonc/internal/token"
)

// Binary operator precedence levels (spec.md §4.1). Higher binds tighter.
// Assignment is not in the spec's table — it is the loosest-binding,
// right-associative continuation handled by parseAssign.
const (
	precMin = 1 // |> .. | << >>
	precCmp = 2 // < <= > >= == !=
	precAdd = 3 // + -
	precMul = 4 // * / %
	precMax = 5 // ** ^
)

// binaryPrec returns the precedence level of kind as a plain BinaryOp, or
// ok=false if kind is not a BinaryOp-producing operator (pipe, range, and
// assignment are handled separately since they build distinct Expr kinds).
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Pipe, token.Shl, token.Shr:
		return precMin, true
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.BangEq:
		return precCmp, true
	case token.Plus, token.Minus:
		return precAdd, true
	case token.Star, token.Slash, token.Percent:
		return precMul, true
	case token.StarStar, token.Caret:
		return precMax, true
	default:
		return 0, false
	}
}

func binaryOpFor(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Pipe:
		return ast.BinBitOr
	case token.Shl:
		return ast.BinShl
	case token.Shr:
		return ast.BinShr
	case token.Lt:
		return ast.BinLt
	case token.LtEq:
		return ast.BinLtEq
	case token.Gt:
		return ast.BinGt
	case token.GtEq:
		return ast.BinGtEq
	case token.EqEq:
		return ast.BinEq
	case token.BangEq:
		return ast.BinNotEq
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinMod
	case token.StarStar:
		return ast.BinPow
	case token.Caret:
		return ast.BinXor
	default:
		return ast.BinAdd
	}
}
