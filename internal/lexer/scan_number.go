package lexer

import (
	"binder/internal/diag"
	"binder/internal/token"
)

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.NumberLit
	bad := false

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) | 0x20 {
		case 'x':
			lx.cursor.Off += 2
			bad = !lx.scanDigits(isHex)
			kind = lx.scanBigIntSuffix(kind)
			return lx.numberToken(start, kind, bad)
		case 'o':
			lx.cursor.Off += 2
			bad = !lx.scanDigits(isOct)
			kind = lx.scanBigIntSuffix(kind)
			return lx.numberToken(start, kind, bad)
		case 'b':
			lx.cursor.Off += 2
			bad = !lx.scanDigits(isBin)
			kind = lx.scanBigIntSuffix(kind)
			return lx.numberToken(start, kind, bad)
		}
	}

	intPart := false
	if lx.cursor.Peek() != '.' {
		intPart = lx.scanDigits(isDec)
	}
	if lx.cursor.Peek() == 'n' && intPart {
		lx.cursor.Bump()
		return lx.numberToken(start, token.BigIntLit, false)
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		if isDec(lx.cursor.Peek()) {
			lx.scanDigits(isDec)
		}
	}
	if c := lx.cursor.Peek(); c == 'e' || c == 'E' {
		lx.cursor.Bump()
		if c := lx.cursor.Peek(); c == '+' || c == '-' {
			lx.cursor.Bump()
		}
		if !lx.scanDigits(isDec) {
			bad = true
		}
	}
	return lx.numberToken(start, kind, bad)
}

// scanDigits consumes digits with '_' separators; false if none were seen or
// a separator is misplaced.
func (lx *Lexer) scanDigits(ok func(byte) bool) bool {
	seen := false
	prevSep := false
	for {
		c := lx.cursor.Peek()
		switch {
		case ok(c):
			lx.cursor.Bump()
			seen = true
			prevSep = false
		case c == '_' && seen && !prevSep && ok(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
			prevSep = true
		default:
			return seen
		}
	}
}

func (lx *Lexer) scanBigIntSuffix(kind token.Kind) token.Kind {
	if lx.cursor.Eat('n') {
		return token.BigIntLit
	}
	return kind
}

func (lx *Lexer) numberToken(start Mark, kind token.Kind, bad bool) token.Token {
	// 3in / 3x: identifier directly after a number
	if c := lx.cursor.Peek(); isIdentStartByte(c) || c == '\\' {
		lx.scanIdentTail()
		bad = true
	}
	sp := lx.cursor.SpanFrom(start)
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "invalid numeric literal")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
