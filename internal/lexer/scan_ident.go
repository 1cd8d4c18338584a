package lexer

import (
	"unicode/utf8"

	"binder/internal/diag"
	"binder/internal/token"
)

// scanIdentOrKeyword scans an IdentifierName. Reserved words get their Kw
// kind unless they were spelled with escapes.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	escaped := lx.scanIdentTail()
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if !escaped {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanUnicodeStart handles a non-ASCII byte at token start.
func (lx *Lexer) scanUnicodeStart() token.Token {
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	if isIdentStartRune(r) {
		return lx.scanIdentOrKeyword()
	}
	start := lx.cursor.Mark()
	lx.cursor.Off += uint32(size)
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanIdentTail consumes identifier characters and reports whether a
// unicode escape was seen.
func (lx *Lexer) scanIdentTail() (escaped bool) {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case isIdentPartByte(ch):
			lx.cursor.Bump()
		case ch == '\\':
			escaped = true
			lx.scanIdentEscape()
		case ch >= utf8RuneSelf:
			r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
			if !isIdentPartRune(r) {
				return escaped
			}
			lx.cursor.Off += uint32(size)
		default:
			return escaped
		}
	}
	return escaped
}

// scanIdentEscape consumes \uXXXX or \u{X...} inside an identifier.
func (lx *Lexer) scanIdentEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if !lx.cursor.Eat('u') {
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid escape in identifier")
		return
	}
	if !lx.scanUnicodeEscapeBody() {
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid unicode escape")
	}
}

// scanUnicodeEscapeBody consumes the part after "\u".
func (lx *Lexer) scanUnicodeEscapeBody() bool {
	if lx.cursor.Eat('{') {
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		return lx.cursor.Eat('}') && digits > 0
	}
	for range 4 {
		if !isHex(lx.cursor.Peek()) {
			return false
		}
		lx.cursor.Bump()
	}
	return true
}

func (lx *Lexer) scanPrivateName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	ch := lx.cursor.Peek()
	ok := isIdentStartByte(ch) || ch == '\\'
	if !ok && ch >= utf8RuneSelf {
		r, _ := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		ok = isIdentStartRune(r)
	}
	if !ok {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character '#'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.scanIdentTail()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.PrivateName, Span: sp, Text: lx.text(sp)}
}

// ExtendJSXName widens an identifier token over '-' separated parts, as in
// data-value or aria-label.
func (lx *Lexer) ExtendJSXName(tok token.Token) token.Token {
	if tok.Kind != token.Ident && !tok.Kind.IsKeyword() {
		return tok
	}
	for lx.cursor.Peek() == '-' {
		lx.cursor.Bump()
		lx.scanIdentTail()
	}
	tok.Span.End = lx.cursor.Off
	tok.Text = lx.text(tok.Span)
	tok.Kind = token.Ident
	return tok
}
