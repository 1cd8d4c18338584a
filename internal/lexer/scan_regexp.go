package lexer

import (
	"binder/internal/diag"
	"binder/internal/token"
)

// RescanRegExp reinterprets a '/' or '/=' token as a regular expression
// literal. The parser calls it when a slash appears where an expression
// operand is expected.
func (lx *Lexer) RescanRegExp(tok token.Token) token.Token {
	if tok.Kind != token.Slash && tok.Kind != token.SlashAssign {
		return tok
	}
	lx.cursor.Off = tok.Span.Start + 1
	start := Mark(tok.Span.Start)
	inClass := false
	for {
		if lx.cursor.EOF() {
			return lx.unterminatedRegExp(start, tok)
		}
		ch := lx.cursor.Peek()
		if ch == '\n' || ch == '\r' {
			return lx.unterminatedRegExp(start, tok)
		}
		lx.cursor.Bump()
		switch ch {
		case '\\':
			if c := lx.cursor.Peek(); c != '\n' && c != '\r' && !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				// flags
				for isIdentPartByte(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
				sp := lx.cursor.SpanFrom(start)
				return token.Token{
					Kind:          token.RegExpLit,
					Span:          sp,
					Text:          lx.text(sp),
					Leading:       tok.Leading,
					NewlineBefore: tok.NewlineBefore,
				}
			}
		}
	}
}

func (lx *Lexer) unterminatedRegExp(start Mark, tok token.Token) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedRegExp, sp, "unterminated regular expression")
	return token.Token{Kind: token.RegExpLit, Span: sp, Text: lx.text(sp), Leading: tok.Leading, NewlineBefore: tok.NewlineBefore}
}
