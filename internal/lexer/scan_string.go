package lexer

import (
	"binder/internal/diag"
	"binder/internal/token"
)

func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for {
		if lx.cursor.EOF() {
			return lx.unterminatedString(start)
		}
		ch := lx.cursor.Peek()
		switch ch {
		case quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.scanEscape()
		case '\n', '\r':
			return lx.unterminatedString(start)
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) unterminatedString(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

// scanEscape consumes a backslash escape inside a string or template.
func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	switch lx.cursor.Peek() {
	case 'u':
		lx.cursor.Bump()
		if !lx.scanUnicodeEscapeBody() {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid unicode escape")
		}
	case 'x':
		lx.cursor.Bump()
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid hexadecimal escape")
				return
			}
			lx.cursor.Bump()
		}
	case '\r':
		lx.cursor.Bump()
		lx.cursor.Eat('\n')
	default:
		// any other character, including line continuations, escapes itself
		if !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	}
}

// scanTemplatePart scans template characters after '`' (head) or after '}'
// closing a substitution (middle or tail).
func (lx *Lexer) scanTemplatePart(start Mark, head bool) token.Token {
	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedTemplate, sp, "unterminated template literal")
			kind := token.TemplateTail
			if head {
				kind = token.TemplateFull
			}
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
		ch := lx.cursor.Peek()
		switch {
		case ch == '`':
			lx.cursor.Bump()
			kind := token.TemplateTail
			if head {
				kind = token.TemplateFull
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case ch == '$' && lx.cursor.PeekAt(1) == '{':
			lx.cursor.Off += 2
			lx.templates = append(lx.templates, 0)
			kind := token.TemplateMiddle
			if head {
				kind = token.TemplateHead
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case ch == '\\':
			// template escapes are not validated: tagged templates allow anything
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
}
