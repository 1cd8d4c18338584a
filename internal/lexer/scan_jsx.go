package lexer

import (
	"binder/internal/diag"
	"binder/internal/token"
)

// NextJSXChild scans JSX element content starting right after the '>' that
// closed an opening tag. It returns JSXText, LBrace, Lt or EOF. No trivia is
// skipped: whitespace belongs to the text.
func (lx *Lexer) NextJSXChild() token.Token {
	lx.hold = nil
	lx.newline = false
	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case 0:
		if lx.cursor.EOF() {
			return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
		}
	case '{':
		lx.cursor.Bump()
		if len(lx.templates) > 0 {
			lx.templates[len(lx.templates)-1]++
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.LBrace, Span: sp, Text: "{"}
	case '<':
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Lt, Span: sp, Text: "<"}
	}
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		if c == '{' || c == '<' {
			break
		}
		if c == '}' {
			lx.errLex(diag.SynUnexpectedToken, lx.cursor.SpanFrom(lx.cursor.Mark()), "unexpected token in JSX text")
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.JSXText, Span: sp, Text: lx.text(sp)}
}

// ScanJSXAttrString scans a JSX attribute string, where backslash is not an
// escape character.
func (lx *Lexer) ScanJSXAttrString(tok token.Token) token.Token {
	if tok.Kind != token.StringLit || tok.Text == "" {
		return tok
	}
	quote := tok.Text[0]
	lx.cursor.Off = tok.Span.Start + 1
	for !lx.cursor.EOF() && lx.cursor.Peek() != quote {
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat(quote) {
		lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(Mark(tok.Span.Start)), "unterminated string literal")
	}
	tok.Span.End = lx.cursor.Off
	tok.Text = lx.text(tok.Span)
	return tok
}

// RescanGreater narrows a '>'-prefixed token (>=, >>, ...) to a single '>'.
// JSX tags end with '>' even when text such as '=' follows immediately.
func (lx *Lexer) RescanGreater(tok token.Token) token.Token {
	if len(tok.Text) < 2 || tok.Text[0] != '>' {
		return tok
	}
	lx.cursor.Off = tok.Span.Start + 1
	tok.Kind = token.Gt
	tok.Span.End = tok.Span.Start + 1
	tok.Text = ">"
	return tok
}
