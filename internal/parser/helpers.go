package parser

import (
	"slices"

	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/source"
	"binder/internal/token"
)

// advance: съедает текущий токен и возвращает его
func (p *Parser) advance() token.Token {
	tok := p.tok
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	if p.tooDeep {
		p.tok = token.Token{Kind: token.EOF, Span: p.lx.EmptySpan()}
		return tok
	}
	p.tok = p.lx.Next()
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.tok.Kind)
}

// atWord reports the contextual keyword on the current token.
func (p *Parser) atWord(word string) bool { return p.tok.Is(word) }

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eatWord(word string) bool {
	if p.atWord(word) {
		p.advance()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.report(code, diag.SevError, p.diagSpan(), msg)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan(), Text: p.tok.Text}, false
}

// expectClose reports an unclosed bracket with a note at the opener.
func (p *Parser) expectClose(k token.Kind, open source.Span) bool {
	if p.eat(k) {
		return true
	}
	code := diag.SynUnclosedParen
	switch k {
	case token.RBrace:
		code = diag.SynUnclosedBrace
	case token.RBracket:
		code = diag.SynUnclosedBracket
	}
	p.errWithNote(code, p.diagSpan(), "expected '"+k.String()+"', got '"+tokenDesc(p.tok)+"'", open, "opened here")
	return false
}

// errWithNote reports an error with a secondary location.
func (p *Parser) errWithNote(code diag.Code, sp source.Span, msg string, noteSpan source.Span, note string) {
	if p.quiet > 0 {
		p.failed = true
		return
	}
	if p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).WithNote(noteSpan, note).Emit()
	}
	p.checkBudget()
}

// diagSpan: лучший span для диагностики: на EOF указываем за последний токен
func (p *Parser) diagSpan() source.Span {
	if p.tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return p.tok.Span
}

func tokenDesc(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	if tok.Text != "" {
		return tok.Text
	}
	return tok.Kind.String()
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) unexpected() {
	p.err(diag.SynUnexpectedToken, "unexpected token '"+tokenDesc(p.tok)+"'")
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.quiet > 0 {
		p.failed = true
		return false
	}
	if p.opts.Reporter == nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		return false
	}
	if p.opts.Enough() {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	p.checkBudget()
	return true
}

// checkBudget stops parsing once MaxErrors is reached.
func (p *Parser) checkBudget() {
	if p.opts.Enough() {
		p.tooDeep = true
		p.tok = token.Token{Kind: token.EOF, Span: p.tok.Span}
	}
}

// enter guards recursion depth; callers must defer p.leave().
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxDepth {
		if !p.tooDeep {
			p.err(diag.SynNestingTooDeep, "nesting is too deep")
			p.tooDeep = true
			p.tok = token.Token{Kind: token.EOF, Span: p.tok.Span}
		}
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// consumeSemicolon implements automatic semicolon insertion.
func (p *Parser) consumeSemicolon() {
	if p.eat(token.Semicolon) {
		return
	}
	if p.at(token.RBrace) || p.at(token.EOF) || p.tok.NewlineBefore {
		return
	}
	p.report(diag.SynExpectSemicolon, diag.SevError, p.diagSpan(), "expected ';', got '"+tokenDesc(p.tok)+"'")
}

// canInsertSemicolon reports an ASI point before the current token.
func (p *Parser) canInsertSemicolon() bool {
	return p.at(token.Semicolon) || p.at(token.RBrace) || p.at(token.EOF) || p.tok.NewlineBefore
}

// resyncStatement skips to a plausible statement boundary.
func (p *Parser) resyncStatement() {
	p.advance()
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			return
		}
		if p.tok.NewlineBefore || p.at(token.RBrace) {
			return
		}
		switch p.tok.Kind {
		case token.KwVar, token.KwConst, token.KwFunction, token.KwClass, token.KwIf,
			token.KwFor, token.KwWhile, token.KwReturn, token.KwImport, token.KwExport:
			return
		}
		p.advance()
	}
}

type parserState struct {
	lx     lexer.State
	tok    token.Token
	last   source.Span
	errors uint
}

func (p *Parser) snapshot() parserState {
	return parserState{lx: p.lx.Snapshot(), tok: p.tok, last: p.lastSpan, errors: p.opts.CurrentErrors}
}

func (p *Parser) restore(st parserState) {
	p.lx.Restore(st.lx)
	p.tok = st.tok
	p.lastSpan = st.last
	p.opts.CurrentErrors = st.errors
}

// speculate runs fn with diagnostics muted and always rewinds afterwards.
// It returns fn's verdict, false if fn reported anything.
func (p *Parser) speculate(fn func() bool) bool {
	st := p.snapshot()
	unmute := p.lx.Mute()
	p.quiet++
	failed := p.failed
	p.failed = false
	depth, deep := p.depth, p.tooDeep

	ok := fn() && !p.failed

	p.failed = failed
	p.quiet--
	unmute()
	p.depth, p.tooDeep = depth, deep
	p.restore(st)
	return ok
}

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	var next token.Token
	p.speculate(func() bool {
		p.advance()
		next = p.tok
		return true
	})
	return next
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
