package parser

import (
	"slices"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

func (p *Parser) parseParenExpr() ast.ExprID {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return p.parseExpr()
	}
	e := p.parseExprAllowIn()
	p.expectClose(token.RParen, open.Span)
	return e
}

func (p *Parser) parseLoopBody() ast.StmtID {
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return body
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.advance().Span
	data := ast.IfData{Cond: p.parseParenExpr()}
	data.Then = p.parseStatement()
	if p.eat(token.KwElse) {
		data.Else = p.parseStatement()
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(start), data)
}

func (p *Parser) parseWhile() ast.StmtID {
	start := p.advance().Span
	data := ast.LoopData{Cond: p.parseParenExpr()}
	data.Body = p.parseLoopBody()
	return p.arenas.Stmts.NewLoop(ast.StmtWhile, p.spanFrom(start), data)
}

func (p *Parser) parseDoWhile() ast.StmtID {
	start := p.advance().Span
	var data ast.LoopData
	data.Body = p.parseLoopBody()
	p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do-statement body")
	data.Cond = p.parseParenExpr()
	p.eat(token.Semicolon)
	return p.arenas.Stmts.NewLoop(ast.StmtDoWhile, p.spanFrom(start), data)
}

func (p *Parser) parseFor() ast.StmtID {
	start := p.advance().Span
	await := false
	if p.atWord("await") {
		if !p.canAwait() {
			p.err(diag.SynUnexpectedToken, "for await is only valid in async functions and modules")
		}
		p.advance()
		await = true
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'")
	if !ok {
		return ast.NoStmtID
	}

	var decl ast.StmtID
	var init ast.ExprID
	savedNoIn := p.noIn
	p.noIn = true
	switch {
	case p.at(token.Semicolon):
	case p.at(token.KwVar):
		decl = p.parseVarDecl(ast.VarVar, true)
	case p.at(token.KwConst):
		decl = p.parseVarDecl(ast.VarConst, true)
	case p.atWord("let") && p.letStartsDecl():
		decl = p.parseVarDecl(ast.VarLet, true)
	default:
		init = p.parseExpr()
	}
	p.noIn = savedNoIn

	if p.at(token.KwIn) || p.atWord("of") {
		return p.parseForInOf(start, open.Span, decl, init, await)
	}
	if await {
		p.errAt(diag.SynBadForHeader, start, "for await requires 'of'")
	}

	data := ast.ForData{Init: decl}
	if decl.IsValid() {
		p.checkForDeclInit(decl)
	} else if init.IsValid() {
		data.Init = p.arenas.Stmts.NewExprLike(ast.StmtExpr, p.exprSpan(init), init)
	}
	p.expect(token.Semicolon, diag.SynBadForHeader, "expected ';' in for-statement header")
	if !p.at(token.Semicolon) {
		data.Test = p.parseExprAllowIn()
	}
	p.expect(token.Semicolon, diag.SynBadForHeader, "expected ';' in for-statement header")
	if !p.at(token.RParen) {
		data.Update = p.parseExprAllowIn()
	}
	p.expectClose(token.RParen, open.Span)
	data.Body = p.parseLoopBody()
	return p.arenas.Stmts.NewFor(p.spanFrom(start), data)
}

// letStartsDecl disambiguates `let` as a declaration keyword.
func (p *Parser) letStartsDecl() bool {
	next := p.peek()
	return next.Kind == token.Ident && next.Text != "in" && next.Text != "of" ||
		next.Kind == token.LBracket || next.Kind == token.LBrace
}

func (p *Parser) checkForDeclInit(decl ast.StmtID) {
	vd, _ := p.arenas.Stmts.VarDecl(decl)
	for _, d := range vd.Decls {
		if d.Init.IsValid() {
			continue
		}
		if vd.Kind == ast.VarConst {
			p.errAt(diag.SynConstWithoutInit, d.Span, "missing initializer in const declaration")
		} else if pt := p.arenas.Patterns.Get(d.Target); pt != nil && pt.Kind != ast.PatIdent {
			p.errAt(diag.SynExpectBindingPattern, d.Span, "missing initializer in destructuring declaration")
		}
	}
}

func (p *Parser) parseForInOf(start, open source.Span, decl ast.StmtID, init ast.ExprID, await bool) ast.StmtID {
	kind := ast.StmtForIn
	if p.atWord("of") {
		kind = ast.StmtForOf
	} else if await {
		p.err(diag.SynBadForHeader, "for await requires 'of'")
	}
	p.advance()

	data := ast.ForInOfData{Decl: decl, Await: await}
	if decl.IsValid() {
		vd, _ := p.arenas.Stmts.VarDecl(decl)
		if len(vd.Decls) != 1 {
			p.errAt(diag.SynBadForHeader, p.arenas.Stmts.Get(decl).Span, "only one variable may be declared in a for-in/of head")
		}
		for _, d := range vd.Decls {
			if d.Init.IsValid() && (kind == ast.StmtForOf || vd.Kind != ast.VarVar || p.strict) {
				p.errAt(diag.SynBadForHeader, d.Span, "for-in/of variable may not have an initializer")
			}
		}
	} else if init.IsValid() {
		data.Target = p.exprToPattern(init, true)
	} else {
		p.errAt(diag.SynBadForHeader, open, "missing for-in/of target")
	}

	if kind == ast.StmtForOf {
		data.Right = p.parseAssignAllowIn()
	} else {
		data.Right = p.parseExprAllowIn()
	}
	p.expectClose(token.RParen, open)
	data.Body = p.parseLoopBody()
	return p.arenas.Stmts.NewForInOf(kind, p.spanFrom(start), data)
}

func (p *Parser) parseReturn() ast.StmtID {
	start := p.advance().Span
	var e ast.ExprID
	if !p.canInsertSemicolon() {
		e = p.parseExpr()
	}
	p.consumeSemicolon()
	return p.arenas.Stmts.NewExprLike(ast.StmtReturn, p.spanFrom(start), e)
}

func (p *Parser) parseThrow() ast.StmtID {
	start := p.advance().Span
	if p.tok.NewlineBefore {
		p.err(diag.SynIllegalNewline, "illegal newline after 'throw'")
	}
	e := p.parseExpr()
	p.consumeSemicolon()
	return p.arenas.Stmts.NewExprLike(ast.StmtThrow, p.spanFrom(start), e)
}

func (p *Parser) parseJump() ast.StmtID {
	tok := p.advance()
	kind := ast.StmtBreak
	if tok.Kind == token.KwContinue {
		kind = ast.StmtContinue
	}
	var data ast.JumpData
	if p.at(token.Ident) && !p.tok.NewlineBefore {
		lt := p.advance()
		data.Label, data.LabelSpan = p.intern(lt.Text), lt.Span
		if !slices.Contains(p.labels, data.Label) {
			p.errAt(diag.SynIllegalBreak, lt.Span, "undefined label '"+lt.Text+"'")
		}
	} else if kind == ast.StmtContinue && p.loopDepth == 0 {
		p.errAt(diag.SynIllegalBreak, tok.Span, "'continue' outside of a loop")
	} else if kind == ast.StmtBreak && p.loopDepth == 0 && p.switchDeep == 0 {
		p.errAt(diag.SynIllegalBreak, tok.Span, "'break' outside of a loop or switch")
	}
	p.consumeSemicolon()
	return p.arenas.Stmts.NewJump(kind, p.spanFrom(tok.Span), data)
}

func (p *Parser) parseTry() ast.StmtID {
	start := p.advance().Span
	data := ast.TryData{Block: p.parseBlock()}
	if p.eat(token.KwCatch) {
		data.HasCatch = true
		if open := p.tok.Span; p.eat(token.LParen) {
			data.Param = p.parseBindingTarget()
			if p.opts.Source.TypeScript && p.eat(token.Colon) {
				p.skipType()
			}
			p.expectClose(token.RParen, open)
		}
		data.Handler = p.parseBlock()
	}
	if p.eat(token.KwFinally) {
		data.Finalizer = p.parseBlock()
	}
	if !data.HasCatch && !data.Finalizer.IsValid() {
		p.errAt(diag.SynUnexpectedToken, start, "try requires 'catch' or 'finally'")
	}
	return p.arenas.Stmts.NewTry(p.spanFrom(start), data)
}

func (p *Parser) parseSwitch() ast.StmtID {
	start := p.advance().Span
	data := ast.SwitchData{Disc: p.parseParenExpr()}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch discriminant")
	if !ok {
		return p.arenas.Stmts.NewSwitch(p.spanFrom(start), data)
	}
	p.switchDeep++
	seenDefault := false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		cstart := p.tok.Span
		var c ast.SwitchCase
		switch {
		case p.eat(token.KwCase):
			c.Test = p.parseExprAllowIn()
		case p.eat(token.KwDefault):
			if seenDefault {
				p.errAt(diag.SynUnexpectedToken, cstart, "more than one default clause in switch")
			}
			seenDefault = true
		default:
			p.unexpected()
			p.resyncStatement()
			continue
		}
		p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case")
		for !p.atOr(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
			before := p.tok.Span.Start
			if s := p.parseStatement(); s.IsValid() {
				c.Body = append(c.Body, s)
			}
			if p.tok.Span.Start == before {
				p.resyncStatement()
			}
		}
		c.Span = p.spanFrom(cstart)
		data.Cases = append(data.Cases, c)
	}
	p.switchDeep--
	p.expectClose(token.RBrace, open.Span)
	return p.arenas.Stmts.NewSwitch(p.spanFrom(start), data)
}

func (p *Parser) parseWith() ast.StmtID {
	start := p.advance().Span
	if p.strict {
		p.errAt(diag.SynStrictModeReserved, start, "'with' is not allowed in strict mode")
	}
	data := ast.WithData{Object: p.parseParenExpr()}
	data.Body = p.parseStatement()
	return p.arenas.Stmts.NewWith(p.spanFrom(start), data)
}
