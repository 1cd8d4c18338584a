package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/token"
)

func (p *Parser) parseStatement() ast.StmtID {
	if !p.enter() {
		return ast.NoStmtID
	}
	defer p.leave()

	tok := p.tok
	stmts := p.arenas.Stmts
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return stmts.NewEmpty(tok.Span)
	case token.KwVar:
		return p.parseVarStatement(ast.VarVar)
	case token.KwConst:
		if p.opts.Source.TypeScript && p.peek().Kind == token.KwEnum {
			return p.parseTSEnum()
		}
		return p.parseVarStatement(ast.VarConst)
	case token.KwFunction:
		return p.parseFunctionDecl(tok.Span, 0)
	case token.KwClass:
		return p.parseClassDecl(tok.Span, nil)
	case token.At:
		return p.parseDecoratedClassDecl()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue:
		return p.parseJump()
	case token.KwThrow:
		return p.parseThrow()
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwWith:
		return p.parseWith()
	case token.KwDebugger:
		p.advance()
		p.consumeSemicolon()
		return stmts.NewDebugger(p.spanFrom(tok.Span))
	case token.KwEnum:
		return p.parseTSEnum()
	case token.KwImport:
		if next := p.peek(); next.Kind != token.LParen && next.Kind != token.Dot {
			p.err(diag.SynUnexpectedToken, "import declarations may only appear at top level")
			return p.parseImport()
		}
	case token.KwExport:
		p.err(diag.SynUnexpectedToken, "export declarations may only appear at top level")
		return p.parseExport()
	case token.Ident:
		if s, ok := p.parseIdentStatement(); ok {
			return s
		}
	}
	return p.parseExprStatement()
}

// parseIdentStatement handles statements that start with a contextual word:
// let, async function, labels and TypeScript declarations.
func (p *Parser) parseIdentStatement() (ast.StmtID, bool) {
	tok := p.tok
	next := p.peek()
	switch tok.Text {
	case "let":
		if next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace {
			return p.parseVarStatement(ast.VarLet), true
		}
	case "async":
		if next.Kind == token.KwFunction && !next.NewlineBefore {
			p.advance()
			return p.parseFunctionDecl(tok.Span, ast.FuncAsync), true
		}
	}
	if next.Kind == token.Colon {
		return p.parseLabeled(), true
	}
	if p.opts.Source.TypeScript {
		if s, ok := p.parseTSDeclaration(next); ok {
			return s, true
		}
	}
	return ast.NoStmtID, false
}

func (p *Parser) parseExprStatement() ast.StmtID {
	start := p.tok.Span
	e := p.parseExpr()
	p.consumeSemicolon()
	return p.arenas.Stmts.NewExprLike(ast.StmtExpr, p.spanFrom(start), e)
}

func (p *Parser) parseBlock() ast.StmtID {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID
	}
	body := p.parseStatementList()
	p.expectClose(token.RBrace, open.Span)
	return p.arenas.Stmts.NewBlock(p.spanFrom(open.Span), body)
}

// parseStatementList parses statements up to a closing brace.
func (p *Parser) parseStatementList() []ast.StmtID {
	var out []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok.Span.Start
		s := p.parseStatement()
		if s.IsValid() {
			out = append(out, s)
		}
		if p.tok.Span.Start == before && !p.at(token.EOF) && !p.at(token.RBrace) {
			p.resyncStatement()
		}
	}
	return out
}

func (p *Parser) parseVarStatement(kind ast.VarKind) ast.StmtID {
	s := p.parseVarDecl(kind, false)
	p.consumeSemicolon()
	if st := p.arenas.Stmts.Get(s); st != nil {
		st.Span = st.Span.Cover(p.lastSpan)
	}
	return s
}

// parseVarDecl parses `var|let|const` declarators. In a for-statement head
// initializers are optional and checked by the caller.
func (p *Parser) parseVarDecl(kind ast.VarKind, inFor bool) ast.StmtID {
	start := p.advance().Span
	var decls []ast.Declarator
	for {
		dstart := p.tok.Span
		d := ast.Declarator{Target: p.parseBindingTarget()}
		if p.opts.Source.TypeScript {
			p.eat(token.Bang)
			if p.eat(token.Colon) {
				p.skipType()
			}
		}
		if p.eat(token.Assign) {
			d.Init = p.parseAssign()
		} else if !inFor && !p.ambient {
			if kind == ast.VarConst {
				p.errAt(diag.SynConstWithoutInit, p.spanFrom(dstart), "missing initializer in const declaration")
			} else if pt := p.arenas.Patterns.Get(d.Target); pt != nil && pt.Kind != ast.PatIdent {
				p.errAt(diag.SynExpectBindingPattern, p.spanFrom(dstart), "missing initializer in destructuring declaration")
			}
		}
		d.Span = p.spanFrom(dstart)
		decls = append(decls, d)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.arenas.Stmts.NewVarDecl(p.spanFrom(start), kind, decls)
}

func (p *Parser) parseLabeled() ast.StmtID {
	tok := p.advance()
	p.advance() // :
	label := p.intern(tok.Text)
	p.labels = append(p.labels, label)
	body := p.parseStatement()
	p.labels = p.labels[:len(p.labels)-1]
	return p.arenas.Stmts.NewLabeled(p.spanFrom(tok.Span), ast.LabeledData{Label: label, Body: body})
}
