package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

func (p *Parser) checkModuleSyntax(kw token.Token) {
	if !p.opts.Source.Module {
		p.errAt(diag.SynModuleSyntaxInScript, kw.Span, "'"+kw.Text+"' declarations are only allowed in modules")
	}
}

// parseImport parses an import declaration; the current token is `import`.
func (p *Parser) parseImport() ast.StmtID {
	kw := p.advance()
	p.checkModuleSyntax(kw)
	start := kw.Span
	data := ast.ImportData{}

	// import "m";
	if p.at(token.StringLit) {
		p.parseModuleSource(&data.Source, &data.SourceSpan)
		return p.finishImport(start, data)
	}

	if p.opts.Source.TypeScript && p.atWord("type") && p.importTypeModifier() {
		p.advance()
		data.TypeOnly = true
	}

	if p.at(token.Ident) {
		local := p.advance()
		if p.at(token.Assign) && p.opts.Source.TypeScript {
			return p.parseImportEquals(start, local, data.TypeOnly)
		}
		data.Specifiers = append(data.Specifiers, p.importSpec(ast.ImportDefault, source.NoStringID, local, data.TypeOnly))
		if !p.eat(token.Comma) {
			return p.finishImportFrom(start, data)
		}
	}

	switch p.tok.Kind {
	case token.Star:
		p.advance()
		if !p.eatWord("as") {
			p.err(diag.SynUnexpectedToken, "expected 'as' after '*' in import")
		}
		local, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
		if ok {
			data.Specifiers = append(data.Specifiers, p.importSpec(ast.ImportNamespace, source.NoStringID, local, data.TypeOnly))
		}
	case token.LBrace:
		data.Specifiers = append(data.Specifiers, p.parseNamedImports(data.TypeOnly)...)
	default:
		p.err(diag.SynUnexpectedToken, "expected import specifiers, got '"+tokenDesc(p.tok)+"'")
	}
	return p.finishImportFrom(start, data)
}

// importTypeModifier reports whether `type` at the current token starts a
// type-only import rather than naming a default import.
func (p *Parser) importTypeModifier() bool {
	next := p.peek()
	switch {
	case next.Kind == token.LBrace, next.Kind == token.Star:
		return true
	case next.Is("from"):
		// import type from "m" vs import type from from "m"
		return p.speculate(func() bool {
			p.advance()
			p.advance()
			return p.atWord("from")
		})
	}
	return next.Kind == token.Ident
}

func (p *Parser) importSpec(kind ast.ImportSpecKind, imported source.StringID, local token.Token, typeOnly bool) ast.ImportSpec {
	return ast.ImportSpec{
		Kind:      kind,
		Imported:  imported,
		Local:     p.bindingName(local),
		LocalSpan: local.Span,
		TypeOnly:  typeOnly,
	}
}

func (p *Parser) bindingName(tok token.Token) source.StringID {
	if p.strict && token.IsStrictReserved(tok.Text) {
		p.errAt(diag.SynStrictModeReserved, tok.Span, "'"+tok.Text+"' is reserved in strict mode")
	}
	return p.intern(tok.Text)
}

func (p *Parser) parseNamedImports(typeOnly bool) []ast.ImportSpec {
	open := p.advance().Span
	var out []ast.ImportSpec
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		specType := typeOnly
		if p.opts.Source.TypeScript && p.atWord("type") {
			// { type A } but not { type } or { type as B }
			next := p.peek()
			if next.IsWord() && !(next.Is("as") && p.asAliasFollows()) {
				p.advance()
				specType = true
			}
		}
		nameTok := p.tok
		if !p.tok.IsWord() && !p.at(token.StringLit) {
			p.err(diag.SynExpectIdentifier, "expected import name, got '"+tokenDesc(p.tok)+"'")
			break
		}
		p.advance()
		imported := p.moduleExportName(nameTok)
		local := nameTok
		if p.eatWord("as") {
			var ok bool
			local, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected local name after 'as'")
			if !ok {
				break
			}
		} else if nameTok.Kind != token.Ident {
			p.errAt(diag.SynExpectIdentifier, nameTok.Span, "'"+nameTok.Text+"' must be renamed with 'as'")
		}
		out = append(out, p.importSpec(ast.ImportNamed, imported, local, specType))
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectClose(token.RBrace, open)
	return out
}

// asAliasFollows distinguishes `type as B` (import of `type` renamed) from
// `type as` (type-only import of `as`).
func (p *Parser) asAliasFollows() bool {
	return p.speculate(func() bool {
		p.advance() // type
		p.advance() // as
		return p.at(token.Ident) && !p.atWord("as")
	})
}

// moduleExportName interns an identifier or string module export name.
func (p *Parser) moduleExportName(tok token.Token) source.StringID {
	if tok.Kind == token.StringLit {
		return p.intern(unquote(tok.Text))
	}
	return p.intern(tok.Text)
}

// parseImportEquals handles `import x = require("m")` and `import x = A.B`.
// The first form binds x like a default import; the second is an alias of
// a namespace and is kept as a type declaration.
func (p *Parser) parseImportEquals(start source.Span, local token.Token, typeOnly bool) ast.StmtID {
	p.advance() // =
	if p.atWord("require") && p.peek().Kind == token.LParen {
		p.advance()
		open := p.advance().Span
		data := ast.ImportData{TypeOnly: typeOnly}
		if p.at(token.StringLit) {
			tok := p.advance()
			data.Source, data.SourceSpan = p.intern(unquote(tok.Text)), tok.Span
		} else {
			p.err(diag.SynUnexpectedToken, "expected module name in require()")
		}
		p.expectClose(token.RParen, open)
		data.Specifiers = []ast.ImportSpec{p.importSpec(ast.ImportDefault, source.NoStringID, local, typeOnly)}
		p.consumeSemicolon()
		return p.arenas.Stmts.NewImport(p.spanFrom(start), data)
	}
	p.skipTypeReference()
	p.consumeSemicolon()
	return p.tsDecl(start, ast.TSNamespace, local)
}

func (p *Parser) finishImportFrom(start source.Span, data ast.ImportData) ast.StmtID {
	if !p.eatWord("from") {
		p.err(diag.SynUnexpectedToken, "expected 'from', got '"+tokenDesc(p.tok)+"'")
		p.consumeSemicolon()
		return p.arenas.Stmts.NewImport(p.spanFrom(start), data)
	}
	p.parseModuleSource(&data.Source, &data.SourceSpan)
	return p.finishImport(start, data)
}

func (p *Parser) finishImport(start source.Span, data ast.ImportData) ast.StmtID {
	p.skipImportAttributes()
	p.consumeSemicolon()
	return p.arenas.Stmts.NewImport(p.spanFrom(start), data)
}

func (p *Parser) parseModuleSource(dst *source.StringID, span *source.Span) {
	tok, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected module specifier string")
	if ok {
		*dst, *span = p.intern(unquote(tok.Text)), tok.Span
	}
}

// skipImportAttributes skips `with { type: "json" }` (or legacy `assert`).
func (p *Parser) skipImportAttributes() {
	if (p.at(token.KwWith) || (p.atWord("assert") && !p.tok.NewlineBefore)) && p.peek().Kind == token.LBrace {
		p.advance()
		p.skipBalanced()
	}
}

// parseExport parses an export declaration; the current token is `export`.
func (p *Parser) parseExport() ast.StmtID {
	kw := p.advance()
	p.checkModuleSyntax(kw)
	start := kw.Span
	ts := p.opts.Source.TypeScript
	stmts := p.arenas.Stmts

	if p.at(token.At) {
		// export @dec class C {}
		p.pendingDecorators = append(p.pendingDecorators, p.parseDecorators()...)
	}

	switch {
	case p.at(token.KwDefault):
		return p.parseExportDefault(start)
	case p.at(token.Star):
		return p.parseExportAll(start, false)
	case p.at(token.LBrace):
		return p.parseExportNamed(start, false)
	case ts && p.atWord("type") && (p.peek().Kind == token.LBrace || p.peek().Kind == token.Star):
		p.advance()
		if p.at(token.Star) {
			return p.parseExportAll(start, true)
		}
		return p.parseExportNamed(start, true)
	case ts && p.at(token.Assign):
		// export = x
		p.advance()
		e := p.parseAssignAllowIn()
		p.consumeSemicolon()
		return stmts.NewExport(p.spanFrom(start), ast.ExportData{Kind: ast.ExportDefault, Expr: e})
	case ts && p.atWord("as"):
		// export as namespace X
		p.advance()
		p.eatWord("namespace")
		name, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
		p.consumeSemicolon()
		return p.tsDecl(start, ast.TSNamespace, name)
	case ts && p.at(token.KwImport):
		// export import A = B.C
		decl := p.parseImport()
		return stmts.NewExport(p.spanFrom(start), ast.ExportData{Kind: ast.ExportDecl, Decl: decl})
	}

	decl, ok := p.parseExportedDeclaration()
	if !ok {
		p.err(diag.SynUnexpectedToken, "expected declaration after 'export', got '"+tokenDesc(p.tok)+"'")
		p.pendingDecorators = nil
		return ast.NoStmtID
	}
	return stmts.NewExport(p.spanFrom(start), ast.ExportData{Kind: ast.ExportDecl, Decl: decl})
}

func (p *Parser) parseExportedDeclaration() (ast.StmtID, bool) {
	switch p.tok.Kind {
	case token.KwVar:
		return p.parseVarStatement(ast.VarVar), true
	case token.KwConst:
		if p.opts.Source.TypeScript && p.peek().Kind == token.KwEnum {
			return p.parseTSEnum(), true
		}
		return p.parseVarStatement(ast.VarConst), true
	case token.KwFunction:
		return p.parseFunctionDecl(p.tok.Span, 0), true
	case token.KwClass:
		return p.parseClassDecl(p.tok.Span, nil), true
	case token.KwEnum:
		return p.parseTSEnum(), true
	case token.Ident:
		next := p.peek()
		switch p.tok.Text {
		case "let":
			return p.parseVarStatement(ast.VarLet), true
		case "async":
			if next.Kind == token.KwFunction && !next.NewlineBefore {
				start := p.advance().Span
				return p.parseFunctionDecl(start, ast.FuncAsync), true
			}
		}
		if p.opts.Source.TypeScript {
			return p.parseTSDeclaration(next)
		}
	}
	return ast.NoStmtID, false
}

func (p *Parser) parseExportDefault(start source.Span) ast.StmtID {
	p.advance() // default
	stmts := p.arenas.Stmts
	data := ast.ExportData{Kind: ast.ExportDefault}
	switch {
	case p.at(token.KwFunction):
		p.allowAnonymous = true
		data.Decl = p.parseFunctionDecl(p.tok.Span, 0)
	case p.atWord("async") && p.peek().Kind == token.KwFunction && !p.peek().NewlineBefore:
		fnStart := p.advance().Span
		p.allowAnonymous = true
		data.Decl = p.parseFunctionDecl(fnStart, ast.FuncAsync)
	case p.at(token.KwClass), p.at(token.At):
		clsStart := p.tok.Span
		decorators := p.parseDecorators()
		if !p.at(token.KwClass) {
			p.err(diag.SynUnexpectedToken, "decorators must precede a class declaration")
			break
		}
		p.allowAnonymous = true
		data.Decl = p.parseClassDecl(clsStart, decorators)
	case p.opts.Source.TypeScript && p.atWord("abstract") && p.peek().Kind == token.KwClass:
		clsStart := p.advance().Span
		p.allowAnonymous = true
		data.Decl = p.parseClassDecl(clsStart, nil)
	case p.opts.Source.TypeScript && p.atWord("interface") && p.peek().Kind == token.Ident:
		decl, _ := p.parseTSDeclaration(p.peek())
		data.Kind, data.Decl = ast.ExportDecl, decl
	default:
		data.Expr = p.parseAssignAllowIn()
		p.consumeSemicolon()
	}
	p.allowAnonymous = false
	p.pendingDecorators = nil
	return stmts.NewExport(p.spanFrom(start), data)
}

func (p *Parser) parseExportAll(start source.Span, typeOnly bool) ast.StmtID {
	p.advance() // *
	data := ast.ExportData{Kind: ast.ExportAll, TypeOnly: typeOnly}
	if p.eatWord("as") {
		if !p.tok.IsWord() && !p.at(token.StringLit) {
			p.err(diag.SynExpectIdentifier, "expected name after 'as'")
		} else {
			tok := p.advance()
			data.Alias, data.AliasSpan = p.moduleExportName(tok), tok.Span
		}
	}
	if !p.eatWord("from") {
		p.err(diag.SynUnexpectedToken, "expected 'from', got '"+tokenDesc(p.tok)+"'")
	} else {
		p.parseModuleSource(&data.Source, &data.SourceSpan)
	}
	p.skipImportAttributes()
	p.consumeSemicolon()
	return p.arenas.Stmts.NewExport(p.spanFrom(start), data)
}

func (p *Parser) parseExportNamed(start source.Span, typeOnly bool) ast.StmtID {
	open := p.advance().Span
	data := ast.ExportData{Kind: ast.ExportNamed, TypeOnly: typeOnly}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		specType := typeOnly
		if p.opts.Source.TypeScript && p.atWord("type") {
			if next := p.peek(); next.IsWord() && !(next.Is("as") && p.asAliasFollows()) {
				p.advance()
				specType = true
			}
		}
		if !p.tok.IsWord() && !p.at(token.StringLit) {
			p.err(diag.SynExpectIdentifier, "expected export name, got '"+tokenDesc(p.tok)+"'")
			break
		}
		local := p.advance()
		spec := ast.ExportSpec{
			Local:        p.moduleExportName(local),
			LocalSpan:    local.Span,
			Exported:     p.moduleExportName(local),
			ExportedSpan: local.Span,
			TypeOnly:     specType,
		}
		if p.eatWord("as") {
			if !p.tok.IsWord() && !p.at(token.StringLit) {
				p.err(diag.SynExpectIdentifier, "expected export name after 'as'")
				break
			}
			exported := p.advance()
			spec.Exported, spec.ExportedSpan = p.moduleExportName(exported), exported.Span
		}
		data.Specifiers = append(data.Specifiers, spec)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectClose(token.RBrace, open)
	if p.eatWord("from") {
		p.parseModuleSource(&data.Source, &data.SourceSpan)
		p.skipImportAttributes()
	}
	p.consumeSemicolon()
	return p.arenas.Stmts.NewExport(p.spanFrom(start), data)
}
