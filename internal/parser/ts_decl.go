package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

// parseTSDeclaration recognizes TypeScript declarations that start with a
// contextual word. The current token is that word and next is the token
// after it. Type-level declarations become TSDecl statements.
func (p *Parser) parseTSDeclaration(next token.Token) (ast.StmtID, bool) {
	if next.NewlineBefore {
		return ast.NoStmtID, false
	}
	tok := p.tok
	switch tok.Text {
	case "type":
		if next.Kind != token.Ident {
			return ast.NoStmtID, false
		}
		p.advance()
		name := p.advance()
		if p.at(token.Lt) {
			p.skipTypeArgs()
		}
		p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in type alias")
		p.skipType()
		p.consumeSemicolon()
		return p.tsDecl(tok.Span, ast.TSTypeAlias, name), true
	case "interface":
		if next.Kind != token.Ident {
			return ast.NoStmtID, false
		}
		p.advance()
		name := p.advance()
		if p.at(token.Lt) {
			p.skipTypeArgs()
		}
		if p.eat(token.KwExtends) {
			for {
				p.skipType()
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		if p.at(token.LBrace) {
			p.skipBalanced()
		} else {
			p.err(diag.SynUnexpectedToken, "expected '{' before interface body")
		}
		return p.tsDecl(tok.Span, ast.TSInterface, name), true
	case "namespace", "module":
		if next.Kind != token.Ident && next.Kind != token.StringLit {
			return ast.NoStmtID, false
		}
		p.advance()
		name := p.advance()
		for p.eat(token.Dot) {
			if p.at(token.Ident) {
				p.advance()
			}
		}
		if p.at(token.LBrace) {
			p.skipBalanced()
		} else {
			p.consumeSemicolon()
		}
		return p.tsDecl(tok.Span, ast.TSNamespace, name), true
	case "global":
		if !p.ambient || next.Kind != token.LBrace {
			return ast.NoStmtID, false
		}
		p.advance()
		p.skipBalanced()
		return p.tsDecl(tok.Span, ast.TSNamespace, tok), true
	case "declare":
		if !next.IsWord() {
			return ast.NoStmtID, false
		}
		p.advance()
		saved := p.ambient
		p.ambient = true
		inner := p.parseStatement()
		p.ambient = saved
		data := ast.TSDeclData{Kind: ast.TSDeclare}
		if d, ok := p.arenas.Stmts.TSDecl(inner); ok {
			data.Name, data.NameSpan = d.Name, d.NameSpan
		}
		return p.arenas.Stmts.NewTSDecl(p.spanFrom(tok.Span), data), true
	case "abstract":
		if next.Kind != token.KwClass {
			return ast.NoStmtID, false
		}
		p.advance()
		return p.parseClassDecl(tok.Span, nil), true
	}
	return ast.NoStmtID, false
}

func (p *Parser) tsDecl(start source.Span, kind ast.TSDeclKind, name token.Token) ast.StmtID {
	data := ast.TSDeclData{Kind: kind, NameSpan: name.Span}
	if name.Kind == token.StringLit {
		data.Name = p.intern(unquote(name.Text))
	} else {
		data.Name = p.intern(name.Text)
	}
	return p.arenas.Stmts.NewTSDecl(p.spanFrom(start), data)
}

// parseTSEnum parses `[const] enum E { ... }`. Members are skipped.
func (p *Parser) parseTSEnum() ast.StmtID {
	start := p.tok.Span
	if !p.opts.Source.TypeScript {
		p.err(diag.SynTypeScriptOnly, "enum declarations are only allowed in TypeScript files")
	}
	p.eat(token.KwConst)
	p.advance() // enum
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum name")
	if !ok {
		return ast.NoStmtID
	}
	if p.at(token.LBrace) {
		p.skipBalanced()
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' before enum body")
	}
	return p.tsDecl(start, ast.TSEnum, name)
}
