package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

// parseFunctionDecl parses a function declaration; the current token is
// `function`. The name may only be omitted after `export default`.
func (p *Parser) parseFunctionDecl(start source.Span, flags ast.FuncFlags) ast.StmtID {
	fn := p.parseFunction(start, flags|ast.FuncDeclared, true)
	return p.arenas.Stmts.NewFuncDecl(p.spanFrom(start), fn)
}

// parseFunction parses `function [*] [name] (params) [: R] { body }`.
func (p *Parser) parseFunction(start source.Span, flags ast.FuncFlags, needName bool) ast.FuncID {
	p.advance() // function
	if p.eat(token.Star) {
		flags |= ast.FuncGenerator
	}
	data := ast.FuncData{Flags: flags}
	if p.at(token.Ident) {
		tok := p.advance()
		if p.strict && token.IsStrictReserved(tok.Text) {
			p.errAt(diag.SynStrictModeReserved, tok.Span, "'"+tok.Text+"' is reserved in strict mode")
		}
		data.Name, data.NameSpan = p.intern(tok.Text), tok.Span
	} else if needName && !p.allowAnonymous {
		p.err(diag.SynExpectIdentifier, "expected function name, got '"+tokenDesc(p.tok)+"'")
	}
	p.allowAnonymous = false

	saved := p.pushFunc(flags)
	if p.opts.Source.TypeScript && p.at(token.Lt) {
		p.skipTypeArgs()
	}
	data.Params, data.Rest = p.parseParams()
	if p.opts.Source.TypeScript && p.eat(token.Colon) {
		p.skipReturnType()
	}
	if p.at(token.LBrace) {
		data.Body, data.Strict = p.parseFunctionBody()
	} else if p.opts.Source.TypeScript || p.ambient {
		// overload signature or ambient declaration
		p.consumeSemicolon()
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' before function body")
	}
	p.popFunc(saved)
	data.Span = p.spanFrom(start)
	return p.arenas.NewFunc(data)
}

// parseFunctionBody parses `{ directives statements }`.
func (p *Parser) parseFunctionBody() ([]ast.StmtID, bool) {
	open := p.advance().Span
	strict := false
	for _, d := range p.parseDirectives() {
		if p.arenas.Name(d) == "use strict" {
			strict = true
			p.strict = true
		}
	}
	body := p.parseStatementList()
	p.expectClose(token.RBrace, open)
	return body, strict
}

// parseMethod parses the part of a method after its key.
func (p *Parser) parseMethod(start source.Span, flags ast.FuncFlags, key ast.PropKey) ast.FuncID {
	data := ast.FuncData{Flags: flags}
	if key.Kind == ast.KeyIdent || key.Kind == ast.KeyString || key.Kind == ast.KeyPrivate {
		data.NameSpan = key.Span
	}
	saved := p.pushFunc(flags)
	if p.opts.Source.TypeScript {
		p.eat(token.Question)
		if p.at(token.Lt) {
			p.skipTypeArgs()
		}
	}
	data.Params, data.Rest = p.parseParams()
	if p.opts.Source.TypeScript && p.eat(token.Colon) {
		p.skipReturnType()
	}
	if p.at(token.LBrace) {
		data.Body, data.Strict = p.parseFunctionBody()
	} else if p.opts.Source.TypeScript || p.ambient {
		p.consumeSemicolon()
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' before method body")
	}
	p.popFunc(saved)
	data.Span = p.spanFrom(start)
	return p.arenas.NewFunc(data)
}

func (p *Parser) parseDecorators() []ast.ExprID {
	var out []ast.ExprID
	for p.at(token.At) {
		p.advance()
		var e ast.ExprID
		if p.at(token.LParen) {
			e = p.parseParen()
		} else {
			e = p.parsePrimary()
		}
		out = append(out, p.parseMemberTail(e, true))
	}
	return out
}

func (p *Parser) parseDecoratedClassDecl() ast.StmtID {
	start := p.tok.Span
	decorators := p.parseDecorators()
	switch {
	case p.at(token.KwClass):
		return p.parseClassDecl(start, decorators)
	case p.at(token.KwExport):
		p.pendingDecorators = decorators
		return p.parseExport()
	case p.atWord("abstract") && p.opts.Source.TypeScript:
		p.advance()
		return p.parseClassDecl(start, decorators)
	}
	p.err(diag.SynUnexpectedToken, "decorators must precede a class declaration")
	return ast.NoStmtID
}

func (p *Parser) parseClassDecl(start source.Span, decorators []ast.ExprID) ast.StmtID {
	if len(decorators) == 0 && len(p.pendingDecorators) > 0 {
		decorators = p.pendingDecorators
	}
	p.pendingDecorators = nil
	cls := p.parseClass(start, true, decorators)
	return p.arenas.Stmts.NewClassDecl(p.spanFrom(start), cls)
}

// parseClass parses a class declaration or expression; the current token is
// `class`.
func (p *Parser) parseClass(start source.Span, declared bool, decorators []ast.ExprID) ast.ClassID {
	p.advance() // class
	data := ast.ClassData{Declared: declared, Decorators: decorators}
	if p.at(token.Ident) && !p.atWord("implements") {
		tok := p.advance()
		data.Name, data.NameSpan = p.intern(tok.Text), tok.Span
	} else if declared && !p.allowAnonymous {
		p.err(diag.SynExpectIdentifier, "expected class name, got '"+tokenDesc(p.tok)+"'")
	}
	p.allowAnonymous = false

	savedStrict := p.strict
	p.strict = true
	ts := p.opts.Source.TypeScript
	if ts && p.at(token.Lt) {
		p.skipTypeArgs()
	}
	if p.eat(token.KwExtends) {
		data.Super = p.parseMemberTail(p.parsePrimaryOrNew(), true)
		if ts && p.at(token.Lt) {
			p.skipTypeArgs()
		}
	}
	if ts && p.eatWord("implements") {
		for {
			p.skipType()
			if !p.eat(token.Comma) {
				break
			}
		}
	}

	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' before class body")
	if ok {
		savedInClass := p.inClass
		p.inClass = true
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			before := p.tok.Span.Start
			if m, ok := p.parseClassMember(); ok {
				data.Members = append(data.Members, m)
			}
			if p.tok.Span.Start == before {
				p.unexpected()
				p.advance()
			}
		}
		p.inClass = savedInClass
		p.expectClose(token.RBrace, open.Span)
	}
	p.strict = savedStrict
	data.Span = p.spanFrom(start)
	return p.arenas.NewClass(data)
}

func (p *Parser) parsePrimaryOrNew() ast.ExprID {
	if p.at(token.KwNew) {
		return p.parseNew()
	}
	return p.parsePrimary()
}

var classModifiers = map[string]bool{
	"static": true, "public": true, "private": true, "protected": true, "readonly": true,
	"abstract": true, "override": true, "declare": true, "accessor": true,
}

func (p *Parser) parseClassMember() (ast.ClassMember, bool) {
	if p.eat(token.Semicolon) {
		return ast.ClassMember{}, false
	}
	start := p.tok.Span
	m := ast.ClassMember{Decorators: p.parseDecorators()}

	for p.at(token.Ident) && classModifiers[p.tok.Text] {
		if p.tok.Text != "static" && !p.opts.Source.TypeScript && p.tok.Text != "accessor" {
			break
		}
		next := p.peek()
		if !methodPrefixFollows(next) && !(p.tok.Text == "static" && next.Kind == token.LBrace) {
			break
		}
		if p.advance().Text == "static" {
			m.Static = true
			if p.at(token.LBrace) {
				return p.parseStaticBlock(start), true
			}
		}
	}

	if p.opts.Source.TypeScript && p.at(token.LBracket) && p.indexSignatureAhead() {
		p.skipBalanced()
		if p.eat(token.Colon) {
			p.skipType()
		}
		p.consumeSemicolon()
		return ast.ClassMember{}, false
	}

	var flags ast.FuncFlags
	kind := ast.MemberMethod
	if p.atWord("async") && methodPrefixFollows(p.peek()) && !p.peek().NewlineBefore {
		p.advance()
		flags |= ast.FuncAsync
	}
	if p.eat(token.Star) {
		flags |= ast.FuncGenerator
	}
	if flags == 0 && (p.atWord("get") || p.atWord("set")) && methodPrefixFollows(p.peek()) {
		if p.advance().Text == "get" {
			kind, flags = ast.MemberGetter, ast.FuncGetter
		} else {
			kind, flags = ast.MemberSetter, ast.FuncSetter
		}
	}

	keyTok := p.tok
	key, ok := p.parsePropertyKey()
	if !ok {
		return ast.ClassMember{}, false
	}
	m.Key = key
	if !m.Static && kind == ast.MemberMethod && keyTok.Text == "constructor" && key.Kind != ast.KeyComputed {
		kind = ast.MemberConstructor
		flags |= ast.FuncConstructor
	}
	if p.opts.Source.TypeScript {
		if p.at(token.Question) && p.peek().Kind != token.LParen {
			p.advance()
		}
		p.eat(token.Bang)
	}

	if p.at(token.LParen) || p.at(token.Lt) || (p.at(token.Question) && p.opts.Source.TypeScript) || flags != 0 {
		m.Kind = kind
		m.Func = p.parseMethod(start, flags|ast.FuncMethod, key)
		m.Span = p.spanFrom(start)
		return m, true
	}

	m.Kind = ast.MemberProperty
	if p.opts.Source.TypeScript && p.eat(token.Colon) {
		p.skipType()
	}
	if p.eat(token.Assign) {
		// инициализатор поля ведёт себя как тело метода
		saved := p.pushFunc(0)
		m.Value = p.parseAssign()
		p.popFunc(saved)
	}
	p.consumeSemicolon()
	m.Span = p.spanFrom(start)
	return m, true
}

func (p *Parser) parseStaticBlock(start source.Span) ast.ClassMember {
	open := p.advance().Span
	saved := p.pushFunc(0)
	body := p.parseStatementList()
	p.popFunc(saved)
	p.expectClose(token.RBrace, open)
	return ast.ClassMember{Kind: ast.MemberStaticBlock, Span: p.spanFrom(start), Static: true, Body: body}
}

// indexSignatureAhead recognizes `[key: T]`.
func (p *Parser) indexSignatureAhead() bool {
	return p.speculate(func() bool {
		p.advance()
		if !p.at(token.Ident) {
			return false
		}
		p.advance()
		return p.at(token.Colon)
	})
}
