package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

func (p *Parser) parsePrimary() ast.ExprID {
	if !p.enter() {
		return ast.NoExprID
	}
	defer p.leave()

	tok := p.tok
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.Ident:
		if tok.Text == "async" {
			if e, ok := p.tryAsync(); ok {
				return e
			}
		}
		p.advance()
		if p.at(token.Arrow) && !p.tok.NewlineBefore {
			return p.parseArrowFromIdent(tok, 0, tok.Span)
		}
		return exprs.NewIdent(ast.ExprIdent, tok.Span, p.intern(tok.Text))
	case token.KwThis:
		p.advance()
		return exprs.NewKeyword(ast.ExprThis, tok.Span)
	case token.KwSuper:
		p.advance()
		return exprs.NewKeyword(ast.ExprSuper, tok.Span)
	case token.KwNull:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitNull, p.intern(tok.Text))
	case token.KwTrue, token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitBool, p.intern(tok.Text))
	case token.NumberLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitNumber, p.intern(tok.Text))
	case token.BigIntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitBigInt, p.intern(tok.Text))
	case token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitString, p.intern(tok.Text))
	case token.Slash, token.SlashAssign:
		p.tok = p.lx.RescanRegExp(p.tok)
		re := p.advance()
		return exprs.NewLiteral(re.Span, ast.LitRegExp, p.intern(re.Text))
	case token.TemplateFull, token.TemplateHead:
		return p.parseTemplate(ast.NoExprID)
	case token.LParen:
		if p.arrowAfterParenAhead() {
			return p.parseArrow(tok.Span, 0)
		}
		return p.parseParen()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		fn := p.parseFunction(tok.Span, 0, false)
		return exprs.NewFunc(ast.ExprFunction, p.spanFrom(tok.Span), fn)
	case token.KwClass:
		cls := p.parseClass(tok.Span, false, nil)
		return exprs.NewClass(p.spanFrom(tok.Span), cls)
	case token.At:
		decorators := p.parseDecorators()
		if !p.at(token.KwClass) {
			p.err(diag.SynUnexpectedToken, "decorators must precede a class")
			return ast.NoExprID
		}
		cls := p.parseClass(tok.Span, false, decorators)
		return exprs.NewClass(p.spanFrom(tok.Span), cls)
	case token.KwImport:
		return p.parseImportExpr()
	case token.PrivateName:
		// #x in obj
		p.advance()
		if !p.at(token.KwIn) {
			p.errAt(diag.SynUnexpectedToken, tok.Span, "unexpected private name")
		}
		return exprs.NewIdent(ast.ExprPrivateName, tok.Span, p.intern(tok.Text[1:]))
	case token.Lt:
		if p.opts.Source.TypeScript && p.genericArrowAhead() {
			return p.parseArrow(tok.Span, 0)
		}
		if p.opts.Source.JSX {
			return p.parseJSX()
		}
		p.err(diag.SynJSXNotEnabled, "JSX syntax is not enabled for this file")
		p.advance()
		return ast.NoExprID
	}

	p.err(diag.SynExpectExpression, "expected expression, got '"+tokenDesc(tok)+"'")
	switch tok.Kind {
	case token.RParen, token.RBracket, token.RBrace, token.Semicolon, token.Comma, token.EOF,
		token.TemplateMiddle, token.TemplateTail, token.Colon, token.Arrow:
	default:
		p.advance()
	}
	return ast.NoExprID
}

// tryAsync handles `async function`, `async x => ...` and `async (...) => ...`.
func (p *Parser) tryAsync() (ast.ExprID, bool) {
	start := p.tok
	next := p.peek()
	if next.NewlineBefore {
		return ast.NoExprID, false
	}
	switch next.Kind {
	case token.KwFunction:
		p.advance()
		fn := p.parseFunction(start.Span, ast.FuncAsync, false)
		return p.arenas.Exprs.NewFunc(ast.ExprFunction, p.spanFrom(start.Span), fn), true
	case token.Ident:
		isArrow := p.speculate(func() bool {
			p.advance()
			p.advance()
			return p.at(token.Arrow) && !p.tok.NewlineBefore
		})
		if isArrow {
			p.advance()
			param := p.advance()
			return p.parseArrowFromIdent(param, ast.FuncAsync, start.Span), true
		}
	case token.LParen, token.Lt:
		isArrow := p.speculate(func() bool {
			p.advance()
			if p.at(token.Lt) {
				return p.genericArrowAheadHere()
			}
			return p.arrowAfterParen()
		})
		if isArrow {
			p.advance()
			return p.parseArrow(start.Span, ast.FuncAsync), true
		}
	}
	return ast.NoExprID, false
}

// arrowAfterParenAhead looks past a parenthesized group for `=>`.
func (p *Parser) arrowAfterParenAhead() bool {
	return p.speculate(p.arrowAfterParen)
}

// arrowAfterParen consumes `( ... )` and an optional return type annotation
// and reports whether `=>` follows on the same line.
func (p *Parser) arrowAfterParen() bool {
	if !p.at(token.LParen) {
		return false
	}
	p.skipBalanced()
	if p.opts.Source.TypeScript && p.at(token.Colon) {
		p.advance()
		p.skipReturnType()
	}
	return p.at(token.Arrow) && !p.tok.NewlineBefore
}

func (p *Parser) genericArrowAhead() bool {
	return p.speculate(p.genericArrowAheadHere)
}

func (p *Parser) genericArrowAheadHere() bool {
	if !p.at(token.Lt) {
		return false
	}
	next := p.peek()
	if next.Kind != token.Ident {
		return false
	}
	if p.opts.Source.JSX {
		// <T,>() => or <T extends U>() => ; plain <T> is a JSX tag
		ok := p.speculate(func() bool {
			p.advance()
			p.advance()
			return p.at(token.Comma) || p.at(token.KwExtends)
		})
		if !ok {
			return false
		}
	}
	p.skipTypeArgs()
	return p.arrowAfterParen()
}

type fnState struct {
	inFunction, inAsync, inGen, strict, noIn, inClass bool
	loopDepth, switchDeep                             int
	labels                                            []source.StringID
}

func (p *Parser) pushFunc(flags ast.FuncFlags) fnState {
	saved := fnState{
		inFunction: p.inFunction, inAsync: p.inAsync, inGen: p.inGen, strict: p.strict,
		noIn: p.noIn, inClass: p.inClass, loopDepth: p.loopDepth, switchDeep: p.switchDeep, labels: p.labels,
	}
	p.inFunction = true
	p.inAsync = flags.Has(ast.FuncAsync)
	p.inGen = flags.Has(ast.FuncGenerator)
	p.noIn = false
	p.loopDepth, p.switchDeep, p.labels = 0, 0, nil
	return saved
}

func (p *Parser) popFunc(s fnState) {
	p.inFunction, p.inAsync, p.inGen, p.strict = s.inFunction, s.inAsync, s.inGen, s.strict
	p.noIn, p.inClass, p.loopDepth, p.switchDeep, p.labels = s.noIn, s.inClass, s.loopDepth, s.switchDeep, s.labels
}

func (p *Parser) parseArrowFromIdent(param token.Token, flags ast.FuncFlags, from source.Span) ast.ExprID {
	data := ast.FuncData{Flags: flags | ast.FuncArrow}
	data.Params = []ast.PatternID{p.bindingIdent(param)}
	saved := p.pushFunc(data.Flags)
	p.advance() // =>
	p.parseArrowBody(&data)
	p.popFunc(saved)
	data.Span = p.spanFrom(from)
	fn := p.arenas.NewFunc(data)
	return p.arenas.Exprs.NewFunc(ast.ExprArrow, data.Span, fn)
}

// parseArrow parses `[<T>](params)[: R] => body`; the current token is
// the '(' or '<'.
func (p *Parser) parseArrow(start source.Span, flags ast.FuncFlags) ast.ExprID {
	data := ast.FuncData{Flags: flags | ast.FuncArrow}
	saved := p.pushFunc(data.Flags)
	if p.at(token.Lt) {
		p.skipTypeArgs()
	}
	data.Params, data.Rest = p.parseParams()
	if p.opts.Source.TypeScript && p.eat(token.Colon) {
		p.skipReturnType()
	}
	p.expect(token.Arrow, diag.SynUnexpectedToken, "expected '=>'")
	p.parseArrowBody(&data)
	p.popFunc(saved)
	data.Span = p.spanFrom(start)
	fn := p.arenas.NewFunc(data)
	return p.arenas.Exprs.NewFunc(ast.ExprArrow, data.Span, fn)
}

func (p *Parser) parseArrowBody(data *ast.FuncData) {
	if p.at(token.LBrace) {
		data.Body, data.Strict = p.parseFunctionBody()
		return
	}
	data.ExprBody = p.parseAssign()
}

func (p *Parser) parseParen() ast.ExprID {
	open := p.advance().Span
	inner := p.parseExprAllowIn()
	p.expectClose(token.RParen, open)
	return p.arenas.Exprs.NewWrap(ast.ExprParen, p.spanFrom(open), ast.ExprWrapData{Value: inner})
}

func (p *Parser) parseArrayLiteral() ast.ExprID {
	open := p.advance().Span
	saved := p.noIn
	p.noIn = false
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if p.eat(token.Comma) {
			elems = append(elems, ast.NoExprID)
			continue
		}
		before := p.tok.Span.Start
		if p.at(token.DotDotDot) {
			start := p.advance().Span
			v := p.parseAssign()
			elems = append(elems, p.arenas.Exprs.NewWrap(ast.ExprSpread, start.Cover(p.exprSpan(v)), ast.ExprWrapData{Value: v}))
		} else {
			elems = append(elems, p.parseAssign())
		}
		if p.tok.Span.Start == before || !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saved
	p.expectClose(token.RBracket, open)
	return p.arenas.Exprs.NewList(ast.ExprArray, p.spanFrom(open), elems)
}

// methodPrefixFollows reports whether a get/set/async/static word is a
// modifier rather than the property name itself.
func methodPrefixFollows(next token.Token) bool {
	switch next.Kind {
	case token.LParen, token.Comma, token.Colon, token.RBrace, token.Assign, token.Semicolon,
		token.Question, token.Bang, token.Lt, token.EOF:
		return false
	}
	return true
}

func (p *Parser) parseObjectLiteral() ast.ExprID {
	open := p.advance().Span
	saved := p.noIn
	p.noIn = false
	var props []ast.ObjectProp
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.tok.Span.Start
		if prop, ok := p.parseObjectProp(); ok {
			props = append(props, prop)
		}
		if p.tok.Span.Start == before || !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saved
	p.expectClose(token.RBrace, open)
	return p.arenas.Exprs.NewObject(p.spanFrom(open), props)
}

func (p *Parser) parseObjectProp() (ast.ObjectProp, bool) {
	start := p.tok.Span
	if p.at(token.DotDotDot) {
		p.advance()
		v := p.parseAssign()
		return ast.ObjectProp{Kind: ast.PropSpread, Span: p.spanFrom(start), Value: v}, true
	}

	var flags ast.FuncFlags
	kind := ast.PropMethod
	if p.atWord("async") && methodPrefixFollows(p.peek()) && !p.peek().NewlineBefore {
		p.advance()
		flags |= ast.FuncAsync
	}
	if p.eat(token.Star) {
		flags |= ast.FuncGenerator
	}
	if flags == 0 && (p.atWord("get") || p.atWord("set")) && methodPrefixFollows(p.peek()) {
		if p.advance().Text == "get" {
			kind, flags = ast.PropGetter, ast.FuncGetter
		} else {
			kind, flags = ast.PropSetter, ast.FuncSetter
		}
	}

	keyTok := p.tok
	key, ok := p.parsePropertyKey()
	if !ok {
		return ast.ObjectProp{}, false
	}
	if p.at(token.LParen) || p.at(token.Lt) || flags != 0 {
		fn := p.parseMethod(start, flags|ast.FuncMethod, key)
		return ast.ObjectProp{Kind: kind, Span: p.spanFrom(start), Key: key, Func: fn}, true
	}
	if p.eat(token.Colon) {
		v := p.parseAssign()
		return ast.ObjectProp{Kind: ast.PropInit, Span: p.spanFrom(start), Key: key, Value: v}, true
	}
	if key.Kind != ast.KeyIdent || keyTok.Kind != token.Ident {
		p.err(diag.SynUnexpectedToken, "expected ':' after property name")
		return ast.ObjectProp{}, false
	}
	value := p.arenas.Exprs.NewIdent(ast.ExprIdent, keyTok.Span, key.Name)
	if p.at(token.Assign) {
		// {a = 1} is only valid as a destructuring target
		p.advance()
		def := p.parseAssign()
		target := p.arenas.Patterns.NewIdent(keyTok.Span, key.Name)
		value = p.arenas.Exprs.NewAssign(p.spanFrom(start), token.Assign, target, def)
	}
	return ast.ObjectProp{Kind: ast.PropShorthand, Span: p.spanFrom(start), Key: key, Value: value}, true
}

func (p *Parser) parsePropertyKey() (ast.PropKey, bool) {
	tok := p.tok
	switch {
	case tok.IsWord():
		p.advance()
		return ast.PropKey{Kind: ast.KeyIdent, Span: tok.Span, Name: p.intern(tok.Text)}, true
	case tok.Kind == token.StringLit:
		p.advance()
		return ast.PropKey{Kind: ast.KeyString, Span: tok.Span, Name: p.intern(unquote(tok.Text))}, true
	case tok.Kind == token.NumberLit || tok.Kind == token.BigIntLit:
		p.advance()
		return ast.PropKey{Kind: ast.KeyNumber, Span: tok.Span, Name: p.intern(tok.Text)}, true
	case tok.Kind == token.PrivateName:
		p.advance()
		return ast.PropKey{Kind: ast.KeyPrivate, Span: tok.Span, Name: p.intern(tok.Text[1:])}, true
	case tok.Kind == token.LBracket:
		p.advance()
		e := p.parseAssignAllowIn()
		p.expectClose(token.RBracket, tok.Span)
		return ast.PropKey{Kind: ast.KeyComputed, Span: p.spanFrom(tok.Span), Expr: e}, true
	}
	p.err(diag.SynUnexpectedToken, "expected property name, got '"+tokenDesc(tok)+"'")
	return ast.PropKey{}, false
}

func (p *Parser) parseImportExpr() ast.ExprID {
	start := p.advance().Span
	if p.eat(token.Dot) {
		prop, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected 'meta' after 'import.'")
		if !p.opts.Source.Module {
			p.errAt(diag.SynModuleSyntaxInScript, p.spanFrom(start), "import.meta is only valid in modules")
		}
		return p.arenas.Exprs.NewMeta(p.spanFrom(start), p.intern("import"), p.intern(prop.Text))
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected '(' after 'import'")
		return ast.NoExprID
	}
	args := p.parseArguments()
	return p.arenas.Exprs.NewCall(ast.ExprImportCall, p.spanFrom(start), ast.ExprCallData{Args: args})
}
