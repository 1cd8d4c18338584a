package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/token"
)

// bindingIdent creates a PatIdent from an identifier token, checking
// strict-mode reserved words.
func (p *Parser) bindingIdent(tok token.Token) ast.PatternID {
	if p.strict && token.IsStrictReserved(tok.Text) {
		p.errAt(diag.SynStrictModeReserved, tok.Span, "'"+tok.Text+"' is reserved in strict mode")
	}
	return p.arenas.Patterns.NewIdent(tok.Span, p.intern(tok.Text))
}

// parseBindingTarget parses BindingIdentifier or a destructuring pattern.
func (p *Parser) parseBindingTarget() ast.PatternID {
	if !p.enter() {
		return ast.NoPatternID
	}
	defer p.leave()

	switch p.tok.Kind {
	case token.Ident:
		return p.bindingIdent(p.advance())
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	}
	p.err(diag.SynExpectBindingPattern, "expected binding name or pattern, got '"+tokenDesc(p.tok)+"'")
	if p.tok.IsKeyword() {
		p.advance()
	}
	return ast.NoPatternID
}

// parseBindingElement parses `target[?][: T][= default]`.
func (p *Parser) parseBindingElement() ast.PatternID {
	start := p.tok.Span
	target := p.parseBindingTarget()
	if p.opts.Source.TypeScript {
		p.eat(token.Question)
		if p.eat(token.Colon) {
			p.skipType()
		}
	}
	if !p.at(token.Assign) {
		return target
	}
	p.advance()
	def := p.parseAssignAllowIn()
	return p.arenas.Patterns.NewAssign(p.spanFrom(start), target, def)
}

func (p *Parser) parseArrayPattern() ast.PatternID {
	open := p.advance().Span
	var data ast.PatArrayData
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		if p.eat(token.Comma) {
			data.Elems = append(data.Elems, ast.NoPatternID)
			continue
		}
		before := p.tok.Span.Start
		if p.eat(token.DotDotDot) {
			data.Rest = p.parseBindingTarget()
			break
		}
		data.Elems = append(data.Elems, p.parseBindingElement())
		if p.tok.Span.Start == before || !p.eat(token.Comma) {
			break
		}
	}
	p.expectClose(token.RBracket, open)
	return p.arenas.Patterns.NewArray(p.spanFrom(open), data)
}

func (p *Parser) parseObjectPattern() ast.PatternID {
	open := p.advance().Span
	var data ast.PatObjectData
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.tok.Span
		if p.eat(token.DotDotDot) {
			data.Rest = p.parseBindingTarget()
			break
		}
		keyTok := p.tok
		key, ok := p.parsePropertyKey()
		if !ok {
			break
		}
		prop := ast.PatProp{Key: key}
		if p.eat(token.Colon) {
			prop.Value = p.parseBindingElement()
		} else {
			if keyTok.Kind != token.Ident {
				p.errAt(diag.SynExpectBindingPattern, keyTok.Span, "expected ':' after property name in pattern")
			}
			prop.Shorthand = true
			prop.Value = p.bindingIdent(keyTok)
			if p.eat(token.Assign) {
				def := p.parseAssignAllowIn()
				prop.Value = p.arenas.Patterns.NewAssign(p.spanFrom(start), prop.Value, def)
			}
		}
		prop.Span = p.spanFrom(start)
		data.Props = append(data.Props, prop)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expectClose(token.RBrace, open)
	return p.arenas.Patterns.NewObject(p.spanFrom(open), data)
}

// parseParams parses a parenthesized parameter list.
func (p *Parser) parseParams() ([]ast.PatternID, ast.PatternID) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before parameters")
	if !ok {
		return nil, ast.NoPatternID
	}
	var params []ast.PatternID
	rest := ast.NoPatternID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		before := p.tok.Span.Start
		p.parseDecorators()
		if p.opts.Source.TypeScript {
			p.skipParamModifiers()
			if p.at(token.KwThis) {
				// this: T
				p.advance()
				if p.eat(token.Colon) {
					p.skipType()
				}
				if !p.eat(token.Comma) {
					break
				}
				continue
			}
		}
		if p.eat(token.DotDotDot) {
			rest = p.parseBindingElement()
		} else {
			params = append(params, p.parseBindingElement())
		}
		if p.tok.Span.Start == before || !p.eat(token.Comma) {
			break
		}
	}
	p.expectClose(token.RParen, open.Span)
	return params, rest
}

func (p *Parser) skipParamModifiers() {
	for {
		switch {
		case p.atWord("public"), p.atWord("private"), p.atWord("protected"),
			p.atWord("readonly"), p.atWord("override"):
			next := p.peek()
			if next.Kind != token.Ident && next.Kind != token.LBrace && next.Kind != token.LBracket && next.Kind != token.KwThis {
				return
			}
			p.advance()
		default:
			return
		}
	}
}

// toAssignTarget converts the left side of an assignment into a pattern.
func (p *Parser) toAssignTarget(e ast.ExprID, op token.Kind) ast.PatternID {
	if op == token.Assign {
		return p.exprToPattern(e, true)
	}
	return p.exprToPattern(e, false)
}

// exprToPattern reinterprets an expression as an assignment target.
// destructure allows array and object patterns.
func (p *Parser) exprToPattern(e ast.ExprID, destructure bool) ast.PatternID {
	exprs := p.arenas.Exprs
	pats := p.arenas.Patterns
	ex := exprs.Get(e)
	if ex == nil {
		return ast.NoPatternID
	}
	switch ex.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(e)
		name := p.arenas.Name(data.Name)
		if p.strict && (name == "eval" || name == "arguments") {
			p.errAt(diag.SynInvalidAssignTarget, ex.Span, "cannot assign to '"+name+"' in strict mode")
		}
		return pats.NewIdent(ex.Span, data.Name)
	case ast.ExprMember, ast.ExprIndex:
		return pats.NewExpr(ex.Span, e)
	case ast.ExprParen:
		inner := exprs.Unparen(e)
		if k := exprs.Get(inner); k != nil && (k.Kind == ast.ExprIdent || k.Kind == ast.ExprMember || k.Kind == ast.ExprIndex) {
			return p.exprToPattern(inner, false)
		}
	case ast.ExprArray:
		if !destructure {
			break
		}
		list, _ := exprs.List(e)
		var data ast.PatArrayData
		for i, el := range list.Elems {
			if !el.IsValid() {
				data.Elems = append(data.Elems, ast.NoPatternID)
				continue
			}
			if w, ok := exprs.Wrap(el); ok && exprs.Get(el).Kind == ast.ExprSpread {
				if i != len(list.Elems)-1 {
					p.errAt(diag.SynInvalidAssignTarget, exprs.Get(el).Span, "rest element must be last")
				}
				data.Rest = p.exprToPattern(w.Value, true)
				continue
			}
			data.Elems = append(data.Elems, p.exprToPattern(el, true))
		}
		return pats.NewArray(ex.Span, data)
	case ast.ExprObject:
		if !destructure {
			break
		}
		obj, _ := exprs.Object(e)
		var data ast.PatObjectData
		for _, prop := range obj.Props {
			switch prop.Kind {
			case ast.PropSpread:
				data.Rest = p.exprToPattern(prop.Value, false)
			case ast.PropInit, ast.PropShorthand:
				data.Props = append(data.Props, ast.PatProp{
					Span:      prop.Span,
					Key:       prop.Key,
					Value:     p.exprToPattern(prop.Value, true),
					Shorthand: prop.Kind == ast.PropShorthand,
				})
			default:
				p.errAt(diag.SynInvalidAssignTarget, prop.Span, "methods cannot be destructuring targets")
			}
		}
		return pats.NewObject(ex.Span, data)
	case ast.ExprAssign:
		if !destructure {
			break
		}
		// элемент с default-значением: [a = 1] = arr
		data, _ := exprs.Assign(e)
		if data.Op == token.Assign {
			return pats.NewAssign(ex.Span, data.Target, data.Value)
		}
	}
	p.errAt(diag.SynInvalidAssignTarget, ex.Span, "invalid assignment target")
	return pats.NewExpr(ex.Span, e)
}
