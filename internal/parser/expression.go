package parser

import (
	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

// parseExpr parses Expression: assignments joined by commas.
func (p *Parser) parseExpr() ast.ExprID {
	first := p.parseAssign()
	if !p.at(token.Comma) {
		return first
	}
	elems := []ast.ExprID{first}
	for p.eat(token.Comma) {
		elems = append(elems, p.parseAssign())
	}
	span := p.exprSpan(first).Cover(p.lastSpan)
	return p.arenas.Exprs.NewList(ast.ExprSequence, span, elems)
}

// parseExprAllowIn parses an expression with `in` re-enabled (inside brackets).
func (p *Parser) parseExprAllowIn() ast.ExprID {
	saved := p.noIn
	p.noIn = false
	e := p.parseExpr()
	p.noIn = saved
	return e
}

func (p *Parser) parseAssignAllowIn() ast.ExprID {
	saved := p.noIn
	p.noIn = false
	e := p.parseAssign()
	p.noIn = saved
	return e
}

// parseAssign parses AssignmentExpression.
func (p *Parser) parseAssign() ast.ExprID {
	if !p.enter() {
		return ast.NoExprID
	}
	defer p.leave()

	if p.inGen && p.atWord("yield") {
		return p.parseYield()
	}

	left := p.parseConditional()
	if !p.tok.Kind.IsAssign() {
		return left
	}
	opTok := p.advance()
	target := p.toAssignTarget(left, opTok.Kind)
	value := p.parseAssign()
	span := p.exprSpan(left).Cover(p.exprSpan(value))
	return p.arenas.Exprs.NewAssign(span, opTok.Kind, target, value)
}

func (p *Parser) parseYield() ast.ExprID {
	start := p.advance().Span
	data := ast.ExprWrapData{}
	if !p.tok.NewlineBefore && p.eat(token.Star) {
		data.Delegate = true
		data.Value = p.parseAssign()
	} else if !p.canInsertSemicolon() && !p.atOr(token.RParen, token.RBracket, token.Comma, token.Colon, token.TemplateMiddle, token.TemplateTail) {
		data.Value = p.parseAssign()
	}
	return p.arenas.Exprs.NewWrap(ast.ExprYield, p.spanFrom(start), data)
}

func (p *Parser) parseConditional() ast.ExprID {
	cond := p.parseBinary(precCoalesce)
	if !p.at(token.Question) {
		return cond
	}
	p.advance()
	then := p.parseAssignAllowIn()
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	els := p.parseAssign()
	span := p.exprSpan(cond).Cover(p.lastSpan)
	return p.arenas.Exprs.NewConditional(span, ast.ExprConditionalData{Cond: cond, Then: then, Else: els})
}

// parseBinary реализует Pratt parsing для бинарных операторов.
func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	for {
		prec, rightAssoc := p.binaryPrec(p.tok)
		if prec == precNone || prec < minPrec {
			return left
		}
		if p.at(token.Ident) {
			// TypeScript `x as T` / `x satisfies T`: the type is erased
			p.advance()
			p.skipType()
			continue
		}
		opTok := p.advance()
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right := p.parseBinary(next)
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, opTok.Kind, left, right)
	}
}

func (p *Parser) canAwait() bool {
	return p.inAsync || (p.opts.Source.Module && !p.inFunction)
}

// parseUnary обрабатывает префиксные операторы и постфиксные ++/--.
func (p *Parser) parseUnary() ast.ExprID {
	if !p.enter() {
		return ast.NoExprID
	}
	defer p.leave()

	start := p.tok.Span
	switch {
	case isUnaryOp(p.tok.Kind):
		op := p.advance().Kind
		operand := p.parseUnary()
		return p.arenas.Exprs.NewUnary(start.Cover(p.exprSpan(operand)), op, operand)
	case p.atOr(token.PlusPlus, token.MinusMinus):
		op := p.advance().Kind
		operand := p.parseUnary()
		p.checkSimpleTarget(operand)
		return p.arenas.Exprs.NewUpdate(start.Cover(p.exprSpan(operand)), ast.ExprUpdateData{Op: op, Prefix: true, Target: operand})
	case p.atWord("await") && p.canAwait():
		p.advance()
		operand := p.parseUnary()
		return p.arenas.Exprs.NewWrap(ast.ExprAwait, start.Cover(p.exprSpan(operand)), ast.ExprWrapData{Value: operand})
	case p.at(token.Lt) && p.opts.Source.TypeScript && !p.opts.Source.JSX:
		// <T>expr
		p.skipTypeArgs()
		return p.parseUnary()
	}

	e := p.parseLeftHandSide()
	if p.atOr(token.PlusPlus, token.MinusMinus) && !p.tok.NewlineBefore {
		op := p.advance().Kind
		p.checkSimpleTarget(e)
		return p.arenas.Exprs.NewUpdate(p.exprSpan(e).Cover(p.lastSpan), ast.ExprUpdateData{Op: op, Target: e})
	}
	return e
}

func (p *Parser) checkSimpleTarget(e ast.ExprID) {
	inner := p.arenas.Exprs.Unparen(e)
	ex := p.arenas.Exprs.Get(inner)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprIndex:
		return
	}
	p.errAt(diag.SynInvalidAssignTarget, ex.Span, "invalid update target")
}

// parseLeftHandSide parses member accesses, calls and `new`.
func (p *Parser) parseLeftHandSide() ast.ExprID {
	var e ast.ExprID
	if p.at(token.KwNew) {
		e = p.parseNew()
	} else {
		e = p.parsePrimary()
	}
	return p.parseMemberTail(e, true)
}

func (p *Parser) parseNew() ast.ExprID {
	if !p.enter() {
		return ast.NoExprID
	}
	defer p.leave()

	start := p.advance().Span
	if p.eat(token.Dot) {
		prop, _ := p.expect(token.Ident, diag.SynExpectIdentifier, "expected 'target' after 'new.'")
		return p.arenas.Exprs.NewMeta(p.spanFrom(start), p.intern("new"), p.intern(prop.Text))
	}
	var callee ast.ExprID
	if p.at(token.KwNew) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseMemberTail(callee, false)
	if p.opts.Source.TypeScript && p.at(token.Lt) {
		p.skipTypeArgs()
	}
	data := ast.ExprCallData{Callee: callee}
	if p.at(token.LParen) {
		data.Args = p.parseArguments()
	}
	return p.arenas.Exprs.NewCall(ast.ExprNew, p.spanFrom(start), data)
}

// parseMemberTail parses `.x`, `?.x`, `[i]`, calls and tagged templates.
// allowCall is false for the callee of `new`.
func (p *Parser) parseMemberTail(e ast.ExprID, allowCall bool) ast.ExprID {
	for {
		start := p.exprSpan(e)
		switch p.tok.Kind {
		case token.Dot:
			p.advance()
			e = p.parseMemberName(e, start, false)
		case token.QuestionDot:
			if !allowCall {
				return e
			}
			p.advance()
			switch p.tok.Kind {
			case token.LParen:
				args := p.parseArguments()
				e = p.arenas.Exprs.NewCall(ast.ExprCall, p.spanFrom(start), ast.ExprCallData{Callee: e, Args: args, Optional: true})
			case token.LBracket:
				p.advance()
				idx := p.parseExprAllowIn()
				p.expectClose(token.RBracket, start)
				e = p.arenas.Exprs.NewIndex(p.spanFrom(start), ast.ExprIndexData{Object: e, Index: idx, Optional: true})
			default:
				e = p.parseMemberName(e, start, true)
			}
		case token.LBracket:
			open := p.advance().Span
			idx := p.parseExprAllowIn()
			p.expectClose(token.RBracket, open)
			e = p.arenas.Exprs.NewIndex(p.spanFrom(start), ast.ExprIndexData{Object: e, Index: idx})
		case token.TemplateFull, token.TemplateHead:
			e = p.parseTemplate(e)
		case token.LParen:
			if !allowCall {
				return e
			}
			args := p.parseArguments()
			e = p.arenas.Exprs.NewCall(ast.ExprCall, p.spanFrom(start), ast.ExprCallData{Callee: e, Args: args})
		case token.Bang:
			// TypeScript non-null assertion x!
			if !p.opts.Source.TypeScript || p.tok.NewlineBefore {
				return e
			}
			p.advance()
		case token.Lt:
			if !allowCall || !p.opts.Source.TypeScript || !p.typeArgsAhead() {
				return e
			}
			p.skipTypeArgs()
		default:
			return e
		}
	}
}

func (p *Parser) parseMemberName(obj ast.ExprID, start source.Span, optional bool) ast.ExprID {
	data := ast.ExprMemberData{Object: obj, Optional: optional}
	switch {
	case p.at(token.PrivateName):
		tok := p.advance()
		data.Property = p.intern(tok.Text[1:])
		data.PropSpan = tok.Span
		data.Private = true
	case p.tok.IsWord():
		tok := p.advance()
		data.Property = p.intern(tok.Text)
		data.PropSpan = tok.Span
	default:
		p.err(diag.SynExpectIdentifier, "expected property name, got '"+tokenDesc(p.tok)+"'")
	}
	return p.arenas.Exprs.NewMember(p.spanFrom(start), data)
}

func (p *Parser) parseArguments() []ast.ExprID {
	open := p.advance().Span // (
	saved := p.noIn
	p.noIn = false
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.DotDotDot) {
			start := p.advance().Span
			v := p.parseAssign()
			args = append(args, p.arenas.Exprs.NewWrap(ast.ExprSpread, start.Cover(p.exprSpan(v)), ast.ExprWrapData{Value: v}))
		} else {
			before := p.tok.Span.Start
			args = append(args, p.parseAssign())
			if p.tok.Span.Start == before {
				break
			}
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.noIn = saved
	p.expectClose(token.RParen, open)
	return args
}

// parseTemplate parses a template literal; tag is NoExprID when untagged.
func (p *Parser) parseTemplate(tag ast.ExprID) ast.ExprID {
	start := p.tok.Span
	if tag.IsValid() {
		start = p.exprSpan(tag)
	}
	data := ast.ExprTemplateData{Tag: tag}
	head := p.advance()
	data.Quasis = append(data.Quasis, p.intern(head.Text))
	if head.Kind == token.TemplateHead {
		saved := p.noIn
		p.noIn = false
		for {
			data.Exprs = append(data.Exprs, p.parseExpr())
			if p.at(token.TemplateMiddle) {
				data.Quasis = append(data.Quasis, p.intern(p.advance().Text))
				continue
			}
			if p.at(token.TemplateTail) {
				data.Quasis = append(data.Quasis, p.intern(p.advance().Text))
			} else {
				p.err(diag.LexUnterminatedTemplate, "expected '}' to close template substitution")
			}
			break
		}
		p.noIn = saved
	}
	return p.arenas.Exprs.NewTemplate(p.spanFrom(start), data)
}
