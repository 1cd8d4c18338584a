package parser

import (
	"strings"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/source"
	"binder/internal/token"
)

// JSX switches the lexer between two modes: inside tags tokens are scanned
// as usual, between tags NextJSXChild reads raw text. Element parsers leave
// the final '>' as the current token so the caller picks the mode that
// follows it.

func (p *Parser) parseJSX() ast.ExprID {
	start := p.advance().Span // <
	e := p.parseJSXElementAfterLt(start)
	p.advance()
	return e
}

// atGreater reports a '>' at the current token, splitting `>>`, `>=` and
// friends that the regular scanner may have produced.
func (p *Parser) atGreater() bool {
	switch p.tok.Kind {
	case token.Gt:
		return true
	case token.Shr, token.UShr, token.GtEq, token.ShrAssign, token.UShrAssign:
		p.tok = p.lx.RescanGreater(p.tok)
		return true
	}
	return false
}

// nextJSXChild consumes the current token and rescans in child mode.
func (p *Parser) nextJSXChild() {
	p.lastSpan = p.tok.Span
	if p.tooDeep {
		p.tok = token.Token{Kind: token.EOF, Span: p.lx.EmptySpan()}
		return
	}
	p.tok = p.lx.NextJSXChild()
}

// parseJSXElementAfterLt parses an element or fragment whose '<' is already
// consumed.
func (p *Parser) parseJSXElementAfterLt(start source.Span) ast.ExprID {
	if !p.enter() {
		return ast.NoExprID
	}
	defer p.leave()

	exprs := p.arenas.Exprs
	if p.atGreater() {
		// <>...</>
		children, ok := p.parseJSXChildren(start)
		if ok && !p.atGreater() {
			p.errAt(diag.SynUnclosedJSXElement, p.diagSpan(), "expected '</>' to close fragment")
		}
		return exprs.NewJSX(ast.ExprJSXFragment, start.Cover(p.tok.Span), ast.ExprJSXData{Children: children})
	}

	tag, name, ok := p.parseJSXTagName()
	if !ok {
		return ast.NoExprID
	}
	data := ast.ExprJSXData{Tag: p.intern(tag), Name: name}
	if p.opts.Source.TypeScript && p.at(token.Lt) {
		p.skipTypeArgs()
	}
	data.Attrs = p.parseJSXAttrs()

	if p.eat(token.Slash) {
		if !p.atGreater() {
			p.err(diag.SynUnexpectedToken, "expected '>' after '/' in JSX tag")
		}
		return exprs.NewJSX(ast.ExprJSXElement, start.Cover(p.tok.Span), data)
	}
	if !p.atGreater() {
		p.err(diag.SynUnexpectedToken, "expected '>' to end JSX tag, got '"+tokenDesc(p.tok)+"'")
		return exprs.NewJSX(ast.ExprJSXElement, p.spanFrom(start), data)
	}

	children, closed := p.parseJSXChildren(start)
	data.Children = children
	if closed {
		closeStart := p.tok.Span
		closing, _, ok := p.parseJSXTagName()
		if ok && closing != tag {
			p.errWithNote(diag.SynUnclosedJSXElement, closeStart,
				"expected corresponding closing tag for '"+tag+"'", start, "opened here")
		}
		if !p.atGreater() {
			p.err(diag.SynUnexpectedToken, "expected '>' to end closing tag")
		}
	}
	return exprs.NewJSX(ast.ExprJSXElement, start.Cover(p.tok.Span), data)
}

// parseJSXTagName parses `a`, `a-b`, `ns:a` or `A.B.C`. Capitalized names
// and member chains refer to bindings; the rest are intrinsic elements.
func (p *Parser) parseJSXTagName() (string, ast.ExprID, bool) {
	if !p.tok.IsWord() {
		p.err(diag.SynExpectIdentifier, "expected JSX tag name, got '"+tokenDesc(p.tok)+"'")
		return "", ast.NoExprID, false
	}
	exprs := p.arenas.Exprs
	var ref ast.ExprID
	if p.at(token.KwThis) {
		ref = exprs.NewKeyword(ast.ExprThis, p.tok.Span)
	}
	p.tok = p.lx.ExtendJSXName(p.tok)
	first := p.advance()
	text := first.Text

	if p.eat(token.Colon) {
		if !p.tok.IsWord() {
			p.err(diag.SynExpectIdentifier, "expected name after ':' in JSX namespace")
			return text, ast.NoExprID, true
		}
		p.tok = p.lx.ExtendJSXName(p.tok)
		return text + ":" + p.advance().Text, ast.NoExprID, true
	}

	member := p.at(token.Dot)
	if !ref.IsValid() && (member || isComponentName(text)) {
		ref = exprs.NewIdent(ast.ExprIdent, first.Span, p.intern(text))
	}
	for p.eat(token.Dot) {
		if !p.tok.IsWord() {
			p.err(diag.SynExpectIdentifier, "expected property name in JSX member expression")
			break
		}
		prop := p.advance()
		text += "." + prop.Text
		ref = exprs.NewMember(first.Span.Cover(prop.Span), ast.ExprMemberData{
			Object:   ref,
			Property: p.intern(prop.Text),
			PropSpan: prop.Span,
		})
	}
	return text, ref, true
}

func isComponentName(name string) bool {
	if name == "" || strings.ContainsAny(name, "-:") {
		return false
	}
	c := name[0]
	return c == '_' || c == '$' || (c >= 'A' && c <= 'Z')
}

func (p *Parser) parseJSXAttrs() []ast.JSXAttr {
	var attrs []ast.JSXAttr
	for !p.at(token.Slash) && !p.at(token.EOF) && !p.atGreater() {
		start := p.tok.Span
		if p.at(token.LBrace) {
			// {...props}
			open := p.advance().Span
			if !p.eat(token.DotDotDot) {
				p.err(diag.SynUnexpectedToken, "expected '...' in JSX spread attribute")
			}
			v := p.parseAssignAllowIn()
			p.expectClose(token.RBrace, open)
			attrs = append(attrs, ast.JSXAttr{Span: p.spanFrom(start), Value: v, Spread: true})
			continue
		}
		if !p.tok.IsWord() {
			p.err(diag.SynUnexpectedToken, "unexpected token '"+tokenDesc(p.tok)+"' in JSX tag")
			break
		}
		p.tok = p.lx.ExtendJSXName(p.tok)
		name := p.advance().Text
		if p.eat(token.Colon) && p.tok.IsWord() {
			p.tok = p.lx.ExtendJSXName(p.tok)
			name += ":" + p.advance().Text
		}
		attr := ast.JSXAttr{Name: p.intern(name)}
		if p.eat(token.Assign) {
			attr.Value = p.parseJSXAttrValue()
		}
		attr.Span = p.spanFrom(start)
		attrs = append(attrs, attr)
	}
	return attrs
}

func (p *Parser) parseJSXAttrValue() ast.ExprID {
	exprs := p.arenas.Exprs
	switch p.tok.Kind {
	case token.StringLit:
		p.tok = p.lx.ScanJSXAttrString(p.tok)
		tok := p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitString, p.intern(tok.Text))
	case token.LBrace:
		open := p.advance().Span
		v := p.parseAssignAllowIn()
		p.expectClose(token.RBrace, open)
		return v
	case token.Lt:
		start := p.advance().Span
		e := p.parseJSXElementAfterLt(start)
		p.advance()
		return e
	}
	p.err(diag.SynExpectExpression, "expected JSX attribute value, got '"+tokenDesc(p.tok)+"'")
	return ast.NoExprID
}

// parseJSXChildren parses element content after the opening tag's '>'.
// It stops after `</` and reports whether the closing tag was reached.
func (p *Parser) parseJSXChildren(open source.Span) ([]ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	var children []ast.ExprID
	p.nextJSXChild()
	for {
		switch p.tok.Kind {
		case token.JSXText:
			children = append(children, exprs.NewLiteral(p.tok.Span, ast.LitJSXText, p.intern(p.tok.Text)))
			p.nextJSXChild()
		case token.LBrace:
			lbrace := p.advance().Span
			switch {
			case p.at(token.RBrace):
				// {} or {/* comment */}
			case p.at(token.DotDotDot):
				spreadStart := p.advance().Span
				v := p.parseExprAllowIn()
				children = append(children, exprs.NewWrap(ast.ExprSpread, p.spanFrom(spreadStart), ast.ExprWrapData{Value: v}))
			default:
				children = append(children, p.parseExprAllowIn())
			}
			if !p.at(token.RBrace) {
				p.expectClose(token.RBrace, lbrace)
				return children, false
			}
			p.nextJSXChild()
		case token.Lt:
			lt := p.advance().Span
			if p.eat(token.Slash) {
				return children, true
			}
			children = append(children, p.parseJSXElementAfterLt(lt))
			if !p.atGreater() {
				return children, false
			}
			p.nextJSXChild()
		default:
			p.errWithNote(diag.SynUnclosedJSXElement, p.diagSpan(), "unclosed JSX element", open, "element opened here")
			return children, false
		}
	}
}
