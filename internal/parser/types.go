package parser

import (
	"binder/internal/token"
)

// TypeScript types carry no bindings, so the parser skips them at the
// token level instead of building type nodes.

// skipBalanced skips a bracketed group; the current token is the opener.
// All bracket kinds share one depth counter.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
		if depth <= 0 {
			return
		}
	}
}

// skipTypeArgs skips `<...>` type arguments or parameters and reports
// whether the closing '>' was found. Tokens such as `>>` or `>=` are split
// so that every '>' closes one level.
func (p *Parser) skipTypeArgs() bool {
	if !p.at(token.Lt) {
		return false
	}
	p.advance()
	depth := 1
	for {
		switch p.tok.Kind {
		case token.EOF, token.Semicolon, token.RParen, token.RBracket, token.RBrace,
			token.AndAnd, token.OrOr:
			return false
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
			continue
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.Shr, token.UShr, token.GtEq, token.ShrAssign, token.UShrAssign:
			p.tok = p.lx.RescanGreater(p.tok)
			depth--
		}
		p.advance()
		if depth == 0 {
			return true
		}
	}
}

// typeArgsAhead reports whether `<...>` at the current token are type
// arguments of a call or tagged template.
func (p *Parser) typeArgsAhead() bool {
	return p.speculate(func() bool {
		if !p.skipTypeArgs() {
			return false
		}
		return p.atOr(token.LParen, token.TemplateFull, token.TemplateHead)
	})
}

// skipType skips a type: unions, intersections, conditional types and
// function types included.
func (p *Parser) skipType() {
	if !p.enter() {
		return
	}
	defer p.leave()

	p.skipUnion()
	if p.at(token.KwExtends) && !p.tok.NewlineBefore {
		// A extends B ? C : D
		p.advance()
		p.skipUnion()
		if p.eat(token.Question) {
			p.skipType()
			if p.eat(token.Colon) {
				p.skipType()
			}
		}
	}
}

func (p *Parser) skipUnion() {
	p.eat(token.Pipe)
	p.eat(token.Amp)
	for {
		before := p.tok.Span.Start
		p.skipTypeOperand()
		// T[] and T[K]
		for p.at(token.LBracket) && !p.tok.NewlineBefore {
			p.skipBalanced()
		}
		if p.tok.Span.Start == before {
			return
		}
		if !p.eat(token.Pipe) && !p.eat(token.Amp) {
			return
		}
	}
}

var typeOperators = map[string]bool{
	"keyof": true, "unique": true, "readonly": true, "infer": true, "abstract": true,
}

func (p *Parser) skipTypeOperand() {
	switch p.tok.Kind {
	case token.Ident:
		if typeOperators[p.tok.Text] {
			next := p.peek()
			if next.Kind == token.Ident || next.Kind == token.KwNew || next.Kind == token.KwTypeof ||
				next.Kind == token.LParen || next.Kind == token.LBracket || next.Kind == token.LBrace {
				p.advance()
				p.skipTypeOperand()
				return
			}
		}
		p.skipTypeReference()
	case token.KwTypeof:
		p.advance()
		if p.at(token.KwImport) {
			p.skipTypeOperand()
			return
		}
		p.skipTypeReference()
	case token.KwImport:
		// import("m").T
		p.advance()
		if p.at(token.LParen) {
			p.skipBalanced()
		}
		for p.eat(token.Dot) {
			if p.tok.IsWord() {
				p.advance()
			}
		}
		if p.at(token.Lt) {
			p.skipTypeArgs()
		}
	case token.KwNew:
		// new (...) => T
		p.advance()
		if p.at(token.Lt) {
			p.skipTypeArgs()
		}
		p.skipFunctionType()
	case token.Lt:
		p.skipTypeArgs()
		p.skipFunctionType()
	case token.LParen:
		p.skipFunctionType()
	case token.LBracket, token.LBrace:
		p.skipBalanced()
	case token.TemplateHead:
		p.skipTemplateType()
	case token.Minus:
		p.advance()
		if p.atOr(token.NumberLit, token.BigIntLit) {
			p.advance()
		}
	case token.KwVoid, token.KwNull, token.KwThis, token.KwTrue, token.KwFalse, token.KwConst,
		token.NumberLit, token.BigIntLit, token.StringLit, token.TemplateFull:
		p.advance()
	}
}

// skipTypeReference skips `A.B.C<T>`.
func (p *Parser) skipTypeReference() {
	if !p.tok.IsWord() {
		return
	}
	p.advance()
	for p.at(token.Dot) {
		p.advance()
		if p.tok.IsWord() || p.at(token.PrivateName) {
			p.advance()
		}
	}
	if p.at(token.Lt) && !p.tok.NewlineBefore {
		p.skipTypeArgs()
	}
}

// skipFunctionType skips `(params)` and, when followed by `=>`, the return
// type. A group without an arrow is a parenthesized type.
func (p *Parser) skipFunctionType() {
	if !p.at(token.LParen) {
		return
	}
	p.skipBalanced()
	if p.eat(token.Arrow) {
		p.skipReturnType()
	}
}

// skipTemplateType skips a template literal type `a${T}b`.
func (p *Parser) skipTemplateType() {
	p.advance() // head
	for !p.at(token.EOF) {
		before := p.tok.Span.Start
		p.skipType()
		if p.at(token.TemplateTail) {
			p.advance()
			return
		}
		if p.at(token.TemplateMiddle) {
			p.advance()
			continue
		}
		if p.tok.Span.Start == before {
			return
		}
	}
}

// skipReturnType skips a return type, including type predicates
// `x is T` and `asserts x [is T]`.
func (p *Parser) skipReturnType() {
	if p.atWord("asserts") {
		next := p.peek()
		if (next.Kind == token.Ident || next.Kind == token.KwThis) && !next.NewlineBefore {
			p.advance()
			p.advance()
			if p.eatWord("is") {
				p.skipType()
			}
			return
		}
	}
	if p.at(token.Ident) || p.at(token.KwThis) {
		if next := p.peek(); next.Is("is") && !next.NewlineBefore {
			p.advance()
			p.advance()
			p.skipType()
			return
		}
	}
	p.skipType()
}
