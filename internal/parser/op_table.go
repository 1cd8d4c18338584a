package parser

import (
	"binder/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precNone           = 0
	precCoalesce       = 1  // ??
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == != === !==
	precRelational     = 8  // < > <= >= instanceof in (as satisfies)
	precShift          = 9  // << >> >>>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precExponent       = 12 // ** (правоассоциативно)
)

// binaryPrec возвращает приоритет и ассоциативность оператора
func (p *Parser) binaryPrec(tok token.Token) (int, bool) {
	switch tok.Kind {
	case token.QuestionQuestion:
		return precCoalesce, false
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality, false
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof:
		return precRelational, false
	case token.KwIn:
		if p.noIn {
			return precNone, false
		}
		return precRelational, false
	case token.Shl, token.Shr, token.UShr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.StarStar:
		return precExponent, true
	case token.Ident:
		if p.opts.Source.TypeScript && !tok.NewlineBefore && (tok.Text == "as" || tok.Text == "satisfies") {
			return precRelational, false
		}
	}
	return precNone, false
}

func isUnaryOp(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.KwTypeof, token.KwVoid, token.KwDelete:
		return true
	}
	return false
}
