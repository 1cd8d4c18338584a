package lexer

import (
	"binder/internal/diag"
	"binder/internal/token"
)

// operator table, longest spelling first within each leading byte
var operators = map[byte][]struct {
	text string
	kind token.Kind
}{
	'(': {{"(", token.LParen}},
	')': {{")", token.RParen}},
	'[': {{"[", token.LBracket}},
	']': {{"]", token.RBracket}},
	'{': {{"{", token.LBrace}},
	'}': {{"}", token.RBrace}},
	';': {{";", token.Semicolon}},
	',': {{",", token.Comma}},
	':': {{":", token.Colon}},
	'~': {{"~", token.Tilde}},
	'@': {{"@", token.At}},
	'.': {{"...", token.DotDotDot}, {".", token.Dot}},
	'?': {{"??=", token.QuestionQuestionAssign}, {"??", token.QuestionQuestion}, {"?.", token.QuestionDot}, {"?", token.Question}},
	'=': {{"===", token.EqEqEq}, {"==", token.EqEq}, {"=>", token.Arrow}, {"=", token.Assign}},
	'!': {{"!==", token.BangEqEq}, {"!=", token.BangEq}, {"!", token.Bang}},
	'+': {{"++", token.PlusPlus}, {"+=", token.PlusAssign}, {"+", token.Plus}},
	'-': {{"--", token.MinusMinus}, {"-=", token.MinusAssign}, {"-", token.Minus}},
	'*': {{"**=", token.StarStarAssign}, {"**", token.StarStar}, {"*=", token.StarAssign}, {"*", token.Star}},
	'/': {{"/=", token.SlashAssign}, {"/", token.Slash}},
	'%': {{"%=", token.PercentAssign}, {"%", token.Percent}},
	'<': {{"<<=", token.ShlAssign}, {"<<", token.Shl}, {"<=", token.LtEq}, {"<", token.Lt}},
	'>': {{">>>=", token.UShrAssign}, {">>>", token.UShr}, {">>=", token.ShrAssign}, {">>", token.Shr}, {">=", token.GtEq}, {">", token.Gt}},
	'&': {{"&&=", token.AndAndAssign}, {"&&", token.AndAnd}, {"&=", token.AmpAssign}, {"&", token.Amp}},
	'|': {{"||=", token.OrOrAssign}, {"||", token.OrOr}, {"|=", token.PipeAssign}, {"|", token.Pipe}},
	'^': {{"^=", token.CaretAssign}, {"^", token.Caret}},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	for _, op := range operators[ch] {
		if !lx.cursor.HasPrefix(op.text) {
			continue
		}
		// a?.5 is a conditional, not optional chaining
		if op.kind == token.QuestionDot && isDec(lx.cursor.PeekAt(2)) {
			continue
		}
		lx.cursor.Off += uint32(len(op.text))
		if op.kind == token.LBrace && len(lx.templates) > 0 {
			lx.templates[len(lx.templates)-1]++
		}
		if op.kind == token.RBrace && len(lx.templates) > 0 {
			lx.templates[len(lx.templates)-1]--
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: op.kind, Span: sp, Text: op.text}
	}
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
