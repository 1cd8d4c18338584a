package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	PrivateName // #field

	NumberLit
	BigIntLit
	StringLit
	RegExpLit
	// шаблонные строки: `a` | `a${ | }b${ | }c`
	TemplateFull
	TemplateHead
	TemplateMiddle
	TemplateTail
	JSXText

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	DotDotDot
	Colon
	Question
	QuestionDot
	Arrow // =>
	At

	// operators
	Plus
	Minus
	Star
	StarStar
	Slash
	Percent
	PlusPlus
	MinusMinus
	Lt
	Gt
	LtEq
	GtEq
	EqEq
	BangEq
	EqEqEq
	BangEqEq
	Shl
	Shr
	UShr
	Amp
	Pipe
	Caret
	Bang
	Tilde
	AndAnd
	OrOr
	QuestionQuestion

	// assignment
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	StarStarAssign
	SlashAssign
	PercentAssign
	ShlAssign
	ShrAssign
	UShrAssign
	AmpAssign
	PipeAssign
	CaretAssign
	AndAndAssign
	OrOrAssign
	QuestionQuestionAssign

	// reserved words
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDebugger
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwEnum
	KwExport
	KwExtends
	KwFalse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceof
	KwNew
	KwNull
	KwReturn
	KwSuper
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwVar
	KwVoid
	KwWhile
	KwWith
)

var kindNames = [...]string{
	Invalid:                "invalid",
	EOF:                    "EOF",
	Ident:                  "identifier",
	PrivateName:            "private name",
	NumberLit:              "number",
	BigIntLit:              "bigint",
	StringLit:              "string",
	RegExpLit:              "regexp",
	TemplateFull:           "template",
	TemplateHead:           "template head",
	TemplateMiddle:         "template middle",
	TemplateTail:           "template tail",
	JSXText:                "jsx text",
	LParen:                 "(",
	RParen:                 ")",
	LBrace:                 "{",
	RBrace:                 "}",
	LBracket:               "[",
	RBracket:               "]",
	Semicolon:              ";",
	Comma:                  ",",
	Dot:                    ".",
	DotDotDot:              "...",
	Colon:                  ":",
	Question:               "?",
	QuestionDot:            "?.",
	Arrow:                  "=>",
	At:                     "@",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	StarStar:               "**",
	Slash:                  "/",
	Percent:                "%",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Lt:                     "<",
	Gt:                     ">",
	LtEq:                   "<=",
	GtEq:                   ">=",
	EqEq:                   "==",
	BangEq:                 "!=",
	EqEqEq:                 "===",
	BangEqEq:               "!==",
	Shl:                    "<<",
	Shr:                    ">>",
	UShr:                   ">>>",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Bang:                   "!",
	Tilde:                  "~",
	AndAnd:                 "&&",
	OrOr:                   "||",
	QuestionQuestion:       "??",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	StarStarAssign:         "**=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	ShlAssign:              "<<=",
	ShrAssign:              ">>=",
	UShrAssign:             ">>>=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	AndAndAssign:           "&&=",
	OrOrAssign:             "||=",
	QuestionQuestionAssign: "??=",
	KwBreak:                "break",
	KwCase:                 "case",
	KwCatch:                "catch",
	KwClass:                "class",
	KwConst:                "const",
	KwContinue:             "continue",
	KwDebugger:             "debugger",
	KwDefault:              "default",
	KwDelete:               "delete",
	KwDo:                   "do",
	KwElse:                 "else",
	KwEnum:                 "enum",
	KwExport:               "export",
	KwExtends:              "extends",
	KwFalse:                "false",
	KwFinally:              "finally",
	KwFor:                  "for",
	KwFunction:             "function",
	KwIf:                   "if",
	KwImport:               "import",
	KwIn:                   "in",
	KwInstanceof:           "instanceof",
	KwNew:                  "new",
	KwNull:                 "null",
	KwReturn:               "return",
	KwSuper:                "super",
	KwSwitch:               "switch",
	KwThis:                 "this",
	KwThrow:                "throw",
	KwTrue:                 "true",
	KwTry:                  "try",
	KwTypeof:               "typeof",
	KwVar:                  "var",
	KwVoid:                 "void",
	KwWhile:                "while",
	KwWith:                 "with",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwBreak && k <= KwWith }

// IsAssign reports whether k is "=" or a compound assignment operator.
func (k Kind) IsAssign() bool { return k >= Assign && k <= QuestionQuestionAssign }

// IsLiteral reports whether k is a literal that carries a value.
func (k Kind) IsLiteral() bool {
	switch k {
	case NumberLit, BigIntLit, StringLit, RegExpLit, TemplateFull, KwTrue, KwFalse, KwNull:
		return true
	}
	return false
}

// IsPunctOrOp reports whether k is punctuation or an operator.
func (k Kind) IsPunctOrOp() bool { return k >= LParen && k <= QuestionQuestionAssign }
