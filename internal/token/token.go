package token

import "binder/internal/source"

// Token is a single significant token. Text is the raw source slice.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// NewlineBefore is set when a line terminator precedes the token;
	// the parser uses it for automatic semicolon insertion.
	NewlineBefore bool
}

func (t Token) IsLiteral() bool   { return t.Kind.IsLiteral() }
func (t Token) IsPunctOrOp() bool { return t.Kind.IsPunctOrOp() }
func (t Token) IsKeyword() bool   { return t.Kind.IsKeyword() }
func (t Token) IsIdent() bool     { return t.Kind == Ident }

// IsWord reports identifiers and reserved words; both are valid property names.
func (t Token) IsWord() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// Is reports whether t is the identifier word (for contextual keywords).
func (t Token) Is(word string) bool { return t.Kind == Ident && t.Text == word }
