// Package token defines lexical token kinds and trivia for JavaScript and
// TypeScript sources.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly.
//   - Only reserved words get keyword kinds; contextual words such as
//     let, async, of, from, type or interface are Ident tokens.
//   - Comments never appear in the token stream; they are leading Trivia
//     and are also collected by the lexer for the binder.
package token
