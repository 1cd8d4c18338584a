package token

import (
	"strings"

	"binder/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocBlock // /** ... */
	TriviaHashbang
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	case TriviaDocBlock:
		return "doc-block"
	case TriviaHashbang:
		return "hashbang"
	}
	return "unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports comment-like trivia.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocBlock, TriviaHashbang:
		return true
	}
	return false
}

// CommentBody strips comment markers and surrounding blanks.
func (t Trivia) CommentBody() string {
	s := t.Text
	switch t.Kind {
	case TriviaLineComment:
		s = strings.TrimPrefix(s, "//")
	case TriviaBlockComment:
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/*"), "*/")
	case TriviaDocBlock:
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/**"), "*/")
	case TriviaHashbang:
		s = strings.TrimPrefix(s, "#!")
	}
	return strings.TrimSpace(s)
}
