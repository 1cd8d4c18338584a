package lexer

import (
	"unicode/utf8"

	"binder/internal/diag"
	"binder/internal/token"
)

// collectLeadingTrivia consumes whitespace and comments before the next token.
// Comments are kept both as leading trivia and in lx.comments.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0:0]
	if lx.cursor.Off == 0 && lx.cursor.HasPrefix("#!") {
		start := lx.cursor.Mark()
		lx.skipToLineEnd()
		lx.pushComment(token.TriviaHashbang, start)
	}
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f':
			lx.cursor.Bump()
		case ch == '\n' || ch == '\r':
			lx.cursor.Bump()
			lx.newline = true
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			start := lx.cursor.Mark()
			lx.skipToLineEnd()
			lx.pushComment(token.TriviaLineComment, start)
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment()
		case ch >= utf8RuneSelf:
			r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
			switch {
			case isLineTerminatorRune(r):
				lx.newline = true
			case isSpaceRune(r):
			default:
				return
			}
			lx.cursor.Off += uint32(size)
		default:
			return
		}
	}
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\n' || ch == '\r' {
			return
		}
		if ch >= utf8RuneSelf {
			r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
			if isLineTerminatorRune(r) {
				return
			}
			lx.cursor.Off += uint32(size)
			continue
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Mark()
	kind := token.TriviaBlockComment
	// "/**/" is an ordinary empty block, not a doc block
	if lx.cursor.HasPrefix("/**") && !lx.cursor.HasPrefix("/**/") {
		kind = token.TriviaDocBlock
	}
	lx.cursor.Off += 2
	for {
		if lx.cursor.EOF() {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			break
		}
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Off += 2
			break
		}
		ch := lx.cursor.Bump()
		if ch == '\n' || ch == '\r' {
			lx.newline = true
		} else if ch == 0xE2 && lx.isLSorPSTail() {
			lx.newline = true
		}
	}
	lx.pushComment(kind, start)
}

// isLSorPSTail checks the two bytes after 0xE2 for U+2028 / U+2029.
func (lx *Lexer) isLSorPSTail() bool {
	return lx.cursor.Peek() == 0x80 && (lx.cursor.PeekAt(1) == 0xA8 || lx.cursor.PeekAt(1) == 0xA9)
}

func (lx *Lexer) pushComment(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	tr := token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)}
	lx.hold = append(lx.hold, tr)
	lx.comments = append(lx.comments, tr)
}
