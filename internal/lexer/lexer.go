package lexer

import (
	"slices"

	"binder/internal/source"
	"binder/internal/token"
)

// Lexer produces JavaScript/TypeScript tokens on demand.
// The parser drives context-sensitive scanning (regular expressions, JSX
// children) through the Rescan*/NextJSX* methods; template literal nesting is
// tracked here.
type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	hold      []token.Trivia // leading trivia of the token being scanned
	comments  []token.Trivia // every comment seen so far, in source order
	templates []int          // open `${` substitutions: depth of nested '{'
	newline   bool
	mute      int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File { return lx.file }

// Comments returns all comments collected so far.
func (lx *Lexer) Comments() []token.Trivia { return lx.comments }

// Next returns the next significant token with its leading trivia.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		tok := token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
		return lx.finish(tok)
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch) || ch == '\\':
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		tok = lx.scanUnicodeStart()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)
	case ch == '`':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = lx.scanTemplatePart(start, true)
	case ch == '#':
		tok = lx.scanPrivateName()
	case ch == '}' && len(lx.templates) > 0 && lx.templates[len(lx.templates)-1] == 0:
		lx.templates = lx.templates[:len(lx.templates)-1]
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = lx.scanTemplatePart(start, false)
	default:
		tok = lx.scanOperatorOrPunct()
	}
	return lx.finish(tok)
}

func (lx *Lexer) finish(tok token.Token) token.Token {
	tok.Leading = lx.hold
	tok.NewlineBefore = lx.newline
	lx.hold = nil
	lx.newline = false
	return tok
}

// EmptySpan is a zero-width span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Offset returns the current byte offset.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// State is an opaque lexer position for speculative scanning.
type State struct {
	off       uint32
	templates []int
	comments  int
}

// Snapshot captures the position after the last returned token.
func (lx *Lexer) Snapshot() State {
	return State{
		off:       lx.cursor.Off,
		templates: slices.Clone(lx.templates),
		comments:  len(lx.comments),
	}
}

// Restore rewinds to a snapshot taken earlier on the same lexer.
func (lx *Lexer) Restore(st State) {
	lx.cursor.Off = st.off
	lx.templates = slices.Clone(st.templates)
	lx.comments = lx.comments[:st.comments]
	lx.hold = nil
	lx.newline = false
}

// Mute suppresses diagnostics until the returned func is called.
func (lx *Lexer) Mute() func() {
	lx.mute++
	return func() { lx.mute-- }
}
