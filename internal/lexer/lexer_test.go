package lexer_test

import (
	"testing"

	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/source"
	"binder/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF || len(tokens) > 10_000 {
			return tokens
		}
	}
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := collectAllTokens(lx)
	got := kindsOf(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("%q: unexpected diagnostics %v", input, rep.codes())
	}
	return toks
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := expectKinds(t, "var let const function async of",
		token.KwVar, token.Ident, token.KwConst, token.KwFunction, token.Ident, token.Ident)
	if !toks[1].Is("let") || !toks[4].Is("async") {
		t.Fatalf("contextual words should be identifiers")
	}
	expectKinds(t, "$x _y café \\u0061b", token.Ident, token.Ident, token.Ident, token.Ident)
	// escaped reserved word is not a keyword
	expectKinds(t, "v\\u0061r", token.Ident)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"0", token.NumberLit},
		{"1_000", token.NumberLit},
		{"3.14", token.NumberLit},
		{".5", token.NumberLit},
		{"1e10", token.NumberLit},
		{"2E-3", token.NumberLit},
		{"0xFF", token.NumberLit},
		{"0o17", token.NumberLit},
		{"0b1010", token.NumberLit},
		{"10n", token.BigIntLit},
		{"0xffn", token.BigIntLit},
	}
	for _, c := range cases {
		toks := expectKinds(t, c.in, c.kind)
		if toks[0].Text != c.in {
			t.Errorf("%q scanned as %q", c.in, toks[0].Text)
		}
	}
}

func TestBadNumber(t *testing.T) {
	lx, rep := makeTestLexer("3in 1e")
	collectAllTokens(lx)
	if len(rep.diagnostics) != 2 || rep.diagnostics[0].Code != diag.LexBadNumber {
		t.Fatalf("expected two bad-number errors, got %v", rep.codes())
	}
}

func TestOperatorsGreedy(t *testing.T) {
	expectKinds(t, ">>>= >>> >> >= ?? ??= ?. ... => === !== **=",
		token.UShrAssign, token.UShr, token.Shr, token.GtEq, token.QuestionQuestion,
		token.QuestionQuestionAssign, token.QuestionDot, token.DotDotDot, token.Arrow,
		token.EqEqEq, token.BangEqEq, token.StarStarAssign)
	// a?.5:1 is a conditional
	expectKinds(t, "a?.5:1", token.Ident, token.Question, token.NumberLit, token.Colon, token.NumberLit)
}

func TestStrings(t *testing.T) {
	toks := expectKinds(t, `"a\"b" 'c\'d' "\u{1F600}\x41"`, token.StringLit, token.StringLit, token.StringLit)
	if toks[0].Text != `"a\"b"` {
		t.Fatalf("got %q", toks[0].Text)
	}
	lx, rep := makeTestLexer("'abc\nx")
	collectAllTokens(lx)
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string, got %v", rep.codes())
	}
}

func TestTemplates(t *testing.T) {
	expectKinds(t, "`plain`", token.TemplateFull)
	expectKinds(t, "`a${x}b${y}c`",
		token.TemplateHead, token.Ident, token.TemplateMiddle, token.Ident, token.TemplateTail)
	// braces inside a substitution do not close it
	expectKinds(t, "`${ {a: 1} }`",
		token.TemplateHead, token.LBrace, token.Ident, token.Colon, token.NumberLit, token.RBrace, token.TemplateTail)
	// nested template
	expectKinds(t, "`${`in${z}`}`",
		token.TemplateHead, token.TemplateHead, token.Ident, token.TemplateTail, token.TemplateTail)
}

func TestCommentsAndNewlines(t *testing.T) {
	lx, _ := makeTestLexer("#!/usr/bin/env node\n/** doc */ a // tail\n/* x */ b")
	toks := collectAllTokens(lx)
	if len(toks) != 3 {
		t.Fatalf("got %v", kindsOf(toks))
	}
	if toks[0].NewlineBefore != true || toks[1].NewlineBefore != true {
		t.Fatalf("newline flags: %v %v", toks[0].NewlineBefore, toks[1].NewlineBefore)
	}
	comments := lx.Comments()
	wantKinds := []token.TriviaKind{token.TriviaHashbang, token.TriviaDocBlock, token.TriviaLineComment, token.TriviaBlockComment}
	if len(comments) != len(wantKinds) {
		t.Fatalf("got %d comments", len(comments))
	}
	for i, k := range wantKinds {
		if comments[i].Kind != k {
			t.Fatalf("comment %d is %v, want %v", i, comments[i].Kind, k)
		}
	}
	if len(toks[0].Leading) != 2 {
		t.Fatalf("first token should carry hashbang and doc block, got %d", len(toks[0].Leading))
	}
	// U+2028 is a line terminator
	lx, _ = makeTestLexer("a\u2028b")
	toks = collectAllTokens(lx)
	if !toks[1].NewlineBefore {
		t.Fatal("LINE SEPARATOR should set NewlineBefore")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("a /* never closed")
	toks := collectAllTokens(lx)
	if len(toks) != 2 || len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("got %v / %v", kindsOf(toks), rep.codes())
	}
}

func TestRescanRegExp(t *testing.T) {
	lx, rep := makeTestLexer("/[/]+\\//gi.test(x)")
	tok := lx.Next()
	if tok.Kind != token.Slash {
		t.Fatalf("got %v", tok.Kind)
	}
	tok = lx.RescanRegExp(tok)
	if tok.Kind != token.RegExpLit || tok.Text != "/[/]+\\//gi" {
		t.Fatalf("got %v %q", tok.Kind, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.Dot {
		t.Fatalf("after regexp: %v", next.Kind)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("diagnostics: %v", rep.codes())
	}
}

func TestSnapshotRestore(t *testing.T) {
	lx, rep := makeTestLexer("`${a}` /* c */ 'broken")
	first := lx.Next()
	st := lx.Snapshot()
	restore := lx.Mute()
	for lx.Next().Kind != token.EOF {
	}
	restore()
	lx.Restore(st)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("muted scan reported %v", rep.codes())
	}
	if len(lx.Comments()) != 0 {
		t.Fatalf("comments should be rolled back")
	}
	if first.Kind != token.TemplateHead {
		t.Fatalf("got %v", first.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("after restore: %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.TemplateTail {
		t.Fatalf("template stack not restored: %v", tok.Kind)
	}
}

func TestJSXChildren(t *testing.T) {
	lx, _ := makeTestLexer("hello {name}</b>")
	text := lx.NextJSXChild()
	if text.Kind != token.JSXText || text.Text != "hello " {
		t.Fatalf("got %v %q", text.Kind, text.Text)
	}
	if tok := lx.NextJSXChild(); tok.Kind != token.LBrace {
		t.Fatalf("got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.RBrace {
		t.Fatalf("got %v", tok.Kind)
	}
	if tok := lx.NextJSXChild(); tok.Kind != token.Lt {
		t.Fatalf("got %v", tok.Kind)
	}
}

func TestExtendJSXName(t *testing.T) {
	lx, _ := makeTestLexer("data-foo-bar=1")
	tok := lx.ExtendJSXName(lx.Next())
	if tok.Text != "data-foo-bar" {
		t.Fatalf("got %q", tok.Text)
	}
	if tok := lx.Next(); tok.Kind != token.Assign {
		t.Fatalf("got %v", tok.Kind)
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, rep := makeTestLexer("a § b")
	toks := collectAllTokens(lx)
	if toks[1].Kind != token.Invalid || len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("got %v / %v", kindsOf(toks), rep.codes())
	}
}
