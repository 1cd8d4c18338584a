package diag

import (
	"testing"

	"binder/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	user := fs.Add("/workspace/src/sample.js", []byte("a\nb\n"), 0)
	vendored := fs.Add("/workspace/node_modules/lib/index.js", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: user, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendored, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: user, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaNormalizationCollide,
			Message:  "another",
			Primary:  source.Span{File: user, Start: 2, End: 3},
		},
	}

	want := "error SYN2001 src/sample.js:1:1 first line second\n" +
		"note SYN2001 src/sample.js:2:1 note line\n" +
		"warning SEM3004 src/sample.js:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestFormatShortKeepsVendoredPaths(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	vendored := fs.Add("/workspace/node_modules/lib/index.js", []byte("x\n"), 0)

	diags := []Diagnostic{NewError(SemaDuplicateDeclaration, source.Span{File: vendored}, "dup")}
	want := "error SEM3002 node_modules/lib/index.js:1:1 dup"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := FormatGoldenDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("golden output must skip node_modules, got %q", got)
	}
}
