package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"binder/internal/diag"
	"binder/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("function main() {\n\tlet x = \"unterminated\n}")
	fileID := fs.AddVirtual("test.js", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 27, End: 40},
		"Unterminated string literal",
	))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" {
		t.Errorf("Expected ERROR LEX1002, got %s %s", d.Severity, d.Code)
	}
	if d.Location.File != "test.js" {
		t.Errorf("Expected file=test.js, got %s", d.Location.File)
	}
	if d.Location.StartByte != 27 || d.Location.EndByte != 40 {
		t.Errorf("Expected bytes 27..40, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 10 {
		t.Errorf("Expected 2:10, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("let a;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.SemaNormalizationCollide, source.Span{File: fileID, Start: 4, End: 5}, "w"))

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc := out.Diagnostics[0].Location; loc.StartLine != 0 || loc.StartCol != 0 {
		t.Fatalf("positions must be omitted, got %+v", loc)
	}
}

func TestJSONMaxAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("a;b;c;\n"))
	bag := diag.NewBag(2)
	for i := range uint32(3) {
		bag.Add(diag.New(diag.SevInfo, diag.SemaUnresolvedReference, source.Span{File: fileID, Start: i * 2, End: i*2 + 1}, "unresolved"))
	}

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected output trimmed to 1, got %d", out.Count)
	}
	if out.Dropped != 1 {
		t.Fatalf("expected 1 dropped by the bag limit, got %d", out.Dropped)
	}
}

func TestJSONNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let total = 1;\ntotl;\n")
	fileID := fs.AddVirtual("fix.js", content)

	use := source.Span{File: fileID, Start: 15, End: 19}
	d := diag.New(diag.SevWarning, diag.SemaNormalizationCollide, use, "near miss").
		WithNote(source.Span{File: fileID, Start: 4, End: 9}, "similar binding declared here").
		WithFix("use the declared spelling", diag.FixEdit{Span: use, NewText: "total"})
	bag := diag.NewBag(4)
	bag.Add(d)

	tests := []struct {
		name      string
		opts      JSONOpts
		notes     int
		fixes     int
		withLines bool
	}{
		{name: "bare", opts: JSONOpts{}},
		{name: "notes", opts: JSONOpts{IncludeNotes: true}, notes: 1},
		{name: "fixes", opts: JSONOpts{IncludeFixes: true}, fixes: 1},
		{name: "previews", opts: JSONOpts{IncludeFixes: true, IncludePreviews: true}, fixes: 1, withLines: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := BuildDiagnosticsOutput(bag, fs, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := out.Diagnostics[0]
			if len(got.Notes) != tt.notes || len(got.Fixes) != tt.fixes {
				t.Fatalf("expected %d notes and %d fixes, got %+v", tt.notes, tt.fixes, got)
			}
			if tt.fixes == 0 {
				return
			}
			edit := got.Fixes[0].Edits[0]
			if edit.OldText != "totl" || edit.NewText != "total" {
				t.Fatalf("unexpected edit %+v", edit)
			}
			if tt.withLines {
				if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "totl;" || edit.AfterLines[0] != "total;" {
					t.Fatalf("unexpected preview %+v", edit)
				}
			} else if edit.BeforeLines != nil {
				t.Fatalf("previews must be opt-in")
			}
		})
	}
}

func TestJSONFixWithUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.js", []byte("x;\n"))
	d := diag.New(diag.SevWarning, diag.SemaError, source.Span{File: fileID, Start: 0, End: 1}, "w").
		WithFix("broken", diag.FixEdit{Span: source.Span{File: 9}, NewText: "y"})
	bag := diag.NewBag(1)
	bag.Add(d)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix := out.Diagnostics[0].Fixes[0]; fix.BuildError == "" || fix.Edits != nil {
		t.Fatalf("expected build error for unknown file, got %+v", fix)
	}
}
