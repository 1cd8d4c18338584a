package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"binder/internal/diag"
	"binder/internal/source"
)

// loadTemp writes content to a temp file and loads it through a FileSet.
func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func spellingDiag(file source.FileID, start, end uint32, got, want string) diag.Diagnostic {
	sp := source.Span{File: file, Start: start, End: end}
	d := diag.New(diag.SevWarning, diag.SemaNormalizationCollide, sp, "near miss")
	d.Fixes = append(d.Fixes, ReplaceSpan("use the declared spelling", sp, want, got))
	return d
}

func TestApplyAllRewritesFile(t *testing.T) {
	fs, id, path := loadTemp(t, "let total = 1;\ntotl + totl;\n")
	diags := []diag.Diagnostic{
		spellingDiag(id, 22, 26, "totl", "total"),
		spellingDiag(id, 15, 19, "totl", "total"),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied %d, skipped %+v", len(res.Applied), res.Skipped)
	}
	if got := readFile(t, path); got != "let total = 1;\ntotal + total;\n" {
		t.Fatalf("file = %q", got)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 || res.FileChanges[0].Path != "main.js" {
		t.Fatalf("changes = %+v", res.FileChanges)
	}
}

func TestApplyOnceTakesFirstInSourceOrder(t *testing.T) {
	fs, id, path := loadTemp(t, "a; b;\n")
	diags := []diag.Diagnostic{
		spellingDiag(id, 3, 4, "b", "B"),
		spellingDiag(id, 0, 1, "a", "A"),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d fixes", len(res.Applied))
	}
	if got := readFile(t, path); got != "A; b;\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyByID(t *testing.T) {
	fs, id, path := loadTemp(t, "a; b;\n")
	diags := []diag.Diagnostic{
		spellingDiag(id, 0, 1, "a", "A"),
		spellingDiag(id, 3, 4, "b", "B"),
	}
	target := FixID(fs, diags[1], 0)
	if target != "SEM3004:main.js:1:4#0" {
		t.Fatalf("FixID = %q", target)
	}

	if _, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: target}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "a; B;\n" {
		t.Fatalf("file = %q", got)
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "SEM3004:nope#0"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplySkipsConflictsAndStaleText(t *testing.T) {
	fs, id, path := loadTemp(t, "value;\n")
	overlap := diag.New(diag.SevWarning, diag.SemaNormalizationCollide, source.Span{File: id, Start: 2, End: 4}, "overlap")
	overlap.Fixes = append(overlap.Fixes, ReplaceSpan("overlap", source.Span{File: id, Start: 2, End: 4}, "X", ""))
	diags := []diag.Diagnostic{
		spellingDiag(id, 0, 5, "value", "total"),
		overlap,
		spellingDiag(id, 5, 6, "?", "!"),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 2 {
		t.Fatalf("applied %+v skipped %+v", res.Applied, res.Skipped)
	}
	reasons := map[string]bool{}
	for _, s := range res.Skipped {
		reasons[s.Reason] = true
	}
	if !reasons["conflicts with previously applied edits in main.js"] || !reasons["existing text does not match expected content"] {
		t.Fatalf("reasons = %v", reasons)
	}
	if got := readFile(t, path); got != "total;\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyKeepsInsertionOrder(t *testing.T) {
	fs, id, path := loadTemp(t, "x\n")
	at := source.Span{File: id, Start: 1, End: 1}
	d := diag.New(diag.SevWarning, diag.SemaNormalizationCollide, at, "insert")
	d.Fixes = append(d.Fixes, InsertText("first", at, "1"), InsertText("second", at, "2"))

	if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "x12\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyRestoresBOMAndCRLF(t *testing.T) {
	fs, id, path := loadTemp(t, "\uFEFFlet a;\r\nb;\r\n")
	// content is normalized to "let a;\nb;\n"
	diags := []diag.Diagnostic{spellingDiag(id, 7, 8, "b", "a")}

	if _, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "\uFEFFlet a;\r\na;\r\n" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyDryRunLeavesFile(t *testing.T) {
	fs, id, path := loadTemp(t, "b;\n")
	res, err := Apply(fs, []diag.Diagnostic{spellingDiag(id, 0, 1, "b", "a")}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, path); got != "b;\n" {
		t.Fatalf("dry run wrote the file: %q", got)
	}
	if string(res.FileChanges[0].Content) != "a;\n" {
		t.Fatalf("preview = %q", res.FileChanges[0].Content)
	}
}

func TestApplyRefusesVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("stdin.js", []byte("b;"))
	res, err := Apply(fs, []diag.Diagnostic{spellingDiag(id, 0, 1, "b", "a")}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestGatherCandidatesSkipsEmptyAndDuplicateFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte("x"))
	sp := source.Span{File: id, Start: 0, End: 1}
	d := diag.New(diag.SevWarning, diag.SemaNormalizationCollide, sp, "x")
	d.Fixes = []diag.Fix{{Title: "empty"}, ReplaceSpan("rename", sp, "y", "x")}

	cands, skips := gatherCandidates(fs, []diag.Diagnostic{d, d})
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if len(skips) != 3 {
		t.Fatalf("expected 3 skips, got %+v", skips)
	}
	if skips[0].Reason != "fix has no edits" || skips[2].Reason != "duplicate fix id" {
		t.Fatalf("skips = %+v", skips)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(start, end uint32) diag.FixEdit {
		return diag.FixEdit{Span: source.Span{Start: start, End: end}}
	}
	tests := []struct {
		name string
		a, b diag.FixEdit
		want bool
	}{
		{"two inserts", edit(3, 3), edit(3, 3), false},
		{"insert inside", edit(3, 3), edit(1, 5), true},
		{"insert at end", edit(5, 5), edit(1, 5), false},
		{"adjacent", edit(1, 3), edit(3, 5), false},
		{"overlap", edit(1, 4), edit(3, 5), true},
		{"other file", diag.FixEdit{Span: source.Span{File: 1, Start: 1, End: 4}}, edit(1, 4), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Fatalf("%s: spansConflict = %v, want %v", tt.name, got, tt.want)
		}
	}
}
