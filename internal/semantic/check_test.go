package semantic

import (
	"testing"

	"binder/internal/diag"
)

func TestCheckWritesToConstantsAndImports(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		want  int
	}{
		{"const assign", "const c = 1; c = 2;", diag.SemaConstAssignment, 1},
		{"const update", "const c = 1; c++; c += 1;", diag.SemaConstAssignment, 2},
		{"const in closure", "const c = 1; function f() { c = 3; }", diag.SemaConstAssignment, 1},
		{"shadowed const", "const c = 1; { let c; c = 2; }", diag.SemaConstAssignment, 0},
		{"let assign", "let l = 1; l = 2;", diag.SemaConstAssignment, 0},
		{"const read", "const c = 1; c + 1;", diag.SemaConstAssignment, 0},
		{"import assign", "import d from 'm'; d = 1;", diag.SemaImportAssignment, 1},
		{"namespace destructure", "import * as ns from 'm'; [ns] = [];", diag.SemaImportAssignment, 1},
		{"global assign", "g = 1;", diag.SemaImportAssignment, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.input)
			diags := Check(res, CheckOptions{})
			if got := countCode(diags, tt.code); got != tt.want {
				t.Fatalf("expected %d %s, got %d: %s", tt.want, tt.code.ID(), got, summary(diags))
			}
			for _, d := range diags {
				if d.Code == tt.code && (len(d.Notes) != 1 || !d.IsError()) {
					t.Fatalf("write check must be an error with a declaration note: %+v", d)
				}
			}
		})
	}
}

func TestCheckDuplicateExports(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"distinct", "export const a = 1; export function b() {}", 0},
		{"renamed clash", "export const a = 1; const b = 2; export { b as a };", 1},
		{"two defaults", "export default 1; const x = 2; export { x as default };", 1},
		{"star exports", "export * from './a'; export * from './b';", 0},
		{"namespace clash", "export * as ns from './a'; export const ns = 1;", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, tt.input)
			diags := Check(res, CheckOptions{})
			if got := countCode(diags, diag.SemaDuplicateExport); got != tt.want {
				t.Fatalf("expected %d duplicate exports, got %d: %s", tt.want, got, summary(diags))
			}
		})
	}
}

func TestCheckNormalizationNearMiss(t *testing.T) {
	// the binding is spelled with a combining accent, the use is precomposed
	res := analyze(t, "let cafe\u0301 = 1;\ncaf\u00e9;\n")
	if got := res.GlobalNames(); len(got) != 1 {
		t.Fatalf("different spellings must not bind, globals %v", got)
	}
	diags := Check(res, CheckOptions{})
	if countCode(diags, diag.SemaNormalizationCollide) != 1 {
		t.Fatalf("expected a normalization warning, got %s", summary(diags))
	}
	if diags[0].Severity != diag.SevWarning || len(diags[0].Notes) != 1 {
		t.Fatalf("expected a warning pointing at the binding, got %+v", diags[0])
	}
	if len(diags[0].Fixes) != 1 || diags[0].Fixes[0].Edits[0].NewText != "cafe"+"\u0301" ||
		diags[0].Fixes[0].Edits[0].OldText != "caf\u00e9" {
		t.Fatalf("expected a fix that rewrites the use, got %+v", diags[0].Fixes)
	}
}

func TestCheckUnresolvedIsOptIn(t *testing.T) {
	input := "console.log(missing);\nlet ok = 1;\nok;\n"
	res := analyze(t, input)
	if diags := Check(res, CheckOptions{}); countCode(diags, diag.SemaUnresolvedReference) != 0 {
		t.Fatalf("unresolved references must be silent by default: %s", summary(diags))
	}
	bag := diag.NewBag(0)
	diags := Check(res, CheckOptions{
		Reporter:         &diag.BagReporter{Bag: bag},
		ReportUnresolved: true,
		Globals:          []string{"console"},
	})
	if countCode(diags, diag.SemaUnresolvedReference) != 1 || bag.Len() != 1 {
		t.Fatalf("expected only 'missing' to be reported, got %s", summary(diags))
	}
	if diags[0].Severity != diag.SevInfo {
		t.Fatalf("unresolved references are informational, got %s", diags[0].Severity)
	}
}
