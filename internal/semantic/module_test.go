package semantic

import (
	"testing"

	"binder/internal/symbols"
)

func TestImportRecords(t *testing.T) {
	res := analyze(t, `import def, { a, b as c } from "./m";
import * as ns from "./ns";
import "./side";
`)
	want := []struct {
		kind            ImportKind
		source          string
		imported, local string
	}{
		{ImportDefault, "./m", "default", "def"},
		{ImportNamed, "./m", "a", "a"},
		{ImportNamed, "./m", "b", "c"},
		{ImportNamespace, "./ns", "", "ns"},
		{ImportSideEffect, "./side", "", ""},
	}
	got := res.Imports()
	if len(got) != len(want) {
		t.Fatalf("expected %d imports, got %d", len(want), len(got))
	}
	for i, w := range want {
		im := got[i]
		if im.Kind != w.kind || im.Source != w.source || im.Imported != w.imported || im.Local != w.local {
			t.Fatalf("import %d: got %+v", i, im)
		}
		if (w.kind == ImportSideEffect) == im.Symbol.IsValid() {
			t.Fatalf("import %d: unexpected symbol %d", i, im.Symbol)
		}
		if im.Symbol.IsValid() && res.Symbols.Flags(im.Symbol) != symbols.Import {
			t.Fatalf("import %d: unexpected flags %s", i, res.Symbols.Flags(im.Symbol))
		}
	}
}

func TestExportRecords(t *testing.T) {
	res := analyze(t, `export const x = 1, { y } = o;
export function f() {}
export class K {}
const z = 2;
export { z as zz, z };
export default function main() {}
export * from "./all";
export * as nsx from "./all";
export { r } from "./re";
`)
	want := []struct {
		name, local, source string
		symbol, ref         bool
	}{
		{"x", "x", "", true, false},
		{"y", "y", "", true, false},
		{"f", "f", "", true, false},
		{"K", "K", "", true, false},
		{"zz", "z", "", false, true},
		{"z", "z", "", false, true},
		{"default", "main", "", true, false},
		{"", "", "./all", false, false},
		{"nsx", "", "./all", false, false},
		{"r", "r", "./re", false, false},
	}
	got := res.Exports()
	if len(got) != len(want) {
		t.Fatalf("expected %d exports, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		ex := got[i]
		if ex.Name != w.name || ex.Local != w.local || ex.Source != w.source {
			t.Fatalf("export %d: got %+v", i, ex)
		}
		if ex.Symbol.IsValid() != w.symbol || ex.Reference.IsValid() != w.ref {
			t.Fatalf("export %d: symbol=%v reference=%v", i, ex.Symbol.IsValid(), ex.Reference.IsValid())
		}
		if ex.Symbol.IsValid() && !res.Symbols.Flags(ex.Symbol).Has(symbols.Export) {
			t.Fatalf("export %d: symbol lacks the export flag", i)
		}
	}
	if !got[7].Star || !got[8].Namespace {
		t.Fatalf("unexpected star export shapes")
	}
	// z is declared locally without Export; the list refers to it
	if res.Symbols.Flags(only(t, res, "z")).Has(symbols.Export) {
		t.Fatalf("export lists must not flag the local binding")
	}
	if refs := res.Symbols.ResolvedReferences(only(t, res, "z")); len(refs) != 2 {
		t.Fatalf("expected both list entries to reference z, got %d", len(refs))
	}
}

func TestLeadingComment(t *testing.T) {
	input := `/** Adds numbers. */
function add(a, b) { return a + b; }

// detached

let gap = 1;
// attached
const near = 2;
`
	res := analyze(t, input)
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"add", "/** Adds numbers. */", true},
		{"gap", "", false},
		{"near", "// attached", true},
	}
	for _, tt := range tests {
		sym := only(t, res, tt.name)
		// the declaration keyword precedes the name; search from the line start
		span := res.Symbols.Span(sym)
		for span.Start > 0 && input[span.Start-1] != '\n' {
			span.Start--
		}
		c, ok := res.LeadingComment(span)
		if ok != tt.ok {
			t.Fatalf("%s: found=%v, want %v", tt.name, ok, tt.ok)
		}
		if ok && c.Text != tt.want {
			t.Fatalf("%s: got comment %q", tt.name, c.Text)
		}
	}
}
