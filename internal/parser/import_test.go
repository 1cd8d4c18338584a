package parser

import (
	"slices"
	"testing"

	"binder/internal/ast"
)

func TestImportSpecifiers(t *testing.T) {
	input := `import def, { a, b as c, "d-e" as f } from "./m.js";
import * as ns from "./ns";
import "./side";
`
	b, stmts := mustParse(t, input, moduleJS)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	first, ok := b.Stmts.Import(stmts[0])
	if !ok {
		t.Fatalf("expected import declaration")
	}
	if b.Name(first.Source) != "./m.js" {
		t.Fatalf("expected unquoted source, got %q", b.Name(first.Source))
	}
	type spec struct {
		kind            ast.ImportSpecKind
		imported, local string
	}
	want := []spec{
		{ast.ImportDefault, "", "def"},
		{ast.ImportNamed, "a", "a"},
		{ast.ImportNamed, "b", "c"},
		{ast.ImportNamed, "d-e", "f"},
	}
	if len(first.Specifiers) != len(want) {
		t.Fatalf("expected %d specifiers, got %d", len(want), len(first.Specifiers))
	}
	for i, w := range want {
		s := first.Specifiers[i]
		if s.Kind != w.kind || b.Name(s.Local) != w.local {
			t.Fatalf("specifier %d: got kind %d local %q", i, s.Kind, b.Name(s.Local))
		}
		if w.imported != "" && b.Name(s.Imported) != w.imported {
			t.Fatalf("specifier %d: imported %q, want %q", i, b.Name(s.Imported), w.imported)
		}
	}

	ns, _ := b.Stmts.Import(stmts[1])
	if len(ns.Specifiers) != 1 || ns.Specifiers[0].Kind != ast.ImportNamespace || b.Name(ns.Specifiers[0].Local) != "ns" {
		t.Fatalf("unexpected namespace import %+v", ns.Specifiers)
	}
	side, _ := b.Stmts.Import(stmts[2])
	if len(side.Specifiers) != 0 || b.Name(side.Source) != "./side" {
		t.Fatalf("unexpected side-effect import %+v", side)
	}
}

func TestExportForms(t *testing.T) {
	input := `export const x = 1, y = 2;
export { x as z, y };
export * from "./all";
export * as nsx from "./all";
export default function () {}
`
	b, stmts := mustParse(t, input, moduleJS)
	wantKinds := []ast.ExportKind{ast.ExportDecl, ast.ExportNamed, ast.ExportAll, ast.ExportAll, ast.ExportDefault}
	var got []ast.ExportKind
	for _, id := range stmts {
		ex, ok := b.Stmts.Export(id)
		if !ok {
			t.Fatalf("expected export, got %s", b.Stmts.Get(id).Kind)
		}
		got = append(got, ex.Kind)
	}
	if !slices.Equal(got, wantKinds) {
		t.Fatalf("expected %v, got %v", wantKinds, got)
	}

	named, _ := b.Stmts.Export(stmts[1])
	if len(named.Specifiers) != 2 || b.Name(named.Specifiers[0].Local) != "x" || b.Name(named.Specifiers[0].Exported) != "z" {
		t.Fatalf("unexpected named export %+v", named.Specifiers)
	}
	plain, _ := b.Stmts.Export(stmts[2])
	if plain.Alias.IsValid() || b.Name(plain.Source) != "./all" {
		t.Fatalf("unexpected star export %+v", plain)
	}
	aliased, _ := b.Stmts.Export(stmts[3])
	if b.Name(aliased.Alias) != "nsx" {
		t.Fatalf("expected alias nsx, got %q", b.Name(aliased.Alias))
	}
	def, _ := b.Stmts.Export(stmts[4])
	if b.Stmts.Get(def.Decl).Kind != ast.StmtFuncDecl {
		t.Fatalf("expected anonymous function declaration")
	}
	fnID, _ := b.Stmts.FuncDecl(def.Decl)
	if b.Func(fnID).Name.IsValid() {
		t.Fatalf("anonymous default export must have no name")
	}
}

func TestExportDefaultExpression(t *testing.T) {
	b, stmts := mustParse(t, "export default a + b;", moduleJS)
	ex, _ := b.Stmts.Export(stmts[0])
	if ex.Decl.IsValid() || b.Exprs.Get(ex.Expr).Kind != ast.ExprBinary {
		t.Fatalf("expected expression default export, got %+v", ex)
	}
}
