package parser

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/source"
)

var moduleJS = SourceType{Module: true}

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	return parseSourceWithType(t, input, moduleJS)
}

func parseSourceWithType(t *testing.T, input string, st SourceType) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	result := ParseFile(fs, lx, builder, Options{Source: st, MaxErrors: 100, Reporter: reporter})
	if result.Bag == nil {
		result.Bag = bag
	}
	return builder, result.File, result.Bag
}

func mustParse(t *testing.T, input string, st SourceType) (*ast.Builder, []ast.StmtID) {
	t.Helper()
	b, file, bag := parseSourceWithType(t, input, st)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return b, b.Files.Get(file).Stmts
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	return slices.ContainsFunc(bag.Items(), func(d diag.Diagnostic) bool { return d.Code == code })
}

func stmtKinds(b *ast.Builder, stmts []ast.StmtID) []ast.StmtKind {
	out := make([]ast.StmtKind, len(stmts))
	for i, id := range stmts {
		out[i] = b.Stmts.Get(id).Kind
	}
	return out
}

func boundNames(b *ast.Builder, target ast.PatternID) []string {
	var names []string
	for _, id := range b.Patterns.BoundNames(target, nil) {
		data, _ := b.Patterns.Ident(id)
		names = append(names, b.Name(data.Name))
	}
	return names
}

// declInit returns the initializer of the first declarator of a variable statement.
func declInit(t *testing.T, b *ast.Builder, stmt ast.StmtID) ast.ExprID {
	t.Helper()
	vd, ok := b.Stmts.VarDecl(stmt)
	if !ok || len(vd.Decls) == 0 {
		t.Fatalf("statement %d is not a variable declaration", stmt)
	}
	return vd.Decls[0].Init
}
