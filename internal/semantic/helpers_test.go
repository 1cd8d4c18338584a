package semantic

import (
	"fmt"
	"strings"
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/parser"
	"binder/internal/source"
	"binder/internal/symbols"
)

var moduleJS = parser.SourceType{Module: true}

type parsed struct {
	file    *source.File
	tree    *ast.Builder
	program ast.FileID
	result  parser.Result
	st      parser.SourceType
}

func parse(t *testing.T, input string, st parser.SourceType) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(fs, lx, tree, parser.Options{Source: st, MaxErrors: 100, Reporter: reporter})
	if res.Bag == nil {
		res.Bag = bag
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %s", summary(res.Bag.Items()))
	}
	return parsed{file: file, tree: tree, program: res.File, result: res, st: st}
}

func (p parsed) build() *Result {
	b := NewBuilder(p.file, p.st, p.result.Comments, Options{Validate: true})
	return b.Build(p.tree, p.program)
}

// analyze parses input as a module and builds it; validation failures are
// reported as SEM3001 and fail the test.
func analyze(t *testing.T, input string) *Result {
	t.Helper()
	return analyzeAs(t, input, moduleJS)
}

func analyzeAs(t *testing.T, input string, st parser.SourceType) *Result {
	t.Helper()
	res := parse(t, input, st).build()
	for _, d := range res.Diagnostics {
		if d.Code == diag.SemaError {
			t.Fatalf("invariant violation: %s", d.Message)
		}
	}
	return res
}

func summary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func countCode(diags []diag.Diagnostic, code diag.Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

// only returns the single symbol called name.
func only(t *testing.T, res *Result, name string) symbols.SymbolID {
	t.Helper()
	ids := res.SymbolsNamed(name)
	if len(ids) != 1 {
		t.Fatalf("expected one symbol %q, got %d", name, len(ids))
	}
	return ids[0]
}
