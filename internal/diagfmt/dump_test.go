package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/parser"
	"binder/internal/semantic"
	"binder/internal/source"
	"binder/internal/token"
)

type fixture struct {
	fs      *source.FileSet
	file    *source.File
	tree    *ast.Builder
	program ast.FileID
	result  *semantic.Result
}

func build(t *testing.T, input string) fixture {
	t.Helper()
	fs := source.NewFileSetWithBase("/w")
	file := fs.Get(fs.AddVirtual("/w/main.js", []byte(input)))
	bag := diag.NewBag(50)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{}, nil)
	st := parser.SourceType{Module: true}
	pr := parser.ParseFile(fs, lx, tree, parser.Options{Source: st, Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	res := semantic.NewBuilder(file, st, pr.Comments, semantic.Options{}).Build(tree, pr.File)
	return fixture{fs: fs, file: file, tree: tree, program: pr.File, result: res}
}

func TestTokensOutput(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.js", []byte("const a = 1; // tail\n")))
	lx := lexer.New(file, lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(pretty.String(), `identifier      "a" at 1:7-1:8`) {
		t.Fatalf("unexpected pretty tokens:\n%s", pretty.String())
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != len(toks) || out[len(out)-1].Kind != "EOF" {
		t.Fatalf("expected %d tokens ending in EOF, got %+v", len(toks), out)
	}
	var comment string
	for _, tr := range out[len(out)-1].Leading {
		if tr.Kind == "line-comment" {
			comment = tr.Text
		}
	}
	if comment != "// tail" {
		t.Fatalf("expected the trailing comment on EOF, got %+v", out[len(out)-1].Leading)
	}
}

func TestSymbolsDump(t *testing.T) {
	fx := build(t, "import { a as b } from \"./a.js\";\nexport function f(x) { var y = x; { var z; } return b + y + console; }\nexport { f as g };\nexport * from \"./c.js\";\n")

	out, err := BuildSymbolsOutput(fx.result, fx.fs, PathModeRelative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.File != "main.js" || out.Source != "js+module" {
		t.Fatalf("unexpected header %q %q", out.File, out.Source)
	}
	if len(out.Globals) != 1 || out.Globals[0] != "console" {
		t.Fatalf("expected console as the only global, got %v", out.Globals)
	}
	names := make(map[string]SymbolJSON)
	for _, s := range out.Symbols {
		names[s.Name] = s
	}
	for _, want := range []string{"b", "f", "x", "y", "z"} {
		if _, ok := names[want]; !ok {
			t.Fatalf("missing symbol %q in %+v", want, out.Symbols)
		}
	}
	if names["b"].Kind != "import" || len(names["b"].References) != 1 {
		t.Fatalf("unexpected import symbol %+v", names["b"])
	}
	if names["z"].Scope != names["y"].Scope {
		t.Fatalf("var z must live in the function scope, got %d and %d", names["z"].Scope, names["y"].Scope)
	}
	var hoisted bool
	for _, sc := range out.Scopes {
		if sc.Kind == "block" && len(sc.Hoisted) == 1 && sc.Hoisted[0] == "z" {
			hoisted = true
		}
	}
	if !hoisted {
		t.Fatalf("expected the block scope to record hoisted z: %+v", out.Scopes)
	}
	if len(out.Imports) != 1 || out.Imports[0].Imported != "a" || out.Imports[0].Local != "b" {
		t.Fatalf("unexpected imports %+v", out.Imports)
	}

	var pretty bytes.Buffer
	if err := FormatSymbolsPretty(&pretty, fx.result, fx.fs, PathModeRelative); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	text := pretty.String()
	for _, want := range []string{
		"main.js (js+module)",
		"#1 root @1:1",
		"  function f @2:17",
		"globals: console",
		`import named "./a.js" a as b`,
		"export g = f",
		`export * from "./c.js"`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}

	var buf bytes.Buffer
	if err := FormatSymbolsJSON(&buf, fx.result, fx.fs, PathModeBasename); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("invalid JSON:\n%s", buf.String())
	}
}

func TestSymbolsDumpRejectsEmptyResult(t *testing.T) {
	if _, err := BuildSymbolsOutput(&semantic.Result{}, nil, PathModeAuto); err == nil {
		t.Fatalf("expected error for a result without tables")
	}
}

func TestASTSummary(t *testing.T) {
	fx := build(t, "\"use strict\";\nfunction f(a) { if (a) { return [a, 1]; } }\nclass C {}\nf(2);\n")

	sum, err := BuildASTSummary(fx.tree, fx.program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Module || !sum.Strict {
		t.Fatalf("expected a strict module, got %+v", sum)
	}
	if len(sum.Directives) != 1 || sum.Directives[0] != "use strict" {
		t.Fatalf("unexpected directives %v", sum.Directives)
	}
	if sum.Funcs != 1 || sum.Classes != 1 {
		t.Fatalf("expected one function and one class, got %d and %d", sum.Funcs, sum.Classes)
	}
	if sum.Stmts[ast.StmtReturn.String()] != 1 || sum.Stmts[ast.StmtIf.String()] != 1 {
		t.Fatalf("nested statements must be counted: %v", sum.Stmts)
	}

	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, fx.tree, fx.program); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "file: module, strict") || !strings.Contains(buf.String(), "functions: 1, classes: 1") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}

	if _, err := BuildASTSummary(fx.tree, fx.program+5); err == nil {
		t.Fatalf("expected error for an unknown file id")
	}
}

func TestSarifOutput(t *testing.T) {
	fs := source.NewFileSetWithBase("/w")
	fileID := fs.AddVirtual("/w/src/a.js", []byte("let total;\ntotl;\n"))
	use := source.Span{File: fileID, Start: 11, End: 15}
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.SemaNormalizationCollide, use, "near miss").
		WithNote(source.Span{File: fileID, Start: 4, End: 9}, "declared here").
		WithFix("rename", diag.FixEdit{Span: use, NewText: "total"}))
	bag.Add(diag.NewError(diag.SemaConstAssignment, use, "const"))

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "binder", ToolVersion: "0.1.0", InvocationArgs: []string{"check", "src"}})
	if err != nil {
		t.Fatalf("sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "SEM3004" {
		t.Fatalf("expected sorted rules, got %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "warning" || run.Results[1].Level != "error" {
		t.Fatalf("unexpected results %+v", run.Results)
	}
	first := run.Results[0]
	region := first.Locations[0].PhysicalLocation.Region
	if first.Locations[0].PhysicalLocation.ArtifactLocation.URI != "src/a.js" || region.StartLine != 2 || region.StartColumn != 1 {
		t.Fatalf("unexpected location %+v", first.Locations[0])
	}
	if len(first.RelatedLocations) != 1 || len(first.Fixes) != 1 {
		t.Fatalf("expected a related location and a fix, got %+v", first)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("a run with errors is not successful")
	}
}
