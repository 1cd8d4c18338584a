package parser

import (
	"slices"
	"strings"
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
)

func TestParseVarDeclarations(t *testing.T) {
	input := "var a = 1, b;\nlet [c, , d] = e;\nconst {f, g: h = 2, ...i} = j;\n"
	b, stmts := mustParse(t, input, moduleJS)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	wantKinds := []ast.VarKind{ast.VarVar, ast.VarLet, ast.VarConst}
	wantNames := [][]string{{"a", "b"}, {"c", "d"}, {"f", "h", "i"}}
	for i, id := range stmts {
		vd, ok := b.Stmts.VarDecl(id)
		if !ok {
			t.Fatalf("statement %d: expected VarDecl, got %s", i, b.Stmts.Get(id).Kind)
		}
		if vd.Kind != wantKinds[i] {
			t.Fatalf("statement %d: expected %s, got %s", i, wantKinds[i], vd.Kind)
		}
		var names []string
		for _, d := range vd.Decls {
			names = append(names, boundNames(b, d.Target)...)
		}
		if !slices.Equal(names, wantNames[i]) {
			t.Fatalf("statement %d: expected names %v, got %v", i, wantNames[i], names)
		}
	}
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	input := "let a = 1\nlet b = 2\na\n++b\n"
	b, stmts := mustParse(t, input, moduleJS)
	want := []ast.StmtKind{ast.StmtVarDecl, ast.StmtVarDecl, ast.StmtExpr, ast.StmtExpr}
	if got := stmtKinds(b, stmts); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	es, _ := b.Stmts.ExprStmt(stmts[3])
	upd, ok := b.Exprs.Update(es.Expr)
	if !ok || !upd.Prefix {
		t.Fatalf("expected prefix update on the last line")
	}
}

func TestReturnNewlineEndsStatement(t *testing.T) {
	b, stmts := mustParse(t, "function f() { return\n1 }", moduleJS)
	fnID, ok := b.Stmts.FuncDecl(stmts[0])
	if !ok {
		t.Fatalf("expected function declaration")
	}
	body := b.Func(fnID).Body
	if len(body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(body))
	}
	ret, _ := b.Stmts.ExprStmt(body[0])
	if ret.Expr.IsValid() {
		t.Fatalf("return must not take the expression on the next line")
	}
}

func TestControlFlowStatements(t *testing.T) {
	input := `for (let i = 0; i < n; i++) {}
for (const k in o) {}
for (x of xs) {}
outer: while (true) { break outer; }
switch (v) { case 1: break; default: }
try { f() } catch { } finally { }
do x++; while (x < 3)
if (a) b(); else { c() }
`
	b, stmts := mustParse(t, input, moduleJS)
	want := []ast.StmtKind{
		ast.StmtFor, ast.StmtForIn, ast.StmtForOf, ast.StmtLabeled,
		ast.StmtSwitch, ast.StmtTry, ast.StmtDoWhile, ast.StmtIf,
	}
	if got := stmtKinds(b, stmts); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	forOf, _ := b.Stmts.ForInOf(stmts[2])
	if forOf.Decl.IsValid() || !forOf.Target.IsValid() {
		t.Fatalf("for-of over an expression target must produce a pattern target")
	}
	sw, _ := b.Stmts.Switch(stmts[4])
	if len(sw.Cases) != 2 || sw.Cases[1].Test.IsValid() {
		t.Fatalf("expected case and default clauses, got %+v", sw.Cases)
	}
	try, _ := b.Stmts.Try(stmts[5])
	if !try.HasCatch || try.Param.IsValid() || !try.Finalizer.IsValid() {
		t.Fatalf("unexpected try payload %+v", try)
	}
}

func TestDirectivePrologue(t *testing.T) {
	b, file, bag := parseSourceWithType(t, "'use strict'; var x;", SourceType{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	f := b.Files.Get(file)
	if !f.Strict || len(f.Directives) != 1 || b.Name(f.Directives[0]) != "use strict" {
		t.Fatalf("expected strict file with one directive, got strict=%v directives=%d", f.Strict, len(f.Directives))
	}
	if len(f.Stmts) != 2 {
		t.Fatalf("directive must stay in the body, got %d statements", len(f.Stmts))
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		st    SourceType
		code  diag.Code
	}{
		{"const without init", "const x;", moduleJS, diag.SynConstWithoutInit},
		{"break outside loop", "break;", moduleJS, diag.SynIllegalBreak},
		{"continue outside loop", "while (a) {} continue;", moduleJS, diag.SynIllegalBreak},
		{"undefined label", "while (a) { break nope; }", moduleJS, diag.SynIllegalBreak},
		{"missing expression", "a = ;", moduleJS, diag.SynExpectExpression},
		{"anonymous function declaration", "function () {}", moduleJS, diag.SynExpectIdentifier},
		{"destructuring without init", "let [a];", moduleJS, diag.SynExpectBindingPattern},
		{"with in strict code", "with (a) {}", moduleJS, diag.SynStrictModeReserved},
		{"reserved binding in strict code", "'use strict'; var let = 1;", SourceType{}, diag.SynStrictModeReserved},
		{"import in script", "import x from 'm';", SourceType{}, diag.SynModuleSyntaxInScript},
		{"export in script", "export const x = 1;", SourceType{}, diag.SynModuleSyntaxInScript},
		{"enum in javascript", "enum E { A }", moduleJS, diag.SynTypeScriptOnly},
		{"jsx disabled", "<div/>;", moduleJS, diag.SynJSXNotEnabled},
		{"unclosed paren", "(a, b", moduleJS, diag.SynUnclosedParen},
		{"unclosed brace", "x = {a: 1", moduleJS, diag.SynUnclosedBrace},
		{"unclosed bracket", "x = [1, 2", moduleJS, diag.SynUnclosedBracket},
		{"newline after throw", "throw\nx;", moduleJS, diag.SynIllegalNewline},
		{"assign to literal", "1 = 2;", moduleJS, diag.SynInvalidAssignTarget},
		{"assign to eval", "eval = 1;", moduleJS, diag.SynInvalidAssignTarget},
		{"two defaults", "switch (a) { default: default: }", moduleJS, diag.SynUnexpectedToken},
		{"missing semicolon", "a b", moduleJS, diag.SynExpectSemicolon},
		{"nested import", "{ import x from 'm'; }", moduleJS, diag.SynUnexpectedToken},
		{"for-of initializer", "for (let x = 1 of xs) {}", moduleJS, diag.SynBadForHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := parseSourceWithType(t, tt.input, tt.st)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestNestingLimit(t *testing.T) {
	_, _, bag := parseSource(t, "x = "+strings.Repeat("[", 3000))
	if !hasCode(bag, diag.SynNestingTooDeep) {
		t.Fatalf("expected nesting diagnostic, got %s", diagnosticsSummary(bag))
	}
}

func TestErrorBudgetStopsParsing(t *testing.T) {
	_, _, bag := parseSource(t, strings.Repeat("const x;\n", 150))
	if bag.ErrorCount() != 100 {
		t.Fatalf("expected parsing to stop at 100 errors, got %d", bag.ErrorCount())
	}
}

func TestErrorRecoveryKeepsLaterStatements(t *testing.T) {
	b, file, bag := parseSource(t, "let = ;\nfunction ok() {}\n")
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	stmts := b.Files.Get(file).Stmts
	found := false
	for _, id := range stmts {
		if fn, ok := b.Stmts.FuncDecl(id); ok && b.Name(b.Func(fn).Name) == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser did not recover to the function declaration: %v", stmtKinds(b, stmts))
	}
}

func TestLabeledJumpKeepsLabel(t *testing.T) {
	b, stmts := mustParse(t, "outer: for (;;) { continue outer; }", moduleJS)
	lab, ok := b.Stmts.LabeledStmt(stmts[0])
	if !ok || b.Name(lab.Label) != "outer" {
		t.Fatalf("expected labeled statement 'outer'")
	}
	loop, ok := b.Stmts.For(lab.Body)
	if !ok {
		t.Fatalf("expected for loop under the label, got %s", b.Stmts.Get(lab.Body).Kind)
	}
	body, ok := b.Stmts.Block(loop.Body)
	if !ok || len(body.Stmts) != 1 {
		t.Fatalf("expected a one-statement block body")
	}
	jump, ok := b.Stmts.Jump(body.Stmts[0])
	if !ok || b.Name(jump.Label) != "outer" {
		t.Fatalf("expected 'continue outer', got %s", b.Stmts.Get(body.Stmts[0]).Kind)
	}
}
