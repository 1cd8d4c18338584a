package parser

import (
	"testing"

	"binder/internal/ast"
	"binder/internal/token"
)

func TestArrowFunctions(t *testing.T) {
	input := `const f = (a, {b}, ...c) => a + b;
const g = async x => await x;
const h = () => ({});
const k = async (y) => { return y };
`
	b, stmts := mustParse(t, input, moduleJS)
	tests := []struct {
		params  int
		rest    bool
		async   bool
		exprBdy bool
	}{
		{params: 2, rest: true, exprBdy: true},
		{params: 1, async: true, exprBdy: true},
		{params: 0, exprBdy: true},
		{params: 1, async: true},
	}
	for i, tt := range tests {
		init := declInit(t, b, stmts[i])
		if b.Exprs.Get(init).Kind != ast.ExprArrow {
			t.Fatalf("statement %d: expected arrow, got %s", i, b.Exprs.Get(init).Kind)
		}
		fnID, _ := b.Exprs.Func(init)
		fn := b.Func(fnID)
		if len(fn.Params) != tt.params || fn.Rest.IsValid() != tt.rest {
			t.Fatalf("statement %d: params=%d rest=%v", i, len(fn.Params), fn.Rest.IsValid())
		}
		if fn.Flags.Has(ast.FuncAsync) != tt.async || !fn.Flags.Has(ast.FuncArrow) {
			t.Fatalf("statement %d: unexpected flags %b", i, fn.Flags)
		}
		if fn.ExprBody.IsValid() != tt.exprBdy {
			t.Fatalf("statement %d: expression body=%v", i, fn.ExprBody.IsValid())
		}
	}
}

func TestParenthesizedIsNotArrow(t *testing.T) {
	b, stmts := mustParse(t, "const x = (a, b);", moduleJS)
	init := declInit(t, b, stmts[0])
	if b.Exprs.Get(init).Kind != ast.ExprParen {
		t.Fatalf("expected parenthesized expression, got %s", b.Exprs.Get(init).Kind)
	}
	inner := b.Exprs.Unparen(init)
	if b.Exprs.Get(inner).Kind != ast.ExprSequence {
		t.Fatalf("expected sequence inside parens, got %s", b.Exprs.Get(inner).Kind)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	b, stmts := mustParse(t, "x = a + b * c ** d ** e;", moduleJS)
	es, _ := b.Stmts.ExprStmt(stmts[0])
	assign, ok := b.Exprs.Assign(es.Expr)
	if !ok {
		t.Fatalf("expected assignment")
	}
	add, _ := b.Exprs.Binary(assign.Value)
	if add == nil || add.Op != token.Plus {
		t.Fatalf("expected '+' at the top")
	}
	mul, _ := b.Exprs.Binary(add.Right)
	if mul == nil || mul.Op != token.Star {
		t.Fatalf("expected '*' below '+'")
	}
	pow, _ := b.Exprs.Binary(mul.Right)
	if pow == nil || pow.Op != token.StarStar {
		t.Fatalf("expected '**' below '*'")
	}
	// ** is right-associative: c ** (d ** e)
	if right, _ := b.Exprs.Binary(pow.Right); right == nil || right.Op != token.StarStar {
		t.Fatalf("expected right-associative '**'")
	}
}

func TestDestructuringAssignment(t *testing.T) {
	b, stmts := mustParse(t, "[a, {b, c: d = 1}, ...e] = f;", moduleJS)
	es, _ := b.Stmts.ExprStmt(stmts[0])
	assign, _ := b.Exprs.Assign(es.Expr)
	arr, ok := b.Patterns.Array(assign.Target)
	if !ok {
		t.Fatalf("expected array pattern target")
	}
	if len(arr.Elems) != 2 || !arr.Rest.IsValid() {
		t.Fatalf("expected 2 elements and a rest, got %d rest=%v", len(arr.Elems), arr.Rest.IsValid())
	}
	got := boundNames(b, assign.Target)
	want := []string{"a", "b", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRegExpAndTemplates(t *testing.T) {
	input := "const r = /a[/]b/g.test(s);\nconst t = `a${b}c${`d${e}`}`;\nconst u = tag`x${y}`;\n"
	b, stmts := mustParse(t, input, moduleJS)

	call, ok := b.Exprs.Call(declInit(t, b, stmts[0]))
	if !ok {
		t.Fatalf("expected call on a regexp member")
	}
	member, _ := b.Exprs.Member(call.Callee)
	lit, ok := b.Exprs.Literal(member.Object)
	if !ok || lit.Kind != ast.LitRegExp || b.Name(lit.Raw) != "/a[/]b/g" {
		t.Fatalf("expected regexp literal, got %+v", lit)
	}

	tpl, ok := b.Exprs.Template(declInit(t, b, stmts[1]))
	if !ok || len(tpl.Quasis) != 3 || len(tpl.Exprs) != 2 {
		t.Fatalf("unexpected template shape %+v", tpl)
	}
	if _, nested := b.Exprs.Template(tpl.Exprs[1]); !nested {
		t.Fatalf("expected nested template in the second substitution")
	}

	tagged, _ := b.Exprs.Template(declInit(t, b, stmts[2]))
	if tagged == nil || !tagged.Tag.IsValid() {
		t.Fatalf("expected tagged template")
	}
}

func TestObjectLiteralMembers(t *testing.T) {
	input := "const o = { a, b: 1, [c]: 2, get d() { return 1 }, set d(v) {}, async *e() {}, ...f, 'g': 3 };"
	b, stmts := mustParse(t, input, moduleJS)
	obj, ok := b.Exprs.Object(declInit(t, b, stmts[0]))
	if !ok {
		t.Fatalf("expected object literal")
	}
	want := []ast.PropKind{
		ast.PropShorthand, ast.PropInit, ast.PropInit, ast.PropGetter,
		ast.PropSetter, ast.PropMethod, ast.PropSpread, ast.PropInit,
	}
	if len(obj.Props) != len(want) {
		t.Fatalf("expected %d props, got %d", len(want), len(obj.Props))
	}
	for i, k := range want {
		if obj.Props[i].Kind != k {
			t.Fatalf("prop %d: expected kind %d, got %d", i, k, obj.Props[i].Kind)
		}
	}
	if obj.Props[2].Key.Kind != ast.KeyComputed {
		t.Fatalf("expected computed key")
	}
	fn := b.Func(obj.Props[5].Func)
	if !fn.Flags.Has(ast.FuncAsync) || !fn.Flags.Has(ast.FuncGenerator) {
		t.Fatalf("expected async generator method, flags %b", fn.Flags)
	}
}

func TestOptionalChainingAndNew(t *testing.T) {
	input := "a?.b?.[c]?.(d);\nnew Foo.Bar(1);\nnew.target;\n"
	_, _, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
}

func TestClassMembers(t *testing.T) {
	input := `class A extends B {
  static #x = 1;
  get y() { return 1 }
  static { init() }
  constructor() { super() }
  m() {}
  static = 2;
}`
	b, stmts := mustParse(t, input, moduleJS)
	clsID, ok := b.Stmts.ClassDecl(stmts[0])
	if !ok {
		t.Fatalf("expected class declaration")
	}
	cls := b.Class(clsID)
	if !cls.Super.IsValid() || b.Name(cls.Name) != "A" {
		t.Fatalf("expected class A with a superclass")
	}
	want := []ast.MemberKind{
		ast.MemberProperty, ast.MemberGetter, ast.MemberStaticBlock,
		ast.MemberConstructor, ast.MemberMethod, ast.MemberProperty,
	}
	if len(cls.Members) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(cls.Members))
	}
	for i, k := range want {
		if cls.Members[i].Kind != k {
			t.Fatalf("member %d: expected kind %d, got %d", i, k, cls.Members[i].Kind)
		}
	}
	first := cls.Members[0]
	if !first.Static || first.Key.Kind != ast.KeyPrivate || b.Name(first.Key.Name) != "x" {
		t.Fatalf("expected static private field #x, got %+v", first)
	}
	last := cls.Members[5]
	if last.Static || b.Name(last.Key.Name) != "static" {
		t.Fatalf("expected a field named 'static', got %+v", last)
	}
}

func TestGeneratorsAndYield(t *testing.T) {
	b, stmts := mustParse(t, "function* g() { yield 1; yield* other(); const yieldNot = 2 }", moduleJS)
	fnID, _ := b.Stmts.FuncDecl(stmts[0])
	fn := b.Func(fnID)
	if !fn.Flags.Has(ast.FuncGenerator) || len(fn.Body) != 3 {
		t.Fatalf("unexpected generator shape: flags %b, %d statements", fn.Flags, len(fn.Body))
	}
	es, _ := b.Stmts.ExprStmt(fn.Body[1])
	y, ok := b.Exprs.Wrap(es.Expr)
	if !ok || !y.Delegate {
		t.Fatalf("expected delegating yield")
	}
}
