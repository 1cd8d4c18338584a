package symbols

import (
	"strings"
	"testing"

	"binder/internal/source"
)

func newResolver() (*Resolver, *SymbolTable, *ScopeTree) {
	table := NewSymbolTable(Hints{}, nil)
	tree := NewScopeTree(0)
	return NewResolver(table, tree), table, tree
}

func TestResolverLifecycle(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	if root != 1 {
		t.Fatalf("expected root scope 1, got %d", root)
	}
	fn := res.Enter(ScopeFunction, source.Span{})
	block := res.Enter(ScopeBlock, source.Span{})

	name := table.Strings.Intern("value")
	sym := res.Declare(name, source.Span{}, FunctionScopedVariable)
	if table.ScopeID(sym) != fn {
		t.Fatalf("var must hoist to the function scope, got %d", table.ScopeID(sym))
	}
	if ids := tree.Get(block).Hoisted[name]; len(ids) != 1 || ids[0] != sym {
		t.Fatalf("expected hoisting marker in the block, got %v", ids)
	}
	if err := Validate(tree, table); err != nil {
		t.Fatalf("validate: %v", err)
	}

	res.Leave(block)
	res.Leave(fn)
	res.Leave(root)
	if res.Depth() != 0 {
		t.Fatalf("expected empty stack, depth %d", res.Depth())
	}
	if err := Validate(tree, table); err != nil {
		t.Fatalf("validate after leave: %v", err)
	}
}

func TestForwardReferenceResolvesOnScopeClose(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	g := table.Strings.Intern("g")

	fn := res.Enter(ScopeFunction, source.Span{})
	ref := res.Reference(g, source.Span{}, Read)
	if !table.IsGlobalReference(ref) {
		t.Fatalf("g is not declared yet")
	}
	res.Leave(fn)

	sym := res.Declare(g, source.Span{}, Function)
	res.Leave(root)

	if table.Reference(ref).Symbol != sym {
		t.Fatalf("expected deferred resolution to %d, got %d", sym, table.Reference(ref).Symbol)
	}
	if err := Validate(tree, table); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLaterShadowingDeclarationWins(t *testing.T) {
	tests := []struct {
		name  string
		inner SymbolFlags
		kind  ScopeKind
	}{
		{"var in function", FunctionScopedVariable, ScopeFunction},
		{"function in function", Function, ScopeFunction},
		{"let in block", BlockScopedVariable, ScopeBlock},
	}
	for _, tt := range tests {
		res, table, tree := newResolver()
		root := res.Enter(ScopeRoot, source.Span{})
		a := table.Strings.Intern("a")
		outer := res.Declare(a, source.Span{}, BlockScopedVariable|ConstVariable)

		sc := res.Enter(tt.kind, source.Span{})
		ref := res.Reference(a, source.Span{}, Write)
		inner := res.Declare(a, source.Span{}, tt.inner)
		res.Leave(sc)
		after := res.Reference(a, source.Span{}, Read)
		res.Leave(root)

		if got := table.Reference(ref).Symbol; got != inner {
			t.Fatalf("%s: use before the shadowing declaration bound to %d, want inner %d", tt.name, got, inner)
		}
		if got := table.Reference(after).Symbol; got != outer {
			t.Fatalf("%s: use after the scope bound to %d, want outer %d", tt.name, got, outer)
		}
		if len(table.ResolvedReferences(outer)) != 1 {
			t.Fatalf("%s: outer symbol has references %v", tt.name, table.ResolvedReferences(outer))
		}
		if err := Validate(tree, table); err != nil {
			t.Fatalf("%s: validate: %v", tt.name, err)
		}
	}
}

func TestUnboundReferenceStaysGlobal(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	ref := res.Reference(table.Strings.Intern("console"), source.Span{}, Read)
	res.Leave(root)
	if !table.IsGlobalReference(ref) {
		t.Fatalf("expected global reference")
	}
	if err := Validate(tree, table); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFirstBindingIsCanonical(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	x := table.Strings.Intern("x")
	first := res.Declare(x, source.Span{}, FunctionScopedVariable)
	second := res.Declare(x, source.Span{}, FunctionScopedVariable)
	if got, _ := tree.ResolveBinding(root, x); got != first {
		t.Fatalf("expected canonical %d, got %d", first, got)
	}
	if n := len(tree.Bindings(root, x)); n != 2 {
		t.Fatalf("expected both symbols recorded, got %d", n)
	}
	ref := res.Reference(x, source.Span{}, Read)
	res.Leave(root)
	if table.Reference(ref).Symbol != first || len(table.ResolvedReferences(second)) != 0 {
		t.Fatalf("references must bind to the canonical symbol")
	}
}

func TestConflictsThroughIntermediateScopes(t *testing.T) {
	tests := []struct {
		name     string
		build    func(r *Resolver, x source.StringID)
		flags    SymbolFlags
		conflict int
	}{
		{
			name: "var below let",
			build: func(r *Resolver, x source.StringID) {
				r.Enter(ScopeBlock, source.Span{})
				r.Declare(x, source.Span{}, BlockScopedVariable)
				r.Enter(ScopeBlock, source.Span{})
			},
			flags:    FunctionScopedVariable,
			conflict: 1,
		},
		{
			name: "let after hoisted var",
			build: func(r *Resolver, x source.StringID) {
				r.Enter(ScopeBlock, source.Span{})
				b := r.Enter(ScopeBlock, source.Span{})
				r.Declare(x, source.Span{}, FunctionScopedVariable)
				r.Leave(b)
			},
			flags:    BlockScopedVariable,
			conflict: 1,
		},
		{
			name: "var inside catch",
			build: func(r *Resolver, x source.StringID) {
				r.Enter(ScopeCatch, source.Span{})
				r.Declare(x, source.Span{}, CatchVariable)
			},
			flags:    FunctionScopedVariable,
			conflict: 0,
		},
		{
			name: "let in sibling block",
			build: func(r *Resolver, x source.StringID) {
				b := r.Enter(ScopeBlock, source.Span{})
				r.Declare(x, source.Span{}, BlockScopedVariable)
				r.Leave(b)
				r.Enter(ScopeBlock, source.Span{})
			},
			flags:    BlockScopedVariable,
			conflict: 0,
		},
		{
			name: "var stops at arrow",
			build: func(r *Resolver, x source.StringID) {
				r.Declare(x, source.Span{}, BlockScopedVariable)
				r.Enter(ScopeArrow, source.Span{})
			},
			flags:    FunctionScopedVariable,
			conflict: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, table, _ := newResolver()
			res.Enter(ScopeRoot, source.Span{})
			x := table.Strings.Intern("x")
			tt.build(res, x)
			if got := res.Conflicts(x, tt.flags); len(got) != tt.conflict {
				t.Fatalf("expected %d conflicts, got %v", tt.conflict, got)
			}
		})
	}
}

func TestHoistTarget(t *testing.T) {
	tree := NewScopeTree(0)
	root := tree.PushScope(NoScopeID, ScopeRoot, source.Span{})
	static := tree.PushScope(root, ScopeStaticBlock, source.Span{})
	block := tree.PushScope(static, ScopeBlock, source.Span{})
	forScope := tree.PushScope(block, ScopeFor, source.Span{})
	if got := tree.HoistTarget(forScope); got != static {
		t.Fatalf("expected static block %d, got %d", static, got)
	}
	if got := tree.HoistTarget(root); got != root {
		t.Fatalf("root is its own hoist target")
	}
	if got := tree.Ancestors(forScope); len(got) != 4 || got[3] != root {
		t.Fatalf("unexpected ancestors %v", got)
	}
}

func TestValidateReportsBrokenLinks(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	x := table.Strings.Intern("x")
	res.Declare(x, source.Span{}, BlockScopedVariable)
	res.Leave(root)

	// a symbol nobody bound
	table.CreateSymbol(source.Span{}, x, BlockScopedVariable, root)
	if err := Validate(tree, table); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateReportsShadowedResolution(t *testing.T) {
	res, table, tree := newResolver()
	root := res.Enter(ScopeRoot, source.Span{})
	x := table.Strings.Intern("x")
	outer := res.Declare(x, source.Span{}, BlockScopedVariable)
	fn := res.Enter(ScopeFunction, source.Span{})
	res.Declare(x, source.Span{}, FunctionScopedVariable)
	res.Leave(fn)
	res.Leave(root)

	// the function's own x shadows outer
	ref := table.CreateReference(source.Span{}, x, fn, Read)
	table.ResolveReference(ref, outer)
	err := Validate(tree, table)
	if err == nil || !strings.Contains(err.Error(), "scope chain binds") {
		t.Fatalf("expected a shadowing error, got %v", err)
	}
}
