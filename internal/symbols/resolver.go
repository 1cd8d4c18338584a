package symbols

import (
	"binder/internal/source"
)

// Resolver drives scope management for one traversal: it owns the scope
// stack, declares symbols into their effective scope and binds references.
//
// References are never bound when they are created. A scope's bindings are
// only complete once it closes, so each reference waits for its own scope to
// close and is then looked up there. A miss moves it to the parent, which
// looks it up in turn when it closes; whatever is left after the root closes
// is global. The symbol a reference ends up with is therefore always
// ResolveBinding(ref.Scope, name) on the finished tree.
type Resolver struct {
	table   *SymbolTable
	tree    *ScopeTree
	stack   []ScopeID
	pending [][]ReferenceID // parallel to stack
}

// NewResolver wires a resolver to an empty table and tree. The first Enter
// creates the root.
func NewResolver(table *SymbolTable, tree *ScopeTree) *Resolver {
	return &Resolver{
		table:   table,
		tree:    tree,
		stack:   make([]ScopeID, 0, 16),
		pending: make([][]ReferenceID, 0, 16),
	}
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Depth is the number of open scopes.
func (r *Resolver) Depth() int { return len(r.stack) }

// Enter creates a child scope, pushes it onto the stack, and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, span source.Span) ScopeID {
	scope := r.tree.PushScope(r.CurrentScope(), kind, span)
	r.stack = append(r.stack, scope)
	r.pending = append(r.pending, nil)
	return scope
}

// Leave pops the current scope and binds the references waiting in it. The
// scope's bindings are complete at this point, and so are those of every
// scope it contains; its ancestors are still open and are not consulted.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	top := len(r.stack) - 1
	if expected.IsValid() && r.stack[top] != expected {
		debugScopeMismatch(expected, r.stack[top])
	}
	waiting := r.pending[top]
	closed := r.stack[top]
	r.stack = r.stack[:top]
	r.pending = r.pending[:top]

	var still []ReferenceID
	for _, ref := range waiting {
		if !r.bindIn(ref, closed) {
			still = append(still, ref)
		}
	}
	if len(still) > 0 && top > 0 {
		r.pending[top-1] = append(r.pending[top-1], still...)
	}
}

// Reference creates a use of name in the current scope. It is bound when
// the scope closes; see Leave.
func (r *Resolver) Reference(name source.StringID, span source.Span, flags ReferenceFlags) ReferenceID {
	ref := r.table.CreateReference(span, name, r.CurrentScope(), flags)
	if len(r.pending) > 0 {
		top := len(r.pending) - 1
		r.pending[top] = append(r.pending[top], ref)
	}
	return ref
}

// bindIn binds ref to the binding of its name in closed. Every scope between
// the reference's own scope and closed has already been searched.
func (r *Resolver) bindIn(ref ReferenceID, closed ScopeID) bool {
	sym, ok := r.tree.Binding(closed, r.table.Reference(ref).Name)
	if ok {
		r.table.ResolveReference(ref, sym)
	}
	return ok
}

// EffectiveScope is where a declaration with flags made in the current scope
// lands: the hoist target for function-scoped variables, the current scope
// otherwise.
func (r *Resolver) EffectiveScope(flags SymbolFlags) ScopeID {
	cur := r.CurrentScope()
	if flags.Any(FunctionScopedVariable) {
		return r.tree.HoistTarget(cur)
	}
	return cur
}

// Conflicts returns the already declared symbols a new declaration of name
// with flags would clash with, in declaration order.
//
// A hoisted declaration is checked against every scope it passes through
// as well as its target; a lexical one also checks the hoisting markers
// left in its scope.
func (r *Resolver) Conflicts(name source.StringID, flags SymbolFlags) []SymbolID {
	var out []SymbolID
	collect := func(ids []SymbolID) {
		for _, id := range ids {
			if flags.ConflictsWith(r.table.Flags(id)) {
				out = append(out, id)
			}
		}
	}
	cur := r.CurrentScope()
	target := r.EffectiveScope(flags)
	if target != cur {
		for id := cur; id.IsValid() && id != target; id = r.tree.Parent(id) {
			collect(r.tree.Bindings(id, name))
		}
	}
	collect(r.tree.Bindings(target, name))
	if sc := r.tree.Get(target); sc != nil && sc.Hoisted != nil {
		collect(sc.Hoisted[name])
	}
	return out
}

// Declare creates a symbol in its effective scope and binds it. It performs
// no conflict checks; see Conflicts.
func (r *Resolver) Declare(name source.StringID, span source.Span, flags SymbolFlags) SymbolID {
	cur := r.CurrentScope()
	target := r.EffectiveScope(flags)
	if !target.IsValid() {
		return NoSymbolID
	}
	id := r.table.CreateSymbol(span, name, flags, target)
	r.tree.DeclareBinding(target, name, id)
	for sc := cur; sc.IsValid() && sc != target; sc = r.tree.Parent(sc) {
		r.tree.MarkHoisted(sc, name, id)
	}
	return id
}
