package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"binder/internal/source"
)

// Hints provide optional capacity suggestions for the table and tree.
type Hints struct{ Scopes, Symbols, References uint }

// Reference is one identifier use.
type Reference struct {
	Name   source.StringID
	Span   source.Span
	Scope  ScopeID // where the use occurs
	Flags  ReferenceFlags
	Symbol SymbolID // NoSymbolID for global references
}

// SymbolTable stores symbols as parallel slices indexed by SymbolID. Slot 0
// of every slice is the NoSymbolID sentinel.
type SymbolTable struct {
	names    []source.StringID
	spans    []source.Span
	flags    []SymbolFlags
	scopes   []ScopeID
	resolved [][]ReferenceID

	references []Reference // slot 0 is NoReferenceID

	Strings *source.Interner
}

// NewSymbolTable builds an empty table. If strings is nil, a fresh interner
// is allocated; pass the AST's interner so names compare by id.
func NewSymbolTable(h Hints, strings *source.Interner) *SymbolTable {
	symCap := capacity(h.Symbols, 64)
	refCap := capacity(h.References, 128)
	if strings == nil {
		strings = source.NewInterner()
	}
	return &SymbolTable{
		names:      make([]source.StringID, 1, symCap),
		spans:      make([]source.Span, 1, symCap),
		flags:      make([]SymbolFlags, 1, symCap),
		scopes:     make([]ScopeID, 1, symCap),
		resolved:   make([][]ReferenceID, 1, symCap),
		references: make([]Reference, 1, refCap),
		Strings:    strings,
	}
}

func capacity(hint, def uint) int {
	if hint == 0 {
		hint = def
	}
	n, err := safecast.Conv[int](hint + 1)
	if err != nil {
		panic(fmt.Errorf("capacity hint overflow: %w", err))
	}
	return n
}

// CreateSymbol appends a symbol and returns its id.
func (t *SymbolTable) CreateSymbol(span source.Span, name source.StringID, flags SymbolFlags, scope ScopeID) SymbolID {
	value, err := safecast.Conv[uint32](len(t.names))
	if err != nil {
		panic(fmt.Errorf("symbol table overflow: %w", err))
	}
	t.names = append(t.names, name)
	t.spans = append(t.spans, span)
	t.flags = append(t.flags, flags)
	t.scopes = append(t.scopes, scope)
	t.resolved = append(t.resolved, nil)
	return SymbolID(value)
}

// CreateReference appends an unresolved reference.
func (t *SymbolTable) CreateReference(span source.Span, name source.StringID, scope ScopeID, flags ReferenceFlags) ReferenceID {
	value, err := safecast.Conv[uint32](len(t.references))
	if err != nil {
		panic(fmt.Errorf("reference table overflow: %w", err))
	}
	t.references = append(t.references, Reference{Name: name, Span: span, Scope: scope, Flags: flags})
	return ReferenceID(value)
}

func (t *SymbolTable) check(id SymbolID) int {
	if !id.IsValid() || int(id) >= len(t.names) {
		panic(fmt.Sprintf("symbols: symbol %d was not created by this table", id))
	}
	return int(id)
}

func (t *SymbolTable) checkRef(id ReferenceID) int {
	if !id.IsValid() || int(id) >= len(t.references) {
		panic(fmt.Sprintf("symbols: reference %d was not created by this table", id))
	}
	return int(id)
}

func (t *SymbolTable) NameID(id SymbolID) source.StringID { return t.names[t.check(id)] }

func (t *SymbolTable) Name(id SymbolID) string {
	s, _ := t.Strings.Lookup(t.names[t.check(id)])
	return s
}

func (t *SymbolTable) Flags(id SymbolID) SymbolFlags { return t.flags[t.check(id)] }

func (t *SymbolTable) ScopeID(id SymbolID) ScopeID { return t.scopes[t.check(id)] }

func (t *SymbolTable) Span(id SymbolID) source.Span { return t.spans[t.check(id)] }

// Reference returns a copy of the reference record.
func (t *SymbolTable) Reference(id ReferenceID) Reference { return t.references[t.checkRef(id)] }

// ReferenceName resolves the interned name of a reference.
func (t *SymbolTable) ReferenceName(id ReferenceID) string {
	s, _ := t.Strings.Lookup(t.references[t.checkRef(id)].Name)
	return s
}

func (t *SymbolTable) IsGlobalReference(id ReferenceID) bool {
	return !t.references[t.checkRef(id)].Symbol.IsValid()
}

// ResolvedReferences lists the references bound to id in source order. The
// slice is shared; callers must not modify it.
func (t *SymbolTable) ResolvedReferences(id SymbolID) []ReferenceID { return t.resolved[t.check(id)] }

// ResolveReference links ref to sym in both directions. References are
// minted in traversal order, so keeping the list sorted by id keeps it in
// source order even when resolution is deferred.
func (t *SymbolTable) ResolveReference(ref ReferenceID, sym SymbolID) {
	r := &t.references[t.checkRef(ref)]
	idx := t.check(sym)
	if r.Symbol.IsValid() {
		if r.Symbol == sym {
			return
		}
		panic(fmt.Sprintf("symbols: reference %d already resolved to %d", ref, r.Symbol))
	}
	r.Symbol = sym
	list := t.resolved[idx]
	pos, found := slices.BinarySearch(list, ref)
	if !found {
		t.resolved[idx] = slices.Insert(list, pos, ref)
	}
}

// Len is the number of symbols.
func (t *SymbolTable) Len() int { return len(t.names) - 1 }

func (t *SymbolTable) IsEmpty() bool { return t.Len() == 0 }

func (t *SymbolTable) ReferenceCount() int { return len(t.references) - 1 }

// SymbolIDs returns every minted symbol id in creation order.
func (t *SymbolTable) SymbolIDs() []SymbolID {
	out := make([]SymbolID, 0, t.Len())
	for i := 1; i < len(t.names); i++ {
		out = append(out, SymbolID(i)) //nolint:gosec // bounded by CreateSymbol
	}
	return out
}

// ReferenceIDs returns every minted reference id in creation order.
func (t *SymbolTable) ReferenceIDs() []ReferenceID {
	out := make([]ReferenceID, 0, t.ReferenceCount())
	for i := 1; i < len(t.references); i++ {
		out = append(out, ReferenceID(i)) //nolint:gosec // bounded by CreateReference
	}
	return out
}
