package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"binder/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid     ScopeKind = iota
	ScopeRoot                  // program
	ScopeFunction              // function declaration, expression or method
	ScopeArrow                 // arrow function
	ScopeBlock                 // { ... }
	ScopeCatch                 // catch clause; parameter and body share it
	ScopeFor                   // for / for-in / for-of head
	ScopeSwitch                // switch body
	ScopeClass                 // class body
	ScopeStaticBlock           // static { ... }
)

var scopeKindNames = [...]string{
	ScopeInvalid:     "invalid",
	ScopeRoot:        "root",
	ScopeFunction:    "function",
	ScopeArrow:       "arrow",
	ScopeBlock:       "block",
	ScopeCatch:       "catch",
	ScopeFor:         "for",
	ScopeSwitch:      "switch",
	ScopeClass:       "class",
	ScopeStaticBlock: "static-block",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "invalid"
}

// IsHoistTarget reports whether var declarations stop at this kind.
func (k ScopeKind) IsHoistTarget() bool {
	switch k {
	case ScopeRoot, ScopeFunction, ScopeArrow, ScopeStaticBlock:
		return true
	}
	return false
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Children []ScopeID

	// NameIndex lists every symbol bound under a name, in declaration
	// order. The first entry is the canonical binding.
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID

	// Hoisted records var declarations that passed through this scope on
	// their way to the hoist target.
	Hoisted map[source.StringID][]SymbolID
}

// ScopeTree stores all scopes in a slice-based arena. Slot 0 is NoScopeID.
type ScopeTree struct {
	data []Scope
}

// NewScopeTree creates a tree with optional capacity hint.
func NewScopeTree(capacity uint32) *ScopeTree {
	if capacity == 0 {
		capacity = 32
	}
	return &ScopeTree{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// PushScope allocates a child of parent. Pass NoScopeID for the root.
func (s *ScopeTree) PushScope(parent ScopeID, kind ScopeKind, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scope tree overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:      kind,
		Parent:    parent,
		Span:      span,
		NameIndex: make(map[source.StringID][]SymbolID),
	})
	if parentScope := s.Get(parent); parentScope != nil {
		parentScope.Children = append(parentScope.Children, id)
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *ScopeTree) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *ScopeTree) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *ScopeTree) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Parent returns NoScopeID for the root and for unknown ids.
func (s *ScopeTree) Parent(id ScopeID) ScopeID {
	if sc := s.Get(id); sc != nil {
		return sc.Parent
	}
	return NoScopeID
}

func (s *ScopeTree) Kind(id ScopeID) ScopeKind {
	if sc := s.Get(id); sc != nil {
		return sc.Kind
	}
	return ScopeInvalid
}

// HoistTarget returns the nearest scope, starting at id, that receives
// function-scoped declarations.
func (s *ScopeTree) HoistTarget(id ScopeID) ScopeID {
	for id.IsValid() {
		sc := s.Get(id)
		if sc == nil {
			break
		}
		if sc.Kind.IsHoistTarget() {
			return id
		}
		id = sc.Parent
	}
	return NoScopeID
}

// DeclareBinding records name -> symbol in scope. The first binding of a
// name stays canonical.
func (s *ScopeTree) DeclareBinding(scope ScopeID, name source.StringID, symbol SymbolID) {
	sc := s.Get(scope)
	if sc == nil {
		panic(fmt.Sprintf("symbols: declare in unknown scope %d", scope))
	}
	sc.Symbols = append(sc.Symbols, symbol)
	sc.NameIndex[name] = append(sc.NameIndex[name], symbol)
}

// MarkHoisted leaves a marker for a var declaration hoisted through scope.
func (s *ScopeTree) MarkHoisted(scope ScopeID, name source.StringID, symbol SymbolID) {
	sc := s.Get(scope)
	if sc == nil {
		return
	}
	if sc.Hoisted == nil {
		sc.Hoisted = make(map[source.StringID][]SymbolID)
	}
	sc.Hoisted[name] = append(sc.Hoisted[name], symbol)
}

// Binding returns the canonical binding of name declared directly in scope.
func (s *ScopeTree) Binding(scope ScopeID, name source.StringID) (SymbolID, bool) {
	sc := s.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	if ids := sc.NameIndex[name]; len(ids) > 0 {
		return ids[0], true
	}
	return NoSymbolID, false
}

// Bindings returns every symbol bound under name directly in scope.
func (s *ScopeTree) Bindings(scope ScopeID, name source.StringID) []SymbolID {
	if sc := s.Get(scope); sc != nil {
		return sc.NameIndex[name]
	}
	return nil
}

// ResolveBinding walks from start through its ancestors and returns the
// first canonical binding of name.
func (s *ScopeTree) ResolveBinding(start ScopeID, name source.StringID) (SymbolID, bool) {
	for id := start; id.IsValid(); id = s.Parent(id) {
		if sym, ok := s.Binding(id, name); ok {
			return sym, true
		}
	}
	return NoSymbolID, false
}

// Ancestors returns start and its ancestors up to the root.
func (s *ScopeTree) Ancestors(start ScopeID) []ScopeID {
	var out []ScopeID
	for id := start; id.IsValid(); id = s.Parent(id) {
		out = append(out, id)
	}
	return out
}
