package symbols

// ScopeID identifies a scope in the scope tree.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol inside the symbol table.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ReferenceID identifies an identifier use inside the symbol table.
type ReferenceID uint32

const (
	// NoReferenceID marks the absence of a reference.
	NoReferenceID ReferenceID = 0
)

func (id ReferenceID) IsValid() bool { return id != NoReferenceID }
