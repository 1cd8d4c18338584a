package semantic

import (
	"bytes"
	"slices"
	"sort"

	"binder/internal/diag"
	"binder/internal/parser"
	"binder/internal/source"
	"binder/internal/symbols"
	"binder/internal/token"
)

// Redeclaration describes one conflicting declaration. Both symbols exist
// in the table.
type Redeclaration struct {
	Name     string
	Symbol   symbols.SymbolID // the later declaration
	Previous symbols.SymbolID // the first binding it clashes with
	Span     source.Span
	PrevSpan source.Span
}

type ImportKind uint8

const (
	ImportSideEffect ImportKind = iota // import "m"
	ImportDefault
	ImportNamespace
	ImportNamed
)

func (k ImportKind) String() string {
	switch k {
	case ImportDefault:
		return "default"
	case ImportNamespace:
		return "namespace"
	case ImportNamed:
		return "named"
	}
	return "side-effect"
}

// Import is one import specifier, or a bare `import "m"`.
type Import struct {
	Kind       ImportKind
	Source     string
	SourceSpan source.Span
	Imported   string // "default" for default imports, empty for namespace and side-effect
	Local      string
	Span       source.Span
	Symbol     symbols.SymbolID // NoSymbolID for type-only and side-effect imports
	TypeOnly   bool
}

// Export is one exported name.
type Export struct {
	Name      string // exported name; empty for `export * from`
	Local     string // local binding name, empty for default expressions
	Source    string // set for re-exports
	Span      source.Span
	Symbol    symbols.SymbolID    // declarations
	Reference symbols.ReferenceID // `export { x }` lists
	Star      bool                // export * from "m"
	Namespace bool                // export * as ns from "m"
	TypeOnly  bool
}

// Result is the read-only outcome of one build. Nothing mutates it after
// Build returns, so it is safe for concurrent readers.
type Result struct {
	Symbols        *symbols.SymbolTable
	Scopes         *symbols.ScopeTree
	Root           symbols.ScopeID
	Diagnostics    []diag.Diagnostic
	Redeclarations []Redeclaration
	Comments       []token.Trivia
	Source         parser.SourceType
	File           *source.File

	imports []Import
	exports []Export
}

// Imports lists import specifiers in source order. Do not modify it.
func (r *Result) Imports() []Import { return r.imports }

// Exports lists exported names in source order. Do not modify it.
func (r *Result) Exports() []Export { return r.exports }

// HasErrors reports error-severity diagnostics from the build.
func (r *Result) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, diag.Diagnostic.IsError)
}

// GlobalNames returns the sorted, distinct names of unresolved references.
func (r *Result) GlobalNames() []string {
	seen := make(map[source.StringID]struct{})
	var out []string
	for _, ref := range r.Symbols.ReferenceIDs() {
		if !r.Symbols.IsGlobalReference(ref) {
			continue
		}
		name := r.Symbols.Reference(ref).Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, r.Symbols.ReferenceName(ref))
	}
	sort.Strings(out)
	return out
}

// LeadingComment returns the comment that ends right before span, with only
// whitespace in between: JSDoc blocks and line comments above declarations.
func (r *Result) LeadingComment(span source.Span) (token.Trivia, bool) {
	// first comment starting at or after span
	i := sort.Search(len(r.Comments), func(i int) bool {
		return r.Comments[i].Span.Start >= span.Start
	})
	for i--; i >= 0; i-- {
		c := r.Comments[i]
		if !c.IsComment() || c.Span.End > span.Start {
			continue
		}
		if r.File != nil && int(span.Start) <= len(r.File.Content) {
			gap := r.File.Content[c.Span.End:span.Start]
			if len(bytes.TrimSpace(gap)) != 0 {
				return token.Trivia{}, false
			}
		}
		return c, true
	}
	return token.Trivia{}, false
}

// SymbolsNamed returns every symbol declared under name, in creation order.
func (r *Result) SymbolsNamed(name string) []symbols.SymbolID {
	var out []symbols.SymbolID
	for _, id := range r.Symbols.SymbolIDs() {
		if r.Symbols.Name(id) == name {
			out = append(out, id)
		}
	}
	return out
}
