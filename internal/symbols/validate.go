package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate walks the tree and table checking structural invariants. Returns
// nil if everything is consistent; otherwise aggregates all detected issues.
func Validate(tree *ScopeTree, table *SymbolTable) error {
	var errs []error
	errs = append(errs, validateScopes(tree)...)
	errs = append(errs, validateSymbols(tree, table)...)
	errs = append(errs, validateReferences(tree, table)...)
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func validateScopes(tree *ScopeTree) []error {
	var errs []error
	roots := 0
	for idx := 1; idx < len(tree.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := tree.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if !scope.Parent.IsValid() {
			roots++
			if scope.Kind != ScopeRoot {
				errs = append(errs, fmt.Errorf("scope %d (%s) has no parent", scopeID, scope.Kind))
			}
		} else {
			// parents are created first, so a valid parent id is smaller
			if scope.Parent >= scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			if !slices.Contains(tree.data[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		}
		for _, child := range scope.Children {
			if int(child) >= len(tree.data) || child == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid child %d", scopeID, child))
				continue
			}
			if tree.data[child].Parent != scopeID {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
			}
		}
	}
	if len(tree.data) > 1 && roots != 1 {
		errs = append(errs, fmt.Errorf("scope tree has %d roots", roots))
	}
	return errs
}

func validateSymbols(tree *ScopeTree, table *SymbolTable) []error {
	var errs []error

	// Name index and symbol list must agree.
	for idx := 1; idx < len(tree.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := tree.data[idx]
		covered := 0
		for name, bucket := range scope.NameIndex {
			for _, id := range bucket {
				if !slices.Contains(scope.Symbols, id) {
					errs = append(errs, fmt.Errorf("scope %d name index %d references missing symbol %d", scopeID, name, id))
					continue
				}
				if table.NameID(id) != name {
					errs = append(errs, fmt.Errorf("scope %d binds symbol %d under a foreign name", scopeID, id))
				}
				covered++
			}
		}
		if covered != len(scope.Symbols) {
			errs = append(errs, fmt.Errorf("scope %d lists %d symbols, name index covers %d", scopeID, len(scope.Symbols), covered))
		}
	}

	for _, id := range table.SymbolIDs() {
		if table.Flags(id) == 0 {
			errs = append(errs, fmt.Errorf("symbol %d has no flags", id))
		}
		scopeID := table.ScopeID(id)
		scope := tree.Get(scopeID)
		if scope == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", id, scopeID))
			continue
		}
		if !slices.Contains(scope.Symbols, id) {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", id, scopeID))
		}
		if table.Flags(id).Any(FunctionScopedVariable) && !scope.Kind.IsHoistTarget() {
			errs = append(errs, fmt.Errorf("function-scoped symbol %d lives in %s scope %d", id, scope.Kind, scopeID))
		}
	}
	return errs
}

func validateReferences(tree *ScopeTree, table *SymbolTable) []error {
	var errs []error
	for _, ref := range table.ReferenceIDs() {
		rec := table.Reference(ref)
		if !rec.Symbol.IsValid() {
			if sym, ok := tree.ResolveBinding(rec.Scope, rec.Name); ok {
				errs = append(errs, fmt.Errorf("global reference %d has visible binding %d", ref, sym))
			}
			continue
		}
		if int(rec.Symbol) > table.Len() {
			errs = append(errs, fmt.Errorf("reference %d resolves to unknown symbol %d", ref, rec.Symbol))
			continue
		}
		// a resolved reference names the binding a lookup on the finished tree finds
		if sym, _ := tree.ResolveBinding(rec.Scope, rec.Name); sym != rec.Symbol {
			errs = append(errs, fmt.Errorf("reference %d resolves to %d but its scope chain binds %d", ref, rec.Symbol, sym))
		}
		n := 0
		for _, id := range table.ResolvedReferences(rec.Symbol) {
			if id == ref {
				n++
			}
		}
		if n != 1 {
			errs = append(errs, fmt.Errorf("reference %d appears %d times in symbol %d list", ref, n, rec.Symbol))
		}
	}
	for _, sym := range table.SymbolIDs() {
		list := table.ResolvedReferences(sym)
		if !slices.IsSorted(list) {
			errs = append(errs, fmt.Errorf("symbol %d references are not in source order", sym))
		}
		for _, ref := range list {
			if table.Reference(ref).Symbol != sym {
				errs = append(errs, fmt.Errorf("symbol %d lists reference %d resolved elsewhere", sym, ref))
			}
		}
	}
	return errs
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}
