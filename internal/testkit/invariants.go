package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"binder/internal/ast"
	"binder/internal/semantic"
	"binder/internal/source"
	"binder/internal/symbols"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is within file content bounds
// 2) every top-level statement span is fully contained in file.Span
// 3) statement spans appear in source order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End < f.Span.Start || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prevEnd uint32
	for _, id := range f.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		sp := st.Span
		if sp.File != sf.ID {
			return fmt.Errorf("statement span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("statement %s span %v is outside file span %v", st.Kind, sp, f.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("statement %s span %v overlaps the previous one ending at %d", st.Kind, sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}

// CheckSemanticInvariants checks a finished build: the table/tree
// consistency of symbols.Validate, plus the module records and
// redeclarations pointing at live symbols in source order.
func CheckSemanticInvariants(res *semantic.Result) error {
	if res == nil || res.Symbols == nil || res.Scopes == nil {
		return fmt.Errorf("empty semantic result")
	}
	var errs []error
	if err := symbols.Validate(res.Scopes, res.Symbols); err != nil {
		errs = append(errs, err)
	}
	table := res.Symbols
	valid := func(id symbols.SymbolID) bool {
		return id.IsValid() && int(id) <= table.Len()
	}

	var last uint32
	for i, rd := range res.Redeclarations {
		if !valid(rd.Symbol) || !valid(rd.Previous) {
			errs = append(errs, fmt.Errorf("redeclaration %d of %q points at a missing symbol", i, rd.Name))
			continue
		}
		if table.Name(rd.Previous) != rd.Name {
			errs = append(errs, fmt.Errorf("redeclaration %d names %q, previous symbol is %q", i, rd.Name, table.Name(rd.Previous)))
		}
		if rd.PrevSpan.Start > rd.Span.Start {
			errs = append(errs, fmt.Errorf("redeclaration %d of %q precedes the declaration it conflicts with", i, rd.Name))
		}
		if rd.Span.Start < last {
			errs = append(errs, fmt.Errorf("redeclaration %d of %q is out of source order", i, rd.Name))
		}
		last = rd.Span.Start
	}

	for _, im := range res.Imports() {
		if !im.Symbol.IsValid() {
			if !im.TypeOnly && im.Kind != semantic.ImportSideEffect {
				errs = append(errs, fmt.Errorf("import %q from %q has no symbol", im.Local, im.Source))
			}
			continue
		}
		if !valid(im.Symbol) || !table.Flags(im.Symbol).Has(symbols.Import) {
			errs = append(errs, fmt.Errorf("import %q from %q is not bound to an import symbol", im.Local, im.Source))
		}
	}
	for _, ex := range res.Exports() {
		if ex.Symbol.IsValid() && (!valid(ex.Symbol) || !table.Flags(ex.Symbol).Has(symbols.Export)) {
			errs = append(errs, fmt.Errorf("export %q is bound to a symbol without the export flag", ex.Name))
		}
	}
	return errors.Join(errs...)
}

// SameResult reports the first difference between two builds of the same
// tree. Builds are deterministic, so any difference is a bug.
func SameResult(a, b *semantic.Result) error {
	ta, tb := a.Symbols, b.Symbols
	if ta.Len() != tb.Len() || ta.ReferenceCount() != tb.ReferenceCount() || a.Scopes.Len() != b.Scopes.Len() {
		return fmt.Errorf("table sizes differ: %d/%d/%d vs %d/%d/%d",
			ta.Len(), ta.ReferenceCount(), a.Scopes.Len(), tb.Len(), tb.ReferenceCount(), b.Scopes.Len())
	}
	for _, id := range ta.SymbolIDs() {
		if ta.Name(id) != tb.Name(id) || ta.Flags(id) != tb.Flags(id) ||
			ta.ScopeID(id) != tb.ScopeID(id) || ta.Span(id) != tb.Span(id) {
			return fmt.Errorf("symbol %d differs: %s %s vs %s %s", id, ta.Flags(id).Kind(), ta.Name(id), tb.Flags(id).Kind(), tb.Name(id))
		}
	}
	for _, id := range ta.ReferenceIDs() {
		ra, rb := ta.Reference(id), tb.Reference(id)
		if ra.Symbol != rb.Symbol || ra.Scope != rb.Scope || ra.Flags != rb.Flags || ra.Span != rb.Span {
			return fmt.Errorf("reference %d to %q differs", id, ta.ReferenceName(id))
		}
	}
	for i, sa := range a.Scopes.Data() {
		sb := b.Scopes.Data()[i]
		if sa.Kind != sb.Kind || sa.Parent != sb.Parent || sa.Span != sb.Span {
			return fmt.Errorf("scope %d differs: %s vs %s", i+1, sa.Kind, sb.Kind)
		}
	}
	if len(a.Redeclarations) != len(b.Redeclarations) {
		return fmt.Errorf("redeclarations differ: %d vs %d", len(a.Redeclarations), len(b.Redeclarations))
	}
	return nil
}
