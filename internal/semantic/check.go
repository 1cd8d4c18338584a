package semantic

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"binder/internal/diag"
	"binder/internal/fix"
	"binder/internal/source"
	"binder/internal/symbols"
)

// CheckOptions select the post-build checks.
type CheckOptions struct {
	Reporter diag.Reporter
	// ReportUnresolved emits SEM3003 for every global reference whose name
	// is not listed in Globals.
	ReportUnresolved bool
	Globals          []string
}

// Check runs the checks that need the finished table: writes to constants
// and imports, duplicate export names, unresolved references and names that
// only differ from a visible binding by Unicode normalization. It returns
// the diagnostics it produced and forwards them to opts.Reporter.
func Check(r *Result, opts CheckOptions) []diag.Diagnostic {
	c := checker{res: r, opts: opts}
	c.checkReferences()
	c.checkExports()
	return c.diags
}

type checker struct {
	res   *Result
	opts  CheckOptions
	diags []diag.Diagnostic
}

func (c *checker) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	c.diags = append(c.diags, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
	if c.opts.Reporter != nil {
		c.opts.Reporter.Report(code, sev, primary, msg, notes, fixes)
	}
}

func (c *checker) checkReferences() {
	table := c.res.Symbols
	for _, id := range table.ReferenceIDs() {
		ref := table.Reference(id)
		if ref.Symbol.IsValid() {
			if ref.Flags.IsWrite() {
				c.checkWrite(id, ref)
			}
			continue
		}
		name := table.ReferenceName(id)
		if sym, ok := c.normalizationMatch(ref.Scope, name); ok {
			rb := diag.ReportWarning(c, diag.SemaNormalizationCollide, ref.Span,
				fmt.Sprintf("'%s' is not declared, but '%s' differs from it only by Unicode normalization", name, table.Name(sym)))
			rb.WithNote(table.Span(sym), "similar binding declared here")
			rb.WithFixSuggestion(fix.ReplaceSpan("use the declared spelling", ref.Span, table.Name(sym), name))
			rb.Emit()
			continue
		}
		if c.opts.ReportUnresolved && !slices.Contains(c.opts.Globals, name) {
			diag.ReportInfo(c, diag.SemaUnresolvedReference, ref.Span,
				fmt.Sprintf("'%s' is not declared in this file", name)).Emit()
		}
	}
}

func (c *checker) checkWrite(id symbols.ReferenceID, ref symbols.Reference) {
	table := c.res.Symbols
	flags := table.Flags(ref.Symbol)
	name := table.ReferenceName(id)
	var rb *diag.ReportBuilder
	switch {
	case flags.Any(symbols.ConstVariable):
		rb = diag.ReportError(c, diag.SemaConstAssignment, ref.Span,
			fmt.Sprintf("cannot assign to '%s' because it is a constant", name))
	case flags.Any(symbols.Import):
		rb = diag.ReportError(c, diag.SemaImportAssignment, ref.Span,
			fmt.Sprintf("cannot assign to '%s' because it is an import", name))
	default:
		return
	}
	rb.WithNote(table.Span(ref.Symbol), fmt.Sprintf("'%s' is declared here", name))
	rb.Emit()
}

// normalizationMatch looks for a visible binding whose NFC form equals the
// NFC form of name. Only non-ASCII names can differ that way.
func (c *checker) normalizationMatch(scope symbols.ScopeID, name string) (symbols.SymbolID, bool) {
	if isASCII(name) {
		return symbols.NoSymbolID, false
	}
	want := norm.NFC.String(name)
	strings := c.res.Symbols.Strings
	for _, id := range c.res.Scopes.Ancestors(scope) {
		sc := c.res.Scopes.Get(id)
		for _, sym := range sc.Symbols {
			cand, _ := strings.Lookup(c.res.Symbols.NameID(sym))
			if cand != name && !isASCII(cand) && norm.NFC.String(cand) == want {
				return sym, true
			}
		}
	}
	return symbols.NoSymbolID, false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (c *checker) checkExports() {
	first := make(map[string]Export)
	for _, ex := range c.res.Exports() {
		if ex.Star || ex.Name == "" || ex.TypeOnly {
			continue
		}
		prev, dup := first[ex.Name]
		if !dup {
			first[ex.Name] = ex
			continue
		}
		rb := diag.ReportError(c, diag.SemaDuplicateExport, ex.Span,
			fmt.Sprintf("duplicate export of '%s'", ex.Name))
		rb.WithNote(prev.Span, "first exported here")
		rb.Emit()
	}
}
