package semantic

import (
	"fmt"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/parser"
	"binder/internal/source"
	"binder/internal/symbols"
	"binder/internal/token"
)

// Options configure a semantic build over one file.
type Options struct {
	// Reporter receives every diagnostic as it is produced. The result keeps
	// its own copy regardless.
	Reporter diag.Reporter
	Hints    symbols.Hints
	// Validate runs symbols.Validate on the finished table and reports
	// violations as SEM3001.
	Validate bool
}

// Builder owns the symbol table and scope tree while one syntax tree is
// traversed. It is single use: Build hands the storage to the Result.
type Builder struct {
	file     *source.File
	st       parser.SourceType
	comments []token.Trivia
	opts     Options

	nodes  *ast.Builder
	table  *symbols.SymbolTable
	scopes *symbols.ScopeTree
	res    *symbols.Resolver

	diags   []diag.Diagnostic
	redecls []Redeclaration
	imports []Import
	exports []Export

	built bool
}

// NewBuilder prepares a build for file. comments is the trivia list the
// parser collected; it is kept for LeadingComment lookups.
func NewBuilder(file *source.File, st parser.SourceType, comments []token.Trivia, opts Options) *Builder {
	return &Builder{
		file:     file,
		st:       st,
		comments: comments,
		opts:     opts,
	}
}

// Build traverses program once, depth-first and left to right, and returns
// the finished read-only result.
func (b *Builder) Build(tree *ast.Builder, program ast.FileID) *Result {
	if b.built {
		panic("semantic: Builder.Build called twice")
	}
	b.built = true

	b.nodes = tree
	b.table = symbols.NewSymbolTable(b.opts.Hints, tree.Strings)
	b.scopes = symbols.NewScopeTree(0)
	b.res = symbols.NewResolver(b.table, b.scopes)

	result := &Result{
		Symbols:  b.table,
		Scopes:   b.scopes,
		Comments: b.comments,
		Source:   b.st,
		File:     b.file,
	}

	file := tree.Files.Get(program)
	if file == nil {
		return result
	}
	result.Root = b.res.Enter(symbols.ScopeRoot, file.Span)
	for _, stmt := range file.Stmts {
		b.walkStmt(stmt)
	}
	b.res.Leave(result.Root)

	if b.opts.Validate {
		if err := symbols.Validate(b.scopes, b.table); err != nil {
			b.report(diag.ReportError(b.reporter(), diag.SemaError, file.Span,
				fmt.Sprintf("symbol table invariant violation: %v", err)))
		}
	}

	result.Diagnostics = b.diags
	result.Redeclarations = b.redecls
	result.imports = b.imports
	result.exports = b.exports
	return result
}

// reporter collects into the builder and forwards to the caller's reporter.
func (b *Builder) reporter() diag.Reporter { return (*collector)(b) }

func (b *Builder) report(rb *diag.ReportBuilder) { rb.Emit() }

type collector Builder

func (c *collector) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	c.diags = append(c.diags, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
	if c.opts.Reporter != nil {
		c.opts.Reporter.Report(code, sev, primary, msg, notes, fixes)
	}
}

func (b *Builder) name(id source.StringID) string { return b.nodes.Name(id) }

// declare checks name against the bindings it would clash with, then creates
// the symbol. A clash is reported but never stops the build.
func (b *Builder) declare(name source.StringID, span source.Span, flags symbols.SymbolFlags) symbols.SymbolID {
	if !name.IsValid() {
		return symbols.NoSymbolID
	}
	conflicts := b.res.Conflicts(name, flags)
	id := b.res.Declare(name, span, flags)
	if len(conflicts) == 0 || !id.IsValid() {
		return id
	}
	prev := conflicts[0]
	text := b.name(name)
	rd := Redeclaration{
		Name:     text,
		Symbol:   id,
		Previous: prev,
		Span:     span,
		PrevSpan: b.table.Span(prev),
	}
	b.redecls = append(b.redecls, rd)

	prevKind := b.table.Flags(prev).Kind()
	rb := diag.ReportError(b.reporter(), diag.SemaDuplicateDeclaration, span,
		fmt.Sprintf("identifier '%s' has already been declared", text))
	rb.WithNote(rd.PrevSpan, fmt.Sprintf("'%s' was declared here as %s", text, article(prevKind)))
	b.report(rb)
	return id
}

func article(kind string) string {
	switch kind[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + kind
	}
	return "a " + kind
}

func (b *Builder) reference(name source.StringID, span source.Span, flags symbols.ReferenceFlags) symbols.ReferenceID {
	if !name.IsValid() {
		return symbols.NoReferenceID
	}
	return b.res.Reference(name, span, flags)
}
