package semantic

import (
	"binder/internal/ast"
	"binder/internal/symbols"
)

func (b *Builder) walkImport(st *ast.Stmt, data *ast.ImportData) {
	src := b.name(data.Source)
	if len(data.Specifiers) == 0 {
		b.imports = append(b.imports, Import{
			Kind:       ImportSideEffect,
			Source:     src,
			SourceSpan: data.SourceSpan,
			Span:       st.Span,
			TypeOnly:   data.TypeOnly,
		})
		return
	}
	for _, spec := range data.Specifiers {
		rec := Import{
			Source:     src,
			SourceSpan: data.SourceSpan,
			Local:      b.name(spec.Local),
			Span:       spec.LocalSpan,
			TypeOnly:   data.TypeOnly || spec.TypeOnly,
		}
		switch spec.Kind {
		case ast.ImportDefault:
			rec.Kind, rec.Imported = ImportDefault, "default"
		case ast.ImportNamespace:
			rec.Kind = ImportNamespace
		case ast.ImportNamed:
			rec.Kind, rec.Imported = ImportNamed, b.name(spec.Imported)
		}
		// type-only imports never enter the value space
		if !rec.TypeOnly {
			rec.Symbol = b.declare(spec.Local, spec.LocalSpan, symbols.Import)
		}
		b.imports = append(b.imports, rec)
	}
}

func (b *Builder) walkExport(st *ast.Stmt, data *ast.ExportData) {
	src := b.name(data.Source)
	switch data.Kind {
	case ast.ExportDecl:
		first := b.table.Len()
		b.walkDecl(data.Decl, symbols.Export)
		b.recordDeclExports(data.Decl, first, data.TypeOnly)
	case ast.ExportDefault:
		rec := Export{Name: "default", Span: st.Span, TypeOnly: data.TypeOnly}
		if data.Decl.IsValid() {
			first := b.table.Len()
			b.walkDecl(data.Decl, symbols.Export)
			if sym := b.firstExported(first); sym.IsValid() {
				rec.Local, rec.Symbol = b.table.Name(sym), sym
			}
		} else {
			b.walkExpr(data.Expr)
		}
		b.exports = append(b.exports, rec)
	case ast.ExportNamed:
		for _, spec := range data.Specifiers {
			rec := Export{
				Name:     b.name(spec.Exported),
				Local:    b.name(spec.Local),
				Source:   src,
				Span:     spec.ExportedSpan,
				TypeOnly: data.TypeOnly || spec.TypeOnly,
			}
			if src == "" && !rec.TypeOnly {
				rec.Reference = b.reference(spec.Local, spec.LocalSpan, symbols.Read)
			}
			if rec.Name == "" {
				rec.Name = rec.Local
			}
			b.exports = append(b.exports, rec)
		}
	case ast.ExportAll:
		rec := Export{Source: src, Span: st.Span, Star: true, TypeOnly: data.TypeOnly}
		if data.Alias.IsValid() {
			rec.Name, rec.Star = b.name(data.Alias), false
			rec.Namespace = true
		}
		b.exports = append(b.exports, rec)
	}
}

// recordDeclExports lists the symbols an exported declaration created. The
// statement's own bindings are the symbols minted after first that carry
// the Export flag.
func (b *Builder) recordDeclExports(decl ast.StmtID, first int, typeOnly bool) {
	st := b.nodes.Stmts.Get(decl)
	if st == nil {
		return
	}
	if data, ok := b.nodes.Stmts.TSDecl(decl); ok && !isValueTSDecl(data.Kind) {
		// export type / interface / declare: a name without a value binding
		if data.Name.IsValid() {
			name := b.name(data.Name)
			b.exports = append(b.exports, Export{Name: name, Local: name, Span: data.NameSpan, TypeOnly: true})
		}
		return
	}
	for i := first + 1; i <= b.table.Len(); i++ {
		sym := symbols.SymbolID(i) //nolint:gosec // bounded by the table
		if !b.table.Flags(sym).Any(symbols.Export) {
			continue
		}
		name := b.table.Name(sym)
		b.exports = append(b.exports, Export{
			Name:     name,
			Local:    name,
			Span:     b.table.Span(sym),
			Symbol:   sym,
			TypeOnly: typeOnly,
		})
	}
}

func (b *Builder) firstExported(first int) symbols.SymbolID {
	for i := first + 1; i <= b.table.Len(); i++ {
		sym := symbols.SymbolID(i) //nolint:gosec // bounded by the table
		if b.table.Flags(sym).Any(symbols.Export) {
			return sym
		}
	}
	return symbols.NoSymbolID
}
