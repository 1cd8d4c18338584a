package semantic

import (
	"binder/internal/ast"
	"binder/internal/source"
	"binder/internal/symbols"
)

func (b *Builder) walkStmt(id ast.StmtID) {
	b.walkDecl(id, 0)
}

// walkDecl walks a statement; extra is or-ed into the flags of whatever it
// declares (Export for `export <decl>`).
func (b *Builder) walkDecl(id ast.StmtID, extra symbols.SymbolFlags) {
	st := b.nodes.Stmts.Get(id)
	if st == nil {
		return
	}
	stmts := b.nodes.Stmts
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		scope := b.res.Enter(symbols.ScopeBlock, st.Span)
		b.walkStmts(data.Stmts)
		b.res.Leave(scope)
	case ast.StmtExpr, ast.StmtReturn, ast.StmtThrow:
		data, _ := stmts.ExprStmt(id)
		b.walkExpr(data.Expr)
	case ast.StmtVarDecl:
		data, _ := stmts.VarDecl(id)
		b.walkVarDecl(data, extra)
	case ast.StmtFuncDecl:
		fn, _ := stmts.FuncDecl(id)
		data := b.nodes.Func(fn)
		b.declare(data.Name, data.NameSpan, symbols.Function|extra)
		b.walkFunction(fn)
	case ast.StmtClassDecl:
		cls, _ := stmts.ClassDecl(id)
		data := b.nodes.Class(cls)
		b.walkExprs(data.Decorators)
		b.declare(data.Name, data.NameSpan, symbols.Class|extra)
		b.walkClass(cls)
	case ast.StmtIf:
		data, _ := stmts.If(id)
		b.walkExpr(data.Cond)
		b.walkStmt(data.Then)
		b.walkStmt(data.Else)
	case ast.StmtFor:
		data, _ := stmts.For(id)
		scope := b.res.Enter(symbols.ScopeFor, st.Span)
		b.walkStmt(data.Init)
		b.walkExpr(data.Test)
		b.walkExpr(data.Update)
		b.walkStmt(data.Body)
		b.res.Leave(scope)
	case ast.StmtForIn, ast.StmtForOf:
		data, _ := stmts.ForInOf(id)
		scope := b.res.Enter(symbols.ScopeFor, st.Span)
		if data.Decl.IsValid() {
			b.walkStmt(data.Decl)
		} else {
			b.walkTarget(data.Target, symbols.Write)
		}
		b.walkExpr(data.Right)
		b.walkStmt(data.Body)
		b.res.Leave(scope)
	case ast.StmtWhile, ast.StmtDoWhile:
		data, _ := stmts.Loop(id)
		if st.Kind == ast.StmtDoWhile {
			b.walkStmt(data.Body)
			b.walkExpr(data.Cond)
		} else {
			b.walkExpr(data.Cond)
			b.walkStmt(data.Body)
		}
	case ast.StmtTry:
		data, _ := stmts.Try(id)
		b.walkTry(data)
	case ast.StmtSwitch:
		data, _ := stmts.Switch(id)
		b.walkExpr(data.Disc)
		scope := b.res.Enter(symbols.ScopeSwitch, st.Span)
		for _, c := range data.Cases {
			b.walkExpr(c.Test)
			b.walkStmts(c.Body)
		}
		b.res.Leave(scope)
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		b.walkDecl(data.Body, extra)
	case ast.StmtWith:
		data, _ := stmts.With(id)
		b.walkExpr(data.Object)
		b.walkStmt(data.Body)
	case ast.StmtImport:
		data, _ := stmts.Import(id)
		b.walkImport(st, data)
	case ast.StmtExport:
		data, _ := stmts.Export(id)
		b.walkExport(st, data)
	case ast.StmtTSDecl:
		if data, ok := stmts.TSDecl(id); ok {
			b.walkTSDecl(data, extra)
		}
	case ast.StmtBreak, ast.StmtContinue, ast.StmtEmpty, ast.StmtDebugger:
		// nothing to bind
	}
}

// walkTSDecl binds the TypeScript declarations that exist at run time. Type
// aliases, interfaces and ambient declarations stay unbound.
func (b *Builder) walkTSDecl(data *ast.TSDeclData, extra symbols.SymbolFlags) {
	switch data.Kind {
	case ast.TSEnum:
		b.declare(data.Name, data.NameSpan, symbols.Enum|extra)
	case ast.TSNamespace:
		b.declare(data.Name, data.NameSpan, symbols.Namespace|extra)
	}
}

// isValueTSDecl reports whether a TypeScript declaration of kind creates a
// binding.
func isValueTSDecl(kind ast.TSDeclKind) bool {
	return kind == ast.TSEnum || kind == ast.TSNamespace
}

func (b *Builder) walkStmts(ids []ast.StmtID) {
	for _, id := range ids {
		b.walkStmt(id)
	}
}

func varFlags(kind ast.VarKind) symbols.SymbolFlags {
	switch kind {
	case ast.VarLet:
		return symbols.BlockScopedVariable
	case ast.VarConst:
		return symbols.BlockScopedVariable | symbols.ConstVariable
	}
	return symbols.FunctionScopedVariable
}

func (b *Builder) walkVarDecl(data *ast.VarDeclData, extra symbols.SymbolFlags) {
	flags := varFlags(data.Kind) | extra
	for _, d := range data.Decls {
		b.declarePattern(d.Target, flags)
		b.walkExpr(d.Init)
	}
}

// walkTry gives the catch parameter and the handler body one shared scope.
func (b *Builder) walkTry(data *ast.TryData) {
	b.walkStmt(data.Block)
	if data.HasCatch {
		var span source.Span
		if h := b.nodes.Stmts.Get(data.Handler); h != nil {
			span = h.Span
		}
		if p := b.nodes.Patterns.Get(data.Param); p != nil {
			span = p.Span.Cover(span)
		}
		scope := b.res.Enter(symbols.ScopeCatch, span)
		b.declarePattern(data.Param, symbols.CatchVariable)
		if body, ok := b.nodes.Stmts.Block(data.Handler); ok {
			b.walkStmts(body.Stmts)
		}
		b.res.Leave(scope)
	}
	b.walkStmt(data.Finalizer)
}
