package semantic

import (
	"binder/internal/ast"
	"binder/internal/symbols"
	"binder/internal/token"
)

func (b *Builder) walkExprs(ids []ast.ExprID) {
	for _, id := range ids {
		b.walkExpr(id)
	}
}

func (b *Builder) walkExpr(id ast.ExprID) {
	ex := b.nodes.Exprs.Get(id)
	if ex == nil {
		return
	}
	exprs := b.nodes.Exprs
	switch ex.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		b.reference(data.Name, ex.Span, symbols.Read)
	case ast.ExprTemplate:
		data, _ := exprs.Template(id)
		b.walkExpr(data.Tag)
		b.walkExprs(data.Exprs)
	case ast.ExprArray, ast.ExprSequence:
		data, _ := exprs.List(id)
		b.walkExprs(data.Elems)
	case ast.ExprObject:
		data, _ := exprs.Object(id)
		for i := range data.Props {
			b.walkObjectProp(&data.Props[i])
		}
	case ast.ExprFunction, ast.ExprArrow:
		fn, _ := exprs.Func(id)
		b.walkFunction(fn)
	case ast.ExprClass:
		cls, _ := exprs.Class(id)
		b.walkExprs(b.nodes.Class(cls).Decorators)
		b.walkClass(cls)
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		b.walkExpr(data.Operand)
	case ast.ExprUpdate:
		data, _ := exprs.Update(id)
		b.walkUpdateTarget(data.Target)
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		b.walkExpr(data.Left)
		b.walkExpr(data.Right)
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		flags := symbols.Write
		if data.Op != token.Assign {
			// compound and logical assignment read the old value
			flags = symbols.ReadWrite
		}
		b.walkTarget(data.Target, flags)
		b.walkExpr(data.Value)
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		b.walkExpr(data.Cond)
		b.walkExpr(data.Then)
		b.walkExpr(data.Else)
	case ast.ExprCall, ast.ExprNew, ast.ExprImportCall:
		data, _ := exprs.Call(id)
		b.walkExpr(data.Callee)
		b.walkExprs(data.Args)
	case ast.ExprMember:
		data, _ := exprs.Member(id)
		b.walkExpr(data.Object)
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		b.walkExpr(data.Object)
		b.walkExpr(data.Index)
	case ast.ExprSpread, ast.ExprYield, ast.ExprAwait, ast.ExprParen:
		data, _ := exprs.Wrap(id)
		b.walkExpr(data.Value)
	case ast.ExprJSXElement, ast.ExprJSXFragment:
		data, _ := exprs.JSXElement(id)
		b.walkExpr(data.Name)
		for _, attr := range data.Attrs {
			b.walkExpr(attr.Value)
		}
		b.walkExprs(data.Children)
	case ast.ExprPrivateName, ast.ExprThis, ast.ExprSuper, ast.ExprLit, ast.ExprMetaProperty:
		// no identifier uses
	}
}

func (b *Builder) walkUpdateTarget(id ast.ExprID) {
	inner := b.nodes.Exprs.Unparen(id)
	if data, ok := b.nodes.Exprs.Ident(inner); ok && b.nodes.Exprs.Get(inner).Kind == ast.ExprIdent {
		b.reference(data.Name, b.nodes.Exprs.Get(inner).Span, symbols.ReadWrite)
		return
	}
	b.walkExpr(id)
}

func (b *Builder) walkPropKey(key ast.PropKey) {
	if key.Kind == ast.KeyComputed {
		b.walkExpr(key.Expr)
	}
}

func (b *Builder) walkObjectProp(prop *ast.ObjectProp) {
	switch prop.Kind {
	case ast.PropInit:
		b.walkPropKey(prop.Key)
		b.walkExpr(prop.Value)
	case ast.PropShorthand, ast.PropSpread:
		b.walkExpr(prop.Value)
	case ast.PropMethod, ast.PropGetter, ast.PropSetter:
		b.walkPropKey(prop.Key)
		b.walkFunction(prop.Func)
	}
}

// walkTarget records the identifiers an assignment target writes. Member
// targets only read their object.
func (b *Builder) walkTarget(id ast.PatternID, flags symbols.ReferenceFlags) {
	pt := b.nodes.Patterns.Get(id)
	if pt == nil {
		return
	}
	pats := b.nodes.Patterns
	switch pt.Kind {
	case ast.PatIdent:
		data, _ := pats.Ident(id)
		b.reference(data.Name, pt.Span, flags)
	case ast.PatArray:
		data, _ := pats.Array(id)
		for _, el := range data.Elems {
			b.walkTarget(el, flags)
		}
		b.walkTarget(data.Rest, flags)
	case ast.PatObject:
		data, _ := pats.Object(id)
		for _, prop := range data.Props {
			b.walkPropKey(prop.Key)
			b.walkTarget(prop.Value, flags)
		}
		b.walkTarget(data.Rest, flags)
	case ast.PatAssign:
		data, _ := pats.Assign(id)
		b.walkTarget(data.Target, flags)
		b.walkExpr(data.Default)
	case ast.PatExpr:
		data, _ := pats.Expr(id)
		b.walkExpr(data.Expr)
	}
}

// declarePattern declares every name a binding pattern introduces and walks
// the computed keys and defaults between them.
func (b *Builder) declarePattern(id ast.PatternID, flags symbols.SymbolFlags) {
	pt := b.nodes.Patterns.Get(id)
	if pt == nil {
		return
	}
	pats := b.nodes.Patterns
	switch pt.Kind {
	case ast.PatIdent:
		data, _ := pats.Ident(id)
		b.declare(data.Name, pt.Span, flags)
	case ast.PatArray:
		data, _ := pats.Array(id)
		for _, el := range data.Elems {
			b.declarePattern(el, flags)
		}
		b.declarePattern(data.Rest, flags)
	case ast.PatObject:
		data, _ := pats.Object(id)
		for _, prop := range data.Props {
			b.walkPropKey(prop.Key)
			b.declarePattern(prop.Value, flags)
		}
		b.declarePattern(data.Rest, flags)
	case ast.PatAssign:
		data, _ := pats.Assign(id)
		b.declarePattern(data.Target, flags)
		b.walkExpr(data.Default)
	case ast.PatExpr:
		// not a binding position
		data, _ := pats.Expr(id)
		b.walkExpr(data.Expr)
	}
}

// walkFunction gives a function its own scope holding the parameters and
// the body statements. A function expression's own name is bound inside it.
func (b *Builder) walkFunction(id ast.FuncID) {
	fn := b.nodes.Func(id)
	if fn == nil {
		return
	}
	kind := symbols.ScopeFunction
	if fn.Flags.Has(ast.FuncArrow) {
		kind = symbols.ScopeArrow
	}
	scope := b.res.Enter(kind, fn.Span)
	if !fn.Flags.Has(ast.FuncDeclared) && !fn.Flags.Has(ast.FuncMethod) && fn.Name.IsValid() {
		b.declare(fn.Name, fn.NameSpan, symbols.Function)
	}
	for _, p := range fn.Params {
		b.declarePattern(p, symbols.FunctionScopedVariable)
	}
	b.declarePattern(fn.Rest, symbols.FunctionScopedVariable)
	b.walkStmts(fn.Body)
	b.walkExpr(fn.ExprBody)
	b.res.Leave(scope)
}

func (b *Builder) walkClass(id ast.ClassID) {
	cls := b.nodes.Class(id)
	if cls == nil {
		return
	}
	b.walkExpr(cls.Super)
	scope := b.res.Enter(symbols.ScopeClass, cls.Span)
	if !cls.Declared && cls.Name.IsValid() {
		b.declare(cls.Name, cls.NameSpan, symbols.Class)
	}
	for i := range cls.Members {
		m := &cls.Members[i]
		b.walkExprs(m.Decorators)
		b.walkPropKey(m.Key)
		switch m.Kind {
		case ast.MemberMethod, ast.MemberGetter, ast.MemberSetter, ast.MemberConstructor:
			b.walkFunction(m.Func)
		case ast.MemberProperty:
			b.walkExpr(m.Value)
		case ast.MemberStaticBlock:
			block := b.res.Enter(symbols.ScopeStaticBlock, m.Span)
			b.walkStmts(m.Body)
			b.res.Leave(block)
		}
	}
	b.res.Leave(scope)
}
