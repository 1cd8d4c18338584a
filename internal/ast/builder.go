package ast

import (
	"binder/internal/source"
)

type Hints struct{ Files, Stmts, Exprs, Patterns uint }

// Builder owns every arena of a parsed program. Node ids are only meaningful
// together with the Builder that produced them.
type Builder struct {
	Files    *Files
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Patterns
	Funcs    *Arena[FuncData]
	Classes  *Arena[ClassData]
	Strings  *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 6
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Patterns: NewPatterns(hints.Patterns),
		Funcs:    NewArena[FuncData](hints.Stmts / 4),
		Classes:  NewArena[ClassData](1 << 4),
		Strings:  strings,
	}
}

func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	f := b.Files.Get(file)
	f.Stmts = append(f.Stmts, stmt)
}

func (b *Builder) NewFunc(data FuncData) FuncID {
	return FuncID(b.Funcs.Allocate(data))
}

func (b *Builder) Func(id FuncID) *FuncData {
	return b.Funcs.Get(uint32(id))
}

func (b *Builder) NewClass(data ClassData) ClassID {
	return ClassID(b.Classes.Allocate(data))
}

func (b *Builder) Class(id ClassID) *ClassData {
	return b.Classes.Get(uint32(id))
}

// Name looks up an interned identifier; empty for NoStringID.
func (b *Builder) Name(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	s, _ := b.Strings.Lookup(id)
	return s
}
