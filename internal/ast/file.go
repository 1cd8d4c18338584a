package ast

import (
	"binder/internal/source"
)

type File struct {
	Span  source.Span
	Stmts []StmtID
	// Directives are the leading string statements ("use strict", ...).
	Directives []source.StringID
	// Strict is set for modules, for "use strict" and for AlwaysStrict parses.
	Strict bool
	Module bool
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:  sp,
		Stmts: make([]StmtID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
