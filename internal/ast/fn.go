package ast

import (
	"binder/internal/source"
)

type FuncFlags uint8

const (
	FuncAsync FuncFlags = 1 << iota
	FuncGenerator
	FuncArrow
	FuncMethod
	FuncGetter
	FuncSetter
	FuncConstructor
	// FuncDeclared marks function declarations (statement position).
	FuncDeclared
)

func (f FuncFlags) Has(x FuncFlags) bool { return f&x != 0 }

type FuncData struct {
	Span     source.Span
	Name     source.StringID // NoStringID for anonymous functions
	NameSpan source.Span
	Params   []PatternID
	Rest     PatternID
	Body     []StmtID
	// ExprBody is set for concise arrow bodies: x => x + 1
	ExprBody ExprID
	Flags    FuncFlags
	Strict   bool // body has a "use strict" directive
}

type KeyKind uint8

const (
	KeyIdent KeyKind = iota
	KeyString
	KeyNumber
	KeyComputed
	KeyPrivate
)

// PropKey names an object or class property.
type PropKey struct {
	Kind KeyKind
	Span source.Span
	Name source.StringID // KeyIdent, KeyString, KeyNumber, KeyPrivate
	Expr ExprID          // KeyComputed
}

type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberConstructor
	MemberProperty
	MemberStaticBlock
)

type ClassMember struct {
	Kind       MemberKind
	Span       source.Span
	Key        PropKey
	Static     bool
	Value      ExprID   // property initializer
	Func       FuncID   // methods, accessors, constructor
	Body       []StmtID // static blocks
	Decorators []ExprID
}

type ClassData struct {
	Span       source.Span
	Name       source.StringID
	NameSpan   source.Span
	Super      ExprID
	Members    []ClassMember
	Decorators []ExprID
	Declared   bool // class declaration rather than expression
}

// FuncDecl returns the function of a declaration statement.
func (s *Stmts) FuncDecl(id StmtID) (FuncID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFuncDecl {
		return NoFuncID, false
	}
	return FuncID(st.Payload), true
}

// ClassDecl returns the class of a declaration statement.
func (s *Stmts) ClassDecl(id StmtID) (ClassID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtClassDecl {
		return NoClassID, false
	}
	return ClassID(st.Payload), true
}
