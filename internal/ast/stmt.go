package ast

import (
	"binder/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtExpr
	StmtVarDecl
	StmtFuncDecl
	StmtClassDecl
	StmtReturn
	StmtIf
	StmtFor
	StmtForIn
	StmtForOf
	StmtWhile
	StmtDoWhile
	StmtBreak
	StmtContinue
	StmtThrow
	StmtTry
	StmtSwitch
	StmtLabeled
	StmtEmpty
	StmtDebugger
	StmtWith
	StmtImport
	StmtExport
	// TypeScript-only declarations (type, interface, enum, namespace, declare)
	StmtTSDecl
)

var stmtKindNames = [...]string{
	StmtBlock:     "Block",
	StmtExpr:      "Expr",
	StmtVarDecl:   "VarDecl",
	StmtFuncDecl:  "FuncDecl",
	StmtClassDecl: "ClassDecl",
	StmtReturn:    "Return",
	StmtIf:        "If",
	StmtFor:       "For",
	StmtForIn:     "ForIn",
	StmtForOf:     "ForOf",
	StmtWhile:     "While",
	StmtDoWhile:   "DoWhile",
	StmtBreak:     "Break",
	StmtContinue:  "Continue",
	StmtThrow:     "Throw",
	StmtTry:       "Try",
	StmtSwitch:    "Switch",
	StmtLabeled:   "Labeled",
	StmtEmpty:     "Empty",
	StmtDebugger:  "Debugger",
	StmtWith:      "With",
	StmtImport:    "Import",
	StmtExport:    "Export",
	StmtTSDecl:    "TSDecl",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt?"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	}
	return "var"
}

type Declarator struct {
	Span   source.Span
	Target PatternID
	Init   ExprID
}

type VarDeclData struct {
	Kind  VarKind
	Decls []Declarator
}

type BlockData struct {
	Stmts []StmtID
}

// ExprStmtData serves Expr, Return and Throw statements.
type ExprStmtData struct {
	Expr ExprID
}

type IfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type ForData struct {
	Init   StmtID // VarDecl or Expr statement
	Test   ExprID
	Update ExprID
	Body   StmtID
}

// ForInOfData: either Decl (a VarDecl without initializers) or Target is set.
type ForInOfData struct {
	Decl   StmtID
	Target PatternID
	Right  ExprID
	Body   StmtID
	Await  bool
}

type LoopData struct {
	Cond ExprID
	Body StmtID
}

type JumpData struct {
	Label     source.StringID
	LabelSpan source.Span
}

type TryData struct {
	Block     StmtID
	HasCatch  bool
	Param     PatternID // optional catch binding
	Handler   StmtID
	Finalizer StmtID
}

type SwitchCase struct {
	Span source.Span
	Test ExprID // NoExprID for default
	Body []StmtID
}

type SwitchData struct {
	Disc  ExprID
	Cases []SwitchCase
}

type LabeledData struct {
	Label source.StringID
	Body  StmtID
}

type WithData struct {
	Object ExprID
	Body   StmtID
}

type TSDeclKind uint8

const (
	TSTypeAlias TSDeclKind = iota
	TSInterface
	TSEnum
	TSNamespace
	TSDeclare
)

type TSDeclData struct {
	Kind     TSDeclKind
	Name     source.StringID
	NameSpan source.Span
}

// Stmts manages allocation of statements.
type Stmts struct {
	Arena    *Arena[Stmt]
	Blocks   *Arena[BlockData]
	Exprs    *Arena[ExprStmtData]
	Vars     *Arena[VarDeclData]
	Ifs      *Arena[IfData]
	Fors     *Arena[ForData]
	ForInOfs *Arena[ForInOfData]
	Loops    *Arena[LoopData]
	Jumps    *Arena[JumpData]
	Tries    *Arena[TryData]
	Switches *Arena[SwitchData]
	Labeled  *Arena[LabeledData]
	Withs    *Arena[WithData]
	Imports  *Arena[ImportData]
	Exports  *Arena[ExportData]
	TSDecls  *Arena[TSDeclData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Blocks:   NewArena[BlockData](capHint / 2),
		Exprs:    NewArena[ExprStmtData](capHint / 2),
		Vars:     NewArena[VarDeclData](capHint / 2),
		Ifs:      NewArena[IfData](small),
		Fors:     NewArena[ForData](small),
		ForInOfs: NewArena[ForInOfData](small),
		Loops:    NewArena[LoopData](small),
		Jumps:    NewArena[JumpData](small),
		Tries:    NewArena[TryData](small),
		Switches: NewArena[SwitchData](small),
		Labeled:  NewArena[LabeledData](small),
		Withs:    NewArena[WithData](0),
		Imports:  NewArena[ImportData](small),
		Exports:  NewArena[ExportData](small),
		TSDecls:  NewArena[TSDeclData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// payloadOf returns the payload of a statement of one of the given kinds.
func payloadOf[T any](s *Stmts, a *Arena[T], id StmtID, kinds ...StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil {
		return nil, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return a.Get(uint32(st.Payload)), true
		}
	}
	return nil, false
}

func (s *Stmts) NewEmpty(span source.Span) StmtID    { return s.new(StmtEmpty, span, NoPayloadID) }
func (s *Stmts) NewDebugger(span source.Span) StmtID { return s.new(StmtDebugger, span, NoPayloadID) }

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	p := s.Blocks.Allocate(BlockData{Stmts: stmts})
	return s.new(StmtBlock, span, PayloadID(p))
}

func (s *Stmts) Block(id StmtID) (*BlockData, bool) { return payloadOf(s, s.Blocks, id, StmtBlock) }

// NewExprLike creates an Expr, Return or Throw statement.
func (s *Stmts) NewExprLike(kind StmtKind, span source.Span, expr ExprID) StmtID {
	p := s.Exprs.Allocate(ExprStmtData{Expr: expr})
	return s.new(kind, span, PayloadID(p))
}

func (s *Stmts) ExprStmt(id StmtID) (*ExprStmtData, bool) {
	return payloadOf(s, s.Exprs, id, StmtExpr, StmtReturn, StmtThrow)
}

func (s *Stmts) NewVarDecl(span source.Span, kind VarKind, decls []Declarator) StmtID {
	p := s.Vars.Allocate(VarDeclData{Kind: kind, Decls: decls})
	return s.new(StmtVarDecl, span, PayloadID(p))
}

func (s *Stmts) VarDecl(id StmtID) (*VarDeclData, bool) {
	return payloadOf(s, s.Vars, id, StmtVarDecl)
}

// NewFuncDecl stores the function id directly in Payload.
func (s *Stmts) NewFuncDecl(span source.Span, fn FuncID) StmtID {
	return s.new(StmtFuncDecl, span, PayloadID(fn))
}

func (s *Stmts) NewClassDecl(span source.Span, cls ClassID) StmtID {
	return s.new(StmtClassDecl, span, PayloadID(cls))
}

func (s *Stmts) NewIf(span source.Span, data IfData) StmtID {
	return s.new(StmtIf, span, PayloadID(s.Ifs.Allocate(data)))
}

func (s *Stmts) If(id StmtID) (*IfData, bool) { return payloadOf(s, s.Ifs, id, StmtIf) }

func (s *Stmts) NewFor(span source.Span, data ForData) StmtID {
	return s.new(StmtFor, span, PayloadID(s.Fors.Allocate(data)))
}

func (s *Stmts) For(id StmtID) (*ForData, bool) { return payloadOf(s, s.Fors, id, StmtFor) }

// NewForInOf creates StmtForIn or StmtForOf.
func (s *Stmts) NewForInOf(kind StmtKind, span source.Span, data ForInOfData) StmtID {
	return s.new(kind, span, PayloadID(s.ForInOfs.Allocate(data)))
}

func (s *Stmts) ForInOf(id StmtID) (*ForInOfData, bool) {
	return payloadOf(s, s.ForInOfs, id, StmtForIn, StmtForOf)
}

// NewLoop creates StmtWhile or StmtDoWhile.
func (s *Stmts) NewLoop(kind StmtKind, span source.Span, data LoopData) StmtID {
	return s.new(kind, span, PayloadID(s.Loops.Allocate(data)))
}

func (s *Stmts) Loop(id StmtID) (*LoopData, bool) {
	return payloadOf(s, s.Loops, id, StmtWhile, StmtDoWhile)
}

// NewJump creates StmtBreak or StmtContinue.
func (s *Stmts) NewJump(kind StmtKind, span source.Span, data JumpData) StmtID {
	return s.new(kind, span, PayloadID(s.Jumps.Allocate(data)))
}

func (s *Stmts) Jump(id StmtID) (*JumpData, bool) {
	return payloadOf(s, s.Jumps, id, StmtBreak, StmtContinue)
}

func (s *Stmts) NewTry(span source.Span, data TryData) StmtID {
	return s.new(StmtTry, span, PayloadID(s.Tries.Allocate(data)))
}

func (s *Stmts) Try(id StmtID) (*TryData, bool) { return payloadOf(s, s.Tries, id, StmtTry) }

func (s *Stmts) NewSwitch(span source.Span, data SwitchData) StmtID {
	return s.new(StmtSwitch, span, PayloadID(s.Switches.Allocate(data)))
}

func (s *Stmts) Switch(id StmtID) (*SwitchData, bool) {
	return payloadOf(s, s.Switches, id, StmtSwitch)
}

func (s *Stmts) NewLabeled(span source.Span, data LabeledData) StmtID {
	return s.new(StmtLabeled, span, PayloadID(s.Labeled.Allocate(data)))
}

func (s *Stmts) LabeledStmt(id StmtID) (*LabeledData, bool) {
	return payloadOf(s, s.Labeled, id, StmtLabeled)
}

func (s *Stmts) NewWith(span source.Span, data WithData) StmtID {
	return s.new(StmtWith, span, PayloadID(s.Withs.Allocate(data)))
}

func (s *Stmts) With(id StmtID) (*WithData, bool) { return payloadOf(s, s.Withs, id, StmtWith) }

func (s *Stmts) NewImport(span source.Span, data ImportData) StmtID {
	return s.new(StmtImport, span, PayloadID(s.Imports.Allocate(data)))
}

func (s *Stmts) Import(id StmtID) (*ImportData, bool) {
	return payloadOf(s, s.Imports, id, StmtImport)
}

func (s *Stmts) NewExport(span source.Span, data ExportData) StmtID {
	return s.new(StmtExport, span, PayloadID(s.Exports.Allocate(data)))
}

func (s *Stmts) Export(id StmtID) (*ExportData, bool) {
	return payloadOf(s, s.Exports, id, StmtExport)
}

func (s *Stmts) NewTSDecl(span source.Span, data TSDeclData) StmtID {
	return s.new(StmtTSDecl, span, PayloadID(s.TSDecls.Allocate(data)))
}

func (s *Stmts) TSDecl(id StmtID) (*TSDeclData, bool) {
	return payloadOf(s, s.TSDecls, id, StmtTSDecl)
}
