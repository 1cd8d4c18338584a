package ast

import (
	"binder/internal/source"
	"binder/internal/token"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprPrivateName
	ExprThis
	ExprSuper
	ExprLit
	ExprTemplate
	ExprArray
	ExprObject
	ExprFunction
	ExprArrow
	ExprClass
	ExprUnary
	ExprUpdate
	ExprBinary
	ExprAssign
	ExprConditional
	ExprCall
	ExprNew
	ExprMember
	ExprIndex
	ExprSequence
	ExprSpread
	ExprYield
	ExprAwait
	ExprParen
	ExprMetaProperty
	ExprImportCall
	ExprJSXElement
	ExprJSXFragment
)

var exprKindNames = [...]string{
	ExprIdent:        "Ident",
	ExprPrivateName:  "PrivateName",
	ExprThis:         "This",
	ExprSuper:        "Super",
	ExprLit:          "Lit",
	ExprTemplate:     "Template",
	ExprArray:        "Array",
	ExprObject:       "Object",
	ExprFunction:     "Function",
	ExprArrow:        "Arrow",
	ExprClass:        "Class",
	ExprUnary:        "Unary",
	ExprUpdate:       "Update",
	ExprBinary:       "Binary",
	ExprAssign:       "Assign",
	ExprConditional:  "Conditional",
	ExprCall:         "Call",
	ExprNew:          "New",
	ExprMember:       "Member",
	ExprIndex:        "Index",
	ExprSequence:     "Sequence",
	ExprSpread:       "Spread",
	ExprYield:        "Yield",
	ExprAwait:        "Await",
	ExprParen:        "Paren",
	ExprMetaProperty: "MetaProperty",
	ExprImportCall:   "ImportCall",
	ExprJSXElement:   "JSXElement",
	ExprJSXFragment:  "JSXFragment",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr?"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprIdentData struct {
	Name source.StringID
}

type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitNumber
	LitBigInt
	LitString
	LitRegExp
	LitJSXText
)

type ExprLiteralData struct {
	Kind LitKind
	Raw  source.StringID
}

type ExprTemplateData struct {
	Tag    ExprID // NoExprID for untagged templates
	Quasis []source.StringID
	Exprs  []ExprID
}

// ExprListData serves arrays (NoExprID marks a hole) and sequences.
type ExprListData struct {
	Elems []ExprID
}

type PropKind uint8

const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGetter
	PropSetter
	PropSpread
)

type ObjectProp struct {
	Kind  PropKind
	Span  source.Span
	Key   PropKey
	Value ExprID // init and shorthand value, spread argument
	Func  FuncID // methods and accessors
}

type ExprObjectData struct {
	Props []ObjectProp
}

type ExprUnaryData struct {
	Op      token.Kind // Plus, Minus, Bang, Tilde, KwTypeof, KwVoid, KwDelete
	Operand ExprID
}

type ExprUpdateData struct {
	Op     token.Kind // PlusPlus or MinusMinus
	Prefix bool
	Target ExprID
}

// ExprBinaryData covers arithmetic, comparison, logical, `in` and instanceof.
type ExprBinaryData struct {
	Op    token.Kind
	Left  ExprID
	Right ExprID
}

type ExprAssignData struct {
	Op     token.Kind
	Target PatternID
	Value  ExprID
}

type ExprConditionalData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// ExprCallData serves calls, `new` and dynamic import (no callee).
type ExprCallData struct {
	Callee   ExprID
	Args     []ExprID
	Optional bool
}

type ExprMemberData struct {
	Object   ExprID
	Property source.StringID
	PropSpan source.Span
	Private  bool
	Optional bool
}

type ExprIndexData struct {
	Object   ExprID
	Index    ExprID
	Optional bool
}

// ExprWrapData serves single-operand forms: spread, yield, await and paren.
type ExprWrapData struct {
	Value    ExprID
	Delegate bool // yield*
}

type ExprMetaData struct {
	Meta     source.StringID
	Property source.StringID
}

type JSXAttr struct {
	Span   source.Span
	Name   source.StringID
	Value  ExprID // NoExprID for boolean attributes
	Spread bool
}

type ExprJSXData struct {
	Tag      source.StringID // full tag text, empty for fragments
	Name     ExprID          // component reference (Foo, ns.Foo); unset for intrinsic tags
	Attrs    []JSXAttr
	Children []ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Literals     *Arena[ExprLiteralData]
	Templates    *Arena[ExprTemplateData]
	Lists        *Arena[ExprListData]
	Objects      *Arena[ExprObjectData]
	Unaries      *Arena[ExprUnaryData]
	Updates      *Arena[ExprUpdateData]
	Binaries     *Arena[ExprBinaryData]
	Assigns      *Arena[ExprAssignData]
	Conditionals *Arena[ExprConditionalData]
	Calls        *Arena[ExprCallData]
	Members      *Arena[ExprMemberData]
	Indices      *Arena[ExprIndexData]
	Wraps        *Arena[ExprWrapData]
	Metas        *Arena[ExprMetaData]
	JSX          *Arena[ExprJSXData]
}

// NewExprs creates per-kind arenas preallocated with capHint slots
// (default 1<<8).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint),
		Literals:     NewArena[ExprLiteralData](capHint / 2),
		Templates:    NewArena[ExprTemplateData](small),
		Lists:        NewArena[ExprListData](small),
		Objects:      NewArena[ExprObjectData](small),
		Unaries:      NewArena[ExprUnaryData](small),
		Updates:      NewArena[ExprUpdateData](small),
		Binaries:     NewArena[ExprBinaryData](capHint / 4),
		Assigns:      NewArena[ExprAssignData](small),
		Conditionals: NewArena[ExprConditionalData](small),
		Calls:        NewArena[ExprCallData](capHint / 4),
		Members:      NewArena[ExprMemberData](capHint / 4),
		Indices:      NewArena[ExprIndexData](small),
		Wraps:        NewArena[ExprWrapData](small),
		Metas:        NewArena[ExprMetaData](0),
		JSX:          NewArena[ExprJSXData](0),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func exprPayload[T any](e *Exprs, a *Arena[T], id ExprID, kinds ...ExprKind) (*T, bool) {
	ex := e.Get(id)
	if ex == nil {
		return nil, false
	}
	for _, k := range kinds {
		if ex.Kind == k {
			return a.Get(uint32(ex.Payload)), true
		}
	}
	return nil, false
}

// NewIdent creates an identifier reference (or a private name for ExprPrivateName).
func (e *Exprs) NewIdent(kind ExprKind, span source.Span, name source.StringID) ExprID {
	return e.new(kind, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	return exprPayload(e, e.Idents, id, ExprIdent, ExprPrivateName)
}

// NewKeyword creates payload-free expressions: this, super.
func (e *Exprs) NewKeyword(kind ExprKind, span source.Span) ExprID {
	return e.new(kind, span, 0)
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, raw source.StringID) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Raw: raw}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	return exprPayload(e, e.Literals, id, ExprLit)
}

func (e *Exprs) NewTemplate(span source.Span, data ExprTemplateData) ExprID {
	return e.new(ExprTemplate, span, e.Templates.Allocate(data))
}

func (e *Exprs) Template(id ExprID) (*ExprTemplateData, bool) {
	return exprPayload(e, e.Templates, id, ExprTemplate)
}

// NewList creates ExprArray or ExprSequence.
func (e *Exprs) NewList(kind ExprKind, span source.Span, elems []ExprID) ExprID {
	return e.new(kind, span, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	return exprPayload(e, e.Lists, id, ExprArray, ExprSequence)
}

func (e *Exprs) NewObject(span source.Span, props []ObjectProp) ExprID {
	return e.new(ExprObject, span, e.Objects.Allocate(ExprObjectData{Props: props}))
}

func (e *Exprs) Object(id ExprID) (*ExprObjectData, bool) {
	return exprPayload(e, e.Objects, id, ExprObject)
}

// NewFunc creates ExprFunction or ExprArrow; Payload holds the FuncID.
func (e *Exprs) NewFunc(kind ExprKind, span source.Span, fn FuncID) ExprID {
	return e.new(kind, span, uint32(fn))
}

func (e *Exprs) Func(id ExprID) (FuncID, bool) {
	ex := e.Get(id)
	if ex == nil || (ex.Kind != ExprFunction && ex.Kind != ExprArrow) {
		return NoFuncID, false
	}
	return FuncID(ex.Payload), true
}

func (e *Exprs) NewClass(span source.Span, cls ClassID) ExprID {
	return e.new(ExprClass, span, uint32(cls))
}

func (e *Exprs) Class(id ExprID) (ClassID, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprClass {
		return NoClassID, false
	}
	return ClassID(ex.Payload), true
}

func (e *Exprs) NewUnary(span source.Span, op token.Kind, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	return exprPayload(e, e.Unaries, id, ExprUnary)
}

func (e *Exprs) NewUpdate(span source.Span, data ExprUpdateData) ExprID {
	return e.new(ExprUpdate, span, e.Updates.Allocate(data))
}

func (e *Exprs) Update(id ExprID) (*ExprUpdateData, bool) {
	return exprPayload(e, e.Updates, id, ExprUpdate)
}

func (e *Exprs) NewBinary(span source.Span, op token.Kind, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	return exprPayload(e, e.Binaries, id, ExprBinary)
}

func (e *Exprs) NewAssign(span source.Span, op token.Kind, target PatternID, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Op: op, Target: target, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	return exprPayload(e, e.Assigns, id, ExprAssign)
}

func (e *Exprs) NewConditional(span source.Span, data ExprConditionalData) ExprID {
	return e.new(ExprConditional, span, e.Conditionals.Allocate(data))
}

func (e *Exprs) Conditional(id ExprID) (*ExprConditionalData, bool) {
	return exprPayload(e, e.Conditionals, id, ExprConditional)
}

// NewCall creates ExprCall, ExprNew or ExprImportCall.
func (e *Exprs) NewCall(kind ExprKind, span source.Span, data ExprCallData) ExprID {
	return e.new(kind, span, e.Calls.Allocate(data))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	return exprPayload(e, e.Calls, id, ExprCall, ExprNew, ExprImportCall)
}

func (e *Exprs) NewMember(span source.Span, data ExprMemberData) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(data))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	return exprPayload(e, e.Members, id, ExprMember)
}

func (e *Exprs) NewIndex(span source.Span, data ExprIndexData) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(data))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	return exprPayload(e, e.Indices, id, ExprIndex)
}

// NewWrap creates spread, yield, await and paren expressions.
func (e *Exprs) NewWrap(kind ExprKind, span source.Span, data ExprWrapData) ExprID {
	return e.new(kind, span, e.Wraps.Allocate(data))
}

func (e *Exprs) Wrap(id ExprID) (*ExprWrapData, bool) {
	return exprPayload(e, e.Wraps, id, ExprSpread, ExprYield, ExprAwait, ExprParen)
}

func (e *Exprs) NewMeta(span source.Span, meta, prop source.StringID) ExprID {
	return e.new(ExprMetaProperty, span, e.Metas.Allocate(ExprMetaData{Meta: meta, Property: prop}))
}

func (e *Exprs) Meta(id ExprID) (*ExprMetaData, bool) {
	return exprPayload(e, e.Metas, id, ExprMetaProperty)
}

// NewJSX creates ExprJSXElement or ExprJSXFragment.
func (e *Exprs) NewJSX(kind ExprKind, span source.Span, data ExprJSXData) ExprID {
	return e.new(kind, span, e.JSX.Allocate(data))
}

func (e *Exprs) JSXElement(id ExprID) (*ExprJSXData, bool) {
	return exprPayload(e, e.JSX, id, ExprJSXElement, ExprJSXFragment)
}

// Unparen strips parentheses.
func (e *Exprs) Unparen(id ExprID) ExprID {
	for {
		ex := e.Get(id)
		if ex == nil || ex.Kind != ExprParen {
			return id
		}
		id = e.Wraps.Get(uint32(ex.Payload)).Value
	}
}
