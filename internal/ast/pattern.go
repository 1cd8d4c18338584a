package ast

import (
	"binder/internal/source"
)

type PatternKind uint8

const (
	PatIdent PatternKind = iota
	PatArray
	PatObject
	PatAssign // target = default
	PatExpr   // member expression target (assignment and for-in/of heads only)
)

type Pattern struct {
	Kind    PatternKind
	Span    source.Span
	Payload PayloadID
}

type PatIdentData struct {
	Name source.StringID
}

type PatArrayData struct {
	Elems []PatternID // NoPatternID marks a hole
	Rest  PatternID
}

type PatProp struct {
	Span      source.Span
	Key       PropKey
	Value     PatternID
	Shorthand bool
}

type PatObjectData struct {
	Props []PatProp
	Rest  PatternID
}

type PatAssignData struct {
	Target  PatternID
	Default ExprID
}

type PatExprData struct {
	Expr ExprID
}

type Patterns struct {
	Arena   *Arena[Pattern]
	Idents  *Arena[PatIdentData]
	Arrays  *Arena[PatArrayData]
	Objects *Arena[PatObjectData]
	Assigns *Arena[PatAssignData]
	Exprs   *Arena[PatExprData]
}

func NewPatterns(capHint uint) *Patterns {
	return &Patterns{
		Arena:   NewArena[Pattern](capHint),
		Idents:  NewArena[PatIdentData](capHint),
		Arrays:  NewArena[PatArrayData](0),
		Objects: NewArena[PatObjectData](0),
		Assigns: NewArena[PatAssignData](0),
		Exprs:   NewArena[PatExprData](0),
	}
}

func (p *Patterns) new(kind PatternKind, span source.Span, payload uint32) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

func (p *Patterns) NewIdent(span source.Span, name source.StringID) PatternID {
	return p.new(PatIdent, span, p.Idents.Allocate(PatIdentData{Name: name}))
}

func (p *Patterns) Ident(id PatternID) (*PatIdentData, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != PatIdent {
		return nil, false
	}
	return p.Idents.Get(uint32(pt.Payload)), true
}

func (p *Patterns) NewArray(span source.Span, data PatArrayData) PatternID {
	return p.new(PatArray, span, p.Arrays.Allocate(data))
}

func (p *Patterns) Array(id PatternID) (*PatArrayData, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != PatArray {
		return nil, false
	}
	return p.Arrays.Get(uint32(pt.Payload)), true
}

func (p *Patterns) NewObject(span source.Span, data PatObjectData) PatternID {
	return p.new(PatObject, span, p.Objects.Allocate(data))
}

func (p *Patterns) Object(id PatternID) (*PatObjectData, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != PatObject {
		return nil, false
	}
	return p.Objects.Get(uint32(pt.Payload)), true
}

func (p *Patterns) NewAssign(span source.Span, target PatternID, def ExprID) PatternID {
	return p.new(PatAssign, span, p.Assigns.Allocate(PatAssignData{Target: target, Default: def}))
}

func (p *Patterns) Assign(id PatternID) (*PatAssignData, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != PatAssign {
		return nil, false
	}
	return p.Assigns.Get(uint32(pt.Payload)), true
}

func (p *Patterns) NewExpr(span source.Span, expr ExprID) PatternID {
	return p.new(PatExpr, span, p.Exprs.Allocate(PatExprData{Expr: expr}))
}

func (p *Patterns) Expr(id PatternID) (*PatExprData, bool) {
	pt := p.Get(id)
	if pt == nil || pt.Kind != PatExpr {
		return nil, false
	}
	return p.Exprs.Get(uint32(pt.Payload)), true
}

// BoundNames appends the identifiers a binding pattern declares, left to right.
func (p *Patterns) BoundNames(id PatternID, out []PatternID) []PatternID {
	pt := p.Get(id)
	if pt == nil {
		return out
	}
	switch pt.Kind {
	case PatIdent:
		out = append(out, id)
	case PatArray:
		data := p.Arrays.Get(uint32(pt.Payload))
		for _, el := range data.Elems {
			out = p.BoundNames(el, out)
		}
		out = p.BoundNames(data.Rest, out)
	case PatObject:
		data := p.Objects.Get(uint32(pt.Payload))
		for _, prop := range data.Props {
			out = p.BoundNames(prop.Value, out)
		}
		out = p.BoundNames(data.Rest, out)
	case PatAssign:
		out = p.BoundNames(p.Assigns.Get(uint32(pt.Payload)).Target, out)
	}
	return out
}
