package parser

import (
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
)

var moduleJSX = SourceType{Module: true, JSX: true}

func TestJSXElementTree(t *testing.T) {
	input := `const el = <App.Header title="a\b" {...props} disabled><span>hi {name}</span><>x</></App.Header>;`
	b, stmts := mustParse(t, input, moduleJSX)
	root, ok := b.Exprs.JSXElement(declInit(t, b, stmts[0]))
	if !ok {
		t.Fatalf("expected JSX element")
	}
	if b.Name(root.Tag) != "App.Header" {
		t.Fatalf("expected tag App.Header, got %q", b.Name(root.Tag))
	}
	if _, isMember := b.Exprs.Member(root.Name); !isMember {
		t.Fatalf("member tag must reference its object")
	}
	if len(root.Attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(root.Attrs))
	}
	if _, isLit := b.Exprs.Literal(root.Attrs[0].Value); !isLit || b.Name(root.Attrs[0].Name) != "title" {
		t.Fatalf("expected string attribute title")
	}
	if !root.Attrs[1].Spread {
		t.Fatalf("expected spread attribute")
	}
	if root.Attrs[2].Value.IsValid() {
		t.Fatalf("boolean attribute must have no value")
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}

	span, _ := b.Exprs.JSXElement(root.Children[0])
	if span == nil || span.Name.IsValid() {
		t.Fatalf("intrinsic element must not reference a binding")
	}
	if len(span.Children) != 2 {
		t.Fatalf("expected text and expression children, got %d", len(span.Children))
	}
	text, ok := b.Exprs.Literal(span.Children[0])
	if !ok || text.Kind != ast.LitJSXText || b.Name(text.Raw) != "hi " {
		t.Fatalf("unexpected text child %+v", text)
	}
	if b.Exprs.Get(span.Children[1]).Kind != ast.ExprIdent {
		t.Fatalf("expected identifier child")
	}
	if b.Exprs.Get(root.Children[1]).Kind != ast.ExprJSXFragment {
		t.Fatalf("expected fragment child")
	}
}

func TestJSXComponentNames(t *testing.T) {
	tests := []struct {
		input string
		ref   bool
	}{
		{"<div/>;", false},
		{"<my-element/>;", false},
		{"<svg:rect/>;", false},
		{"<Foo/>;", true},
		{"<_private/>;", true},
		{"<a.b/>;", true},
	}
	for _, tt := range tests {
		b, stmts := mustParse(t, tt.input, moduleJSX)
		es, _ := b.Stmts.ExprStmt(stmts[0])
		el, ok := b.Exprs.JSXElement(es.Expr)
		if !ok {
			t.Fatalf("%s: expected JSX element", tt.input)
		}
		if el.Name.IsValid() != tt.ref {
			t.Fatalf("%s: reference=%v, want %v", tt.input, el.Name.IsValid(), tt.ref)
		}
	}
}

func TestJSXMismatchedClosingTag(t *testing.T) {
	_, _, bag := parseSourceWithType(t, "const x = <a></b>;", moduleJSX)
	if !hasCode(bag, diag.SynUnclosedJSXElement) {
		t.Fatalf("expected unclosed element diagnostic, got %s", diagnosticsSummary(bag))
	}
}

func TestJSXUnclosedAtEOF(t *testing.T) {
	_, _, bag := parseSourceWithType(t, "const x = <a><b>text", moduleJSX)
	if !hasCode(bag, diag.SynUnclosedJSXElement) {
		t.Fatalf("expected unclosed element diagnostic, got %s", diagnosticsSummary(bag))
	}
}
