package ast

import (
	"binder/internal/source"
)

type ImportSpecKind uint8

const (
	ImportDefault   ImportSpecKind = iota // import x from "m"
	ImportNamespace                       // import * as ns from "m"
	ImportNamed                           // import { a as b } from "m"
)

type ImportSpec struct {
	Kind      ImportSpecKind
	Imported  source.StringID // name in the source module; NoStringID for default/namespace
	Local     source.StringID
	LocalSpan source.Span
	TypeOnly  bool
}

type ImportData struct {
	Specifiers []ImportSpec
	Source     source.StringID // unquoted module specifier
	SourceSpan source.Span
	TypeOnly   bool
}

type ExportKind uint8

const (
	ExportNamed   ExportKind = iota // export { a, b as c } [from "m"]
	ExportDecl                      // export const x = 1
	ExportDefault                   // export default <expr | function | class>
	ExportAll                       // export * [as ns] from "m"
)

type ExportSpec struct {
	Local        source.StringID
	LocalSpan    source.Span
	Exported     source.StringID
	ExportedSpan source.Span
	TypeOnly     bool
}

type ExportData struct {
	Kind       ExportKind
	Specifiers []ExportSpec
	Source     source.StringID // NoStringID unless re-exporting
	SourceSpan source.Span
	Decl       StmtID // ExportDecl; ExportDefault of a function or class declaration
	Expr       ExprID // ExportDefault of an expression
	Alias      source.StringID
	AliasSpan  source.Span
	TypeOnly   bool
}
