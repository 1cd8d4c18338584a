package parser_test

import (
	"bytes"
	"fmt"
	"testing"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/parser"
	"binder/internal/source"
)

func benchParse(b *testing.B, program []byte, st parser.SourceType) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("bench.ts", program)
	file := fs.Get(fileID)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		builder := ast.NewBuilder(ast.Hints{}, nil)
		bag := diag.NewBag(0)
		lx := lexer.New(file, lexer.Options{})
		parser.ParseFile(fs, lx, builder, parser.Options{
			Source:   st,
			Reporter: &diag.BagReporter{Bag: bag},
		})
	}
}

func BenchmarkParseShort(b *testing.B) {
	src := []byte(`import { a } from "./a"; function main() { return a(1) }`)
	benchParse(b, src, parser.SourceType{Module: true})
}

func BenchmarkParseLarge(b *testing.B) {
	var buf bytes.Buffer
	buf.WriteString("import { helper } from \"./helper\";\n")
	for i := range 2000 {
		fmt.Fprintf(&buf, "export function f%d(x: number): number { let y = x * %d; return helper(y) }\n", i, i)
	}
	benchParse(b, buf.Bytes(), parser.SourceType{Module: true, TypeScript: true})
}
