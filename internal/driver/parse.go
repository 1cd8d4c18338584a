package driver

import (
	"fmt"

	"fortio.org/safecast"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/lexer"
	"binder/internal/parser"
	"binder/internal/source"
	"binder/internal/token"
)

type ParseResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Source   parser.SourceType
	Builder  *ast.Builder
	FileID   ast.FileID
	Comments []token.Trivia
	Bag      *diag.Bag
}

// Parse loads and parses one file with the source type opts select for it.
func Parse(filePath string, opts Options) (*ParseResult, error) {
	opts.prepare()
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.maxDiagnostics())
	st, known := opts.sourceType(file.Path)
	if !known {
		reportUnknownExtension(bag, file)
	}
	builder, result := parseFile(fs, file, st, bag)

	return &ParseResult{
		FileSet:  fs,
		File:     file,
		Source:   st,
		Builder:  builder,
		FileID:   result.File,
		Comments: result.Comments,
		Bag:      bag,
	}, nil
}

// parseFile runs the lexer and parser over file, reporting into bag. The
// parser stops reporting once the bag is full.
func parseFile(fs *source.FileSet, file *source.File, st parser.SourceType, bag *diag.Bag) (*ast.Builder, parser.Result) {
	// recovery can report the same problem more than once
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	maxErrors, err := safecast.Conv[uint](bag.Cap())
	if err != nil {
		panic(fmt.Errorf("max diagnostics overflow: %w", err))
	}
	opts := parser.Options{
		Source:    st,
		Reporter:  reporter,
		MaxErrors: maxErrors,
	}
	return builder, parser.ParseFile(fs, lx, builder, opts)
}
