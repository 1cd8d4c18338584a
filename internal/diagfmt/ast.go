package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"binder/internal/ast"
)

// ASTSummary is what `binder parse` prints: the file's top-level shape and
// node counts per kind.
type ASTSummary struct {
	Module     bool           `json:"module"`
	Strict     bool           `json:"strict"`
	Directives []string       `json:"directives,omitempty"`
	TopLevel   []string       `json:"top_level"`
	Stmts      map[string]int `json:"stmts"`
	Exprs      map[string]int `json:"exprs"`
	Patterns   uint32         `json:"patterns"`
	Funcs      uint32         `json:"funcs"`
	Classes    uint32         `json:"classes"`
}

// BuildASTSummary counts every node in the builder's arenas, so it covers
// nested statements and expressions too.
func BuildASTSummary(b *ast.Builder, file ast.FileID) (*ASTSummary, error) {
	f := b.Files.Get(file)
	if f == nil {
		return nil, fmt.Errorf("file %d not found in AST", file)
	}
	out := &ASTSummary{
		Module:   f.Module,
		Strict:   f.Strict,
		TopLevel: make([]string, 0, len(f.Stmts)),
		Stmts:    make(map[string]int),
		Exprs:    make(map[string]int),
		Patterns: b.Patterns.Arena.Len(),
		Funcs:    b.Funcs.Len(),
		Classes:  b.Classes.Len(),
	}
	for _, d := range f.Directives {
		out.Directives = append(out.Directives, b.Strings.MustLookup(d))
	}
	for _, id := range f.Stmts {
		if st := b.Stmts.Get(id); st != nil {
			out.TopLevel = append(out.TopLevel, st.Kind.String())
		}
	}
	for _, st := range b.Stmts.Arena.Slice() {
		out.Stmts[st.Kind.String()]++
	}
	for _, ex := range b.Exprs.Arena.Slice() {
		out.Exprs[ex.Kind.String()]++
	}
	return out, nil
}

func FormatASTJSON(w io.Writer, b *ast.Builder, file ast.FileID) error {
	out, err := BuildASTSummary(b, file)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func FormatASTPretty(w io.Writer, b *ast.Builder, file ast.FileID) error {
	out, err := BuildASTSummary(b, file)
	if err != nil {
		return err
	}
	mode := "script"
	if out.Module {
		mode = "module"
	}
	if out.Strict {
		mode += ", strict"
	}
	fmt.Fprintf(w, "file: %s\n", mode)
	if len(out.Directives) > 0 {
		fmt.Fprintf(w, "directives: %s\n", strings.Join(out.Directives, ", "))
	}
	fmt.Fprintf(w, "top level (%d):\n", len(out.TopLevel))
	for i, k := range out.TopLevel {
		fmt.Fprintf(w, "%4d  %s\n", i+1, k)
	}
	writeCounts(w, "statements", out.Stmts)
	writeCounts(w, "expressions", out.Exprs)
	_, err = fmt.Fprintf(w, "patterns: %d, functions: %d, classes: %d\n", out.Patterns, out.Funcs, out.Classes)
	return err
}

func writeCounts(w io.Writer, title string, counts map[string]int) {
	total := 0
	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	slices.Sort(keys)
	fmt.Fprintf(w, "%s (%d):\n", title, total)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, counts[k])
	}
}
