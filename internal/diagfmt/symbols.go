package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"fortio.org/safecast"

	"binder/internal/semantic"
	"binder/internal/source"
)

// SymbolsOutput is the semantic dump printed by `binder symbols`.
type SymbolsOutput struct {
	File           string              `json:"file"`
	Source         string              `json:"source"`
	Scopes         []ScopeJSON         `json:"scopes"`
	Symbols        []SymbolJSON        `json:"symbols"`
	References     []ReferenceJSON     `json:"references"`
	Globals        []string            `json:"globals"`
	Imports        []ImportJSON        `json:"imports,omitempty"`
	Exports        []ExportJSON        `json:"exports,omitempty"`
	Redeclarations []RedeclarationJSON `json:"redeclarations,omitempty"`
}

type ScopeJSON struct {
	ID       uint32   `json:"id"`
	Kind     string   `json:"kind"`
	Parent   uint32   `json:"parent,omitempty"`
	Span     string   `json:"span"`
	Children []uint32 `json:"children,omitempty"`
	Symbols  []uint32 `json:"symbols,omitempty"`
	Hoisted  []string `json:"hoisted,omitempty"`
}

type SymbolJSON struct {
	ID         uint32   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Flags      []string `json:"flags"`
	Scope      uint32   `json:"scope"`
	At         string   `json:"at"`
	References []uint32 `json:"references,omitempty"`
}

type ReferenceJSON struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Flags  string `json:"flags"`
	Scope  uint32 `json:"scope"`
	At     string `json:"at"`
	Symbol uint32 `json:"symbol,omitempty"` // 0: глобальная ссылка
}

type ImportJSON struct {
	Kind     string `json:"kind"`
	Source   string `json:"source"`
	Imported string `json:"imported,omitempty"`
	Local    string `json:"local,omitempty"`
	Symbol   uint32 `json:"symbol,omitempty"`
	TypeOnly bool   `json:"type_only,omitempty"`
}

type ExportJSON struct {
	Name      string `json:"name,omitempty"`
	Local     string `json:"local,omitempty"`
	Source    string `json:"source,omitempty"`
	Symbol    uint32 `json:"symbol,omitempty"`
	Star      bool   `json:"star,omitempty"`
	Namespace bool   `json:"namespace,omitempty"`
	TypeOnly  bool   `json:"type_only,omitempty"`
}

type RedeclarationJSON struct {
	Name     string `json:"name"`
	Symbol   uint32 `json:"symbol"`
	Previous uint32 `json:"previous"`
	At       string `json:"at"`
	PrevAt   string `json:"prev_at"`
}

// BuildSymbolsOutput flattens a semantic result. Positions are rendered as
// line:col of the span start.
func BuildSymbolsOutput(res *semantic.Result, fs *source.FileSet, mode PathMode) (*SymbolsOutput, error) {
	if res == nil || res.Symbols == nil || res.Scopes == nil {
		return nil, fmt.Errorf("empty semantic result")
	}
	at := func(sp source.Span) string {
		if !validSpan(fs, sp) {
			return sp.String()
		}
		start, _ := fs.Resolve(sp)
		return fmt.Sprintf("%d:%d", start.Line, start.Col)
	}
	out := &SymbolsOutput{
		Source:  res.Source.String(),
		Globals: res.GlobalNames(),
	}
	if res.File != nil {
		out.File = formatPath(fs, res.File.ID, mode)
	}
	if out.Globals == nil {
		out.Globals = []string{}
	}

	table := res.Symbols
	for i, sc := range res.Scopes.Data() {
		id, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return nil, fmt.Errorf("scope id overflow: %w", err)
		}
		sj := ScopeJSON{
			ID:     id,
			Kind:   sc.Kind.String(),
			Parent: uint32(sc.Parent),
			Span:   at(sc.Span),
		}
		for _, ch := range sc.Children {
			sj.Children = append(sj.Children, uint32(ch))
		}
		for _, sym := range sc.Symbols {
			sj.Symbols = append(sj.Symbols, uint32(sym))
		}
		for name := range sc.Hoisted {
			if s, ok := table.Strings.Lookup(name); ok {
				sj.Hoisted = append(sj.Hoisted, s)
			}
		}
		slices.Sort(sj.Hoisted)
		out.Scopes = append(out.Scopes, sj)
	}

	for _, id := range table.SymbolIDs() {
		flags := table.Flags(id)
		sj := SymbolJSON{
			ID:    uint32(id),
			Name:  table.Name(id),
			Kind:  flags.Kind(),
			Flags: flags.Strings(),
			Scope: uint32(table.ScopeID(id)),
			At:    at(table.Span(id)),
		}
		for _, ref := range table.ResolvedReferences(id) {
			sj.References = append(sj.References, uint32(ref))
		}
		out.Symbols = append(out.Symbols, sj)
	}

	for _, id := range table.ReferenceIDs() {
		ref := table.Reference(id)
		out.References = append(out.References, ReferenceJSON{
			ID:     uint32(id),
			Name:   table.ReferenceName(id),
			Flags:  ref.Flags.String(),
			Scope:  uint32(ref.Scope),
			At:     at(ref.Span),
			Symbol: uint32(ref.Symbol),
		})
	}

	for _, im := range res.Imports() {
		out.Imports = append(out.Imports, ImportJSON{
			Kind:     im.Kind.String(),
			Source:   im.Source,
			Imported: im.Imported,
			Local:    im.Local,
			Symbol:   uint32(im.Symbol),
			TypeOnly: im.TypeOnly,
		})
	}
	for _, ex := range res.Exports() {
		out.Exports = append(out.Exports, ExportJSON{
			Name:      ex.Name,
			Local:     ex.Local,
			Source:    ex.Source,
			Symbol:    uint32(ex.Symbol),
			Star:      ex.Star,
			Namespace: ex.Namespace,
			TypeOnly:  ex.TypeOnly,
		})
	}
	for _, rd := range res.Redeclarations {
		out.Redeclarations = append(out.Redeclarations, RedeclarationJSON{
			Name:     rd.Name,
			Symbol:   uint32(rd.Symbol),
			Previous: uint32(rd.Previous),
			At:       at(rd.Span),
			PrevAt:   at(rd.PrevSpan),
		})
	}
	return out, nil
}

// FormatSymbolsJSON writes the dump as indented JSON.
func FormatSymbolsJSON(w io.Writer, res *semantic.Result, fs *source.FileSet, mode PathMode) error {
	out, err := BuildSymbolsOutput(res, fs, mode)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSymbolsPretty prints the scope tree with the symbols bound in each
// scope, followed by globals and module records.
func FormatSymbolsPretty(w io.Writer, res *semantic.Result, fs *source.FileSet, mode PathMode) error {
	out, err := BuildSymbolsOutput(res, fs, mode)
	if err != nil {
		return err
	}
	p := symbolsPrinter{w: w, out: out}
	fmt.Fprintf(w, "%s (%s)\n", out.File, out.Source)
	if len(out.Scopes) > 0 {
		p.scope(uint32(res.Root), 0)
	}

	fmt.Fprintf(w, "globals: %s\n", joinOrDash(out.Globals))
	for _, im := range out.Imports {
		fmt.Fprintf(w, "import %s %q", im.Kind, im.Source)
		if im.Local != "" {
			fmt.Fprintf(w, " %s as %s", starOr(im.Imported), im.Local)
		}
		if im.TypeOnly {
			fmt.Fprint(w, " (type)")
		}
		fmt.Fprintln(w)
	}
	for _, ex := range out.Exports {
		switch {
		case ex.Namespace:
			fmt.Fprintf(w, "export * as %s from %q\n", ex.Name, ex.Source)
		case ex.Star:
			fmt.Fprintf(w, "export * from %q\n", ex.Source)
		default:
			fmt.Fprintf(w, "export %s", ex.Name)
			if ex.Local != "" && ex.Local != ex.Name {
				fmt.Fprintf(w, " = %s", ex.Local)
			}
			if ex.Source != "" {
				fmt.Fprintf(w, " from %q", ex.Source)
			}
			fmt.Fprintln(w)
		}
	}
	for _, rd := range out.Redeclarations {
		fmt.Fprintf(w, "redeclared %s at %s (first at %s)\n", rd.Name, rd.At, rd.PrevAt)
	}
	return nil
}

type symbolsPrinter struct {
	w   io.Writer
	out *SymbolsOutput
}

func (p *symbolsPrinter) scope(id uint32, depth int) {
	if id == 0 || int(id) > len(p.out.Scopes) {
		return
	}
	sc := p.out.Scopes[id-1]
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(p.w, "%s#%d %s @%s\n", indent, sc.ID, sc.Kind, sc.Span)
	for _, symID := range sc.Symbols {
		sym := p.out.Symbols[symID-1]
		fmt.Fprintf(p.w, "%s  %s %s @%s [%s] refs=%d\n",
			indent, sym.Kind, sym.Name, sym.At, strings.Join(sym.Flags, "|"), len(sym.References))
	}
	if len(sc.Hoisted) > 0 {
		fmt.Fprintf(p.w, "%s  hoisted: %s\n", indent, strings.Join(sc.Hoisted, ", "))
	}
	for _, ch := range sc.Children {
		p.scope(ch, depth+1)
	}
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}

func starOr(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
