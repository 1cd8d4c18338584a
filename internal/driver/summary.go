package driver

import (
	"binder/internal/diag"
	"binder/internal/semantic"
	"binder/internal/source"
)

// FileSummary is what the linker and the disk cache know about one file:
// its diagnostics with byte offsets, module records and table sizes.
// Spans carry no file id; restore rebinds them to the file being checked.
type FileSummary struct {
	Schema      uint16              `msgpack:"schema"`
	Source      string              `msgpack:"source"`
	ParseFailed bool                `msgpack:"parse_failed"`
	Diagnostics []SummaryDiagnostic `msgpack:"diagnostics"`
	Imports     []SummaryImport     `msgpack:"imports"`
	Exports     []SummaryExport     `msgpack:"exports"`
	Symbols     int                 `msgpack:"symbols"`
	References  int                 `msgpack:"references"`
	Scopes      int                 `msgpack:"scopes"`
}

type SummaryRange struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type SummaryNote struct {
	Range SummaryRange `msgpack:"range"`
	Msg   string       `msgpack:"msg"`
}

type SummaryEdit struct {
	Range   SummaryRange `msgpack:"range"`
	NewText string       `msgpack:"new_text"`
	OldText string       `msgpack:"old_text,omitempty"`
}

type SummaryFix struct {
	Title string        `msgpack:"title"`
	Edits []SummaryEdit `msgpack:"edits"`
}

type SummaryDiagnostic struct {
	Severity uint8         `msgpack:"sev"`
	Code     uint16        `msgpack:"code"`
	Message  string        `msgpack:"msg"`
	Primary  SummaryRange  `msgpack:"primary"`
	Notes    []SummaryNote `msgpack:"notes,omitempty"`
	Fixes    []SummaryFix  `msgpack:"fixes,omitempty"`
}

type SummaryImport struct {
	Kind       uint8        `msgpack:"kind"`
	Source     string       `msgpack:"source"`
	SourceSpan SummaryRange `msgpack:"source_span"`
	Imported   string       `msgpack:"imported,omitempty"`
	Local      string       `msgpack:"local,omitempty"`
	Span       SummaryRange `msgpack:"span"`
	TypeOnly   bool         `msgpack:"type_only,omitempty"`
}

type SummaryExport struct {
	Name      string       `msgpack:"name,omitempty"`
	Local     string       `msgpack:"local,omitempty"`
	Source    string       `msgpack:"source,omitempty"`
	Span      SummaryRange `msgpack:"span"`
	Star      bool         `msgpack:"star,omitempty"`
	Namespace bool         `msgpack:"namespace,omitempty"`
	TypeOnly  bool         `msgpack:"type_only,omitempty"`
}

func toRange(sp source.Span) SummaryRange { return SummaryRange{Start: sp.Start, End: sp.End} }

func (r SummaryRange) span(file source.FileID) source.Span {
	return source.Span{File: file, Start: r.Start, End: r.End}
}

// summarize snapshots a finished analysis. sem is nil when parsing failed.
func summarize(a *FileResult, sem *semantic.Result) *FileSummary {
	sum := &FileSummary{
		Schema:      cacheSchemaVersion,
		Source:      a.Source.String(),
		ParseFailed: sem == nil,
	}
	for _, d := range a.Bag.Items() {
		sd := SummaryDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  toRange(d.Primary),
		}
		for _, n := range d.Notes {
			sd.Notes = append(sd.Notes, SummaryNote{Range: toRange(n.Span), Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			sf := SummaryFix{Title: f.Title}
			for _, e := range f.Edits {
				sf.Edits = append(sf.Edits, SummaryEdit{Range: toRange(e.Span), NewText: e.NewText, OldText: e.OldText})
			}
			sd.Fixes = append(sd.Fixes, sf)
		}
		sum.Diagnostics = append(sum.Diagnostics, sd)
	}
	if sem == nil {
		return sum
	}

	sum.Symbols = sem.Symbols.Len()
	sum.References = sem.Symbols.ReferenceCount()
	sum.Scopes = sem.Scopes.Len()
	for _, im := range sem.Imports() {
		sum.Imports = append(sum.Imports, SummaryImport{
			Kind:       uint8(im.Kind),
			Source:     im.Source,
			SourceSpan: toRange(im.SourceSpan),
			Imported:   im.Imported,
			Local:      im.Local,
			Span:       toRange(im.Span),
			TypeOnly:   im.TypeOnly,
		})
	}
	for _, ex := range sem.Exports() {
		sum.Exports = append(sum.Exports, SummaryExport{
			Name:      ex.Name,
			Local:     ex.Local,
			Source:    ex.Source,
			Span:      toRange(ex.Span),
			Star:      ex.Star,
			Namespace: ex.Namespace,
			TypeOnly:  ex.TypeOnly,
		})
	}
	return sum
}

// restore replays the cached diagnostics into bag against file.
func (s *FileSummary) restore(bag *diag.Bag, file source.FileID) {
	for _, sd := range s.Diagnostics {
		d := diag.New(diag.Severity(sd.Severity), diag.Code(sd.Code), sd.Primary.span(file), sd.Message)
		for _, n := range sd.Notes {
			d = d.WithNote(n.Range.span(file), n.Msg)
		}
		for _, f := range sd.Fixes {
			edits := make([]diag.FixEdit, len(f.Edits))
			for i, e := range f.Edits {
				edits[i] = diag.FixEdit{Span: e.Range.span(file), NewText: e.NewText, OldText: e.OldText}
			}
			d = d.WithFix(f.Title, edits...)
		}
		bag.Add(d)
	}
}

// exportedNames is the set of names other modules may import from this
// file; open is set when an `export *` makes the set unknowable.
func (s *FileSummary) exportedNames() (names map[string]bool, open bool) {
	names = make(map[string]bool, len(s.Exports))
	for _, ex := range s.Exports {
		switch {
		case ex.Star:
			open = true
		case ex.Name != "":
			names[ex.Name] = true
		}
	}
	return names, open
}
