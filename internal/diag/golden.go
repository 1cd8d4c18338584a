package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"binder/internal/source"
)

type renderedLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set) in a stable order for golden files. Entries located
// under node_modules are skipped.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics is the same layout used by `check --format short`.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, false)
}

func formatLines(diags []Diagnostic, fs *source.FileSet, includeNotes, skipVendored bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]renderedLine, 0, len(diags))
	for i := range diags {
		lines = appendRendered(lines, &diags[i], fs, includeNotes, skipVendored)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
	}
	return sb.String()
}

func appendRendered(out []renderedLine, d *Diagnostic, fs *source.FileSet, includeNotes, skipVendored bool) []renderedLine {
	if loc, ok := locate(fs, d.Primary); ok && (!skipVendored || !isVendored(loc.Path)) {
		out = append(out, renderedLine{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  oneLine(d.Message),
		})
	}
	if !includeNotes {
		return out
	}
	for _, n := range d.Notes {
		loc, ok := locate(fs, n.Span)
		if !ok || (skipVendored && isVendored(loc.Path)) {
			continue
		}
		out = append(out, renderedLine{
			Severity: "note",
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  oneLine(n.Msg),
		})
	}
	return out
}

type location struct {
	Path   string
	Line   uint32
	Column uint32
}

func locate(fs *source.FileSet, span source.Span) (location, bool) {
	if int(span.File) >= fs.Len() {
		return location{}, false
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return location{
		Path:   trimDotSlash(f.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func trimDotSlash(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func isVendored(path string) bool {
	p := strings.TrimLeft(trimDotSlash(path), "/")
	return strings.HasPrefix(p, "node_modules/") || strings.Contains(p, "/node_modules/")
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
