package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"binder/internal/diag"
	"binder/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	note, fix       *color.Color
	gutter, caret   *color.Color
	path, code      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		fix:    color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.Bold),
		code:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.path, p.code} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for a terminal: a header line, the source line
// with a caret underline, then notes and fixes when requested.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(&d)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown (limit %d)\n", dropped, bag.Cap())
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) location(sp source.Span) string {
	if !validSpan(p.fs, sp) {
		return "<unknown>"
	}
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(p.fs, sp.File, p.opts.PathMode), start.Line, start.Col)
}

func (p *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.pal.path.Sprint(p.location(d.Primary)),
		p.pal.severity(d.Severity).Sprint(d.Severity.String()),
		p.pal.code.Sprint(d.Code.ID()),
		p.clip(d.Message))

	if validSpan(p.fs, d.Primary) {
		p.snippet(d.Primary)
	}
	if p.opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), p.clip(n.Msg))
		}
	}
	if p.opts.ShowFixes {
		for i, f := range d.Fixes {
			p.fix(i+1, f)
		}
	}
}

func (p *prettyPrinter) snippet(sp source.Span) {
	file := p.fs.Get(sp.File)
	start, end := p.fs.Resolve(sp)

	first := start.Line
	if ctx := uint32(max(p.opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	width := len(strconv.FormatUint(uint64(start.Line), 10))
	for n := first; n <= start.Line; n++ {
		fmt.Fprintf(p.w, "%s %s\n", p.pal.gutter.Sprintf("%*d |", width+2, n), p.clip(file.Line(n)))
	}

	line := file.Line(start.Line)
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	pad := caretPadding(line[:col])
	marks := max(runewidth.StringWidth(line[col:max(stop, col)]), 1)
	fmt.Fprintf(p.w, "%s %s%s\n", p.pal.gutter.Sprintf("%*s |", width+2, ""), pad, p.pal.caret.Sprint(strings.Repeat("^", marks)))
}

// caretPadding keeps tabs so the caret lines up with the terminal's rendering
// and counts wide runes by their display width.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func (p *prettyPrinter) fix(n int, f diag.Fix) {
	fmt.Fprintf(p.w, "  %s %s\n", p.pal.fix.Sprintf("fix #%d:", n), f.Title)
	for _, e := range f.Edits {
		old := ""
		if validSpan(p.fs, e.Span) {
			old = p.fs.Text(e.Span)
		}
		fmt.Fprintf(p.w, "    edit %s replace=%q apply=%q\n", p.location(e.Span), old, e.NewText)
		if !p.opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(p.fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(p.w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(p.w, "      - %s\n", l)
		}
		for _, l := range preview.after {
			fmt.Fprintf(p.w, "      + %s\n", l)
		}
	}
}

func (p *prettyPrinter) clip(s string) string {
	if p.opts.Width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(p.opts.Width), "…")
}

// Short writes one line per diagnostic in the stable golden layout.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if bag == nil {
		return
	}
	if out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}
