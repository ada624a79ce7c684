package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vanadium/internal/diag"
	"vanadium/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
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
	default:
		return p.info
	}
}

// Pretty writes the diagnostics of bag in a human-readable form, in bag
// order (call bag.Sort first). Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline under the span.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		var f *source.File
		if fs != nil {
			f = fs.Get(d.File)
		}
		path := formatPath(f, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(f, path, d.Primary.Start),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if f != nil && f.Lines.Size() > 0 {
			writeSnippet(w, p, f, d.Primary, int(opts.Context))
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(f, path, n.Span.Start), n.Msg)
			}
		}
	}
}

func location(f *source.File, path string, off uint32) string {
	if f == nil {
		return path
	}
	lc := f.Lines.Position(off)
	return fmt.Sprintf("%s:%d:%d", path, lc.Line, lc.Col)
}

func writeSnippet(w io.Writer, p palette, f *source.File, sp source.Span, context int) {
	text := f.Text()
	start := f.Lines.Position(sp.Start)
	first := max(int(start.Line)-max(context, 0), 1)
	width := len(strconv.Itoa(int(start.Line)))

	for n := first; n <= int(start.Line); n++ {
		line := f.Lines.LineSpan(uint32(n)).Text(text) // #nosec G115 -- n <= start.Line
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), line)
	}

	lineSpan := f.Lines.LineSpan(start.Line)
	end := min(max(sp.End, sp.Start), lineSpan.End)
	underline := runewidth.StringWidth(source.Span{Start: sp.Start, End: end}.Text(text))
	col := f.Lines.DisplayCol(text, sp.Start)
	marker := "^" + strings.Repeat("~", max(underline-1, 0))
	fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", width, ""),
		strings.Repeat(" ", col-1),
		p.caret.Sprint(marker))
}
