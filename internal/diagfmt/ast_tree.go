package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

// Tree prints the target tree of s as an outline with box-drawing
// connectors:
//
//	Root
//	└─ Module "App"
//	   └─ Definition
func Tree(w io.Writer, s *Snapshot, opts TreeOpts) error {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}
	r := treeRenderer{w: w, snap: s, colors: newTreeColors(opts.Color)}
	if opts.Spans {
		lines := source.NewLineIndex(s.Src)
		r.lines = &lines
	}
	r.render(0, "", "")
	return r.err
}

type treeColors struct {
	decl, spec, ident, span *color.Color
}

func newTreeColors(enabled bool) treeColors {
	c := treeColors{
		decl:  color.New(color.FgGreen, color.Bold),
		spec:  color.New(color.FgYellow),
		ident: color.New(color.FgCyan),
		span:  color.New(color.Faint),
	}
	for _, cc := range []*color.Color{c.decl, c.spec, c.ident, c.span} {
		if enabled {
			cc.EnableColor()
		} else {
			cc.DisableColor()
		}
	}
	return c
}

var specKinds = map[string]bool{
	ast.KindStructSpec.String(): true,
	ast.KindEnumSpec.String():   true,
	ast.KindListSpec.String():   true,
	ast.KindRefSpec.String():    true,
}

func (c treeColors) kind(k string) *color.Color {
	switch {
	case specKinds[k]:
		return c.spec
	case k == ast.KindIdent.String() || k == ast.KindDeclarator.String():
		return c.ident
	default:
		return c.decl
	}
}

type treeRenderer struct {
	w      io.Writer
	snap   *Snapshot
	lines  *source.LineIndex
	colors treeColors
	err    error
}

func (r *treeRenderer) render(idx int32, first, rest string) {
	if r.err != nil {
		return
	}
	n := &r.snap.Nodes[idx]
	var b strings.Builder
	b.WriteString(first)
	b.WriteString(r.colors.kind(n.Kind).Sprint(n.label()))
	if r.lines != nil {
		b.WriteString(" ")
		b.WriteString(r.colors.span.Sprint("@" + formatSpan(source.Span{Start: n.Start, End: n.End}, r.lines)))
	}
	if _, err := fmt.Fprintln(r.w, b.String()); err != nil {
		r.err = err
		return
	}
	links := n.links()
	for i, c := range links {
		if i == len(links)-1 {
			r.render(c, rest+"└─ ", rest+"   ")
		} else {
			r.render(c, rest+"├─ ", rest+"│  ")
		}
	}
}
