package ast

import (
	"fmt"
	"io"
	"strings"
)

// Label is the one-line description Dump prints for a node.
func Label(n *Node, src string) string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	if n.Tok != TokNone {
		b.WriteString(" ")
		b.WriteString(n.Tok.String())
	}
	switch {
	case n.Name.Valid:
		fmt.Fprintf(&b, " %q", n.Name.Text(src))
	case n.Kind == KindIdent:
		fmt.Fprintf(&b, " %q", n.Span.Text(src))
	}
	if n.Optional {
		b.WriteString(" optional")
	}
	return b.String()
}

// Dump writes an indented outline of the tree under id.
func Dump(w io.Writer, t *Tree, id NodeID, src string) error {
	var werr error
	err := t.Walk(id, func(_ NodeID, n *Node, depth int) bool {
		if werr != nil {
			return false
		}
		_, werr = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), Label(n, src))
		return true
	})
	if err != nil {
		return err
	}
	return werr
}
