package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"vanadium/internal/diag"
	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

// SnapshotSchema is bumped whenever the Snapshot layout changes.
const SnapshotSchema uint16 = 1

// Snapshot is a self-contained copy of a lowered module that survives the
// arena it was built in. Nodes are in Walk order; links are indexes into
// Nodes, -1 for none.
type Snapshot struct {
	Schema uint16          `msgpack:"schema"`
	Module string          `msgpack:"module"`
	Src    string          `msgpack:"src"`
	Nodes  []SnapshotNode  `msgpack:"nodes"`
	Errors []SnapshotError `msgpack:"errors,omitempty"`
}

// SnapshotNode is one node of a Snapshot.
type SnapshotNode struct {
	Kind     string  `msgpack:"kind"`
	Start    uint32  `msgpack:"start"`
	End      uint32  `msgpack:"end"`
	Parent   int32   `msgpack:"parent"`
	Name     string  `msgpack:"name,omitempty"`
	Named    bool    `msgpack:"named,omitempty"`
	Tok      string  `msgpack:"tok,omitempty"`
	Optional bool    `msgpack:"optional,omitempty"`
	Type     int32   `msgpack:"type"`
	Children []int32 `msgpack:"children,omitempty"`
}

// SnapshotError is a lowering or ingestion error of a Snapshot.
type SnapshotError struct {
	Code    diag.Code `msgpack:"code"`
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	Message string `msgpack:"message"`
}

// BuildSnapshot copies a out of its arena.
func BuildSnapshot(a *ast.AST) (*Snapshot, error) {
	s := &Snapshot{Schema: SnapshotSchema, Src: a.Src}
	if mod := a.Module(); mod != nil {
		s.Module = mod.Name.Text(a.Src)
	}
	for _, e := range a.Errors {
		s.Errors = append(s.Errors, SnapshotError{
			Code:    e.Code,
			Start:   e.Span.Start,
			End:     e.Span.End,
			Message: e.Message,
		})
	}
	if a.Tree == nil {
		return s, nil
	}
	if _, err := s.add(a.Tree, a.Root, -1, a.Src); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) add(t *ast.Tree, id ast.NodeID, parent int32, src string) (int32, error) {
	n, err := t.Get(id)
	if err != nil {
		return -1, err
	}
	if n == nil {
		return -1, nil
	}
	idx := int32(len(s.Nodes)) // #nosec G115 -- node counts stay far below 2^31
	sn := SnapshotNode{
		Kind:     n.Kind.String(),
		Start:    n.Span.Start,
		End:      n.Span.End,
		Parent:   parent,
		Named:    n.Name.Valid,
		Name:     n.Name.Text(src),
		Tok:      n.Tok.String(),
		Optional: n.Optional,
		Type:     -1,
	}
	if n.Kind == ast.KindIdent && !n.Name.Valid {
		sn.Name = n.Span.Text(src)
	}
	s.Nodes = append(s.Nodes, sn)

	typ, err := s.add(t, n.Type, idx, src)
	if err != nil {
		return -1, err
	}
	s.Nodes[idx].Type = typ
	for _, c := range n.Children {
		ci, err := s.add(t, c, idx, src)
		if err != nil {
			return -1, err
		}
		if ci >= 0 {
			s.Nodes[idx].Children = append(s.Nodes[idx].Children, ci)
		}
	}
	return idx, nil
}

// Dump writes the same outline as ast.Dump.
func (s *Snapshot) Dump(w io.Writer) error {
	if len(s.Nodes) == 0 {
		return nil
	}
	return s.dump(w, 0, 0)
}

func (s *Snapshot) dump(w io.Writer, idx int32, depth int) error {
	n := &s.Nodes[idx]
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.label()); err != nil {
		return err
	}
	for _, c := range n.links() {
		if err := s.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// label matches ast.Label.
func (n *SnapshotNode) label() string {
	var b strings.Builder
	b.WriteString(n.Kind)
	if n.Tok != "" {
		b.WriteString(" " + n.Tok)
	}
	if n.Named || n.Kind == ast.KindIdent.String() {
		fmt.Fprintf(&b, " %q", n.Name)
	}
	if n.Optional {
		b.WriteString(" optional")
	}
	return b.String()
}

// links returns Type followed by Children.
func (n *SnapshotNode) links() []int32 {
	if n.Type < 0 {
		return n.Children
	}
	return append([]int32{n.Type}, n.Children...)
}

// Diagnostics converts Errors for the file they belong to.
func (s *Snapshot) Diagnostics(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(s.Errors))
	for _, e := range s.Errors {
		code := e.Code
		if code == diag.UnknownCode {
			code = diag.TrUnsupportedConstruct
		}
		out = append(out, diag.NewError(code, source.Span{Start: e.Start, End: e.End}, e.Message).InFile(file))
	}
	return out
}

// EncodeSnapshot writes s as msgpack.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// DecodeSnapshot reads a msgpack snapshot and checks its schema.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if s.Schema != SnapshotSchema {
		return nil, fmt.Errorf("snapshot schema %d, want %d", s.Schema, SnapshotSchema)
	}
	return &s, nil
}
