package syntax

import "vanadium/internal/source"

// ChunkKind tags a WITH SYNTAX chunk.
type ChunkKind uint8

const (
	ChunkLiteral ChunkKind = iota
	ChunkWhitespace
	ChunkField
	ChunkOptionalGroup
)

// Chunk is one element of a WITH SYNTAX template. Token holds the literal
// text or the field name ("&code").
type Chunk struct {
	Kind  ChunkKind
	Token string
	Range source.Span
	Group *WithSyntax // ChunkOptionalGroup
}

// WithSyntax is a chunk sequence. An optional group's sequence points back
// to the scope holding the group chunk.
type WithSyntax struct {
	Chunks []*Chunk
	Range  source.Span

	Parent      *WithSyntax
	ParentIndex int // index of the group chunk in Parent.Chunks
}

// Fields returns the field names of the template in order, descending into
// optional groups.
func (ws *WithSyntax) Fields() []string {
	var out []string
	for _, c := range ws.Chunks {
		switch c.Kind {
		case ChunkField:
			out = append(out, c.Token)
		case ChunkOptionalGroup:
			out = append(out, c.Group.Fields()...)
		}
	}
	return out
}
