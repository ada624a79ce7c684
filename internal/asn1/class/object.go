package class

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"vanadium/internal/asn1/syntax"
	"vanadium/internal/diag"
	"vanadium/internal/source"
)

// Row is one field assignment found in an object: the field name as
// written in the template ("&code") and the raw value text.
type Row struct {
	Name  string
	Value string
	Span  source.Span
}

// ObjectConsumer receives the rows of an object. AcceptRow returning false
// stops the parse without an error.
type ObjectConsumer struct {
	AcceptRow func(Row) bool
	EmitError func(sp source.Span, code diag.Code, msg string)
}

type status uint8

const (
	statusOK status = iota
	statusFail
	statusStop
)

type objectParser struct {
	text string
	end  int
	base uint32
	c    ObjectConsumer
}

// ParseObject matches text, the object value with its braces, against ws.
// base is the offset of text in the module source and positions rows and
// errors.
func ParseObject(text string, base uint32, ws *syntax.WithSyntax, c ObjectConsumer) {
	if ws == nil || len(text) < 2 {
		return
	}
	op := &objectParser{text: text, end: len(text) - 1, base: base, c: c}
	op.parse(ws, 1, false)
}

func (op *objectParser) span(from, to int) source.Span {
	start, err := safecast.Conv[uint32](from)
	if err != nil {
		panic(fmt.Errorf("object offset overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](to)
	if err != nil {
		panic(fmt.Errorf("object offset overflow: %w", err))
	}
	return source.Span{Start: op.base + start, End: op.base + end}
}

func (op *objectParser) emit(pos int, code diag.Code, msg string) {
	if op.c.EmitError != nil {
		op.c.EmitError(op.span(pos, pos), code, msg)
	}
}

func (op *objectParser) skipSpaces(pos int) int {
	for pos < op.end && isSpace(op.text[pos]) {
		pos++
	}
	return pos
}

// parse consumes the chunks of ws from pos. Errors are suppressed inside
// optional groups. It returns the status and the position reached; a
// failed group that consumed nothing returns its start position.
func (op *objectParser) parse(ws *syntax.WithSyntax, pos int, optional bool) (status, int) {
	for i, ch := range ws.Chunks {
		switch ch.Kind {
		case syntax.ChunkWhitespace:

		case syntax.ChunkLiteral:
			pos = op.skipSpaces(pos)
			if !strings.HasPrefix(op.text[pos:op.end], ch.Token) {
				if !optional {
					op.emit(pos, diag.ClsTemplateMismatch,
						fmt.Sprintf("expected pattern like '%s', got '%s'", ch.Token, strings.TrimSpace(op.text[pos:op.end])))
				}
				return statusFail, pos
			}
			pos += len(ch.Token)

		case syntax.ChunkField:
			old := pos
			pos = op.skipSpaces(pos)
			valueEnd := op.end
			if next := nextLiteral(ws, i, op.text[pos:op.end]); next != nil {
				k := strings.Index(op.text[pos:op.end], next.Token)
				if k < 0 {
					if !optional {
						op.emit(pos, diag.ClsLiteralNotFound, fmt.Sprintf("literal '%s' not found", next.Token))
					}
					return statusFail, old
				}
				valueEnd = pos + k
			}
			for valueEnd > pos && isSpace(op.text[valueEnd-1]) {
				valueEnd--
			}
			row := Row{Name: ch.Token, Value: op.text[pos:valueEnd], Span: op.span(pos, valueEnd)}
			if !op.c.AcceptRow(row) {
				return statusStop, op.end
			}
			pos = valueEnd

		case syntax.ChunkOptionalGroup:
			pos = op.skipSpaces(pos)
			st, np := op.parse(ch.Group, pos, true)
			if st == statusStop || (st == statusFail && np != pos) {
				return st, np
			}
			pos = np
		}
	}
	return statusOK, pos
}

// nextLiteral finds the chunk that terminates the field at ws.Chunks[i].
// Whitespace is skipped and optional groups are entered. A literal that
// does not occur in rest belongs to an absent group, so the search resumes
// after that group in the enclosing scope; at the top level it is returned
// anyway. A field chunk is returned as is. Nil means the value runs to the
// end of the object.
func nextLiteral(ws *syntax.WithSyntax, i int, rest string) *syntax.Chunk {
	j := i + 1
	for {
		if j >= len(ws.Chunks) {
			if ws.Parent == nil {
				return nil
			}
			ws, j = ws.Parent, ws.ParentIndex+1
			continue
		}
		ch := ws.Chunks[j]
		switch ch.Kind {
		case syntax.ChunkWhitespace:
			j++
		case syntax.ChunkOptionalGroup:
			ws, j = ch.Group, 0
		case syntax.ChunkLiteral:
			if ws.Parent == nil || strings.Contains(rest, ch.Token) {
				return ch
			}
			ws, j = ws.Parent, ws.ParentIndex+1
		default:
			return ch
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
