package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"vanadium/internal/source"
)

// Cursor is a byte position in the module text.
type Cursor struct {
	src   string
	Off   uint32
	limit uint32
}

// NewCursor creates a cursor over src.
func NewCursor(src string) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{src: src, limit: limit}
}

// EOF reports whether the cursor reached the end of the text.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.src[c.Off+n]
}

// Bump advances by one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark remembers a position for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
