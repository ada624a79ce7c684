package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
	"github.com/mattn/go-runewidth"
)

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// LineIndex maps byte offsets to line/column pairs. It stores the offset at
// which every line starts; the first entry is always 0.
type LineIndex struct {
	starts []uint32
	size   uint32
}

// NewLineIndex scans text for '\n' terminators.
func NewLineIndex(text string) LineIndex {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	starts := make([]uint32, 1, len(text)/32+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, uint32(i)+1)
		}
	}
	return LineIndex{starts: starts, size: size}
}

// Starts returns the line start offsets. Do not modify the result.
func (li LineIndex) Starts() []uint32 {
	return li.starts
}

// Lines returns the number of lines.
func (li LineIndex) Lines() int {
	return len(li.starts)
}

// Size returns the length of the indexed text.
func (li LineIndex) Size() uint32 {
	return li.size
}

// Position converts a byte offset into a 1-based line/column pair. Offsets
// past the end are clamped to the end of the text.
func (li LineIndex) Position(off uint32) LineCol {
	if len(li.starts) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	off = min(off, li.size)
	// largest start <= off
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	return LineCol{Line: uint32(line) + 1, Col: off - li.starts[line] + 1}
}

// Offset converts a line/column pair back to a byte offset.
func (li LineIndex) Offset(lc LineCol) (uint32, bool) {
	if lc.Line == 0 || lc.Col == 0 || int(lc.Line) > len(li.starts) {
		return 0, false
	}
	line := li.LineSpan(lc.Line)
	off := line.Start + lc.Col - 1
	if off > line.End {
		return 0, false
	}
	return off, true
}

// LineSpan returns the span of the given 1-based line without its terminator.
func (li LineIndex) LineSpan(line uint32) Span {
	if line == 0 || int(line) > len(li.starts) {
		return Span{}
	}
	start := li.starts[line-1]
	end := li.size
	if int(line) < len(li.starts) {
		end = li.starts[line] - 1
	}
	return Span{Start: start, End: end}
}

// DisplayCol returns the 1-based terminal column of off, accounting for
// wide runes on the line.
func (li LineIndex) DisplayCol(text string, off uint32) int {
	lc := li.Position(off)
	line := li.LineSpan(lc.Line)
	prefix := Span{Start: line.Start, End: min(off, line.End)}.Text(text)
	return runewidth.StringWidth(prefix) + 1
}
