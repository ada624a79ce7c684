package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into one document.
type Span struct {
	Start uint32
	End   uint32
}

// At returns the empty span positioned at off.
func At(off uint32) Span {
	return Span{Start: off, End: off}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Text slices src by s. Out-of-range spans are clamped.
func (s Span) Text(src string) string {
	n := uint32(len(src))
	start, end := min(s.Start, n), min(s.End, n)
	if start > end {
		return ""
	}
	return src[start:end]
}

// Contains reports whether off falls inside s.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves the span n bytes left. A shift past offset 0 leaves the
// span unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{Start: s.Start - n, End: s.End - n}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{Start: s.Start + n, End: s.End + n}
}
