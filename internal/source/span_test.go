package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{Start: 10, End: 20},
			shift:    5,
			expected: Span{Start: 5, End: 15},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{Start: 10, End: 20},
			shift:    10,
			expected: Span{Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{Start: 10, End: 20},
			shift:    15,
			expected: Span{Start: 10, End: 20},
		},
		{
			name:     "shift zero-length span",
			span:     Span{Start: 10, End: 10},
			shift:    3,
			expected: Span{Start: 7, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftLeft(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_Text(t *testing.T) {
	src := "Test DEFINITIONS ::= BEGIN END"
	tests := []struct {
		name string
		span Span
		want string
	}{
		{"module name", Span{Start: 0, End: 4}, "Test"},
		{"empty", At(5), ""},
		{"clamped end", Span{Start: 27, End: 100}, "END"},
		{"past end", Span{Start: 200, End: 300}, ""},
		{"inverted", Span{Start: 5, End: 2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Text(src); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpan_CoverAndContains(t *testing.T) {
	a := Span{Start: 4, End: 8}
	b := Span{Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{Start: 2, End: 8}) {
		t.Errorf("Cover() = %+v", got)
	}
	if !a.Contains(4) || a.Contains(8) {
		t.Error("Contains must treat the span as half-open")
	}
	if a.Len() != 4 || !At(3).Empty() {
		t.Error("Len/Empty mismatch")
	}
	if a.String() != "4-8" {
		t.Errorf("String() = %q", a.String())
	}
}
