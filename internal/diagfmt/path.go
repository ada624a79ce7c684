package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"vanadium/internal/source"
)

func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	if f.Flags&source.FileVirtual != 0 {
		return p
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, ok := relativeTo(p, base); ok {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAuto:
		if rel, ok := relativeTo(p, base); ok && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return p
}

func relativeTo(p, base string) (string, bool) {
	if base == "" {
		return "", false
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// formatSpan renders span as "line:col-line:col" when lines are known and
// as "start-end" otherwise.
func formatSpan(span source.Span, lines *source.LineIndex) string {
	if lines != nil {
		start, end := lines.Position(span.Start), lines.Position(span.End)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return span.String()
}
