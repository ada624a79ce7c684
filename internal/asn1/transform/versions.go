package transform

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"vanadium/internal/source"
	"vanadium/internal/ttcn/ast"
)

// versionedName is a node whose name is the version token vern.
type versionedName struct {
	node    ast.NodeID
	version int
}

// appendVersions appends "\nver1 ver2 ... verN" to the adjusted source and
// points every versioned name at its token.
func (l *lowerer) appendVersions() {
	l.buf = append(l.buf, '\n')
	base := l.offset()
	for k := 1; k <= l.maxVersion; k++ {
		if k > 1 {
			l.buf = append(l.buf, ' ')
		}
		l.buf = append(l.buf, "ver"...)
		l.buf = strconv.AppendInt(l.buf, int64(k), 10)
	}
	for _, v := range l.versioned {
		n := l.nodes.Node(v.node)
		n.Name = ast.Name{Span: versionSpan(base, v.version), Valid: true}
	}
}

// versionSpan is the span of token verk when the tokens start at base.
// Each earlier token takes "ver", its digits and one space.
func versionSpan(base uint32, k int) source.Span {
	off, err := safecast.Conv[uint32](4*(k-1) + digits(k-1))
	if err != nil {
		panic(fmt.Errorf("version token offset overflow: %w", err))
	}
	width := uint32(digits(k) - digits(k-1)) // #nosec G115 -- at most 20
	start := base + off
	return source.Span{Start: start, End: start + 3 + width}
}

// digits returns the total decimal width of the numbers 1..m.
func digits(m int) int {
	total := 0
	for p := 1; p <= m; p *= 10 {
		total += m - p + 1
	}
	return total
}
