package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a fixed limit. Diagnostics past the
// limit are counted but not stored, so HasErrors stays accurate for a
// truncated bag.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
	errors  int
}

func NewBag(limit int) *Bag {
	limit = max(limit, 0)
	return &Bag{
		items: make([]Diagnostic, 0, min(limit, 64)),
		max:   limit,
	}
}

// Add stores d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		b.errors++
	}
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any error was added, stored or not.
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// ErrorCount returns the number of errors added, stored or not.
func (b *Bag) ErrorCount() int {
	return b.errors
}

// Dropped returns how many diagnostics the limit turned away.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the stored diagnostics. The slice aliases the bag; do not
// modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge adds other's diagnostics under b's limit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
	b.errors += other.errors - errorsIn(other.items)
}

func errorsIn(items []Diagnostic) int {
	n := 0
	for _, d := range items {
		if d.Severity >= SevError {
			n++
		}
	}
	return n
}

// Sort orders by file, start, end, severity (worst first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.File, y.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

type dedupKey struct {
	code    Code
	file    uint32
	span    [2]uint32
	message string
}

// Dedup drops diagnostics repeating code, file, span and message.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]bool, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := dedupKey{d.Code, uint32(d.File), [2]uint32{d.Primary.Start, d.Primary.End}, d.Message}
		if seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
}
