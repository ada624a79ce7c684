package arena

import (
	"fmt"
	"math/bits"
	"reflect"

	"fortio.org/safecast"
)

const (
	slabMinLenShift = 4
	slabMinLen      = 1 << slabMinLenShift
)

// Ref is a typed, generation-stamped handle into a Slab. The zero Ref is nil.
type Ref[T any] struct {
	idx uint32 // 1-based
	gen Generation
}

// IsNil reports whether r refers to nothing.
func (r Ref[T]) IsNil() bool {
	return r.idx == 0
}

// Index returns the 1-based slot number, 0 for nil.
func (r Ref[T]) Index() uint32 {
	return r.idx
}

// Gen returns the generation r was minted in.
func (r Ref[T]) Gen() Generation {
	return r.gen
}

// String implements fmt.Stringer.
func (r Ref[T]) String() string {
	if r.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d@%d", r.idx, r.gen)
}

// Get dereferences r in a. A nil ref yields (nil, nil).
func (r Ref[T]) Get(a *Arena) (*T, error) {
	return SlabOf[T](a).Get(r)
}

// MustGet is Get that panics on stale references.
func (r Ref[T]) MustGet(a *Arena) *T {
	p, err := r.Get(a)
	if err != nil {
		panic(fmt.Errorf("%w: %s", err, r))
	}
	return p
}

// Slab stores values of one type for an arena. It is a table of
// logarithmically growing chunks, so elements never move once allocated.
//
// Invariants:
//  1. cap(table[0]) == slabMinLen
//  2. cap(table[n]) == 2*cap(table[n-1])
type Slab[T any] struct {
	owner *Arena
	table [][]T
	n     int
}

// SlabOf returns the slab for T bound to a, creating it on first use.
func SlabOf[T any](a *Arena) *Slab[T] {
	key := reflect.TypeFor[T]()
	if s, ok := a.slabs[key]; ok {
		return s.(*Slab[T])
	}
	s := &Slab[T]{owner: a}
	a.slabs[key] = s
	return s
}

// Alloc allocates a zero T from a's slab for T.
func Alloc[T any](a *Arena) (Ref[T], *T) {
	return SlabOf[T](a).New()
}

// New allocates a zero value and returns its handle and address.
func (s *Slab[T]) New() (Ref[T], *T) {
	slice, idx := coordinates(s.n)
	if slice == len(s.table) {
		s.table = append(s.table, make([]T, slabMinLen<<slice))
	}
	p := &s.table[slice][idx]
	s.n++
	n, err := safecast.Conv[uint32](s.n)
	if err != nil {
		panic(fmt.Errorf("arena: slab length overflow: %w", err))
	}
	return Ref[T]{idx: n, gen: s.owner.gen}, p
}

// Get resolves r. References from an older generation, or beyond the
// current length, are reported as ErrStale.
func (s *Slab[T]) Get(r Ref[T]) (*T, error) {
	if r.IsNil() {
		return nil, nil
	}
	if r.gen != s.owner.gen || int(r.idx) > s.n {
		return nil, ErrStale
	}
	slice, idx := coordinates(int(r.idx) - 1)
	return &s.table[slice][idx], nil
}

// Len returns the number of live elements.
func (s *Slab[T]) Len() int {
	return s.n
}

// reset zeroes the used slots and keeps the chunks, so nothing the old
// elements pointed to stays reachable through the slab.
func (s *Slab[T]) reset() {
	for k, chunk := range s.table {
		start := slabMinLen<<k - slabMinLen
		if start >= s.n {
			break
		}
		clear(chunk[:min(len(chunk), s.n-start)])
	}
	s.n = 0
}

// coordinates maps a 0-based element index to (chunk, offset). Chunk k
// starts at slabMinLen*(2^k - 1).
func coordinates(i int) (int, int) {
	slice := bits.UintSize - bits.LeadingZeros(uint(i)+slabMinLen)
	slice -= slabMinLenShift + 1
	return slice, i - (slabMinLen<<slice - slabMinLen)
}
