// Package arena implements the bump allocator that owns everything produced
// by one parse generation: raw byte buffers, synthesized strings and typed
// node slabs.
//
// Nothing allocated here is ever destroyed individually. Reset reclaims the
// whole arena at once and bumps its generation; typed references ([Ref])
// carry the generation they were minted in, so a reference that outlived a
// Reset is rejected with [ErrStale] instead of silently aliasing new data.
//
// An Arena is not safe for concurrent use.
package arena

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// DefaultBlockSize is the size of a regular byte block.
const DefaultBlockSize = 4096

// ErrStale is returned when a reference minted before the last Reset is
// dereferenced.
var ErrStale = errors.New("arena: stale reference")

// Generation counts Resets of an arena. The zero generation is never live,
// which keeps the zero Ref nil.
type Generation uint32

type resetter interface {
	reset()
}

// Arena is a block-based bump allocator.
type Arena struct {
	blockSize int
	blocks    [][]byte
	cur       int // block being filled
	off       int // fill offset inside blocks[cur]
	large     [][]byte
	used      int
	gen       Generation
	slabs     map[reflect.Type]resetter
}

// New creates an arena with DefaultBlockSize blocks.
func New() *Arena {
	return NewWithBlockSize(DefaultBlockSize)
}

// NewWithBlockSize creates an arena whose regular blocks are blockSize bytes.
func NewWithBlockSize(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Arena{
		blockSize: blockSize,
		gen:       1,
		slabs:     make(map[reflect.Type]resetter),
	}
}

// Gen returns the current generation.
func (a *Arena) Gen() Generation {
	return a.gen
}

// AllocBuffer returns n zeroed bytes. The slice stays put until Reset and
// has no spare capacity, so appending to it never scribbles over neighbours.
func (a *Arena) AllocBuffer(n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", n))
	}
	if n == 0 {
		return nil
	}
	a.used += n
	if n > a.blockSize {
		buf := make([]byte, n)
		a.large = append(a.large, buf)
		return buf
	}
	if len(a.blocks) == 0 || a.off+n > len(a.blocks[a.cur]) {
		a.nextBlock()
	}
	buf := a.blocks[a.cur][a.off : a.off+n : a.off+n]
	a.off += n
	// retained blocks still hold the previous generation's bytes
	clear(buf)
	return buf
}

// AllocStringBuffer returns a mutable span of n bytes meant to be filled
// with text and then viewed through String.
func (a *Arena) AllocStringBuffer(n int) []byte {
	return a.AllocBuffer(n)
}

// String views an arena buffer as a string without copying. The string is
// only meaningful until the next Reset.
func (a *Arena) String(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// CopyString copies s into the arena and returns the arena-backed view.
func (a *Arena) CopyString(s string) string {
	buf := a.AllocStringBuffer(len(s))
	copy(buf, s)
	return a.String(buf)
}

func (a *Arena) nextBlock() {
	if len(a.blocks) > 0 {
		a.cur++
	}
	if a.cur >= len(a.blocks) {
		a.blocks = append(a.blocks, make([]byte, a.blockSize))
	}
	a.off = 0
}

// Reset discards all contents. Regular blocks and slab chunks are retained
// for reuse; oversized blocks are released.
func (a *Arena) Reset() {
	a.gen++
	if a.gen == 0 {
		// wrapped around; 0 is reserved for nil references
		a.gen = 1
	}
	a.cur = 0
	a.off = 0
	a.used = 0
	clear(a.large)
	a.large = a.large[:0]
	for _, s := range a.slabs {
		s.reset()
	}
}

// SpaceAllocated reports the bytes reserved by byte blocks.
func (a *Arena) SpaceAllocated() int {
	total := len(a.blocks) * a.blockSize
	for _, b := range a.large {
		total += len(b)
	}
	return total
}

// SpaceUsed reports the bytes handed out by AllocBuffer since the last Reset.
func (a *Arena) SpaceUsed() int {
	return a.used
}
