package syntax

import "vanadium/internal/arena"

// Allocator hands out tree nodes. While bound to an arena every node lives
// in that arena's slabs; unbound, nodes fall back to the Go heap.
type Allocator struct {
	a *arena.Arena
}

// NewAllocator returns an unbound allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Bind routes allocations to a and returns a func restoring the previous
// binding. Call it with defer.
func (al *Allocator) Bind(a *arena.Arena) (restore func()) {
	prev := al.a
	al.a = a
	return func() { al.a = prev }
}

// Bound reports whether allocations currently go to an arena.
func (al *Allocator) Bound() bool {
	return al != nil && al.a != nil
}

func alloc[T any](al *Allocator) *T {
	if !al.Bound() {
		return new(T)
	}
	_, p := arena.Alloc[T](al.a)
	return p
}

func (al *Allocator) Tree() *Tree             { return alloc[Tree](al) }
func (al *Allocator) Module() *Module         { return alloc[Module](al) }
func (al *Allocator) Expr() *Expr             { return alloc[Expr](al) }
func (al *Allocator) Reference() *Reference   { return alloc[Reference](al) }
func (al *Allocator) Value() *Value           { return alloc[Value](al) }
func (al *Allocator) Constraint() *Constraint { return alloc[Constraint](al) }
func (al *Allocator) WithSyntax() *WithSyntax { return alloc[WithSyntax](al) }
func (al *Allocator) Chunk() *Chunk           { return alloc[Chunk](al) }
