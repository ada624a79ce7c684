package arena

import (
	"errors"
	"testing"
)

func TestAllocBuffer_ZeroedAndDisjoint(t *testing.T) {
	a := NewWithBlockSize(64)

	first := a.AllocBuffer(10)
	for i := range first {
		first[i] = 0xAA
	}
	second := a.AllocBuffer(10)
	for i, b := range second {
		if b != 0 {
			t.Fatalf("second[%d] = %#x, want 0", i, b)
		}
	}
	second[0] = 1
	if first[9] != 0xAA {
		t.Errorf("buffers overlap: first[9] = %#x", first[9])
	}
	if cap(first) != len(first) {
		t.Errorf("cap(first) = %d, want %d", cap(first), len(first))
	}
	if got := a.SpaceUsed(); got != 20 {
		t.Errorf("SpaceUsed() = %d, want 20", got)
	}
}

func TestAllocBuffer_SpillsToNewBlock(t *testing.T) {
	a := NewWithBlockSize(16)
	a.AllocBuffer(12)
	a.AllocBuffer(12)
	if got := a.SpaceAllocated(); got != 32 {
		t.Errorf("SpaceAllocated() = %d, want 32", got)
	}

	big := a.AllocBuffer(100)
	if len(big) != 100 {
		t.Fatalf("len(big) = %d", len(big))
	}
	if got := a.SpaceAllocated(); got != 132 {
		t.Errorf("SpaceAllocated() = %d, want 132", got)
	}
}

func TestReset_RetainsBlocksAndZeroesReuse(t *testing.T) {
	a := NewWithBlockSize(32)
	buf := a.AllocStringBuffer(5)
	copy(buf, "hello")
	if s := a.String(buf); s != "hello" {
		t.Fatalf("String() = %q", s)
	}
	a.AllocBuffer(100)
	before := len(a.blocks)

	a.Reset()

	if a.SpaceUsed() != 0 {
		t.Errorf("SpaceUsed() after Reset = %d", a.SpaceUsed())
	}
	if len(a.blocks) != before {
		t.Errorf("blocks = %d after Reset, want %d", len(a.blocks), before)
	}
	if a.SpaceAllocated() != 32 {
		t.Errorf("SpaceAllocated() = %d, want 32 (large block released)", a.SpaceAllocated())
	}
	again := a.AllocBuffer(5)
	for i, b := range again {
		if b != 0 {
			t.Fatalf("reused byte %d = %#x, want 0", i, b)
		}
	}
}

func TestCopyString(t *testing.T) {
	a := New()
	s := a.CopyString("ver1 ver2")
	if s != "ver1 ver2" {
		t.Errorf("CopyString() = %q", s)
	}
	if a.CopyString("") != "" {
		t.Error("CopyString(\"\") should be empty")
	}
}

type node struct {
	name   string
	parent Ref[node]
}

func TestSlab_PointersStableAcrossGrowth(t *testing.T) {
	a := New()
	firstRef, first := Alloc[node](a)
	first.name = "root"

	var last Ref[node]
	for i := 0; i < 1000; i++ {
		last, _ = Alloc[node](a)
	}

	got, err := firstRef.Get(a)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != first || got.name != "root" {
		t.Errorf("first element moved or changed: %+v", got)
	}
	if last.Index() != 1001 {
		t.Errorf("last.Index() = %d, want 1001", last.Index())
	}
	if n := SlabOf[node](a).Len(); n != 1001 {
		t.Errorf("Len() = %d, want 1001", n)
	}
}

func TestSlab_StaleAfterReset(t *testing.T) {
	a := New()
	ref, p := Alloc[node](a)
	p.name = "old"

	a.Reset()

	if _, err := ref.Get(a); !errors.Is(err, ErrStale) {
		t.Fatalf("Get after Reset: err = %v, want ErrStale", err)
	}

	fresh, q := Alloc[node](a)
	if q.name != "" {
		t.Errorf("reused slot not zeroed: %q", q.name)
	}
	if fresh.Index() != ref.Index() {
		t.Errorf("fresh.Index() = %d, want slot reuse at %d", fresh.Index(), ref.Index())
	}
	if _, err := ref.Get(a); !errors.Is(err, ErrStale) {
		t.Errorf("old ref must stay stale even when its slot is reused, err = %v", err)
	}
}

func TestSlab_ResetClearsUsedSlots(t *testing.T) {
	a := New()
	var parent Ref[node]
	for range 20 {
		ref, p := Alloc[node](a)
		p.name = "n"
		p.parent = parent
		parent = ref
	}
	s := SlabOf[node](a)
	if len(s.table) != 2 {
		t.Fatalf("chunks = %d, want 2", len(s.table))
	}

	a.Reset()

	for k, chunk := range s.table {
		for i, n := range chunk {
			if n != (node{}) {
				t.Errorf("chunk %d slot %d = %+v after Reset", k, i, n)
			}
		}
	}
}

func TestRef_Nil(t *testing.T) {
	a := New()
	var r Ref[node]
	if !r.IsNil() {
		t.Fatal("zero Ref should be nil")
	}
	p, err := r.Get(a)
	if p != nil || err != nil {
		t.Errorf("Get(nil) = %v, %v", p, err)
	}
	if r.String() != "nil" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestRef_MustGetPanicsOnStale(t *testing.T) {
	a := New()
	ref, _ := Alloc[node](a)
	a.Reset()

	defer func() {
		if recover() == nil {
			t.Error("MustGet on a stale ref should panic")
		}
	}()
	ref.MustGet(a)
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		idx         int
		slice, offs int
	}{
		{0, 0, 0},
		{15, 0, 15},
		{16, 1, 0},
		{47, 1, 31},
		{48, 2, 0},
		{111, 2, 63},
		{112, 3, 0},
	}
	for _, tt := range tests {
		slice, offs := coordinates(tt.idx)
		if slice != tt.slice || offs != tt.offs {
			t.Errorf("coordinates(%d) = (%d, %d), want (%d, %d)", tt.idx, slice, offs, tt.slice, tt.offs)
		}
	}
}
