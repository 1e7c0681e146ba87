package sorter

import "testing"

func TestPoolAllocGrowsAcrossBlocks(t *testing.T) {
	p := NewPool()
	for i := 0; i < blockCapacity+5; i++ {
		r := p.Alloc()
		r.DistanceFromCamera = float32(i)
	}
	if p.BlockCount() != 2 {
		t.Fatalf("BlockCount() = %d, want 2", p.BlockCount())
	}
	if p.VisibleCount() != blockCapacity+5 {
		t.Fatalf("VisibleCount() = %d, want %d", p.VisibleCount(), blockCapacity+5)
	}
}

func TestPoolClearRewindsWithoutFreeing(t *testing.T) {
	p := NewPool()
	for i := 0; i < blockCapacity+5; i++ {
		p.Alloc()
	}
	blocksBefore := p.BlockCount()

	p.Clear()
	if p.VisibleCount() != 0 {
		t.Fatalf("VisibleCount() after Clear() = %d, want 0", p.VisibleCount())
	}
	if p.BlockCount() != blocksBefore {
		t.Fatalf("BlockCount() after Clear() = %d, want %d (no block should be freed)", p.BlockCount(), blocksBefore)
	}

	for i := 0; i < 3; i++ {
		p.Alloc()
	}
	if p.FirstBlockUsed() != 3 {
		t.Fatalf("FirstBlockUsed() = %d, want 3", p.FirstBlockUsed())
	}
}

func TestPoolAllocResetsSlot(t *testing.T) {
	p := NewPool()
	r := p.Alloc()
	r.DistanceFromCamera = 42
	p.Clear()
	r2 := p.Alloc()
	if r2.DistanceFromCamera != 0 {
		t.Fatalf("reused slot carried stale data: DistanceFromCamera = %v, want 0", r2.DistanceFromCamera)
	}
}

func TestPoolEachVisitsAllocationOrder(t *testing.T) {
	p := NewPool()
	for i := 0; i < blockCapacity+2; i++ {
		p.Alloc().DistanceFromCamera = float32(i)
	}
	var seen []float32
	p.Each(func(r *Renderable) { seen = append(seen, r.DistanceFromCamera) })
	if len(seen) != blockCapacity+2 {
		t.Fatalf("Each visited %d renderables, want %d", len(seen), blockCapacity+2)
	}
	for i, v := range seen {
		if v != float32(i) {
			t.Fatalf("Each visited out of allocation order at %d: got %v", i, v)
		}
	}
}
