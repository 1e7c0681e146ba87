package sorter

import "testing"

func TestTransformBlockPoolReserveWithinBlock(t *testing.T) {
	p := NewTransformBlockPool(16) // NumSceneMatrices(8) + 8 usable slots
	block, offset, err := p.Reserve(3)
	if err != nil {
		t.Fatalf("Reserve(3) error: %v", err)
	}
	if offset != NumSceneMatrices {
		t.Fatalf("first Reserve offset = %d, want %d", offset, NumSceneMatrices)
	}
	if block != p.Block(0) {
		t.Fatalf("Reserve returned a different block than Block(0)")
	}

	_, offset2, err := p.Reserve(2)
	if err != nil {
		t.Fatalf("Reserve(2) error: %v", err)
	}
	if offset2 != NumSceneMatrices+3 {
		t.Fatalf("second Reserve offset = %d, want %d", offset2, NumSceneMatrices+3)
	}
}

func TestTransformBlockPoolAdvancesBlockWhenFull(t *testing.T) {
	p := NewTransformBlockPool(10) // 8 reserved + 2 usable per block
	if _, _, err := p.Reserve(2); err != nil {
		t.Fatalf("Reserve(2) error: %v", err)
	}
	// No room left in block 0; this must advance to block 1.
	block2, offset, err := p.Reserve(1)
	if err != nil {
		t.Fatalf("Reserve(1) error: %v", err)
	}
	if offset != NumSceneMatrices {
		t.Fatalf("Reserve after rollover offset = %d, want %d", offset, NumSceneMatrices)
	}
	if block2 == p.Block(0) {
		t.Fatalf("Reserve after rollover should have moved to a second block")
	}
	if p.BlockCount() != 2 {
		t.Fatalf("BlockCount() = %d, want 2", p.BlockCount())
	}
}

func TestTransformBlockPoolResetRewindsWithoutFreeing(t *testing.T) {
	p := NewTransformBlockPool(10)
	p.Reserve(2)
	p.Reserve(1) // forces a second block
	blocksBefore := p.BlockCount()

	p.Reset()
	if blocksBefore != p.BlockCount() {
		t.Fatalf("Reset() freed blocks: before=%d after=%d", blocksBefore, p.BlockCount())
	}
	_, offset, err := p.Reserve(1)
	if err != nil {
		t.Fatalf("Reserve(1) after Reset error: %v", err)
	}
	if offset != NumSceneMatrices {
		t.Fatalf("Reserve offset after Reset = %d, want %d", offset, NumSceneMatrices)
	}
}

func TestTransformBlockPoolReserveTooLargeErrors(t *testing.T) {
	p := NewTransformBlockPool(NumSceneMatrices + 2)
	if _, _, err := p.Reserve(3); err == nil {
		t.Fatalf("Reserve(3) should fail when per-block capacity is only 2")
	}
}
