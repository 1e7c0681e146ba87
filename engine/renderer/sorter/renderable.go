package sorter

import (
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// Renderable is a per-frame, pool-allocated flattening of one draw call's
// inputs. It never survives past the frame that created it: the whole pool
// is logically reset at the start of the next frame's cull.
//
// The sort produces a flat ordered slice, not a linked tree: nothing in this
// package sets NextLevel or NextSibling, and no list-head Renderables (with
// a nil RenderPass) are created.
type Renderable struct {
	Mesh        *metadata.Mesh
	RenderData  *metadata.RenderData
	RenderPass  *metadata.RenderPass
	Material    *metadata.Material
	Shader      *metadata.Shader
	RenderModes metadata.RenderModes

	WorldMatrix math.Mat4
	MVP         math.Mat4

	TransformBlock *metadata.UniformBlock
	MatrixOffset   uint32
	NumMatrices    uint32

	DistanceFromCamera float32
	HasBones           bool

	NextLevel   *Renderable
	NextSibling *Renderable
}

// reset clears a Renderable to its zero value in place so a pool slot can
// be reused without allocating a new struct.
func (r *Renderable) reset() {
	*r = Renderable{}
}

const blockCapacity = 128

// block is one fixed-capacity slab of Renderables in the per-frame pool.
type block struct {
	items [blockCapacity]Renderable
	used  int
	next  *block
}

// Pool is a singly-linked list of fixed-capacity slabs with a bump
// allocator. Blocks are appended as needed and never freed; Clear rewinds
// every block's bump pointer so next frame's allocations reuse the same
// backing storage.
type Pool struct {
	first   *block
	current *block
	count   int // blocks currently in the list
}

// NewPool returns an empty pool with no blocks yet allocated.
func NewPool() *Pool {
	return &Pool{}
}

// Clear resets every block's bump pointer to zero and rewinds allocation to
// the first block, without freeing any block. Safe to call on an empty pool.
func (p *Pool) Clear() {
	for b := p.first; b != nil; b = b.next {
		b.used = 0
	}
	p.current = p.first
}

// Alloc returns a fresh zeroed Renderable from the pool, appending a new
// block only if every existing block is exhausted.
func (p *Pool) Alloc() *Renderable {
	if p.current == nil {
		p.current = &block{}
		p.first = p.current
		p.count = 1
	}
	for p.current.used == blockCapacity {
		if p.current.next == nil {
			p.current.next = &block{}
			p.count++
		}
		p.current = p.current.next
	}
	r := &p.current.items[p.current.used]
	r.reset()
	p.current.used++
	return r
}

// BlockCount returns the number of blocks currently linked into the pool
// (allocated across this frame and any prior frame).
func (p *Pool) BlockCount() int { return p.count }

// FirstBlockUsed returns how many slots of the first block are occupied,
// used by tests to check the pool-reset property.
func (p *Pool) FirstBlockUsed() int {
	if p.first == nil {
		return 0
	}
	return p.first.used
}

// Each calls fn for every allocated Renderable across all blocks, in
// allocation order: first block front-to-back, then the next block, and so
// on, stopping at each block's high-water mark.
func (p *Pool) Each(fn func(*Renderable)) {
	for b := p.first; b != nil; b = b.next {
		for i := 0; i < b.used; i++ {
			fn(&b.items[i])
		}
	}
}

// VisibleCount returns how many Renderables have been allocated this frame
// across all blocks.
func (p *Pool) VisibleCount() int {
	n := 0
	for b := p.first; b != nil; b = b.next {
		n += b.used
	}
	return n
}
