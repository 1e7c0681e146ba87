package sorter

import (
	"fmt"

	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// NumSceneMatrices is the number of leading slots in every transform block
// reserved for global scene matrices (projection, view, view-proj,
// view-inverse); per-Renderable matrices are packed starting right after.
const NumSceneMatrices = 8

// MaxMatricesPerBlock is the hard ceiling on how many mat4 slots a single
// transform block may hold, independent of the device's UBO size limit.
const MaxMatricesPerBlock = 45

const transformBlockDescriptor = "mat4 m[1]"

// TransformBlockPool is an ordered, lazily-grown sequence of UniformBlocks,
// each sized for up to matricesPerBlock mat4 slots. A block is created the
// first frame its index is needed and is never freed. The pool tracks an
// "active" index and a bump offset within that block; when a request for k
// slots does not fit in the remaining capacity, the active index advances,
// allocating a new block only if the pool has not already grown that far in
// a previous frame.
type TransformBlockPool struct {
	matricesPerBlock uint32
	blocks           []*metadata.UniformBlock
	activeIndex      int
	activeOffset     uint32
	highWater        []uint32 // per-block high-water mark reached this frame
}

// NewTransformBlockPool returns a pool whose blocks are sized for
// matricesPerBlock mat4 slots, clamped to [NumSceneMatrices+1, MaxMatricesPerBlock].
func NewTransformBlockPool(matricesPerBlock uint32) *TransformBlockPool {
	if matricesPerBlock > MaxMatricesPerBlock {
		matricesPerBlock = MaxMatricesPerBlock
	}
	if matricesPerBlock < NumSceneMatrices+1 {
		matricesPerBlock = NumSceneMatrices + 1
	}
	return &TransformBlockPool{matricesPerBlock: matricesPerBlock, activeOffset: NumSceneMatrices}
}

// Reset rewinds allocation to the first block without freeing any block,
// mirroring the per-frame Renderable pool's reset discipline.
func (p *TransformBlockPool) Reset() {
	p.activeIndex = 0
	p.activeOffset = NumSceneMatrices
	p.highWater = make([]uint32, len(p.blocks))
}

// BlockCount returns how many blocks have ever been allocated.
func (p *TransformBlockPool) BlockCount() int { return len(p.blocks) }

// ActiveBlockCount returns how many blocks hold at least one Renderable's
// matrices this frame.
func (p *TransformBlockPool) ActiveBlockCount() int {
	n := 0
	for _, hw := range p.highWater {
		if hw > NumSceneMatrices {
			n++
		}
	}
	return n
}

// Block returns the block at index i, or nil if it has not been allocated.
func (p *TransformBlockPool) Block(i int) *metadata.UniformBlock {
	if i < 0 || i >= len(p.blocks) {
		return nil
	}
	return p.blocks[i]
}

// Capacity returns the number of mat4 slots each block holds.
func (p *TransformBlockPool) Capacity() uint32 { return p.matricesPerBlock }

func (p *TransformBlockPool) ensureBlock(i int) (*metadata.UniformBlock, error) {
	for len(p.blocks) <= i {
		block, err := metadata.NewUniformBlock(transformBlockDescriptor, p.matricesPerBlock)
		if err != nil {
			return nil, err
		}
		p.blocks = append(p.blocks, block)
		p.highWater = append(p.highWater, NumSceneMatrices)
	}
	return p.blocks[i], nil
}

// Reserve allocates k contiguous matrix slots in the active block, advancing
// to (and lazily creating) the next block if the active block's remaining
// capacity is smaller than k. It returns the owning block, the offset
// within it, and an error only if k exceeds a whole block's capacity.
func (p *TransformBlockPool) Reserve(k uint32) (*metadata.UniformBlock, uint32, error) {
	if k > p.matricesPerBlock-NumSceneMatrices {
		return nil, 0, fmt.Errorf("transform block pool: request for %d matrices exceeds per-block capacity %d", k, p.matricesPerBlock-NumSceneMatrices)
	}
	if p.activeOffset+k > p.matricesPerBlock {
		p.activeIndex++
		p.activeOffset = NumSceneMatrices
	}
	block, err := p.ensureBlock(p.activeIndex)
	if err != nil {
		return nil, 0, err
	}
	offset := p.activeOffset
	p.activeOffset += k
	if p.activeOffset > p.highWater[p.activeIndex] {
		p.highWater[p.activeIndex] = p.activeOffset
	}
	return block, offset, nil
}

// ActiveRange returns the [0, highWaterMark) byte range of block i that was
// touched this frame and needs uploading; ok is false if the block was not
// touched this frame.
func (p *TransformBlockPool) ActiveRange(i int) (lenBytes uint32, ok bool) {
	if i < 0 || i >= len(p.highWater) {
		return 0, false
	}
	hw := p.highWater[i]
	if hw == 0 {
		return 0, false
	}
	return hw * 16 * 4, true // mat4 = 16 floats = 64 bytes; hw counts matrix slots
}

// EachActive calls fn for every block touched this frame, along with the
// byte length of its active range.
func (p *TransformBlockPool) EachActive(fn func(index int, block *metadata.UniformBlock, activeLenBytes uint32)) {
	for i, block := range p.blocks {
		if lenBytes, ok := p.ActiveRange(i); ok {
			fn(i, block, lenBytes)
		}
	}
}
