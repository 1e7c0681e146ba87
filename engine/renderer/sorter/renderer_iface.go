package sorter

import (
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/resources"
)

// Viewport is a pixel-space render rectangle.
type Viewport struct {
	X, Y, Width, Height int32
}

// Renderer is the core's view of the graphics backend: the set of
// primitives the sorter needs to validate and submit a frame, without
// knowing anything about the underlying graphics API. A host backend
// (GL, Vulkan, ...) implements it; the core neither owns nor constructs
// GPU resources beyond what this interface exposes.
type Renderer interface {
	metadata.GPUBinder

	// MaxUniformBlockSize and MaxArrayFloats report device limits used to
	// clamp uniform block and transform block allocation.
	MaxUniformBlockSize() uint32
	MaxArrayFloats() uint32

	// CreateTransformBlock allocates a GPU-backed uniform buffer sized for
	// numMatrices mat4 slots.
	CreateTransformBlock(numMatrices uint32) error

	// PushMaterial and PushMesh ask the backend to upload any pending CPU
	// state for a material or mesh (textures, vertex/index buffers).
	PushMaterial(mat *metadata.Material) error
	PushMesh(data *metadata.RenderData) error

	// BindShader activates shaderID as the current program.
	BindShader(shaderID uint32) error
	// BindMaterial binds a material's uniform block and textures.
	BindMaterial(mat *metadata.Material) error
	// BindMesh binds a mesh's vertex/index buffers.
	BindMesh(mesh *metadata.Mesh) error
	// BindTransformBlock binds the subrange of block holding a single
	// Renderable's packed matrices (matrixOffset mat4 slots in, numMatrices
	// long) to shaderID's transform uniform binding point.
	BindTransformBlock(shaderID uint32, block *metadata.UniformBlock, matrixOffset, numMatrices uint32) error
	// BindLights binds the scene's merged light uniform block, and the
	// active shadow map texture if any, to shaderID's light binding point.
	// Called only for passes with RenderModes.UseLight() set.
	BindLights(shaderID uint32, lights *metadata.UniformBlock, shadowMap *resources.Texture) error
	// ApplyModeDiff emits the pipeline-state commands needed to move from
	// old to next (restoring anything old set that next does not).
	ApplyModeDiff(old, next metadata.RenderModes) error

	// DrawIndexed16/DrawIndexed32 issue an indexed draw call with the given
	// index count; DrawArrays issues a non-indexed array draw.
	DrawIndexed16(indexCount uint32) error
	DrawIndexed32(indexCount uint32) error
	DrawArrays(vertexCount uint32) error

	// Stats returns the frame counters draw calls increment.
	Stats() *Stats

	// BindFramebuffer makes tex the current colour target, or the default
	// swapchain framebuffer if tex is nil.
	BindFramebuffer(tex *resources.Texture) error
	// SetViewport sets the active viewport and returns the one it replaced.
	SetViewport(v Viewport) Viewport
	// Clear clears the requested buffers of the current framebuffer.
	Clear(color, depth, stencil bool) error
}

// Stats accumulates per-frame submission counters.
type Stats struct {
	DrawCalls int
	Triangles int
}

// Reset zeroes the counters, called once per frame before cull.
func (s *Stats) Reset() { *s = Stats{} }
