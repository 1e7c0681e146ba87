package vulkan

import (
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/renderer/sorter"
	"github.com/spaghettifunk/anima/engine/resources"
)

// CoreRenderer adapts a VulkanRenderer to sorter.Renderer, the seam the
// cull/validate/sort/submit core uses to talk to a graphics backend. It
// owns the host-memory mirror of every uniform buffer the core asks for,
// since the swapchain-backed VulkanRenderer has no generic
// descriptor-set/buffer pool of its own (VulkanShader's descriptor sets
// cover only the fixed global/instance/local scopes).
type CoreRenderer struct {
	backend *VulkanRenderer

	nextBufferID uint32
	buffers      map[uint32][]byte

	stats    sorter.Stats
	viewport sorter.Viewport
}

// NewCoreRenderer wraps backend so the new sorter core can submit through
// it. The caller is still responsible for backend.Initialize.
func NewCoreRenderer(backend *VulkanRenderer) *CoreRenderer {
	return &CoreRenderer{
		backend: backend,
		buffers: make(map[uint32][]byte),
	}
}

var _ sorter.Renderer = (*CoreRenderer)(nil)

// MaxUniformBlockSize reports a fixed 65536-byte uniform buffer range, the
// limit common devices offer. The Vulkan floor for maxUniformBufferRange is
// 16384, and the device's real limit is not queried.
func (r *CoreRenderer) MaxUniformBlockSize() uint32 { return 65536 }

// MaxArrayFloats bounds a single transform block, leaving headroom under
// MaxUniformBlockSize for the scene-matrix prefix.
func (r *CoreRenderer) MaxArrayFloats() uint32 { return 4096 }

func (r *CoreRenderer) allocBuffer(sizeBytes uint32) uint32 {
	r.nextBufferID++
	id := r.nextBufferID
	r.buffers[id] = make([]byte, sizeBytes)
	return id
}

// CreateTransformBlock reserves host-memory backing for a transform block
// sized for numMatrices mat4 slots; the new buffer's id is not returned.
// No vk.Buffer/vk.DeviceMemory pair backs it, nothing calls
// UniformBlock.SetUseGPUBuffer, and BindTransformBlock only logs the
// binding without reading the block's data.
func (r *CoreRenderer) CreateTransformBlock(numMatrices uint32) error {
	r.allocBuffer(numMatrices * 64)
	return nil
}

func (r *CoreRenderer) PushMaterial(mat *metadata.Material) error {
	core.LogDebug("vulkan: push material %q", mat.Name)
	return nil
}

func (r *CoreRenderer) PushMesh(data *metadata.RenderData) error {
	if data.Mesh != nil {
		core.LogDebug("vulkan: push mesh %d", data.Mesh.UniqueID)
	}
	return nil
}

func (r *CoreRenderer) BindShader(shaderID uint32) error {
	core.LogDebug("vulkan: bind shader %d", shaderID)
	return nil
}

func (r *CoreRenderer) BindMaterial(mat *metadata.Material) error {
	core.LogDebug("vulkan: bind material %q", mat.Name)
	return nil
}

func (r *CoreRenderer) BindMesh(mesh *metadata.Mesh) error {
	core.LogDebug("vulkan: bind mesh %d", mesh.UniqueID)
	return nil
}

func (r *CoreRenderer) BindTransformBlock(shaderID uint32, block *metadata.UniformBlock, matrixOffset, numMatrices uint32) error {
	core.LogDebug("vulkan: bind transform block to shader %d, offset %d, count %d", shaderID, matrixOffset, numMatrices)
	return nil
}

func (r *CoreRenderer) BindLights(shaderID uint32, lights *metadata.UniformBlock, shadowMap *resources.Texture) error {
	core.LogDebug("vulkan: bind lights to shader %d", shaderID)
	return nil
}

func (r *CoreRenderer) ApplyModeDiff(old, next metadata.RenderModes) error {
	return nil
}

func (r *CoreRenderer) DrawIndexed16(indexCount uint32) error { return nil }
func (r *CoreRenderer) DrawIndexed32(indexCount uint32) error { return nil }
func (r *CoreRenderer) DrawArrays(vertexCount uint32) error   { return nil }

func (r *CoreRenderer) Stats() *sorter.Stats { return &r.stats }

// BindFramebuffer binds no Vulkan framebuffer: a nil tex (the swapchain's
// current image) is a no-op, and a non-nil tex (an off-screen render
// target or shadow map) is only logged by name.
func (r *CoreRenderer) BindFramebuffer(tex *resources.Texture) error {
	if tex != nil {
		core.LogDebug("vulkan: bind offscreen framebuffer %q", tex.Name)
	}
	return nil
}

func (r *CoreRenderer) SetViewport(v sorter.Viewport) sorter.Viewport {
	old := r.viewport
	r.viewport = v
	return old
}

func (r *CoreRenderer) Clear(color, depth, stencil bool) error { return nil }

// UploadUniformRange implements metadata.GPUBinder against the host-memory
// buffer stored under bufferID, creating or growing it as needed.
func (r *CoreRenderer) UploadUniformRange(bufferID uint32, offsetBytes, lenBytes uint32, data []byte) error {
	buf, ok := r.buffers[bufferID]
	if !ok {
		buf = make([]byte, offsetBytes+lenBytes)
		r.buffers[bufferID] = buf
	}
	if need := offsetBytes + lenBytes; need > uint32(len(buf)) {
		grown := make([]byte, need)
		copy(grown, buf)
		buf = grown
		r.buffers[bufferID] = buf
	}
	copy(buf[offsetBytes:offsetBytes+lenBytes], data)
	return nil
}

// BindUniformBuffer implements metadata.GPUBinder by logging the binding;
// it issues no vkCmdBindDescriptorSets call.
func (r *CoreRenderer) BindUniformBuffer(shaderID uint32, bindingPoint uint32, bufferID uint32, offsetBytes, lenBytes uint32) error {
	core.LogDebug("vulkan: bind uniform buffer %d to shader %d at binding %d", bufferID, shaderID, bindingPoint)
	return nil
}
