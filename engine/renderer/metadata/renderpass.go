package metadata

// RenderPass is one draw configuration: a material, a shader id, and a
// RenderModes value. It is dirty if its material, shader id, or modes have
// changed since the last time the owning shader was (re)generated.
type RenderPass struct {
	Material *Material
	ShaderID uint32
	Modes    RenderModes

	shader *Shader // resolved lazily by the sorter via a shader-lookup callback
	dirty  bool
}

// NewRenderPass creates a pass bound to material with default render modes.
func NewRenderPass(material *Material, shaderID uint32) *RenderPass {
	return &RenderPass{
		Material: material,
		ShaderID: shaderID,
		Modes:    DefaultRenderModes(),
		dirty:    true,
	}
}

// SetMaterial rebinds the pass to a different material, marking it dirty.
func (p *RenderPass) SetMaterial(m *Material) {
	if p.Material != m {
		p.Material = m
		p.dirty = true
	}
}

// SetShaderID rebinds the pass to a different shader id, marking it dirty
// and clearing the resolved shader pointer so it is re-selected.
func (p *RenderPass) SetShaderID(id uint32) {
	if p.ShaderID != id {
		p.ShaderID = id
		p.shader = nil
		p.dirty = true
	}
}

// Shader returns the last resolved shader for this pass, or nil if it has
// not been resolved (or was invalidated) since the last dirty marking.
func (p *RenderPass) Shader() *Shader { return p.shader }

// SetShader records the resolved shader for this pass.
func (p *RenderPass) SetShader(s *Shader) { p.shader = s }

// IsDirty reports whether the pass (including its RenderModes) has changed
// since the shader was last (re)generated, or the material gained a texture
// under a name it did not previously have.
func (p *RenderPass) IsDirty() bool {
	if p.dirty || p.Modes.IsDirty() {
		return true
	}
	if p.Material != nil && p.Material.HasNewTexture() {
		return true
	}
	return false
}

// MarkDirty forces regeneration on the next validate pass, e.g. when the
// scene's light signature has changed.
func (p *RenderPass) MarkDirty() { p.dirty = true }

// ClearDirty resets the pass and modes dirty bits after a successful
// shader (re)generation.
func (p *RenderPass) ClearDirty() {
	p.dirty = false
	p.Modes.ClearDirty()
}
