package metadata

import "github.com/spaghettifunk/anima/engine/resources"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

// MaterialDirtyBits flags what changed on a Material since it was last
// pushed to the GPU or used to (re)generate a shader.
type MaterialDirtyBits uint8

const (
	// MaterialDirtyNewTexture is set when a texture was bound under a name
	// the material did not previously have; this invalidates any shader
	// generated against the material's prior texture set.
	MaterialDirtyNewTexture MaterialDirtyBits = 1 << iota
	// MaterialDirtyModTexture is set when an already-bound texture slot was
	// replaced with a different texture of the same name.
	MaterialDirtyModTexture
	// MaterialDirtyData is set when a uniform value changed.
	MaterialDirtyData
)

// Material, also called ShaderData, is a named bag of shader parameters: a
// UniformBlock of scalar/vector values plus a name->Texture mapping. It is
// shared by reference between RenderPasses.
type Material struct {
	Name        string
	Transparent bool

	uniforms *UniformBlock
	textures map[string]*resources.Texture
	dirty    MaterialDirtyBits
}

// NewMaterial builds a Material whose uniform block is described by
// descriptor (see UniformBlock for the grammar).
func NewMaterial(name, descriptor string) (*Material, error) {
	block, err := NewUniformBlock(descriptor, 1)
	if err != nil {
		return nil, err
	}
	return &Material{
		Name:     name,
		uniforms: block,
		textures: make(map[string]*resources.Texture),
	}, nil
}

// Uniforms returns the material's parameter block.
func (m *Material) Uniforms() *UniformBlock { return m.uniforms }

// SetTexture binds tex under name, raising MaterialDirtyNewTexture if the
// name was not previously bound or MaterialDirtyModTexture if it replaces a
// different texture.
func (m *Material) SetTexture(name string, tex *resources.Texture) {
	prev, existed := m.textures[name]
	m.textures[name] = tex
	switch {
	case !existed:
		m.dirty |= MaterialDirtyNewTexture
	case prev != tex:
		m.dirty |= MaterialDirtyModTexture
	}
}

// Texture returns the texture bound under name, if any.
func (m *Material) Texture(name string) (*resources.Texture, bool) {
	t, ok := m.textures[name]
	return t, ok
}

// TextureNames returns the set of names with a bound texture, in map
// iteration order, which is not defined (callers that need a stable
// iteration order should sort this).
func (m *Material) TextureNames() []string {
	names := make([]string, 0, len(m.textures))
	for n := range m.textures {
		names = append(names, n)
	}
	return names
}

// MarkDataDirty flags that a uniform value changed, independent of texture
// bindings.
func (m *Material) MarkDataDirty() { m.dirty |= MaterialDirtyData }

// DirtyBits returns the accumulated dirty flags since the last ClearDirty.
func (m *Material) DirtyBits() MaterialDirtyBits { return m.dirty }

// HasNewTexture reports whether a never-before-seen texture name was bound
// since the last ClearDirty; this alone is enough to force shader
// regeneration, since the generated shader source enumerates texture slots.
func (m *Material) HasNewTexture() bool { return m.dirty&MaterialDirtyNewTexture != 0 }

// ClearDirty resets the dirty bits, typically after UpdateGPU and, if the
// material carried MaterialDirtyNewTexture, after shader regeneration.
func (m *Material) ClearDirty() { m.dirty = 0 }

// UpdateGPU pushes the material's uniform block to the GPU when it is dirty.
func (m *Material) UpdateGPU(renderer GPUBinder) error {
	if m.uniforms.IsDirty() {
		if err := m.uniforms.UpdateGPU(renderer, 0, m.uniforms.TotalSize()); err != nil {
			return err
		}
	}
	m.dirty &^= MaterialDirtyData
	return nil
}

type MaterialShaderUniformLocations struct {
	Projection      uint16
	View            uint16
	AmbientColour   uint16
	ViewPosition    uint16
	Shininess       uint16
	DiffuseColour   uint16
	DiffuseTexture  uint16
	SpecularTexture uint16
	NormalTexture   uint16
	Model           uint16
	RenderMode      uint16
}

type UIShaderUniformLocations struct {
	Projection     uint16
	View           uint16
	DiffuseColour  uint16
	DiffuseTexture uint16
	Model          uint16
}

/** @brief The configuration for the material system. */
type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. */
	MaxMaterialCount uint32
}

type MaterialReference struct {
	ReferenceCount uint64
	Handle         uint32
	AutoRelease    bool
}
