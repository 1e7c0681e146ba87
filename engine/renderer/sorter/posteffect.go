package sorter

import (
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/resources"
	"github.com/spaghettifunk/anima/engine/scene"
)

// postEffectQuadMesh is the shared full-screen quad Mesh every post-effect
// pass draws, built on demand the first time one is needed.
var postEffectQuadMesh *metadata.Mesh

// postEffectQuad returns the lazily-built Mesh used by every post-effect
// pass: a 6-vertex non-indexed draw (VertexCount 6, IndexSize 0). The Mesh
// carries only these counts; it holds no vertex positions or texture
// coordinates of its own.
func postEffectQuad() *metadata.Mesh {
	if postEffectQuadMesh == nil {
		postEffectQuadMesh = &metadata.Mesh{VertexCount: 6, IndexSize: 0}
	}
	return postEffectQuadMesh
}

// PostEffectSorter is the single-Renderable RenderSorter used to submit one
// pass of the post-effect chain: a full-screen quad, textured with the
// previous pass's output, drawn with lighting and depth testing off.
type PostEffectSorter struct {
	baseSorter
}

// NewPostEffectSorter returns an empty post-effect sorter.
func NewPostEffectSorter() *PostEffectSorter {
	return &PostEffectSorter{baseSorter: newBaseSorter()}
}

// Cull is a no-op: the post-effect sorter's single Renderable is supplied
// directly by Prepare, not discovered by walking a scene graph.
func (s *PostEffectSorter) Cull(*scene.Node, Frustum, PlaneMask) {}

// Prepare builds this pass's single synthetic Renderable: pass's material
// bound to inputTexture under "u_texture", lighting and depth test forced
// off and culling disabled, drawing the shared full-screen quad.
func (s *PostEffectSorter) Prepare(pass *metadata.RenderPass, inputTexture *resources.Texture) {
	s.collected = s.collected[:0]
	s.pool.Clear()

	if pass.Material != nil {
		pass.Material.SetTexture("u_texture", inputTexture)
	}

	modes := pass.Modes
	modes.SetUseLight(false)
	modes.SetDepthTest(false)
	modes.SetCullFace(metadata.FaceCullModeNone)

	r := s.pool.Alloc()
	r.Mesh = postEffectQuad()
	r.Material = pass.Material
	r.Shader = pass.Shader()
	r.RenderPass = pass
	r.RenderModes = modes
	s.collected = append(s.collected, r)
}

// Validate resolves the single Renderable's shader if unset. It packs no
// transform: the Renderable's MVP and TransformBlock stay unset.
func (s *PostEffectSorter) Validate(state *RenderState, gpu Renderer) error {
	for _, r := range s.collected {
		resolveShader(r, state)
	}
	return nil
}

// Submit issues the single draw call for this pass.
func (s *PostEffectSorter) Submit(state *RenderState, gpu Renderer) error {
	var cur currentState
	for _, r := range s.collected {
		if err := submitOne(r, state, gpu, &cur); err != nil {
			return err
		}
	}
	return nil
}

var _ RenderSorter = (*PostEffectSorter)(nil)
