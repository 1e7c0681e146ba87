package sorter

import (
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// ShadowSorter is the RenderSorter used to render a light's shadow map: it
// only collects shadow-casting RenderData, replaces every Renderable's
// shader and pipeline state with the owning scene's depth shader/material
// (rigid or skinned, by HasBones), and sorts solely by mesh to cut down on
// vertex-buffer rebinds.
type ShadowSorter struct {
	baseSorter
	tree []*Renderable

	// SelectDepthShader returns the shader used to render into the depth/
	// shadow target for a mesh with (or without) bone weights.
	SelectDepthShader func(hasBones bool) *metadata.Shader

	// DepthMaterial and DepthModes are shared across every shadow draw;
	// shadow passes carry no per-object material state of their own.
	DepthMaterial *metadata.Material
	DepthModes    metadata.RenderModes
}

// NewShadowSorter returns a ShadowSorter that collects only RenderData
// marked CastShadow.
func NewShadowSorter() *ShadowSorter {
	s := &ShadowSorter{baseSorter: newBaseSorter()}
	s.acceptPass = func(data *metadata.RenderData, pass *metadata.RenderPass) bool {
		return data.CastShadow
	}
	s.DepthModes = metadata.DefaultRenderModes()
	s.DepthModes.SetAlphaBlend(false)
	return s
}

// Clear rewinds the pool, collected list and sorted tree.
func (s *ShadowSorter) Clear() {
	s.baseSorter.Clear()
	s.tree = s.tree[:0]
}

// Validate ensures the scene's depth shaders exist, rewrites every
// collected Renderable onto the shared depth material/modes and the
// HasBones-appropriate depth shader, and packs its transform.
func (s *ShadowSorter) Validate(state *RenderState, gpu Renderer) error {
	if state.Scene != nil {
		if err := state.Scene.EnsureDepthShaders(); err != nil {
			return err
		}
	}
	for _, r := range s.collected {
		if s.SelectDepthShader != nil {
			r.Shader = s.SelectDepthShader(r.HasBones)
		}
		r.Material = s.DepthMaterial
		r.RenderModes = s.DepthModes
		if err := packTransform(r, state); err != nil {
			return err
		}
	}
	s.tree = mergeSort(s.collected, []SortLevel{LevelMesh})
	return nil
}

// Submit walks the mesh-sorted list, eliding redundant shader/mesh binds.
func (s *ShadowSorter) Submit(state *RenderState, gpu Renderer) error {
	var cur currentState
	for _, r := range s.tree {
		if err := submitOne(r, state, gpu, &cur); err != nil {
			return err
		}
	}
	return nil
}

var _ RenderSorter = (*ShadowSorter)(nil)
