package sorter

import (
	stdmath "math"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/renderer/components"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/resources"
	"github.com/spaghettifunk/anima/engine/scene"
)

// maxCullDepth bounds the scene-graph depth a single Cull traversal expects;
// a deeper graph still culls correctly but most likely means an accidental
// cycle or a generated graph that should be flattened, so it is logged once.
const maxCullDepth = 64

// RenderSorter turns one frame's scene graph into draw calls: Cull collects
// the visible drawables under a frustum, Validate resolves their shaders and
// packs their transforms, and Submit walks the result issuing draw calls
// while eliding redundant pipeline-state changes.
type RenderSorter interface {
	Clear()
	Cull(root *scene.Node, frustum Frustum, mask PlaneMask)
	Validate(state *RenderState, gpu Renderer) error
	Submit(state *RenderState, gpu Renderer) error
}

// baseSorter implements the traversal and transform-packing machinery
// shared by MainSceneSorter and ShadowSorter. A concrete sorter embeds it
// and supplies acceptPass to steer which passes it collects.
type baseSorter struct {
	pool      *Pool
	collected []*Renderable

	// acceptPass decides whether pass belongs to this sorter's output; nil
	// accepts every drawable pass.
	acceptPass func(data *metadata.RenderData, pass *metadata.RenderPass) bool

	depthWarned bool
}

func newBaseSorter() baseSorter {
	return baseSorter{pool: NewPool()}
}

// Clear rewinds the Renderable pool and the flat collected list for a new
// frame, without freeing any backing storage.
func (s *baseSorter) Clear() {
	s.pool.Clear()
	s.collected = s.collected[:0]
}

// Cull walks root depth-first, skipping disabled subtrees and anything
// fully outside frustum, and appends one Renderable per accepted drawable
// pass it finds to the collected list.
func (s *baseSorter) Cull(root *scene.Node, frustum Frustum, mask PlaneMask) {
	s.cullNode(root, frustum, mask, 0)
}

func (s *baseSorter) cullNode(node *scene.Node, frustum Frustum, mask PlaneMask, depth int) {
	if !node.Enabled {
		return
	}
	if depth > maxCullDepth && !s.depthWarned {
		s.depthWarned = true
		core.LogWarn("scene graph depth exceeds %d at node %q; check for an unintended cycle", maxCullDepth, node.Name)
	}
	bounds, hasVolume := node.WorldBounds()
	nextMask := mask
	if hasVolume {
		result, updated := frustum.Classify(bounds, mask)
		if result == ClassifyOutside {
			return
		}
		nextMask = updated
	}

	if comp, ok := node.Component(scene.TagRenderData); ok {
		if data, ok := comp.(*metadata.RenderData); ok && data.Drawable() {
			s.collectRenderData(node, data)
		}
	}

	for _, child := range node.Children() {
		s.cullNode(child, frustum, nextMask, depth+1)
	}
}

func (s *baseSorter) collectRenderData(node *scene.Node, data *metadata.RenderData) {
	world := node.Transform().GetWorld()
	for i := 0; ; i++ {
		pass := data.Pass(i)
		if pass == nil {
			break
		}
		if pass.Modes.RenderMask() == metadata.RenderMaskNone {
			continue
		}
		if s.acceptPass != nil && !s.acceptPass(data, pass) {
			continue
		}
		r := s.pool.Alloc()
		r.Mesh = data.Mesh
		r.RenderData = data
		r.RenderPass = pass
		r.Material = pass.Material
		r.Shader = pass.Shader()
		r.RenderModes = pass.Modes
		r.WorldMatrix = world
		r.HasBones = data.Mesh != nil && data.Mesh.HasBones
		s.collected = append(s.collected, r)
	}
}

// resolveShader makes sure r.Shader is set, asking state.ShaderManager (and,
// through it, the scene's shader-generation hook) for one if the pass has
// none resolved yet.
func resolveShader(r *Renderable, state *RenderState) {
	if r.Shader != nil && !r.RenderPass.IsDirty() {
		return
	}
	if state.ShaderManager == nil {
		return
	}
	shader := state.ShaderManager.SelectShader(r.RenderPass)
	if shader == nil {
		return
	}
	r.Shader = shader
	r.RenderPass.SetShader(shader)
	r.RenderPass.ClearDirty()
}

// distanceFromCamera returns the squared distance from the camera position
// to the renderable's world-space origin, used as the transparent
// back-to-front sort key (compareAt ignores it for opaque Renderables).
func distanceFromCamera(r *Renderable, camera *components.Camera) float32 {
	origin := math.Vec3{X: r.WorldMatrix.Data[12], Y: r.WorldMatrix.Data[13], Z: r.WorldMatrix.Data[14]}
	d := origin.Sub(camera.GetPosition())
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// packTransform resolves r's shader, computes its matrix-program outputs,
// reserves a slice of the active transform block and writes them, and
// records the world*view-proj MVP on the Renderable.
func packTransform(r *Renderable, state *RenderState) error {
	resolveShader(r, state)
	if r.Shader == nil || !r.Shader.UsesMatrixUniforms() {
		r.MVP = state.ViewProj(0).Mul(r.WorldMatrix)
		return nil
	}

	inputs := metadata.MatrixCalcInputs{
		metadata.MatrixInputModel:           r.WorldMatrix,
		metadata.MatrixInputProjection:       state.Matrices[SlotProjection],
		metadata.MatrixInputLeftView:         state.Matrices[SlotView],
		metadata.MatrixInputLeftViewProj:     state.Matrices[SlotViewProj],
		metadata.MatrixInputInverseLeftView:  state.Matrices[SlotViewInverse],
		metadata.MatrixInputLeftMVP:          state.Matrices[SlotViewProj].Mul(r.WorldMatrix),
	}
	if state.IsStereo {
		inputs[metadata.MatrixInputRightView] = state.Matrices[SlotView+1]
		inputs[metadata.MatrixInputRightViewProj] = state.Matrices[SlotViewProj+1]
		inputs[metadata.MatrixInputInverseRightView] = state.Matrices[SlotViewInverse+1]
		inputs[metadata.MatrixInputRightMVP] = state.Matrices[SlotViewProj+1].Mul(r.WorldMatrix)
	}

	n := r.Shader.GetOutputBufferSize()
	if n <= 0 {
		r.MVP = state.ViewProj(0).Mul(r.WorldMatrix)
		return nil
	}
	outputs := make([]math.Mat4, n)
	r.Shader.CalcMatrix(inputs, outputs)

	block, offset, err := state.TransformBlocks.Reserve(uint32(n))
	if err != nil {
		return err
	}
	if err := block.SetRange(offset, uint32(n), mat4SliceToBytes(outputs)); err != nil {
		return err
	}
	r.TransformBlock = block
	r.MatrixOffset = offset
	r.NumMatrices = uint32(n)
	r.MVP = outputs[0]
	return nil
}

func mat4SliceToBytes(mats []math.Mat4) []byte {
	out := make([]byte, 0, len(mats)*64)
	for _, m := range mats {
		for _, f := range m.Data {
			bits := stdmath.Float32bits(f)
			out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
		}
	}
	return out
}

// submitOne issues the draw calls for a single Renderable, asking gpu to
// diff pipeline state against cur and updating cur to match.
func submitOne(r *Renderable, state *RenderState, gpu Renderer, cur *currentState) error {
	if r.Shader != nil && r.Shader.ID != cur.shaderID {
		if err := gpu.BindShader(r.Shader.ID); err != nil {
			return err
		}
		cur.shaderID = r.Shader.ID
	}
	if !cur.hasModes || !cur.modes.Equal(r.RenderModes) {
		if err := gpu.ApplyModeDiff(cur.modes, r.RenderModes); err != nil {
			return err
		}
		cur.modes = r.RenderModes
		cur.hasModes = true
	}
	if r.Material != cur.material {
		if err := gpu.BindMaterial(r.Material); err != nil {
			return err
		}
		cur.material = r.Material
	}
	if r.Mesh != cur.mesh {
		if err := gpu.BindMesh(r.Mesh); err != nil {
			return err
		}
		cur.mesh = r.Mesh
	}
	if r.Shader != nil && r.TransformBlock != nil {
		if err := gpu.BindTransformBlock(r.Shader.ID, r.TransformBlock, r.MatrixOffset, r.NumMatrices); err != nil {
			return err
		}
	}
	if r.Shader != nil && r.RenderModes.UseLight() && state.LightsBlock != nil {
		var shadowMap *resources.Texture
		if state.ActiveShadowMap != nil {
			shadowMap = state.ActiveShadowMap.DestinationTexture
		}
		if err := gpu.BindLights(r.Shader.ID, state.LightsBlock, shadowMap); err != nil {
			return err
		}
	}

	if r.Mesh == nil {
		return nil
	}
	stats := gpu.Stats()
	stats.DrawCalls++
	switch {
	case r.Mesh.IndexSize == 4:
		stats.Triangles += int(r.Mesh.IndexCount / 3)
		return gpu.DrawIndexed32(r.Mesh.IndexCount)
	case r.Mesh.IndexSize == 2:
		stats.Triangles += int(r.Mesh.IndexCount / 3)
		return gpu.DrawIndexed16(r.Mesh.IndexCount)
	default:
		stats.Triangles += int(r.Mesh.VertexCount / 3)
		return gpu.DrawArrays(r.Mesh.VertexCount)
	}
}

// currentState tracks the last-bound shader/material/mesh/modes during a
// submit pass so consecutive Renderables that share state skip re-binding.
type currentState struct {
	shaderID uint32
	material *metadata.Material
	mesh     *metadata.Mesh
	modes    metadata.RenderModes
	hasModes bool
}
