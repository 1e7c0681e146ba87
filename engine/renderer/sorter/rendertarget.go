package sorter

import (
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/resources"
	"github.com/spaghettifunk/anima/engine/scene"
)

// RenderTarget binds together a camera rig, the projection(s) it renders
// with, an owned RenderState, and the RenderSorter that actually produces a
// render tree from the scene. A RenderTarget may be the main output (no
// shadow map) or a shadow-casting light's target, in which case
// enabled/layerIndex implement metadata.ShadowMap so a Light can reference
// it without the metadata package importing sorter.
type RenderTarget struct {
	Name string

	Rig         *scene.CameraRig
	ProjLeft    math.Mat4
	ProjRight   math.Mat4
	SampleCount uint32

	Width, Height int32

	// DestinationTexture is this target's own output framebuffer, or nil
	// for the default swapchain framebuffer.
	DestinationTexture *resources.Texture

	// PostEffects, when non-empty, names the ping-pong chain of
	// screen-space passes applied to this target's scene render before the
	// result reaches its destination framebuffer.
	PostEffects []*metadata.RenderPass

	State  *RenderState
	Sorter RenderSorter

	enabled    bool
	layerIndex int
}

// NewRenderTarget builds a RenderTarget around rig, rendering with sorter
// and packing matrices matricesPerBlock at a time.
func NewRenderTarget(name string, rig *scene.CameraRig, sorter RenderSorter, matricesPerBlock uint32) *RenderTarget {
	return &RenderTarget{
		Name:       name,
		Rig:        rig,
		State:      NewRenderState(matricesPerBlock),
		Sorter:     sorter,
		layerIndex: -1,
	}
}

// Enabled reports whether this target is an active shadow map.
func (t *RenderTarget) Enabled() bool { return t.enabled }

// LayerIndex returns the shadow-map array layer assigned to this target, or
// -1 if none.
func (t *RenderTarget) LayerIndex() int { return t.layerIndex }

// SetLayerIndex records the shadow-map array layer assigned to this target.
func (t *RenderTarget) SetLayerIndex(i int) { t.layerIndex = i }

// SetEnabled marks this target as an active (or inactive) shadow map.
func (t *RenderTarget) SetEnabled(on bool) { t.enabled = on }

// BeginRendering initializes the render state for scn from this target's
// camera rig and projections, clearing the per-frame Renderable and
// transform-block pools owned by the sorter.
func (t *RenderTarget) BeginRendering(scn *scene.Scene) {
	t.State.Init(scn, t.Rig, t.ProjLeft, t.ProjRight)
	t.State.ActiveShadowMap = nil
	t.State.SampleCount = t.SampleCount
	t.Sorter.Clear()
}

// CullFromCamera walks scn's root, testing each node's world bounds against
// the view-projection frustum and collecting surviving drawables into the
// sorter's Renderable pool.
func (t *RenderTarget) CullFromCamera(scn *scene.Scene) {
	frustum := NewFrustum(t.State.ViewProj(0))
	t.Sorter.Cull(scn.Root, frustum, 0)
}

// Render validates (resolves shaders, packs transforms, computes MVPs),
// pushes every transform block touched this frame to the GPU, then submits
// the surviving Renderables, issuing draw calls through gpu.
func (t *RenderTarget) Render(gpu Renderer) error {
	if err := t.Sorter.Validate(t.State, gpu); err != nil {
		return err
	}

	if t.State.Lights != nil {
		block, err := t.State.Lights.UpdateLights(&t.State.LightsBlock)
		if err != nil {
			return err
		}
		if block != nil {
			if err := block.UpdateGPU(gpu, 0, uint32(len(block.GetData()))); err != nil {
				return err
			}
		}
	}

	sceneMatrices := mat4SliceToBytes(t.State.Matrices[:NumSceneMatrices])
	var uploadErr error
	t.State.TransformBlocks.EachActive(func(_ int, block *metadata.UniformBlock, activeLenBytes uint32) {
		if uploadErr != nil {
			return
		}
		if uploadErr = block.SetRange(0, NumSceneMatrices, sceneMatrices); uploadErr != nil {
			return
		}
		uploadErr = block.UpdateGPU(gpu, 0, activeLenBytes)
	})
	if uploadErr != nil {
		return uploadErr
	}
	return t.Sorter.Submit(t.State, gpu)
}

// EndRendering is a hook point for backend frame-end bookkeeping (present,
// resolve MSAA, ...); the core itself has no per-target teardown.
func (t *RenderTarget) EndRendering() {}
