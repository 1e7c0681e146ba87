package sorter

import (
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/renderer/components"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/scene"
)

// MatrixSlot indexes RenderState.Matrices. Stereo quantities occupy a base
// slot for the left eye and base+1 for the right; PROJECTION and MODEL have
// no eye-specific copy.
type MatrixSlot int

const (
	SlotViewProj     MatrixSlot = 0 // +1 = right eye
	SlotProjection   MatrixSlot = 2
	SlotView         MatrixSlot = 3 // +1 = right eye
	SlotViewInverse  MatrixSlot = 5 // +1 = right eye
	SlotModel        MatrixSlot = 7
	SlotMVP          MatrixSlot = 8 // +1 = right eye
	MaxMatrixSlots              = 10
)

// RenderMask selects which eye(s) the current draw targets; re-exported
// here under the RenderState-facing name used by the spec.
type RenderMask = metadata.RenderMask

// RenderState holds everything a RenderTarget needs for one frame's worth
// of cull/validate/sort/submit: the camera and scene being rendered, the
// fixed-slot matrix array, stereo/shadow flags, and the transform block
// currently being packed into.
type RenderState struct {
	Scene  *scene.Scene
	Camera *components.Camera

	ShaderManager ShaderResolver

	Matrices [MaxMatrixSlots]math.Mat4

	ActiveShadowMap *RenderTarget

	IsStereo    bool
	IsMultiview bool
	IsShadow    bool

	URight       uint32 // 0 or 1
	URenderMask  RenderMask
	SampleCount  uint32

	TransformBlocks *TransformBlockPool
	Lights          *metadata.LightList
	LightsBlock     *metadata.UniformBlock
}

// ShaderResolver looks up (and, through the scene's GenerateShader hook,
// regenerates) the shader for a render pass.
type ShaderResolver interface {
	SelectShader(pass *metadata.RenderPass) *metadata.Shader
}

// NewRenderState returns a zeroed RenderState with its own transform block
// pool sized for matricesPerBlock mat4 slots.
func NewRenderState(matricesPerBlock uint32) *RenderState {
	return &RenderState{
		TransformBlocks: NewTransformBlockPool(matricesPerBlock),
		URenderMask:     metadata.RenderMaskBoth,
	}
}

// Init captures the camera's projection/view (mono or stereo pair) and
// their inverses and view-projection products into the matrix slot array,
// and clears the per-frame transform block pool.
func (s *RenderState) Init(scn *scene.Scene, rig *scene.CameraRig, projLeft, projRight math.Mat4) {
	s.Scene = scn
	s.Camera = rig.Left
	s.IsStereo = rig.IsStereo()
	s.Lights = scn.Lights

	viewLeft := rig.Left.GetView()
	s.Matrices[SlotProjection] = projLeft
	s.Matrices[SlotView] = viewLeft
	s.Matrices[SlotViewInverse] = viewLeft.Inverse()
	s.Matrices[SlotViewProj] = projLeft.Mul(viewLeft)

	if s.IsStereo {
		viewRight := rig.Right.GetView()
		s.Matrices[SlotView+1] = viewRight
		s.Matrices[SlotViewInverse+1] = viewRight.Inverse()
		s.Matrices[SlotViewProj+1] = projRight.Mul(viewRight)
	}

	s.TransformBlocks.Reset()
}

// ViewProj returns the view-projection matrix for the given eye (0 = left
// or mono, 1 = right).
func (s *RenderState) ViewProj(eye int) math.Mat4 {
	return s.Matrices[int(SlotViewProj)+eye]
}
