package metadata

// RenderOrder buckets draw items into coarse depth-independent groups; items
// are visited in ascending order, and any pass whose order is >= Transparent
// is treated as alpha-blended regardless of its blend flag.
type RenderOrder int32

const (
	RenderOrderStencil     RenderOrder = -1000
	RenderOrderBackground  RenderOrder = 1000
	RenderOrderGeometry    RenderOrder = 2000
	RenderOrderTransparent RenderOrder = 3000
	RenderOrderOverlay     RenderOrder = 4000
)

// DrawMode selects the primitive topology used by a draw call.
type DrawMode uint8

const (
	DrawModeTriangles DrawMode = iota
	DrawModeTriangleStrip
	DrawModeLines
	DrawModeLineStrip
	DrawModePoints
)

// RenderMask selects which stereo eye(s) a pass draws into.
type RenderMask uint8

const (
	RenderMaskNone  RenderMask = 0
	RenderMaskLeft  RenderMask = 1
	RenderMaskRight RenderMask = 2
	RenderMaskBoth  RenderMask = RenderMaskLeft | RenderMaskRight
)

// BlendFunc encodes the subset of blend factors the core cares about for
// state-change bookkeeping; the backend renderer maps these to real API enums.
type BlendFunc uint8

const (
	BlendFuncZero BlendFunc = iota
	BlendFuncOne
	BlendFuncSrcAlpha
	BlendFuncOneMinusSrcAlpha
	BlendFuncDstAlpha
	BlendFuncOneMinusDstAlpha
)

// StencilOp encodes the stencil fail/depth-fail/pass operations.
type StencilOp uint8

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncr
	StencilOpDecr
	StencilOpInvert
)

// StencilFunc encodes the stencil comparison function.
type StencilFunc uint8

const (
	StencilFuncAlways StencilFunc = iota
	StencilFuncNever
	StencilFuncLess
	StencilFuncLEqual
	StencilFuncGreater
	StencilFuncGEqual
	StencilFuncEqual
	StencilFuncNotEqual
)

// renderFlagBit positions within RenderModes.renderFlags, used both as the
// storage for boolean fields and as the MODE sort key (descending 64-bit).
type renderFlagBit uint64

const (
	flagDepthTest renderFlagBit = 1 << iota
	flagDepthMask
	flagAlphaBlend
	flagAlphaToCoverage
	flagLightmap
	flagOffset
	flagInvertCoverage
	flagStencilTest
	flagCastShadows
	flagUseLight
)

// RenderModes is a compact, bit-packed encoding of per-pass pipeline state:
// culling, depth, blending, stencil, polygon offset, draw topology, render
// order and shadow casting. Equality and assignment are bit-level so the
// submit loop can compare two RenderModes values cheaply. Any setter that
// changes a field marks the modes dirty.
type RenderModes struct {
	renderOrder RenderOrder
	cullFace    FaceCullMode
	drawMode    DrawMode
	renderMask  RenderMask

	renderFlags renderFlagBit

	srcBlend    BlendFunc
	dstBlend    BlendFunc
	stencilFunc StencilFunc
	stencilRef  uint8
	stencilMask uint8
	stencilFail StencilOp
	depthFail   StencilOp
	stencilPass StencilOp

	polygonOffsetFactor float32
	polygonOffsetUnits  float32
	sampleCoverage      float32

	dirty bool
}

// DefaultRenderModes returns the baseline pipeline state: depth test and
// depth mask on, back-face culling, triangles, both eyes, geometry order,
// lighting on, everything else off.
func DefaultRenderModes() RenderModes {
	return RenderModes{
		renderOrder: RenderOrderGeometry,
		cullFace:    FaceCullModeBack,
		drawMode:    DrawModeTriangles,
		renderMask:  RenderMaskBoth,
		renderFlags: flagDepthTest | flagDepthMask | flagUseLight,
		srcBlend:    BlendFuncOne,
		dstBlend:    BlendFuncOneMinusSrcAlpha,
		stencilFunc: StencilFuncAlways,
		stencilMask: 0xFF,
		stencilPass: StencilOpKeep,
		stencilFail: StencilOpKeep,
		depthFail:   StencilOpKeep,
	}
}

// Equal reports bit-level equality of the configured state (the dirty bit
// is not compared), used by submit to detect a pipeline state change
// between consecutive draws.
func (m RenderModes) Equal(other RenderModes) bool {
	a, b := m, other
	a.dirty, b.dirty = false, false
	return a == b
}

func (m *RenderModes) flag(bit renderFlagBit) bool { return m.renderFlags&bit != 0 }

func (m *RenderModes) setFlag(bit renderFlagBit, v bool) {
	before := m.renderFlags
	if v {
		m.renderFlags |= bit
	} else {
		m.renderFlags &^= bit
	}
	if m.renderFlags != before {
		m.dirty = true
	}
}

// RenderOrder returns the configured render order bucket.
func (m RenderModes) RenderOrder() RenderOrder { return m.renderOrder }

// SetRenderOrder sets the render order bucket.
func (m *RenderModes) SetRenderOrder(order RenderOrder) {
	if m.renderOrder != order {
		m.renderOrder = order
		m.dirty = true
	}
}

// RenderFlags returns the packed boolean field bits, used as the MODE sort key.
func (m RenderModes) RenderFlags() uint64 { return uint64(m.renderFlags) }

// CullFace returns the configured face-culling mode.
func (m RenderModes) CullFace() FaceCullMode { return m.cullFace }

// SetCullFace sets the face-culling mode.
func (m *RenderModes) SetCullFace(mode FaceCullMode) {
	if m.cullFace != mode {
		m.cullFace = mode
		m.dirty = true
	}
}

// DrawMode returns the configured primitive topology.
func (m RenderModes) DrawMode() DrawMode { return m.drawMode }

// SetDrawMode sets the primitive topology.
func (m *RenderModes) SetDrawMode(mode DrawMode) {
	if m.drawMode != mode {
		m.drawMode = mode
		m.dirty = true
	}
}

// RenderMask returns the configured stereo eye mask.
func (m RenderModes) RenderMask() RenderMask { return m.renderMask }

// SetRenderMask sets the stereo eye mask.
func (m *RenderModes) SetRenderMask(mask RenderMask) {
	if m.renderMask != mask {
		m.renderMask = mask
		m.dirty = true
	}
}

func (m RenderModes) DepthTest() bool    { return m.flag(flagDepthTest) }
func (m *RenderModes) SetDepthTest(v bool) { m.setFlag(flagDepthTest, v) }

func (m RenderModes) DepthMask() bool      { return m.flag(flagDepthMask) }
func (m *RenderModes) SetDepthMask(v bool) { m.setFlag(flagDepthMask, v) }

func (m RenderModes) AlphaBlend() bool      { return m.flag(flagAlphaBlend) }
func (m *RenderModes) SetAlphaBlend(v bool) { m.setFlag(flagAlphaBlend, v) }

func (m RenderModes) AlphaToCoverage() bool      { return m.flag(flagAlphaToCoverage) }
func (m *RenderModes) SetAlphaToCoverage(v bool) { m.setFlag(flagAlphaToCoverage, v) }

func (m RenderModes) Lightmap() bool      { return m.flag(flagLightmap) }
func (m *RenderModes) SetLightmap(v bool) { m.setFlag(flagLightmap, v) }

func (m RenderModes) PolygonOffsetEnabled() bool      { return m.flag(flagOffset) }
func (m *RenderModes) SetPolygonOffsetEnabled(v bool) { m.setFlag(flagOffset, v) }

func (m RenderModes) InvertCoverage() bool      { return m.flag(flagInvertCoverage) }
func (m *RenderModes) SetInvertCoverage(v bool) { m.setFlag(flagInvertCoverage, v) }

func (m RenderModes) StencilTest() bool      { return m.flag(flagStencilTest) }
func (m *RenderModes) SetStencilTest(v bool) { m.setFlag(flagStencilTest, v) }

func (m RenderModes) CastShadows() bool      { return m.flag(flagCastShadows) }
func (m *RenderModes) SetCastShadows(v bool) { m.setFlag(flagCastShadows, v) }

func (m RenderModes) UseLight() bool      { return m.flag(flagUseLight) }
func (m *RenderModes) SetUseLight(v bool) { m.setFlag(flagUseLight, v) }

// SetBlendFunc sets the source/destination blend factors.
func (m *RenderModes) SetBlendFunc(src, dst BlendFunc) {
	if m.srcBlend != src || m.dstBlend != dst {
		m.srcBlend, m.dstBlend = src, dst
		m.dirty = true
	}
}

// BlendFunc returns the source/destination blend factors.
func (m RenderModes) BlendFunc() (src, dst BlendFunc) { return m.srcBlend, m.dstBlend }

// SetStencilFunc sets the stencil comparison function, reference and mask.
func (m *RenderModes) SetStencilFunc(fn StencilFunc, ref, mask uint8) {
	if m.stencilFunc != fn || m.stencilRef != ref || m.stencilMask != mask {
		m.stencilFunc, m.stencilRef, m.stencilMask = fn, ref, mask
		m.dirty = true
	}
}

// SetStencilOp sets the stencil fail/depth-fail/pass operations.
func (m *RenderModes) SetStencilOp(fail, depthFail, pass StencilOp) {
	if m.stencilFail != fail || m.depthFail != depthFail || m.stencilPass != pass {
		m.stencilFail, m.depthFail, m.stencilPass = fail, depthFail, pass
		m.dirty = true
	}
}

// SetPolygonOffset sets the polygon offset factor/units.
func (m *RenderModes) SetPolygonOffset(factor, units float32) {
	if m.polygonOffsetFactor != factor || m.polygonOffsetUnits != units {
		m.polygonOffsetFactor, m.polygonOffsetUnits = factor, units
		m.dirty = true
	}
}

// IsDirty reports whether any setter has changed a field since ClearDirty.
func (m RenderModes) IsDirty() bool { return m.dirty }

// ClearDirty resets the dirty bit.
func (m *RenderModes) ClearDirty() { m.dirty = false }
