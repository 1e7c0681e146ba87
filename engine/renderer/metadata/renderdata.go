package metadata

// RenderData is attached to a scene node; it references a Mesh and owns an
// ordered list of RenderPasses, pass 0 being primary. A node with RenderData
// whose Mesh is nil is never drawn; every pass must reference a live
// material to be considered for submission.
type RenderData struct {
	Mesh       *Mesh
	Passes     []*RenderPass
	CastShadow bool

	dirty bool
}

// NewRenderData attaches mesh with a single primary pass.
func NewRenderData(mesh *Mesh, primary *RenderPass) *RenderData {
	return &RenderData{
		Mesh:       mesh,
		Passes:     []*RenderPass{primary},
		CastShadow: true,
	}
}

// AddPass appends an additional render pass.
func (d *RenderData) AddPass(p *RenderPass) {
	d.Passes = append(d.Passes, p)
	d.dirty = true
}

// Pass returns the i-th pass, or nil if out of range.
func (d *RenderData) Pass(i int) *RenderPass {
	if i < 0 || i >= len(d.Passes) {
		return nil
	}
	return d.Passes[i]
}

// Drawable reports whether this RenderData has a mesh and at least one pass
// with a non-zero render mask, the minimal bar for cull to allocate a
// Renderable for it.
func (d *RenderData) Drawable() bool {
	if d == nil || d.Mesh == nil {
		return false
	}
	for _, p := range d.Passes {
		if p != nil && p.Modes.RenderMask() != RenderMaskNone {
			return true
		}
	}
	return false
}

// IsDirty reports whether any owned pass is dirty.
func (d *RenderData) IsDirty() bool {
	if d.dirty {
		return true
	}
	for _, p := range d.Passes {
		if p.IsDirty() {
			return true
		}
	}
	return false
}

// ClearDirty clears the RenderData's own dirty bit (pass dirty bits are
// cleared individually once each pass's shader is confirmed valid).
func (d *RenderData) ClearDirty() { d.dirty = false }
