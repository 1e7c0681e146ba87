package metadata

import "testing"

func TestDefaultRenderModesStartsClean(t *testing.T) {
	m := DefaultRenderModes()
	if m.IsDirty() {
		t.Fatal("DefaultRenderModes() is dirty, want clean")
	}
}

func TestSetRenderOrderMarksDirtyOnlyOnChange(t *testing.T) {
	m := DefaultRenderModes()
	order := m.RenderOrder()

	m.SetRenderOrder(order)
	if m.IsDirty() {
		t.Fatal("setting RenderOrder to its current value marked dirty")
	}

	m.SetRenderOrder(order + 1)
	if !m.IsDirty() {
		t.Fatal("changing RenderOrder did not mark dirty")
	}
}

func TestSetCullFaceMarksDirtyOnlyOnChange(t *testing.T) {
	m := DefaultRenderModes()
	cur := m.CullFace()

	m.SetCullFace(cur)
	if m.IsDirty() {
		t.Fatal("setting CullFace to its current value marked dirty")
	}

	m.SetCullFace(cur + 1)
	if !m.IsDirty() {
		t.Fatal("changing CullFace did not mark dirty")
	}
}

func TestSetDrawModeMarksDirtyOnlyOnChange(t *testing.T) {
	m := DefaultRenderModes()
	cur := m.DrawMode()

	m.SetDrawMode(cur)
	if m.IsDirty() {
		t.Fatal("setting DrawMode to its current value marked dirty")
	}

	m.SetDrawMode(cur + 1)
	if !m.IsDirty() {
		t.Fatal("changing DrawMode did not mark dirty")
	}
}

func TestSetRenderMaskMarksDirtyOnlyOnChange(t *testing.T) {
	m := DefaultRenderModes()
	cur := m.RenderMask()

	m.SetRenderMask(cur)
	if m.IsDirty() {
		t.Fatal("setting RenderMask to its current value marked dirty")
	}

	m.SetRenderMask(cur + 1)
	if !m.IsDirty() {
		t.Fatal("changing RenderMask did not mark dirty")
	}
}

func TestBoolFlagSettersMarkDirty(t *testing.T) {
	cases := []struct {
		name string
		set  func(*RenderModes, bool)
		get  func(RenderModes) bool
	}{
		{"DepthTest", (*RenderModes).SetDepthTest, RenderModes.DepthTest},
		{"DepthMask", (*RenderModes).SetDepthMask, RenderModes.DepthMask},
		{"AlphaBlend", (*RenderModes).SetAlphaBlend, RenderModes.AlphaBlend},
		{"AlphaToCoverage", (*RenderModes).SetAlphaToCoverage, RenderModes.AlphaToCoverage},
		{"Lightmap", (*RenderModes).SetLightmap, RenderModes.Lightmap},
		{"PolygonOffsetEnabled", (*RenderModes).SetPolygonOffsetEnabled, RenderModes.PolygonOffsetEnabled},
		{"InvertCoverage", (*RenderModes).SetInvertCoverage, RenderModes.InvertCoverage},
		{"StencilTest", (*RenderModes).SetStencilTest, RenderModes.StencilTest},
		{"CastShadows", (*RenderModes).SetCastShadows, RenderModes.CastShadows},
		{"UseLight", (*RenderModes).SetUseLight, RenderModes.UseLight},
	}

	for _, c := range cases {
		m := DefaultRenderModes()
		cur := c.get(m)

		c.set(&m, cur)
		if m.IsDirty() {
			t.Fatalf("%s: setting to its current value marked dirty", c.name)
		}

		c.set(&m, !cur)
		if !m.IsDirty() {
			t.Fatalf("%s: flipping the flag did not mark dirty", c.name)
		}
	}
}

func TestClearDirtyResetsFlag(t *testing.T) {
	m := DefaultRenderModes()
	m.SetDepthTest(!m.DepthTest())
	if !m.IsDirty() {
		t.Fatal("expected dirty after a change")
	}
	m.ClearDirty()
	if m.IsDirty() {
		t.Fatal("ClearDirty() did not reset the dirty bit")
	}
}

func TestSetBlendFuncMarksDirtyOnlyOnChange(t *testing.T) {
	m := DefaultRenderModes()
	src, dst := m.BlendFunc()

	m.SetBlendFunc(src, dst)
	if m.IsDirty() {
		t.Fatal("setting BlendFunc to its current value marked dirty")
	}

	m.SetBlendFunc(src+1, dst)
	if !m.IsDirty() {
		t.Fatal("changing BlendFunc did not mark dirty")
	}
}

func TestEqualIgnoresDirtyBit(t *testing.T) {
	a := DefaultRenderModes()
	b := DefaultRenderModes()
	a.SetDepthTest(!a.DepthTest())
	a.ClearDirty()
	b.SetDepthTest(a.DepthTest())

	if !a.Equal(b) {
		t.Fatal("Equal() should compare configured state, not the dirty bit")
	}
}
