package metadata

import "testing"

func TestLightListDescriptorSortedByClass(t *testing.T) {
	ll := NewLightList()
	p1, _ := NewLight("PointLight", "vec3 color float intensity")
	p2, _ := NewLight("PointLight", "vec3 color float intensity")
	d1, _ := NewLight("DirectLight", "vec3 color vec3 direction")
	ll.Add(p1)
	ll.Add(p2)
	ll.Add(d1)

	if got, want := ll.Descriptor(), "DirectLight1PointLight2"; got != want {
		t.Fatalf("Descriptor() = %q, want %q", got, want)
	}
}

func TestLightListRemoveReassignsIndices(t *testing.T) {
	ll := NewLightList()
	a, _ := NewLight("PointLight", "float x")
	b, _ := NewLight("PointLight", "float x")
	c, _ := NewLight("PointLight", "float x")
	ll.Add(a)
	ll.Add(b)
	ll.Add(c)

	if !ll.Remove(b) {
		t.Fatalf("Remove() = false, want true")
	}
	if a.Index() != 0 || c.Index() != 1 {
		t.Fatalf("indices after removal: a=%d c=%d, want 0, 1", a.Index(), c.Index())
	}
}

func TestLightListUpdateLightsAssignsOffsets(t *testing.T) {
	ll := NewLightList()
	a, _ := NewLight("DirectLight", "vec4 color")
	b, _ := NewLight("DirectLight", "vec4 color")
	ll.Add(a)
	ll.Add(b)

	var shared *UniformBlock
	block, err := ll.UpdateLights(&shared)
	if err != nil {
		t.Fatalf("UpdateLights() error: %v", err)
	}
	if block == nil {
		t.Fatal("UpdateLights() returned nil block")
	}
	if a.BlockOffset() != 0 {
		t.Fatalf("a.BlockOffset() = %d, want 0", a.BlockOffset())
	}
	if b.BlockOffset() != a.TotalSize()/4 {
		t.Fatalf("b.BlockOffset() = %d, want %d", b.BlockOffset(), a.TotalSize()/4)
	}
}

func TestLightListRemoveUnknownLight(t *testing.T) {
	ll := NewLightList()
	stray, _ := NewLight("PointLight", "float x")
	if ll.Remove(stray) {
		t.Fatalf("Remove() on a light never added = true, want false")
	}
}
