package sorter

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

func renderableWith(order metadata.RenderOrder, dist float32) *Renderable {
	modes := metadata.DefaultRenderModes()
	modes.SetRenderOrder(order)
	return &Renderable{RenderModes: modes, DistanceFromCamera: dist}
}

func TestMergeSortOrdersByRenderOrderBucket(t *testing.T) {
	items := []*Renderable{
		renderableWith(metadata.RenderOrderTransparent, 5),
		renderableWith(metadata.RenderOrderGeometry, 2),
		renderableWith(metadata.RenderOrderGeometry, 1),
		renderableWith(metadata.RenderOrderBackground, 0),
	}
	out := mergeSort(items, []SortLevel{LevelRenderOrder, LevelDistance})

	wantOrders := []metadata.RenderOrder{
		metadata.RenderOrderBackground,
		metadata.RenderOrderGeometry,
		metadata.RenderOrderGeometry,
		metadata.RenderOrderTransparent,
	}
	for i, want := range wantOrders {
		if got := out[i].RenderModes.RenderOrder(); got != want {
			t.Fatalf("out[%d].RenderOrder() = %v, want %v", i, got, want)
		}
	}
}

func TestMergeSortOpaqueIgnoresDistanceFallsThroughToShader(t *testing.T) {
	// Two opaque renderables with the same render order but different
	// distances and shader ids: LevelDistance must report no difference for
	// opaque geometry, so LevelShader (not distance) decides the order.
	far := renderableWith(metadata.RenderOrderGeometry, 100)
	far.Shader = &metadata.Shader{ID: 1}
	near := renderableWith(metadata.RenderOrderGeometry, 1)
	near.Shader = &metadata.Shader{ID: 2}

	out := mergeSort([]*Renderable{near, far}, []SortLevel{LevelRenderOrder, LevelDistance, LevelShader})

	// far has the lower shader id, so it must sort first; if LevelDistance
	// were still acting as a primary key for opaque geometry, near (the
	// closer one) would come first instead.
	if out[0] != far || out[1] != near {
		t.Fatalf("opaque order was driven by distance instead of falling through to shader id")
	}
}

func TestMergeSortTransparentBackToFront(t *testing.T) {
	items := []*Renderable{
		renderableWith(metadata.RenderOrderTransparent, 1),
		renderableWith(metadata.RenderOrderTransparent, 5),
		renderableWith(metadata.RenderOrderTransparent, 3),
	}
	out := mergeSort(items, []SortLevel{LevelRenderOrder, LevelDistance})
	if out[0].DistanceFromCamera != 5 || out[1].DistanceFromCamera != 3 || out[2].DistanceFromCamera != 1 {
		t.Fatalf("transparent bucket not sorted back-to-front: %v, %v, %v",
			out[0].DistanceFromCamera, out[1].DistanceFromCamera, out[2].DistanceFromCamera)
	}
}

func TestPromoteTransparentMovesAlphaBlendedGeometry(t *testing.T) {
	modes := metadata.DefaultRenderModes()
	modes.SetRenderOrder(metadata.RenderOrderGeometry)
	modes.SetAlphaBlend(true)
	r := &Renderable{RenderModes: modes}

	promoteTransparent(r)

	if got := r.RenderModes.RenderOrder(); got != metadata.RenderOrderTransparent {
		t.Fatalf("promoteTransparent did not promote: RenderOrder() = %v", got)
	}
}

func TestPromoteTransparentLeavesOpaqueGeometryAlone(t *testing.T) {
	modes := metadata.DefaultRenderModes()
	modes.SetRenderOrder(metadata.RenderOrderGeometry)
	r := &Renderable{RenderModes: modes}

	promoteTransparent(r)

	if got := r.RenderModes.RenderOrder(); got != metadata.RenderOrderGeometry {
		t.Fatalf("promoteTransparent moved opaque geometry: RenderOrder() = %v", got)
	}
}
