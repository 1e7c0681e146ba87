package sorter

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/math"
)

func orthoFrustum() Frustum {
	proj := math.NewMat4Orthographic(-1, 1, -1, 1, 0, 100)
	view := math.NewMat4Identity()
	return NewFrustum(proj.Mul(view))
}

func TestFrustumClassifyInside(t *testing.T) {
	f := orthoFrustum()
	bounds := math.Extents3D{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -20}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: -10}}
	result, _ := f.Classify(bounds, 0)
	if result != ClassifyInside {
		t.Fatalf("Classify() = %v, want ClassifyInside", result)
	}
}

func TestFrustumClassifyOutside(t *testing.T) {
	f := orthoFrustum()
	bounds := math.Extents3D{Min: math.Vec3{X: 100, Y: 100, Z: 10}, Max: math.Vec3{X: 200, Y: 200, Z: 20}}
	result, _ := f.Classify(bounds, 0)
	if result != ClassifyOutside {
		t.Fatalf("Classify() = %v, want ClassifyOutside", result)
	}
}

func TestFrustumClassifyIntersect(t *testing.T) {
	f := orthoFrustum()
	bounds := math.Extents3D{Min: math.Vec3{X: 0.5, Y: -0.5, Z: -20}, Max: math.Vec3{X: 5, Y: 0.5, Z: -10}}
	result, _ := f.Classify(bounds, 0)
	if result != ClassifyIntersect {
		t.Fatalf("Classify() = %v, want ClassifyIntersect", result)
	}
}

func TestFrustumInheritedMaskSkipsPlanes(t *testing.T) {
	f := orthoFrustum()
	bounds := math.Extents3D{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -20}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: -10}}
	_, mask := f.Classify(bounds, 0)
	if mask == 0 {
		t.Fatalf("expected some planes marked fully inside for a small bounds deep in frustum")
	}
	// With every plane already marked inside, Classify must short-circuit
	// to Inside regardless of the bounds passed.
	outside := math.Extents3D{Min: math.Vec3{X: 1000, Y: 1000, Z: 1000}, Max: math.Vec3{X: 2000, Y: 2000, Z: 2000}}
	result, _ := f.Classify(outside, allPlanesMask)
	if result != ClassifyInside {
		t.Fatalf("Classify() with allPlanesMask = %v, want ClassifyInside (short-circuit)", result)
	}
}
