package math

import "testing"

func TestRayIntersectAABBHitsAlongAxis(t *testing.T) {
	r := Ray{Origin: Vec3{X: 0, Y: 0, Z: -10}, Direction: Vec3{X: 0, Y: 0, Z: 1}}
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	t0, hit := r.IntersectAABB(e)
	if !hit {
		t.Fatal("IntersectAABB() hit = false, want true")
	}
	if t0 != 9 {
		t.Fatalf("IntersectAABB() t = %v, want 9", t0)
	}
}

func TestRayIntersectAABBMissesParallelOffset(t *testing.T) {
	r := Ray{Origin: Vec3{X: 10, Y: 10, Z: -10}, Direction: Vec3{X: 0, Y: 0, Z: 1}}
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	if _, hit := r.IntersectAABB(e); hit {
		t.Fatal("IntersectAABB() hit = true, want false")
	}
}

func TestRayIntersectAABBOriginInsideHitsAtZero(t *testing.T) {
	r := Ray{Origin: Vec3{X: 0, Y: 0, Z: 0}, Direction: Vec3{X: 0, Y: 0, Z: 1}}
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	t0, hit := r.IntersectAABB(e)
	if !hit {
		t.Fatal("IntersectAABB() hit = false, want true")
	}
	if t0 != 0 {
		t.Fatalf("IntersectAABB() t = %v, want 0", t0)
	}
}

func TestRayIntersectAABBPointsAway(t *testing.T) {
	r := Ray{Origin: Vec3{X: 0, Y: 0, Z: -10}, Direction: Vec3{X: 0, Y: 0, Z: -1}}
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	if _, hit := r.IntersectAABB(e); hit {
		t.Fatal("IntersectAABB() hit = true for a ray pointing away from the box, want false")
	}
}

func TestRayIntersectAABBDiagonal(t *testing.T) {
	r := Ray{Origin: Vec3{X: -5, Y: -5, Z: -5}, Direction: Vec3{X: 1, Y: 1, Z: 1}}
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}

	t0, hit := r.IntersectAABB(e)
	if !hit {
		t.Fatal("IntersectAABB() hit = false, want true")
	}
	if t0 != 4 {
		t.Fatalf("IntersectAABB() t = %v, want 4", t0)
	}
}
