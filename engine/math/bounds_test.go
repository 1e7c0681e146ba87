package math

import "testing"

func TestExtents3DCorners(t *testing.T) {
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	corners := e.Corners()
	if len(corners) != 8 {
		t.Fatalf("expected 8 corners, got %d", len(corners))
	}
	var min, max Vec3 = corners[0], corners[0]
	for _, c := range corners[1:] {
		min = Vec3{X: kminf(min.X, c.X), Y: kminf(min.Y, c.Y), Z: kminf(min.Z, c.Z)}
		max = Vec3{X: kmaxf(max.X, c.X), Y: kmaxf(max.Y, c.Y), Z: kmaxf(max.Z, c.Z)}
	}
	if min != e.Min || max != e.Max {
		t.Fatalf("corners do not reconstruct bounds: min=%v max=%v", min, max)
	}
}

func TestExtents3DMerge(t *testing.T) {
	a := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	b := Extents3D{Min: Vec3{X: 0, Y: 0, Z: 0}, Max: Vec3{X: 5, Y: 5, Z: 5}}
	merged := a.Merge(b)
	want := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 5, Y: 5, Z: 5}}
	if merged != want {
		t.Fatalf("Merge() = %+v, want %+v", merged, want)
	}
}

func TestExtents3DTransformedByIdentity(t *testing.T) {
	e := Extents3D{Min: Vec3{X: -2, Y: -3, Z: -4}, Max: Vec3{X: 2, Y: 3, Z: 4}}
	out := e.TransformedBy(NewMat4Identity())
	if out.Min != e.Min || out.Max != e.Max {
		t.Fatalf("identity transform changed bounds: got %+v, want %+v", out, e)
	}
}

func TestExtents3DTransformedByTranslation(t *testing.T) {
	e := Extents3D{Min: Vec3{X: -1, Y: -1, Z: -1}, Max: Vec3{X: 1, Y: 1, Z: 1}}
	translate := NewMat4Translation(Vec3{X: 10, Y: 0, Z: 0})
	out := e.TransformedBy(translate)
	want := Extents3D{Min: Vec3{X: 9, Y: -1, Z: -1}, Max: Vec3{X: 11, Y: 1, Z: 1}}
	if out != want {
		t.Fatalf("translated bounds = %+v, want %+v", out, want)
	}
}
