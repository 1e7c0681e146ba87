package math

import "testing"

func TestPlaneSignedDistance(t *testing.T) {
	p := Plane{Normal: Vec3{X: 0, Y: 1, Z: 0}, Distance: 0}
	if d := p.SignedDistance(Vec3{X: 0, Y: 5, Z: 0}); d != 5 {
		t.Fatalf("SignedDistance above plane = %v, want 5", d)
	}
	if d := p.SignedDistance(Vec3{X: 0, Y: -5, Z: 0}); d != -5 {
		t.Fatalf("SignedDistance below plane = %v, want -5", d)
	}
}

func TestPlaneNormalized(t *testing.T) {
	p := Plane{Normal: Vec3{X: 0, Y: 2, Z: 0}, Distance: 4}
	n := p.Normalized()
	if n.Normal.Y != 1 {
		t.Fatalf("normalized normal.Y = %v, want 1", n.Normal.Y)
	}
	if n.Distance != 2 {
		t.Fatalf("normalized distance = %v, want 2", n.Distance)
	}
}
