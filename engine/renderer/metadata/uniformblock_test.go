package metadata

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/math"
)

func TestUniformBlockSetGetRoundTrip(t *testing.T) {
	b, err := NewUniformBlock("vec3 u_colour float u_intensity", 1)
	if err != nil {
		t.Fatalf("NewUniformBlock() error: %v", err)
	}
	if !b.SetVec3("u_colour", math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatal("SetVec3() = false")
	}
	if !b.SetFloat("u_intensity", 0.5) {
		t.Fatal("SetFloat() = false")
	}

	v, ok := b.GetVec3("u_colour")
	if !ok || v != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("GetVec3() = %v, %v", v, ok)
	}
	f, ok := b.GetFloat("u_intensity")
	if !ok || f != 0.5 {
		t.Fatalf("GetFloat() = %v, %v", f, ok)
	}
}

func TestUniformBlockUnknownFieldFails(t *testing.T) {
	b, err := NewUniformBlock("float x", 1)
	if err != nil {
		t.Fatalf("NewUniformBlock() error: %v", err)
	}
	if b.SetFloat("y", 1) {
		t.Fatal("SetFloat() on unknown field = true, want false")
	}
	if _, ok := b.GetFloat("y"); ok {
		t.Fatal("GetFloat() on unknown field = true, want false")
	}
}

func TestUniformBlockMat4RoundTrip(t *testing.T) {
	b, err := NewUniformBlock("mat4 u_model", 1)
	if err != nil {
		t.Fatalf("NewUniformBlock() error: %v", err)
	}
	m := math.NewMat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	if !b.SetMat4("u_model", m) {
		t.Fatal("SetMat4() = false")
	}
	got, ok := b.GetMat4("u_model")
	if !ok || got != m {
		t.Fatalf("GetMat4() = %v, %v, want %v", got, ok, m)
	}
}

func TestUniformBlockSetRangeBounds(t *testing.T) {
	b, err := NewUniformBlock("mat4 m", 4)
	if err != nil {
		t.Fatalf("NewUniformBlock() error: %v", err)
	}
	src := make([]byte, 64*2)
	if err := b.SetRange(3, 2, src); err == nil {
		t.Fatal("SetRange() should fail when elemIndex+count exceeds capacity")
	}
	if err := b.SetRange(1, 2, src); err != nil {
		t.Fatalf("SetRange() in bounds returned error: %v", err)
	}
}
