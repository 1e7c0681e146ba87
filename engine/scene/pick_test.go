package scene

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/math"
)

func boxAt(center math.Vec3, half float32) math.Extents3D {
	return math.Extents3D{
		Min: math.Vec3{X: center.X - half, Y: center.Y - half, Z: center.Z - half},
		Max: math.Vec3{X: center.X + half, Y: center.Y + half, Z: center.Z + half},
	}
}

func TestPickHitsNodeAlongRay(t *testing.T) {
	root := NewNode("root")
	target := NewNode("target")
	target.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 10})
	target.SetLocalVolume(boxAt(math.Vec3{}, 1))
	root.AddChild(target)

	hits := Pick(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits[0].Node != target {
		t.Fatalf("hits[0].Node = %v, want target", hits[0].Node)
	}
}

func TestPickMissesNodeOffRay(t *testing.T) {
	root := NewNode("root")
	target := NewNode("target")
	target.Transform().SetPosition(math.Vec3{X: 100, Y: 100, Z: 10})
	target.SetLocalVolume(boxAt(math.Vec3{}, 1))
	root.AddChild(target)

	hits := Pick(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	if len(hits) != 0 {
		t.Fatalf("len(hits) = %d, want 0", len(hits))
	}
}

func TestPickOrdersByDistanceNearestFirst(t *testing.T) {
	root := NewNode("root")
	far := NewNode("far")
	near := NewNode("near")
	far.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 20})
	far.SetLocalVolume(boxAt(math.Vec3{}, 1))
	near.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 5})
	near.SetLocalVolume(boxAt(math.Vec3{}, 1))
	root.AddChild(far)
	root.AddChild(near)

	hits := Pick(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Fatalf("hits in order %v, %v, want near then far", hits[0].Node.Name, hits[1].Node.Name)
	}
}

func TestPickSkipsDisabledNodes(t *testing.T) {
	root := NewNode("root")
	target := NewNode("target")
	target.Enabled = false
	target.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 10})
	target.SetLocalVolume(boxAt(math.Vec3{}, 1))
	root.AddChild(target)

	hits := Pick(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	if len(hits) != 0 {
		t.Fatalf("len(hits) = %d, want 0 for a disabled node", len(hits))
	}
}

func TestPickClosestReturnsNearestHit(t *testing.T) {
	root := NewNode("root")
	far := NewNode("far")
	near := NewNode("near")
	far.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 20})
	far.SetLocalVolume(boxAt(math.Vec3{}, 1))
	near.Transform().SetPosition(math.Vec3{X: 0, Y: 0, Z: 5})
	near.SetLocalVolume(boxAt(math.Vec3{}, 1))
	root.AddChild(far)
	root.AddChild(near)

	result, ok := PickClosest(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}})
	if !ok {
		t.Fatal("PickClosest() ok = false, want true")
	}
	if result.Node != near {
		t.Fatalf("PickClosest() = %v, want near", result.Node.Name)
	}
}

func TestPickClosestNoHitsReturnsFalse(t *testing.T) {
	root := NewNode("root")
	if _, ok := PickClosest(root, math.Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}}); ok {
		t.Fatal("PickClosest() ok = true for an empty scene, want false")
	}
}
