package scene

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/math"
)

func unitBox() math.Extents3D {
	return math.Extents3D{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func TestNodeWithNoVolumeHasNoWorldBounds(t *testing.T) {
	n := NewNode("empty")
	if _, ok := n.WorldBounds(); ok {
		t.Fatal("WorldBounds() ok = true for a node with no volume and no children")
	}
}

func TestNodeWorldBoundsFromOwnVolume(t *testing.T) {
	n := NewNode("leaf")
	n.SetLocalVolume(unitBox())

	bounds, ok := n.WorldBounds()
	if !ok {
		t.Fatal("WorldBounds() ok = false, want true")
	}
	if bounds.Min != unitBox().Min || bounds.Max != unitBox().Max {
		t.Fatalf("WorldBounds() = %v, want %v", bounds, unitBox())
	}
}

func TestNodeWorldBoundsMergesChildren(t *testing.T) {
	parent := NewNode("parent")
	left := NewNode("left")
	right := NewNode("right")

	left.SetLocalVolume(unitBox())
	right.Transform().SetPosition(math.Vec3{X: 10, Y: 0, Z: 0})
	right.SetLocalVolume(unitBox())

	parent.AddChild(left)
	parent.AddChild(right)

	bounds, ok := parent.WorldBounds()
	if !ok {
		t.Fatal("WorldBounds() ok = false, want true")
	}
	if bounds.Min.X != -1 || bounds.Max.X != 11 {
		t.Fatalf("merged bounds X range = [%v, %v], want [-1, 11]", bounds.Min.X, bounds.Max.X)
	}
}

func TestNodeWorldBoundsCachedUntilDirtied(t *testing.T) {
	n := NewNode("leaf")
	n.SetLocalVolume(unitBox())
	first, _ := n.WorldBounds()

	// Mutating the volume without going through SetLocalVolume/DirtyBounds
	// would not be visible; this confirms the cache is actually consulted
	// (no recomputation happens) until we dirty it explicitly.
	n.localVolume = math.Extents3D{Min: math.Vec3{X: -5, Y: -5, Z: -5}, Max: math.Vec3{X: 5, Y: 5, Z: 5}}
	cached, _ := n.WorldBounds()
	if cached != first {
		t.Fatalf("WorldBounds() changed without DirtyBounds(): got %v, want cached %v", cached, first)
	}

	n.DirtyBounds()
	recomputed, _ := n.WorldBounds()
	if recomputed == first {
		t.Fatal("WorldBounds() did not recompute after DirtyBounds()")
	}
}

func TestNodeAddChildDirtiesAncestorChain(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	root.AddChild(mid)

	root.worldBoundsDirty = false
	mid.worldBoundsDirty = false

	leaf := NewNode("leaf")
	leaf.SetLocalVolume(unitBox())
	mid.AddChild(leaf)

	if !mid.worldBoundsDirty {
		t.Fatal("AddChild did not dirty the immediate parent")
	}
	if !root.worldBoundsDirty {
		t.Fatal("AddChild did not propagate dirty up to the root")
	}
}

func TestNodeRemoveChildReparentsAndDirties(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	if child.Parent() != parent {
		t.Fatal("AddChild did not set the child's parent")
	}

	if !parent.RemoveChild(child) {
		t.Fatal("RemoveChild() = false, want true")
	}
	if child.Parent() != nil {
		t.Fatal("RemoveChild() did not clear the child's parent")
	}
	if len(parent.Children()) != 0 {
		t.Fatalf("len(Children()) = %d, want 0", len(parent.Children()))
	}
}

func TestNodeAddChildReparentsFromPreviousParent(t *testing.T) {
	oldParent := NewNode("old")
	newParent := NewNode("new")
	child := NewNode("child")

	oldParent.AddChild(child)
	newParent.AddChild(child)

	if child.Parent() != newParent {
		t.Fatal("AddChild did not reparent the child to the new parent")
	}
	if len(oldParent.Children()) != 0 {
		t.Fatalf("old parent still has %d children, want 0", len(oldParent.Children()))
	}
}

func TestNodeAttachDetachComponent(t *testing.T) {
	n := NewNode("n")
	if _, ok := n.Component(TagLight); ok {
		t.Fatal("Component() found something before Attach")
	}

	n.Attach(TagLight, "a light")
	v, ok := n.Component(TagLight)
	if !ok || v != "a light" {
		t.Fatalf("Component() = %v, %v, want %q, true", v, ok, "a light")
	}

	n.Detach(TagLight)
	if _, ok := n.Component(TagLight); ok {
		t.Fatal("Component() found something after Detach")
	}
}

func TestNodeWalkVisitsDepthFirstInDeclarationOrder(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	a1 := NewNode("a1")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var order []string
	root.Walk(func(n *Node) { order = append(order, n.Name) })

	want := []string{"root", "a", "a1", "b"}
	if len(order) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Walk() = %v, want %v", order, want)
		}
	}
}

func TestNodeClearLocalVolumeKeepsChildBounds(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.SetLocalVolume(unitBox())
	parent.AddChild(child)
	child.SetLocalVolume(unitBox())

	parent.ClearLocalVolume()

	bounds, ok := parent.WorldBounds()
	if !ok {
		t.Fatal("WorldBounds() ok = false after clearing own volume but keeping a child with one")
	}
	if bounds.Min != unitBox().Min || bounds.Max != unitBox().Max {
		t.Fatalf("WorldBounds() = %v, want the child's bounds %v", bounds, unitBox())
	}
}
