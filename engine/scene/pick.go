package scene

import (
	"sort"

	"github.com/spaghettifunk/anima/engine/math"
)

// PickResult is one node hit by a Pick ray, ordered by Distance from the
// ray's origin (the nearest hit first), mirroring the original engine's
// pickClosest/pickScene pair collapsed into a single sorted list.
type PickResult struct {
	Node     *Node
	Distance float32
}

// Pick walks root depth-first and returns every enabled node whose own
// local volume, transformed by its world matrix, the ray intersects,
// nearest first. Nodes with no local volume of their own never match,
// whatever their descendants hold, and a disabled node's whole subtree is
// skipped.
func Pick(root *Node, ray math.Ray) []PickResult {
	var hits []PickResult
	pickNode(root, ray, &hits)
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// PickClosest is a convenience wrapper around Pick returning only the
// nearest hit, matching the original engine's pickClosest entry point.
func PickClosest(root *Node, ray math.Ray) (PickResult, bool) {
	hits := Pick(root, ray)
	if len(hits) == 0 {
		return PickResult{}, false
	}
	return hits[0], true
}

func pickNode(node *Node, ray math.Ray, hits *[]PickResult) {
	if !node.Enabled {
		return
	}
	if node.hasVolume {
		bounds := node.localVolume.TransformedBy(node.transform.GetWorld())
		if t, hit := ray.IntersectAABB(bounds); hit {
			*hits = append(*hits, PickResult{Node: node, Distance: t})
		}
	}
	for _, child := range node.Children() {
		pickNode(child, ray, hits)
	}
}
