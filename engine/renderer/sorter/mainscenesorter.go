package sorter

import (
	"sort"
	"unsafe"

	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// SortLevel names one key the main scene sorter orders Renderables by, most
// significant first.
type SortLevel int

const (
	LevelRenderOrder SortLevel = iota
	LevelDistance
	LevelShader
	LevelMesh
	LevelMaterial
	LevelMode
)

// DefaultLevelOrder is the level order used when a MainSceneSorter is built
// with NewMainSceneSorter: render order, then distance (transparent only;
// see compareAt), then shader, mesh and material.
var DefaultLevelOrder = []SortLevel{LevelRenderOrder, LevelDistance, LevelShader, LevelMesh, LevelMaterial}

// MainSceneSorter is the primary RenderSorter: it collects every drawable
// pass in the scene, validates their shaders and transforms, stable-sorts
// them into a flat slice ordered by Levels, and submits that slice with
// pipeline-state elision. No linked render tree is built.
type MainSceneSorter struct {
	baseSorter
	Levels []SortLevel
	tree   []*Renderable
}

// NewMainSceneSorter returns a MainSceneSorter ordering by levels (or
// DefaultLevelOrder if levels is empty).
func NewMainSceneSorter(levels ...SortLevel) *MainSceneSorter {
	if len(levels) == 0 {
		levels = DefaultLevelOrder
	}
	return &MainSceneSorter{baseSorter: newBaseSorter(), Levels: levels}
}

// Clear rewinds the pool, collected list and sorted tree.
func (s *MainSceneSorter) Clear() {
	s.baseSorter.Clear()
	s.tree = s.tree[:0]
}

// Validate resolves every collected Renderable's shader and packs its
// transform, marking geometry-order transparent materials promoted to the
// transparent bucket per material alpha-blend state.
func (s *MainSceneSorter) Validate(state *RenderState, gpu Renderer) error {
	for _, r := range s.collected {
		resolveShader(r, state)
		promoteTransparent(r)
		if err := packTransform(r, state); err != nil {
			return err
		}
		r.DistanceFromCamera = distanceFromCamera(r, state.Camera)
	}
	s.tree = mergeSort(s.collected, s.Levels)
	return nil
}

// promoteTransparent moves a geometry-order pass using alpha blending into
// the transparent render-order bucket, so it sorts and draws after opaque
// geometry regardless of the author's declared order.
func promoteTransparent(r *Renderable) {
	if r.RenderModes.RenderOrder() != metadata.RenderOrderGeometry {
		return
	}
	if !r.RenderModes.AlphaBlend() {
		return
	}
	r.RenderModes.SetRenderOrder(metadata.RenderOrderTransparent)
}

// Submit walks the sorted slice, eliding redundant shader/material/
// mesh/pipeline-state binds between consecutive draws.
func (s *MainSceneSorter) Submit(state *RenderState, gpu Renderer) error {
	var cur currentState
	for _, r := range s.tree {
		if err := submitOne(r, state, gpu, &cur); err != nil {
			return err
		}
	}
	return nil
}

// compareAt returns a and b's ordering at level. LevelDistance only orders
// transparent Renderables, back-to-front; for opaque geometry it reports no
// difference so the next level (shader, then mesh, then material) decides
// the order and state-elision grouping is preserved.
func compareAt(a, b *Renderable, level SortLevel) int {
	switch level {
	case LevelRenderOrder:
		return int(a.RenderModes.RenderOrder()) - int(b.RenderModes.RenderOrder())
	case LevelDistance:
		transparent := a.RenderModes.RenderOrder() >= metadata.RenderOrderTransparent
		if !transparent {
			return 0
		}
		// back-to-front
		if a.DistanceFromCamera > b.DistanceFromCamera {
			return -1
		} else if a.DistanceFromCamera < b.DistanceFromCamera {
			return 1
		}
		return 0
	case LevelShader:
		return shaderID(a) - shaderID(b)
	case LevelMesh:
		return int(meshID(a)) - int(meshID(b))
	case LevelMaterial:
		ka, kb := materialKey(a.Material), materialKey(b.Material)
		if ka < kb {
			return -1
		} else if ka > kb {
			return 1
		}
		return 0
	case LevelMode:
		// descending
		if a.RenderModes.RenderFlags() > b.RenderModes.RenderFlags() {
			return -1
		} else if a.RenderModes.RenderFlags() < b.RenderModes.RenderFlags() {
			return 1
		}
		return 0
	}
	return 0
}

func shaderID(r *Renderable) int {
	if r.Shader == nil {
		return -1
	}
	return int(r.Shader.ID)
}

func meshID(r *Renderable) uint32 {
	if r.Mesh == nil {
		return 0
	}
	return r.Mesh.UniqueID
}

// materialKey gives materials a stable, cheap-to-compare identity key so the
// material sort level groups (and only groups) draws sharing one material.
func materialKey(m *metadata.Material) uintptr {
	return uintptr(unsafe.Pointer(m))
}

// mergeSort produces a flat, level-ordered slice of Renderables. It is a
// stable sort over the configured levels, most significant first; ties at
// every level preserve cull order.
func mergeSort(items []*Renderable, levels []SortLevel) []*Renderable {
	out := make([]*Renderable, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for _, level := range levels {
			c := compareAt(a, b, level)
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

var _ RenderSorter = (*MainSceneSorter)(nil)
