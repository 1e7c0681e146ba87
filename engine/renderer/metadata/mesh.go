package metadata

import (
	"github.com/spaghettifunk/anima/engine/math"
)

// Also used as result_data from job.
type MeshLoadParams struct {
	ResourceName string
	OutMesh      *Mesh
	MeshResource *Resource
}

type Mesh struct {
	UniqueID      uint32
	Generation    uint8
	GeometryCount uint16
	Geometries    []*Geometry
	Transform     *math.Transform

	// VertexCount, IndexCount and IndexSize describe the mesh's draw call
	// shape: IndexSize is 0 for a non-indexed array draw, 2 for a uint16
	// index buffer, 4 for a uint32 one.
	VertexCount uint32
	IndexCount  uint32
	IndexSize   uint8

	// HasBones indicates the mesh carries skinning weights, used by the
	// shadow sorter to pick between the skinned and rigid depth shaders.
	HasBones bool
}

// Bounds returns the mesh's local-space bounding volume, the union of every
// geometry's center/extents.
func (m *Mesh) Bounds() math.Extents3D {
	if len(m.Geometries) == 0 {
		return math.Extents3D{}
	}
	out := m.Geometries[0].Extents
	for _, g := range m.Geometries[1:] {
		if g == nil {
			continue
		}
		out = out.Merge(g.Extents)
	}
	return out
}
