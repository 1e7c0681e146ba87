package sorter

import (
	"github.com/spaghettifunk/anima/engine/math"
)

// PlaneIndex names one of the six frustum planes, and also indexes the bit
// position used by the inherited "fully inside" plane mask during cull.
type PlaneIndex int

const (
	PlaneRight PlaneIndex = iota
	PlaneLeft
	PlaneBottom
	PlaneTop
	PlaneFar
	PlaneNear
	numPlanes
)

// PlaneMask records, for a node and everything below it, which planes the
// node's bounding volume was already found to be fully inside; descendants
// skip testing those planes.
type PlaneMask uint8

// Inside reports whether the mask already recorded plane p as fully inside.
func (m PlaneMask) Inside(p PlaneIndex) bool { return m&(1<<uint(p)) != 0 }

// With returns a copy of m with plane p marked fully inside.
func (m PlaneMask) With(p PlaneIndex) PlaneMask { return m | (1 << uint(p)) }

// allPlanesMask is set when every plane has been marked fully inside.
const allPlanesMask PlaneMask = (1 << uint(numPlanes)) - 1

// Frustum is the six half-space planes of a camera's view-projection
// matrix, extracted by taking sums/differences of the matrix's last row
// with each other row and normalizing by the length of each plane's xyz.
type Frustum struct {
	Planes [numPlanes]math.Plane
}

// NewFrustum extracts the six clip planes from a view-projection matrix.
// engine/math multiplies row vectors by Mat4 (translation in Data[12..14]),
// so row r of the equivalent column-vector matrix is vp.Data[r],
// vp.Data[4+r], vp.Data[8+r], vp.Data[12+r].
func NewFrustum(vp math.Mat4) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{vp.Data[i], vp.Data[4+i], vp.Data[8+i], vp.Data[12+i]}
	}
	last := row(3)

	combine := func(sign float32, other [4]float32) math.Plane {
		p := math.Plane{
			Normal: math.Vec3{
				X: last[0] + sign*other[0],
				Y: last[1] + sign*other[1],
				Z: last[2] + sign*other[2],
			},
			Distance: last[3] + sign*other[3],
		}
		return p.Normalized()
	}

	r0, r1, r2 := row(0), row(1), row(2)

	var f Frustum
	f.Planes[PlaneRight] = combine(-1, r0)
	f.Planes[PlaneLeft] = combine(1, r0)
	f.Planes[PlaneBottom] = combine(1, r1)
	f.Planes[PlaneTop] = combine(-1, r1)
	f.Planes[PlaneFar] = combine(-1, r2)
	f.Planes[PlaneNear] = combine(1, r2)
	return f
}

// ClassifyResult is the outcome of testing a bounding volume against the
// frustum.
type ClassifyResult int

const (
	ClassifyOutside ClassifyResult = iota
	ClassifyInside
	ClassifyIntersect
)

// Classify tests bounds against every plane not already marked inside by
// mask, scanning all 8 corners per plane. It returns the combined result
// and an updated mask recording any newly-discovered fully-inside planes
// (so descendants can skip redundant tests).
func (f Frustum) Classify(bounds math.Extents3D, mask PlaneMask) (ClassifyResult, PlaneMask) {
	if mask == allPlanesMask {
		return ClassifyInside, mask
	}
	corners := bounds.Corners()
	result := ClassifyInside
	newMask := mask

	for pi := PlaneIndex(0); pi < numPlanes; pi++ {
		if mask.Inside(pi) {
			continue
		}
		plane := f.Planes[pi]
		allOutside := true
		allInside := true
		for _, c := range corners {
			d := plane.SignedDistance(c)
			if d >= 0 {
				allOutside = false
			} else {
				allInside = false
			}
		}
		if allOutside {
			return ClassifyOutside, newMask
		}
		if allInside {
			newMask = newMask.With(pi)
		} else {
			result = ClassifyIntersect
		}
	}
	return result, newMask
}
