package math

// Corners returns the 8 corners of the extents in no particular winding
// order, used by frustum classification and bounds merging.
func (e Extents3D) Corners() [8]Vec3 {
	return [8]Vec3{
		{e.Min.X, e.Min.Y, e.Min.Z},
		{e.Max.X, e.Min.Y, e.Min.Z},
		{e.Min.X, e.Max.Y, e.Min.Z},
		{e.Max.X, e.Max.Y, e.Min.Z},
		{e.Min.X, e.Min.Y, e.Max.Z},
		{e.Max.X, e.Min.Y, e.Max.Z},
		{e.Min.X, e.Max.Y, e.Max.Z},
		{e.Max.X, e.Max.Y, e.Max.Z},
	}
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return Vec3{
		X: (e.Min.X + e.Max.X) * 0.5,
		Y: (e.Min.Y + e.Max.Y) * 0.5,
		Z: (e.Min.Z + e.Max.Z) * 0.5,
	}
}

// Empty reports whether the extents have never been grown from their
// zero value (Min == Max == zero is treated as empty by callers that
// track validity separately via a bool).
func (e Extents3D) Empty() bool {
	return e.Min == Vec3{} && e.Max == Vec3{}
}

// Merge returns the smallest extents containing both e and other.
func (e Extents3D) Merge(other Extents3D) Extents3D {
	return Extents3D{
		Min: Vec3{
			X: kminf(e.Min.X, other.Min.X),
			Y: kminf(e.Min.Y, other.Min.Y),
			Z: kminf(e.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: kmaxf(e.Max.X, other.Max.X),
			Y: kmaxf(e.Max.Y, other.Max.Y),
			Z: kmaxf(e.Max.Z, other.Max.Z),
		},
	}
}

// MergePoint grows e, if necessary, so that p lies within it.
func (e Extents3D) MergePoint(p Vec3) Extents3D {
	return Extents3D{
		Min: Vec3{kminf(e.Min.X, p.X), kminf(e.Min.Y, p.Y), kminf(e.Min.Z, p.Z)},
		Max: Vec3{kmaxf(e.Max.X, p.X), kmaxf(e.Max.Y, p.Y), kmaxf(e.Max.Z, p.Z)},
	}
}

// TransformedBy returns the axis-aligned extents enclosing e after every
// corner has been transformed by m.
func (e Extents3D) TransformedBy(m Mat4) Extents3D {
	corners := e.Corners()
	out := Extents3D{Min: corners[0].Transform(m), Max: corners[0].Transform(m)}
	for i := 1; i < len(corners); i++ {
		out = out.MergePoint(corners[i].Transform(m))
	}
	return out
}

func kminf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func kmaxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
