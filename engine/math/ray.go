package math

// Ray is a half-line used for scene picking: every point on it is
// Origin + Direction*t for t >= 0. Direction need not be normalized; callers
// that want a distance in world units should normalize it first.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// IntersectAABB tests r against e using the slab method, returning the
// nearest non-negative hit distance t (so the hit point is
// r.Origin + r.Direction*t) and whether the ray hits at all. A ray whose
// origin lies inside e hits at t == 0.
func (r Ray) IntersectAABB(e Extents3D) (float32, bool) {
	tMin := float32(0)
	tMax := float32(posInf)

	axes := [3]struct{ origin, dir, min, max float32 }{
		{r.Origin.X, r.Direction.X, e.Min.X, e.Max.X},
		{r.Origin.Y, r.Direction.Y, e.Min.Y, e.Max.Y},
		{r.Origin.Z, r.Direction.Z, e.Min.Z, e.Max.Z},
	}
	for _, a := range axes {
		if a.dir == 0 {
			if a.origin < a.min || a.origin > a.max {
				return 0, false
			}
			continue
		}
		inv := 1 / a.dir
		t0 := (a.min - a.origin) * inv
		t1 := (a.max - a.origin) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = kmaxf(tMin, t0)
		tMax = kminf(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

const posInf = 1e30
