package phys

import "math"

// Ray is a world-space ray with unit (or at least non-zero) direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// PointAt returns the point at parametric distance t along the ray.
func (r Ray) PointAt(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayHit is the nearest intersection found by a cast.
type RayHit struct {
	Collider ColliderHandle
	ToI      float64 // parametric time of impact along the ray
	Point    Vec3
}

// QueryFilter restricts which colliders a cast may hit.
type QueryFilter struct {
	// ExcludeCollider is skipped during the cast; a vehicle casting
	// suspension rays excludes its own hull with it.
	ExcludeCollider ColliderHandle
}

// castRayCollider intersects the ray with a single collider given the pose
// of its owning body. Returns the time of impact and whether a hit exists
// within maxToI. With solid set, a ray starting inside the shape reports a
// hit at t = 0.
func castRayCollider(ray Ray, c *Collider, body *RigidBody, maxToI float64, solid bool) (float64, bool) {
	switch c.Shape {
	case ShapeHalfSpace:
		return castRayHalfSpace(ray, c, body, maxToI, solid)
	case ShapeCuboid:
		return castRayCuboid(ray, c, body, maxToI, solid)
	}
	return 0, false
}

func castRayHalfSpace(ray Ray, c *Collider, body *RigidBody, maxToI float64, solid bool) (float64, bool) {
	n := body.VectorToWorld(c.Normal)
	// Plane passes through the owning body's position.
	dist := ray.Origin.Sub(body.Position).Dot(n)
	if dist < 0 {
		// Origin inside the solid half.
		if solid {
			return 0, true
		}
		return 0, false
	}
	denom := ray.Dir.Dot(n)
	if denom >= 0 {
		// Pointing away from or parallel to the surface.
		return 0, false
	}
	t := -dist / denom
	if t < 0 || t > maxToI {
		return 0, false
	}
	return t, true
}

func castRayCuboid(ray Ray, c *Collider, body *RigidBody, maxToI float64, solid bool) (float64, bool) {
	// Slab test in the collider's local frame.
	inv := body.Rotation.Inverse()
	localOrigin := inv.Rotate(ray.Origin.Sub(body.Position))
	localDir := inv.Rotate(ray.Dir)

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := localOrigin[axis]
		d := localDir[axis]
		he := c.HalfExtents[axis]
		if math.Abs(d) < 1e-12 {
			if o < -he || o > he {
				return 0, false
			}
			continue
		}
		t1 := (-he - o) / d
		t2 := (he - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		if solid {
			return 0, true
		}
		tMin = tMax
	}
	if tMin > maxToI {
		return 0, false
	}
	return tMin, true
}
