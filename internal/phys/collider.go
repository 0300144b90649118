package phys

// ShapeType enumerates the collider geometries the world understands.
type ShapeType uint8

const (
	// ShapeCuboid is a box described by half extents in body space.
	ShapeCuboid ShapeType = iota
	// ShapeHalfSpace is an infinite solid below a plane with an outward
	// normal, anchored at the owning body's position.
	ShapeHalfSpace
)

// Collider attaches a geometric shape to a rigid body. Colliders are used
// for raycasts and for the narrow-phase contact pass.
type Collider struct {
	Shape       ShapeType
	HalfExtents Vec3 // cuboid only
	Normal      Vec3 // half-space only, unit length, outward
	Body        BodyHandle
}

// NewCuboid returns a box collider attached to body.
func NewCuboid(halfExtents Vec3, body BodyHandle) Collider {
	return Collider{Shape: ShapeCuboid, HalfExtents: halfExtents, Body: body}
}

// NewHalfSpace returns a half-space collider attached to body. The normal is
// normalized here so callers can pass authored values directly.
func NewHalfSpace(normal Vec3, body BodyHandle) Collider {
	n := normal
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return Collider{Shape: ShapeHalfSpace, Normal: n, Body: body}
}

// supportAlong returns the world-space point of the collider that lies
// furthest in the -dir direction, given the owning body's pose. Used by the
// contact pass to find the deepest point against a plane.
func (c *Collider) supportAlong(body *RigidBody, dir Vec3) Vec3 {
	switch c.Shape {
	case ShapeCuboid:
		local := body.VectorToLocal(dir)
		p := Vec3{
			-signOf(local.X()) * c.HalfExtents.X(),
			-signOf(local.Y()) * c.HalfExtents.Y(),
			-signOf(local.Z()) * c.HalfExtents.Z(),
		}
		return body.PointToWorld(p)
	default:
		return body.Position
	}
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
