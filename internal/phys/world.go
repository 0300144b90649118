package phys

// World owns all rigid bodies and colliders of a loaded level and advances
// them with a fixed timestep. A World is confined to the physics goroutine
// for its whole lifetime; nothing in here is safe for concurrent use and
// nothing needs to be.
type World struct {
	Gravity   Vec3
	bodies    *BodySet
	colliders *ColliderSet
}

// NewWorld returns an empty world with standard gravity.
func NewWorld() *World {
	return &World{
		Gravity:   Vec3{0, -9.81, 0},
		bodies:    NewBodySet(),
		colliders: NewColliderSet(),
	}
}

// InsertBody adds a body and returns its handle.
func (w *World) InsertBody(body RigidBody) BodyHandle {
	return w.bodies.Insert(body)
}

// InsertCollider attaches a collider to an existing body.
func (w *World) InsertCollider(c Collider) ColliderHandle {
	return w.colliders.Insert(c)
}

// Body resolves a body handle.
func (w *World) Body(h BodyHandle) (*RigidBody, bool) {
	return w.bodies.Get(h)
}

// Collider resolves a collider handle.
func (w *World) Collider(h ColliderHandle) (*Collider, bool) {
	return w.colliders.Get(h)
}

// BodyCount returns the number of bodies in the world.
func (w *World) BodyCount() int {
	return w.bodies.Len()
}

// Step advances the simulation by dt: integrate every dynamic body under
// gravity plus its accumulated forces, clear the accumulators, then resolve
// contacts against static geometry. Forces accumulated since the previous
// Step apply to exactly one step.
func (w *World) Step(dt float64) {
	for i := range w.bodies.slots {
		body := &w.bodies.slots[i].body
		body.integrate(w.Gravity, dt)
		body.clearAccumulators()
	}
	w.resolveContacts()
}

// CastRay finds the nearest collider hit along the ray within maxToI,
// skipping the filtered collider. Returns false when nothing is hit.
func (w *World) CastRay(ray Ray, maxToI float64, solid bool, filter QueryFilter) (RayHit, bool) {
	best := RayHit{ToI: maxToI}
	found := false
	w.colliders.each(func(h ColliderHandle, c *Collider) bool {
		if h == filter.ExcludeCollider {
			return true
		}
		body, ok := w.bodies.Get(c.Body)
		if !ok {
			return true
		}
		toi, hit := castRayCollider(ray, c, body, best.ToI, solid)
		if hit && (!found || toi < best.ToI) {
			best = RayHit{Collider: h, ToI: toi, Point: ray.PointAt(toi)}
			found = true
		}
		return true
	})
	if !found {
		return RayHit{}, false
	}
	return best, true
}

// resolveContacts pushes dynamic bodies out of static geometry and removes
// the velocity component driving them in. No restitution: an airplane
// settling on its gear should not bounce.
func (w *World) resolveContacts() {
	w.colliders.each(func(_ ColliderHandle, static *Collider) bool {
		staticBody, ok := w.bodies.Get(static.Body)
		if !ok || staticBody.IsDynamic() {
			return true
		}
		w.colliders.each(func(_ ColliderHandle, moving *Collider) bool {
			movingBody, ok := w.bodies.Get(moving.Body)
			if !ok || !movingBody.IsDynamic() {
				return true
			}
			w.resolvePair(static, staticBody, moving, movingBody)
			return true
		})
		return true
	})
}

func (w *World) resolvePair(static *Collider, staticBody *RigidBody, moving *Collider, movingBody *RigidBody) {
	switch static.Shape {
	case ShapeHalfSpace:
		n := staticBody.VectorToWorld(static.Normal)
		deepest := moving.supportAlong(movingBody, n)
		depth := staticBody.Position.Sub(deepest).Dot(n)
		if depth <= 0 {
			return
		}
		movingBody.Position = movingBody.Position.Add(n.Mul(depth))
		if vn := movingBody.Linvel.Dot(n); vn < 0 {
			movingBody.Linvel = movingBody.Linvel.Sub(n.Mul(vn))
		}
	case ShapeCuboid:
		w.resolveAgainstCuboid(static, staticBody, moving, movingBody)
	}
}

// resolveAgainstCuboid treats the dynamic body's deepest point like a point
// sample and pushes it out of the static box along the axis of least
// penetration. Coarse, but runways and platforms are large compared to the
// bodies resting on them.
func (w *World) resolveAgainstCuboid(static *Collider, staticBody *RigidBody, moving *Collider, movingBody *RigidBody) {
	inv := staticBody.Rotation.Inverse()
	sample := moving.supportAlong(movingBody, staticBody.VectorToWorld(static.Normal))
	if static.Normal.Len() == 0 {
		// Boxes have no authored normal; sample against world up.
		sample = moving.supportAlong(movingBody, Vec3{0, 1, 0})
	}
	local := inv.Rotate(sample.Sub(staticBody.Position))

	he := static.HalfExtents
	inside := true
	minDepth := 0.0
	var pushAxis Vec3
	for axis := 0; axis < 3; axis++ {
		depth := he[axis] - abs(local[axis])
		if depth <= 0 {
			inside = false
			break
		}
		if axis == 0 || depth < minDepth {
			minDepth = depth
			dir := Vec3{}
			dir[axis] = signOf(local[axis])
			pushAxis = dir
		}
	}
	if !inside {
		return
	}

	n := staticBody.VectorToWorld(pushAxis)
	movingBody.Position = movingBody.Position.Add(n.Mul(minDepth))
	if vn := movingBody.Linvel.Dot(n); vn < 0 {
		movingBody.Linvel = movingBody.Linvel.Sub(n.Mul(vn))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
