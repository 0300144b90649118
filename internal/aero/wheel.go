package aero

import (
	"wingsim/internal/phys"
)

var suspensionColor = phys.Color{0.5, 1, 0.5}

// Wheel is one raycast suspension strut. Every physics tick it casts a ray
// from its mount point down the airframe's local -Y axis and converts the
// hit distance into a spring/damper force.
type Wheel struct {
	Offset              phys.Vec3 // body-local mount point
	MaxSuspensionLength float64
	Stiffness           float64
	Damping             float64
	ShapeName           string // render-side mesh this strut drives
}

// NewWheel builds a suspension strut.
func NewWheel(offset phys.Vec3, maxSuspensionLength, stiffness, damping float64, shapeName string) *Wheel {
	return &Wheel{
		Offset:              offset,
		MaxSuspensionLength: maxSuspensionLength,
		Stiffness:           stiffness,
		Damping:             damping,
		ShapeName:           shapeName,
	}
}

// Contact is the result of one suspension update. Force is world-space and
// purely vertical: the strut does not project along its own axis, a
// simplification the ground handling is tuned around. On a miss Force is
// zero but Origin/Point still describe the full-length ray so unloaded
// struts stay visible in the debug view.
type Contact struct {
	Force       phys.Vec3
	Origin      phys.Vec3
	Point       phys.Vec3
	Grounded    bool
	Compression float64
}

// Update casts the suspension ray and returns the resulting contact.
// The vehicle's own hull collider is excluded from the cast. Exactly one
// debug segment is appended per call. A missing body handle returns false
// with nothing emitted: the entity simply has no physics body right now.
func (w *Wheel) Update(world *phys.World, body phys.BodyHandle, exclude phys.ColliderHandle, debug *phys.DebugLines) (Contact, bool) {
	rb, ok := world.Body(body)
	if !ok {
		return Contact{}, false
	}

	origin := rb.Position.Add(rb.Rotation.Rotate(w.Offset))
	dir := rb.Rotation.Rotate(phys.Vec3{0, -1, 0})
	maxPoint := origin.Add(dir.Mul(w.MaxSuspensionLength))

	ray := phys.Ray{Origin: origin, Dir: dir}
	filter := phys.QueryFilter{ExcludeCollider: exclude}

	hit, found := world.CastRay(ray, w.MaxSuspensionLength, true, filter)
	if !found {
		debug.Push(origin, maxPoint, suspensionColor)
		return Contact{Origin: origin, Point: maxPoint}, true
	}

	compression := 1.0 - hit.ToI/w.MaxSuspensionLength
	springForce := compression * w.Stiffness
	dampingForce := rb.Linvel.Y() * w.Damping

	contact := Contact{
		Force:       phys.Vec3{0, springForce - dampingForce, 0},
		Origin:      origin,
		Point:       hit.Point,
		Grounded:    true,
		Compression: compression,
	}
	debug.Push(origin, hit.Point, suspensionColor)
	return contact, true
}
