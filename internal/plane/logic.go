package plane

import (
	"github.com/rs/zerolog"

	"wingsim/internal/aero"
	"wingsim/internal/phys"
)

// WheelState is the per-strut contact state round-tripped to the render
// side each frame so wheel meshes and gear animation can follow the ground.
type WheelState struct {
	Compression float64    `json:"compression"`
	Grounded    bool       `json:"grounded"`
	Contact     [3]float64 `json:"contact"`
}

// Plane orchestrates every force generator of one controllable airframe:
// lifting surfaces, control surfaces, engine thrust and wheel suspension.
// It owns no rigid body; it only needs a handle into the world and a debug
// line sink, both supplied per update.
type Plane struct {
	leftAileron  *aero.Wing
	rightAileron *aero.Wing
	elevator     *aero.Wing
	rudder       *aero.Wing
	wings        []*aero.Wing
	wheels       []*aero.Wheel

	// MaxThrust is the engine force at full throttle, along body-local +Z.
	MaxThrust float64

	log zerolog.Logger
}

// New assembles the default airframe around the given airfoil polars: two
// main wings with aileron flap sections deflecting in opposition, an
// all-flap elevator, a rudder lifting sideways off the vertical fin, and a
// tricycle gear. Geometry and gear rates are hand-tuned, not derived.
func New(mainFoil, tailFoil *aero.Airfoil, log zerolog.Logger) *Plane {
	p := &Plane{
		MaxThrust: 52000,
		log:       log,
	}

	up := phys.Vec3{0, 1, 0}
	right := phys.Vec3{1, 0, 0}

	p.leftAileron = aero.NewWing(phys.Vec3{-2.7, 0, -0.3}, 5.0, 8.0, 1.6, mainFoil, up, 0.2)
	p.rightAileron = aero.NewWing(phys.Vec3{2.7, 0, -0.3}, 5.0, 8.0, 1.6, mainFoil, up, 0.2)
	p.elevator = aero.NewWing(phys.Vec3{0, -0.1, -6.6}, 6.54, 2.7, 1.2, tailFoil, up, 1.0)
	p.rudder = aero.NewWing(phys.Vec3{0, 0.5, -6.6}, 2.0, 2.4, 1.2, tailFoil, right, 0.15)

	p.wings = []*aero.Wing{p.leftAileron, p.rightAileron, p.elevator, p.rudder}

	p.wheels = []*aero.Wheel{
		aero.NewWheel(phys.Vec3{0, -1.0, 2.0}, 1.2, 35000, 4000, "wheel_nose"),
		aero.NewWheel(phys.Vec3{-1.4, -1.0, -0.3}, 1.2, 35000, 4000, "wheel_left"),
		aero.NewWheel(phys.Vec3{1.4, -1.0, -0.3}, 1.2, 35000, 4000, "wheel_right"),
	}

	return p
}

// Wings exposes the lifting surfaces, mainly for tests and tuning tools.
func (p *Plane) Wings() []*aero.Wing {
	return p.wings
}

// Wheels exposes the suspension struts.
func (p *Plane) Wheels() []*aero.Wheel {
	return p.wheels
}

// applyControls writes the pilot input into the control surfaces. Ailerons
// deflect in opposition to roll; the elevator sign makes stick-back pitch
// the nose up.
func (p *Plane) applyControls(c Controls) {
	p.leftAileron.ControlInput = c.Aileron
	p.rightAileron.ControlInput = -c.Aileron
	p.elevator.ControlInput = -c.Elevator
	p.rudder.ControlInput = c.Rudder
}

// Update runs one physics-frame orchestration pass: control surfaces, wing
// forces, engine thrust, then suspension. Wheel forces are applied at each
// strut's mount point. Returns the per-wheel contact states for the frame's
// render metadata, or nil when the body handle no longer resolves (the
// entity is not simulated this frame).
func (p *Plane) Update(controls Controls, world *phys.World, body phys.BodyHandle, hull phys.ColliderHandle, debug *phys.DebugLines) map[string]WheelState {
	rb, ok := world.Body(body)
	if !ok {
		p.log.Warn().Msg("plane body handle did not resolve, skipping frame")
		return nil
	}

	p.applyControls(controls)

	for _, wing := range p.wings {
		wing.ApplyForce(rb, debug)
	}

	thrust := rb.VectorToWorld(phys.Vec3{0, 0, 1}).Mul(controls.Throttle * p.MaxThrust)
	rb.AddForce(thrust)

	states := make(map[string]WheelState, len(p.wheels))
	for _, wheel := range p.wheels {
		contact, ok := wheel.Update(world, body, hull, debug)
		if !ok {
			continue
		}
		rb.AddForceAtPoint(contact.Force, contact.Origin)
		states[wheel.ShapeName] = WheelState{
			Compression: contact.Compression,
			Grounded:    contact.Grounded,
			Contact:     [3]float64{contact.Point.X(), contact.Point.Y(), contact.Point.Z()},
		}
	}
	return states
}
