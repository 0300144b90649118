package aero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"wingsim/internal/phys"
)

// airDensity is the sea-level value the original flight model was tuned
// against. Not ISA-standard 1.225; retuning it changes every airframe.
const airDensity = 1.255

// clMax is the maximum lift increment a fully deflected flap contributes.
const clMax = 1.1039

// angularDampingFactor is applied multiplicatively to the body's angular
// velocity once per wing invocation. It is per-substep damping, not
// time-scaled; the flight feel depends on it running once per physics step.
const angularDampingFactor = 0.99

// Debug line colors, matching the original renderer.
var (
	liftColor     = phys.Color{0, 0, 1}
	dragColor     = phys.Color{1, 0, 0}
	combinedColor = phys.Color{1, 1, 1}
)

// Wing is one lifting surface of an airframe. Control surfaces (ailerons,
// elevator, rudder) are wings with a non-zero flap ratio or an off-axis
// normal; ControlInput deflects them in [-1, 1].
type Wing struct {
	PressureCenter phys.Vec3 // body-local point where force is applied
	Area           float64
	Span           float64
	AspectRatio    float64 // span² / area
	Chord          float64
	Airfoil        *Airfoil
	Normal         phys.Vec3 // body-local, unit length
	FlapRatio      float64   // flapped fraction of the wing area
	Efficiency     float64   // Oswald efficiency factor
	ControlInput   float64
}

// NewWing builds a wing; aspect ratio derives from span and area, the
// efficiency factor starts at 1.
func NewWing(pressureCenter phys.Vec3, span, area, chord float64, foil *Airfoil, normal phys.Vec3, flapRatio float64) *Wing {
	return &Wing{
		PressureCenter: pressureCenter,
		Area:           area,
		Span:           span,
		AspectRatio:    span * span / area,
		Chord:          chord,
		Airfoil:        foil,
		Normal:         normal,
		FlapRatio:      flapRatio,
		Efficiency:     1.0,
	}
}

// ApplyForce computes the wing's aerodynamic force from the body's current
// velocity and accumulates it at the world-space pressure center, then damps
// the body's angular velocity. Appends exactly 3 debug segments (lift, drag,
// combined) when it acts; below a relative speed of 1 it does nothing, which
// also keeps the direction normalizations away from near-zero vectors.
func (w *Wing) ApplyForce(body *phys.RigidBody, debug *phys.DebugLines) {
	worldPressureCenter := body.PointToWorld(w.PressureCenter)

	// Local relative airflow. Adding the raw angular velocity instead of
	// its cross product with the pressure-center offset is a deliberate
	// approximation carried over from the tuned flight model; correcting
	// it changes how every airframe flies.
	localVelocity := body.VectorToLocal(body.Linvel).Add(body.Angvel)

	speed := localVelocity.Len()
	if speed <= 1.0 {
		return
	}

	dragDirection := localVelocity.Mul(-1 / speed)
	liftDirection := dragDirection.Cross(w.Normal).Cross(dragDirection)
	if l := liftDirection.Len(); l > 0 {
		liftDirection = liftDirection.Mul(1 / l)
	}

	angleOfAttack := mgl64.Clamp(
		mgl64.RadToDeg(math.Asin(mgl64.Clamp(dragDirection.Dot(w.Normal), -1, 1))),
		w.Airfoil.MinAlpha(), w.Airfoil.MaxAlpha(),
	)

	liftCoeff, dragCoeff := w.Airfoil.Sample(angleOfAttack)

	if w.FlapRatio > 0 {
		liftCoeff += math.Sqrt(w.FlapRatio) * clMax * w.ControlInput
	}

	inducedDragCoeff := liftCoeff * liftCoeff / (math.Pi * w.AspectRatio * w.Efficiency)
	dragCoeff += inducedDragCoeff

	dynamicPressure := 0.5 * speed * speed * airDensity * w.Area

	lift := liftDirection.Mul(liftCoeff * dynamicPressure)
	drag := dragDirection.Mul(dragCoeff * dynamicPressure)

	worldLift := body.VectorToWorld(lift)
	worldDrag := body.VectorToWorld(drag)

	liftTip := worldPressureCenter
	if l := worldLift.Len(); l > 0 {
		liftTip = worldPressureCenter.Sub(worldLift.Mul(1 / l).Mul(5.0 * liftCoeff))
	}
	debug.Push(worldPressureCenter, liftTip, liftColor)
	debug.Push(worldPressureCenter, worldPressureCenter.Sub(worldDrag), dragColor)
	debug.Push(worldPressureCenter, worldPressureCenter.Add(worldLift.Add(worldDrag)), combinedColor)

	body.AddForceAtPoint(worldLift.Add(worldDrag), worldPressureCenter)

	body.SetAngvel(body.Angvel.Mul(angularDampingFactor))
}
