package phys

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 and Quat are the vector types used throughout the simulation.
type (
	Vec3 = mgl64.Vec3
	Quat = mgl64.Quat
)

// BodyType distinguishes bodies the solver integrates from bodies that act
// as immovable scenery.
type BodyType uint8

const (
	// BodyDynamic bodies are integrated every step.
	BodyDynamic BodyType = iota
	// BodyFixed bodies never move; they have infinite effective mass.
	BodyFixed
)

// RigidBody holds the full dynamic state of one simulated body. The inertia
// tensor is diagonal and manually tuned: flight feel, not physical accuracy,
// decides its values.
type RigidBody struct {
	Type         BodyType
	Mass         float64
	CenterOfMass Vec3 // body-local offset
	Inertia      Vec3 // diagonal, body-local

	Position Vec3
	Rotation Quat // unit quaternion
	Linvel   Vec3
	Angvel   Vec3

	force  Vec3
	torque Vec3
}

// NewDynamicBody returns a dynamic body at the given position with identity
// orientation. Inertia defaults to the identity diagonal until tuned.
func NewDynamicBody(position Vec3, mass float64) RigidBody {
	return RigidBody{
		Type:     BodyDynamic,
		Mass:     mass,
		Inertia:  Vec3{1, 1, 1},
		Position: position,
		Rotation: mgl64.QuatIdent(),
	}
}

// NewFixedBody returns an immovable body at the given position.
func NewFixedBody(position Vec3) RigidBody {
	return RigidBody{
		Type:     BodyFixed,
		Position: position,
		Rotation: mgl64.QuatIdent(),
	}
}

// IsDynamic reports whether the solver integrates this body.
func (b *RigidBody) IsDynamic() bool {
	return b.Type == BodyDynamic
}

// WorldCenterOfMass returns the center of mass in world space.
func (b *RigidBody) WorldCenterOfMass() Vec3 {
	return b.Position.Add(b.Rotation.Rotate(b.CenterOfMass))
}

// PointToWorld transforms a body-local point into world space.
func (b *RigidBody) PointToWorld(local Vec3) Vec3 {
	return b.Rotation.Rotate(local).Add(b.Position)
}

// VectorToWorld rotates a body-local direction into world space.
func (b *RigidBody) VectorToWorld(local Vec3) Vec3 {
	return b.Rotation.Rotate(local)
}

// VectorToLocal rotates a world-space direction into body space.
func (b *RigidBody) VectorToLocal(world Vec3) Vec3 {
	return b.Rotation.Inverse().Rotate(world)
}

// AddForce accumulates a world-space force through the center of mass.
// Accumulators are consumed and cleared by the next World.Step.
func (b *RigidBody) AddForce(force Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.force = b.force.Add(force)
}

// AddForceAtPoint accumulates a world-space force applied at a world-space
// point. Torque arises from the lever arm about the center of mass.
func (b *RigidBody) AddForceAtPoint(force, point Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.force = b.force.Add(force)
	lever := point.Sub(b.WorldCenterOfMass())
	b.torque = b.torque.Add(lever.Cross(force))
}

// AddTorque accumulates a world-space torque.
func (b *RigidBody) AddTorque(torque Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.torque = b.torque.Add(torque)
}

// SetLinvel replaces the linear velocity.
func (b *RigidBody) SetLinvel(v Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.Linvel = v
}

// SetAngvel replaces the angular velocity.
func (b *RigidBody) SetAngvel(v Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.Angvel = v
}

// clearAccumulators zeroes the pending force and torque.
func (b *RigidBody) clearAccumulators() {
	b.force = Vec3{}
	b.torque = Vec3{}
}

// integrate advances the body state by dt using semi-implicit Euler under
// the given gravity.
func (b *RigidBody) integrate(gravity Vec3, dt float64) {
	if !b.IsDynamic() || b.Mass <= 0 {
		return
	}

	accel := gravity.Add(b.force.Mul(1 / b.Mass))
	b.Linvel = b.Linvel.Add(accel.Mul(dt))

	// Torque is resolved against the diagonal inertia in body space.
	localTorque := b.VectorToLocal(b.torque)
	localAngAccel := Vec3{
		safeDiv(localTorque.X(), b.Inertia.X()),
		safeDiv(localTorque.Y(), b.Inertia.Y()),
		safeDiv(localTorque.Z(), b.Inertia.Z()),
	}
	b.Angvel = b.Angvel.Add(b.VectorToWorld(localAngAccel).Mul(dt))

	b.Position = b.Position.Add(b.Linvel.Mul(dt))

	// dq/dt = 0.5 * omega * q, renormalized to stay a unit quaternion.
	omega := Quat{W: 0, V: b.Angvel}
	dq := omega.Mul(b.Rotation).Scale(0.5 * dt)
	b.Rotation = b.Rotation.Add(dq).Normalize()
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
