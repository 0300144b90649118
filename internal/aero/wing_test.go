package aero

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingsim/internal/phys"
)

const dt = 1.0 / 120.0

// symmetricFoil has zero lift at zero alpha, like an uncambered section.
func symmetricFoil() *Airfoil {
	return NewAirfoil([]Sample{
		{Alpha: -15, Cl: -1.2, Cd: 0.05},
		{Alpha: -10, Cl: -0.9, Cd: 0.02},
		{Alpha: -5, Cl: -0.5, Cd: 0.01},
		{Alpha: 0, Cl: 0.0, Cd: 0.008},
		{Alpha: 5, Cl: 0.5, Cd: 0.01},
		{Alpha: 10, Cl: 0.9, Cd: 0.02},
		{Alpha: 15, Cl: 1.2, Cd: 0.05},
	})
}

func testWing(flapRatio float64) *Wing {
	return NewWing(phys.Vec3{0, 0, 0}, 5, 8, 1.6, symmetricFoil(), phys.Vec3{0, 1, 0}, flapRatio)
}

func flyingBody(linvel phys.Vec3) phys.RigidBody {
	body := phys.NewDynamicBody(phys.Vec3{0, 100, 0}, 4000)
	body.Linvel = linvel
	return body
}

func TestWingBelowMinimumSpeedDoesNothing(t *testing.T) {
	wing := testWing(0)
	body := flyingBody(phys.Vec3{0, 0, 0.9})
	body.Angvel = phys.Vec3{0, 0.01, 0}

	var debug phys.DebugLines
	wing.ApplyForce(&body, &debug)

	assert.Equal(t, 0, debug.Len(), "no debug output when inactive")
	assert.Equal(t, phys.Vec3{0, 0.01, 0}, body.Angvel, "no damping when inactive")
}

func TestWingEmitsThreeDebugSegments(t *testing.T) {
	wing := testWing(0.2)
	body := flyingBody(phys.Vec3{0, 0, 50})

	var debug phys.DebugLines
	wing.ApplyForce(&body, &debug)
	require.Equal(t, 3, debug.Len())

	lines := debug.Lines()
	assert.Equal(t, phys.Color{0, 0, 1}, lines[0][0].Color, "lift segment first")
	assert.Equal(t, phys.Color{1, 0, 0}, lines[1][0].Color, "drag segment second")
	assert.Equal(t, phys.Color{1, 1, 1}, lines[2][0].Color, "combined segment last")

	// All three segments start at the world pressure center.
	pc := body.PointToWorld(wing.PressureCenter)
	for i := 0; i < 3; i++ {
		assert.Equal(t, pc, lines[i][0].Position)
	}
}

func TestWingDampsAngularVelocity(t *testing.T) {
	wing := testWing(0)
	body := flyingBody(phys.Vec3{0, 0, 50})
	body.Angvel = phys.Vec3{0.4, -0.2, 0.1}

	var debug phys.DebugLines
	wing.ApplyForce(&body, &debug)

	want := phys.Vec3{0.4 * 0.99, -0.2 * 0.99, 0.1 * 0.99}
	assert.InDelta(t, want.X(), body.Angvel.X(), 1e-12)
	assert.InDelta(t, want.Y(), body.Angvel.Y(), 1e-12)
	assert.InDelta(t, want.Z(), body.Angvel.Z(), 1e-12)
}

// Flap deflection must add lift. Forces are observable only through the
// world, so integrate one step and compare vertical velocities.
func TestWingFlapAddsLift(t *testing.T) {
	vyAfterStep := func(control float64) float64 {
		w := phys.NewWorld()
		h := w.InsertBody(flyingBody(phys.Vec3{0, 0, 60}))
		body, _ := w.Body(h)

		wing := testWing(1.0)
		wing.ControlInput = control

		var debug phys.DebugLines
		wing.ApplyForce(body, &debug)
		w.Step(dt)

		body, _ = w.Body(h)
		return body.Linvel.Y()
	}

	neutral := vyAfterStep(0)
	deflected := vyAfterStep(1)
	assert.Greater(t, deflected, neutral, "positive flap deflection lifts")

	opposite := vyAfterStep(-1)
	assert.Less(t, opposite, neutral, "negative deflection pushes down")
}

// Level flight at zero alpha with a symmetric foil and no flap: lift is zero,
// drag still decelerates the body along its path.
func TestWingDragOpposesMotion(t *testing.T) {
	w := phys.NewWorld()
	w.Gravity = phys.Vec3{}
	h := w.InsertBody(flyingBody(phys.Vec3{0, 0, 60}))
	body, _ := w.Body(h)

	wing := testWing(0)
	var debug phys.DebugLines
	wing.ApplyForce(body, &debug)
	w.Step(dt)

	body, _ = w.Body(h)
	assert.Less(t, body.Linvel.Z(), 60.0)
	assert.Greater(t, body.Linvel.Z(), 0.0)
}

func TestWingAspectRatio(t *testing.T) {
	wing := NewWing(phys.Vec3{}, 10, 20, 2, symmetricFoil(), phys.Vec3{0, 1, 0}, 0)
	assert.Equal(t, 5.0, wing.AspectRatio) // 10*10/20
	assert.Equal(t, 1.0, wing.Efficiency)
}
