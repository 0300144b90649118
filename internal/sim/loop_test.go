package sim

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingsim/internal/aero"
	"wingsim/internal/phys"
	"wingsim/internal/plane"
)

func testFoil() *aero.Airfoil {
	return aero.NewAirfoil([]aero.Sample{
		{Alpha: -15, Cl: -1.2, Cd: 0.05},
		{Alpha: 0, Cl: 0.0, Cd: 0.01},
		{Alpha: 15, Cl: 1.2, Cd: 0.05},
	})
}

// testLoop assembles a world with a ground plane, the player airframe and
// one scenery crate.
func testLoop(t *testing.T) (*Loop, *Bridge, *phys.World, phys.BodyHandle) {
	t.Helper()

	world := phys.NewWorld()
	registry := NewRegistry()

	ground := world.InsertBody(phys.NewFixedBody(phys.Vec3{}))
	groundCol := world.InsertCollider(phys.NewHalfSpace(phys.Vec3{0, 1, 0}, ground))
	require.NoError(t, registry.Insert("ground", &Entity{Body: ground, Collider: groundCol, HasCollider: true}))

	player := world.InsertBody(phys.NewDynamicBody(phys.Vec3{0, 100, 0}, 4000))
	hull := world.InsertCollider(phys.NewCuboid(phys.Vec3{5, 1.2, 6}, player))
	require.NoError(t, registry.Insert("player", &Entity{Body: player, Collider: hull, HasCollider: true}))

	crate := world.InsertBody(phys.NewDynamicBody(phys.Vec3{20, 5, 0}, 50))
	crateCol := world.InsertCollider(phys.NewCuboid(phys.Vec3{1, 1, 1}, crate))
	require.NoError(t, registry.Insert("crate", &Entity{Body: crate, Collider: crateCol, HasCollider: true}))

	airframe := plane.New(testFoil(), testFoil(), zerolog.Nop())
	bridge := NewBridge()
	loop := NewLoop(world, registry, airframe, "player", bridge, zerolog.Nop())
	return loop, bridge, world, player
}

func TestAdvanceStepAccounting(t *testing.T) {
	loop, _, _, _ := testLoop(t)

	steps, done := loop.Advance(2.5 * FixedTimestep)
	assert.False(t, done)
	assert.Equal(t, 2, steps)

	// The half-step remainder carries into the next iteration.
	steps, _ = loop.Advance(0.6 * FixedTimestep)
	assert.Equal(t, 1, steps)

	steps, _ = loop.Advance(0)
	assert.Equal(t, 0, steps)
}

func TestAdvanceShortFramesAccumulate(t *testing.T) {
	loop, _, _, _ := testLoop(t)

	total := 0
	for i := 0; i < 10; i++ {
		steps, _ := loop.Advance(FixedTimestep / 4)
		total += steps
	}
	// 10 quarter-steps of input time make 2.5 steps of simulation.
	assert.Equal(t, 2, total)
}

func TestControlsCoalesceToNewest(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	bridge.PushControls(plane.Controls{Throttle: 0.1})
	bridge.PushControls(plane.Controls{Throttle: 0.5})
	bridge.PushControls(plane.Controls{Throttle: 0.9})

	loop.Advance(FixedTimestep)
	assert.Equal(t, 0.9, loop.controls.Throttle)
}

func TestRequestDataProducesSnapshot(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	bridge.RequestData()
	_, done := loop.Advance(FixedTimestep)
	require.False(t, done)

	snap, ok := bridge.TryRecvSnapshot()
	require.True(t, ok)
	require.Len(t, snap, 3)

	playerMsg, ok := snap["player"]
	require.True(t, ok)
	assert.InDelta(t, 100.0, playerMsg.Translation.Y(), 1.0)

	meta, ok := playerMsg.Metadata.(PlaneMetadata)
	require.True(t, ok, "player carries plane metadata")
	assert.Len(t, meta.Wheels, 3)

	_, ok = snap["crate"]
	assert.True(t, ok)
	assert.Nil(t, snap["crate"].Metadata)

	lines, ok := bridge.TryRecvDebugLines()
	require.True(t, ok)
	// Parked high up: three suspension rays miss, wings inactive.
	assert.Len(t, lines, 3)
}

func TestNoSnapshotWithoutRequest(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	loop.Advance(FixedTimestep)
	_, ok := bridge.TryRecvSnapshot()
	assert.False(t, ok)
}

func TestShutdownWinsOverRequestData(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	bridge.RequestData()
	bridge.Shutdown()

	_, done := loop.Advance(FixedTimestep)
	assert.True(t, done)

	_, ok := bridge.TryRecvSnapshot()
	assert.False(t, ok, "no final snapshot after shutdown")
}

func TestShutdownWinsRegardlessOfOrder(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	bridge.Shutdown()
	bridge.RequestData()

	_, done := loop.Advance(FixedTimestep)
	assert.True(t, done)
	_, ok := bridge.TryRecvSnapshot()
	assert.False(t, ok)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	loop, bridge, _, _ := testLoop(t)

	bridge.RequestData()
	loop.Advance(FixedTimestep)
	snap, ok := bridge.TryRecvSnapshot()
	require.True(t, ok)

	meta := snap["player"].Metadata.(PlaneMetadata)
	for k := range meta.Wheels {
		meta.Wheels[k] = plane.WheelState{Compression: 99}
	}

	bridge.RequestData()
	loop.Advance(FixedTimestep)
	snap2, _ := bridge.TryRecvSnapshot()
	meta2 := snap2["player"].Metadata.(PlaneMetadata)
	for _, state := range meta2.Wheels {
		assert.NotEqual(t, 99.0, state.Compression, "consumer writes must not leak back")
	}
}

func TestGravityActsThroughLoop(t *testing.T) {
	loop, _, world, player := testLoop(t)

	loop.Advance(10 * FixedTimestep)

	body, ok := world.Body(player)
	require.True(t, ok)
	assert.InDelta(t, -9.81*10*FixedTimestep, body.Linvel.Y(), 1e-6)
}

func TestStatsCountTicksAndSteps(t *testing.T) {
	loop, _, _, _ := testLoop(t)

	loop.stats.recordTick(0, 2)
	loop.stats.recordTick(0, 3)

	assert.Equal(t, uint64(2), loop.Stats().TickCount())
	assert.Equal(t, uint64(5), loop.Stats().StepCount())

	snap := loop.Stats().Snapshot()
	assert.Equal(t, uint64(2), snap["ticks"])
	assert.Equal(t, FixedTimestep, snap["fixed_dt_seconds"])
}
