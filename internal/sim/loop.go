package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"wingsim/internal/phys"
	"wingsim/internal/plane"
)

// FixedTimestep is the integration step. 120 Hz keeps the suspension and
// control response tight independently of the render frame rate.
const FixedTimestep = 1.0 / 120.0

// Loop owns the physics world for its entire lifetime and advances it on a
// dedicated goroutine. All communication goes through the Bridge; nothing
// else may touch the world once Run starts.
type Loop struct {
	world    *phys.World
	registry *Registry
	plane    *plane.Plane
	planeID  string
	bridge   *Bridge
	log      zerolog.Logger

	controls    plane.Controls
	accumulator float64
	pendingSend bool
	debug       phys.DebugLines

	stats Stats
}

// NewLoop wires a loop around a populated world. planeID names the
// registry entry of the controllable airframe.
func NewLoop(world *phys.World, registry *Registry, pl *plane.Plane, planeID string, bridge *Bridge, log zerolog.Logger) *Loop {
	return &Loop{
		world:    world,
		registry: registry,
		plane:    pl,
		planeID:  planeID,
		bridge:   bridge,
		log:      log,
	}
}

// Stats exposes the loop's tick counters for the stats endpoint.
func (l *Loop) Stats() *Stats {
	return &l.stats
}

// Run drives the loop in real time until a Shutdown command arrives or the
// context is cancelled (a vanished consumer is the same thing as a shutdown
// request). Cancellation is observed only at the top of an iteration; a
// running integration pass always completes.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info().Float64("dt", FixedTimestep).Msg("physics loop started")
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("physics loop context cancelled")
			return
		default:
		}

		now := time.Now()
		elapsed := now.Sub(last).Seconds()
		last = now

		tickStart := time.Now()
		steps, done := l.Advance(elapsed)
		l.stats.recordTick(time.Since(tickStart), steps)

		if done {
			l.log.Info().
				Uint64("ticks", l.stats.TickCount()).
				Msg("physics loop received shutdown command")
			return
		}

		// The original loop spins; sleeping off part of the remaining
		// step budget keeps the step accounting identical without
		// burning a core.
		if l.accumulator < FixedTimestep {
			idle := time.Duration((FixedTimestep - l.accumulator) * float64(time.Second))
			time.Sleep(idle / 2)
		}
	}
}

// Advance executes exactly one loop iteration with the given elapsed wall
// time and returns the number of fixed steps performed plus whether a
// shutdown was drained. Split out from Run so tests can feed synthetic
// elapsed times.
//
// Iteration order mirrors the historical design: controls are coalesced to
// the newest value, forces are applied once per iteration before the substep
// drain (not once per substep, even when several steps run after a stall),
// then commands are drained and a pending snapshot is answered.
func (l *Loop) Advance(elapsed float64) (steps int, done bool) {
	l.drainControls()

	l.accumulator += elapsed

	l.applyForces()

	for l.accumulator >= FixedTimestep {
		l.world.Step(FixedTimestep)
		l.accumulator -= FixedTimestep
		steps++
	}

	if l.drainCommands() {
		return steps, true
	}

	if l.pendingSend {
		l.respond()
		l.pendingSend = false
	}

	return steps, false
}

// drainControls empties the control channel keeping only the newest value.
// An empty channel is the normal case every iteration.
func (l *Loop) drainControls() {
	for {
		c, ok := l.bridge.TryRecvControls()
		if !ok {
			return
		}
		l.controls = c
	}
}

// applyForces runs the airframe's force generators and refreshes its
// metadata. The debug buffer is rebuilt from scratch so it always holds the
// current frame's geometry.
func (l *Loop) applyForces() {
	l.debug.Reset()

	ent, ok := l.registry.Get(l.planeID)
	if !ok || ent == nil {
		l.log.Warn().Str("id", l.planeID).Msg("player entity not found")
		return
	}

	states := l.plane.Update(l.controls, l.world, ent.Body, ent.Collider, &l.debug)
	if states != nil {
		ent.Metadata = PlaneMetadata{Wheels: states}
	}
}

// drainCommands processes every pending command in arrival order and
// reports whether a shutdown was seen. Shutdown anywhere in the batch wins:
// the loop exits without answering a RequestData drained alongside it.
func (l *Loop) drainCommands() (shutdown bool) {
	for {
		select {
		case cmd := <-l.bridge.commands:
			switch cmd {
			case CommandRequestData:
				l.pendingSend = true
			case CommandShutdown:
				shutdown = true
			}
		default:
			return shutdown
		}
	}
}

// respond snapshots every tracked entity and publishes it together with the
// frame's debug geometry. Both sends are best-effort and never block.
func (l *Loop) respond() {
	snapshot := make(Snapshot, l.registry.Len())

	l.registry.Each(func(id string, ent *Entity) {
		if ent == nil {
			return
		}
		body, ok := l.world.Body(ent.Body)
		if !ok {
			return
		}
		msg := RenderMessage{
			Translation: body.Position,
			Rotation:    body.Rotation,
		}
		if ent.Metadata != nil {
			msg.Metadata = ent.Metadata.Clone()
		}
		snapshot[id] = msg
	})

	l.bridge.sendSnapshot(snapshot)
	l.bridge.sendDebugLines(l.debug.Lines())
}
