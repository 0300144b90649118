package sim

import (
	"wingsim/internal/phys"
	"wingsim/internal/plane"
)

// Bridge is the only thing shared between the render side and the physics
// goroutine: four unidirectional channels, all crossed by value. No handle
// and no pointer into the world ever travels over it.
//
//   - controls:  render → physics, latest-wins; only the newest input matters
//   - commands:  render → physics, processed in arrival order
//   - snapshots: physics → render, per-entity state per RequestData
//   - debug:     physics → render, the frame's debug line geometry
//
// Snapshot and debug arrivals are independent; a consumer must not treat
// them as a transaction.
type Bridge struct {
	controls  chan plane.Controls
	commands  chan Command
	snapshots chan Snapshot
	debug     chan []phys.DebugLine
}

// NewBridge allocates the channel set. Response channels hold a single
// element and are written latest-wins so the physics loop never blocks on a
// slow consumer.
func NewBridge() *Bridge {
	return &Bridge{
		controls:  make(chan plane.Controls, 64),
		commands:  make(chan Command, 16),
		snapshots: make(chan Snapshot, 1),
		debug:     make(chan []phys.DebugLine, 1),
	}
}

// PushControls hands the newest pilot input to the physics loop. If the
// channel is full the oldest queued input is discarded first; earlier
// unconsumed inputs never matter.
func (b *Bridge) PushControls(c plane.Controls) {
	for {
		select {
		case b.controls <- c:
			return
		default:
		}
		select {
		case <-b.controls:
		default:
		}
	}
}

// TryRecvControls returns the oldest queued pilot input if any. The physics
// loop calls it in a drain loop so only the newest input takes effect.
func (b *Bridge) TryRecvControls() (plane.Controls, bool) {
	select {
	case c := <-b.controls:
		return c, true
	default:
		return plane.Controls{}, false
	}
}

// RequestData asks for a snapshot. Best-effort: if the command channel is
// full a request is already pending and another changes nothing.
func (b *Bridge) RequestData() {
	select {
	case b.commands <- CommandRequestData:
	default:
	}
}

// Shutdown tells the physics loop to terminate. Best-effort for the same
// reason; callers should also cancel the loop's context to cover a loop
// that is no longer draining commands.
func (b *Bridge) Shutdown() {
	select {
	case b.commands <- CommandShutdown:
	default:
	}
}

// TryRecvSnapshot returns the newest snapshot if one arrived. Absence is
// the normal case, not an error; the consumer keeps its previous state.
func (b *Bridge) TryRecvSnapshot() (Snapshot, bool) {
	select {
	case s := <-b.snapshots:
		return s, true
	default:
		return nil, false
	}
}

// TryRecvDebugLines returns the newest debug geometry if any arrived.
func (b *Bridge) TryRecvDebugLines() ([]phys.DebugLine, bool) {
	select {
	case l := <-b.debug:
		return l, true
	default:
		return nil, false
	}
}

// sendSnapshot publishes latest-wins from the physics side.
func (b *Bridge) sendSnapshot(s Snapshot) {
	for {
		select {
		case b.snapshots <- s:
			return
		default:
		}
		select {
		case <-b.snapshots:
		default:
		}
	}
}

// sendDebugLines publishes latest-wins from the physics side.
func (b *Bridge) sendDebugLines(lines []phys.DebugLine) {
	for {
		select {
		case b.debug <- lines:
			return
		default:
		}
		select {
		case <-b.debug:
		default:
		}
	}
}
