// Package sim runs the physics goroutine: a fixed-timestep world loop
// coupled to the render side through four unidirectional channels under a
// request/response protocol.
package sim

import (
	"wingsim/internal/phys"
	"wingsim/internal/plane"
)

// Command is a control message from the render side to the physics loop.
type Command uint8

const (
	// CommandRequestData asks the loop to send a snapshot after its next
	// integration pass.
	CommandRequestData Command = iota
	// CommandShutdown terminates the loop. It always wins: if it shares
	// a drain with RequestData, no final snapshot is sent.
	CommandShutdown
)

// MetadataKind tags the per-entity sidecar payload.
type MetadataKind uint8

const (
	// MetadataNone marks entities with no sidecar state.
	MetadataNone MetadataKind = iota
	// MetadataPlane marks the controllable airframe.
	MetadataPlane
)

// Metadata is auxiliary per-entity state carried alongside the transform in
// every snapshot. Each entity kind defines its own variant, so consumers
// switch on the concrete type rather than rummaging in a shared union.
type Metadata interface {
	Kind() MetadataKind
	// Clone returns a deep value copy; snapshots must not alias state
	// owned by the physics goroutine.
	Clone() Metadata
}

// PlaneMetadata carries the per-wheel contact states of an airframe.
type PlaneMetadata struct {
	Wheels map[string]plane.WheelState
}

func (PlaneMetadata) Kind() MetadataKind { return MetadataPlane }

func (m PlaneMetadata) Clone() Metadata {
	wheels := make(map[string]plane.WheelState, len(m.Wheels))
	for k, v := range m.Wheels {
		wheels[k] = v
	}
	return PlaneMetadata{Wheels: wheels}
}

// RenderMessage is one entity's state as the renderer needs it: a value
// snapshot, never a reference into the physics world.
type RenderMessage struct {
	Translation phys.Vec3
	Rotation    phys.Quat
	Metadata    Metadata
}

// Snapshot is a full per-entity state capture keyed by entity id, produced
// once per RequestData.
type Snapshot map[string]RenderMessage
