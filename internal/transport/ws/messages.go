// Package ws exposes the simulation to browser clients over WebSocket using
// type-tagged JSON messages.
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"wingsim/internal/phys"
	"wingsim/internal/plane"
	"wingsim/internal/sim"
)

// Message types. Every frame on the wire carries a "type" field.
const (
	MessageTypeInfo       = "info"         // server greeting / notices
	MessageTypePing       = "ping"         // client latency probe
	MessageTypePong       = "pong"         // reply to ping
	MessageTypeControls   = "controls"     // pilot input from the client
	MessageTypeBatch      = "batch_update" // per-entity transforms
	MessageTypeDebugLines = "debug_lines"  // force visualization segments
)

// GetCurrentServerTime returns the server clock in milliseconds.
func GetCurrentServerTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// PingMessage is the client latency probe.
type PingMessage struct {
	Type       string  `json:"type"`
	ClientTime float64 `json:"client_time"`
}

// ControlsMessage carries the pilot input axes, each expected in [-1, 1]
// (throttle in [0, 1]). Out-of-range values pass through; the physics side
// treats input as advisory.
type ControlsMessage struct {
	Type     string         `json:"type"`
	Controls plane.Controls `json:"controls"`
}

// EntityUpdate is one entity's transform inside a batch update.
type EntityUpdate struct {
	ID       string                      `json:"id"`
	Position [3]float64                  `json:"position"`
	Rotation [4]float64                  `json:"rotation"` // w, x, y, z
	Wheels   map[string]plane.WheelState `json:"wheels,omitempty"`
}

// NewInfoMessage builds a server notice.
func NewInfoMessage(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":    MessageTypeInfo,
		"message": text,
	}
}

// NewPongMessage answers a ping, echoing the client clock.
func NewPongMessage(clientTime float64) map[string]interface{} {
	return map[string]interface{}{
		"type":        MessageTypePong,
		"client_time": clientTime,
		"server_time": GetCurrentServerTime(),
	}
}

// NewBatchUpdateMessage packs a snapshot into one wire frame.
func NewBatchUpdateMessage(snapshot sim.Snapshot) map[string]interface{} {
	updates := make([]EntityUpdate, 0, len(snapshot))
	for id, msg := range snapshot {
		u := EntityUpdate{
			ID:       id,
			Position: [3]float64{msg.Translation.X(), msg.Translation.Y(), msg.Translation.Z()},
			Rotation: [4]float64{msg.Rotation.W, msg.Rotation.V.X(), msg.Rotation.V.Y(), msg.Rotation.V.Z()},
		}
		if pm, ok := msg.Metadata.(sim.PlaneMetadata); ok {
			u.Wheels = pm.Wheels
		}
		updates = append(updates, u)
	}
	return map[string]interface{}{
		"type":        MessageTypeBatch,
		"server_time": GetCurrentServerTime(),
		"updates":     updates,
	}
}

// DebugSegment is one colored line segment on the wire.
type DebugSegment struct {
	From  [3]float64 `json:"from"`
	To    [3]float64 `json:"to"`
	Color [3]float64 `json:"color"`
}

// NewDebugLinesMessage packs the frame's debug geometry.
func NewDebugLinesMessage(lines []phys.DebugLine) map[string]interface{} {
	segments := make([]DebugSegment, 0, len(lines))
	for _, l := range lines {
		segments = append(segments, DebugSegment{
			From:  [3]float64{l[0].Position.X(), l[0].Position.Y(), l[0].Position.Z()},
			To:    [3]float64{l[1].Position.X(), l[1].Position.Y(), l[1].Position.Z()},
			Color: [3]float64(l[0].Color),
		})
	}
	return map[string]interface{}{
		"type":     MessageTypeDebugLines,
		"segments": segments,
	}
}

// ParseMessage decodes one inbound wire frame into its typed form. The
// returned value is *PingMessage or *ControlsMessage; unknown types are an
// error the read loop logs and skips.
func ParseMessage(data []byte) (interface{}, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch envelope.Type {
	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed ping: %w", err)
		}
		return &msg, nil
	case MessageTypeControls:
		var msg ControlsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("malformed controls: %w", err)
		}
		return &msg, nil
	case "":
		return nil, fmt.Errorf("message without type")
	default:
		return nil, fmt.Errorf("unknown message type %q", envelope.Type)
	}
}
