package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingsim/internal/phys"
	"wingsim/internal/plane"
	"wingsim/internal/sim"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
		check   func(t *testing.T, msg interface{})
	}{
		{
			name:    "ping",
			payload: `{"type":"ping","client_time":123.5}`,
			check: func(t *testing.T, msg interface{}) {
				ping, ok := msg.(*PingMessage)
				require.True(t, ok)
				assert.Equal(t, 123.5, ping.ClientTime)
			},
		},
		{
			name:    "controls",
			payload: `{"type":"controls","controls":{"throttle":0.8,"elevator":-0.2,"aileron":0.1,"rudder":0}}`,
			check: func(t *testing.T, msg interface{}) {
				ctrl, ok := msg.(*ControlsMessage)
				require.True(t, ok)
				assert.Equal(t, 0.8, ctrl.Controls.Throttle)
				assert.Equal(t, -0.2, ctrl.Controls.Elevator)
				assert.Equal(t, 0.1, ctrl.Controls.Aileron)
			},
		},
		{
			name:    "unknown type",
			payload: `{"type":"teleport"}`,
			wantErr: true,
		},
		{
			name:    "missing type",
			payload: `{"controls":{}}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			payload: `{"type":`,
			wantErr: true,
		},
		{
			name:    "controls with wrong field shape",
			payload: `{"type":"controls","controls":"full speed"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, msg)
		})
	}
}

func TestNewBatchUpdateMessage(t *testing.T) {
	snapshot := sim.Snapshot{
		"player": {
			Translation: phys.Vec3{1, 2, 3},
			Rotation:    phys.Quat{W: 1},
			Metadata: sim.PlaneMetadata{
				Wheels: map[string]plane.WheelState{
					"wheel_nose": {Compression: 0.4, Grounded: true},
				},
			},
		},
		"crate": {
			Translation: phys.Vec3{4, 5, 6},
			Rotation:    phys.Quat{W: 1},
		},
	}

	msg := NewBatchUpdateMessage(snapshot)
	assert.Equal(t, MessageTypeBatch, msg["type"])

	updates, ok := msg["updates"].([]EntityUpdate)
	require.True(t, ok)
	require.Len(t, updates, 2)

	byID := make(map[string]EntityUpdate)
	for _, u := range updates {
		byID[u.ID] = u
	}

	playerUpdate := byID["player"]
	assert.Equal(t, [3]float64{1, 2, 3}, playerUpdate.Position)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, playerUpdate.Rotation)
	require.Contains(t, playerUpdate.Wheels, "wheel_nose")
	assert.True(t, playerUpdate.Wheels["wheel_nose"].Grounded)

	assert.Nil(t, byID["crate"].Wheels, "entities without metadata omit wheels")
}

func TestNewDebugLinesMessage(t *testing.T) {
	var buf phys.DebugLines
	buf.Push(phys.Vec3{0, 0, 0}, phys.Vec3{0, 0, 1}, phys.Color{0, 0, 1})

	msg := NewDebugLinesMessage(buf.Lines())
	assert.Equal(t, MessageTypeDebugLines, msg["type"])

	segments, ok := msg["segments"].([]DebugSegment)
	require.True(t, ok)
	require.Len(t, segments, 1)
	assert.Equal(t, [3]float64{0, 0, 1}, segments[0].To)
	assert.Equal(t, [3]float64{0, 0, 1}, segments[0].Color)
}

func TestNewPongMessage(t *testing.T) {
	msg := NewPongMessage(42.0)
	assert.Equal(t, MessageTypePong, msg["type"])
	assert.Equal(t, 42.0, msg["client_time"])
	assert.NotZero(t, msg["server_time"])
}
