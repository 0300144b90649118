package ws

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"wingsim/internal/sim"
)

// SyncLoop is the render-side half of the cross-thread protocol. Once per
// render frame it asks the physics loop for fresh state and broadcasts
// whatever has arrived since. Snapshot and debug channels are polled
// independently; a frame without a new snapshot simply reuses nothing and
// sends nothing, the clients keep interpolating from the last batch.
type SyncLoop struct {
	hub      *Hub
	bridge   *sim.Bridge
	interval time.Duration
	log      zerolog.Logger
}

// NewSyncLoop builds a sync loop broadcasting every interval.
func NewSyncLoop(hub *Hub, bridge *sim.Bridge, interval time.Duration, log zerolog.Logger) *SyncLoop {
	return &SyncLoop{
		hub:      hub,
		bridge:   bridge,
		interval: interval,
		log:      log,
	}
}

// Run drives the loop until the context is cancelled.
func (s *SyncLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("sync loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sync loop stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *SyncLoop) tick() {
	s.bridge.RequestData()

	if snapshot, ok := s.bridge.TryRecvSnapshot(); ok && len(snapshot) > 0 {
		s.hub.Broadcast(NewBatchUpdateMessage(snapshot))
	}

	if lines, ok := s.bridge.TryRecvDebugLines(); ok {
		s.hub.Broadcast(NewDebugLinesMessage(lines))
	}
}
