package game

import (
	"context"
	"time"
)

// phaseBroadcast is the scheduler's third phase: turn
// each entity's net movement this tick into one broadcast message, flush
// its dirty tracked data, then commit its position. The per-tick
// coalescing matters for the wire format: relative-move packets carry a
// delta from OldPosition, so emitting once per inbound packet would
// double-count earlier deltas within the same tick.
func (g *Game) phaseBroadcast(ctx context.Context, tick uint64, dt time.Duration) {
	for _, s := range g.snapshotSessions() {
		if !s.inPlay() {
			continue
		}
		e := s.Client.Entity
		if s.moved || s.rotated {
			g.EntityLayer.UpdatePosition(e, s.rotated)
			s.moved, s.rotated = false, false
		}
		g.EntityLayer.TrackerUpdate(e)
		e.CommitTick()
	}
}
