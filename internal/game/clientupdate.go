package game

import (
	"context"
	"time"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/view"
)

// phaseClientUpdate is the scheduler's fourth phase:
// run the ViewPipeline for every logged-in session, diffing its last tick's
// chunk view against this tick's and replaying in-view broadcasts. This
// core runs a single world layer per Game, so the "layer swap" case
// view.Update handles never fires; a session's very first tick takes the
// first-view path instead.
func (g *Game) phaseClientUpdate(ctx context.Context, tick uint64, dt time.Duration) {
	layers := view.Layers{Chunk: g.ChunkLayer, Entities: g.EntityLayer}
	viewDistMax := g.cfg.Server.GetViewDistanceMax()

	for _, s := range g.snapshotSessions() {
		if !s.inPlay() {
			continue
		}
		c := s.Client
		viewDist := c.ViewDistance
		if viewDist <= 0 || viewDist > viewDistMax {
			viewDist = viewDistMax
		}
		newView := chunkdata.NewChunkView(chunkdata.BlockChunkPos(c.Entity.ChunkPosition()), viewDist)

		var old view.Layers
		if s.everViewed {
			old = layers
		}

		sent := 0
		send := func(body []byte) {
			s.Conn.Send(body)
			sent++
		}

		// The client re-centers its loading area before any chunk packets
		// referencing the new area arrive.
		if s.everViewed && newView.Pos != c.LastView.Pos {
			if body, err := protocol.EncodeWithID(&protocol.SetCenterChunk{ChunkX: newView.Pos.X, ChunkZ: newView.Pos.Z}); err == nil {
				send(body)
			}
		}
		view.Update(old, c.LastView, layers, newView, c.Entity.ID, send)
		if g.metrics != nil && sent > 0 {
			g.metrics.PacketsOut.Add(float64(sent))
		}

		c.LastView = newView
		c.View = newView
		s.everViewed = true
	}
}
