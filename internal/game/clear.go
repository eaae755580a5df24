package game

import (
	"context"
	"time"
)

// phaseClear is the scheduler's sixth and final phase:
// mirror this tick's broadcast logs out to peer nodes, if cross-node
// routing is enabled, then empty both logs so the next tick starts clean.
func (g *Game) phaseClear(ctx context.Context, tick uint64, dt time.Duration) {
	if g.router != nil {
		g.publishLayerMessages(ctx, tick)
	}
	g.ChunkLayer.Messages.Clear()
	g.EntityLayer.Messages.Clear()
}

// publishLayerMessages mirrors each non-empty layer buffer to the NATS
// router, read before Clear empties
// them, never after.
func (g *Game) publishLayerMessages(ctx context.Context, tick uint64) {
	if !g.ChunkLayer.Messages.Empty() {
		if err := g.router.Publish(ctx, g.layerID+chunkLayerSuffix, tick, g.ChunkLayer.Messages.Bytes()); err != nil {
			g.log.Warn("router: publish chunk layer: %v", err)
		}
	}
	if !g.EntityLayer.Messages.Empty() {
		if err := g.router.Publish(ctx, g.layerID+entityLayerSuffix, tick, g.EntityLayer.Messages.Bytes()); err != nil {
			g.log.Warn("router: publish entity layer: %v", err)
		}
	}
}
