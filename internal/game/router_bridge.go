package game

import (
	"context"
	"strings"

	"github.com/kestrelmc/kestrel/internal/router"
	"github.com/kestrelmc/kestrel/internal/world"
)

// chunkLayerSuffix and entityLayerSuffix distinguish the two broadcast
// logs this layer mirrors across nodes.
const (
	chunkLayerSuffix  = ".chunk"
	entityLayerSuffix = ".entity"
)

// subscribeRouter registers this node with its peers for both of the
// layer's broadcast logs. Subscriptions live for the process lifetime;
// router.Close (deferred in cmd/server/main.go) tears them down.
func (g *Game) subscribeRouter() {
	ctx := context.Background()
	for _, suffix := range []string{chunkLayerSuffix, entityLayerSuffix} {
		layerID := g.layerID + suffix
		if _, err := g.router.Subscribe(ctx, layerID, g.onRemoteLayerMessage); err != nil {
			g.log.Error("router: subscribe %s: %v", layerID, err)
		}
	}
}

// onRemoteLayerMessage runs on NATS's own delivery goroutine, never the
// tick loop — it only ever hands the envelope off to routerInbox.
func (g *Game) onRemoteLayerMessage(ctx context.Context, env router.Envelope) {
	select {
	case g.routerInbox <- env:
	default:
		g.log.Warn("router: inbox full, dropping mirrored broadcast from node %s", env.NodeID)
	}
}

// drainRouterInbox applies every peer broadcast received since the last
// tick, merging each into the matching local layer's message log under
// ScopeAllMessages — mirrored bytes carry no original scope information
// over the wire, so every local viewer receives them. Runs once per tick
// from phaseIngress, the scheduler goroutine.
func (g *Game) drainRouterInbox() {
	if g.routerInbox == nil {
		return
	}
	for {
		select {
		case env := <-g.routerInbox:
			g.applyRemoteLayerMessage(env)
		default:
			return
		}
	}
}

func (g *Game) applyRemoteLayerMessage(env router.Envelope) {
	switch {
	case strings.HasSuffix(env.LayerID, chunkLayerSuffix):
		g.ChunkLayer.Messages.Append(world.ScopeAllMessages, env.Data)
	case strings.HasSuffix(env.LayerID, entityLayerSuffix):
		g.EntityLayer.Messages.Append(world.ScopeAllMessages, env.Data)
	}
}
