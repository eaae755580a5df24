package game

import (
	"context"
	"time"

	"github.com/kestrelmc/kestrel/internal/cache"
	"github.com/kestrelmc/kestrel/internal/ecs"
	kestrelnet "github.com/kestrelmc/kestrel/internal/net"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/session"
)

// phaseIngress is the scheduler's first phase: drain every connection's
// decoded-packet inbox, advance pre-Play FSM state synchronously, and
// queue Play packets onto their session for the EventLoop phase to
// apply. Nothing here blocks — login packets that need a network round
// trip (Mojang's session service, the profile store) are handed to a
// goroutine and collected via g.loginResults on a later tick.
func (g *Game) phaseIngress(ctx context.Context, tick uint64, dt time.Duration) {
	g.drainLoginResults()
	g.drainRouterInbox()
	g.netServer.Each(func(conn *kestrelnet.Connection) {
		g.reapIfClosed(conn)
		g.drainInbox(ctx, conn)
	})
}

// reapIfClosed clears a session whose socket has already closed (read/write
// loop error, or a prior Kick) but hasn't yet been noticed by the tick loop.
func (g *Game) reapIfClosed(conn *kestrelnet.Connection) {
	if !conn.Closed() {
		return
	}
	g.mu.Lock()
	s, ok := g.sessions[conn.ID]
	if ok {
		delete(g.sessions, conn.ID)
	}
	g.mu.Unlock()
	if ok && s.Client != nil {
		g.EntityLayer.Despawn(s.Client.Entity)
		g.cachePositionOnDisconnect(s.Client)
	}
	g.netServer.Remove(conn.ID)
}

// cachePositionOnDisconnect saves c's position for recall on the player's
// next join. Fired off in
// a goroutine since the Redis round trip must not block the tick loop.
func (g *Game) cachePositionOnDisconnect(c *ecs.Client) {
	if g.cache == nil {
		return
	}
	e := c.Entity
	pos := cache.LastPosition{LayerID: g.layerID, Position: e.Position, Look: e.Look}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.cache.SavePosition(ctx, e.UniqueID, pos); err != nil {
			g.log.Warn("cache: save position for %s: %v", e.UniqueID, err)
		}
	}()
}

func (g *Game) drainInbox(ctx context.Context, conn *kestrelnet.Connection) {
	for {
		select {
		case in := <-conn.Inbox:
			if g.metrics != nil {
				g.metrics.PacketsIn.Inc()
			}
			g.dispatch(ctx, conn, in)
		default:
			return
		}
	}
}

func (g *Game) dispatch(ctx context.Context, conn *kestrelnet.Connection, in kestrelnet.Inbound) {
	switch pkt := in.Packet.(type) {
	case *protocol.Handshake:
		if err := conn.FSM.HandleHandshake(pkt); err != nil {
			g.log.Warn("conn %d: handshake rejected: %v", conn.ID, err)
			conn.Close()
		}
	case *protocol.StatusRequest:
		g.handleStatusRequest(conn)
	case *protocol.PingRequest:
		body, err := protocol.EncodeWithID(&protocol.PongResponse{Payload: pkt.Payload})
		if err == nil {
			conn.Send(body)
		}
	case *protocol.LoginStart:
		g.handleLoginStart(ctx, conn, pkt)
	case *protocol.EncryptionResponse:
		g.handleEncryptionResponse(ctx, conn, pkt)
	default:
		if conn.FSM.Phase() != session.PhasePlay {
			g.log.Warn("conn %d: unexpected packet %T outside Play", conn.ID, pkt)
			return
		}
		if s, ok := g.sessionFor(conn.ID); ok {
			s.pending = append(s.pending, in.Packet)
		}
	}
}
