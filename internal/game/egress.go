package game

import (
	"context"
	"time"

	"github.com/kestrelmc/kestrel/internal/protocol"
)

// phaseEgress is the scheduler's fifth phase: per-session
// protocol bookkeeping that doesn't depend on world state — keepalive
// ping/timeout and the end-of-tick action-sequence acknowledgement.
func (g *Game) phaseEgress(ctx context.Context, tick uint64, dt time.Duration) {
	now := time.Now()
	for _, s := range g.snapshotSessions() {
		if !s.inPlay() {
			continue
		}
		if id, send, timedOut := s.Keepalive.Tick(now); timedOut {
			g.log.Warn("conn %d: keepalive timeout, disconnecting", s.ConnID)
			s.Conn.Close()
			continue
		} else if send {
			if body, err := protocol.EncodeWithID(&protocol.KeepAliveS2C{ID: id}); err == nil {
				s.Conn.Send(body)
			}
		}
		if seq, ok := s.Actions.DrainAck(); ok {
			if body, err := protocol.EncodeWithID(&protocol.AcknowledgeBlockChange{Sequence: seq}); err == nil {
				s.Conn.Send(body)
			}
		}
	}
}
