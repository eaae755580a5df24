package game

import (
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/session"
)

func encodePlayDisconnect(reason string) ([]byte, error) {
	return protocol.EncodeWithID(&protocol.PlayDisconnect{ReasonJSON: session.Reason(reason)})
}

func encodeLoginDisconnect(reason string) ([]byte, error) {
	return protocol.EncodeWithID(&protocol.LoginDisconnect{ReasonJSON: session.Reason(reason)})
}

// sessionFor returns the session tracking connID, if login has completed.
func (g *Game) sessionFor(connID uint64) (*Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[connID]
	return s, ok
}
