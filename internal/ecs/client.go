package ecs

import (
	"github.com/kestrelmc/kestrel/internal/chunkdata"
)

// GameMode is a player's rule set, encoded as the wire's unsigned byte.
type GameMode uint8

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// Client is the component bundle attached to a player-controlled Entity:
// its view state and a per-client egress queue (Outbox). Connection-state-machine concerns
// (handshake, encryption, keepalive, teleport handshake, action sequence)
// live in internal/session and reference a Client by EntityID rather than
// embedding here, keeping ecs free of networking types.
type Client struct {
	Entity   *Entity
	Username string

	// View and LastView are this tick's and the previous tick's chunk view;
	// ViewPipeline diffs them to compute chunk enter/exit.
	View     chunkdata.ChunkView
	LastView chunkdata.ChunkView

	// ViewDistance is this client's requested view distance (ClientSettings),
	// already clamped to view_distance_max. It starts at that max and only
	// shrinks if the client asks for less.
	ViewDistance int

	// GameMode is the player's current rule set; changing it mid-session
	// is announced to the client with a game-event packet.
	GameMode GameMode

	// Outbox is a buffered queue of encoded packet bytes, filled by Send
	// without blocking. Nothing in this package drains it; the game phases
	// send through the connection's own outbox in internal/net instead.
	Outbox chan []byte
}

// NewClient creates a Client wrapping entity, with an outbox of the given
// buffer size and ViewDistance starting at viewDistanceMax.
func NewClient(entity *Entity, username string, outboxSize, viewDistanceMax int) *Client {
	return &Client{
		Entity:       entity,
		Username:     username,
		Outbox:       make(chan []byte, outboxSize),
		ViewDistance: viewDistanceMax,
	}
}

// Send enqueues an encoded packet for delivery, dropping it if the outbox
// is full rather than blocking the tick loop — a slow client falls behind
// on updates instead of stalling every other client's tick.
func (c *Client) Send(body []byte) (sent bool) {
	select {
	case c.Outbox <- body:
		return true
	default:
		return false
	}
}
