package game

import (
	"context"
	"time"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/vec"
	"github.com/kestrelmc/kestrel/internal/world"
)

// movementClampBlocks bounds how far a single tick's position update may
// move an entity: a client reporting a larger jump is lying or has
// desynced, and the update is dropped rather than applied.
const movementClampBlocks = 100.0

// phaseEventLoop applies every session's packets queued during Ingress to
// world state: movement, block actions, chat,
// teleport confirmation, and keepalive replies.
func (g *Game) phaseEventLoop(ctx context.Context, tick uint64, dt time.Duration) {
	for _, s := range g.snapshotSessions() {
		if len(s.pending) == 0 {
			continue
		}
		pkts := s.pending
		s.pending = nil
		for _, pkt := range pkts {
			g.applyPlayPacket(s, pkt)
		}
	}
}

func (g *Game) snapshotSessions() []*Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		out = append(out, s)
	}
	return out
}

func (g *Game) applyPlayPacket(s *Session, pkt protocol.Packet) {
	g.emit(PacketEvent{Client: s.Client, Packet: pkt})
	switch p := pkt.(type) {
	case *protocol.TeleportConfirm:
		if !s.Teleport.Confirm(p.TeleportID) {
			g.log.Warn("conn %d: teleport confirm mismatch, disconnecting", s.ConnID)
			s.Conn.Close()
			return
		}
		g.emit(TeleportConfirmEvent{Client: s.Client, ID: p.TeleportID})
	case *protocol.KeepAliveReply:
		if !s.Keepalive.Reply(p.ID, time.Now()) {
			g.log.Warn("conn %d: unexpected keepalive reply, disconnecting", s.ConnID)
			s.Conn.Close()
		}
	case *protocol.PlayerPosition:
		g.applyMove(s, p.X, p.Y, p.Z, s.Client.Entity.Look.Yaw, s.Client.Entity.Look.Pitch, p.OnGround, false)
	case *protocol.PlayerPositionAndRotation:
		g.applyMove(s, p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.OnGround, true)
	case *protocol.PlayerRotation:
		e := s.Client.Entity
		g.applyMove(s, e.Position.X, e.Position.Y, e.Position.Z, p.Yaw, p.Pitch, p.OnGround, true)
	case *protocol.PlayerMovement:
		s.Client.Entity.OnGround = p.OnGround
	case *protocol.PlayerAction:
		g.applyPlayerAction(s, p)
	case *protocol.PlayerBlockPlacement:
		g.applyBlockPlacement(s, p)
	case *protocol.UseItem:
		s.Actions.Observe(p.Sequence)
	case *protocol.SwingArm:
		g.applySwingArm(s, p)
	case *protocol.PlayerCommand:
		g.applyPlayerCommand(s, p)
	case *protocol.ChatMessageC2S:
		g.log.Info("<%s> %s", s.Client.Username, p.Message)
		g.emit(ChatMessageEvent{Client: s.Client, Message: p.Message})
	case *protocol.ChatCommand:
		g.emit(CommandEvent{Client: s.Client, Command: p.Command})
	case *protocol.ClientSettings:
		g.applyClientSettings(s, p)
	}
}

// applySwingArm rebroadcasts a client's arm swing to everyone else who can
// see it.
func (g *Game) applySwingArm(s *Session, p *protocol.SwingArm) {
	anim := protocol.AnimationSwingMainArm
	if p.Hand == 1 {
		anim = protocol.AnimationSwingOffhand
	}
	e := s.Client.Entity
	pkt := &protocol.EntityAnimation{EntityID: int32(e.ID), Animation: anim}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return
	}
	cpos := chunkdata.BlockChunkPos(e.ChunkPosition())
	g.EntityLayer.Messages.Append(world.ScopeAtChunkExcept(cpos, e.ID), body)
}

// SetPosition is the server-initiated teleport path:
// collaborators (and internal systems) move a player through it so the
// client is sent a PlayerPositionLook it must confirm, with inbound
// movement ignored until it does. Only call from the tick goroutine.
func (g *Game) SetPosition(c *ecs.Client, pos vec.Vec3, look vec.Look) bool {
	var target *Session
	for _, s := range g.snapshotSessions() {
		if s.Client == c {
			target = s
			break
		}
	}
	if target == nil {
		return false
	}
	e := c.Entity
	e.Position = pos
	e.Look = look
	target.moved, target.rotated = true, true

	pkt := &protocol.PlayerPositionLookS2C{
		X: pos.X, Y: pos.Y, Z: pos.Z,
		Yaw: look.Yaw, Pitch: look.Pitch,
		TeleportID: target.Teleport.Begin(),
	}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		target.Conn.Send(body)
	}
	return true
}

// applyPlayerCommand surfaces sprint/sneak toggles to collaborators;
// horse-jump and elytra states have no consumer in this core.
func (g *Game) applyPlayerCommand(s *Session, p *protocol.PlayerCommand) {
	switch p.Action {
	case protocol.CommandStartSprinting:
		g.emit(SprintEvent{Client: s.Client, Sprinting: true})
	case protocol.CommandStopSprinting:
		g.emit(SprintEvent{Client: s.Client, Sprinting: false})
	case protocol.CommandStartSneaking:
		g.emit(SneakEvent{Client: s.Client, Sneaking: true})
	case protocol.CommandStopSneaking:
		g.emit(SneakEvent{Client: s.Client, Sneaking: false})
	}
}

// applyClientSettings honors the client's requested view distance,
// clamped to view_distance_max. A non-positive request is
// ignored rather than collapsing the client's view to nothing.
func (g *Game) applyClientSettings(s *Session, p *protocol.ClientSettings) {
	if p.ViewDistance <= 0 {
		return
	}
	dist := int(p.ViewDistance)
	if max := g.cfg.Server.GetViewDistanceMax(); dist > max {
		dist = max
	}
	s.Client.ViewDistance = dist
}

// applyMove validates and applies a position/rotation update. Movement is
// ignored entirely while a server-initiated teleport is unconfirmed, and a
// move farther than movementClampBlocks in one update is rejected and logged.
func (g *Game) applyMove(s *Session, x, y, z float64, yaw, pitch float32, onGround, rotationChanged bool) {
	if !s.Teleport.MovementAllowed() {
		return
	}
	e := s.Client.Entity
	next := vec.Vec3{X: x, Y: y, Z: z}
	if e.Position.Distance(next) > movementClampBlocks {
		g.log.Warn("conn %d: rejected movement of %.1f blocks in one tick", s.ConnID, e.Position.Distance(next))
		return
	}
	e.Position = next
	e.Look.Yaw, e.Look.Pitch = yaw, pitch
	e.OnGround = onGround
	s.moved = s.moved || e.Moved()
	s.rotated = s.rotated || rotationChanged
}

// applyPlayerAction handles dig/break reports. Only the terminal
// DiggingFinished status mutates the world; intermediate statuses are
// tracked for interaction timing elsewhere and are no-ops here (no block
// breaking animation/timing model in this core).
func (g *Game) applyPlayerAction(s *Session, p *protocol.PlayerAction) {
	s.Actions.Observe(p.Sequence)
	g.emit(DiggingEvent{Client: s.Client, Pos: p.Location, Status: p.Status})
	if p.Status != protocol.DiggingFinished {
		return
	}
	air := g.ChunkLayer.BlockRegistry().Air()
	g.ChunkLayer.SetBlockState(p.Location, air)
}

// faceOffsets maps a block-placement face index to the neighbor offset,
// matching vanilla's -Y/+Y/-Z/+Z/-X/+X face ordering.
var faceOffsets = [6]vec.BlockPos{
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
}

// applyBlockPlacement places a block against the targeted face. There is
// no inventory/item system in this core; every
// placement uses the same stand-in block kind.
func (g *Game) applyBlockPlacement(s *Session, p *protocol.PlayerBlockPlacement) {
	s.Actions.Observe(p.Sequence)
	g.emit(InteractBlockEvent{
		Client: s.Client, Pos: p.Location, Face: p.Face, Hand: p.Hand, Sequence: p.Sequence,
	})
	if p.Face < 0 || int(p.Face) >= len(faceOffsets) {
		return
	}
	target := p.Location.Add(faceOffsets[p.Face])
	state, ok := g.ChunkLayer.BlockRegistry().DefaultState("stone")
	if !ok {
		return
	}
	g.ChunkLayer.SetBlockState(target, state)
}
