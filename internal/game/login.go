package game

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
	kestrelnet "github.com/kestrelmc/kestrel/internal/net"
	"github.com/kestrelmc/kestrel/internal/profile"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/session"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// statusDescription is the minimal server-list-ping document: just
// enough for a vanilla client to render a MOTD and player count.
type statusDescription struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

func (g *Game) handleStatusRequest(conn *kestrelnet.Connection) {
	var desc statusDescription
	desc.Version.Name = "kestrel"
	desc.Version.Protocol = 763
	desc.Players.Max = g.cfg.Server.GetMaxPlayers()
	desc.Players.Online = g.PlayerCount()
	desc.Description.Text = "A kestrel server"
	body, err := json.Marshal(desc)
	if err != nil {
		return
	}
	idBody, err := protocol.EncodeWithID(&protocol.StatusResponse{JSON: string(body)})
	if err == nil {
		conn.Send(idBody)
	}
}

// handleLoginStart begins the login sequence. Offline-mode
// identity resolution has no network call of its own, but still routes
// through the same async path as online mode so the profile-store lookup
// never runs on the tick goroutine.
func (g *Game) handleLoginStart(ctx context.Context, conn *kestrelnet.Connection, pkt *protocol.LoginStart) {
	if !g.whitelist.Allows(pkt.Username) {
		body, err := encodeLoginDisconnect("You are not whitelisted on this server")
		if err == nil {
			conn.Send(body)
		}
		conn.Close()
		return
	}
	pkts, err := conn.FSM.HandleLoginStart(pkt)
	if err != nil {
		g.log.Warn("conn %d: login_start rejected: %v", conn.ID, err)
		conn.Close()
		return
	}
	if pkts != nil {
		// Online mode: send EncryptionRequest and wait for the client's
		// EncryptionResponse before identity is known.
		for _, p := range pkts {
			if body, err := protocol.EncodeWithID(p); err == nil {
				conn.Send(body)
			}
		}
		return
	}
	// Offline mode: identity is already resolved, but still go through the
	// profile store (ban check, last-seen bookkeeping) off the tick loop.
	connID, username := conn.ID, pkt.Username
	go func() {
		loginPkts := conn.FSM.FinishOfflineLogin(username)
		identity := conn.FSM.Identity()
		g.loginResults <- g.resolveProfile(ctx, connID, identity, loginPkts, nil)
	}()
}

// handleEncryptionResponse completes the online-mode handshake: decrypting
// the shared secret, querying Mojang's session service, and resolving the
// profile store — all off the tick goroutine, since HasJoined is a blocking
// HTTP call.
func (g *Game) handleEncryptionResponse(ctx context.Context, conn *kestrelnet.Connection, pkt *protocol.EncryptionResponse) {
	connID := conn.ID
	go func() {
		loginPkts, secret, err := conn.FSM.HandleEncryptionResponse(ctx, pkt)
		if err != nil {
			g.loginResults <- loginResult{connID: connID, err: err}
			return
		}
		identity := conn.FSM.Identity()
		g.loginResults <- g.resolveProfile(ctx, connID, identity, loginPkts, secret)
	}()
}

// resolveProfile runs the profile-store half of login completion (ban
// check plus upsert) and, if a cache is configured, recalls the player's
// last-known position —
// both off the tick goroutine, building the final loginResult either way.
func (g *Game) resolveProfile(ctx context.Context, connID uint64, identity session.Identity, pkts []protocol.Packet, secret []byte) loginResult {
	if g.profiles != nil {
		if _, err := profile.Resolve(ctx, g.profiles, identity.UUID, identity.Username); err != nil {
			return loginResult{connID: connID, err: err}
		}
	}
	return loginResult{
		connID:   connID,
		packets:  pkts,
		secret:   secret,
		identity: identity,
		spawnAt:  g.recallPosition(ctx, identity.UUID),
	}
}

// recallPosition loads identity's cached last position, if a cache is
// configured and one is on record; nil means "spawn at the world default".
func (g *Game) recallPosition(ctx context.Context, id uuid.UUID) *vec.Vec3 {
	if g.cache == nil {
		return nil
	}
	pos, err := g.cache.LoadPosition(ctx, id)
	if err != nil {
		return nil
	}
	p := pos.Position
	return &p
}

// drainLoginResults applies every completed async login job, sending its
// packets (and, on success, spawning the player) or closing the connection
// with a reason on failure. Runs once per tick from phaseIngress.
func (g *Game) drainLoginResults() {
	for {
		select {
		case res := <-g.loginResults:
			g.applyLoginResult(res)
		default:
			return
		}
	}
}

func (g *Game) applyLoginResult(res loginResult) {
	conn, ok := g.netServer.Get(res.connID)
	if !ok {
		return // client disconnected while the job was in flight
	}
	if res.err != nil {
		g.log.Info("login failed for conn %d: %v", res.connID, res.err)
		body, err := encodeLoginDisconnect(res.err.Error())
		if err == nil {
			conn.Send(body)
		}
		conn.Close()
		g.netServer.Remove(res.connID)
		return
	}
	if g.PlayerCount() >= g.cfg.Server.GetMaxPlayers() {
		g.log.Info("login rejected for conn %d: server full", res.connID)
		body, err := encodeLoginDisconnect("The server is full")
		if err == nil {
			conn.Send(body)
		}
		conn.Close()
		g.netServer.Remove(res.connID)
		return
	}
	if res.secret != nil {
		if err := conn.EnableEncryption(res.secret); err != nil {
			g.log.Error("conn %d: enable encryption: %v", res.connID, err)
			conn.Close()
			g.netServer.Remove(res.connID)
			return
		}
	}
	for _, p := range res.packets {
		body, err := protocol.EncodeWithID(p)
		if err != nil {
			continue
		}
		conn.Send(body)
		if sc, ok := p.(*protocol.SetCompression); ok {
			conn.SetCompression(sc.Threshold)
		}
	}
	g.spawnPlayer(conn, res.identity, res.spawnAt)
}

// spawnPlayer creates the ECS entity/client for a freshly logged-in
// connection and registers it in the world.
// spawnAt overrides the world default spawn with a cached last-known
// position, if the login job recalled one.
func (g *Game) spawnPlayer(conn *kestrelnet.Connection, identity session.Identity, spawnAt *vec.Vec3) {
	g.mu.Lock()
	id := g.nextEntity
	g.nextEntity++
	g.mu.Unlock()

	pos := g.spawnPos
	if spawnAt != nil {
		pos = *spawnAt
	}
	entity := ecs.NewEntity(id, identity.UUID, registry.EntityPlayer, pos)
	client := ecs.NewClient(entity, identity.Username, outboxSize, g.cfg.Server.GetViewDistanceMax())

	s := &Session{
		ConnID:    conn.ID,
		Conn:      conn,
		FSM:       conn.FSM,
		Client:    client,
		Keepalive: session.NewKeepalive(g.cfg.Server.KeepalivePeriod()),
		Teleport:  &session.Teleport{},
		Actions:   &session.ActionSequence{},
	}
	g.mu.Lock()
	g.sessions[conn.ID] = s
	g.mu.Unlock()

	g.EntityLayer.Spawn(entity)

	g.sendJoinSequence(s)
	g.log.Info("%s (%s) joined from conn %d", identity.Username, identity.UUID, conn.ID)
}

// sendJoinSequence pushes the packets a vanilla client needs before its
// first chunk arrives: the world/dimension handoff, its abilities and view
// configuration, and the initial server-authoritative teleport whose
// confirm gates all inbound movement.
func (g *Game) sendJoinSequence(s *Session) {
	entity := s.Client.Entity
	cpos := chunkdata.BlockChunkPos(entity.ChunkPosition())
	viewDist := int32(s.Client.ViewDistance)

	send := func(p protocol.Packet) {
		if body, err := protocol.EncodeWithID(p); err == nil {
			s.Conn.Send(body)
		}
	}

	send(&protocol.LoginPlay{
		EntityID:            int32(entity.ID),
		GameMode:            uint8(s.Client.GameMode),
		PreviousGameMode:    -1,
		DimensionNames:      []string{"minecraft:overworld"},
		RegistryCodec:       registry.CodecBlob(),
		DimensionType:       "minecraft:overworld",
		DimensionName:       "minecraft:overworld",
		MaxPlayers:          int32(g.cfg.Server.GetMaxPlayers()),
		ViewDistance:        viewDist,
		SimulationDistance:  viewDist,
		EnableRespawnScreen: true,
		Flat:                true,
	})
	send(&protocol.PlayerAbilitiesS2C{Flags: 0})
	send(&protocol.SetHeldItemS2C{Slot: 0})
	send(&protocol.SetRenderDistance{Distance: viewDist})
	send(&protocol.SetCenterChunk{ChunkX: cpos.X, ChunkZ: cpos.Z})
	send(&protocol.SetDefaultSpawnPosition{Pos: g.spawnPos.Block()})

	teleportID := s.Teleport.Begin()
	send(&protocol.PlayerPositionLookS2C{
		X: entity.Position.X, Y: entity.Position.Y, Z: entity.Position.Z,
		Yaw: entity.Look.Yaw, Pitch: entity.Look.Pitch,
		TeleportID: teleportID,
	})
}
