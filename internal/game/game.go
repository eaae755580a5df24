// Package game wires every other internal package into the running
// server: it owns the world's chunk/entity layers, the set of connected
// sessions, and the six scheduler phase callbacks the tick loop runs.
// One central Game type plus per-concern files, one per tick phase.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/kestrelmc/kestrel/internal/cache"
	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/config"
	"github.com/kestrelmc/kestrel/internal/console"
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/logging"
	"github.com/kestrelmc/kestrel/internal/metrics"
	kestrelnet "github.com/kestrelmc/kestrel/internal/net"
	"github.com/kestrelmc/kestrel/internal/profile"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/router"
	"github.com/kestrelmc/kestrel/internal/scheduler"
	"github.com/kestrelmc/kestrel/internal/session"
	"github.com/kestrelmc/kestrel/internal/vec"
	"github.com/kestrelmc/kestrel/internal/world"
)

// spawnChunkRadius is how many chunks around the origin are loaded at
// startup, before any client's own view radius has pulled in more.
const spawnChunkRadius = 3

// outboxSize bounds the per-client application-level egress queue
// (ecs.Client.Outbox), separate from internal/net's socket-level Outbox.
// The tick phases in this package send through the socket-level Outbox and
// never write to ecs.Client.Outbox.
const outboxSize = 1024

// Session is the orchestration-layer bundle for one connection: its
// socket, its FSM, and — once login completes — the ECS entity/client and
// per-tick protocol handshakes it owns.
type Session struct {
	ConnID uint64
	Conn   *kestrelnet.Connection
	FSM    *session.FSM

	Client    *ecs.Client
	Keepalive *session.Keepalive
	Teleport  *session.Teleport
	Actions   *session.ActionSequence

	// everViewed is false until this session's first ClientUpdate phase has
	// run, distinguishing "no previous view at all" (everything is a fresh
	// enter) from a legitimate zero-value ChunkView.
	everViewed bool

	// moved/rotated accumulate this tick's inbound movement so the
	// broadcast phase emits exactly one movement message per entity per
	// tick, however many movement packets arrived.
	moved   bool
	rotated bool

	// pending holds Play packets this session received during Ingress,
	// applied to world state during EventLoop — keeping Ingress a pure
	// receive phase.
	pending []protocol.Packet
}

// inPlay reports whether this session has finished login and has a live
// entity in the world.
func (s *Session) inPlay() bool { return s.Client != nil }

// loginResult is handed from an async login goroutine (profile lookup,
// and for online mode the Mojang session-service round trip) back to the
// Ingress phase, which is the only place allowed to touch game state.
type loginResult struct {
	connID   uint64
	packets  []protocol.Packet // in send order; encoded once applied
	secret   []byte            // non-nil: enable encryption before sending packets
	identity session.Identity
	spawnAt  *vec.Vec3 // non-nil: cached last-known position, else g.spawnPos
	err      error     // non-nil: send LoginDisconnect with err's message and close
}

// Game owns the authoritative world state and the live connection set. Its
// methods are only safe to call from the scheduler goroutine, except where
// noted (Kick, and the channels session goroutines send results on).
type Game struct {
	cfg        *config.Config
	registries *registry.Registries

	ChunkLayer  *world.ChunkLayer
	EntityLayer *world.EntityLayer

	netServer *kestrelnet.Server
	sched     *scheduler.Scheduler

	log       *logging.Logger
	metrics   *metrics.Server
	profiles  profile.Store
	cache     *cache.Cache
	router    *router.Router
	whitelist *console.Whitelist

	keys     *session.KeyPair
	serverID string
	layerID  string

	// routerInbox carries peer-node broadcasts in from Router.Subscribe's
	// NATS callback goroutine; only phaseIngress (the scheduler goroutine)
	// drains it, keeping Game's "only touch state from the tick loop" rule
	// intact for cross-node messages too.
	routerInbox chan router.Envelope

	eventHandlers []func(Event)

	mu         sync.Mutex
	sessions   map[uint64]*Session
	nextEntity ecs.EntityID

	loginResults chan loginResult

	startTime time.Time
	spawnPos  vec.Vec3
}

// Config bundles the dependencies New needs.
type Config struct {
	Cfg        *config.Config
	Registries *registry.Registries
	NetServer  *kestrelnet.Server
	Scheduler  *scheduler.Scheduler
	Log        *logging.Logger
	Metrics    *metrics.Server
	Profiles   profile.Store
	Cache      *cache.Cache   // nil if disabled
	Router     *router.Router // nil if disabled
	Whitelist  *console.Whitelist
	Keys       *session.KeyPair // nil unless online mode
	ServerID   string
}

// New builds a Game and registers its tick-phase callbacks with cfg.Scheduler.
func New(c Config) *Game {
	minY, sectionCount := -64, 24 // vanilla overworld height, -64..320
	g := &Game{
		cfg:          c.Cfg,
		registries:   c.Registries,
		ChunkLayer:   world.NewChunkLayer(minY, sectionCount, c.Registries.Blocks),
		EntityLayer:  world.NewEntityLayer(),
		netServer:    c.NetServer,
		sched:        c.Scheduler,
		log:          c.Log,
		metrics:      c.Metrics,
		profiles:     c.Profiles,
		cache:        c.Cache,
		router:       c.Router,
		whitelist:    c.Whitelist,
		keys:         c.Keys,
		serverID:     c.ServerID,
		layerID:      "overworld",
		sessions:     make(map[uint64]*Session),
		loginResults: make(chan loginResult, 64),
		startTime:    time.Now(),
		spawnPos:     vec.Vec3{X: 8, Y: 64, Z: 8},
	}
	g.bootstrapSpawnChunks(minY, sectionCount)
	if g.router != nil {
		g.routerInbox = make(chan router.Envelope, 256)
		g.subscribeRouter()
	}
	g.registerPhases()
	return g
}

// bootstrapSpawnChunks loads a flat stone platform around the origin so a
// freshly joined client has somewhere to stand, built from the default
// "stone"/"air" kinds in registry.DefaultBlockKinds.
func (g *Game) bootstrapSpawnChunks(minY, sectionCount int) {
	stone, ok := g.registries.Blocks.DefaultState("stone")
	if !ok {
		return
	}
	for dz := -spawnChunkRadius; dz <= spawnChunkRadius; dz++ {
		for dx := -spawnChunkRadius; dx <= spawnChunkRadius; dx++ {
			pos := chunkdata.ChunkPos{X: int32(dx), Z: int32(dz)}
			c := chunkdata.NewChunk(pos, minY, sectionCount, g.registries.Blocks, registry.BiomePlains)
			base := pos.Block(minY)
			for lz := 0; lz < chunkdata.SectionSize; lz++ {
				for lx := 0; lx < chunkdata.SectionSize; lx++ {
					p := base.Add(vec.BlockPos{X: lx, Y: 0, Z: lz})
					p.Y = 63
					c.SetBlockAt(p, stone)
				}
			}
			c.DrainDirty() // initial fill is not a mutation to broadcast
			g.ChunkLayer.InsertChunk(pos, c)
		}
	}
}

// registerPhases wires the six ordered tick-phase callbacks into sched,
// one per file in this package.
func (g *Game) registerPhases() {
	g.sched.Register(scheduler.PhaseIngress, g.phaseIngress)
	g.sched.Register(scheduler.PhaseEventLoop, g.phaseEventLoop)
	g.sched.Register(scheduler.PhaseBroadcast, g.phaseBroadcast)
	g.sched.Register(scheduler.PhaseClientUpdate, g.phaseClientUpdate)
	g.sched.Register(scheduler.PhaseEgress, g.phaseEgress)
	g.sched.Register(scheduler.PhaseClear, g.phaseClear)
	if g.metrics != nil {
		g.sched.OnTick(func(tick uint64, d time.Duration) { g.metrics.ObserveTick(d) })
	}
}

// Run starts accepting connections and drives the tick loop until ctx is
// cancelled.
func (g *Game) Run(ctx context.Context) {
	go g.netServer.Accept(ctx)
	g.sched.Run(ctx)
}

// PlayerCount returns the number of sessions that have completed login,
// for console.Reporter/REST /status.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, s := range g.sessions {
		if s.inPlay() {
			n++
		}
	}
	return n
}

// Tick returns the current scheduler tick, for console.Reporter.
func (g *Game) Tick() uint64 { return g.sched.Tick() }

// Players returns the usernames of every session that has completed
// login, for the admin REST API's /players endpoint.
func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.sessions))
	for _, s := range g.sessions {
		if s.inPlay() {
			out = append(out, s.Client.Username)
		}
	}
	return out
}

// Kick disconnects the player matching usernameOrUUID, satisfying
// console.Kicker. Safe to call from the console's own goroutine: it only
// touches the connection (closing a socket is safe from any goroutine)
// and briefly locks g.mu to look the session up.
func (g *Game) Kick(usernameOrUUID, reason string) bool {
	g.mu.Lock()
	var target *Session
	for _, s := range g.sessions {
		if !s.inPlay() {
			continue
		}
		if s.Client.Username == usernameOrUUID || s.FSM.Identity().UUID.String() == usernameOrUUID {
			target = s
			break
		}
	}
	g.mu.Unlock()
	if target == nil {
		return false
	}
	body, err := encodePlayDisconnect(reason)
	if err == nil {
		target.Conn.Send(body)
	}
	target.Conn.Close()
	return true
}
