package game

import (
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// Event is one occurrence surfaced to external collaborators during the
// event-loop phase. Handlers run synchronously on the tick goroutine, so
// they may freely read and write game state; anything slow belongs on a
// collaborator-owned goroutine fed from the handler.
type Event any

// PacketEvent fires for every Play packet applied this tick, before the
// more specific event for that packet (if any).
type PacketEvent struct {
	Client *ecs.Client
	Packet protocol.Packet
}

// ChatMessageEvent fires when a client sends a chat message.
type ChatMessageEvent struct {
	Client  *ecs.Client
	Message string
}

// CommandEvent fires when a client executes a slash command.
type CommandEvent struct {
	Client  *ecs.Client
	Command string
}

// DiggingEvent fires on every dig-status report from a client; Status
// DiggingFinished is the one that broke a block.
type DiggingEvent struct {
	Client *ecs.Client
	Pos    vec.BlockPos
	Status protocol.DiggingStatus
}

// InteractBlockEvent fires when a client uses an item against a block
// face (the place action).
type InteractBlockEvent struct {
	Client   *ecs.Client
	Pos      vec.BlockPos
	Face     int32
	Hand     int32
	Sequence int32
}

// SprintEvent fires when a client starts or stops sprinting.
type SprintEvent struct {
	Client    *ecs.Client
	Sprinting bool
}

// SneakEvent fires when a client starts or stops sneaking.
type SneakEvent struct {
	Client   *ecs.Client
	Sneaking bool
}

// TeleportConfirmEvent fires when a client acknowledges a
// server-initiated teleport.
type TeleportConfirmEvent struct {
	Client *ecs.Client
	ID     int32
}

// OnEvent registers a collaborator's event handler. Registration is only
// safe before Run starts the tick loop; handlers fire in registration
// order.
func (g *Game) OnEvent(fn func(Event)) {
	g.eventHandlers = append(g.eventHandlers, fn)
}

func (g *Game) emit(ev Event) {
	for _, fn := range g.eventHandlers {
		fn(ev)
	}
}
