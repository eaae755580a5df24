package protocol

import "github.com/kestrelmc/kestrel/internal/vec"

// ChatCommand is a slash command the client executed, without the leading
// slash. The signed-argument block vanilla appends is read past; this core
// carries no chat-signing infrastructure.
type ChatCommand struct {
	Command   string
	Timestamp int64
	Salt      int64
}

func (p *ChatCommand) PacketID() int32 { return 0x04 }

func (p *ChatCommand) Encode(w *Writer) {
	w.String(p.Command, 256)
	w.I64(p.Timestamp)
	w.I64(p.Salt)
	w.VarInt(0) // no signed arguments
	w.VarInt(0) // message count
	for i := 0; i < 3; i++ {
		w.Byte(0) // empty acknowledged-messages bit set
	}
}

func decodeChatCommand(r *Reader) Packet {
	p := &ChatCommand{
		Command:   r.String(256),
		Timestamp: r.I64(),
		Salt:      r.I64(),
	}
	n := r.VarInt()
	for i := int32(0); i < n; i++ {
		r.String(16)
		r.ByteSlice(256)
	}
	r.ByteSlice(r.Remaining()) // acknowledgment bit set
	return p
}

// ClientCommandAction discriminates ClientCommand.
type ClientCommandAction int32

const (
	ClientCommandRespawn ClientCommandAction = iota
	ClientCommandRequestStats
)

// ClientCommand is the client's respawn-screen button or stats request.
type ClientCommand struct {
	Action ClientCommandAction
}

func (p *ClientCommand) PacketID() int32  { return 0x07 }
func (p *ClientCommand) Encode(w *Writer) { w.VarInt(int32(p.Action)) }

func decodeClientCommand(r *Reader) Packet {
	return &ClientCommand{Action: ClientCommandAction(r.VarInt())}
}

// CloseContainerC2S reports the client closed a window.
type CloseContainerC2S struct {
	WindowID uint8
}

func (p *CloseContainerC2S) PacketID() int32  { return 0x0C }
func (p *CloseContainerC2S) Encode(w *Writer) { w.U8(p.WindowID) }

func decodeCloseContainerC2S(r *Reader) Packet {
	return &CloseContainerC2S{WindowID: r.U8()}
}

// PluginMessageC2S carries a mod/plugin channel payload from the client.
type PluginMessageC2S struct {
	Channel string
	Data    []byte
}

func (p *PluginMessageC2S) PacketID() int32 { return 0x0D }

func (p *PluginMessageC2S) Encode(w *Writer) {
	w.String(p.Channel, 0)
	w.ByteSlice(p.Data)
}

func decodePluginMessageC2S(r *Reader) Packet {
	return &PluginMessageC2S{Channel: r.String(0), Data: r.ByteSlice(r.Remaining())}
}

// InteractKind discriminates InteractEntity.
type InteractKind int32

const (
	InteractInteract InteractKind = iota
	InteractAttack
	InteractInteractAt
)

// InteractEntity is a click on another entity: attack, interact, or
// interact at a precise point on its hitbox.
type InteractEntity struct {
	EntityID int32
	Kind     InteractKind
	X, Y, Z  float32 // InteractAt only
	Hand     int32   // Interact/InteractAt only
	Sneaking bool
}

func (p *InteractEntity) PacketID() int32 { return 0x10 }

func (p *InteractEntity) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.VarInt(int32(p.Kind))
	if p.Kind == InteractInteractAt {
		w.F32(p.X)
		w.F32(p.Y)
		w.F32(p.Z)
	}
	if p.Kind != InteractAttack {
		w.VarInt(p.Hand)
	}
	w.Bool(p.Sneaking)
}

func decodeInteractEntity(r *Reader) Packet {
	p := &InteractEntity{EntityID: r.VarInt(), Kind: InteractKind(r.VarInt())}
	if p.Kind == InteractInteractAt {
		p.X, p.Y, p.Z = r.F32(), r.F32(), r.F32()
	}
	if p.Kind != InteractAttack {
		p.Hand = r.VarInt()
	}
	p.Sneaking = r.Bool()
	return p
}

// PlayerAbilitiesC2S reports the client toggling flight (the only flag a
// client may set).
type PlayerAbilitiesC2S struct {
	Flags uint8
}

func (p *PlayerAbilitiesC2S) PacketID() int32  { return 0x1E }
func (p *PlayerAbilitiesC2S) Encode(w *Writer) { w.U8(p.Flags) }

func decodePlayerAbilitiesC2S(r *Reader) Packet {
	return &PlayerAbilitiesC2S{Flags: r.U8()}
}

// PlayerCommandAction discriminates PlayerCommand.
type PlayerCommandAction int32

const (
	CommandStartSneaking PlayerCommandAction = iota
	CommandStopSneaking
	CommandLeaveBed
	CommandStartSprinting
	CommandStopSprinting
	CommandStartHorseJump
	CommandStopHorseJump
	CommandOpenHorseInventory
	CommandStartElytraFlight
)

// PlayerCommand reports a player state toggle: sneaking, sprinting, horse
// jump charge, elytra deployment.
type PlayerCommand struct {
	EntityID  int32
	Action    PlayerCommandAction
	JumpBoost int32
}

func (p *PlayerCommand) PacketID() int32 { return 0x20 }

func (p *PlayerCommand) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.VarInt(int32(p.Action))
	w.VarInt(p.JumpBoost)
}

func decodePlayerCommand(r *Reader) Packet {
	return &PlayerCommand{
		EntityID:  r.VarInt(),
		Action:    PlayerCommandAction(r.VarInt()),
		JumpBoost: r.VarInt(),
	}
}

// PlayerInput carries vehicle steering while the player is a passenger.
type PlayerInput struct {
	Sideways float32
	Forward  float32
	Flags    uint8 // bit 0 jump, bit 1 unmount
}

func (p *PlayerInput) PacketID() int32 { return 0x21 }

func (p *PlayerInput) Encode(w *Writer) {
	w.F32(p.Sideways)
	w.F32(p.Forward)
	w.U8(p.Flags)
}

func decodePlayerInput(r *Reader) Packet {
	return &PlayerInput{Sideways: r.F32(), Forward: r.F32(), Flags: r.U8()}
}

// ResourcePackStatus reports the client's progress through a server
// resource-pack prompt.
type ResourcePackStatus struct {
	Result int32
}

func (p *ResourcePackStatus) PacketID() int32  { return 0x27 }
func (p *ResourcePackStatus) Encode(w *Writer) { w.VarInt(p.Result) }

func decodeResourcePackStatus(r *Reader) Packet {
	return &ResourcePackStatus{Result: r.VarInt()}
}

// SetHeldItemC2S reports the client's hotbar selection.
type SetHeldItemC2S struct {
	Slot int16
}

func (p *SetHeldItemC2S) PacketID() int32  { return 0x28 }
func (p *SetHeldItemC2S) Encode(w *Writer) { w.I16(p.Slot) }

func decodeSetHeldItemC2S(r *Reader) Packet { return &SetHeldItemC2S{Slot: r.I16()} }

// UpdateSignC2S submits the four lines of a sign the player just edited.
type UpdateSignC2S struct {
	Pos       vec.BlockPos
	FrontText bool
	Lines     [4]string
}

func (p *UpdateSignC2S) PacketID() int32 { return 0x2E }

func (p *UpdateSignC2S) Encode(w *Writer) {
	w.BlockPos(p.Pos)
	w.Bool(p.FrontText)
	for _, line := range p.Lines {
		w.String(line, 384)
	}
}

func decodeUpdateSignC2S(r *Reader) Packet {
	p := &UpdateSignC2S{Pos: r.BlockPos(), FrontText: r.Bool()}
	for i := range p.Lines {
		p.Lines[i] = r.String(384)
	}
	return p
}

// SwingArm is the client's arm-swing animation trigger, rebroadcast to
// other viewers as an EntityAnimation.
type SwingArm struct {
	Hand int32
}

func (p *SwingArm) PacketID() int32  { return 0x2F }
func (p *SwingArm) Encode(w *Writer) { w.VarInt(p.Hand) }

func decodeSwingArm(r *Reader) Packet { return &SwingArm{Hand: r.VarInt()} }

// UseItem activates the held item (eat, draw bow, throw), tagged with the
// action sequence number like dig/place.
type UseItem struct {
	Hand     int32
	Sequence int32
}

func (p *UseItem) PacketID() int32 { return 0x39 }

func (p *UseItem) Encode(w *Writer) {
	w.VarInt(p.Hand)
	w.VarInt(p.Sequence)
}

func decodeUseItem(r *Reader) Packet {
	return &UseItem{Hand: r.VarInt(), Sequence: r.VarInt()}
}

func registerPlayServerboundMore(reg *Registry) {
	reg.Register(StatePlay, Serverbound, (&ChatCommand{}).PacketID(), "chat_command", decodeChatCommand)
	reg.Register(StatePlay, Serverbound, (&ClientCommand{}).PacketID(), "client_command", decodeClientCommand)
	reg.Register(StatePlay, Serverbound, (&CloseContainerC2S{}).PacketID(), "close_container", decodeCloseContainerC2S)
	reg.Register(StatePlay, Serverbound, (&PluginMessageC2S{}).PacketID(), "plugin_message", decodePluginMessageC2S)
	reg.Register(StatePlay, Serverbound, (&InteractEntity{}).PacketID(), "interact_entity", decodeInteractEntity)
	reg.Register(StatePlay, Serverbound, (&PlayerAbilitiesC2S{}).PacketID(), "player_abilities", decodePlayerAbilitiesC2S)
	reg.Register(StatePlay, Serverbound, (&PlayerCommand{}).PacketID(), "player_command", decodePlayerCommand)
	reg.Register(StatePlay, Serverbound, (&PlayerInput{}).PacketID(), "player_input", decodePlayerInput)
	reg.Register(StatePlay, Serverbound, (&ResourcePackStatus{}).PacketID(), "resource_pack_status", decodeResourcePackStatus)
	reg.Register(StatePlay, Serverbound, (&SetHeldItemC2S{}).PacketID(), "set_held_item", decodeSetHeldItemC2S)
	reg.Register(StatePlay, Serverbound, (&UpdateSignC2S{}).PacketID(), "update_sign", decodeUpdateSignC2S)
	reg.Register(StatePlay, Serverbound, (&SwingArm{}).PacketID(), "swing_arm", decodeSwingArm)
	reg.Register(StatePlay, Serverbound, (&UseItem{}).PacketID(), "use_item", decodeUseItem)
}
