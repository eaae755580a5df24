package protocol

import "github.com/kestrelmc/kestrel/internal/vec"

// TeleportConfirm acknowledges a server-initiated teleport.
type TeleportConfirm struct {
	TeleportID int32
}

func (p *TeleportConfirm) PacketID() int32  { return 0x00 }
func (p *TeleportConfirm) Encode(w *Writer) { w.VarInt(p.TeleportID) }

func decodeTeleportConfirm(r *Reader) Packet { return &TeleportConfirm{TeleportID: r.VarInt()} }

// KeepAliveReply is the client's echo of a KeepAliveS2C id.
type KeepAliveReply struct {
	ID int64
}

func (p *KeepAliveReply) PacketID() int32  { return 0x18 }
func (p *KeepAliveReply) Encode(w *Writer) { w.I64(p.ID) }

func decodeKeepAliveReply(r *Reader) Packet { return &KeepAliveReply{ID: r.I64()} }

// PlayerPosition reports the client's believed position.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func (p *PlayerPosition) PacketID() int32 { return 0x1A }

func (p *PlayerPosition) Encode(w *Writer) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.Bool(p.OnGround)
}

func decodePlayerPosition(r *Reader) Packet {
	return &PlayerPosition{X: r.F64(), Y: r.F64(), Z: r.F64(), OnGround: r.Bool()}
}

// PlayerPositionAndRotation reports position and look together.
type PlayerPositionAndRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (p *PlayerPositionAndRotation) PacketID() int32 { return 0x1B }

func (p *PlayerPositionAndRotation) Encode(w *Writer) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.Bool(p.OnGround)
}

func decodePlayerPositionAndRotation(r *Reader) Packet {
	return &PlayerPositionAndRotation{
		X: r.F64(), Y: r.F64(), Z: r.F64(),
		Yaw: r.F32(), Pitch: r.F32(), OnGround: r.Bool(),
	}
}

// PlayerRotation reports a look-only change.
type PlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (p *PlayerRotation) PacketID() int32 { return 0x1C }

func (p *PlayerRotation) Encode(w *Writer) {
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.Bool(p.OnGround)
}

func decodePlayerRotation(r *Reader) Packet {
	return &PlayerRotation{Yaw: r.F32(), Pitch: r.F32(), OnGround: r.Bool()}
}

// PlayerMovement reports only the on-ground flag, no position change.
type PlayerMovement struct {
	OnGround bool
}

func (p *PlayerMovement) PacketID() int32  { return 0x1D }
func (p *PlayerMovement) Encode(w *Writer) { w.Bool(p.OnGround) }

func decodePlayerMovement(r *Reader) Packet { return &PlayerMovement{OnGround: r.Bool()} }

// DiggingStatus is the enum tag of a PlayerAction packet.
type DiggingStatus int32

const (
	DiggingStarted DiggingStatus = iota
	DiggingCancelled
	DiggingFinished
	DropItemStack
	DropItem
	ShootArrowOrFinishEating
	SwapItemInHand
)

// PlayerAction is the client's report of a dig/break/drop action, carrying
// the monotonic action sequence number the server acknowledges each tick.
type PlayerAction struct {
	Status   DiggingStatus
	Location vec.BlockPos
	Face     int8
	Sequence int32
}

func (p *PlayerAction) PacketID() int32 { return 0x1F }

func (p *PlayerAction) Encode(w *Writer) {
	w.VarInt(int32(p.Status))
	w.BlockPos(p.Location)
	w.I8(p.Face)
	w.VarInt(p.Sequence)
}

func decodePlayerAction(r *Reader) Packet {
	return &PlayerAction{
		Status:   DiggingStatus(r.VarInt()),
		Location: r.BlockPos(),
		Face:     r.I8(),
		Sequence: r.VarInt(),
	}
}

// PlayerBlockPlacement is the client's request to place a block, carrying
// the same monotonic action sequence number PlayerAction does.
type PlayerBlockPlacement struct {
	Hand                      int32
	Location                  vec.BlockPos
	Face                      int32
	CursorX, CursorY, CursorZ float32
	InsideBlock               bool
	Sequence                  int32
}

func (p *PlayerBlockPlacement) PacketID() int32 { return 0x38 }

func (p *PlayerBlockPlacement) Encode(w *Writer) {
	w.VarInt(p.Hand)
	w.BlockPos(p.Location)
	w.VarInt(p.Face)
	w.F32(p.CursorX)
	w.F32(p.CursorY)
	w.F32(p.CursorZ)
	w.Bool(p.InsideBlock)
	w.VarInt(p.Sequence)
}

func decodePlayerBlockPlacement(r *Reader) Packet {
	return &PlayerBlockPlacement{
		Hand:     r.VarInt(),
		Location: r.BlockPos(),
		Face:     r.VarInt(),
		CursorX:  r.F32(), CursorY: r.F32(), CursorZ: r.F32(),
		InsideBlock: r.Bool(),
		Sequence:    r.VarInt(),
	}
}

// ClientSettings reports the client's locale/rendering options. Only
// ViewDistance is consumed by this core (clamped server-side to
// view_distance_max); the rest of vanilla's payload
// (chat mode, skin parts, main hand, and so on) is left unread and ignored;
// Encode writes an empty locale and the view distance only.
type ClientSettings struct {
	ViewDistance int8
}

func (p *ClientSettings) PacketID() int32 { return 0x08 }

func (p *ClientSettings) Encode(w *Writer) {
	w.String("", 16) // locale
	w.I8(p.ViewDistance)
}

func decodeClientSettings(r *Reader) Packet {
	_ = r.String(16) // locale
	dist := r.I8()
	return &ClientSettings{ViewDistance: dist}
}

// ChatMessageC2S is a chat message sent by the client.
type ChatMessageC2S struct {
	Message string
}

func (p *ChatMessageC2S) PacketID() int32  { return 0x05 }
func (p *ChatMessageC2S) Encode(w *Writer) { w.String(p.Message, 256) }

func decodeChatMessageC2S(r *Reader) Packet { return &ChatMessageC2S{Message: r.String(256)} }

// RegisterPlayServerbound adds the serverbound play packet set to reg.
func RegisterPlayServerbound(reg *Registry) {
	reg.Register(StatePlay, Serverbound, (&TeleportConfirm{}).PacketID(), "teleport_confirm", decodeTeleportConfirm)
	reg.Register(StatePlay, Serverbound, (&ChatMessageC2S{}).PacketID(), "chat_message", decodeChatMessageC2S)
	reg.Register(StatePlay, Serverbound, (&ClientSettings{}).PacketID(), "client_settings", decodeClientSettings)
	reg.Register(StatePlay, Serverbound, (&KeepAliveReply{}).PacketID(), "keep_alive", decodeKeepAliveReply)
	reg.Register(StatePlay, Serverbound, (&PlayerPosition{}).PacketID(), "player_position", decodePlayerPosition)
	reg.Register(StatePlay, Serverbound, (&PlayerPositionAndRotation{}).PacketID(), "player_position_and_rotation", decodePlayerPositionAndRotation)
	reg.Register(StatePlay, Serverbound, (&PlayerRotation{}).PacketID(), "player_rotation", decodePlayerRotation)
	reg.Register(StatePlay, Serverbound, (&PlayerMovement{}).PacketID(), "player_movement", decodePlayerMovement)
	reg.Register(StatePlay, Serverbound, (&PlayerAction{}).PacketID(), "player_action", decodePlayerAction)
	reg.Register(StatePlay, Serverbound, (&PlayerBlockPlacement{}).PacketID(), "player_block_placement", decodePlayerBlockPlacement)
	registerPlayServerboundMore(reg)
}
