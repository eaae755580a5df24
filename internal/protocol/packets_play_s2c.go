package protocol

import (
	"github.com/google/uuid"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// PlayDisconnect terminates a Play-state connection with a reason.
type PlayDisconnect struct {
	ReasonJSON string
}

func (p *PlayDisconnect) PacketID() int32  { return 0x1D }
func (p *PlayDisconnect) Encode(w *Writer) { w.String(p.ReasonJSON, MaxTextComponentChars) }

func decodePlayDisconnect(r *Reader) Packet {
	return &PlayDisconnect{ReasonJSON: r.String(MaxTextComponentChars)}
}

// KeepAliveS2C is the server's half of the keepalive handshake: a random
// id the client must echo back within keepalive_period.
type KeepAliveS2C struct {
	ID int64
}

func (p *KeepAliveS2C) PacketID() int32  { return 0x20 }
func (p *KeepAliveS2C) Encode(w *Writer) { w.I64(p.ID) }

func decodeKeepAliveS2C(r *Reader) Packet { return &KeepAliveS2C{ID: r.I64()} }

// ChunkDataAndUpdateLight carries one chunk's full paletted encoding. The
// section/heightmap/block-entity bytes are produced by package chunkdata;
// this packet only frames them, keeping the codec a generic
// binary-framing layer over opaque section payloads.
type ChunkDataAndUpdateLight struct {
	ChunkX, ChunkZ int32
	Heightmaps     []byte // opaque NBT compound
	Data           []byte // concatenated section payloads
	BlockEntities  []byte // encoded block-entity list
}

func (p *ChunkDataAndUpdateLight) PacketID() int32 { return 0x24 }

func (p *ChunkDataAndUpdateLight) Encode(w *Writer) {
	w.I32(p.ChunkX)
	w.I32(p.ChunkZ)
	w.ByteSlice(p.Heightmaps)
	w.VarInt(int32(len(p.Data)))
	w.ByteSlice(p.Data)
	w.ByteSlice(p.BlockEntities)
}

func decodeChunkDataAndUpdateLight(r *Reader) Packet {
	x := r.I32()
	z := r.I32()
	return &ChunkDataAndUpdateLight{ChunkX: x, ChunkZ: z}
}

// UnloadChunk tells the client to drop a chunk it can no longer see.
type UnloadChunk struct {
	ChunkX, ChunkZ int32
}

func (p *UnloadChunk) PacketID() int32 { return 0x21 }

func (p *UnloadChunk) Encode(w *Writer) {
	w.I32(p.ChunkZ)
	w.I32(p.ChunkX)
}

func decodeUnloadChunk(r *Reader) Packet {
	z := r.I32()
	x := r.I32()
	return &UnloadChunk{ChunkX: x, ChunkZ: z}
}

// BlockUpdate announces a single block change.
type BlockUpdate struct {
	Pos     vec.BlockPos
	StateID int32
}

func (p *BlockUpdate) PacketID() int32 { return 0x09 }

func (p *BlockUpdate) Encode(w *Writer) {
	w.BlockPos(p.Pos)
	w.VarInt(p.StateID)
}

func decodeBlockUpdate(r *Reader) Packet {
	return &BlockUpdate{Pos: r.BlockPos(), StateID: r.VarInt()}
}

// SpawnEntity introduces an entity to a client's view.
type SpawnEntity struct {
	EntityID            int32
	UUID                uuid.UUID
	Kind                int32
	X, Y, Z             float64
	Pitch, Yaw, HeadYaw float32
	Data                int32
	VelX, VelY, VelZ    int16
}

func (p *SpawnEntity) PacketID() int32 { return 0x01 }

func (p *SpawnEntity) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.UUID(p.UUID)
	w.VarInt(p.Kind)
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.Angle(p.Pitch)
	w.Angle(p.Yaw)
	w.Angle(p.HeadYaw)
	w.VarInt(p.Data)
	w.I16(p.VelX)
	w.I16(p.VelY)
	w.I16(p.VelZ)
}

func decodeSpawnEntity(r *Reader) Packet {
	return &SpawnEntity{
		EntityID: r.VarInt(),
		UUID:     r.UUID(),
		Kind:     r.VarInt(),
		X:        r.F64(),
		Y:        r.F64(),
		Z:        r.F64(),
		Pitch:    r.Angle(),
		Yaw:      r.Angle(),
		HeadYaw:  r.Angle(),
		Data:     r.VarInt(),
		VelX:     r.I16(),
		VelY:     r.I16(),
		VelZ:     r.I16(),
	}
}

// UpdateEntityPosition is a relative move — the i16 delta is in 1/4096ths
// of a block per axis.
type UpdateEntityPosition struct {
	EntityID   int32
	DX, DY, DZ int16
	OnGround   bool
}

func (p *UpdateEntityPosition) PacketID() int32 { return 0x2E }

func (p *UpdateEntityPosition) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.I16(p.DX)
	w.I16(p.DY)
	w.I16(p.DZ)
	w.Bool(p.OnGround)
}

func decodeUpdateEntityPosition(r *Reader) Packet {
	return &UpdateEntityPosition{
		EntityID: r.VarInt(), DX: r.I16(), DY: r.I16(), DZ: r.I16(), OnGround: r.Bool(),
	}
}

// UpdateEntityPositionAndRotation is the combined rotate-and-move packet.
type UpdateEntityPositionAndRotation struct {
	EntityID   int32
	DX, DY, DZ int16
	Yaw, Pitch float32
	OnGround   bool
}

func (p *UpdateEntityPositionAndRotation) PacketID() int32 { return 0x2F }

func (p *UpdateEntityPositionAndRotation) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.I16(p.DX)
	w.I16(p.DY)
	w.I16(p.DZ)
	w.Angle(p.Yaw)
	w.Angle(p.Pitch)
	w.Bool(p.OnGround)
}

func decodeUpdateEntityPositionAndRotation(r *Reader) Packet {
	return &UpdateEntityPositionAndRotation{
		EntityID: r.VarInt(), DX: r.I16(), DY: r.I16(), DZ: r.I16(),
		Yaw: r.Angle(), Pitch: r.Angle(), OnGround: r.Bool(),
	}
}

// UpdateEntityRotation carries a look-only change.
type UpdateEntityRotation struct {
	EntityID   int32
	Yaw, Pitch float32
	OnGround   bool
}

func (p *UpdateEntityRotation) PacketID() int32 { return 0x30 }

func (p *UpdateEntityRotation) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.Angle(p.Yaw)
	w.Angle(p.Pitch)
	w.Bool(p.OnGround)
}

func decodeUpdateEntityRotation(r *Reader) Packet {
	return &UpdateEntityRotation{EntityID: r.VarInt(), Yaw: r.Angle(), Pitch: r.Angle(), OnGround: r.Bool()}
}

// TeleportEntity is the absolute-position fallback used when a relative
// move's delta would overflow the i16 wire encoding.
type TeleportEntity struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (p *TeleportEntity) PacketID() int32 { return 0x70 }

func (p *TeleportEntity) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.Angle(p.Yaw)
	w.Angle(p.Pitch)
	w.Bool(p.OnGround)
}

func decodeTeleportEntity(r *Reader) Packet {
	return &TeleportEntity{
		EntityID: r.VarInt(), X: r.F64(), Y: r.F64(), Z: r.F64(),
		Yaw: r.Angle(), Pitch: r.Angle(), OnGround: r.Bool(),
	}
}

// SetEntityMetadata carries an entity's TrackedData buffer — either a full
// init_data snapshot or an incremental update_data run, both already
// terminated with the 0xFF sentinel byte.
type SetEntityMetadata struct {
	EntityID int32
	Data     []byte
}

func (p *SetEntityMetadata) PacketID() int32 { return 0x56 }

func (p *SetEntityMetadata) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.ByteSlice(p.Data)
}

func decodeSetEntityMetadata(r *Reader) Packet {
	return &SetEntityMetadata{EntityID: r.VarInt(), Data: r.ByteSlice(r.Remaining())}
}

// RemoveEntities despawns one or more entities from the client's view.
type RemoveEntities struct {
	EntityIDs []int32
}

func (p *RemoveEntities) PacketID() int32 { return 0x42 }

func (p *RemoveEntities) Encode(w *Writer) {
	w.VarInt(int32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		w.VarInt(id)
	}
}

func decodeRemoveEntities(r *Reader) Packet {
	n := r.VarInt()
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = r.VarInt()
	}
	return &RemoveEntities{EntityIDs: ids}
}

// PlayerPositionLookS2C is the server-authoritative teleport packet: the
// client must reply with TeleportConfirm{TeleportID}.
type PlayerPositionLookS2C struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      uint8
	TeleportID int32
}

func (p *PlayerPositionLookS2C) PacketID() int32 { return 0x3C }

func (p *PlayerPositionLookS2C) Encode(w *Writer) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Z)
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.U8(p.Flags)
	w.VarInt(p.TeleportID)
}

func decodePlayerPositionLookS2C(r *Reader) Packet {
	return &PlayerPositionLookS2C{
		X: r.F64(), Y: r.F64(), Z: r.F64(),
		Yaw: r.F32(), Pitch: r.F32(),
		Flags: r.U8(), TeleportID: r.VarInt(),
	}
}

// AcknowledgeBlockChange confirms the highest client-supplied action
// sequence number seen this tick.
type AcknowledgeBlockChange struct {
	Sequence int32
}

func (p *AcknowledgeBlockChange) PacketID() int32  { return 0x05 }
func (p *AcknowledgeBlockChange) Encode(w *Writer) { w.VarInt(p.Sequence) }

func decodeAcknowledgeBlockChange(r *Reader) Packet {
	return &AcknowledgeBlockChange{Sequence: r.VarInt()}
}

// RegisterPlayClientbound adds the clientbound play packet set to reg.
func RegisterPlayClientbound(reg *Registry) {
	reg.Register(StatePlay, Clientbound, (&AcknowledgeBlockChange{}).PacketID(), "acknowledge_block_change", decodeAcknowledgeBlockChange)
	reg.Register(StatePlay, Clientbound, (&SpawnEntity{}).PacketID(), "spawn_entity", decodeSpawnEntity)
	reg.Register(StatePlay, Clientbound, (&BlockUpdate{}).PacketID(), "block_update", decodeBlockUpdate)
	reg.Register(StatePlay, Clientbound, (&PlayDisconnect{}).PacketID(), "disconnect", decodePlayDisconnect)
	reg.Register(StatePlay, Clientbound, (&KeepAliveS2C{}).PacketID(), "keep_alive", decodeKeepAliveS2C)
	reg.Register(StatePlay, Clientbound, (&ChunkDataAndUpdateLight{}).PacketID(), "chunk_data_and_update_light", decodeChunkDataAndUpdateLight)
	reg.Register(StatePlay, Clientbound, (&UnloadChunk{}).PacketID(), "unload_chunk", decodeUnloadChunk)
	reg.Register(StatePlay, Clientbound, (&RemoveEntities{}).PacketID(), "remove_entities", decodeRemoveEntities)
	reg.Register(StatePlay, Clientbound, (&UpdateEntityPosition{}).PacketID(), "update_entity_position", decodeUpdateEntityPosition)
	reg.Register(StatePlay, Clientbound, (&UpdateEntityPositionAndRotation{}).PacketID(), "update_entity_position_and_rotation", decodeUpdateEntityPositionAndRotation)
	reg.Register(StatePlay, Clientbound, (&UpdateEntityRotation{}).PacketID(), "update_entity_rotation", decodeUpdateEntityRotation)
	reg.Register(StatePlay, Clientbound, (&PlayerPositionLookS2C{}).PacketID(), "player_position_look", decodePlayerPositionLookS2C)
	reg.Register(StatePlay, Clientbound, (&SetEntityMetadata{}).PacketID(), "set_entity_metadata", decodeSetEntityMetadata)
	reg.Register(StatePlay, Clientbound, (&TeleportEntity{}).PacketID(), "teleport_entity", decodeTeleportEntity)
	registerPlayClientboundWorld(reg)
	registerPlayClientboundEntity(reg)
	registerPlayClientboundUI(reg)
}
