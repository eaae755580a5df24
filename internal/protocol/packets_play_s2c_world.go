package protocol

import "github.com/kestrelmc/kestrel/internal/vec"

// LoginPlay moves a freshly authenticated client into the world: its
// entity id, game mode, dimension identity, and the view/simulation
// distances the server will honor. The registry codec blob carries the
// dimension/biome registry compound the client caches for the session.
type LoginPlay struct {
	EntityID            int32
	Hardcore            bool
	GameMode            uint8
	PreviousGameMode    int8
	DimensionNames      []string
	RegistryCodec       []byte // opaque NBT compound
	DimensionType       string
	DimensionName       string
	HashedSeed          int64
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebugInfo    bool
	EnableRespawnScreen bool
	Debug               bool
	Flat                bool
	HasDeathLocation    bool
	PortalCooldown      int32
}

func (p *LoginPlay) PacketID() int32 { return 0x28 }

func (p *LoginPlay) Encode(w *Writer) {
	w.I32(p.EntityID)
	w.Bool(p.Hardcore)
	w.U8(p.GameMode)
	w.I8(p.PreviousGameMode)
	w.VarInt(int32(len(p.DimensionNames)))
	for _, n := range p.DimensionNames {
		w.String(n, 0)
	}
	w.ByteSlice(p.RegistryCodec)
	w.String(p.DimensionType, 0)
	w.String(p.DimensionName, 0)
	w.I64(p.HashedSeed)
	w.VarInt(p.MaxPlayers)
	w.VarInt(p.ViewDistance)
	w.VarInt(p.SimulationDistance)
	w.Bool(p.ReducedDebugInfo)
	w.Bool(p.EnableRespawnScreen)
	w.Bool(p.Debug)
	w.Bool(p.Flat)
	w.Bool(p.HasDeathLocation)
	w.VarInt(p.PortalCooldown)
}

func decodeLoginPlay(r *Reader) Packet {
	p := &LoginPlay{
		EntityID:         r.I32(),
		Hardcore:         r.Bool(),
		GameMode:         r.U8(),
		PreviousGameMode: r.I8(),
	}
	n := r.VarInt()
	p.DimensionNames = make([]string, n)
	for i := range p.DimensionNames {
		p.DimensionNames[i] = r.String(0)
	}
	// The registry codec compound is self-delimiting NBT this decoder
	// cannot skip without parsing; mirror-decoding stops here. The server
	// never decodes its own clientbound packets in production.
	return p
}

// Respawn moves a live client to another dimension (or resets it after
// death), reusing LoginPlay's dimension identity fields.
type Respawn struct {
	DimensionType    string
	DimensionName    string
	HashedSeed       int64
	GameMode         uint8
	PreviousGameMode int8
	Debug            bool
	Flat             bool
	DataKept         uint8
	HasDeathLocation bool
	PortalCooldown   int32
}

func (p *Respawn) PacketID() int32 { return 0x41 }

func (p *Respawn) Encode(w *Writer) {
	w.String(p.DimensionType, 0)
	w.String(p.DimensionName, 0)
	w.I64(p.HashedSeed)
	w.U8(p.GameMode)
	w.I8(p.PreviousGameMode)
	w.Bool(p.Debug)
	w.Bool(p.Flat)
	w.U8(p.DataKept)
	w.Bool(p.HasDeathLocation)
	w.VarInt(p.PortalCooldown)
}

func decodeRespawn(r *Reader) Packet {
	return &Respawn{
		DimensionType:    r.String(0),
		DimensionName:    r.String(0),
		HashedSeed:       r.I64(),
		GameMode:         r.U8(),
		PreviousGameMode: r.I8(),
		Debug:            r.Bool(),
		Flat:             r.Bool(),
		DataKept:         r.U8(),
		HasDeathLocation: r.Bool(),
		PortalCooldown:   r.VarInt(),
	}
}

// GameEvent signals one of the client-side state changes vanilla folds
// into a single packet: game-mode change, rain start/stop, win state, and
// so on. Event selects the meaning of Value.
type GameEvent struct {
	Event uint8
	Value float32
}

// GameEventChangeGameMode is the Event value announcing a game-mode
// switch; Value carries the new mode.
const GameEventChangeGameMode = 3

func (p *GameEvent) PacketID() int32 { return 0x1F }

func (p *GameEvent) Encode(w *Writer) {
	w.U8(p.Event)
	w.F32(p.Value)
}

func decodeGameEvent(r *Reader) Packet {
	return &GameEvent{Event: r.U8(), Value: r.F32()}
}

// SetCenterChunk tells the client which chunk its loading area is
// centered on; sent whenever the player crosses a chunk boundary.
type SetCenterChunk struct {
	ChunkX, ChunkZ int32
}

func (p *SetCenterChunk) PacketID() int32 { return 0x4E }

func (p *SetCenterChunk) Encode(w *Writer) {
	w.VarInt(p.ChunkX)
	w.VarInt(p.ChunkZ)
}

func decodeSetCenterChunk(r *Reader) Packet {
	return &SetCenterChunk{ChunkX: r.VarInt(), ChunkZ: r.VarInt()}
}

// SetRenderDistance announces the server-side view distance in effect for
// this client.
type SetRenderDistance struct {
	Distance int32
}

func (p *SetRenderDistance) PacketID() int32  { return 0x4F }
func (p *SetRenderDistance) Encode(w *Writer) { w.VarInt(p.Distance) }

func decodeSetRenderDistance(r *Reader) Packet {
	return &SetRenderDistance{Distance: r.VarInt()}
}

// SetDefaultSpawnPosition is where the client's compass points and where
// its respawn screen camera sits.
type SetDefaultSpawnPosition struct {
	Pos   vec.BlockPos
	Angle float32
}

func (p *SetDefaultSpawnPosition) PacketID() int32 { return 0x50 }

func (p *SetDefaultSpawnPosition) Encode(w *Writer) {
	w.BlockPos(p.Pos)
	w.F32(p.Angle)
}

func decodeSetDefaultSpawnPosition(r *Reader) Packet {
	return &SetDefaultSpawnPosition{Pos: r.BlockPos(), Angle: r.F32()}
}

// UpdateTime synchronizes the client's world clock. A negative TimeOfDay
// freezes the sun.
type UpdateTime struct {
	WorldAge  int64
	TimeOfDay int64
}

func (p *UpdateTime) PacketID() int32 { return 0x5C }

func (p *UpdateTime) Encode(w *Writer) {
	w.I64(p.WorldAge)
	w.I64(p.TimeOfDay)
}

func decodeUpdateTime(r *Reader) Packet {
	return &UpdateTime{WorldAge: r.I64(), TimeOfDay: r.I64()}
}

// SectionBlockUpdate is one entry of UpdateSectionBlocks: the new state id
// shifted over the block's packed section-local coordinates.
type SectionBlockUpdate struct {
	StateID int32
	X, Y, Z uint8 // section-local, 0..15 each
}

// UpdateSectionBlocks batches multiple block changes within one section
// into a single packet — the multi-block form of BlockUpdate.
type UpdateSectionBlocks struct {
	SectionX, SectionY, SectionZ int32
	Updates                      []SectionBlockUpdate
}

func (p *UpdateSectionBlocks) PacketID() int32 { return 0x45 }

func (p *UpdateSectionBlocks) Encode(w *Writer) {
	pos := (uint64(uint32(p.SectionX)&0x3FFFFF) << 42) |
		(uint64(uint32(p.SectionZ)&0x3FFFFF) << 20) |
		uint64(uint32(p.SectionY)&0xFFFFF)
	w.U64(pos)
	w.VarInt(int32(len(p.Updates)))
	for _, u := range p.Updates {
		packed := int64(u.StateID)<<12 |
			int64(u.X)<<8 | int64(u.Z)<<4 | int64(u.Y)
		w.VarLong(packed)
	}
}

func decodeUpdateSectionBlocks(r *Reader) Packet {
	pos := r.U64()
	p := &UpdateSectionBlocks{
		SectionX: signExtend(int32(pos>>42&0x3FFFFF), 22),
		SectionZ: signExtend(int32(pos>>20&0x3FFFFF), 22),
		SectionY: signExtend(int32(pos&0xFFFFF), 20),
	}
	n := r.VarInt()
	p.Updates = make([]SectionBlockUpdate, n)
	for i := range p.Updates {
		v := r.VarLong()
		p.Updates[i] = SectionBlockUpdate{
			StateID: int32(v >> 12),
			X:       uint8(v >> 8 & 0xF),
			Z:       uint8(v >> 4 & 0xF),
			Y:       uint8(v & 0xF),
		}
	}
	return p
}

func signExtend(v int32, bits uint) int32 {
	shift := 32 - bits
	return v << shift >> shift
}

// BlockEntityData refreshes one block entity's payload in place, without
// resending the whole chunk.
type BlockEntityData struct {
	Pos  vec.BlockPos
	Type int32
	Data []byte // opaque NBT compound
}

func (p *BlockEntityData) PacketID() int32 { return 0x07 }

func (p *BlockEntityData) Encode(w *Writer) {
	w.BlockPos(p.Pos)
	w.VarInt(p.Type)
	w.ByteSlice(p.Data)
}

func decodeBlockEntityData(r *Reader) Packet {
	return &BlockEntityData{
		Pos:  r.BlockPos(),
		Type: r.VarInt(),
		Data: r.ByteSlice(r.Remaining()),
	}
}

// BlockDestructionStage renders another player's mining progress cracks
// (stage 0..9; anything else clears them).
type BlockDestructionStage struct {
	EntityID int32
	Pos      vec.BlockPos
	Stage    uint8
}

func (p *BlockDestructionStage) PacketID() int32 { return 0x06 }

func (p *BlockDestructionStage) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.BlockPos(p.Pos)
	w.U8(p.Stage)
}

func decodeBlockDestructionStage(r *Reader) Packet {
	return &BlockDestructionStage{EntityID: r.VarInt(), Pos: r.BlockPos(), Stage: r.U8()}
}

// BlockAction triggers a block's animation (piston arm, chest lid, note
// block pulse); ActionID/ActionParam meaning depends on the block.
type BlockAction struct {
	Pos         vec.BlockPos
	ActionID    uint8
	ActionParam uint8
	BlockKind   int32
}

func (p *BlockAction) PacketID() int32 { return 0x08 }

func (p *BlockAction) Encode(w *Writer) {
	w.BlockPos(p.Pos)
	w.U8(p.ActionID)
	w.U8(p.ActionParam)
	w.VarInt(p.BlockKind)
}

func decodeBlockAction(r *Reader) Packet {
	return &BlockAction{
		Pos:         r.BlockPos(),
		ActionID:    r.U8(),
		ActionParam: r.U8(),
		BlockKind:   r.VarInt(),
	}
}

// SoundEffect plays a registered sound at a fixed position. Positions are
// in 1/8th-block fixed point.
type SoundEffect struct {
	SoundID       int32
	Category      int32
	X, Y, Z       int32
	Volume, Pitch float32
	Seed          int64
}

func (p *SoundEffect) PacketID() int32 { return 0x62 }

func (p *SoundEffect) Encode(w *Writer) {
	w.VarInt(p.SoundID + 1) // 0 selects the inline-sound branch, ids are offset by one
	w.VarInt(p.Category)
	w.I32(p.X)
	w.I32(p.Y)
	w.I32(p.Z)
	w.F32(p.Volume)
	w.F32(p.Pitch)
	w.I64(p.Seed)
}

func decodeSoundEffect(r *Reader) Packet {
	return &SoundEffect{
		SoundID:  r.VarInt() - 1,
		Category: r.VarInt(),
		X:        r.I32(),
		Y:        r.I32(),
		Z:        r.I32(),
		Volume:   r.F32(),
		Pitch:    r.F32(),
		Seed:     r.I64(),
	}
}

// EntitySoundEffect plays a registered sound following an entity.
type EntitySoundEffect struct {
	SoundID       int32
	Category      int32
	EntityID      int32
	Volume, Pitch float32
	Seed          int64
}

func (p *EntitySoundEffect) PacketID() int32 { return 0x5F }

func (p *EntitySoundEffect) Encode(w *Writer) {
	w.VarInt(p.SoundID + 1)
	w.VarInt(p.Category)
	w.VarInt(p.EntityID)
	w.F32(p.Volume)
	w.F32(p.Pitch)
	w.I64(p.Seed)
}

func decodeEntitySoundEffect(r *Reader) Packet {
	return &EntitySoundEffect{
		SoundID:  r.VarInt() - 1,
		Category: r.VarInt(),
		EntityID: r.VarInt(),
		Volume:   r.F32(),
		Pitch:    r.F32(),
		Seed:     r.I64(),
	}
}

func registerPlayClientboundWorld(reg *Registry) {
	reg.Register(StatePlay, Clientbound, (&BlockDestructionStage{}).PacketID(), "block_destruction_stage", decodeBlockDestructionStage)
	reg.Register(StatePlay, Clientbound, (&BlockEntityData{}).PacketID(), "block_entity_data", decodeBlockEntityData)
	reg.Register(StatePlay, Clientbound, (&BlockAction{}).PacketID(), "block_action", decodeBlockAction)
	reg.Register(StatePlay, Clientbound, (&GameEvent{}).PacketID(), "game_event", decodeGameEvent)
	reg.Register(StatePlay, Clientbound, (&LoginPlay{}).PacketID(), "login_play", decodeLoginPlay)
	reg.Register(StatePlay, Clientbound, (&Respawn{}).PacketID(), "respawn", decodeRespawn)
	reg.Register(StatePlay, Clientbound, (&UpdateSectionBlocks{}).PacketID(), "update_section_blocks", decodeUpdateSectionBlocks)
	reg.Register(StatePlay, Clientbound, (&SetCenterChunk{}).PacketID(), "set_center_chunk", decodeSetCenterChunk)
	reg.Register(StatePlay, Clientbound, (&SetRenderDistance{}).PacketID(), "set_render_distance", decodeSetRenderDistance)
	reg.Register(StatePlay, Clientbound, (&SetDefaultSpawnPosition{}).PacketID(), "set_default_spawn_position", decodeSetDefaultSpawnPosition)
	reg.Register(StatePlay, Clientbound, (&UpdateTime{}).PacketID(), "update_time", decodeUpdateTime)
	reg.Register(StatePlay, Clientbound, (&EntitySoundEffect{}).PacketID(), "entity_sound_effect", decodeEntitySoundEffect)
	reg.Register(StatePlay, Clientbound, (&SoundEffect{}).PacketID(), "sound_effect", decodeSoundEffect)
}
