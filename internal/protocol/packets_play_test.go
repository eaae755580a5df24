package protocol

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/vec"
)

func playRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	RegisterPlayServerbound(reg)
	RegisterPlayClientbound(reg)
	return reg
}

// roundTrip encodes pkt and decodes it back through the registry; the
// result must compare equal across the play packet set.
func roundTrip(t *testing.T, reg *Registry, dir Direction, pkt Packet) Packet {
	t.Helper()
	body, err := Encode(pkt)
	require.NoError(t, err)
	decoded, err := reg.Decode(StatePlay, dir, pkt.PacketID(), body)
	require.NoError(t, err)
	return decoded
}

func TestPlayServerboundRoundTrips(t *testing.T) {
	reg := playRegistry(t)
	packets := []Packet{
		&TeleportConfirm{TeleportID: 5},
		&KeepAliveReply{ID: -12345},
		&PlayerPosition{X: 100.5, Y: 64, Z: -3.25, OnGround: true},
		&PlayerPositionAndRotation{X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: -45, OnGround: false},
		&PlayerRotation{Yaw: 180, Pitch: 10, OnGround: true},
		&PlayerMovement{OnGround: true},
		&PlayerAction{Status: DiggingFinished, Location: vec.BlockPos{X: -30000, Y: 64, Z: 12}, Face: 1, Sequence: 9},
		&PlayerBlockPlacement{Hand: 0, Location: vec.BlockPos{X: 5, Y: -60, Z: 5}, Face: 1, CursorX: 0.5, CursorY: 1, CursorZ: 0.5, Sequence: 10},
		&ClientCommand{Action: ClientCommandRespawn},
		&CloseContainerC2S{WindowID: 3},
		&PluginMessageC2S{Channel: "minecraft:brand", Data: []byte("kestrel")},
		&InteractEntity{EntityID: 9, Kind: InteractAttack, Sneaking: true},
		&InteractEntity{EntityID: 9, Kind: InteractInteractAt, X: 0.1, Y: 0.2, Z: 0.3, Hand: 1},
		&PlayerAbilitiesC2S{Flags: AbilityFlying},
		&PlayerCommand{EntityID: 4, Action: CommandStartSprinting},
		&PlayerInput{Sideways: -0.5, Forward: 1, Flags: 1},
		&ResourcePackStatus{Result: 2},
		&SetHeldItemC2S{Slot: 8},
		&UpdateSignC2S{Pos: vec.BlockPos{X: 1, Y: 70, Z: 1}, FrontText: true, Lines: [4]string{"a", "b", "c", "d"}},
		&SwingArm{Hand: 1},
		&UseItem{Hand: 0, Sequence: 11},
	}
	for _, pkt := range packets {
		assert.Equal(t, pkt, roundTrip(t, reg, Serverbound, pkt), "%T", pkt)
	}
}

func TestPlayClientboundRoundTrips(t *testing.T) {
	reg := playRegistry(t)
	id := uuid.New()
	packets := []Packet{
		&KeepAliveS2C{ID: 77},
		&BlockUpdate{Pos: vec.BlockPos{X: -5, Y: 100, Z: 2048}, StateID: 12345},
		&UnloadChunk{ChunkX: -3, ChunkZ: 7},
		&RemoveEntities{EntityIDs: []int32{1, 2, 3}},
		&PlayerPositionLookS2C{X: 100, Y: 64, Z: 100, Yaw: 0, Pitch: 0, TeleportID: 5},
		&AcknowledgeBlockChange{Sequence: 42},
		&GameEvent{Event: GameEventChangeGameMode, Value: 1},
		&Respawn{DimensionType: "minecraft:overworld", DimensionName: "minecraft:overworld", GameMode: 0, PreviousGameMode: -1, DataKept: 1, PortalCooldown: 0},
		&SetCenterChunk{ChunkX: -9, ChunkZ: 4},
		&SetRenderDistance{Distance: 12},
		&SetDefaultSpawnPosition{Pos: vec.BlockPos{X: 8, Y: 64, Z: 8}, Angle: 0},
		&UpdateTime{WorldAge: 1000, TimeOfDay: 6000},
		&BlockEntityData{Pos: vec.BlockPos{X: 1, Y: 2, Z: 3}, Type: 7, Data: []byte{0x0A, 0x00, 0x00, 0x00}},
		&BlockDestructionStage{EntityID: 3, Pos: vec.BlockPos{X: 0, Y: 64, Z: 0}, Stage: 4},
		&BlockAction{Pos: vec.BlockPos{X: 2, Y: 65, Z: 2}, ActionID: 1, ActionParam: 1, BlockKind: 54},
		&SoundEffect{SoundID: 3, Category: 0, X: 800, Y: 512, Z: 800, Volume: 1, Pitch: 1, Seed: 99},
		&EntitySoundEffect{SoundID: 2, Category: 4, EntityID: 17, Volume: 0.5, Pitch: 1.2, Seed: -1},
		&SetEntityVelocity{EntityID: 4, VelX: 100, VelY: -200, VelZ: 0},
		&EntityEvent{EntityID: 8, Status: 2},
		&DamageEvent{EntityID: 5, SourceTypeID: 16, HasSourcePos: true, SrcX: 1, SrcY: 2, SrcZ: 3},
		&HurtAnimation{EntityID: 5, Yaw: 90},
		&PickupItem{CollectedID: 10, CollectorID: 1, Count: 16},
		&SetExperience{Bar: 0.5, Level: 30, Total: 825},
		&SetHealth{Health: 19.5, Food: 18, Saturation: 4.5},
		&PlayerAbilitiesS2C{Flags: AbilityAllowFlying, FlyingSpeed: 0.05, FOVModifier: 0.1},
		&SetHeldItemS2C{Slot: 2},
		&SystemChatMessage{ContentJSON: `{"text":"hello"}`, Overlay: false},
		&SetActionBarText{TextJSON: `{"text":"hi"}`},
		&SetTitleText{TextJSON: `{"text":"t"}`},
		&SetSubtitleText{TextJSON: `{"text":"s"}`},
		&SetTitleAnimationTimes{FadeIn: 10, Stay: 70, FadeOut: 20},
		&ClearTitles{Reset: true},
		&SetTabListHeaderFooter{HeaderJSON: `{"text":"h"}`, FooterJSON: `{"text":"f"}`},
		&OpenScreen{WindowID: 1, ScreenID: 2, TitleJSON: `{"text":"Chest"}`},
		&CloseContainerS2C{WindowID: 1},
		&PlayerInfoRemove{UUIDs: []uuid.UUID{id}},
		&PluginMessageS2C{Channel: "minecraft:brand", Data: []byte("kestrel")},
		&ChangeDifficulty{Difficulty: 2, Locked: false},
		&EntityAnimation{EntityID: 3, Animation: AnimationSwingMainArm},
		&SetHeadRotation{EntityID: 3, HeadYaw: 0},
		&UpdateSectionBlocks{SectionX: -2, SectionY: 4, SectionZ: 1, Updates: []SectionBlockUpdate{
			{StateID: 100, X: 3, Y: 15, Z: 0},
			{StateID: 0, X: 0, Y: 0, Z: 9},
		}},
	}
	for _, pkt := range packets {
		assert.Equal(t, pkt, roundTrip(t, reg, Clientbound, pkt), "%T", pkt)
	}
}

// Relative-move packets quantize angles to 256ths of a turn, so exact
// equality only holds for angles on that grid; zero is.
func TestEntityMovementRoundTrips(t *testing.T) {
	reg := playRegistry(t)
	packets := []Packet{
		&UpdateEntityPosition{EntityID: 1, DX: 4096, DY: -4096, DZ: 0, OnGround: true},
		&UpdateEntityPositionAndRotation{EntityID: 1, DX: 1, DY: 2, DZ: 3, Yaw: 0, Pitch: 0, OnGround: false},
		&UpdateEntityRotation{EntityID: 1, Yaw: 0, Pitch: 0, OnGround: true},
		&TeleportEntity{EntityID: 1, X: 1000, Y: 64, Z: -1000, Yaw: 0, Pitch: 0, OnGround: false},
	}
	for _, pkt := range packets {
		assert.Equal(t, pkt, roundTrip(t, reg, Clientbound, pkt), "%T", pkt)
	}
}

func TestDecodeRejectsUnknownID(t *testing.T) {
	reg := playRegistry(t)
	_, err := reg.Decode(StatePlay, Serverbound, 0x7F, nil)
	assert.Error(t, err)
}

func TestRegistryNamesResolve(t *testing.T) {
	reg := playRegistry(t)
	assert.Equal(t, "teleport_confirm", reg.Name(StatePlay, Serverbound, 0x00))
	assert.Equal(t, "unknown", reg.Name(StatePlay, Serverbound, 0x7F))
}
