package world

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

func newTestEntity(id ecs.EntityID, pos vec.Vec3) *ecs.Entity {
	return ecs.NewEntity(id, uuid.New(), registry.EntityPlayer, pos)
}

// packetIDs decodes the leading VarInt of each id-prefixed body a viewer
// received.
func packetIDs(t *testing.T, m *LayerMessages, v Viewer) []int32 {
	t.Helper()
	var ids []int32
	m.ForEachMatching(v, func(data []byte) {
		for len(data) > 0 {
			id, n, err := protocol.DecodeVarInt(data)
			require.NoError(t, err)
			ids = append(ids, id)
			// Runs may coalesce several packets; we only need the first
			// id per run for these assertions.
			_ = n
			break
		}
	})
	return ids
}

func TestSpawnBucketsAndBroadcasts(t *testing.T) {
	l := NewEntityLayer()
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	l.Spawn(e)

	in := l.EntitiesIn(chunkdata.ChunkPos{X: 0, Z: 0})
	require.Len(t, in, 1)
	assert.Equal(t, e, in[0])

	viewer := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)}
	ids := packetIDs(t, l.Messages, viewer)
	require.Len(t, ids, 1)
	assert.Equal(t, (&protocol.SpawnEntity{}).PacketID(), ids[0])

	// The spawned entity itself is excluded.
	self := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)}
	assert.Empty(t, packetIDs(t, l.Messages, self))
}

func TestDespawnRemovesFromBucket(t *testing.T) {
	l := NewEntityLayer()
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	l.Spawn(e)
	l.Despawn(e)

	assert.Empty(t, l.EntitiesIn(chunkdata.ChunkPos{X: 0, Z: 0}))

	viewer := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)}
	ids := packetIDs(t, l.Messages, viewer)
	require.NotEmpty(t, ids)
	assert.Equal(t, (&protocol.RemoveEntities{}).PacketID(), ids[len(ids)-1])
}

func TestUpdatePositionRebucketsAcrossChunks(t *testing.T) {
	l := NewEntityLayer()
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	l.Spawn(e)

	e.Position = vec.Vec3{X: 24, Y: 64, Z: 8} // chunk (1, 0)
	l.UpdatePosition(e, false)

	assert.Empty(t, l.EntitiesIn(chunkdata.ChunkPos{X: 0, Z: 0}))
	assert.Len(t, l.EntitiesIn(chunkdata.ChunkPos{X: 1, Z: 0}), 1)
}

func TestMovementPacketTieBreak(t *testing.T) {
	// Small move, no rotation: relative position packet.
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	e.Position = vec.Vec3{X: 9, Y: 64, Z: 8}
	pkt := movementPacket(e, false)
	_, isRel := pkt.(*protocol.UpdateEntityPosition)
	assert.True(t, isRel, "got %T", pkt)

	// Small move with rotation: combined rotate-and-move.
	e = newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	e.Position = vec.Vec3{X: 9, Y: 64, Z: 8}
	pkt = movementPacket(e, true)
	_, isRelRot := pkt.(*protocol.UpdateEntityPositionAndRotation)
	assert.True(t, isRelRot, "got %T", pkt)

	// Delta beyond the i16 1/4096-block range: absolute teleport.
	e = newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	e.Position = vec.Vec3{X: 8 + 9, Y: 64, Z: 8} // 9 blocks > 32768/4096
	pkt = movementPacket(e, true)
	_, isTeleport := pkt.(*protocol.TeleportEntity)
	assert.True(t, isTeleport, "got %T", pkt)

	// Rotation only: rotation packet.
	e = newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	pkt = movementPacket(e, true)
	_, isRot := pkt.(*protocol.UpdateEntityRotation)
	assert.True(t, isRot, "got %T", pkt)
}

func TestMovementExcludesMoverIncludesOldChunkViewers(t *testing.T) {
	l := NewEntityLayer()
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	l.Spawn(e)
	l.ClearMessages()

	e.Position = vec.Vec3{X: 24, Y: 64, Z: 8}
	l.UpdatePosition(e, false)

	self := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkdata.ChunkPos{X: 1, Z: 0}, 2)}
	assert.Empty(t, packetIDs(t, l.Messages, self))

	// A viewer seeing both chunks gets the move exactly once.
	both := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 4)}
	assert.Len(t, packetIDs(t, l.Messages, both), 1)

	// A viewer who can only see the old chunk still observes the exit.
	oldOnly := Viewer{Entity: 3, View: chunkdata.NewChunkView(chunkdata.ChunkPos{X: -2, Z: 0}, 0)}
	require.True(t, oldOnly.View.Contains(chunkdata.ChunkPos{X: 0, Z: 0}))
	require.False(t, oldOnly.View.Contains(chunkdata.ChunkPos{X: 1, Z: 0}))
	assert.Len(t, packetIDs(t, l.Messages, oldOnly), 1)
}

func TestTrackerUpdateScopesExceptSelf(t *testing.T) {
	l := NewEntityLayer()
	e := newTestEntity(1, vec.Vec3{X: 8, Y: 64, Z: 8})
	l.Spawn(e)
	l.ClearMessages()

	e.Data.Set(0, ecs.TrackedByte, uint8(0x02))
	l.TrackerUpdate(e)

	other := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)}
	ids := packetIDs(t, l.Messages, other)
	require.Len(t, ids, 1)
	assert.Equal(t, (&protocol.SetEntityMetadata{}).PacketID(), ids[0])

	self := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)}
	assert.Empty(t, packetIDs(t, l.Messages, self))

	// Nothing dirty, nothing sent.
	l.ClearMessages()
	l.TrackerUpdate(e)
	assert.True(t, l.Messages.Empty())
}
