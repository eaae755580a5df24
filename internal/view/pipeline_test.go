package view

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
	"github.com/kestrelmc/kestrel/internal/world"
)

type sentPacket struct {
	id   int32
	body []byte
}

// collect parses the leading packet id of every body handed to send.
func collect(t *testing.T) (func([]byte), *[]sentPacket) {
	t.Helper()
	var got []sentPacket
	return func(body []byte) {
		id, n, err := protocol.DecodeVarInt(body)
		require.NoError(t, err)
		got = append(got, sentPacket{id: id, body: body[n:]})
	}, &got
}

func newWorld(t *testing.T, chunks ...chunkdata.ChunkPos) Layers {
	t.Helper()
	regs := registry.New()
	cl := world.NewChunkLayer(-64, 24, regs.Blocks)
	for _, p := range chunks {
		cl.InsertChunk(p, chunkdata.NewChunk(p, -64, 24, regs.Blocks, registry.BiomePlains))
	}
	return Layers{Chunk: cl, Entities: world.NewEntityLayer()}
}

var (
	unloadID    = (&protocol.UnloadChunk{}).PacketID()
	chunkDataID = (&protocol.ChunkDataAndUpdateLight{}).PacketID()
	spawnID     = (&protocol.SpawnEntity{}).PacketID()
	despawnID   = (&protocol.RemoveEntities{}).PacketID()
)

// View transition: the view center moves, the
// chunks that left view unload, the chunks that entered load, and every
// unload precedes every load.
func TestUpdateViewTransitionOrdering(t *testing.T) {
	oldView := chunkdata.NewChunkView(chunkdata.ChunkPos{X: 5, Z: 0}, 2)
	newView := chunkdata.NewChunkView(chunkdata.ChunkPos{X: 0, Z: 0}, 2)

	all := map[chunkdata.ChunkPos]bool{}
	for _, p := range oldView.Iter() {
		all[p] = true
	}
	for _, p := range newView.Iter() {
		all[p] = true
	}
	positions := make([]chunkdata.ChunkPos, 0, len(all))
	for p := range all {
		positions = append(positions, p)
	}
	layers := newWorld(t, positions...)

	send, got := collect(t)
	Update(layers, oldView, layers, newView, 1, send)

	var unloads, loads int
	lastUnload, firstLoad := -1, len(*got)
	for i, pkt := range *got {
		switch pkt.id {
		case unloadID:
			unloads++
			lastUnload = i
		case chunkDataID:
			loads++
			if i < firstLoad {
				firstLoad = i
			}
		default:
			t.Fatalf("unexpected packet id 0x%02x", pkt.id)
		}
	}
	assert.Equal(t, len(oldView.Diff(newView)), unloads)
	assert.Equal(t, len(newView.Diff(oldView)), loads)
	assert.Less(t, lastUnload, firstLoad, "all unloads before all loads")
}

// A brand-new client (no previous view) receives chunk data for its whole
// view and nothing else.
func TestUpdateFirstJoinSendsFullView(t *testing.T) {
	newView := chunkdata.NewChunkView(chunkdata.ChunkPos{}, 2)
	layers := newWorld(t, newView.Iter()...)

	send, got := collect(t)
	Update(Layers{}, chunkdata.ChunkView{}, layers, newView, 1, send)

	require.Len(t, *got, len(newView.Iter()))
	for _, pkt := range *got {
		assert.Equal(t, chunkDataID, pkt.id)
	}
}

// In-view broadcast replay is filtered by scope: a block update inside the
// view is delivered, one outside is not.
func TestUpdateReplaysScopedBroadcasts(t *testing.T) {
	inside := chunkdata.ChunkPos{X: 0, Z: 0}
	outside := chunkdata.ChunkPos{X: 40, Z: 40}
	layers := newWorld(t, inside, outside)

	view := chunkdata.NewChunkView(inside, 2)
	stone, ok := layers.Chunk.BlockRegistry().DefaultState("stone")
	require.True(t, ok)

	_, ok = layers.Chunk.SetBlockState(vec.BlockPos{X: 1, Y: 64, Z: 1}, stone)
	require.True(t, ok)
	_, ok = layers.Chunk.SetBlockState(vec.BlockPos{X: 645, Y: 64, Z: 645}, stone)
	require.True(t, ok)

	send, got := collect(t)
	Update(layers, view, layers, view, 1, send)

	blockUpdates := 0
	for _, pkt := range *got {
		if pkt.id == (&protocol.BlockUpdate{}).PacketID() {
			blockUpdates++
		}
	}
	assert.Equal(t, 1, blockUpdates)
}

// Entities in entering chunks spawn after their chunk's data; entities in
// exiting chunks despawn before the chunk unloads; the client's own
// entity never spawns to itself.
func TestUpdateEntityEnterExit(t *testing.T) {
	oldCenter := chunkdata.ChunkPos{X: 10, Z: 0}
	newCenter := chunkdata.ChunkPos{X: 0, Z: 0}
	oldView := chunkdata.NewChunkView(oldCenter, 0)
	newView := chunkdata.NewChunkView(newCenter, 0)

	positions := append(oldView.Iter(), newView.Iter()...)
	layers := newWorld(t, positions...)

	exiting := ecs.NewEntity(7, uuid.New(), registry.EntityPlayer, vec.Vec3{X: 160 + 8, Y: 64, Z: 8})
	entering := ecs.NewEntity(8, uuid.New(), registry.EntityPlayer, vec.Vec3{X: 8, Y: 64, Z: 8})
	self := ecs.NewEntity(1, uuid.New(), registry.EntityPlayer, vec.Vec3{X: 8, Y: 64, Z: 8})
	layers.Entities.Spawn(exiting)
	layers.Entities.Spawn(entering)
	layers.Entities.Spawn(self)
	layers.Entities.ClearMessages()

	send, got := collect(t)
	Update(layers, oldView, layers, newView, 1, send)

	spawned := map[int32]bool{}
	despawnIdx, unloadIdx := -1, -1
	for i, pkt := range *got {
		switch pkt.id {
		case spawnID:
			r := protocol.NewReader(pkt.body)
			spawned[r.VarInt()] = true
		case despawnID:
			despawnIdx = i
		case unloadID:
			if unloadIdx == -1 {
				unloadIdx = i
			}
		}
	}
	assert.True(t, spawned[8], "entity in entering chunk spawns")
	assert.False(t, spawned[1], "own entity is never spawned to itself")
	assert.False(t, spawned[7], "exiting entity does not spawn")
	require.NotEqual(t, -1, despawnIdx)
	require.NotEqual(t, -1, unloadIdx)
	assert.Less(t, despawnIdx, unloadIdx, "despawn precedes its chunk's unload")
}
