package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

func newTestLayer(t *testing.T) (*ChunkLayer, registry.BlockStateID) {
	t.Helper()
	regs := registry.New()
	layer := NewChunkLayer(-64, 24, regs.Blocks)
	origin := chunkdata.ChunkPos{X: 0, Z: 0}
	layer.InsertChunk(origin, chunkdata.NewChunk(origin, -64, 24, regs.Blocks, registry.BiomePlains))
	stone, ok := regs.Blocks.DefaultState("stone")
	require.True(t, ok)
	return layer, stone
}

func TestSetBlockStateReturnsPrevious(t *testing.T) {
	layer, stone := newTestLayer(t)
	pos := vec.BlockPos{X: 3, Y: 64, Z: 3}

	prev, ok := layer.SetBlockState(pos, stone)
	require.True(t, ok)
	assert.Equal(t, layer.BlockRegistry().Air(), prev)

	got, ok := layer.BlockState(pos)
	require.True(t, ok)
	assert.Equal(t, stone, got)
}

func TestSetBlockStateLogsChunkScopedMessage(t *testing.T) {
	layer, stone := newTestLayer(t)
	pos := vec.BlockPos{X: 0, Y: 64, Z: 0}

	_, ok := layer.SetBlockState(pos, stone)
	require.True(t, ok)
	require.False(t, layer.Messages.Empty())

	// Block broadcast scope: a viewer whose view
	// contains the chunk gets the update; one whose view doesn't, doesn't.
	near := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkdata.ChunkPos{X: 0, Z: 0}, 2)}
	far := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkdata.ChunkPos{X: 50, Z: 50}, 2)}

	nearGot, farGot := 0, 0
	layer.Messages.ForEachMatching(near, func([]byte) { nearGot++ })
	layer.Messages.ForEachMatching(far, func([]byte) { farGot++ })
	assert.Equal(t, 1, nearGot)
	assert.Zero(t, farGot)
}

func TestSetBlockStateNoMessageWhenUnchanged(t *testing.T) {
	layer, stone := newTestLayer(t)
	pos := vec.BlockPos{X: 1, Y: 64, Z: 1}

	_, ok := layer.SetBlockState(pos, stone)
	require.True(t, ok)
	layer.ClearMessages()

	prev, ok := layer.SetBlockState(pos, stone)
	require.True(t, ok)
	assert.Equal(t, stone, prev)
	assert.True(t, layer.Messages.Empty(), "re-setting the same state is not a mutation")
}

func TestBlockStateOutsideLoadedChunks(t *testing.T) {
	layer, stone := newTestLayer(t)

	_, ok := layer.BlockState(vec.BlockPos{X: 500, Y: 64, Z: 500})
	assert.False(t, ok)

	_, ok = layer.SetBlockState(vec.BlockPos{X: 500, Y: 64, Z: 500}, stone)
	assert.False(t, ok)
}

func TestBlockStateOutsideWorldHeight(t *testing.T) {
	layer, stone := newTestLayer(t)

	_, ok := layer.BlockState(vec.BlockPos{X: 0, Y: 10_000, Z: 0})
	assert.False(t, ok)
	_, ok = layer.SetBlockState(vec.BlockPos{X: 0, Y: -65, Z: 0}, stone)
	assert.False(t, ok)
}

func TestRemoveChunkLogsUnload(t *testing.T) {
	layer, _ := newTestLayer(t)
	origin := chunkdata.ChunkPos{X: 0, Z: 0}

	layer.RemoveChunk(origin)
	_, loaded := layer.Chunk(origin)
	assert.False(t, loaded)
	assert.False(t, layer.Messages.Empty())
	assert.Zero(t, layer.ChunkCount())

	// Removing an unloaded chunk is a no-op, not a second message.
	layer.ClearMessages()
	layer.RemoveChunk(origin)
	assert.True(t, layer.Messages.Empty())
}

func TestSetBiomeRoundTrip(t *testing.T) {
	layer, _ := newTestLayer(t)
	pos := vec.BlockPos{X: 4, Y: 64, Z: 4}

	require.True(t, layer.SetBiome(pos, registry.BiomeDesert))
	got, ok := layer.Biome(pos)
	require.True(t, ok)
	assert.Equal(t, registry.BiomeDesert, got)
}

func TestInsertChunkConformsHeight(t *testing.T) {
	regs := registry.New()
	layer := NewChunkLayer(-64, 24, regs.Blocks)
	pos := chunkdata.ChunkPos{X: 1, Z: 1}

	short := chunkdata.NewChunk(pos, -64, 10, regs.Blocks, registry.BiomePlains)
	layer.InsertChunk(pos, short)
	c, ok := layer.Chunk(pos)
	require.True(t, ok)
	assert.Len(t, c.Sections(), 24, "too-short chunks extend with empty sections at the top")

	tall := chunkdata.NewChunk(pos, -64, 30, regs.Blocks, registry.BiomePlains)
	layer.InsertChunk(pos, tall)
	c, ok = layer.Chunk(pos)
	require.True(t, ok)
	assert.Len(t, c.Sections(), 24, "too-tall chunks truncate at the top")
}
