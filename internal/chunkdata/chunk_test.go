package chunkdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

func testRegs() *registry.Registries { return registry.New() }

func TestChunkSetAndGetBlockRoundTrip(t *testing.T) {
	regs := testRegs()
	c := NewChunk(ChunkPos{X: 0, Z: 0}, 0, 4, regs.Blocks, registry.BiomePlains)

	stone, ok := regs.Blocks.DefaultState("stone")
	require.True(t, ok)

	pos := vec.BlockPos{X: 3, Y: 20, Z: 7}
	c.SetBlockAt(pos, stone)
	assert.Equal(t, stone, c.BlockAt(pos))
}

func TestChunkNonAirCountTracksSetAndUnset(t *testing.T) {
	regs := testRegs()
	c := NewChunk(ChunkPos{X: 0, Z: 0}, 0, 1, regs.Blocks, registry.BiomePlains)
	stone, _ := regs.Blocks.DefaultState("stone")

	section := c.Sections()[0]
	require.Equal(t, 0, section.NonAirCount())

	p := vec.BlockPos{X: 1, Y: 1, Z: 1}
	c.SetBlockAt(p, stone)
	assert.Equal(t, 1, section.NonAirCount())

	c.SetBlockAt(p, regs.Blocks.Air())
	assert.Equal(t, 0, section.NonAirCount())
}

func TestChunkOutOfBoundsSetIsNoOp(t *testing.T) {
	regs := testRegs()
	c := NewChunk(ChunkPos{X: 0, Z: 0}, 0, 1, regs.Blocks, registry.BiomePlains)
	stone, _ := regs.Blocks.DefaultState("stone")

	outside := vec.BlockPos{X: 32, Y: 0, Z: 0} // different chunk column
	c.SetBlockAt(outside, stone)
	assert.Equal(t, regs.Blocks.Air(), c.BlockAt(outside))
	assert.Empty(t, c.DrainDirty())
}

func TestChunkDrainDirtyClearsAfterRead(t *testing.T) {
	regs := testRegs()
	c := NewChunk(ChunkPos{X: 0, Z: 0}, 0, 2, regs.Blocks, registry.BiomePlains)
	stone, _ := regs.Blocks.DefaultState("stone")

	c.SetBlockAt(vec.BlockPos{X: 0, Y: 0, Z: 0}, stone)
	c.SetBlockAt(vec.BlockPos{X: 1, Y: 17, Z: 1}, stone)

	dirty := c.DrainDirty()
	assert.Len(t, dirty, 2)
	assert.Empty(t, c.DrainDirty())
}

func TestChunkBlockEntityRemovedWhenBlockClearedToAir(t *testing.T) {
	regs := testRegs()
	c := NewChunk(ChunkPos{X: 0, Z: 0}, 0, 1, regs.Blocks, registry.BiomePlains)
	chest, _ := regs.Blocks.DefaultState("chest")
	p := vec.BlockPos{X: 2, Y: 2, Z: 2}

	c.SetBlockAt(p, chest)
	c.SetBlockEntityAt(p, &BlockEntity{Kind: "chest", Data: []byte{1, 2, 3}})

	_, ok := c.BlockEntityAt(p)
	require.True(t, ok)

	c.SetBlockAt(p, regs.Blocks.Air())
	_, ok = c.BlockEntityAt(p)
	assert.False(t, ok)
}
