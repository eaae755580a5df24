package chunkdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

func TestHeightmapBits(t *testing.T) {
	assert.Equal(t, 9, heightmapBits(384), "vanilla 384-high world packs 9 bits per column")
	assert.Equal(t, 5, heightmapBits(16))
}

func TestColumnSurfaceTracksHighestOpaqueBlock(t *testing.T) {
	regs := registry.New()
	c := NewChunk(ChunkPos{}, -64, 24, regs.Blocks, registry.BiomePlains)
	stone, ok := regs.Blocks.DefaultState("stone")
	require.True(t, ok)

	assert.Zero(t, c.columnSurface(0, 0), "all-air column has height zero")

	// Block at world y=63 sits 127 above the chunk bottom (-64).
	c.SetBlockAt(vec.BlockPos{X: 0, Y: 63, Z: 0}, stone)
	assert.Equal(t, 128, c.columnSurface(0, 0))

	// A higher block in the same column wins.
	c.SetBlockAt(vec.BlockPos{X: 0, Y: 100, Z: 0}, stone)
	assert.Equal(t, 165, c.columnSurface(0, 0))

	// Other columns are unaffected.
	assert.Zero(t, c.columnSurface(1, 0))
}

func TestEncodeHeightmapsIsWellFormedNBT(t *testing.T) {
	regs := registry.New()
	c := NewChunk(ChunkPos{}, -64, 24, regs.Blocks, registry.BiomePlains)

	blob := c.EncodeHeightmaps()
	require.NotEmpty(t, blob)
	assert.Equal(t, byte(tagCompound), blob[0])
	assert.Equal(t, byte(tagEnd), blob[len(blob)-1])
	assert.Contains(t, string(blob), "MOTION_BLOCKING")

	// 256 columns at 9 bits, 7 per long: 37 longs.
	bits := heightmapBits(SectionSize * 24)
	perLong := 64 / bits
	wantLongs := (256 + perLong - 1) / perLong
	assert.Equal(t, 37, wantLongs)
}

func TestEncodeBlockEntitiesList(t *testing.T) {
	regs := registry.New()
	c := NewChunk(ChunkPos{}, -64, 24, regs.Blocks, registry.BiomePlains)

	blob := c.EncodeBlockEntities()
	require.Equal(t, []byte{0x00}, blob, "empty chunk encodes a zero count")

	c.SetBlockEntityAt(vec.BlockPos{X: 3, Y: 70, Z: 5}, &BlockEntity{Kind: "chest", Type: 1})
	blob = c.EncodeBlockEntities()
	require.NotEmpty(t, blob)
	assert.Equal(t, byte(0x01), blob[0], "count of one")
	assert.Equal(t, byte(3<<4|5), blob[1], "packed local XZ")
}
