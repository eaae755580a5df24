package chunkdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/vec"
)

func TestBlockChunkPosFloorDivision(t *testing.T) {
	cases := []struct {
		block vec.BlockPos
		want  ChunkPos
	}{
		{vec.BlockPos{X: 0, Y: 64, Z: 0}, ChunkPos{X: 0, Z: 0}},
		{vec.BlockPos{X: 15, Y: 64, Z: 15}, ChunkPos{X: 0, Z: 0}},
		{vec.BlockPos{X: 16, Y: 64, Z: 0}, ChunkPos{X: 1, Z: 0}},
		{vec.BlockPos{X: -1, Y: 64, Z: 0}, ChunkPos{X: -1, Z: 0}},
		{vec.BlockPos{X: -16, Y: 64, Z: -17}, ChunkPos{X: -1, Z: -2}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, BlockChunkPos(tc.block), "block %+v", tc.block)
	}
}

func TestChunkViewContainsCenter(t *testing.T) {
	v := NewChunkView(ChunkPos{X: 0, Z: 0}, 4)
	assert.True(t, v.Contains(ChunkPos{X: 0, Z: 0}))
	assert.True(t, v.Contains(ChunkPos{X: 4, Z: 0}))
	assert.False(t, v.Contains(ChunkPos{X: 100, Z: 100}))
}

func TestChunkViewDistClamped(t *testing.T) {
	v := NewChunkView(ChunkPos{}, 999)
	assert.Equal(t, MaxViewDistance, v.Dist())
	v = NewChunkView(ChunkPos{}, -5)
	assert.Equal(t, 0, v.Dist())
}

// View diff symmetry: every position in v.Diff(other) is in v
// and not in other, and combined with the reverse diff and the
// intersection recovers both sets.
func TestChunkViewDiffSymmetry(t *testing.T) {
	a := NewChunkView(ChunkPos{X: 0, Z: 0}, 3)
	b := NewChunkView(ChunkPos{X: 2, Z: 0}, 3)

	onlyA := a.Diff(b)
	onlyB := b.Diff(a)

	for _, p := range onlyA {
		assert.True(t, a.Contains(p))
		assert.False(t, b.Contains(p))
	}
	for _, p := range onlyB {
		assert.True(t, b.Contains(p))
		assert.False(t, a.Contains(p))
	}

	allA := a.Iter()
	inBoth := 0
	for _, p := range allA {
		if b.Contains(p) {
			inBoth++
		}
	}
	require.Equal(t, len(allA), inBoth+len(onlyA))
}

func TestChunkViewIterOnlyContainedPositions(t *testing.T) {
	v := NewChunkView(ChunkPos{X: 5, Z: -3}, 2)
	for _, p := range v.Iter() {
		assert.True(t, v.Contains(p))
	}
}
