package world

import (
	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// ChunkLayer owns a set of loaded Chunks and the per-tick broadcast log
// their mutations feed into. It exclusively owns its
// chunks: unloading drops them.
type ChunkLayer struct {
	chunks       map[chunkdata.ChunkPos]*chunkdata.Chunk
	minY         int
	sectionCount int
	blockReg     *registry.BlockRegistry
	Messages     *LayerMessages
}

// NewChunkLayer creates an empty layer. minY and sectionCount define every
// chunk's height on this layer; InsertChunk conforms incoming chunks to it.
func NewChunkLayer(minY, sectionCount int, blockReg *registry.BlockRegistry) *ChunkLayer {
	return &ChunkLayer{
		chunks:       make(map[chunkdata.ChunkPos]*chunkdata.Chunk),
		minY:         minY,
		sectionCount: sectionCount,
		blockReg:     blockReg,
		Messages:     NewLayerMessages(),
	}
}

// Chunk returns the loaded chunk at pos, if any.
func (l *ChunkLayer) Chunk(pos chunkdata.ChunkPos) (*chunkdata.Chunk, bool) {
	c, ok := l.chunks[pos]
	return c, ok
}

func (l *ChunkLayer) inBounds(pos vec.BlockPos) bool {
	return pos.Y >= l.minY && pos.Y < l.minY+chunkdata.SectionSize*l.sectionCount
}

// BlockState returns the block state at pos, or false if pos is outside
// loaded chunks or outside this layer's world height.
func (l *ChunkLayer) BlockState(pos vec.BlockPos) (registry.BlockStateID, bool) {
	if !l.inBounds(pos) {
		return 0, false
	}
	c, ok := l.chunks[chunkdata.BlockChunkPos(pos)]
	if !ok {
		return 0, false
	}
	return c.BlockAt(pos), true
}

// SetBlockState writes a block state at pos, returning the previous state.
// If the state changed, a BlockUpdate message is logged with scope
// ChunkView{pos.chunk}. Returns false if pos is outside
// loaded chunks or world height — the caller's component-invariant
// violation path, never a panic.
func (l *ChunkLayer) SetBlockState(pos vec.BlockPos, state registry.BlockStateID) (prev registry.BlockStateID, ok bool) {
	if !l.inBounds(pos) {
		return 0, false
	}
	cpos := chunkdata.BlockChunkPos(pos)
	c, found := l.chunks[cpos]
	if !found {
		return 0, false
	}
	prev = c.BlockAt(pos)
	if prev == state {
		return prev, true
	}
	c.SetBlockAt(pos, state)
	l.logBlockUpdate(cpos, pos, state)
	return prev, true
}

// SetBlock writes a block state and its associated block entity
// together, removing any stale block entity if be is nil. Logs a
// BlockUpdate, and additionally a BlockEntityUpdate message if be is
// non-nil.
func (l *ChunkLayer) SetBlock(pos vec.BlockPos, state registry.BlockStateID, be *chunkdata.BlockEntity) (ok bool) {
	if !l.inBounds(pos) {
		return false
	}
	cpos := chunkdata.BlockChunkPos(pos)
	c, found := l.chunks[cpos]
	if !found {
		return false
	}
	prev := c.BlockAt(pos)
	if prev != state {
		c.SetBlockAt(pos, state)
		l.logBlockUpdate(cpos, pos, state)
	}
	if be != nil {
		c.SetBlockEntityAt(pos, be)
		l.logBlockEntityUpdate(cpos, pos, be)
	} else {
		c.RemoveBlockEntityAt(pos)
	}
	return true
}

func (l *ChunkLayer) logBlockUpdate(cpos chunkdata.ChunkPos, pos vec.BlockPos, state registry.BlockStateID) {
	pkt := &protocol.BlockUpdate{Pos: pos, StateID: int32(state)}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return
	}
	l.Messages.Append(ScopeAtChunk(cpos), body)
}

// logBlockEntityUpdate logs a single-block BlockUpdate-shaped refresh for
// the block entity's position; block-entity payloads proper travel inside
// ChunkDataAndUpdateLight on initial chunk load.
func (l *ChunkLayer) logBlockEntityUpdate(cpos chunkdata.ChunkPos, pos vec.BlockPos, be *chunkdata.BlockEntity) {
	pkt := &protocol.BlockUpdate{Pos: pos, StateID: int32(l.chunks[cpos].BlockAt(pos))}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return
	}
	l.Messages.Append(ScopeAtChunk(cpos), body)
}

// Biome returns the biome at pos, or false if outside loaded chunks/height.
func (l *ChunkLayer) Biome(pos vec.BlockPos) (registry.BiomeID, bool) {
	if !l.inBounds(pos) {
		return 0, false
	}
	c, ok := l.chunks[chunkdata.BlockChunkPos(pos)]
	if !ok {
		return 0, false
	}
	si := (pos.Y - l.minY) / chunkdata.SectionSize
	lx := ((pos.X % chunkdata.SectionSize) + chunkdata.SectionSize) % chunkdata.SectionSize / 4
	lz := ((pos.Z % chunkdata.SectionSize) + chunkdata.SectionSize) % chunkdata.SectionSize / 4
	ly := ((pos.Y - l.minY) % chunkdata.SectionSize) / 4
	return c.Sections()[si].BiomeAt(lx, ly, lz), true
}

// SetBiome writes the biome at pos's quarter-resolution cell, logging a
// per-chunk biome-change message.
func (l *ChunkLayer) SetBiome(pos vec.BlockPos, biome registry.BiomeID) bool {
	if !l.inBounds(pos) {
		return false
	}
	cpos := chunkdata.BlockChunkPos(pos)
	c, ok := l.chunks[cpos]
	if !ok {
		return false
	}
	si := (pos.Y - l.minY) / chunkdata.SectionSize
	lx := ((pos.X % chunkdata.SectionSize) + chunkdata.SectionSize) % chunkdata.SectionSize / 4
	lz := ((pos.Z % chunkdata.SectionSize) + chunkdata.SectionSize) % chunkdata.SectionSize / 4
	ly := ((pos.Y - l.minY) % chunkdata.SectionSize) / 4
	c.Sections()[si].SetBiomeAt(lx, ly, lz, biome)
	// Biome changes are folded into the next full chunk resend rather than
	// having their own wire packet, so the entry logged here is zero-length:
	// it adds no bytes, and it merges into the previous run when that run
	// has the same scope.
	l.Messages.Append(ScopeAtChunk(cpos), nil)
	return true
}

// InsertChunk places chunk in the loaded set, conforming it to this
// layer's configured section count.
func (l *ChunkLayer) InsertChunk(pos chunkdata.ChunkPos, c *chunkdata.Chunk) {
	c.Resize(l.sectionCount, l.blockReg, registry.BiomePlains)
	l.chunks[pos] = c
}

// RemoveChunk unloads a chunk, logging an UnloadChunk message with scope
// ChunkView{pos}.
func (l *ChunkLayer) RemoveChunk(pos chunkdata.ChunkPos) {
	if _, ok := l.chunks[pos]; !ok {
		return
	}
	delete(l.chunks, pos)
	pkt := &protocol.UnloadChunk{ChunkX: pos.X, ChunkZ: pos.Z}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return
	}
	l.Messages.Append(ScopeAtChunk(pos), body)
}

// MinY and SectionCount expose the layer's configured chunk height, used
// by ViewPipeline to build ChunkDataAndUpdateLight payloads.
func (l *ChunkLayer) MinY() int                              { return l.minY }
func (l *ChunkLayer) SectionCount() int                      { return l.sectionCount }
func (l *ChunkLayer) BlockRegistry() *registry.BlockRegistry { return l.blockReg }

// ClearMessages empties this tick's broadcast log.
func (l *ChunkLayer) ClearMessages() { l.Messages.Clear() }

// ChunkCount returns the number of chunks currently loaded, for the
// loaded_chunks gauge.
func (l *ChunkLayer) ChunkCount() int { return len(l.chunks) }
