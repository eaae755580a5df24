package chunkdata

import (
	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// Chunk is a vertical stack of ChunkSections covering one ChunkPos column
// from minY to minY+16*len(sections). It additionally tracks
// a sparse set of BlockEntity values and a per-tick dirty set of modified
// block positions, which ChunkLayer drains into broadcast messages.
type Chunk struct {
	pos      ChunkPos
	minY     int
	sections []*ChunkSection
	entities map[vec.BlockPos]*BlockEntity
	dirty    map[vec.BlockPos]struct{}
	blockReg *registry.BlockRegistry
}

// NewChunk creates an all-air chunk of sectionCount sections, anchored at
// minY (which must be a multiple of 16).
func NewChunk(pos ChunkPos, minY, sectionCount int, blockReg *registry.BlockRegistry, fillBiome registry.BiomeID) *Chunk {
	sections := make([]*ChunkSection, sectionCount)
	for i := range sections {
		sections[i] = NewChunkSection(blockReg, fillBiome)
	}
	return &Chunk{
		pos:      pos,
		minY:     minY,
		sections: sections,
		entities: make(map[vec.BlockPos]*BlockEntity),
		dirty:    make(map[vec.BlockPos]struct{}),
		blockReg: blockReg,
	}
}

// Pos returns the chunk's column position.
func (c *Chunk) Pos() ChunkPos { return c.pos }

// MinY returns the world y of the chunk's lowest section.
func (c *Chunk) MinY() int { return c.minY }

// Sections returns the chunk's vertical section stack, bottom to top.
func (c *Chunk) Sections() []*ChunkSection { return c.sections }

// contains reports whether a world block position falls within this
// chunk's column and height range.
func (c *Chunk) contains(p vec.BlockPos) bool {
	if BlockChunkPos(p) != c.pos {
		return false
	}
	top := c.minY + SectionSize*len(c.sections)
	return p.Y >= c.minY && p.Y < top
}

func (c *Chunk) local(p vec.BlockPos) (section int, x, y, z int) {
	lx := ((p.X % SectionSize) + SectionSize) % SectionSize
	lz := ((p.Z % SectionSize) + SectionSize) % SectionSize
	rel := p.Y - c.minY
	return rel / SectionSize, lx, rel % SectionSize, lz
}

// BlockAt returns the block state at a world position, or the registry's
// air state if the position is outside this chunk's bounds.
func (c *Chunk) BlockAt(p vec.BlockPos) registry.BlockStateID {
	if !c.contains(p) {
		return c.blockReg.Air()
	}
	si, x, y, z := c.local(p)
	return c.sections[si].BlockAt(x, y, z)
}

// SetBlockAt writes a block state at a world position, recording it in the
// per-tick dirty set. It is a no-op if p falls outside this chunk.
func (c *Chunk) SetBlockAt(p vec.BlockPos, state registry.BlockStateID) {
	if !c.contains(p) {
		return
	}
	si, x, y, z := c.local(p)
	c.sections[si].SetBlockAt(x, y, z, state)
	if c.blockReg.IsAir(state) {
		delete(c.entities, p)
	}
	c.dirty[p] = struct{}{}
}

// BlockEntityAt returns the block entity at p, if any.
func (c *Chunk) BlockEntityAt(p vec.BlockPos) (*BlockEntity, bool) {
	be, ok := c.entities[p]
	return be, ok
}

// SetBlockEntityAt attaches or replaces the block entity at p.
func (c *Chunk) SetBlockEntityAt(p vec.BlockPos, be *BlockEntity) {
	c.entities[p] = be
	c.dirty[p] = struct{}{}
}

// RemoveBlockEntityAt detaches the block entity at p, if present.
func (c *Chunk) RemoveBlockEntityAt(p vec.BlockPos) {
	delete(c.entities, p)
}

// DrainDirty returns every block position modified since the last drain
// and clears the set, for callers that batch a tick's block changes into
// one section-update packet.
func (c *Chunk) DrainDirty() []vec.BlockPos {
	if len(c.dirty) == 0 {
		return nil
	}
	out := make([]vec.BlockPos, 0, len(c.dirty))
	for p := range c.dirty {
		out = append(out, p)
	}
	c.dirty = make(map[vec.BlockPos]struct{})
	return out
}

// Optimize compacts every section's paletted storage. Intended to run
// periodically (e.g. when a chunk becomes unwatched), not every tick.
func (c *Chunk) Optimize() {
	for _, s := range c.sections {
		s.Optimize()
	}
}

// Resize conforms the chunk to a layer's configured section count: a
// too-short chunk is extended with empty air sections at the top; a
// too-tall chunk is truncated at the top, dropping its topmost sections
// and any block entities within them.
func (c *Chunk) Resize(target int, blockReg *registry.BlockRegistry, fillBiome registry.BiomeID) {
	switch {
	case target == len(c.sections):
		return
	case target > len(c.sections):
		for len(c.sections) < target {
			c.sections = append(c.sections, NewChunkSection(blockReg, fillBiome))
		}
	default:
		top := c.minY + SectionSize*target
		for p := range c.entities {
			if p.Y >= top {
				delete(c.entities, p)
			}
		}
		c.sections = c.sections[:target]
	}
}
