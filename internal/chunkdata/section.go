package chunkdata

import "github.com/kestrelmc/kestrel/internal/registry"

// SectionSize and biomeAxisCells are the per-axis cell counts of a
// ChunkSection's two PalettedContainers: one block per 1×1×1 block, one
// biome per 4×4×4 quarter.
const (
	SectionSize       = 16
	sectionBlockCells = SectionSize * SectionSize * SectionSize
	biomeAxisCells    = SectionSize / 4
	sectionBiomeCells = biomeAxisCells * biomeAxisCells * biomeAxisCells

	maxBlockPalette = 16
	maxBiomePalette = 4
)

// ChunkSection is one 16-block vertical slice of a Chunk: a paletted block
// volume, a paletted biome volume at quarter resolution, and a running
// count of non-air blocks maintained incrementally so Chunk can skip
// fully-empty sections when building ChunkDataAndUpdateLight payloads.
type ChunkSection struct {
	blocks      *PalettedContainer[registry.BlockStateID]
	biomes      *PalettedContainer[registry.BiomeID]
	nonAirCount int
	blockReg    *registry.BlockRegistry
}

// NewChunkSection creates an all-air, single-biome section.
func NewChunkSection(blockReg *registry.BlockRegistry, fillBiome registry.BiomeID) *ChunkSection {
	return &ChunkSection{
		blocks:   NewPalettedContainer[registry.BlockStateID](sectionBlockCells, maxBlockPalette, blockReg.Air()),
		biomes:   NewPalettedContainer[registry.BiomeID](sectionBiomeCells, maxBiomePalette, fillBiome),
		blockReg: blockReg,
	}
}

func blockIndex(x, y, z int) int { return (y*SectionSize+z)*SectionSize + x }

func biomeIndex(x, y, z int) int { return (y*biomeAxisCells+z)*biomeAxisCells + x }

// BlockAt returns the block state at local coordinates (0..15 each axis).
func (s *ChunkSection) BlockAt(x, y, z int) registry.BlockStateID {
	return s.blocks.Get(blockIndex(x, y, z))
}

// SetBlockAt writes a block state at local coordinates, maintaining
// nonAirCount incrementally.
func (s *ChunkSection) SetBlockAt(x, y, z int, state registry.BlockStateID) {
	i := blockIndex(x, y, z)
	prev := s.blocks.Get(i)
	if prev == state {
		return
	}
	if s.blockReg.IsAir(prev) && !s.blockReg.IsAir(state) {
		s.nonAirCount++
	} else if !s.blockReg.IsAir(prev) && s.blockReg.IsAir(state) {
		s.nonAirCount--
	}
	s.blocks.Set(i, state)
}

// BiomeAt returns the biome at local quarter-resolution coordinates
// (0..3 each axis).
func (s *ChunkSection) BiomeAt(x, y, z int) registry.BiomeID {
	return s.biomes.Get(biomeIndex(x, y, z))
}

// SetBiomeAt writes the biome at local quarter-resolution coordinates.
func (s *ChunkSection) SetBiomeAt(x, y, z int, b registry.BiomeID) {
	s.biomes.Set(biomeIndex(x, y, z), b)
}

// NonAirCount returns the number of non-air blocks in the section, used by
// clients to decide whether a section needs lighting/rendering at all.
func (s *ChunkSection) NonAirCount() int { return s.nonAirCount }

// IsEmpty reports whether the section contains no non-air blocks.
func (s *ChunkSection) IsEmpty() bool { return s.nonAirCount == 0 }

// Optimize compacts both paletted containers; call
// periodically, not on every write, since it scans every cell.
func (s *ChunkSection) Optimize() {
	s.blocks.Optimize()
	s.biomes.Optimize()
}
