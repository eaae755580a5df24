package registry

// BiomeID indexes a biome, stored one per quarter-resolution cell in each
// ChunkSection's biome PalettedContainer.
type BiomeID int32

const (
	BiomePlains BiomeID = iota
	BiomeForest
	BiomeDesert
	BiomeOcean
	BiomeMountains
	BiomeSwamp
	BiomeTaiga
	BiomeRiver
	BiomeNether
	BiomeTheEnd
)

var biomeNames = map[BiomeID]string{
	BiomePlains:    "plains",
	BiomeForest:    "forest",
	BiomeDesert:    "desert",
	BiomeOcean:     "ocean",
	BiomeMountains: "mountains",
	BiomeSwamp:     "swamp",
	BiomeTaiga:     "taiga",
	BiomeRiver:     "river",
	BiomeNether:    "nether",
	BiomeTheEnd:    "the_end",
}

// String returns the biome's registry name, or "unknown" for an
// unregistered value.
func (b BiomeID) String() string {
	if n, ok := biomeNames[b]; ok {
		return n
	}
	return "unknown"
}

// BiomeCount returns the number of registered biomes, used to size the
// direct (non-palette) bit width of a biome PalettedContainer.
func BiomeCount() int { return len(biomeNames) }
