package chunkdata

import (
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/registry"
)

// minBlockBits/minBiomeBits are vanilla's floor on the indirect bits-per-entry
// width: bitsFor never returns fewer bits than this, however small the palette.
const (
	minBlockBits = 4
	minBiomeBits = 1
)

// bitsFor returns the number of bits needed to represent n distinct values
// (n >= 1), i.e. ceil(log2(n)), with a floor of min.
func bitsFor(n, min int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	if bits < min {
		return min
	}
	return bits
}

// encodePaletted writes one PalettedContainer in the vanilla section format:
// a bits-per-entry byte, then either the single value as a VarInt (Single,
// bits 0, followed by a zero-length array), a VarInt palette (Indirect), or
// nothing (Direct), followed by the packed long array.
// toInt converts a cell's value to its wire-level palette/direct integer.
func encodePaletted[T comparable](w *protocol.Writer, c *PalettedContainer[T], toInt func(T) int32, directBits, minBits int) {
	switch {
	case c.variant == variantSingle:
		w.U8(0)
		w.VarInt(toInt(c.singleValue))
		w.VarInt(0) // zero-length packed array
	case c.variant == variantDirect:
		w.U8(uint8(directBits))
		writePacked(w, c.size, directBits, func(i int) int64 { return int64(toInt(c.direct[i])) })
	default:
		bits := bitsFor(len(c.palette), minBits)
		w.U8(uint8(bits))
		w.VarInt(int32(len(c.palette)))
		for _, v := range c.palette {
			w.VarInt(toInt(v))
		}
		writePacked(w, c.size, bits, func(i int) int64 { return int64(c.indices[i]) })
	}
}

// writePacked packs n values of bitsPerEntry width each into 64-bit longs,
// vanilla-style: entries never straddle a long boundary, so
// floor(64/bitsPerEntry) entries fit per long and any remainder bits in the
// last long of each boundary are left zero.
func writePacked(w *protocol.Writer, n, bitsPerEntry int, value func(i int) int64) {
	if bitsPerEntry == 0 {
		w.VarInt(0)
		return
	}
	perLong := 64 / bitsPerEntry
	longCount := (n + perLong - 1) / perLong
	w.VarInt(int32(longCount))
	mask := int64(1)<<uint(bitsPerEntry) - 1
	for l := 0; l < longCount; l++ {
		var acc int64
		for slot := 0; slot < perLong; slot++ {
			i := l*perLong + slot
			if i >= n {
				break
			}
			acc |= (value(i) & mask) << uint(slot*bitsPerEntry)
		}
		w.I64(acc)
	}
}

// Encode writes this section's non-air block count, block palette, and
// biome palette in vanilla's ChunkSection wire format.
func (s *ChunkSection) Encode(w *protocol.Writer, blockReg *registry.BlockRegistry) {
	w.I16(int16(s.nonAirCount))
	directBlockBits := bitsFor(blockReg.StateCount(), minBlockBits)
	encodePaletted(w, s.blocks, func(v registry.BlockStateID) int32 { return int32(v) }, directBlockBits, minBlockBits)
	directBiomeBits := bitsFor(registry.BiomeCount(), minBiomeBits)
	encodePaletted(w, s.biomes, func(v registry.BiomeID) int32 { return int32(v) }, directBiomeBits, minBiomeBits)
}

// Encode concatenates every section's wire encoding, bottom to top, the
// payload ChunkDataAndUpdateLight.Data carries.
func (c *Chunk) Encode() []byte {
	w := &protocol.Writer{}
	for _, s := range c.sections {
		s.Encode(w, c.blockReg)
	}
	return w.Bytes()
}
