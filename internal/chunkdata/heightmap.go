package chunkdata

import "github.com/kestrelmc/kestrel/internal/protocol"

// NBT tag bytes used by the heightmap compound. The compound is built
// directly rather than through a general NBT serializer — the blob is
// fixed-shape (one named long array) and travels as an opaque,
// self-delimiting value everywhere else in the codec.
const (
	tagEnd       = 0x00
	tagCompound  = 0x0A
	tagLongArray = 0x0C
)

// heightmapBits returns the bits-per-column width of the packed heightmap
// long array: enough to count 0..worldHeight+1 distinct surface levels.
func heightmapBits(worldHeight int) int {
	bits := 1
	for (1 << bits) < worldHeight+2 {
		bits++
	}
	return bits
}

// EncodeHeightmaps builds the chunk's heightmap compound for the chunk-data
// packet: `{MOTION_BLOCKING: [long; ...]}` with one packed entry per column
// giving the height (relative to the chunk bottom) above the highest
// opaque-or-liquid block. Entries pack LSB-first and never straddle a long,
// the same layout the paletted section data uses.
func (c *Chunk) EncodeHeightmaps() []byte {
	worldHeight := SectionSize * len(c.sections)
	bits := heightmapBits(worldHeight)
	perLong := 64 / bits
	columns := SectionSize * SectionSize
	longCount := (columns + perLong - 1) / perLong

	heights := make([]int64, columns)
	for z := 0; z < SectionSize; z++ {
		for x := 0; x < SectionSize; x++ {
			heights[z*SectionSize+x] = int64(c.columnSurface(x, z))
		}
	}

	w := &protocol.Writer{}
	w.Byte(tagCompound)
	w.U16(0) // empty root name
	w.Byte(tagLongArray)
	name := "MOTION_BLOCKING"
	w.U16(uint16(len(name)))
	w.ByteSlice([]byte(name))
	w.I32(int32(longCount))
	mask := int64(1)<<uint(bits) - 1
	for l := 0; l < longCount; l++ {
		var acc int64
		for slot := 0; slot < perLong; slot++ {
			i := l*perLong + slot
			if i >= columns {
				break
			}
			acc |= (heights[i] & mask) << uint(slot*bits)
		}
		w.I64(acc)
	}
	w.Byte(tagEnd)
	return w.Bytes()
}

// columnSurface scans a column top-down for the highest motion-blocking
// block, returning its height above the chunk bottom plus one (zero for an
// all-air column).
func (c *Chunk) columnSurface(x, z int) int {
	for si := len(c.sections) - 1; si >= 0; si-- {
		s := c.sections[si]
		if s.IsEmpty() {
			continue
		}
		for y := SectionSize - 1; y >= 0; y-- {
			state := s.BlockAt(x, y, z)
			if c.blockReg.Opacity(state) > 0 || c.blockReg.IsLiquid(state) {
				return si*SectionSize + y + 1
			}
		}
	}
	return 0
}

// EncodeBlockEntities writes the chunk-data packet's trailing block-entity
// list: a VarInt count, then per entry the packed local XZ byte, the
// absolute Y, the entity's type id, and its opaque NBT payload.
func (c *Chunk) EncodeBlockEntities() []byte {
	w := &protocol.Writer{}
	w.VarInt(int32(len(c.entities)))
	for pos, be := range c.entities {
		lx := ((pos.X % SectionSize) + SectionSize) % SectionSize
		lz := ((pos.Z % SectionSize) + SectionSize) % SectionSize
		w.U8(uint8(lx<<4 | lz))
		w.I16(int16(pos.Y))
		w.VarInt(be.Type)
		if len(be.Data) == 0 {
			w.Byte(tagEnd) // TAG_End stands in for an absent compound
		} else {
			w.ByteSlice(be.Data)
		}
	}
	return w.Bytes()
}
