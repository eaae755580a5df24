// Package chunkdata implements the paletted voxel data model:
// ChunkPos/ChunkView, PalettedContainer, ChunkSection, and Chunk.
package chunkdata

import "github.com/kestrelmc/kestrel/internal/vec"

// ChunkPos is a chunk's (x, z) address; a chunk covers a 16-wide,
// world-height-tall, 16-deep column anchored at (16x, minY, 16z).
type ChunkPos struct {
	X, Z int32
}

// Block returns the block position at the chunk's origin corner (local
// 0,0,0), at the given world min-y.
func (p ChunkPos) Block(minY int) vec.BlockPos {
	return vec.BlockPos{X: int(p.X) * 16, Y: minY, Z: int(p.Z) * 16}
}

// BlockChunkPos returns the ChunkPos containing a block position.
func BlockChunkPos(p vec.BlockPos) ChunkPos {
	return ChunkPos{X: int32(floorDiv(p.X, 16)), Z: int32(floorDiv(p.Z, 16))}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// distanceSquared returns the squared chunk-grid distance between two
// positions.
func (p ChunkPos) distanceSquared(o ChunkPos) int64 {
	dx := int64(p.X - o.X)
	dz := int64(p.Z - o.Z)
	return dx*dx + dz*dz
}

// ExtraViewRadius is the fixed padding added to a client's configured view
// distance to absorb prefetch/mob-spawning behavior.
const ExtraViewRadius = 2

// MaxViewDistance is the hard ceiling on a view's configured radius,
// independent of the per-server view_distance_max config clamp.
const MaxViewDistance = 32

// ChunkView is the set of chunk positions a client currently sees: a center
// position plus a radius in chunks.
type ChunkView struct {
	Pos  ChunkPos
	dist uint8
}

// NewChunkView builds a ChunkView, clamping dist to [0, MaxViewDistance].
func NewChunkView(pos ChunkPos, dist int) ChunkView {
	if dist < 0 {
		dist = 0
	}
	if dist > MaxViewDistance {
		dist = MaxViewDistance
	}
	return ChunkView{Pos: pos, dist: uint8(dist)}
}

// Dist returns the view's configured (unpadded) radius.
func (v ChunkView) Dist() int { return int(v.dist) }

// Contains reports whether p lies within v's logical view square — a
// squared-distance test against (dist+ExtraViewRadius)².
func (v ChunkView) Contains(p ChunkPos) bool {
	r := int64(v.dist) + ExtraViewRadius
	return v.Pos.distanceSquared(p) <= r*r
}

// Iter returns every chunk position in v, in row-major dz/dx scan order
// (not distance order).
func (v ChunkView) Iter() []ChunkPos {
	r := int(v.dist) + ExtraViewRadius
	out := make([]ChunkPos, 0, (2*r+1)*(2*r+1))
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			p := ChunkPos{X: v.Pos.X + int32(dx), Z: v.Pos.Z + int32(dz)}
			if v.Contains(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Diff returns the positions in v that are not in other. Diff(A, B) and
// Diff(B, A) are always disjoint.
func (v ChunkView) Diff(other ChunkView) []ChunkPos {
	all := v.Iter()
	out := make([]ChunkPos, 0, len(all))
	for _, p := range all {
		if !other.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}
