// Package vec provides the small vector types shared by the world, entity
// and session layers: integer block positions and float64 entity positions.
package vec

import "math"

// BlockPos is an absolute block coordinate.
type BlockPos struct {
	X, Y, Z int
}

// Add returns the sum of two block positions.
func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Vec3 is a float64 position or velocity, one per axis.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Block floors each axis of the position to the block it falls in.
func (v Vec3) Block() BlockPos {
	return BlockPos{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

// DistanceSquared returns the squared Euclidean distance to o.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	d := v.Sub(o)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Distance returns the Euclidean distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Look is a client's facing direction.
type Look struct {
	Yaw, Pitch float32
}
