package ecs

import (
	"github.com/google/uuid"

	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// EntityID is a world-local, per-server entity identifier assigned
// sequentially at spawn. It is distinct from UniqueID, which
// is stable across a player's sessions.
type EntityID int32

// Entity is the component bundle every in-world object carries: position
// (current and previous tick, for interpolated relative-move packets),
// velocity, look, the spawn-time EntityKind, and its tracked metadata.
// Tick systems operate on these fields directly rather than through
// per-field getters.
type Entity struct {
	ID          EntityID
	UniqueID    uuid.UUID
	Kind        registry.EntityKind
	Position    vec.Vec3
	OldPosition vec.Vec3
	Velocity    vec.Vec3
	Look        vec.Look
	HeadYaw     float32
	OnGround    bool
	Data        *TrackedData
}

// NewEntity creates an entity at pos with empty tracked data.
func NewEntity(id EntityID, unique uuid.UUID, kind registry.EntityKind, pos vec.Vec3) *Entity {
	return &Entity{
		ID:          id,
		UniqueID:    unique,
		Kind:        kind,
		Position:    pos,
		OldPosition: pos,
		Data:        NewTrackedData(),
	}
}

// ChunkPosition returns the block containing the entity's current position;
// callers map it to its chunk column with chunkdata.BlockChunkPos to bucket
// the entity in the world's spatial index.
func (e *Entity) ChunkPosition() vec.BlockPos { return e.Position.Block() }

// Moved reports whether the entity's position changed since the last tick
// — the Entity-layer's signal to emit a movement message.
func (e *Entity) Moved() bool { return e.Position != e.OldPosition }

// CommitTick copies Position into OldPosition, called once per tick after
// movement messages have been computed for this entity.
func (e *Entity) CommitTick() { e.OldPosition = e.Position }
