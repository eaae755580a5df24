package world

import (
	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/protocol"
)

// moveDeltaLimit is the largest relative-move delta (in 1/4096ths of a
// block) representable in the wire's i16 field.
const moveDeltaLimit = 32768

// EntityLayer spatially buckets the entities currently on it by chunk, and
// emits the movement/spawn/despawn broadcast messages viewers consume.
// It does not own entities — they carry their own lifecycle and are only
// bucketed here.
type EntityLayer struct {
	buckets  map[chunkdata.ChunkPos]map[ecs.EntityID]*ecs.Entity
	entities map[ecs.EntityID]*ecs.Entity
	chunkOf  map[ecs.EntityID]chunkdata.ChunkPos
	Messages *LayerMessages
}

// NewEntityLayer creates an empty layer.
func NewEntityLayer() *EntityLayer {
	return &EntityLayer{
		buckets:  make(map[chunkdata.ChunkPos]map[ecs.EntityID]*ecs.Entity),
		entities: make(map[ecs.EntityID]*ecs.Entity),
		chunkOf:  make(map[ecs.EntityID]chunkdata.ChunkPos),
		Messages: NewLayerMessages(),
	}
}

func (l *EntityLayer) bucket(pos chunkdata.ChunkPos) map[ecs.EntityID]*ecs.Entity {
	b, ok := l.buckets[pos]
	if !ok {
		b = make(map[ecs.EntityID]*ecs.Entity)
		l.buckets[pos] = b
	}
	return b
}

// EntitiesIn returns every entity currently bucketed at pos, for the
// ViewPipeline's chunk-enter step.
func (l *EntityLayer) EntitiesIn(pos chunkdata.ChunkPos) []*ecs.Entity {
	b := l.buckets[pos]
	out := make([]*ecs.Entity, 0, len(b))
	for _, e := range b {
		out = append(out, e)
	}
	return out
}

// Spawn adds e to the layer, bucketing it by its current chunk and logging
// a SpawnEntity message scoped to that chunk's viewers.
func (l *EntityLayer) Spawn(e *ecs.Entity) {
	cpos := chunkdata.BlockChunkPos(e.ChunkPosition())
	l.entities[e.ID] = e
	l.bucket(cpos)[e.ID] = e
	l.chunkOf[e.ID] = cpos

	pkt := &protocol.SpawnEntity{
		EntityID: int32(e.ID),
		UUID:     e.UniqueID,
		Kind:     int32(e.Kind),
		X:        e.Position.X, Y: e.Position.Y, Z: e.Position.Z,
		Pitch: e.Look.Pitch, Yaw: e.Look.Yaw, HeadYaw: e.HeadYaw,
	}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		l.Messages.Append(ScopeAtChunkExcept(cpos, e.ID), body)
	}
}

// Despawn removes e from the layer, logging a DespawnEntity message
// (modeled as RemoveEntities) scoped to its last chunk's viewers.
func (l *EntityLayer) Despawn(e *ecs.Entity) {
	cpos, ok := l.chunkOf[e.ID]
	if !ok {
		return
	}
	delete(l.bucket(cpos), e.ID)
	delete(l.entities, e.ID)
	delete(l.chunkOf, e.ID)

	pkt := &protocol.RemoveEntities{EntityIDs: []int32{int32(e.ID)}}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		l.Messages.Append(ScopeAtChunk(cpos), body)
	}
}

// UpdatePosition re-buckets e if its chunk changed and logs the
// appropriate movement message. Call once per tick for every entity whose
// Position or Look changed during the event-loop phase.
//
// Tie-break: a combined rotate-and-move is sent only if the
// per-axis delta fits the wire's i16 1/4096-block encoding; otherwise an
// absolute TeleportEntity is sent. When old and new chunk differ, the new
// chunk's viewers get the message via the chunk scope and viewers who can
// only see the old chunk get it via a transition scope, so the union of
// both chunks' viewers receives it exactly once. The moving entity itself
// is excluded — a client is authoritative on its own pose except for
// server-initiated teleports.
func (l *EntityLayer) UpdatePosition(e *ecs.Entity, rotationChanged bool) {
	oldChunk := l.chunkOf[e.ID]
	newChunk := chunkdata.BlockChunkPos(e.ChunkPosition())

	if newChunk != oldChunk {
		if b, ok := l.buckets[oldChunk]; ok {
			delete(b, e.ID)
		}
		l.bucket(newChunk)[e.ID] = e
		l.chunkOf[e.ID] = newChunk
	}

	pkt := movementPacket(e, rotationChanged)
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return
	}
	l.Messages.Append(ScopeAtChunkExcept(newChunk, e.ID), body)
	if newChunk != oldChunk {
		l.Messages.Append(ScopeTransition(oldChunk, newChunk), body)
	}
}

func movementPacket(e *ecs.Entity, rotationChanged bool) protocol.Packet {
	d := e.Position.Sub(e.OldPosition)
	dx := int16(d.X * 4096)
	dy := int16(d.Y * 4096)
	dz := int16(d.Z * 4096)
	fitsI16 := absF(d.X*4096) < moveDeltaLimit && absF(d.Y*4096) < moveDeltaLimit && absF(d.Z*4096) < moveDeltaLimit

	switch {
	case !fitsI16:
		return &protocol.TeleportEntity{
			EntityID: int32(e.ID),
			X:        e.Position.X, Y: e.Position.Y, Z: e.Position.Z,
			Yaw: e.Look.Yaw, Pitch: e.Look.Pitch, OnGround: e.OnGround,
		}
	case rotationChanged && e.Moved():
		return &protocol.UpdateEntityPositionAndRotation{
			EntityID: int32(e.ID), DX: dx, DY: dy, DZ: dz,
			Yaw: e.Look.Yaw, Pitch: e.Look.Pitch, OnGround: e.OnGround,
		}
	case e.Moved():
		return &protocol.UpdateEntityPosition{EntityID: int32(e.ID), DX: dx, DY: dy, DZ: dz, OnGround: e.OnGround}
	default:
		return &protocol.UpdateEntityRotation{EntityID: int32(e.ID), Yaw: e.Look.Yaw, Pitch: e.Look.Pitch, OnGround: e.OnGround}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// TrackerUpdate drains e's tracked-data update buffer and, if nonempty,
// logs an EntityTrackerUpdate (modeled as SetEntityMetadata) scoped to
// e's chunk viewers excluding e itself.
func (l *EntityLayer) TrackerUpdate(e *ecs.Entity) {
	w := &protocol.Writer{}
	if !e.Data.EncodeUpdate(w) {
		return
	}
	cpos := l.chunkOf[e.ID]
	pkt := &protocol.SetEntityMetadata{EntityID: int32(e.ID), Data: w.Bytes()}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		l.Messages.Append(ScopeAtChunkExcept(cpos, e.ID), body)
	}
}

// ClearMessages empties this tick's broadcast log.
func (l *EntityLayer) ClearMessages() { l.Messages.Clear() }
