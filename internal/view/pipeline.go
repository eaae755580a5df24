// Package view implements the ViewPipeline: the per-client,
// per-tick diff of chunk and entity visibility that drives chunk
// load/unload and entity spawn/despawn, followed by a scope-filtered
// replay of this tick's layer broadcasts. It is the client-update phase
// of the tick.
package view

import (
	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/world"
)

// Layers bundles the chunk and entity layers a client currently sees. A
// "layer swap" is simply the caller passing a
// different ChunkLayer/EntityLayer than last tick's Update call.
type Layers struct {
	Chunk    *world.ChunkLayer
	Entities *world.EntityLayer
}

// Update runs one tick's worth of the ViewPipeline for a single client:
// entity exits and chunk unloads for everything leaving view, then chunk
// data for everything entering, then the scope-filtered replay of this
// tick's broadcasts, then entity spawns — so a chunk is always sent before
// any message referencing it, and unloaded only after its last referencing
// message. old is the prior tick's Layers and view (zero value if the
// client just joined); new is this tick's.
// Encoded packet bytes are handed to send in emission order; the caller
// (internal/game) queues them on the client's connection, whose writer
// frames and flushes them to the socket.
func Update(old Layers, oldView chunkdata.ChunkView, new Layers, newView chunkdata.ChunkView, self ecs.EntityID, send func([]byte)) {
	firstView := old.Chunk == nil && old.Entities == nil
	layerSwapped := !firstView && (old.Chunk != new.Chunk || old.Entities != new.Entities)

	// Step 1/2: chunk exit. On a layer swap every chunk the client used to
	// see is unloaded; otherwise only the chunks that fell out of view. A
	// brand-new client (no previous layer at all) has nothing to exit.
	var exiting []chunkdata.ChunkPos
	switch {
	case firstView:
		exiting = nil
	case layerSwapped:
		exiting = oldView.Iter()
	default:
		exiting = oldView.Diff(newView)
	}

	// Step 5: entity exit. Despawns for an exiting chunk are that chunk's
	// last referencing messages, so they go out before its unload.
	if old.Entities != nil {
		for _, p := range exiting {
			for _, e := range old.Entities.EntitiesIn(p) {
				emitDespawn(e, send)
			}
		}
	}

	// Unloads follow immediately, before any chunk-data for entering chunks
	// — all exits complete before all enters.
	for _, p := range exiting {
		if body := encodeUnloadChunk(p); body != nil {
			send(body)
		}
	}

	// Step 3: chunk enter. A brand-new client and a layer swap both see the
	// whole new view as entering; otherwise only the newly visible chunks.
	var entering []chunkdata.ChunkPos
	if firstView || layerSwapped {
		entering = newView.Iter()
	} else {
		entering = newView.Diff(oldView)
	}
	for _, p := range entering {
		if c, ok := new.Chunk.Chunk(p); ok {
			if body := encodeChunkData(c); body != nil {
				send(body)
			}
		}
	}

	// Step 4: in-view updates, replaying this tick's broadcasts filtered to
	// scopes that include this client, in original append order.
	viewer := world.Viewer{Entity: self, View: newView}
	if new.Chunk != nil {
		new.Chunk.Messages.ForEachMatching(viewer, send)
	}
	if new.Entities != nil {
		new.Entities.Messages.ForEachMatching(viewer, send)
	}

	// Step 6: entity enter — spawn entities newly visible this tick. Their
	// chunks were sent above, so every spawn references a loaded chunk.
	if new.Entities != nil {
		for _, p := range entering {
			for _, e := range new.Entities.EntitiesIn(p) {
				if e.ID == self {
					continue
				}
				emitSpawn(e, send)
			}
		}
	}
}

func emitDespawn(e *ecs.Entity, send func([]byte)) {
	pkt := &protocol.RemoveEntities{EntityIDs: []int32{int32(e.ID)}}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		send(body)
	}
}

func emitSpawn(e *ecs.Entity, send func([]byte)) {
	pkt := &protocol.SpawnEntity{
		EntityID: int32(e.ID),
		UUID:     e.UniqueID,
		Kind:     int32(e.Kind),
		X:        e.Position.X, Y: e.Position.Y, Z: e.Position.Z,
		Pitch: e.Look.Pitch, Yaw: e.Look.Yaw, HeadYaw: e.HeadYaw,
	}
	if body, err := protocol.EncodeWithID(pkt); err == nil {
		send(body)
	}
	if !e.Data.HasEntries() {
		return
	}
	w := &protocol.Writer{}
	e.Data.EncodeInit(w)
	tracker := &protocol.SetEntityMetadata{EntityID: int32(e.ID), Data: w.Bytes()}
	if body, err := protocol.EncodeWithID(tracker); err == nil {
		send(body)
	}
}

func encodeChunkData(c *chunkdata.Chunk) []byte {
	pkt := &protocol.ChunkDataAndUpdateLight{
		ChunkX:        c.Pos().X,
		ChunkZ:        c.Pos().Z,
		Heightmaps:    c.EncodeHeightmaps(),
		Data:          c.Encode(),
		BlockEntities: c.EncodeBlockEntities(),
	}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return nil
	}
	return body
}

func encodeUnloadChunk(p chunkdata.ChunkPos) []byte {
	pkt := &protocol.UnloadChunk{ChunkX: p.X, ChunkZ: p.Z}
	body, err := protocol.EncodeWithID(pkt)
	if err != nil {
		return nil
	}
	return body
}
