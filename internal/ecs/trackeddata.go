// Package ecs holds the entity-component-system-shaped per-entity state
// every in-world object carries: Entity, its component fields, and the Client
// bundle attached to player-controlled entities.
package ecs

import (
	"github.com/kestrelmc/kestrel/internal/protocol"
	"github.com/kestrelmc/kestrel/internal/vec"
)

// TrackedDataType is the wire type tag of one tracked-data entry, matching
// the small fixed catalog of value shapes entity metadata actually needs.
type TrackedDataType uint8

const (
	TrackedByte TrackedDataType = iota
	TrackedVarInt
	TrackedFloat
	TrackedString
	TrackedBoolean
	TrackedBlockPos
)

// trackedEntry is one (index, type, value) tracked-data slot.
type trackedEntry struct {
	typ   TrackedDataType
	value any
	dirty bool
}

// TrackedData is an entity's metadata table: a sparse set of indexed,
// typed values a client needs to render the entity (health, pose flags,
// air supply, and so on). Entries changed since the last drain are sent
// as an "update_data" delta; the full set is sent as "init_data" when the
// entity first enters a client's view.
type TrackedData struct {
	entries map[uint8]*trackedEntry
	order   []uint8 // insertion order, kept stable for deterministic encoding
}

// NewTrackedData creates an empty tracked-data table.
func NewTrackedData() *TrackedData {
	return &TrackedData{entries: make(map[uint8]*trackedEntry)}
}

// Set assigns index's value, marking it dirty for the next update-data
// drain. Re-registering an index with a different type is allowed; callers
// are expected to use consistent types per index in practice.
func (t *TrackedData) Set(index uint8, typ TrackedDataType, value any) {
	e, ok := t.entries[index]
	if !ok {
		e = &trackedEntry{}
		t.entries[index] = e
		t.order = append(t.order, index)
	}
	if ok && e.typ == typ && e.value == value {
		return
	}
	e.typ = typ
	e.value = value
	e.dirty = true
}

// HasEntries reports whether any index has ever been set, so callers can
// skip sending an init_data packet with nothing in it.
func (t *TrackedData) HasEntries() bool { return len(t.order) > 0 }

// Get returns index's current value, if set.
func (t *TrackedData) Get(index uint8) (any, bool) {
	e, ok := t.entries[index]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func encodeEntry(w *protocol.Writer, index uint8, e *trackedEntry) {
	w.Byte(index)
	w.VarInt(int32(e.typ))
	switch e.typ {
	case TrackedByte:
		w.U8(e.value.(uint8))
	case TrackedVarInt:
		w.VarInt(e.value.(int32))
	case TrackedFloat:
		w.F32(e.value.(float32))
	case TrackedString:
		w.String(e.value.(string), 0)
	case TrackedBoolean:
		w.Bool(e.value.(bool))
	case TrackedBlockPos:
		w.BlockPos(e.value.(vec.BlockPos))
	}
}

// EncodeInit writes every entry into w, terminated by the 0xFF sentinel
// byte — the full snapshot sent when an entity enters a client's view.
func (t *TrackedData) EncodeInit(w *protocol.Writer) {
	for _, idx := range t.order {
		encodeEntry(w, idx, t.entries[idx])
	}
	w.Byte(0xFF)
}

// EncodeUpdate writes only entries dirtied since the last drain, then
// clears their dirty flags, terminated by the 0xFF sentinel. Returns false
// if nothing was dirty, so callers can skip sending an empty packet.
func (t *TrackedData) EncodeUpdate(w *protocol.Writer) bool {
	changed := false
	for _, idx := range t.order {
		e := t.entries[idx]
		if !e.dirty {
			continue
		}
		encodeEntry(w, idx, e)
		e.dirty = false
		changed = true
	}
	if changed {
		w.Byte(0xFF)
	}
	return changed
}
