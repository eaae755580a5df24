// Package world implements ChunkLayer and EntityLayer:
// the chunk-oriented and entity-oriented broadcast logs a ViewPipeline
// replays per client, scope-filtered, each tick.
package world

import (
	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
)

// ScopeKind discriminates a MessageScope's shape.
type ScopeKind uint8

const (
	ScopeAll ScopeKind = iota
	ScopeOnly
	ScopeExcept
	ScopeChunkView
	ScopeChunkViewExcept
	ScopeTransitionChunkView
)

// MessageScope tags one LayerMessages entry with the predicate selecting
// which clients should receive it. Only the fields relevant to Kind are
// meaningful; it is comparable so consecutive identical-scope writes can
// be detected for coalescing.
type MessageScope struct {
	Kind    ScopeKind
	Entity  ecs.EntityID       // Only, Except, ChunkViewExcept
	Pos     chunkdata.ChunkPos // ChunkView, ChunkViewExcept
	Include chunkdata.ChunkPos // TransitionChunkView
	Exclude chunkdata.ChunkPos // TransitionChunkView
}

// ScopeAllMessages is the scope every layer-wide message (like a chat
// broadcast) uses.
var ScopeAllMessages = MessageScope{Kind: ScopeAll}

// ScopeOnlyEntity scopes a message to a single recipient.
func ScopeOnlyEntity(e ecs.EntityID) MessageScope {
	return MessageScope{Kind: ScopeOnly, Entity: e}
}

// ScopeExceptEntity scopes a message to every viewer except one.
func ScopeExceptEntity(e ecs.EntityID) MessageScope {
	return MessageScope{Kind: ScopeExcept, Entity: e}
}

// ScopeAtChunk scopes a message to viewers whose view contains pos.
func ScopeAtChunk(pos chunkdata.ChunkPos) MessageScope {
	return MessageScope{Kind: ScopeChunkView, Pos: pos}
}

// ScopeAtChunkExcept scopes a message to viewers whose view contains pos,
// excluding one entity.
func ScopeAtChunkExcept(pos chunkdata.ChunkPos, e ecs.EntityID) MessageScope {
	return MessageScope{Kind: ScopeChunkViewExcept, Pos: pos, Entity: e}
}

// ScopeTransition scopes a message to viewers whose view contains include
// but not exclude — the edge-of-view case an entity move across a view
// boundary produces.
func ScopeTransition(include, exclude chunkdata.ChunkPos) MessageScope {
	return MessageScope{Kind: ScopeTransitionChunkView, Include: include, Exclude: exclude}
}

// Viewer is what IncludedIn needs to know about one client to test scope
// membership: its own entity id and its current chunk view.
type Viewer struct {
	Entity ecs.EntityID
	View   chunkdata.ChunkView
}

// IncludedIn reports whether v should receive a message tagged with scope
// — the single place the scope predicates are implemented,
// shared by ChunkLayer and EntityLayer messages alike.
func IncludedIn(scope MessageScope, v Viewer) bool {
	switch scope.Kind {
	case ScopeAll:
		return true
	case ScopeOnly:
		return v.Entity == scope.Entity
	case ScopeExcept:
		return v.Entity != scope.Entity
	case ScopeChunkView:
		return v.View.Contains(scope.Pos)
	case ScopeChunkViewExcept:
		return v.View.Contains(scope.Pos) && v.Entity != scope.Entity
	case ScopeTransitionChunkView:
		return v.View.Contains(scope.Include) && !v.View.Contains(scope.Exclude)
	default:
		return false
	}
}

// scopeRun is one coalesced (scope, byte-range) entry in a LayerMessages
// buffer.
type scopeRun struct {
	scope  MessageScope
	start  int
	length int
}

// LayerMessages is a ChunkLayer's or EntityLayer's append-only per-tick
// broadcast log: a flat byte buffer plus a parallel list of scope-tagged
// runs. Consecutive appends sharing the same scope merge into one run
// instead of creating a new entry, which keeps per-client replay from
// re-testing the same scope byte-by-byte.
type LayerMessages struct {
	buf  []byte
	runs []scopeRun
}

// NewLayerMessages creates an empty message log.
func NewLayerMessages() *LayerMessages { return &LayerMessages{} }

// Append adds data under scope, merging into the previous run if its scope
// is identical.
func (m *LayerMessages) Append(scope MessageScope, data []byte) {
	if n := len(m.runs); n > 0 && m.runs[n-1].scope == scope {
		m.buf = append(m.buf, data...)
		m.runs[n-1].length += len(data)
		return
	}
	start := len(m.buf)
	m.buf = append(m.buf, data...)
	m.runs = append(m.runs, scopeRun{scope: scope, start: start, length: len(data)})
}

// Clear empties the log — called once per tick in the Clear phase.
func (m *LayerMessages) Clear() {
	m.buf = m.buf[:0]
	m.runs = m.runs[:0]
}

// Empty reports whether any messages were logged this tick.
func (m *LayerMessages) Empty() bool { return len(m.runs) == 0 }

// Bytes returns this tick's raw broadcast buffer, for cross-node
// replication (internal/router.Publish) before Clear empties it.
func (m *LayerMessages) Bytes() []byte { return m.buf }

// ForEachMatching visits every run whose scope includes v, in original
// append order, handing each run's byte range to fn — the ViewPipeline's
// step 4 "in-view updates" replay, which must preserve
// original packet byte ordering within each scope class.
func (m *LayerMessages) ForEachMatching(v Viewer, fn func(data []byte)) {
	for _, r := range m.runs {
		if IncludedIn(r.scope, v) {
			fn(m.buf[r.start : r.start+r.length])
		}
	}
}
