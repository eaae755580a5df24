package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/chunkdata"
	"github.com/kestrelmc/kestrel/internal/ecs"
)

func TestLayerMessagesCoalescesConsecutiveSameScope(t *testing.T) {
	m := NewLayerMessages()
	scope := ScopeAtChunk(chunkdata.ChunkPos{X: 0, Z: 0})
	m.Append(scope, []byte("a"))
	m.Append(scope, []byte("b"))
	m.Append(ScopeAllMessages, []byte("c"))

	require.Len(t, m.runs, 2)
	assert.Equal(t, 2, m.runs[0].length)
	assert.Equal(t, []byte("ab"), m.buf[m.runs[0].start:m.runs[0].start+m.runs[0].length])
}

func TestLayerMessagesForEachMatchingPreservesOrder(t *testing.T) {
	m := NewLayerMessages()
	chunkA := chunkdata.ChunkPos{X: 0, Z: 0}
	chunkB := chunkdata.ChunkPos{X: 5, Z: 5}

	m.Append(ScopeAtChunk(chunkA), []byte("1"))
	m.Append(ScopeAtChunk(chunkB), []byte("2"))
	m.Append(ScopeAtChunk(chunkA), []byte("3"))

	viewer := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkA, 0)}
	var got []byte
	m.ForEachMatching(viewer, func(data []byte) { got = append(got, data...) })
	assert.Equal(t, []byte("13"), got)
}

func TestLayerMessagesClearEmptiesLog(t *testing.T) {
	m := NewLayerMessages()
	m.Append(ScopeAllMessages, []byte("x"))
	require.False(t, m.Empty())
	m.Clear()
	assert.True(t, m.Empty())
}

// Message routing: every client included in a scope receives
// the message, and no excluded client does.
func TestIncludedInScopeVariants(t *testing.T) {
	chunkA := chunkdata.ChunkPos{X: 0, Z: 0}
	chunkB := chunkdata.ChunkPos{X: 10, Z: 10}
	viewerA := Viewer{Entity: 1, View: chunkdata.NewChunkView(chunkA, 0)}
	viewerB := Viewer{Entity: 2, View: chunkdata.NewChunkView(chunkB, 0)}

	assert.True(t, IncludedIn(ScopeAllMessages, viewerA))
	assert.True(t, IncludedIn(ScopeAllMessages, viewerB))

	only := ScopeOnlyEntity(ecs.EntityID(1))
	assert.True(t, IncludedIn(only, viewerA))
	assert.False(t, IncludedIn(only, viewerB))

	except := ScopeExceptEntity(ecs.EntityID(1))
	assert.False(t, IncludedIn(except, viewerA))
	assert.True(t, IncludedIn(except, viewerB))

	atChunkA := ScopeAtChunk(chunkA)
	assert.True(t, IncludedIn(atChunkA, viewerA))
	assert.False(t, IncludedIn(atChunkA, viewerB))

	exceptAtChunkA := ScopeAtChunkExcept(chunkA, ecs.EntityID(1))
	assert.False(t, IncludedIn(exceptAtChunkA, viewerA))

	transition := ScopeTransition(chunkA, chunkB)
	assert.True(t, IncludedIn(transition, viewerA))
	assert.False(t, IncludedIn(transition, viewerB))
}
