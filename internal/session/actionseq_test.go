package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionSequenceKeepsMax(t *testing.T) {
	var a ActionSequence
	a.Observe(3)
	a.Observe(7)
	a.Observe(5) // stale packet, must not lower the high-water mark

	seq, ok := a.DrainAck()
	require.True(t, ok)
	assert.Equal(t, int32(7), seq)
}

func TestActionSequenceDrainResetsToZero(t *testing.T) {
	var a ActionSequence
	a.Observe(9)
	_, ok := a.DrainAck()
	require.True(t, ok)

	_, ok = a.DrainAck()
	assert.False(t, ok, "nothing observed since last drain")
}

func TestActionSequenceNothingObserved(t *testing.T) {
	var a ActionSequence
	_, ok := a.DrainAck()
	assert.False(t, ok)
}
