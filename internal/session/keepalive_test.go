package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepaliveSendsAfterPeriod(t *testing.T) {
	k := NewKeepalive(8 * time.Second)
	now := time.Now()

	// Inside the period nothing happens.
	_, send, timedOut := k.Tick(now.Add(1 * time.Second))
	assert.False(t, send)
	assert.False(t, timedOut)

	id, send, timedOut := k.Tick(now.Add(9 * time.Second))
	require.True(t, send)
	require.False(t, timedOut)

	// Keepalive determinism: the emitted id is the one a
	// reply is checked against.
	ok := k.Reply(id, now.Add(10*time.Second))
	assert.True(t, ok)
	assert.Equal(t, int32(1000), k.PingMillis())
}

func TestKeepaliveTimesOutWithoutReply(t *testing.T) {
	k := NewKeepalive(8 * time.Second)
	now := time.Now()

	_, send, _ := k.Tick(now.Add(9 * time.Second))
	require.True(t, send)

	_, send, timedOut := k.Tick(now.Add(18 * time.Second))
	assert.False(t, send)
	assert.True(t, timedOut)
}

func TestKeepaliveRejectsUnexpectedReply(t *testing.T) {
	k := NewKeepalive(8 * time.Second)
	assert.False(t, k.Reply(42, time.Now()), "no keepalive outstanding")
}

func TestKeepaliveRejectsWrongID(t *testing.T) {
	k := NewKeepalive(8 * time.Second)
	now := time.Now()
	id, send, _ := k.Tick(now.Add(9 * time.Second))
	require.True(t, send)
	assert.False(t, k.Reply(id+1, now.Add(10*time.Second)))
}

func TestKeepaliveReplyThenNextPeriodSendsAgain(t *testing.T) {
	k := NewKeepalive(8 * time.Second)
	now := time.Now()
	id, send, _ := k.Tick(now.Add(9 * time.Second))
	require.True(t, send)
	require.True(t, k.Reply(id, now.Add(10*time.Second)))

	id2, send, timedOut := k.Tick(now.Add(18 * time.Second))
	assert.True(t, send)
	assert.False(t, timedOut)
	assert.NotZero(t, id2)
}
