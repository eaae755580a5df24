package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Teleport acknowledgment: after N server-initiated teleports
// and M matching confirms, pending == N - M.
func TestTeleportPendingCount(t *testing.T) {
	tp := &Teleport{}
	ids := make([]int32, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, tp.Begin())
	}
	require.Equal(t, uint32(5), tp.Pending())
	assert.False(t, tp.MovementAllowed())

	for i := 0; i < 3; i++ {
		require.True(t, tp.Confirm(ids[i]), "confirm #%d", i)
	}
	assert.Equal(t, uint32(2), tp.Pending())
	assert.False(t, tp.MovementAllowed())

	require.True(t, tp.Confirm(ids[3]))
	require.True(t, tp.Confirm(ids[4]))
	assert.Equal(t, uint32(0), tp.Pending())
	assert.True(t, tp.MovementAllowed())
}

func TestTeleportConfirmMismatchFails(t *testing.T) {
	tp := &Teleport{}
	id := tp.Begin()
	assert.False(t, tp.Confirm(id+1), "wrong id must not be accepted")
}

func TestTeleportConfirmWithoutPendingFails(t *testing.T) {
	tp := &Teleport{}
	assert.False(t, tp.Confirm(0))
}

func TestTeleportIDsAreMonotonic(t *testing.T) {
	tp := &Teleport{}
	prev := tp.Begin()
	for i := 0; i < 10; i++ {
		id := tp.Begin()
		assert.Equal(t, prev+1, id)
		prev = id
	}
}

// Confirms must arrive in issue order: skipping ahead to the newest id
// while an older teleport is unconfirmed is a mismatch.
func TestTeleportOutOfOrderConfirmFails(t *testing.T) {
	tp := &Teleport{}
	first := tp.Begin()
	second := tp.Begin()
	assert.False(t, tp.Confirm(second))
	require.True(t, tp.Confirm(first))
	require.True(t, tp.Confirm(second))
}
