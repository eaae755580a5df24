package ecs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kestrelmc/kestrel/internal/registry"
	"github.com/kestrelmc/kestrel/internal/vec"
)

func TestClientSendDropsWhenOutboxFull(t *testing.T) {
	e := NewEntity(1, uuid.New(), registry.EntityPlayer, vec.Vec3{})
	c := NewClient(e, "steve", 1, 10)

	assert.True(t, c.Send([]byte("first")))
	assert.False(t, c.Send([]byte("second"))) // outbox of size 1 is now full

	got := <-c.Outbox
	assert.Equal(t, []byte("first"), got)
}
