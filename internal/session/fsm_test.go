package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/protocol"
)

func newOfflineFSM() *FSM {
	return NewFSM(ModeOffline, false, 256, "", "127.0.0.1", nil)
}

func TestHandshakeSelectsStatusOrLogin(t *testing.T) {
	f := newOfflineFSM()
	require.NoError(t, f.HandleHandshake(&protocol.Handshake{NextState: 1}))
	assert.Equal(t, PhaseStatus, f.Phase())
	assert.Equal(t, protocol.StateStatus, f.Protocol())

	f = newOfflineFSM()
	require.NoError(t, f.HandleHandshake(&protocol.Handshake{NextState: 2}))
	assert.Equal(t, PhaseLogin, f.Phase())
	assert.Equal(t, protocol.StateLogin, f.Protocol())
}

func TestHandshakeRejectsInvalidNextState(t *testing.T) {
	f := newOfflineFSM()
	assert.Error(t, f.HandleHandshake(&protocol.Handshake{NextState: 3}))
}

func TestHandshakeRejectedOutsideInitialPhase(t *testing.T) {
	f := newOfflineFSM()
	require.NoError(t, f.HandleHandshake(&protocol.Handshake{NextState: 2}))
	assert.Error(t, f.HandleHandshake(&protocol.Handshake{NextState: 1}))
}

func TestOfflineLoginResolvesIdentityAndCompression(t *testing.T) {
	f := newOfflineFSM()
	require.NoError(t, f.HandleHandshake(&protocol.Handshake{NextState: 2}))

	pkts, err := f.HandleLoginStart(&protocol.LoginStart{Username: "alex"})
	require.NoError(t, err)
	assert.Nil(t, pkts, "offline mode sends nothing until FinishOfflineLogin")

	out := f.FinishOfflineLogin("alex")
	require.Len(t, out, 2)
	_, isCompression := out[0].(*protocol.SetCompression)
	assert.True(t, isCompression, "compression threshold precedes login success")
	success, isSuccess := out[1].(*protocol.LoginSuccess)
	require.True(t, isSuccess)
	assert.Equal(t, "alex", success.Username)
	assert.Equal(t, PhasePlay, f.Phase())
}

func TestOfflineLoginSkipsCompressionWhenDisabled(t *testing.T) {
	f := NewFSM(ModeOffline, false, -1, "", "127.0.0.1", nil)
	require.NoError(t, f.HandleHandshake(&protocol.Handshake{NextState: 2}))
	_, err := f.HandleLoginStart(&protocol.LoginStart{Username: "alex"})
	require.NoError(t, err)

	out := f.FinishOfflineLogin("alex")
	require.Len(t, out, 1)
	_, isSuccess := out[0].(*protocol.LoginSuccess)
	assert.True(t, isSuccess)
}

func TestLoginStartRejectedOutsideLoginPhase(t *testing.T) {
	f := newOfflineFSM()
	_, err := f.HandleLoginStart(&protocol.LoginStart{Username: "alex"})
	assert.Error(t, err)
}

func TestOfflineUUIDDeterministic(t *testing.T) {
	a := OfflineUUID("Notch")
	b := OfflineUUID("Notch")
	c := OfflineUUID("notch")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "usernames are case-sensitive")
	assert.Equal(t, uuid.Version(3), a.Version(), "offline UUIDs are MD5 name-based")
	assert.Equal(t, uuid.RFC4122, a.Variant())
}

func TestServerIDHashKnownVectors(t *testing.T) {
	// The three published vectors for Minecraft's twos-complement SHA-1
	// hex digest.
	assert.Equal(t, "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48", ServerIDHash("Notch", nil, nil))
	assert.Equal(t, "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1", ServerIDHash("jeb_", nil, nil))
	assert.Equal(t, "88e16a1019277b15d58faf0541e11910eb756f6", ServerIDHash("simon", nil, nil))
}
