// Package session implements per-connection protocol state: the
// handshake→status|login→play state machine, the
// encryption/session-service handshake, the teleport and keepalive
// reconciliation protocols, and action-sequence acknowledgment.
package session

// Teleport tracks one client's outstanding server-initiated teleports.
// Inbound movement packets must be ignored by the caller while
// Pending() > 0.
type Teleport struct {
	counter uint32
	pending uint32
}

// Begin records a new server-initiated teleport, returning the
// teleport_id to send in PlayerPositionLookS2C. A session is not expected
// to live long enough to wrap the u32 counter, but wrapping keeps the
// arithmetic well-defined if it ever does.
func (t *Teleport) Begin() int32 {
	id := t.counter
	t.pending++
	t.counter++
	return int32(id)
}

// Confirm processes a client's TeleportConfirm{id}. ok reports whether id
// matched the expected value; on mismatch the caller must disconnect the
// client and should not call Confirm again without first
// resetting state.
func (t *Teleport) Confirm(id int32) (ok bool) {
	if t.pending == 0 {
		return false
	}
	expected := t.counter - t.pending
	if uint32(id) != expected {
		return false
	}
	t.pending--
	return true
}

// Pending returns the number of outstanding unconfirmed teleports.
func (t *Teleport) Pending() uint32 { return t.pending }

// MovementAllowed reports whether inbound movement packets should be
// applied — false while any teleport confirmation is outstanding.
func (t *Teleport) MovementAllowed() bool { return t.pending == 0 }
