package session

// ActionSequence is the per-client monotonic action counter: the client
// tags every dig/place packet with a
// sequence number, and the server acknowledges the highest one seen each
// tick so the client can un-predict a rejected action. The counter
// resets to zero on disconnect (a fresh ActionSequence per session)
// rather than persisting across reconnects.
type ActionSequence struct {
	highest int32
}

// Observe records a sequence number received this tick, keeping the
// maximum of what's stored and what's received.
func (a *ActionSequence) Observe(seq int32) {
	if seq > a.highest {
		a.highest = seq
	}
}

// DrainAck returns the highest sequence observed since the last drain and
// resets to zero, or ok=false if nothing was observed this tick — the
// caller's signal to skip sending AcknowledgeBlockChange.
func (a *ActionSequence) DrainAck() (seq int32, ok bool) {
	if a.highest == 0 {
		return 0, false
	}
	seq = a.highest
	a.highest = 0
	return seq, true
}
