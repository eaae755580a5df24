package session

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// Keepalive tracks one client's keepalive handshake: whether a reply is
// outstanding, the last id sent, and when. The session loop calls Tick
// once per client per tick.
type Keepalive struct {
	period       time.Duration
	gotReply     bool
	lastID       int64
	lastSendTime time.Time
	pingMillis   int32
}

// NewKeepalive creates a Keepalive that fires every period, starting in
// the "reply already received" state so the first Tick after one full
// period sends rather than timing out.
func NewKeepalive(period time.Duration) *Keepalive {
	return &Keepalive{period: period, gotReply: true, lastSendTime: time.Now()}
}

// Tick is called once per server tick. If the period has elapsed and no
// reply is pending, it returns the id of a new KeepAlive to send; if the
// period elapsed and a reply is still pending, timedOut is true and the
// caller must disconnect the client.
func (k *Keepalive) Tick(now time.Time) (id int64, send bool, timedOut bool) {
	if now.Sub(k.lastSendTime) < k.period {
		return 0, false, false
	}
	if !k.gotReply {
		return 0, false, true
	}
	id = randomID()
	k.gotReply = false
	k.lastID = id
	k.lastSendTime = now
	return id, true, false
}

// randomID draws a random u64 the same way the wire field is sized,
// reusing crypto/rand rather than introducing a non-crypto RNG dependency
// for a single random number per client per 8 seconds.
func randomID() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:]))
}

// Reply processes an inbound KeepAliveReply. ok is false if no reply was
// expected or the id doesn't match the last sent one — either case is
// fatal for the connection.
func (k *Keepalive) Reply(id int64, now time.Time) (ok bool) {
	if k.gotReply {
		return false
	}
	if id != k.lastID {
		return false
	}
	k.gotReply = true
	ping := now.Sub(k.lastSendTime).Milliseconds()
	k.pingMillis = clampI32(ping)
	return true
}

// PingMillis returns the last measured round-trip time.
func (k *Keepalive) PingMillis() int32 { return k.pingMillis }

func clampI32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
