package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/protocol"
)

func TestTrackedDataEncodeInitIncludesEveryEntry(t *testing.T) {
	td := NewTrackedData()
	td.Set(0, TrackedByte, uint8(1))
	td.Set(7, TrackedFloat, float32(20.0))
	td.Set(3, TrackedString, "hello")

	w := &protocol.Writer{}
	td.EncodeInit(w)

	r := protocol.NewReader(w.Bytes())
	seen := map[uint8]bool{}
	for {
		idx := r.Byte()
		if idx == 0xFF {
			break
		}
		typ := r.VarInt()
		switch TrackedDataType(typ) {
		case TrackedByte:
			r.U8()
		case TrackedFloat:
			r.F32()
		case TrackedString:
			r.String(0)
		}
		seen[idx] = true
	}
	require.Len(t, seen, 3)
	assert.True(t, seen[0] && seen[7] && seen[3])
}

func TestTrackedDataEncodeUpdateOnlyDirtyEntries(t *testing.T) {
	td := NewTrackedData()
	td.Set(0, TrackedByte, uint8(1))
	td.Set(1, TrackedBoolean, true)

	w := &protocol.Writer{}
	td.EncodeUpdate(w) // drains both entries' initial dirty flags

	// Only re-set index 1; index 0 should be absent from the next update.
	td.Set(1, TrackedBoolean, false)

	uw := &protocol.Writer{}
	changed := td.EncodeUpdate(uw)
	require.True(t, changed)

	r := protocol.NewReader(uw.Bytes())
	idx := r.Byte()
	assert.Equal(t, uint8(1), idx)
	typ := r.VarInt()
	assert.Equal(t, int32(TrackedBoolean), typ)
	assert.False(t, r.Bool())
	assert.Equal(t, byte(0xFF), r.Byte())
}

func TestTrackedDataEncodeUpdateFalseWhenNothingDirty(t *testing.T) {
	td := NewTrackedData()
	td.Set(0, TrackedByte, uint8(5))

	w := &protocol.Writer{}
	changed := td.EncodeUpdate(w)
	require.True(t, changed) // first Set always dirties

	w2 := &protocol.Writer{}
	changed2 := td.EncodeUpdate(w2)
	assert.False(t, changed2)
	assert.Equal(t, 0, w2.Len())
}

func TestTrackedDataSetSameValueDoesNotRedirty(t *testing.T) {
	td := NewTrackedData()
	td.Set(0, TrackedByte, uint8(9))
	w := &protocol.Writer{}
	td.EncodeUpdate(w) // drains the initial dirty flag

	td.Set(0, TrackedByte, uint8(9)) // same value again
	w2 := &protocol.Writer{}
	changed := td.EncodeUpdate(w2)
	assert.False(t, changed)
}
