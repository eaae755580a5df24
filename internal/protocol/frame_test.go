package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOneFrame(t *testing.T, frames []byte, threshold int) (int32, []byte) {
	t.Helper()
	dec := NewDecoder(1<<20, threshold)
	require.NoError(t, dec.Feed(frames))
	id, body, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	return id, body
}

func TestEncodeDecodeRoundTripUncompressed(t *testing.T) {
	enc := NewEncoder(CompressionDisabled)
	frame := enc.EncodePacket(42, []byte("hello world"))

	id, body := decodeOneFrame(t, frame, CompressionDisabled)
	assert.Equal(t, int32(42), id)
	assert.Equal(t, []byte("hello world"), body)
}

// Compression threshold: bodies below the
// threshold are sent uncompressed (zero sub-length), bodies at or above it
// are zlib compressed, and both round-trip identically through Decoder.
func TestCompressionThresholdBoundary(t *testing.T) {
	threshold := 64
	small := make([]byte, 4) // well under threshold once the id varint is added
	large := make([]byte, 256)
	for i := range large {
		large[i] = byte(i)
	}

	enc := NewEncoder(threshold)

	smallFrame := enc.EncodePacket(1, small)
	id, body := decodeOneFrame(t, smallFrame, threshold)
	assert.Equal(t, int32(1), id)
	assert.Equal(t, small, body)

	largeFrame := enc.EncodePacket(2, large)
	id, body = decodeOneFrame(t, largeFrame, threshold)
	assert.Equal(t, int32(2), id)
	assert.Equal(t, large, body)

	assert.Less(t, len(smallFrame), len(largeFrame))
}

func TestDecoderReturnsNotOkOnPartialFrame(t *testing.T) {
	enc := NewEncoder(CompressionDisabled)
	full := enc.EncodePacket(7, []byte("partial body test"))

	dec := NewDecoder(1<<20, CompressionDisabled)
	require.NoError(t, dec.Feed(full[:len(full)-3]))
	_, _, ok, err := dec.Next()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, dec.Feed(full[len(full)-3:]))
	id, body, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(7), id)
	assert.Equal(t, []byte("partial body test"), body)
}

func TestDecoderRejectsOversizedFrame(t *testing.T) {
	dec := NewDecoder(1<<20, CompressionDisabled)
	oversized := PutVarInt(nil, int32(MaxFrameLen+1))
	require.NoError(t, dec.Feed(oversized))
	_, _, _, err := dec.Next()
	assert.Error(t, err)
}

func TestFeedRejectsExceedingMaxBuf(t *testing.T) {
	dec := NewDecoder(4, CompressionDisabled)
	err := dec.Feed([]byte{1, 2, 3, 4, 5})
	assert.Error(t, err)
}
