package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// VarInt boundary round-trips: the encode/decode
// pair must be inverse at the documented edge values, not just typical
// small integers.
func TestVarIntBoundaryRoundTrip(t *testing.T) {
	values := []int32{
		0, 1, -1, 2, 127, 128, 255, 256,
		2147483647, -2147483648, -1000000, 1000000,
	}
	for _, v := range values {
		buf := PutVarInt(nil, v)
		assert.LessOrEqual(t, len(buf), MaxVarIntLen)

		got, n, err := DecodeVarInt(buf)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, v, got, "round-trip mismatch for %d", v)
	}
}

func TestVarIntReadFromByteReader(t *testing.T) {
	buf := PutVarInt(nil, 300)
	got, err := ReadVarInt(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, int32(300), got)
}

func TestDecodeVarIntPartialBufferIsUnexpectedEOF(t *testing.T) {
	full := PutVarInt(nil, 1_000_000)
	require.Greater(t, len(full), 1)
	_, _, err := DecodeVarInt(full[:len(full)-1])
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeVarIntRejectsOverlongEncoding(t *testing.T) {
	// Five continuation bytes all carrying payload overflow int32.
	overlong := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	_, _, err := DecodeVarInt(overlong)
	assert.ErrorIs(t, err, ErrVarIntTooLarge)
}

func TestVarLongBoundaryRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		buf := PutVarLong(nil, v)
		assert.LessOrEqual(t, len(buf), MaxVarLongLen)
		got, err := ReadVarLong(bytes.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}
