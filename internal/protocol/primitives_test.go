package protocol

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/kestrel/internal/vec"
)

func TestWriterReaderPrimitiveRoundTrip(t *testing.T) {
	w := &Writer{}
	w.Bool(true)
	w.I8(-12)
	w.U8(250)
	w.I16(-1000)
	w.U16(60000)
	w.I32(-70000)
	w.U32(4000000000)
	w.I64(-9000000000)
	w.VarInt(300)
	w.VarLong(70000)
	w.F32(1.5)
	w.F64(-2.25)
	w.String("hello", 0)
	id := uuid.New()
	w.UUID(id)
	w.ByteSlice([]byte{1, 2, 3})
	w.Angle(90)
	w.BlockPos(vec.BlockPos{X: -5, Y: 63, Z: 128})

	r := &Reader{buf: w.Bytes()}
	assert.Equal(t, true, r.Bool())
	assert.Equal(t, int8(-12), r.I8())
	assert.Equal(t, uint8(250), r.U8())
	assert.Equal(t, int16(-1000), r.I16())
	assert.Equal(t, uint16(60000), r.U16())
	assert.Equal(t, int32(-70000), r.I32())
	assert.Equal(t, uint32(4000000000), r.U32())
	assert.Equal(t, int64(-9000000000), r.I64())
	assert.Equal(t, int32(300), r.VarInt())
	assert.Equal(t, int64(70000), r.VarLong())
	assert.InDelta(t, float32(1.5), r.F32(), 0.0001)
	assert.InDelta(t, float64(-2.25), r.F64(), 0.0001)
	assert.Equal(t, "hello", r.String(0))
	assert.Equal(t, id, r.UUID())
	assert.Equal(t, []byte{1, 2, 3}, r.ByteSlice(3))
	assert.InDelta(t, float32(90), r.Angle(), 1.5)
	assert.Equal(t, vec.BlockPos{X: -5, Y: 63, Z: 128}, r.BlockPos())
}

// Bounded string rejection: a declared string
// length over the configured character cap is a fatal decode error, not a
// truncation.
func TestReaderStringRejectsOverLongDeclaredLength(t *testing.T) {
	w := &Writer{}
	w.String("this string is definitely too long for a tiny cap", 0)

	r := &Reader{buf: w.Bytes()}
	var decErr *DecodeError
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				var ok bool
				decErr, ok = rec.(*DecodeError)
				require.True(t, ok, "expected *DecodeError panic, got %v", rec)
			}
		}()
		r.String(4)
	}()
	require.NotNil(t, decErr)
}

func TestReaderBoolRejectsNonBinaryByte(t *testing.T) {
	r := &Reader{buf: []byte{7}}
	assert.Panics(t, func() { r.Bool() })
}

func TestWriterRejectsNonFiniteFloats(t *testing.T) {
	w := &Writer{}
	assert.Panics(t, func() { w.F64(nan()) })
}

func nan() float64 {
	var zero float64
	return zero / zero
}
