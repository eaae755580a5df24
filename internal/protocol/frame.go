package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// MaxFrameLen is the hard cap on a frame's declared length prefix: 2 MiB.
const MaxFrameLen = 2 * 1024 * 1024

// MaxUncompressedLen is the hard cap on a compressed frame's claimed
// uncompressed length: 8 MiB. Exceeding it, or
// decompressing to a different length than claimed, is a compression-bomb
// style fatal error.
const MaxUncompressedLen = 8 * 1024 * 1024

// CompressionDisabled marks a connection as never framing with a
// compression sub-length, matching config `compression_threshold = None`.
const CompressionDisabled = -1

// Decoder turns a byte stream into `(id, body)` packet frames. It owns a
// growable ring-like buffer: Feed appends newly read bytes, and Next
// repeatedly extracts complete frames, leaving a partial trailing frame in
// the buffer for the next Feed. The returned body aliases an internal
// buffer and is only valid until the next call to Next or Feed.
type Decoder struct {
	buf       []byte
	maxBuf    int
	threshold int // -1 if compression disabled
}

// NewDecoder creates a Decoder with the given max buffer size and
// compression threshold (CompressionDisabled to disable).
func NewDecoder(maxBuf, threshold int) *Decoder {
	return &Decoder{maxBuf: maxBuf, threshold: threshold}
}

// SetThreshold updates the compression threshold, e.g. after a
// SetCompression packet is processed mid-handshake.
func (d *Decoder) SetThreshold(threshold int) { d.threshold = threshold }

// Feed appends freshly read bytes (already decrypted, if encryption is
// active) to the decode buffer. Exceeding maxBuf is fatal.
func (d *Decoder) Feed(data []byte) error {
	if len(d.buf)+len(data) > d.maxBuf {
		return fmt.Errorf("protocol: decoder buffer would exceed max %d bytes", d.maxBuf)
	}
	d.buf = append(d.buf, data...)
	return nil
}

// Next attempts to extract one complete packet frame from the buffer. It
// returns ok=false (with a nil error) if the buffer holds an incomplete
// frame — the caller should Feed more bytes and retry. A non-nil error is
// always fatal for the connection.
func (d *Decoder) Next() (id int32, body []byte, ok bool, err error) {
	frameLen, headerLen, err := DecodeVarInt(d.buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, nil, false, nil
		}
		return 0, nil, false, err
	}
	if frameLen < 0 || int(frameLen) > MaxFrameLen {
		return 0, nil, false, fmt.Errorf("protocol: frame length %d exceeds max %d", frameLen, MaxFrameLen)
	}
	total := headerLen + int(frameLen)
	if len(d.buf) < total {
		return 0, nil, false, nil
	}
	frame := d.buf[headerLen:total]

	payload := frame
	if d.threshold != CompressionDisabled {
		dataLen, n, err := DecodeVarInt(frame)
		if err != nil {
			return 0, nil, false, fmt.Errorf("protocol: malformed compression sub-length: %w", err)
		}
		rest := frame[n:]
		if dataLen == 0 {
			payload = rest
		} else {
			if int(dataLen) < d.threshold {
				return 0, nil, false, fmt.Errorf("protocol: compressed frame below threshold (%d < %d)", dataLen, d.threshold)
			}
			if dataLen < 0 || int(dataLen) > MaxUncompressedLen {
				return 0, nil, false, fmt.Errorf("protocol: uncompressed length %d exceeds max %d", dataLen, MaxUncompressedLen)
			}
			zr, err := zlib.NewReader(bytes.NewReader(rest))
			if err != nil {
				return 0, nil, false, fmt.Errorf("protocol: zlib open: %w", err)
			}
			defer zr.Close()
			out := make([]byte, dataLen)
			if _, err := io.ReadFull(zr, out); err != nil {
				return 0, nil, false, fmt.Errorf("protocol: zlib decompress: %w", err)
			}
			payload = out
		}
	}

	pktID, n, err := DecodeVarInt(payload)
	if err != nil {
		return 0, nil, false, fmt.Errorf("protocol: malformed packet id: %w", err)
	}

	d.buf = append([]byte(nil), d.buf[total:]...)
	return pktID, payload[n:], true, nil
}

// Encoder serializes one packet at a time into the wire framing described in
// `id, body` optionally compressed, always length-prefixed.
type Encoder struct {
	threshold int // -1 if compression disabled
}

// NewEncoder creates an Encoder with the given compression threshold.
func NewEncoder(threshold int) *Encoder { return &Encoder{threshold: threshold} }

// SetThreshold updates the compression threshold.
func (e *Encoder) SetThreshold(threshold int) { e.threshold = threshold }

// EncodePacket frames a single packet `(id, body)` ready to write to the
// socket (before any stream encryption is applied).
func (e *Encoder) EncodePacket(id int32, body []byte) []byte {
	inner := PutVarInt(nil, id)
	inner = append(inner, body...)
	return e.EncodeFrame(inner)
}

// EncodeFrame applies compression and length-prefix framing to an
// already id-prefixed packet buffer (the shape EncodeWithID produces).
// LayerMessages store exactly this shape so replayed messages can be
// framed per-connection at Egress without re-deriving the packet id.
func (e *Encoder) EncodeFrame(inner []byte) []byte {
	var frame []byte
	if e.threshold == CompressionDisabled {
		frame = inner
	} else if len(inner) < e.threshold {
		frame = PutVarInt(nil, 0)
		frame = append(frame, inner...)
	} else {
		var zbuf bytes.Buffer
		zw := zlib.NewWriter(&zbuf)
		_, _ = zw.Write(inner)
		_ = zw.Close()
		frame = PutVarInt(nil, int32(len(inner)))
		frame = append(frame, zbuf.Bytes()...)
	}

	out := PutVarInt(nil, int32(len(frame)))
	return append(out, frame...)
}
