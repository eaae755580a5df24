package protocol

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// StreamCipher wraps the AES-128-CFB8 byte-stream cipher the login
// frame 4 requires once a connection negotiates encryption. Encryption is
// applied to the raw byte stream after compression framing, independently
// in each direction, so a connection owns one StreamCipher per direction.
type StreamCipher struct {
	stream cipher.Stream
}

// NewStreamCipher builds one direction of an AES-128-CFB8 stream using the
// shared secret as both key and IV, matching the Minecraft protocol's use of
// the negotiated secret for both purposes.
func NewStreamCipher(sharedSecret []byte, encrypt bool) (*StreamCipher, error) {
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("protocol: aes key: %w", err)
	}
	var stream cipher.Stream
	if encrypt {
		stream = newCFB8Encrypter(block, sharedSecret)
	} else {
		stream = newCFB8Decrypter(block, sharedSecret)
	}
	return &StreamCipher{stream: stream}, nil
}

// XORKeyStream transforms src into dst in place (dst and src may overlap in
// the same way crypto/cipher.Stream.XORKeyStream allows).
func (c *StreamCipher) XORKeyStream(dst, src []byte) { c.stream.XORKeyStream(dst, src) }

// cfb8 implements CFB with an 8-bit (single byte) feedback segment size.
// The standard library's crypto/cipher only provides full-block-width CFB,
// so the Minecraft-specific 8-bit variant is hand-rolled here.
type cfb8 struct {
	block     cipher.Block
	shift     []byte
	encrypt   bool
	blockSize int
}

func newCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

func newCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

func newCFB8(block cipher.Block, iv []byte, encrypt bool) cipher.Stream {
	bs := block.BlockSize()
	shift := make([]byte, bs)
	copy(shift, iv)
	return &cfb8{block: block, shift: shift, encrypt: encrypt, blockSize: bs}
}

func (x *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, x.blockSize)
	for i := range src {
		x.block.Encrypt(tmp, x.shift)
		var out byte
		if x.encrypt {
			out = src[i] ^ tmp[0]
			dst[i] = out
		} else {
			out = src[i]
			dst[i] = out ^ tmp[0]
		}
		// Shift the feedback register left by one byte, inserting the
		// ciphertext byte (not the plaintext) at the end.
		copy(x.shift, x.shift[1:])
		x.shift[x.blockSize-1] = out
	}
}
