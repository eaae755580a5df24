package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCipherEncryptDecryptRoundTrip(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, 16) // AES-128 key

	enc, err := NewStreamCipher(secret, true)
	require.NoError(t, err)
	dec, err := NewStreamCipher(secret, false)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog, 1234567890")

	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)
	assert.NotEqual(t, plaintext, ciphertext)

	recovered := make([]byte, len(ciphertext))
	dec.XORKeyStream(recovered, ciphertext)
	assert.Equal(t, plaintext, recovered)
}

func TestStreamCipherStreamsAcrossMultipleWrites(t *testing.T) {
	secret := bytes.Repeat([]byte{0x07}, 16)

	enc, err := NewStreamCipher(secret, true)
	require.NoError(t, err)
	dec, err := NewStreamCipher(secret, false)
	require.NoError(t, err)

	chunks := [][]byte{[]byte("first"), []byte("second-chunk"), []byte("3")}
	var recovered []byte
	for _, c := range chunks {
		ct := make([]byte, len(c))
		enc.XORKeyStream(ct, c)
		pt := make([]byte, len(ct))
		dec.XORKeyStream(pt, ct)
		recovered = append(recovered, pt...)
	}
	assert.Equal(t, []byte("firstsecond-chunk3"), recovered)
}

func TestNewStreamCipherRejectsBadKeyLength(t *testing.T) {
	_, err := NewStreamCipher([]byte{1, 2, 3}, true)
	assert.Error(t, err)
}
