// Package chacha20 implements the RFC 8439 ChaCha20 stream cipher.
//
// A Cipher is bound to one (key, nonce) pair and produces the keystream for
// at most 2^32 - 1 blocks. Crossing that limit would wrap the 32-bit block
// counter and reuse keystream, so it is rejected as misuse and the cipher
// becomes unusable. The kernel never generates nonces; key and nonce
// ownership belongs to the caller.
package chacha20

import (
	"encoding/binary"
	"math/bits"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

const (
	// KeySize is the ChaCha20 key length in bytes.
	KeySize = 32
	// NonceSize is the ChaCha20 nonce length in bytes.
	NonceSize = 12
	// BlockSize is the keystream block length in bytes.
	BlockSize = 64
)

// "expand 32-byte k", the fixed first row of the state.
var sigma = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// Cipher generates the ChaCha20 keystream for one (key, nonce) pair.
// Not safe for concurrent use; one Cipher per stream.
type Cipher struct {
	key       [8]uint32
	nonce     [3]uint32
	counter   uint64 // runs past 32 bits only to detect overflow
	buf       [BlockSize]byte
	remaining int // unconsumed keystream bytes at the tail of buf
	failed    bool
}

// NewCipher returns a cipher for the given key and nonce with the block
// counter starting at 0.
func NewCipher(key [KeySize]byte, nonce [NonceSize]byte) *Cipher {
	return NewCipherWithCounter(key, nonce, 0)
}

// NewCipherWithCounter starts the block counter at a caller-chosen value,
// as required by the RFC 8439 AEAD construction (counter 0 keys Poly1305,
// encryption starts at counter 1).
func NewCipherWithCounter(key [KeySize]byte, nonce [NonceSize]byte, counter uint32) *Cipher {
	c := &Cipher{counter: uint64(counter)}
	for i := 0; i < 8; i++ {
		c.key[i] = binary.LittleEndian.Uint32(key[i*4:])
	}
	for i := 0; i < 3; i++ {
		c.nonce[i] = binary.LittleEndian.Uint32(nonce[i*4:])
	}
	return c
}

// XORKeyStream XORs src with the keystream into dst. dst must be at least
// as long as src; dst and src may overlap exactly. Returns ErrMisuse if the
// stream would exceed 2^32 - 1 blocks, after which the cipher refuses all
// further use.
func (c *Cipher) XORKeyStream(dst, src []byte) error {
	const op = "chacha20.XORKeyStream"
	if c.failed {
		return avcrypto.E(op, avcrypto.ErrMisuse, "cipher exhausted by earlier counter overflow")
	}
	if len(dst) < len(src) {
		return avcrypto.E(op, avcrypto.ErrEncoding, "dst shorter than src")
	}

	for len(src) > 0 {
		if c.remaining == 0 {
			if c.counter > 0xFFFFFFFF {
				c.failed = true
				return avcrypto.E(op, avcrypto.ErrMisuse, "block counter overflow: rekey or change nonce")
			}
			c.block(uint32(c.counter), &c.buf)
			c.counter++
			c.remaining = BlockSize
		}
		off := BlockSize - c.remaining
		n := c.remaining
		if n > len(src) {
			n = len(src)
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ c.buf[off+i]
		}
		c.remaining -= n
		dst = dst[n:]
		src = src[n:]
	}
	return nil
}

// KeyStreamBlock writes the raw 64-byte keystream block for the given
// counter value. Used by the AEAD construction to derive the Poly1305 key
// from block 0 without disturbing a streaming cipher's position.
func KeyStreamBlock(key [KeySize]byte, nonce [NonceSize]byte, counter uint32) [BlockSize]byte {
	c := NewCipherWithCounter(key, nonce, counter)
	var out [BlockSize]byte
	c.block(counter, &out)
	return out
}

// block computes one 64-byte keystream block: 10 double-rounds over the
// 4x4 word state, then the feed-forward addition of the initial state.
func (c *Cipher) block(counter uint32, out *[BlockSize]byte) {
	init := [16]uint32{
		sigma[0], sigma[1], sigma[2], sigma[3],
		c.key[0], c.key[1], c.key[2], c.key[3],
		c.key[4], c.key[5], c.key[6], c.key[7],
		counter, c.nonce[0], c.nonce[1], c.nonce[2],
	}
	s := init

	for i := 0; i < 10; i++ {
		// column round
		quarterRound(&s, 0, 4, 8, 12)
		quarterRound(&s, 1, 5, 9, 13)
		quarterRound(&s, 2, 6, 10, 14)
		quarterRound(&s, 3, 7, 11, 15)
		// diagonal round
		quarterRound(&s, 0, 5, 10, 15)
		quarterRound(&s, 1, 6, 11, 12)
		quarterRound(&s, 2, 7, 8, 13)
		quarterRound(&s, 3, 4, 9, 14)
	}

	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], s[i]+init[i])
	}
}

func quarterRound(s *[16]uint32, a, b, c, d int) {
	s[a] += s[b]
	s[d] = bits.RotateLeft32(s[d]^s[a], 16)
	s[c] += s[d]
	s[b] = bits.RotateLeft32(s[b]^s[c], 12)
	s[a] += s[b]
	s[d] = bits.RotateLeft32(s[d]^s[a], 8)
	s[c] += s[d]
	s[b] = bits.RotateLeft32(s[b]^s[c], 7)
}
