// Package sha256 implements the FIPS 180-4 SHA-256 hash function.
//
// Digest is a single-owner state machine: create it with New, feed it with
// Update, and consume it exactly once with Finalize. Updating or finalizing
// a consumed digest is a checked misuse error, not undefined behavior.
// For one-shot hashing use Sum256.
package sha256

import (
	"encoding/binary"
	"math/bits"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

const (
	// Size is the digest length in bytes.
	Size = 32
	// BlockSize is the compression function block length in bytes.
	BlockSize = 64
)

// FIPS 180-4 section 4.2.2 round constants.
var roundK = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Digest is a streaming SHA-256 computation.
type Digest struct {
	h         [8]uint32
	buf       [BlockSize]byte
	n         int    // bytes buffered in buf
	length    uint64 // total message bytes absorbed
	finalized bool
}

// New returns a fresh SHA-256 digest in the active state.
func New() *Digest {
	d := &Digest{}
	d.h = [8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}
	return d
}

// Update absorbs p into the digest. Returns ErrMisuse once the digest has
// been finalized.
func (d *Digest) Update(p []byte) error {
	if d.finalized {
		return avcrypto.E("sha256.Update", avcrypto.ErrMisuse, "digest already finalized")
	}
	d.length += uint64(len(p))

	if d.n > 0 {
		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n == BlockSize {
			block(&d.h, d.buf[:])
			d.n = 0
		}
	}
	for len(p) >= BlockSize {
		block(&d.h, p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.n = copy(d.buf[:], p)
	}
	return nil
}

// Finalize pads the remaining input, emits the 32-byte digest, and consumes
// the state. A second Finalize is ErrMisuse.
func (d *Digest) Finalize() ([Size]byte, error) {
	if d.finalized {
		return [Size]byte{}, avcrypto.E("sha256.Finalize", avcrypto.ErrMisuse, "digest already finalized")
	}
	d.finalized = true

	// One 1-bit, zero padding, then the 64-bit big-endian bit length.
	var pad [BlockSize * 2]byte
	pad[0] = 0x80
	padLen := 56 - d.n
	if padLen <= 0 {
		padLen += BlockSize
	}
	binary.BigEndian.PutUint64(pad[padLen:], d.length*8)

	tail := append(d.buf[:d.n:d.n], pad[:padLen+8]...)
	for len(tail) > 0 {
		block(&d.h, tail[:BlockSize])
		tail = tail[BlockSize:]
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out, nil
}

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [Size]byte {
	d := New()
	_ = d.Update(data)
	out, _ := d.Finalize()
	return out
}

// block runs the 64-round compression function over one 64-byte block.
func block(h *[8]uint32, p []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, dd, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for i := 0; i < 64; i++ {
		s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		t1 := hh + s1 + ch + roundK[i] + w[i]
		s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		hh = g
		g = f
		f = e
		e = dd + t1
		dd = c
		c = b
		b = a
		a = t1 + t2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += dd
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
}
