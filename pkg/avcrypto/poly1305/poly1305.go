// Package poly1305 implements the Poly1305 one-time authenticator
// (RFC 8439 section 2.5).
//
// The 32-byte key is (r, s): r is clamped and used as the evaluation point
// of the message polynomial modulo 2^130 - 5, s is the final pad. A key
// MUST NOT authenticate more than one message; in the RFC 8439 AEAD the key
// is the first ChaCha20 keystream block under counter 0 and is therefore
// unique per (key, nonce).
//
// The accumulator uses five 26-bit limbs so every limb product fits a
// 64-bit word with room for the carry chain.
package poly1305

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

const (
	// KeySize is the one-time key length in bytes.
	KeySize = 32
	// TagSize is the authenticator length in bytes.
	TagSize = 16

	limbMask = 0x3ffffff
)

// MAC is a streaming Poly1305 computation over a single message.
type MAC struct {
	r         [5]uint32
	h         [5]uint32
	pad       [4]uint32
	buf       [TagSize]byte
	bufLen    int
	finalized bool
}

// New returns a MAC keyed with the one-time key. The r half is clamped per
// the specification.
func New(key [KeySize]byte) *MAC {
	m := &MAC{}

	t0 := binary.LittleEndian.Uint32(key[0:4])
	t1 := binary.LittleEndian.Uint32(key[4:8])
	t2 := binary.LittleEndian.Uint32(key[8:12])
	t3 := binary.LittleEndian.Uint32(key[12:16])

	m.r[0] = t0 & 0x3ffffff
	m.r[1] = (t0>>26 | t1<<6) & 0x3ffff03
	m.r[2] = (t1>>20 | t2<<12) & 0x3ffc0ff
	m.r[3] = (t2>>14 | t3<<18) & 0x3f03fff
	m.r[4] = (t3 >> 8) & 0x00fffff

	for i := 0; i < 4; i++ {
		m.pad[i] = binary.LittleEndian.Uint32(key[16+i*4:])
	}
	return m
}

// Update absorbs p into the accumulator. Returns ErrMisuse once finalized.
func (m *MAC) Update(p []byte) error {
	if m.finalized {
		return avcrypto.E("poly1305.Update", avcrypto.ErrMisuse, "mac already finalized")
	}
	if m.bufLen > 0 {
		c := copy(m.buf[m.bufLen:], p)
		m.bufLen += c
		p = p[c:]
		if m.bufLen == TagSize {
			m.block(m.buf[:], 1<<24)
			m.bufLen = 0
		}
	}
	for len(p) >= TagSize {
		m.block(p[:TagSize], 1<<24)
		p = p[TagSize:]
	}
	if len(p) > 0 {
		m.bufLen = copy(m.buf[:], p)
	}
	return nil
}

// Finalize processes any buffered partial block, reduces the accumulator,
// adds the pad, and returns the 16-byte tag. The state is consumed.
func (m *MAC) Finalize() ([TagSize]byte, error) {
	if m.finalized {
		return [TagSize]byte{}, avcrypto.E("poly1305.Finalize", avcrypto.ErrMisuse, "mac already finalized")
	}
	m.finalized = true

	if m.bufLen > 0 {
		// Final short block: append the 1 bit inside the block instead of
		// at position 2^128.
		var final [TagSize]byte
		copy(final[:], m.buf[:m.bufLen])
		final[m.bufLen] = 1
		m.block(final[:], 0)
	}

	h0, h1, h2, h3, h4 := m.h[0], m.h[1], m.h[2], m.h[3], m.h[4]

	// Fully carry h.
	c := h1 >> 26
	h1 &= limbMask
	h2 += c
	c = h2 >> 26
	h2 &= limbMask
	h3 += c
	c = h3 >> 26
	h3 &= limbMask
	h4 += c
	c = h4 >> 26
	h4 &= limbMask
	h0 += c * 5
	c = h0 >> 26
	h0 &= limbMask
	h1 += c

	// g = h - (2^130 - 5); select g when non-negative, in constant time.
	g0 := h0 + 5
	c = g0 >> 26
	g0 &= limbMask
	g1 := h1 + c
	c = g1 >> 26
	g1 &= limbMask
	g2 := h2 + c
	c = g2 >> 26
	g2 &= limbMask
	g3 := h3 + c
	c = g3 >> 26
	g3 &= limbMask
	g4 := h4 + c - (1 << 26)

	sel := (g4 >> 31) - 1 // all ones when h >= 2^130 - 5
	h0 = h0&^sel | g0&sel
	h1 = h1&^sel | g1&sel
	h2 = h2&^sel | g2&sel
	h3 = h3&^sel | g3&sel
	h4 = h4&^sel | g4&sel

	// Serialize to 128 bits and add the pad s mod 2^128.
	t0 := h0 | h1<<26
	t1 := h1>>6 | h2<<20
	t2 := h2>>12 | h3<<14
	t3 := h3>>18 | h4<<8

	var tag [TagSize]byte
	f := uint64(t0) + uint64(m.pad[0])
	binary.LittleEndian.PutUint32(tag[0:], uint32(f))
	f = uint64(t1) + uint64(m.pad[1]) + f>>32
	binary.LittleEndian.PutUint32(tag[4:], uint32(f))
	f = uint64(t2) + uint64(m.pad[2]) + f>>32
	binary.LittleEndian.PutUint32(tag[8:], uint32(f))
	f = uint64(t3) + uint64(m.pad[3]) + f>>32
	binary.LittleEndian.PutUint32(tag[12:], uint32(f))

	return tag, nil
}

// Sum computes the one-shot Poly1305 tag for msg under key.
func Sum(key [KeySize]byte, msg []byte) [TagSize]byte {
	m := New(key)
	_ = m.Update(msg)
	tag, _ := m.Finalize()
	return tag
}

// Verify reports whether tag authenticates msg under key. The comparison is
// constant-time.
func Verify(key [KeySize]byte, msg, tag []byte) bool {
	expected := Sum(key, msg)
	return subtle.ConstantTimeCompare(expected[:], tag) == 1
}

// block absorbs one 16-byte block. hibit is 1<<24 for full blocks (the
// 2^128 padding bit) and 0 for the already-padded final short block.
func (m *MAC) block(p []byte, hibit uint32) {
	t0 := binary.LittleEndian.Uint32(p[0:4])
	t1 := binary.LittleEndian.Uint32(p[4:8])
	t2 := binary.LittleEndian.Uint32(p[8:12])
	t3 := binary.LittleEndian.Uint32(p[12:16])

	h0 := uint64(m.h[0] + t0&limbMask)
	h1 := uint64(m.h[1] + (t0>>26|t1<<6)&limbMask)
	h2 := uint64(m.h[2] + (t1>>20|t2<<12)&limbMask)
	h3 := uint64(m.h[3] + (t2>>14|t3<<18)&limbMask)
	h4 := uint64(m.h[4] + (t3>>8 | hibit))

	r0 := uint64(m.r[0])
	r1 := uint64(m.r[1])
	r2 := uint64(m.r[2])
	r3 := uint64(m.r[3])
	r4 := uint64(m.r[4])

	// h *= r mod 2^130 - 5. The 5*r terms fold the limbs above 2^130 back
	// in, since 2^130 = 5 (mod 2^130 - 5).
	d0 := h0*r0 + h1*(5*r4) + h2*(5*r3) + h3*(5*r2) + h4*(5*r1)
	d1 := h0*r1 + h1*r0 + h2*(5*r4) + h3*(5*r3) + h4*(5*r2)
	d2 := h0*r2 + h1*r1 + h2*r0 + h3*(5*r4) + h4*(5*r3)
	d3 := h0*r3 + h1*r2 + h2*r1 + h3*r0 + h4*(5*r4)
	d4 := h0*r4 + h1*r3 + h2*r2 + h3*r1 + h4*r0

	c := d0 >> 26
	m.h[0] = uint32(d0) & limbMask
	d1 += c
	c = d1 >> 26
	m.h[1] = uint32(d1) & limbMask
	d2 += c
	c = d2 >> 26
	m.h[2] = uint32(d2) & limbMask
	d3 += c
	c = d3 >> 26
	m.h[3] = uint32(d3) & limbMask
	d4 += c
	c = d4 >> 26
	m.h[4] = uint32(d4) & limbMask
	m.h[0] += uint32(c) * 5
	carry := m.h[0] >> 26
	m.h[0] &= limbMask
	m.h[1] += carry
}
