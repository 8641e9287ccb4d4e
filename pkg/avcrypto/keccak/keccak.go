// Package keccak implements the Keccak-f[1600] sponge and the 256-bit
// digests built on it.
//
// Two variants share the construction and differ only in the padding domain
// byte: Keccak-256 (0x01, the pre-standardization variant used by Ethereum)
// and SHA3-256 (0x06, FIPS 202). New returns Keccak-256; NewSHA3 returns
// the standardized variant.
//
// Digest follows the same single-owner lifecycle as the rest of the hash
// family: Update zero or more times, Finalize exactly once.
package keccak

import (
	"math/bits"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

const (
	// Size is the digest length in bytes.
	Size = 32
	// rate is the absorption block size for 256-bit output: 1600/8 - 2*32.
	rate = 136

	domainKeccak = 0x01
	domainSHA3   = 0x06
)

// iota step round constants for the 24 rounds of Keccak-f[1600].
var roundConstants = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rho step rotation offsets, indexed by lane x + 5y.
var rotationOffsets = [25]int{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// Digest is a streaming Keccak-256 or SHA3-256 computation.
type Digest struct {
	state     [25]uint64 // 5x5 lanes, indexed x + 5y
	buf       [rate]byte
	n         int
	domain    byte
	finalized bool
}

// New returns a Keccak-256 digest (0x01 domain padding).
func New() *Digest {
	return &Digest{domain: domainKeccak}
}

// NewSHA3 returns a SHA3-256 digest (0x06 domain padding).
func NewSHA3() *Digest {
	return &Digest{domain: domainSHA3}
}

// Update absorbs p into the sponge. Returns ErrMisuse once finalized.
func (d *Digest) Update(p []byte) error {
	if d.finalized {
		return avcrypto.E("keccak.Update", avcrypto.ErrMisuse, "digest already finalized")
	}
	for len(p) > 0 {
		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n == rate {
			d.absorb()
		}
	}
	return nil
}

// Finalize applies multi-rate padding, squeezes 32 bytes, and consumes the
// state. A second Finalize is ErrMisuse.
func (d *Digest) Finalize() ([Size]byte, error) {
	if d.finalized {
		return [Size]byte{}, avcrypto.E("keccak.Finalize", avcrypto.ErrMisuse, "digest already finalized")
	}
	d.finalized = true

	// pad10*1 with the domain byte carrying the first padding bit.
	for i := d.n; i < rate; i++ {
		d.buf[i] = 0
	}
	d.buf[d.n] = d.domain
	d.buf[rate-1] |= 0x80
	d.n = rate
	d.absorb()

	var out [Size]byte
	for i := 0; i < 4; i++ {
		lane := d.state[i]
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(lane >> (8 * j))
		}
	}
	return out, nil
}

// Sum256 returns the Keccak-256 digest of data.
func Sum256(data []byte) [Size]byte {
	d := New()
	_ = d.Update(data)
	out, _ := d.Finalize()
	return out
}

// SHA3Sum256 returns the SHA3-256 digest of data.
func SHA3Sum256(data []byte) [Size]byte {
	d := NewSHA3()
	_ = d.Update(data)
	out, _ := d.Finalize()
	return out
}

// absorb XORs the rate-sized buffer into the state and permutes.
func (d *Digest) absorb() {
	for i := 0; i < rate/8; i++ {
		var lane uint64
		for j := 7; j >= 0; j-- {
			lane = lane<<8 | uint64(d.buf[i*8+j])
		}
		d.state[i] ^= lane
	}
	d.n = 0
	keccakF1600(&d.state)
}

// keccakF1600 applies the 24-round permutation: theta, rho, pi, chi, iota.
func keccakF1600(a *[25]uint64) {
	for round := 0; round < 24; round++ {
		// theta
		var c [5]uint64
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d := c[(x+4)%5] ^ bits.RotateLeft64(c[(x+1)%5], 1)
			for y := 0; y < 5; y++ {
				a[x+5*y] ^= d
			}
		}

		// rho and pi
		var b [25]uint64
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				b[y+5*((2*x+3*y)%5)] = bits.RotateLeft64(a[x+5*y], rotationOffsets[x+5*y])
			}
		}

		// chi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				a[x+5*y] = b[x+5*y] ^ (^b[(x+1)%5+5*y] & b[(x+2)%5+5*y])
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}
}
