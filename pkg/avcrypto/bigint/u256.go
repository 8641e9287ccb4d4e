package bigint

import (
	"encoding/binary"
	"math/bits"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

// U256 is a 256-bit unsigned integer stored as four 64-bit limbs in
// little-endian limb order: limb 0 holds the least significant 64 bits.
// U256 is a plain value type; all operations return new values.
type U256 [4]uint64

// U512 is the 512-bit result of a full U256 multiplication, little-endian
// limb order.
type U512 [8]uint64

// Zero returns the U256 value 0.
func Zero() U256 { return U256{} }

// One returns the U256 value 1.
func One() U256 { return U256{1, 0, 0, 0} }

// FromUint64 returns v as a U256.
func FromUint64(v uint64) U256 { return U256{v, 0, 0, 0} }

// FromBytesBE decodes a 32-byte big-endian buffer. Any other length is an
// encoding error: the kernel deals only in fixed-width values.
func FromBytesBE(b []byte) (U256, error) {
	if len(b) != 32 {
		return U256{}, avcrypto.E("bigint.FromBytesBE", avcrypto.ErrEncoding, "want 32 bytes, got %d", len(b))
	}
	var x U256
	for i := 0; i < 4; i++ {
		x[3-i] = binary.BigEndian.Uint64(b[i*8 : i*8+8])
	}
	return x, nil
}

// BytesBE returns the 32-byte big-endian encoding of x.
func (x U256) BytesBE() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(out[i*8:i*8+8], x[3-i])
	}
	return out
}

// Add returns x + y and the carry out of the top limb (0 or 1).
// The carry is never dropped; callers decide whether overflow is an error.
func (x U256) Add(y U256) (U256, uint64) {
	var z U256
	var c uint64
	z[0], c = bits.Add64(x[0], y[0], 0)
	z[1], c = bits.Add64(x[1], y[1], c)
	z[2], c = bits.Add64(x[2], y[2], c)
	z[3], c = bits.Add64(x[3], y[3], c)
	return z, c
}

// Sub returns x - y and the borrow out of the top limb (0 or 1).
func (x U256) Sub(y U256) (U256, uint64) {
	var z U256
	var b uint64
	z[0], b = bits.Sub64(x[0], y[0], 0)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[3], b = bits.Sub64(x[3], y[3], b)
	return z, b
}

// Mul returns the full 512-bit product x * y. Schoolbook limb-by-limb with
// every partial product absorbed through a 128-bit accumulator, so no carry
// is ever lost.
func (x U256) Mul(y U256) U512 {
	var z U512
	for i := 0; i < 4; i++ {
		var c uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			var carry uint64
			lo, carry = bits.Add64(lo, z[i+j], 0)
			hi += carry
			lo, carry = bits.Add64(lo, c, 0)
			hi += carry
			z[i+j] = lo
			c = hi
		}
		z[i+4] = c
	}
	return z
}

// Cmp compares x and y lexicographically from the most significant limb.
// Returns -1, 0, or +1. Variable-time: use only on public values.
func (x U256) Cmp(y U256) int {
	for i := 3; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// IsZero reports whether x == 0. Variable-time.
func (x U256) IsZero() bool {
	return x[0]|x[1]|x[2]|x[3] == 0
}

// IsOne reports whether x == 1. Variable-time.
func (x U256) IsOne() bool {
	return x[0] == 1 && x[1]|x[2]|x[3] == 0
}

// IsEven reports whether the low bit of x is clear.
func (x U256) IsEven() bool {
	return x[0]&1 == 0
}

// Bit returns bit i of x (0 or 1). Bits at or above 256 are zero.
func (x U256) Bit(i uint) uint64 {
	if i >= 256 {
		return 0
	}
	return (x[i/64] >> (i % 64)) & 1
}

// Shr1 returns x >> 1.
func (x U256) Shr1() U256 {
	var z U256
	z[0] = x[0]>>1 | x[1]<<63
	z[1] = x[1]>>1 | x[2]<<63
	z[2] = x[2]>>1 | x[3]<<63
	z[3] = x[3] >> 1
	return z
}

// Shl1 returns x << 1 and the bit shifted out of the top.
func (x U256) Shl1() (U256, uint64) {
	var z U256
	out := x[3] >> 63
	z[3] = x[3]<<1 | x[2]>>63
	z[2] = x[2]<<1 | x[1]>>63
	z[1] = x[1]<<1 | x[0]>>63
	z[0] = x[0] << 1
	return z, out
}

// CondSelect returns a when mask is all ones and b when mask is zero.
// mask must be 0 or ^uint64(0); any other value corrupts the result.
// Constant-time.
func CondSelect(mask uint64, a, b U256) U256 {
	var z U256
	z[0] = a[0]&mask | b[0]&^mask
	z[1] = a[1]&mask | b[1]&^mask
	z[2] = a[2]&mask | b[2]&^mask
	z[3] = a[3]&mask | b[3]&^mask
	return z
}

// CondSwap swaps *a and *b when mask is all ones and leaves them unchanged
// when mask is zero. Constant-time.
func CondSwap(mask uint64, a, b *U256) {
	for i := 0; i < 4; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// EqMask returns ^uint64(0) when x == y and 0 otherwise, in constant time.
func EqMask(x, y U256) uint64 {
	d := (x[0] ^ y[0]) | (x[1] ^ y[1]) | (x[2] ^ y[2]) | (x[3] ^ y[3])
	return nonzeroToMaskComplement(d)
}

// nonzeroToMaskComplement returns ^0 when d == 0 and 0 when d != 0.
// d|-d has its top bit set exactly when d is nonzero.
func nonzeroToMaskComplement(d uint64) uint64 {
	return ^uint64(int64(d|-d) >> 63)
}

// ZeroMask returns ^uint64(0) when x == 0 and 0 otherwise, in constant time.
func ZeroMask(x U256) uint64 {
	return nonzeroToMaskComplement(x[0] | x[1] | x[2] | x[3])
}
