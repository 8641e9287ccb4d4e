package bigint

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

// Reduce returns x mod m. m must be nonzero.
//
// Binary shift-and-subtract over all 512 bits: every iteration shifts the
// remainder left by one, brings in the next bit, and applies a mask-selected
// subtraction of m. The iteration count and memory access pattern are fixed,
// so the reduction is constant-time in the value of x.
func (x U512) Reduce(m U256) U256 {
	var rem U256
	for i := 511; i >= 0; i-- {
		shifted, top := rem.Shl1()
		shifted[0] |= (x[i/64] >> (uint(i) % 64)) & 1
		diff, borrow := shifted.Sub(m)
		// Subtract when the shift carried out of bit 255 or shifted >= m.
		mask := -(top | (borrow ^ 1))
		rem = CondSelect(mask, diff, shifted)
	}
	return rem
}

// Mod returns x mod m for a single-width x. m must be nonzero.
func (x U256) Mod(m U256) U256 {
	wide := U512{x[0], x[1], x[2], x[3]}
	return wide.Reduce(m)
}

// AddMod returns (x + y) mod m. Both operands must already be reduced mod m.
// Constant-time.
func AddMod(x, y, m U256) U256 {
	sum, carry := x.Add(y)
	diff, borrow := sum.Sub(m)
	mask := -(carry | (borrow ^ 1))
	return CondSelect(mask, diff, sum)
}

// SubMod returns (x - y) mod m. Both operands must already be reduced mod m.
// Constant-time.
func SubMod(x, y, m U256) U256 {
	diff, borrow := x.Sub(y)
	corrected, _ := diff.Add(m)
	mask := -borrow
	return CondSelect(mask, corrected, diff)
}

// MulMod returns (x * y) mod m via a full double-width product followed by
// constant-time reduction.
func MulMod(x, y, m U256) U256 {
	return x.Mul(y).Reduce(m)
}

// PowMod returns base^exp mod m. m must be nonzero.
//
// Square-and-multiply scanning all 256 exponent bits from the top. Every
// iteration performs the same squaring and multiplication; the exponent bit
// only steers a constant-time select of the result, so the execution trace
// is independent of exp and base. Safe for secret exponents.
func PowMod(base, exp, m U256) U256 {
	result := One().Mod(m)
	b := base.Mod(m)
	for i := 255; i >= 0; i-- {
		result = MulMod(result, result, m)
		multiplied := MulMod(result, b, m)
		mask := -exp.Bit(uint(i))
		result = CondSelect(mask, multiplied, result)
	}
	return result
}

// InvMod returns a^-1 mod m for prime m, computed as a^(m-2) mod m so the
// secret-scalar path stays constant-time. Returns ErrDomain when a is zero
// mod m (zero has no inverse). Correctness requires m prime; for composite
// moduli the result is unspecified.
func InvMod(a, m U256) (U256, error) {
	reduced := a.Mod(m)
	if reduced.IsZero() {
		return U256{}, avcrypto.E("bigint.InvMod", avcrypto.ErrDomain, "element is not invertible")
	}
	exp, _ := m.Sub(FromUint64(2))
	return PowMod(reduced, exp, m), nil
}

// GCD returns the greatest common divisor of a and b using binary GCD
// (Stein's algorithm): halve even operands, subtract the smaller odd value
// from the larger, and collect shared factors of two.
//
// Variable-time. Only use on public, non-secret inputs.
func GCD(a, b U256) U256 {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}

	shift := 0
	for a.IsEven() && b.IsEven() {
		a = a.Shr1()
		b = b.Shr1()
		shift++
	}
	for a.IsEven() {
		a = a.Shr1()
	}
	for {
		for b.IsEven() {
			b = b.Shr1()
		}
		if a.Cmp(b) > 0 {
			a, b = b, a
		}
		b, _ = b.Sub(a)
		if b.IsZero() {
			break
		}
	}
	for i := 0; i < shift; i++ {
		a, _ = a.Shl1()
	}
	return a
}
