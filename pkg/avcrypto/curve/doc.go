// Package curve implements secp256k1 point arithmetic for the kernel.
//
// Points are exposed in affine form with an explicit point-at-infinity flag.
// Internally the ladder and addition work in Jacobian projective coordinates
// so that only the final conversion back to affine pays for a field
// inversion.
//
// ScalarMul is a Montgomery ladder: it visits every bit of the scalar with
// the same add/double sequence and steers only a constant-time conditional
// swap, so the execution trace does not depend on the scalar value.
//
// Any point entering the kernel from outside must pass ParsePoint or
// IsOnCurve before use; accepting unchecked points enables invalid-curve
// attacks.
package curve
