// Package avcrypto is the root of the Avila cryptographic primitives kernel.
//
// The kernel is a self-contained implementation of the primitives the Avila
// platform builds on: fixed-width modular arithmetic, secp256k1 point
// arithmetic and ECDSA, a hash family (SHA-256, Keccak-256, BLAKE3), and the
// ChaCha20-Poly1305 AEAD stack. No external library touches secret data
// inside the kernel; the test suite cross-verifies every primitive against
// independent implementations instead.
//
// This package holds the pieces shared by every subpackage: the error
// taxonomy and the secret-memory helpers. The primitives themselves live in
// the subpackages (bigint, curve, ecdsa, sha256, keccak, blake3, hmac,
// chacha20, poly1305, chacha20poly1305).
//
// # Error Taxonomy
//
// Every failure mode maps onto one of four sentinels, so callers can classify
// errors with errors.Is regardless of which subpackage produced them:
//
//   - ErrDomain: the operation is mathematically undefined for the input
//     (inverse of zero, point off the curve, signature component out of range)
//   - ErrAuthentication: an AEAD tag mismatch; no plaintext is available
//   - ErrEncoding: malformed or wrong-length fixed-width input
//   - ErrMisuse: an API contract violation (update after finalize, counter
//     overflow, nonce out of range)
//
// All failures are terminal for the call. Recovery, such as drawing a fresh
// nonce, is the caller's responsibility.
//
// # Security Considerations
//
//   - Scalar multiplication, modular exponentiation, and tag comparison run
//     in constant time with respect to secret inputs. Branching on secrets is
//     rewritten as masked conditional select throughout.
//   - The kernel never generates randomness. Keys and nonces come from the
//     caller, who must source them from a CSPRNG.
//   - Error messages never include key or nonce material.
//   - Hash and cipher contexts are single-owner objects. Use one context per
//     concurrent stream; the kernel provides no internal locking.
package avcrypto
