// Package ecdsa implements ECDSA over secp256k1.
//
// Every call is stateless: sign takes the message digest, the private scalar,
// and the per-signature nonce k; verify takes the digest, the public point,
// and the signature. Nonce quality is the whole game in ECDSA (a reused or
// predictable k leaks the private key algebraically), so SignDeterministic
// derives k from (sk, digest) via RFC 6979 by default, with the source
// pluggable for callers that have their own derivation.
//
// Low-s normalization is a policy flag, not a default: consuming protocols
// disagree on signature malleability handling, so the caller decides.
package ecdsa

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/curve"
)

// Signature is an ECDSA signature pair. Both components are strictly in
// [1, n-1] for any signature produced or accepted by this package.
type Signature struct {
	R, S bigint.U256
}

type options struct {
	lowS  bool
	nonce NonceSource
}

// Option adjusts signing and verification policy.
type Option func(*options)

// WithLowS enforces the low-s form: signing folds s into [1, n/2], and
// verification rejects signatures with s above n/2.
func WithLowS() Option {
	return func(o *options) { o.lowS = true }
}

// WithNonceSource replaces the RFC 6979 default used by SignDeterministic.
func WithNonceSource(src NonceSource) Option {
	return func(o *options) { o.nonce = src }
}

func applyOptions(opts []Option) options {
	o := options{nonce: RFC6979{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PublicKey returns the public point d*G for the private scalar d.
// Returns ErrDomain unless 1 <= d < n.
func PublicKey(priv bigint.U256) (curve.Point, error) {
	if err := checkScalar("ecdsa.PublicKey", priv); err != nil {
		return curve.Point{}, err
	}
	return curve.ScalarBaseMul(priv), nil
}

// Sign produces a signature over digest using the private scalar priv and
// the caller-supplied nonce k. Both must be in [1, n-1], and k must be
// unique per message. When the candidate k yields r = 0 or s = 0 the call
// fails with ErrDomain and the caller must retry with a fresh nonce; with a
// 256-bit group this is a probability-2^-256 event, not an expected path.
func Sign(priv bigint.U256, digest [32]byte, k bigint.U256, opts ...Option) (Signature, error) {
	const op = "ecdsa.Sign"
	o := applyOptions(opts)

	if err := checkScalar(op, priv); err != nil {
		return Signature{}, err
	}
	if err := checkScalar(op, k); err != nil {
		return Signature{}, err
	}

	sig, ok := signWithNonce(priv, digest, k, o.lowS)
	if !ok {
		return Signature{}, avcrypto.E(op, avcrypto.ErrDomain, "nonce produced a zero component, retry with a fresh nonce")
	}
	return sig, nil
}

// SignDeterministic signs digest deriving the nonce from (priv, digest),
// RFC 6979 by default. Candidates that fall outside [1, n-1] or produce a
// zero component are skipped for the next one, so the call does not fail on
// nonce quality.
func SignDeterministic(priv bigint.U256, digest [32]byte, opts ...Option) (Signature, error) {
	o := applyOptions(opts)
	if err := checkScalar("ecdsa.SignDeterministic", priv); err != nil {
		return Signature{}, err
	}

	next := o.nonce.Nonces(priv.BytesBE(), digest)
	for {
		k := next()
		if !scalarInRange(k) {
			continue
		}
		if sig, ok := signWithNonce(priv, digest, k, o.lowS); ok {
			return sig, nil
		}
	}
}

// Verify checks sig over digest against the public point pub. It returns
// ErrDomain when the inputs are malformed (pub at infinity or off the curve,
// r or s outside [1, n-1], s above n/2 under WithLowS) and (false, nil) when
// the inputs are well-formed but the signature does not match.
func Verify(pub curve.Point, digest [32]byte, sig Signature, opts ...Option) (bool, error) {
	const op = "ecdsa.Verify"
	o := applyOptions(opts)
	n := curve.Order()

	if pub.Infinity {
		return false, avcrypto.E(op, avcrypto.ErrDomain, "public key is the point at infinity")
	}
	if !pub.IsOnCurve() {
		return false, avcrypto.E(op, avcrypto.ErrDomain, "public key is not on the curve")
	}
	if !scalarInRange(sig.R) || !scalarInRange(sig.S) {
		return false, avcrypto.E(op, avcrypto.ErrDomain, "signature component outside [1, n-1]")
	}
	if o.lowS && sig.S.Cmp(n.Shr1()) > 0 {
		return false, avcrypto.E(op, avcrypto.ErrDomain, "signature s above n/2 under low-s policy")
	}

	e := digestToScalar(digest)
	sInv, err := bigint.InvMod(sig.S, n)
	if err != nil {
		return false, avcrypto.E(op, avcrypto.ErrDomain, "signature s is not invertible")
	}
	u1 := bigint.MulMod(e, sInv, n)
	u2 := bigint.MulMod(sig.R, sInv, n)

	point := curve.Add(curve.ScalarBaseMul(u1), curve.ScalarMul(u2, pub))
	if point.Infinity {
		return false, nil
	}
	return point.X.Mod(n).Cmp(sig.R) == 0, nil
}

// signWithNonce runs one signing attempt. ok is false when r or s came out
// zero; inputs are assumed range-checked.
func signWithNonce(priv bigint.U256, digest [32]byte, k bigint.U256, lowS bool) (Signature, bool) {
	n := curve.Order()

	point := curve.ScalarBaseMul(k)
	r := point.X.Mod(n)
	if r.IsZero() {
		return Signature{}, false
	}

	e := digestToScalar(digest)
	kInv, _ := bigint.InvMod(k, n)
	s := bigint.MulMod(kInv, bigint.AddMod(e, bigint.MulMod(r, priv, n), n), n)
	if s.IsZero() {
		return Signature{}, false
	}

	if lowS && s.Cmp(n.Shr1()) > 0 {
		s, _ = n.Sub(s)
	}
	return Signature{R: r, S: s}, true
}

// digestToScalar interprets the 32-byte digest as a big-endian integer
// reduced mod n.
func digestToScalar(digest [32]byte) bigint.U256 {
	e, _ := bigint.FromBytesBE(digest[:])
	return e.Mod(curve.Order())
}

func scalarInRange(k bigint.U256) bool {
	return !k.IsZero() && k.Cmp(curve.Order()) < 0
}

func checkScalar(op string, k bigint.U256) error {
	if !scalarInRange(k) {
		return avcrypto.E(op, avcrypto.ErrDomain, "scalar outside [1, n-1]")
	}
	return nil
}
