package ecdsa

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/curve"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/hmac"
)

// NonceSource yields candidate signing nonces for one (private key, digest)
// pair. Nonces returns a generator; each call produces the next candidate.
// Candidates outside [1, n-1] are discarded by the caller, so a source only
// has to keep producing fresh values.
type NonceSource interface {
	Nonces(priv, digest [32]byte) func() bigint.U256
}

// RFC6979 derives nonces deterministically from (priv, digest) with the
// HMAC-SHA256 DRBG of RFC 6979. The same key and digest always yield the
// same nonce sequence, which removes the catastrophic failure mode of a
// biased or repeated random k.
type RFC6979 struct{}

// Nonces implements NonceSource.
func (RFC6979) Nonces(priv, digest [32]byte) func() bigint.U256 {
	// bits2octets(h1): the digest reduced mod n, re-encoded to 32 bytes.
	h, _ := bigint.FromBytesBE(digest[:])
	hBytes := h.Mod(curve.Order()).BytesBE()

	var k [hmac.Size]byte
	var v [hmac.Size]byte
	for i := range v {
		v[i] = 0x01
	}

	k = drbgUpdate(k, v, 0x00, priv[:], hBytes[:])
	v = hmac.Sum(k[:], v[:])
	k = drbgUpdate(k, v, 0x01, priv[:], hBytes[:])
	v = hmac.Sum(k[:], v[:])

	first := true
	return func() bigint.U256 {
		if !first {
			// Previous candidate rejected: ratchet K and V before retrying.
			k = hmac.Sum(k[:], append(v[:], 0x00))
			v = hmac.Sum(k[:], v[:])
		}
		first = false

		v = hmac.Sum(k[:], v[:])
		candidate, _ := bigint.FromBytesBE(v[:])
		return candidate
	}
}

func drbgUpdate(k, v [hmac.Size]byte, sep byte, priv, digest []byte) [hmac.Size]byte {
	m := hmac.New(k[:])
	_ = m.Update(v[:])
	_ = m.Update([]byte{sep})
	_ = m.Update(priv)
	_ = m.Update(digest)
	out, _ := m.Finalize()
	return out
}
