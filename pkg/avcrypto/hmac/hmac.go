// Package hmac implements HMAC-SHA256 (RFC 2104) on top of the kernel's
// SHA-256. It exists both as a caller-facing MAC and as the PRF behind the
// RFC 6979 deterministic nonce source in the ecdsa package.
package hmac

import (
	"crypto/subtle"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/sha256"
)

// Size is the MAC length in bytes.
const Size = sha256.Size

// MAC is a streaming HMAC-SHA256 computation. Same lifecycle as the hash
// digests: Update any number of times, Finalize exactly once.
type MAC struct {
	inner     *sha256.Digest
	opad      [sha256.BlockSize]byte
	finalized bool
}

// New returns an HMAC-SHA256 keyed with key. Keys longer than the SHA-256
// block size are hashed first, per RFC 2104.
func New(key []byte) *MAC {
	var k [sha256.BlockSize]byte
	if len(key) > sha256.BlockSize {
		sum := sha256.Sum256(key)
		copy(k[:], sum[:])
	} else {
		copy(k[:], key)
	}

	m := &MAC{inner: sha256.New()}
	var ipad [sha256.BlockSize]byte
	for i := range k {
		ipad[i] = k[i] ^ 0x36
		m.opad[i] = k[i] ^ 0x5c
	}
	_ = m.inner.Update(ipad[:])
	avcrypto.ZeroizeBytes(k[:])
	avcrypto.ZeroizeBytes(ipad[:])
	return m
}

// Update absorbs p. Returns ErrMisuse once finalized.
func (m *MAC) Update(p []byte) error {
	if m.finalized {
		return avcrypto.E("hmac.Update", avcrypto.ErrMisuse, "mac already finalized")
	}
	return m.inner.Update(p)
}

// Finalize emits the 32-byte tag and consumes the state.
func (m *MAC) Finalize() ([Size]byte, error) {
	if m.finalized {
		return [Size]byte{}, avcrypto.E("hmac.Finalize", avcrypto.ErrMisuse, "mac already finalized")
	}
	m.finalized = true

	innerSum, err := m.inner.Finalize()
	if err != nil {
		return [Size]byte{}, err
	}
	outer := sha256.New()
	_ = outer.Update(m.opad[:])
	_ = outer.Update(innerSum[:])
	avcrypto.ZeroizeBytes(m.opad[:])
	return outer.Finalize()
}

// Sum computes HMAC-SHA256(key, data) in one shot.
func Sum(key, data []byte) [Size]byte {
	m := New(key)
	_ = m.Update(data)
	out, _ := m.Finalize()
	return out
}

// Verify reports whether tag is the correct MAC for data under key, using a
// constant-time comparison.
func Verify(key, data, tag []byte) bool {
	expected := Sum(key, data)
	return subtle.ConstantTimeCompare(expected[:], tag) == 1
}
