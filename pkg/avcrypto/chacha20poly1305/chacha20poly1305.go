// Package chacha20poly1305 implements the RFC 8439 AEAD composition of
// ChaCha20 and Poly1305.
//
// The Poly1305 one-time key is the first half of ChaCha20 keystream block 0;
// plaintext is encrypted starting at block counter 1; the tag covers
// aad ‖ pad16 ‖ ciphertext ‖ pad16 ‖ len(aad) ‖ len(ciphertext), both
// lengths 64-bit little-endian. Decryption verifies the tag in constant
// time before any plaintext is released: on mismatch the call fails with
// ErrAuthentication and returns nothing.
//
// The wire helpers SealMessage/OpenMessage frame the result as
// 12-byte nonce ‖ ciphertext ‖ 16-byte tag; associated data always travels
// out-of-band.
package chacha20poly1305

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/chacha20"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/poly1305"
)

const (
	// KeySize is the AEAD key length in bytes.
	KeySize = chacha20.KeySize
	// NonceSize is the AEAD nonce length in bytes.
	NonceSize = chacha20.NonceSize
	// TagSize is the authenticator length in bytes.
	TagSize = poly1305.TagSize
)

// Seal encrypts and authenticates plaintext with the given key and nonce,
// binding aad into the tag. Returns ciphertext ‖ tag. The caller owns nonce
// uniqueness: reusing a (key, nonce) pair destroys confidentiality and
// authenticity.
func Seal(key [KeySize]byte, nonce [NonceSize]byte, plaintext, aad []byte) ([]byte, error) {
	// Poly1305 key = first 32 bytes of keystream block 0.
	polyKey := derivePolyKey(key, nonce)
	defer avcrypto.ZeroizeBytes(polyKey[:])

	out := make([]byte, len(plaintext)+TagSize)
	cipher := chacha20.NewCipherWithCounter(key, nonce, 1)
	if err := cipher.XORKeyStream(out[:len(plaintext)], plaintext); err != nil {
		return nil, err
	}

	tag := computeTag(polyKey, aad, out[:len(plaintext)])
	copy(out[len(plaintext):], tag[:])
	return out, nil
}

// Open verifies and decrypts ciphertext ‖ tag. On tag mismatch it returns
// ErrAuthentication and no plaintext.
func Open(key [KeySize]byte, nonce [NonceSize]byte, sealed, aad []byte) ([]byte, error) {
	const op = "chacha20poly1305.Open"
	if len(sealed) < TagSize {
		return nil, avcrypto.E(op, avcrypto.ErrEncoding, "sealed input shorter than the %d-byte tag", TagSize)
	}
	ciphertext := sealed[:len(sealed)-TagSize]
	receivedTag := sealed[len(sealed)-TagSize:]

	polyKey := derivePolyKey(key, nonce)
	defer avcrypto.ZeroizeBytes(polyKey[:])

	expected := computeTag(polyKey, aad, ciphertext)
	if subtle.ConstantTimeCompare(expected[:], receivedTag) != 1 {
		return nil, avcrypto.E(op, avcrypto.ErrAuthentication, "tag mismatch")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher := chacha20.NewCipherWithCounter(key, nonce, 1)
	if err := cipher.XORKeyStream(plaintext, ciphertext); err != nil {
		return nil, err
	}
	return plaintext, nil
}

// SealMessage is Seal with the wire framing: 12-byte nonce ‖ ciphertext ‖
// tag. The nonce still comes from the caller; it is prepended, not invented.
func SealMessage(key [KeySize]byte, nonce [NonceSize]byte, plaintext, aad []byte) ([]byte, error) {
	sealed, err := Seal(key, nonce, plaintext, aad)
	if err != nil {
		return nil, err
	}
	out := make([]byte, NonceSize+len(sealed))
	copy(out, nonce[:])
	copy(out[NonceSize:], sealed)
	return out, nil
}

// OpenMessage reverses SealMessage.
func OpenMessage(key [KeySize]byte, message, aad []byte) ([]byte, error) {
	if len(message) < NonceSize+TagSize {
		return nil, avcrypto.E("chacha20poly1305.OpenMessage", avcrypto.ErrEncoding,
			"message shorter than nonce plus tag")
	}
	var nonce [NonceSize]byte
	copy(nonce[:], message[:NonceSize])
	return Open(key, nonce, message[NonceSize:], aad)
}

func derivePolyKey(key [KeySize]byte, nonce [NonceSize]byte) [poly1305.KeySize]byte {
	block := chacha20.KeyStreamBlock(key, nonce, 0)
	var polyKey [poly1305.KeySize]byte
	copy(polyKey[:], block[:poly1305.KeySize])
	avcrypto.ZeroizeBytes(block[:])
	return polyKey
}

// computeTag authenticates aad ‖ pad16 ‖ ciphertext ‖ pad16 ‖ lengths.
func computeTag(polyKey [poly1305.KeySize]byte, aad, ciphertext []byte) [TagSize]byte {
	mac := poly1305.New(polyKey)
	var zeros [16]byte

	_ = mac.Update(aad)
	if rem := len(aad) % 16; rem != 0 {
		_ = mac.Update(zeros[:16-rem])
	}
	_ = mac.Update(ciphertext)
	if rem := len(ciphertext) % 16; rem != 0 {
		_ = mac.Update(zeros[:16-rem])
	}

	var lengths [16]byte
	binary.LittleEndian.PutUint64(lengths[0:], uint64(len(aad)))
	binary.LittleEndian.PutUint64(lengths[8:], uint64(len(ciphertext)))
	_ = mac.Update(lengths[:])

	tag, _ := mac.Finalize()
	return tag
}
