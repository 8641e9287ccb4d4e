// Command avila-crypto-go runs the kernel's known-answer self-checks and
// exits non-zero on any mismatch. Useful as a smoke test after a toolchain
// or platform change.
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/blake3"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/chacha20poly1305"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/ecdsa"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/keccak"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/logging"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/sha256"
)

func main() {
	ctx := context.Background()
	logger := logging.New(nil)
	logger.Info(ctx, "avila-crypto-go self-check", "version", avcrypto.Version)

	checks := []struct {
		name string
		run  func() bool
	}{
		{"sha256", checkSHA256},
		{"keccak256", checkKeccak},
		{"blake3", checkBLAKE3},
		{"ecdsa", checkECDSA},
		{"aead", checkAEAD},
	}

	failed := 0
	for _, c := range checks {
		if c.run() {
			logger.Info(ctx, "check passed", "name", c.name)
		} else {
			logger.Error(ctx, "check failed", "name", c.name)
			failed++
		}
	}

	if failed > 0 {
		logger.Error(ctx, "self-check failed", "failures", failed)
		os.Exit(1)
	}
	logger.Info(ctx, "all checks passed")
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func checkSHA256() bool {
	empty := sha256.Sum256(nil)
	abc := sha256.Sum256([]byte("abc"))
	return bytes.Equal(empty[:], mustHex("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")) &&
		bytes.Equal(abc[:], mustHex("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
}

func checkKeccak() bool {
	legacy := keccak.Sum256(nil)
	standard := keccak.SHA3Sum256(nil)
	return bytes.Equal(legacy[:], mustHex("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")) &&
		bytes.Equal(standard[:], mustHex("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"))
}

func checkBLAKE3() bool {
	empty := blake3.Sum256(nil)
	return bytes.Equal(empty[:], mustHex("af1349b9f5f9a1a6a0404dee36dcc9499bcb25c9adc112b7cc9a93cae41f3262"))
}

func checkECDSA() bool {
	priv := bigint.FromUint64(0x1337)
	digest := sha256.Sum256([]byte("self-check message"))

	pub, err := ecdsa.PublicKey(priv)
	if err != nil {
		return false
	}
	sig, err := ecdsa.SignDeterministic(priv, digest, ecdsa.WithLowS())
	if err != nil {
		return false
	}
	ok, err := ecdsa.Verify(pub, digest, sig, ecdsa.WithLowS())
	if err != nil || !ok {
		return false
	}

	// A flipped digest bit must not verify.
	digest[0] ^= 1
	ok, err = ecdsa.Verify(pub, digest, sig)
	return err == nil && !ok
}

func checkAEAD() bool {
	var key [chacha20poly1305.KeySize]byte
	var nonce [chacha20poly1305.NonceSize]byte
	aad := []byte("header")
	plaintext := []byte("hello avila")

	sealed, err := chacha20poly1305.Seal(key, nonce, plaintext, aad)
	if err != nil || len(sealed) != len(plaintext)+chacha20poly1305.TagSize {
		return false
	}
	opened, err := chacha20poly1305.Open(key, nonce, sealed, aad)
	if err != nil || !bytes.Equal(opened, plaintext) {
		return false
	}

	sealed[0] ^= 1
	if _, err := chacha20poly1305.Open(key, nonce, sealed, aad); err == nil {
		return false
	}
	return true
}
