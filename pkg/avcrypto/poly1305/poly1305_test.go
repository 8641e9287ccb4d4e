package poly1305_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/poly1305"
)

// RFC 8439 section 2.5.2.
func TestRFCVector(t *testing.T) {
	keyBytes, err := hex.DecodeString("85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	var key [poly1305.KeySize]byte
	copy(key[:], keyBytes)

	msg := []byte("Cryptographic Forum Research Group")
	got := poly1305.Sum(key, msg)

	want := "a8061dc1305136c6c22b8baf0c0127a9"
	if hex.EncodeToString(got[:]) != want {
		t.Fatalf("tag mismatch: got %s, want %s", hex.EncodeToString(got[:]), want)
	}
}

// referenceSum evaluates the Poly1305 polynomial with math/big, straight
// from the RFC 8439 definition, as an independent oracle for the limb
// arithmetic.
func referenceSum(key [poly1305.KeySize]byte, msg []byte) [poly1305.TagSize]byte {
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 130), big.NewInt(5))

	rBytes := make([]byte, 16)
	for i := 0; i < 16; i++ {
		rBytes[15-i] = key[i] // little-endian input, big.Int wants big-endian
	}
	r := new(big.Int).SetBytes(rBytes)
	clamp, _ := new(big.Int).SetString("0ffffffc0ffffffc0ffffffc0fffffff", 16)
	r.And(r, clamp)

	sBytes := make([]byte, 16)
	for i := 0; i < 16; i++ {
		sBytes[15-i] = key[16+i]
	}
	s := new(big.Int).SetBytes(sBytes)

	acc := new(big.Int)
	for i := 0; i < len(msg); i += 16 {
		end := i + 16
		if end > len(msg) {
			end = len(msg)
		}
		block := make([]byte, end-i+1)
		for j := i; j < end; j++ {
			block[end-j] = msg[j]
		}
		block[0] = 1 // the 2^(8*len) bit
		n := new(big.Int).SetBytes(block)
		acc.Add(acc, n)
		acc.Mul(acc, r)
		acc.Mod(acc, p)
	}
	acc.Add(acc, s)

	var tag [poly1305.TagSize]byte
	full := acc.Bytes()
	for i := 0; i < poly1305.TagSize && i < len(full); i++ {
		tag[i] = full[len(full)-1-i] // low 128 bits, little-endian
	}
	return tag
}

func TestMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(100))
	// Lengths around the 16-byte block boundary plus larger messages.
	lengths := []int{0, 1, 15, 16, 17, 31, 32, 33, 100, 1000, 4096}

	for _, n := range lengths {
		var key [poly1305.KeySize]byte
		r.Read(key[:])
		msg := make([]byte, n)
		r.Read(msg)

		got := poly1305.Sum(key, msg)
		want := referenceSum(key, msg)
		if got != want {
			t.Fatalf("length %d: mismatch with big.Int reference", n)
		}
	}
}

func TestIncrementalMatchesOneShot(t *testing.T) {
	r := rand.New(rand.NewSource(101))
	var key [poly1305.KeySize]byte
	r.Read(key[:])
	msg := make([]byte, 2000)
	r.Read(msg)

	m := poly1305.New(key)
	for i := 0; i < len(msg); {
		n := 1 + r.Intn(50)
		if i+n > len(msg) {
			n = len(msg) - i
		}
		if err := m.Update(msg[i : i+n]); err != nil {
			t.Fatalf("update: %v", err)
		}
		i += n
	}
	got, err := m.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got != poly1305.Sum(key, msg) {
		t.Fatal("incremental tag differs from one-shot")
	}
}

func TestVerify(t *testing.T) {
	var key [poly1305.KeySize]byte
	key[0] = 0x42
	msg := []byte("authenticate me")
	tag := poly1305.Sum(key, msg)

	if !poly1305.Verify(key, msg, tag[:]) {
		t.Fatal("valid tag rejected")
	}

	bad := tag
	bad[0] ^= 1
	if poly1305.Verify(key, msg, bad[:]) {
		t.Fatal("tampered tag accepted")
	}
	if poly1305.Verify(key, append([]byte{}, msg[:len(msg)-1]...), tag[:]) {
		t.Fatal("tampered message accepted")
	}
}

func TestUseAfterFinalize(t *testing.T) {
	var key [poly1305.KeySize]byte
	m := poly1305.New(key)
	if _, err := m.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := m.Update([]byte("late")); !errors.Is(err, avcrypto.ErrMisuse) {
		t.Fatalf("update after finalize: got %v, want ErrMisuse", err)
	}
	if _, err := m.Finalize(); !errors.Is(err, avcrypto.ErrMisuse) {
		t.Fatalf("double finalize: got %v, want ErrMisuse", err)
	}
}

// Keys differing only in clamped bits of r produce the same tag; keys
// differing in s never do. Exercises the clamping mask.
func TestClamping(t *testing.T) {
	var a, b [poly1305.KeySize]byte
	for i := range a {
		a[i] = byte(i * 7)
	}
	b = a
	b[3] ^= 0xF0 // top nibble of r word 0 is clamped away

	msg := []byte("clamp check")
	tagA := poly1305.Sum(a, msg)
	tagB := poly1305.Sum(b, msg)
	if !bytes.Equal(tagA[:], tagB[:]) {
		t.Fatal("clamped bits must not affect the tag")
	}

	b = a
	b[16] ^= 1 // s is not clamped
	tagB = poly1305.Sum(b, msg)
	if bytes.Equal(tagA[:], tagB[:]) {
		t.Fatal("pad bits must affect the tag")
	}
}
