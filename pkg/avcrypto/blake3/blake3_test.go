package blake3_test

import (
	"encoding/hex"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	refblake3 "lukechampine.com/blake3"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/blake3"
)

func TestEmptyInputVector(t *testing.T) {
	got := blake3.Sum256(nil)
	require.Equal(t,
		"af1349b9f5f9a1a6a0404dee36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		hex.EncodeToString(got[:]))
}

// Lengths chosen to hit the interesting tree shapes: partial chunk, exact
// chunk, chunk+1, several complete subtrees, and an uneven tail.
func TestMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(70))
	lengths := []int{
		0, 1, 63, 64, 65, 1023, 1024, 1025,
		2048, 2049, 3072, 4096, 5000, 8192, 31744, 102400,
	}

	for _, n := range lengths {
		data := make([]byte, n)
		r.Read(data)

		got := blake3.Sum256(data)
		want := refblake3.Sum256(data)
		require.Equal(t, want, got, "length %d", n)
	}
}

// A multi-megabyte input, spanning thousands of chunks and a deep CV stack,
// streamed in chunk-unaligned pieces against the reference implementation.
func TestLargeInputMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(74))
	data := make([]byte, 3<<20+7)
	r.Read(data)

	h := blake3.New()
	const chunk = 1<<18 + 11
	for i := 0; i < len(data); i += chunk {
		end := i + chunk
		if end > len(data) {
			end = len(data)
		}
		require.NoError(t, h.Update(data[i:end]))
	}
	got, err := h.Finalize()
	require.NoError(t, err)
	require.Equal(t, refblake3.Sum256(data), got)
}

func TestIncrementalMatchesOneShot(t *testing.T) {
	r := rand.New(rand.NewSource(71))
	data := make([]byte, 10000)
	r.Read(data)

	h := blake3.New()
	for i := 0; i < len(data); {
		n := 1 + r.Intn(700)
		if i+n > len(data) {
			n = len(data) - i
		}
		require.NoError(t, h.Update(data[i:i+n]))
		i += n
	}
	got, err := h.Finalize()
	require.NoError(t, err)
	require.Equal(t, blake3.Sum256(data), got)
}

func TestXOFMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(72))
	data := make([]byte, 3000)
	r.Read(data)

	h := blake3.New()
	require.NoError(t, h.Update(data))
	xof, err := h.FinalizeXOF()
	require.NoError(t, err)

	got := make([]byte, 517)
	_, err = io.ReadFull(xof, got)
	require.NoError(t, err)

	ref := refblake3.New(32, nil)
	_, err = ref.Write(data)
	require.NoError(t, err)
	want := make([]byte, 517)
	_, err = io.ReadFull(ref.XOF(), want)
	require.NoError(t, err)

	require.Equal(t, want, got)
}

// Any prefix of the XOF stream must equal the fixed 32-byte digest.
func TestXOFPrefixMatchesDigest(t *testing.T) {
	data := []byte("xof prefix property")

	digest := blake3.Sum256(data)

	h := blake3.New()
	require.NoError(t, h.Update(data))
	xof, err := h.FinalizeXOF()
	require.NoError(t, err)

	prefix := make([]byte, 32)
	_, err = io.ReadFull(xof, prefix)
	require.NoError(t, err)
	require.Equal(t, digest[:], prefix)
}

func TestXOFShortReads(t *testing.T) {
	r := rand.New(rand.NewSource(73))
	data := []byte("short read consistency")

	h := blake3.New()
	require.NoError(t, h.Update(data))
	xof, err := h.FinalizeXOF()
	require.NoError(t, err)

	var chunked []byte
	for len(chunked) < 300 {
		buf := make([]byte, 1+r.Intn(40))
		n, err := xof.Read(buf)
		require.NoError(t, err)
		chunked = append(chunked, buf[:n]...)
	}

	h2 := blake3.New()
	require.NoError(t, h2.Update(data))
	xof2, err := h2.FinalizeXOF()
	require.NoError(t, err)
	whole := make([]byte, len(chunked))
	_, err = io.ReadFull(xof2, whole)
	require.NoError(t, err)

	require.Equal(t, whole, chunked)
}

func TestUseAfterFinalize(t *testing.T) {
	h := blake3.New()
	_, err := h.Finalize()
	require.NoError(t, err)

	err = h.Update([]byte("late"))
	require.True(t, errors.Is(err, avcrypto.ErrMisuse))
	_, err = h.Finalize()
	require.True(t, errors.Is(err, avcrypto.ErrMisuse))
	_, err = h.FinalizeXOF()
	require.True(t, errors.Is(err, avcrypto.ErrMisuse))
}
