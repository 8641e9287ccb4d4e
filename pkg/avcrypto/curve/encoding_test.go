package curve_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/curve"
)

func TestEncodingRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(30))
	for i := 0; i < 4; i++ {
		k := randScalar(r)
		if k.IsZero() {
			continue
		}
		p := curve.ScalarBaseMul(k)

		compressed, err := p.EncodeCompressed()
		require.NoError(t, err)
		require.Len(t, compressed, 33)
		back, err := curve.ParsePoint(compressed)
		require.NoError(t, err)
		require.True(t, p.Equal(back))

		uncompressed, err := p.EncodeUncompressed()
		require.NoError(t, err)
		require.Len(t, uncompressed, 65)
		back, err = curve.ParsePoint(uncompressed)
		require.NoError(t, err)
		require.True(t, p.Equal(back))

		// Both encodings must agree with the decred serialization.
		kb := k.BytesBE()
		theirs := secp256k1.PrivKeyFromBytes(kb[:]).PubKey()
		require.Equal(t, theirs.SerializeCompressed(), compressed)
		require.Equal(t, theirs.SerializeUncompressed(), uncompressed)
	}
}

func TestEncodeInfinity(t *testing.T) {
	_, err := curve.Infinite().EncodeCompressed()
	require.True(t, errors.Is(err, avcrypto.ErrDomain))
	_, err = curve.Infinite().EncodeUncompressed()
	require.True(t, errors.Is(err, avcrypto.ErrDomain))
}

func TestParsePointRejects(t *testing.T) {
	g := curve.Generator()
	compressed, err := g.EncodeCompressed()
	require.NoError(t, err)
	uncompressed, err := g.EncodeUncompressed()
	require.NoError(t, err)

	t.Run("bad length", func(t *testing.T) {
		for _, n := range []int{0, 32, 34, 64, 66} {
			_, err := curve.ParsePoint(make([]byte, n))
			require.True(t, errors.Is(err, avcrypto.ErrEncoding), "length %d", n)
		}
	})

	t.Run("bad prefix", func(t *testing.T) {
		bad := append([]byte{}, compressed...)
		bad[0] = 0x05
		_, err := curve.ParsePoint(bad)
		require.True(t, errors.Is(err, avcrypto.ErrEncoding))

		bad = append([]byte{}, uncompressed...)
		bad[0] = 0x02
		_, err = curve.ParsePoint(bad)
		require.True(t, errors.Is(err, avcrypto.ErrEncoding))
	})

	t.Run("x not a residue", func(t *testing.T) {
		// Roughly half of all x values have no point on the curve. Walk
		// small x values; every rejection must be a domain error, and at
		// least one of the first 20 always rejects.
		rejected := 0
		for x := byte(1); x <= 20; x++ {
			candidate := make([]byte, 33)
			candidate[0] = 0x02
			candidate[32] = x
			if _, err := curve.ParsePoint(candidate); err != nil {
				require.True(t, errors.Is(err, avcrypto.ErrDomain), "x = %d", x)
				rejected++
			}
		}
		require.Greater(t, rejected, 0)
	})

	t.Run("x above field prime", func(t *testing.T) {
		p := curve.FieldPrime().BytesBE()
		bad := append([]byte{0x02}, p[:]...)
		_, err := curve.ParsePoint(bad)
		require.True(t, errors.Is(err, avcrypto.ErrEncoding))
	})

	t.Run("off-curve uncompressed", func(t *testing.T) {
		bad := append([]byte{}, uncompressed...)
		bad[64] ^= 1
		_, err := curve.ParsePoint(bad)
		require.True(t, errors.Is(err, avcrypto.ErrDomain))
	})
}

func TestParseCompressedRecoversParity(t *testing.T) {
	g := curve.Generator()
	neg := g.Neg()

	enc, err := neg.EncodeCompressed()
	require.NoError(t, err)
	back, err := curve.ParsePoint(enc)
	require.NoError(t, err)
	require.True(t, neg.Equal(back))
	require.Equal(t, uint64(1)^g.Y.Bit(0), back.Y.Bit(0))
}

func TestParsePointValidatesBeforeUse(t *testing.T) {
	// A well-formed encoding of a point on the curve parses and lands on
	// the curve; this is the invalid-curve attack gate.
	p, err := curve.ParsePoint(mustCompress(t, curve.ScalarBaseMul(bigint.FromUint64(7))))
	require.NoError(t, err)
	require.True(t, p.IsOnCurve())
}

func mustCompress(t *testing.T, p curve.Point) []byte {
	t.Helper()
	b, err := p.EncodeCompressed()
	require.NoError(t, err)
	return b
}
