package curve

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
)

// SEC1 point encoding prefixes.
const (
	prefixCompressedEven = 0x02
	prefixCompressedOdd  = 0x03
	prefixUncompressed   = 0x04
)

// EncodeCompressed returns the 33-byte SEC1 compressed encoding
// (0x02/0x03 prefix plus big-endian x). Encoding the point at infinity is a
// domain error: it has no SEC1 affine representation.
func (p Point) EncodeCompressed() ([]byte, error) {
	if p.Infinity {
		return nil, avcrypto.E("curve.EncodeCompressed", avcrypto.ErrDomain, "point at infinity has no affine encoding")
	}
	out := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		out[0] = prefixCompressedEven
	} else {
		out[0] = prefixCompressedOdd
	}
	x := p.X.BytesBE()
	copy(out[1:], x[:])
	return out, nil
}

// EncodeUncompressed returns the 65-byte SEC1 uncompressed encoding
// (0x04 prefix plus big-endian x and y).
func (p Point) EncodeUncompressed() ([]byte, error) {
	if p.Infinity {
		return nil, avcrypto.E("curve.EncodeUncompressed", avcrypto.ErrDomain, "point at infinity has no affine encoding")
	}
	out := make([]byte, 65)
	out[0] = prefixUncompressed
	x := p.X.BytesBE()
	y := p.Y.BytesBE()
	copy(out[1:33], x[:])
	copy(out[33:], y[:])
	return out, nil
}

// ParsePoint decodes a 33-byte compressed or 65-byte uncompressed SEC1
// point and validates it against the curve equation. Every externally
// supplied point must come through here (or through an explicit IsOnCurve
// check) before use.
func ParsePoint(data []byte) (Point, error) {
	const op = "curve.ParsePoint"
	switch len(data) {
	case 33:
		if data[0] != prefixCompressedEven && data[0] != prefixCompressedOdd {
			return Point{}, avcrypto.E(op, avcrypto.ErrEncoding, "bad compressed prefix 0x%02x", data[0])
		}
		x, err := bigint.FromBytesBE(data[1:])
		if err != nil {
			return Point{}, err
		}
		if x.Cmp(fieldPrime) >= 0 {
			return Point{}, avcrypto.E(op, avcrypto.ErrEncoding, "x coordinate not a field element")
		}
		y, err := liftX(x, data[0] == prefixCompressedOdd)
		if err != nil {
			return Point{}, err
		}
		return Point{X: x, Y: y}, nil

	case 65:
		if data[0] != prefixUncompressed {
			return Point{}, avcrypto.E(op, avcrypto.ErrEncoding, "bad uncompressed prefix 0x%02x", data[0])
		}
		x, err := bigint.FromBytesBE(data[1:33])
		if err != nil {
			return Point{}, err
		}
		y, err := bigint.FromBytesBE(data[33:])
		if err != nil {
			return Point{}, err
		}
		p := Point{X: x, Y: y}
		if !p.IsOnCurve() {
			return Point{}, avcrypto.E(op, avcrypto.ErrDomain, "point is not on the curve")
		}
		return p, nil

	default:
		return Point{}, avcrypto.E(op, avcrypto.ErrEncoding, "want 33 or 65 bytes, got %d", len(data))
	}
}

// liftX recovers y from x for a compressed point. Returns ErrDomain when
// x^3 + 7 is not a quadratic residue, i.e. x is not on the curve.
func liftX(x bigint.U256, odd bool) (bigint.U256, error) {
	x2 := bigint.MulMod(x, x, fieldPrime)
	x3 := bigint.MulMod(x2, x, fieldPrime)
	rhs := bigint.AddMod(x3, curveB, fieldPrime)

	// p = 3 (mod 4), so a square root, when it exists, is rhs^((p+1)/4).
	y := bigint.PowMod(rhs, sqrtExp, fieldPrime)
	check := bigint.MulMod(y, y, fieldPrime)
	if check.Cmp(rhs) != 0 {
		return bigint.U256{}, avcrypto.E("curve.ParsePoint", avcrypto.ErrDomain, "x is not on the curve")
	}
	if (y.Bit(0) == 1) != odd {
		y = bigint.SubMod(bigint.Zero(), y, fieldPrime)
	}
	return y, nil
}
