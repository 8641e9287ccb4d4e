package curve

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
)

// Point is an affine secp256k1 point. The zero value is the point at
// infinity (the group identity), signalled by the Infinity flag rather than
// any magic coordinate values.
type Point struct {
	X, Y     bigint.U256
	Infinity bool
}

// Infinite returns the point at infinity.
func Infinite() Point {
	return Point{Infinity: true}
}

// Equal reports whether p and q are the same point. Variable-time: points
// are public values in this kernel.
func (p Point) Equal(q Point) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 7 (mod p) with both
// coordinates in [0, p). The point at infinity is not considered on the
// curve; callers that accept it must check the Infinity flag themselves.
//
// This is the mandatory validation gate for any point supplied from outside
// the kernel.
func (p Point) IsOnCurve() bool {
	if p.Infinity {
		return false
	}
	if p.X.Cmp(fieldPrime) >= 0 || p.Y.Cmp(fieldPrime) >= 0 {
		return false
	}
	lhs := bigint.MulMod(p.Y, p.Y, fieldPrime)
	x2 := bigint.MulMod(p.X, p.X, fieldPrime)
	x3 := bigint.MulMod(x2, p.X, fieldPrime)
	rhs := bigint.AddMod(x3, curveB, fieldPrime)
	return lhs.Cmp(rhs) == 0
}

// Neg returns -p.
func (p Point) Neg() Point {
	if p.Infinity {
		return p
	}
	return Point{X: p.X, Y: bigint.SubMod(bigint.Zero(), p.Y, fieldPrime)}
}

// Add returns p + q, handling the identity, doubling, and inverse cases.
// Public-parameter path: secret-dependent points must go through ScalarMul,
// which routes everything over the ladder instead of branching here.
func Add(p, q Point) Point {
	return jacToAffine(jacAdd(jacFromAffine(p), jacFromAffine(q)))
}

// Double returns 2p.
func Double(p Point) Point {
	return jacToAffine(jacDouble(jacFromAffine(p)))
}

// ScalarMul returns k*P via the Montgomery ladder. k is reduced mod n
// first; k = 0 (mod n) or P at infinity yields the point at infinity.
//
// The ladder runs all 256 iterations for every scalar and each iteration
// performs identical field work: the add and the double are branchless,
// with the identity operands folded back in by masked selection, and the
// scalar bit only drives a constant-time conditional swap. No comparison
// ever runs on the ladder state, so neither the bit pattern nor the bit
// length of k shows up in the execution trace. Only p.Infinity, a public
// property of the input point, is branched on.
func ScalarMul(k bigint.U256, p Point) Point {
	k = k.Mod(groupOrder)
	if p.Infinity {
		return Infinite()
	}

	r0 := jacInfinity()
	r1 := jacFromAffine(p)
	for i := 255; i >= 0; i-- {
		mask := -k.Bit(uint(i))
		jacCondSwap(mask, &r0, &r1)
		r1 = jacAddLadder(r0, r1)
		r0 = jacDouble(r0)
		jacCondSwap(mask, &r0, &r1)
	}
	return jacToAffine(r0)
}

// ScalarBaseMul returns k*G.
func ScalarBaseMul(k bigint.U256) Point {
	return ScalarMul(k, Generator())
}

// jacobian is a point in Jacobian projective coordinates: the affine point
// is (X/Z^2, Y/Z^3), and Z = 0 encodes the point at infinity.
type jacobian struct {
	x, y, z bigint.U256
}

func jacInfinity() jacobian {
	return jacobian{x: bigint.One(), y: bigint.One(), z: bigint.Zero()}
}

func jacFromAffine(p Point) jacobian {
	if p.Infinity {
		return jacInfinity()
	}
	return jacobian{x: p.X, y: p.Y, z: bigint.One()}
}

// jacToAffine converts back with a single field inversion, computed via
// modular exponentiation so the conversion stays constant-time.
func jacToAffine(p jacobian) Point {
	if p.z.IsZero() {
		return Infinite()
	}
	zInv, _ := bigint.InvMod(p.z, fieldPrime)
	zInv2 := bigint.MulMod(zInv, zInv, fieldPrime)
	zInv3 := bigint.MulMod(zInv2, zInv, fieldPrime)
	return Point{
		X: bigint.MulMod(p.x, zInv2, fieldPrime),
		Y: bigint.MulMod(p.y, zInv3, fieldPrime),
	}
}

func jacCondSwap(mask uint64, a, b *jacobian) {
	bigint.CondSwap(mask, &a.x, &b.x)
	bigint.CondSwap(mask, &a.y, &b.y)
	bigint.CondSwap(mask, &a.z, &b.z)
}

// jacSelect returns a when mask is all ones and b when mask is zero.
// mask must be 0 or ^uint64(0). Constant-time.
func jacSelect(mask uint64, a, b jacobian) jacobian {
	return jacobian{
		x: bigint.CondSelect(mask, a.x, b.x),
		y: bigint.CondSelect(mask, a.y, b.y),
		z: bigint.CondSelect(mask, a.z, b.z),
	}
}

// jacDouble implements dbl-2009-l for a = 0, with no branches. The identity
// cases fall straight out of the formula: z = 0 or y = 0 gives z3 = 0,
// which is the infinity encoding, whatever x3 and y3 come out as.
func jacDouble(p jacobian) jacobian {
	mod := fieldPrime

	a := bigint.MulMod(p.x, p.x, mod)           // X^2
	b := bigint.MulMod(p.y, p.y, mod)           // Y^2
	c := bigint.MulMod(b, b, mod)               // Y^4
	xb := bigint.AddMod(p.x, b, mod)            // X + Y^2
	d := bigint.MulMod(xb, xb, mod)             // (X + Y^2)^2
	d = bigint.SubMod(d, a, mod)
	d = bigint.SubMod(d, c, mod)
	d = bigint.AddMod(d, d, mod)                // 2((X+Y^2)^2 - X^2 - Y^4)
	e := bigint.AddMod(bigint.AddMod(a, a, mod), a, mod) // 3X^2
	f := bigint.MulMod(e, e, mod)

	x3 := bigint.SubMod(f, bigint.AddMod(d, d, mod), mod)
	c8 := bigint.AddMod(c, c, mod)
	c8 = bigint.AddMod(c8, c8, mod)
	c8 = bigint.AddMod(c8, c8, mod) // 8Y^4
	y3 := bigint.SubMod(bigint.MulMod(e, bigint.SubMod(d, x3, mod), mod), c8, mod)
	yz := bigint.MulMod(p.y, p.z, mod)
	z3 := bigint.AddMod(yz, yz, mod)

	return jacobian{x: x3, y: y3, z: z3}
}

// jacAddLadder is the ladder's addition: the general Jacobian sum evaluated
// unconditionally, with the identity operands folded back in by masked
// selection. No branch and no comparison touches the coordinates.
//
// The formula is complete for every state the ladder can reach. The two
// ladder registers always differ by the input point, so they are never the
// same finite point, and for distinct points sharing an x coordinate (a
// point and its negation) the general formula already yields z3 = 0, the
// infinity encoding.
func jacAddLadder(p, q jacobian) jacobian {
	mod := fieldPrime

	z1z1 := bigint.MulMod(p.z, p.z, mod)
	z2z2 := bigint.MulMod(q.z, q.z, mod)
	u1 := bigint.MulMod(p.x, z2z2, mod)
	u2 := bigint.MulMod(q.x, z1z1, mod)
	s1 := bigint.MulMod(p.y, bigint.MulMod(z2z2, q.z, mod), mod)
	s2 := bigint.MulMod(q.y, bigint.MulMod(z1z1, p.z, mod), mod)

	h := bigint.SubMod(u2, u1, mod)
	r := bigint.SubMod(s2, s1, mod)
	h2 := bigint.MulMod(h, h, mod)
	h3 := bigint.MulMod(h2, h, mod)
	u1h2 := bigint.MulMod(u1, h2, mod)

	x3 := bigint.MulMod(r, r, mod)
	x3 = bigint.SubMod(x3, h3, mod)
	x3 = bigint.SubMod(x3, bigint.AddMod(u1h2, u1h2, mod), mod)

	y3 := bigint.MulMod(r, bigint.SubMod(u1h2, x3, mod), mod)
	y3 = bigint.SubMod(y3, bigint.MulMod(s1, h3, mod), mod)

	z3 := bigint.MulMod(bigint.MulMod(p.z, q.z, mod), h, mod)

	sum := jacobian{x: x3, y: y3, z: z3}
	sum = jacSelect(bigint.ZeroMask(q.z), p, sum)
	return jacSelect(bigint.ZeroMask(p.z), q, sum)
}

// jacAdd implements the general Jacobian addition, falling back to
// jacDouble for P = Q and to infinity for P = -Q. Variable-time: this is
// the public-point path behind Add; the ladder uses jacAddLadder.
func jacAdd(p, q jacobian) jacobian {
	if p.z.IsZero() {
		return q
	}
	if q.z.IsZero() {
		return p
	}
	mod := fieldPrime

	z1z1 := bigint.MulMod(p.z, p.z, mod)
	z2z2 := bigint.MulMod(q.z, q.z, mod)
	u1 := bigint.MulMod(p.x, z2z2, mod)
	u2 := bigint.MulMod(q.x, z1z1, mod)
	s1 := bigint.MulMod(p.y, bigint.MulMod(z2z2, q.z, mod), mod)
	s2 := bigint.MulMod(q.y, bigint.MulMod(z1z1, p.z, mod), mod)

	if u1.Cmp(u2) == 0 {
		if s1.Cmp(s2) != 0 {
			return jacInfinity()
		}
		return jacDouble(p)
	}

	h := bigint.SubMod(u2, u1, mod)
	r := bigint.SubMod(s2, s1, mod)
	h2 := bigint.MulMod(h, h, mod)
	h3 := bigint.MulMod(h2, h, mod)
	u1h2 := bigint.MulMod(u1, h2, mod)

	x3 := bigint.MulMod(r, r, mod)
	x3 = bigint.SubMod(x3, h3, mod)
	x3 = bigint.SubMod(x3, bigint.AddMod(u1h2, u1h2, mod), mod)

	y3 := bigint.MulMod(r, bigint.SubMod(u1h2, x3, mod), mod)
	y3 = bigint.SubMod(y3, bigint.MulMod(s1, h3, mod), mod)

	z3 := bigint.MulMod(bigint.MulMod(p.z, q.z, mod), h, mod)

	return jacobian{x: x3, y: y3, z: z3}
}
