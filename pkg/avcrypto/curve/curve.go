package curve

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
)

// secp256k1 domain parameters (SEC 2 v2, section 2.4.1). The curve is
// y^2 = x^3 + 7 over GF(p); a = 0.
var (
	fieldPrime = bigint.U256{
		0xFFFFFFFEFFFFFC2F, 0xFFFFFFFFFFFFFFFF,
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF,
	}
	groupOrder = bigint.U256{
		0xBFD25E8CD0364141, 0xBAAEDCE6AF48A03B,
		0xFFFFFFFFFFFFFFFE, 0xFFFFFFFFFFFFFFFF,
	}
	curveB = bigint.U256{7, 0, 0, 0}

	generatorX = bigint.U256{
		0x59F2815B16F81798, 0x029BFCDB2DCE28D9,
		0x55A06295CE870B07, 0x79BE667EF9DCBBAC,
	}
	generatorY = bigint.U256{
		0x9C47D08FFB10D4B8, 0xFD17B448A6855419,
		0x5DA4FBFC0E1108A8, 0x483ADA7726A3C465,
	}

	// (p+1)/4, the exponent for square roots in GF(p) since p = 3 (mod 4).
	sqrtExp = computeSqrtExp()
)

func computeSqrtExp() bigint.U256 {
	e, _ := fieldPrime.Add(bigint.One())
	return e.Shr1().Shr1()
}

// FieldPrime returns the field prime p.
func FieldPrime() bigint.U256 { return fieldPrime }

// Order returns the group order n.
func Order() bigint.U256 { return groupOrder }

// B returns the curve coefficient b = 7.
func B() bigint.U256 { return curveB }

// Generator returns the base point G.
func Generator() Point {
	return Point{X: generatorX, Y: generatorY}
}
