package ecdsa

import (
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
	"github.com/avilaops/avila-crypto-go/pkg/avcrypto/bigint"
)

// CompactSize is the length of the fixed 64-byte r ‖ s encoding.
const CompactSize = 64

// Compact returns the fixed encoding: r and s as 32-byte big-endian values.
func (sig Signature) Compact() [CompactSize]byte {
	var out [CompactSize]byte
	r := sig.R.BytesBE()
	s := sig.S.BytesBE()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// ParseCompact decodes a 64-byte r ‖ s signature. Length errors are
// ErrEncoding; components outside [1, n-1] are ErrDomain.
func ParseCompact(b []byte) (Signature, error) {
	const op = "ecdsa.ParseCompact"
	if len(b) != CompactSize {
		return Signature{}, avcrypto.E(op, avcrypto.ErrEncoding, "want %d bytes, got %d", CompactSize, len(b))
	}
	r, _ := bigint.FromBytesBE(b[:32])
	s, _ := bigint.FromBytesBE(b[32:])
	if !scalarInRange(r) || !scalarInRange(s) {
		return Signature{}, avcrypto.E(op, avcrypto.ErrDomain, "signature component outside [1, n-1]")
	}
	return Signature{R: r, S: s}, nil
}

// DER returns the ASN.1 SEQUENCE{INTEGER r, INTEGER s} encoding with
// minimal-length integers, for interop with ASN.1-expecting systems.
func (sig Signature) DER() []byte {
	r := derInteger(sig.R)
	s := derInteger(sig.S)
	out := make([]byte, 0, 2+len(r)+len(s))
	out = append(out, 0x30, byte(len(r)+len(s)))
	out = append(out, r...)
	out = append(out, s...)
	return out
}

// derInteger encodes v as a DER INTEGER: strip leading zero bytes, then
// prepend one if the top bit is set so the value stays non-negative.
func derInteger(v bigint.U256) []byte {
	full := v.BytesBE()
	b := full[:]
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	out := make([]byte, 0, len(b)+3)
	out = append(out, 0x02)
	if b[0]&0x80 != 0 {
		out = append(out, byte(len(b)+1), 0x00)
	} else {
		out = append(out, byte(len(b)))
	}
	return append(out, b...)
}

// ParseDER decodes a strict DER SEQUENCE{INTEGER r, INTEGER s}: short-form
// lengths only, minimal integer encodings, no trailing bytes. Structural
// problems are ErrEncoding; in-range checks on the decoded values are
// ErrDomain.
func ParseDER(b []byte) (Signature, error) {
	const op = "ecdsa.ParseDER"
	if len(b) < 8 {
		return Signature{}, avcrypto.E(op, avcrypto.ErrEncoding, "signature too short")
	}
	if b[0] != 0x30 {
		return Signature{}, avcrypto.E(op, avcrypto.ErrEncoding, "missing SEQUENCE tag")
	}
	if int(b[1]) != len(b)-2 || b[1]&0x80 != 0 {
		return Signature{}, avcrypto.E(op, avcrypto.ErrEncoding, "bad SEQUENCE length")
	}

	r, rest, err := parseDERInteger(op, b[2:])
	if err != nil {
		return Signature{}, err
	}
	s, rest, err := parseDERInteger(op, rest)
	if err != nil {
		return Signature{}, err
	}
	if len(rest) != 0 {
		return Signature{}, avcrypto.E(op, avcrypto.ErrEncoding, "trailing bytes after s")
	}
	if !scalarInRange(r) || !scalarInRange(s) {
		return Signature{}, avcrypto.E(op, avcrypto.ErrDomain, "signature component outside [1, n-1]")
	}
	return Signature{R: r, S: s}, nil
}

func parseDERInteger(op string, b []byte) (bigint.U256, []byte, error) {
	if len(b) < 3 {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "truncated INTEGER")
	}
	if b[0] != 0x02 {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "missing INTEGER tag")
	}
	n := int(b[1])
	if b[1]&0x80 != 0 || n == 0 || 2+n > len(b) {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "bad INTEGER length")
	}
	val := b[2 : 2+n]

	if val[0]&0x80 != 0 {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "negative INTEGER")
	}
	if n > 1 && val[0] == 0 && val[1]&0x80 == 0 {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "non-minimal INTEGER")
	}
	if val[0] == 0 {
		val = val[1:]
	}
	if len(val) > 32 {
		return bigint.U256{}, nil, avcrypto.E(op, avcrypto.ErrEncoding, "INTEGER wider than 256 bits")
	}

	var buf [32]byte
	copy(buf[32-len(val):], val)
	v, _ := bigint.FromBytesBE(buf[:])
	return v, b[2+n:], nil
}
