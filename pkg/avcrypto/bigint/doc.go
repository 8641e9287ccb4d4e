// Package bigint implements fixed-width unsigned integer arithmetic for the
// kernel's field and scalar math.
//
// The central type is U256, a value type of four 64-bit little-endian limbs.
// Unlike math/big, nothing here allocates, nothing is variable-length, and
// the modular operations run in constant time with respect to their operand
// values. Operations that can overflow the fixed width return the carry or
// borrow explicitly instead of silently wrapping.
//
// U512 exists only as the double-width product of U256 multiplication; its
// sole consumer is modular reduction.
//
// PowMod and InvMod are safe for secret exponents and operands. GCD is
// variable-time and must only be used on public inputs.
package bigint
