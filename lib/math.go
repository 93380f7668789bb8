package lib

import (
	"math"
	"math/bits"
)

// MaxBasisPoints is 100% expressed in basis points
const MaxBasisPoints = 10_000

// SafeAdd() returns a + b and false if the sum overflows
func SafeAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// SafeSub() returns a - b and false if the difference underflows
func SafeSub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

// SaturatingAdd() returns a + b clamped at the maximum uint64
func SaturatingAdd(a, b uint64) uint64 {
	if sum, ok := SafeAdd(a, b); ok {
		return sum
	}
	return math.MaxUint64
}

// SaturatingSub() returns a - b clamped at zero
func SaturatingSub(a, b uint64) uint64 {
	if diff, ok := SafeSub(a, b); ok {
		return diff
	}
	return 0
}

// MulDiv() computes a * b / d exactly with a 128 bit intermediate, truncating the remainder
// fails if d is zero or the quotient doesn't fit 64 bits
func MulDiv(a, b, d uint64) (uint64, bool) {
	if d == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(a, b)
	// bits.Div64 panics when the quotient overflows
	if hi >= d {
		return 0, false
	}
	quo, _ := bits.Div64(hi, lo, d)
	return quo, true
}

// BasisPointsOf() returns the basis point share of an amount, truncating
func BasisPointsOf(amount, bp uint64) (uint64, bool) { return MulDiv(amount, bp, MaxBasisPoints) }
