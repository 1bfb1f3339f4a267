package helpers

import (
	"math"
)

// AddUint64 returns a+b and reports whether the sum fits into uint64.
func AddUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}

	return a + b, true
}

// SubUint64 returns a-b and reports whether the difference is non-negative.
func SubUint64(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}

	return a - b, true
}
