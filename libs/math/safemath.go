package math

import (
	"errors"
	"math"
)

var ErrOverflowInt64 = errors.New("int64 overflow")

// ErrDivideByZero is returned when a fraction or ratio has a zero denominator.
var ErrDivideByZero = errors.New("division by zero")

// SafeAddInt64 adds two int64 integers.
// If there is an overflow it returns ErrOverflowInt64.
func SafeAddInt64(a, b int64) (int64, error) {
	if b > 0 && (a > math.MaxInt64-b) {
		return 0, ErrOverflowInt64
	} else if b < 0 && (a < math.MinInt64-b) {
		return 0, ErrOverflowInt64
	}
	return a + b, nil
}

// SafeSubInt64 subtracts two int64 integers.
// If there is an overflow it returns ErrOverflowInt64.
func SafeSubInt64(a, b int64) (int64, error) {
	if b > 0 && (a < math.MinInt64+b) {
		return 0, ErrOverflowInt64
	} else if b < 0 && (a > math.MaxInt64+b) {
		return 0, ErrOverflowInt64
	}
	return a - b, nil
}

// SafeMulInt64 multiplies two int64 integers.
// If there is an overflow it returns ErrOverflowInt64.
func SafeMulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	absOfB := b
	if b < 0 {
		absOfB = -b
	}

	absOfA := a
	if a < 0 {
		absOfA = -a
	}

	if absOfA < 0 || absOfB < 0 {
		// MinInt64 has no positive counterpart.
		return 0, ErrOverflowInt64
	}
	if absOfA > math.MaxInt64/absOfB {
		return 0, ErrOverflowInt64
	}

	return a * b, nil
}

// SafeAddClipInt64 adds two int64 integers and clips the result to the int64
// range on overflow.
func SafeAddClipInt64(a, b int64) int64 {
	c, err := SafeAddInt64(a, b)
	if err != nil {
		if b < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return c
}
