package domain

import "math"

// AddChecked returns a+b and false if the sum leaves the int64 range.
func AddChecked(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

// SubChecked returns a-b and false if the difference leaves the int64 range.
func SubChecked(a, b int64) (int64, bool) {
	if b == math.MinInt64 {
		return 0, false
	}
	return AddChecked(a, -b)
}

// MulChecked returns a*b and false if the product leaves the int64 range.
func MulChecked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}
