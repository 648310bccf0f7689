//go:build !lumendebug

package math3d

// assertNonZero is compiled out of regular builds; normalizing a zero vector
// yields NaN components.
func assertNonZero(float32) {}
