//go:build lumendebug

package math3d

func assertNonZero(mag float32) {
	if mag == 0 {
		panic("math3d: normalizing a zero-length vector")
	}
}
