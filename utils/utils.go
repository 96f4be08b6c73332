// Package utils implements generic helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the smaller of x and y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Mod returns x mod n, always in [0, n).
func Mod[T constraints.Signed](x, n T) T {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}
