package mmap

import "golang.org/x/exp/constraints"

// AlignDown rounds a down to a multiple of b. b must be a power of two.
func AlignDown[I constraints.Unsigned](a, b I) I {
	return a &^ (b - 1)
}

// AlignUp rounds a up to a multiple of b. b must be a power of two.
func AlignUp[I constraints.Unsigned](a, b I) I {
	return (a + b - 1) &^ (b - 1)
}
