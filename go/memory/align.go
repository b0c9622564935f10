package memory

import "golang.org/x/exp/constraints"

const PAGE_SIZE = 0x1000

func AlignUp[T constraints.Unsigned](v, to T) T {
	if to == 0 {
		return v
	}
	return (v + to - 1) &^ (to - 1)
}

func AlignDown[T constraints.Unsigned](v, to T) T {
	if to == 0 {
		return v
	}
	return v &^ (to - 1)
}
