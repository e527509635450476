package internal

import (
	"iter"
	"slices"
)

// Permutations iterates over every ordering of items, using Heap's
// algorithm. Each yielded slice is a fresh copy.
func Permutations[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		perm := slices.Clone(items)
		if !yield(slices.Clone(perm)) {
			return
		}

		count := make([]int, len(perm))
		for n := 1; n < len(perm); {
			if count[n] >= n {
				count[n] = 0
				n++
				continue
			}

			if n%2 == 0 {
				perm[0], perm[n] = perm[n], perm[0]
			} else {
				perm[count[n]], perm[n] = perm[n], perm[count[n]]
			}
			count[n]++
			n = 1

			if !yield(slices.Clone(perm)) {
				return // Stop if the consumer stops
			}
		}
	}
}
