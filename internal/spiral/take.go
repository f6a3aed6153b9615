package spiral

import "iter"

// Take limits seq to its first n values. It works with any iterator, so it is
// the way to bound an otherwise infinite Sequence.All.
func Take[V any](seq iter.Seq[V], n int) iter.Seq[V] {
	return func(yield func(V) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}
