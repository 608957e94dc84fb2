// Package order implements the order-sequence primitives shared by the
// storage backends and the reconciler. An order sequence is a permutation of
// member IDs; every function here returns a new slice and never mutates its
// input, so callers can keep the previous sequence as a rollback copy.
package order

// Clamp bounds index to [0, n-1]. For n == 0 it returns 0.
func Clamp(index, n int) int {
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// ClampInsert bounds index to [0, n], the valid insertion points of a
// sequence of length n.
func ClampInsert(index, n int) int {
	if index > n {
		index = n
	}
	if index < 0 {
		index = 0
	}
	return index
}

// IndexOf returns the position of id in seq, or -1.
func IndexOf(seq []string, id string) int {
	for i, s := range seq {
		if s == id {
			return i
		}
	}
	return -1
}

// Move returns seq with the element at from moved to to. Both indexes are
// clamped; the relative order of the other elements is preserved.
func Move[T any](seq []T, from, to int) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	if len(seq) == 0 {
		return out
	}
	from = Clamp(from, len(seq))
	to = Clamp(to, len(seq))
	if from == to {
		return out
	}
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out
}

// Remove returns seq without the element at index.
func Remove[T any](seq []T, index int) []T {
	out := make([]T, 0, len(seq))
	out = append(out, seq[:index]...)
	return append(out, seq[index+1:]...)
}

// Insert returns seq with item inserted at index, clamped to [0, len(seq)].
func Insert[T any](seq []T, index int, item T) []T {
	index = ClampInsert(index, len(seq))
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, item)
	return append(out, seq[index:]...)
}

// MoveID moves id to target within seq. It reports false if id is absent.
func MoveID(seq []string, id string, target int) ([]string, bool) {
	from := IndexOf(seq, id)
	if from < 0 {
		return nil, false
	}
	return Move(seq, from, target), true
}

// IsPermutation reports whether seq holds exactly the IDs of members, each
// once.
func IsPermutation(seq, members []string) bool {
	if len(seq) != len(members) {
		return false
	}
	counts := make(map[string]int, len(members))
	for _, m := range members {
		counts[m]++
	}
	for _, s := range seq {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
