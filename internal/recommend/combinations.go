// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

// Combinations returns every k-element subset of items in lexicographic index
// order. Each subset preserves the relative order of items. It returns nil
// when k is not in [1, len(items)].
func Combinations[T any](items []T, k int) [][]T {
	n := len(items)
	if k <= 0 || k > n {
		return nil
	}

	result := make([][]T, 0, binomial(n, k))
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]T, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		result = append(result, combo)

		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return result
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// binomial returns C(n, k) for small n.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
