// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import "slices"

// NormalizeSelection returns the selection sorted ascending with duplicates
// removed. The input is not modified.
func NormalizeSelection(ids []int) []int {
	if len(ids) == 0 {
		return []int{}
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// intersectSorted returns the elements present in both sorted slices.
func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// coverageRatio divides by the selection size, treating an empty selection as 1.
func coverageRatio(matched, selected int) float64 {
	return float64(matched) / float64(max(1, selected))
}
