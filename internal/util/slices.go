package util

import "sort"

// SortBy returns a copy of sl sorted using the given less function. lt must
// return whether left is less than right.
func SortBy[E any](sl []E, lt func(left, right E) bool) []E {
	if len(sl) < 2 {
		return sl
	}

	sorted := make([]E, len(sl))
	copy(sorted, sl)

	sort.Slice(sorted, func(i, j int) bool {
		return lt(sorted[i], sorted[j])
	})

	return sorted
}

// InSlice returns whether target is present in sl.
func InSlice[E comparable](target E, sl []E) bool {
	return SliceIndexOf(target, sl) >= 0
}

// SliceIndexOf returns the index of the first occurrence of target in sl, or
// -1 if it is not present.
func SliceIndexOf[E comparable](target E, sl []E) int {
	for i := range sl {
		if sl[i] == target {
			return i
		}
	}
	return -1
}

// SliceRemove returns sl with the first occurrence of target removed. If
// target is not present, sl is returned unchanged.
func SliceRemove[E comparable](target E, sl []E) []E {
	idx := SliceIndexOf(target, sl)
	if idx < 0 {
		return sl
	}

	updated := make([]E, len(sl)-1)
	copy(updated, sl[:idx])
	copy(updated[idx:], sl[idx+1:])
	return updated
}
