package engine

import (
	"strings"
	"time"
)

// ============================================================================
// FILTERS — Dimension, date-range and predicate restriction via RecordView
// ============================================================================
// Every function here returns a SubView (index list into the parent).
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined and
// compared case-insensitively. A restricted dimension with no values matches
// nothing.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool, len(filters.Dimensions))
	for dim, allowed := range filters.Dimensions {
		if len(allowed) == 0 {
			return newSubView(view, nil)
		}
		sets[dim] = toLowerSet(allowed)
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// ApplyDateRange keeps records whose date dimension lies in [start, end],
// compared by calendar day. A zero start or end disables the predicate.
// Records with an empty date are dropped.
func ApplyDateRange(view RecordView, dimension string, start, end time.Time) RecordView {
	if start.IsZero() || end.IsZero() {
		return view
	}

	// DateLayout strings order the same way the dates do.
	lo := start.Format(DateLayout)
	hi := end.Format(DateLayout)

	return Restrict(view, func(v RecordView, i int) bool {
		d := v.Dimension(i, dimension)
		if len(d) > len(DateLayout) {
			d = d[:len(DateLayout)]
		}
		return d != "" && d >= lo && d <= hi
	})
}

// Restrict keeps the records for which keep returns true.
func Restrict(view RecordView, keep func(view RecordView, i int) bool) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// DistinctBy keeps the first record for every distinct value of dimension.
// Records with an empty value are dropped.
func DistinctBy(view RecordView, dimension string) RecordView {
	seen := make(map[string]bool)
	return Restrict(view, func(v RecordView, i int) bool {
		key := v.Dimension(i, dimension)
		if key == "" || seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// HasDimension is a Restrict predicate that keeps records with a non-empty
// value for dimension.
func HasDimension(dimension string) func(RecordView, int) bool {
	return func(v RecordView, i int) bool {
		return v.Dimension(i, dimension) != ""
	}
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
