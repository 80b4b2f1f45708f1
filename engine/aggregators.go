package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into the parent view).
// Group keys that come out empty are dropped, the way a dataframe group-by
// drops missing keys.
// ============================================================================

// Time bucket dimensions derived from the "date" dimension.
const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
	BucketYear  = "year"
)

// GroupAndAggregate groups view by groupBy and reduces each group with a
// single aggregation. For "nunique" the field is a dimension key.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(view RecordView, groupBy string, field string, aggregation string, sortBy string, limit int) []Group {
	return Summarize(view, groupBy, []Metric{{Key: field, Field: field, Aggregation: aggregation}}, sortBy, limit)
}

// Summarize groups view by one dimension and applies every metric to each
// group. Group.Value holds the first metric.
func Summarize(view RecordView, groupBy string, metrics []Metric, sortBy string, limit int) []Group {
	if view.Len() == 0 {
		return nil
	}

	var groups []Group
	if groupBy == "" {
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	} else {
		groups = groupBySingle(view, groupBy)
	}

	for i := range groups {
		aggregateGroup(&groups[i], metrics)
	}

	SortGroups(groups, sortBy)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := DimensionValue(view, i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// DimensionValue reads a dimension, resolving the time buckets day, week,
// month and year from the "date" dimension.
func DimensionValue(view RecordView, i int, dimension string) string {
	switch dimension {
	case BucketDay, BucketWeek, BucketMonth, BucketYear:
		return TimeBucket(view.Dimension(i, "date"), dimension)
	}
	return view.Dimension(i, dimension)
}

// TimeBucket maps a YYYY-MM-DD date onto its bucket key:
// day "2023-03-07", week "2023-10", month "2023-03", year "2023".
// Weeks start on Sunday; days before the first Sunday fall in week 00.
func TimeBucket(date string, bucket string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	switch bucket {
	case BucketWeek:
		week := (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
		return fmt.Sprintf("%d-%02d", t.Year(), week)
	case BucketMonth:
		return t.Format("2006-01")
	case BucketYear:
		return t.Format("2006")
	default:
		return t.Format(DateLayout)
	}
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, metrics []Metric) {
	group.Count = group.View.Len()
	group.Metrics = make(map[string]float64, len(metrics))
	for i, m := range metrics {
		v := Aggregate(group.View, m.Field, m.Aggregation)
		group.Metrics[m.Key] = v
		if i == 0 {
			group.Value = v
		}
	}
}

// Aggregate reduces one field of view. Unknown aggregations sum.
// Every reduction over an empty view is 0.
func Aggregate(view RecordView, field string, aggregation string) float64 {
	switch aggregation {
	case "count":
		return float64(view.Len())
	case "avg", "mean":
		return AvgMeasure(view, field)
	case "nunique":
		return float64(CountUnique(view, field))
	case "max":
		return MaxMeasure(view, field)
	case "min":
		return MinMeasure(view, field)
	default:
		return SumMeasure(view, field)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes the mean of a named measure; 0 for an empty view.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		m = math.Max(m, view.Measure(i, measure))
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < n; i++ {
		m = math.Min(m, view.Measure(i, measure))
	}
	return m
}

// CountUnique counts distinct non-empty values of a dimension.
func CountUnique(view RecordView, dimension string) int {
	seen := make(map[string]struct{})
	for i := 0; i < view.Len(); i++ {
		if v := DimensionValue(view, i, dimension); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups in place. Unknown modes keep first-seen order.
// Label sorts are stable and case-insensitive, which is chronological for
// the time bucket keys.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "label_asc", "alpha_asc", "chronological":
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key)
		})
	case "label_desc", "reverse_chronological":
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key)
		})
	}
}

// ============================================================================
// DISTRIBUTIONS
// ============================================================================

// Histogram buckets values into bins equal-width bins spanning [min, max].
// A constant series yields a single bin.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = 1
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []HistogramBin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// DimensionFloats parses a numeric dimension across a view, skipping empty
// or non-numeric values.
func DimensionFloats(view RecordView, dimension string) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if f, err := strconv.ParseFloat(view.Dimension(i, dimension), 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// UniqueValues returns distinct non-empty values for a dimension in
// first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := DimensionValue(view, i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
