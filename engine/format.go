package engine

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrency renders amount with a currency prefix and thousands
// separators: FormatCurrency(1234.5, "$") == "$1,234.50".
func FormatCurrency(amount float64, currency string) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	s := fmt.Sprintf("%s%s.%02d", currency, FormatInt(int(cents/100)), cents%100)
	if amount < 0 && cents != 0 {
		return "-" + s
	}
	return s
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatPercent renders a 0..1 ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension turns a snake_case key into a title: "loyalty_tier" →
// "Loyalty Tier".
func LabelForDimension(dimension string) string {
	parts := strings.Fields(strings.ReplaceAll(dimension, "_", " "))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case "sum":
		return "Total"
	case "count":
		return "Count"
	case "avg", "mean":
		return "Average"
	case "nunique":
		return "Distinct"
	case "max":
		return "Maximum"
	case "min":
		return "Minimum"
	default:
		return "Value"
	}
}
