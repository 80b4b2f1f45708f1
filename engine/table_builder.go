package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from groups or raw records
// ============================================================================

// MetricColumn binds a Group.Metrics key to a table column.
type MetricColumn struct {
	Key   string
	Label string
	Type  string // "number", "currency", "percent", "integer"
}

// BuildSummaryTable renders one row per group: the group label followed by
// each metric column. The summary row totals "currency", "number" and
// "integer" columns.
func BuildSummaryTable(title string, groupLabel string, groups []Group, columns []MetricColumn, opts ...Option) *TableData {
	cfg := applyOptions(opts)

	cols := make([]Column, 0, len(columns)+1)
	cols = append(cols, Column{Key: "group", Label: groupLabel, Type: "text", Align: "left"})
	for _, c := range columns {
		cols = append(cols, Column{Key: c.Key, Label: c.Label, Type: c.Type, Align: "right"})
	}

	rows := make([][]string, 0, len(groups))
	totals := make(map[string]float64, len(columns))
	for _, g := range groups {
		row := make([]string, 0, len(cols))
		row = append(row, g.Label)
		for _, c := range columns {
			v := g.Metrics[c.Key]
			row = append(row, formatCell(v, c.Type, cfg.Currency))
			totals[c.Key] += v
		}
		rows = append(rows, row)
	}

	summary := &Summary{Label: "Total", Values: map[string]string{}}
	for _, c := range columns {
		switch c.Type {
		case "currency", "number", "integer":
			summary.Values[c.Key] = formatCell(totals[c.Key], c.Type, cfg.Currency)
		}
	}

	return &TableData{
		Title:   title,
		Columns: cols,
		Rows:    rows,
		Summary: summary,
	}
}

// BuildListTable renders up to limit records, one row each, with every
// dimension then every measure of the view. limit <= 0 renders all rows.
func BuildListTable(title string, view RecordView, limit int) *TableData {
	dimKeys := view.DimensionKeys()
	mesKeys := view.MeasureKeys()

	columns := make([]Column, 0, len(dimKeys)+len(mesKeys))
	for _, key := range dimKeys {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "text", Align: "left"})
	}
	for _, key := range mesKeys {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "number", Align: "right"})
	}

	head := Head(view, limit)
	rows := make([][]string, 0, head.Len())
	for i := 0; i < head.Len(); i++ {
		row := make([]string, 0, len(columns))
		for _, key := range dimKeys {
			row = append(row, head.Dimension(i, key))
		}
		for _, key := range mesKeys {
			row = append(row, strconv.FormatFloat(head.Measure(i, key), 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Showing %d of %d records", head.Len(), view.Len()),
			Values: map[string]string{},
		},
	}
}

func formatCell(v float64, typ string, currency string) string {
	switch typ {
	case "currency":
		return FormatCurrency(v, currency)
	case "percent":
		return FormatPercent(v)
	case "integer":
		return FormatInt(int(v))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
