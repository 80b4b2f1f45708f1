package helpers

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/schema"
)

// ============================================================================
// CSV HELPER — Exports views and charts, re-imports exported rows
// ============================================================================

// ExportFilename is the download name of a filtered row export.
const ExportFilename = "ecommerce_data.csv"

// WriteRowsCSV writes every record of view in the schema's column order,
// headed by the schema's column headers. Customer columns of unmatched rows
// are written empty.
func WriteRowsCSV(w io.Writer, view engine.RecordView, sch schema.Config) error {
	cols := sch.Columns()
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return errs.Wrap(err, "write csv header")
	}

	row := make([]string, len(cols))
	for i := 0; i < view.Len(); i++ {
		for j, c := range cols {
			if c.IsMeasure {
				row[j] = strconv.FormatFloat(view.Measure(i, c.Key), 'f', -1, 64)
			} else {
				row[j] = view.Dimension(i, c.Key)
			}
		}
		if err := cw.Write(row); err != nil {
			return errs.Wrapf(err, "write csv row %d", i)
		}
	}

	cw.Flush()
	return errs.Wrap(cw.Error(), "flush csv")
}

// WriteChartCSV writes a chart as a sheet-ready table: one series (or one
// point per series, as in per-group colored bars) becomes two columns,
// several multi-point series become a label column plus one column per
// series. Histograms are written as lower,upper,count.
func WriteChartCSV(w io.Writer, chart *engine.ChartConfig) error {
	if chart == nil {
		return nil
	}
	cw := csv.NewWriter(w)

	xLabel := chart.XAxis
	yLabel := chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	switch {
	case len(chart.Bins) > 0:
		_ = cw.Write([]string{"lower", "upper", "count"})
		for _, b := range chart.Bins {
			_ = cw.Write([]string{fmtNum(b.Lower), fmtNum(b.Upper), strconv.Itoa(b.Count)})
		}

	case len(chart.Series) == 1 || onePointPerSeries(chart.Series):
		_ = cw.Write([]string{xLabel, yLabel})
		for _, s := range chart.Series {
			for _, d := range s.Data {
				_ = cw.Write([]string{d.Label, fmtNum(d.Value)})
			}
		}

	case len(chart.Series) > 1:
		headers := []string{xLabel}
		for _, s := range chart.Series {
			headers = append(headers, s.Name)
		}
		_ = cw.Write(headers)
		for i, d := range chart.Series[0].Data {
			row := []string{d.Label}
			for _, s := range chart.Series {
				if i < len(s.Data) {
					row = append(row, fmtNum(s.Data[i].Value))
				} else {
					row = append(row, "")
				}
			}
			_ = cw.Write(row)
		}
	}

	cw.Flush()
	return errs.Wrap(cw.Error(), "write chart csv")
}

// WriteTableCSV writes the column labels, every row, and the summary row
// when it carries values.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	if table == nil {
		return nil
	}
	cw := csv.NewWriter(w)

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	_ = cw.Write(headers)
	for _, row := range table.Rows {
		_ = cw.Write(row)
	}

	if table.Summary != nil && len(table.Summary.Values) > 0 && len(table.Columns) > 0 {
		row := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			row[i] = table.Summary.Values[c.Key]
		}
		row[0] = table.Summary.Label
		_ = cw.Write(row)
	}

	cw.Flush()
	return errs.Wrap(cw.Error(), "write table csv")
}

func onePointPerSeries(series []engine.ChartSeries) bool {
	for _, s := range series {
		if len(s.Data) != 1 {
			return false
		}
	}
	return len(series) > 0
}

// fmtNum prints whole numbers without decimals, everything else with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseCSV reads rows written by WriteRowsCSV back into records. Headers are
// matched against the schema by header or by snake_case key; unknown columns
// are skipped. Malformed rows are skipped.
func ParseCSV(r io.Reader, sch schema.Config) ([]engine.Record, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, errs.Wrap(err, "read csv headers")
	}

	byName := make(map[string]schema.Column)
	for _, c := range sch.Columns() {
		byName[c.Header] = c
		byName[c.Key] = c
	}

	mappings := make([]*schema.Column, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if c, ok := byName[h]; ok {
			mappings[i] = &c
		} else if c, ok := byName[toSnakeCase(h)]; ok {
			mappings[i] = &c
		}
	}

	var records []engine.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, val := range row {
			if i >= len(mappings) || mappings[i] == nil {
				continue
			}
			m := mappings[i]
			val = strings.TrimSpace(val)
			if m.IsMeasure {
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					rec.Measures[m.Key] = f
				}
			} else {
				rec.Dimensions[m.Key] = val
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// ParseCSVView parses CSV into a RecordView.
func ParseCSVView(r io.Reader, sch schema.Config) (engine.RecordView, error) {
	records, err := ParseCSV(r, sch)
	if err != nil {
		return nil, err
	}
	return engine.NewSliceView(records), nil
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
