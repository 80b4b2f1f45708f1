package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from aggregated groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec describes one chart over a set of groups.
type ChartSpec struct {
	Type   string // "line", "bar", "pie"
	Title  string
	XAxis  string
	YAxis  string
	Metric string // key in Group.Metrics; empty plots Group.Value
	// ColorBy emits one series per group so every bar gets its own color
	// and legend entry.
	ColorBy bool
	Hole    float64
	Height  int
}

// BuildChart produces a ChartConfig from a spec and aggregated groups.
// Returns nil when there is nothing to plot.
func BuildChart(spec ChartSpec, groups []Group) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	chartType := spec.Type
	if chartType == "" {
		chartType = "bar"
	}

	cfg := &ChartConfig{
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		Height:     spec.Height,
		ShowLegend: spec.ColorBy || chartType == "pie",
		ShowGrid:   chartType != "pie",
	}
	if chartType == "pie" {
		cfg.Hole = spec.Hole
	}

	if spec.ColorBy {
		cfg.Series = buildColoredSeries(groups, spec.Metric)
	} else {
		name := spec.YAxis
		if name == "" {
			name = "Value"
		}
		cfg.Series = []ChartSeries{{Name: name, Data: groupPoints(groups, spec.Metric)}}
	}

	cfg.Colors = assignColors(len(cfg.Series))
	if chartType == "pie" {
		cfg.Colors = assignColors(len(groups))
	}
	return cfg
}

// BuildHistogramChart renders histogram bins as a chart.
func BuildHistogramChart(title string, xAxis string, bins []HistogramBin, height int) *ChartConfig {
	if len(bins) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper),
			Value: float64(b.Count),
		})
	}

	return &ChartConfig{
		ChartType: "histogram",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: "count", Data: points, Color: defaultColors[0]}},
		Bins:      bins,
		Colors:    assignColors(1),
		Height:    height,
		ShowGrid:  true,
	}
}

// BuildGeoChart places one marker per group at coords[group.Key], sized by
// sizeMetric. Groups without coordinates are skipped. hover lists extra
// metric keys copied onto each point.
func BuildGeoChart(title string, groups []Group, coords map[string]GeoCoord, sizeMetric string, hover []string, height int) *ChartConfig {
	series := make([]ChartSeries, 0, len(groups))
	for i, g := range groups {
		c, ok := coords[g.Key]
		if !ok {
			continue
		}
		point := ChartPoint{
			Label: g.Label,
			Value: RoundTo2(metricValue(g, sizeMetric)),
			Lat:   c.Lat,
			Lon:   c.Lon,
			Size:  RoundTo2(metricValue(g, sizeMetric)),
		}
		if len(hover) > 0 {
			point.Hover = make(map[string]float64, len(hover))
			for _, key := range hover {
				point.Hover[key] = RoundTo2(metricValue(g, key))
			}
		}
		series = append(series, ChartSeries{
			Name:  g.Label,
			Data:  []ChartPoint{point},
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	if len(series) == 0 {
		return nil
	}

	return &ChartConfig{
		ChartType:  "scatter_geo",
		Title:      title,
		Series:     series,
		Colors:     assignColors(len(series)),
		Height:     height,
		ShowLegend: true,
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func groupPoints(groups []Group, metric string) []ChartPoint {
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(metricValue(g, metric)),
		})
	}
	return points
}

func buildColoredSeries(groups []Group, metric string) []ChartSeries {
	series := make([]ChartSeries, 0, len(groups))
	for i, g := range groups {
		series = append(series, ChartSeries{
			Name:  g.Label,
			Data:  []ChartPoint{{Label: g.Label, Value: RoundTo2(metricValue(g, metric))}},
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series
}

func metricValue(g Group, metric string) float64 {
	if metric == "" {
		return g.Value
	}
	return g.Metrics[metric]
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
