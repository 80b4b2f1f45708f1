package engine

// ============================================================================
// ENGINE TYPES
// ============================================================================
// Records are read through RecordView. Filters, groups, KPIs and the
// render-ready chart/table shapes below are what the dashboard hands to the
// front end.
// ============================================================================

// DateLayout is the canonical day format of the "date" dimension.
const DateLayout = "2006-01-02"

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// FILTERS
// ============================================================================

// Filters restrict records by dimension membership.
// OR within a dimension, AND across dimensions.
//
// A dimension that is absent from the map is unrestricted. A dimension that
// is present with an empty list matches nothing: an empty multi-select is a
// selection of zero values, not "all".
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// With returns a copy of f that restricts dimension to values.
func (f Filters) With(dimension string, values ...string) Filters {
	next := make(map[string][]string, len(f.Dimensions)+1)
	for k, v := range f.Dimensions {
		next[k] = v
	}
	next[dimension] = append([]string{}, values...)
	return Filters{Dimensions: next}
}

// Restricts reports whether dimension carries a selection (possibly empty).
func (f Filters) Restricts(dimension string) bool {
	_, ok := f.Dimensions[dimension]
	return ok
}

// IsEmpty returns true if no dimension is restricted.
func (f Filters) IsEmpty() bool {
	return len(f.Dimensions) == 0
}

// ============================================================================
// GROUP
// ============================================================================

// Group is one bucket of a group-by. Value mirrors the first metric so that
// single-metric callers can ignore Metrics.
type Group struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Value   float64            `json:"value"`
	Count   int                `json:"count"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	View    RecordView         `json:"-"`
}

// Metric names one reduction applied to every group.
// Field is a measure key, or a dimension key for "nunique".
type Metric struct {
	Key         string `json:"key"`
	Field       string `json:"field"`
	Aggregation string `json:"aggregation"` // "sum", "avg", "count", "nunique", "max", "min"
}

// ============================================================================
// KPIs
// ============================================================================

// KPIs are the headline metric cards.
type KPIs struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalOrders     int     `json:"totalOrders"`
	AvgOrderValue   float64 `json:"avgOrderValue"`
	UniqueCustomers int     `json:"uniqueCustomers"`

	Formatted map[string]string `json:"formatted"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string         `json:"chartType"` // "line", "bar", "pie", "histogram", "scatter_geo"
	Title      string         `json:"title"`
	XAxis      string         `json:"xAxis,omitempty"`
	YAxis      string         `json:"yAxis,omitempty"`
	Series     []ChartSeries  `json:"series"`
	Bins       []HistogramBin `json:"bins,omitempty"`
	Colors     []string       `json:"colors,omitempty"`
	Hole       float64        `json:"hole,omitempty"`
	Height     int            `json:"height,omitempty"`
	ShowLegend bool           `json:"showLegend"`
	ShowGrid   bool           `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single data point. Lat/Lon/Size are only set on
// scatter_geo points.
type ChartPoint struct {
	Label string             `json:"label"`
	Value float64            `json:"value"`
	Lat   float64            `json:"lat,omitempty"`
	Lon   float64            `json:"lon,omitempty"`
	Size  float64            `json:"size,omitempty"`
	Hover map[string]float64 `json:"hover,omitempty"`
}

// HistogramBin is one equal-width bucket, [Lower, Upper).
// The last bin is closed on the right.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// GeoCoord places a group label on a map.
type GeoCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
