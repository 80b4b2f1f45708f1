// Package dashboard assembles the analytics dashboard: headline KPIs, the
// four tabs of charts and tables, and the raw data preview, all computed
// from one filtered view.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/internal/logging"
)

const (
	chartHeight  = 400
	mapHeight    = 500
	pieHole      = 0.3
	ageBins      = 20
	rawPreviewN  = 100
	currencyAxis = "Revenue ($)"
)

var kpiOptions = []engine.Option{
	engine.WithRevenueMeasure(dataset.MeasRevenue),
	engine.WithCustomerDimension(dataset.DimCustomerID),
	engine.WithCurrency("$"),
}

// RegionCenters places each region on the geographic view.
var RegionCenters = map[string]engine.GeoCoord{
	"North": {Lat: 40, Lon: -100},
	"South": {Lat: 30, Lon: -100},
	"East":  {Lat: 35, Lon: -75},
	"West":  {Lat: 35, Lon: -120},
}

// Dashboard is everything one render of the page shows.
type Dashboard struct {
	Controls  Controls          `json:"controls"`
	RowCount  int               `json:"rowCount"`
	KPIs      engine.KPIs       `json:"kpis"`
	Overview  SalesOverview     `json:"salesOverview"`
	Products  ProductAnalysis   `json:"productAnalysis"`
	Customers CustomerInsights  `json:"customerInsights"`
	Geography GeographicView    `json:"geographicView"`
	Raw       *engine.TableData `json:"rawData,omitempty"`
}

type SalesOverview struct {
	Trend         *engine.ChartConfig `json:"trend"`
	CategoryPie   *engine.ChartConfig `json:"categoryPie"`
	CategoryTable *engine.TableData   `json:"categoryTable"`
}

type ProductAnalysis struct {
	Revenue  *engine.ChartConfig `json:"revenue"`
	Units    *engine.ChartConfig `json:"units"`
	Discount *engine.ChartConfig `json:"discount"`
	Table    *engine.TableData   `json:"table"`
}

type CustomerInsights struct {
	AgeHistogram  *engine.ChartConfig `json:"ageHistogram"`
	GenderPie     *engine.ChartConfig `json:"genderPie"`
	TierCustomers *engine.ChartConfig `json:"tierCustomers"`
	TierRevenue   *engine.ChartConfig `json:"tierRevenue"`
	TierTable     *engine.TableData   `json:"tierTable"`
}

type GeographicView struct {
	Revenue   *engine.ChartConfig `json:"revenue"`
	Customers *engine.ChartConfig `json:"customers"`
	Map       *engine.ChartConfig `json:"map"`
	Table     *engine.TableData   `json:"table"`
}

// SidebarOptions are the choices offered by the filter sidebar.
type SidebarOptions struct {
	MinDate    string   `json:"minDate"`
	MaxDate    string   `json:"maxDate"`
	Categories []string `json:"categories"`
	Products   []string `json:"products"`
	Regions    []string `json:"regions"`
}

// Options lists the category, product and region values present in the
// date-filtered rows, in first-seen order.
func Options(view engine.RecordView, start, end time.Time) SidebarOptions {
	dated := engine.ApplyDateRange(view, dataset.DimDate, start, end)

	opts := SidebarOptions{
		Categories: nonNil(engine.UniqueValues(dated, dataset.DimCategory)),
		Products:   nonNil(engine.UniqueValues(dated, dataset.DimProduct)),
		Regions:    nonNil(engine.UniqueValues(dated, dataset.DimRegion)),
	}
	if !start.IsZero() {
		opts.MinDate = start.Format(engine.DateLayout)
	}
	if !end.IsZero() {
		opts.MaxDate = end.Format(engine.DateLayout)
	}
	return opts
}

// Filter applies the date range and then the multi-select filters.
func Filter(view engine.RecordView, c Controls) engine.RecordView {
	dated := engine.ApplyDateRange(view, dataset.DimDate, c.Start, c.End)
	return engine.ApplyFilters(dated, c.Filters())
}

// Build renders the dashboard for c over view.
func Build(ctx context.Context, view engine.RecordView, c Controls) *Dashboard {
	ctx = logging.WithAttrs(ctx, slog.String("component", "dashboard"))
	began := time.Now()

	filtered := Filter(view, c)

	d := &Dashboard{
		Controls:  c,
		RowCount:  filtered.Len(),
		KPIs:      engine.ComputeKPIs(filtered, kpiOptions...),
		Overview:  buildOverview(filtered, c.TimeGrouping),
		Products:  buildProducts(filtered),
		Customers: buildCustomers(filtered),
		Geography: buildGeography(filtered),
	}
	if c.ShowRawData {
		d.Raw = engine.BuildListTable("Raw Data Preview", filtered, rawPreviewN)
	}

	if filtered.Len() == 0 {
		logging.Info(ctx, "no rows match the selected filters",
			slog.Int("total_rows", view.Len()))
	}
	logging.Debug(ctx, "dashboard built",
		slog.Int("rows", filtered.Len()),
		slog.String("grouping", c.TimeGrouping),
		slog.Duration("elapsed", time.Since(began)))
	return d
}

func buildOverview(view engine.RecordView, grouping string) SalesOverview {
	if grouping == "" {
		grouping = GroupDaily
	}
	trend := engine.GroupAndAggregate(view, bucketFor(grouping), dataset.MeasRevenue, "sum", "chronological", 0)

	categories := engine.Summarize(view, dataset.DimCategory, []engine.Metric{
		{Key: "revenue", Field: dataset.MeasRevenue, Aggregation: "sum"},
	}, "label_asc", 0)

	byRevenue := append([]engine.Group(nil), categories...)
	engine.SortGroups(byRevenue, "value_desc")

	return SalesOverview{
		Trend: engine.BuildChart(engine.ChartSpec{
			Type:   "line",
			Title:  grouping + " Sales Trend",
			XAxis:  "Date",
			YAxis:  currencyAxis,
			Height: chartHeight,
		}, trend),
		CategoryPie: engine.BuildChart(engine.ChartSpec{
			Type:   "pie",
			Title:  "Revenue by Category",
			Hole:   pieHole,
			Height: chartHeight,
		}, categories),
		CategoryTable: engine.BuildSummaryTable("Revenue by Category", "Category", byRevenue, []engine.MetricColumn{
			{Key: "revenue", Label: "Revenue", Type: "currency"},
		}),
	}
}

func buildProducts(view engine.RecordView) ProductAnalysis {
	products := engine.Summarize(view, dataset.DimProduct, []engine.Metric{
		{Key: "revenue", Field: dataset.MeasRevenue, Aggregation: "sum"},
		{Key: "quantity", Field: dataset.MeasQuantity, Aggregation: "sum"},
		{Key: "discount", Field: dataset.MeasDiscount, Aggregation: "mean"},
	}, "value_desc", 0)

	bar := func(title, metric, yAxis string) *engine.ChartConfig {
		return engine.BuildChart(engine.ChartSpec{
			Type:    "bar",
			Title:   title,
			XAxis:   "Product",
			YAxis:   yAxis,
			Metric:  metric,
			ColorBy: true,
			Height:  chartHeight,
		}, products)
	}

	return ProductAnalysis{
		Revenue:  bar("Revenue by Product", "revenue", currencyAxis),
		Units:    bar("Units Sold by Product", "quantity", "Units Sold"),
		Discount: bar("Average Discount by Product", "discount", "Avg. Discount"),
		Table: engine.BuildSummaryTable("Product Performance", "Product", products, []engine.MetricColumn{
			{Key: "revenue", Label: "Revenue", Type: "currency"},
			{Key: "quantity", Label: "Units Sold", Type: "integer"},
			{Key: "discount", Label: "Avg. Discount", Type: "percent"},
		}),
	}
}

func buildCustomers(view engine.RecordView) CustomerInsights {
	// Demographics count each buyer once, by their first order.
	buyers := engine.DistinctBy(view, dataset.DimCustomerID)

	genders := engine.GroupAndAggregate(buyers, dataset.DimGender, "customers", "count", "value_desc", 0)

	tiers := engine.Summarize(view, dataset.DimLoyaltyTier, []engine.Metric{
		{Key: "customers", Field: dataset.DimCustomerID, Aggregation: "nunique"},
		{Key: "revenue", Field: dataset.MeasRevenue, Aggregation: "sum"},
		{Key: "discount", Field: dataset.MeasDiscount, Aggregation: "mean"},
	}, "label_asc", 0)

	return CustomerInsights{
		AgeHistogram: engine.BuildHistogramChart("Customer Age Distribution", "Age",
			engine.Histogram(engine.DimensionFloats(buyers, dataset.DimAge), ageBins), chartHeight),
		GenderPie: engine.BuildChart(engine.ChartSpec{
			Type:   "pie",
			Title:  "Customer Gender Distribution",
			Height: chartHeight,
		}, genders),
		TierCustomers: engine.BuildChart(engine.ChartSpec{
			Type:    "bar",
			Title:   "Customers by Loyalty Tier",
			XAxis:   "Loyalty Tier",
			YAxis:   "Number of Customers",
			Metric:  "customers",
			ColorBy: true,
			Height:  chartHeight,
		}, tiers),
		TierRevenue: engine.BuildChart(engine.ChartSpec{
			Type:    "bar",
			Title:   "Revenue by Loyalty Tier",
			XAxis:   "Loyalty Tier",
			YAxis:   "Total Revenue ($)",
			Metric:  "revenue",
			ColorBy: true,
			Height:  chartHeight,
		}, tiers),
		TierTable: engine.BuildSummaryTable("Loyalty Tier Analysis", "Loyalty Tier", tiers, []engine.MetricColumn{
			{Key: "customers", Label: "Customers", Type: "integer"},
			{Key: "revenue", Label: "Revenue", Type: "currency"},
			{Key: "discount", Label: "Avg. Discount", Type: "percent"},
		}),
	}
}

func buildGeography(view engine.RecordView) GeographicView {
	regions := engine.Summarize(view, dataset.DimRegion, []engine.Metric{
		{Key: "revenue", Field: dataset.MeasRevenue, Aggregation: "sum"},
		{Key: "customers", Field: dataset.DimCustomerID, Aggregation: "nunique"},
		{Key: "quantity", Field: dataset.MeasQuantity, Aggregation: "sum"},
	}, "label_asc", 0)

	return GeographicView{
		Revenue: engine.BuildChart(engine.ChartSpec{
			Type:    "bar",
			Title:   "Revenue by Region",
			XAxis:   "Region",
			YAxis:   "Total Revenue ($)",
			Metric:  "revenue",
			ColorBy: true,
			Height:  chartHeight,
		}, regions),
		Customers: engine.BuildChart(engine.ChartSpec{
			Type:    "bar",
			Title:   "Customers by Region",
			XAxis:   "Region",
			YAxis:   "Number of Customers",
			Metric:  "customers",
			ColorBy: true,
			Height:  chartHeight,
		}, regions),
		Map: engine.BuildGeoChart("Revenue by Region", regions, RegionCenters,
			"revenue", []string{"revenue", "customers"}, mapHeight),
		Table: engine.BuildSummaryTable("Regional Performance", "Region", regions, []engine.MetricColumn{
			{Key: "revenue", Label: "Revenue", Type: "currency"},
			{Key: "customers", Label: "Customers", Type: "integer"},
			{Key: "quantity", Label: "Units Sold", Type: "integer"},
		}),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
