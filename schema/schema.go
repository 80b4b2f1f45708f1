package schema

import "github.com/spektr-org/shoplytics/dataset"

// ============================================================================
// SCHEMA — Describes the shape of the joined sales table
// ============================================================================
// Served to the front end so it can label sidebar controls and columns, and
// used by the CSV exporter for column order and headers.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Keys in export order. Every key is a dimension or a measure.
	ColumnOrder []string `json:"columnOrder"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key          string   `json:"key"`
	DisplayName  string   `json:"displayName"`
	Header       string   `json:"header"`
	Description  string   `json:"description,omitempty"`
	SampleValues []string `json:"sampleValues,omitempty"`
	Groupable    bool     `json:"groupable"`
	Filterable   bool     `json:"filterable"`
	IsTemporal   bool     `json:"isTemporal,omitempty"`
	// Set on fields that come from the customer side of the left join.
	Nullable bool `json:"nullable,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Header             string   `json:"header"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "currency", "units", "percent"
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
}

// Describe returns the schema of dataset.View rows.
func Describe() Config {
	dims := []DimensionMeta{
		{Key: dataset.DimDate, DisplayName: "Date", Header: "Date", Description: "Order date", Groupable: true, Filterable: true, IsTemporal: true},
		{Key: dataset.DimProduct, DisplayName: "Product", Header: "Product", SampleValues: dataset.Products, Groupable: true, Filterable: true},
		{Key: dataset.DimCategory, DisplayName: "Category", Header: "Category", SampleValues: dataset.Categories, Groupable: true, Filterable: true},
		{Key: dataset.DimRegion, DisplayName: "Region", Header: "Region", SampleValues: dataset.Regions, Groupable: true, Filterable: true},
		{Key: dataset.DimCustomerID, DisplayName: "Customer ID", Header: "CustomerID", Description: "Buyer identifier, 1000-9998"},
		{Key: dataset.DimAge, DisplayName: "Age", Header: "Age", Nullable: true},
		{Key: dataset.DimGender, DisplayName: "Gender", Header: "Gender", SampleValues: dataset.Genders, Groupable: true, Nullable: true},
		{Key: dataset.DimJoinDate, DisplayName: "Join Date", Header: "JoinDate", IsTemporal: true, Nullable: true},
		{Key: dataset.DimLoyaltyTier, DisplayName: "Loyalty Tier", Header: "LoyaltyTier", SampleValues: dataset.LoyaltyTiers, Groupable: true, Nullable: true},
	}

	meas := []MeasureMeta{
		{Key: dataset.MeasPrice, DisplayName: "Price", Header: "Price", Unit: "currency", Aggregations: []string{"avg", "min", "max"}, DefaultAggregation: "avg"},
		{Key: dataset.MeasQuantity, DisplayName: "Quantity", Header: "Quantity", Unit: "units", Aggregations: []string{"sum", "avg"}, DefaultAggregation: "sum"},
		{Key: dataset.MeasRevenue, DisplayName: "Revenue", Header: "Revenue", Unit: "currency", Aggregations: []string{"sum", "avg", "min", "max"}, DefaultAggregation: "sum"},
		{Key: dataset.MeasDiscount, DisplayName: "Discount", Header: "Discount", Unit: "percent", Aggregations: []string{"avg"}, DefaultAggregation: "avg"},
	}

	return Config{
		Name:        "E-Commerce Sales",
		Version:     "1.0",
		Description: "Synthetic daily order lines left-joined to customer profiles",
		Dimensions:  dims,
		Measures:    meas,
		ColumnOrder: []string{
			dataset.DimDate, dataset.DimProduct, dataset.DimCategory,
			dataset.MeasPrice, dataset.MeasQuantity, dataset.MeasRevenue, dataset.MeasDiscount,
			dataset.DimRegion, dataset.DimCustomerID,
			dataset.DimAge, dataset.DimGender, dataset.DimJoinDate, dataset.DimLoyaltyTier,
		},
	}
}

// Column is one export column resolved against the schema.
type Column struct {
	Key       string
	Header    string
	IsMeasure bool
}

// Columns resolves ColumnOrder into headers. Unknown keys are skipped.
func (c Config) Columns() []Column {
	byKey := make(map[string]Column, len(c.Dimensions)+len(c.Measures))
	for _, d := range c.Dimensions {
		byKey[d.Key] = Column{Key: d.Key, Header: d.Header}
	}
	for _, m := range c.Measures {
		byKey[m.Key] = Column{Key: m.Key, Header: m.Header, IsMeasure: true}
	}

	out := make([]Column, 0, len(c.ColumnOrder))
	for _, key := range c.ColumnOrder {
		if col, ok := byKey[key]; ok {
			out = append(out, col)
		}
	}
	return out
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// FilterableKeys returns the dimensions the sidebar offers as multi-selects,
// excluding temporal ones which use the date picker.
func (c Config) FilterableKeys() []string {
	var keys []string
	for _, d := range c.Dimensions {
		if d.Filterable && !d.IsTemporal {
			keys = append(keys, d.Key)
		}
	}
	return keys
}
