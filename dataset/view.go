package dataset

import (
	"strconv"

	"github.com/spektr-org/shoplytics/engine"
)

// Dimension keys of the joined row view.
const (
	DimDate        = "date"
	DimProduct     = "product"
	DimCategory    = "category"
	DimRegion      = "region"
	DimCustomerID  = "customer_id"
	DimAge         = "age"
	DimGender      = "gender"
	DimJoinDate    = "join_date"
	DimLoyaltyTier = "loyalty_tier"
)

// Measure keys of the joined row view.
const (
	MeasPrice    = "price"
	MeasQuantity = "quantity"
	MeasRevenue  = "revenue"
	MeasDiscount = "discount"
)

// Customer fields are registered as dimensions so unmatched rows read as ""
// rather than as zero.
var rowAdapter = engine.NewDomainAdapter[Row]().
	Dimension(DimDate, func(r Row) string { return r.Sale.Date.Format(engine.DateLayout) }).
	Dimension(DimProduct, func(r Row) string { return r.Sale.Product }).
	Dimension(DimCategory, func(r Row) string { return r.Sale.Category }).
	Dimension(DimRegion, func(r Row) string { return r.Sale.Region }).
	Dimension(DimCustomerID, func(r Row) string { return strconv.Itoa(r.Sale.CustomerID) }).
	Dimension(DimAge, func(r Row) string {
		if !r.Matched {
			return ""
		}
		return strconv.Itoa(r.Customer.Age)
	}).
	Dimension(DimGender, func(r Row) string { return r.Customer.Gender }).
	Dimension(DimJoinDate, func(r Row) string {
		if !r.Matched {
			return ""
		}
		return r.Customer.JoinDate.Format(engine.DateLayout)
	}).
	Dimension(DimLoyaltyTier, func(r Row) string { return r.Customer.LoyaltyTier }).
	Measure(MeasPrice, func(r Row) float64 { return r.Sale.Price }).
	Measure(MeasQuantity, func(r Row) float64 { return float64(r.Sale.Quantity) }).
	Measure(MeasRevenue, func(r Row) float64 { return r.Sale.Revenue }).
	Measure(MeasDiscount, func(r Row) float64 { return r.Sale.Discount })

// View exposes rows to the engine without copying them.
func View(rows []Row) engine.RecordView {
	return rowAdapter.Bind(rows)
}

// View returns the joined rows of t as a RecordView.
func (t *Tables) View() engine.RecordView {
	return View(t.Rows())
}
