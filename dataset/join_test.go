package dataset

import (
	"testing"
	"time"

	"github.com/spektr-org/shoplytics/engine"
)

func sampleTables() *Tables {
	day := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	return &Tables{
		Sales: []SalesEvent{
			{Date: day, Product: "Laptop", Category: "Electronics", Price: 1000, Quantity: 1, Revenue: 1000, Region: "North", CustomerID: 1001},
			{Date: day, Product: "Headphones", Category: "Accessories", Price: 200, Quantity: 2, Revenue: 360, Discount: 0.1, Region: "West", CustomerID: 4242},
		},
		Customers: []Customer{
			{CustomerID: 1001, Age: 30, Gender: "Female", JoinDate: time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC), LoyaltyTier: "Gold"},
		},
	}
}

func TestJoinIsLeft(t *testing.T) {
	rows := Join(sampleTables().Sales, sampleTables().Customers)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if !rows[0].Matched || rows[0].Customer.LoyaltyTier != "Gold" {
		t.Fatalf("row 0 not joined: %+v", rows[0])
	}
	if rows[1].Matched || rows[1].Customer != (Customer{}) {
		t.Fatalf("row 1 should be unmatched with empty customer: %+v", rows[1])
	}
}

func TestViewUnmatchedFieldsAreEmpty(t *testing.T) {
	view := sampleTables().View()

	if got := view.Dimension(0, DimAge); got != "30" {
		t.Fatalf("age = %q", got)
	}
	if got := view.Dimension(0, DimJoinDate); got != "2022-03-04" {
		t.Fatalf("join date = %q", got)
	}
	for _, key := range []string{DimAge, DimGender, DimJoinDate, DimLoyaltyTier} {
		if got := view.Dimension(1, key); got != "" {
			t.Errorf("unmatched %s = %q, want empty", key, got)
		}
	}
	if got := view.Dimension(1, DimCustomerID); got != "4242" {
		t.Fatalf("customer id = %q", got)
	}
	if got := view.Measure(1, MeasRevenue); got != 360 {
		t.Fatalf("revenue = %v", got)
	}
	if got := view.Dimension(1, DimDate); got != "2023-05-01" {
		t.Fatalf("date = %q", got)
	}
}

func TestUnmatchedRowsDropOutOfTierGrouping(t *testing.T) {
	view := sampleTables().View()
	groups := engine.GroupAndAggregate(view, DimLoyaltyTier, MeasRevenue, "sum", "label_asc", 0)
	if len(groups) != 1 || groups[0].Key != "Gold" || groups[0].Value != 1000 {
		t.Fatalf("tier groups = %+v", groups)
	}
}
