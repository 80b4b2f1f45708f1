// Package dataset synthesizes the e-commerce sales and customer tables and
// joins them into the rows the dashboard filters and aggregates.
package dataset

import (
	"sync"
	"time"
)

// Products and the category each one belongs to, index-aligned.
var (
	Products   = []string{"Laptop", "Phone", "Tablet", "Headphones", "Smartwatch", "Camera"}
	categoryOf = []string{"Electronics", "Electronics", "Electronics", "Accessories", "Accessories", "Electronics"}
)

var (
	Categories   = []string{"Electronics", "Accessories"}
	Regions      = []string{"North", "South", "East", "West"}
	Genders      = []string{"Male", "Female"}
	LoyaltyTiers = []string{"Bronze", "Silver", "Gold"}

	Discounts       = []float64{0, 0.05, 0.1, 0.15, 0.2}
	discountWeights = []float64{0.5, 0.2, 0.15, 0.1, 0.05}
	tierWeights     = []float64{0.6, 0.3, 0.1}
)

// CategoryOf returns the category of a product, or "" if unknown.
func CategoryOf(product string) string {
	for i, p := range Products {
		if p == product {
			return categoryOf[i]
		}
	}
	return ""
}

// SalesEvent is one order line.
type SalesEvent struct {
	Date       time.Time `json:"date"`
	Product    string    `json:"product"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	Revenue    float64   `json:"revenue"`
	Discount   float64   `json:"discount"`
	Region     string    `json:"region"`
	CustomerID int       `json:"customerId"`
}

// Customer is keyed by CustomerID.
type Customer struct {
	CustomerID  int       `json:"customerId"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	JoinDate    time.Time `json:"joinDate"`
	LoyaltyTier string    `json:"loyaltyTier"`
}

// Row is a sales event left-joined to its customer. When Matched is false
// Customer is the zero value and every customer field reads as empty.
type Row struct {
	Sale     SalesEvent `json:"sale"`
	Customer Customer   `json:"customer"`
	Matched  bool       `json:"matched"`
}

// Tables holds both generated tables. Treat it as read-only once built and
// pass it by pointer.
type Tables struct {
	Sales     []SalesEvent
	Customers []Customer

	joinOnce sync.Once
	rows     []Row
}

// Rows returns the sales table left-joined to customers. The join is
// computed once per Tables value.
func (t *Tables) Rows() []Row {
	t.joinOnce.Do(func() {
		t.rows = Join(t.Sales, t.Customers)
	})
	return t.rows
}
