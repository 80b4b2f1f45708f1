package dataset

import (
	"math/rand/v2"
	"time"
)

// Options controls synthesis. Zero fields take DefaultOptions values.
type Options struct {
	Seed  uint64
	Start time.Time
	End   time.Time
	// Events per day are drawn from [MinDaily, MaxDaily).
	MinDaily int
	MaxDaily int
}

// DefaultOptions is one year of 2023 sales from seed 42.
func DefaultOptions() Options {
	return Options{
		Seed:     42,
		Start:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		MinDaily: 5,
		MaxDaily: 20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Start.IsZero() {
		o.Start = d.Start
	}
	if o.End.IsZero() {
		o.End = d.End
	}
	if o.MinDaily <= 0 {
		o.MinDaily = d.MinDaily
	}
	if o.MaxDaily <= 0 {
		o.MaxDaily = d.MaxDaily
	}
	o.Start = truncateDay(o.Start)
	o.End = truncateDay(o.End)
	return o
}

var (
	joinWindowStart = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	joinWindowDays  = 366 // through 2023-01-01 inclusive
)

const (
	minPrice      = 100.0
	maxPrice      = 2000.0
	minCustomerID = 1000
	maxCustomerID = 9999 // exclusive
	minAge        = 18
	maxAge        = 70 // exclusive
)

// Generate builds the sales and customer tables. Identical options always
// produce identical tables.
func Generate(opts Options) *Tables {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var sales []SalesEvent
	for day := opts.Start; !day.After(opts.End); day = day.AddDate(0, 0, 1) {
		n := opts.MinDaily
		if opts.MaxDaily > opts.MinDaily {
			n += rng.IntN(opts.MaxDaily - opts.MinDaily)
		}
		for j := 0; j < n; j++ {
			sales = append(sales, drawSale(rng, day))
		}
	}

	return &Tables{
		Sales:     sales,
		Customers: drawCustomers(rng, sales),
	}
}

func drawSale(rng *rand.Rand, day time.Time) SalesEvent {
	idx := rng.IntN(len(Products))
	price := minPrice + rng.Float64()*(maxPrice-minPrice)
	qty := 1 + rng.IntN(2)
	region := Regions[rng.IntN(len(Regions))]
	discount := Discounts[weightedIndex(rng, discountWeights)]

	return SalesEvent{
		Date:       day,
		Product:    Products[idx],
		Category:   categoryOf[idx],
		Price:      price,
		Quantity:   qty,
		Revenue:    price * float64(qty) * (1 - discount),
		Discount:   discount,
		Region:     region,
		CustomerID: minCustomerID + rng.IntN(maxCustomerID-minCustomerID),
	}
}

// drawCustomers creates one customer per distinct CustomerID in sales, in
// order of first appearance.
func drawCustomers(rng *rand.Rand, sales []SalesEvent) []Customer {
	seen := make(map[int]bool)
	var customers []Customer
	for _, s := range sales {
		if seen[s.CustomerID] {
			continue
		}
		seen[s.CustomerID] = true
		customers = append(customers, Customer{
			CustomerID:  s.CustomerID,
			Age:         minAge + rng.IntN(maxAge-minAge),
			Gender:      Genders[rng.IntN(len(Genders))],
			JoinDate:    joinWindowStart.AddDate(0, 0, rng.IntN(joinWindowDays)),
			LoyaltyTier: LoyaltyTiers[weightedIndex(rng, tierWeights)],
		})
	}
	return customers
}

// weightedIndex draws an index with probability proportional to weights.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
