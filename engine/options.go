package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for ComputeKPIs and builders
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	RevenueMeasure    string
	CustomerDimension string
	Currency          string
}

// WithRevenueMeasure sets the measure summed into total revenue.
func WithRevenueMeasure(measure string) Option {
	return func(c *config) {
		c.RevenueMeasure = measure
	}
}

// WithCustomerDimension sets the dimension counted for unique customers.
func WithCustomerDimension(dimension string) Option {
	return func(c *config) {
		c.CustomerDimension = dimension
	}
}

// WithCurrency sets the prefix used for formatted money values.
func WithCurrency(symbol string) Option {
	return func(c *config) {
		c.Currency = symbol
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		RevenueMeasure:    "revenue",
		CustomerDimension: "customer_id",
		Currency:          "$",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
