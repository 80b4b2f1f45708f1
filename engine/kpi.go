package engine

// ComputeKPIs derives the headline cards from a filtered view. Average order
// value over zero orders is 0.
func ComputeKPIs(view RecordView, opts ...Option) KPIs {
	cfg := applyOptions(opts)

	k := KPIs{
		TotalRevenue:    SumMeasure(view, cfg.RevenueMeasure),
		TotalOrders:     view.Len(),
		UniqueCustomers: CountUnique(view, cfg.CustomerDimension),
	}
	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalRevenue / float64(k.TotalOrders)
	}

	k.Formatted = map[string]string{
		"totalRevenue":    FormatCurrency(k.TotalRevenue, cfg.Currency),
		"totalOrders":     FormatInt(k.TotalOrders),
		"avgOrderValue":   FormatCurrency(k.AvgOrderValue, cfg.Currency),
		"uniqueCustomers": FormatInt(k.UniqueCustomers),
	}
	return k
}
