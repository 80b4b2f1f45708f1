// Package shoplytics is an e-commerce analytics dashboard.
//
// Packages:
//
//	dataset    synthesizes the sales and customer tables and left-joins them
//	engine     filters, groups and aggregates any RecordView and builds
//	           render-ready charts, tables and KPI cards
//	dashboard  parses sidebar controls and assembles the full dashboard
//	schema     describes the joined table's columns
//	helpers    CSV export and re-import
//
// Typical use:
//
//	view := dataset.Load().View()
//	c := dashboard.DefaultControls(dataset.DefaultOptions())
//	c.Categories = []string{"Electronics"}
//	d := dashboard.Build(ctx, view, c)
//
// The cmd/shoplytics binary serves the same dashboard over HTTP and offers
// report, export and snapshot commands.
package shoplytics
