package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	DashboardRows    prometheus.Histogram
	ExportedRows     prometheus.Counter
	DatasetRows      prometheus.Gauge
	DatasetCustomers prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplytics_http_requests_total",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shoplytics_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	dashboardRows := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shoplytics_dashboard_filtered_rows",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	exported := prometheus.NewCounter(prometheus.CounterOpts{Name: "shoplytics_export_rows_total"})
	datasetRows := prometheus.NewGauge(prometheus.GaugeOpts{Name: "shoplytics_dataset_rows"})
	datasetCustomers := prometheus.NewGauge(prometheus.GaugeOpts{Name: "shoplytics_dataset_customers"})

	r.MustRegister(requests, duration, dashboardRows, exported, datasetRows, datasetCustomers)
	return &Registry{
		reg:              r,
		Requests:         requests,
		RequestDuration:  duration,
		DashboardRows:    dashboardRows,
		ExportedRows:     exported,
		DatasetRows:      datasetRows,
		DatasetCustomers: datasetCustomers,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
