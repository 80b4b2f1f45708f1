package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	r := NewRegistry()
	r.Requests.WithLabelValues("/api/dashboard", "200").Inc()
	r.ExportedRows.Add(42)
	r.DatasetRows.Set(4500)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`shoplytics_http_requests_total{code="200",route="/api/dashboard"} 1`,
		"shoplytics_export_rows_total 42",
		"shoplytics_dataset_rows 4500",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.ExportedRows.Inc()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if strings.Contains(rec.Body.String(), "shoplytics_export_rows_total 1") {
		t.Fatal("counter leaked across registries")
	}
}
