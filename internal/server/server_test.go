package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/internal/logging"
	"github.com/spektr-org/shoplytics/internal/metrics"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	opts := dataset.DefaultOptions()
	opts.End = time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	tables := dataset.Generate(opts)

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&logs, "error"))

	reg := metrics.NewRegistry()
	srv := httptest.NewServer(New(ctx, tables, opts, reg).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthzAndRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/healthz", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
	if id := resp.Header.Get(RequestIDHeader); len(id) != 36 {
		t.Fatalf("generated request id = %q", id)
	}

	resp = get(t, srv.URL+"/healthz", http.Header{RequestIDHeader: {"abc-123"}})
	if id := resp.Header.Get(RequestIDHeader); id != "abc-123" {
		t.Fatalf("request id = %q, want caller's", id)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/dashboard?group=monthly&region=North&raw=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var d dashboard.Dashboard
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.RowCount == 0 || d.KPIs.TotalOrders != d.RowCount {
		t.Fatalf("rows = %d, orders = %d", d.RowCount, d.KPIs.TotalOrders)
	}
	if d.Overview.Trend == nil || len(d.Overview.Trend.Series[0].Data) != 3 {
		t.Fatalf("monthly trend = %+v", d.Overview.Trend)
	}
	if d.Geography.Map == nil || len(d.Geography.Map.Series) != 1 {
		t.Fatalf("map should only show North: %+v", d.Geography.Map)
	}
	if d.Raw == nil {
		t.Fatal("raw preview missing")
	}
}

func TestDashboardRejectsBadControls(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"start=yesterday", "start=2023-03-01&end=2023-02-01", "group=hourly"} {
		resp := get(t, srv.URL+"/api/dashboard?"+q, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", q, resp.StatusCode)
			continue
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
			t.Errorf("%s: body = %v, err = %v", q, body, err)
		}
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/export.csv?category=Accessories&start=2023-02-01&end=2023-02-28", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="ecommerce_data.csv"` {
		t.Errorf("content-disposition = %q", cd)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content-type = %q", ct)
	}

	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) < 2 || rows[0][0] != "Date" {
		t.Fatalf("csv rows = %d", len(rows))
	}
	for _, row := range rows[1:] {
		if row[2] != "Accessories" || !strings.HasPrefix(row[0], "2023-02-") {
			t.Fatalf("row outside filters: %v", row)
		}
	}

	m := get(t, srv.URL+"/metrics", nil)
	body, _ := io.ReadAll(m.Body)
	if !strings.Contains(string(body), `shoplytics_http_requests_total{code="200",route="/api/export.csv"} 1`) {
		t.Errorf("export request not counted:\n%s", body)
	}
}

func TestEmptySelectionExportsHeaderOnly(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/export.csv?product=", nil)
	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
}

func TestOptionsAndSchema(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/options?start=2023-01-01&end=2023-01-31", nil)
	var opts dashboard.SidebarOptions
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts.Regions) != 4 || opts.MaxDate != "2023-01-31" {
		t.Fatalf("options = %+v", opts)
	}

	resp = get(t, srv.URL+"/api/schema", nil)
	var sch struct {
		Name        string   `json:"name"`
		ColumnOrder []string `json:"columnOrder"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sch); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if len(sch.ColumnOrder) != 13 {
		t.Fatalf("schema columns = %d", len(sch.ColumnOrder))
	}
}
