package bootstrap

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/spektr-org/shoplytics/internal/logging"
)

func testConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
log:
  level: error
server:
  addr: "127.0.0.1:0"
dataset:
  seed: 3
  start: "2023-05-01"
  end: "2023-05-07"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newApp(t *testing.T, extra ...fx.Option) *fx.App {
	t.Helper()

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&logs, "error"))
	cfgFile := testConfig(t)

	opts := []fx.Option{
		Module,
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		fx.Provide(
			fx.Annotate(
				func() string { return cfgFile },
				fx.ResultTags(`name:"configFile"`),
			),
		),
	}
	return fx.New(append(opts, extra...)...)
}

func TestModuleBuildsDataset(t *testing.T) {
	var app *App
	fxApp := newApp(t, fx.Populate(&app))
	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx.New: %v", err)
	}

	if app.Dataset.Options.Seed != 3 {
		t.Fatalf("seed = %d", app.Dataset.Options.Seed)
	}
	days := map[string]bool{}
	for _, s := range app.Dataset.Tables.Sales {
		days[s.Date.Format("2006-01-02")] = true
	}
	if len(days) != 7 {
		t.Fatalf("days = %d, want 7", len(days))
	}
	if app.Ctx == nil || app.Metrics == nil {
		t.Fatal("app not fully wired")
	}
}

func TestHTTPModuleLifecycle(t *testing.T) {
	var h *HTTPServer
	fxApp := newApp(t, HTTPModule, fx.Populate(&h))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := http.Get("http://" + h.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("healthz body = %q", body)
	}

	if err := fxApp.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := http.Get("http://" + h.Addr().String() + "/healthz"); err == nil {
		t.Fatal("server still answering after stop")
	}
}
