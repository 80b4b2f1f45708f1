// Package bootstrap wires configuration, the generated dataset and the HTTP
// server together with fx.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"reflect"
	"sync"

	"go.uber.org/fx"

	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/internal/config"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
	"github.com/spektr-org/shoplytics/internal/metrics"
	"github.com/spektr-org/shoplytics/internal/server"
)

// Module provides the loaded config, the dataset and the App.
var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDataset),
	fx.Provide(metrics.NewRegistry),
	fx.Provide(provideApp),
)

// HTTPModule adds the dashboard HTTP server, started and stopped with the
// fx lifecycle.
var HTTPModule = fx.Options(
	fx.Provide(provideHTTPServer),
	fx.Invoke(func(*HTTPServer) {}),
)

type App struct {
	// Ctx carries the logger configured from Config.Log.
	Ctx     context.Context
	Config  config.Config
	Dataset Dataset
	Metrics *metrics.Registry
}

type Dataset struct {
	Options dataset.Options
	Tables  *dataset.Tables
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDataset(ctx context.Context, cfg config.Config) (Dataset, error) {
	opts, err := cfg.Dataset.Options()
	if err != nil {
		return Dataset{}, errs.Wrap(err, "dataset options")
	}

	var tables *dataset.Tables
	if reflect.DeepEqual(opts, dataset.DefaultOptions()) {
		tables = dataset.Load()
	} else {
		tables = dataset.Generate(opts)
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.dataset")), "dataset ready",
		slog.Uint64("seed", opts.Seed),
		slog.Int("sales", len(tables.Sales)),
		slog.Int("customers", len(tables.Customers)))
	return Dataset{Options: opts, Tables: tables}, nil
}

func provideApp(ctx context.Context, cfg config.Config, ds Dataset, reg *metrics.Registry) *App {
	logger := logging.New(os.Stderr, cfg.Log.Level)
	appCtx := logging.WithLogger(ctx, logger)
	appCtx = logging.WithAttrs(appCtx, slog.String("env", cfg.App.Env))

	return &App{
		Ctx:     appCtx,
		Config:  cfg,
		Dataset: ds,
		Metrics: reg,
	}
}

// HTTPServer is the running dashboard server.
type HTTPServer struct {
	srv *http.Server

	mu   sync.Mutex
	addr net.Addr
}

// Addr is the bound listen address, nil before start.
func (h *HTTPServer) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

func provideHTTPServer(lc fx.Lifecycle, app *App) *HTTPServer {
	logCtx := logging.WithAttrs(app.Ctx, slog.String("component", "bootstrap.http"))
	api := server.New(app.Ctx, app.Dataset.Tables, app.Dataset.Options, app.Metrics)

	h := &HTTPServer{srv: &http.Server{
		Addr:         app.Config.Server.Addr,
		Handler:      api.Routes(),
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", h.srv.Addr)
			if err != nil {
				return errs.Wrapf(err, "listen on %s", h.srv.Addr)
			}
			h.mu.Lock()
			h.addr = ln.Addr()
			h.mu.Unlock()

			logging.Info(logCtx, "http server listening", slog.String("addr", ln.Addr().String()))
			go func() {
				if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logging.Error(logCtx, "http server stopped", slog.Any("err", errs.Loggable(err)))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logging.Info(logCtx, "http server shutting down")
			return errs.Wrap(h.srv.Shutdown(ctx), "shutdown http server")
		},
	})

	return h
}
