// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/spektr-org/shoplytics/dashboard"
	"github.com/spektr-org/shoplytics/dataset"
	"github.com/spektr-org/shoplytics/engine"
	"github.com/spektr-org/shoplytics/helpers"
	"github.com/spektr-org/shoplytics/internal/errs"
	"github.com/spektr-org/shoplytics/internal/logging"
	"github.com/spektr-org/shoplytics/internal/metrics"
	"github.com/spektr-org/shoplytics/schema"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	view     engine.RecordView
	defaults dashboard.Controls
	schema   schema.Config
	metrics  *metrics.Registry
	baseCtx  context.Context
}

// New serves tables generated from opts. ctx carries the base logger.
func New(ctx context.Context, tables *dataset.Tables, opts dataset.Options, reg *metrics.Registry) *Server {
	if ctx == nil {
		ctx = context.Background()
	}
	view := tables.View()
	reg.DatasetRows.Set(float64(view.Len()))
	reg.DatasetCustomers.Set(float64(len(tables.Customers)))

	return &Server{
		view:     view,
		defaults: dashboard.DefaultControls(opts),
		schema:   schema.Describe(),
		metrics:  reg,
		baseCtx:  logging.WithAttrs(ctx, slog.String("component", "server")),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/schema", s.handleSchema)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/export.csv", s.handleExport)
	})
	return r
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	c, err := dashboard.ParseControls(r.URL.Query(), s.defaults)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Options(s.view, c.Start, c.End))
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.schema)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	c, err := dashboard.ParseControls(r.URL.Query(), s.defaults)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	d := dashboard.Build(r.Context(), s.view, c)
	s.metrics.DashboardRows.Observe(float64(d.RowCount))
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, err := dashboard.ParseControls(r.URL.Query(), s.defaults)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	rows := dashboard.Filter(s.view, c)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+helpers.ExportFilename+`"`)
	if err := helpers.WriteRowsCSV(w, rows, s.schema); err != nil {
		// Headers are already out; all we can do is log.
		logging.Error(r.Context(), "export failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	s.metrics.ExportedRows.Add(float64(rows.Len()))
	logging.Info(r.Context(), "rows exported", slog.Int("rows", rows.Len()))
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	logging.Warn(r.Context(), "invalid controls", slog.Any("err", errs.Loggable(err)))
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// requestID reuses the caller's X-Request-ID or assigns a fresh one, and
// scopes the request logger with it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.WithLogger(r.Context(), logging.Logger(s.baseCtx))
		ctx = logging.WithAttrs(ctx, append(logging.Attrs(s.baseCtx),
			slog.String("request_id", id),
			slog.String("route", r.URL.Path))...)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(began)
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		logging.Debug(r.Context(), "request served",
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
