package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/spectrace/workflow"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feature status as JSON for dashboard consumers",
		Long: `Serve exposes the engine's computed state over HTTP. Every request
recomputes from a fresh document snapshot; the server holds no state beyond
Prometheus metrics.

  GET /api/features                 list feature slugs
  GET /api/features/{feature}       full status for one feature
  GET /metrics                      Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := opts.engine()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serveStatus(ctx, engine, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// serverMetrics are the Prometheus instruments for the status server.
type serverMetrics struct {
	computeTotal    *prometheus.CounterVec
	computeDuration prometheus.Histogram
	gateOpen        *prometheus.GaugeVec
	untestedReqs    *prometheus.GaugeVec
	unimplemented   *prometheus.GaugeVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		computeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spectrace_compute_total",
			Help: "Status computations, by feature and outcome.",
		}, []string{"feature", "outcome"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spectrace_compute_duration_seconds",
			Help:    "Time to read a snapshot and derive full status.",
			Buckets: prometheus.DefBuckets,
		}),
		gateOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "spectrace_gate_open",
			Help: "1 when the checklist gate is open, 0 when blocked.",
		}, []string{"feature"}),
		untestedReqs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "spectrace_untested_requirements",
			Help: "Requirements with no scenario coverage, per feature.",
		}, []string{"feature"}),
		unimplemented: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "spectrace_unimplemented_tests",
			Help: "Scenarios with no implementing task, per feature.",
		}, []string{"feature"}),
	}
	reg.MustRegister(m.computeTotal, m.computeDuration, m.gateOpen, m.untestedReqs, m.unimplemented)
	return m
}

// observe records one computation's result.
func (m *serverMetrics) observe(status *workflow.Status, elapsed time.Duration) {
	m.computeTotal.WithLabelValues(status.Feature, "ok").Inc()
	m.computeDuration.Observe(elapsed.Seconds())

	open := 0.0
	if status.Gate.Status == "open" {
		open = 1.0
	}
	m.gateOpen.WithLabelValues(status.Feature).Set(open)
	m.untestedReqs.WithLabelValues(status.Feature).Set(float64(len(status.Graph.Gap.UntestedRequirements)))
	m.unimplemented.WithLabelValues(status.Feature).Set(float64(len(status.Graph.Gap.UnimplementedTests)))
}

// statusReport wraps a Status with a per-response report id so dashboard
// consumers can correlate fetches.
type statusReport struct {
	ReportID string `json:"report_id"`
	*workflow.Status
}

func serveStatus(ctx context.Context, engine *workflow.Engine, addr string) error {
	registry := prometheus.NewRegistry()
	metrics := newServerMetrics(registry)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/features", func(w http.ResponseWriter, r *http.Request) {
		features, err := engine.Manager().ListFeatures()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"features": features})
	})

	mux.HandleFunc("GET /api/features/{feature}", func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("feature")

		start := time.Now()
		status, err := engine.Compute(r.Context(), slug)
		if err != nil {
			metrics.computeTotal.WithLabelValues(slug, "error").Inc()
			code := http.StatusInternalServerError
			if errors.Is(err, workflow.ErrFeatureNotFound) || errors.Is(err, workflow.ErrInvalidSlug) {
				code = http.StatusNotFound
			}
			http.Error(w, err.Error(), code)
			return
		}
		metrics.observe(status, time.Since(start))

		writeJSONResponse(w, http.StatusOK, statusReport{
			ReportID: uuid.New().String(),
			Status:   status,
		})
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Status server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("Status server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func writeJSONResponse(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}
