// Package metrics exposes Prometheus instrumentation for ingest runs.
// All record methods are nil-receiver safe so one-shot runs can skip
// instrumentation entirely.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the ingest counters and gauges.
type Set struct {
	entriesFetched    *prometheus.CounterVec
	recordsWritten    *prometheus.CounterVec
	duplicatesDropped *prometheus.CounterVec
	sourceErrors      *prometheus.CounterVec
	runDuration       prometheus.Summary
	lastSuccessTS     prometheus.Gauge
}

// NewSet registers the ingest metrics on reg, defaulting to the global
// registerer.
func NewSet(reg prometheus.Registerer) *Set {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &Set{}
	s.entriesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsledger",
		Name:      "entries_fetched_total",
		Help:      "Raw entries fetched per source",
	}, []string{"source"})
	s.recordsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsledger",
		Name:      "records_written_total",
		Help:      "Normalized records written per source",
	}, []string{"source"})
	s.duplicatesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsledger",
		Name:      "duplicates_dropped_total",
		Help:      "Records dropped by within-batch dedupe per source",
	}, []string{"source"})
	s.sourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsledger",
		Name:      "source_errors_total",
		Help:      "Fetch failures per source",
	}, []string{"source"})
	s.runDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "newsledger",
		Name:      "run_duration_seconds",
		Help:      "Time spent on a full ingest run",
	})
	s.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "newsledger",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful run",
	})

	reg.MustRegister(
		s.entriesFetched, s.recordsWritten, s.duplicatesDropped,
		s.sourceErrors, s.runDuration, s.lastSuccessTS,
	)
	return s
}

// AddFetched counts raw entries pulled from a source.
func (s *Set) AddFetched(source string, n int) {
	if s == nil {
		return
	}
	s.entriesFetched.WithLabelValues(source).Add(float64(n))
}

// AddWritten counts records that reached the audit trail.
func (s *Set) AddWritten(source string, n int) {
	if s == nil {
		return
	}
	s.recordsWritten.WithLabelValues(source).Add(float64(n))
}

// AddDuplicates counts records dropped by dedupe.
func (s *Set) AddDuplicates(source string, n int) {
	if s == nil {
		return
	}
	s.duplicatesDropped.WithLabelValues(source).Add(float64(n))
}

// IncSourceError counts a failed fetch.
func (s *Set) IncSourceError(source string) {
	if s == nil {
		return
	}
	s.sourceErrors.WithLabelValues(source).Inc()
}

// ObserveRun records a run duration.
func (s *Set) ObserveRun(d time.Duration) {
	if s == nil {
		return
	}
	s.runDuration.Observe(d.Seconds())
}

// MarkSuccess stamps the last successful run.
func (s *Set) MarkSuccess(at time.Time) {
	if s == nil {
		return
	}
	s.lastSuccessTS.Set(float64(at.Unix()))
}

// Server serves /metrics and /healthz in daemon mode.
type Server struct {
	server *http.Server
}

// NewServer builds the metrics HTTP server on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Serve blocks until the server stops.
func (s *Server) Serve() error { return s.server.ListenAndServe() }

// Shutdown drains and closes the server.
func (s *Server) Shutdown(ctx context.Context) error { return s.server.Shutdown(ctx) }
