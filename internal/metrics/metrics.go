// Package metrics exposes Prometheus metrics for the daily scan.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Skip reason label values.
const (
	SkipHistory = "insufficient_history"
	SkipFetch   = "fetch_failed"
)

// Metrics holds all Prometheus metrics for the scan engine.
type Metrics struct {
	InstrumentsScanned prometheus.Counter
	InstrumentsSkipped *prometheus.CounterVec // labels: reason
	CandidatesRanked   prometheus.Gauge
	EntriesExecuted    prometheus.Counter
	ExitsExecuted      *prometheus.CounterVec // labels: reason
	ScanDuration       prometheus.Histogram
	TotalEquity        prometheus.Gauge
	OpenPositions      prometheus.Gauge
}

// New registers and returns all scan metrics.
func New() *Metrics {
	m := &Metrics{
		InstrumentsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_instruments_scanned_total",
			Help: "Instruments with sufficient history that were classified",
		}),
		InstrumentsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_instruments_skipped_total",
			Help: "Instruments skipped during the scan, by reason",
		}, []string{"reason"}),
		CandidatesRanked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_candidates_ranked",
			Help: "Entry candidates in the last ranking pass",
		}),
		EntriesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_entries_executed_total",
			Help: "Entry transitions applied to the ledger",
		}),
		ExitsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_exits_executed_total",
			Help: "Exit transitions applied to the ledger, by reason",
		}, []string{"reason"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanner_scan_duration_seconds",
			Help:    "Wall-clock duration of a full scan pass",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s .. ~4m
		}),
		TotalEquity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_total_equity_dollars",
			Help: "Total equity after the last scan",
		}),
		OpenPositions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_open_positions",
			Help: "Open positions after the last scan",
		}),
	}

	prometheus.MustRegister(
		m.InstrumentsScanned,
		m.InstrumentsSkipped,
		m.CandidatesRanked,
		m.EntriesExecuted,
		m.ExitsExecuted,
		m.ScanDuration,
		m.TotalEquity,
		m.OpenPositions,
	)
	return m
}

// Server runs an HTTP server exposing /metrics for scrape during and after
// the scan pass.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates the metrics server.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
