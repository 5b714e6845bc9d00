// Package metrics exposes analysis metrics through a dedicated prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alegato"

// Recorder receives analysis measurements
type Recorder interface {
	ObserveEngine(engine string, elapsed time.Duration)
	AddFindings(engine string, severity string, n int)
	AlignmentOutcome(outcome string) // found, absent, error, skipped
	DocumentAnalyzed(status string)  // ok, empty, error
	ObserveScore(score float64)
}

// Default buckets
var (
	EngineDurationBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}
	ScoreBuckets          = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// Metrics is the prometheus-backed Recorder
type Metrics struct {
	registry       *prometheus.Registry
	engineDuration *prometheus.HistogramVec
	findings       *prometheus.CounterVec
	alignment      *prometheus.CounterVec
	documents      *prometheus.CounterVec
	score          prometheus.Histogram
}

// New registers all metrics on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		engineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_duration_seconds",
			Help:      "Time spent in each analysis engine",
			Buckets:   EngineDurationBuckets,
		}, []string{"engine"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings emitted per engine and severity",
		}, []string{"engine", "severity"}),
		alignment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alignment_requests_total",
			Help:      "Precedent alignment requests by outcome",
		}, []string{"outcome"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents analyzed by status",
		}, []string{"status"}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_score",
			Help:      "Distribution of final decision scores",
			Buckets:   ScoreBuckets,
		}),
	}

	m.registry.MustRegister(m.engineDuration, m.findings, m.alignment, m.documents, m.score)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEngine records how long an engine ran
func (m *Metrics) ObserveEngine(engine string, elapsed time.Duration) {
	m.engineDuration.WithLabelValues(engine).Observe(elapsed.Seconds())
}

// AddFindings counts findings of one severity
func (m *Metrics) AddFindings(engine string, severity string, n int) {
	if n <= 0 {
		return
	}
	m.findings.WithLabelValues(engine, severity).Add(float64(n))
}

// AlignmentOutcome counts one precedent alignment request
func (m *Metrics) AlignmentOutcome(outcome string) {
	m.alignment.WithLabelValues(outcome).Inc()
}

// DocumentAnalyzed counts one analyzed document
func (m *Metrics) DocumentAnalyzed(status string) {
	m.documents.WithLabelValues(status).Inc()
}

// ObserveScore records a final decision score
func (m *Metrics) ObserveScore(score float64) {
	m.score.Observe(score)
}

// WriteTextfile dumps the registry in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveEngine(string, time.Duration) {}
func (nopRecorder) AddFindings(string, string, int)     {}
func (nopRecorder) AlignmentOutcome(string)             {}
func (nopRecorder) DocumentAnalyzed(string)             {}
func (nopRecorder) ObserveScore(float64)                {}

// NewNop returns a Recorder that drops every measurement
func NewNop() Recorder { return nopRecorder{} }
