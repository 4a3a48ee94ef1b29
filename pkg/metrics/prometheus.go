// Package metrics provides Prometheus metrics for the quiver team balancer.
//
// The process is a batch job, so nothing is served over HTTP. When a
// metrics file is configured the registry is dumped in text exposition
// format for the node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all quiver metrics and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	// Search loop
	searchRuns         prometheus.Counter
	searchTrials       prometheus.Counter
	searchImprovements prometheus.Counter
	bestBalance        prometheus.Gauge
	patienceRemaining  prometheus.Gauge
	runDuration        prometheus.Histogram

	// Rosters
	rosterCompetitors *prometheus.GaugeVec
	rosterSkipped     *prometheus.CounterVec

	// Output
	reportsWritten prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager. Without WithRegistry a private
// registry is used so Go runtime collectors never leak into the output.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quiver",
		histogramBuckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "runs_total",
		Help:        "Total number of completed search runs",
		ConstLabels: m.constLabels,
	})

	m.searchTrials = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "trials_total",
		Help:        "Total number of candidate assignments generated and scored",
		ConstLabels: m.constLabels,
	})

	m.searchImprovements = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "improvements_total",
		Help:        "Total number of candidates accepted as a new best",
		ConstLabels: m.constLabels,
	})

	m.bestBalance = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "best_balance",
		Help:        "Balance score (max team total minus min team total) of the current best assignment",
		ConstLabels: m.constLabels,
	})

	m.patienceRemaining = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "patience_remaining",
		Help:        "Non-improving trials left before the search stops",
		ConstLabels: m.constLabels,
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "search",
		Name:        "run_duration_seconds",
		Help:        "Wall time of a single search run",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.rosterCompetitors = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   "roster",
			Name:        "competitors",
			Help:        "Number of competitors loaded per category",
			ConstLabels: m.constLabels,
		},
		[]string{"category"},
	)

	m.rosterSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "roster",
			Name:        "skipped_total",
			Help:        "Roster rows dropped because the competitor has no qualifying score",
			ConstLabels: m.constLabels,
		},
		[]string{"category"},
	)

	m.reportsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "report",
		Name:        "written_total",
		Help:        "Number of team reports written",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every registered metric to path in Prometheus text
// format. The file is replaced atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	return nil
}

// RecordSearchRun records a finished run and its wall time.
func RecordSearchRun(elapsed time.Duration) {
	globalManager.searchRuns.Inc()
	globalManager.runDuration.Observe(elapsed.Seconds())
}

// AddSearchTrials adds n evaluated trials. Callers batch to keep the hot loop cheap.
func AddSearchTrials(n int) {
	if n > 0 {
		globalManager.searchTrials.Add(float64(n))
	}
}

// RecordImprovement counts an accepted candidate and publishes its score.
func RecordImprovement(balance int) {
	globalManager.searchImprovements.Inc()
	globalManager.bestBalance.Set(float64(balance))
}

// UpdateBestBalance publishes the current best balance without counting an improvement.
func UpdateBestBalance(balance int) {
	globalManager.bestBalance.Set(float64(balance))
}

// UpdatePatienceRemaining publishes the countdown value.
func UpdatePatienceRemaining(remaining int) {
	globalManager.patienceRemaining.Set(float64(remaining))
}

// UpdateRosterSize records how many competitors a category contributes.
func UpdateRosterSize(category string, count int) {
	globalManager.rosterCompetitors.WithLabelValues(category).Set(float64(count))
}

// RecordRosterSkipped counts a dropped zero-score row.
func RecordRosterSkipped(category string) {
	globalManager.rosterSkipped.WithLabelValues(category).Inc()
}

// RecordReportWritten counts a successfully written report.
func RecordReportWritten() {
	globalManager.reportsWritten.Inc()
}

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the registry used by the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}
