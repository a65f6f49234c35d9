// Package metrics provides Prometheus metrics for the epidemic simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the simulator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Simulation progress metrics.
	daysSimulated        prometheus.Counter
	infections           prometheus.Counter
	reinfections         prometheus.Counter
	vaccinatedInfections prometheus.Counter
	carriers             prometheus.Gauge
	naturalSaves         prometheus.Counter
	vaccineSaves         prometheus.Counter
	dayDuration          prometheus.Histogram

	// Contact-probability search metrics.
	searchRegressionStdev prometheus.Gauge
	searchRunsTotal       prometheus.Counter

	// Driver concurrency metric.
	runsInFlight prometheus.Gauge

	// Result pipeline metric.
	queueEnqueueErrors prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "epicast",
		subsystem:        "sim",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.daysSimulated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "days_simulated_total",
		Help:      "Total number of simulated days stepped across all runs",
	})

	m.infections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "infections_total",
		Help:      "Total number of new infections recorded, scaled",
	})

	m.reinfections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reinfections_total",
		Help:      "Total number of reinfections recorded, scaled",
	})

	m.vaccinatedInfections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vaccinated_infections_total",
		Help:      "Total number of infections of already-vaccinated agents, scaled",
	})

	m.carriers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "carriers",
		Help:      "Size of the infectious prefix on the most recent DailySummary, scaled",
	})

	m.naturalSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "natural_saves_total",
		Help:      "Total number of contacts blocked by natural immunity, scaled",
	})

	m.vaccineSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vaccine_saves_total",
		Help:      "Total number of contacts blocked by vaccine immunity, scaled",
	})

	m.dayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "day_duration_milliseconds",
		Help:      "Wall time for one SimulateDay call, in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.searchRegressionStdev = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "search",
		Name:      "regression_stdev",
		Help:      "Residual standard deviation of the most recent ContactProbabilitySearch result",
	})

	m.searchRunsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "search",
		Name:      "runs_total",
		Help:      "Total number of per-probability probe runs executed across both regression passes",
	})

	m.runsInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "runs_in_flight",
		Help:      "Number of driver runs currently executing",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of result-queue Enqueue calls that dropped an item",
	})
}

// RecordDaysSimulated increments the simulated-days counter by n.
func RecordDaysSimulated(n int) {
	globalManager.daysSimulated.Add(float64(n))
}

// RecordInfections increments the infections counter by the scaled delta.
func RecordInfections(n int) {
	globalManager.infections.Add(float64(n))
}

// RecordReinfections increments the reinfections counter by the scaled delta.
func RecordReinfections(n int) {
	globalManager.reinfections.Add(float64(n))
}

// RecordVaccinatedInfections increments the vaccinated-infections counter
// by the scaled delta.
func RecordVaccinatedInfections(n int) {
	globalManager.vaccinatedInfections.Add(float64(n))
}

// UpdateCarriers sets the current virus_carriers gauge.
func UpdateCarriers(n int) {
	globalManager.carriers.Set(float64(n))
}

// RecordNaturalSaves increments the natural-saves counter by the scaled delta.
func RecordNaturalSaves(n int) {
	globalManager.naturalSaves.Add(float64(n))
}

// RecordVaccineSaves increments the vaccine-saves counter by the scaled delta.
func RecordVaccineSaves(n int) {
	globalManager.vaccineSaves.Add(float64(n))
}

// RecordDayDuration records the wall time of one SimulateDay call.
func RecordDayDuration(d time.Duration) {
	globalManager.dayDuration.Observe(float64(d.Milliseconds()))
}

// UpdateSearchRegressionStdev sets the most recent search's residual stdev.
func UpdateSearchRegressionStdev(stdev float64) {
	globalManager.searchRegressionStdev.Set(stdev)
}

// RecordSearchRuns increments the search probe-run counter by n.
func RecordSearchRuns(n int) {
	globalManager.searchRunsTotal.Add(float64(n))
}

// IncRunsInFlight increments the in-flight driver-run gauge.
func IncRunsInFlight() {
	globalManager.runsInFlight.Inc()
}

// DecRunsInFlight decrements the in-flight driver-run gauge.
func DecRunsInFlight() {
	globalManager.runsInFlight.Dec()
}

// RecordQueueEnqueueError increments the result-queue dropped-item counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
