package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records the outcome of catalog import runs.
type ImportMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	failedPages *prometheus.CounterVec
}

// NewImportMetrics registers the import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "food_import_duration_seconds",
		Help:    "Duration of food import runs in seconds.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"source"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_import_runs_total",
		Help: "Food import runs by final state.",
	}, []string{"source", "state"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_import_records_total",
		Help: "Records seen by food import runs, by outcome.",
	}, []string{"source", "outcome"})
	failedPages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_import_failed_pages_total",
		Help: "Feed pages that failed to download.",
	}, []string{"source"})
	reg.MustRegister(duration, runs, records, failedPages)
	return &ImportMetrics{
		duration:    duration,
		runs:        runs,
		records:     records,
		failedPages: failedPages,
	}
}

// ObserveRun records the duration and final state of one run.
func (m *ImportMetrics) ObserveRun(source, state string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	source = normalizeLabel(source)
	m.duration.WithLabelValues(source).Observe(duration.Seconds())
	m.runs.WithLabelValues(source, normalizeLabel(state)).Inc()
}

// AddRecords increments the record counter for an outcome such as "inserted".
func (m *ImportMetrics) AddRecords(source, outcome string, n int) {
	if m == nil || m.records == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(normalizeLabel(source), normalizeLabel(outcome)).Add(float64(n))
}

// AddFailedPages increments the failed page counter.
func (m *ImportMetrics) AddFailedPages(source string, n int) {
	if m == nil || m.failedPages == nil || n <= 0 {
		return
	}
	m.failedPages.WithLabelValues(normalizeLabel(source)).Add(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
