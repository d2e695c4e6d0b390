package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestImportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)
	m.ObserveRun("openfoodfacts", "done", 2*time.Second)
	m.AddRecords("openfoodfacts", "inserted", 40)
	m.AddRecords("openfoodfacts", "inserted", 2)
	m.AddRecords("openfoodfacts", "rejected", 0)
	m.AddFailedPages("", 3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "food_import_records_total", "outcome", "inserted")
	require.NoError(t, err)
	require.Equal(t, 42.0, got)

	_, err = fetchCounterValue(mfs, "food_import_records_total", "outcome", "rejected")
	require.Error(t, err)

	got, err = fetchCounterValue(mfs, "food_import_runs_total", "state", "done")
	require.NoError(t, err)
	require.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "food_import_failed_pages_total", "source", "unknown")
	require.NoError(t, err)
	require.Equal(t, 3.0, got)

	sum, err := fetchHistogramSum(mfs, "food_import_duration_seconds", "source", "openfoodfacts")
	require.NoError(t, err)
	require.Equal(t, 2.0, sum)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/foods/{id}", 404, 10*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", "status", "404")
	require.NoError(t, err)
	require.Equal(t, 1.0, got)
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewImportMetrics(nil).ObserveRun("x", "done", time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)

	var m *ImportMetrics
	m.AddRecords("x", "inserted", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
