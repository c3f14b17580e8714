package admincore

import (
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricLoginLatency, time.Millisecond)

	if m.Enabled() {
		t.Error("Enabled() = true for disabled metrics")
	}
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Errorf("Value = %d, want 0", got)
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Errorf("Snapshot not empty: %+v", snap)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLogout)
	m.Observe(MetricLoginLatency, time.Second)
	if m.Enabled() {
		t.Error("Enabled() = true on nil receiver")
	}
	if got := m.Value(MetricLogout); got != 0 {
		t.Errorf("Value = %d on nil receiver", got)
	}
	snap := m.Snapshot()
	if snap.Counters == nil || snap.Histograms == nil {
		t.Error("Snapshot maps not initialized on nil receiver")
	}
}

func TestMetricsCountersAndLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricProxyError)

	m.Observe(MetricLoginLatency, 2*time.Millisecond)   // bucket 0
	m.Observe(MetricLoginLatency, 80*time.Millisecond)  // bucket 4
	m.Observe(MetricLoginLatency, 900*time.Millisecond) // bucket 7

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Errorf("MetricLoginSuccess = %d, want 2", got)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricLoginLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	if buckets[0] != 1 || buckets[4] != 1 || buckets[7] != 1 {
		t.Errorf("buckets = %v, want samples in 0, 4, 7", buckets)
	}

	// Snapshot is a copy: mutating it must not touch the live metrics.
	snap.Counters[MetricLoginSuccess] = 99
	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Errorf("live counter changed through snapshot copy: %d", got)
	}
}

func TestMetricsLatencyDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricLoginLatency, time.Millisecond)

	snap := m.Snapshot()
	if len(snap.Histograms) != 0 {
		t.Errorf("histograms recorded without latency enabled: %+v", snap.Histograms)
	}
}
