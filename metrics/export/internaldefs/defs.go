package internaldefs

import (
	"github.com/salonhub/admincore"
)

// CounterDef binds a counter slot to its exported name.
type CounterDef struct {
	ID   admincore.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram slot to its exported name.
type HistogramDef struct {
	ID   admincore.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: admincore.MetricLoginSuccess, Name: "admincore_login_success_total", Help: "Successful login flows."},
	{ID: admincore.MetricLoginFailure, Name: "admincore_login_failure_total", Help: "Login flows rejected by the provider or directory."},
	{ID: admincore.MetricLoginInvalid, Name: "admincore_login_invalid_total", Help: "Login forms rejected by local validation."},
	{ID: admincore.MetricLogout, Name: "admincore_logout_total", Help: "Logout operations."},
	{ID: admincore.MetricHydrateRestored, Name: "admincore_hydrate_restored_total", Help: "Hydrations that recovered a persisted identity."},
	{ID: admincore.MetricHydrateEmpty, Name: "admincore_hydrate_empty_total", Help: "Hydrations that found no persisted envelope."},
	{ID: admincore.MetricHydrateDiscarded, Name: "admincore_hydrate_discarded_total", Help: "Persisted envelopes discarded as unreadable."},
	{ID: admincore.MetricGuardRedirect, Name: "admincore_guard_redirect_total", Help: "Guard transitions into the unauthenticated state."},
	{ID: admincore.MetricProxyError, Name: "admincore_proxy_error_total", Help: "Failed resource proxy requests."},
	{ID: admincore.MetricRollback, Name: "admincore_rollback_total", Help: "Optimistic list mutations rolled back."},
}

var HistogramDefs = []HistogramDef{
	{ID: admincore.MetricLoginLatency, Name: "admincore_login_latency_seconds", Help: "Login end-to-end latency histogram."},
}

// HistogramBounds are the upper bounds of the latency buckets, in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms use.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
