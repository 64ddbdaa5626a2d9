package stream

import "github.com/uber-go/tally/v4"

// Counter names emitted by the package. All counting goes through a single
// process-wide scope so embedding applications can watch how often the
// expensive container operations run.
const (
	metricSorts              = "stream_sorts"
	metricFlattenCacheHits   = "flatten_cache_hits"
	metricFlattenCacheMisses = "flatten_cache_misses"
	metricCacheInvalidations = "cache_invalidations"
)

var metricsScope tally.Scope = tally.NoopScope

// SetMetricsScope routes the package counters to the given scope. Passing
// nil restores the no-op default.
func SetMetricsScope(scope tally.Scope) {
	if scope == nil {
		scope = tally.NoopScope
	}
	metricsScope = scope
}

func countEvent(name string) {
	metricsScope.Counter(name).Inc(1)
}
