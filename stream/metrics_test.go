package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"

	"github.com/cuthbertLab/music21-sub003/ql"
)

// Not parallel: the test rewires the package-wide metrics scope.
func TestMetricsCountCacheTraffic(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	SetMetricsScope(scope)
	defer SetMetricsScope(nil)

	p := NewPart("piano")
	m := NewMeasure(1, qn("C4"))
	require.NoError(t, p.Insert(ql.Zero, m))

	p.Flatten(false)
	p.Flatten(false)
	require.NoError(t, p.Insert(ql.FromInt(4), qn("D4")))
	p.Flatten(false)

	counters := scope.Snapshot().Counters()
	hits, ok := counters["flatten_cache_hits+"]
	require.True(t, ok)
	assert.Equal(t, int64(1), hits.Value())
	misses, ok := counters["flatten_cache_misses+"]
	require.True(t, ok)
	assert.Equal(t, int64(2), misses.Value())
	invalidations, ok := counters["cache_invalidations+"]
	require.True(t, ok)
	assert.Equal(t, int64(1), invalidations.Value())
}
