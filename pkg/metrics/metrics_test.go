package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStatsCollector(t *testing.T) {
	c := cache.New(2)
	c.Put(&cache.Entry{Key: cache.KeyOf([]byte("a"))})
	c.Get(cache.KeyOf([]byte("a")))
	c.Get(cache.KeyOf([]byte("b")))

	collector := NewCacheStatsCollector(c)

	assert.Equal(t, 5, testutil.CollectAndCount(collector))
	expected := `
# HELP capacity_planner_dataset_cache_hits_total Lookups served from the cache.
# TYPE capacity_planner_dataset_cache_hits_total counter
capacity_planner_dataset_cache_hits_total 1
# HELP capacity_planner_dataset_cache_entries Number of cached datasets.
# TYPE capacity_planner_dataset_cache_entries gauge
capacity_planner_dataset_cache_entries 1
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"capacity_planner_dataset_cache_hits_total", "capacity_planner_dataset_cache_entries"))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(exportsTotalMetric.WithLabelValues("csv", StateSuccess))
	IncreaseExportsTotal("csv", StateSuccess)
	assert.Equal(t, before+1, testutil.ToFloat64(exportsTotalMetric.WithLabelValues("csv", StateSuccess)))

	before = testutil.ToFloat64(analysesTotalMetric.WithLabelValues(StateFailed))
	IncreaseAnalysesTotal(StateFailed)
	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotalMetric.WithLabelValues(StateFailed)))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := NewMiddleware("test")
	reg := prometheus.NewRegistry()
	for _, c := range m.Collectors() {
		reg.MustRegister(c)
	}

	router := chi.NewRouter()
	router.Use(m.Handler)
	router.Get("/datasets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/datasets/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("200", http.MethodGet, "/datasets/{id}")))
}
