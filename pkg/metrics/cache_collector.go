package metrics

import (
	"fmt"

	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
)

type cacheStatsCollector struct {
	cache     *cache.Cache
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
}

// NewCacheStatsCollector exposes the statistics of the dataset cache.
func NewCacheStatsCollector(c *cache.Cache) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_dataset_cache_%s", capacityPlanner, name)
	}

	return &cacheStatsCollector{
		cache: c,
		entries: prometheus.NewDesc(
			fqName("entries"),
			"Number of cached datasets.",
			nil,
			prometheus.Labels{},
		),
		capacity: prometheus.NewDesc(
			fqName("capacity"),
			"Maximum number of cached datasets.",
			nil,
			prometheus.Labels{},
		),
		hits: prometheus.NewDesc(
			fqName("hits_total"),
			"Lookups served from the cache.",
			nil,
			prometheus.Labels{},
		),
		misses: prometheus.NewDesc(
			fqName("misses_total"),
			"Lookups of unknown datasets.",
			nil,
			prometheus.Labels{},
		),
		evictions: prometheus.NewDesc(
			fqName("evictions_total"),
			"Datasets evicted to stay within capacity.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *cacheStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
}

// Collect implements Collector.
func (c *cacheStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(stats.Entries))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(stats.Capacity))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(stats.Evictions))
}
