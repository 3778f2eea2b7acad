// Package promquantity exposes the counters of a [quantity.System] as
// Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(promquantity.NewCollector(sys))
package promquantity

import (
	"github.com/govalues/quantity"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a [Collector].
type Option func(*options)

type options struct {
	namespace string
	labels    prometheus.Labels
}

// WithNamespace sets the namespace of the metric names.
// The default is "quantity".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels adds constant labels to all metrics, for example to tell
// apart several systems in one process.
func WithConstLabels(l prometheus.Labels) Option {
	return func(o *options) {
		o.labels = l
	}
}

// Collector implements [prometheus.Collector] by reading [quantity.Stats]
// on each scrape.
type Collector struct {
	sys *quantity.System

	types              *prometheus.Desc
	units              *prometheus.Desc
	cacheHits          *prometheus.Desc
	cacheMisses        *prometheus.Desc
	conversions        *prometheus.Desc
	conversionFailures *prometheus.Desc
}

// NewCollector returns a collector for sys.
func NewCollector(sys *quantity.System, opts ...Option) *Collector {
	o := options{namespace: "quantity"}
	for _, opt := range opts {
		opt(&o)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(o.namespace, "", name), help, nil, o.labels)
	}
	return &Collector{
		sys:                sys,
		types:              desc("types", "Number of declared quantity types."),
		units:              desc("units", "Number of declared units."),
		cacheHits:          desc("cache_hits_total", "Number of arithmetic results served from the operation cache."),
		cacheMisses:        desc("cache_misses_total", "Number of arithmetic results computed and added to the operation cache."),
		conversions:        desc("conversions_total", "Number of unit conversions between distinct units."),
		conversionFailures: desc("conversion_failures_total", "Number of unit conversions without a conversion path."),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.types
	ch <- c.units
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.conversions
	ch <- c.conversionFailures
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.sys.Stats()
	ch <- prometheus.MustNewConstMetric(c.types, prometheus.GaugeValue, float64(st.Types))
	ch <- prometheus.MustNewConstMetric(c.units, prometheus.GaugeValue, float64(st.Units))
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.CounterValue, float64(st.CacheHits))
	ch <- prometheus.MustNewConstMetric(c.cacheMisses, prometheus.CounterValue, float64(st.CacheMisses))
	ch <- prometheus.MustNewConstMetric(c.conversions, prometheus.CounterValue, float64(st.Conversions))
	ch <- prometheus.MustNewConstMetric(c.conversionFailures, prometheus.CounterValue, float64(st.ConversionFailures))
}
