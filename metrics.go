// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// forestMetrics are the prometheus collectors of a forest.
type forestMetrics struct {
	created   prometheus.Counter
	reclaimed prometheus.Counter
	unique    *prometheus.CounterVec
	active    prometheus.Gauge
}

func newForestMetrics(c *configs) *forestMetrics {
	labels := prometheus.Labels{"forest": c.name}
	m := &forestMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mdd_nodes_created_total",
			Help:        "Total number of nodes stored in the forest",
			ConstLabels: labels,
		}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mdd_nodes_reclaimed_total",
			Help:        "Total number of nodes reclaimed by garbage collection",
			ConstLabels: labels,
		}),
		unique: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mdd_unique_lookups_total",
			Help:        "Lookups in the unique tables of the forest, by result",
			ConstLabels: labels,
		}, []string{"result"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mdd_nodes_active",
			Help:        "Number of nodes with a positive reference count",
			ConstLabels: labels,
		}),
	}
	register(c, m.created, m.reclaimed, m.unique, m.active)
	return m
}

// tableMetrics are the prometheus collectors of a compute table.
type tableMetrics struct {
	lookups   *prometheus.CounterVec
	evictions prometheus.Counter
	entries   prometheus.Gauge
}

func newTableMetrics(c *configs) *tableMetrics {
	labels := prometheus.Labels{"table": c.name}
	m := &tableMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mdd_compute_table_lookups_total",
			Help:        "Lookups in the compute table, by result (hit, miss or stale)",
			ConstLabels: labels,
		}, []string{"result"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mdd_compute_table_evictions_total",
			Help:        "Entries discarded to make room for a colliding entry",
			ConstLabels: labels,
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mdd_compute_table_entries",
			Help:        "Number of entries in the compute table",
			ConstLabels: labels,
		}),
	}
	register(c, m.lookups, m.evictions, m.entries)
	return m
}

// register adds the collectors to the registerer of c, if any. A failed
// registration (for instance two forests with the same name) is only logged:
// metrics are still updated, just not exported.
func register(c *configs, cs ...prometheus.Collector) {
	if c.registerer == nil {
		return
	}
	for _, col := range cs {
		if err := c.registerer.Register(col); err != nil {
			c.log.Warn("cannot register metrics", zap.String("name", c.name), zap.Error(err))
		}
	}
}
