/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "astradb_node"

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector holds the Prometheus metrics of the node. A nil *Collector is valid
// and records nothing.
type Collector struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Items      *prometheus.CounterVec
	Executions prometheus.Counter
}

// NewCollector creates a collector and registers its metrics on reg. A nil reg
// gets a fresh registry so collectors never collide.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of collection operations",
		},
		[]string{"operation", "status"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Collection operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "output_items_total",
			Help:      "Total number of output items emitted",
		},
		[]string{"operation"},
	)

	executions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "executions_total",
			Help:      "Total number of node executions",
		},
	)

	reg.MustRegister(operations, duration, items, executions)

	return &Collector{
		Operations: operations,
		Duration:   duration,
		Items:      items,
		Executions: executions,
	}
}

// ObserveOperation records one database call and its latency.
func (c *Collector) ObserveOperation(operation string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	c.Operations.WithLabelValues(operation, status).Inc()
	c.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// AddItems counts emitted output items.
func (c *Collector) AddItems(operation string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Items.WithLabelValues(operation).Add(float64(n))
}

// IncExecutions counts one node execution.
func (c *Collector) IncExecutions() {
	if c == nil {
		return
	}
	c.Executions.Inc()
}
