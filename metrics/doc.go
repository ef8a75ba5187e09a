// Package metrics exposes Prometheus counters and histograms for node executions.
package metrics
