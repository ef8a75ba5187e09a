/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector(nil)

	c.ObserveOperation("findOne", 5*time.Millisecond, nil)
	c.ObserveOperation("findOne", time.Millisecond, errors.New("boom"))
	c.ObserveOperation("insertOne", time.Millisecond, nil)
	c.AddItems("findMany", 3)
	c.AddItems("findMany", 0)
	c.IncExecutions()

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"findOne success", testutil.ToFloat64(c.Operations.WithLabelValues("findOne", StatusSuccess)), 1},
		{"findOne error", testutil.ToFloat64(c.Operations.WithLabelValues("findOne", StatusError)), 1},
		{"findMany items", testutil.ToFloat64(c.Items.WithLabelValues("findMany")), 3},
		{"executions", testutil.ToFloat64(c.Executions), 1},
	}
	for _, tc := range checks {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
	if n := testutil.CollectAndCount(c.Duration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestCollectorUsesCallerRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.IncExecutions()

	n, err := testutil.GatherAndCount(reg, "astradb_node_executions_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected executions_total on the supplied registry, got %d series", n)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected registering twice on the same registry to panic")
		}
	}()
	NewCollector(reg)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveOperation("findOne", time.Second, nil)
	c.AddItems("findOne", 1)
	c.IncExecutions()
}
