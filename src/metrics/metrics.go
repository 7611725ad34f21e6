// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package metrics records catalog and dispatcher activity in a Prometheus
// registry owned by each server instance.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without instrumentation in tests.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the collectors of one server instance.
type Metrics struct {
	registry *prometheus.Registry

	populations       prometheus.Counter
	groupLoads        *prometheus.CounterVec
	groupResources    *prometheus.GaugeVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// New creates collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates collectors on registry.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		populations: factory.NewCounter(prometheus.CounterOpts{
			Name: "pattern_catalog_populations_total",
			Help: "Number of catalog populations performed",
		}),
		groupLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pattern_catalog_group_loads_total",
				Help: "Resource group load attempts by outcome",
			},
			[]string{"group", "status"},
		),
		groupResources: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pattern_catalog_group_resources",
				Help: "Resources loaded per group",
			},
			[]string{"group"},
		),
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pattern_dispatch_operations_total",
				Help: "Dispatched protocol operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pattern_dispatch_operation_duration_seconds",
				Help:    "Duration of dispatched protocol operations in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObservePopulation counts one completed catalog population.
func (m *Metrics) ObservePopulation() {
	if m == nil {
		return
	}
	m.populations.Inc()
}

// ObserveGroupLoad records the outcome of loading one resource group.
// It satisfies catalog.GroupObserver.
func (m *Metrics) ObserveGroupLoad(group string, count int, err error) {
	if m == nil {
		return
	}
	m.groupLoads.WithLabelValues(group, statusOf(err)).Inc()
	m.groupResources.WithLabelValues(group).Set(float64(count))
}

// ObserveOperation records one dispatched operation.
func (m *Metrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, statusOf(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// Snapshot flattens counters and gauges into name{labels} keys, and
// histograms into their sample count, for inclusion in status reports.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	if m == nil {
		return map[string]float64{}, nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
			}
			sort.Strings(labels)

			key := family.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				out[family.GetName()+"_count"+strings.TrimPrefix(key, family.GetName())] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
