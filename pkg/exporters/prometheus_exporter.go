/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"github.com/prometheus/client_golang/prometheus"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

const (
	metricNamespace = "gpu_health"
)

var nodeLabels = []string{"node", "cohort"}

var statusValues = map[types.Status]float64{
	types.StatusOK:       0,
	types.StatusDegraded: -1,
	types.StatusOver:     1,
}

// PrometheusExporter publishes the latest report as gauges on its own registry.
type PrometheusExporter struct {
	registry *prometheus.Registry

	gpuCount      *prometheus.GaugeVec
	expectedCount *prometheus.GaugeVec
	status        *prometheus.GaugeVec
	cohortSize    *prometheus.GaugeVec
	skipped       prometheus.Gauge
	lastScan      prometheus.Gauge
	scansTotal    prometheus.Counter
	failuresTotal *prometheus.CounterVec

	// label sets published by the previous report
	nodes   map[nodeSeries]struct{}
	cohorts map[string]struct{}
}

// nodeSeries holds the node and cohort label values of one node.
type nodeSeries [2]string

func NewPrometheusExporter(cluster string) *PrometheusExporter {
	constLabels := prometheus.Labels{}
	if cluster != "" {
		constLabels["cluster"] = cluster
	}
	e := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
	}
	e.gpuCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "node_gpu_count",
			Help:        "Number of GPUs reported by the node inventory",
			ConstLabels: constLabels,
		},
		nodeLabels,
	)
	e.expectedCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "node_expected_gpu_count",
			Help:        "Baseline GPU count of the node's cohort",
			ConstLabels: constLabels,
		},
		nodeLabels,
	)
	e.status = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "node_status",
			Help:        "Node status: 0 OK, -1 DEGRADED, 1 OVER",
			ConstLabels: constLabels,
		},
		nodeLabels,
	)
	e.cohortSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "cohort_size",
			Help:        "Number of nodes in the cohort",
			ConstLabels: constLabels,
		},
		[]string{"cohort"},
	)
	e.skipped = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "skipped_records",
			Help:        "Inventory records skipped in the last scan",
			ConstLabels: constLabels,
		},
	)
	e.lastScan = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   metricNamespace,
			Name:        "last_scan_timestamp_seconds",
			Help:        "Unix time of the last successful scan",
			ConstLabels: constLabels,
		},
	)
	e.scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "scans_total",
			Help:        "Total number of successful scans",
			ConstLabels: constLabels,
		},
	)
	e.failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   metricNamespace,
			Name:        "scan_failures_total",
			Help:        "Total number of failed scans by error code",
			ConstLabels: constLabels,
		},
		[]string{"code"},
	)
	e.registry.MustRegister(
		e.gpuCount,
		e.expectedCount,
		e.status,
		e.cohortSize,
		e.skipped,
		e.lastScan,
		e.scansTotal,
		e.failuresTotal,
	)
	return e
}

// Handle overwrites the gauges in place and then drops the series of nodes and
// cohorts missing from the report, so a scrape never sees an empty node set.
func (e *PrometheusExporter) Handle(r *types.HealthReport) error {
	nodes := make(map[nodeSeries]struct{}, len(r.Statuses))
	for _, st := range r.Statuses {
		labels := []string{st.Node.Name, st.Node.CohortKey}
		e.gpuCount.WithLabelValues(labels...).Set(float64(st.Node.GpuCount))
		e.expectedCount.WithLabelValues(labels...).Set(float64(st.BaselineCount))
		e.status.WithLabelValues(labels...).Set(statusValues[st.Status])
		nodes[nodeSeries{st.Node.Name, st.Node.CohortKey}] = struct{}{}
	}
	for series := range e.nodes {
		if _, ok := nodes[series]; ok {
			continue
		}
		e.gpuCount.DeleteLabelValues(series[0], series[1])
		e.expectedCount.DeleteLabelValues(series[0], series[1])
		e.status.DeleteLabelValues(series[0], series[1])
	}
	e.nodes = nodes

	cohorts := make(map[string]struct{}, len(r.Cohorts))
	for _, c := range r.Cohorts {
		e.cohortSize.WithLabelValues(c.Key).Set(float64(c.Size))
		cohorts[c.Key] = struct{}{}
	}
	for key := range e.cohorts {
		if _, ok := cohorts[key]; !ok {
			e.cohortSize.DeleteLabelValues(key)
		}
	}
	e.cohorts = cohorts
	e.skipped.Set(float64(r.Skipped))
	e.lastScan.Set(float64(r.Timestamp.Unix()))
	e.scansTotal.Inc()
	return nil
}

// RecordFailure counts a scan that produced no report.
func (e *PrometheusExporter) RecordFailure(err error) {
	code := commonerrors.GetErrorCode(err)
	if code == "" {
		code = commonerrors.InternalError
	}
	e.failuresTotal.WithLabelValues(code).Inc()
}

func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *PrometheusExporter) Name() string {
	return "prometheusExporter"
}
