/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package types

import (
	"k8s.io/client-go/util/workqueue"
)

type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
	StatusOver     Status = "OVER"
)

// StatusOf maps the difference between observed and expected GPU count to a status.
func StatusOf(delta int) Status {
	switch {
	case delta < 0:
		return StatusDegraded
	case delta > 0:
		return StatusOver
	default:
		return StatusOK
	}
}

// NodeRecord is one node as described by the inventory source.
type NodeRecord struct {
	// The node name, e.g. "gpu-node-012"
	Name string `json:"name"`
	// Nodes sharing a cohort key are expected to carry identical hardware
	CohortKey string `json:"cohortKey"`
	// Number of GPUs reported by the inventory, 0 if the node reports none
	GpuCount int `json:"gpuCount"`
	// GPU model identifier from the resource field, nil if unknown
	GpuModel *string `json:"gpuModel"`
	// The following fields are informational and never drive classification
	Partitions []string `json:"partitions,omitempty"`
	Features   []string `json:"features,omitempty"`
	State      string   `json:"state,omitempty"`
}

func (r NodeRecord) Model() string {
	if r.GpuModel == nil {
		return ""
	}
	return *r.GpuModel
}

type Cohort struct {
	Key     string       `json:"key"`
	Members []NodeRecord `json:"members"`
	// Only set by the baseline estimator
	BaselineCount int `json:"baselineCount"`
}

func (c *Cohort) Counts() []int {
	counts := make([]int, 0, len(c.Members))
	for _, m := range c.Members {
		counts = append(counts, m.GpuCount)
	}
	return counts
}

type NodeStatus struct {
	Node          NodeRecord `json:"node"`
	BaselineCount int        `json:"baselineCount"`
	Status        Status     `json:"status"`
	// GpuCount - BaselineCount
	Delta int `json:"delta"`
}

type ReportQueue workqueue.TypedRateLimitingInterface[*HealthReport]
