/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package types

import (
	"time"
)

const (
	// Snapshot names sort lexicographically in chronological order with this layout.
	SnapshotTimeLayout = "20060102_150405"
)

// HealthReport is the result of one scan. It is never mutated after assembly.
type HealthReport struct {
	ScanId    string       `json:"scanId"`
	Cluster   string       `json:"cluster,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Statuses  []NodeStatus `json:"statuses"`
	// Cohorts in insertion order
	Cohorts []CohortSummary `json:"cohorts"`
	// Records dropped because no node name could be found
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

type CohortSummary struct {
	Key           string `json:"key"`
	Size          int    `json:"size"`
	BaselineCount int    `json:"baselineCount"`
	Degraded      int    `json:"degraded"`
	Over          int    `json:"over"`
}

type ReportSummary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Degraded int `json:"degraded"`
	Over     int `json:"over"`
}

func (r *HealthReport) Summary() ReportSummary {
	s := ReportSummary{}
	if r == nil {
		return s
	}
	for _, st := range r.Statuses {
		s.Total++
		switch st.Status {
		case StatusOK:
			s.OK++
		case StatusDegraded:
			s.Degraded++
		case StatusOver:
			s.Over++
		}
	}
	return s
}

// IsHealthy returns true if every node matches its cohort baseline.
func (r *HealthReport) IsHealthy() bool {
	s := r.Summary()
	return s.Degraded == 0 && s.Over == 0
}

// SnapshotName returns prefix + sortable timestamp + ext, e.g. "status_20250101_120000.png".
// The timestamp is in UTC so names keep sorting by time across DST changes.
func (r *HealthReport) SnapshotName(prefix, ext string) string {
	return prefix + r.Timestamp.UTC().Format(SnapshotTimeLayout) + ext
}

// FindStatus returns the status of the named node, or nil.
func (r *HealthReport) FindStatus(name string) *NodeStatus {
	if r == nil {
		return nil
	}
	for i := range r.Statuses {
		if r.Statuses[i].Node.Name == name {
			return &r.Statuses[i]
		}
	}
	return nil
}
