/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package report

import (
	"sort"
	"time"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// Meta carries the scan-level fields that are not derived from the cohorts.
type Meta struct {
	ScanId   string
	Cluster  string
	Skipped  int
	Warnings []string
}

// Assemble builds the report. Statuses are ordered by cohort insertion order first
// and node name second, so identical input always yields identical output.
func Assemble(ts time.Time, cohorts *cohort.Cohorts, statuses []types.NodeStatus, meta Meta) *types.HealthReport {
	ordered := make([]types.NodeStatus, len(statuses))
	copy(ordered, statuses)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki := cohorts.Index(ordered[i].Node.CohortKey)
		kj := cohorts.Index(ordered[j].Node.CohortKey)
		if ki != kj {
			return ki < kj
		}
		return ordered[i].Node.Name < ordered[j].Node.Name
	})

	summaries := make([]types.CohortSummary, 0, cohorts.Len())
	byKey := make(map[string]int, cohorts.Len())
	for _, c := range cohorts.List() {
		byKey[c.Key] = len(summaries)
		summaries = append(summaries, types.CohortSummary{
			Key:           c.Key,
			Size:          len(c.Members),
			BaselineCount: c.BaselineCount,
		})
	}
	for _, st := range ordered {
		i, ok := byKey[st.Node.CohortKey]
		if !ok {
			continue
		}
		switch st.Status {
		case types.StatusDegraded:
			summaries[i].Degraded++
		case types.StatusOver:
			summaries[i].Over++
		}
	}

	var warnings []string
	if len(meta.Warnings) > 0 {
		warnings = append(warnings, meta.Warnings...)
	}
	return &types.HealthReport{
		ScanId:    meta.ScanId,
		Cluster:   meta.Cluster,
		Timestamp: ts,
		Statuses:  ordered,
		Cohorts:   summaries,
		Skipped:   meta.Skipped,
		Warnings:  warnings,
	}
}

type Transition struct {
	Node     string       `json:"node"`
	Previous types.Status `json:"previous,omitempty"`
	Current  types.Status `json:"current,omitempty"`
	// GPU count in the current report, or in the previous one if the node disappeared
	GpuCount int `json:"gpuCount"`
}

func (t Transition) Appeared() bool {
	return t.Previous == ""
}

func (t Transition) Disappeared() bool {
	return t.Current == ""
}

// Diff lists the nodes whose status changed between two reports, in the order of cur
// followed by the nodes that are gone. A nil prev is treated as an empty report and only
// non-OK nodes of cur are listed.
func Diff(prev, cur *types.HealthReport) []Transition {
	var result []Transition
	if cur == nil {
		return result
	}
	previous := make(map[string]types.NodeStatus)
	if prev != nil {
		for _, st := range prev.Statuses {
			previous[st.Node.Name] = st
		}
	}
	seen := make(map[string]struct{}, len(cur.Statuses))
	for _, st := range cur.Statuses {
		seen[st.Node.Name] = struct{}{}
		old, ok := previous[st.Node.Name]
		switch {
		case !ok && (prev != nil || st.Status != types.StatusOK):
			result = append(result, Transition{Node: st.Node.Name, Current: st.Status, GpuCount: st.Node.GpuCount})
		case ok && (old.Status != st.Status || old.Node.GpuCount != st.Node.GpuCount):
			result = append(result, Transition{Node: st.Node.Name, Previous: old.Status, Current: st.Status, GpuCount: st.Node.GpuCount})
		}
	}
	if prev != nil {
		for _, st := range prev.Statuses {
			if _, ok := seen[st.Node.Name]; !ok {
				result = append(result, Transition{Node: st.Node.Name, Previous: st.Status, GpuCount: st.Node.GpuCount})
			}
		}
	}
	return result
}
