/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package classifier

import (
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/cohort"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// Classify compares a node's GPU count with its cohort baseline.
// Equal counts are always OK, including a cohort where every node reports zero GPUs.
func Classify(node types.NodeRecord, baseline int) types.NodeStatus {
	delta := node.GpuCount - baseline
	return types.NodeStatus{
		Node:          node,
		BaselineCount: baseline,
		Status:        types.StatusOf(delta),
		Delta:         delta,
	}
}

// ClassifyCohort classifies every member against the cohort's baseline.
func ClassifyCohort(c *types.Cohort) []types.NodeStatus {
	result := make([]types.NodeStatus, 0, len(c.Members))
	for _, m := range c.Members {
		result = append(result, Classify(m, c.BaselineCount))
	}
	return result
}

func ClassifyAll(cohorts *cohort.Cohorts) []types.NodeStatus {
	result := make([]types.NodeStatus, 0, cohorts.MemberCount())
	for _, c := range cohorts.List() {
		result = append(result, ClassifyCohort(c)...)
	}
	return result
}
