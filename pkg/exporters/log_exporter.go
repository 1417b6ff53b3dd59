/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/report"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// LogExporter logs status transitions between consecutive reports.
type LogExporter struct {
	mu       sync.Mutex
	previous *types.HealthReport
}

func (e *LogExporter) Handle(r *types.HealthReport) error {
	e.mu.Lock()
	prev := e.previous
	e.previous = r
	e.mu.Unlock()

	for _, t := range report.Diff(prev, r) {
		switch {
		case t.Appeared():
			klog.Infof("node %s: %s with %d GPUs", t.Node, t.Current, t.GpuCount)
		case t.Disappeared():
			klog.Infof("node %s: no longer reported, was %s", t.Node, t.Previous)
		default:
			klog.Infof("node %s: %s -> %s, %d GPUs", t.Node, t.Previous, t.Current, t.GpuCount)
		}
	}
	return nil
}

func (e *LogExporter) Name() string {
	return "logExporter"
}
