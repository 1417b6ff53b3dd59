/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/render"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// SnapshotExporter saves one PNG per report.
type SnapshotExporter struct {
	renderer *render.SnapshotRenderer
}

func NewSnapshotExporter(dir string) *SnapshotExporter {
	return &SnapshotExporter{renderer: render.NewSnapshotRenderer(dir)}
}

func (e *SnapshotExporter) Handle(r *types.HealthReport) error {
	path, err := e.renderer.Save(r)
	if err != nil {
		return err
	}
	klog.Infof("Snapshot saved to: %s", path)
	return nil
}

func (e *SnapshotExporter) Name() string {
	return "snapshotExporter"
}
