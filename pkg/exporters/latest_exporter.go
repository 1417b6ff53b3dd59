/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package exporters

import (
	"sync"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

// LatestExporter keeps the most recent report for the HTTP server.
type LatestExporter struct {
	mu     sync.RWMutex
	latest *types.HealthReport
}

func (e *LatestExporter) Handle(r *types.HealthReport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest = r
	return nil
}

// Latest returns nil before the first report.
func (e *LatestExporter) Latest() *types.HealthReport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest
}

func (e *LatestExporter) Name() string {
	return "latestExporter"
}
