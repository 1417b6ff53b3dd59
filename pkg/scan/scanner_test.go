/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package scan

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"gotest.tools/assert"

	commonerrors "github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/errors"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/inventory"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

type fakeClock struct {
	now   time.Time
	calls int
}

func (c *fakeClock) Now() time.Time {
	c.calls++
	return c.now
}

type failingSource struct{}

func (failingSource) Fetch(context.Context) (string, error) {
	return "", fmt.Errorf("exit status 1")
}

func (failingSource) Name() string {
	return "scontrol show node"
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 9, 30, 23, 59, 58, 0, time.UTC)}
}

func records(key string, counts ...int) string {
	var b strings.Builder
	for i, c := range counts {
		fmt.Fprintf(&b, "NodeName=%s%03d Gres=gpu:%d State=IDLE\n\n", key, i+1, c)
	}
	return b.String()
}

func TestScanDegraded(t *testing.T) {
	clock := newClock()
	s := NewScannerWithClock(inventory.StaticSource(records("gpu-node-", 8, 8, 8, 5)), nil, nil, "hpc", clock)
	r, err := s.Scan(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, clock.calls, 1)
	assert.Equal(t, r.Timestamp, clock.now)
	assert.Equal(t, r.Cluster, "hpc")
	assert.Assert(t, r.ScanId != "")
	assert.Equal(t, len(r.Statuses), 4)

	st := r.FindStatus("gpu-node-004")
	assert.Equal(t, st.Status, types.StatusDegraded)
	assert.Equal(t, st.Delta, -3)
	assert.Equal(t, st.BaselineCount, 8)
	for _, name := range []string{"gpu-node-001", "gpu-node-002", "gpu-node-003"} {
		assert.Equal(t, r.FindStatus(name).Status, types.StatusOK)
	}
	assert.Equal(t, r.SnapshotName("status_", ".png"), "status_20250930_235958.png")
}

func TestScanTie(t *testing.T) {
	s := NewScannerWithClock(inventory.StaticSource(records("gpu-node-", 4, 4, 6, 6)), nil, nil, "", newClock())
	r, err := s.Scan(context.Background())
	assert.NilError(t, err)
	summary := r.Summary()
	assert.Equal(t, summary.Degraded, 2)
	assert.Equal(t, summary.OK, 2)
	assert.Equal(t, r.Cohorts[0].BaselineCount, 6)
	assert.Equal(t, r.FindStatus("gpu-node-001").Delta, -2)
}

func TestScanSourceUnavailable(t *testing.T) {
	for _, source := range []inventory.Source{failingSource{}, inventory.StaticSource("")} {
		clock := newClock()
		s := NewScannerWithClock(source, nil, nil, "", clock)
		r, err := s.Scan(context.Background())
		assert.Assert(t, r == nil)
		assert.Assert(t, commonerrors.IsSourceUnavailable(err))
		assert.Equal(t, clock.calls, 0)
	}
}

func TestScanNoUsableRecord(t *testing.T) {
	clock := newClock()
	raw := "Arch=x86_64 Gres=gpu:8\n\nslurm_load_node error\n"
	s := NewScannerWithClock(inventory.StaticSource(raw), nil, nil, "", clock)
	r, err := s.Scan(context.Background())
	assert.Assert(t, r == nil)
	assert.Assert(t, commonerrors.IsSourceUnavailable(err))
	assert.Assert(t, strings.Contains(err.Error(), "1 skipped"))
	assert.Equal(t, clock.calls, 0)
}

func TestScanToleratesMalformedRecords(t *testing.T) {
	data, err := os.ReadFile("../inventory/testdata/scontrol_show_node.txt")
	assert.NilError(t, err)
	s := NewScannerWithClock(inventory.StaticSource(data), nil, nil, "", newClock())
	r, err := s.Scan(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(r.Statuses), 10)
	assert.Equal(t, r.Skipped, 1)
	assert.Equal(t, r.FindStatus("g20-04").Status, types.StatusDegraded)
	assert.Equal(t, r.FindStatus("g20-04").Delta, -3)
	// singleton cohorts can not be flagged
	assert.Equal(t, r.FindStatus("g24-09").Status, types.StatusOK)
	assert.Equal(t, r.FindStatus("cpu-01").Status, types.StatusOK)
}

func TestScanDeterministic(t *testing.T) {
	raw := records("b-", 2, 2, 1) + records("a-", 4, 4) + records("c-", 2)
	s := NewScannerWithClock(inventory.StaticSource(raw), nil, nil, "", newClock())
	first, err := s.Scan(context.Background())
	assert.NilError(t, err)
	second, err := s.Scan(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, first.Statuses, second.Statuses)
	assert.Assert(t, first.ScanId != second.ScanId)
}
