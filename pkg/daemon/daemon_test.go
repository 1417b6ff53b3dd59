/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package daemon

import (
	"context"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
)

func setTestConfig(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	config.SetValue("inventory.source", "file")
	config.SetValue("inventory.file", "../inventory/testdata/scontrol_show_node.txt")
	config.SetValue("daemon.cronjob", "@every 1h")
	config.SetValue("exporters.snapshot", false)
	config.SetValue("exporters.prometheus", true)
}

func TestDaemonRun(t *testing.T) {
	setTestConfig(t)
	d, err := NewDaemon(&Options{})
	assert.NilError(t, err)
	assert.Assert(t, d.server == nil)
	assert.Assert(t, d.prometheus != nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- d.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for d.Latest() == nil {
		if time.Now().After(deadline) {
			t.Fatal("no report in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	assert.NilError(t, <-done)

	report := d.Latest()
	assert.Equal(t, len(report.Statuses), 10)
	assert.Equal(t, report.Skipped, 1)
	st := report.FindStatus("g20-04")
	assert.Assert(t, st != nil)
	assert.Equal(t, st.Status, types.StatusDegraded)
	assert.Equal(t, st.Delta, -3)
}

func TestDaemonRunFailsOnBadConfig(t *testing.T) {
	setTestConfig(t)
	config.SetValue("inventory.source", "carrier-pigeon")
	d, err := NewDaemon(&Options{})
	assert.NilError(t, err)
	assert.Assert(t, d.Run(context.Background()) != nil)
}

func TestDaemonWithServer(t *testing.T) {
	setTestConfig(t)
	config.SetValue("exporters.prometheus", false)
	d, err := NewDaemon(&Options{EnableServer: true})
	assert.NilError(t, err)
	assert.Assert(t, d.server != nil)
	assert.Assert(t, d.prometheus == nil)
	d.recordFailure(nil)
}
